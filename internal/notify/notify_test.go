package notify

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/preston-bernstein/casino-research-dashboard/internal/testutil"
)

func TestNewAssignsIDAndDefaultVariant(t *testing.T) {
	a := New("", "Heads up", "")
	b := New("", "Heads up", "")
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected unique ids, got %q and %q", a.ID, b.ID)
	}
	if a.Variant != VariantDefault {
		t.Fatalf("expected default variant, got %q", a.Variant)
	}
	if Destructive("x", "").Variant != VariantDestructive || Success("x", "").Variant != VariantSuccess || Info("x", "").Variant != VariantInfo {
		t.Fatalf("constructors set the wrong variant")
	}
}

func TestHistoryKeepsNewest(t *testing.T) {
	h := NewHistory(2)
	Multi{h, Discard{}, nil}.Notify(Info("one", ""))
	h.Notify(Info("two", ""))
	h.Notify(Info("three", ""))

	items := h.Items()
	if len(items) != 2 || items[0].Title != "two" || items[1].Title != "three" {
		t.Fatalf("unexpected history %+v", items)
	}
}

func TestRenderIncludesIconTitleAndDescription(t *testing.T) {
	line := Render(Destructive("Error", "Failed to stop research. Please try again."))
	for _, want := range []string{DestructiveIcon, "Error", "Failed to stop research"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	if !strings.Contains(Render(Notification{Title: "plain"}), DefaultIcon) {
		t.Fatalf("expected default icon for unknown variant")
	}
}

func TestPrinterWritesOneLinePerNotification(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.Notify(Success("Success", "Research started successfully"))
	p.Notify(Info("Research completed", ""))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
}

func TestLogNotifierWritesFields(t *testing.T) {
	logger, buf := testutil.NewBufferLoggerAt(slog.LevelDebug)
	Log{Logger: logger}.Notify(Success("Success", "Research started successfully"))
	if !strings.Contains(buf.String(), "variant=success") {
		t.Fatalf("expected variant in log output, got %q", buf.String())
	}
	Log{}.Notify(Info("no logger", ""))
}
