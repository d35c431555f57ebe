package apiclient

import (
	"net/http"
	"testing"
	"time"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestNormalizeBaseURL(t *testing.T) {
	if got := normalizeBaseURL(""); got != defaultBaseURL {
		t.Fatalf("expected default base url, got %s", got)
	}
	if got := normalizeBaseURL(" http://api.local/ "); got != "http://api.local" {
		t.Fatalf("expected trimmed base url, got %s", got)
	}
}

func TestResolveTimeout(t *testing.T) {
	if got := resolveTimeout(0); got != defaultTimeout {
		t.Fatalf("expected default timeout, got %s", got)
	}
	if got := resolveTimeout(time.Second); got != time.Second {
		t.Fatalf("expected 1s timeout, got %s", got)
	}
}

func TestJoinURL(t *testing.T) {
	if got := joinURL("http://api.local", "users"); got != "http://api.local/users" {
		t.Fatalf("unexpected url %s", got)
	}
	if got := joinURL("http://api.local", "/users"); got != "http://api.local/users" {
		t.Fatalf("unexpected url %s", got)
	}
}

func TestResolveHTTPClientKeepsProvided(t *testing.T) {
	custom := &http.Client{}
	if got := resolveHTTPClient(custom); got != custom {
		t.Fatalf("expected provided client to be used")
	}
}
