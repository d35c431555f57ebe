package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	SuccessColor = lipgloss.Color("#4ECDC4")
	WarningColor = lipgloss.Color("#FFE66D")
	ErrorColor   = lipgloss.Color("#FF6B6B")
	InfoColor    = lipgloss.Color("#95E1D3")
	SubtleColor  = lipgloss.Color("#666666")

	titleStyle       = lipgloss.NewStyle().Bold(true)
	descriptionStyle = lipgloss.NewStyle().Foreground(SubtleColor)

	variantStyles = map[Variant]lipgloss.Style{
		VariantDefault:     lipgloss.NewStyle(),
		VariantSuccess:     lipgloss.NewStyle().Foreground(SuccessColor),
		VariantDestructive: lipgloss.NewStyle().Foreground(ErrorColor),
		VariantWarning:     lipgloss.NewStyle().Foreground(WarningColor),
		VariantInfo:        lipgloss.NewStyle().Foreground(InfoColor),
	}
)

// Icons.
const (
	DefaultIcon     = "•"
	SuccessIcon     = "✓"
	DestructiveIcon = "✗"
	WarningIcon     = "⚠️"
	InfoIcon        = "ℹ️"
)

func icon(v Variant) string {
	switch v {
	case VariantSuccess:
		return SuccessIcon
	case VariantDestructive:
		return DestructiveIcon
	case VariantWarning:
		return WarningIcon
	case VariantInfo:
		return InfoIcon
	default:
		return DefaultIcon
	}
}

// Render formats a notification as a single styled line.
func Render(n Notification) string {
	style, ok := variantStyles[n.Variant]
	if !ok {
		style = variantStyles[VariantDefault]
	}
	line := style.Render(icon(n.Variant) + " " + titleStyle.Render(n.Title))
	if n.Description != "" {
		line += " " + descriptionStyle.Render(n.Description)
	}
	return line
}

// Printer writes rendered notifications to an io.Writer, one per line.
type Printer struct {
	mu  sync.Mutex
	out io.Writer
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

func (p *Printer) Notify(n Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, Render(n))
}
