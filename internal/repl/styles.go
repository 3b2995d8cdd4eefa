package repl

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	primaryColor = lipgloss.Color("#4ECDC4")
	successColor = lipgloss.Color("#4ECDC4")
	warningColor = lipgloss.Color("#FFE66D")
	errorColor   = lipgloss.Color("#FF6B6B")
	infoColor    = lipgloss.Color("#95E1D3")
	subtleColor  = lipgloss.Color("#666666")
)

const (
	successIcon = "✅"
	errorIcon   = "❌"
	warningIcon = "⚠️"
	infoIcon    = "ℹ️"
)

// styles are bound to the output writer so colour is only emitted when it is
// a terminal.
type styles struct {
	title   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
	info    lipgloss.Style
	subtle  lipgloss.Style
	bold    lipgloss.Style
	bar     lipgloss.Style
	overBar lipgloss.Style
	prompt  lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(primaryColor),
		success: r.NewStyle().Foreground(successColor),
		warning: r.NewStyle().Foreground(warningColor),
		err:     r.NewStyle().Foreground(errorColor),
		info:    r.NewStyle().Foreground(infoColor),
		subtle:  r.NewStyle().Foreground(subtleColor),
		bold:    r.NewStyle().Bold(true),
		bar:     r.NewStyle().Foreground(successColor),
		overBar: r.NewStyle().Foreground(errorColor),
		prompt:  r.NewStyle().Bold(true).Foreground(primaryColor),
	}
}

func (s styles) formatSuccess(msg string) string {
	return s.success.Render(successIcon + " " + msg)
}

func (s styles) formatError(msg string) string {
	return s.err.Render(errorIcon + " " + msg)
}

func (s styles) formatWarning(msg string) string {
	return s.warning.Render(warningIcon + " " + msg)
}

func (s styles) formatInfo(msg string) string {
	return s.info.Render(infoIcon + "  " + msg)
}
