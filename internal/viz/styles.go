package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the lipgloss styles derived from one theme.
type Styles struct {
	Panel       lipgloss.Style
	Title       lipgloss.Style
	Header      lipgloss.Style
	Label       lipgloss.Style
	Value       lipgloss.Style
	Subtle      lipgloss.Style
	KeyHint     lipgloss.Style
	Selected    lipgloss.Style
	Feasible    lipgloss.Style
	Rejected    lipgloss.Style
	Unevaluable lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Secondary),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Text).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Border),
		Label:   lipgloss.NewStyle().Foreground(t.Muted),
		Value:   lipgloss.NewStyle().Foreground(t.Secondary).Bold(true),
		Subtle:  lipgloss.NewStyle().Foreground(t.Muted),
		KeyHint: lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary),
		Feasible:    lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		Rejected:    lipgloss.NewStyle().Foreground(t.Warning),
		Unevaluable: lipgloss.NewStyle().Foreground(t.Error),
	}
}

// DefaultStyles uses the first theme.
func DefaultStyles() Styles { return NewStyles(Themes[0]) }

// ProgressBar renders a filled bar for a fraction in [0, 1]; above warn the
// bar switches to the warning color.
func (s Styles) ProgressBar(fraction, warn float64, width int) string {
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if fraction > warn {
		return s.Rejected.Render(bar)
	}
	return s.Feasible.Render(bar)
}

// Sparkline renders values as block characters, one per value, sampled to
// width.
func (s Styles) Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}
	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / span
		idx := int(norm * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))
		b.WriteRune(chars[idx])
	}
	return s.Value.Render(b.String())
}

// Separator draws a muted rule of the given width.
func (s Styles) Separator(width int) string {
	if width < 8 {
		return s.Subtle.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	return s.Subtle.Render(strings.Repeat("─", mid-3) + " ◆ " + strings.Repeat("─", width-mid-3))
}

func (s Styles) row(label, value string) string {
	return s.Label.Render(padRight(label, 20)) + s.Value.Render(value)
}

func padRight(s string, n int) string {
	if w := lipgloss.Width(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}
