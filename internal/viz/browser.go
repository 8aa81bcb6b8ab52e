package viz

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/guisoares9/tradespace-designer/internal/feasibility"
	"github.com/guisoares9/tradespace-designer/internal/tradespace"
)

// Browser is a Bubble Tea model over the candidates of one sweep.
type Browser struct {
	result   *tradespace.SweepResult
	theme    Theme
	styles   Styles
	rows     []tradespace.Candidate
	showAll  bool
	sortBy   int // index into sortKeys
	sortKeys []string
	cursor   int
	offset   int
	detail   bool
	width    int
	height   int
}

func NewBrowser(r *tradespace.SweepResult) Browser {
	keys := []string{"index"}
	for _, o := range r.Objectives {
		keys = append(keys, o.Metric)
	}
	if len(r.Candidates) > 0 && r.Candidates[0].Utility != 0 {
		keys = append(keys, "utility")
	}
	b := Browser{
		result:   r,
		theme:    Themes[0],
		styles:   NewStyles(Themes[0]),
		sortKeys: keys,
		width:    100,
		height:   24,
	}
	b.refresh()
	return b
}

// RunBrowser opens the browser full screen.
func RunBrowser(r *tradespace.SweepResult) error {
	_, err := tea.NewProgram(NewBrowser(r), tea.WithAltScreen()).Run()
	return err
}

func (b *Browser) refresh() {
	if b.showAll {
		b.rows = append([]tradespace.Candidate(nil), b.result.Candidates...)
	} else {
		b.rows = append([]tradespace.Candidate(nil), b.result.Front...)
	}
	key := b.sortKeys[b.sortBy]
	desc := key == "utility"
	for _, o := range b.result.Objectives {
		if o.Metric == key {
			desc = o.Direction.String() == "maximize"
		}
	}
	sort.SliceStable(b.rows, func(i, j int) bool {
		vi, vj := sortValue(b.rows[i], key), sortValue(b.rows[j], key)
		if vi == vj {
			return b.rows[i].Index < b.rows[j].Index
		}
		if desc {
			return vi > vj
		}
		return vi < vj
	})
	if b.cursor >= len(b.rows) {
		b.cursor = max(len(b.rows)-1, 0)
	}
}

func sortValue(c tradespace.Candidate, key string) float64 {
	switch key {
	case "index":
		return float64(c.Index)
	case "utility":
		return c.Utility
	}
	if c.Status == tradespace.StatusUnevaluable {
		return 0
	}
	v, _ := c.Result.Metric(key)
	return v
}

func (b Browser) Init() tea.Cmd { return nil }

func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return b, tea.Quit
		case "esc":
			if b.detail {
				b.detail = false
				return b, nil
			}
			return b, tea.Quit
		case "up", "k":
			if b.cursor > 0 {
				b.cursor--
			}
		case "down", "j":
			if b.cursor < len(b.rows)-1 {
				b.cursor++
			}
		case "tab":
			b.showAll = !b.showAll
			b.cursor, b.offset = 0, 0
			b.refresh()
		case "s":
			b.sortBy = (b.sortBy + 1) % len(b.sortKeys)
			b.refresh()
		case "t":
			b.theme = nextTheme(b.theme)
			b.styles = NewStyles(b.theme)
		case "enter":
			b.detail = !b.detail && len(b.rows) > 0
		}
	}
	b.scroll()
	return b, nil
}

func (b *Browser) visibleRows() int {
	return max(b.height-8, 3)
}

func (b *Browser) scroll() {
	n := b.visibleRows()
	if b.cursor < b.offset {
		b.offset = b.cursor
	}
	if b.cursor >= b.offset+n {
		b.offset = b.cursor - n + 1
	}
}

// Selected returns the candidate under the cursor.
func (b Browser) Selected() (tradespace.Candidate, bool) {
	if len(b.rows) == 0 {
		return tradespace.Candidate{}, false
	}
	return b.rows[b.cursor], true
}

func (b Browser) View() string {
	s := b.styles
	view := "front"
	if b.showAll {
		view = "all candidates"
	}
	title := s.Title.Render("tradespace") + s.Subtle.Render(fmt.Sprintf("  %s · %d rows · sort: %s · theme: %s",
		view, len(b.rows), b.sortKeys[b.sortBy], b.theme.Name))

	if c, ok := b.Selected(); ok && b.detail {
		return lipgloss.JoinVertical(lipgloss.Left,
			title,
			RenderPerformance(s, fmt.Sprintf("candidate %d (%s)", c.Index, c.Status), c.Configuration, c.Result, verdictOf(c)),
			s.KeyHint.Render("enter/esc back · q quit"),
		)
	}

	table := FrontTable(s, b.result, nil, 0)
	lines := []string{table[0]}
	end := min(b.offset+b.visibleRows(), len(b.rows))
	for i := b.offset; i < end; i++ {
		body := FrontTable(s, b.result, b.rows[i:i+1], 0)[1]
		marker := "  "
		switch {
		case i == b.cursor:
			marker = "▸ "
			body = s.Selected.Render(body)
		case b.rows[i].Status == tradespace.StatusRejected:
			body = s.Rejected.Render(body)
		case b.rows[i].Status == tradespace.StatusUnevaluable:
			body = s.Unevaluable.Render(body)
		}
		lines = append(lines, marker+body)
	}
	if len(b.rows) == 0 {
		lines = append(lines, s.Subtle.Render("  no candidates"))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		s.Separator(min(b.width, 100)),
		strings.Join(lines, "\n"),
		s.KeyHint.Render("↑/↓ move · tab front/all · s sort · t theme · enter detail · q quit"),
	)
}

func verdictOf(c tradespace.Candidate) feasibility.Verdict {
	if c.Status == tradespace.StatusUnevaluable {
		return feasibility.Verdict{Violations: []feasibility.Violation{{Message: c.Error}}}
	}
	return c.Verdict
}
