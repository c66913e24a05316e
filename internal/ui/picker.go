// Package ui implements the interactive picker: a filter-as-you-type list
// that re-runs the query engine on every keystroke.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/raphi011/vsx/internal/item"
)

var (
	selectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true)
	unselectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cursorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true)
)

// Querier runs a ranked query; the engine satisfies this.
type Querier interface {
	Query(ctx context.Context, query string) []item.Scored
	Ready() bool
}

// Result is the outcome of a picker session.
type Result struct {
	Item      item.Item
	Selected  bool
	Cancelled bool
}

// refreshMsg re-runs the query while the engine is still bootstrapping,
// so the loading row disappears without a keystroke.
type refreshMsg struct{}

// pickerModel is the bubbletea model for item selection.
type pickerModel struct {
	ctx       context.Context
	engine    Querier
	results   []item.Scored
	textInput textinput.Model
	cursor    int
	selected  *item.Item
	cancelled bool
	yanked    string
	maxHeight int
}

func newPickerModel(ctx context.Context, engine Querier) pickerModel {
	ti := textinput.New()
	ti.Placeholder = "Type to search workspaces and hosts..."
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 50
	ti.PromptStyle = cursorStyle

	return pickerModel{
		ctx:       ctx,
		engine:    engine,
		results:   engine.Query(ctx, ""),
		textInput: ti,
		maxHeight: 12,
	}
}

func (m pickerModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.tickWhileLoading())
}

// tickWhileLoading schedules periodic re-queries until the engine is ready.
func (m pickerModel) tickWhileLoading() tea.Cmd {
	if m.engine.Ready() {
		return nil
	}
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return refreshMsg{}
	})
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		m.results = m.engine.Query(m.ctx, m.textInput.Value())
		return m, m.tickWhileLoading()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit

		case "enter":
			if len(m.results) > 0 && m.cursor < len(m.results) {
				if it := m.results[m.cursor].Item; it.Kind != item.KindStatus {
					m.selected = &it
					return m, tea.Quit
				}
			}
			return m, nil

		case "ctrl+y":
			if len(m.results) > 0 && m.cursor < len(m.results) {
				target := m.results[m.cursor].Item.Target
				if err := clipboard.WriteAll(target); err == nil {
					m.yanked = target
				}
			}
			return m, nil

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "ctrl+n":
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)

	m.results = m.engine.Query(m.ctx, m.textInput.Value())
	m.yanked = ""
	if m.cursor >= len(m.results) {
		m.cursor = max(0, len(m.results)-1)
	}

	return m, cmd
}

func (m pickerModel) View() string {
	var b strings.Builder

	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	if len(m.results) == 0 {
		b.WriteString(dimStyle.Render("  no matches"))
		b.WriteString("\n")
	}

	start := 0
	if m.cursor >= m.maxHeight {
		start = m.cursor - m.maxHeight + 1
	}
	end := min(start+m.maxHeight, len(m.results))

	for i := start; i < end; i++ {
		res := m.results[i]
		line := m.renderLine(res, i == m.cursor)
		b.WriteString(line)
		b.WriteString("\n")
	}
	if end < len(m.results) {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  … %d more", len(m.results)-end)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.yanked != "" {
		b.WriteString(dimStyle.Render("copied " + m.yanked))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("enter open · ctrl+y copy path · esc cancel"))
	b.WriteString("\n")

	return b.String()
}

func (m pickerModel) renderLine(res item.Scored, current bool) string {
	it := res.Item

	if it.Kind == item.KindStatus {
		return "  " + statusStyle.Render(it.Title)
	}

	var det []string
	if label := it.Kind.Label(); label != "" {
		det = append(det, label)
	}
	if it.Remote != "" {
		det = append(det, it.Remote)
	}
	if it.Kind == item.KindMachine {
		if it.User != "" {
			det = append(det, it.User+"@"+it.Host)
		} else if it.Host != it.Title {
			det = append(det, it.Host)
		}
	} else if it.Target != it.Title {
		det = append(det, it.Target)
	}
	detail := dimStyle.Render(strings.Join(det, " · "))

	if current {
		return cursorStyle.Render("> ") + selectedStyle.Render(it.Title) + " " + detail
	}
	return "  " + unselectedStyle.Render(it.Title) + " " + detail
}

// Pick runs the interactive picker and returns the user's selection.
func Pick(ctx context.Context, engine Querier) (Result, error) {
	model := newPickerModel(ctx, engine)

	p := tea.NewProgram(model, tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return Result{}, fmt.Errorf("run picker: %w", err)
	}

	m, ok := final.(pickerModel)
	if !ok {
		return Result{Cancelled: true}, nil
	}
	if m.cancelled || m.selected == nil {
		return Result{Cancelled: true}, nil
	}
	return Result{Item: *m.selected, Selected: true}, nil
}
