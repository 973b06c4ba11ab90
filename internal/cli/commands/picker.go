package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/regaudit/pkg/audit"
)

type pickerKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	All     key.Binding
	Confirm key.Binding
	Quit    key.Binding
}

var pickerKeys = pickerKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "x"),
		key.WithHelp("space", "toggle"),
	),
	All: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "toggle all"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "run"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "esc", "q"),
		key.WithHelp("q", "quit"),
	),
}

func (k pickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.All, k.Confirm, k.Quit}
}

func (k pickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var (
	pickerTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	pickerCursor = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	pickerMuted  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// pickerModel is a multi-select list of rule categories. Confirming with
// nothing chosen runs every category.
type pickerModel struct {
	cats   []audit.CategoryRules
	cursor int
	chosen map[int]bool

	keys pickerKeyMap
	help help.Model

	confirmed bool
}

func newPickerModel(cats []audit.CategoryRules) pickerModel {
	return pickerModel{
		cats:   cats,
		chosen: make(map[int]bool),
		keys:   pickerKeys,
		help:   help.New(),
	}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Confirm):
			m.confirmed = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.cats)-1 {
				m.cursor++
			}

		case key.Matches(msg, m.keys.Toggle):
			m.chosen[m.cursor] = !m.chosen[m.cursor]

		case key.Matches(msg, m.keys.All):
			all := len(m.picked()) < len(m.cats)
			for i := range m.cats {
				m.chosen[i] = all
			}
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder
	b.WriteString(pickerTitle.Render("Select rule categories"))
	b.WriteString("\n\n")

	for i, c := range m.cats {
		cursor := "  "
		if i == m.cursor {
			cursor = pickerCursor.Render("> ")
		}
		check := "[ ]"
		if m.chosen[i] {
			check = "[x]"
		}
		fmt.Fprintf(&b, "%s%s %s %s\n", cursor, check, c.Name,
			pickerMuted.Render(fmt.Sprintf("(%d rules)", len(c.Rules))))
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m pickerModel) picked() []int {
	var out []int
	for i := range m.cats {
		if m.chosen[i] {
			out = append(out, i)
		}
	}
	return out
}

// Selection returns the chosen categories.
func (m pickerModel) Selection() audit.Selection {
	return selectionOf(m.cats, m.picked())
}

// runPicker shows the picker and returns the confirmed selection.
func runPicker(cats []audit.CategoryRules, in io.Reader, out io.Writer) (audit.Selection, error) {
	p := tea.NewProgram(newPickerModel(cats), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return audit.Selection{}, fmt.Errorf("category picker failed: %w", err)
	}
	m, ok := final.(pickerModel)
	if !ok || !m.confirmed {
		return audit.Selection{}, errAborted
	}
	return m.Selection(), nil
}
