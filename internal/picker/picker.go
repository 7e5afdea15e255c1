// Package picker provides the terminal single-select list used by
// enable and disable when no package argument is given.
package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxVisibleItems = 12

// Item represents a selectable item
type Item struct {
	ID    string
	Label string
}

// Model is the Bubble Tea model for the single-select picker
type Model struct {
	title       string
	items       []Item
	cursor      int
	offset      int
	done        bool
	quitting    bool
	searching   bool
	searchInput textinput.Model
}

// New creates a new picker model
func New(title string, items []Item) Model {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.CharLimit = 50
	ti.Width = 40

	return Model{title: title, items: items, searchInput: ti}
}

// Selected returns the ID of the item under the cursor
func (m Model) Selected() string {
	filtered := m.filtered()
	if len(filtered) > 0 && m.cursor < len(filtered) {
		return filtered[m.cursor].ID
	}
	return ""
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) filtered() []Item {
	query := strings.ToLower(m.searchInput.Value())
	if query == "" {
		return m.items
	}
	var filtered []Item
	for _, item := range m.items {
		if strings.Contains(strings.ToLower(item.Label), query) ||
			strings.Contains(strings.ToLower(item.ID), query) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func (m *Model) adjustScroll() {
	count := len(m.filtered())
	if m.cursor >= count {
		m.cursor = count - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+maxVisibleItems {
		m.offset = m.cursor - maxVisibleItems + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			switch msg.String() {
			case "esc":
				m.searching = false
				m.searchInput.SetValue("")
				m.searchInput.Blur()
				m.cursor, m.offset = 0, 0
				return m, nil
			case "enter":
				m.searching = false
				m.searchInput.Blur()
				return m, nil
			default:
				m.searchInput, cmd = m.searchInput.Update(msg)
				m.cursor, m.offset = 0, 0
				return m, cmd
			}
		}

		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Search):
			m.searching = true
			m.searchInput.Focus()
			return m, textinput.Blink

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			} else {
				m.cursor = len(m.filtered()) - 1
			}
			m.adjustScroll()

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.filtered())-1 {
				m.cursor++
				m.adjustScroll()
			} else {
				m.cursor, m.offset = 0, 0
			}

		case key.Matches(msg, keys.Confirm):
			m.done = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View implements tea.Model
func (m Model) View() string {
	if m.done || m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	faintStyle := lipgloss.NewStyle().Faint(true)

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")

	if m.searching {
		b.WriteString("\n" + m.searchInput.View() + "\n")
	} else if m.searchInput.Value() != "" {
		b.WriteString("\n" + faintStyle.Render("Filter: "+m.searchInput.Value()+" (/ to edit, esc to clear)") + "\n")
	}
	b.WriteString("\n")

	filtered := m.filtered()
	if len(filtered) == 0 {
		b.WriteString(faintStyle.Render("  (no items)") + "\n")
	} else {
		if m.offset > 0 {
			b.WriteString(faintStyle.Render(fmt.Sprintf("  %d more above", m.offset)) + "\n")
		}

		end := m.offset + maxVisibleItems
		if end > len(filtered) {
			end = len(filtered)
		}
		for i := m.offset; i < end; i++ {
			if i == m.cursor {
				b.WriteString(cursorStyle.Render("> ") + activeStyle.Render(filtered[i].Label))
			} else {
				b.WriteString("  " + filtered[i].Label)
			}
			b.WriteString("\n")
		}

		if remaining := len(filtered) - end; remaining > 0 {
			b.WriteString(faintStyle.Render(fmt.Sprintf("  %d more below", remaining)) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(faintStyle.Render("/: filter • enter: select • q: quit"))
	return b.String()
}

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Search  key.Binding
	Confirm key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k")),
	Down:    key.NewBinding(key.WithKeys("down", "j")),
	Search:  key.NewBinding(key.WithKeys("/")),
	Confirm: key.NewBinding(key.WithKeys("enter")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c")),
}

// Run runs the picker and returns the selected item ID, empty on quit
func Run(title string, items []Item) (string, error) {
	p := tea.NewProgram(New(title, items))

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	fm := finalModel.(Model)
	if fm.quitting {
		return "", nil
	}
	return fm.Selected(), nil
}
