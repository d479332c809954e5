// Package tui is an interactive terminal viewer for generated reports.
package tui

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"grimm.is/fgreport/internal/brand"
	report "grimm.is/fgreport/internal/table"
)

// Model is the viewer state: one tab per report table.
type Model struct {
	Tables []TableModel
	Active int
	Width  int
	Height int
}

// NewModel creates a viewer over tables.
func NewModel(tables ...*report.Table) Model {
	m := Model{}
	for _, t := range tables {
		m.Tables = append(m.Tables, NewTableModel(t))
	}
	return m
}

// Run shows the viewer full screen until the user quits.
func Run(tables ...*report.Table) error {
	_, err := tea.NewProgram(NewModel(tables...), tea.WithAltScreen()).Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.cycle(1)
			return m, nil
		case "shift+tab":
			m.cycle(-1)
			return m, nil
		default:
			if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(m.Tables) {
				m.Active = n - 1
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		// Top bar and margins
		for i := range m.Tables {
			m.Tables[i].SetSize(msg.Width-4, msg.Height-6)
		}
		return m, nil
	}

	if len(m.Tables) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.Tables[m.Active], cmd = m.Tables[m.Active].Update(msg)
	return m, cmd
}

func (m *Model) cycle(step int) {
	if n := len(m.Tables); n > 0 {
		m.Active = (m.Active + step + n) % n
	}
}

// View renders the viewer.
func (m Model) View() string {
	doc := m.ViewTopBar() + "\n"
	if len(m.Tables) == 0 {
		doc += StyleSubtitle.Render("No reports")
	} else {
		doc += m.Tables[m.Active].View()
	}
	doc += "\n" + StyleHelp.Render("tab: next report  arrows: move  q: quit")
	return StyleApp.Render(doc)
}

// ViewTopBar renders one menu item per report.
func (m Model) ViewTopBar() string {
	items := []string{StyleTitle.Render(brand.Name + " ")}
	for i, t := range m.Tables {
		key := StyleMenuKey.Render("[" + strconv.Itoa(i+1) + "]")
		label := t.Source.Title
		if label == "" {
			label = t.Source.Name
		}
		if i == m.Active {
			items = append(items, StyleMenuItemActive.Render(key+" "+label))
		} else {
			items = append(items, StyleMenuItem.Render(key+" "+label))
		}
	}
	return StyleTopBar.Render(lipgloss.JoinHorizontal(lipgloss.Top, items...))
}
