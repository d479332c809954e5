package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	report "grimm.is/fgreport/internal/table"
)

// MaxColumnWidth caps the width of a rendered column. Longer cells are
// truncated with "...".
const MaxColumnWidth = 40

// TableModel wraps bubbles/table around one report table.
type TableModel struct {
	Source *report.Table
	table  table.Model
	width  int
	height int
}

// NewTableModel creates a table model for t.
func NewTableModel(t *report.Table) TableModel {
	widths := columnWidths(t)
	columns := make([]table.Column, len(t.Headers))
	for i, h := range t.Headers {
		columns[i] = table.Column{Title: h, Width: widths[i]}
	}

	rows := make([]table.Row, len(t.Rows))
	for i, r := range t.Rows {
		row := make(table.Row, len(columns))
		for j := range columns {
			if j < len(r) {
				row[j] = truncate(r[j], widths[j])
			}
		}
		rows[i] = row
	}

	tbl := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorDeep).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(ColorDark).
		Background(ColorIce).
		Bold(false)
	tbl.SetStyles(s)

	return TableModel{Source: t, table: tbl}
}

// SetSize updates the table dimensions.
func (m *TableModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	// Title, header and border
	if h := height - 6; h > 1 {
		m.table.SetHeight(h)
	}
	if width > 4 {
		m.table.SetWidth(width - 4)
	}
}

// Update forwards navigation keys to the table.
func (m TableModel) Update(msg tea.Msg) (TableModel, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the titled table.
func (m TableModel) View() string {
	var b strings.Builder
	if m.Source.Title != "" {
		b.WriteString(StyleTitle.Render(m.Source.Title))
		b.WriteString("\n")
	}
	b.WriteString(m.table.View())
	if len(m.Source.Rows) == 0 {
		b.WriteString("\n")
		b.WriteString(StyleSubtitle.Render("No rows"))
	}
	return StyleCard.Render(b.String())
}

// SelectedRow returns the untruncated cells of the row under the cursor.
func (m TableModel) SelectedRow() []string {
	idx := m.table.Cursor()
	if idx >= 0 && idx < len(m.Source.Rows) {
		return m.Source.Rows[idx]
	}
	return nil
}

// SelectedIndex returns the cursor position.
func (m TableModel) SelectedIndex() int {
	return m.table.Cursor()
}

// columnWidths sizes every column to its widest cell, capped at
// MaxColumnWidth.
func columnWidths(t *report.Table) []int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range t.Rows {
		for i := range widths {
			if i < len(r) {
				widths[i] = max(widths[i], lipgloss.Width(r[i]))
			}
		}
	}
	for i := range widths {
		widths[i] = min(max(widths[i], 2), MaxColumnWidth)
	}
	return widths
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}
