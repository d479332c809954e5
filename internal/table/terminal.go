package table

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
)

var (
	colorAccent = lipgloss.Color("#A8D8EA")
	colorMuted  = lipgloss.Color("#596E79")

	styleTitle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	styleHeader = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
	styleEmpty  = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
)

// Render draws t as a bordered terminal table.
func Render(w io.Writer, t *Table, opts Options) error {
	if t.Title != "" {
		if _, err := fmt.Fprintln(w, styleTitle.Render(t.Title)); err != nil {
			return err
		}
	}
	if len(t.Rows) == 0 {
		_, err := fmt.Fprintln(w, styleEmpty.Render("No rows"))
		return err
	}

	tbl := ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return styleHeader
			}
			return styleCell
		}).
		Rows(t.Rows...)
	if !opts.SkipHeader {
		tbl = tbl.Headers(t.Headers...)
	}

	_, err := fmt.Fprintln(w, tbl.Render())
	return err
}
