package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"wordsmith/internal/types"
	"wordsmith/internal/view"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	resultStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	codeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))

	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))

	tileBase = lipgloss.NewStyle().Bold(true).Padding(0, 1)

	tileStyles = map[types.Feedback]lipgloss.Style{
		types.FeedbackGreen:  tileBase.Foreground(lipgloss.Color("15")).Background(lipgloss.Color("28")),
		types.FeedbackYellow: tileBase.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("178")),
		types.FeedbackGrey:   tileBase.Foreground(lipgloss.Color("15")).Background(lipgloss.Color("240")),
	}
	tileTyped = tileBase.Foreground(lipgloss.Color("15")).Background(lipgloss.Color("236"))
	tileEmpty = tileBase.Foreground(lipgloss.Color("238"))
)

func renderTile(c view.Cell) string {
	if style, ok := tileStyles[c.Feedback]; ok {
		return style.Render(c.Letter)
	}
	if c.Filled {
		return tileTyped.Render(c.Letter)
	}
	return tileEmpty.Render("·")
}

// renderBoard draws one line per row. Wide boards drop the gap between tiles.
func renderBoard(m view.Model) string {
	gap := " "
	if m.LongWord {
		gap = ""
	}
	rows := make([]string, len(m.Board))
	for r, row := range m.Board {
		tiles := make([]string, len(row))
		for i, c := range row {
			tiles[i] = renderTile(c)
		}
		marker := "  "
		if r == m.ActiveRow {
			marker = "> "
		}
		rows[r] = marker + strings.Join(tiles, gap)
	}
	return strings.Join(rows, "\n")
}

func renderSuggestions(m view.Model) string {
	if !m.ShowSuggestions {
		return ""
	}
	lines := make([]string, len(m.Suggestions))
	for i, w := range m.Suggestions {
		if i == m.Selected {
			lines[i] = selectedStyle.Render("> " + w)
		} else {
			lines[i] = "  " + w
		}
	}
	return strings.Join(lines, "\n")
}
