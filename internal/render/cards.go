package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/nearbychat/internal/models"
)

// cardWidth is the width of a single card including padding, excluding border
const cardWidth = 28

// CardLines returns the three text lines of a result card: the name, the
// phone line and the distance line.
func CardLines(card models.ResultCard) []string {
	return []string{
		card.Name,
		"📞 " + card.Phone(),
		"📍 " + card.DistanceText() + " " + models.DistanceUnit,
	}
}

// CardText renders the cards as plain text blocks separated by blank lines.
func CardText(results []models.ResultCard) string {
	blocks := make([]string, 0, len(results))
	for _, card := range results {
		blocks = append(blocks, strings.Join(CardLines(card), "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

// Cards lays the result cards out in a grid that wraps to fit width.
// An empty result list renders nothing.
func Cards(results []models.ResultCard, width int) string {
	if len(results) == 0 {
		return ""
	}

	theme := GetTUITheme()
	inner := cardWidth
	if width > 0 && width-2 < inner {
		inner = max(width-2, 8)
	}

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Width(inner)
	nameStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	detailStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	rendered := make([]string, len(results))
	for i, card := range results {
		lines := CardLines(card)
		rendered[i] = box.Render(lipgloss.JoinVertical(lipgloss.Left,
			nameStyle.Render(lines[0]),
			detailStyle.Render(lines[1]),
			detailStyle.Render(lines[2]),
		))
	}

	perRow := 1
	if cellWidth := lipgloss.Width(rendered[0]) + 1; width > 0 {
		perRow = max(1, (width+1)/cellWidth)
	}

	var rows []string
	for start := 0; start < len(rendered); start += perRow {
		end := min(start+perRow, len(rendered))
		row := make([]string, 0, 2*(end-start))
		for i := start; i < end; i++ {
			if i > start {
				row = append(row, " ")
			}
			row = append(row, rendered[i])
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
