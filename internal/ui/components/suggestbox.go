package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillforge/internal/ui/theme"
)

// RenderSuggestions draws the typeahead panel under an input: one row per
// suggestion, the cursor row highlighted. The caller decides visibility;
// an empty list renders nothing.
func RenderSuggestions(items []string, cursor, width int) string {
	if len(items) == 0 {
		return ""
	}

	rows := make([]string, 0, len(items))
	for i, item := range items {
		line := " " + item + " "
		if i == cursor {
			rows = append(rows, lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.Primary).
				Width(width).
				Render("▸"+line))
		} else {
			rows = append(rows, lipgloss.NewStyle().
				Foreground(theme.Text).
				Width(width).
				Render(" "+line))
		}
	}

	return theme.SuggestionBox.Render(strings.Join(rows, "\n"))
}
