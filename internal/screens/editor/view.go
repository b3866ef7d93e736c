package editor

import (
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillforge/internal/suggest"
	"github.com/abhisek/skillforge/internal/ui/components"
	"github.com/abhisek/skillforge/internal/ui/theme"
)

func (e *EditorScreen) View(width, height int) string {
	inner := width - 8
	if inner < 40 {
		inner = 40
	}
	half := (inner - 4) / 2
	areaHeight := 8
	if height < 30 {
		areaHeight = 5
	}
	e.question.SetSize(half, areaHeight)
	e.answer.SetSize(half, areaHeight)

	var sections []string

	if e.alert.Visible() {
		sections = append(sections, e.alert.View(inner))
	}
	if e.loading.Active() {
		sections = append(sections, e.loading.View())
	}

	sections = append(sections, e.metaRow())
	sections = append(sections, e.fieldWithSuggestions(e.topic.View(), e.topicSuggest, focusTopic, half))
	sections = append(sections, e.fieldWithSuggestions(e.skill.View(), e.skillSuggest, focusSkill, half))
	sections = append(sections, "")

	editors := lipgloss.JoinHorizontal(lipgloss.Top,
		e.question.View(), "    ", e.answer.View())
	sections = append(sections, editors)

	if e.showPreview && e.preview != nil {
		sections = append(sections, "", e.previewPanel(inner))
	}

	card := theme.Card.Width(inner + 4).Render(strings.Join(sections, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, card)
}

// metaRow lays out grade, type, and the derived format on one line.
func (e *EditorScreen) metaRow() string {
	format := theme.Hint.Render("(auto)")
	if e.draft.Format > 0 {
		format = theme.Body.Render(strconv.Itoa(e.draft.Format))
	}
	return e.grade.View() + "      " + e.qtype.View() + "      " +
		theme.FieldBlurred.Render("Format") + " " + format
}

// fieldWithSuggestions renders an input and, when it is focused with an
// open panel, the typeahead list right under it.
func (e *EditorScreen) fieldWithSuggestions(field string, ctrl *suggest.Controller, focus, width int) string {
	if e.focus != focus || !ctrl.Open() {
		return field
	}
	return field + "\n" + components.RenderSuggestions(ctrl.Items(), ctrl.Cursor(), width)
}

// previewPanel renders the sandbox outcome: the generated question and
// answer on success, the execution error otherwise.
func (e *EditorScreen) previewPanel(width int) string {
	var body []string
	body = append(body, theme.Label.Render("Preview")+theme.Hint.Render("  (esc to close)"))

	if e.preview.Failed() {
		kind := e.preview.ErrorType
		if kind == "" {
			kind = "ExecutionError"
		}
		body = append(body,
			lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render(kind),
			lipgloss.NewStyle().Foreground(theme.Error).Render(e.preview.Error))
	} else {
		body = append(body,
			theme.Label.Render("Question"),
			theme.Body.Render(prettyJSON(e.preview.Question)),
			"",
			theme.Label.Render("Answer"),
			theme.Body.Render(prettyJSON(e.preview.Answer)))
	}

	return theme.Panel.Width(width).Render(strings.Join(body, "\n"))
}
