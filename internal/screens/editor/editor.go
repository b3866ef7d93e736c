// Package editor is the template authoring screen: the form fields, the two
// code editors, typeahead for topic and skill, the derived format number,
// sandbox preview, and submission.
package editor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillforge/internal/api"
	"github.com/abhisek/skillforge/internal/assist"
	"github.com/abhisek/skillforge/internal/debounce"
	"github.com/abhisek/skillforge/internal/draft"
	"github.com/abhisek/skillforge/internal/latest"
	"github.com/abhisek/skillforge/internal/router"
	"github.com/abhisek/skillforge/internal/screen"
	"github.com/abhisek/skillforge/internal/screens/skills"
	"github.com/abhisek/skillforge/internal/store"
	"github.com/abhisek/skillforge/internal/suggest"
	"github.com/abhisek/skillforge/internal/ui/components"
	"github.com/abhisek/skillforge/internal/ui/layout"
)

// saveRedirectDelay is how long the success banner stays on screen before
// the editor hands over to the skills overview.
const saveRedirectDelay = 2 * time.Second

// Default editor bodies. A new draft starts from a worked example rather
// than a blank page.
const (
	defaultQuestionTemplate = `# Example: Simple addition question
import random

a = random.randint(1, 10)
b = random.randint(1, 10)

question = f"What is {a} + {b}?"`

	defaultAnswerTemplate = `# Example: Calculate the answer
import random

a = random.randint(1, 10)
b = random.randint(1, 10)

answer = a + b`
)

// Focus order of the form, top to bottom.
const (
	focusGrade = iota
	focusTopic
	focusSkill
	focusType
	focusQuestion
	focusAnswer
	focusCount
)

type formatMsg struct {
	Token  uint64
	Format int
	Err    error
}

type previewMsg struct {
	Result *api.PreviewResult
	Err    error
}

type saveMsg struct {
	Err error
}

type redirectMsg struct{}

type assistMsg struct {
	Drafts *assist.Drafts
	Err    error
}

// EditorScreen drives one draft from empty to saved.
type EditorScreen struct {
	user    string
	client  *api.Client
	saveLog *store.SaveLogRepo
	helper  assist.Generator

	draft *draft.Draft
	graph *draft.Graph

	sched  *debounce.Scheduler
	tokens *latest.Tracker

	topicSuggest *suggest.Controller
	skillSuggest *suggest.Controller

	focus    int
	grade    components.TextInput
	topic    components.TextInput
	skill    components.TextInput
	qtype    components.Select
	question components.CodeArea
	answer   components.CodeArea

	alert   components.Alert
	loading components.Loading

	preview     *api.PreviewResult
	showPreview bool
	saving      bool
	saved       bool
}

var _ screen.Screen = (*EditorScreen)(nil)
var _ screen.KeyHintProvider = (*EditorScreen)(nil)

// New creates an editor for a fresh draft authored by user. helper may be
// nil; the draft shortcut is then disabled.
func New(user string, client *api.Client, saveLog *store.SaveLogRepo, helper assist.Generator) *EditorScreen {
	d := draft.New(user)
	d.QuestionTemplate = defaultQuestionTemplate
	d.AnswerTemplate = defaultAnswerTemplate

	sched := debounce.NewScheduler()
	tokens := latest.NewTracker()

	e := &EditorScreen{
		user:    user,
		client:  client,
		saveLog: saveLog,
		helper:  helper,
		draft:   d,
		graph:   draft.NewGraph(d),
		sched:   sched,
		tokens:  tokens,
	}

	e.topicSuggest = suggest.NewController(draft.FieldTopic, false,
		func(ctx context.Context, q, _ string) ([]string, error) {
			return client.SuggestTopics(ctx, q)
		}, sched, tokens)
	e.skillSuggest = suggest.NewController(draft.FieldSkill, true,
		func(ctx context.Context, q, topic string) ([]string, error) {
			return client.SuggestSkills(ctx, topic, q)
		}, sched, tokens)

	e.grade = components.NewTextInput("Grade", "e.g. 6", true, 2)
	e.topic = components.NewTextInput("Topic", "Start typing for suggestions", false, 60)
	e.skill = components.NewTextInput("Skill", "Pick a topic first", false, 60)
	e.qtype = components.NewSelect("Type", draft.Types)
	e.question = components.NewCodeArea("Question Template", defaultQuestionTemplate, 60, 8)
	e.answer = components.NewCodeArea("Answer Template", defaultAnswerTemplate, 60, 8)
	e.loading = components.NewLoading()

	return e
}

func (e *EditorScreen) Init() tea.Cmd {
	return e.grade.Focus()
}

func (e *EditorScreen) Title() string {
	return "New Template"
}

func (e *EditorScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Ctrl+P", Description: "Preview"},
		{Key: "Ctrl+S", Description: "Save"},
	}
	if e.helper != nil {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+G", Description: "Draft with AI"})
	}
	hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	return hints
}

func (e *EditorScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmds []tea.Cmd

	e.alert.Update(msg)
	var loadCmd tea.Cmd
	e.loading, loadCmd = e.loading.Update(msg)
	if loadCmd != nil {
		cmds = append(cmds, loadCmd)
	}

	switch msg := msg.(type) {
	case debounce.FireMsg:
		cmds = append(cmds, e.topicSuggest.HandleDebounce(msg), e.skillSuggest.HandleDebounce(msg))
		return e, tea.Batch(cmds...)

	case suggest.ResultMsg:
		e.topicSuggest.HandleResult(msg)
		e.skillSuggest.HandleResult(msg)
		return e, tea.Batch(cmds...)

	case suggest.CloseMsg:
		e.topicSuggest.HandleClose(msg)
		e.skillSuggest.HandleClose(msg)
		return e, tea.Batch(cmds...)

	case suggest.BlockedMsg:
		cmds = append(cmds, e.alert.Show(components.AlertWarning, msg.Warning))
		return e, tea.Batch(cmds...)

	case formatMsg:
		if !e.tokens.IsCurrent(draft.FieldFormat, msg.Token) {
			return e, tea.Batch(cmds...)
		}
		if msg.Err != nil {
			cmds = append(cmds, e.alert.Show(components.AlertError, "Failed to calculate format number"))
			return e, tea.Batch(cmds...)
		}
		e.graph.ApplyFormat(msg.Format)
		return e, tea.Batch(cmds...)

	case previewMsg:
		e.loading.Stop()
		if msg.Err != nil {
			cmds = append(cmds, e.alert.Show(components.AlertError, "Preview failed: "+msg.Err.Error()))
			return e, tea.Batch(cmds...)
		}
		e.preview = msg.Result
		e.showPreview = true
		if msg.Result.Failed() {
			cmds = append(cmds, e.alert.Show(components.AlertError, "Preview Error: "+msg.Result.Error))
		}
		return e, tea.Batch(cmds...)

	case saveMsg:
		e.loading.Stop()
		e.saving = false
		if msg.Err != nil {
			cmds = append(cmds, e.alert.Show(components.AlertError, saveFailureMessage(msg.Err)))
			return e, tea.Batch(cmds...)
		}
		e.saved = true
		cmds = append(cmds,
			e.alert.Show(components.AlertSuccess, "Template saved successfully!"),
			tea.Tick(saveRedirectDelay, func(time.Time) tea.Msg { return redirectMsg{} }),
		)
		return e, tea.Batch(cmds...)

	case redirectMsg:
		next := skills.New(e.client)
		cmds = append(cmds, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} })
		return e, tea.Batch(cmds...)

	case assistMsg:
		e.loading.Stop()
		if msg.Err != nil {
			cmds = append(cmds, e.alert.Show(components.AlertError, "Draft failed: "+msg.Err.Error()))
			return e, tea.Batch(cmds...)
		}
		e.question.SetValue(msg.Drafts.QuestionTemplate)
		e.answer.SetValue(msg.Drafts.AnswerTemplate)
		cmds = append(cmds, e.alert.Show(components.AlertSuccess, "Draft inserted — review before saving"))
		return e, tea.Batch(cmds...)

	case tea.KeyMsg:
		if cmd, handled := e.handleKey(msg); handled {
			cmds = append(cmds, cmd)
			return e, tea.Batch(cmds...)
		}
	}

	cmds = append(cmds, e.updateFocused(msg))
	return e, tea.Batch(cmds...)
}

// handleKey deals with navigation, suggestion selection, and the action
// shortcuts. Unhandled keys fall through to the focused widget.
func (e *EditorScreen) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if e.saved {
		// Redirect pending; swallow further edits.
		return nil, true
	}

	switch msg.String() {
	case "esc":
		if e.showPreview {
			e.showPreview = false
			return nil, true
		}
		return func() tea.Msg { return router.PopScreenMsg{} }, true

	case "tab":
		return e.moveFocus(1), true

	case "shift+tab":
		return e.moveFocus(-1), true

	case "up", "down":
		if ctrl := e.focusedSuggest(); ctrl != nil && ctrl.Open() {
			delta := 1
			if msg.String() == "up" {
				delta = -1
			}
			ctrl.MoveCursor(delta)
			return nil, true
		}
		return nil, false

	case "enter":
		if ctrl := e.focusedSuggest(); ctrl != nil {
			if v, ok := ctrl.Commit(); ok {
				return e.commitSuggestion(v), true
			}
		}
		return nil, false

	case "ctrl+p":
		return e.runPreview(), true

	case "ctrl+s":
		return e.submit(), true

	case "ctrl+g":
		return e.runAssist(), true
	}

	return nil, false
}

// focusedSuggest returns the suggestion controller of the focused field,
// or nil when the focused field has none.
func (e *EditorScreen) focusedSuggest() *suggest.Controller {
	switch e.focus {
	case focusTopic:
		return e.topicSuggest
	case focusSkill:
		return e.skillSuggest
	}
	return nil
}

// commitSuggestion applies a selected suggestion to the focused field and
// runs the dependent-field consequences.
func (e *EditorScreen) commitSuggestion(v string) tea.Cmd {
	switch e.focus {
	case focusTopic:
		e.topic.SetValue(v)
		return e.commitTopic(v)
	case focusSkill:
		e.skill.SetValue(v)
		return e.commitSkill(v)
	}
	return nil
}

// commitTopic records a topic choice. A changed topic invalidates the
// dependent skill and format fields before anything else can observe them.
func (e *EditorScreen) commitTopic(v string) tea.Cmd {
	if !e.graph.SetTopic(v) {
		return nil
	}
	e.skill.SetValue("")
	e.tokens.Invalidate(draft.FieldFormat)
	return nil
}

// commitSkill records a skill choice and, when both ancestors are set,
// kicks off the format allocation.
func (e *EditorScreen) commitSkill(v string) tea.Cmd {
	if !e.graph.SetSkill(v) {
		return nil
	}
	return e.allocateFormat()
}

// allocateFormat asks the backend for the next unused format number. The
// reply is applied only if it is still the latest allocation requested.
func (e *EditorScreen) allocateFormat() tea.Cmd {
	if !e.graph.NeedsFormat() {
		e.tokens.Invalidate(draft.FieldFormat)
		return nil
	}

	token := e.tokens.Issue(draft.FieldFormat)
	topic, skillName := e.draft.Topic, e.draft.SkillName
	return func() tea.Msg {
		n, err := e.client.NextFormat(context.Background(), topic, skillName)
		return formatMsg{Token: token, Format: n, Err: err}
	}
}

// moveFocus shifts keyboard focus by delta, wrapping at both ends. Leaving
// the topic or skill field commits its typed text, mirroring a change
// event, and starts the panel's grace-period close.
func (e *EditorScreen) moveFocus(delta int) tea.Cmd {
	var cmds []tea.Cmd

	switch e.focus {
	case focusGrade:
		e.grade.Blur()
	case focusTopic:
		e.topic.Blur()
		cmds = append(cmds, e.commitTopic(strings.TrimSpace(e.topic.Value())), e.topicSuggest.Blur())
	case focusSkill:
		e.skill.Blur()
		cmds = append(cmds, e.commitSkill(strings.TrimSpace(e.skill.Value())), e.skillSuggest.Blur())
	case focusType:
		e.qtype.Blur()
	case focusQuestion:
		e.question.Blur()
	case focusAnswer:
		e.answer.Blur()
	}

	e.focus = (e.focus + delta + focusCount) % focusCount

	switch e.focus {
	case focusGrade:
		cmds = append(cmds, e.grade.Focus())
	case focusTopic:
		cmds = append(cmds, e.topic.Focus())
	case focusSkill:
		cmds = append(cmds, e.skill.Focus(),
			e.skillSuggest.Focused(e.skill.Value(), e.topic.Value()))
	case focusType:
		e.qtype.Focus()
	case focusQuestion:
		cmds = append(cmds, e.question.Focus())
	case focusAnswer:
		cmds = append(cmds, e.answer.Focus())
	}

	return tea.Batch(cmds...)
}

// updateFocused forwards a message to the focused widget and reacts to
// text edits on the typeahead fields.
func (e *EditorScreen) updateFocused(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch e.focus {
	case focusGrade:
		e.grade, cmd = e.grade.Update(msg)
	case focusTopic:
		before := e.topic.Value()
		e.topic, cmd = e.topic.Update(msg)
		if after := e.topic.Value(); after != before {
			cmds = append(cmds, e.topicSuggest.InputChanged(after, ""))
		}
	case focusSkill:
		before := e.skill.Value()
		e.skill, cmd = e.skill.Update(msg)
		if after := e.skill.Value(); after != before {
			cmds = append(cmds, e.skillSuggest.InputChanged(after, e.topic.Value()))
		}
	case focusType:
		e.qtype, cmd = e.qtype.Update(msg)
	case focusQuestion:
		e.question, cmd = e.question.Update(msg)
	case focusAnswer:
		e.answer, cmd = e.answer.Update(msg)
	}

	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

// runPreview sends both editor bodies to the execution sandbox. The
// loading state is released on every exit: validation bail, transport
// failure, execution failure, and success.
func (e *EditorScreen) runPreview() tea.Cmd {
	question := e.question.Value()
	answer := e.answer.Value()
	qtype := e.qtype.Value()

	if strings.TrimSpace(question) == "" || strings.TrimSpace(answer) == "" || qtype == "" {
		return e.alert.Show(components.AlertWarning, "Please fill in question template, answer template, and type")
	}

	req := api.PreviewRequest{
		QuestionTemplate: question,
		AnswerTemplate:   answer,
		Type:             qtype,
	}
	run := func() tea.Msg {
		res, err := e.client.Preview(context.Background(), req)
		return previewMsg{Result: res, Err: err}
	}
	return tea.Batch(e.loading.Start("Running preview..."), run)
}

// submit validates the whole draft and saves it. On success the save is
// logged locally, a banner is shown, and the editor redirects to the
// skills overview after saveRedirectDelay.
func (e *EditorScreen) submit() tea.Cmd {
	if e.saving {
		return nil
	}
	e.syncDraft()

	if missing := e.draft.Missing(); len(missing) > 0 {
		return e.alert.Show(components.AlertWarning,
			"Please fill in all required fields: "+strings.Join(missing, ", "))
	}

	e.saving = true
	tmpl := api.Template{
		Grade:            e.draft.Grade,
		Topic:            e.draft.Topic,
		SkillName:        e.draft.SkillName,
		Format:           e.draft.Format,
		Type:             e.draft.Type,
		QuestionTemplate: e.draft.QuestionTemplate,
		AnswerTemplate:   e.draft.AnswerTemplate,
		CreatedBy:        e.draft.CreatedBy,
		UpdatedBy:        e.draft.UpdatedBy,
	}
	rec := store.SaveRecord{
		Topic:     tmpl.Topic,
		SkillName: tmpl.SkillName,
		Format:    tmpl.Format,
		Type:      tmpl.Type,
		Grade:     tmpl.Grade,
		Author:    tmpl.CreatedBy,
	}
	save := func() tea.Msg {
		ctx := context.Background()
		if err := e.client.SaveTemplate(ctx, tmpl); err != nil {
			return saveMsg{Err: err}
		}
		// History is best effort; a failed log write must not undo a save
		// that already happened.
		_ = e.saveLog.Append(ctx, rec)
		return saveMsg{}
	}
	return tea.Batch(e.loading.Start("Saving template..."), save)
}

// runAssist asks the drafting helper for template bodies seeded from the
// form fields.
func (e *EditorScreen) runAssist() tea.Cmd {
	if e.helper == nil {
		return e.alert.Show(components.AlertWarning, "Drafting helper is not configured")
	}
	e.syncDraft()
	if e.draft.Topic == "" || e.draft.SkillName == "" {
		return e.alert.Show(components.AlertWarning, "Fill in topic and skill before drafting")
	}

	in := assist.Input{
		Topic: e.draft.Topic,
		Skill: e.draft.SkillName,
		Grade: e.draft.Grade,
		Type:  e.draft.Type,
	}
	run := func() tea.Msg {
		d, err := e.helper.GenerateTemplates(context.Background(), in)
		return assistMsg{Drafts: d, Err: err}
	}
	return tea.Batch(e.loading.Start("Drafting templates..."), run)
}

// syncDraft copies the widget values into the draft, the same way the form
// is read at submit time. Topic and skill go through the graph so the
// dependency clearing still applies to text typed without a commit.
func (e *EditorScreen) syncDraft() {
	if n, err := e.grade.NumericValue(); err == nil {
		e.draft.Grade = n
	} else {
		e.draft.Grade = 0
	}
	e.graph.SetTopic(strings.TrimSpace(e.topic.Value()))
	e.graph.SetSkill(strings.TrimSpace(e.skill.Value()))
	e.draft.Type = e.qtype.Value()
	e.draft.QuestionTemplate = e.question.Value()
	e.draft.AnswerTemplate = e.answer.Value()
}

func saveFailureMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, api.ErrSaveRejected) {
		return "Failed to save template"
	}
	return "Save failed: " + err.Error()
}

func prettyJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
