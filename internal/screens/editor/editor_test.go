package editor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillforge/internal/api"
	"github.com/abhisek/skillforge/internal/assist"
	"github.com/abhisek/skillforge/internal/debounce"
	"github.com/abhisek/skillforge/internal/router"
	"github.com/abhisek/skillforge/internal/screens/skills"
	"github.com/abhisek/skillforge/internal/store"
	"github.com/abhisek/skillforge/internal/suggest"
)

func newTestEditor(t *testing.T, handler http.Handler) *EditorScreen {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := api.New(api.Config{BaseURL: srv.URL, Timeout: 5 * time.Second})

	st, err := store.Open("file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.SaveLog().Clear(context.Background()))

	e := New("pat", client, st.SaveLog(), nil)
	e.sched.Interval = time.Millisecond
	return e
}

// runMsg executes a produced command synchronously and returns its message.
func runMsg(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

func TestCommitTopicClearsDependents(t *testing.T) {
	e := newTestEditor(t, http.NotFoundHandler())

	e.graph.SetTopic("Algebra")
	e.graph.SetSkill("Linear Equations")
	e.graph.ApplyFormat(3)
	e.skill.SetValue("Linear Equations")

	e.commitTopic("Geometry")

	assert.Equal(t, "Geometry", e.draft.Topic)
	assert.Empty(t, e.draft.SkillName)
	assert.Zero(t, e.draft.Format)
	assert.Empty(t, e.skill.Value(), "skill input must clear with the draft field")
}

func TestCommitSameTopicKeepsDependents(t *testing.T) {
	e := newTestEditor(t, http.NotFoundHandler())

	e.graph.SetTopic("Algebra")
	e.graph.SetSkill("Linear Equations")
	e.graph.ApplyFormat(3)
	e.skill.SetValue("Linear Equations")

	cmd := e.commitTopic("Algebra")

	assert.Nil(t, cmd)
	assert.Equal(t, "Linear Equations", e.draft.SkillName)
	assert.Equal(t, 3, e.draft.Format)
}

func TestSkillCommitAllocatesFormat(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/templates/next-format", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Algebra", r.URL.Query().Get("topic"))
		assert.Equal(t, "Linear Equations", r.URL.Query().Get("skill_name"))
		json.NewEncoder(w).Encode(map[string]int{"next_format": 4})
	})
	e := newTestEditor(t, mux)

	e.graph.SetTopic("Algebra")
	cmd := e.commitSkill("Linear Equations")

	msg := runMsg(t, cmd).(formatMsg)
	_, _ = e.Update(msg)

	assert.Equal(t, 4, e.draft.Format)
}

func TestStaleFormatReplyDiscarded(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/templates/next-format", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]int{"next_format": 7})
	})
	e := newTestEditor(t, mux)

	e.graph.SetTopic("Algebra")
	cmd := e.commitSkill("Linear Equations")
	stale := runMsg(t, cmd).(formatMsg)

	// A newer skill choice supersedes the first allocation before its
	// reply lands.
	cmd = e.commitSkill("Quadratic Equations")
	fresh := runMsg(t, cmd).(formatMsg)

	_, _ = e.Update(stale)
	assert.Zero(t, e.draft.Format, "stale allocation must not apply")

	_, _ = e.Update(fresh)
	assert.Equal(t, 7, e.draft.Format)
}

func TestClearedSkillInvalidatesPendingFormat(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/templates/next-format", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]int{"next_format": 9})
	})
	e := newTestEditor(t, mux)

	e.graph.SetTopic("Algebra")
	cmd := e.commitSkill("Linear Equations")
	inFlight := runMsg(t, cmd).(formatMsg)

	// Topic changes while the allocation is in flight; the format it
	// would produce belongs to the old pair.
	e.commitTopic("Geometry")

	_, _ = e.Update(inFlight)
	assert.Zero(t, e.draft.Format)
}

func TestPreviewRequiresBodiesAndType(t *testing.T) {
	e := newTestEditor(t, http.NotFoundHandler())

	// Type is intentionally left unset.
	cmd := e.runPreview()

	assert.NotNil(t, cmd, "the warning banner still needs its dismiss timer")
	assert.True(t, e.alert.Visible())
	assert.False(t, e.loading.Active(), "no request may start on a validation bail")
	assert.False(t, e.showPreview)
}

func TestPreviewExecutionErrorRendered(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/preview", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"question":   nil,
			"answer":     nil,
			"error":      "Question Template Error: name 'x' is not defined",
			"error_type": "NameError",
		})
	})
	e := newTestEditor(t, mux)
	selectType(e, "MCQ")

	msg := runPreviewRequest(t, e)
	_, _ = e.Update(msg)

	require.True(t, e.showPreview)
	assert.True(t, e.preview.Failed())
	assert.Equal(t, "NameError", e.preview.ErrorType)
	assert.False(t, e.loading.Active())
	assert.True(t, e.alert.Visible())
}

func TestPreviewSuccessRendered(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/preview", func(w http.ResponseWriter, r *http.Request) {
		var req api.PreviewRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "MCQ", req.Type)
		json.NewEncoder(w).Encode(map[string]any{
			"question": "What is 2 + 2?",
			"answer":   4,
		})
	})
	e := newTestEditor(t, mux)
	selectType(e, "MCQ")

	msg := runPreviewRequest(t, e)
	_, _ = e.Update(msg)

	require.True(t, e.showPreview)
	assert.False(t, e.preview.Failed())
	assert.False(t, e.loading.Active())
}

func TestPreviewTransportFailureReleasesLoading(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/preview", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "sandbox offline"}`, http.StatusBadGateway)
	})
	e := newTestEditor(t, mux)
	selectType(e, "MCQ")

	msg := runPreviewRequest(t, e)
	_, _ = e.Update(msg)

	assert.False(t, e.showPreview)
	assert.False(t, e.loading.Active())
	assert.True(t, e.alert.Visible())
}

func TestSubmitRejectsIncompleteDraft(t *testing.T) {
	e := newTestEditor(t, http.NotFoundHandler())

	cmd := e.submit()

	assert.NotNil(t, cmd)
	assert.True(t, e.alert.Visible())
	assert.False(t, e.saving)
	assert.False(t, e.saved)
}

func TestSubmitSavesAndLogs(t *testing.T) {
	var got api.Template
	mux := http.NewServeMux()
	mux.HandleFunc("/templates", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	})
	e := newTestEditor(t, mux)
	fillDraft(e)

	cmd := e.submit()
	batch := runBatch(t, e, cmd)

	var save saveMsg
	require.True(t, findMsg(batch, &save))
	_, _ = e.Update(save)

	assert.True(t, e.saved)
	assert.True(t, e.alert.Visible())
	assert.Equal(t, "pat", got.CreatedBy)
	assert.Equal(t, "pat", got.UpdatedBy)
	assert.Equal(t, 3, got.Format)

	recs, err := e.saveLog.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Linear Equations", recs[0].SkillName)
	assert.Equal(t, "pat", recs[0].Author)
}

func TestSubmitRejectedByBackend(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/templates", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]bool{"success": false})
	})
	e := newTestEditor(t, mux)
	fillDraft(e)

	cmd := e.submit()
	batch := runBatch(t, e, cmd)

	var save saveMsg
	require.True(t, findMsg(batch, &save))
	_, _ = e.Update(save)

	assert.False(t, e.saved)
	assert.True(t, e.alert.Visible())

	recs, err := e.saveLog.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, recs, "a rejected save must not be logged")
}

func TestRedirectReplacesWithSkillsScreen(t *testing.T) {
	e := newTestEditor(t, http.NotFoundHandler())

	_, cmd := e.Update(redirectMsg{})
	msg := runMsg(t, cmd)

	replace, ok := msg.(router.ReplaceScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &skills.SkillsScreen{}, replace.Screen)
}

func TestAssistUnconfigured(t *testing.T) {
	e := newTestEditor(t, http.NotFoundHandler())
	fillDraft(e)

	cmd := e.runAssist()

	assert.NotNil(t, cmd)
	assert.True(t, e.alert.Visible())
}

func TestAssistInsertsDrafts(t *testing.T) {
	e := newTestEditor(t, http.NotFoundHandler())
	fillDraft(e)
	e.helper = assist.NewMockGenerator(&assist.Drafts{
		QuestionTemplate: "question = \"What is 1 + 1?\"",
		AnswerTemplate:   "answer = 2",
	})

	cmd := e.runAssist()
	batch := runBatch(t, e, cmd)

	var reply assistMsg
	require.True(t, findMsg(batch, &reply))
	_, _ = e.Update(reply)

	assert.Equal(t, "question = \"What is 1 + 1?\"", e.question.Value())
	assert.Equal(t, "answer = 2", e.answer.Value())
}

func TestAssistFailureSurfacesAlert(t *testing.T) {
	e := newTestEditor(t, http.NotFoundHandler())
	fillDraft(e)
	mock := assist.NewMockGenerator()
	mock.FailWith(errors.New("model offline"))
	e.helper = mock

	cmd := e.runAssist()
	batch := runBatch(t, e, cmd)

	var reply assistMsg
	require.True(t, findMsg(batch, &reply))
	_, _ = e.Update(reply)

	require.Error(t, reply.Err)
	assert.True(t, e.alert.Visible())
	assert.Equal(t, defaultQuestionTemplate, e.question.Value(), "a failed draft must not touch the editors")
}

func TestTopicTypeaheadFlow(t *testing.T) {
	var lastQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("/topics/suggest", func(w http.ResponseWriter, r *http.Request) {
		lastQuery = r.URL.Query().Get("q")
		json.NewEncoder(w).Encode(map[string][]string{"suggestions": {"Algebra", "Algorithms"}})
	})
	e := newTestEditor(t, mux)
	e.focus = focusTopic
	e.topic.Focus()

	// A burst of keystrokes; only the last one's debounce timer survives.
	var fires []debounce.FireMsg
	for _, r := range "Alg" {
		msgs := runBatch(t, e, e.updateFocused(tea.KeyPressMsg{Code: r, Text: string(r)}))
		var fire debounce.FireMsg
		if findMsg(msgs, &fire) {
			fires = append(fires, fire)
		}
	}
	require.Len(t, fires, 3)

	var lookups []tea.Cmd
	for _, fire := range fires {
		_, cmd := e.Update(fire)
		if cmd != nil {
			lookups = append(lookups, cmd)
		}
	}
	require.Len(t, lookups, 1, "superseded timers must not trigger lookups")

	msgs := runBatch(t, e, lookups[0])
	var result suggest.ResultMsg
	require.True(t, findMsg(msgs, &result))
	_, _ = e.Update(result)

	assert.Equal(t, "Alg", lastQuery, "the query carries the full typed text")
	require.True(t, e.topicSuggest.Open())
	assert.Equal(t, []string{"Algebra", "Algorithms"}, e.topicSuggest.Items())

	// Arrow down then enter commits the highlighted suggestion.
	cmd, handled := e.handleKey(tea.KeyPressMsg{Code: tea.KeyDown})
	require.True(t, handled)
	assert.Nil(t, cmd)
	_, handled = e.handleKey(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.True(t, handled)

	assert.Equal(t, "Algorithms", e.topic.Value())
	assert.Equal(t, "Algorithms", e.draft.Topic)
	assert.False(t, e.topicSuggest.Open())
}

func TestSkillTypeaheadBlockedWithoutTopic(t *testing.T) {
	e := newTestEditor(t, http.NotFoundHandler())
	e.focus = focusSkill
	e.skill.Focus()

	msgs := runBatch(t, e, e.updateFocused(tea.KeyPressMsg{Code: 'A', Text: "A"}))

	var blocked suggest.BlockedMsg
	require.True(t, findMsg(msgs, &blocked))
	_, _ = e.Update(blocked)

	assert.True(t, e.alert.Visible())
	assert.False(t, e.skillSuggest.Open())
}

func TestSaveFailureMessages(t *testing.T) {
	assert.Equal(t, "Failed to save template", saveFailureMessage(api.ErrSaveRejected))
	assert.Equal(t, "Save failed: boom", saveFailureMessage(errors.New("boom")))
}

// selectType cycles the type select until it reads the wanted value.
func selectType(e *EditorScreen, want string) {
	for i, opt := range e.qtype.Options {
		if opt == want {
			for range i + 1 {
				e.qtype.Focus()
				e.qtype, _ = e.qtype.Update(tea.KeyPressMsg{Code: tea.KeyRight})
			}
			e.qtype.Blur()
			return
		}
	}
}

// fillDraft completes every required field with widget values, the way a
// user would before submitting.
func fillDraft(e *EditorScreen) {
	e.grade.SetValue("6")
	e.topic.SetValue("Algebra")
	e.skill.SetValue("Linear Equations")
	selectType(e, "MCQ")
	e.graph.SetTopic("Algebra")
	e.graph.SetSkill("Linear Equations")
	e.graph.ApplyFormat(3)
}

// runPreviewRequest starts a preview and returns the resulting previewMsg.
func runPreviewRequest(t *testing.T, e *EditorScreen) tea.Msg {
	t.Helper()
	cmd := e.runPreview()
	batch := runBatch(t, e, cmd)
	for _, msg := range batch {
		if _, ok := msg.(previewMsg); ok {
			return msg
		}
	}
	t.Fatal("no previewMsg produced")
	return nil
}

// runBatch executes a command, flattening batches, and returns every
// produced message. Spinner ticks are run but their follow-ups dropped.
func runBatch(t *testing.T, e *EditorScreen, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)

	var msgs []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if msg != nil {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

// findMsg pulls the first message of out's type from msgs.
func findMsg[T tea.Msg](msgs []tea.Msg, out *T) bool {
	for _, msg := range msgs {
		if m, ok := msg.(T); ok {
			*out = m
			return true
		}
	}
	return false
}
