package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL})
}

func TestSuggestTopicsEncodesQuery(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/topics/suggest", r.URL.Path)
		gotQuery = r.URL.Query().Get("q")
		json.NewEncoder(w).Encode(map[string]any{"suggestions": []string{"Algebra", "Arithmetic"}})
	})

	got, err := c.SuggestTopics(context.Background(), "al ge")
	require.NoError(t, err)
	assert.Equal(t, "al ge", gotQuery)
	if diff := cmp.Diff([]string{"Algebra", "Arithmetic"}, got); diff != "" {
		t.Errorf("suggestions mismatch (-want +got):\n%s", diff)
	}
}

func TestSuggestSkillsOmitsEmptyQuery(t *testing.T) {
	var gotURL string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		json.NewEncoder(w).Encode(map[string]any{"suggestions": []string{}})
	})

	_, err := c.SuggestSkills(context.Background(), "Algebra", "")
	require.NoError(t, err)
	assert.Equal(t, "/skills/suggest?topic=Algebra", gotURL)

	_, err = c.SuggestSkills(context.Background(), "Algebra", "lin")
	require.NoError(t, err)
	assert.Contains(t, gotURL, "q=lin")
}

func TestNextFormat(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/templates/next-format", r.URL.Path)
		require.Equal(t, "Algebra", r.URL.Query().Get("topic"))
		require.Equal(t, "Linear Equations", r.URL.Query().Get("skill_name"))
		json.NewEncoder(w).Encode(map[string]int{"next_format": 3})
	})

	n, err := c.NextFormat(context.Background(), "Algebra", "Linear Equations")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestListSkills(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"skills": []map[string]any{
			{"skill_name": "Linear Equations", "topic": "Algebra", "count": 2},
		}})
	})

	skills, err := c.ListSkills(context.Background())
	require.NoError(t, err)
	require.Len(t, skills, 1)
	assert.Equal(t, Skill{SkillName: "Linear Equations", Topic: "Algebra", Count: 2}, skills[0])
}

func TestPreviewSuccessAndExecutionError(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			var req PreviewRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "MCQ", req.Type)
			json.NewEncoder(w).Encode(map[string]any{
				"question": "What is 2 + 2?",
				"answer":   4,
			})
		})

		res, err := c.Preview(context.Background(), PreviewRequest{
			QuestionTemplate: "question = '2 + 2?'",
			AnswerTemplate:   "answer = 4",
			Type:             "MCQ",
		})
		require.NoError(t, err)
		assert.False(t, res.Failed())
		assert.JSONEq(t, `"What is 2 + 2?"`, string(res.Question))
	})

	t.Run("execution error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"error":      "Question Template Error: name 'x' is not defined",
				"error_type": "NameError",
			})
		})

		res, err := c.Preview(context.Background(), PreviewRequest{Type: "MCQ"})
		require.NoError(t, err, "an execution failure is still a successful round trip")
		assert.True(t, res.Failed())
		assert.Contains(t, res.Error, "Question Template Error")
		assert.Empty(t, res.Question)
	})
}

func TestSaveTemplate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			var tmpl Template
			require.NoError(t, json.NewDecoder(r.Body).Decode(&tmpl))
			require.Equal(t, "pat", tmpl.CreatedBy)
			require.Equal(t, "pat", tmpl.UpdatedBy)
			json.NewEncoder(w).Encode(map[string]bool{"success": true})
		})

		err := c.SaveTemplate(context.Background(), Template{CreatedBy: "pat", UpdatedBy: "pat"})
		require.NoError(t, err)
	})

	t.Run("declared unsuccessful", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]bool{"success": false})
		})

		err := c.SaveTemplate(context.Background(), Template{})
		assert.ErrorIs(t, err, ErrSaveRejected)
	})
}

func TestStatusErrorCarriesBackendDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Failed to calculate next format: db down"})
	})

	_, err := c.NextFormat(context.Background(), "Algebra", "Linear Equations")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
	assert.Contains(t, statusErr.Detail, "db down")
}

func TestStatusErrorFallsBackToStatusText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.ListSkills(context.Background())
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, "Bad Gateway", statusErr.Detail)
}
