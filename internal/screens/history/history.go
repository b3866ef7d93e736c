// Package history shows the local log of templates this author has saved.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillforge/internal/router"
	"github.com/abhisek/skillforge/internal/screen"
	"github.com/abhisek/skillforge/internal/store"
	"github.com/abhisek/skillforge/internal/ui/layout"
	"github.com/abhisek/skillforge/internal/ui/theme"
)

const maxRecords = 50

type historyLoadedMsg struct {
	Records []store.SaveRecord
	Err     error
}

// HistoryScreen lists recent saves, newest first.
type HistoryScreen struct {
	saveLog *store.SaveLogRepo
	records []store.SaveRecord
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates the history screen.
func New(saveLog *store.SaveLogRepo) *HistoryScreen {
	return &HistoryScreen{saveLog: saveLog}
}

func (h *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		recs, err := h.saveLog.Recent(context.Background(), maxRecords)
		return historyLoadedMsg{Records: recs, Err: err}
	}
}

func (h *HistoryScreen) Title() string {
	return "History"
}

func (h *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (h *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		h.loaded = true
		if msg.Err != nil {
			h.errMsg = "Failed to load history: " + msg.Err.Error()
		} else {
			h.records = msg.Records
		}
		return h, nil

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return h, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}

	return h, nil
}

func (h *HistoryScreen) View(width, height int) string {
	if !h.loaded {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Loading history..."))
	}
	if h.errMsg != "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.AlertError.Render(h.errMsg))
	}
	if len(h.records) == 0 {
		empty := theme.Card.Render(strings.Join([]string{
			theme.Title.Render("Nothing saved yet"),
			"",
			theme.Hint.Render("Saved templates will show up here."),
		}, "\n"))
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, empty)
	}

	var rows []string
	for _, rec := range h.records {
		rows = append(rows, theme.Unselected.Render(fmt.Sprintf(
			"%s  %-28s %-20s %-4s fmt %-3d grade %d",
			rec.SavedAt.Format("Jan 02 15:04"),
			clip(rec.SkillName, 28), clip(rec.Topic, 20),
			rec.Type, rec.Format, rec.Grade)))
	}

	header := theme.Label.Render(fmt.Sprintf("%-12s  %-28s %-20s %-4s %s",
		"SAVED", "SKILL", "TOPIC", "TYPE", "DETAILS"))
	content := header + "\n" + strings.Repeat("─", min(width-8, 84)) + "\n" + strings.Join(rows, "\n")
	card := theme.Card.Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
