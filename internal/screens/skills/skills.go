// Package skills is the read-only overview of existing skills and their
// template counts.
package skills

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillforge/internal/api"
	"github.com/abhisek/skillforge/internal/router"
	"github.com/abhisek/skillforge/internal/screen"
	"github.com/abhisek/skillforge/internal/ui/layout"
	"github.com/abhisek/skillforge/internal/ui/theme"
)

type skillsLoadedMsg struct {
	Skills []api.Skill
	Err    error
}

// SkillsScreen lists every (topic, skill) pair known to the backend.
type SkillsScreen struct {
	client   *api.Client
	skills   []api.Skill
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*SkillsScreen)(nil)
var _ screen.KeyHintProvider = (*SkillsScreen)(nil)

// New creates the skills overview.
func New(client *api.Client) *SkillsScreen {
	return &SkillsScreen{client: client}
}

func (s *SkillsScreen) Init() tea.Cmd {
	return func() tea.Msg {
		skills, err := s.client.ListSkills(context.Background())
		return skillsLoadedMsg{Skills: skills, Err: err}
	}
}

func (s *SkillsScreen) Title() string {
	return "Skills"
}

func (s *SkillsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "R", Description: "Reload"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SkillsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case skillsLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = "Failed to load skills: " + msg.Err.Error()
		} else {
			s.errMsg = ""
			s.skills = msg.Skills
			if s.selected >= len(s.skills) {
				s.selected = 0
			}
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.skills)-1 {
				s.selected++
			}
		case "r":
			s.loaded = false
			return s, s.Init()
		}
	}

	return s, nil
}

func (s *SkillsScreen) View(width, height int) string {
	if !s.loaded {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Loading skills..."))
	}
	if s.errMsg != "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.AlertError.Render(s.errMsg))
	}
	if len(s.skills) == 0 {
		empty := theme.Card.Render(strings.Join([]string{
			theme.Title.Render("No templates yet"),
			"",
			theme.Hint.Render("Create your first template from the home menu."),
		}, "\n"))
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, empty)
	}

	var rows []string
	for i, sk := range s.skills {
		badge := fmt.Sprintf("%d template", sk.Count)
		if sk.Count != 1 {
			badge += "s"
		}
		line := fmt.Sprintf("%-40s %-24s %s", truncate(sk.SkillName, 40), truncate(sk.Topic, 24), badge)
		if i == s.selected {
			rows = append(rows, theme.Selected.Render("▸ "+line))
		} else {
			rows = append(rows, theme.Unselected.Render("  "+line))
		}
	}

	header := theme.Label.Render(fmt.Sprintf("  %-40s %-24s %s", "SKILL", "TOPIC", "TEMPLATES"))
	content := header + "\n" + strings.Repeat("─", min(width-8, 78)) + "\n" + strings.Join(rows, "\n")
	card := theme.Card.Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
