// Package welcome is the entry screen: it asks for a display name and
// persists it before any authoring can happen. The app routes here whenever
// no user is stored, mirroring the entry-page redirect of the web client.
package welcome

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillforge/internal/router"
	"github.com/abhisek/skillforge/internal/screen"
	"github.com/abhisek/skillforge/internal/store"
	"github.com/abhisek/skillforge/internal/ui/components"
	"github.com/abhisek/skillforge/internal/ui/layout"
	"github.com/abhisek/skillforge/internal/ui/theme"
)

type userSavedMsg struct {
	Name string
	Err  error
}

// WelcomeScreen collects and stores the author's display name.
type WelcomeScreen struct {
	settings    *store.SettingsRepo
	input       components.TextInput
	homeFactory func(user string) screen.Screen
	errMsg      string
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New creates the entry screen. homeFactory builds the screen shown once a
// name is stored.
func New(settings *store.SettingsRepo, homeFactory func(user string) screen.Screen) *WelcomeScreen {
	input := components.NewTextInput("Your name", "e.g. Pat", false, 40)
	return &WelcomeScreen{
		settings:    settings,
		input:       input,
		homeFactory: homeFactory,
	}
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return w.input.Focus()
}

func (w *WelcomeScreen) Title() string {
	return "Welcome"
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case userSavedMsg:
		if msg.Err != nil {
			w.errMsg = msg.Err.Error()
			return w, nil
		}
		home := w.homeFactory(msg.Name)
		return w, func() tea.Msg { return router.ReplaceScreenMsg{Screen: home} }

	case tea.KeyMsg:
		if msg.String() == "enter" {
			name := strings.TrimSpace(w.input.Value())
			if name == "" {
				w.errMsg = "Please enter a name"
				return w, nil
			}
			w.errMsg = ""
			return w, w.saveUser(name)
		}
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

func (w *WelcomeScreen) saveUser(name string) tea.Cmd {
	return func() tea.Msg {
		err := w.settings.SetUser(context.Background(), name)
		return userSavedMsg{Name: name, Err: err}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	title := theme.Title.Render("SKILLFORGE")
	subtitle := theme.Subtitle.Render("Author question templates for the exercise platform")

	var lines []string
	lines = append(lines, title, "", subtitle, "", w.input.View())
	if w.errMsg != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(theme.Error).Render(w.errMsg))
	}

	card := theme.Card.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
