// Package app wires the root Bubble Tea model: the screen router, the
// header/footer chrome, and the user session routing.
package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillforge/internal/api"
	"github.com/abhisek/skillforge/internal/assist"
	"github.com/abhisek/skillforge/internal/router"
	"github.com/abhisek/skillforge/internal/screen"
	"github.com/abhisek/skillforge/internal/screens/home"
	"github.com/abhisek/skillforge/internal/screens/welcome"
	"github.com/abhisek/skillforge/internal/store"
	"github.com/abhisek/skillforge/internal/ui/layout"
)

// Options carries the app's external dependencies, built in cmd and
// threaded down to the screens.
type Options struct {
	Client *api.Client
	Store  *store.Store
	Helper assist.Generator
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	opts   Options
	router *router.Router
	user   string
	width  int
	height int
}

// newAppModel routes to the home screen when a user is already stored, and
// to the entry screen otherwise.
func newAppModel(opts Options) AppModel {
	m := AppModel{opts: opts}

	user, err := opts.Store.Settings().User(context.Background())
	if err != nil {
		user = ""
	}
	m.user = user

	var initial screen.Screen
	if user == "" {
		initial = m.welcomeScreen()
	} else {
		initial = m.homeScreen(user)
	}
	m.router = router.New(initial)
	return m
}

func (m *AppModel) welcomeScreen() screen.Screen {
	return welcome.New(m.opts.Store.Settings(), func(user string) screen.Screen {
		return m.homeScreen(user)
	})
}

func (m *AppModel) homeScreen(user string) screen.Screen {
	return home.New(user, m.opts.Client, m.opts.Store, m.opts.Helper)
}

func (m AppModel) Init() tea.Cmd {
	active := m.router.Active()
	if active == nil {
		return nil
	}
	return active.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case router.ReplaceScreenMsg:
		// A replace out of the entry screen carries the freshly stored
		// user; pick the name up for the header.
		if h, ok := msg.Screen.(*home.HomeScreen); ok {
			m.user = h.User()
		}

	case home.UserClearedMsg:
		m.user = ""
		next := m.welcomeScreen()
		return m, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.user, m.width)

	footerHints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if provider, ok := active.(screen.KeyHintProvider); ok {
		footerHints = provider.KeyHints()
	}
	footer := layout.RenderFooter(footerHints, m.width)

	content := m.router.View(m.width, layout.ContentHeight(m.height))
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
