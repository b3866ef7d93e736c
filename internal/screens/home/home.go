// Package home is the main menu.
package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillforge/internal/api"
	"github.com/abhisek/skillforge/internal/assist"
	"github.com/abhisek/skillforge/internal/router"
	"github.com/abhisek/skillforge/internal/screen"
	"github.com/abhisek/skillforge/internal/screens/editor"
	"github.com/abhisek/skillforge/internal/screens/history"
	"github.com/abhisek/skillforge/internal/screens/skills"
	"github.com/abhisek/skillforge/internal/store"
	"github.com/abhisek/skillforge/internal/ui/components"
	"github.com/abhisek/skillforge/internal/ui/theme"
)

// HomeScreen is the landing menu after a user is selected.
type HomeScreen struct {
	menu components.Menu
	user string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home menu. helper may be nil; the editor then simply
// has no drafting helper.
func New(user string, client *api.Client, st *store.Store, helper assist.Generator) *HomeScreen {
	items := []components.MenuItem{
		{Label: "NEW TEMPLATE", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: editor.New(user, client, st.SaveLog(), helper),
				}
			}
		}},
		{Label: "BROWSE SKILLS", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: skills.New(client)}
			}
		}},
		{Label: "HISTORY", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(st.SaveLog())}
			}
		}},
		{Label: "SWITCH USER", Action: func() tea.Cmd {
			return func() tea.Msg {
				// Forget the stored name; the app reroutes to the
				// entry screen on the resulting message.
				_ = st.Settings().ClearUser(context.Background())
				return UserClearedMsg{}
			}
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		menu: components.NewMenu(items),
		user: user,
	}
}

// UserClearedMsg tells the app shell to route back to the entry screen.
type UserClearedMsg struct{}

// User returns the signed-in display name.
func (h *HomeScreen) User() string {
	return h.user
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	title := theme.Title.Render("SKILLFORGE")
	subtitle := theme.Subtitle.Render("Signed in as " + h.user)

	content := strings.Join([]string{title, "", subtitle, "", h.menu.View()}, "\n")
	card := theme.Card.Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
