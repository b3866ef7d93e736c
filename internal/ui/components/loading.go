package components

import (
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillforge/internal/ui/theme"
)

// Loading is a labelled spinner shown while an async action is in flight.
// Start and Stop bracket the action; every exit path of the action must
// call Stop, including failures.
type Loading struct {
	model  spinner.Model
	label  string
	active bool
}

// NewLoading creates an inactive loading indicator.
func NewLoading() Loading {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Selected
	return Loading{model: sp}
}

// Start activates the indicator and returns the spin command.
func (l *Loading) Start(label string) tea.Cmd {
	l.label = label
	l.active = true
	return l.model.Tick
}

// Stop deactivates the indicator.
func (l *Loading) Stop() {
	l.active = false
}

// Active reports whether the indicator is spinning.
func (l Loading) Active() bool {
	return l.active
}

// Update advances the spinner animation while active.
func (l Loading) Update(msg tea.Msg) (Loading, tea.Cmd) {
	if !l.active {
		return l, nil
	}
	var cmd tea.Cmd
	l.model, cmd = l.model.Update(msg)
	return l, cmd
}

// View renders the spinner and label, or nothing when inactive.
func (l Loading) View() string {
	if !l.active {
		return ""
	}
	return l.model.View() + " " + theme.Hint.Render(l.label)
}
