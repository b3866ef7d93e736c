package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillforge/internal/ui/theme"
)

// Select cycles through a fixed option list with the arrow keys. It starts
// with nothing chosen, so an untouched select validates as missing.
type Select struct {
	Label   string
	Options []string
	index   int
	focused bool
}

// NewSelect creates a select with no initial choice.
func NewSelect(label string, options []string) Select {
	return Select{
		Label:   label,
		Options: options,
		index:   -1,
	}
}

// Focus gives the select keyboard focus.
func (s *Select) Focus() {
	s.focused = true
}

// Blur removes keyboard focus.
func (s *Select) Blur() {
	s.focused = false
}

// Focused reports whether the select has keyboard focus.
func (s Select) Focused() bool {
	return s.focused
}

// Update cycles the choice with left/right while focused.
func (s Select) Update(msg tea.Msg) (Select, tea.Cmd) {
	if !s.focused {
		return s, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "left", "h":
		if s.index > 0 {
			s.index--
		} else if s.index == -1 {
			s.index = 0
		}
	case "right", "l":
		if s.index < len(s.Options)-1 {
			s.index++
		}
	}
	return s, nil
}

// Value returns the chosen option, or "" when none is chosen yet.
func (s Select) Value() string {
	if s.index < 0 || s.index >= len(s.Options) {
		return ""
	}
	return s.Options[s.index]
}

// View renders the label and the current choice.
func (s Select) View() string {
	label := theme.FieldBlurred.Render(s.Label)
	if s.focused {
		label = theme.FieldFocused.Render(s.Label)
	}

	choice := s.Value()
	if choice == "" {
		choice = theme.Hint.Render("◂ choose ▸")
	} else if s.focused {
		choice = theme.Selected.Render("◂ " + choice + " ▸")
	} else {
		choice = theme.Body.Render(choice)
	}

	return label + " " + choice
}
