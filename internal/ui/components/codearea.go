package components

import (
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillforge/internal/ui/theme"
)

// CodeArea is a multi-line editor for template code bodies. Syntax
// highlighting and undo are out of scope; bubbles/textarea provides plain
// editing with line numbers.
type CodeArea struct {
	Model textarea.Model
	Label string
}

// NewCodeArea creates a code editor seeded with initial content.
func NewCodeArea(label, initial string, width, height int) CodeArea {
	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.SetWidth(width)
	ta.SetHeight(height)
	ta.SetValue(initial)

	return CodeArea{Model: ta, Label: label}
}

// Focus gives the editor keyboard focus.
func (c *CodeArea) Focus() tea.Cmd {
	return c.Model.Focus()
}

// Blur removes keyboard focus.
func (c *CodeArea) Blur() {
	c.Model.Blur()
}

// Focused reports whether the editor has keyboard focus.
func (c CodeArea) Focused() bool {
	return c.Model.Focused()
}

// Update handles messages.
func (c CodeArea) Update(msg tea.Msg) (CodeArea, tea.Cmd) {
	var cmd tea.Cmd
	c.Model, cmd = c.Model.Update(msg)
	return c, cmd
}

// View renders the label and the editor.
func (c CodeArea) View() string {
	label := theme.FieldBlurred.Render(c.Label)
	if c.Focused() {
		label = theme.FieldFocused.Render(c.Label)
	}
	return label + "\n" + c.Model.View()
}

// Value returns the editor content.
func (c CodeArea) Value() string {
	return c.Model.Value()
}

// SetValue replaces the editor content.
func (c *CodeArea) SetValue(v string) {
	c.Model.SetValue(v)
}

// SetSize resizes the editor.
func (c *CodeArea) SetSize(width, height int) {
	c.Model.SetWidth(width)
	c.Model.SetHeight(height)
}
