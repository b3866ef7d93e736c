package components

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillforge/internal/ui/theme"
)

// AlertDuration is how long a banner stays up before auto-dismissing.
const AlertDuration = 5 * time.Second

// AlertKind selects the banner's visual treatment.
type AlertKind int

const (
	AlertSuccess AlertKind = iota
	AlertWarning
	AlertError
)

// alertExpireMsg dismisses a banner. The generation guards against an old
// timer hiding a newer banner.
type alertExpireMsg struct {
	gen uint64
}

// Alert is a transient banner: success confirmations, validation warnings,
// transport failures. A newly shown banner replaces the previous one and
// restarts the dismiss timer.
type Alert struct {
	kind    AlertKind
	message string
	visible bool
	gen     uint64
}

// Show displays a banner and returns the command that dismisses it after
// AlertDuration.
func (a *Alert) Show(kind AlertKind, message string) tea.Cmd {
	a.kind = kind
	a.message = message
	a.visible = true
	a.gen++

	gen := a.gen
	return tea.Tick(AlertDuration, func(time.Time) tea.Msg {
		return alertExpireMsg{gen: gen}
	})
}

// Update consumes expiry timers; every other message passes through
// untouched.
func (a *Alert) Update(msg tea.Msg) {
	if m, ok := msg.(alertExpireMsg); ok && m.gen == a.gen {
		a.visible = false
	}
}

// Visible reports whether a banner is on display.
func (a Alert) Visible() bool {
	return a.visible
}

// View renders the banner, or nothing when hidden.
func (a Alert) View(width int) string {
	if !a.visible {
		return ""
	}

	var style lipgloss.Style
	var prefix string
	switch a.kind {
	case AlertSuccess:
		style, prefix = theme.AlertSuccess, "✓ "
	case AlertWarning:
		style, prefix = theme.AlertWarning, "⚠ "
	default:
		style, prefix = theme.AlertError, "✗ "
	}

	if width > 4 {
		style = style.Width(width - 2)
	}
	return style.Render(prefix + a.message)
}
