// Package suggest drives a dependent field's typeahead: debounced,
// cancellable lookups, a suggestion panel, and selection commit.
//
// One Controller handles one field (topic or skill). The skill controller
// is blocked while no topic is selected; its queries carry the topic as
// dependent context. Both share a debounce scheduler and a token tracker
// owned by the screen, so streams and tokens stay distinct per field.
package suggest

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillforge/internal/debounce"
	"github.com/abhisek/skillforge/internal/latest"
)

const (
	// MaxVisible caps the rendered suggestion list. The backend already
	// returns at most five suggestions; the cap just pins that contract
	// on the client side.
	MaxVisible = 5

	// BlurGrace is how long the panel survives after the field loses
	// focus. A selection keypress lands inside this window and commits
	// synchronously, so the delayed close can never pre-empt it. The
	// ordering is deliberate; do not "fix" it by closing on blur.
	BlurGrace = 200 * time.Millisecond
)

// State is the controller's panel state.
type State int

const (
	// Idle: no query outstanding, panel hidden.
	Idle State = iota
	// Querying: a debounced lookup has been issued and not yet resolved.
	Querying
	// Displaying: the panel is open with at least one suggestion.
	Displaying
	// Empty: the latest lookup returned nothing; panel hidden.
	Empty
)

// Lookup performs the remote query. topic is the dependent context for a
// skill lookup and ignored for a topic lookup.
type Lookup func(ctx context.Context, q, topic string) ([]string, error)

// ResultMsg carries a completed lookup back to the event loop.
type ResultMsg struct {
	Field string
	Token uint64
	Items []string
	Err   error
}

// CloseMsg fires when the blur grace period elapses.
type CloseMsg struct {
	Field string
	Gen   uint64
}

// BlockedMsg signals that the query cannot run yet: for the skill field,
// no topic has been selected. The screen surfaces Warning as a banner.
type BlockedMsg struct {
	Field   string
	Warning string
}

// Controller is the per-field typeahead state machine.
type Controller struct {
	field     string
	dependent bool // requires a topic before querying (skill field)
	lookup    Lookup
	sched     *debounce.Scheduler
	tokens    *latest.Tracker

	state    State
	items    []string
	cursor   int
	closeGen uint64
}

// NewController creates a controller for field. dependent marks the field
// as requiring a non-empty topic context before any query is issued.
func NewController(field string, dependent bool, lookup Lookup, sched *debounce.Scheduler, tokens *latest.Tracker) *Controller {
	return &Controller{
		field:     field,
		dependent: dependent,
		lookup:    lookup,
		sched:     sched,
		tokens:    tokens,
	}
}

// State returns the current panel state.
func (c *Controller) State() State { return c.state }

// Items returns the suggestions currently on display.
func (c *Controller) Items() []string { return c.items }

// Cursor returns the highlighted suggestion index.
func (c *Controller) Cursor() int { return c.cursor }

// Open reports whether the panel is visible. Suggestions from the previous
// query stay on display while a requery is pending, matching the page
// behavior of only replacing the panel when new data arrives.
func (c *Controller) Open() bool { return len(c.items) > 0 }

// InputChanged reacts to an edit of the field's text. It either blocks
// (empty topic query, or a dependent field without its context), or
// schedules a debounced lookup. Every call supersedes any outstanding
// lookup immediately: a new token is issued here, on the event loop, so an
// older in-flight reply can no longer win even before the new query fires.
func (c *Controller) InputChanged(text, topic string) tea.Cmd {
	if c.dependent && topic == "" {
		c.hide()
		c.sched.Cancel(c.field)
		c.tokens.Invalidate(c.field)
		return func() tea.Msg {
			return BlockedMsg{Field: c.field, Warning: "Select a topic first"}
		}
	}
	if !c.dependent && text == "" {
		c.hide()
		c.sched.Cancel(c.field)
		c.tokens.Invalidate(c.field)
		return nil
	}

	c.state = Querying
	token := c.tokens.Issue(c.field)
	return c.sched.Schedule(c.field, c.queryCmd(token, text, topic))
}

// Focused re-issues the query when the field gains focus. For the skill
// field this lists the topic's skills even with empty text; for the topic
// field it behaves exactly like an input change.
func (c *Controller) Focused(text, topic string) tea.Cmd {
	c.cancelClose()
	if c.dependent && topic != "" {
		c.state = Querying
		token := c.tokens.Issue(c.field)
		return c.sched.Schedule(c.field, c.queryCmd(token, text, topic))
	}
	return c.InputChanged(text, topic)
}

// HandleDebounce resolves a debounce timer. Timers for other streams fall
// through to nil.
func (c *Controller) HandleDebounce(msg debounce.FireMsg) tea.Cmd {
	if msg.Stream != c.field {
		return nil
	}
	return c.sched.Fire(msg)
}

// HandleResult applies a completed lookup iff it is still the latest issued
// for this field; stale replies are discarded silently with no state
// change. Lookup errors close the panel without a banner — suggestion
// failures are cosmetic and must not interrupt typing.
func (c *Controller) HandleResult(msg ResultMsg) {
	if msg.Field != c.field {
		return
	}
	if !c.tokens.IsCurrent(c.field, msg.Token) {
		return
	}
	if msg.Err != nil {
		c.hide()
		return
	}
	if len(msg.Items) == 0 {
		c.state = Empty
		c.items = nil
		c.cursor = 0
		return
	}

	items := msg.Items
	if len(items) > MaxVisible {
		items = items[:MaxVisible]
	}
	c.state = Displaying
	c.items = items
	c.cursor = 0
}

// MoveCursor shifts the highlight, clamped to the list.
func (c *Controller) MoveCursor(delta int) {
	if !c.Open() {
		return
	}
	c.cursor += delta
	if c.cursor < 0 {
		c.cursor = 0
	}
	if c.cursor >= len(c.items) {
		c.cursor = len(c.items) - 1
	}
}

// Commit selects the highlighted suggestion, closes the panel, and returns
// the committed value. The commit happens synchronously on the event loop,
// which is what lets a selection beat the delayed blur close.
func (c *Controller) Commit() (string, bool) {
	if !c.Open() {
		return "", false
	}
	v := c.items[c.cursor]
	c.hide()
	c.sched.Cancel(c.field)
	c.tokens.Invalidate(c.field)
	return v, true
}

// Blur schedules the panel close after the grace period instead of closing
// immediately.
func (c *Controller) Blur() tea.Cmd {
	c.closeGen++
	gen := c.closeGen
	return tea.Tick(BlurGrace, func(time.Time) tea.Msg {
		return CloseMsg{Field: c.field, Gen: gen}
	})
}

// HandleClose resolves a blur timer; it closes the panel only if no commit
// or refocus happened in the meantime.
func (c *Controller) HandleClose(msg CloseMsg) {
	if msg.Field != c.field || msg.Gen != c.closeGen {
		return
	}
	c.hide()
}

func (c *Controller) cancelClose() {
	c.closeGen++
}

func (c *Controller) hide() {
	c.state = Idle
	c.items = nil
	c.cursor = 0
}

// queryCmd performs the lookup off the event loop and reports back through
// a ResultMsg tagged with the token issued at schedule time.
func (c *Controller) queryCmd(token uint64, text, topic string) tea.Cmd {
	return func() tea.Msg {
		items, err := c.lookup(context.Background(), text, topic)
		return ResultMsg{Field: c.field, Token: token, Items: items, Err: err}
	}
}
