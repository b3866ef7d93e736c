// Package debounce coalesces bursts of input events into a single deferred
// action per logical stream.
//
// Every call to Schedule supersedes the stream's previously pending action,
// so for a burst of N calls within the quiet interval exactly one action
// runs: the last one scheduled. Distinct streams are independent.
package debounce

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// Quiet is the default quiet interval: an action fires only after this much
// time passes with no further Schedule calls on its stream.
const Quiet = 300 * time.Millisecond

// FireMsg is delivered when a stream's quiet interval elapses. The holder of
// the Scheduler must route it back through Fire, which decides whether the
// timer is still the latest one for the stream.
type FireMsg struct {
	Stream string
	Gen    uint64
}

// Scheduler tracks one pending action per stream. It is not safe for
// concurrent use; it is designed to live inside a Bubble Tea model where all
// access happens on the event loop.
type Scheduler struct {
	// Interval overrides Quiet when non-zero. Tests shrink it.
	Interval time.Duration

	gens    map[string]uint64
	pending map[string]tea.Cmd
}

// NewScheduler creates an empty Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{
		gens:    make(map[string]uint64),
		pending: make(map[string]tea.Cmd),
	}
}

// Schedule records action as the stream's pending action, superseding any
// earlier action that has not fired yet, and returns a command that delivers
// a FireMsg after the quiet interval. The action itself runs no side effects
// until the timer fires and Fire confirms it is still current.
func (s *Scheduler) Schedule(stream string, action tea.Cmd) tea.Cmd {
	s.gens[stream]++
	s.pending[stream] = action

	gen := s.gens[stream]
	d := s.Interval
	if d == 0 {
		d = Quiet
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return FireMsg{Stream: stream, Gen: gen}
	})
}

// Fire resolves an elapsed timer. It returns the stream's pending action iff
// msg carries the latest generation scheduled for that stream; superseded
// timers resolve to nil and their actions are dropped.
func (s *Scheduler) Fire(msg FireMsg) tea.Cmd {
	if msg.Gen != s.gens[msg.Stream] {
		return nil
	}
	action := s.pending[msg.Stream]
	delete(s.pending, msg.Stream)
	return action
}

// Cancel drops the stream's pending action without running it. Any timer
// already in flight for the stream will resolve to nil.
func (s *Scheduler) Cancel(stream string) {
	s.gens[stream]++
	delete(s.pending, stream)
}
