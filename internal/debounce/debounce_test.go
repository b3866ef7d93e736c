package debounce

import (
	"testing"

	tea "charm.land/bubbletea/v2"
)

// mark returns a command that records its own execution.
func mark(ran *bool) tea.Cmd {
	return func() tea.Msg {
		*ran = true
		return nil
	}
}

func TestBurstRunsOnlyLastAction(t *testing.T) {
	s := NewScheduler()

	var first, second bool
	s.Schedule("topic", mark(&first))
	s.Schedule("topic", mark(&second))

	// The first timer elapses: it was superseded, so nothing runs.
	if cmd := s.Fire(FireMsg{Stream: "topic", Gen: 1}); cmd != nil {
		t.Fatal("superseded timer must resolve to nil")
	}

	// The second timer elapses and yields the last-scheduled action.
	cmd := s.Fire(FireMsg{Stream: "topic", Gen: 2})
	if cmd == nil {
		t.Fatal("latest timer must yield the pending action")
	}
	cmd()

	if first {
		t.Error("superseded action ran")
	}
	if !second {
		t.Error("last-scheduled action did not run")
	}
}

func TestStreamsAreIndependent(t *testing.T) {
	s := NewScheduler()

	var topic, skill bool
	s.Schedule("topic", mark(&topic))
	s.Schedule("skill", mark(&skill))

	if cmd := s.Fire(FireMsg{Stream: "topic", Gen: 1}); cmd == nil {
		t.Fatal("topic timer should be current")
	} else {
		cmd()
	}
	if cmd := s.Fire(FireMsg{Stream: "skill", Gen: 1}); cmd == nil {
		t.Fatal("skill timer should be current")
	} else {
		cmd()
	}

	if !topic || !skill {
		t.Errorf("both streams should have fired: topic=%v skill=%v", topic, skill)
	}
}

func TestFireIsOnceOnly(t *testing.T) {
	s := NewScheduler()

	var ran bool
	s.Schedule("topic", mark(&ran))

	if cmd := s.Fire(FireMsg{Stream: "topic", Gen: 1}); cmd == nil {
		t.Fatal("first resolution should yield the action")
	}
	if cmd := s.Fire(FireMsg{Stream: "topic", Gen: 1}); cmd != nil {
		t.Error("second resolution of the same timer must be nil")
	}
}

func TestCancelDropsPendingAction(t *testing.T) {
	s := NewScheduler()

	var ran bool
	s.Schedule("topic", mark(&ran))
	s.Cancel("topic")

	if cmd := s.Fire(FireMsg{Stream: "topic", Gen: 1}); cmd != nil {
		t.Error("cancelled stream's timer must resolve to nil")
	}
	if ran {
		t.Error("cancelled action ran")
	}
}
