package assist

import (
	"context"
	"sync"
)

type mockReply struct {
	drafts *Drafts
	err    error
}

// MockGenerator is a deterministic Generator for testing. It returns
// canned replies in FIFO order and records all inputs.
type MockGenerator struct {
	mu      sync.Mutex
	replies []mockReply
	Calls   []Input
}

// NewMockGenerator creates a mock with the given canned drafts.
func NewMockGenerator(drafts ...*Drafts) *MockGenerator {
	m := &MockGenerator{}
	for _, d := range drafts {
		m.replies = append(m.replies, mockReply{drafts: d})
	}
	return m
}

// FailWith queues an error reply.
func (m *MockGenerator) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, mockReply{err: err})
}

// GenerateTemplates returns the next canned reply or ErrUnavailable when
// the queue is empty.
func (m *MockGenerator) GenerateTemplates(_ context.Context, in Input) (*Drafts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, in)

	if len(m.replies) == 0 {
		return nil, &ErrUnavailable{Err: nil}
	}

	r := m.replies[0]
	m.replies = m.replies[1:]
	if r.err != nil {
		return nil, r.err
	}
	return r.drafts, nil
}
