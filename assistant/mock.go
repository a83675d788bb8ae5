package assistant

import (
	"context"
	"fmt"
	"sync"

	"github.com/itsonlyfabs/teamchat/core"
)

// MockBackend is a lightweight in-memory Backend useful for tests & examples.
// Replies and failures are registered per participant id; unregistered
// participants get a deterministic default reply.
type MockBackend struct {
	mu      sync.Mutex
	replies map[string]string
	errs    map[string]error
	calls   []MockCall
}

// MockCall records one CreateReply invocation for assertions.
type MockCall struct {
	ParticipantID string
	Text          string
	HistoryLen    int
}

// NewMockBackend constructs an empty MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{replies: make(map[string]string), errs: make(map[string]error)}
}

// AddReply registers a canned reply for a participant.
func (m *MockBackend) AddReply(participantID, reply string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies[participantID] = reply
}

// FailWith makes CreateReply fail for a participant.
func (m *MockBackend) FailWith(participantID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[participantID] = err
}

// Calls returns a copy of the recorded invocations.
func (m *MockBackend) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]MockCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// Name implements Backend.
func (m *MockBackend) Name() string { return "mock" }

// CreateReply implements Backend.
func (m *MockBackend) CreateReply(ctx context.Context, participant core.Participant, history []core.Turn, text string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{ParticipantID: participant.ID, Text: text, HistoryLen: len(history)})
	reply, hasReply := m.replies[participant.ID]
	err := m.errs[participant.ID]
	m.mu.Unlock()

	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if err != nil {
		return "", err
	}
	if !hasReply {
		reply = fmt.Sprintf("Mock reply from %s to: %s", participant.DisplayName, text)
	}
	return reply, nil
}
