package core

// RunStatus tracks the lifecycle of one in-flight assistant call.
// Transitions: pending -> running -> completed | failed. A handle is never
// reused across turns.
type RunStatus string

const (
	// RunPending means the run was submitted but work has not started.
	RunPending RunStatus = "pending"
	// RunRunning means the backend is actively producing a reply.
	RunRunning RunStatus = "running"
	// RunCompleted means the backend finished and a reply can be fetched.
	RunCompleted RunStatus = "completed"
	// RunFailed means the backend reported a terminal failure.
	RunFailed RunStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s RunStatus) Terminal() bool { return s == RunCompleted || s == RunFailed }

// RunHandle is the ephemeral reference to one in-flight assistant call. It is
// created at submission, polled until a terminal status (or the caller's poll
// ceiling), then discarded. It is never persisted.
type RunHandle struct {
	ParticipantID string
	ThreadID      string
	RunID         string
	Status        RunStatus
	StatusDetail  string
}

// NewRunHandle creates a pending handle for a participant's call.
func NewRunHandle(participantID, threadID string) *RunHandle {
	return &RunHandle{
		ParticipantID: participantID,
		ThreadID:      threadID,
		RunID:         NewID(),
		Status:        RunPending,
	}
}
