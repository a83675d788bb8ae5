package assistant

import (
	"context"
	"fmt"
	"sync"

	"github.com/itsonlyfabs/teamchat/core"
)

// Backend generates one reply synchronously from a participant's
// configuration, the prior turns and the new user text. Concrete
// implementations live in the openai and anthropic sub-packages.
type Backend interface {
	Name() string
	CreateReply(ctx context.Context, participant core.Participant, history []core.Turn, text string) (string, error)
}

// BackendProvider lifts a synchronous Backend onto the Provider run
// lifecycle: Submit starts the completion in its own goroutine and hands back
// a pending RunHandle whose status advances as the work progresses. This
// keeps the Client's poll loop identical whether the backend exposes hosted
// runs or a blocking completion call.
type BackendProvider struct {
	backend Backend
	mu      sync.Mutex
	runs    map[string]*backendRun
}

type backendRun struct {
	mu     sync.Mutex
	status core.RunStatus
	detail string
	reply  string
}

func (r *backendRun) set(status core.RunStatus, detail, reply string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = status
	r.detail = detail
	r.reply = reply
}

func (r *backendRun) snapshot() (core.RunStatus, string, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status, r.detail, r.reply
}

// NewBackendProvider wraps backend in the run lifecycle.
func NewBackendProvider(backend Backend) *BackendProvider {
	return &BackendProvider{backend: backend, runs: make(map[string]*backendRun)}
}

// Submit implements Provider. The returned handle is pending; the backend
// call runs in the background under the caller's context, so cancelling the
// invocation aborts the call and surfaces as a failed run.
func (p *BackendProvider) Submit(ctx context.Context, participant core.Participant, history []core.Turn, text string) (*core.RunHandle, error) {
	handle := core.NewRunHandle(participant.ID, core.NewID())
	run := &backendRun{status: core.RunPending}

	p.mu.Lock()
	p.runs[handle.RunID] = run
	p.mu.Unlock()

	go func() {
		run.set(core.RunRunning, "", "")
		reply, err := p.backend.CreateReply(ctx, participant, history, text)
		if err != nil {
			run.set(core.RunFailed, err.Error(), "")
			return
		}
		run.set(core.RunCompleted, "", reply)
	}()

	return handle, nil
}

// Poll implements Provider, refreshing the handle from the tracked run.
func (p *BackendProvider) Poll(_ context.Context, handle *core.RunHandle) error {
	run, ok := p.lookup(handle.RunID)
	if !ok {
		return fmt.Errorf("unknown run %s", handle.RunID)
	}

	status, detail, _ := run.snapshot()
	handle.Status = status
	handle.StatusDetail = detail
	return nil
}

// Reply implements Provider. The run is forgotten after extraction; handles
// are never reused across turns.
func (p *BackendProvider) Reply(_ context.Context, handle *core.RunHandle) (string, error) {
	run, ok := p.lookup(handle.RunID)
	if !ok {
		return "", fmt.Errorf("unknown run %s", handle.RunID)
	}

	status, detail, reply := run.snapshot()
	if status != core.RunCompleted {
		return "", fmt.Errorf("run %s not completed (status %s, detail %q)", handle.RunID, status, detail)
	}

	p.forget(handle.RunID)
	return reply, nil
}

// Discard implements Provider, dropping whatever is still tracked for a run
// that failed, timed out or errored mid-poll. The backend goroutine may keep
// writing to the detached run; that state is simply unreachable afterwards.
func (p *BackendProvider) Discard(handle *core.RunHandle) {
	p.forget(handle.RunID)
}

func (p *BackendProvider) lookup(runID string) (*backendRun, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	run, ok := p.runs[runID]
	return run, ok
}

func (p *BackendProvider) forget(runID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.runs, runID)
}

// NewBackendClient is a convenience wiring a Backend straight into a poll
// driven Client.
func NewBackendClient(backend Backend, optFns ...func(o *Options)) *Client {
	return NewClient(NewBackendProvider(backend), optFns...)
}
