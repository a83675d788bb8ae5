package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/itsonlyfabs/teamchat/core"
)

// targetResult is the settled outcome of one target's invocation.
type targetResult struct {
	participant core.Participant
	reply       string
	err         error
}

// invokeAll fans out one goroutine per target and buffers results until all
// have settled (succeeded, failed or timed out). The indexed slice preserves
// target order regardless of completion order.
func (e *Engine) invokeAll(ctx context.Context, targets []core.Participant, history []core.Turn, text string) []targetResult {
	results := make([]targetResult, len(targets))

	var wg sync.WaitGroup
	for i, p := range targets {
		wg.Add(1)
		go func(i int, p core.Participant) {
			defer wg.Done()
			start := time.Now()
			reply, err := e.invoker.Invoke(ctx, p, history, text)
			if err != nil {
				e.logger.Warn("assistant invocation failed participant_id=%s duration=%s: %v", p.ID, time.Since(start), err)
			} else {
				e.logger.Debug("assistant invocation completed participant_id=%s duration=%s", p.ID, time.Since(start))
			}
			results[i] = targetResult{participant: p, reply: reply, err: err}
		}(i, p)
	}
	wg.Wait()

	return results
}

// aggregate turns settled results into the assistant turns of one exchange.
//
// Single target: the reply becomes one attributed turn; an error propagates
// with no turn at all. Broadcast: one turn per success in target order, then
// a synthesized team-summary turn built only from the successes; failures
// come back as warnings. Every target failing yields ErrAllParticipantsFailed.
func aggregate(session *core.ChatSession, results []targetResult) ([]core.Turn, []string, error) {
	if len(results) == 1 {
		r := results[0]
		if r.err != nil {
			return nil, nil, r.err
		}
		return []core.Turn{core.NewAssistantTurn(session.ID, r.participant.ID, r.reply)}, nil, nil
	}

	successes := lo.Filter(results, func(r targetResult, _ int) bool { return r.err == nil })
	failures := lo.Filter(results, func(r targetResult, _ int) bool { return r.err != nil })

	if len(successes) == 0 {
		return nil, nil, fmt.Errorf("broadcast to %d participants: %w", len(results), core.ErrAllParticipantsFailed)
	}

	warnings := lo.Map(failures, func(r targetResult, _ int) string {
		return fmt.Sprintf("%s: %v", r.participant.DisplayName, r.err)
	})

	turns := make([]core.Turn, 0, len(successes)+1)
	for _, r := range successes {
		turns = append(turns, core.NewAssistantTurn(session.ID, r.participant.ID, r.reply))
	}
	turns = append(turns, core.NewTeamSummaryTurn(session.ID, summarize(successes, len(results))))

	return turns, warnings, nil
}

// summarize builds the team-summary body: a short overview line, then each
// reply labeled by participant display name in target order.
func summarize(successes []targetResult, targetCount int) string {
	names := lo.Map(successes, func(r targetResult, _ int) string { return r.participant.DisplayName })

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d of %d team members responded: %s.", len(successes), targetCount, strings.Join(names, ", "))
	for _, r := range successes {
		fmt.Fprintf(&sb, "\n\n**%s**\n%s", r.participant.DisplayName, r.reply)
	}
	return sb.String()
}
