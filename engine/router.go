package engine

import (
	"fmt"

	"github.com/itsonlyfabs/teamchat/core"
)

// Route decides the ordered target set for one user turn.
//
// Precedence: an explicit broadcast addresses the whole roster in session
// order regardless of mentions; otherwise resolved mentions win, reordered
// to session order; otherwise the active participant is the single target.
// Single-mode sessions always route to their sole participant.
func Route(session *core.ChatSession, mentionTargets []string, broadcast bool) ([]core.Participant, error) {
	if len(session.Participants) == 0 {
		return nil, fmt.Errorf("session %s has no participants", session.ID)
	}

	if session.Mode == core.ModeSingle {
		return []core.Participant{session.Participants[0]}, nil
	}

	if broadcast {
		targets := make([]core.Participant, len(session.Participants))
		copy(targets, session.Participants)
		return targets, nil
	}

	if len(mentionTargets) > 0 {
		return session.InRosterOrder(mentionTargets), nil
	}

	active, ok := session.ActiveParticipant()
	if !ok {
		return nil, fmt.Errorf("active participant %s not in roster: %w", session.ActiveParticipantID, core.ErrInvalidParticipant)
	}
	return []core.Participant{active}, nil
}
