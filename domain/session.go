package domain

import (
	"sort"
	"time"

	"github.com/lazharichir/holdem/domain/events"
)

// sessionState holds the flags the countdown collaborator may change.
// They are only read at hand setup.
type sessionState struct {
	endAfterHand   bool
	timeExpired    bool
	votingOpen     bool
	votes          map[string]bool
	continueVoters map[string]bool
}

// MarkSessionShouldEnd ends the session at the next hand setup. A hand in
// progress is played out first.
func (t *Table) MarkSessionShouldEnd() {
	t.session.endAfterHand = true
}

// SessionShouldEnd reports whether the session ends at the next hand setup
func (t *Table) SessionShouldEnd() bool {
	return t.session.endAfterHand
}

// SetVotedToContinue keeps only the given players from the next hand setup on
func (t *Table) SetVotedToContinue(playerIDs []string) {
	t.session.continueVoters = map[string]bool{}
	for _, id := range playerIDs {
		t.session.continueVoters[id] = true
	}
}

// ReportTime publishes the session time left
func (t *Table) ReportTime(remaining time.Duration) {
	t.emitEvent(events.TimeUpdated{TableID: t.ID, Remaining: remaining, At: t.now()})
}

// TimeExpired reports whether the time budget ran out and no vote has
// extended it since
func (t *Table) TimeExpired() bool {
	return t.session.timeExpired
}

// VotingOpen reports whether players may vote to continue
func (t *Table) VotingOpen() bool {
	return t.session.votingOpen
}

// OpenVoting marks the time budget as spent and starts collecting votes
func (t *Table) OpenVoting() {
	t.session.timeExpired = true
	t.session.votingOpen = true
	t.session.votes = map[string]bool{}
	t.emitEvent(events.TimeExpired{TableID: t.ID, At: t.now()})
}

// Vote records a seated player's wish to keep playing
func (t *Table) Vote(playerID string) error {
	if !t.session.votingOpen {
		return ErrVotingClosed
	}
	if _, err := t.Player(playerID); err != nil {
		return err
	}
	t.session.votes[playerID] = true
	t.emitEvent(events.VoteCast{
		TableID:  t.ID,
		PlayerID: playerID,
		Votes:    len(t.session.votes),
		At:       t.now(),
	})
	return nil
}

// EveryoneVoted reports whether every seated player has voted
func (t *Table) EveryoneVoted() bool {
	return t.session.votingOpen && len(t.Players) > 0 && len(t.session.votes) >= len(t.Players)
}

// CloseVoting tallies the votes. With enough votes the session goes on with
// the voters only; otherwise it ends after the current hand.
func (t *Table) CloseVoting() bool {
	t.session.votingOpen = false
	voters := make([]string, 0, len(t.session.votes))
	for id := range t.session.votes {
		voters = append(voters, id)
	}
	sort.Strings(voters)
	t.session.votes = nil

	if len(voters) < t.Rules.VotesToExtend {
		t.MarkSessionShouldEnd()
		return false
	}

	t.session.timeExpired = false
	t.SetVotedToContinue(voters)
	t.emitEvent(events.SessionExtended{TableID: t.ID, Voters: voters, At: t.now()})
	return true
}
