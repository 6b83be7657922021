package game

import (
	"github.com/lazharichir/holdem/cards"
	"github.com/lazharichir/holdem/domain/events"
)

// applyEvent dispatches events to their appliers. Events that do not shape
// the history, like clock updates, are skipped.
func applyEvent(event events.Event, th *TableHistory) {
	switch e := event.(type) {
	case events.PlayerJoined:
		th.Names[e.PlayerID] = e.PlayerName
	case events.HandStarted:
		applyHandStarted(e, th)
	case events.ActionApplied:
		applyActionApplied(e, th)
	case events.StreetAdvanced:
		applyStreetAdvanced(e, th)
	case events.ShowdownReached:
		applyShowdownReached(e, th)
	case events.PotsAwarded:
		applyPotsAwarded(e, th)
	case events.HandEnded:
		applyHandEnded(e, th)
	case events.SessionEnded:
		th.Ended = true
		th.WinnerID = e.WinnerID
	}
}

func applyHandStarted(e events.HandStarted, th *TableHistory) {
	th.Hands = append(th.Hands, &HandSummary{
		HandID:     e.HandID,
		Number:     e.HandNumber,
		StartedAt:  e.At,
		DealerSeat: e.DealerSeat,
		Players:    append([]events.SeatInfo{}, e.Players...),
		Actions:    []ActionEntry{},
		Board:      cards.Stack{},
	})
}

// hand returns the summary an in-hand event belongs to. Events of a hand
// whose start was not recorded are dropped.
func hand(th *TableHistory, handID string) *HandSummary {
	if cur := th.current(); cur != nil && cur.HandID == handID {
		return cur
	}
	h, _ := th.Hand(handID)
	return h
}

func applyActionApplied(e events.ActionApplied, th *TableHistory) {
	h := hand(th, e.HandID)
	if h == nil {
		return
	}
	h.Actions = append(h.Actions, ActionEntry{
		PlayerID: e.PlayerID,
		Street:   e.Street,
		Action:   e.Action,
		Amount:   e.Amount,
		Label:    e.Label,
	})
}

func applyStreetAdvanced(e events.StreetAdvanced, th *TableHistory) {
	if h := hand(th, e.HandID); h != nil {
		h.Board = append(cards.Stack{}, e.Board...)
	}
}

func applyShowdownReached(e events.ShowdownReached, th *TableHistory) {
	h := hand(th, e.HandID)
	if h == nil {
		return
	}
	h.Board = append(cards.Stack{}, e.Board...)
	h.Shown = map[string]cards.Stack{}
	for id, hole := range e.RevealedHoleCards {
		h.Shown[id] = append(cards.Stack{}, hole...)
	}
}

func applyPotsAwarded(e events.PotsAwarded, th *TableHistory) {
	if h := hand(th, e.HandID); h != nil {
		h.Pots = append(h.Pots, e.Pots...)
	}
}

func applyHandEnded(e events.HandEnded, th *TableHistory) {
	h := hand(th, e.HandID)
	if h == nil {
		return
	}
	h.EndedAt = e.At
	h.Outcome = e.Outcome
	h.Winners = append([]string{}, e.Winners...)
	h.Stacks = map[string]int{}
	for id, chips := range e.Stacks {
		h.Stacks[id] = chips
	}
}
