package domain

import (
	"github.com/lazharichir/holdem/cards"
)

// HandView is the table as one player is allowed to see it
type HandView struct {
	TableID    string      `json:"table_id"`
	HandID     string      `json:"hand_id,omitempty"`
	HandNumber int         `json:"hand_number"`
	Street     Street      `json:"street,omitempty"`
	Status     HandStatus  `json:"status,omitempty"`
	PlayerID   string      `json:"player_id"`
	MyTurn     bool        `json:"my_turn"`
	MyChips    int         `json:"my_chips"`
	ToCall     int         `json:"to_call"`
	MyHole     cards.Stack `json:"my_hole"`
	Board      cards.Stack `json:"board"`
	Pot        int         `json:"pot"`
	HighBet    int         `json:"high_bet"`
	DealerSeat int         `json:"dealer_seat"`

	Players          []PlayerView `json:"players"`
	AvailableActions []string     `json:"available_actions"`
	SessionEnding    bool         `json:"session_ending"`
	VotingOpen       bool         `json:"voting_open"`
}

type PlayerView struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Seat           int         `json:"seat"`
	Chips          int         `json:"chips"`
	StreetBet      int         `json:"street_bet"`
	InHand         bool        `json:"in_hand"`
	HasFolded      bool        `json:"has_folded"`
	IsAllIn        bool        `json:"is_all_in"`
	IsCurrent      bool        `json:"is_current"`
	IsDealer       bool        `json:"is_dealer"`
	SitOutNextHand bool        `json:"sit_out_next_hand"`
	Eliminated     bool        `json:"eliminated"`
	LastAction     string      `json:"last_action,omitempty"`
	HoleCards      cards.Stack `json:"hole_cards,omitempty"` // only the viewer's, or everyone's live hands after a showdown
}

// BuildPlayerView constructs a view of the table specific to a player
func (t *Table) BuildPlayerView(playerID string) HandView {
	view := HandView{
		TableID:       t.ID,
		PlayerID:      playerID,
		MyChips:       t.ChipsOf(playerID),
		Board:         cards.Stack{},
		SessionEnding: t.session.endAfterHand,
		VotingOpen:    t.session.votingOpen,
	}

	hand := t.Hand
	if hand != nil {
		view.HandID = hand.ID
		view.HandNumber = hand.Number
		view.Street = hand.Street
		view.Status = hand.Status
		view.Board = hand.Board()
		view.Pot = hand.Pot()
		view.HighBet = hand.HighBet
		view.DealerSeat = hand.Seats[hand.Dealer].Seat
		view.MyTurn = hand.CurrentPlayerID() == playerID && playerID != ""
	}

	shownDown := hand != nil && hand.Status == StatusResolved && hand.Outcome == OutcomeShowdown

	for _, p := range t.Players {
		pv := PlayerView{
			ID:             p.ID,
			Name:           p.Name,
			Seat:           p.Seat,
			Chips:          t.ChipsOf(p.ID),
			SitOutNextHand: p.SitOutNextHand,
			Eliminated:     p.Eliminated,
		}
		if hand != nil {
			if seat, ok := hand.Seat(p.ID); ok {
				pv.InHand = true
				pv.StreetBet = seat.StreetBet
				pv.HasFolded = seat.Folded
				pv.IsAllIn = seat.AllIn
				pv.LastAction = seat.LastAction
				pv.IsCurrent = hand.CurrentPlayerID() == p.ID
				pv.IsDealer = hand.Seats[hand.Dealer].PlayerID == p.ID
				if p.ID == playerID || (shownDown && !seat.Folded) {
					pv.HoleCards = seat.Hole
				}
				if p.ID == playerID {
					view.MyHole = seat.Hole
					view.ToCall = max(0, hand.HighBet-seat.StreetBet)
				}
			}
		}
		view.Players = append(view.Players, pv)
	}

	if view.MyTurn {
		view.AvailableActions = availableActions(view.ToCall, view.MyChips)
	}
	return view
}

func availableActions(toCall, stack int) []string {
	actions := []string{Fold{}.Kind()}
	if toCall == 0 {
		actions = append(actions, Check{}.Kind())
	} else {
		actions = append(actions, Call{}.Kind())
	}
	if stack > toCall {
		actions = append(actions, Raise{}.Kind())
	}
	return actions
}
