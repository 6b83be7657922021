package domain

import (
	"encoding/json"
	"time"

	"github.com/lazharichir/holdem/cards"
	"github.com/pkg/errors"
)

// HandSnapshot is a serializable copy of a hand, deck included
type HandSnapshot struct {
	ID            string          `json:"id"`
	TableID       string          `json:"table_id"`
	Number        int             `json:"number"`
	Dealer        int             `json:"dealer"`
	SmallBlind    int             `json:"small_blind"`
	BigBlind      int             `json:"big_blind"`
	Street        Street          `json:"street"`
	Seats         []HandSeat      `json:"seats"`
	Community     cards.HeldStack `json:"community"`
	HighBet       int             `json:"high_bet"`
	LastAggressor int             `json:"last_aggressor"`
	Current       int             `json:"current"`
	Status        HandStatus      `json:"status"`
	Outcome       Outcome         `json:"outcome,omitempty"`
	Log           []ActionRecord  `json:"log"`
	Deck          cards.Stack     `json:"deck"`
	StartedAt     time.Time       `json:"started_at"`
}

// Snapshot copies the hand so that later play does not alter it
func (h *Hand) Snapshot() HandSnapshot {
	s := HandSnapshot{
		ID:            h.ID,
		TableID:       h.TableID,
		Number:        h.Number,
		Dealer:        h.Dealer,
		SmallBlind:    h.SmallBlind,
		BigBlind:      h.BigBlind,
		Street:        h.Street,
		Seats:         make([]HandSeat, len(h.Seats)),
		Community:     append(cards.HeldStack{}, h.Community...),
		HighBet:       h.HighBet,
		LastAggressor: h.LastAggressor,
		Current:       h.Current,
		Status:        h.Status,
		Outcome:       h.Outcome,
		Log:           append([]ActionRecord{}, h.Log...),
		StartedAt:     h.StartedAt,
	}
	for i, seat := range h.Seats {
		s.Seats[i] = *seat
		s.Seats[i].Hole = append(cards.Stack{}, seat.Hole...)
	}
	if h.deck != nil {
		s.Deck = h.deck.Remaining()
	}
	return s
}

// MarshalJSON encodes the hand through its snapshot
func (h *Hand) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Snapshot())
}

// RestoreHand rebuilds a hand from a snapshot
func RestoreHand(s HandSnapshot) (*Hand, error) {
	n := len(s.Seats)
	if n < 2 {
		return nil, errors.Errorf("snapshot has %d seats", n)
	}
	for name, idx := range map[string]int{"dealer": s.Dealer, "small blind": s.SmallBlind, "big blind": s.BigBlind} {
		if idx < 0 || idx >= n {
			return nil, errors.Errorf("snapshot %s index %d out of range", name, idx)
		}
	}
	if s.Current < -1 || s.Current >= n || s.LastAggressor < -1 || s.LastAggressor >= n {
		return nil, errors.New("snapshot turn pointers out of range")
	}

	h := &Hand{
		ID:            s.ID,
		TableID:       s.TableID,
		Number:        s.Number,
		Dealer:        s.Dealer,
		SmallBlind:    s.SmallBlind,
		BigBlind:      s.BigBlind,
		Street:        s.Street,
		Seats:         make([]*HandSeat, n),
		Community:     append(cards.HeldStack{}, s.Community...),
		HighBet:       s.HighBet,
		LastAggressor: s.LastAggressor,
		Current:       s.Current,
		Status:        s.Status,
		Outcome:       s.Outcome,
		Log:           append([]ActionRecord{}, s.Log...),
		StartedAt:     s.StartedAt,
		deck:          cards.NewOrderedDeck(s.Deck),
	}
	for i := range s.Seats {
		seat := s.Seats[i]
		seat.Hole = append(cards.Stack{}, seat.Hole...)
		h.Seats[i] = &seat
	}
	return h, nil
}

// UnmarshalHandSnapshot decodes a snapshot written by MarshalJSON
func UnmarshalHandSnapshot(data []byte) (HandSnapshot, error) {
	var s HandSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return HandSnapshot{}, errors.Wrap(err, "decoding hand snapshot")
	}
	return s, nil
}
