package domain

import (
	"time"

	"github.com/lazharichir/holdem/cards"
	"github.com/pkg/errors"
	"github.com/sanity-io/litter"
)

// Street is a betting phase of the hand
type Street string

const (
	StreetPreFlop  Street = "pre-flop"
	StreetFlop     Street = "flop"
	StreetTurn     Street = "turn"
	StreetRiver    Street = "river"
	StreetShowdown Street = "showdown"
)

// boardSize is how many community cards are face up during the street
func (s Street) boardSize() int {
	switch s {
	case StreetFlop:
		return 3
	case StreetTurn:
		return 4
	case StreetRiver, StreetShowdown:
		return 5
	default:
		return 0
	}
}

func (s Street) next() Street {
	switch s {
	case StreetPreFlop:
		return StreetFlop
	case StreetFlop:
		return StreetTurn
	case StreetTurn:
		return StreetRiver
	default:
		return StreetShowdown
	}
}

// HandStatus is where the betting state machine stands
type HandStatus string

const (
	StatusAwaitingAction HandStatus = "awaiting_action"
	StatusStreetComplete HandStatus = "street_complete"
	StatusHandComplete   HandStatus = "hand_complete"
	StatusResolved       HandStatus = "resolved"
)

// Outcome is how a complete hand is decided
type Outcome string

const (
	OutcomeShowdown       Outcome = "showdown"
	OutcomeSingleSurvivor Outcome = "single_survivor"
)

// HandSeat is a player's state within one hand
type HandSeat struct {
	PlayerID    string      `json:"player_id"`
	Seat        int         `json:"seat"`
	Stack       int         `json:"stack"`
	Hole        cards.Stack `json:"hole"`
	StreetBet   int         `json:"street_bet"`
	Contributed int         `json:"contributed"`
	Folded      bool        `json:"folded"`
	AllIn       bool        `json:"all_in"`
	Acted       bool        `json:"acted"`
	LastAction  string      `json:"last_action"`
}

func (s *HandSeat) canAct() bool {
	return !s.Folded && !s.AllIn && s.Stack > 0
}

func (s *HandSeat) commit(amount int) {
	s.Stack -= amount
	s.StreetBet += amount
	s.Contributed += amount
	if s.Stack == 0 {
		s.AllIn = true
	}
}

// Hand is the state of one hand. Seat indexes (Dealer, Current, ...) point
// into Seats, which is ordered by table seat.
type Hand struct {
	ID            string
	TableID       string
	Number        int
	Dealer        int
	SmallBlind    int
	BigBlind      int
	Street        Street
	Seats         []*HandSeat
	Community     cards.HeldStack
	HighBet       int
	LastAggressor int
	Current       int
	Status        HandStatus
	Outcome       Outcome
	Log           []ActionRecord
	StartedAt     time.Time

	deck *cards.Deck
}

func newHand(id, tableID string, number int, seats []*HandSeat, dealer int, deck *cards.Deck, startedAt time.Time) *Hand {
	n := len(seats)
	return &Hand{
		ID:            id,
		TableID:       tableID,
		Number:        number,
		Dealer:        dealer,
		SmallBlind:    (dealer + 1) % n,
		BigBlind:      (dealer + 2) % n,
		Street:        StreetPreFlop,
		Seats:         seats,
		LastAggressor: -1,
		Current:       -1,
		Status:        StatusAwaitingAction,
		StartedAt:     startedAt,
		deck:          deck,
	}
}

// deal gives two hole cards to each seat one at a time starting left of
// the dealer, then five face down community cards
func (h *Hand) deal() error {
	n := len(h.Seats)
	for round := 0; round < 2; round++ {
		for i := 1; i <= n; i++ {
			c, err := h.deck.Draw()
			if err != nil {
				return &ResourceExhaustionError{Err: errors.Wrap(err, "dealing hole cards")}
			}
			seat := h.Seats[(h.Dealer+i)%n]
			seat.Hole = append(seat.Hole, c)
		}
	}

	h.Community = make(cards.HeldStack, 0, 5)
	for i := 0; i < 5; i++ {
		c, err := h.deck.Draw()
		if err != nil {
			return &ResourceExhaustionError{Err: errors.Wrap(err, "dealing community cards")}
		}
		h.Community = append(h.Community, cards.NewHeldCard(c, cards.FaceDown))
	}
	return nil
}

// postBlinds takes min(blind, stack) from the blind seats. Posting does not
// count as acting, so the big blind keeps its option.
func (h *Hand) postBlinds(small, big int) {
	h.post(h.SmallBlind, small, "SB")
	h.post(h.BigBlind, big, "BB")

	h.HighBet = max(h.Seats[h.SmallBlind].StreetBet, h.Seats[h.BigBlind].StreetBet)
	h.LastAggressor = h.BigBlind
	h.settle(h.BigBlind, false)
}

func (h *Hand) post(idx, blind int, label string) {
	seat := h.Seats[idx]
	amount := min(blind, seat.Stack)
	seat.commit(amount)
	seat.LastAction = label
	h.Log = append(h.Log, ActionRecord{
		PlayerID: seat.PlayerID,
		Street:   h.Street,
		Kind:     "blind",
		Amount:   amount,
		Label:    label,
	})
}

// Apply runs one player action through the betting state machine. A
// rejected action returns an *ActionError and changes nothing.
func (h *Hand) Apply(playerID string, a Action) error {
	if h.Status != StatusAwaitingAction {
		return actionErr(ReasonRoundNotActive, "no betting round is active")
	}
	idx := h.seatIndex(playerID)
	if idx < 0 {
		return actionErr(ReasonPlayerNotFound, "player %s is not in this hand", playerID)
	}
	if idx != h.Current {
		return actionErr(ReasonNotYourTurn, "Not your turn!")
	}

	seat := h.Seats[idx]
	shortfall := h.HighBet - seat.StreetBet
	rec := ActionRecord{PlayerID: playerID, Street: h.Street}

	switch act := a.(type) {
	case Fold:
		seat.Folded = true
		rec.Kind, rec.Label = act.Kind(), "FOLD"
	case Check:
		if shortfall != 0 {
			return actionErr(ReasonIllegalCheck, "Cannot check - must call %d more", shortfall)
		}
		rec.Kind, rec.Label = act.Kind(), "CHECK"
	case Call:
		if shortfall <= 0 {
			return actionErr(ReasonIllegalCall, "Nothing to call.")
		}
		amount := min(shortfall, seat.Stack)
		seat.commit(amount)
		rec.Kind, rec.Label, rec.Amount = act.Kind(), "CALL", amount
	case Raise:
		if act.Amount <= 0 {
			return actionErr(ReasonInvalidAmount, "Raise amount must be greater than 0.")
		}
		need := shortfall + act.Amount
		if seat.Stack < need {
			return actionErr(ReasonInsufficientFunds, "Not enough chips to raise.")
		}
		seat.commit(need)
		h.HighBet = seat.StreetBet
		h.LastAggressor = idx
		rec.Kind, rec.Label, rec.Amount = act.Kind(), raiseLabel(h.HighBet), need
	default:
		return actionErr(ReasonUnknownAction, "unsupported action %T", a)
	}

	seat.Acted = true
	seat.LastAction = rec.Label
	h.Log = append(h.Log, rec)
	h.settle(idx, false)
	return nil
}

// settle works out the status after a change and moves the turn pointer,
// scanning clockwise from seat from (including from itself when inclusive).
func (h *Hand) settle(from int, inclusive bool) {
	if h.countSeats(func(s *HandSeat) bool { return !s.Folded }) == 1 {
		h.Status = StatusHandComplete
		h.Outcome = OutcomeSingleSurvivor
		h.Current = -1
		return
	}

	actors := h.countSeats((*HandSeat).canAct)
	needsAction := func(s *HandSeat) bool {
		if !s.canAct() {
			return false
		}
		return s.StreetBet < h.HighBet || (!s.Acted && actors > 1)
	}

	if next := h.scan(from, inclusive, needsAction); next >= 0 {
		h.Status = StatusAwaitingAction
		h.Current = next
		return
	}

	// nobody owes action; remember where the turn would go next
	h.Current = h.scan(from, inclusive, (*HandSeat).canAct)
	if h.Street == StreetRiver {
		h.Status = StatusHandComplete
		h.Outcome = OutcomeShowdown
		return
	}
	h.Status = StatusStreetComplete
}

// advanceStreet moves a completed street to the next one and returns the
// community cards it turned face up
func (h *Hand) advanceStreet() (cards.Stack, error) {
	if h.Status != StatusStreetComplete {
		return nil, errors.Errorf("cannot advance street while %s", h.Status)
	}

	prevBoard := h.Street.boardSize()
	h.Street = h.Street.next()
	for _, s := range h.Seats {
		s.StreetBet = 0
		s.Acted = false
	}
	h.HighBet = 0
	h.LastAggressor = -1

	revealed := h.Community.RevealRange(prevBoard, h.Street.boardSize())

	if h.Street == StreetFlop || h.Current < 0 {
		h.settle(h.Dealer, false)
	} else {
		h.settle(h.Current, true)
	}
	return revealed, nil
}

// scan returns the first seat clockwise from start that matches, or -1
func (h *Hand) scan(start int, inclusive bool, match func(*HandSeat) bool) int {
	n := len(h.Seats)
	first, last := 1, n
	if inclusive {
		first, last = 0, n-1
	}
	for i := first; i <= last; i++ {
		idx := ((start+i)%n + n) % n
		if match(h.Seats[idx]) {
			return idx
		}
	}
	return -1
}

func (h *Hand) countSeats(match func(*HandSeat) bool) int {
	count := 0
	for _, s := range h.Seats {
		if match(s) {
			count++
		}
	}
	return count
}

func (h *Hand) seatIndex(playerID string) int {
	for i, s := range h.Seats {
		if s.PlayerID == playerID {
			return i
		}
	}
	return -1
}

// Seat returns the player's state in this hand
func (h *Hand) Seat(playerID string) (*HandSeat, bool) {
	idx := h.seatIndex(playerID)
	if idx < 0 {
		return nil, false
	}
	return h.Seats[idx], true
}

// CurrentPlayerID returns who must act, or "" when nobody is on the clock
func (h *Hand) CurrentPlayerID() string {
	if h.Status != StatusAwaitingAction || h.Current < 0 {
		return ""
	}
	return h.Seats[h.Current].PlayerID
}

// Pot is everything committed to the hand so far
func (h *Hand) Pot() int {
	total := 0
	for _, s := range h.Seats {
		total += s.Contributed
	}
	return total
}

// Board returns the face up community cards
func (h *Hand) Board() cards.Stack {
	return h.Community.Revealed()
}

// InProgress reports whether the hand still needs actions or resolution
func (h *Hand) InProgress() bool {
	return h.Status != StatusResolved
}

// DebugString dumps the full hand state, hole cards and deck included
func (h *Hand) DebugString() string {
	return litter.Sdump(h.Snapshot())
}
