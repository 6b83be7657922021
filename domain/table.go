package domain

import (
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lazharichir/holdem/cards"
	"github.com/lazharichir/holdem/domain/events"
	"github.com/pkg/errors"
)

type TableStatus string

const (
	TableStatusWaiting TableStatus = "waiting"
	TableStatusPlaying TableStatus = "playing"
	TableStatusEnded   TableStatus = "ended"
)

// Step is what a call to Advance did
type Step string

const (
	StepNone           Step = "none"
	StepStreetRevealed Step = "street_revealed"
	StepHandResolved   Step = "hand_resolved"
)

// Table runs the hands of one session: rotation, dealing, streets,
// showdown and between-hand bookkeeping. It is not safe for concurrent use;
// the owner serializes calls.
type Table struct {
	ID        string
	Name      string
	Rules     TableRules
	Players   []*Player // ordered by seat
	Status    TableStatus
	Hand      *Hand // the current hand, or the last one once resolved
	HandCount int
	WinnerID  string

	dealerSeat    int
	session       sessionState
	eventHandlers []events.EventHandler
	now           func() time.Time
	newDeck       func() *cards.Deck
	newID         func() string
}

type TableOption func(*Table)

// WithClock sets the time source used for event timestamps
func WithClock(now func() time.Time) TableOption {
	return func(t *Table) { t.now = now }
}

// WithRand shuffles every deck from r
func WithRand(r *rand.Rand) TableOption {
	return func(t *Table) {
		t.newDeck = func() *cards.Deck { return cards.NewDeck(r) }
	}
}

// WithDeckSource replaces deck creation, e.g. with prearranged decks
func WithDeckSource(source func() *cards.Deck) TableOption {
	return func(t *Table) { t.newDeck = source }
}

// WithTableID fixes the table ID instead of generating one
func WithTableID(id string) TableOption {
	return func(t *Table) { t.ID = id }
}

// NewTable validates the rules and creates an empty table
func NewTable(name string, rules TableRules, opts ...TableOption) (*Table, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	t := &Table{
		ID:         uuid.NewString(),
		Name:       name,
		Rules:      rules,
		Players:    []*Player{},
		Status:     TableStatusWaiting,
		dealerSeat: -1,
		now:        time.Now,
		newDeck:    func() *cards.Deck { return cards.NewDeck(nil) },
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// RegisterEventHandler subscribes h to every event the table emits
func (t *Table) RegisterEventHandler(h events.EventHandler) {
	t.eventHandlers = append(t.eventHandlers, h)
}

func (t *Table) emitEvent(e events.Event) {
	for _, h := range t.eventHandlers {
		h(e)
	}
}

// Join seats a player at the lowest free seat with the buy-in
func (t *Table) Join(playerID, name string) (*Player, error) {
	if t.Status == TableStatusEnded {
		return nil, ErrSessionEnded
	}
	if _, err := t.Player(playerID); err == nil {
		return nil, ErrPlayerAlreadySeat
	}
	if len(t.Players) >= t.Rules.MaxPlayers {
		return nil, ErrTableFull
	}

	taken := map[int]bool{}
	for _, p := range t.Players {
		taken[p.Seat] = true
	}
	seat := 0
	for taken[seat] {
		seat++
	}

	player := NewPlayer(playerID, name, seat, t.Rules.BuyIn)
	t.Players = append(t.Players, player)
	sort.Slice(t.Players, func(i, j int) bool { return t.Players[i].Seat < t.Players[j].Seat })

	t.emitEvent(events.PlayerJoined{
		TableID:    t.ID,
		PlayerID:   playerID,
		PlayerName: name,
		Seat:       seat,
		Chips:      player.Chips,
		At:         t.now(),
	})
	return player, nil
}

// Leave removes the player, or flags them to go once the current hand ends.
// A player leaving on their turn folds.
func (t *Table) Leave(playerID string) error {
	p, err := t.Player(playerID)
	if err != nil {
		return err
	}
	if t.inHand(playerID) {
		p.LeaveAfterHand = true
		// nobody waits on a player who has left
		if t.Hand.CurrentPlayerID() == playerID {
			return t.Act(playerID, Fold{})
		}
		return nil
	}
	t.removePlayer(playerID)
	return nil
}

// SetSitOut toggles whether the player is dealt into the next hand
func (t *Table) SetSitOut(playerID string, sitOut bool) error {
	p, err := t.Player(playerID)
	if err != nil {
		return err
	}
	p.SitOutNextHand = sitOut
	t.emitEvent(events.PlayerSitOutChanged{
		TableID:        t.ID,
		PlayerID:       playerID,
		SitOutNextHand: sitOut,
		At:             t.now(),
	})
	return nil
}

// RequestRebuy asks for a fresh buy-in at the next hand setup. It only
// applies if the player's stack is empty by then.
func (t *Table) RequestRebuy(playerID string) error {
	p, err := t.Player(playerID)
	if err != nil {
		return err
	}
	p.RebuyRequested = true
	t.emitEvent(events.PlayerRebuyRequested{TableID: t.ID, PlayerID: playerID, At: t.now()})
	return nil
}

// Player looks up a seated player
func (t *Table) Player(playerID string) (*Player, error) {
	for _, p := range t.Players {
		if p.ID == playerID {
			return p, nil
		}
	}
	return nil, &NotFoundError{Kind: "player", ID: playerID}
}

// ChipsOf returns the player's live stack, counting the current hand
func (t *Table) ChipsOf(playerID string) int {
	if t.Hand != nil && t.Hand.InProgress() {
		if seat, ok := t.Hand.Seat(playerID); ok {
			return seat.Stack
		}
	}
	if p, err := t.Player(playerID); err == nil {
		return p.Chips
	}
	return 0
}

// InProgress reports whether a hand is being played
func (t *Table) InProgress() bool {
	return t.Hand != nil && t.Hand.InProgress()
}

// CanStartHand reports whether StartHand would deal
func (t *Table) CanStartHand() bool {
	if t.Status == TableStatusEnded || t.InProgress() {
		return false
	}
	// once the session is running, StartHand either deals or ends it
	if t.HandCount > 0 || t.session.endAfterHand {
		return true
	}
	return len(t.eligiblePlayers()) >= max(2, t.Rules.MinPlayers)
}

// Pending tells the driver what the table is waiting for
func (t *Table) Pending() HandStatus {
	if t.Hand == nil {
		return StatusResolved
	}
	return t.Hand.Status
}

// StartHand runs the between-hand setup, then deals a new hand and posts
// the blinds. It returns ErrSessionEnded when the setup ends the session.
func (t *Table) StartHand() (*Hand, error) {
	if t.Status == TableStatusEnded {
		return nil, ErrSessionEnded
	}
	if t.InProgress() {
		return nil, ErrHandInProgress
	}
	if t.setupNextHand() {
		return nil, ErrSessionEnded
	}

	eligible := t.eligiblePlayers()
	need := 2
	if t.HandCount == 0 {
		need = max(need, t.Rules.MinPlayers)
	}
	if len(eligible) < need {
		return nil, ErrNotEnoughPlayers
	}

	dealer := 0
	for i, p := range eligible {
		if p.Seat > t.dealerSeat {
			dealer = i
			break
		}
	}
	t.dealerSeat = eligible[dealer].Seat

	seats := make([]*HandSeat, len(eligible))
	for i, p := range eligible {
		seats[i] = &HandSeat{PlayerID: p.ID, Seat: p.Seat, Stack: p.Chips}
	}

	t.HandCount++
	hand := newHand(t.newID(), t.ID, t.HandCount, seats, dealer, t.newDeck(), t.now())
	if err := hand.deal(); err != nil {
		t.Status = TableStatusEnded
		return nil, err
	}
	hand.postBlinds(t.Rules.SmallBlind, t.Rules.BigBlind)
	t.Hand = hand
	t.Status = TableStatusPlaying

	info := make([]events.SeatInfo, len(seats))
	for i, s := range seats {
		info[i] = events.SeatInfo{PlayerID: s.PlayerID, Seat: s.Seat, Chips: s.Stack}
	}
	t.emitEvent(events.HandStarted{
		TableID:         t.ID,
		HandID:          hand.ID,
		HandNumber:      hand.Number,
		Players:         info,
		Community:       hand.Community.Masked(),
		DealerSeat:      seats[hand.Dealer].Seat,
		SmallBlindSeat:  seats[hand.SmallBlind].Seat,
		BigBlindSeat:    seats[hand.BigBlind].Seat,
		Pot:             hand.Pot(),
		CurrentPlayerID: hand.CurrentPlayerID(),
		At:              hand.StartedAt,
	})
	for _, s := range seats {
		t.emitEvent(events.HoleCardsDealt{
			TableID:  t.ID,
			HandID:   hand.ID,
			PlayerID: s.PlayerID,
			Cards:    append(cards.Stack{}, s.Hole...),
			At:       hand.StartedAt,
		})
	}
	return hand, nil
}

// Act applies a player's action to the current hand
func (t *Table) Act(playerID string, a Action) error {
	if !t.InProgress() {
		return actionErr(ReasonRoundNotActive, "no hand in progress")
	}

	hand := t.Hand
	if err := hand.Apply(playerID, a); err != nil {
		return err
	}

	rec := hand.Log[len(hand.Log)-1]
	seat, _ := hand.Seat(playerID)
	t.emitEvent(events.ActionApplied{
		TableID:         t.ID,
		HandID:          hand.ID,
		PlayerID:        playerID,
		Street:          string(rec.Street),
		Action:          rec.Kind,
		Amount:          rec.Amount,
		Label:           rec.Label,
		Stack:           seat.Stack,
		Pot:             hand.Pot(),
		CurrentPlayerID: hand.CurrentPlayerID(),
		At:              t.now(),
	})
	return nil
}

// Advance moves a hand that is waiting on nobody: it reveals the next
// street, or pays out a complete hand.
func (t *Table) Advance() (Step, error) {
	if t.Hand == nil {
		return StepNone, nil
	}
	hand := t.Hand

	switch hand.Status {
	case StatusStreetComplete:
		revealed, err := hand.advanceStreet()
		if err != nil {
			return StepNone, err
		}
		t.emitEvent(events.StreetAdvanced{
			TableID:         t.ID,
			HandID:          hand.ID,
			Street:          string(hand.Street),
			RevealedCards:   revealed,
			Board:           hand.Board(),
			Pot:             hand.Pot(),
			CurrentPlayerID: hand.CurrentPlayerID(),
			At:              t.now(),
		})
		return StepStreetRevealed, nil

	case StatusHandComplete:
		res, err := hand.resolve()
		if err != nil {
			return StepNone, errors.Wrapf(err, "resolving hand %s", hand.ID)
		}
		t.finishHand(hand, res)
		return StepHandResolved, nil
	}
	return StepNone, nil
}

func (t *Table) finishHand(hand *Hand, res Resolution) {
	now := t.now()
	stacks := map[string]int{}
	for _, s := range hand.Seats {
		stacks[s.PlayerID] = s.Stack
		if p, err := t.Player(s.PlayerID); err == nil {
			p.Chips = s.Stack
		}
	}

	if res.Outcome == OutcomeShowdown {
		t.emitEvent(events.ShowdownReached{
			TableID:           t.ID,
			HandID:            hand.ID,
			RevealedHoleCards: res.Revealed,
			Board:             res.Board,
			At:                now,
		})
	}
	t.emitEvent(events.PotsAwarded{TableID: t.ID, HandID: hand.ID, Pots: res.Pots, At: now})
	t.emitEvent(events.HandEnded{
		TableID:  t.ID,
		HandID:   hand.ID,
		Outcome:  string(res.Outcome),
		FinalPot: res.TotalPot,
		Winners:  res.WinnerIDs,
		Stacks:   stacks,
		Duration: now.Sub(hand.StartedAt).Milliseconds(),
		At:       now,
	})
}

// setupNextHand applies rebuys, eliminations and departures, then decides
// whether the session is over
func (t *Table) setupNextHand() bool {
	now := t.now()
	for _, p := range t.Players {
		if p.RebuyRequested {
			p.RebuyRequested = false
			if p.Chips == 0 {
				p.Chips = t.Rules.BuyIn
				p.Eliminated = false
				t.emitEvent(events.PlayerRebought{TableID: t.ID, PlayerID: p.ID, Chips: p.Chips, At: now})
			}
		}
		if p.Chips == 0 && !p.Eliminated {
			p.Eliminated = true
			t.emitEvent(events.PlayerEliminated{TableID: t.ID, PlayerID: p.ID, At: now})
		}
	}

	for _, p := range append([]*Player{}, t.Players...) {
		if p.LeaveAfterHand {
			t.removePlayer(p.ID)
		}
	}
	if voters := t.session.continueVoters; voters != nil {
		for _, p := range append([]*Player{}, t.Players...) {
			if !voters[p.ID] {
				t.removePlayer(p.ID)
			}
		}
		t.session.continueVoters = nil
	}

	if t.HandCount == 0 && !t.session.endAfterHand {
		return false
	}
	eligible := t.eligiblePlayers()
	if t.session.endAfterHand || len(eligible) <= 1 {
		t.endSession(eligible)
		return true
	}
	return false
}

func (t *Table) endSession(eligible []*Player) {
	winner := ""
	if len(eligible) == 1 {
		winner = eligible[0].ID
	} else {
		best := 0
		for _, p := range t.Players {
			if !p.Eliminated && p.Chips > best {
				best, winner = p.Chips, p.ID
			}
		}
	}

	stacks := map[string]int{}
	for _, p := range t.Players {
		stacks[p.ID] = p.Chips
	}
	t.WinnerID = winner
	t.Status = TableStatusEnded
	t.emitEvent(events.SessionEnded{TableID: t.ID, WinnerID: winner, Stacks: stacks, At: t.now()})
}

func (t *Table) eligiblePlayers() []*Player {
	var out []*Player
	for _, p := range t.Players {
		if p.CanBeDealtIn() {
			out = append(out, p)
		}
	}
	return out
}

func (t *Table) inHand(playerID string) bool {
	if !t.InProgress() {
		return false
	}
	_, ok := t.Hand.Seat(playerID)
	return ok
}

func (t *Table) removePlayer(playerID string) {
	for i, p := range t.Players {
		if p.ID == playerID {
			t.Players = append(t.Players[:i], t.Players[i+1:]...)
			t.emitEvent(events.PlayerLeft{TableID: t.ID, PlayerID: playerID, At: t.now()})
			return
		}
	}
}
