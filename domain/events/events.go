package events

import (
	"time"

	"github.com/lazharichir/holdem/cards"
)

type EventHandler func(event Event)

type Event interface {
	Name() string
}

// SeatInfo is a player's public position at the start of a hand
type SeatInfo struct {
	PlayerID string
	Seat     int
	Chips    int
}

// AwardedPot is one pot and who took it
type AwardedPot struct {
	Amount    int
	WinnerIDs []string
	Shares    map[string]int
	HandName  string // empty when the pot was won uncontested
}

// Table membership

type PlayerJoined struct {
	TableID    string
	PlayerID   string
	PlayerName string
	Seat       int
	Chips      int
	At         time.Time
}

func (e PlayerJoined) Name() string { return "PLAYER_JOINED" }

type PlayerLeft struct {
	TableID  string
	PlayerID string
	At       time.Time
}

func (e PlayerLeft) Name() string { return "PLAYER_LEFT" }

type PlayerSitOutChanged struct {
	TableID        string
	PlayerID       string
	SitOutNextHand bool
	At             time.Time
}

func (e PlayerSitOutChanged) Name() string { return "PLAYER_SIT_OUT_CHANGED" }

type PlayerRebuyRequested struct {
	TableID  string
	PlayerID string
	At       time.Time
}

func (e PlayerRebuyRequested) Name() string { return "PLAYER_REBUY_REQUESTED" }

type PlayerRebought struct {
	TableID  string
	PlayerID string
	Chips    int
	At       time.Time
}

func (e PlayerRebought) Name() string { return "PLAYER_REBOUGHT" }

type PlayerEliminated struct {
	TableID  string
	PlayerID string
	At       time.Time
}

func (e PlayerEliminated) Name() string { return "PLAYER_ELIMINATED" }

// Hand lifecycle

type HandStarted struct {
	TableID         string
	HandID          string
	HandNumber      int
	Players         []SeatInfo
	Community       cards.HeldStack // face down cards are blanked
	DealerSeat      int
	SmallBlindSeat  int
	BigBlindSeat    int
	Pot             int
	CurrentPlayerID string
	At              time.Time
}

func (e HandStarted) Name() string { return "HAND_STARTED" }

// HoleCardsDealt is only meant for the player who holds the cards
type HoleCardsDealt struct {
	TableID  string
	HandID   string
	PlayerID string
	Cards    cards.Stack
	At       time.Time
}

func (e HoleCardsDealt) Name() string { return "HOLE_CARDS_DEALT" }

type ActionApplied struct {
	TableID         string
	HandID          string
	PlayerID        string
	Street          string
	Action          string
	Amount          int // chips moved from the stack
	Label           string
	Stack           int
	Pot             int
	CurrentPlayerID string
	At              time.Time
}

func (e ActionApplied) Name() string { return "ACTION_APPLIED" }

type StreetAdvanced struct {
	TableID         string
	HandID          string
	Street          string
	RevealedCards   cards.Stack
	Board           cards.Stack
	Pot             int
	CurrentPlayerID string
	At              time.Time
}

func (e StreetAdvanced) Name() string { return "STREET_ADVANCED" }

type ShowdownReached struct {
	TableID           string
	HandID            string
	RevealedHoleCards map[string]cards.Stack
	Board             cards.Stack
	At                time.Time
}

func (e ShowdownReached) Name() string { return "SHOWDOWN_REACHED" }

type PotsAwarded struct {
	TableID string
	HandID  string
	Pots    []AwardedPot
	At      time.Time
}

func (e PotsAwarded) Name() string { return "POTS_AWARDED" }

type HandEnded struct {
	TableID  string
	HandID   string
	Outcome  string
	FinalPot int
	Winners  []string
	Stacks   map[string]int
	Duration int64 // in milliseconds
	At       time.Time
}

func (e HandEnded) Name() string { return "HAND_ENDED" }

// Session lifecycle

type TimeUpdated struct {
	TableID   string
	Remaining time.Duration
	At        time.Time
}

func (e TimeUpdated) Name() string { return "TIME_UPDATED" }

type TimeExpired struct {
	TableID string
	At      time.Time
}

func (e TimeExpired) Name() string { return "TIME_EXPIRED" }

type VoteCast struct {
	TableID  string
	PlayerID string
	Votes    int
	At       time.Time
}

func (e VoteCast) Name() string { return "VOTE_CAST" }

type SessionExtended struct {
	TableID string
	Voters  []string
	At      time.Time
}

func (e SessionExtended) Name() string { return "SESSION_EXTENDED" }

type SessionEnded struct {
	TableID  string
	WinnerID string
	Stacks   map[string]int
	At       time.Time
}

func (e SessionEnded) Name() string { return "SESSION_ENDED" }
