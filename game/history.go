package game

import (
	"time"

	"github.com/lazharichir/holdem/cards"
	"github.com/lazharichir/holdem/domain/events"
	"github.com/pkg/errors"
)

// ActionEntry is one line of a hand's action log
type ActionEntry struct {
	PlayerID string `json:"player_id"`
	Street   string `json:"street"`
	Action   string `json:"action"`
	Amount   int    `json:"amount"`
	Label    string `json:"label"`
}

// HandSummary is a finished (or running) hand as rebuilt from its events
type HandSummary struct {
	HandID     string                 `json:"hand_id"`
	Number     int                    `json:"number"`
	StartedAt  time.Time              `json:"started_at"`
	EndedAt    time.Time              `json:"ended_at,omitempty"`
	DealerSeat int                    `json:"dealer_seat"`
	Players    []events.SeatInfo      `json:"players"`
	Actions    []ActionEntry          `json:"actions"`
	Board      cards.Stack            `json:"board"`
	Shown      map[string]cards.Stack `json:"shown,omitempty"`
	Pots       []events.AwardedPot    `json:"pots,omitempty"`
	Outcome    string                 `json:"outcome,omitempty"`
	Winners    []string               `json:"winners,omitempty"`
	Stacks     map[string]int         `json:"stacks,omitempty"`
}

// Complete reports whether the hand has ended
func (h *HandSummary) Complete() bool {
	return h.Outcome != ""
}

// TableHistory is what a table's event log says happened at it
type TableHistory struct {
	TableID  string            `json:"table_id"`
	Names    map[string]string `json:"names"`
	Hands    []*HandSummary    `json:"hands"`
	Ended    bool              `json:"ended"`
	WinnerID string            `json:"winner_id,omitempty"`
}

// Hand looks up a hand by ID
func (th *TableHistory) Hand(handID string) (*HandSummary, bool) {
	for _, h := range th.Hands {
		if h.HandID == handID {
			return h, true
		}
	}
	return nil, false
}

func (th *TableHistory) current() *HandSummary {
	if len(th.Hands) == 0 {
		return nil
	}
	return th.Hands[len(th.Hands)-1]
}

// History rebuilds table histories from an event store
type History struct {
	eventStore events.EventStore
}

func NewHistory(eventStore events.EventStore) *History {
	return &History{eventStore: eventStore}
}

// Rebuild replays every stored event of the table in order
func (h *History) Rebuild(tableID string) (*TableHistory, error) {
	evts, err := h.eventStore.LoadEvents(tableID)
	if err != nil {
		return nil, errors.Wrapf(err, "loading events of table %s", tableID)
	}

	th := &TableHistory{
		TableID: tableID,
		Names:   map[string]string{},
		Hands:   []*HandSummary{},
	}
	for _, e := range evts {
		applyEvent(e, th)
	}
	return th, nil
}
