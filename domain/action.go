package domain

import (
	"fmt"
	"strings"
)

// Action is one of Fold, Check, Call or Raise
type Action interface {
	Kind() string
	action()
}

type Fold struct{}

type Check struct{}

type Call struct{}

// Raise puts Amount chips on top of whatever is needed to call
type Raise struct {
	Amount int
}

func (Fold) Kind() string  { return "fold" }
func (Check) Kind() string { return "check" }
func (Call) Kind() string  { return "call" }
func (Raise) Kind() string { return "raise" }

func (Fold) action()  {}
func (Check) action() {}
func (Call) action()  {}
func (Raise) action() {}

// ParseAction builds an action from its wire name. Bet is accepted as a raise.
func ParseAction(kind string, amount int) (Action, error) {
	switch strings.ToLower(kind) {
	case "fold":
		return Fold{}, nil
	case "check":
		return Check{}, nil
	case "call":
		return Call{}, nil
	case "raise", "bet":
		return Raise{Amount: amount}, nil
	default:
		return nil, actionErr(ReasonUnknownAction, "unknown action %q", kind)
	}
}

// ActionRecord is one entry of a hand's action log
type ActionRecord struct {
	PlayerID string `json:"player_id"`
	Street   Street `json:"street"`
	Kind     string `json:"kind"`
	Amount   int    `json:"amount"`
	Label    string `json:"label"`
}

func raiseLabel(to int) string {
	return fmt.Sprintf("RAISES TO %d", to)
}
