package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrSessionEnded      = errors.New("session has ended")
	ErrNotEnoughPlayers  = errors.New("not enough players to start a hand")
	ErrHandInProgress    = errors.New("a hand is already in progress")
	ErrTableFull         = errors.New("table is full")
	ErrPlayerAlreadySeat = errors.New("player already at table")
	ErrVotingClosed      = errors.New("voting is not open")
)

// Reason is the machine readable cause of a rejected action
type Reason string

const (
	ReasonNotYourTurn       Reason = "NotYourTurn"
	ReasonIllegalCheck      Reason = "IllegalCheck"
	ReasonIllegalCall       Reason = "IllegalCall"
	ReasonInsufficientFunds Reason = "InsufficientFunds"
	ReasonInvalidAmount     Reason = "InvalidAmount"
	ReasonRoundNotActive    Reason = "RoundNotActive"
	ReasonPlayerNotFound    Reason = "PlayerNotFound"
	ReasonUnknownAction     Reason = "UnknownAction"
)

// ActionError rejects an action that breaks the turn or betting rules.
// The hand is left untouched.
type ActionError struct {
	Reason  Reason
	Message string
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func actionErr(reason Reason, format string, args ...any) *ActionError {
	return &ActionError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// ReasonOf returns the reason carried by an ActionError anywhere in err's chain
func ReasonOf(err error) (Reason, bool) {
	var ae *ActionError
	if errors.As(err, &ae) {
		return ae.Reason, true
	}
	return "", false
}

// ValidationError reports a malformed configuration value
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NotFoundError reports an unknown table or player
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// ResourceExhaustionError means the deck ran out mid-hand. It cannot happen
// with at most ten seats and is fatal to the table.
type ResourceExhaustionError struct {
	Err error
}

func (e *ResourceExhaustionError) Error() string {
	return "resource exhausted: " + e.Err.Error()
}

func (e *ResourceExhaustionError) Unwrap() error { return e.Err }
