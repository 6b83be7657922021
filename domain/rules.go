package domain

import "time"

// MaxSeats is the largest table the deck can deal to
const MaxSeats = 10

// TableRules defines the rules for a poker table
type TableRules struct {
	MaxPlayers    int
	MinPlayers    int
	SmallBlind    int
	BigBlind      int
	BuyIn         int
	TimeBudget    time.Duration
	VotesToExtend int
}

// DefaultRules returns a six handed 1/2 table
func DefaultRules() TableRules {
	return TableRules{
		MaxPlayers:    6,
		MinPlayers:    2,
		SmallBlind:    1,
		BigBlind:      2,
		BuyIn:         100,
		TimeBudget:    30 * time.Minute,
		VotesToExtend: 3,
	}
}

// Validate checks the rules once, before a table exists
func (r TableRules) Validate() error {
	positive := []struct {
		field string
		value int64
	}{
		{"max players", int64(r.MaxPlayers)},
		{"min players", int64(r.MinPlayers)},
		{"small blind", int64(r.SmallBlind)},
		{"big blind", int64(r.BigBlind)},
		{"buy-in", int64(r.BuyIn)},
		{"time budget", int64(r.TimeBudget)},
		{"votes to extend", int64(r.VotesToExtend)},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return &ValidationError{Field: p.field, Message: "must be positive"}
		}
	}

	if r.MaxPlayers > MaxSeats {
		return &ValidationError{Field: "max players", Message: "must be at most 10"}
	}
	if r.MinPlayers > r.MaxPlayers {
		return &ValidationError{Field: "min players", Message: "must not exceed max players"}
	}
	if r.SmallBlind > r.BigBlind {
		return &ValidationError{Field: "small blind", Message: "must not exceed the big blind"}
	}
	return nil
}
