package domain

// Player is a seated participant; it outlives individual hands
type Player struct {
	ID             string
	Name           string
	Seat           int
	Chips          int
	Eliminated     bool
	SitOutNextHand bool
	RebuyRequested bool
	LeaveAfterHand bool
}

// NewPlayer creates a new player with the given ID and name
func NewPlayer(id string, name string, seat int, startingChips int) *Player {
	return &Player{
		ID:    id,
		Name:  name,
		Seat:  seat,
		Chips: startingChips,
	}
}

// CanBeDealtIn reports whether the player takes part in the next hand
func (p *Player) CanBeDealtIn() bool {
	return !p.Eliminated && !p.SitOutNextHand && !p.LeaveAfterHand && p.Chips > 0
}
