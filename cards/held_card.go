package cards

type CardVisibility string

const (
	FaceDown      CardVisibility = "down"  // Nobody can see
	FaceUpToOwner CardVisibility = "owner" // Only the owner can see
	FaceUpToAll   CardVisibility = "all"   // Everyone can see
)

// HeldCard is a dealt card together with who may see it
type HeldCard struct {
	Card       Card           `json:"card"`
	Visibility CardVisibility `json:"visibility"`
}

// NewHeldCard creates a new held card with the specified visibility
func NewHeldCard(card Card, visibility CardVisibility) HeldCard {
	return HeldCard{
		Card:       card,
		Visibility: visibility,
	}
}

// Revealed reports whether the card is face up to everyone
func (c HeldCard) Revealed() bool {
	return c.Visibility == FaceUpToAll
}

// VisibleTo reports whether the card can be seen by its owner or by everyone
func (c HeldCard) VisibleTo(isOwner bool) bool {
	switch c.Visibility {
	case FaceUpToAll:
		return true
	case FaceUpToOwner:
		return isOwner
	default:
		return false
	}
}

// VisibleToAll sets the card as face up to all
func (c *HeldCard) VisibleToAll() {
	c.Visibility = FaceUpToAll
}

type HeldStack []HeldCard

// Cards returns the underlying cards regardless of visibility
func (s HeldStack) Cards() Stack {
	out := make(Stack, len(s))
	for i, c := range s {
		out[i] = c.Card
	}
	return out
}

// Revealed returns the cards that are face up to everyone
func (s HeldStack) Revealed() Stack {
	var out Stack
	for _, c := range s {
		if c.Revealed() {
			out = append(out, c.Card)
		}
	}
	return out
}

// Masked returns a copy in which cards not face up to everyone are blanked,
// keeping their visibility
func (s HeldStack) Masked() HeldStack {
	out := make(HeldStack, len(s))
	for i, c := range s {
		out[i] = c
		if !c.Revealed() {
			out[i].Card = Card{}
		}
	}
	return out
}

// RevealRange turns the cards in [from, to) face up and returns them
func (s HeldStack) RevealRange(from, to int) Stack {
	var out Stack
	for i := from; i < to && i < len(s); i++ {
		if !s[i].Revealed() {
			s[i].VisibleToAll()
			out = append(out, s[i].Card)
		}
	}
	return out
}
