package cards

import (
	"errors"
	"math/rand"
	"time"
)

// ErrEmptyDeck is returned when drawing from an exhausted deck
var ErrEmptyDeck = errors.New("deck is empty")

// NewDeck52 creates an ordered standard deck of 52 cards
func NewDeck52() Stack {
	deck := make(Stack, 0, 52)
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			deck = append(deck, Card{Rank: rank, Suit: suit})
		}
	}
	return deck
}

// ShuffleCards returns a shuffled copy of the cards
func ShuffleCards(cards Stack, r *rand.Rand) Stack {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	shuffled := make(Stack, len(cards))
	copy(shuffled, cards)

	r.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled
}

// Deck is a consumable sequence of cards, drawn from the top
type Deck struct {
	cards Stack
}

// NewDeck creates a shuffled 52 card deck. A nil source seeds from the clock.
func NewDeck(r *rand.Rand) *Deck {
	return &Deck{cards: ShuffleCards(NewDeck52(), r)}
}

// NewOrderedDeck creates a deck that deals the given cards in order
func NewOrderedDeck(cards Stack) *Deck {
	d := &Deck{cards: make(Stack, len(cards))}
	copy(d.cards, cards)
	return d
}

// Draw removes and returns the top card
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmptyDeck
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, nil
}

// Len returns the number of cards left
func (d *Deck) Len() int {
	return len(d.cards)
}

// Remaining returns a copy of the undealt cards in draw order
func (d *Deck) Remaining() Stack {
	out := make(Stack, len(d.cards))
	copy(out, d.cards)
	return out
}
