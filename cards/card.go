package cards

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Clubs Suit = iota + 1
	Diamonds
	Hearts
	Spades
)

var suitSymbols = map[Suit]string{
	Clubs:    "♣",
	Diamonds: "♦",
	Hearts:   "♥",
	Spades:   "♠",
}

func (s Suit) String() string {
	if sym, ok := suitSymbols[s]; ok {
		return sym
	}
	return "?"
}

// Rank represents a card rank, 2 through 14 (ace high)
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

var rankNames = map[Rank]string{
	Two: "2", Three: "3", Four: "4", Five: "5", Six: "6", Seven: "7", Eight: "8",
	Nine: "9", Ten: "10", Jack: "J", Queen: "Q", King: "K", Ace: "A",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return "?"
}

// Card represents a playing card
type Card struct {
	Rank Rank
	Suit Suit
}

// New creates a card, rejecting ranks outside 2..14 and suits outside 1..4
func New(rank Rank, suit Suit) (Card, error) {
	if rank < Two || rank > Ace {
		return Card{}, fmt.Errorf("invalid card rank: %d", rank)
	}
	if suit < Clubs || suit > Spades {
		return Card{}, fmt.Errorf("invalid card suit: %d", suit)
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// CardFromString creates a card from a string representation
// e.g., "10♠" or "10s" or "Ts" -> Card{Rank: Ten, Suit: Spades}
func CardFromString(s string) (Card, error) {
	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card shorthand: %s", s)
	}

	var suit Suit
	var rest string
	switch {
	case strings.HasSuffix(s, "♠"):
		suit, rest = Spades, strings.TrimSuffix(s, "♠")
	case strings.HasSuffix(s, "♥"):
		suit, rest = Hearts, strings.TrimSuffix(s, "♥")
	case strings.HasSuffix(s, "♦"):
		suit, rest = Diamonds, strings.TrimSuffix(s, "♦")
	case strings.HasSuffix(s, "♣"):
		suit, rest = Clubs, strings.TrimSuffix(s, "♣")
	default:
		rest = s[:len(s)-1]
		switch s[len(s)-1:] {
		case "s", "S":
			suit = Spades
		case "h", "H":
			suit = Hearts
		case "d", "D":
			suit = Diamonds
		case "c", "C":
			suit = Clubs
		default:
			return Card{}, fmt.Errorf("invalid card suit: %s", s[len(s)-1:])
		}
	}

	var rank Rank
	switch strings.ToUpper(rest) {
	case "A":
		rank = Ace
	case "K":
		rank = King
	case "Q":
		rank = Queen
	case "J":
		rank = Jack
	case "10", "T":
		rank = Ten
	case "9":
		rank = Nine
	case "8":
		rank = Eight
	case "7":
		rank = Seven
	case "6":
		rank = Six
	case "5":
		rank = Five
	case "4":
		rank = Four
	case "3":
		rank = Three
	case "2":
		rank = Two
	default:
		return Card{}, fmt.Errorf("invalid card value: %s", rest)
	}

	return Card{Rank: rank, Suit: suit}, nil
}

// MustParse parses a space separated list of cards and panics on error.
// Intended for fixtures.
func MustParse(s string) Stack {
	fields := strings.Fields(s)
	stack := make(Stack, 0, len(fields))
	for _, f := range fields {
		c, err := CardFromString(f)
		if err != nil {
			panic(err)
		}
		stack = append(stack, c)
	}
	return stack
}

// String returns the string representation of a card
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// IsZero reports whether the card is the zero value (no card)
func (c Card) IsZero() bool {
	return c.Rank == 0 && c.Suit == 0
}

// Equals checks if two cards are equal
func (c Card) Equals(other Card) bool {
	return c.Suit == other.Suit && c.Rank == other.Rank
}

func (c Card) MarshalText() ([]byte, error) {
	if c.IsZero() {
		return []byte{}, nil
	}
	return []byte(c.String()), nil
}

func (c *Card) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*c = Card{}
		return nil
	}
	parsed, err := CardFromString(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
