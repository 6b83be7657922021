package hands

import (
	"github.com/lazharichir/holdem/cards"
	"github.com/paulhankin/poker"
)

// Describe returns a readable name for the best hand in cs, such as
// "two pair, kings and fives". Seven card sets are described by
// paulhankin/poker; other sizes fall back to the category name.
func Describe(cs cards.Stack) (string, error) {
	score, err := Evaluate(cs)
	if err != nil {
		return "", err
	}
	if len(cs) != 7 {
		return score.Category.String(), nil
	}

	converted := make([]poker.Card, len(cs))
	for i, c := range cs {
		pc, err := toPokerCard(c)
		if err != nil {
			return "", err
		}
		converted[i] = pc
	}
	return poker.Describe(converted)
}

// toPokerCard maps suits 1..4 to 0..3 and the ace from 14 to 1
func toPokerCard(c cards.Card) (poker.Card, error) {
	rank := int(c.Rank)
	if c.Rank == cards.Ace {
		rank = 1
	}
	return poker.MakeCard(poker.Suit(int(c.Suit)-1), poker.Rank(rank))
}
