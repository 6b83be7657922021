package cards

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeck52(t *testing.T) {
	deck := NewDeck52()
	require.Len(t, deck, 52)

	seen := map[Card]bool{}
	for _, c := range deck {
		assert.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
}

func TestShuffleCards(t *testing.T) {
	original := NewDeck52()
	shuffled := ShuffleCards(original, rand.New(rand.NewSource(42)))

	require.Len(t, shuffled, len(original))
	assert.ElementsMatch(t, original, shuffled)
	assert.NotEqual(t, original, shuffled)
}

func TestDeckDraw(t *testing.T) {
	deck := NewDeck(rand.New(rand.NewSource(1)))
	require.Equal(t, 52, deck.Len())

	drawn := Stack{}
	for i := 0; i < 52; i++ {
		c, err := deck.Draw()
		require.NoError(t, err)
		assert.False(t, drawn.Contains(c))
		drawn = append(drawn, c)
	}

	_, err := deck.Draw()
	assert.ErrorIs(t, err, ErrEmptyDeck)
}

func TestOrderedDeck(t *testing.T) {
	deck := NewOrderedDeck(MustParse("As Kd"))

	c, err := deck.Draw()
	require.NoError(t, err)
	assert.Equal(t, Card{Rank: Ace, Suit: Spades}, c)
	assert.Equal(t, MustParse("Kd"), deck.Remaining())
}
