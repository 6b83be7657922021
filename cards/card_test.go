package cards

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Card
		wantErr bool
	}{
		// Valid cards with different suit notations
		{"Ace of Spades Unicode", "A♠", Card{Rank: Ace, Suit: Spades}, false},
		{"Ace of Spades lowercase", "As", Card{Rank: Ace, Suit: Spades}, false},
		{"Ace of Spades uppercase", "AS", Card{Rank: Ace, Suit: Spades}, false},
		{"Ten of Hearts Unicode", "10♥", Card{Rank: Ten, Suit: Hearts}, false},
		{"Ten of Hearts lowercase", "10h", Card{Rank: Ten, Suit: Hearts}, false},
		{"Ten of Hearts letter", "Th", Card{Rank: Ten, Suit: Hearts}, false},
		{"Queen of Diamonds Unicode", "Q♦", Card{Rank: Queen, Suit: Diamonds}, false},
		{"Queen of Diamonds lowercase", "Qd", Card{Rank: Queen, Suit: Diamonds}, false},
		{"Two of Clubs Unicode", "2♣", Card{Rank: Two, Suit: Clubs}, false},
		{"Two of Clubs uppercase", "2C", Card{Rank: Two, Suit: Clubs}, false},

		{"King of Hearts", "Kh", Card{Rank: King, Suit: Hearts}, false},
		{"Jack of Hearts", "Jh", Card{Rank: Jack, Suit: Hearts}, false},
		{"Nine of Hearts", "9h", Card{Rank: Nine, Suit: Hearts}, false},
		{"Five of Hearts", "5h", Card{Rank: Five, Suit: Hearts}, false},
		{"Three of Hearts", "3h", Card{Rank: Three, Suit: Hearts}, false},

		{"Proper encoding Spades", "A♠", Card{Rank: Ace, Suit: Spades}, false},
		{"Proper encoding Clubs", "2♣", Card{Rank: Two, Suit: Clubs}, false},
		{"Input with mixed case", "aS", Card{Rank: Ace, Suit: Spades}, false},

		// Invalid inputs
		{"Input with trailing space", "AS ", Card{}, true},
		{"Input with leading space", " AS", Card{}, true},
		{"Too short input", "A", Card{}, true},
		{"Empty input", "", Card{}, true},
		{"Invalid suit", "10X", Card{}, true},
		{"Invalid value", "11S", Card{}, true},
		{"Invalid format", "XX", Card{}, true},
		{"Reverse order", "♠A", Card{}, true},
		{"Special characters", "A$", Card{}, true},
		{"Number too large", "100S", Card{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CardFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err, "CardFromString(%q) should return an error", tt.input)
			} else {
				require.NoError(t, err, "CardFromString(%q) should not return an error", tt.input)
				require.Equal(t, tt.want, got, "CardFromString(%q) should return the correct card", tt.input)
			}
		})
	}
}

func TestNew(t *testing.T) {
	c, err := New(Ace, Spades)
	require.NoError(t, err)
	assert.Equal(t, "A♠", c.String())

	_, err = New(1, Spades)
	assert.Error(t, err)
	_, err = New(Ace, 5)
	assert.Error(t, err)
}

func TestCardTextRoundTrip(t *testing.T) {
	in := MustParse("10♥ As 2c")

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `["10♥","A♠","2♣"]`, string(data))

	var out Stack
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestHeldStackReveal(t *testing.T) {
	board := HeldStack{}
	for _, c := range MustParse("2c 3d 4h 5s 6c") {
		board = append(board, NewHeldCard(c, FaceDown))
	}

	assert.Empty(t, board.Revealed())

	flop := board.RevealRange(0, 3)
	assert.Equal(t, MustParse("2c 3d 4h"), flop)
	assert.Equal(t, flop, board.Revealed())

	// revealing again returns only newly turned cards
	assert.Equal(t, MustParse("5s"), board.RevealRange(0, 4))
	assert.False(t, board[4].VisibleTo(true))
}

func TestHeldStackMasked(t *testing.T) {
	board := HeldStack{}
	for _, c := range MustParse("2c 3d 4h 5s 6c") {
		board = append(board, NewHeldCard(c, FaceDown))
	}
	board.RevealRange(0, 3)

	masked := board.Masked()
	require.Len(t, masked, 5)
	assert.Equal(t, MustParse("2c 3d 4h"), masked.Revealed())
	assert.True(t, masked[3].Card.IsZero())
	assert.Equal(t, FaceDown, masked[4].Visibility)
	assert.Equal(t, MustParse("5s"), board[3:4].Cards(), "the original is untouched")

	data, err := json.Marshal(masked)
	require.NoError(t, err)
	assert.NotContains(t, string(data), MustParse("5s")[0].String())
	assert.NotContains(t, string(data), MustParse("6c")[0].String())
}
