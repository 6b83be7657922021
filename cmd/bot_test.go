package cmd

import (
	"math/rand"
	"testing"

	"github.com/lazharichir/holdem/cards"
	"github.com/lazharichir/holdem/domain"
	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name string
		view domain.HandView
		want domain.Action
	}{
		{
			name: "raises aces",
			view: domain.HandView{MyHole: cards.MustParse("As Ad"), Pot: 3, ToCall: 1, MyChips: 99, AvailableActions: []string{"fold", "call", "raise"}},
			want: domain.Raise{Amount: 2},
		},
		{
			name: "raise is capped by the stack",
			view: domain.HandView{MyHole: cards.MustParse("As Ad"), Pot: 80, ToCall: 10, MyChips: 30, AvailableActions: []string{"fold", "call", "raise"}},
			want: domain.Raise{Amount: 20},
		},
		{
			name: "checks junk for free",
			view: domain.HandView{MyHole: cards.MustParse("7c 2d"), Pot: 4, MyChips: 98, AvailableActions: []string{"fold", "check", "raise"}},
			want: domain.Check{},
		},
		{
			name: "calls one big blind with junk",
			view: domain.HandView{MyHole: cards.MustParse("7c 2d"), Pot: 3, ToCall: 2, MyChips: 98, AvailableActions: []string{"fold", "call", "raise"}},
			want: domain.Call{},
		},
		{
			name: "folds junk to a raise",
			view: domain.HandView{MyHole: cards.MustParse("7c 2d"), Pot: 30, ToCall: 20, MyChips: 98, AvailableActions: []string{"fold", "call", "raise"}},
			want: domain.Fold{},
		},
		{
			name: "calls all in with quads when raising is impossible",
			view: domain.HandView{MyHole: cards.MustParse("9s 9d"), Board: cards.MustParse("9h 9c 2s"), Pot: 100, ToCall: 50, MyChips: 50, AvailableActions: []string{"fold", "call"}},
			want: domain.Call{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := int64(0); seed < 20; seed++ {
				got := decide(tt.view, 2, rand.New(rand.NewSource(seed)))
				assert.Equal(t, tt.want, got, "seed %d", seed)
			}
		})
	}
}

func TestHandStrength(t *testing.T) {
	assert.Greater(t, handStrength(cards.MustParse("As Ad"), nil), handStrength(cards.MustParse("Ks Qs"), nil))
	assert.Greater(t, handStrength(cards.MustParse("Ks Qs"), nil), handStrength(cards.MustParse("Kc Qd"), nil))
	assert.Greater(t,
		handStrength(cards.MustParse("Ks Qs"), cards.MustParse("2s 7s 9s")),
		handStrength(cards.MustParse("Kc Kd"), cards.MustParse("2s 7s 9s")),
	)
	assert.Zero(t, handStrength(nil, nil))
}
