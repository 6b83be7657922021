package cmd

import (
	"math/rand"
	"slices"

	"github.com/lazharichir/holdem/cards"
	"github.com/lazharichir/holdem/domain"
	"github.com/lazharichir/holdem/domain/hands"
)

const (
	raiseStrength = 0.7
	callStrength  = 0.4
	jitter        = 0.2
)

// decide picks an action for the player the view belongs to. It only looks
// at what that player may see.
func decide(view domain.HandView, bigBlind int, r *rand.Rand) domain.Action {
	strength := handStrength(view.MyHole, view.Board) + (r.Float64()-0.5)*jitter
	canRaise := slices.Contains(view.AvailableActions, domain.Raise{}.Kind())

	switch {
	case strength >= raiseStrength && canRaise:
		return domain.Raise{Amount: min(max(bigBlind, view.Pot/2), view.MyChips-view.ToCall)}
	case view.ToCall == 0:
		return domain.Check{}
	case strength >= callStrength || view.ToCall <= bigBlind:
		return domain.Call{}
	default:
		return domain.Fold{}
	}
}

// handStrength maps a holding to [0, 1]
func handStrength(hole, board cards.Stack) float64 {
	if len(hole) != 2 {
		return 0
	}
	if len(board) == 0 {
		hi, lo := float64(max(hole[0].Rank, hole[1].Rank)), float64(min(hole[0].Rank, hole[1].Rank))
		if hi == lo {
			return 0.5 + hi/28
		}
		s := (hi + lo) / 28 * 0.6
		if hole[0].Suit == hole[1].Suit {
			s += 0.05
		}
		return s
	}

	score, err := hands.Evaluate(append(slices.Clone(hole), board...))
	if err != nil {
		return 0
	}
	switch score.Category {
	case hands.HighCard:
		return 0.1
	case hands.OnePair:
		return 0.35
	case hands.TwoPair:
		return 0.55
	case hands.ThreeOfAKind:
		return 0.65
	case hands.Straight:
		return 0.75
	case hands.Flush:
		return 0.8
	case hands.FullHouse:
		return 0.9
	default:
		return 1
	}
}
