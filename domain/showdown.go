package domain

import (
	"sort"

	"github.com/lazharichir/holdem/cards"
	"github.com/lazharichir/holdem/domain/events"
	"github.com/lazharichir/holdem/domain/hands"
	"github.com/lazharichir/holdem/domain/pots"
	"github.com/pkg/errors"
)

// Resolution is how a finished hand paid out
type Resolution struct {
	Outcome   Outcome
	Pots      []events.AwardedPot
	Revealed  map[string]cards.Stack // hole cards shown at showdown
	Board     cards.Stack
	Winnings  map[string]int
	TotalPot  int
	WinnerIDs []string
}

// resolve pays out a complete hand and clears every contribution
func (h *Hand) resolve() (Resolution, error) {
	if h.Status != StatusHandComplete {
		return Resolution{}, errors.Errorf("cannot resolve hand while %s", h.Status)
	}

	res := Resolution{
		Outcome:  h.Outcome,
		TotalPot: h.Pot(),
		Winnings: map[string]int{},
	}

	if h.Outcome == OutcomeSingleSurvivor {
		idx := h.scan(0, true, func(s *HandSeat) bool { return !s.Folded })
		winner := h.Seats[idx]
		winner.Stack += res.TotalPot
		res.Winnings[winner.PlayerID] = res.TotalPot
		res.WinnerIDs = []string{winner.PlayerID}
		res.Pots = []events.AwardedPot{{
			Amount:    res.TotalPot,
			WinnerIDs: []string{winner.PlayerID},
			Shares:    map[string]int{winner.PlayerID: res.TotalPot},
		}}
	} else {
		h.Community.RevealRange(0, len(h.Community))
		res.Board = h.Board()
		res.Revealed = map[string]cards.Stack{}
		for _, s := range h.Seats {
			if !s.Folded {
				res.Revealed[s.PlayerID] = s.Hole
			}
		}
		if err := h.awardPots(&res); err != nil {
			return Resolution{}, err
		}
	}

	for _, s := range h.Seats {
		s.Contributed = 0
		s.StreetBet = 0
	}
	h.Street = StreetShowdown
	h.Status = StatusResolved
	h.Current = -1
	return res, nil
}

func (h *Hand) awardPots(res *Resolution) error {
	contribs := make([]pots.Contribution, len(h.Seats))
	for i, s := range h.Seats {
		contribs[i] = pots.Contribution{
			PlayerID: s.PlayerID,
			Amount:   s.Contributed,
			Folded:   s.Folded,
			AllIn:    s.AllIn,
		}
	}

	type scored struct {
		idx  int
		best hands.Evaluation
	}
	scores := map[string]scored{}
	for i, s := range h.Seats {
		if s.Folded {
			continue
		}
		all := append(append(cards.Stack{}, s.Hole...), res.Board...)
		best, err := hands.Best(all)
		if err != nil {
			return errors.Wrapf(err, "evaluating %s", s.PlayerID)
		}
		scores[s.PlayerID] = scored{idx: i, best: best}
	}

	winnerSet := map[string]bool{}
	for _, pot := range pots.Build(contribs) {
		var winners []scored
		for _, id := range pot.Eligible {
			sc := scores[id]
			if len(winners) == 0 {
				winners = []scored{sc}
				continue
			}
			switch c := hands.Compare(sc.best.Score, winners[0].best.Score); {
			case c > 0:
				winners = []scored{sc}
			case c == 0:
				winners = append(winners, sc)
			}
		}
		if len(winners) == 0 {
			continue
		}

		// odd chips go to the winners closest to the dealer's left
		n := len(h.Seats)
		sort.Slice(winners, func(i, j int) bool {
			return (winners[i].idx-h.Dealer-1+n)%n < (winners[j].idx-h.Dealer-1+n)%n
		})

		award := events.AwardedPot{Amount: pot.Amount, Shares: map[string]int{}}
		share, remainder := pot.Amount/len(winners), pot.Amount%len(winners)
		for i, w := range winners {
			amount := share
			if i < remainder {
				amount++
			}
			seat := h.Seats[w.idx]
			seat.Stack += amount
			award.WinnerIDs = append(award.WinnerIDs, seat.PlayerID)
			award.Shares[seat.PlayerID] = amount
			res.Winnings[seat.PlayerID] += amount
			if !winnerSet[seat.PlayerID] {
				winnerSet[seat.PlayerID] = true
				res.WinnerIDs = append(res.WinnerIDs, seat.PlayerID)
			}
		}
		award.HandName = describe(h.Seats[winners[0].idx].Hole, res.Board, winners[0].best.Score)
		res.Pots = append(res.Pots, award)
	}
	return nil
}

func describe(hole, board cards.Stack, score hands.Score) string {
	name, err := hands.Describe(append(append(cards.Stack{}, hole...), board...))
	if err != nil || name == "" {
		return score.Category.String()
	}
	return name
}
