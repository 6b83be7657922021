package pots

import "sort"

// Contribution is what one player put into the hand
type Contribution struct {
	PlayerID string
	Amount   int
	Folded   bool
	AllIn    bool
}

// Pot is an amount of chips and the players who can win it
type Pot struct {
	Amount   int      `json:"amount"`
	Eligible []string `json:"eligible"`
}

// IsEligible reports whether the player can win the pot
func (p Pot) IsEligible(playerID string) bool {
	for _, id := range p.Eligible {
		if id == playerID {
			return true
		}
	}
	return false
}

// Build splits the contributions into a main pot and side pots.
//
// Each distinct all-in level of a live player closes a tier: everyone pays
// into it up to that level, folded players included, and only live players
// who reached the level can win it. Whatever lies above the highest all-in
// level goes to a last pot for the live players who still have chips behind.
// Eligible lists keep the order of contribs.
func Build(contribs []Contribution) []Pot {
	total := 0
	for _, c := range contribs {
		total += c.Amount
	}
	if total == 0 {
		return []Pot{}
	}

	var levels []int
	seen := map[int]bool{}
	for _, c := range contribs {
		if c.Folded || !c.AllIn || c.Amount <= 0 || seen[c.Amount] {
			continue
		}
		seen[c.Amount] = true
		levels = append(levels, c.Amount)
	}
	sort.Ints(levels)

	var result []Pot
	prev := 0
	for _, level := range levels {
		pot := Pot{Eligible: []string{}}
		for _, c := range contribs {
			if share := min(c.Amount, level) - prev; share > 0 {
				pot.Amount += share
			}
			if !c.Folded && c.Amount >= level {
				pot.Eligible = append(pot.Eligible, c.PlayerID)
			}
		}
		result = append(result, pot)
		prev = level
	}

	rest := Pot{Eligible: []string{}}
	for _, c := range contribs {
		if c.Amount > prev {
			rest.Amount += c.Amount - prev
		}
		if !c.Folded && !c.AllIn {
			rest.Eligible = append(rest.Eligible, c.PlayerID)
		}
	}

	switch {
	case rest.Amount == 0:
	case len(rest.Eligible) > 0 || len(result) == 0:
		if len(result) == 0 && len(rest.Eligible) == 0 {
			rest.Eligible = liveIDs(contribs)
		}
		result = append(result, rest)
	default:
		result[len(result)-1].Amount += rest.Amount
	}

	return result
}

// Total sums the amounts of the pots
func Total(ps []Pot) int {
	sum := 0
	for _, p := range ps {
		sum += p.Amount
	}
	return sum
}

func liveIDs(contribs []Contribution) []string {
	ids := []string{}
	for _, c := range contribs {
		if !c.Folded {
			ids = append(ids, c.PlayerID)
		}
	}
	return ids
}
