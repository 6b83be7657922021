package hands

import (
	"errors"
	"sort"

	"github.com/lazharichir/holdem/cards"
)

// ErrInsufficientCards is returned when fewer than five cards are evaluated
var ErrInsufficientCards = errors.New("at least 5 cards are required to rank a hand")

// Category is the class of a poker hand, higher is stronger
type Category int

const (
	HighCard Category = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var categoryNames = map[Category]string{
	HighCard:      "High Card",
	OnePair:       "One Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
	RoyalFlush:    "Royal Flush",
}

func (c Category) String() string {
	return categoryNames[c]
}

// Score is a lexicographically ordered hand strength: the category first,
// then tiebreak ranks highest first.
type Score struct {
	Category  Category `json:"category"`
	Tiebreaks []int    `json:"tiebreaks"`
}

// Compare returns -1 if a is worse than b, 0 on an exact tie, 1 if a is better
func Compare(a, b Score) int {
	if c := compareInt(int(a.Category), int(b.Category)); c != 0 {
		return c
	}
	for i := 0; i < len(a.Tiebreaks) && i < len(b.Tiebreaks); i++ {
		if c := compareInt(a.Tiebreaks[i], b.Tiebreaks[i]); c != 0 {
			return c
		}
	}
	return compareInt(len(a.Tiebreaks), len(b.Tiebreaks))
}

// Evaluation is the best five card hand found among a set of cards
type Evaluation struct {
	Score Score
	Cards cards.Stack // the five cards making the hand
}

// Evaluate ranks the best five card hand among 5 to 7 cards
func Evaluate(cs cards.Stack) (Score, error) {
	best, err := Best(cs)
	if err != nil {
		return Score{}, err
	}
	return best.Score, nil
}

// Best returns the strongest five card hand among the cards
func Best(cs cards.Stack) (Evaluation, error) {
	if len(cs) < 5 {
		return Evaluation{}, ErrInsufficientCards
	}

	var best Evaluation
	for i, combo := range combinations(len(cs), 5) {
		hand := make(cards.Stack, 5)
		for j, idx := range combo {
			hand[j] = cs[idx]
		}
		score := evaluateHand(hand)
		if i == 0 || Compare(score, best.Score) > 0 {
			best = Evaluation{Score: score, Cards: sortCardsByRank(hand)}
		}
	}
	return best, nil
}

// sortCardsByRank sorts cards by rank in descending order
func sortCardsByRank(hand cards.Stack) cards.Stack {
	result := make(cards.Stack, len(hand))
	copy(result, hand)

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Rank > result[j].Rank
	})

	return result
}

type rankGroup struct {
	rank  int
	count int
}

// groupRanks groups the hand by rank, largest groups first then highest rank
func groupRanks(hand cards.Stack) []rankGroup {
	counts := map[int]int{}
	for _, c := range hand {
		counts[int(c.Rank)]++
	}
	groups := make([]rankGroup, 0, len(counts))
	for r, n := range counts {
		groups = append(groups, rankGroup{rank: r, count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})
	return groups
}

// evaluateHand scores exactly five cards
func evaluateHand(hand cards.Stack) Score {
	sorted := sortCardsByRank(hand)
	flush := isFlush(sorted)
	straightHigh := straightHighCard(sorted)

	if flush && straightHigh == int(cards.Ace) {
		return Score{Category: RoyalFlush, Tiebreaks: []int{}}
	}
	if flush && straightHigh > 0 {
		return Score{Category: StraightFlush, Tiebreaks: []int{straightHigh}}
	}

	groups := groupRanks(sorted)
	kickersAfter := func(n int) []int {
		out := make([]int, 0, len(groups)-n)
		for _, g := range groups[n:] {
			out = append(out, g.rank)
		}
		return out
	}

	switch {
	case groups[0].count == 4:
		return Score{Category: FourOfAKind, Tiebreaks: []int{groups[0].rank, groups[1].rank}}
	case groups[0].count == 3 && groups[1].count == 2:
		return Score{Category: FullHouse, Tiebreaks: []int{groups[0].rank, groups[1].rank}}
	case flush:
		return Score{Category: Flush, Tiebreaks: ranksOf(sorted)}
	case straightHigh > 0:
		return Score{Category: Straight, Tiebreaks: []int{straightHigh}}
	case groups[0].count == 3:
		return Score{Category: ThreeOfAKind, Tiebreaks: append([]int{groups[0].rank}, kickersAfter(1)...)}
	case groups[0].count == 2 && groups[1].count == 2:
		return Score{Category: TwoPair, Tiebreaks: append([]int{groups[0].rank, groups[1].rank}, kickersAfter(2)...)}
	case groups[0].count == 2:
		return Score{Category: OnePair, Tiebreaks: append([]int{groups[0].rank}, kickersAfter(1)...)}
	default:
		return Score{Category: HighCard, Tiebreaks: ranksOf(sorted)}
	}
}

func ranksOf(hand cards.Stack) []int {
	out := make([]int, len(hand))
	for i, c := range hand {
		out[i] = int(c.Rank)
	}
	return out
}

// isFlush checks if all cards are of the same suit
func isFlush(hand cards.Stack) bool {
	for _, c := range hand[1:] {
		if c.Suit != hand[0].Suit {
			return false
		}
	}
	return true
}

// straightHighCard returns the top rank of a five card straight, 5 for the
// A-2-3-4-5 wheel, or 0 when the hand is not a straight. hand must be sorted
// highest first.
func straightHighCard(hand cards.Stack) int {
	if isA5Straight(hand) {
		return int(cards.Five)
	}
	for i := 1; i < len(hand); i++ {
		if hand[i-1].Rank != hand[i].Rank+1 {
			return 0
		}
	}
	return int(hand[0].Rank)
}

// isA5Straight checks for A-5-4-3-2 (where Ace is low)
func isA5Straight(hand cards.Stack) bool {
	want := []cards.Rank{cards.Ace, cards.Five, cards.Four, cards.Three, cards.Two}
	if len(hand) != len(want) {
		return false
	}
	for i, r := range want {
		if hand[i].Rank != r {
			return false
		}
	}
	return true
}

// compareInt is a helper function to compare two integers
func compareInt(a, b int) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

// combinations generates all possible combinations of k elements from a set of n
func combinations(n, k int) [][]int {
	if k > n || k <= 0 {
		return nil
	}

	var result [][]int
	var combine func(int, []int)

	combine = func(start int, current []int) {
		if len(current) == k {
			combo := make([]int, k)
			copy(combo, current)
			result = append(result, combo)
			return
		}

		for i := start; i < n; i++ {
			current = append(current, i)
			combine(i+1, current)
			current = current[:len(current)-1]
		}
	}

	combine(0, []int{})
	return result
}

// HandComparisonResult represents the result of comparing multiple hands
type HandComparisonResult struct {
	PlayerID   string
	Score      Score
	HandCards  cards.Stack
	IsWinner   bool
	PlaceIndex int // 0 for first place, 1 for second place, etc.
}

// CompareHands ranks several players' cards, best first. Players holding
// fewer than five cards are left out. Ties share a place index and, when
// tied for first, are all winners. Equal hands are ordered by player ID.
func CompareHands(playerCards map[string]cards.Stack) []HandComparisonResult {
	results := make([]HandComparisonResult, 0, len(playerCards))
	for playerID, cs := range playerCards {
		best, err := Best(cs)
		if err != nil {
			continue
		}
		results = append(results, HandComparisonResult{
			PlayerID:  playerID,
			Score:     best.Score,
			HandCards: best.Cards,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if c := Compare(results[i].Score, results[j].Score); c != 0 {
			return c > 0
		}
		return results[i].PlayerID < results[j].PlayerID
	})

	for i := range results {
		switch {
		case i == 0:
			results[i].PlaceIndex = 0
		case Compare(results[i].Score, results[i-1].Score) == 0:
			results[i].PlaceIndex = results[i-1].PlaceIndex
		default:
			results[i].PlaceIndex = i
		}
		results[i].IsWinner = results[i].PlaceIndex == 0
	}

	return results
}
