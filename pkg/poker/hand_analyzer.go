package poker

import (
	"holdem-server/pkg/deck"
	"sort"
)

// HandAnalyzer finds the best five card hand out of up to seven cards
type HandAnalyzer struct {
	// rankCounts is indexed by rank (2-14)
	rankCounts [deck.Ace + 1]int
	suitRanks  map[deck.Suit][]int

	flush         []int
	quads         []int
	trips         []int
	pairs         []int
	singles       []int
	straightFlush int
	straight      int

	hand     Hand
	ranks    []int
	strength int
}

// New analyzes the cards and returns the analyzer
// The cards are typically the two hole cards plus the board
func New(cards []deck.Card) *HandAnalyzer {
	h := &HandAnalyzer{
		suitRanks: make(map[deck.Suit][]int),
	}

	for _, card := range cards {
		h.rankCounts[card.Rank]++
		h.suitRanks[card.Suit] = append(h.suitRanks[card.Suit], card.Rank)
	}

	h.analyzeHand()
	h.calculateHand()
	h.strength = calculateStrength(h.hand, h.ranks)

	return h
}

// analyzeHand buckets the ranks and looks for flushes and straights
func (h *HandAnalyzer) analyzeHand() {
	for rank := deck.Ace; rank >= 2; rank-- {
		switch h.rankCounts[rank] {
		case 4:
			h.quads = append(h.quads, rank)
		case 3:
			h.trips = append(h.trips, rank)
		case 2:
			h.pairs = append(h.pairs, rank)
		case 1:
			h.singles = append(h.singles, rank)
		}
	}

	var present [deck.Ace + 1]bool
	for rank := 2; rank <= deck.Ace; rank++ {
		present[rank] = h.rankCounts[rank] > 0
	}
	h.straight = highestStraight(present)

	for _, suit := range deck.Suits {
		ranks := h.suitRanks[suit]
		if len(ranks) < 5 {
			continue
		}

		sorted := make([]int, len(ranks))
		copy(sorted, ranks)
		sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
		h.flush = sorted[0:5]

		var suited [deck.Ace + 1]bool
		for _, rank := range ranks {
			suited[rank] = true
		}
		h.straightFlush = highestStraight(suited)

		// with seven cards only one suit can hold five
		break
	}
}

// calculateHand picks the best category and its five significant ranks
func (h *HandAnalyzer) calculateHand() {
	if r, ok := h.GetStraightFlush(); ok {
		h.hand, h.ranks = StraightFlush, []int{r}
	} else if r, ok := h.GetFourOfAKind(); ok {
		h.hand, h.ranks = FourOfAKind, append([]int{r}, h.kickers(1, r)...)
	} else if r, ok := h.GetFullHouse(); ok {
		h.hand, h.ranks = FullHouse, r
	} else if r, ok := h.GetFlush(); ok {
		h.hand, h.ranks = Flush, r
	} else if r, ok := h.GetStraight(); ok {
		h.hand, h.ranks = Straight, []int{r}
	} else if r, ok := h.GetThreeOfAKind(); ok {
		h.hand, h.ranks = ThreeOfAKind, append([]int{r}, h.kickers(2, r)...)
	} else if r, ok := h.GetTwoPair(); ok {
		h.hand, h.ranks = TwoPair, append(r, h.kickers(1, r...)...)
	} else if r, ok := h.GetPair(); ok {
		h.hand, h.ranks = OnePair, append([]int{r}, h.kickers(3, r)...)
	} else {
		h.hand, h.ranks = HighCard, h.kickers(5)
	}
}

// kickers returns the n highest ranks, skipping the excluded ranks
func (h *HandAnalyzer) kickers(n int, exclude ...int) []int {
	kickers := make([]int, 0, n)
	for rank := deck.Ace; rank >= 2 && len(kickers) < n; rank-- {
		if h.rankCounts[rank] == 0 || containsInt(exclude, rank) {
			continue
		}

		for i := 0; i < h.rankCounts[rank] && len(kickers) < n; i++ {
			kickers = append(kickers, rank)
		}
	}

	return kickers
}

// GetHand will return the best possible hand the cards can make
func (h *HandAnalyzer) GetHand() Hand {
	return h.hand
}

// GetStrength returns the strength of the hand. A higher strength beats a lower strength,
// and equal strengths are a tie
func (h *HandAnalyzer) GetStrength() int {
	return h.strength
}

// GetRanks returns the significant ranks of the hand, most significant first
func (h *HandAnalyzer) GetRanks() []int {
	r := make([]int, len(h.ranks))
	copy(r, h.ranks)
	return r
}

// Name returns a human readable name of the hand
func (h *HandAnalyzer) Name() string {
	if h.GetRoyalFlush() {
		return "Royal Flush"
	}

	return h.hand.String()
}

// GetRoyalFlush returns true if the hand is an ace high straight flush
func (h *HandAnalyzer) GetRoyalFlush() bool {
	return h.straightFlush == deck.Ace
}

// GetStraightFlush returns the high card of the best straight flush
func (h *HandAnalyzer) GetStraightFlush() (int, bool) {
	return h.straightFlush, h.straightFlush > 0
}

// GetFourOfAKind returns the rank of the quads
func (h *HandAnalyzer) GetFourOfAKind() (int, bool) {
	if len(h.quads) == 0 {
		return 0, false
	}

	return h.quads[0], true
}

// GetFullHouse returns the trips rank followed by the pair rank
// If there are two sets of trips, the lower trips play as the pair
func (h *HandAnalyzer) GetFullHouse() ([]int, bool) {
	if len(h.trips) == 0 {
		return nil, false
	}

	pair := 0
	if len(h.trips) > 1 {
		pair = h.trips[1]
	}

	if len(h.pairs) > 0 && h.pairs[0] > pair {
		pair = h.pairs[0]
	}

	if pair == 0 {
		return nil, false
	}

	return []int{h.trips[0], pair}, true
}

// GetFlush returns the five highest ranks of the flush
func (h *HandAnalyzer) GetFlush() ([]int, bool) {
	if h.flush == nil {
		return nil, false
	}

	return h.flush, true
}

// GetStraight returns the high card of the best straight
// A wheel (A-2-3-4-5) has a high card of five
func (h *HandAnalyzer) GetStraight() (int, bool) {
	return h.straight, h.straight > 0
}

// GetThreeOfAKind returns the rank of the best trips
func (h *HandAnalyzer) GetThreeOfAKind() (int, bool) {
	if len(h.trips) == 0 {
		return 0, false
	}

	return h.trips[0], true
}

// GetTwoPair returns the ranks of the two highest pairs
func (h *HandAnalyzer) GetTwoPair() ([]int, bool) {
	if len(h.pairs) < 2 {
		return nil, false
	}

	return []int{h.pairs[0], h.pairs[1]}, true
}

// GetPair returns the rank of the highest pair
func (h *HandAnalyzer) GetPair() (int, bool) {
	if len(h.pairs) == 0 {
		return 0, false
	}

	return h.pairs[0], true
}

// GetHighCard returns up to five of the highest ranks
func (h *HandAnalyzer) GetHighCard() ([]int, bool) {
	hc := h.kickers(5)
	return hc, len(hc) > 0
}

// calculateStrength packs the hand and its ranks into a single base-15 number
func calculateStrength(hand Hand, ranks []int) int {
	fiveRanks := make([]int, 5)
	copy(fiveRanks, ranks)

	strength := int(hand)
	for _, rank := range fiveRanks {
		strength = strength*15 + rank
	}

	return strength
}

func containsInt(haystack []int, needle int) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}

	return false
}
