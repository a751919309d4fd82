package poker

import (
	"holdem-server/internal/rng"
	"holdem-server/pkg/deck"
	"testing"

	ph "github.com/paulhankin/poker"
	"github.com/stretchr/testify/assert"
)

func analyze(s string) *HandAnalyzer {
	return New(deck.CardsFromString(s))
}

func TestHandAnalyzer_GetFourOfAKind(t *testing.T) {
	h := analyze("2C,3C,3D,3H,3S")
	r, ok := h.GetFourOfAKind()
	assert.True(t, ok)
	assert.Equal(t, 3, r)
	assert.Equal(t, FourOfAKind, h.GetHand())
	assert.Equal(t, []int{3, 2}, h.GetRanks())

	h = analyze("9S,4H,5C,4D,4C")
	r, ok = h.GetFourOfAKind()
	assert.False(t, ok)
	assert.Equal(t, 0, r)
}

func TestHandAnalyzer_GetFullHouse(t *testing.T) {
	h := analyze("AC,2C,AD,5C,AH,2D,5H")
	r, ok := h.GetFullHouse()
	assert.True(t, ok)
	assert.Equal(t, []int{14, 5}, r)
	assert.Equal(t, FullHouse, h.GetHand())

	// the lower trips play as the pair
	h = analyze("3C,3D,3H,4C,4D,4H,5C")
	r, ok = h.GetFullHouse()
	assert.True(t, ok)
	assert.Equal(t, []int{4, 3}, r)

	h = analyze("3C,3D,3H,4C,5D,6H,8C")
	_, ok = h.GetFullHouse()
	assert.False(t, ok)
	assert.Equal(t, ThreeOfAKind, h.GetHand())
	assert.Equal(t, []int{3, 8, 6}, h.GetRanks())
}

func TestHandAnalyzer_GetFlush(t *testing.T) {
	h := analyze("2C,3C,4C,5C,9C,7D,8C")
	r, ok := h.GetFlush()
	assert.True(t, ok)
	assert.Equal(t, []int{9, 8, 5, 4, 3}, r)
	assert.Equal(t, Flush, h.GetHand())

	h = analyze("2C,3C,4C,5C,6D")
	_, ok = h.GetFlush()
	assert.False(t, ok)
}

func TestHandAnalyzer_Straights(t *testing.T) {
	h := analyze("AD,2C,3H,4S,5C,KD,KH")
	r, ok := h.GetStraight()
	assert.True(t, ok)
	assert.Equal(t, 5, r, "wheel is five high")
	assert.Equal(t, Straight, h.GetHand())

	h = analyze("TD,JC,QH,KS,AC,2D,2H")
	r, _ = h.GetStraight()
	assert.Equal(t, 14, r)

	h = analyze("QD,KC,AH,2S,3C")
	_, ok = h.GetStraight()
	assert.False(t, ok, "straights do not wrap around")

	h = analyze("9S,TS,JS,QS,KS,AS,2D")
	r, ok = h.GetStraightFlush()
	assert.True(t, ok)
	assert.Equal(t, 14, r)
	assert.True(t, h.GetRoyalFlush())
	assert.Equal(t, "Royal Flush", h.Name())

	h = analyze("AS,2S,3S,4S,5S,6D,7D")
	r, ok = h.GetStraightFlush()
	assert.True(t, ok)
	assert.Equal(t, 5, r)
	assert.False(t, h.GetRoyalFlush())
	assert.Equal(t, "Straight Flush", h.Name())

	// a straight and a flush that are not a straight flush
	h = analyze("5H,6H,7H,8D,9H,2H,KC")
	assert.Equal(t, Flush, h.GetHand())
}

func TestHandAnalyzer_Pairs(t *testing.T) {
	h := analyze("5C,5D,6H,6D,3H,3C,KD")
	r, ok := h.GetTwoPair()
	assert.True(t, ok)
	assert.Equal(t, []int{6, 5}, r)
	assert.Equal(t, []int{6, 5, 13}, h.GetRanks())

	h = analyze("2C,2D,9H,4H,5D,JC,KS")
	p, ok := h.GetPair()
	assert.True(t, ok)
	assert.Equal(t, 2, p)
	assert.Equal(t, OnePair, h.GetHand())
	assert.Equal(t, []int{2, 13, 11, 9}, h.GetRanks())

	h = analyze("AC,2C,5C,8D,3H,9S,JD")
	hc, ok := h.GetHighCard()
	assert.True(t, ok)
	assert.Equal(t, []int{14, 11, 9, 8, 5}, hc)
	assert.Equal(t, HighCard, h.GetHand())
	assert.Equal(t, "High Card", h.Name())
}

func TestHandAnalyzer_PartialBoard(t *testing.T) {
	h := analyze("AC,AD")
	assert.Equal(t, OnePair, h.GetHand())

	h = analyze("AC,KD,7H,7S,7D")
	assert.Equal(t, ThreeOfAKind, h.GetHand())
}

func TestHandAnalyzer_GetStrength(t *testing.T) {
	a := assert.New(t)

	// kicker decides
	a.Greater(analyze("AC,KD,7H,7S,2D,3C,9H").GetStrength(), analyze("AC,QD,7H,7S,2D,3C,9H").GetStrength())

	// board plays for both
	a.Equal(analyze("2C,3D,TH,JH,QH,KH,9H").GetStrength(), analyze("4C,5D,TH,JH,QH,KH,9H").GetStrength())

	// the sixth and seventh cards do not count
	a.Equal(analyze("AC,KD,QH,JS,9D,3C,2H").GetStrength(), analyze("AC,KD,QH,JS,9D,4C,2S").GetStrength())

	categories := []string{
		"AC,KD,QH,JS,9D,3C,2H",
		"AC,AD,QH,JS,9D,3C,2H",
		"AC,AD,QH,QS,9D,3C,2H",
		"AC,AD,AH,JS,9D,3C,2H",
		"AC,KD,QH,JS,TD,3C,2H",
		"AC,KC,QC,JC,9C,3D,2H",
		"AC,AD,AH,JS,JD,3C,2H",
		"AC,AD,AH,AS,9D,3C,2H",
		"AC,KC,QC,JC,TC,3D,2H",
	}

	prev := -1
	for i, c := range categories {
		h := analyze(c)
		a.Equal(Hand(i), h.GetHand(), c)
		a.Greater(h.GetStrength(), prev, c)
		prev = h.GetStrength()
	}
}

func TestHand_String(t *testing.T) {
	assert.Equal(t, "Four of a Kind", FourOfAKind.String())
	assert.Equal(t, "Two Pair", TwoPair.String())
	assert.Panics(t, func() {
		_ = Hand(99).String()
	})
}

func toOracleCards(t *testing.T, cards []deck.Card) *[7]ph.Card {
	t.Helper()

	var out [7]ph.Card
	for i, c := range cards {
		suit := 0
		for j, s := range deck.Suits {
			if s == c.Suit {
				suit = j
			}
		}

		card, err := ph.MakeCard(ph.Suit(suit), ph.Rank(c.AceLowRank()))
		if err != nil {
			t.Fatal(err)
		}

		out[i] = card
	}

	return &out
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}

	return 0
}

// compares the ordering of random seven card hands against an independent evaluator
func TestHandAnalyzer_MatchesOracle(t *testing.T) {
	gen := rng.NewSeeded(7)
	for i := 0; i < 2000; i++ {
		d := deck.New()
		d.Shuffle(gen)
		cards := d.Cards()

		board := cards[0:5]
		h1 := append(append([]deck.Card{}, board...), cards[5:7]...)
		h2 := append(append([]deck.Card{}, board...), cards[7:9]...)

		ours := sign(New(h1).GetStrength() - New(h2).GetStrength())
		theirs := sign(int(ph.Eval7(toOracleCards(t, h1))) - int(ph.Eval7(toOracleCards(t, h2))))

		if !assert.Equal(t, theirs, ours, "%s vs %s", deck.CardsToString(h1), deck.CardsToString(h2)) {
			return
		}
	}
}
