package holdem

import (
	"holdem-server/pkg/deck"
	"holdem-server/pkg/poker"
	"sort"
	"time"
)

// pot is one layer of the pot and the seats that can win it
type pot struct {
	amount   int
	eligible []*Seat
}

// showdown evaluates the hands still in and settles every pot
func (t *Table) showdown(now time.Time) {
	t.Round = RoundShowdown
	t.Current = 0
	t.Timeout = time.Time{}

	hands := make(map[*Seat]*poker.HandAnalyzer)
	for _, s := range t.Seats {
		if !s.inHand() {
			continue
		}

		s.Shown = true
		cards := make([]deck.Card, 0, len(s.Cards)+len(t.Board))
		cards = append(cards, s.Cards...)
		cards = append(cards, t.Board...)
		hands[s] = poker.New(cards)
	}

	for _, p := range t.pots() {
		wm := newWinManager()
		for _, s := range p.eligible {
			wm.add(s, hands[s].GetStrength())
		}

		winners := wm.best()
		t.award(p.amount, winners)

		// a single eligible seat is getting its own chips back
		if len(p.eligible) > 1 {
			for _, s := range winners {
				if s.RankName == "" {
					s.RankName = hands[s].Name()
				}
				t.emit(EventShowdown, s, p.amount/len(winners))
			}
		}
	}

	t.Pot = 0
	for _, s := range t.Seats {
		s.RoundBet = 0
	}

	t.endHand(now)
}

// pots splits the pot into layers at each all-in level
// Chips from players who left the table go into the first layer, and any amount a folded
// seat put in above the last level goes into the last layer
func (t *Table) pots() []pot {
	order := t.clockwise(t.Dealer)

	levels := make([]int, 0)
	seen := make(map[int]bool)
	total := 0
	for _, s := range order {
		total += s.RoundBet
		if s.inHand() && s.RoundBet > 0 && !seen[s.RoundBet] {
			seen[s.RoundBet] = true
			levels = append(levels, s.RoundBet)
		}
	}
	sort.Ints(levels)

	if len(levels) == 0 {
		p := pot{amount: t.Pot}
		for _, s := range order {
			if s.inHand() {
				p.eligible = append(p.eligible, s)
			}
		}
		return []pot{p}
	}

	pots := make([]pot, 0, len(levels))
	prev := 0
	for _, level := range levels {
		var p pot
		for _, s := range order {
			if s.RoundBet > prev {
				p.amount += minInt(s.RoundBet, level) - prev
			}

			if s.inHand() && s.RoundBet >= level {
				p.eligible = append(p.eligible, s)
			}
		}

		pots = append(pots, p)
		prev = level
	}

	pots[0].amount += t.Pot - total
	for _, s := range order {
		if s.RoundBet > prev {
			pots[len(pots)-1].amount += s.RoundBet - prev
		}
	}

	return pots
}

// award splits the amount between the winners, which are in clockwise order from the dealer
// Odd chips go one at a time starting with the first winner
func (t *Table) award(amount int, winners []*Seat) {
	if len(winners) == 0 {
		return
	}

	share := amount / len(winners)
	remainder := amount % len(winners)
	for i, s := range winners {
		s.Chips += share
		if i < remainder {
			s.Chips++
		}
	}
}

type tier struct {
	strength int
	seats    []*Seat
}

// winManager groups seats into tiers of equal hand strength
type winManager map[int]*tier

func newWinManager() winManager {
	return make(winManager)
}

func (w winManager) add(s *Seat, strength int) {
	t, ok := w[strength]
	if !ok {
		t = &tier{strength: strength}
		w[strength] = t
	}

	t.seats = append(t.seats, s)
}

// best returns the seats with the strongest hand, in the order they were added
func (w winManager) best() []*Seat {
	var best *tier
	for _, t := range w {
		if best == nil || t.strength > best.strength {
			best = t
		}
	}

	if best == nil {
		return nil
	}

	return best.seats
}

func minInt(a, b int) int {
	if a < b {
		return a
	}

	return b
}
