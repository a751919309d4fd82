package holdem

import (
	"holdem-server/pkg/deck"
	"time"
)

// afterAction moves the hand along after the seat at the order acted or left
func (t *Table) afterAction(from int, now time.Time) {
	if t.countInHand() <= 1 {
		t.winUncontested(now)
		return
	}

	if t.bettingDone() {
		t.completeRound(now)
		return
	}

	t.setCurrent(t.nextToAct(from), now)
}

// bettingDone returns true if nobody has a decision left to make this round
func (t *Table) bettingDone() bool {
	max := t.maxBet()
	n := t.countCanAct()

	for _, s := range t.Seats {
		if !s.canAct() {
			continue
		}

		if s.Bet < max {
			return false
		}

		// a lone player with chips has nobody left to bet against
		if n >= 2 && !s.Talked {
			return false
		}
	}

	return true
}

// nextToAct returns the order of the first seat after from that owes a decision, or 0
func (t *Table) nextToAct(from int) int {
	max := t.maxBet()
	for _, s := range t.clockwise(from) {
		if s.canAct() && (!s.Talked || s.Bet < max) {
			return s.Order
		}
	}

	return 0
}

func (t *Table) setCurrent(order int, now time.Time) {
	t.Current = order
	t.Timeout = now.Add(t.Rules.ActionTimeout)
}

// collectBets moves every bet into the pot
func (t *Table) collectBets() {
	for _, s := range t.Seats {
		t.Pot += s.Bet
		s.RoundBet += s.Bet
		s.Bet = 0
		s.Talked = false
	}
}

// completeRound closes out the betting round and deals the next street
// Streets are dealt without betting while fewer than two players can act
func (t *Table) completeRound(now time.Time) {
	for {
		t.collectBets()

		if t.Round == RoundRiver {
			t.showdown(now)
			return
		}

		t.Round++
		t.dealBoard()

		if !t.bettingDone() {
			t.setCurrent(t.nextToAct(t.Dealer), now)
			return
		}
	}
}

// dealBoard burns a card and turns over the cards for the current street
func (t *Table) dealBoard() {
	n := 1
	if t.Round == RoundFlop {
		n = 3
	}

	t.Discards = append(t.Discards, t.draw())
	for i := 0; i < n; i++ {
		t.Board = append(t.Board, t.draw())
	}
}

func (t *Table) draw() deck.Card {
	c := t.Deck[0]
	t.Deck = t.Deck[1:]
	return c
}

// winUncontested gives the pot to the last player who has not folded
func (t *Table) winUncontested(now time.Time) {
	t.collectBets()

	for _, s := range t.Seats {
		if s.inHand() {
			s.Chips += t.Pot
			t.emit(EventFoldWin, s, t.Pot)
			t.Pot = 0
			break
		}
	}

	for _, s := range t.Seats {
		s.RoundBet = 0
	}

	t.endHand(now)
}
