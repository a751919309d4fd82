package holdem

import (
	"fmt"
	"holdem-server/pkg/deck"
)

// Audit verifies that no chips were created or lost and that every card is accounted for
// A non-nil error is a bug in the engine
func (t *Table) Audit() error {
	if t.Closed {
		return nil
	}

	chips := t.Pot
	for _, s := range t.Seats {
		if s.Chips < 0 || s.Bet < 0 || s.RoundBet < 0 {
			return fmt.Errorf("table %d: seat %d has a negative balance", t.ID, s.Order)
		}

		chips += s.Chips + s.Bet
	}

	if chips != t.Committed {
		return fmt.Errorf("table %d: %d chips on the table, expected %d", t.ID, chips, t.Committed)
	}

	if t.HandNumber > 0 {
		hands := [][]deck.Card{t.Deck, t.Board, t.Discards}
		for _, s := range t.Seats {
			hands = append(hands, s.Cards)
		}

		n := 0
		for _, h := range hands {
			n += len(h)
		}

		if n != 52 {
			return fmt.Errorf("table %d: %d cards accounted for", t.ID, n)
		}

		if dupes := deck.Duplicates(hands...); len(dupes) > 0 {
			return fmt.Errorf("table %d: duplicate cards %s", t.ID, deck.CardsToString(dupes))
		}
	}

	if t.HandActive() && t.seatByOrder(t.Current) == nil {
		return fmt.Errorf("table %d: current seat %d is not at the table", t.ID, t.Current)
	}

	return nil
}
