package deck

// Hand represents a collection of cards
type Hand []Card

// HasCard returns true if the hand contains the specified card
func (h Hand) HasCard(card Card) bool {
	for _, c := range h {
		if c == card {
			return true
		}
	}

	return false
}

// Clone returns a clone of the hand
func (h Hand) Clone() Hand {
	if h == nil {
		return nil
	}

	h2 := make(Hand, len(h))
	copy(h2, h)

	return h2
}

func (h Hand) String() string {
	return CardsToString(h)
}

// Duplicates returns every card that appears more than once across the provided hands
func Duplicates(hands ...[]Card) []Card {
	seen := make(map[Card]bool)
	dupes := make([]Card, 0)
	for _, hand := range hands {
		for _, card := range hand {
			if seen[card] {
				dupes = append(dupes, card)
				continue
			}

			seen[card] = true
		}
	}

	return dupes
}
