package poker

import "holdem-server/pkg/deck"

// highestStraight returns the high card of the best five card straight among the present ranks, or 0
func highestStraight(present [deck.Ace + 1]bool) int {
	has := func(rank int) bool {
		if rank == deck.LowAce {
			return present[deck.Ace]
		}

		return present[rank]
	}

	for high := deck.Ace; high >= 5; high-- {
		found := true
		for rank := high; rank > high-5; rank-- {
			if !has(rank) {
				found = false
				break
			}
		}

		if found {
			return high
		}
	}

	return 0
}
