package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit string

// suit constants
const (
	Clubs    Suit = "clubs"
	Diamonds Suit = "diamonds"
	Hearts   Suit = "hearts"
	Spades   Suit = "spades"
)

// Suits is every suit in deck order
var Suits = []Suit{Clubs, Diamonds, Hearts, Spades}

// face cards
const (
	Jack    = 11
	Queen   = 12
	King    = 13
	Ace     = 14
	HighAce = Ace
	LowAce  = 1
)

const rankChars = "__23456789TJQKA"

// Card is an individual playing card.
// Cards are values: two cards are the same card when they compare equal with ==.
type Card struct {
	Rank int
	Suit Suit
}

// Valid returns true if the card is one of the 52 standard cards
func (c Card) Valid() bool {
	if c.Rank < 2 || c.Rank > Ace {
		return false
	}

	switch c.Suit {
	case Clubs, Diamonds, Hearts, Spades:
		return true
	}

	return false
}

// String returns the card code, e.g., "AS" for the ace of spades or "TC" for the ten of clubs
func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}

	return string(rankChars[c.Rank]) + strings.ToUpper(string(c.Suit)[0:1])
}

// MarshalText encodes the card as its code
func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid card: %d of %s", c.Rank, c.Suit)
	}

	return []byte(c.String()), nil
}

// UnmarshalText decodes a card code
func (c *Card) UnmarshalText(b []byte) error {
	card, err := ParseCard(string(b))
	if err != nil {
		return err
	}

	*c = card
	return nil
}

// ParseCard parses a card code in the format of <rank><suit>, where rank is one of 2-9, T, J, Q, K, A
// (10 is also accepted) and suit is one of C, D, H, S. Parsing is case-insensitive.
func ParseCard(s string) (Card, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return Card{}, fmt.Errorf("could not parse card: %q", s)
	}

	rankPart, suitPart := s[:len(s)-1], s[len(s)-1:]
	if rankPart == "10" {
		rankPart = "T"
	}

	if len(rankPart) != 1 {
		return Card{}, fmt.Errorf("could not parse card: %q", s)
	}

	rank := strings.IndexByte(rankChars, rankPart[0])
	if rank < 2 {
		return Card{}, fmt.Errorf("could not parse card rank: %q", s)
	}

	var suit Suit
	switch suitPart {
	case "C":
		suit = Clubs
	case "D":
		suit = Diamonds
	case "H":
		suit = Hearts
	case "S":
		suit = Spades
	default:
		return Card{}, fmt.Errorf("could not parse card suit: %q", s)
	}

	return Card{Rank: rank, Suit: suit}, nil
}

// CardFromString is like ParseCard, but panics on error. Intended for tests and constants.
func CardFromString(s string) Card {
	card, err := ParseCard(s)
	if err != nil {
		panic(err)
	}

	return card
}

// CardsFromString parses a comma separated list of card codes
func CardsFromString(s string) []Card {
	if s == "" {
		return []Card{}
	}

	parts := strings.Split(s, ",")
	cards := make([]Card, len(parts))
	for i, part := range parts {
		cards[i] = CardFromString(part)
	}

	return cards
}

// CardsToString converts cards into a comma separated list of card codes
func CardsToString(cards []Card) string {
	c := make([]string, len(cards))
	for i, card := range cards {
		c[i] = card.String()
	}

	return strings.Join(c, ",")
}

// AceLowRank return the rank where Ace is considered low instead of high
func (c Card) AceLowRank() int {
	if c.Rank == Ace {
		return LowAce
	}

	return c.Rank
}
