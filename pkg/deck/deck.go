package deck

import (
	"crypto/sha1" // nolint:gosec
	"encoding/hex"
	"errors"
	"holdem-server/internal/rng"
)

// ErrEndOfDeck is an error when Draw() is attempted and there are no more cards
var ErrEndOfDeck = errors.New("end of deck reached")

// Deck represents a playing deck
type Deck struct {
	cards []Card
}

// New returns a new deck of cards in suit, then rank order.
// Important! this deck is unshuffled. You must call the Shuffle() method to shuffle the cards
func New() *Deck {
	cards := make([]Card, 0, 52)
	for _, suit := range Suits {
		for rank := 2; rank <= Ace; rank++ {
			cards = append(cards, Card{Rank: rank, Suit: suit})
		}
	}

	return &Deck{cards: cards}
}

// FromCards restores a deck from the remaining cards, top card first
func FromCards(cards []Card) *Deck {
	c := make([]Card, len(cards))
	copy(c, cards)

	return &Deck{cards: c}
}

// Shuffle performs a Fisher-Yates shuffle of the remaining cards
func (d *Deck) Shuffle(gen rng.Generator) {
	for j := len(d.cards) - 1; j > 0; j-- {
		i := gen.Intn(j + 1)

		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw will draw the next card
// If there are no more cards, an ErrEndOfDeck is returned.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEndOfDeck
	}

	card := d.cards[0]
	d.cards = d.cards[1:]

	return card, nil
}

// CanDraw returns true if there are {want} cards left in the deck
func (d *Deck) CanDraw(want int) bool {
	return len(d.cards) >= want
}

// CardsLeft returns the number of cards left in the deck
func (d *Deck) CardsLeft() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards, top card first
func (d *Deck) Cards() []Card {
	c := make([]Card, len(d.cards))
	copy(c, d.cards)

	return c
}

// HashCode returns a SHA1 hash code of the remaining cards
func (d *Deck) HashCode() string {
	hash := sha1.New() // nolint:gosec
	for _, card := range d.cards {
		_, _ = hash.Write([]byte(card.String()))
	}

	return hex.EncodeToString(hash.Sum(nil))
}
