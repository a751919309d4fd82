package holdem

import (
	"fmt"
	"holdem-server/internal/rng"
	"holdem-server/pkg/deck"
	"time"
)

// Status is the status of a table
type Status string

// Status constants
const (
	StatusWaiting Status = "waiting"
	StatusStarted Status = "started"
)

// Round is a betting round within a hand
type Round int

// Round constants, in the order they are played
const (
	RoundDeal Round = iota
	RoundFlop
	RoundTurn
	RoundRiver
	RoundShowdown
)

func (r Round) String() string {
	switch r {
	case RoundDeal:
		return "Deal"
	case RoundFlop:
		return "Flop"
	case RoundTurn:
		return "Turn"
	case RoundRiver:
		return "River"
	case RoundShowdown:
		return "Showdown"
	}

	panic(fmt.Sprintf("unknown round: %d", r))
}

// MarshalText encodes the round name
func (r Round) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a round name
func (r *Round) UnmarshalText(b []byte) error {
	round, err := RoundFromString(string(b))
	if err != nil {
		return err
	}

	*r = round
	return nil
}

// RoundFromString returns the round for the name
func RoundFromString(s string) (Round, error) {
	for r := RoundDeal; r <= RoundShowdown; r++ {
		if r.String() == s {
			return r, nil
		}
	}

	return 0, fmt.Errorf("unknown round: %s", s)
}

// Action is the last action a seat took
type Action string

// Action constants
const (
	ActionNone  Action = ""
	ActionCheck Action = "check"
	ActionBet   Action = "bet"
	ActionCall  Action = "call"
	ActionFold  Action = "fold"
	ActionAllIn Action = "all in"
)

// Rules are the limits and timings of a table
type Rules struct {
	MinPlayers    int
	MaxPlayers    int
	MinBuyin      int
	MaxBuyin      int
	SmallBlind    int
	BigBlind      int
	ActionTimeout time.Duration
	NextHandDelay time.Duration
}

// DefaultRules returns the ruleset new tables are created with
func DefaultRules() Rules {
	return Rules{
		MinPlayers:    2,
		MaxPlayers:    5,
		MinBuyin:      10000,
		MaxBuyin:      1000000,
		SmallBlind:    1000,
		BigBlind:      2000,
		ActionTimeout: 30 * time.Second,
		NextHandDelay: 3 * time.Second,
	}
}

// Seat is a player's slot at a table
type Seat struct {
	UserID   int64
	Username string
	// Order is the seat's position at the table. Clockwise is ascending order
	Order int

	Chips    int
	Bet      int
	RoundBet int
	Cards    []deck.Card

	Talked     bool
	Folded     bool
	Seated     bool
	Shown      bool
	LastAction Action
	RankName   string
	ActionAt   time.Time
}

// canAct returns true if the seat is still making decisions this hand
func (s *Seat) canAct() bool {
	return s.Seated && !s.Folded && s.Chips > 0
}

// inHand returns true if the seat can still win the pot
func (s *Seat) inHand() bool {
	return s.Seated && !s.Folded
}

// Table is a single game of Texas Hold'em
// Positions (Dealer, SmallBlind, BigBlind, Current) hold a seat Order, or zero when unset
type Table struct {
	ID     int64
	Status Status
	Rules  Rules

	Pot      int
	Round    Round
	Deck     []deck.Card
	Board    []deck.Card
	Discards []deck.Card
	Seats    []*Seat

	Dealer     int
	SmallBlind int
	BigBlind   int
	Current    int

	Timeout  time.Time
	NextHand time.Time

	// Committed is the sum of the buy-ins still at the table
	Committed  int
	HandNumber int
	NextOrder  int
	Closed     bool

	gen     rng.Generator
	outcome Outcome
}

// SetGenerator sets the random number generator used for shuffling
func (t *Table) SetGenerator(gen rng.Generator) {
	t.gen = gen
}

func (t *Table) generator() rng.Generator {
	if t.gen == nil {
		return rng.Crypto{}
	}

	return t.gen
}

// Seat returns the seat for the user, or nil
func (t *Table) Seat(userID int64) *Seat {
	for _, s := range t.Seats {
		if s.UserID == userID {
			return s
		}
	}

	return nil
}

func (t *Table) seatByOrder(order int) *Seat {
	if order == 0 {
		return nil
	}

	for _, s := range t.Seats {
		if s.Order == order {
			return s
		}
	}

	return nil
}

// clockwise returns the seats in clockwise order starting after the seat order
func (t *Table) clockwise(after int) []*Seat {
	n := len(t.Seats)
	start := 0
	for start < n && t.Seats[start].Order <= after {
		start++
	}

	seats := make([]*Seat, 0, n)
	for i := 0; i < n; i++ {
		seats = append(seats, t.Seats[(start+i)%n])
	}

	return seats
}

// nextSeated returns the first seated seat clockwise after the order
func (t *Table) nextSeated(after int) *Seat {
	for _, s := range t.clockwise(after) {
		if s.Seated {
			return s
		}
	}

	return nil
}

// HandActive returns true if a betting round is waiting on a player
func (t *Table) HandActive() bool {
	return !t.Closed && t.Status == StatusStarted && t.NextHand.IsZero() && t.Current != 0
}

func (t *Table) maxBet() int {
	max := 0
	for _, s := range t.Seats {
		if s.inHand() && s.Bet > max {
			max = s.Bet
		}
	}

	return max
}

func (t *Table) countInHand() int {
	n := 0
	for _, s := range t.Seats {
		if s.inHand() {
			n++
		}
	}

	return n
}

func (t *Table) countCanAct() int {
	n := 0
	for _, s := range t.Seats {
		if s.canAct() {
			n++
		}
	}

	return n
}

func (t *Table) countSeated() int {
	n := 0
	for _, s := range t.Seats {
		if s.Seated {
			n++
		}
	}

	return n
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	c := *t
	c.Deck = cloneCards(t.Deck)
	c.Board = cloneCards(t.Board)
	c.Discards = cloneCards(t.Discards)
	c.Seats = make([]*Seat, len(t.Seats))
	for i, s := range t.Seats {
		seat := *s
		seat.Cards = cloneCards(s.Cards)
		c.Seats[i] = &seat
	}
	c.outcome = Outcome{}

	return &c
}

func cloneCards(cards []deck.Card) []deck.Card {
	if cards == nil {
		return nil
	}

	c := make([]deck.Card, len(cards))
	copy(c, cards)
	return c
}
