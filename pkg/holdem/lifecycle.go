package holdem

import (
	"holdem-server/pkg/deck"
	"time"
)

// NewTable creates a table in the waiting status with the creator seated as the dealer
// The creator's buy-in becomes the table's minimum buy-in
func NewTable(rules Rules, userID int64, username string, buyin int, now time.Time) (*Table, error) {
	if buyin < rules.MinBuyin || buyin > rules.MaxBuyin {
		return nil, ErrInvalidBuyin
	}

	rules.MinBuyin = buyin

	t := &Table{
		Status:    StatusWaiting,
		Rules:     rules,
		Round:     RoundDeal,
		Board:     []deck.Card{},
		NextOrder: 1,
	}

	s := t.addSeat(userID, username, buyin)
	s.Seated = true
	t.Dealer = s.Order

	t.maybeStart(now)
	return t, nil
}

func (t *Table) addSeat(userID int64, username string, buyin int) *Seat {
	s := &Seat{
		UserID:   userID,
		Username: username,
		Order:    t.NextOrder,
		Chips:    buyin,
	}

	t.NextOrder++
	t.Seats = append(t.Seats, s)
	t.Committed += buyin
	t.debit(userID, buyin)

	return s
}

// Join buys the user in at the table's minimum buy-in
// A user who already holds a seat at the table is left alone. On a started table the
// user waits on the rail until the next hand
func (t *Table) Join(userID int64, username string, now time.Time) error {
	if t.Closed {
		return ErrTableNotFound
	}

	if t.Seat(userID) != nil {
		return nil
	}

	if len(t.Seats) >= t.Rules.MaxPlayers {
		return ErrTableFull
	}

	s := t.addSeat(userID, username, t.Rules.MinBuyin)
	s.Seated = t.Status == StatusWaiting

	t.maybeStart(now)
	return nil
}

func (t *Table) maybeStart(now time.Time) {
	if t.Status != StatusWaiting || t.countSeated() < t.Rules.MinPlayers {
		return
	}

	t.Status = StatusStarted
	t.startHand(now)
}

// Exit removes the user from the table. The user's live bet is forfeited and
// their remaining chips are banked. Exit is a no-op for a user without a seat
func (t *Table) Exit(userID int64, now time.Time) {
	s := t.Seat(userID)
	if s == nil || t.Closed {
		return
	}

	active := t.HandActive()
	wasCurrent := active && t.Current == s.Order

	t.Pot += s.Bet
	s.RoundBet += s.Bet
	s.Bet = 0
	t.leave(s, s.Chips)

	switch len(t.Seats) {
	case 0:
		t.close()
		return
	case 1:
		t.payout(t.Seats[0])
		return
	}

	if !active {
		return
	}

	if t.countInHand() <= 1 {
		t.winUncontested(now)
		if !t.Closed {
			t.startHand(now)
		}
		return
	}

	if wasCurrent {
		t.afterAction(s.Order, now)
	} else if t.bettingDone() {
		t.completeRound(now)
	}
}

// leave removes the seat and banks the amount
func (t *Table) leave(s *Seat, amount int) {
	t.Discards = append(t.Discards, s.Cards...)
	s.Cards = nil

	t.credit(s.UserID, amount)
	t.Committed -= amount

	for i, seat := range t.Seats {
		if seat == s {
			t.Seats = append(t.Seats[:i], t.Seats[i+1:]...)
			break
		}
	}
}

// payout pays the last remaining player everything on the table and closes it
func (t *Table) payout(s *Seat) {
	t.leave(s, s.Chips+s.Bet+t.Pot)
	s.Chips, s.Bet, t.Pot = 0, 0, 0
	t.close()
}

func (t *Table) close() {
	t.Closed = true
	t.Current = 0
	t.Timeout = time.Time{}
	t.NextHand = time.Time{}
	t.emit(EventClosed, nil, 0)
}

// startHand promotes the rail, moves the button, posts the blinds and deals
func (t *Table) startHand(now time.Time) {
	for _, s := range t.Seats {
		s.Seated = true
		s.Bet, s.RoundBet = 0, 0
		s.Cards = nil
		s.Talked, s.Folded, s.Shown = false, false, false
		s.LastAction = ActionNone
		s.RankName = ""
	}

	t.HandNumber++
	t.NextHand = time.Time{}
	t.Round = RoundDeal
	t.Board = []deck.Card{}
	t.Discards = nil

	// the creator keeps the button for the first hand
	if t.HandNumber > 1 || t.seatByOrder(t.Dealer) == nil {
		t.Dealer = t.nextSeated(t.Dealer).Order
	}

	if t.countSeated() == 2 {
		t.BigBlind = t.Dealer
		t.SmallBlind = t.nextSeated(t.Dealer).Order
	} else {
		t.SmallBlind = t.nextSeated(t.Dealer).Order
		t.BigBlind = t.nextSeated(t.SmallBlind).Order
	}

	t.postBlind(t.seatByOrder(t.SmallBlind), t.Rules.SmallBlind)
	t.postBlind(t.seatByOrder(t.BigBlind), t.Rules.BigBlind)

	d := deck.New()
	d.Shuffle(t.generator())
	cards := d.Cards()

	order := t.clockwise(t.Dealer)
	for pass := 0; pass < 2; pass++ {
		for _, s := range order {
			s.Cards = append(s.Cards, cards[0])
			cards = cards[1:]
		}
	}
	t.Deck = cards

	t.emit(EventHandStarted, t.seatByOrder(t.Dealer), t.HandNumber)

	if t.bettingDone() {
		t.completeRound(now)
		return
	}

	t.setCurrent(t.nextToAct(t.BigBlind), now)
}

// postBlind puts the blind in as a bet, or whatever the seat has left
func (t *Table) postBlind(s *Seat, amount int) {
	if amount > s.Chips {
		amount = s.Chips
	}

	s.Chips -= amount
	s.Bet += amount
}

// endHand removes busted players and schedules the next hand
func (t *Table) endHand(now time.Time) {
	t.Current = 0
	t.Timeout = time.Time{}

	for _, s := range append([]*Seat{}, t.Seats...) {
		if s.Seated && s.Chips == 0 && s.Bet == 0 {
			t.emit(EventBankrupt, s, 0)
			t.leave(s, 0)
		}
	}

	switch len(t.Seats) {
	case 0:
		t.close()
	case 1:
		t.payout(t.Seats[0])
	default:
		t.NextHand = now.Add(t.Rules.NextHandDelay)
	}
}
