package holdem

import "time"

// validateTurn returns the seat of the user if it is their turn to act
func (t *Table) validateTurn(userID int64) (*Seat, error) {
	s := t.Seat(userID)
	if s == nil {
		return nil, ErrNotInGame
	}

	if !s.Seated {
		return nil, ErrNotYetSeated
	}

	if !t.HandActive() {
		return nil, ErrHandNotActive
	}

	if s.Order != t.Current {
		return nil, ErrWrongTurn
	}

	return s, nil
}

// Check passes the action without betting
func (t *Table) Check(userID int64, now time.Time) error {
	s, err := t.validateTurn(userID)
	if err != nil {
		return err
	}

	if s.Bet != t.maxBet() {
		return ErrCheckNotAllowed
	}

	t.acted(s, ActionCheck, now)
	t.afterAction(s.Order, now)
	return nil
}

// Bet adds the amount to the user's bet. A bet of the whole stack or more is an all-in
func (t *Table) Bet(userID int64, amount int, now time.Time) (bool, error) {
	s, err := t.validateTurn(userID)
	if err != nil {
		return false, err
	}

	if amount <= 0 {
		return false, ErrInvalidAmount
	}

	prevMax := t.maxBet()

	allIn := amount >= s.Chips
	if allIn {
		amount = s.Chips
		t.acted(s, ActionAllIn, now)
	} else {
		t.acted(s, ActionBet, now)
	}

	s.Chips -= amount
	s.Bet += amount

	if s.Bet > prevMax {
		for _, other := range t.Seats {
			if other != s && other.canAct() {
				other.Talked = false
			}
		}
	}

	t.afterAction(s.Order, now)
	return allIn, nil
}

// Call matches the largest bet, or goes all-in if the user cannot cover it
func (t *Table) Call(userID int64, now time.Time) (bool, error) {
	s, err := t.validateTurn(userID)
	if err != nil {
		return false, err
	}

	amount := t.maxBet() - s.Bet

	allIn := amount >= s.Chips
	if allIn {
		amount = s.Chips
		t.acted(s, ActionAllIn, now)
	} else {
		t.acted(s, ActionCall, now)
	}

	s.Chips -= amount
	s.Bet += amount

	t.afterAction(s.Order, now)
	return allIn, nil
}

// Fold gives up the hand. The user's bet goes into the pot right away
func (t *Table) Fold(userID int64, now time.Time) error {
	s, err := t.validateTurn(userID)
	if err != nil {
		return err
	}

	t.Pot += s.Bet
	s.RoundBet += s.Bet
	s.Bet = 0
	s.Folded = true

	t.acted(s, ActionFold, now)
	t.afterAction(s.Order, now)
	return nil
}

func (t *Table) acted(s *Seat, action Action, now time.Time) {
	s.Talked = true
	s.LastAction = action
	s.ActionAt = now
}
