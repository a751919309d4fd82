package holdem

import "time"

// Tick applies every deadline that has passed: a pending hand is started and a player who
// ran out of time is removed from the table
// Tick must run before any read or action so that they see the table as of now
func (t *Table) Tick(now time.Time) {
	for !t.Closed {
		if !t.NextHand.IsZero() && !now.Before(t.NextHand) {
			t.startHand(now)
			continue
		}

		if t.HandActive() && !now.Before(t.Timeout) {
			s := t.seatByOrder(t.Current)
			t.emit(EventTimeout, s, 0)
			t.Exit(s.UserID, now)
			continue
		}

		return
	}
}

// NextDeadline returns the next instant at which Tick will change the table, or the zero time
func (t *Table) NextDeadline() time.Time {
	switch {
	case t.Closed:
		return time.Time{}
	case !t.NextHand.IsZero():
		return t.NextHand
	case t.HandActive():
		return t.Timeout
	}

	return time.Time{}
}
