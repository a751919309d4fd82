package holdem

// BankEntry is a change to a user's bank balance. A negative amount is a debit
type BankEntry struct {
	UserID int64
	Amount int
}

// EventType is the type of an event that happened at a table
type EventType string

// EventType constants
const (
	EventHandStarted EventType = "hand_started"
	EventShowdown    EventType = "showdown"
	EventFoldWin     EventType = "fold_win"
	EventTimeout     EventType = "timeout"
	EventBankrupt    EventType = "bankrupt"
	EventClosed      EventType = "closed"
)

// Event describes something notable that a mutation caused
type Event struct {
	Type     EventType
	UserID   int64
	Username string
	Amount   int
}

// Outcome holds the side effects of the mutations since the last Flush
type Outcome struct {
	Ledger []BankEntry
	Events []Event
}

func (t *Table) credit(userID int64, amount int) {
	if amount == 0 {
		return
	}

	t.outcome.Ledger = append(t.outcome.Ledger, BankEntry{UserID: userID, Amount: amount})
}

func (t *Table) debit(userID int64, amount int) {
	t.credit(userID, -amount)
}

func (t *Table) emit(typ EventType, s *Seat, amount int) {
	e := Event{Type: typ, Amount: amount}
	if s != nil {
		e.UserID = s.UserID
		e.Username = s.Username
	}

	t.outcome.Events = append(t.outcome.Events, e)
}

// Flush returns the pending outcome and clears it
func (t *Table) Flush() Outcome {
	o := t.outcome
	t.outcome = Outcome{}
	return o
}

// Empty returns true if nothing happened
func (o Outcome) Empty() bool {
	return len(o.Ledger) == 0 && len(o.Events) == 0
}
