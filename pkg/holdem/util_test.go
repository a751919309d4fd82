package holdem

import (
	"fmt"
	"holdem-server/pkg/deck"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var start = time.Date(2020, 4, 1, 12, 0, 0, 0, time.UTC)

// ordered leaves the deck in suit, then rank order
type ordered struct{}

func (ordered) Intn(n int) int {
	return n - 1
}

func testRules(minPlayers int) Rules {
	r := DefaultRules()
	r.MinPlayers = minPlayers
	return r
}

// setupTable creates a table for n players, user IDs 1 through n, each buying in for 100,000
func setupTable(t *testing.T, rules Rules, n int) *Table {
	t.Helper()

	tbl, err := NewTable(rules, 1, "player1", 100000, start)
	if err != nil {
		t.Fatal(err)
	}

	tbl.ID = 1
	tbl.SetGenerator(ordered{})

	for i := 2; i <= n; i++ {
		if err := tbl.Join(int64(i), fmt.Sprintf("player%d", i), start); err != nil {
			t.Fatal(err)
		}
	}

	assertAudit(t, tbl)
	return tbl
}

// rigDeck replaces the dealt hole cards and stacks the top of the deck
// The rest of the deck follows in order
func rigDeck(t *testing.T, tbl *Table, holes map[int64]string, top string) {
	t.Helper()

	used := make(deck.Hand, 0)
	for userID, cards := range holes {
		c := deck.CardsFromString(cards)
		tbl.Seat(userID).Cards = c
		used = append(used, c...)
	}

	d := deck.CardsFromString(top)
	used = append(used, d...)

	if dupes := deck.Duplicates(used); len(dupes) > 0 {
		t.Fatalf("rigged deck has duplicates: %s", deck.CardsToString(dupes))
	}

	for _, c := range deck.New().Cards() {
		if !used.HasCard(c) {
			d = append(d, c)
		}
	}

	tbl.Deck = d
	tbl.Discards = nil
	assertAudit(t, tbl)
}

func assertAudit(t *testing.T, tbl *Table) {
	t.Helper()
	assert.NoError(t, tbl.Audit())
}

func assertChips(t *testing.T, tbl *Table, userID int64, chips int) {
	t.Helper()

	s := tbl.Seat(userID)
	if !assert.NotNil(t, s, "user %d is not seated", userID) {
		return
	}

	assert.Equal(t, chips, s.Chips, "chips of user %d", userID)
}

func assertCurrent(t *testing.T, tbl *Table, userID int64) {
	t.Helper()

	s := tbl.seatByOrder(tbl.Current)
	if !assert.NotNil(t, s, "no current player") {
		return
	}

	assert.Equal(t, userID, s.UserID, "current player")
}

func check(t *testing.T, tbl *Table, userID int64, now time.Time) {
	t.Helper()
	assert.NoError(t, tbl.Check(userID, now), "user %d check", userID)
	assertAudit(t, tbl)
}

func call(t *testing.T, tbl *Table, userID int64, now time.Time) bool {
	t.Helper()
	allIn, err := tbl.Call(userID, now)
	assert.NoError(t, err, "user %d call", userID)
	assertAudit(t, tbl)
	return allIn
}

func bet(t *testing.T, tbl *Table, userID int64, amount int, now time.Time) bool {
	t.Helper()
	allIn, err := tbl.Bet(userID, amount, now)
	assert.NoError(t, err, "user %d bet", userID)
	assertAudit(t, tbl)
	return allIn
}

func fold(t *testing.T, tbl *Table, userID int64, now time.Time) {
	t.Helper()
	assert.NoError(t, tbl.Fold(userID, now), "user %d fold", userID)
	assertAudit(t, tbl)
}

func ledgerTotal(ledger []BankEntry, userID int64) int {
	total := 0
	for _, e := range ledger {
		if e.UserID == userID {
			total += e.Amount
		}
	}

	return total
}

func hasEvent(events []Event, typ EventType) bool {
	for _, e := range events {
		if e.Type == typ {
			return true
		}
	}

	return false
}
