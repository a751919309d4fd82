package table

import (
	"context"
	"holdem-server/internal/util"
	"holdem-server/pkg/holdem"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var cbg = context.Background()

var start = time.Date(2020, 4, 1, 12, 0, 0, 0, time.UTC)

// runStoreTests runs the behavior every Store must share
func runStoreTests(t *testing.T, s Store) {
	t.Run("users", func(t *testing.T) {
		testUsers(t, s)
	})

	t.Run("commit", func(t *testing.T) {
		testCommit(t, s)
	})

	t.Run("duplicate seat", func(t *testing.T) {
		testDuplicateSeat(t, s)
	})

	t.Run("deadlines", func(t *testing.T) {
		testDeadlines(t, s)
	})
}

func createUser(t *testing.T, s Store, bank int) *User {
	t.Helper()

	u, err := s.CreateUser(cbg, util.RandomUsername(), "password", bank)
	if err != nil {
		t.Fatal(err)
	}

	return u
}

func assertBank(t *testing.T, s Store, userID int64, bank int) {
	t.Helper()

	u, err := s.GetUserByID(cbg, userID)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, bank, u.Bank, "bank for user %d", userID)
}

func testUsers(t *testing.T, s Store) {
	a := assert.New(t)

	username := util.RandomUsername()
	u, err := s.CreateUser(cbg, username, "password", 5000)
	a.NoError(err)
	a.Greater(u.ID, int64(0))
	a.Equal(username, u.Username)
	a.Equal(5000, u.Bank)
	a.False(u.IsAdmin)

	_, err = s.CreateUser(cbg, strings.ToUpper(username), "password", 0)
	a.Equal(ErrDuplicateKey, err)

	u2, err := s.GetUserByUsernameAndPassword(cbg, strings.ToUpper(username), "password")
	a.NoError(err)
	a.Equal(u.ID, u2.ID)

	u2, err = s.GetUserByUsernameAndPassword(cbg, username, "bad-password")
	a.Equal(ErrInvalidUsernameOrPassword, err)
	a.Nil(u2)

	u2, err = s.GetUserByUsernameAndPassword(cbg, username+"-not-found", "password")
	a.Equal(ErrInvalidUsernameOrPassword, err)
	a.Nil(u2)

	u2, err = s.GetUserByID(cbg, 0)
	a.Equal(ErrUserNotFound, err)
	a.Nil(u2)

	a.NoError(s.SetIsAdmin(cbg, u.ID, true))
	u2, err = s.GetUserByID(cbg, u.ID)
	a.NoError(err)
	a.True(u2.IsAdmin)
	a.Equal(ErrUserNotFound, s.SetIsAdmin(cbg, 0, true))

	a.NoError(s.CreditBank(cbg, u.ID, 2500))
	assertBank(t, s, u.ID, 7500)

	a.Equal(holdem.ErrInsufficientFunds, s.CreditBank(cbg, u.ID, -7501))
	assertBank(t, s, u.ID, 7500)

	a.NoError(s.CreditBank(cbg, u.ID, -7500))
	assertBank(t, s, u.ID, 0)
}

func testCommit(t *testing.T, s Store) {
	a := assert.New(t)

	u1 := createUser(t, s, 150000)
	u2 := createUser(t, s, 5000)
	u3 := createUser(t, s, 150000)

	_, err := s.TableIDForUser(cbg, u1.ID)
	a.Equal(ErrNoTable, err)

	tbl, err := holdem.NewTable(holdem.DefaultRules(), u1.ID, u1.Username, 100000, start)
	a.NoError(err)
	a.NoError(s.Commit(cbg, tbl, tbl.Flush().Ledger))
	a.Greater(tbl.ID, int64(0))
	assertBank(t, s, u1.ID, 50000)

	id, err := s.TableIDForUser(cbg, u1.ID)
	a.NoError(err)
	a.Equal(tbl.ID, id)

	// user 2 cannot afford the buy-in, so nothing is saved
	failed := tbl.Clone()
	a.NoError(failed.Join(u2.ID, u2.Username, start))
	a.Equal(holdem.ErrInsufficientFunds, s.Commit(cbg, failed, failed.Flush().Ledger))
	assertBank(t, s, u2.ID, 5000)
	_, err = s.TableIDForUser(cbg, u2.ID)
	a.Equal(ErrNoTable, err)

	loaded, err := s.LoadTable(cbg, tbl.ID)
	a.NoError(err)
	a.Equal(holdem.StatusWaiting, loaded.Status)
	a.Len(loaded.Seats, 1)

	a.NoError(loaded.Join(u3.ID, u3.Username, start))
	a.NoError(s.Commit(cbg, loaded, loaded.Flush().Ledger))
	assertBank(t, s, u3.ID, 50000)

	started, err := s.LoadTable(cbg, tbl.ID)
	a.NoError(err)
	a.Equal(holdem.StatusStarted, started.Status)
	a.Equal(1, started.HandNumber)
	a.Equal(loaded.Deck, started.Deck)
	a.Equal(loaded.Committed, started.Committed)
	a.Equal(loaded.Current, started.Current)
	a.Equal(loaded.Dealer, started.Dealer)
	a.True(loaded.Timeout.Equal(started.Timeout))
	a.Empty(started.Board)
	a.NoError(started.Audit())

	if a.Len(started.Seats, 2) {
		for i, seat := range started.Seats {
			a.Equal(loaded.Seats[i].UserID, seat.UserID)
			a.Equal(loaded.Seats[i].Order, seat.Order)
			a.Equal(loaded.Seats[i].Chips, seat.Chips)
			a.Equal(loaded.Seats[i].Bet, seat.Bet)
			a.Equal(loaded.Seats[i].Cards, seat.Cards)
			a.True(seat.Seated)
		}
	}

	started.Exit(u1.ID, start.Add(time.Second))
	a.True(started.Closed)
	a.NoError(s.Commit(cbg, started, started.Flush().Ledger))

	_, err = s.LoadTable(cbg, tbl.ID)
	a.Equal(holdem.ErrTableNotFound, err)
	_, err = s.TableIDForUser(cbg, u3.ID)
	a.Equal(ErrNoTable, err)

	b1, err := s.GetUserByID(cbg, u1.ID)
	a.NoError(err)
	b3, err := s.GetUserByID(cbg, u3.ID)
	a.NoError(err)
	a.Equal(300000, b1.Bank+b3.Bank)
}

func testDuplicateSeat(t *testing.T, s Store) {
	a := assert.New(t)

	u := createUser(t, s, 500000)

	tbl, err := holdem.NewTable(holdem.DefaultRules(), u.ID, u.Username, 100000, start)
	a.NoError(err)
	a.NoError(s.Commit(cbg, tbl, tbl.Flush().Ledger))

	tbl2, err := holdem.NewTable(holdem.DefaultRules(), u.ID, u.Username, 100000, start)
	a.NoError(err)
	a.Equal(ErrDuplicateKey, s.Commit(cbg, tbl2, tbl2.Flush().Ledger))
	a.Equal(int64(0), tbl2.ID)
	assertBank(t, s, u.ID, 400000)

	tbl.Exit(u.ID, start)
	a.NoError(s.Commit(cbg, tbl, tbl.Flush().Ledger))
	assertBank(t, s, u.ID, 500000)
}

// deadlines made on a host outside UTC must come back as the same instant
func testDeadlines(t *testing.T, s Store) {
	a := assert.New(t)

	now := time.Date(2020, 4, 1, 7, 0, 0, 0, time.FixedZone("EST", -5*60*60))

	u1 := createUser(t, s, 100000)
	u2 := createUser(t, s, 100000)

	tbl, err := holdem.NewTable(holdem.DefaultRules(), u1.ID, u1.Username, 10000, now)
	a.NoError(err)
	a.NoError(tbl.Join(u2.ID, u2.Username, now))
	a.False(tbl.Timeout.IsZero())
	tbl.NextHand = now.Add(3 * time.Second)
	tbl.Seats[0].ActionAt = now.Add(time.Second)
	a.NoError(s.Commit(cbg, tbl, tbl.Flush().Ledger))

	loaded, err := s.LoadTable(cbg, tbl.ID)
	a.NoError(err)
	a.True(tbl.Timeout.Equal(loaded.Timeout), "timeout %s != %s", tbl.Timeout, loaded.Timeout)
	a.True(now.Add(3*time.Second).Equal(loaded.NextHand), "next hand %s", loaded.NextHand)
	if a.Len(loaded.Seats, 2) {
		a.True(now.Add(time.Second).Equal(loaded.Seats[0].ActionAt), "action at %s", loaded.Seats[0].ActionAt)
	}

	loaded.Exit(u1.ID, now)
	a.True(loaded.Closed)
	a.NoError(s.Commit(cbg, loaded, loaded.Flush().Ledger))
}
