package table

import (
	"context"
	"errors"
	"holdem-server/pkg/holdem"
	"time"
)

// ErrInvalidUsernameOrPassword is an error for an invalid username or password
var ErrInvalidUsernameOrPassword = errors.New("invalid username and/or password")

// ErrDuplicateKey happens if a username is taken, or a user is already seated at a table
var ErrDuplicateKey = errors.New("duplicate key constraint violation")

// ErrUserNotFound is returned when a user does not exist
var ErrUserNotFound = errors.New("user not found")

// ErrNoTable is returned when the user is not seated at any table
var ErrNoTable = errors.New("user is not at a table")

// User is a record in the `users` table
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Bank         int       `json:"bank"`
	IsAdmin      bool      `json:"isAdmin"`
	Created      time.Time `json:"created"`
	passwordHash string
}

// Summary describes a table for the admin listing
type Summary struct {
	ID         int64         `json:"id"`
	Status     holdem.Status `json:"status"`
	Players    int           `json:"players"`
	Pot        int           `json:"pot"`
	HandNumber int           `json:"handNumber"`
	Updated    time.Time     `json:"updated"`
}

// Store persists users and tables
type Store interface {
	CreateUser(ctx context.Context, username, password string, bank int) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByUsernameAndPassword(ctx context.Context, username, password string) (*User, error)
	SetIsAdmin(ctx context.Context, id int64, isAdmin bool) error
	CreditBank(ctx context.Context, id int64, amount int) error

	// TableIDForUser returns the table the user is seated at, or ErrNoTable
	TableIDForUser(ctx context.Context, userID int64) (int64, error)
	// LoadTable returns the table, or holdem.ErrTableNotFound
	LoadTable(ctx context.Context, id int64) (*holdem.Table, error)
	// Commit saves the table and applies the bank entries in one transaction
	// A new table is assigned its ID, and a closed table is deleted
	Commit(ctx context.Context, tbl *holdem.Table, ledger []holdem.BankEntry) error
	ListTables(ctx context.Context, offset int64, limit int) ([]*Summary, error)
}
