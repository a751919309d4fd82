package table

import (
	"context"
	"holdem-server/pkg/holdem"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/synacor/argon2id"
)

// MemoryStore keeps everything in memory. It is used for tests and single-process deployments
type MemoryStore struct {
	mu        sync.Mutex
	users     map[int64]*User
	usernames map[string]int64
	tables    map[int64]*holdem.Table
	updated   map[int64]time.Time
	// seats maps a user ID to a table ID
	seats map[int64]int64

	nextUserID  int64
	nextTableID int64
}

// NewMemoryStore returns an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[int64]*User),
		usernames: make(map[string]int64),
		tables:    make(map[int64]*holdem.Table),
		updated:   make(map[int64]time.Time),
		seats:     make(map[int64]int64),
	}
}

// CreateUser creates a new user
func (m *MemoryStore) CreateUser(ctx context.Context, username, password string, bank int) (*User, error) {
	hash, err := argon2id.DefaultHashPassword(password)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(username)
	if _, ok := m.usernames[key]; ok {
		return nil, ErrDuplicateKey
	}

	m.nextUserID++
	u := &User{
		ID:           m.nextUserID,
		Username:     username,
		Bank:         bank,
		Created:      time.Now().UTC(),
		passwordHash: hash,
	}

	m.users[u.ID] = u
	m.usernames[key] = u.ID

	c := *u
	return &c, nil
}

// GetUserByID returns the user
func (m *MemoryStore) GetUserByID(ctx context.Context, id int64) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	c := *u
	return &c, nil
}

// GetUserByUsernameAndPassword returns the user if the password matches
func (m *MemoryStore) GetUserByUsernameAndPassword(ctx context.Context, username, password string) (*User, error) {
	m.mu.Lock()
	id, ok := m.usernames[strings.ToLower(username)]
	var u User
	if ok {
		u = *m.users[id]
	}
	m.mu.Unlock()

	if !ok {
		// prevent timing attacks
		_ = argon2id.Compare("", "")
		return nil, ErrInvalidUsernameOrPassword
	}

	if err := argon2id.Compare(u.passwordHash, password); err != nil {
		return nil, ErrInvalidUsernameOrPassword
	}

	return &u, nil
}

// SetIsAdmin sets whether the user is an admin
func (m *MemoryStore) SetIsAdmin(ctx context.Context, id int64, isAdmin bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return ErrUserNotFound
	}

	u.IsAdmin = isAdmin
	return nil
}

// CreditBank adds the amount to the user's bank
func (m *MemoryStore) CreditBank(ctx context.Context, id int64, amount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.applyLedger([]holdem.BankEntry{{UserID: id, Amount: amount}})
}

// applyLedger changes the banks only if every entry can be applied
func (m *MemoryStore) applyLedger(ledger []holdem.BankEntry) error {
	banks := make(map[int64]int)
	for _, e := range ledger {
		u, ok := m.users[e.UserID]
		if !ok {
			return ErrUserNotFound
		}

		bank, ok := banks[e.UserID]
		if !ok {
			bank = u.Bank
		}

		bank += e.Amount
		if bank < 0 {
			return holdem.ErrInsufficientFunds
		}

		banks[e.UserID] = bank
	}

	for id, bank := range banks {
		m.users[id].Bank = bank
	}

	return nil
}

// TableIDForUser returns the table the user is seated at
func (m *MemoryStore) TableIDForUser(ctx context.Context, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.seats[userID]
	if !ok {
		return 0, ErrNoTable
	}

	return id, nil
}

// LoadTable returns a copy of the table
func (m *MemoryStore) LoadTable(ctx context.Context, id int64) (*holdem.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tbl, ok := m.tables[id]
	if !ok {
		return nil, holdem.ErrTableNotFound
	}

	return tbl.Clone(), nil
}

// Commit saves the table and applies the ledger
func (m *MemoryStore) Commit(ctx context.Context, tbl *holdem.Table, ledger []holdem.BankEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !tbl.Closed {
		for _, s := range tbl.Seats {
			if id, ok := m.seats[s.UserID]; ok && (tbl.ID == 0 || id != tbl.ID) {
				return ErrDuplicateKey
			}
		}
	}

	if err := m.applyLedger(ledger); err != nil {
		return err
	}

	for userID, tableID := range m.seats {
		if tbl.ID != 0 && tableID == tbl.ID {
			delete(m.seats, userID)
		}
	}

	if tbl.Closed {
		delete(m.tables, tbl.ID)
		delete(m.updated, tbl.ID)
		return nil
	}

	if tbl.ID == 0 {
		m.nextTableID++
		tbl.ID = m.nextTableID
	}

	for _, s := range tbl.Seats {
		m.seats[s.UserID] = tbl.ID
	}

	m.tables[tbl.ID] = tbl.Clone()
	m.updated[tbl.ID] = time.Now().UTC()
	return nil
}

// ListTables returns the tables, newest first
func (m *MemoryStore) ListTables(ctx context.Context, offset int64, limit int) ([]*Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]int64, 0, len(m.tables))
	for id := range m.tables {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i] > ids[j]
	})

	if offset < 0 {
		offset = 0
	}

	summaries := make([]*Summary, 0)
	for i := offset; i < int64(len(ids)) && len(summaries) < limit; i++ {
		summaries = append(summaries, summarize(m.tables[ids[i]], m.updated[ids[i]]))
	}

	return summaries, nil
}

func summarize(tbl *holdem.Table, updated time.Time) *Summary {
	return &Summary{
		ID:         tbl.ID,
		Status:     tbl.Status,
		Players:    len(tbl.Seats),
		Pot:        tbl.Pot,
		HandNumber: tbl.HandNumber,
		Updated:    updated,
	}
}
