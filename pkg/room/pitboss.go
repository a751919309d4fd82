package room

import (
	"context"
	"holdem-server/internal/metrics"
	"holdem-server/pkg/holdem"
	"holdem-server/pkg/table"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultTickInterval = 500 * time.Millisecond

// PitBoss is responsible for dispatching players to the dealer of their table
type PitBoss struct {
	store table.Store
	rules holdem.Rules
	tick  time.Duration
	now   func() time.Time

	lock    sync.Mutex
	dealers map[int64]*Dealer

	clientsLock sync.RWMutex
	clients     map[int64]map[*Client]bool
}

// Option configures a PitBoss
type Option func(p *PitBoss)

// WithClock replaces the wall clock
func WithClock(now func() time.Time) Option {
	return func(p *PitBoss) {
		p.now = now
	}
}

// WithTickInterval sets how often each dealer checks the table's deadlines
func WithTickInterval(d time.Duration) Option {
	return func(p *PitBoss) {
		if d > 0 {
			p.tick = d
		}
	}
}

// NewPitBoss returns a new dispatch object. New tables are created with rules
func NewPitBoss(store table.Store, rules holdem.Rules, opts ...Option) *PitBoss {
	p := &PitBoss{
		store:   store,
		rules:   rules,
		tick:    defaultTickInterval,
		now:     time.Now,
		dealers: make(map[int64]*Dealer),
		clients: make(map[int64]map[*Client]bool),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// StartShift starts a dealer for every table in the store, so deadlines are applied
// at tables nobody is looking at
func (p *PitBoss) StartShift(ctx context.Context) error {
	const limit = 100

	for offset := int64(0); ; offset += limit {
		summaries, err := p.store.ListTables(ctx, offset, limit)
		if err != nil {
			return err
		}

		for _, s := range summaries {
			if _, err := p.dealer(ctx, s.ID); err != nil {
				return err
			}
		}

		if len(summaries) < limit {
			logrus.WithField("tables", p.activeTables()).Info("pit boss started shift")
			return nil
		}
	}
}

// EndShift stops every dealer
func (p *PitBoss) EndShift() {
	p.lock.Lock()
	dealers := make([]*Dealer, 0, len(p.dealers))
	for _, d := range p.dealers {
		dealers = append(dealers, d)
	}
	p.lock.Unlock()

	for _, d := range dealers {
		d.EndShift()
	}
}

// dealer returns the running dealer of the table, starting one if needed
func (p *PitBoss) dealer(ctx context.Context, id int64) (*Dealer, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if d, ok := p.dealers[id]; ok {
		return d, nil
	}

	tbl, err := p.store.LoadTable(ctx, id)
	if err != nil {
		return nil, err
	}

	return p.startDealer(tbl), nil
}

// NOTE: p.lock must be held
func (p *PitBoss) startDealer(tbl *holdem.Table) *Dealer {
	d := NewDealer(p, tbl.ID, tbl)
	d.StartShift()
	p.dealers[tbl.ID] = d
	metrics.Metrics.SetActiveTables(len(p.dealers))

	return d
}

func (p *PitBoss) removeDealer(d *Dealer) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.dealers[d.id] == d {
		delete(p.dealers, d.id)
	}

	metrics.Metrics.SetActiveTables(len(p.dealers))
}

func (p *PitBoss) activeTables() int {
	p.lock.Lock()
	defer p.lock.Unlock()

	return len(p.dealers)
}

// userDealer returns the dealer of the table the user is seated at
func (p *PitBoss) userDealer(ctx context.Context, userID int64) (*Dealer, error) {
	id, err := p.store.TableIDForUser(ctx, userID)
	if err != nil {
		if err == table.ErrNoTable {
			return nil, holdem.ErrNotInGame
		}

		return nil, err
	}

	d, err := p.dealer(ctx, id)
	if err == holdem.ErrTableNotFound {
		return nil, holdem.ErrNotInGame
	}

	return d, err
}

// notInGame maps a table that went away while the request waited
func notInGame(err error) error {
	if err == holdem.ErrTableNotFound {
		return holdem.ErrNotInGame
	}

	return err
}

// Create opens a new table with the user as its dealer
func (p *PitBoss) Create(ctx context.Context, user *table.User, buyin int) (*holdem.View, error) {
	if _, err := p.store.TableIDForUser(ctx, user.ID); err == nil {
		return nil, holdem.ErrAlreadySeated
	} else if err != table.ErrNoTable {
		return nil, err
	}

	tbl, err := holdem.NewTable(p.rules, user.ID, user.Username, buyin, p.now())
	if err != nil {
		return nil, err
	}

	if err := p.store.Commit(ctx, tbl, tbl.Flush().Ledger); err != nil {
		if err == table.ErrDuplicateKey {
			return nil, holdem.ErrAlreadySeated
		}

		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"tableId": tbl.ID,
		"userId":  user.ID,
		"buyin":   buyin,
	}).Info("table created")

	p.lock.Lock()
	d := p.startDealer(tbl)
	p.lock.Unlock()

	v, err := d.View(ctx, user.ID)
	return v, notInGame(err)
}

// Join seats the user at the table
// Joining the table the user is already at returns their view
func (p *PitBoss) Join(ctx context.Context, user *table.User, tableID int64) (*holdem.View, error) {
	id, err := p.store.TableIDForUser(ctx, user.ID)
	if err == nil && id != tableID {
		return nil, holdem.ErrAlreadySeated
	} else if err != nil && err != table.ErrNoTable {
		return nil, err
	}

	d, err := p.dealer(ctx, tableID)
	if err != nil {
		return nil, err
	}

	return d.Join(ctx, user)
}

// View returns the user's view of their table
func (p *PitBoss) View(ctx context.Context, userID int64) (*holdem.View, error) {
	d, err := p.userDealer(ctx, userID)
	if err != nil {
		return nil, err
	}

	v, err := d.View(ctx, userID)
	return v, notInGame(err)
}

// Act performs a betting action. It returns ResultSuccess or ResultAllIn
func (p *PitBoss) Act(ctx context.Context, userID int64, action holdem.Action, amount int) (string, error) {
	d, err := p.userDealer(ctx, userID)
	if err != nil {
		return "", err
	}

	allIn, err := d.Act(ctx, userID, action, amount)
	if err != nil {
		return "", notInGame(err)
	}

	if allIn {
		return ResultAllIn, nil
	}

	return ResultSuccess, nil
}

// Exit removes the user from their table
// Exiting when the user is not at a table succeeds
func (p *PitBoss) Exit(ctx context.Context, userID int64) error {
	d, err := p.userDealer(ctx, userID)
	if err == nil {
		err = notInGame(d.Exit(ctx, userID))
	}

	if err == holdem.ErrNotInGame {
		return nil
	}

	return err
}

// ListTables returns the tables for the admin listing
func (p *PitBoss) ListTables(ctx context.Context, offset int64, limit int) ([]*table.Summary, error) {
	return p.store.ListTables(ctx, offset, limit)
}
