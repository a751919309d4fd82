package room

import (
	"context"
	"errors"
	"holdem-server/internal/metrics"
	"holdem-server/pkg/holdem"
	"holdem-server/pkg/table"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrLeftTable is returned when the user's seat was removed before their request could run
var ErrLeftTable = errors.New("user is no longer at the table")

// ErrUnknownAction is returned for an action the dealer does not understand
var ErrUnknownAction = holdem.UserError("Unknown action")

const tickTimeout = 5 * time.Second

// unit is run against the table inside the dealer's run loop
type unit func(tbl *holdem.Table, now time.Time) error

// Dealer owns a single table. Every read and change to the table happens in its run loop
type Dealer struct {
	pitBoss *PitBoss
	id      int64

	// table is the last committed state, or nil if it must be reloaded from the store
	table *holdem.Table
	ended bool

	execInRunLoop chan func()
	close         chan bool
}

// NewDealer creates a new dealer for the table
// If tbl is nil, the table is loaded from the store on first use
func NewDealer(pitBoss *PitBoss, id int64, tbl *holdem.Table) *Dealer {
	return &Dealer{
		pitBoss:       pitBoss,
		id:            id,
		table:         tbl,
		execInRunLoop: make(chan func(), 256),
		close:         make(chan bool),
	}
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

// EndShift stops the run loop once the work queued before it is done
func (d *Dealer) EndShift() {
	select {
	case d.execInRunLoop <- func() { d.ended = true }:
	case <-d.close:
	}
}

func (d *Dealer) runLoop() {
	log := logrus.WithField("tableId", d.id)
	log.Debug("creating dealer run loop")

	ticker := time.NewTicker(d.pitBoss.tick)
	defer ticker.Stop()

	for !d.ended {
		select {
		case fn := <-d.execInRunLoop:
			fn()
		case <-ticker.C:
			d.tick()
		}
	}

	log.Debug("terminating dealer run loop")
	d.pitBoss.removeDealer(d)
	close(d.close)
}

// exec runs fn in the run loop and waits for its result
func (d *Dealer) exec(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)

	select {
	case d.execInRunLoop <- func() { result <- fn() }:
	case <-d.close:
		return holdem.ErrTableNotFound
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-result:
		return err
	case <-d.close:
		// the result is sent before the run loop can exit
		select {
		case err := <-result:
			return err
		default:
			return holdem.ErrTableNotFound
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dealer) read(ctx context.Context, userID int64, fn unit) error {
	return d.exec(ctx, func() error {
		return d.apply(ctx, userID, fn, false)
	})
}

func (d *Dealer) write(ctx context.Context, userID int64, fn unit) error {
	return d.exec(ctx, func() error {
		return d.apply(ctx, userID, fn, true)
	})
}

// apply brings the table up to date and then runs fn against it
// A write is made against a copy of the table that replaces it only once it has been saved
// NOTE: must only be called from the run loop
func (d *Dealer) apply(ctx context.Context, userID int64, fn unit, write bool) error {
	tbl, err := d.load(ctx)
	if err != nil {
		return err
	}

	now := d.pitBoss.now()

	ticked := tbl.Clone()
	ticked.Tick(now)
	if outcome := ticked.Flush(); !outcome.Empty() {
		if err := d.commit(ctx, ticked, outcome); err != nil {
			return err
		}
	}

	if userID != 0 && tbl.Seat(userID) != nil && ticked.Seat(userID) == nil {
		return ErrLeftTable
	}

	if fn == nil {
		return nil
	}

	if !write {
		return fn(ticked, now)
	}

	next := ticked.Clone()
	if err := fn(next, now); err != nil {
		return err
	}

	return d.commit(ctx, next, next.Flush())
}

// NOTE: must only be called from the run loop
func (d *Dealer) load(ctx context.Context) (*holdem.Table, error) {
	if d.table != nil {
		return d.table, nil
	}

	tbl, err := d.pitBoss.store.LoadTable(ctx, d.id)
	if err != nil {
		if err == holdem.ErrTableNotFound {
			d.ended = true
		}

		return nil, err
	}

	d.table = tbl
	return tbl, nil
}

// commit saves the table and the bank entries, then tells everyone at the table
// NOTE: must only be called from the run loop
func (d *Dealer) commit(ctx context.Context, next *holdem.Table, outcome holdem.Outcome) error {
	log := logrus.WithField("tableId", d.id)

	if err := d.pitBoss.store.Commit(ctx, next, outcome.Ledger); err != nil {
		metrics.Metrics.CommitFailed()

		switch err {
		case table.ErrDuplicateKey:
			return holdem.ErrAlreadySeated
		case holdem.ErrInsufficientFunds:
			return err
		}

		log.WithError(err).Error("could not commit table")
		d.table = nil
		return err
	}

	prev := d.table
	d.table = next

	if err := next.Audit(); err != nil {
		metrics.Metrics.AuditFailed()
		log.WithError(err).Error("table audit failed")
	}

	for _, e := range outcome.Events {
		d.logEvent(log, e)
	}

	d.broadcast(prev, next)

	if next.Closed {
		d.ended = true
	}

	return nil
}

func (d *Dealer) logEvent(log *logrus.Entry, e holdem.Event) {
	switch e.Type {
	case holdem.EventHandStarted:
		metrics.Metrics.HandStarted()
	case holdem.EventTimeout:
		metrics.Metrics.Timeout()
	}

	log.WithFields(logrus.Fields{
		"event":    e.Type,
		"userId":   e.UserID,
		"username": e.Username,
		"amount":   e.Amount,
	}).Info("table event")
}

// broadcast sends each user at the table their view, and tells users who lost their seat
// NOTE: must only be called from the run loop
func (d *Dealer) broadcast(prev, next *holdem.Table) {
	if !next.Closed {
		for _, s := range next.Seats {
			d.pitBoss.send(s.UserID, newTableResponse(next.ViewFor(s.UserID)))
		}
	}

	if prev == nil {
		return
	}

	for _, s := range prev.Seats {
		if next.Closed || next.Seat(s.UserID) == nil {
			d.pitBoss.send(s.UserID, newGameOverResponse(""))
		}
	}
}

// tick applies expired deadlines when no request has done so
// NOTE: must only be called from the run loop
func (d *Dealer) tick() {
	if d.table != nil {
		deadline := d.table.NextDeadline()
		if deadline.IsZero() || d.pitBoss.now().Before(deadline) {
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
	defer cancel()

	if err := d.apply(ctx, 0, nil, false); err != nil && err != holdem.ErrTableNotFound {
		logrus.WithField("tableId", d.id).WithError(err).Error("could not apply deadlines")
	}
}

// View returns the user's view of the table
func (d *Dealer) View(ctx context.Context, userID int64) (*holdem.View, error) {
	var v *holdem.View
	err := d.read(ctx, userID, func(tbl *holdem.Table, now time.Time) error {
		if tbl.Closed || tbl.Seat(userID) == nil {
			return holdem.ErrNotInGame
		}

		v = tbl.ViewFor(userID)
		return nil
	})

	if err != nil {
		return nil, err
	}

	return v, nil
}

// Join buys the user in and returns their view of the table
func (d *Dealer) Join(ctx context.Context, user *table.User) (*holdem.View, error) {
	var v *holdem.View
	err := d.write(ctx, user.ID, func(tbl *holdem.Table, now time.Time) error {
		if err := tbl.Join(user.ID, user.Username, now); err != nil {
			return err
		}

		v = tbl.ViewFor(user.ID)
		return nil
	})

	if err != nil {
		return nil, err
	}

	return v, nil
}

// Act performs a betting action for the user. It returns true if the user went all in
func (d *Dealer) Act(ctx context.Context, userID int64, action holdem.Action, amount int) (bool, error) {
	var allIn bool
	err := d.write(ctx, userID, func(tbl *holdem.Table, now time.Time) error {
		var err error
		switch action {
		case holdem.ActionCheck:
			err = tbl.Check(userID, now)
		case holdem.ActionCall:
			allIn, err = tbl.Call(userID, now)
		case holdem.ActionBet:
			allIn, err = tbl.Bet(userID, amount, now)
		case holdem.ActionFold:
			err = tbl.Fold(userID, now)
		default:
			err = ErrUnknownAction
		}

		return err
	})

	if err != nil {
		return false, err
	}

	metrics.Metrics.Action(string(action))
	return allIn, nil
}

// Exit removes the user from the table. A user without a seat is left alone
func (d *Dealer) Exit(ctx context.Context, userID int64) error {
	return d.write(ctx, userID, func(tbl *holdem.Table, now time.Time) error {
		tbl.Exit(userID, now)
		return nil
	})
}
