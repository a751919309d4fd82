package table

import (
	"context"
	"database/sql"
	"fmt"
	"holdem-server/pkg/db"
	"holdem-server/pkg/deck"
	"holdem-server/pkg/holdem"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/synacor/argon2id"
)

const (
	pqDuplicateKeyErrorCode   pq.ErrorCode = "23505"
	pqCheckViolationErrorCode pq.ErrorCode = "23514"
)

const userColumns = `
users.id,
users.username,
users.bank,
users.is_admin,
users.password_hash,
users.created`

const tableColumns = `
tables.id,
tables.status,
tables.min_players,
tables.max_players,
tables.min_buyin,
tables.max_buyin,
tables.small_blind,
tables.big_blind,
tables.action_timeout_ms,
tables.next_hand_ms,
tables.pot,
tables.round,
tables.deck,
tables.board,
tables.discards,
tables.dealer_utid,
tables.small_blind_utid,
tables.big_blind_utid,
tables.current_utid,
tables.timeout,
tables.next_hand,
tables.committed,
tables.hand_number,
tables.next_utid`

const seatColumns = `
seats.user_id,
users.username,
seats.utid,
seats.chips,
seats.bet,
seats.roundbet,
seats.cards,
seats.talked,
seats.folded,
seats.seated,
seats.shown,
seats.last_action,
seats.rank_name,
seats.action_at`

// PostgresStore persists users and tables in PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore returns a store backed by the database
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// mapError converts constraint violations into the store's errors
func mapError(err error) error {
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case pqDuplicateKeyErrorCode:
			return ErrDuplicateKey
		case pqCheckViolationErrorCode:
			return holdem.ErrInsufficientFunds
		}
	}

	return err
}

func rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		logrus.WithError(err).Error("could not rollback transaction")
	}
}

func getUserByRow(row db.Scanner) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.Bank, &u.IsAdmin, &u.passwordHash, &u.Created); err != nil {
		return nil, err
	}

	return &u, nil
}

// CreateUser creates a new user
func (p *PostgresStore) CreateUser(ctx context.Context, username, password string, bank int) (*User, error) {
	hash, err := argon2id.DefaultHashPassword(password)
	if err != nil {
		return nil, err
	}

	const query = `
INSERT INTO users (username, password_hash, bank)
VALUES ($1, $2, $3)
RETURNING ` + userColumns

	u, err := getUserByRow(p.db.QueryRowContext(ctx, query, username, hash, bank))
	if err != nil {
		return nil, mapError(err)
	}

	return u, nil
}

// GetUserByID returns the user
func (p *PostgresStore) GetUserByID(ctx context.Context, id int64) (*User, error) {
	const query = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1`

	u, err := getUserByRow(p.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return u, err
}

// GetUserByUsernameAndPassword returns the user if the password matches
func (p *PostgresStore) GetUserByUsernameAndPassword(ctx context.Context, username, password string) (*User, error) {
	const query = `
SELECT ` + userColumns + `
FROM users
WHERE LOWER(username) = LOWER($1)`

	u, err := getUserByRow(p.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if err == sql.ErrNoRows {
			// prevent timing attacks
			_ = argon2id.Compare("", "")
			return nil, ErrInvalidUsernameOrPassword
		}

		return nil, err
	}

	if err := argon2id.Compare(u.passwordHash, password); err != nil {
		return nil, ErrInvalidUsernameOrPassword
	}

	return u, nil
}

// SetIsAdmin sets whether the user is an admin
func (p *PostgresStore) SetIsAdmin(ctx context.Context, id int64, isAdmin bool) error {
	const query = `
UPDATE users
SET is_admin = $1, updated = (NOW() AT TIME ZONE 'utc')
WHERE id = $2`

	res, err := p.db.ExecContext(ctx, query, isAdmin, id)
	if err != nil {
		return err
	}

	return expectRow(res)
}

// CreditBank adds the amount to the user's bank
func (p *PostgresStore) CreditBank(ctx context.Context, id int64, amount int) error {
	const query = `
UPDATE users
SET bank = bank + $1, updated = (NOW() AT TIME ZONE 'utc')
WHERE id = $2`

	res, err := p.db.ExecContext(ctx, query, amount, id)
	if err != nil {
		return mapError(err)
	}

	return expectRow(res)
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		return ErrUserNotFound
	}

	return nil
}

// TableIDForUser returns the table the user is seated at
func (p *PostgresStore) TableIDForUser(ctx context.Context, userID int64) (int64, error) {
	var id int64
	err := p.db.QueryRowContext(ctx, `SELECT table_id FROM seats WHERE user_id = $1`, userID).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, ErrNoTable
	}

	return id, err
}

// LoadTable returns the table with its seats
func (p *PostgresStore) LoadTable(ctx context.Context, id int64) (*holdem.Table, error) {
	const query = `
SELECT ` + tableColumns + `
FROM tables
WHERE id = $1`

	tbl, err := getTableByRow(p.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, holdem.ErrTableNotFound
		}

		return nil, err
	}

	const seatQuery = `
SELECT ` + seatColumns + `
FROM seats
INNER JOIN users ON seats.user_id = users.id
WHERE seats.table_id = $1
ORDER BY seats.utid`

	rows, err := p.db.QueryContext(ctx, seatQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		s, err := getSeatByRow(rows)
		if err != nil {
			return nil, err
		}

		tbl.Seats = append(tbl.Seats, s)
	}

	return tbl, rows.Err()
}

func getTableByRow(row db.Scanner) (*holdem.Table, error) {
	var tbl holdem.Table
	var actionTimeout, nextHandDelay int64
	var round string
	var deckCards, board, discards []string
	var timeout, nextHand sql.NullTime

	if err := row.Scan(
		&tbl.ID, &tbl.Status,
		&tbl.Rules.MinPlayers, &tbl.Rules.MaxPlayers, &tbl.Rules.MinBuyin, &tbl.Rules.MaxBuyin,
		&tbl.Rules.SmallBlind, &tbl.Rules.BigBlind, &actionTimeout, &nextHandDelay,
		&tbl.Pot, &round, pq.Array(&deckCards), pq.Array(&board), pq.Array(&discards),
		&tbl.Dealer, &tbl.SmallBlind, &tbl.BigBlind, &tbl.Current,
		&timeout, &nextHand, &tbl.Committed, &tbl.HandNumber, &tbl.NextOrder,
	); err != nil {
		return nil, err
	}

	tbl.Rules.ActionTimeout = time.Duration(actionTimeout) * time.Millisecond
	tbl.Rules.NextHandDelay = time.Duration(nextHandDelay) * time.Millisecond
	tbl.Timeout = timeOrZero(timeout)
	tbl.NextHand = timeOrZero(nextHand)

	var err error
	if tbl.Round, err = holdem.RoundFromString(round); err != nil {
		return nil, err
	}

	if tbl.Deck, err = parseCards(deckCards); err != nil {
		return nil, err
	}

	if tbl.Board, err = parseCards(board); err != nil {
		return nil, err
	}

	if tbl.Discards, err = parseCards(discards); err != nil {
		return nil, err
	}

	return &tbl, nil
}

func getSeatByRow(row db.Scanner) (*holdem.Seat, error) {
	var s holdem.Seat
	var cards []string
	var lastAction string
	var actionAt sql.NullTime

	if err := row.Scan(
		&s.UserID, &s.Username, &s.Order, &s.Chips, &s.Bet, &s.RoundBet, pq.Array(&cards),
		&s.Talked, &s.Folded, &s.Seated, &s.Shown, &lastAction, &s.RankName, &actionAt,
	); err != nil {
		return nil, err
	}

	var err error
	if s.Cards, err = parseCards(cards); err != nil {
		return nil, err
	}

	if len(s.Cards) == 0 {
		s.Cards = nil
	}

	s.LastAction = holdem.Action(lastAction)
	s.ActionAt = timeOrZero(actionAt)

	return &s, nil
}

// Commit saves the table and applies the ledger in a single transaction
func (p *PostgresStore) Commit(ctx context.Context, tbl *holdem.Table, ledger []holdem.BankEntry) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer rollback(tx)

	const bankQuery = `
UPDATE users
SET bank = bank + $1, updated = (NOW() AT TIME ZONE 'utc')
WHERE id = $2`

	for _, e := range ledger {
		if _, err := tx.ExecContext(ctx, bankQuery, e.Amount, e.UserID); err != nil {
			return mapError(err)
		}
	}

	if tbl.Closed {
		if tbl.ID != 0 {
			if _, err := tx.ExecContext(ctx, `DELETE FROM tables WHERE id = $1`, tbl.ID); err != nil {
				return err
			}
		}

		return tx.Commit()
	}

	id, err := saveTable(ctx, tx, tbl)
	if err != nil {
		return err
	}

	userIDs := make([]int64, len(tbl.Seats))
	for i, s := range tbl.Seats {
		userIDs[i] = s.UserID
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM seats WHERE table_id = $1 AND NOT (user_id = ANY($2))`, id, pq.Array(userIDs)); err != nil {
		return err
	}

	for _, s := range tbl.Seats {
		if err := saveSeat(ctx, tx, id, s); err != nil {
			return mapError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	tbl.ID = id
	return nil
}

func saveTable(ctx context.Context, tx *sql.Tx, tbl *holdem.Table) (int64, error) {
	args := []interface{}{
		tbl.Status,
		tbl.Rules.MinPlayers, tbl.Rules.MaxPlayers, tbl.Rules.MinBuyin, tbl.Rules.MaxBuyin,
		tbl.Rules.SmallBlind, tbl.Rules.BigBlind,
		tbl.Rules.ActionTimeout.Milliseconds(), tbl.Rules.NextHandDelay.Milliseconds(),
		tbl.Pot, tbl.Round.String(),
		pq.Array(cardStrings(tbl.Deck)), pq.Array(cardStrings(tbl.Board)), pq.Array(cardStrings(tbl.Discards)),
		tbl.Dealer, tbl.SmallBlind, tbl.BigBlind, tbl.Current,
		nullTime(tbl.Timeout), nullTime(tbl.NextHand),
		tbl.Committed, tbl.HandNumber, tbl.NextOrder,
	}

	if tbl.ID == 0 {
		const query = `
INSERT INTO tables (status, min_players, max_players, min_buyin, max_buyin, small_blind, big_blind,
                    action_timeout_ms, next_hand_ms, pot, round, deck, board, discards,
                    dealer_utid, small_blind_utid, big_blind_utid, current_utid, timeout, next_hand,
                    committed, hand_number, next_utid)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
RETURNING id`

		var id int64
		err := tx.QueryRowContext(ctx, query, args...).Scan(&id)
		return id, err
	}

	const query = `
UPDATE tables
SET status = $1, min_players = $2, max_players = $3, min_buyin = $4, max_buyin = $5,
    small_blind = $6, big_blind = $7, action_timeout_ms = $8, next_hand_ms = $9, pot = $10,
    round = $11, deck = $12, board = $13, discards = $14, dealer_utid = $15, small_blind_utid = $16,
    big_blind_utid = $17, current_utid = $18, timeout = $19, next_hand = $20, committed = $21,
    hand_number = $22, next_utid = $23, updated = (NOW() AT TIME ZONE 'utc')
WHERE id = $24`

	res, err := tx.ExecContext(ctx, query, append(args, tbl.ID)...)
	if err != nil {
		return 0, err
	}

	if n, err := res.RowsAffected(); err != nil {
		return 0, err
	} else if n == 0 {
		return 0, holdem.ErrTableNotFound
	}

	return tbl.ID, nil
}

func saveSeat(ctx context.Context, tx *sql.Tx, tableID int64, s *holdem.Seat) error {
	const query = `
INSERT INTO seats (table_id, user_id, utid, chips, bet, roundbet, cards, talked, folded, seated, shown,
                   last_action, rank_name, action_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (table_id, user_id) DO UPDATE
SET utid = EXCLUDED.utid, chips = EXCLUDED.chips, bet = EXCLUDED.bet, roundbet = EXCLUDED.roundbet,
    cards = EXCLUDED.cards, talked = EXCLUDED.talked, folded = EXCLUDED.folded, seated = EXCLUDED.seated,
    shown = EXCLUDED.shown, last_action = EXCLUDED.last_action, rank_name = EXCLUDED.rank_name,
    action_at = EXCLUDED.action_at`

	_, err := tx.ExecContext(ctx, query,
		tableID, s.UserID, s.Order, s.Chips, s.Bet, s.RoundBet, pq.Array(cardStrings(s.Cards)),
		s.Talked, s.Folded, s.Seated, s.Shown, string(s.LastAction), s.RankName, nullTime(s.ActionAt),
	)

	return err
}

// ListTables returns the tables, newest first
func (p *PostgresStore) ListTables(ctx context.Context, offset int64, limit int) ([]*Summary, error) {
	const query = `
SELECT tables.id, tables.status, COUNT(seats.user_id), tables.pot, tables.hand_number, tables.updated
FROM tables
LEFT JOIN seats ON seats.table_id = tables.id
GROUP BY tables.id
ORDER BY tables.id DESC
OFFSET $1
LIMIT $2`

	rows, err := p.db.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]*Summary, 0)
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Status, &s.Players, &s.Pot, &s.HandNumber, &s.Updated); err != nil {
			return nil, err
		}

		summaries = append(summaries, &s)
	}

	return summaries, rows.Err()
}

func cardStrings(cards []deck.Card) []string {
	s := make([]string, len(cards))
	for i, c := range cards {
		s[i] = c.String()
	}

	return s
}

func parseCards(s []string) ([]deck.Card, error) {
	cards := make([]deck.Card, len(s))
	for i, str := range s {
		c, err := deck.ParseCard(str)
		if err != nil {
			return nil, fmt.Errorf("could not parse stored card: %w", err)
		}

		cards[i] = c
	}

	return cards, nil
}

// nullTime converts to UTC, the columns are timestamps without a zone
func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t.UTC(), Valid: !t.IsZero()}
}

func timeOrZero(t sql.NullTime) time.Time {
	if !t.Valid {
		return time.Time{}
	}

	return t.Time.UTC()
}
