package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"tripsplit/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on an embedded SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// SQLite serializes writers; one connection avoids SQLITE_BUSY under
	// concurrent expense appends.
	db.SetMaxOpenConns(1)

	if err := runSQLiteMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateTrip(ctx context.Context, t *Trip) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO trips (id, name, created_at) VALUES (?, ?, ?)`,
		t.ID, t.Name, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert trip: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetTrip(ctx context.Context, id string) (*Trip, error) {
	var t Trip
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM trips WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select trip: %w", err)
	}
	return &t, nil
}

func (s *SQLiteStore) ListTrips(ctx context.Context) ([]Trip, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM trips ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("select trips: %w", err)
	}
	defer rows.Close()

	var trips []Trip
	for rows.Next() {
		var t Trip
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

func (s *SQLiteStore) AddMember(ctx context.Context, tripID string, m core.Member) error {
	if _, err := s.GetTrip(ctx, tripID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO members (id, trip_id, display_name, active, joined_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		m.ID, tripID, m.DisplayName, m.Active)
	if err != nil {
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

// ListMembers returns the roster in join order. rowid is insertion order;
// joined_at only has second resolution and can tie.
func (s *SQLiteStore) ListMembers(ctx context.Context, tripID string) ([]core.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, display_name, active FROM members
		 WHERE trip_id = ? ORDER BY rowid`, tripID)
	if err != nil {
		return nil, fmt.Errorf("select members: %w", err)
	}
	defer rows.Close()

	var members []core.Member
	for rows.Next() {
		var m core.Member
		if err := rows.Scan(&m.ID, &m.DisplayName, &m.Active); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// DeactivateMember guards the update with the referenced-check inside a
// single statement, so there is no window between checking the ledger
// and flipping the flag.
func (s *SQLiteStore) DeactivateMember(ctx context.Context, tripID, memberID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE members SET active = 0
		 WHERE id = ? AND trip_id = ?
		   AND NOT EXISTS (
		       SELECT 1 FROM expenses WHERE trip_id = ? AND payer_id = ?)
		   AND NOT EXISTS (
		       SELECT 1 FROM expense_splits es
		       JOIN expenses e ON e.id = es.expense_id
		       WHERE e.trip_id = ? AND es.member_id = ?)`,
		memberID, tripID, tripID, memberID, tripID, memberID)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 1 {
		return nil
	}

	var exists bool
	err = s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM members WHERE id = ? AND trip_id = ?)`,
		memberID, tripID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check member: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrMemberReferenced
}

func (s *SQLiteStore) AppendExpense(ctx context.Context, tripID string, rec *core.ExpenseRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, trip_id, payer_id, amount_cents, category, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, tripID, rec.PayerID, rec.Amount.Cents, rec.Category, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}

	for i, split := range rec.Splits {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO expense_splits (expense_id, member_id, amount_cents, position)
			 VALUES (?, ?, ?, ?)`,
			rec.ID, split.MemberID, split.Amount.Cents, i)
		if err != nil {
			return fmt.Errorf("insert split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit expense: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListExpenses(ctx context.Context, tripID string) (core.Ledger, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, payer_id, amount_cents, category, created_at FROM expenses
		 WHERE trip_id = ? ORDER BY rowid`, tripID)
	if err != nil {
		return nil, fmt.Errorf("select expenses: %w", err)
	}
	defer rows.Close()

	var ledger core.Ledger
	for rows.Next() {
		var rec core.ExpenseRecord
		if err := rows.Scan(&rec.ID, &rec.PayerID, &rec.Amount.Cents, &rec.Category, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		ledger = append(ledger, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range ledger {
		splits, err := s.listSplits(ctx, ledger[i].ID)
		if err != nil {
			return nil, err
		}
		ledger[i].Splits = splits
	}
	return ledger, nil
}

func (s *SQLiteStore) listSplits(ctx context.Context, expenseID string) ([]core.Split, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT member_id, amount_cents FROM expense_splits
		 WHERE expense_id = ? ORDER BY position`, expenseID)
	if err != nil {
		return nil, fmt.Errorf("select splits: %w", err)
	}
	defer rows.Close()

	var splits []core.Split
	for rows.Next() {
		var sp core.Split
		if err := rows.Scan(&sp.MemberID, &sp.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan split: %w", err)
		}
		splits = append(splits, sp)
	}
	return splits, rows.Err()
}

func (s *SQLiteStore) AppendActivity(ctx context.Context, e *ActivityEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activity (id, trip_id, kind, message, occurred_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.TripID, e.Kind, e.Message, e.OccurredAt)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListActivity(ctx context.Context, tripID string, limit int) ([]ActivityEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, trip_id, kind, message, occurred_at FROM activity
		 WHERE trip_id = ? ORDER BY occurred_at DESC, id DESC LIMIT ?`, tripID, limit)
	if err != nil {
		return nil, fmt.Errorf("select activity: %w", err)
	}
	defer rows.Close()

	var entries []ActivityEntry
	for rows.Next() {
		var e ActivityEntry
		if err := rows.Scan(&e.ID, &e.TripID, &e.Kind, &e.Message, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
