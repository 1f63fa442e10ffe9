package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tripsplit/internal/core"

	_ "github.com/lib/pq"
)

// PostgresStore implements Store on PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runPostgresMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) CreateTrip(ctx context.Context, t *Trip) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO trips (id, name, created_at) VALUES ($1, $2, $3)`,
		t.ID, t.Name, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert trip: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetTrip(ctx context.Context, id string) (*Trip, error) {
	var t Trip
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM trips WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select trip: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) ListTrips(ctx context.Context) ([]Trip, error) {
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

func (s *PostgresStore) AddMember(ctx context.Context, tripID string, m core.Member) error {
	if _, err := s.GetTrip(ctx, tripID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO members (id, trip_id, display_name, active, joined_at)
		 VALUES ($1, $2, $3, $4, NOW())`,
		m.ID, tripID, m.DisplayName, m.Active)
	if err != nil {
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

// ListMembers returns the roster in join order via the seq column;
// joined_at ties under concurrent inserts.
func (s *PostgresStore) ListMembers(ctx context.Context, tripID string) ([]core.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, display_name, active FROM members
		 WHERE trip_id = $1 ORDER BY seq`, tripID)
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
// single statement; the row lock taken by the UPDATE keeps a concurrent
// check-then-act from interleaving.
func (s *PostgresStore) DeactivateMember(ctx context.Context, tripID, memberID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE members SET active = FALSE
		 WHERE id = $1 AND trip_id = $2
		   AND NOT EXISTS (
		       SELECT 1 FROM expenses WHERE trip_id = $2 AND payer_id = $1)
		   AND NOT EXISTS (
		       SELECT 1 FROM expense_splits es
		       JOIN expenses e ON e.id = es.expense_id
		       WHERE e.trip_id = $2 AND es.member_id = $1)`,
		memberID, tripID)
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
		`SELECT EXISTS (SELECT 1 FROM members WHERE id = $1 AND trip_id = $2)`,
		memberID, tripID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check member: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrMemberReferenced
}

func (s *PostgresStore) AppendExpense(ctx context.Context, tripID string, rec *core.ExpenseRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, trip_id, payer_id, amount_cents, category, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, tripID, rec.PayerID, rec.Amount.Cents, rec.Category, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}

	for i, split := range rec.Splits {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO expense_splits (expense_id, member_id, amount_cents, position)
			 VALUES ($1, $2, $3, $4)`,
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

func (s *PostgresStore) ListExpenses(ctx context.Context, tripID string) (core.Ledger, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, payer_id, amount_cents, category, created_at FROM expenses
		 WHERE trip_id = $1 ORDER BY seq`, tripID)
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

func (s *PostgresStore) listSplits(ctx context.Context, expenseID string) ([]core.Split, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT member_id, amount_cents FROM expense_splits
		 WHERE expense_id = $1 ORDER BY position`, expenseID)
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

func (s *PostgresStore) AppendActivity(ctx context.Context, e *ActivityEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activity (id, trip_id, kind, message, occurred_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		e.ID, e.TripID, e.Kind, e.Message, e.OccurredAt)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListActivity(ctx context.Context, tripID string, limit int) ([]ActivityEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, trip_id, kind, message, occurred_at FROM activity
		 WHERE trip_id = $1 ORDER BY occurred_at DESC, id DESC LIMIT $2`, tripID, limit)
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
