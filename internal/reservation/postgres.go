package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend-getyourextreme/internal/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const undefinedColumn = "42703"

// PostgresStore reads and writes the reservations table of the backend.
type PostgresStore struct {
	clients *db.Clients
	table   string
}

func NewPostgresStore(clients *db.Clients, table string) *PostgresStore {
	if table == "" {
		table = "reservations"
	}
	return &PostgresStore{clients: clients, table: pgx.Identifier{table}.Sanitize()}
}

// date and event_id are cast so DATE and UUID schemas scan into strings.
const selectColumns = `id, customer_name, customer_phone, activity, route, date::text, status, created_at,
		       COALESCE(source, ''), amount, COALESCE(event_id::text, ''), COALESCE(referred_by_code, '')`

func (s *PostgresStore) List(ctx context.Context) ([]Reservation, error) {
	q, err := s.clients.Require()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY created_at DESC
	`, selectColumns, s.table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Create(ctx context.Context, input CreateInput) (Reservation, error) {
	q, err := s.clients.Require()
	if err != nil {
		return Reservation{}, err
	}

	args := []any{input.CustomerName, input.CustomerPhone, input.Activity, input.Route, input.Date,
		string(StatusPending), nullable(string(input.Source)), input.Amount, nullable(input.EventID), nullable(input.ReferredByCode)}

	out := reservationFromInput(input)
	row := q.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO %s (customer_name, customer_phone, activity, route, date, status, source, amount, event_id, referred_by_code)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at
	`, s.table), args...)

	var createdAt time.Time
	err = row.Scan(&out.ID, &createdAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedColumn {
		// Older schemas were created with camelCase column names.
		row = q.QueryRow(ctx, fmt.Sprintf(`
			INSERT INTO %s ("customerName", "customerPhone", activity, route, date, status, source, amount, "eventId", "referredByCode")
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
			RETURNING id, timestamp
		`, s.table), args...)
		err = row.Scan(&out.ID, &createdAt)
	}
	if err != nil {
		return Reservation{}, err
	}
	out.Timestamp = createdAt.UTC().Format(time.RFC3339Nano)
	return out, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	q, err := s.clients.Require()
	if err != nil {
		return err
	}
	_, err = q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id=$1`, s.table), id)
	return err
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id int64, status Status) (Reservation, error) {
	if !status.Valid() {
		return Reservation{}, ErrInvalidStatus
	}
	q, err := s.clients.Require()
	if err != nil {
		return Reservation{}, err
	}
	row := q.QueryRow(ctx, fmt.Sprintf(`
		UPDATE %s SET status=$2 WHERE id=$1
		RETURNING %s
	`, s.table, selectColumns), id, string(status))
	r, err := scanReservation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Reservation{}, ErrNotFound
	}
	return r, err
}

func scanReservation(row pgx.Row) (Reservation, error) {
	var (
		r         Reservation
		createdAt time.Time
		status    string
		source    string
	)
	if err := row.Scan(&r.ID, &r.CustomerName, &r.CustomerPhone, &r.Activity, &r.Route, &r.Date, &status,
		&createdAt, &source, &r.Amount, &r.EventID, &r.ReferredByCode); err != nil {
		return Reservation{}, err
	}
	r.Status = Status(status)
	r.Source = Source(source)
	r.Timestamp = createdAt.UTC().Format(time.RFC3339Nano)
	return r, nil
}

func reservationFromInput(input CreateInput) Reservation {
	return Reservation{
		CustomerName:   input.CustomerName,
		CustomerPhone:  input.CustomerPhone,
		Activity:       input.Activity,
		Route:          input.Route,
		Date:           input.Date,
		Status:         StatusPending,
		Source:         input.Source,
		Amount:         input.Amount,
		EventID:        input.EventID,
		ReferredByCode: input.ReferredByCode,
	}
}

func nullable(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
