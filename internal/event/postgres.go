package event

import (
	"context"
	"errors"
	"fmt"

	"backend-getyourextreme/internal/db"
	"backend-getyourextreme/internal/experience"

	"github.com/jackc/pgx/v5"
)

// PostgresStore serves the events table. Reads go through the public
// client so row-level policies tied to a session never hide events.
type PostgresStore struct {
	clients *db.Clients
	table   string
}

func NewPostgresStore(clients *db.Clients, table string) *PostgresStore {
	if table == "" {
		table = "events"
	}
	return &PostgresStore{clients: clients, table: pgx.Identifier{table}.Sanitize()}
}

const selectColumns = `id::text, category, date::text, left(time::text, 5), COALESCE(duration_hours, 0)::float8,
		       capacity, booked, price::float8, title, COALESCE(summary, ''), COALESCE(details, ''), service_stops`

func (s *PostgresStore) List(ctx context.Context) ([]EventScheduleItem, error) {
	q, err := s.clients.RequirePublic()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY date ASC, time ASC
	`, selectColumns, s.table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EventScheduleItem
	for rows.Next() {
		item, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Get(ctx context.Context, id string) (EventScheduleItem, error) {
	q, err := s.clients.RequirePublic()
	if err != nil {
		return EventScheduleItem{}, err
	}
	row := q.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM %s WHERE id::text=$1`, selectColumns, s.table), id)
	return notFound(scanEvent(row))
}

func (s *PostgresStore) Create(ctx context.Context, input CreateInput) (EventScheduleItem, error) {
	q, err := s.clients.Require()
	if err != nil {
		return EventScheduleItem{}, err
	}
	row := q.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO %s (category, date, time, duration_hours, capacity, booked, price, title, summary, details, service_stops)
		VALUES ($1,$2,$3,$4,$5,0,$6,$7,$8,$9,$10)
		RETURNING %s
	`, s.table, selectColumns), inputArgs(input)...)
	return scanEvent(row)
}

func (s *PostgresStore) Update(ctx context.Context, id string, input CreateInput) (EventScheduleItem, error) {
	q, err := s.clients.Require()
	if err != nil {
		return EventScheduleItem{}, err
	}
	args := append([]any{id}, inputArgs(input)...)
	row := q.QueryRow(ctx, fmt.Sprintf(`
		UPDATE %s SET category=$2, date=$3, time=$4, duration_hours=$5, capacity=$6,
		       price=$7, title=$8, summary=$9, details=$10, service_stops=$11
		WHERE id::text=$1
		RETURNING %s
	`, s.table, selectColumns), args...)
	return notFound(scanEvent(row))
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	q, err := s.clients.Require()
	if err != nil {
		return err
	}
	_, err = q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id::text=$1`, s.table), id)
	return err
}

// Reserve increments booked in a single conditional update; it fails with
// ErrInsufficientSeats when fewer than seats remain.
func (s *PostgresStore) Reserve(ctx context.Context, id string, seats int) (EventScheduleItem, error) {
	if seats < 1 {
		return EventScheduleItem{}, ErrInvalidSeats
	}
	q, err := s.clients.Require()
	if err != nil {
		return EventScheduleItem{}, err
	}
	row := q.QueryRow(ctx, fmt.Sprintf(`
		UPDATE %s SET booked = booked + $2
		WHERE id::text=$1 AND capacity - booked >= $2
		RETURNING %s
	`, s.table, selectColumns), id, seats)
	item, err := scanEvent(row)
	if !errors.Is(err, pgx.ErrNoRows) {
		return item, err
	}

	var exists bool
	if err := q.QueryRow(ctx, fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id::text=$1)`, s.table), id).Scan(&exists); err != nil {
		return EventScheduleItem{}, err
	}
	if !exists {
		return EventScheduleItem{}, ErrNotFound
	}
	return EventScheduleItem{}, ErrInsufficientSeats
}

func (s *PostgresStore) Release(ctx context.Context, id string, seats int) error {
	if seats < 1 {
		return ErrInvalidSeats
	}
	q, err := s.clients.Require()
	if err != nil {
		return err
	}
	tag, err := q.Exec(ctx, fmt.Sprintf(`UPDATE %s SET booked = GREATEST(booked - $2, 0) WHERE id::text=$1`, s.table), id, seats)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func inputArgs(input CreateInput) []any {
	return []any{string(input.Category), input.Date, input.Time, input.DurationHours, input.Capacity,
		input.Price, input.Title, input.Summary, input.Details, cleanStops(input.ServiceStops)}
}

func scanEvent(row pgx.Row) (EventScheduleItem, error) {
	var (
		item     EventScheduleItem
		category string
		stops    any
	)
	if err := row.Scan(&item.ID, &category, &item.Date, &item.Time, &item.DurationHours, &item.Capacity,
		&item.Booked, &item.Price, &item.Title, &item.Summary, &item.Details, &stops); err != nil {
		return EventScheduleItem{}, err
	}
	item.Category = experience.Category(category)
	item.ServiceStops = ParseServiceStops(stops)
	return item, nil
}

func notFound(item EventScheduleItem, err error) (EventScheduleItem, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return EventScheduleItem{}, ErrNotFound
	}
	return item, err
}
