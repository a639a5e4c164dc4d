package event

import (
	"context"
	"errors"
	"testing"

	"backend-getyourextreme/internal/db"

	"github.com/pashagolub/pgxmock/v3"
)

var eventColumns = []string{"id", "category", "date", "time", "duration_hours", "capacity", "booked", "price",
	"title", "summary", "details", "service_stops"}

func eventRow(rows *pgxmock.Rows, id string, capacity, booked int, stops any) *pgxmock.Rows {
	return rows.AddRow(id, "SUP", "2026-03-21", "08:00", 2.0, capacity, booked, 55.0,
		"Sunrise SUP Session", "Calm water", "Included: board", stops)
}

func TestPostgresStoreListUsesPublicClient(t *testing.T) {
	session, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer session.Close()
	public, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer public.Close()

	public.ExpectQuery(`SELECT id::text, category.*FROM "events".*ORDER BY date ASC, time ASC`).
		WillReturnRows(eventRow(pgxmock.NewRows(eventColumns), "1", 12, 7, "Marina|Old Harbour"))

	store := NewPostgresStore(db.NewClients(session, public), "events")
	items, err := store.List(context.Background())
	if err != nil || len(items) != 1 {
		t.Fatalf("list: %v", err)
	}
	if items[0].SeatsLeft() != 5 || len(items[0].ServiceStops) != 2 {
		t.Fatalf("unexpected mapped event: %+v", items[0])
	}
	if err := public.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
	if err := session.ExpectationsWereMet(); err != nil {
		t.Fatalf("session client should be unused: %v", err)
	}
}

func TestPostgresStoreCreate(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	in := newInput()
	mock.ExpectQuery(`INSERT INTO "events" \(category, date, time, duration_hours`).
		WithArgs("SUP", in.Date, in.Time, in.DurationHours, in.Capacity, in.Price, in.Title, in.Summary, in.Details,
			[]string{"Marina", "Old Harbour"}).
		WillReturnRows(eventRow(pgxmock.NewRows(eventColumns), "42", 8, 0, []string{"Marina", "Old Harbour"}))

	created, err := NewPostgresStore(db.NewClients(mock, mock), "").Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "42" || created.Booked != 0 {
		t.Fatalf("unexpected created event: %+v", created)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresStoreReserve(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()
	store := NewPostgresStore(db.NewClients(mock, mock), "events")
	ctx := context.Background()

	mock.ExpectQuery(`UPDATE "events" SET booked = booked \+ \$2\s+WHERE id::text=\$1 AND capacity - booked >= \$2`).
		WithArgs("1", 2).
		WillReturnRows(eventRow(pgxmock.NewRows(eventColumns), "1", 12, 9, []string{"Marina"}))
	item, err := store.Reserve(ctx, "1", 2)
	if err != nil || item.Booked != 9 {
		t.Fatalf("reserve: %+v %v", item, err)
	}

	mock.ExpectQuery(`UPDATE "events" SET booked`).
		WithArgs("1", 4).
		WillReturnRows(pgxmock.NewRows(eventColumns))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	if _, err := store.Reserve(ctx, "1", 4); !errors.Is(err, ErrInsufficientSeats) {
		t.Fatalf("expected insufficient seats, got %v", err)
	}

	mock.ExpectQuery(`UPDATE "events" SET booked`).
		WithArgs("nope", 1).
		WillReturnRows(pgxmock.NewRows(eventColumns))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("nope").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	if _, err := store.Reserve(ctx, "nope", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectExec(`UPDATE "events" SET booked = GREATEST\(booked - \$2, 0\)`).
		WithArgs("1", 2).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	if err := store.Release(ctx, "1", 2); err != nil {
		t.Fatalf("release: %v", err)
	}
	mock.ExpectExec(`UPDATE "events" SET booked = GREATEST`).
		WithArgs("nope", 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	if err := store.Release(ctx, "nope", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found on release, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresStoreNotConfigured(t *testing.T) {
	store := NewPostgresStore(db.NewClients(nil, nil), "events")
	if _, err := store.List(context.Background()); !errors.Is(err, db.ErrNotConfigured) {
		t.Fatalf("expected not configured, got %v", err)
	}
	if _, err := store.Reserve(context.Background(), "1", 1); !errors.Is(err, db.ErrNotConfigured) {
		t.Fatalf("expected not configured, got %v", err)
	}
}

func TestPostgresStoreDeleteThenList(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM "events" WHERE id::text=\$1`).
		WithArgs("1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectQuery(`SELECT id::text, category.*FROM "events"`).
		WillReturnRows(eventRow(pgxmock.NewRows(eventColumns), "2", 10, 4, []string{"Old Harbour"}))

	store := NewPostgresStore(db.NewClients(mock, mock), "events")
	ctx := context.Background()
	if err := store.Delete(ctx, "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	items, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].ID == "1" {
		t.Fatalf("deleted event still listed: %+v", items)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
