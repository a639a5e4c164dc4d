package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"backend-getyourextreme/internal/event"
	"backend-getyourextreme/internal/kv"
	"backend-getyourextreme/internal/reservation"
	"backend-getyourextreme/internal/ticket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fixture struct {
	svc          *Service
	events       event.Store
	reservations reservation.Store
	tickets      *ticket.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	storage := kv.NewMemory()
	f := fixture{
		events:       event.NewLocalStore(storage),
		reservations: reservation.NewLocalStore(storage),
		tickets:      ticket.NewStore(storage),
	}
	f.svc = NewService(f.events, f.reservations, f.tickets, nil)
	f.svc.now = func() time.Time { return time.UnixMilli(1767225600123) }
	return f
}

func sunriseForm() Form {
	return Form{
		EventID:      "sup-sunrise",
		PickupStop:   "Lara Hotels Zone",
		Participants: 2,
		FullName:     "Jane Roe",
		Email:        "jane@example.com",
		Phone:        "+90 555 111 2233",
		ReferralCode: "gye-ab12cd",
	}
}

func TestBookCreatesReservationAndTicket(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.svc.Book(ctx, sunriseForm())
	require.NoError(t, err)

	res := out.Reservation
	assert.Equal(t, "SUP Event: Sunrise SUP Session", res.Activity)
	assert.Equal(t, "Pickup Lara Hotels Zone | Seats 2 | Konyaaltı Beach Park -> Lara Hotels Zone -> Marina Meeting Point", res.Route)
	assert.Equal(t, reservation.SourceEvent, res.Source)
	require.NotNil(t, res.Amount)
	assert.Equal(t, 110.0, *res.Amount)
	assert.Equal(t, "sup-sunrise", res.EventID)
	assert.Equal(t, "GYE-AB12CD", res.ReferredByCode)
	assert.Equal(t, reservation.StatusPending, res.Status)

	assert.Equal(t, "GYE-25600123", out.Ticket.Reference)
	assert.Equal(t, 110.0, out.Ticket.Amount)
	assert.Equal(t, msgBookingDone, out.Message)

	require.NotEmpty(t, out.Ticket.ID)
	stored, err := f.tickets.Get(ctx, out.Ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, out.Ticket, stored)
	_, err = f.tickets.Get(ctx, out.Ticket.Reference)
	assert.ErrorIs(t, err, ticket.ErrNotFound)

	ev, err := f.events.Get(ctx, "sup-sunrise")
	require.NoError(t, err)
	assert.Equal(t, 9, ev.Booked)
}

func TestBookRejectsOverbookingWithoutStoreWrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	small, err := f.events.Create(ctx, event.CreateInput{
		Category: "SUP", Date: "2026-03-02", Time: "08:00", DurationHours: 2,
		Capacity: 3, Price: 55, Title: "Small Group", ServiceStops: []string{"Lara"},
	})
	require.NoError(t, err)

	form := sunriseForm()
	form.EventID = small.ID
	form.PickupStop = "Lara"
	form.Participants = 4

	_, err = f.svc.Book(ctx, form)
	var seats *SeatsError
	require.ErrorAs(t, err, &seats)
	assert.Equal(t, 3, seats.Left)
	assert.Equal(t, "Only 3 seats available for this event.", err.Error())

	list, err := f.reservations.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
	ev, _ := f.events.Get(ctx, small.ID)
	assert.Equal(t, 0, ev.Booked)
}

func TestBookValidationFailure(t *testing.T) {
	f := newFixture(t)
	form := sunriseForm()
	form.Phone = "nope"
	_, err := f.svc.Book(context.Background(), form)
	assert.EqualError(t, err, msgInvalidPhone)

	_, err = f.svc.Book(context.Background(), Form{})
	assert.ErrorIs(t, err, ErrNoEventSelected)

	form = sunriseForm()
	form.EventID = "missing"
	_, err = f.svc.Book(context.Background(), form)
	assert.ErrorIs(t, err, event.ErrNotFound)
}

type failingReservations struct {
	reservation.Store
}

func (failingReservations) Create(context.Context, reservation.CreateInput) (reservation.Reservation, error) {
	return reservation.Reservation{}, errors.New("insert failed")
}

func TestBookReleasesSeatsWhenReservationFails(t *testing.T) {
	storage := kv.NewMemory()
	events := event.NewLocalStore(storage)
	core, logs := observer.New(zap.WarnLevel)
	svc := NewService(events, failingReservations{}, ticket.NewStore(storage), zap.New(core))

	_, err := svc.Book(context.Background(), sunriseForm())
	assert.ErrorIs(t, err, ErrBookingFailed)
	assert.Equal(t, msgBookingFail, err.Error())

	ev, err := events.Get(context.Background(), "sup-sunrise")
	require.NoError(t, err)
	assert.Equal(t, 7, ev.Booked)
	assert.Equal(t, 1, logs.FilterMessage("reservation create failed").Len())
}

type staleEvents struct {
	event.Store
}

func (s staleEvents) Reserve(context.Context, string, int) (event.EventScheduleItem, error) {
	return event.EventScheduleItem{}, event.ErrInsufficientSeats
}

func TestBookReportsSeatsTakenConcurrently(t *testing.T) {
	f := newFixture(t)
	svc := NewService(staleEvents{f.events}, f.reservations, f.tickets, nil)

	_, err := svc.Book(context.Background(), sunriseForm())
	var seats *SeatsError
	require.ErrorAs(t, err, &seats)
	assert.Equal(t, 5, seats.Left)
}

func TestSpecialRequest(t *testing.T) {
	f := newFixture(t)
	today := f.svc.today()

	out, err := f.svc.SpecialRequest(context.Background(), SpecialRequest{
		Category: "SKI", PreferredDate: today, Name: " Jane Roe ", Phone: "+90 555 111 2233", Note: "group of friends",
	})
	require.NoError(t, err)
	assert.Equal(t, "Special Request (Kayak)", out.Reservation.Activity)
	assert.Equal(t, "Special Request | Category: Kayak | Participants: 1 | Note: group of friends", out.Reservation.Route)
	assert.Equal(t, "Jane Roe", out.Reservation.CustomerName)
	assert.Equal(t, reservation.SourceSpecial, out.Reservation.Source)
	assert.Equal(t, msgSpecialSent, out.Message)

	out, err = f.svc.SpecialRequest(context.Background(), SpecialRequest{
		Category: "Bisiklet", PreferredDate: today, Name: "Jane", Phone: "+90 555 111 2233", Participants: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "Special Request (Bisiklet)", out.Reservation.Activity)

	_, err = f.svc.SpecialRequest(context.Background(), SpecialRequest{
		PreferredDate: "2020-01-01", Name: "Jane", Phone: "+90 555 111 2233",
	})
	assert.EqualError(t, err, msgSpecialPastDate)

	svc := NewService(f.events, failingReservations{}, f.tickets, nil)
	_, err = svc.SpecialRequest(context.Background(), SpecialRequest{
		PreferredDate: "2999-01-01", Name: "Jane", Phone: "+90 555 111 2233",
	})
	assert.ErrorIs(t, err, ErrSpecialFailed)
}

func TestCalendar(t *testing.T) {
	f := newFixture(t)
	f.svc.now = time.Now
	ctx := context.Background()

	items, err := f.events.List(ctx)
	require.NoError(t, err)
	var sunrise event.EventScheduleItem
	for _, item := range items {
		if item.ID == "sup-sunrise" {
			sunrise = item
		}
	}

	view, err := f.svc.Calendar(ctx, CalendarQuery{Date: sunrise.Date, Pickup: "Marina Meeting Point"})
	require.NoError(t, err)
	assert.Equal(t, sunrise.Date[:7], view.Month)
	require.NotNil(t, view.Selected)
	assert.Equal(t, "sup-sunrise", view.Selected.ID)
	assert.Equal(t, "Marina Meeting Point", view.Pickup)
	assert.Equal(t, 5, view.SeatsLeft)
	assert.Len(t, view.WeekDays, 7)

	marked := 0
	for _, cell := range view.Cells {
		if cell.Date == sunrise.Date {
			assert.True(t, cell.HasEvents)
			assert.True(t, cell.Selected)
		}
		if cell.HasEvents {
			marked++
		}
	}
	assert.GreaterOrEqual(t, marked, 1)

	view, err = f.svc.Calendar(ctx, CalendarQuery{Month: "1999-01", Date: "1999-01-05"})
	require.NoError(t, err)
	assert.Nil(t, view.Selected)
	assert.Empty(t, view.Events)

	_, err = f.svc.Calendar(ctx, CalendarQuery{Month: "January"})
	var invalid *ValidationError
	assert.ErrorAs(t, err, &invalid)
}
