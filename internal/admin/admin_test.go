package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"backend-getyourextreme/internal/event"
	"backend-getyourextreme/internal/kv"
	"backend-getyourextreme/internal/profile"
	"backend-getyourextreme/internal/reservation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(v float64) *float64 { return &v }

func sample() []reservation.Reservation {
	return []reservation.Reservation{
		{ID: 1, CustomerName: "Jane Roe", CustomerPhone: "+90 555", Activity: "SUP Event: Sunrise", Status: reservation.StatusPending, Amount: amount(110), ReferredByCode: "GYE-AB12CD"},
		{ID: 2, CustomerName: "John Doe", CustomerPhone: "+49 170", Activity: "Bisiklet Event: Old Town", Route: "Pickup Clock Tower", Status: reservation.StatusConfirmed, Amount: amount(40)},
		{ID: 3, CustomerName: "Marco Rossi", Activity: "Special Request (Kayak)", Status: reservation.StatusPending},
	}
}

func ids(items []reservation.Reservation) []int64 {
	out := make([]int64, 0, len(items))
	for _, r := range items {
		out = append(out, r.ID)
	}
	return out
}

func TestSearch(t *testing.T) {
	items := sample()
	assert.Equal(t, []int64{1, 2, 3}, ids(Search(items, "")))
	assert.Equal(t, []int64{1}, ids(Search(items, "jane")))
	assert.Equal(t, []int64{2}, ids(Search(items, "CLOCK")))
	assert.Equal(t, []int64{1, 3}, ids(Search(items, "pending")))
	assert.Equal(t, []int64{1}, ids(Search(items, "ab12")))
	assert.Equal(t, []int64{2}, ids(Search(items, "+49")))
	assert.Empty(t, Search(items, "nothing"))
}

func TestSummarize(t *testing.T) {
	events := []event.EventScheduleItem{{Capacity: 10, Booked: 4}, {Capacity: 6, Booked: 6}}
	s := Summarize(sample(), events)
	assert.Equal(t, Stats{
		TotalReservations:   3,
		PendingReservations: 2,
		Revenue:             150,
		Events:              2,
		SeatsBooked:         10,
		SeatsCapacity:       16,
	}, s)
	assert.Equal(t, Stats{}, Summarize(nil, nil))
}

type usersFunc func(ctx context.Context) ([]profile.RegisteredUser, error)

func (f usersFunc) ListRegistered(ctx context.Context) ([]profile.RegisteredUser, error) {
	return f(ctx)
}

func TestAdminHandlers(t *testing.T) {
	storage := kv.NewMemory()
	admin := profile.RoleAdmin
	name := "Ada"
	users := usersFunc(func(context.Context) ([]profile.RegisteredUser, error) {
		return []profile.RegisteredUser{{ID: "u-1", FullName: &name, Role: &admin}}, nil
	})

	allowed := true
	guard := func(c *fiber.Ctx) error {
		if !allowed {
			return fiber.ErrForbidden
		}
		return c.Next()
	}

	app := fiber.New()
	RegisterRoutes(app.Group("/admin"), reservation.NewLocalStore(storage), event.NewLocalStore(storage), users, guard)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/reservations?q=alice", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var found []reservation.Reservation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&found))
	assert.Equal(t, []int64{102}, ids(found))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
	require.NoError(t, err)
	var stats Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, 3, stats.TotalReservations)
	assert.Equal(t, 1, stats.PendingReservations)
	assert.Equal(t, 6, stats.Events)
	assert.Equal(t, 34, stats.SeatsBooked)
	assert.Equal(t, 74, stats.SeatsCapacity)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/admin/users", nil))
	require.NoError(t, err)
	var list []profile.RegisteredUser
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.True(t, list[0].Role != nil && *list[0].Role == profile.RoleAdmin)

	allowed = false
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdminUsersError(t *testing.T) {
	users := usersFunc(func(context.Context) ([]profile.RegisteredUser, error) {
		return nil, errors.New("db down")
	})
	storage := kv.NewMemory()
	app := fiber.New()
	RegisterRoutes(app.Group("/admin"), reservation.NewLocalStore(storage), event.NewLocalStore(storage), users)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/users", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
