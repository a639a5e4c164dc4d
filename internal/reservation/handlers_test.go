package reservation

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"backend-getyourextreme/internal/kv"

	"github.com/gofiber/fiber/v2"
)

func TestReservationHandlersCreateListDelete(t *testing.T) {
	store := NewLocalStore(kv.NewMemory())
	app := fiber.New()
	RegisterRoutes(app.Group("/reservations"), store, func(c *fiber.Ctx) error { return c.Next() })

	body, _ := json.Marshal(CreateInput{
		CustomerName:  "Jane Roe",
		CustomerPhone: "+90 555 111 2233",
		Activity:      "Special Request (SUP)",
		Route:         "Special Request | Category: SUP | Participants: 2",
		Date:          "2026-03-21",
		Source:        SourceSpecial,
	})
	req := httptest.NewRequest(http.MethodPost, "/reservations/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status: %v %d", err, resp.StatusCode)
	}
	var created Reservation
	_ = json.NewDecoder(resp.Body).Decode(&created)
	if created.Status != StatusPending {
		t.Fatalf("expected pending reservation")
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/reservations/", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("list status: %v", err)
	}
	var items []Reservation
	_ = json.NewDecoder(resp.Body).Decode(&items)
	if len(items) != 4 || items[0].ID != created.ID {
		t.Fatalf("expected created reservation first")
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodDelete, "/reservations/101", nil))
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodPatch, "/reservations/102/status", bytes.NewReader([]byte(`{"status":"Cancelled"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status update ok, got %d", resp.StatusCode)
	}
}

func TestReservationHandlersBadRequest(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/reservations"), NewLocalStore(nil))

	req := httptest.NewRequest(http.MethodPost, "/reservations/", bytes.NewReader([]byte(`{"customerName":"A"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for missing fields")
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodDelete, "/reservations/abc", nil))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for id")
	}

	req = httptest.NewRequest(http.MethodPatch, "/reservations/101/status", bytes.NewReader([]byte(`{"status":"Lost"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for status")
	}

	req = httptest.NewRequest(http.MethodPatch, "/reservations/555/status", bytes.NewReader([]byte(`{"status":"Confirmed"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected not found, got %d", resp.StatusCode)
	}
}

func TestReservationHandlersGuarded(t *testing.T) {
	app := fiber.New()
	deny := func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusForbidden, "forbidden") }
	RegisterRoutes(app.Group("/reservations"), NewLocalStore(nil), deny)

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/reservations/", nil))
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected guard to reject list")
	}
}
