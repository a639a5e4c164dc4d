package event

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func TestRemoteStoreReserveConflict(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		switch r.URL.Path {
		case "/events":
			_ = json.NewEncoder(w).Encode([]EventScheduleItem{{ID: "sup-sunrise", Capacity: 12, Booked: 7}})
		case "/events/sup-sunrise/reserve":
			var body map[string]int
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["seats"] > 5 {
				w.WriteHeader(http.StatusConflict)
				return
			}
			_ = json.NewEncoder(w).Encode(EventScheduleItem{ID: "sup-sunrise", Capacity: 12, Booked: 7 + body["seats"]})
		case "/events/sup-sunrise/release":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	store := NewRemoteStore(srv.URL, "", srv.Client())
	ctx := context.Background()

	items, err := store.List(ctx)
	if err != nil || len(items) != 1 {
		t.Fatalf("list: %v", err)
	}
	item, err := store.Reserve(ctx, "sup-sunrise", 2)
	if err != nil || item.Booked != 9 {
		t.Fatalf("reserve: %+v %v", item, err)
	}
	if _, err := store.Reserve(ctx, "sup-sunrise", 6); !errors.Is(err, ErrInsufficientSeats) {
		t.Fatalf("expected insufficient seats, got %v", err)
	}
	if err := store.Release(ctx, "sup-sunrise", 2); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(paths) != 5 {
		t.Fatalf("unexpected calls: %v", paths)
	}
}

func TestRemoteStoreNotConfigured(t *testing.T) {
	if _, err := NewRemoteStore(" ", "", nil).List(context.Background()); !errors.Is(err, ErrRemoteNotConfigured) {
		t.Fatalf("expected not configured, got %v", err)
	}
}

func TestRemoteStoreDeleteThenList(t *testing.T) {
	var mu sync.Mutex
	items := []EventScheduleItem{{ID: "sup-sunrise"}, {ID: "bike-city"}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/events":
			_ = json.NewEncoder(w).Encode(items)
		case r.Method == http.MethodDelete && r.URL.Path == "/events/sup-sunrise":
			items = items[1:]
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	store := NewRemoteStore(srv.URL, "", srv.Client())
	ctx := context.Background()
	if err := store.Delete(ctx, "sup-sunrise"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, item := range list {
		if item.ID == "sup-sunrise" {
			t.Fatalf("deleted event still listed: %+v", list)
		}
	}
	if len(list) != 1 {
		t.Fatalf("expected one remaining event, got %d", len(list))
	}
}
