package reservation

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"backend-getyourextreme/internal/kv"
)

const storageKey = "reservations"

func seedReservations() []Reservation {
	return []Reservation{
		{
			ID:            101,
			CustomerName:  "John Doe",
			CustomerPhone: "+90 532 123 4567",
			Activity:      "Stand Up Paddle (SUP)",
			Route:         "Konyaaltı Loop",
			Date:          "2026-03-24",
			Status:        StatusPending,
			Timestamp:     "2026-02-10T08:30:00Z",
		},
		{
			ID:            102,
			CustomerName:  "Alice Schmidt",
			CustomerPhone: "+49 170 987 6543",
			Activity:      "Sea Kayaking",
			Route:         "Blue Caves Tour",
			Date:          "2026-03-25",
			Status:        StatusConfirmed,
			Timestamp:     "2026-02-10T10:00:00Z",
		},
		{
			ID:            103,
			CustomerName:  "Marco Rossi",
			CustomerPhone: "+39 333 444 5566",
			Activity:      "Scuba Diving",
			Route:         "Wreck Site Exploration",
			Date:          "2026-03-26",
			Status:        StatusCompleted,
			Timestamp:     "2026-02-10T20:00:00Z",
		},
	}
}

// LocalStore keeps reservations as a JSON array under a single key.
type LocalStore struct {
	storage kv.Storage
	now     func() time.Time
	mu      sync.Mutex
}

func NewLocalStore(storage kv.Storage) *LocalStore {
	if storage == nil {
		storage = kv.NewMemory()
	}
	return &LocalStore{storage: storage, now: time.Now}
}

func (s *LocalStore) List(ctx context.Context) ([]Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(ctx)
}

func (s *LocalStore) Create(ctx context.Context, input CreateInput) (Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read(ctx)
	if err != nil {
		return Reservation{}, err
	}

	now := s.now()
	id := now.UnixMilli()
	for _, r := range current {
		if r.ID >= id {
			id = r.ID + 1
		}
	}

	next := Reservation{
		ID:             id,
		CustomerName:   input.CustomerName,
		CustomerPhone:  input.CustomerPhone,
		Activity:       input.Activity,
		Route:          input.Route,
		Date:           input.Date,
		Status:         StatusPending,
		Timestamp:      now.UTC().Format(time.RFC3339Nano),
		Source:         input.Source,
		Amount:         input.Amount,
		EventID:        input.EventID,
		ReferredByCode: input.ReferredByCode,
	}

	if err := s.write(ctx, append([]Reservation{next}, current...)); err != nil {
		return Reservation{}, err
	}
	return next, nil
}

func (s *LocalStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read(ctx)
	if err != nil {
		return err
	}
	next := make([]Reservation, 0, len(current))
	for _, r := range current {
		if r.ID != id {
			next = append(next, r)
		}
	}
	return s.write(ctx, next)
}

func (s *LocalStore) UpdateStatus(ctx context.Context, id int64, status Status) (Reservation, error) {
	if !status.Valid() {
		return Reservation{}, ErrInvalidStatus
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read(ctx)
	if err != nil {
		return Reservation{}, err
	}
	for i := range current {
		if current[i].ID == id {
			current[i].Status = status
			if err := s.write(ctx, current); err != nil {
				return Reservation{}, err
			}
			return current[i], nil
		}
	}
	return Reservation{}, ErrNotFound
}

// read returns the stored list, reseeding when the key is absent or corrupt.
func (s *LocalStore) read(ctx context.Context) ([]Reservation, error) {
	raw, ok, err := s.storage.Get(ctx, storageKey)
	if err != nil {
		return nil, err
	}
	if ok {
		var parsed []Reservation
		if json.Unmarshal([]byte(raw), &parsed) == nil && validList(parsed) {
			return parsed, nil
		}
	}
	seed := seedReservations()
	if err := s.write(ctx, seed); err != nil {
		return nil, err
	}
	return seed, nil
}

func (s *LocalStore) write(ctx context.Context, items []Reservation) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.storage.Set(ctx, storageKey, string(payload))
}

func validList(items []Reservation) bool {
	if items == nil {
		return false
	}
	for _, r := range items {
		if r.ID == 0 || r.Status == "" || r.Timestamp == "" {
			return false
		}
	}
	return true
}
