package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"backend-getyourextreme/internal/kv"
)

const storageKey = "events_schedule"

// LocalStore keeps the schedule as a JSON array under a single key.
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

func (s *LocalStore) List(ctx context.Context) ([]EventScheduleItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(ctx)
}

func (s *LocalStore) Get(ctx context.Context, id string) (EventScheduleItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.read(ctx)
	if err != nil {
		return EventScheduleItem{}, err
	}
	i, ok := findByID(items, id)
	if !ok {
		return EventScheduleItem{}, ErrNotFound
	}
	return items[i], nil
}

func (s *LocalStore) Create(ctx context.Context, input CreateInput) (EventScheduleItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.read(ctx)
	if err != nil {
		return EventScheduleItem{}, err
	}

	millis := s.now().UnixMilli()
	id := fmt.Sprintf("evt-%d", millis)
	for {
		if _, taken := findByID(items, id); !taken {
			break
		}
		millis++
		id = fmt.Sprintf("evt-%d", millis)
	}

	next := fromInput(id, input)
	if err := s.write(ctx, append([]EventScheduleItem{next}, items...)); err != nil {
		return EventScheduleItem{}, err
	}
	return next, nil
}

func (s *LocalStore) Update(ctx context.Context, id string, input CreateInput) (EventScheduleItem, error) {
	return s.mutate(ctx, id, func(item *EventScheduleItem) error {
		booked := item.Booked
		*item = fromInput(id, input)
		item.Booked = booked
		return nil
	})
}

func (s *LocalStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.read(ctx)
	if err != nil {
		return err
	}
	next := make([]EventScheduleItem, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			next = append(next, item)
		}
	}
	return s.write(ctx, next)
}

func (s *LocalStore) Reserve(ctx context.Context, id string, seats int) (EventScheduleItem, error) {
	if seats < 1 {
		return EventScheduleItem{}, ErrInvalidSeats
	}
	return s.mutate(ctx, id, func(item *EventScheduleItem) error {
		if item.SeatsLeft() < seats {
			return ErrInsufficientSeats
		}
		item.Booked += seats
		return nil
	})
}

func (s *LocalStore) Release(ctx context.Context, id string, seats int) error {
	if seats < 1 {
		return ErrInvalidSeats
	}
	_, err := s.mutate(ctx, id, func(item *EventScheduleItem) error {
		item.Booked -= seats
		if item.Booked < 0 {
			item.Booked = 0
		}
		return nil
	})
	return err
}

func (s *LocalStore) mutate(ctx context.Context, id string, fn func(*EventScheduleItem) error) (EventScheduleItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.read(ctx)
	if err != nil {
		return EventScheduleItem{}, err
	}
	i, ok := findByID(items, id)
	if !ok {
		return EventScheduleItem{}, ErrNotFound
	}
	if err := fn(&items[i]); err != nil {
		return EventScheduleItem{}, err
	}
	if err := s.write(ctx, items); err != nil {
		return EventScheduleItem{}, err
	}
	return items[i], nil
}

// read returns the stored schedule, reseeding when the key is absent or corrupt.
func (s *LocalStore) read(ctx context.Context) ([]EventScheduleItem, error) {
	raw, ok, err := s.storage.Get(ctx, storageKey)
	if err != nil {
		return nil, err
	}
	if ok {
		var parsed []EventScheduleItem
		if json.Unmarshal([]byte(raw), &parsed) == nil && validSchedule(parsed) {
			return parsed, nil
		}
	}
	seed := DefaultSchedule(s.now())
	if err := s.write(ctx, seed); err != nil {
		return nil, err
	}
	return seed, nil
}

func (s *LocalStore) write(ctx context.Context, items []EventScheduleItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.storage.Set(ctx, storageKey, string(payload))
}

func validSchedule(items []EventScheduleItem) bool {
	if items == nil {
		return false
	}
	for _, item := range items {
		if item.ID == "" || !item.Category.Valid() || item.Date == "" || item.ServiceStops == nil {
			return false
		}
	}
	return true
}

// SortByStart orders events by date then time, the order the backend lists them in.
func SortByStart(items []EventScheduleItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Date != items[j].Date {
			return items[i].Date < items[j].Date
		}
		return items[i].Time < items[j].Time
	})
}
