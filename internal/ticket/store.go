package ticket

import (
	"context"
	"encoding/json"
	"sync"

	"backend-getyourextreme/internal/kv"

	"github.com/google/uuid"
)

const keyPrefix = "ticket:"

type Store struct {
	mu      sync.Mutex
	storage kv.Storage
	newID   func() string
}

func NewStore(storage kv.Storage) *Store {
	return &Store{storage: storage, newID: uuid.NewString}
}

// Create assigns a fresh id and stores t under it. An existing key is never
// overwritten.
func (s *Store) Create(ctx context.Context, t Ticket) (Ticket, error) {
	t.ID = s.newID()
	raw, err := json.Marshal(t)
	if err != nil {
		return Ticket{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok, err := s.storage.Get(ctx, keyPrefix+t.ID)
	if err != nil {
		return Ticket{}, err
	}
	if ok {
		return Ticket{}, ErrExists
	}
	if err := s.storage.Set(ctx, keyPrefix+t.ID, string(raw)); err != nil {
		return Ticket{}, err
	}
	return t, nil
}

func (s *Store) Get(ctx context.Context, id string) (Ticket, error) {
	if uuid.Validate(id) != nil {
		return Ticket{}, ErrNotFound
	}
	raw, ok, err := s.storage.Get(ctx, keyPrefix+id)
	if err != nil {
		return Ticket{}, err
	}
	if !ok {
		return Ticket{}, ErrNotFound
	}
	var t Ticket
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return Ticket{}, ErrNotFound
	}
	return t, nil
}
