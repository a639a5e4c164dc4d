package experience

import (
	"errors"
	"sync"
	"time"
)

const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("date must be YYYY-MM-DD")

// Selection is the currently selected category and calendar date.
type Selection struct {
	Category Category `json:"category"`
	Date     string   `json:"date"`
	Theme    Theme    `json:"theme"`
}

// State holds the selection shared by the site sections. Listeners are
// called synchronously after every change, outside the lock.
type State struct {
	mu        sync.RWMutex
	category  Category
	date      string
	listeners map[int]func(Selection)
	nextID    int
}

func NewState(now time.Time) *State {
	return &State{
		category:  CategorySUP,
		date:      now.Format(DateLayout),
		listeners: map[int]func(Selection){},
	}
}

func (s *State) Snapshot() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *State) snapshotLocked() Selection {
	return Selection{Category: s.category, Date: s.date, Theme: ThemeFor(s.category)}
}

func (s *State) SetCategory(c Category) error {
	if !c.Valid() {
		return ErrUnknownCategory
	}
	s.update(func() { s.category = c })
	return nil
}

func (s *State) SetDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return ErrInvalidDate
	}
	s.update(func() { s.date = date })
	return nil
}

// Subscribe registers fn and returns a function that removes it.
func (s *State) Subscribe(fn func(Selection)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *State) update(change func()) {
	s.mu.Lock()
	change()
	snap := s.snapshotLocked()
	fns := make([]func(Selection), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
