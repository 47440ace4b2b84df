package prefs

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Listener observes state changes.
type Listener func(state, prev State)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithName persists the record under name instead of StorageKey.
func WithName(name string) Option {
	return func(s *Store) {
		s.name = name
	}
}

// Store is the persisted preference container.
type Store struct {
	backend StateStorage
	name    string
	logger  *slog.Logger

	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextID    int
}

// New creates a store and hydrates it from backend. A missing snapshot
// starts from DefaultState; a corrupt one is logged and ignored.
func New(backend StateStorage, opts ...Option) *Store {
	s := &Store{
		backend:   backend,
		name:      StorageKey,
		logger:    slog.Default(),
		state:     DefaultState(),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hydrate()
	return s
}

func (s *Store) hydrate() {
	raw, ok := s.backend.GetItem(s.name)
	if !ok {
		return
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		s.logger.Warn("discarding unreadable preferences snapshot", "name", s.name, "error", err)
		return
	}
	if env.Version != schemaVersion {
		s.logger.Warn("discarding preferences snapshot with unknown version",
			"name", s.name, "version", env.Version)
		return
	}

	state, err := env.State.mergeInto(DefaultState())
	if err != nil {
		s.logger.Warn("discarding invalid preferences snapshot", "name", s.name, "error", err)
		return
	}
	s.state = state
}

// State returns the full record.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Preferences returns the theme and language.
func (s *Store) Preferences() Preferences {
	return s.State().Preferences()
}

// SetTheme changes the theme.
func (s *Store) SetTheme(t Theme) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, t)
	}
	return s.update(func(st *State) { st.Theme = t })
}

// SetLanguage changes the language.
func (s *Store) SetLanguage(l Language) error {
	if !l.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidLanguage, l)
	}
	return s.update(func(st *State) { st.Language = l })
}

// SetOnboardingCompleted records whether onboarding has been completed.
func (s *Store) SetOnboardingCompleted(completed bool) error {
	return s.update(func(st *State) { st.OnboardingCompleted = completed })
}

// Reset restores the default record and persists it.
func (s *Store) Reset() error {
	return s.update(func(st *State) { *st = DefaultState() })
}

// ClearStorage removes the persisted snapshot. In-memory state is kept, so
// the next mutation writes the record again.
func (s *Store) ClearStorage() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.RemoveItem(s.name); err != nil {
		return fmt.Errorf("remove preferences: %w", err)
	}
	return nil
}

// Subscribe registers fn to run after every change. The returned function
// removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
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

// update applies mutate and writes the whole record. The in-memory state is
// changed even when the write fails.
func (s *Store) update(mutate func(*State)) error {
	s.mu.Lock()
	prev := s.state
	mutate(&s.state)
	next := s.state
	err := s.persist(next)
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next, prev)
	}
	return err
}

func (s *Store) persist(state State) error {
	data, err := json.Marshal(newEnvelope(state))
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	if err := s.backend.SetItem(s.name, string(data)); err != nil {
		s.logger.Error("failed to persist preferences", "name", s.name, "error", err)
		return fmt.Errorf("persist preferences: %w", err)
	}
	return nil
}
