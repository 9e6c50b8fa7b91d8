package twin

import (
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/yungbote/lunatwin-backend/internal/domain/twin"
)

type EventKind string

const (
	EventCreated EventKind = "twin_created"
	EventUpdated EventKind = "twin_updated"
)

// Snapshot is an immutable view of a store after one commit.
type Snapshot struct {
	Kind    EventKind             `json:"kind"`
	Twin    domain.Twin           `json:"twin"`
	History []domain.HistoryPoint `json:"history"`
}

// Observer is called once per commit, in commit order, after readers can see the new state.
// Observers must not mutate the store that calls them.
type Observer func(Snapshot)

type Option func(*Store)

func WithRand(r IntN) Option {
	return func(s *Store) {
		if r != nil {
			s.rng = r
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithObserver(o Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.addObserver(o)
		}
	}
}

// Store holds at most one twin and its rolling history.
type Store struct {
	// commitMu serializes writers and observer delivery; mu guards the state readers see.
	commitMu sync.Mutex
	mu       sync.RWMutex
	closed   bool // guarded by commitMu

	twin    *domain.Twin
	history []domain.HistoryPoint

	rng IntN
	now func() time.Time

	obsMu     sync.Mutex
	observers map[int]Observer
	nextObs   int
}

type sharedRand struct{}

func (sharedRand) IntN(n int) int { return rand.IntN(n) }

func NewStore(opts ...Option) *Store {
	s := &Store{
		rng:       sharedRand{},
		now:       time.Now,
		observers: map[int]Observer{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create replaces any existing twin with a fresh one and seeds its history.
// It reports false once the store is closed.
func (s *Store) Create(userID uuid.UUID, info domain.BasicInfo, l domain.Lifestyle) (Snapshot, bool) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	if s.closed {
		return Snapshot{}, false
	}

	now := s.now()
	l = l.Clamp()
	ind, persona := Evaluate(l)
	t := domain.Twin{
		ID:         uuid.New(),
		UserID:     userID,
		BasicInfo:  info.Clone(),
		Lifestyle:  l,
		Indicators: ind,
		Persona:    persona,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	history := SeedHistory(ind, now, s.rng)

	snap := s.commit(EventCreated, t, history)
	s.notify(snap)
	return snap, true
}

// UpdateLifestyle merges patch into the current lifestyle. It reports false when no twin exists
// or the store is closed.
func (s *Store) UpdateLifestyle(patch domain.LifestylePatch) (Snapshot, bool) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	if s.closed {
		return Snapshot{}, false
	}

	s.mu.RLock()
	cur := s.twin
	history := s.history
	s.mu.RUnlock()
	if cur == nil {
		return Snapshot{}, false
	}

	now := s.now()
	t := *cur
	t.Lifestyle = cur.Lifestyle.Apply(patch).Clamp()
	t.Indicators, t.Persona = Evaluate(t.Lifestyle)
	t.UpdatedAt = now

	snap := s.commit(EventUpdated, t, AppendHistory(history, NewHistoryPoint(t.Indicators, now)))
	s.notify(snap)
	return snap, true
}

func (s *Store) Current() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.twin == nil {
		return Snapshot{}, false
	}
	return Snapshot{Kind: EventUpdated, Twin: cloneTwin(*s.twin), History: copyHistory(s.history)}, true
}

// Close waits for any in-flight commit and its observer delivery, then forgets the twin.
// Later writes are refused and no observer is called again.
func (s *Store) Close() {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	s.closed = true
	s.mu.Lock()
	s.twin = nil
	s.history = nil
	s.mu.Unlock()
}

func (s *Store) HasTwin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.twin != nil
}

// Subscribe registers o for every future commit. The returned func removes it.
func (s *Store) Subscribe(o Observer) (cancel func()) {
	id := s.addObserver(o)
	var once sync.Once
	return func() {
		once.Do(func() {
			s.obsMu.Lock()
			delete(s.observers, id)
			s.obsMu.Unlock()
		})
	}
}

func (s *Store) addObserver(o Observer) int {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = o
	return id
}

func (s *Store) commit(kind EventKind, t domain.Twin, history []domain.HistoryPoint) Snapshot {
	s.mu.Lock()
	s.twin = &t
	s.history = history
	s.mu.Unlock()
	return Snapshot{Kind: kind, Twin: cloneTwin(t), History: copyHistory(history)}
}

func (s *Store) notify(snap Snapshot) {
	s.obsMu.Lock()
	ids := make([]int, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	obs := make([]Observer, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		obs = append(obs, s.observers[id])
	}
	s.obsMu.Unlock()

	for _, o := range obs {
		o(Snapshot{Kind: snap.Kind, Twin: cloneTwin(snap.Twin), History: copyHistory(snap.History)})
	}
}

func copyHistory(h []domain.HistoryPoint) []domain.HistoryPoint {
	out := make([]domain.HistoryPoint, len(h))
	copy(out, h)
	return out
}

func cloneTwin(t domain.Twin) domain.Twin {
	t.BasicInfo = t.BasicInfo.Clone()
	return t
}
