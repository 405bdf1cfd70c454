// Package memory keeps the review graph in process memory for tests and dry-run imports.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/review-sdk/modules/person/domain/aggregates/person"
	"github.com/iota-uz/review-sdk/modules/review/domain/aggregates/review"
	"github.com/iota-uz/review-sdk/modules/review/domain/entities/criterion"
	"github.com/iota-uz/review-sdk/modules/review/domain/entities/cycle"
	"github.com/iota-uz/review-sdk/modules/review/domain/entities/project"
	"github.com/iota-uz/review-sdk/modules/review/domain/entities/reference"
	"github.com/iota-uz/review-sdk/pkg/repo"
)

var _ repo.Transactor = (*Store)(nil)

// Fault lets tests fail a write. op names the write, e.g. "review.create_peer".
type Fault func(op string, entity any) error

type allocationKey struct {
	personID  uuid.UUID
	projectID uuid.UUID
}

type state struct {
	persons     map[uuid.UUID]person.Person
	cycles      map[uuid.UUID]cycle.Cycle
	projects    map[uuid.UUID]project.Project
	allocations map[allocationKey]project.Allocation
	criteria    map[uuid.UUID]criterion.Criterion
	reviews     map[uuid.UUID]review.Review
	selfBodies  map[uuid.UUID]review.SelfReview
	peerBodies  map[uuid.UUID]review.PeerReview
	nominations map[uuid.UUID]reference.Nomination
}

func newState() state {
	return state{
		persons:     make(map[uuid.UUID]person.Person),
		cycles:      make(map[uuid.UUID]cycle.Cycle),
		projects:    make(map[uuid.UUID]project.Project),
		allocations: make(map[allocationKey]project.Allocation),
		criteria:    make(map[uuid.UUID]criterion.Criterion),
		reviews:     make(map[uuid.UUID]review.Review),
		selfBodies:  make(map[uuid.UUID]review.SelfReview),
		peerBodies:  make(map[uuid.UUID]review.PeerReview),
		nominations: make(map[uuid.UUID]reference.Nomination),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// clone copies the maps; stored entities are immutable values.
func (s state) clone() state {
	return state{
		persons:     cloneMap(s.persons),
		cycles:      cloneMap(s.cycles),
		projects:    cloneMap(s.projects),
		allocations: cloneMap(s.allocations),
		criteria:    cloneMap(s.criteria),
		reviews:     cloneMap(s.reviews),
		selfBodies:  cloneMap(s.selfBodies),
		peerBodies:  cloneMap(s.peerBodies),
		nominations: cloneMap(s.nominations),
	}
}

type txKey struct{}

type transaction struct {
	store *Store
	state *state
}

type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.nowFn = now }
}

// WithCriteria replaces the seeded canonical criteria.
func WithCriteria(criteria ...criterion.Criterion) Option {
	return func(s *Store) {
		s.state.criteria = make(map[uuid.UUID]criterion.Criterion, len(criteria))
		for _, c := range criteria {
			s.state.criteria[c.ID()] = c
		}
	}
}

// Store serializes transactions with a single mutex. Each transaction works on a
// cloned state that replaces the committed one only when fn succeeds.
type Store struct {
	mu    sync.Mutex
	state state
	nowFn func() time.Time

	faultMu sync.RWMutex
	fault   Fault
}

// NewStore returns a store seeded with the canonical criteria.
func NewStore(opts ...Option) *Store {
	s := &Store{state: newState(), nowFn: time.Now}
	for _, c := range SeedCriteria() {
		s.state.criteria[c.ID()] = c
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SeedCriteria builds the canonical criteria reachable from the legacy mapping.
func SeedCriteria() []criterion.Criterion {
	leadership := make(map[string]bool)
	for _, m := range criterion.Mappings() {
		leadership[m.Canonical] = leadership[m.Canonical] || m.LeadershipOnly
	}
	names := criterion.CanonicalNames()
	out := make([]criterion.Criterion, 0, len(names))
	for _, name := range names {
		out = append(out, criterion.Hydrate(uuid.New(), name, leadership[name]))
	}
	return out
}

func (s *Store) SetFault(f Fault) {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	s.fault = f
}

func (s *Store) checkFault(op string, entity any) error {
	s.faultMu.RLock()
	defer s.faultMu.RUnlock()
	if s.fault == nil {
		return nil
	}
	return s.fault(op, entity)
}

// InTx runs fn atomically. Nested calls join the surrounding transaction.
func (s *Store) InTx(ctx context.Context, fn func(context.Context) error) error {
	if _, ok := s.txFrom(ctx); ok {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.state.clone()
	tx := &transaction{store: s, state: &working}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	s.state = working
	return nil
}

func (s *Store) txFrom(ctx context.Context) (*transaction, bool) {
	tx, ok := ctx.Value(txKey{}).(*transaction)
	if !ok || tx.store != s {
		return nil, false
	}
	return tx, true
}

// write applies fn inside the caller's transaction or an implicit one.
func (s *Store) write(ctx context.Context, op string, entity any, fn func(st *state) error) error {
	return s.InTx(ctx, func(ctx context.Context) error {
		if err := s.checkFault(op, entity); err != nil {
			return err
		}
		tx, _ := s.txFrom(ctx)
		return fn(tx.state)
	})
}

// read sees the caller's uncommitted writes when called inside a transaction.
func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if tx, ok := s.txFrom(ctx); ok {
		return fn(tx.state)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.state)
}

func (s *Store) now() time.Time {
	return s.nowFn().UTC()
}

// Counts reports committed row counts per entity.
type Counts struct {
	Persons     int
	Cycles      int
	Projects    int
	Allocations int
	Reviews     int
	SelfReviews int
	PeerReviews int
	Cards       int
	Nominations int
}

func (s *Store) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := Counts{
		Persons:     len(s.state.persons),
		Cycles:      len(s.state.cycles),
		Projects:    len(s.state.projects),
		Allocations: len(s.state.allocations),
		Reviews:     len(s.state.reviews),
		SelfReviews: len(s.state.selfBodies),
		PeerReviews: len(s.state.peerBodies),
		Nominations: len(s.state.nominations),
	}
	for _, body := range s.state.selfBodies {
		c.Cards += len(body.Cards())
	}
	return c
}

func (s *Store) PersonRepository() person.Repository       { return &personRepository{store: s} }
func (s *Store) CycleRepository() cycle.Repository         { return &cycleRepository{store: s} }
func (s *Store) ProjectRepository() project.Repository     { return &projectRepository{store: s} }
func (s *Store) CriterionRepository() criterion.Repository { return &criterionRepository{store: s} }
func (s *Store) ReviewRepository() review.Repository       { return &reviewRepository{store: s} }
func (s *Store) ReferenceRepository() reference.Repository { return &referenceRepository{store: s} }
