// Package memory is an in-process implementation of every repository port.
// It backs the "memory" store driver and the service tests.
//
// Entities are copied on the way in and on the way out, so callers never
// share state with the store. Every save stamps its timestamp from the
// store clock.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yigitunlu/heroject/internal/domain/activity"
	"github.com/yigitunlu/heroject/internal/domain/invitation"
	"github.com/yigitunlu/heroject/internal/domain/workspace"
	"github.com/yigitunlu/heroject/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.ActionTypeRepository   = (*Store)(nil)
	_ ports.ActionRepository       = (*Store)(nil)
	_ ports.FollowRepository       = (*Store)(nil)
	_ ports.NotificationRepository = (*Store)(nil)
	_ ports.InvitationRepository   = (*Store)(nil)
	_ ports.DirectoryRepository    = (*Store)(nil)
	_ ports.MembershipWriter       = (*Store)(nil)
	_ ports.TxManager              = (*Store)(nil)
	_ ports.HealthChecker          = (*Store)(nil)
)

// Store holds all records in maps guarded by one RWMutex.
type Store struct {
	mu    sync.RWMutex
	state state

	// txMu serializes transactions and the writes made outside them. It is
	// never taken while mu is held.
	txMu sync.Mutex

	now   func() time.Time
	newID func() string
}

// row pairs a record with its insertion sequence, used to break timestamp
// ties and to keep oldest-first listings stable.
type row[T any] struct {
	v   T
	seq uint64
}

type state struct {
	seq uint64

	actionTypes   map[string]activity.ActionType
	actions       map[string]row[activity.Action]
	follows       map[string]row[activity.Follow]
	notifications map[string]row[activity.Notification]
	invitations   map[string]row[invitation.Invitation]

	users         map[string]workspace.User
	profiles      map[string]workspace.Profile
	organizations map[string]workspace.Organization
	projects      map[string]workspace.Project
	tasks         map[string]workspace.Task
}

func newState() state {
	return state{
		actionTypes:   map[string]activity.ActionType{},
		actions:       map[string]row[activity.Action]{},
		follows:       map[string]row[activity.Follow]{},
		notifications: map[string]row[activity.Notification]{},
		invitations:   map[string]row[invitation.Invitation]{},
		users:         map[string]workspace.User{},
		profiles:      map[string]workspace.Profile{},
		organizations: map[string]workspace.Organization{},
		projects:      map[string]workspace.Project{},
		tasks:         map[string]workspace.Task{},
	}
}

// clone copies every map. Organization and project member sets are copied
// by their getters, so a shallow map copy is enough here.
func (s state) clone() state {
	return state{
		seq:           s.seq,
		actionTypes:   maps.Clone(s.actionTypes),
		actions:       maps.Clone(s.actions),
		follows:       maps.Clone(s.follows),
		notifications: maps.Clone(s.notifications),
		invitations:   maps.Clone(s.invitations),
		users:         maps.Clone(s.users),
		profiles:      maps.Clone(s.profiles),
		organizations: maps.Clone(s.organizations),
		projects:      maps.Clone(s.projects),
		tasks:         maps.Clone(s.tasks),
	}
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the clock used to stamp saves.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the ID generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		state: newState(),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) stamp() time.Time {
	return s.now().UTC()
}

// nextSeq must be called with mu held for writing.
func (s *Store) nextSeq() uint64 {
	s.state.seq++
	return s.state.seq
}

type txCtxKey struct{}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txCtxKey{}).(bool)
	return ok
}

// lockWrite takes the write lock and returns its release. Outside a
// transaction it first waits for the running transaction to finish, so a
// rollback only ever discards the transaction's own writes.
func (s *Store) lockWrite(ctx context.Context) func() {
	if inTx(ctx) {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

// RunInTx implements ports.TxManager. Transactions are serialized with each
// other and with writes made outside them; when fn fails the store is
// restored to its state before fn ran. A nested call joins the outer
// transaction. Reads are not blocked and may observe uncommitted writes.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	saved := s.state.clone()
	s.mu.RUnlock()

	restore := func() {
		s.mu.Lock()
		s.state = saved
		s.mu.Unlock()
	}

	defer func() {
		if r := recover(); r != nil {
			restore()
			panic(r)
		}
	}()

	if err := fn(context.WithValue(ctx, txCtxKey{}, true)); err != nil {
		restore()
		return err
	}
	return nil
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return "memory"
}

// HealthCheck implements ports.HealthChecker. The memory store is always
// available.
func (s *Store) HealthCheck(ctx context.Context) error {
	return ctx.Err()
}
