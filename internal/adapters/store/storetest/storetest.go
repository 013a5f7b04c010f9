// Package storetest is the repository contract suite shared by the store
// adapters. Each adapter's tests call Run with a factory for a fresh store.
package storetest

import (
	"sync"
	"testing"
	"time"

	"github.com/yigitunlu/heroject/internal/ports"
)

// Store is the full set of ports a store adapter implements.
type Store interface {
	ports.ActionTypeRepository
	ports.ActionRepository
	ports.FollowRepository
	ports.NotificationRepository
	ports.InvitationRepository
	ports.DirectoryRepository
	ports.MembershipWriter
	ports.TxManager
}

// Factory returns an empty store whose save timestamps come from clock.
type Factory func(t *testing.T, clock *Clock) Store

// Clock is a manually advanced time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock set to a fixed instant.
func NewClock() *Clock {
	return &Clock{now: time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC)}
}

// Now returns the current instant.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Run executes every contract test against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("ActionTypes", func(t *testing.T) { testActionTypes(t, newStore) })
	t.Run("Actions", func(t *testing.T) { testActions(t, newStore) })
	t.Run("Follows", func(t *testing.T) { testFollows(t, newStore) })
	t.Run("Notifications", func(t *testing.T) { testNotifications(t, newStore) })
	t.Run("Invitations", func(t *testing.T) { testInvitations(t, newStore) })
	t.Run("Directory", func(t *testing.T) { testDirectory(t, newStore) })
	t.Run("Membership", func(t *testing.T) { testMembership(t, newStore) })
	t.Run("Transactions", func(t *testing.T) { testTransactions(t, newStore) })
	t.Run("RollbackKeepsOutsideWrites", func(t *testing.T) { testRollbackKeepsOutsideWrites(t, newStore) })
}
