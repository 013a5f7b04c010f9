package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/yigitunlu/heroject/internal/domain"
	"github.com/yigitunlu/heroject/internal/domain/activity"
)

// CreateNotification implements ports.NotificationRepository.
func (s *Store) CreateNotification(ctx context.Context, n *activity.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	defer s.lockWrite(ctx)()

	n.ID = s.newID()
	n.ActionTime = s.stamp()
	s.state.notifications[n.ID] = row[activity.Notification]{v: *n, seq: s.nextSeq()}
	return nil
}

// GetNotification implements ports.NotificationRepository.
func (s *Store) GetNotification(_ context.Context, id string) (*activity.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.state.notifications[id]
	if !ok {
		return nil, fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
	}
	n := r.v
	return &n, nil
}

// MarkNotificationRead implements ports.NotificationRepository. Marking is a
// save, so ActionTime is refreshed.
func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	defer s.lockWrite(ctx)()

	r, ok := s.state.notifications[id]
	if !ok {
		return fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
	}
	r.v.IsRead = true
	r.v.ActionTime = s.stamp()
	s.state.notifications[id] = r
	return nil
}

// ListNotifications implements ports.NotificationRepository.
func (s *Store) ListNotifications(_ context.Context, receiverID string, unreadOnly bool) ([]activity.Notification, error) {
	s.mu.RLock()
	rows := make([]row[activity.Notification], 0)
	for _, r := range s.state.notifications {
		if r.v.ReceiverID != receiverID || (unreadOnly && r.v.IsRead) {
			continue
		}
		rows = append(rows, r)
	}
	s.mu.RUnlock()

	slices.SortFunc(rows, func(a, b row[activity.Notification]) int {
		if c := b.v.ActionTime.Compare(a.v.ActionTime); c != 0 {
			return c
		}
		return cmp.Compare(b.seq, a.seq)
	})

	out := make([]activity.Notification, len(rows))
	for i, r := range rows {
		out[i] = r.v
	}
	return out, nil
}
