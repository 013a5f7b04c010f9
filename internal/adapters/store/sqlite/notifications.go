package sqlite

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/yigitunlu/heroject/internal/domain/activity"
)

const entityNotification = "notification"

var notificationColumns = []string{
	"id", "message", "action_time", "receiver_id", "sender_id", "target_kind", "target_id", "is_read",
}

func scanNotification(row scanner) (activity.Notification, error) {
	var (
		n                    activity.Notification
		actionTime           string
		senderID             sql.NullString
		targetKind, targetID string
	)
	err := row.Scan(&n.ID, &n.Message, &actionTime, &n.ReceiverID, &senderID, &targetKind, &targetID, &n.IsRead)
	if err != nil {
		return n, err
	}
	if n.ActionTime, err = parseTime(actionTime); err != nil {
		return n, err
	}
	n.SenderID = stringOf(senderID)
	n.Target = refFromColumns(targetKind, targetID)
	return n, nil
}

// CreateNotification implements ports.NotificationRepository.
func (s *Store) CreateNotification(ctx context.Context, n *activity.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	id := s.newID()
	now := s.stamp()
	_, err := s.exec(ctx, builder.Insert("notifications").
		Columns(notificationColumns...).
		Values(id, n.Message, formatTime(now), n.ReceiverID, nullable(n.SenderID),
			string(n.Target.Kind), n.Target.ID, false))
	if err != nil {
		return mapError(err, entityNotification, id)
	}
	n.ID = id
	n.ActionTime = now
	n.IsRead = false
	return nil
}

// GetNotification implements ports.NotificationRepository.
func (s *Store) GetNotification(ctx context.Context, id string) (*activity.Notification, error) {
	row, err := s.queryRow(ctx, builder.Select(notificationColumns...).From("notifications").Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	n, err := scanNotification(row)
	if err != nil {
		return nil, mapError(err, entityNotification, id)
	}
	return &n, nil
}

// MarkNotificationRead implements ports.NotificationRepository. Marking is a
// save, so action_time is refreshed.
func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	n, err := s.exec(ctx, builder.Update("notifications").
		Set("is_read", true).
		Set("action_time", formatTime(s.stamp())).
		Where(sq.Eq{"id": id}))
	if err != nil {
		return mapError(err, entityNotification, id)
	}
	return requireAffected(n, entityNotification, id)
}

// ListNotifications implements ports.NotificationRepository.
func (s *Store) ListNotifications(ctx context.Context, receiverID string, unreadOnly bool) ([]activity.Notification, error) {
	query := builder.Select(notificationColumns...).From("notifications").
		Where(sq.Eq{"receiver_id": receiverID}).
		OrderBy("action_time DESC", "seq DESC")
	if unreadOnly {
		query = query.Where(sq.Eq{"is_read": false})
	}

	list, err := queryRows(ctx, s, query, scanNotification)
	if err != nil {
		return nil, mapError(err, entityNotification, "for "+receiverID)
	}
	return list, nil
}
