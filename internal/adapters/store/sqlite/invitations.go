package sqlite

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/yigitunlu/heroject/internal/domain/invitation"
)

const entityInvitation = "invitation"

var invitationColumns = []string{
	"id", "sender_id", "receiver_id", "is_read", "is_accepted", "target_kind", "target_id", "date_sent",
}

func scanInvitation(row scanner) (invitation.Invitation, error) {
	var (
		inv                  invitation.Invitation
		receiverID           sql.NullString
		targetKind, targetID string
		dateSent             string
	)
	err := row.Scan(&inv.ID, &inv.SenderID, &receiverID, &inv.IsRead, &inv.IsAccepted, &targetKind, &targetID, &dateSent)
	if err != nil {
		return inv, err
	}
	if inv.DateSent, err = parseTime(dateSent); err != nil {
		return inv, err
	}
	inv.ReceiverID = stringOf(receiverID)
	inv.Target = refFromColumns(targetKind, targetID)
	return inv, nil
}

// CreateInvitation implements ports.InvitationRepository.
func (s *Store) CreateInvitation(ctx context.Context, inv *invitation.Invitation) error {
	if err := inv.Validate(); err != nil {
		return err
	}

	id := s.newID()
	now := s.stamp()
	_, err := s.exec(ctx, builder.Insert("invitations").
		Columns(invitationColumns...).
		Values(id, inv.SenderID, nullable(inv.ReceiverID), inv.IsRead, inv.IsAccepted,
			string(inv.Target.Kind), inv.Target.ID, formatTime(now)))
	if err != nil {
		return mapError(err, entityInvitation, id)
	}
	inv.ID = id
	inv.DateSent = now
	return nil
}

// GetInvitation implements ports.InvitationRepository.
func (s *Store) GetInvitation(ctx context.Context, id string) (*invitation.Invitation, error) {
	row, err := s.queryRow(ctx, builder.Select(invitationColumns...).From("invitations").Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	inv, err := scanInvitation(row)
	if err != nil {
		return nil, mapError(err, entityInvitation, id)
	}
	return &inv, nil
}

// SaveInvitation implements ports.InvitationRepository. Only the read and
// accepted flags are taken from inv; an accepted invitation stays accepted.
func (s *Store) SaveInvitation(ctx context.Context, inv *invitation.Invitation) error {
	n, err := s.exec(ctx, builder.Update("invitations").
		Set("is_read", inv.IsRead).
		Set("is_accepted", sq.Expr("MAX(is_accepted, ?)", inv.IsAccepted)).
		Set("date_sent", formatTime(s.stamp())).
		Where(sq.Eq{"id": inv.ID}))
	if err != nil {
		return mapError(err, entityInvitation, inv.ID)
	}
	if err := requireAffected(n, entityInvitation, inv.ID); err != nil {
		return err
	}

	stored, err := s.GetInvitation(ctx, inv.ID)
	if err != nil {
		return err
	}
	*inv = *stored
	return nil
}

// ListInvitations implements ports.InvitationRepository.
func (s *Store) ListInvitations(ctx context.Context, receiverID string, unreadOnly bool) ([]invitation.Invitation, error) {
	query := builder.Select(invitationColumns...).From("invitations").
		Where(sq.Eq{"receiver_id": nullable(receiverID)}).
		OrderBy("date_sent DESC", "seq DESC")
	if unreadOnly {
		query = query.Where(sq.Eq{"is_read": false})
	}

	list, err := queryRows(ctx, s, query, scanInvitation)
	if err != nil {
		return nil, mapError(err, entityInvitation, "for "+receiverID)
	}
	return list, nil
}
