package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/yigitunlu/heroject/internal/domain"
	"github.com/yigitunlu/heroject/internal/domain/invitation"
)

// CreateInvitation implements ports.InvitationRepository.
func (s *Store) CreateInvitation(ctx context.Context, inv *invitation.Invitation) error {
	if err := inv.Validate(); err != nil {
		return err
	}

	defer s.lockWrite(ctx)()

	inv.ID = s.newID()
	inv.DateSent = s.stamp()
	s.state.invitations[inv.ID] = row[invitation.Invitation]{v: *inv, seq: s.nextSeq()}
	return nil
}

// GetInvitation implements ports.InvitationRepository.
func (s *Store) GetInvitation(_ context.Context, id string) (*invitation.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.state.invitations[id]
	if !ok {
		return nil, fmt.Errorf("invitation %s: %w", id, domain.ErrNotFound)
	}
	inv := r.v
	return &inv, nil
}

// SaveInvitation implements ports.InvitationRepository. Only the read and
// accepted flags are taken from inv; an accepted invitation stays accepted.
func (s *Store) SaveInvitation(ctx context.Context, inv *invitation.Invitation) error {
	defer s.lockWrite(ctx)()

	r, ok := s.state.invitations[inv.ID]
	if !ok {
		return fmt.Errorf("invitation %s: %w", inv.ID, domain.ErrNotFound)
	}
	r.v.IsRead = inv.IsRead
	r.v.IsAccepted = r.v.IsAccepted || inv.IsAccepted
	r.v.DateSent = s.stamp()
	s.state.invitations[inv.ID] = r

	*inv = r.v
	return nil
}

// ListInvitations implements ports.InvitationRepository.
func (s *Store) ListInvitations(_ context.Context, receiverID string, unreadOnly bool) ([]invitation.Invitation, error) {
	s.mu.RLock()
	rows := make([]row[invitation.Invitation], 0)
	for _, r := range s.state.invitations {
		if r.v.ReceiverID != receiverID || (unreadOnly && r.v.IsRead) {
			continue
		}
		rows = append(rows, r)
	}
	s.mu.RUnlock()

	slices.SortFunc(rows, func(a, b row[invitation.Invitation]) int {
		if c := b.v.DateSent.Compare(a.v.DateSent); c != 0 {
			return c
		}
		return cmp.Compare(b.seq, a.seq)
	})

	out := make([]invitation.Invitation, len(rows))
	for i, r := range rows {
		out[i] = r.v
	}
	return out, nil
}
