package app

import (
	"context"
	"fmt"
	"log/slog"

	appctx "github.com/yigitunlu/heroject/internal/app/context"
	"github.com/yigitunlu/heroject/internal/domain"
	"github.com/yigitunlu/heroject/internal/domain/invitation"
	"github.com/yigitunlu/heroject/internal/domain/workspace"
	"github.com/yigitunlu/heroject/internal/platform/logging"
	"github.com/yigitunlu/heroject/internal/platform/telemetry"
	"github.com/yigitunlu/heroject/internal/ports"
)

// Compile-time check that InvitationService implements ports.InvitationService.
var _ ports.InvitationService = (*InvitationService)(nil)

// InvitationService implements ports.InvitationService.
type InvitationService struct {
	invitations ports.InvitationRepository
	members     ports.MembershipWriter
	tx          ports.TxManager
	resolver    ports.EntityResolver
	metrics     *telemetry.Metrics
	logger      *slog.Logger
}

// NewInvitationService creates an InvitationService.
func NewInvitationService(
	invitations ports.InvitationRepository,
	members ports.MembershipWriter,
	tx ports.TxManager,
	resolver ports.EntityResolver,
	metrics *telemetry.Metrics,
	logger *slog.Logger,
) *InvitationService {
	return &InvitationService{
		invitations: invitations,
		members:     members,
		tx:          tx,
		resolver:    resolver,
		metrics:     metrics,
		logger:      loggerOrDiscard(logger),
	}
}

// Invite stores a pending invitation from sender to join target. receiver
// may be nil for someone who has no profile yet.
func (s *InvitationService) Invite(
	ctx context.Context,
	sender *workspace.Profile,
	target domain.Entity,
	receiver *workspace.Profile,
) (*invitation.Invitation, error) {
	if sender == nil {
		return nil, requiredError("sender")
	}

	inv := &invitation.Invitation{
		SenderID: sender.ID,
		Target:   domain.RefOf(target),
	}
	if receiver != nil {
		inv.ReceiverID = receiver.ID
	}

	if err := s.invitations.CreateInvitation(ctx, inv); err != nil {
		logFailure(ctx, s.logger, "Invite", err,
			slog.String("sender_id", sender.ID),
			logging.Ref("target", inv.Target),
		)
		return nil, err
	}

	s.logger.InfoContext(ctx, "invitation sent",
		slog.String("invitation_id", inv.ID),
		logging.Ref("target", inv.Target),
		slog.String("receiver_id", inv.ReceiverID),
	)
	return inv, nil
}

// Active returns the receiver's unread invitations, newest first.
func (s *InvitationService) Active(ctx context.Context, receiverID string) ([]invitation.Invitation, error) {
	list, err := s.invitations.ListInvitations(ctx, receiverID, true)
	if err != nil {
		logFailure(ctx, s.logger, "Active", err, slog.String("receiver_id", receiverID))
		return nil, err
	}
	return list, nil
}

// Message renders the invitation sentence.
func (s *InvitationService) Message(ctx context.Context, inv *invitation.Invitation) (string, error) {
	rc := appctx.New(ctx)

	sender, err := displayName(rc, s.resolver, profileRef(inv.SenderID), UnknownUser)
	if err != nil {
		return "", fmt.Errorf("resolving sender of invitation %s: %w", inv.ID, err)
	}
	target, err := displayName(rc, s.resolver, inv.Target, DeletedEntity)
	if err != nil {
		return "", fmt.Errorf("resolving target of invitation %s: %w", inv.ID, err)
	}
	return invitation.ComposeMessage(sender, target), nil
}

// MarkRead sets IsRead on the invitation.
func (s *InvitationService) MarkRead(ctx context.Context, id string) (*invitation.Invitation, error) {
	inv, err := s.invitations.GetInvitation(ctx, id)
	if err != nil {
		logFailure(ctx, s.logger, "MarkRead", err, slog.String("invitation_id", id))
		return nil, err
	}
	inv.IsRead = true
	if err := s.invitations.SaveInvitation(ctx, inv); err != nil {
		logFailure(ctx, s.logger, "MarkRead", err, slog.String("invitation_id", id))
		return nil, err
	}
	return inv, nil
}

// AddUser accepts the invitation in one transaction: the receiver joins the
// target and the invitation is marked accepted. A target without membership
// is left as it is and the invitation stays pending; this is logged and
// counted rather than returned as an error.
func (s *InvitationService) AddUser(ctx context.Context, id string) (*invitation.Invitation, error) {
	var (
		inv    *invitation.Invitation
		joined bool
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if inv, err = s.invitations.GetInvitation(ctx, id); err != nil {
			return err
		}
		if inv.ReceiverID == "" {
			return fmt.Errorf("accepting invitation %s: %w", id, requiredError("receiver"))
		}

		entity, err := s.resolver.Resolve(ctx, inv.Target)
		if err != nil {
			return fmt.Errorf("resolving invitation target: %w", err)
		}

		m, ok := entity.(workspace.Membership)
		if !ok {
			s.logger.WarnContext(ctx, "invitation target has no membership, nothing to join",
				slog.String("invitation_id", id),
				logging.Ref("target", inv.Target),
			)
			s.metrics.UnrecognizedInvitationTarget(ctx, string(inv.Target.Kind))
			return nil
		}

		m.AddPerson(inv.ReceiverID)
		if err := s.members.SaveMembers(ctx, m); err != nil {
			return fmt.Errorf("saving members of %s: %w", inv.Target, err)
		}
		joined = inv.Accept()
		return s.invitations.SaveInvitation(ctx, inv)
	})
	if err != nil {
		logFailure(ctx, s.logger, "AddUser", err, slog.String("invitation_id", id))
		return nil, err
	}

	if joined {
		s.metrics.InvitationAccepted(ctx, string(inv.Target.Kind))
		s.logger.InfoContext(ctx, "invitation accepted",
			slog.String("invitation_id", id),
			logging.Ref("target", inv.Target),
			slog.String("receiver_id", inv.ReceiverID),
		)
	}
	return inv, nil
}
