package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hrkey/referencehub/internal/model"
	"hrkey/referencehub/internal/repository"
)

// Notifier dispatches outbound emails for lifecycle events. Dispatch is
// fire-and-forget: every method returns immediately, delivery runs in a
// goroutine bounded by a timeout, and failures are logged, never surfaced
// to the caller. A slow or failing mail provider must not stall or fail a
// reference submission.
type Notifier interface {
	InvitationCreated(inv *model.Invitation, shareLink string)
	ReferenceCompleted(inv *model.Invitation, ref *model.Reference)
}

type mailNotifier struct {
	sender        MailSender
	requesterRepo repository.RequesterRepository
	logger        *zap.Logger
	timeout       time.Duration
}

func NewMailNotifier(sender MailSender, requesterRepo repository.RequesterRepository, logger *zap.Logger, timeout time.Duration) Notifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &mailNotifier{
		sender:        sender,
		requesterRepo: requesterRepo,
		logger:        logger,
		timeout:       timeout,
	}
}

func (n *mailNotifier) InvitationCreated(inv *model.Invitation, shareLink string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		subject := "You have been asked to provide a professional reference"
		body := fmt.Sprintf(
			"Hello %s,\n\n"+
				"You have been asked to provide a professional reference.\n"+
				"Please open the link below to fill it in. The link is valid until %s.\n\n%s\n",
			inv.RefereeName,
			inv.ExpiresAt.Format("2 January 2006"),
			shareLink,
		)
		if err := n.sender.Send(ctx, inv.RefereeEmail, subject, body); err != nil {
			n.logger.Warn("invitation email dispatch failed",
				zap.String("invitation_id", inv.ID.String()),
				zap.Error(err),
			)
		}
	}()
}

func (n *mailNotifier) ReferenceCompleted(inv *model.Invitation, ref *model.Reference) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		requester, err := n.requesterRepo.GetByID(ctx, inv.RequesterID)
		if err != nil {
			n.logger.Warn("completion notification skipped, requester lookup failed",
				zap.String("invitation_id", inv.ID.String()),
				zap.Error(err),
			)
			return
		}

		subject := fmt.Sprintf("%s has completed your reference request", ref.RefereeName)
		body := fmt.Sprintf(
			"Hello %s,\n\n"+
				"%s has submitted the reference you requested.\n"+
				"Overall rating: %.1f\n",
			requester.Name,
			ref.RefereeName,
			ref.OverallRating,
		)
		if err := n.sender.Send(ctx, requester.Email, subject, body); err != nil {
			n.logger.Warn("completion email dispatch failed",
				zap.String("invitation_id", inv.ID.String()),
				zap.Error(err),
			)
		}
	}()
}
