// Package notify is the delivery boundary for invitation notifications.
// Actual delivery (email, SMS) is an external collaborator; the interface
// keeps the seam explicit so a real sender can be swapped in without
// touching the handler layer.
package notify

import (
	"context"
	"log/slog"

	"github.com/apnakhata/apnakhata/internal/models"
)

// Notifier dispatches a notification for a newly created invitation.
type Notifier interface {
	InvitationCreated(ctx context.Context, inv *models.Invitation) error
}

// LogNotifier records invitations to the structured log instead of
// delivering them.
type LogNotifier struct{}

// NewLogNotifier creates a log-only notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// InvitationCreated logs the invitation.
func (n *LogNotifier) InvitationCreated(_ context.Context, inv *models.Invitation) error {
	slog.Info("Invitation created",
		"invitation_id", inv.ID,
		"book_id", inv.BookID,
		"email", inv.Email,
		"inviter_id", inv.InviterID,
	)
	return nil
}
