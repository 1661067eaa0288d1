// Package notify delivers outbound email notifications. Delivery is
// fire-and-forget: callers log failures and never let them reach clients
// or block a booking flow.
package notify

import (
	"context"

	"go.uber.org/zap"
)

// Template identifiers.
const (
	TemplateBookingCreated   = "email:booking_created"
	TemplateBookingConfirmed = "email:booking_confirmed"
	TemplateBookingRejected  = "email:booking_rejected"
	TemplateBookingCancelled = "email:booking_cancelled"
	TemplateReviewReceived   = "email:review_received"
)

// Notifier sends a templated notification to a single recipient.
type Notifier interface {
	Notify(ctx context.Context, template, recipient string, fields map[string]string) error
}

// LogNotifier writes notifications to the log instead of sending them.
// Used in development and tests.
type LogNotifier struct {
	Log *zap.Logger
}

func (n *LogNotifier) Notify(ctx context.Context, template, recipient string, fields map[string]string) error {
	n.Log.Info("notification",
		zap.String("template", template),
		zap.String("recipient", recipient),
		zap.Any("fields", fields))
	return nil
}
