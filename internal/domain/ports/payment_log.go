package ports

import (
	"context"
	"time"

	"github.com/serioussystems/brdge-bridge/internal/domain"
)

// PaymentEventKind classifies audit log entries.
type PaymentEventKind string

const (
	PaymentEventCheckout PaymentEventKind = "checkout"
	PaymentEventRefund   PaymentEventKind = "refund"
	PaymentEventWebhook  PaymentEventKind = "webhook"
)

// PaymentEvent is one row in the payment_events audit log.
type PaymentEvent struct {
	ID        string
	Kind      PaymentEventKind
	OrderID   domain.OrderID
	PaymentID string
	Status    string
	Detail    string
	CreatedAt time.Time
}

// PaymentLog records processor interactions for audit. Implementations
// must be safe to skip: a nil PaymentLog disables auditing without
// affecting checkout.
type PaymentLog interface {
	Record(ctx context.Context, event *PaymentEvent) error
}
