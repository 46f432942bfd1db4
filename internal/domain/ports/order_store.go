package ports

import (
	"context"

	"github.com/serioussystems/brdge-bridge/internal/domain"
)

// OrderStore is the outbound port to the WooCommerce store. The store
// owns order state; the bridge only reads orders and applies the narrow
// set of mutations the payment lifecycle needs.
type OrderStore interface {
	// GetOrder fetches an order snapshot. A missing order returns a
	// DomainError with ErrorCodeOrderNotFound.
	GetOrder(ctx context.Context, id domain.OrderID) (*domain.Order, error)

	// PaymentComplete marks the order paid with the processor payment id
	// as the transaction reference. The store treats this as idempotent;
	// callers still guard on Order.Status.IsPaid before invoking it.
	PaymentComplete(ctx context.Context, id domain.OrderID, paymentID string) error

	// UpdateStatus transitions the order and attaches a note explaining
	// the transition.
	UpdateStatus(ctx context.Context, id domain.OrderID, status domain.OrderStatus, note string) error

	// AddNote appends an audit note without changing status.
	AddNote(ctx context.Context, id domain.OrderID, note string) error

	// UpdateMeta sets order metadata keys. Existing keys are overwritten,
	// others are untouched.
	UpdateMeta(ctx context.Context, id domain.OrderID, meta map[string]string) error
}
