package ports

import (
	"context"

	"github.com/serioussystems/brdge-bridge/internal/domain"
)

// PaymentGateway is the outbound port to the BR-DGE payment API.
// Implementations classify transport errors, non-200 responses and
// malformed bodies as domain.DomainError values so the service layer can
// map them to buyer-generic notices.
type PaymentGateway interface {
	// CreatePayment submits a tokenized payment. A nil error means the
	// processor returned 200 with a parseable body; the payment status
	// still needs interpretation.
	CreatePayment(ctx context.Context, req *domain.PaymentRequest) (*domain.Payment, error)

	// RefundPayment refunds a previously created payment, fully or
	// partially. No retry logic; a failure surfaces immediately.
	RefundPayment(ctx context.Context, paymentID string, req *domain.RefundRequest) (*domain.Refund, error)
}
