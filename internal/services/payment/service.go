package payment

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/serioussystems/brdge-bridge/internal/domain"
	"github.com/serioussystems/brdge-bridge/internal/domain/ports"
	"github.com/serioussystems/brdge-bridge/pkg/observability"
)

// DefaultRefundReason is sent to the processor when the merchant gives
// no reason.
const DefaultRefundReason = "Refund via WooCommerce"

// Options configures store-facing details of the service.
type Options struct {
	// StoreURL is the public base URL of the WooCommerce store, used to
	// build the order-received return URL.
	StoreURL string

	// StoreName appears in the payment description shown on processor
	// dashboards and statements.
	StoreName string
}

// Service orchestrates the payment lifecycle between the store and the
// BR-DGE processor: checkout submission, status interpretation, refunds
// and webhook reconciliation.
type Service struct {
	gateway ports.PaymentGateway
	store   ports.OrderStore
	audit   ports.PaymentLog
	logger  *zap.Logger
	opts    Options
}

// NewService creates a payment service. audit may be nil to disable the
// audit trail.
func NewService(
	gateway ports.PaymentGateway,
	store ports.OrderStore,
	audit ports.PaymentLog,
	opts Options,
	logger *zap.Logger,
) *Service {
	return &Service{
		gateway: gateway,
		store:   store,
		audit:   audit,
		logger:  logger,
		opts:    opts,
	}
}

// CheckoutRequest is a buyer's payment submission for an order.
type CheckoutRequest struct {
	OrderID domain.OrderID
	// OrderKey, when present, must match the order's key. It proves the
	// caller saw the order confirmation and is not probing order ids.
	OrderKey string
	// Token is the single-use payment token from the client-side SDK.
	Token string
}

// CheckoutResult tells the caller where to send the buyer next.
type CheckoutResult struct {
	Result   string `json:"result"`
	Redirect string `json:"redirect"`
}

// ProcessCheckout submits a tokenized payment for the order and applies
// the processor's answer to the order. Exactly one gateway call is made;
// the buyer either lands on the order-received page or is sent to a
// processor-hosted step (3-D Secure).
func (s *Service) ProcessCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if strings.TrimSpace(req.Token) == "" {
		return nil, domain.NewError(domain.ErrorCodeValidationMissingToken, "payment token is required")
	}

	order, err := s.store.GetOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	if req.OrderKey != "" && req.OrderKey != order.Key {
		s.logger.Warn("order key mismatch on checkout",
			zap.String("order_id", order.ID.String()),
		)
		return nil, domain.NewError(domain.ErrorCodeOrderKeyMismatch, "order key does not match")
	}

	paymentReq := s.buildPaymentRequest(order, req.Token)

	start := time.Now()
	payment, err := s.gateway.CreatePayment(ctx, paymentReq)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		observability.RecordGatewayRequest("payment", gatewayResultLabel(err), elapsed)
		observability.RecordCheckoutPayment("error", order.Currency, paymentReq.Amount.Value)
		s.recordEvent(ctx, ports.PaymentEventCheckout, order.ID, "", "error", err.Error())

		// The note carries processor detail for the merchant; the buyer
		// only ever sees the generic notice from the handler.
		s.noteBestEffort(ctx, order.ID, fmt.Sprintf("BR-DGE payment failed: %s", err.Error()))

		return nil, err
	}

	observability.RecordGatewayRequest("payment", "success", elapsed)

	result, err := s.applyStatus(ctx, order, payment)
	if err != nil {
		observability.RecordCheckoutPayment("error", order.Currency, paymentReq.Amount.Value)
		s.recordEvent(ctx, ports.PaymentEventCheckout, order.ID, payment.ID, string(payment.Status), err.Error())
		return nil, err
	}

	observability.RecordCheckoutPayment(strings.ToLower(string(payment.Status)), order.Currency, paymentReq.Amount.Value)
	s.recordEvent(ctx, ports.PaymentEventCheckout, order.ID, payment.ID, string(payment.Status), "")

	return result, nil
}

// RefundCommand requests a full or partial refund for an order.
type RefundCommand struct {
	OrderID domain.OrderID
	// Amount is the refund amount in the order currency. Nil means a
	// full refund of the order total.
	Amount *decimal.Decimal
	Reason string
}

// RefundResult reports a processor-accepted refund.
type RefundResult struct {
	RefundID string `json:"refund_id"`
	Status   string `json:"status"`
}

// Refund refunds a payment through the processor and notes the result on
// the order. The order must carry a stored payment id; without one no
// network call is made.
func (s *Service) Refund(ctx context.Context, cmd RefundCommand) (*RefundResult, error) {
	order, err := s.store.GetOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	paymentID := order.PaymentID()
	if paymentID == "" {
		observability.RecordRefund("missing_payment")
		return nil, domain.NewError(domain.ErrorCodeRefundMissingPayment,
			"order has no recorded payment to refund")
	}

	amount := order.Total
	if cmd.Amount != nil {
		amount = *cmd.Amount
	}

	reason := cmd.Reason
	if reason == "" {
		reason = DefaultRefundReason
	}

	refundReq := &domain.RefundRequest{
		Amount: domain.Amount{
			Value:    domain.MinorUnits(amount),
			Currency: order.Currency,
		},
		Reason: reason,
	}

	start := time.Now()
	refund, err := s.gateway.RefundPayment(ctx, paymentID, refundReq)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		observability.RecordGatewayRequest("refund", gatewayResultLabel(err), elapsed)
		observability.RecordRefund("failed")
		s.recordEvent(ctx, ports.PaymentEventRefund, order.ID, paymentID, "error", err.Error())
		return nil, err
	}

	observability.RecordGatewayRequest("refund", "success", elapsed)
	observability.RecordRefund("success")
	s.recordEvent(ctx, ports.PaymentEventRefund, order.ID, paymentID, string(refund.Status), refund.ID)

	s.noteBestEffort(ctx, order.ID,
		fmt.Sprintf("BR-DGE refund completed. Refund ID: %s", refund.ID))

	s.logger.Info("refund accepted",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_id", paymentID),
		zap.String("refund_id", refund.ID),
		zap.String("amount", amount.StringFixed(2)),
	)

	return &RefundResult{
		RefundID: refund.ID,
		Status:   string(refund.Status),
	}, nil
}

// buildPaymentRequest assembles the processor payload from the order
// snapshot.
func (s *Service) buildPaymentRequest(order *domain.Order, token string) *domain.PaymentRequest {
	return &domain.PaymentRequest{
		Amount: order.Amount(),
		PaymentInstrument: domain.PaymentInstrument{
			Type:  domain.InstrumentTypeToken,
			Token: token,
		},
		Reference:       order.Number,
		Description:     fmt.Sprintf("Order %s from %s", order.Number, s.opts.StoreName),
		BillingAddress:  order.BillingAddress(),
		ShippingAddress: order.ShippingAddress(),
		Customer:        order.CustomerInfo(),
		Metadata: domain.PaymentMetadata{
			OrderID:     order.ID,
			OrderKey:    order.Key,
			WooCommerce: true,
		},
	}
}

// orderReceivedURL builds the store's thank-you page URL for an order.
func (s *Service) orderReceivedURL(order *domain.Order) string {
	return fmt.Sprintf("%s/checkout/order-received/%s/?key=%s",
		strings.TrimSuffix(s.opts.StoreURL, "/"),
		order.ID.String(),
		url.QueryEscape(order.Key),
	)
}

// noteBestEffort attaches an order note, logging instead of failing when
// the store rejects it.
func (s *Service) noteBestEffort(ctx context.Context, id domain.OrderID, note string) {
	if err := s.store.AddNote(ctx, id, note); err != nil {
		s.logger.Warn("failed to add order note",
			zap.String("order_id", id.String()),
			zap.Error(err),
		)
	}
}

// recordEvent appends to the audit trail when auditing is enabled.
// Audit failures never fail the payment flow.
func (s *Service) recordEvent(ctx context.Context, kind ports.PaymentEventKind, orderID domain.OrderID, paymentID, status, detail string) {
	if s.audit == nil {
		return
	}
	event := &ports.PaymentEvent{
		Kind:      kind,
		OrderID:   orderID,
		PaymentID: paymentID,
		Status:    status,
		Detail:    detail,
	}
	if err := s.audit.Record(ctx, event); err != nil {
		s.logger.Warn("failed to record payment event",
			zap.String("order_id", orderID.String()),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}
}

// gatewayResultLabel maps a gateway error to a metrics label.
func gatewayResultLabel(err error) string {
	switch domain.CodeOf(err) {
	case domain.ErrorCodeGatewayDeclined:
		return "declined"
	case domain.ErrorCodeGatewayTimeout:
		return "timeout"
	default:
		return "error"
	}
}
