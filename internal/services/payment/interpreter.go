package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/serioussystems/brdge-bridge/internal/domain"
)

// applyStatus translates the processor's synchronous answer into order
// mutations and a destination for the buyer.
//
//	COMPLETED, CAPTURED   -> mark paid, note, order-received page
//	PENDING, AUTHORIZED   -> on-hold, note, order-received page
//	REQUIRES_ACTION       -> persist action, send buyer to processor URL
//	anything else         -> no mutation, error
func (s *Service) applyStatus(ctx context.Context, order *domain.Order, payment *domain.Payment) (*CheckoutResult, error) {
	switch payment.Status {
	case domain.StatusCompleted, domain.StatusCaptured:
		return s.applyPaid(ctx, order, payment)

	case domain.StatusPending, domain.StatusAuthorized:
		return s.applyPending(ctx, order, payment)

	case domain.StatusRequiresAction:
		return s.applyAction(ctx, order, payment)

	default:
		s.logger.Error("unrecognized payment status",
			zap.String("order_id", order.ID.String()),
			zap.String("payment_id", payment.ID),
			zap.String("status", string(payment.Status)),
		)
		return nil, domain.NewError(domain.ErrorCodeStatusUnknown,
			fmt.Sprintf("unrecognized payment status %q", payment.Status))
	}
}

func (s *Service) applyPaid(ctx context.Context, order *domain.Order, payment *domain.Payment) (*CheckoutResult, error) {
	if err := s.store.UpdateMeta(ctx, order.ID, map[string]string{
		domain.MetaPaymentID: payment.ID,
	}); err != nil {
		return nil, err
	}

	// A webhook can land before the synchronous response returns. The
	// store treats set_paid as idempotent, but skipping avoids a
	// duplicate paid transition and note.
	if order.Status.IsPaid() {
		s.logger.Info("order already paid, skipping completion",
			zap.String("order_id", order.ID.String()),
			zap.String("payment_id", payment.ID),
		)
		return &CheckoutResult{Result: "success", Redirect: s.orderReceivedURL(order)}, nil
	}

	if err := s.store.PaymentComplete(ctx, order.ID, payment.ID); err != nil {
		return nil, err
	}
	s.noteBestEffort(ctx, order.ID,
		fmt.Sprintf("BR-DGE payment completed. Payment ID: %s", payment.ID))

	s.logger.Info("payment completed",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_id", payment.ID),
		zap.String("status", string(payment.Status)),
	)

	return &CheckoutResult{Result: "success", Redirect: s.orderReceivedURL(order)}, nil
}

func (s *Service) applyPending(ctx context.Context, order *domain.Order, payment *domain.Payment) (*CheckoutResult, error) {
	if err := s.store.UpdateMeta(ctx, order.ID, map[string]string{
		domain.MetaPaymentID: payment.ID,
	}); err != nil {
		return nil, err
	}

	if err := s.store.UpdateStatus(ctx, order.ID, domain.OrderOnHold,
		fmt.Sprintf("BR-DGE payment pending. Payment ID: %s", payment.ID)); err != nil {
		return nil, err
	}

	s.logger.Info("payment pending confirmation",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_id", payment.ID),
		zap.String("status", string(payment.Status)),
	)

	return &CheckoutResult{Result: "success", Redirect: s.orderReceivedURL(order)}, nil
}

func (s *Service) applyAction(ctx context.Context, order *domain.Order, payment *domain.Payment) (*CheckoutResult, error) {
	action := payment.RedirectAction()
	if action == nil {
		s.logger.Error("payment requires unsupported action",
			zap.String("order_id", order.ID.String()),
			zap.String("payment_id", payment.ID),
		)
		return nil, domain.NewError(domain.ErrorCodeStatusUnknown,
			"payment requires an action this service cannot complete")
	}

	// The action is persisted so the pending payment can be reconciled
	// if the buyer abandons the redirect.
	actionJSON, err := json.Marshal(action)
	if err != nil {
		return nil, fmt.Errorf("marshaling payment action: %w", err)
	}

	if err := s.store.UpdateMeta(ctx, order.ID, map[string]string{
		domain.MetaPaymentID:     payment.ID,
		domain.MetaPaymentAction: string(actionJSON),
	}); err != nil {
		return nil, err
	}

	s.logger.Info("payment requires buyer action",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_id", payment.ID),
	)

	return &CheckoutResult{Result: "success", Redirect: action.URL}, nil
}
