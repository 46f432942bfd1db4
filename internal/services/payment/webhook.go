package payment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/serioussystems/brdge-bridge/internal/domain"
	"github.com/serioussystems/brdge-bridge/internal/domain/ports"
	"github.com/serioussystems/brdge-bridge/pkg/observability"
)

// HandleEvent reconciles an asynchronous processor event with the order.
// Events the bridge cannot act on are dropped, not errored: the
// processor retries on non-2xx, and retrying an unknown event type or a
// missing order never helps.
func (s *Service) HandleEvent(ctx context.Context, event *domain.Event) error {
	switch event.Type {
	case domain.EventPaymentCompleted, domain.EventPaymentCaptured:
		return s.handlePaymentConfirmed(ctx, event)

	case domain.EventPaymentFailed:
		return s.handlePaymentFailed(ctx, event)

	case domain.EventRefundCompleted:
		return s.handleRefundCompleted(ctx, event)

	default:
		s.logger.Info("ignoring unrecognized webhook event",
			zap.String("event_type", event.RawType),
		)
		observability.RecordWebhookEvent(event.RawType, "dropped")
		return nil
	}
}

// handlePaymentConfirmed marks the order paid when a completion event
// arrives before (or instead of) the synchronous response.
func (s *Service) handlePaymentConfirmed(ctx context.Context, event *domain.Event) error {
	payment := &event.Data

	order, ok, err := s.eventOrder(ctx, event)
	if err != nil {
		observability.RecordWebhookEvent(string(event.Type), "error")
		return err
	}
	if !ok {
		observability.RecordWebhookEvent(string(event.Type), "dropped")
		return nil
	}

	if order.Status.IsPaid() {
		s.logger.Info("webhook completion for already paid order",
			zap.String("order_id", order.ID.String()),
			zap.String("payment_id", payment.ID),
		)
		observability.RecordWebhookEvent(string(event.Type), "suppressed")
		s.recordEvent(ctx, ports.PaymentEventWebhook, order.ID, payment.ID, string(payment.Status), "already paid")
		return nil
	}

	if err := s.store.PaymentComplete(ctx, order.ID, payment.ID); err != nil {
		observability.RecordWebhookEvent(string(event.Type), "error")
		return err
	}
	s.noteBestEffort(ctx, order.ID,
		fmt.Sprintf("BR-DGE payment completed via webhook. Payment ID: %s", payment.ID))

	s.logger.Info("order completed via webhook",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_id", payment.ID),
	)
	observability.RecordWebhookEvent(string(event.Type), "applied")
	s.recordEvent(ctx, ports.PaymentEventWebhook, order.ID, payment.ID, string(payment.Status), string(event.Type))
	return nil
}

// handlePaymentFailed fails the order unless a capture already landed.
// A late failure event must never claw back a paid order; the conflict
// is logged for the merchant to reconcile against the processor
// dashboard.
func (s *Service) handlePaymentFailed(ctx context.Context, event *domain.Event) error {
	payment := &event.Data

	order, ok, err := s.eventOrder(ctx, event)
	if err != nil {
		observability.RecordWebhookEvent(string(event.Type), "error")
		return err
	}
	if !ok {
		observability.RecordWebhookEvent(string(event.Type), "dropped")
		return nil
	}

	if order.Status.IsPaid() {
		s.logger.Warn("failure event for already paid order, suppressing",
			zap.String("order_id", order.ID.String()),
			zap.String("payment_id", payment.ID),
			zap.String("order_status", string(order.Status)),
		)
		observability.RecordWebhookEvent(string(event.Type), "suppressed")
		s.recordEvent(ctx, ports.PaymentEventWebhook, order.ID, payment.ID, string(payment.Status), "failure suppressed: order already paid")
		return nil
	}

	if err := s.store.UpdateStatus(ctx, order.ID, domain.OrderFailed,
		fmt.Sprintf("BR-DGE payment failed via webhook. Payment ID: %s", payment.ID)); err != nil {
		observability.RecordWebhookEvent(string(event.Type), "error")
		return err
	}

	s.logger.Info("order failed via webhook",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_id", payment.ID),
	)
	observability.RecordWebhookEvent(string(event.Type), "applied")
	s.recordEvent(ctx, ports.PaymentEventWebhook, order.ID, payment.ID, string(payment.Status), string(event.Type))
	return nil
}

// handleRefundCompleted records the refund in the audit trail without
// touching order state. Refunds initiated here already noted the order,
// and processor-side refunds are the merchant's to reconcile.
func (s *Service) handleRefundCompleted(ctx context.Context, event *domain.Event) error {
	payment := &event.Data

	s.logger.Info("refund completed at processor",
		zap.String("order_id", payment.Metadata.OrderID.String()),
		zap.String("payment_id", payment.ID),
	)
	observability.RecordWebhookEvent(string(event.Type), "applied")
	s.recordEvent(ctx, ports.PaymentEventWebhook, payment.Metadata.OrderID, payment.ID, string(payment.Status), string(event.Type))
	return nil
}

// eventOrder resolves the order an event refers to. Events without
// order metadata or referring to unknown orders report false, since
// redelivery can never make those actionable. Any other lookup failure
// is returned as an error so the delivery fails and the processor
// redelivers once the store is reachable again.
func (s *Service) eventOrder(ctx context.Context, event *domain.Event) (*domain.Order, bool, error) {
	orderID := event.Data.Metadata.OrderID
	if orderID == 0 {
		s.logger.Debug("webhook event without order metadata",
			zap.String("event_type", event.RawType),
			zap.String("payment_id", event.Data.ID),
		)
		return nil, false, nil
	}

	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		if domain.IsCode(err, domain.ErrorCodeOrderNotFound) {
			s.logger.Warn("webhook event for unknown order",
				zap.String("order_id", orderID.String()),
				zap.String("event_type", event.RawType),
			)
			return nil, false, nil
		}
		s.logger.Error("failed to load order for webhook event",
			zap.String("order_id", orderID.String()),
			zap.Error(err),
		)
		return nil, false, err
	}
	return order, true, nil
}
