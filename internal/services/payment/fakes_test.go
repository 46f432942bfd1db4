package payment

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/serioussystems/brdge-bridge/internal/domain"
	"github.com/serioussystems/brdge-bridge/internal/domain/ports"
)

type fakeGateway struct {
	createFn func(ctx context.Context, req *domain.PaymentRequest) (*domain.Payment, error)
	refundFn func(ctx context.Context, paymentID string, req *domain.RefundRequest) (*domain.Refund, error)

	createReq       *domain.PaymentRequest
	refundReq       *domain.RefundRequest
	refundPaymentID string
}

func (g *fakeGateway) CreatePayment(ctx context.Context, req *domain.PaymentRequest) (*domain.Payment, error) {
	g.createReq = req
	if g.createFn == nil {
		return &domain.Payment{ID: "pay_123", Status: domain.StatusCaptured}, nil
	}
	return g.createFn(ctx, req)
}

func (g *fakeGateway) RefundPayment(ctx context.Context, paymentID string, req *domain.RefundRequest) (*domain.Refund, error) {
	g.refundPaymentID = paymentID
	g.refundReq = req
	if g.refundFn == nil {
		return &domain.Refund{ID: "ref_123", Status: domain.StatusCompleted}, nil
	}
	return g.refundFn(ctx, paymentID, req)
}

type statusCall struct {
	status domain.OrderStatus
	note   string
}

type fakeStore struct {
	order  *domain.Order
	getErr error

	completeErr error
	statusErr   error
	metaErr     error
	noteErr     error

	completed []string // payment ids passed to PaymentComplete
	statuses  []statusCall
	notes     []string
	metas     []map[string]string
}

func (s *fakeStore) GetOrder(_ context.Context, id domain.OrderID) (*domain.Order, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.order == nil || s.order.ID != id {
		return nil, domain.NewError(domain.ErrorCodeOrderNotFound, "order not found")
	}
	return s.order, nil
}

func (s *fakeStore) PaymentComplete(_ context.Context, _ domain.OrderID, paymentID string) error {
	if s.completeErr != nil {
		return s.completeErr
	}
	s.completed = append(s.completed, paymentID)
	return nil
}

func (s *fakeStore) UpdateStatus(_ context.Context, _ domain.OrderID, status domain.OrderStatus, note string) error {
	if s.statusErr != nil {
		return s.statusErr
	}
	s.statuses = append(s.statuses, statusCall{status: status, note: note})
	return nil
}

func (s *fakeStore) AddNote(_ context.Context, _ domain.OrderID, note string) error {
	if s.noteErr != nil {
		return s.noteErr
	}
	s.notes = append(s.notes, note)
	return nil
}

func (s *fakeStore) UpdateMeta(_ context.Context, _ domain.OrderID, meta map[string]string) error {
	if s.metaErr != nil {
		return s.metaErr
	}
	s.metas = append(s.metas, meta)
	return nil
}

type fakeAudit struct {
	events []*ports.PaymentEvent
	err    error
}

func (a *fakeAudit) Record(_ context.Context, event *ports.PaymentEvent) error {
	if a.err != nil {
		return a.err
	}
	a.events = append(a.events, event)
	return nil
}

func testOrder() *domain.Order {
	return &domain.Order{
		ID:       42,
		Number:   "42",
		Key:      "wc_order_abc",
		Status:   domain.OrderPending,
		Total:    decimal.RequireFromString("49.99"),
		Currency: "GBP",
		Billing: domain.OrderAddress{
			FirstName: "Jane",
			LastName:  "Doe",
			Line1:     "1 High St",
			City:      "London",
			PostCode:  "N1 1AA",
			Country:   "GB",
			Email:     "jane@example.com",
		},
		Metadata: map[string]string{},
	}
}
