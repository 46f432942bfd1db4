package webhook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/serioussystems/brdge-bridge/internal/domain"
	"github.com/serioussystems/brdge-bridge/internal/services/payment"
)

type stubGateway struct{}

func (stubGateway) CreatePayment(context.Context, *domain.PaymentRequest) (*domain.Payment, error) {
	return nil, nil
}
func (stubGateway) RefundPayment(context.Context, string, *domain.RefundRequest) (*domain.Refund, error) {
	return nil, nil
}

type stubStore struct {
	order       *domain.Order
	getErr      error
	completeErr error
	completed   []string
	statuses    []domain.OrderStatus
}

func (s *stubStore) GetOrder(_ context.Context, id domain.OrderID) (*domain.Order, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.order == nil || s.order.ID != id {
		return nil, domain.NewError(domain.ErrorCodeOrderNotFound, "order not found")
	}
	return s.order, nil
}

func (s *stubStore) PaymentComplete(_ context.Context, _ domain.OrderID, paymentID string) error {
	if s.completeErr != nil {
		return s.completeErr
	}
	s.completed = append(s.completed, paymentID)
	return nil
}

func (s *stubStore) UpdateStatus(_ context.Context, _ domain.OrderID, status domain.OrderStatus, _ string) error {
	s.statuses = append(s.statuses, status)
	return nil
}

func (s *stubStore) AddNote(context.Context, domain.OrderID, string) error { return nil }
func (s *stubStore) UpdateMeta(context.Context, domain.OrderID, map[string]string) error {
	return nil
}

func pendingOrder() *domain.Order {
	return &domain.Order{
		ID:       42,
		Number:   "42",
		Key:      "wc_order_abc",
		Status:   domain.OrderPending,
		Total:    decimal.RequireFromString("49.99"),
		Currency: "GBP",
		Metadata: map[string]string{},
	}
}

func newTestHandler(store *stubStore) *Handler {
	svc := payment.NewService(stubGateway{}, store, nil, payment.Options{
		StoreURL:  "https://shop.example.com",
		StoreName: "Example Shop",
	}, zap.NewNop())
	return NewHandler(svc, zap.NewNop())
}

func deliver(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/wc-brdge/v1/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleWebhook(rec, req)
	return rec
}

func TestHandleWebhook_PaymentCompleted(t *testing.T) {
	store := &stubStore{order: pendingOrder()}
	h := newTestHandler(store)

	rec := deliver(t, h, `{
		"type": "payment.completed",
		"data": {
			"id": "pay_evt",
			"status": "COMPLETED",
			"metadata": {"order_id": 42}
		}
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.Equal(t, []string{"pay_evt"}, store.completed)
}

func TestHandleWebhook_StringOrderID(t *testing.T) {
	store := &stubStore{order: pendingOrder()}
	h := newTestHandler(store)

	rec := deliver(t, h, `{
		"type": "payment.completed",
		"data": {"id": "pay_evt", "status": "COMPLETED", "metadata": {"order_id": "42"}}
	}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"pay_evt"}, store.completed)
}

func TestHandleWebhook_PaymentFailed(t *testing.T) {
	store := &stubStore{order: pendingOrder()}
	h := newTestHandler(store)

	rec := deliver(t, h, `{
		"type": "payment.failed",
		"data": {"id": "pay_evt", "status": "FAILED", "metadata": {"order_id": 42}}
	}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []domain.OrderStatus{domain.OrderFailed}, store.statuses)
}

func TestHandleWebhook_UnknownTypeAcknowledged(t *testing.T) {
	store := &stubStore{order: pendingOrder()}
	h := newTestHandler(store)

	rec := deliver(t, h, `{"type": "payment.disputed", "data": {"id": "pay_evt"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.completed)
	assert.Empty(t, store.statuses)
}

func TestHandleWebhook_GarbageBodyAcknowledged(t *testing.T) {
	h := newTestHandler(&stubStore{order: pendingOrder()})

	rec := deliver(t, h, `not json at all`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestHandleWebhook_UnknownOrderAcknowledged(t *testing.T) {
	h := newTestHandler(&stubStore{})

	rec := deliver(t, h, `{
		"type": "payment.completed",
		"data": {"id": "pay_evt", "status": "COMPLETED", "metadata": {"order_id": 999}}
	}`)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleWebhook_StoreFailureReturns500(t *testing.T) {
	store := &stubStore{
		order:       pendingOrder(),
		completeErr: domain.NewError(domain.ErrorCodeStoreError, "store unreachable"),
	}
	h := newTestHandler(store)

	rec := deliver(t, h, `{
		"type": "payment.completed",
		"data": {"id": "pay_evt", "status": "COMPLETED", "metadata": {"order_id": 42}}
	}`)

	// A transient store failure is the one case where a processor retry
	// can succeed.
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleWebhook_StoreReadFailureReturns500(t *testing.T) {
	store := &stubStore{
		order:  pendingOrder(),
		getErr: domain.NewError(domain.ErrorCodeStoreError, "store unreachable"),
	}
	h := newTestHandler(store)

	rec := deliver(t, h, `{
		"type": "payment.completed",
		"data": {"id": "pay_evt", "status": "COMPLETED", "metadata": {"order_id": 42}}
	}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, store.completed)
}
