package brdge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/serioussystems/brdge-bridge/internal/domain"
)

func setupClientTest(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(Options{
		BaseURL: server.URL,
		APIKey:  "sk_test_123",
	}, zap.NewNop())

	return client, server
}

func paymentRequest(token string) *domain.PaymentRequest {
	return &domain.PaymentRequest{
		Amount:            domain.Amount{Value: 4999, Currency: "GBP"},
		PaymentInstrument: domain.PaymentInstrument{Type: domain.InstrumentTypeToken, Token: token},
		Reference:         "1001",
		Metadata:          domain.PaymentMetadata{OrderID: 42, OrderKey: "wc_order_abc", WooCommerce: true},
	}
}

func TestCreatePayment_Captured(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payments", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req domain.PaymentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(4999), req.Amount.Value)
		assert.Equal(t, "GBP", req.Amount.Currency)
		assert.Equal(t, domain.InstrumentTypeToken, req.PaymentInstrument.Type)
		assert.Equal(t, "tok_xyz", req.PaymentInstrument.Token)

		json.NewEncoder(w).Encode(domain.Payment{ID: "pay_123", Status: domain.StatusCaptured})
	}

	client, _ := setupClientTest(t, handler)

	payment, err := client.CreatePayment(context.Background(), paymentRequest("tok_xyz"))

	require.NoError(t, err)
	assert.Equal(t, "pay_123", payment.ID)
	assert.Equal(t, domain.StatusCaptured, payment.Status)
}

func TestCreatePayment_RequiresAction(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.Payment{
			ID:     "pay_3ds",
			Status: domain.StatusRequiresAction,
			Action: &domain.PaymentAction{Type: "redirect", URL: "https://3ds.example/x"},
		})
	}

	client, _ := setupClientTest(t, handler)

	payment, err := client.CreatePayment(context.Background(), paymentRequest("tok_xyz"))

	require.NoError(t, err)
	require.NotNil(t, payment.RedirectAction())
	assert.Equal(t, "https://3ds.example/x", payment.RedirectAction().URL)
}

func TestCreatePayment_MissingToken(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not make a request with a missing token")
	}

	client, _ := setupClientTest(t, handler)

	payment, err := client.CreatePayment(context.Background(), paymentRequest(""))

	require.Error(t, err)
	assert.Nil(t, payment)
	assert.True(t, domain.IsCode(err, domain.ErrorCodeValidationMissingToken))
}

func TestCreatePayment_Declined(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(map[string]string{"message": "Card declined"})
	}

	client, _ := setupClientTest(t, handler)

	payment, err := client.CreatePayment(context.Background(), paymentRequest("tok_xyz"))

	require.Error(t, err)
	assert.Nil(t, payment)
	assert.True(t, domain.IsCode(err, domain.ErrorCodeGatewayDeclined))
	assert.Contains(t, err.Error(), "Card declined")
}

func TestCreatePayment_Non200WithoutMessage(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}

	client, _ := setupClientTest(t, handler)

	_, err := client.CreatePayment(context.Background(), paymentRequest("tok_xyz"))

	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrorCodeGatewayDeclined))
	assert.Contains(t, err.Error(), "payment failed")
}

func TestCreatePayment_MalformedBody(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}

	client, _ := setupClientTest(t, handler)

	_, err := client.CreatePayment(context.Background(), paymentRequest("tok_xyz"))

	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrorCodeGatewayError))
}

func TestCreatePayment_NetworkError(t *testing.T) {
	client := NewClient(Options{
		BaseURL: "http://127.0.0.1:1",
		APIKey:  "sk_test_123",
	}, zap.NewNop())

	_, err := client.CreatePayment(context.Background(), paymentRequest("tok_xyz"))

	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrorCodeGatewayError))
}

func TestCreatePayment_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	client := NewClient(Options{
		BaseURL: server.URL,
		APIKey:  "sk_test_123",
		Timeout: 50 * time.Millisecond,
	}, zap.NewNop())

	_, err := client.CreatePayment(context.Background(), paymentRequest("tok_xyz"))

	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrorCodeGatewayTimeout))
}

func TestRefundPayment_Success(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payments/pay_123/refund", r.URL.Path)

		var req domain.RefundRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(4999), req.Amount.Value)
		assert.Equal(t, "Refund via WooCommerce", req.Reason)

		json.NewEncoder(w).Encode(domain.Refund{ID: "ref_9", Status: domain.StatusCompleted})
	}

	client, _ := setupClientTest(t, handler)

	refund, err := client.RefundPayment(context.Background(), "pay_123", &domain.RefundRequest{
		Amount: domain.Amount{Value: 4999, Currency: "GBP"},
		Reason: "Refund via WooCommerce",
	})

	require.NoError(t, err)
	assert.Equal(t, "ref_9", refund.ID)
}

func TestRefundPayment_MissingPaymentID(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not make a request without a payment id")
	}

	client, _ := setupClientTest(t, handler)

	_, err := client.RefundPayment(context.Background(), "", &domain.RefundRequest{})

	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrorCodeRefundMissingPayment))
}

func TestRefundPayment_Failure(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"message": "refund window expired"})
	}

	client, _ := setupClientTest(t, handler)

	_, err := client.RefundPayment(context.Background(), "pay_123", &domain.RefundRequest{
		Amount: domain.Amount{Value: 100, Currency: "GBP"},
	})

	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrorCodeGatewayDeclined))
	assert.Contains(t, err.Error(), "refund window expired")
}
