package brdge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/serioussystems/brdge-bridge/internal/domain"
	"github.com/serioussystems/brdge-bridge/internal/domain/ports"
)

// DefaultTimeout is the outbound request timeout. Processor calls are
// not retried; a timeout surfaces immediately to the caller.
const DefaultTimeout = 60 * time.Second

// Client implements ports.PaymentGateway against the BR-DGE REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient ports.HTTPClient
	logger     *zap.Logger
	verbose    bool // log request/response bodies (test mode only)
}

// Options configures a Client.
type Options struct {
	BaseURL string
	APIKey  string // server API key, sent as a bearer token
	Timeout time.Duration
	Verbose bool
}

// NewClient creates a BR-DGE API client with a default HTTP client.
func NewClient(opts Options, logger *zap.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		verbose:    opts.Verbose,
	}
}

// NewClientWithHTTP creates a BR-DGE API client with an injected HTTP
// client, for tests and custom transports.
func NewClientWithHTTP(opts Options, httpClient ports.HTTPClient, logger *zap.Logger) *Client {
	c := NewClient(opts, logger)
	c.httpClient = httpClient
	return c
}

// CreatePayment implements ports.PaymentGateway.CreatePayment
func (c *Client) CreatePayment(ctx context.Context, req *domain.PaymentRequest) (*domain.Payment, error) {
	if req.PaymentInstrument.Token == "" {
		return nil, domain.NewError(domain.ErrorCodeValidationMissingToken, "payment token is required")
	}

	var payment domain.Payment
	if err := c.makeRequest(ctx, http.MethodPost, "/payments", req, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// RefundPayment implements ports.PaymentGateway.RefundPayment
func (c *Client) RefundPayment(ctx context.Context, paymentID string, req *domain.RefundRequest) (*domain.Refund, error) {
	if paymentID == "" {
		return nil, domain.NewError(domain.ErrorCodeRefundMissingPayment, "payment id is required")
	}

	endpoint := fmt.Sprintf("/payments/%s/refund", paymentID)

	var refund domain.Refund
	if err := c.makeRequest(ctx, http.MethodPost, endpoint, req, &refund); err != nil {
		return nil, err
	}
	return &refund, nil
}

// errorBody is the processor's error response shape. Only message is
// documented; anything else is ignored.
type errorBody struct {
	Message string `json:"message"`
}

// makeRequest makes an HTTP request to the BR-DGE API with bearer
// authorization and classifies every failure mode as a DomainError.
func (c *Client) makeRequest(ctx context.Context, method, endpoint string, request interface{}, response interface{}) error {
	payloadBytes, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + endpoint
	httpReq, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payloadBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	if c.verbose {
		c.logger.Debug("making BR-DGE request",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.ByteString("body", payloadBytes),
		)
	} else {
		c.logger.Info("making BR-DGE request",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
		)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("BR-DGE request failed",
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
		// http.Client{Timeout} expires without cancelling the request
		// context, so the transport error has to be inspected too.
		if ctx.Err() != nil || os.IsTimeout(err) {
			return domain.WrapError(domain.ErrorCodeGatewayTimeout, "payment gateway timed out", err)
		}
		return domain.WrapError(domain.ErrorCodeGatewayError, "failed to connect to payment gateway", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return domain.WrapError(domain.ErrorCodeGatewayError, "failed to read gateway response", err)
	}

	if c.verbose {
		c.logger.Debug("BR-DGE response",
			zap.Int("status", httpResp.StatusCode),
			zap.ByteString("body", body),
		)
	}

	if httpResp.StatusCode != http.StatusOK {
		var eb errorBody
		json.Unmarshal(body, &eb) // best effort
		message := eb.Message
		if message == "" {
			message = "payment failed"
		}
		c.logger.Warn("BR-DGE returned non-200",
			zap.String("endpoint", endpoint),
			zap.Int("status", httpResp.StatusCode),
			zap.String("message", message),
		)
		return domain.NewError(domain.ErrorCodeGatewayDeclined, message)
	}

	if err := json.Unmarshal(body, response); err != nil {
		return domain.WrapError(domain.ErrorCodeGatewayError, "malformed gateway response", err)
	}

	return nil
}
