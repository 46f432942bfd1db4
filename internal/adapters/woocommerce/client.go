package woocommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/serioussystems/brdge-bridge/internal/domain"
	"github.com/serioussystems/brdge-bridge/internal/domain/ports"
)

// restAPIPath is the base path for WooCommerce REST API v3 endpoints.
const restAPIPath = "/wp-json/wc/v3"

// userAgent identifies this client to the store. WooCommerce hosts
// commonly rate-limit requests without one.
const userAgent = "brdge-bridge/1.0"

// Config holds WooCommerce REST API credentials.
type Config struct {
	StoreURL  string
	APIKey    string // consumer key
	APISecret string // consumer secret
	Timeout   time.Duration
}

// Client implements ports.OrderStore over the WooCommerce REST API v3
// with Basic authentication. This is the server-to-server analogue of
// the in-process order calls a WordPress plugin would make.
type Client struct {
	httpClient ports.HTTPClient
	storeURL   string
	apiKey     string
	apiSecret  string
	logger     *zap.Logger
}

// New creates a WooCommerce client with the given configuration.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.StoreURL == "" {
		return nil, fmt.Errorf("store URL is required")
	}
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("API credentials are required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		storeURL:   strings.TrimSuffix(cfg.StoreURL, "/"),
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		logger:     logger,
	}, nil
}

// NewWithHTTP creates a client with an injected HTTP client, for tests.
func NewWithHTTP(cfg Config, httpClient ports.HTTPClient, logger *zap.Logger) (*Client, error) {
	c, err := New(cfg, logger)
	if err != nil {
		return nil, err
	}
	c.httpClient = httpClient
	return c, nil
}

// GetOrder implements ports.OrderStore.GetOrder
func (c *Client) GetOrder(ctx context.Context, id domain.OrderID) (*domain.Order, error) {
	var wire wooOrder
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/orders/%s", id), nil, &wire); err != nil {
		return nil, err
	}
	order, err := wire.toDomain()
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeStoreError, "invalid order payload", err)
	}
	return order, nil
}

// PaymentComplete implements ports.OrderStore.PaymentComplete. The store
// resolves set_paid to processing or completed depending on the order
// contents and no-ops when the order is already paid.
func (c *Client) PaymentComplete(ctx context.Context, id domain.OrderID, paymentID string) error {
	update := orderUpdate{
		SetPaid:       true,
		TransactionID: paymentID,
	}
	return c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/orders/%s", id), update, nil)
}

// UpdateStatus implements ports.OrderStore.UpdateStatus. The REST API
// has no status+note composite, so the note is attached separately; a
// failed note never rolls back the transition.
func (c *Client) UpdateStatus(ctx context.Context, id domain.OrderID, status domain.OrderStatus, note string) error {
	update := orderUpdate{Status: string(status)}
	if err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/orders/%s", id), update, nil); err != nil {
		return err
	}
	if note != "" {
		if err := c.AddNote(ctx, id, note); err != nil {
			c.logger.Warn("order status updated but note failed",
				zap.String("order_id", id.String()),
				zap.String("status", string(status)),
				zap.Error(err),
			)
		}
	}
	return nil
}

// AddNote implements ports.OrderStore.AddNote
func (c *Client) AddNote(ctx context.Context, id domain.OrderID, note string) error {
	return c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/orders/%s/notes", id), orderNote{Note: note}, nil)
}

// UpdateMeta implements ports.OrderStore.UpdateMeta
func (c *Client) UpdateMeta(ctx context.Context, id domain.OrderID, meta map[string]string) error {
	update := orderUpdate{MetaData: make([]metaKV, 0, len(meta))}
	for k, v := range meta {
		update.MetaData = append(update.MetaData, metaKV{Key: k, Value: v})
	}
	return c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/orders/%s", id), update, nil)
}

// doRequest executes a REST API call and decodes the response into out
// when out is non-nil.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.storeURL+restAPIPath+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.SetBasicAuth(c.apiKey, c.apiSecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WrapError(domain.ErrorCodeStoreError, "store unreachable", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.WrapError(domain.ErrorCodeStoreError, "reading store response", err)
	}

	if resp.StatusCode >= 400 {
		return c.parseErrorResponse(resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return domain.WrapError(domain.ErrorCodeStoreError, "parsing store response", err)
		}
	}
	return nil
}

// parseErrorResponse converts a WooCommerce error payload to a
// DomainError.
func (c *Client) parseErrorResponse(statusCode int, body []byte) error {
	var wcErr wooError
	json.Unmarshal(body, &wcErr) // best effort

	switch statusCode {
	case http.StatusNotFound:
		return domain.NewError(domain.ErrorCodeOrderNotFound, "order not found")
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.NewError(domain.ErrorCodeStoreUnauthorized, "WooCommerce authentication failed")
	default:
		return domain.NewError(domain.ErrorCodeStoreError,
			fmt.Sprintf("status %d: %s - %s", statusCode, wcErr.Code, wcErr.Message))
	}
}
