package checkout

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/serioussystems/brdge-bridge/internal/config"
	"github.com/serioussystems/brdge-bridge/internal/domain"
	"github.com/serioussystems/brdge-bridge/internal/domain/ports"
	"github.com/serioussystems/brdge-bridge/internal/services/payment"
)

// genericPaymentError is the only failure text a buyer ever sees for
// processor and internal errors. Declines pass the processor message
// through so the buyer knows to try another card.
const genericPaymentError = "Payment error: please try again or contact the store."

// Handler serves the hosted checkout surface: the SDK configuration,
// the hosted payment page and the payment submission endpoint.
type Handler struct {
	service *payment.Service
	store   ports.OrderStore
	cfg     *config.Config
	logger  *zap.Logger
}

// NewHandler creates a checkout handler.
func NewHandler(service *payment.Service, store ports.OrderStore, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		store:   store,
		cfg:     cfg,
		logger:  logger,
	}
}

// Element ids the storefront script and the hosted page agree on.
const (
	cardElementID  = "comcarde-card-element"
	errorElementID = "card-errors"
	tokenFieldID   = "brdge-token"
)

// configResponse is what the client-side SDK bootstrap needs.
type configResponse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TestMode    bool   `json:"testmode"`
	Mode        string `json:"mode"`
	ClientKey   string `json:"client_key"`
	SDKURL      string `json:"sdk_url"`
	CardElement string `json:"card_element"`
	ErrorsEl    string `json:"errors_element"`
	TokenField  string `json:"token_field"`
}

// HandleConfig serves the SDK bootstrap configuration.
// GET /api/v1/checkout/config
func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Without a client key the SDK cannot render hosted fields; the
	// storefront sends buyers to the hosted page instead.
	mode := "hosted_page"
	if h.cfg.ClientAPIKey() != "" {
		mode = "hosted_fields"
	}

	resp := configResponse{
		Title:       h.cfg.Checkout.Title,
		Description: h.cfg.Checkout.Description,
		TestMode:    h.cfg.Gateway.TestMode,
		Mode:        mode,
		ClientKey:   h.cfg.ClientAPIKey(),
		SDKURL:      h.cfg.SDKURL(),
		CardElement: cardElementID,
		ErrorsEl:    errorElementID,
		TokenField:  tokenFieldID,
	}

	writeJSON(w, http.StatusOK, resp)
}

// processRequest is a buyer's payment submission.
type processRequest struct {
	OrderID  domain.OrderID `json:"order_id"`
	OrderKey string         `json:"order_key"`
	Token    string         `json:"payment_token"`
}

// processError is the failure shape the checkout script expects.
type processError struct {
	Result  string `json:"result"`
	Message string `json:"message"`
}

// HandleProcess submits a tokenized payment.
// POST /api/v1/checkout/process
func (h *Handler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, processError{
			Result:  "failure",
			Message: "invalid request body",
		})
		return
	}

	result, err := h.service.ProcessCheckout(r.Context(), payment.CheckoutRequest{
		OrderID:  req.OrderID,
		OrderKey: req.OrderKey,
		Token:    req.Token,
	})
	if err != nil {
		status, message := h.classifyError(err)
		h.logger.Warn("checkout failed",
			zap.String("order_id", req.OrderID.String()),
			zap.Error(err),
		)
		writeJSON(w, status, processError{Result: "failure", Message: message})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// classifyError maps a service error to an HTTP status and a message
// safe to show the buyer.
func (h *Handler) classifyError(err error) (int, string) {
	switch domain.CodeOf(err) {
	case domain.ErrorCodeValidationMissingToken, domain.ErrorCodeValidationFailed:
		return http.StatusBadRequest, "payment token is missing, please retry"
	case domain.ErrorCodeOrderNotFound:
		return http.StatusNotFound, "order not found"
	case domain.ErrorCodeOrderKeyMismatch:
		return http.StatusForbidden, "order could not be verified"
	case domain.ErrorCodeGatewayDeclined:
		// The processor's decline message is written for buyers.
		var de *domain.DomainError
		if errors.As(err, &de) && de.Message != "" {
			return http.StatusPaymentRequired, de.Message
		}
		return http.StatusPaymentRequired, genericPaymentError
	default:
		return http.StatusBadGateway, genericPaymentError
	}
}

// HandlePayPage serves the hosted payment page for an order.
// GET /checkout/pay?order_id=42&key=wc_order_abc
func (h *Handler) HandlePayPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	rawID, err := strconv.ParseInt(query.Get("order_id"), 10, 64)
	if err != nil || rawID <= 0 {
		h.renderErrorPage(w, "Invalid payment link")
		return
	}
	orderID := domain.OrderID(rawID)
	key := query.Get("key")

	order, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		h.logger.Warn("payment page for unknown order",
			zap.String("order_id", orderID.String()),
			zap.Error(err),
		)
		h.renderErrorPage(w, "Order not found")
		return
	}

	// Key mismatch renders the same page as not-found so the endpoint
	// cannot be used to enumerate orders.
	if key == "" || key != order.Key {
		h.renderErrorPage(w, "Order not found")
		return
	}

	if order.Status.IsPaid() {
		h.renderErrorPage(w, "This order has already been paid")
		return
	}

	tmpl := template.Must(template.New("pay").Parse(payPageTemplate))

	data := map[string]interface{}{
		"Title":       h.cfg.Checkout.Title,
		"Description": h.cfg.Checkout.Description,
		"OrderNumber": order.Number,
		"OrderID":     order.ID.String(),
		"OrderKey":    order.Key,
		"Amount":      order.Total.StringFixed(2),
		"Currency":    order.Currency,
		"ClientKey":   h.cfg.ClientAPIKey(),
		"SDKURL":      h.cfg.SDKURL(),
		"TestMode":    h.cfg.Gateway.TestMode,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	if err := tmpl.Execute(w, data); err != nil {
		h.logger.Error("Failed to render payment page template",
			zap.Error(err),
		)
	}
}

// renderErrorPage renders an HTML error page
func (h *Handler) renderErrorPage(w http.ResponseWriter, message string) {
	tmpl := template.Must(template.New("error").Parse(errorPageTemplate))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	if err := tmpl.Execute(w, map[string]interface{}{"Message": message}); err != nil {
		h.logger.Error("Failed to render error template",
			zap.Error(err),
		)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
