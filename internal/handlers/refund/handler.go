package refund

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/serioussystems/brdge-bridge/internal/domain"
	"github.com/serioussystems/brdge-bridge/internal/services/payment"
)

// Handler serves merchant-initiated refunds. This endpoint is for the
// store backend, not buyers; error messages carry processor detail.
type Handler struct {
	service *payment.Service
	logger  *zap.Logger
}

// NewHandler creates a refund handler.
func NewHandler(service *payment.Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// refundRequest is the merchant's refund submission. Amount is a
// decimal string in the order currency; empty means the full order
// total.
type refundRequest struct {
	OrderID domain.OrderID `json:"order_id"`
	Amount  string         `json:"amount,omitempty"`
	Reason  string         `json:"reason,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HandleRefund processes a refund request.
// POST /api/v1/refunds
func (h *Handler) HandleRefund(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req refundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.OrderID == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "order_id is required"})
		return
	}

	cmd := payment.RefundCommand{
		OrderID: req.OrderID,
		Reason:  req.Reason,
	}
	if req.Amount != "" {
		amount, err := decimal.NewFromString(req.Amount)
		if err != nil || amount.IsNegative() || amount.IsZero() {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid refund amount"})
			return
		}
		cmd.Amount = &amount
	}

	result, err := h.service.Refund(r.Context(), cmd)
	if err != nil {
		status := classifyError(err)
		h.logger.Warn("refund failed",
			zap.String("order_id", req.OrderID.String()),
			zap.Error(err),
		)
		writeJSON(w, status, errorResponse{
			Error: err.Error(),
			Code:  string(domain.CodeOf(err)),
		})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func classifyError(err error) int {
	switch domain.CodeOf(err) {
	case domain.ErrorCodeOrderNotFound:
		return http.StatusNotFound
	case domain.ErrorCodeRefundMissingPayment:
		return http.StatusConflict
	case domain.ErrorCodeGatewayDeclined, domain.ErrorCodeRefundFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
