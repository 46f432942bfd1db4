package webhook

import (
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/serioussystems/brdge-bridge/internal/domain"
	"github.com/serioussystems/brdge-bridge/internal/services/payment"
)

// Handler receives asynchronous payment notifications from BR-DGE.
// Signature verification happens in middleware before this handler runs.
type Handler struct {
	service *payment.Service
	logger  *zap.Logger
}

// NewHandler creates a webhook handler.
func NewHandler(service *payment.Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleWebhook processes a webhook delivery.
// POST /wc-brdge/v1/webhook
//
// Anything this service cannot parse or act on is answered 200: the
// processor retries non-2xx responses, and redelivering such a payload
// will never succeed, so the problem is logged for the merchant
// instead. The exception is a store write failure, answered 500 so the
// retry lands once the store is reachable again.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Error("failed to read webhook body", zap.Error(err))
		h.acknowledge(w)
		return
	}

	event, err := domain.UnmarshalEvent(body)
	if err != nil {
		h.logger.Warn("unparseable webhook payload",
			zap.Error(err),
			zap.Int("body_bytes", len(body)),
		)
		h.acknowledge(w)
		return
	}

	if err := h.service.HandleEvent(r.Context(), event); err != nil {
		// Store-side failures are worth a retry from the processor.
		h.logger.Error("failed to apply webhook event",
			zap.String("event_type", event.RawType),
			zap.Error(err),
		)
		http.Error(w, "processing failed", http.StatusInternalServerError)
		return
	}

	h.acknowledge(w)
}

func (h *Handler) acknowledge(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
