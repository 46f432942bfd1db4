package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw request body.
const SignatureHeader = "X-Brdge-Validation"

// WebhookSignatureAuth verifies BR-DGE webhook signatures before the
// payload reaches the handler.
type WebhookSignatureAuth struct {
	secret string
	logger *zap.Logger
}

// NewWebhookSignatureAuth creates a webhook signature verifier. An empty
// secret disables verification; the processor only signs when a secret
// is configured on its side too.
func NewWebhookSignatureAuth(secret string, logger *zap.Logger) *WebhookSignatureAuth {
	if secret == "" {
		logger.Warn("webhook secret not configured, signature verification disabled")
	}
	return &WebhookSignatureAuth{
		secret: secret,
		logger: logger,
	}
}

// Middleware wraps an HTTP handler with signature verification. The body
// is read for the HMAC and restored for the next handler.
func (a *WebhookSignatureAuth) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a.secret == "" {
			next(w, r)
			return
		}

		signature := r.Header.Get(SignatureHeader)
		if signature == "" {
			a.logger.Warn("webhook missing signature",
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
			)
			http.Error(w, "Missing signature", http.StatusUnauthorized)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			a.logger.Error("failed to read webhook body", zap.Error(err))
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		// Restore body for downstream handlers
		r.Body = io.NopCloser(bytes.NewBuffer(body))

		expected := a.calculateHMAC(body)
		if !hmac.Equal([]byte(signature), []byte(expected)) {
			a.logger.Warn("webhook signature verification failed",
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
			)
			http.Error(w, "Invalid signature", http.StatusUnauthorized)
			return
		}

		next(w, r)
	}
}

// calculateHMAC computes the hex HMAC-SHA256 of the payload.
func (a *WebhookSignatureAuth) calculateHMAC(payload []byte) string {
	mac := hmac.New(sha256.New, []byte(a.secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
