package ports

import (
	"context"
	"errors"
)

// ErrSecretNotFound reports that the backend is healthy but the named
// secret does not exist. Callers treat this differently from backend
// failures: optional secrets may simply be absent.
var ErrSecretNotFound = errors.New("secret not found")

// SecretManager retrieves key material (API keys, webhook secret) from a
// secret backend. The bridge only reads secrets; rotation and writes are
// operator concerns handled outside this service.
type SecretManager interface {
	// GetSecret retrieves a secret by name. Returns ErrSecretNotFound
	// when the secret does not exist, other errors when the backend is
	// unreachable.
	GetSecret(ctx context.Context, name string) (string, error)
}
