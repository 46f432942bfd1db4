package secrets

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/serioussystems/brdge-bridge/internal/domain/ports"
)

// envSecretManager implements ports.SecretManager from environment
// variables. "test_server_api_key" maps to BRDGE_TEST_SERVER_API_KEY.
// Suitable for development and container deployments where secrets are
// injected into the environment.
type envSecretManager struct {
	prefix string
	logger *zap.Logger
}

// NewEnvSecretManager creates a secret manager backed by environment
// variables with the given prefix (e.g. "BRDGE").
func NewEnvSecretManager(prefix string, logger *zap.Logger) ports.SecretManager {
	return &envSecretManager{
		prefix: prefix,
		logger: logger,
	}
}

// GetSecret retrieves a secret from the environment.
func (m *envSecretManager) GetSecret(_ context.Context, name string) (string, error) {
	key := strings.ToUpper(name)
	key = strings.NewReplacer("/", "_", "-", "_", ".", "_").Replace(key)
	if m.prefix != "" {
		key = m.prefix + "_" + key
	}

	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		m.logger.Debug("secret not set in environment", zap.String("env_var", key))
		return "", ports.ErrSecretNotFound
	}
	return value, nil
}
