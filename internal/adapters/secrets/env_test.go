package secrets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/serioussystems/brdge-bridge/internal/domain/ports"
)

func TestEnvSecretManager_GetSecret(t *testing.T) {
	t.Setenv("BRDGE_TEST_SERVER_API_KEY", "sk_test_123")

	sm := NewEnvSecretManager("BRDGE", zap.NewNop())

	value, err := sm.GetSecret(context.Background(), "test_server_api_key")
	require.NoError(t, err)
	assert.Equal(t, "sk_test_123", value)
}

func TestEnvSecretManager_NormalizesNames(t *testing.T) {
	t.Setenv("BRDGE_WEBHOOK_SECRET", "whsec_abc")

	sm := NewEnvSecretManager("BRDGE", zap.NewNop())

	value, err := sm.GetSecret(context.Background(), "webhook-secret")
	require.NoError(t, err)
	assert.Equal(t, "whsec_abc", value)
}

func TestEnvSecretManager_NotFound(t *testing.T) {
	sm := NewEnvSecretManager("BRDGE", zap.NewNop())

	_, err := sm.GetSecret(context.Background(), "never_set_anywhere")
	assert.ErrorIs(t, err, ports.ErrSecretNotFound)
}
