package config

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serioussystems/brdge-bridge/internal/domain/ports"
)

type fakeSecrets struct {
	values map[string]string
	err    error
}

func (f *fakeSecrets) GetSecret(_ context.Context, name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	value, ok := f.values[name]
	if !ok {
		return "", ports.ErrSecretNotFound
	}
	return value, nil
}

func validConfig() *Config {
	return &Config{
		Gateway: GatewayConfig{
			TestMode:         true,
			SandboxURL:       "https://sandbox.comcarde.com/v1",
			LiveURL:          "https://secure.comcarde.com/v1",
			SandboxSDKURL:    "https://sandbox-assets.comcarde.com/web/v2/js/comcarde.min.js",
			LiveSDKURL:       "https://assets.comcarde.com/web/v2/js/comcarde.min.js",
			TestServerAPIKey: "sk_test",
			LiveServerAPIKey: "sk_live",
			TestClientAPIKey: "pk_test",
			LiveClientAPIKey: "pk_live",
		},
		Store: StoreConfig{
			URL:       "https://shop.example.com",
			APIKey:    "ck_abc",
			APISecret: "cs_abc",
		},
	}
}

func TestModeSelection(t *testing.T) {
	cfg := validConfig()

	assert.Equal(t, "sk_test", cfg.ServerAPIKey())
	assert.Equal(t, "pk_test", cfg.ClientAPIKey())
	assert.Equal(t, "https://sandbox.comcarde.com/v1", cfg.APIEndpoint())
	assert.Contains(t, cfg.SDKURL(), "sandbox-assets")

	cfg.Gateway.TestMode = false
	assert.Equal(t, "sk_live", cfg.ServerAPIKey())
	assert.Equal(t, "pk_live", cfg.ClientAPIKey())
	assert.Equal(t, "https://secure.comcarde.com/v1", cfg.APIEndpoint())
	assert.NotContains(t, cfg.SDKURL(), "sandbox")
}

func TestValidate(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Gateway.TestServerAPIKey = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BRDGE_TEST_SERVER_API_KEY")

	cfg = validConfig()
	cfg.Gateway.TestMode = false
	cfg.Gateway.LiveServerAPIKey = ""
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BRDGE_LIVE_SERVER_API_KEY")

	cfg = validConfig()
	cfg.Store.URL = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Store.APISecret = ""
	assert.Error(t, cfg.Validate())
}

func TestResolveSecrets_FillsEmptyFields(t *testing.T) {
	cfg := validConfig()
	cfg.Gateway.TestServerAPIKey = ""
	cfg.Gateway.WebhookSecret = ""

	sm := &fakeSecrets{values: map[string]string{
		"test_server_api_key": "sk_from_backend",
		"webhook_secret":      "whsec_from_backend",
	}}

	require.NoError(t, cfg.ResolveSecrets(context.Background(), sm))
	assert.Equal(t, "sk_from_backend", cfg.Gateway.TestServerAPIKey)
	assert.Equal(t, "whsec_from_backend", cfg.Gateway.WebhookSecret)
}

func TestResolveSecrets_EnvironmentWins(t *testing.T) {
	cfg := validConfig()

	sm := &fakeSecrets{values: map[string]string{
		"test_server_api_key": "sk_from_backend",
	}}

	require.NoError(t, cfg.ResolveSecrets(context.Background(), sm))
	assert.Equal(t, "sk_test", cfg.Gateway.TestServerAPIKey)
}

func TestResolveSecrets_MissingSecretIsNotAnError(t *testing.T) {
	cfg := validConfig()
	cfg.Gateway.WebhookSecret = ""

	sm := &fakeSecrets{values: map[string]string{}}

	require.NoError(t, cfg.ResolveSecrets(context.Background(), sm))
	assert.Empty(t, cfg.Gateway.WebhookSecret)
}

func TestResolveSecrets_BackendFailurePropagates(t *testing.T) {
	cfg := validConfig()
	cfg.Gateway.TestServerAPIKey = ""

	sm := &fakeSecrets{err: errors.New("backend unreachable")}

	err := cfg.ResolveSecrets(context.Background(), sm)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend unreachable")
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 9090, cfg.Server.MetricsPort)
	assert.True(t, cfg.Gateway.TestMode)
	assert.Equal(t, 60, cfg.Gateway.Timeout)
	assert.Equal(t, "https://sandbox.comcarde.com/v1", cfg.Gateway.SandboxURL)
	assert.Equal(t, "env", cfg.Secrets.Backend)
	assert.Equal(t, "BR-DGE Payment Gateway", cfg.Checkout.Title)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("BRDGE_TEST_MODE", "false")
	t.Setenv("STORE_NAME", "My Shop")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.False(t, cfg.Gateway.TestMode)
	assert.Equal(t, "My Shop", cfg.Store.Name)
}
