package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/serioussystems/brdge-bridge/internal/domain/ports"
)

// Config holds all application configuration. It is loaded once at
// startup and treated as immutable afterwards.
type Config struct {
	Server   ServerConfig
	Gateway  GatewayConfig
	Store    StoreConfig
	Database DatabaseConfig
	Secrets  SecretsConfig
	Logger   LoggerConfig
	Checkout CheckoutConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port        int
	Host        string
	MetricsPort int
}

// GatewayConfig holds BR-DGE payment gateway configuration. Test and
// live key pairs are both carried; the test-mode flag selects which pair
// and which host is active.
type GatewayConfig struct {
	TestMode         bool
	SandboxURL       string
	LiveURL          string
	SandboxSDKURL    string
	LiveSDKURL       string
	TestServerAPIKey string
	LiveServerAPIKey string
	TestClientAPIKey string
	LiveClientAPIKey string
	WebhookSecret    string
	Timeout          int // request timeout in seconds
}

// StoreConfig holds WooCommerce REST API configuration
type StoreConfig struct {
	URL       string // store base URL (e.g. https://shop.example.com)
	APIKey    string // REST API consumer key
	APISecret string // REST API consumer secret
	Name      string // store display name, used in payment descriptions
}

// DatabaseConfig holds the optional audit log database. An empty URL
// disables the payment_events log.
type DatabaseConfig struct {
	URL string
}

// SecretsConfig selects where key material comes from
type SecretsConfig struct {
	Backend   string // "env" or "aws"
	AWSRegion string
	Prefix    string // secret name prefix, e.g. "brdge-bridge/prod"
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// CheckoutConfig holds the hosted payment page presentation settings
type CheckoutConfig struct {
	Title       string
	Description string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnvAsInt("SERVER_PORT", 8080),
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			MetricsPort: getEnvAsInt("METRICS_PORT", 9090),
		},
		Gateway: GatewayConfig{
			TestMode:         getEnvAsBool("BRDGE_TEST_MODE", true),
			SandboxURL:       getEnv("BRDGE_SANDBOX_URL", "https://sandbox.comcarde.com/v1"),
			LiveURL:          getEnv("BRDGE_LIVE_URL", "https://secure.comcarde.com/v1"),
			SandboxSDKURL:    getEnv("BRDGE_SANDBOX_SDK_URL", "https://sandbox-assets.comcarde.com/web/v2/js/comcarde.min.js"),
			LiveSDKURL:       getEnv("BRDGE_LIVE_SDK_URL", "https://assets.comcarde.com/web/v2/js/comcarde.min.js"),
			TestServerAPIKey: getEnv("BRDGE_TEST_SERVER_API_KEY", ""),
			LiveServerAPIKey: getEnv("BRDGE_LIVE_SERVER_API_KEY", ""),
			TestClientAPIKey: getEnv("BRDGE_TEST_CLIENT_API_KEY", ""),
			LiveClientAPIKey: getEnv("BRDGE_LIVE_CLIENT_API_KEY", ""),
			WebhookSecret:    getEnv("BRDGE_WEBHOOK_SECRET", ""),
			Timeout:          getEnvAsInt("BRDGE_TIMEOUT", 60),
		},
		Store: StoreConfig{
			URL:       getEnv("WOOCOMMERCE_STORE_URL", ""),
			APIKey:    getEnv("WOOCOMMERCE_API_KEY", ""),
			APISecret: getEnv("WOOCOMMERCE_API_SECRET", ""),
			Name:      getEnv("STORE_NAME", "Online Store"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Secrets: SecretsConfig{
			Backend:   getEnv("SECRETS_BACKEND", "env"),
			AWSRegion: getEnv("AWS_REGION", "us-east-1"),
			Prefix:    getEnv("SECRETS_PREFIX", "brdge-bridge"),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
		Checkout: CheckoutConfig{
			Title:       getEnv("CHECKOUT_TITLE", "BR-DGE Payment Gateway"),
			Description: getEnv("CHECKOUT_DESCRIPTION", "Pay securely using your credit/debit card or digital wallet."),
		},
	}

	return cfg, nil
}

// Validate checks required fields. Called after secret resolution so
// keys sourced from a secret backend count.
func (c *Config) Validate() error {
	if c.ServerAPIKey() == "" {
		if c.Gateway.TestMode {
			return fmt.Errorf("BRDGE_TEST_SERVER_API_KEY is required in test mode")
		}
		return fmt.Errorf("BRDGE_LIVE_SERVER_API_KEY is required in live mode")
	}
	if c.Store.URL == "" {
		return fmt.Errorf("WOOCOMMERCE_STORE_URL is required")
	}
	if c.Store.APIKey == "" || c.Store.APISecret == "" {
		return fmt.Errorf("WOOCOMMERCE_API_KEY and WOOCOMMERCE_API_SECRET are required")
	}
	return nil
}

// ServerAPIKey returns the server API key for the active mode.
func (c *Config) ServerAPIKey() string {
	if c.Gateway.TestMode {
		return c.Gateway.TestServerAPIKey
	}
	return c.Gateway.LiveServerAPIKey
}

// ClientAPIKey returns the client API key for the active mode. An empty
// key selects the hosted-redirect-page integration instead of hosted
// fields.
func (c *Config) ClientAPIKey() string {
	if c.Gateway.TestMode {
		return c.Gateway.TestClientAPIKey
	}
	return c.Gateway.LiveClientAPIKey
}

// APIEndpoint returns the BR-DGE base URL for the active mode.
func (c *Config) APIEndpoint() string {
	if c.Gateway.TestMode {
		return c.Gateway.SandboxURL
	}
	return c.Gateway.LiveURL
}

// SDKURL returns the browser SDK asset URL for the active mode.
func (c *Config) SDKURL() string {
	if c.Gateway.TestMode {
		return c.Gateway.SandboxSDKURL
	}
	return c.Gateway.LiveSDKURL
}

// secret names under the configured prefix
const (
	secretTestServerKey = "test_server_api_key"
	secretLiveServerKey = "live_server_api_key"
	secretTestClientKey = "test_client_api_key"
	secretLiveClientKey = "live_client_api_key"
	secretWebhookSecret = "webhook_secret"
)

// ResolveSecrets fills key material that is absent from the environment
// from the secret manager. Environment values win so local overrides
// stay possible. Absent secrets are not an error here; Validate decides
// what is actually required. Names are bare; each backend applies its
// own prefix.
func (c *Config) ResolveSecrets(ctx context.Context, sm ports.SecretManager) error {
	fill := func(dst *string, name string) error {
		if *dst != "" {
			return nil
		}
		value, err := sm.GetSecret(ctx, name)
		if errors.Is(err, ports.ErrSecretNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("resolve secret %s: %w", name, err)
		}
		*dst = value
		return nil
	}

	for name, dst := range map[string]*string{
		secretTestServerKey: &c.Gateway.TestServerAPIKey,
		secretLiveServerKey: &c.Gateway.LiveServerAPIKey,
		secretTestClientKey: &c.Gateway.TestClientAPIKey,
		secretLiveClientKey: &c.Gateway.LiveClientAPIKey,
		secretWebhookSecret: &c.Gateway.WebhookSecret,
	} {
		if err := fill(dst, name); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
