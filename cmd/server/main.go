package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/serioussystems/brdge-bridge/internal/adapters/brdge"
	"github.com/serioussystems/brdge-bridge/internal/adapters/postgres"
	"github.com/serioussystems/brdge-bridge/internal/adapters/secrets"
	"github.com/serioussystems/brdge-bridge/internal/adapters/woocommerce"
	"github.com/serioussystems/brdge-bridge/internal/config"
	"github.com/serioussystems/brdge-bridge/internal/domain/ports"
	checkoutHandler "github.com/serioussystems/brdge-bridge/internal/handlers/checkout"
	refundHandler "github.com/serioussystems/brdge-bridge/internal/handlers/refund"
	webhookHandler "github.com/serioussystems/brdge-bridge/internal/handlers/webhook"
	"github.com/serioussystems/brdge-bridge/internal/middleware"
	paymentService "github.com/serioussystems/brdge-bridge/internal/services/payment"
	"github.com/serioussystems/brdge-bridge/pkg/observability"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(&cfg.Logger)
	defer logger.Sync()

	logger.Info("Starting BR-DGE checkout bridge",
		zap.Bool("test_mode", cfg.Gateway.TestMode),
		zap.String("store_url", cfg.Store.URL),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Resolve key material before validation so either source can
	// satisfy it.
	secretManager, err := initSecretManager(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize secret manager", zap.Error(err))
	}
	if err := cfg.ResolveSecrets(ctx, secretManager); err != nil {
		logger.Fatal("Failed to resolve secrets", zap.Error(err))
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	// Optional audit log
	var auditLog ports.PaymentLog
	var paymentLog *postgres.PaymentLog
	if cfg.Database.URL != "" {
		paymentLog, err = postgres.NewPaymentLog(ctx, postgres.DefaultConfig(cfg.Database.URL), logger)
		if err != nil {
			logger.Fatal("Failed to initialize payment log", zap.Error(err))
		}
		defer paymentLog.Close()
		auditLog = paymentLog
	} else {
		logger.Info("DATABASE_URL not set, payment audit log disabled")
	}

	// Outbound adapters
	gateway := brdge.NewClient(brdge.Options{
		BaseURL: cfg.APIEndpoint(),
		APIKey:  cfg.ServerAPIKey(),
		Timeout: time.Duration(cfg.Gateway.Timeout) * time.Second,
		Verbose: cfg.Gateway.TestMode,
	}, logger)

	store, err := woocommerce.New(woocommerce.Config{
		StoreURL:  cfg.Store.URL,
		APIKey:    cfg.Store.APIKey,
		APISecret: cfg.Store.APISecret,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize WooCommerce client", zap.Error(err))
	}

	// Service and handlers
	service := paymentService.NewService(gateway, store, auditLog, paymentService.Options{
		StoreURL:  cfg.Store.URL,
		StoreName: cfg.Store.Name,
	}, logger)

	checkout := checkoutHandler.NewHandler(service, store, cfg, logger)
	refunds := refundHandler.NewHandler(service, logger)
	webhooks := webhookHandler.NewHandler(service, logger)
	signatureAuth := middleware.NewWebhookSignatureAuth(cfg.Gateway.WebhookSecret, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/checkout/config", checkout.HandleConfig)
	mux.HandleFunc("/api/v1/checkout/process", checkout.HandleProcess)
	mux.HandleFunc("/checkout/pay", checkout.HandlePayPage)
	mux.HandleFunc("/api/v1/refunds", refunds.HandleRefund)
	mux.HandleFunc("/wc-brdge/v1/webhook", signatureAuth.Middleware(webhooks.HandleWebhook))

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second, // gateway calls can take up to 60s
		IdleTimeout:  60 * time.Second,
	}

	// Metrics and health server on its own port
	healthChecker := observability.NewHealthChecker(nil)
	if paymentLog != nil {
		healthChecker = observability.NewHealthChecker(paymentLog.Pool())
	}
	metricsServer := observability.StartMetricsServer(fmt.Sprintf("%d", cfg.Server.MetricsPort), healthChecker)

	go func() {
		logger.Info("HTTP server listening",
			zap.Int("port", cfg.Server.Port),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to serve HTTP", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down servers...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	if err := observability.ShutdownMetricsServer(metricsServer); err != nil {
		logger.Error("Metrics server shutdown error", zap.Error(err))
	}

	logger.Info("Servers stopped")
}

// initLogger initializes the logger
func initLogger(cfg *config.LoggerConfig) *zap.Logger {
	if cfg.Development {
		logger, _ := zap.NewDevelopment()
		return logger
	}

	level := zapcore.InfoLevel
	if parsed, err := zapcore.ParseLevel(cfg.Level); err == nil {
		level = parsed
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	logger, _ := zapCfg.Build()
	return logger
}

// initSecretManager selects the secret backend from configuration.
func initSecretManager(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.SecretManager, error) {
	switch cfg.Secrets.Backend {
	case "aws":
		return secrets.NewAWSSecretsManagerAdapter(ctx,
			secrets.DefaultAWSSecretsManagerConfig(cfg.Secrets.AWSRegion, cfg.Secrets.Prefix),
			logger)
	case "env", "":
		return secrets.NewEnvSecretManager("BRDGE", logger), nil
	default:
		return nil, fmt.Errorf("unknown secrets backend %q", cfg.Secrets.Backend)
	}
}
