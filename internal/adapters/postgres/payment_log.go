package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/serioussystems/brdge-bridge/internal/domain/ports"
)

// PaymentLog persists payment audit events to PostgreSQL. WooCommerce
// keeps the authoritative order state; this table is an append-only
// trail of every gateway interaction for reconciliation.
type PaymentLog struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// Config contains PostgreSQL connection settings.
type Config struct {
	DatabaseURL string
	MaxConns    int32
	MinConns    int32
}

// DefaultConfig returns pool settings suitable for the audit workload.
func DefaultConfig(databaseURL string) *Config {
	return &Config{
		DatabaseURL: databaseURL,
		MaxConns:    10,
		MinConns:    2,
	}
}

// NewPaymentLog creates a payment log backed by a pgx connection pool.
func NewPaymentLog(ctx context.Context, cfg *Config, logger *zap.Logger) (*PaymentLog, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("payment log initialized",
		zap.String("database", poolConfig.ConnConfig.Database),
		zap.String("host", poolConfig.ConnConfig.Host),
	)

	return &PaymentLog{pool: pool, logger: logger}, nil
}

// Record implements ports.PaymentLog. Events are inserted individually;
// callers tolerate logging failures, so there is no retry here.
func (l *PaymentLog) Record(ctx context.Context, event *ports.PaymentEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	const query = `
		INSERT INTO payment_events (id, kind, order_id, payment_id, status, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := l.pool.Exec(ctx, query,
		event.ID,
		string(event.Kind),
		int64(event.OrderID),
		event.PaymentID,
		event.Status,
		event.Detail,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment event: %w", err)
	}
	return nil
}

// Pool exposes the connection pool for health checks.
func (l *PaymentLog) Pool() *pgxpool.Pool {
	return l.pool
}

// Close closes the underlying connection pool.
func (l *PaymentLog) Close() {
	l.logger.Info("closing payment log connection pool")
	l.pool.Close()
}
