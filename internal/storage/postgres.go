package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront/internal/logger"

	"go.uber.org/zap"
)

// PostgresStore keeps values in the kv_store table created by cmd/migrate.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	var value []byte
	err := p.db.QueryRowContext(ctx, `
		SELECT value
		FROM kv_store
		WHERE key = $1
	`, key).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("kv get failed",
			zap.String("layer", "storage"),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrFailedGet, err)
	}

	return value, nil
}

func (p *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}

	start := time.Now()
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, key, value)
	if err != nil {
		logger.FromCtx(ctx).Error("kv set failed",
			zap.String("layer", "storage"),
			zap.String("key", key),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrFailedSet, err)
	}

	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}

	if _, err := p.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = $1`, key); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedDrop, err)
	}
	return nil
}
