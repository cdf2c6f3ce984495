package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	mode := flag.String("mode", "up", "migration mode: up, down or status")
	dir := flag.String("dir", "./migrations", "directory holding the *.sql migrations")
	flag.Parse()

	logger.Init(os.Getenv("APP_ENV"))
	defer logger.Sync()
	log := logger.L()

	database, err := db.NewDatabase(&config.Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     envOr("DB_PORT", "5432"),
	})
	if err != nil {
		log.Fatal("failed to connect db", zap.Error(err))
	}
	defer database.Close()

	m := &migrator{db: database, log: log}
	if err := m.run(context.Background(), *mode, *dir); err != nil {
		log.Fatal("migration failed", zap.String("mode", *mode), zap.Error(err))
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type migration struct {
	version string
	path    string
}

type migrator struct {
	db  *sql.DB
	log *zap.Logger
}

func (m *migrator) run(ctx context.Context, mode, dir string) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}

	migrations, err := loadMigrations(dir)
	if err != nil {
		return err
	}

	switch mode {
	case "up":
		return m.up(ctx, migrations)
	case "down":
		return m.down(ctx, migrations)
	case "status":
		return m.status(ctx, migrations)
	default:
		return fmt.Errorf("unknown mode: %s (use 'up', 'down' or 'status')", mode)
	}
}

// loadMigrations lists dir/*.sql sorted by file name.
func loadMigrations(dir string) ([]migration, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}
	sort.Strings(files)

	out := make([]migration, 0, len(files))
	for _, f := range files {
		out = append(out, migration{version: filepath.Base(f), path: f})
	}
	return out, nil
}

func (m *migrator) applied(ctx context.Context) (map[string]bool, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to list applied migrations: %w", err)
	}
	defer rows.Close()

	done := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		done[v] = true
	}
	return done, rows.Err()
}

func (m *migrator) up(ctx context.Context, migrations []migration) error {
	done, err := m.applied(ctx)
	if err != nil {
		return err
	}

	count := 0
	for _, mig := range migrations {
		if done[mig.version] {
			m.log.Debug("skipping applied migration", zap.String("version", mig.version))
			continue
		}

		content, err := os.ReadFile(mig.path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", mig.path, err)
		}

		m.log.Info("applying migration", zap.String("version", mig.version))
		err = m.inTx(ctx, extractSection(string(content), "Up"),
			`INSERT INTO schema_migrations (version) VALUES ($1)`, mig.version)
		if err != nil {
			return fmt.Errorf("migration %s failed: %w", mig.version, err)
		}
		count++
	}

	m.log.Info("migrations applied", zap.Int("count", count))
	return nil
}

// down rolls back the most recently applied migration.
func (m *migrator) down(ctx context.Context, migrations []migration) error {
	var last string
	err := m.db.QueryRowContext(ctx,
		`SELECT version FROM schema_migrations ORDER BY applied_at DESC, version DESC LIMIT 1`,
	).Scan(&last)
	if err == sql.ErrNoRows {
		m.log.Warn("no migrations to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get last applied migration: %w", err)
	}

	var target *migration
	for i := range migrations {
		if migrations[i].version == last {
			target = &migrations[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("migration file not found for version: %s", last)
	}

	content, err := os.ReadFile(target.path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", target.path, err)
	}

	m.log.Info("rolling back migration", zap.String("version", last))
	err = m.inTx(ctx, extractSection(string(content), "Down"),
		`DELETE FROM schema_migrations WHERE version = $1`, last)
	if err != nil {
		return fmt.Errorf("rollback of %s failed: %w", last, err)
	}
	return nil
}

func (m *migrator) status(ctx context.Context, migrations []migration) error {
	done, err := m.applied(ctx)
	if err != nil {
		return err
	}
	for _, mig := range migrations {
		m.log.Info("migration", zap.String("version", mig.version), zap.Bool("applied", done[mig.version]))
	}
	return nil
}

// inTx runs the migration body and the bookkeeping statement atomically.
func (m *migrator) inTx(ctx context.Context, body, record, version string) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if strings.TrimSpace(body) != "" {
		if _, err := tx.ExecContext(ctx, body); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, record, version); err != nil {
		return err
	}
	return tx.Commit()
}

// extractSection returns the lines between "-- +migrate <section>" and the
// next marker.
func extractSection(content, section string) string {
	var (
		b      strings.Builder
		inPart bool
	)
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "-- +migrate") {
			if inPart {
				break
			}
			inPart = trimmed == "-- +migrate "+section
			continue
		}
		if inPart {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}
