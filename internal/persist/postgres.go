package persist

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Postgres keeps the workout list in the app_state table.
type Postgres struct {
	Pool *pgxpool.Pool
	key  string
}

// NewPostgres creates a connection pool and verifies it.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Postgres{Pool: pool, key: Key}, nil
}

// RunMigrations applies all pending embedded migrations.
func RunMigrations(dsn string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// Load returns the saved bytes, or nil if nothing was saved.
func (p *Postgres) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := p.Pool.QueryRow(ctx, `SELECT value FROM app_state WHERE key = $1`, p.key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying state: %w", err)
	}
	return data, nil
}

// Save replaces the saved bytes.
func (p *Postgres) Save(ctx context.Context, data []byte) error {
	_, err := p.Pool.Exec(ctx,
		`INSERT INTO app_state (key, value, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		p.key, data)
	if err != nil {
		return fmt.Errorf("upserting state: %w", err)
	}
	return nil
}

// Clear deletes the saved bytes.
func (p *Postgres) Clear(ctx context.Context) error {
	if _, err := p.Pool.Exec(ctx, `DELETE FROM app_state WHERE key = $1`, p.key); err != nil {
		return fmt.Errorf("deleting state: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	p.Pool.Close()
	return nil
}
