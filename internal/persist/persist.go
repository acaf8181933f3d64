// Package persist provides the storage backends for the serialized workout
// list: SQLite, PostgreSQL and an in-process memory slot.
package persist

import (
	"context"
	"fmt"
	"sync"

	"github.com/claude/mapty/internal/config"
)

// Key is the slot the workout list is stored under.
const Key = "workouts"

// Backend is a persistence medium that can be closed.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Clear(ctx context.Context) error
	Close() error
}

// Open creates the backend selected by cfg. PostgreSQL migrations are applied
// before connecting.
func Open(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		return OpenSQLite(cfg.Storage.Path)
	case config.DriverPostgres:
		dsn := cfg.Database.DSN()
		if err := RunMigrations(dsn); err != nil {
			return nil, err
		}
		return NewPostgres(ctx, dsn)
	case config.DriverMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// Memory keeps the bytes in process memory. Data is lost on exit.
type Memory struct {
	mu   sync.Mutex
	data []byte
}

// NewMemory returns an empty memory backend.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	return append([]byte(nil), m.data...), nil
}

func (m *Memory) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}

func (m *Memory) Close() error { return nil }
