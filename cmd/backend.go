package cmd

import (
	"errors"
	"fmt"

	"github.com/danprat/ABSEN-DESA/internal/config"
	"github.com/danprat/ABSEN-DESA/internal/store/postgres"
)

// backend bundles the shared PostgreSQL wiring used by every command.
type backend struct {
	cfg   *config.Config
	pool  *postgres.Pool
	store *postgres.Store
	audit *postgres.AuditLog
}

// openBackend loads configuration, connects to PostgreSQL, and runs
// pending migrations. The caller must Close the returned backend.
func openBackend() (*backend, error) {
	cfg := config.Load()
	if cfg.Database.URL == "" {
		return nil, errors.New("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.Initialize(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}

	return &backend{
		cfg:   cfg,
		pool:  pool,
		store: postgres.NewStore(pool, *cfg.DefaultSettings()),
		audit: postgres.NewAuditLog(pool),
	}, nil
}

func (b *backend) Close() {
	if b.pool != nil {
		_ = b.pool.Close()
	}
}
