// Package storage elige el almacenamiento configurado (PostgreSQL o SQLite) y expone
// los puertos que consumen el coordinador y los reportes.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-beras/internal/application/inventory"
	"github.com/jhoicas/pos-beras/internal/domain/repository"
	"github.com/jhoicas/pos-beras/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-beras/internal/infrastructure/sqlite"
	"github.com/jhoicas/pos-beras/pkg/config"
	"github.com/rs/zerolog"
)

// Backend almacenamiento abierto.
type Backend struct {
	Driver  string
	Tx      inventory.TxRunner
	Read    inventory.Repos
	Reports repository.ReportRepository

	migrate func(ctx context.Context) error
	close   func()
}

// Open conecta con el driver de cfg. txTimeout limita cada unidad atómica.
// SQLite aplica el esquema al abrir; PostgreSQL lo hace en Migrate.
func Open(ctx context.Context, cfg config.DBConfig, txTimeout time.Duration, log zerolog.Logger) (*Backend, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		return &Backend{
			Driver:  cfg.Driver,
			Tx:      postgres.NewTxRunner(pool, txTimeout, log.With().Str("component", "tx").Logger()),
			Read:    postgres.NewRepos(pool),
			Reports: postgres.NewReportRepository(pool),
			migrate: func(ctx context.Context) error { return postgres.Migrate(ctx, pool) },
			close:   pool.Close,
		}, nil
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Driver:  cfg.Driver,
			Tx:      sqlite.NewTxRunner(store.DB(), txTimeout, log.With().Str("component", "tx").Logger()),
			Read:    store.Repos(),
			Reports: sqlite.NewReportRepository(store.DB()),
			migrate: func(context.Context) error { return nil },
			close: func() {
				if err := store.Close(); err != nil {
					log.Warn().Err(err).Msg("cerrar sqlite")
				}
			},
		}, nil
	default:
		return nil, fmt.Errorf("driver no soportado: %q", cfg.Driver)
	}
}

// Migrate crea las tablas si no existen.
func (b *Backend) Migrate(ctx context.Context) error {
	return b.migrate(ctx)
}

// Close libera las conexiones.
func (b *Backend) Close() {
	b.close()
}
