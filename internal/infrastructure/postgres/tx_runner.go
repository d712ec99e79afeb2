package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/pos-beras/internal/application/inventory"
	"github.com/jhoicas/pos-beras/internal/domain"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("pos-beras/postgres")

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool    *pgxpool.Pool
	timeout time.Duration
	log     zerolog.Logger
}

// NewTxRunner construye el runner. timeout limita cada unidad atómica completa.
func NewTxRunner(pool *pgxpool.Pool, timeout time.Duration, log zerolog.Logger) *TxRunner {
	return &TxRunner{pool: pool, timeout: timeout, log: log}
}

// NewRepos arma los repositorios sobre un Querier (pool o tx).
func NewRepos(q Querier) inventory.Repos {
	return inventory.Repos{
		Products:  NewProductRepository(q),
		Sales:     NewSaleRepository(q),
		Movements: NewMovementRepository(q),
		Returns:   NewReturnRepository(q),
		Customers: NewCustomerRepository(q),
	}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// La cancelación del caller no interrumpe la unidad; solo el plazo configurado lo hace,
// y en ese caso se devuelve domain.ErrTimeout.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos inventory.Repos) error) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "pos.unit",
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.Int64("tx.timeout_ms", r.timeout.Milliseconds()),
		))
	defer span.End()

	err := r.run(ctx, fn)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rollback")
	}
	if isTxTimeout(ctx, err) {
		// la causa queda en el log; hacia afuera solo sale el timeout
		r.log.Error().Err(err).Dur("timeout", r.timeout).Msg("unidad atómica vencida")
		return domain.ErrTimeout
	}
	return err
}

func (r *TxRunner) run(ctx context.Context, fn func(ctx context.Context, repos inventory.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		// contexto propio: el rollback debe completarse aunque el plazo haya vencido
		if rbErr := tx.Rollback(context.Background()); rbErr != nil && !isTxClosed(rbErr) {
			r.log.Warn().Err(rbErr).Msg("rollback")
		}
	}()

	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = '%dms'", r.timeout.Milliseconds())); err != nil {
		return fmt.Errorf("set statement_timeout: %w", err)
	}

	if err := fn(ctx, NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
