package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/pos-beras/internal/application/inventory"
	"github.com/jhoicas/pos-beras/internal/domain"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("pos-beras/sqlite")

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción SQLite (BEGIN IMMEDIATE).
type TxRunner struct {
	db      *sql.DB
	timeout time.Duration
	log     zerolog.Logger
}

// NewTxRunner construye el runner. timeout limita cada unidad atómica completa.
func NewTxRunner(db *sql.DB, timeout time.Duration, log zerolog.Logger) *TxRunner {
	return &TxRunner{db: db, timeout: timeout, log: log}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Solo el plazo configurado interrumpe la unidad; vencido, se devuelve domain.ErrTimeout.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos inventory.Repos) error) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "pos.unit",
		trace.WithAttributes(
			attribute.String("db.system", "sqlite"),
			attribute.Int64("tx.timeout_ms", r.timeout.Milliseconds()),
		))
	defer span.End()

	err := r.run(ctx, fn)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rollback")
	}
	if isTxTimeout(ctx, err) {
		r.log.Error().Err(err).Dur("timeout", r.timeout).Msg("unidad atómica vencida")
		return domain.ErrTimeout
	}
	return err
}

func (r *TxRunner) run(ctx context.Context, fn func(ctx context.Context, repos inventory.Repos) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			r.log.Warn().Err(rbErr).Msg("rollback")
		}
	}()

	if err := fn(ctx, NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
