package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/pos-beras/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isQueryCanceled detecta cancelaciones por statement_timeout (57014).
func isQueryCanceled(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "57014" // query_canceled
	}
	return false
}

// isTxTimeout indica si la unidad falló por vencer su plazo. Un error de negocio que
// llegó justo después del vencimiento conserva su causa.
func isTxTimeout(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || isQueryCanceled(err) {
		return true
	}
	return errors.Is(ctx.Err(), context.DeadlineExceeded) && !domain.IsBusiness(err)
}

// isTxClosed indica que la transacción ya había terminado (commit previo).
func isTxClosed(err error) bool {
	return errors.Is(err, pgx.ErrTxClosed)
}
