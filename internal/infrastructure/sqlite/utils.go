package sqlite

import (
	"context"
	"errors"

	"github.com/jhoicas/pos-beras/internal/domain"
	"github.com/mattn/go-sqlite3"
)

// isUniqueViolation verifica si un error es una violación de UNIQUE o PRIMARY KEY.
func isUniqueViolation(err error) bool {
	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) {
		return sqErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// isTxTimeout indica si la unidad falló por vencer su plazo. Un error de negocio que
// llegó justo después del vencimiento conserva su causa.
func isTxTimeout(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return errors.Is(ctx.Err(), context.DeadlineExceeded) && !domain.IsBusiness(err)
}

// nullable convierte "" en NULL para columnas de referencia opcionales.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
