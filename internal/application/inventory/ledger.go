package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/pos-beras/internal/domain"
	"github.com/jhoicas/pos-beras/internal/domain/repository"
)

// DeltaMode modo de aplicación de un cambio de stock.
type DeltaMode int

const (
	// Relative suma el delta con la guarda qty + delta >= 0.
	Relative DeltaMode = iota
	// Absolute fija la cantidad (correcciones manuales).
	Absolute
)

// LedgerEntry resultado de un cambio de stock aplicado.
type LedgerEntry struct {
	ProductID string
	Previous  int64
	Current   int64
}

// Delta cambio efectivo aplicado.
func (e LedgerEntry) Delta() int64 {
	return e.Current - e.Previous
}

// StockLedger es el único escritor de cantidades de producto.
type StockLedger struct {
	now func() time.Time
}

// NewStockLedger construye el libro de stock.
func NewStockLedger() *StockLedger {
	return &StockLedger{now: time.Now}
}

// ApplyDelta aplica un cambio de stock a un producto usando el repositorio recibido
// (normalmente atado a la transacción del caller).
//
// En modo Relative el chequeo y la escritura son una única sentencia evaluada por la base
// de datos; si no afecta filas se devuelve *domain.StockError (o domain.ErrNotFound si el
// producto no existe). En modo Absolute value es la nueva cantidad.
func (l *StockLedger) ApplyDelta(ctx context.Context, products repository.ProductRepository, productID string, value int64, mode DeltaMode) (LedgerEntry, error) {
	now := l.now().UTC()
	switch mode {
	case Relative:
		if value == 0 {
			return LedgerEntry{}, domain.ErrInvalidQuantity
		}
		current, applied, err := products.ApplyDelta(ctx, productID, value, now)
		if err != nil {
			return LedgerEntry{}, err
		}
		if !applied {
			return LedgerEntry{}, l.rejection(ctx, products, productID, value)
		}
		return LedgerEntry{ProductID: productID, Previous: current - value, Current: current}, nil

	case Absolute:
		if value < 0 {
			return LedgerEntry{}, domain.ErrInvalidQuantity
		}
		previous, err := products.SetQuantity(ctx, productID, value, now)
		if err != nil {
			return LedgerEntry{}, err
		}
		return LedgerEntry{ProductID: productID, Previous: previous, Current: value}, nil
	}
	return LedgerEntry{}, domain.ErrInvalidInput
}

// rejection explica por qué la actualización condicionada no afectó filas.
// La lectura ocurre dentro de la misma unidad atómica, que de todos modos se revertirá.
func (l *StockLedger) rejection(ctx context.Context, products repository.ProductRepository, productID string, delta int64) error {
	available, err := products.Quantity(ctx, productID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrNotFound
	}
	if err != nil {
		available = -1
	}
	return &domain.StockError{ProductID: productID, Requested: -delta, Available: available}
}
