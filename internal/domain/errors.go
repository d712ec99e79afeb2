package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrTimeout           = errors.New("tiempo de transacción agotado")
	ErrStore             = errors.New("error de almacenamiento")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
)

// Errores de validación: todos envuelven ErrInvalidInput y se detectan antes de abrir la transacción.
var (
	ErrEmptyOrder          = fmt.Errorf("%w: la venta no tiene líneas", ErrInvalidInput)
	ErrEmptyBatch          = fmt.Errorf("%w: el lote no tiene líneas", ErrInvalidInput)
	ErrInsufficientPayment = fmt.Errorf("%w: el pago no cubre el total", ErrInvalidInput)
	ErrTotalMismatch       = fmt.Errorf("%w: el total no coincide con las líneas", ErrInvalidInput)
	ErrInvalidLine         = fmt.Errorf("%w: línea inválida", ErrInvalidInput)
)

// Causas concretas de una línea inválida (errors.Is(err, ErrInvalidLine) también es cierto).
var (
	ErrInvalidQuantity     = fmt.Errorf("%w: cantidad inválida", ErrInvalidLine)
	ErrMissingCounterparty = fmt.Errorf("%w: falta proveedor o destino", ErrInvalidLine)
	ErrInactiveProduct     = fmt.Errorf("%w: producto inactivo", ErrInvalidLine)
)

// LineError identifica la línea (posición en la petición) que provocó el fallo.
type LineError struct {
	Index     int
	ProductID string
	Err       error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("línea %d (producto %s): %v", e.Index+1, e.ProductID, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// StockError detalla un descuento rechazado por el guardia de stock.
// Available es -1 cuando no se pudo leer la cantidad disponible.
type StockError struct {
	ProductID string
	Requested int64
	Available int64
}

func (e *StockError) Error() string {
	if e.Available < 0 {
		return fmt.Sprintf("stock insuficiente para %s: solicitado %d", e.ProductID, e.Requested)
	}
	return fmt.Sprintf("stock insuficiente para %s: solicitado %d, disponible %d", e.ProductID, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// NewLineError envuelve err con la posición y el producto de la línea.
func NewLineError(index int, productID string, err error) error {
	return &LineError{Index: index, ProductID: productID, Err: err}
}

// IsBusiness indica si el error pertenece a la taxonomía de negocio
// (validación, no encontrado, stock, conflicto, timeout) y no a un fallo interno.
func IsBusiness(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden)
}
