package entity

import "time"

// MovementKind tipo de movimiento de stock.
type MovementKind string

const (
	MovementReceipt    MovementKind = "receipt"    // entrada de proveedor
	MovementTransfer   MovementKind = "transfer"   // salida a otra sucursal
	MovementAdjustment MovementKind = "adjustment" // corrección manual o stock inicial
)

// Sign signo del delta que aplica el tipo de movimiento; 0 = lo decide el ajuste.
func (k MovementKind) Sign() int64 {
	switch k {
	case MovementReceipt:
		return 1
	case MovementTransfer:
		return -1
	default:
		return 0
	}
}

// StockMovement registro inmutable de una entrada, salida o ajuste de un producto.
// Una operación de varias líneas genera un movimiento por línea con el mismo BatchID.
type StockMovement struct {
	ID           string
	BatchID      string
	ProductID    string
	Kind         MovementKind
	Delta        int64  // con signo
	Counterparty string // proveedor o sucursal destino
	Note         string
	CreatedBy    string
	CreatedAt    time.Time
}
