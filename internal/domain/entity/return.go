package entity

import "time"

// ReturnKind tipo de devolución.
type ReturnKind string

const (
	ReturnSale     ReturnKind = "sale"     // el cliente devuelve: stock entra
	ReturnPurchase ReturnKind = "purchase" // se devuelve al proveedor: stock sale
)

// Sign signo del delta de stock que produce la devolución.
func (k ReturnKind) Sign() int64 {
	if k == ReturnPurchase {
		return -1
	}
	return 1
}

// Valid indica si el tipo es uno de los conocidos.
func (k ReturnKind) Valid() bool {
	return k == ReturnSale || k == ReturnPurchase
}

// Return cabecera de una devolución.
type Return struct {
	ID        string
	Kind      ReturnKind
	SaleID    string // venta original (solo devoluciones de venta)
	Reference string // código de la venta o referencia libre
	Supplier  string // solo devoluciones a proveedor
	Total     Money
	Note      string
	CreatedBy string
	CreatedAt time.Time
	Lines     []ReturnLine
}

// ReturnLine producto devuelto.
type ReturnLine struct {
	ID        string
	ReturnID  string
	ProductID string
	Quantity  int64
	UnitPrice Money
	Subtotal  Money
}
