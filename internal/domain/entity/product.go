package entity

import "time"

// ProductStatus estado de catálogo. Los inactivos no se venden ni aparecen en el catálogo,
// pero se conservan para las líneas históricas.
type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductInactive ProductStatus = "inactive"
)

// Valid indica si el estado es uno de los conocidos.
func (s ProductStatus) Valid() bool {
	return s == ProductActive || s == ProductInactive
}

// Product representa un producto (saco de beras, minyak, etc.).
// Quantity solo cambia a través del libro de stock (StockLedger).
type Product struct {
	ID        string
	Name      string
	Category  string
	UnitPrice Money // precio de venta
	Cost      Money // costo promedio ponderado
	Quantity  int64 // stock disponible, nunca negativo
	MinQty    int64 // umbral de stock mínimo
	Status    ProductStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Active indica si el producto puede venderse.
func (p *Product) Active() bool {
	return p.Status == ProductActive
}

// BelowMinimum indica si el stock está en o por debajo del umbral.
func (p *Product) BelowMinimum() bool {
	return p.Quantity <= p.MinQty
}
