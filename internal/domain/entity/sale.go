package entity

import "time"

// Sale cabecera de una venta. Inmutable: solo se revierte con un Return.
type Sale struct {
	ID         string
	Code       string // prefijo + ddmmyyyy + sufijo aleatorio de 4 dígitos, único
	Buyer      string // opcional
	CustomerID string // opcional
	CashierID  string
	Total      Money
	Tendered   Money
	Change     Money
	CreatedAt  time.Time
}

// SaleLine línea de una venta. UnitCost es el costo del producto al momento de la venta;
// los reportes de utilidad usan este valor y no el costo actual.
type SaleLine struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int64
	UnitPrice Money
	UnitCost  Money
	Subtotal  Money
}
