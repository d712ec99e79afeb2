package dto

import "time"

// SaleLineRequest línea de venta. UnitPrice 0 usa el precio de catálogo.
type SaleLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price,omitempty"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	Buyer      string            `json:"buyer,omitempty"`
	CustomerID string            `json:"customer_id,omitempty"`
	Tendered   int64             `json:"tendered,omitempty"` // 0 = pago exacto
	Total      *int64            `json:"total,omitempty"`    // total calculado por la caja, se verifica
	Lines      []SaleLineRequest `json:"lines"`
}

// CreateSaleResponse respuesta de una venta confirmada.
type CreateSaleResponse struct {
	TransactionID string `json:"transaction_id"`
	Code          string `json:"code"`
	Total         int64  `json:"total"`
	Tendered      int64  `json:"tendered"`
	Change        int64  `json:"change"`
	State         string `json:"state"`
}

// SaleLineResponse línea de una venta.
type SaleLineResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Subtotal  int64  `json:"subtotal"`
}

// SaleResponse venta con sus líneas.
type SaleResponse struct {
	ID         string             `json:"id"`
	Code       string             `json:"code"`
	Buyer      string             `json:"buyer,omitempty"`
	CustomerID string             `json:"customer_id,omitempty"`
	CashierID  string             `json:"cashier_id,omitempty"`
	Total      int64              `json:"total"`
	Tendered   int64              `json:"tendered"`
	Change     int64              `json:"change"`
	CreatedAt  time.Time          `json:"created_at"`
	Lines      []SaleLineResponse `json:"lines"`
}
