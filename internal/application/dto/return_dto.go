package dto

// ReturnLineRequest línea de devolución. UnitPrice 0 usa el precio de la venta original
// (o el costo, si es devolución a proveedor).
type ReturnLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price,omitempty"`
}

// CreateReturnRequest body para POST /api/returns.
type CreateReturnRequest struct {
	Kind      string              `json:"kind"`      // sale | purchase
	Reference string              `json:"reference"` // id o código de la venta; libre para proveedor
	Supplier  string              `json:"supplier,omitempty"`
	Note      string              `json:"note,omitempty"`
	Lines     []ReturnLineRequest `json:"lines"`
}

// CreateReturnResponse respuesta de una devolución registrada.
type CreateReturnResponse struct {
	ReturnID  string        `json:"return_id"`
	Kind      string        `json:"kind"`
	Reference string        `json:"reference"`
	Total     int64         `json:"total"`
	Stock     []StockChange `json:"stock"`
	State     string        `json:"state"`
}
