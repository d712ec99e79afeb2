package dto

// ReceiptRequest body para POST /api/stock/receipts (una línea).
type ReceiptRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Supplier  string `json:"supplier"`
	UnitCost  *int64 `json:"unit_cost,omitempty"` // recalcula costo promedio ponderado
	Note      string `json:"note,omitempty"`
}

// ReceiptBatchRequest body para POST /api/stock/receipts/batch.
type ReceiptBatchRequest struct {
	Items []ReceiptRequest `json:"items"`
}

// TransferItemRequest línea de traslado a otra sucursal.
type TransferItemRequest struct {
	ProductID   string `json:"product_id"`
	Quantity    int64  `json:"quantity"`
	Destination string `json:"destination"`
	Note        string `json:"note,omitempty"`
}

// TransferRequest body para POST /api/stock/transfers.
type TransferRequest struct {
	Items []TransferItemRequest `json:"items"`
}

// SetStockRequest body para PUT /api/products/:id/stock.
type SetStockRequest struct {
	Quantity *int64 `json:"quantity"`
	Note     string `json:"note,omitempty"`
}

// MovementResponse ids de los movimientos registrados en un lote.
type MovementResponse struct {
	BatchID     string        `json:"batch_id"`
	MovementID  string        `json:"movement_id,omitempty"` // solo entrada simple
	MovementIDs []string      `json:"movement_ids"`
	Stock       []StockChange `json:"stock"`
	State       string        `json:"state"`
}

// StockChange cantidad antes y después de aplicar el movimiento.
type StockChange struct {
	ProductID string `json:"product_id"`
	Previous  int64  `json:"previous"`
	Current   int64  `json:"current"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto en o bajo su mínimo.
type ReplenishmentSuggestionDTO struct {
	ProductID           string `json:"product_id"`
	ProductName         string `json:"product_name"`
	Category            string `json:"category,omitempty"`
	CurrentStock        int64  `json:"current_stock"`
	MinQty              int64  `json:"min_qty"`
	IdealStock          int64  `json:"ideal_stock"`          // MinQty * 1.5, redondeado hacia arriba
	SuggestedOrderQty   int64  `json:"suggested_order_qty"`  // IdealStock - CurrentStock
	UnitCost            int64  `json:"unit_cost"`            // costo promedio ponderado
	EstimatedOrderCost  int64  `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	GrossMarginPct      int64  `json:"gross_margin_pct"`
	UnitsSoldLast90Days int64  `json:"units_sold_last_90d"`
	Priority            int    `json:"priority"` // 1 = más urgente
}
