package dto

import "time"

// CreateProductRequest entrada para crear un producto con su stock inicial.
type CreateProductRequest struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	UnitPrice  int64  `json:"unit_price"`
	Cost       int64  `json:"cost"`
	MinQty     int64  `json:"min_qty"`
	OpeningQty int64  `json:"opening_qty"`
}

// UpdateProductRequest entrada para actualizar un producto (sin costo ni stock).
type UpdateProductRequest struct {
	Name      *string `json:"name"`
	Category  *string `json:"category"`
	UnitPrice *int64  `json:"unit_price"`
	MinQty    *int64  `json:"min_qty"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	UnitPrice int64     `json:"unit_price"`
	Cost      int64     `json:"cost"`
	Quantity  int64     `json:"quantity"`
	MinQty    int64     `json:"min_qty"`
	Status    string    `json:"status"`
	LowStock  bool      `json:"low_stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
