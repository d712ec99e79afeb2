package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-beras/internal/domain/entity"
	"github.com/jhoicas/pos-beras/internal/domain/inventory"
)

// SalesTotals totales crudos de ventas confirmadas en un período.
type SalesTotals struct {
	Gross        entity.Money `db:"gross"`
	Cost         entity.Money `db:"cost"` // qty * costo histórico de la línea
	Units        int64        `db:"units"`
	Transactions int64        `db:"transactions"`
}

// ReturnTotals totales crudos de devoluciones en un período.
type ReturnTotals struct {
	SaleReturns     entity.Money `db:"sale_returns"`
	PurchaseReturns entity.Money `db:"purchase_returns"`
	UnitsIn         int64        `db:"units_in"`
	UnitsOut        int64        `db:"units_out"`
}

// ProductSalesRow ventas agregadas por producto, con costo histórico.
type ProductSalesRow struct {
	ProductID   string       `db:"product_id"`
	ProductName string       `db:"product_name"`
	Category    string       `db:"category"`
	Units       int64        `db:"units"`
	Revenue     entity.Money `db:"revenue"`
	Cost        entity.Money `db:"cost"`
}

// CategoryCount número de clientes por categoría.
type CategoryCount struct {
	Category string `db:"category"`
	Count    int64  `db:"customers"`
}

// HeaderRow monto y fecha de un documento, para agregaciones por mes en la zona de la tienda.
type HeaderRow struct {
	Total     entity.Money `db:"total"`
	CreatedAt time.Time    `db:"created_at"`
}

// ReportRepository consultas de solo lectura para reportes. Rangos semiabiertos [from, to).
type ReportRepository interface {
	SalesTotals(ctx context.Context, from, to time.Time) (SalesTotals, error)
	ReturnTotals(ctx context.Context, from, to time.Time) (ReturnTotals, error)
	// ProductSales ordenado por unidades desc, luego product_id. limit <= 0 = sin límite.
	ProductSales(ctx context.Context, from, to time.Time, limit int) ([]ProductSalesRow, error)
	CustomerCategories(ctx context.Context) ([]CategoryCount, error)
	SaleHeaders(ctx context.Context, from, to time.Time) ([]HeaderRow, error)
	SaleReturnHeaders(ctx context.Context, from, to time.Time) ([]HeaderRow, error)
	// Reconciliation identidad de conservación; productID vacío = todos los productos.
	Reconciliation(ctx context.Context, productID string) ([]inventory.Reconciliation, error)
}
