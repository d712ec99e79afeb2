// Package reportsql arma las consultas de reportes con squirrel. El SQL es común a
// PostgreSQL y SQLite; cada almacenamiento elige el formato de placeholders y el escáner.
package reportsql

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

// Builder consultas de reportes para un dialecto.
type Builder struct {
	sb sq.StatementBuilderType
}

// New construye el builder con el formato de placeholders del dialecto
// (sq.Dollar para PostgreSQL, sq.Question para SQLite).
func New(format sq.PlaceholderFormat) Builder {
	return Builder{sb: sq.StatementBuilder.PlaceholderFormat(format)}
}

func inRange(column string, from, to time.Time) sq.And {
	return sq.And{sq.GtOrEq{column: from.UTC()}, sq.Lt{column: to.UTC()}}
}

// SalesTotals ventas brutas, costo histórico, unidades y número de ventas en [from, to).
func (b Builder) SalesTotals(from, to time.Time) (string, []any, error) {
	return b.sb.Select(
		"CAST(COALESCE(SUM(i.subtotal), 0) AS BIGINT) AS gross",
		"CAST(COALESCE(SUM(i.qty * i.unit_cost), 0) AS BIGINT) AS cost",
		"CAST(COALESCE(SUM(i.qty), 0) AS BIGINT) AS units",
		"COUNT(DISTINCT s.id) AS transactions",
	).
		From("sales s").
		Join("sale_items i ON i.sale_id = s.id").
		Where(inRange("s.created_at", from, to)).
		ToSql()
}

// ReturnTotals montos y unidades de devoluciones por tipo en [from, to).
func (b Builder) ReturnTotals(from, to time.Time) (string, []any, error) {
	return b.sb.Select(
		"CAST(COALESCE(SUM(CASE WHEN r.kind = 'sale' THEN i.subtotal END), 0) AS BIGINT) AS sale_returns",
		"CAST(COALESCE(SUM(CASE WHEN r.kind = 'purchase' THEN i.subtotal END), 0) AS BIGINT) AS purchase_returns",
		"CAST(COALESCE(SUM(CASE WHEN r.kind = 'sale' THEN i.qty END), 0) AS BIGINT) AS units_in",
		"CAST(COALESCE(SUM(CASE WHEN r.kind = 'purchase' THEN i.qty END), 0) AS BIGINT) AS units_out",
	).
		From("returns r").
		Join("return_items i ON i.return_id = r.id").
		Where(inRange("r.created_at", from, to)).
		ToSql()
}

// ProductSales ventas agregadas por producto, ordenadas por unidades y luego id.
// limit <= 0 no limita.
func (b Builder) ProductSales(from, to time.Time, limit int) (string, []any, error) {
	q := b.sb.Select(
		"p.id AS product_id",
		"p.name AS product_name",
		"p.category AS category",
		"CAST(SUM(i.qty) AS BIGINT) AS units",
		"CAST(SUM(i.subtotal) AS BIGINT) AS revenue",
		"CAST(SUM(i.qty * i.unit_cost) AS BIGINT) AS cost",
	).
		From("sale_items i").
		Join("sales s ON s.id = i.sale_id").
		Join("products p ON p.id = i.product_id").
		Where(inRange("s.created_at", from, to)).
		GroupBy("p.id", "p.name", "p.category").
		OrderBy("units DESC", "p.id")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return q.ToSql()
}

// CustomerCategories clientes por categoría.
func (b Builder) CustomerCategories() (string, []any, error) {
	return b.sb.Select("category", "COUNT(*) AS customers").
		From("customers").
		GroupBy("category").
		OrderBy("customers DESC", "category").
		ToSql()
}

// SaleHeaders total y fecha de cada venta en [from, to).
func (b Builder) SaleHeaders(from, to time.Time) (string, []any, error) {
	return b.sb.Select("total", "created_at").
		From("sales").
		Where(inRange("created_at", from, to)).
		OrderBy("created_at").
		ToSql()
}

// SaleReturnHeaders total y fecha de cada devolución de cliente en [from, to).
func (b Builder) SaleReturnHeaders(from, to time.Time) (string, []any, error) {
	return b.sb.Select("total", "created_at").
		From("returns").
		Where(sq.Eq{"kind": "sale"}).
		Where(inRange("created_at", from, to)).
		OrderBy("created_at").
		ToSql()
}

// Reconciliation componentes de la identidad de conservación por producto.
// productID vacío incluye todos.
func (b Builder) Reconciliation(productID string) (string, []any, error) {
	q := b.sb.Select(
		"p.id AS product_id",
		"p.name AS product_name",
		"CAST(COALESCE((SELECT SUM(m.delta) FROM stock_movements m WHERE m.product_id = p.id), 0) AS BIGINT) AS movements",
		"CAST(COALESCE((SELECT SUM(ri.qty) FROM return_items ri JOIN returns r ON r.id = ri.return_id WHERE ri.product_id = p.id AND r.kind = 'sale'), 0) AS BIGINT) AS returned_in",
		"CAST(COALESCE((SELECT SUM(ri.qty) FROM return_items ri JOIN returns r ON r.id = ri.return_id WHERE ri.product_id = p.id AND r.kind = 'purchase'), 0) AS BIGINT) AS returned_out",
		"CAST(COALESCE((SELECT SUM(si.qty) FROM sale_items si WHERE si.product_id = p.id), 0) AS BIGINT) AS sold",
		"p.qty AS on_hand",
	).
		From("products p").
		OrderBy("p.name", "p.id")
	if productID != "" {
		q = q.Where(sq.Eq{"p.id": productID})
	}
	return q.ToSql()
}
