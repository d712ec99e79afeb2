package sqlite

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/jhoicas/pos-beras/internal/domain/inventory"
	"github.com/jhoicas/pos-beras/internal/domain/repository"
	"github.com/jhoicas/pos-beras/internal/infrastructure/reportsql"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para reportes.
type ReportRepo struct {
	q       sqlscan.Querier
	queries reportsql.Builder
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q sqlscan.Querier) *ReportRepo {
	return &ReportRepo{q: q, queries: reportsql.New(sq.Question)}
}

func (r *ReportRepo) get(ctx context.Context, dst any, query string, args []any, err error) error {
	if err != nil {
		return fmt.Errorf("build report query: %w", err)
	}
	return sqlscan.Get(ctx, r.q, dst, query, args...)
}

func (r *ReportRepo) sel(ctx context.Context, dst any, query string, args []any, err error) error {
	if err != nil {
		return fmt.Errorf("build report query: %w", err)
	}
	return sqlscan.Select(ctx, r.q, dst, query, args...)
}

// SalesTotals totales de ventas en [from, to).
func (r *ReportRepo) SalesTotals(ctx context.Context, from, to time.Time) (repository.SalesTotals, error) {
	var out repository.SalesTotals
	query, args, err := r.queries.SalesTotals(from, to)
	if err := r.get(ctx, &out, query, args, err); err != nil {
		return out, fmt.Errorf("sales totals: %w", err)
	}
	return out, nil
}

// ReturnTotals totales de devoluciones en [from, to).
func (r *ReportRepo) ReturnTotals(ctx context.Context, from, to time.Time) (repository.ReturnTotals, error) {
	var out repository.ReturnTotals
	query, args, err := r.queries.ReturnTotals(from, to)
	if err := r.get(ctx, &out, query, args, err); err != nil {
		return out, fmt.Errorf("return totals: %w", err)
	}
	return out, nil
}

// ProductSales ventas por producto en [from, to).
func (r *ReportRepo) ProductSales(ctx context.Context, from, to time.Time, limit int) ([]repository.ProductSalesRow, error) {
	var out []repository.ProductSalesRow
	query, args, err := r.queries.ProductSales(from, to, limit)
	if err := r.sel(ctx, &out, query, args, err); err != nil {
		return nil, fmt.Errorf("product sales: %w", err)
	}
	return out, nil
}

// CustomerCategories clientes por categoría.
func (r *ReportRepo) CustomerCategories(ctx context.Context) ([]repository.CategoryCount, error) {
	var out []repository.CategoryCount
	query, args, err := r.queries.CustomerCategories()
	if err := r.sel(ctx, &out, query, args, err); err != nil {
		return nil, fmt.Errorf("customer categories: %w", err)
	}
	return out, nil
}

// SaleHeaders total y fecha de las ventas en [from, to).
func (r *ReportRepo) SaleHeaders(ctx context.Context, from, to time.Time) ([]repository.HeaderRow, error) {
	var out []repository.HeaderRow
	query, args, err := r.queries.SaleHeaders(from, to)
	if err := r.sel(ctx, &out, query, args, err); err != nil {
		return nil, fmt.Errorf("sale headers: %w", err)
	}
	return out, nil
}

// SaleReturnHeaders total y fecha de las devoluciones de cliente en [from, to).
func (r *ReportRepo) SaleReturnHeaders(ctx context.Context, from, to time.Time) ([]repository.HeaderRow, error) {
	var out []repository.HeaderRow
	query, args, err := r.queries.SaleReturnHeaders(from, to)
	if err := r.sel(ctx, &out, query, args, err); err != nil {
		return nil, fmt.Errorf("sale return headers: %w", err)
	}
	return out, nil
}

// Reconciliation identidad de conservación por producto.
func (r *ReportRepo) Reconciliation(ctx context.Context, productID string) ([]inventory.Reconciliation, error) {
	var out []inventory.Reconciliation
	query, args, err := r.queries.Reconciliation(productID)
	if err := r.sel(ctx, &out, query, args, err); err != nil {
		return nil, fmt.Errorf("reconciliation: %w", err)
	}
	return out, nil
}
