package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jhoicas/pos-beras/internal/domain/inventory"
	"github.com/jhoicas/pos-beras/internal/domain/repository"
	"github.com/jhoicas/pos-beras/internal/infrastructure/reportsql"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para reportes.
type ReportRepo struct {
	q       pgxscan.Querier
	queries reportsql.Builder
}

// NewReportRepository construye el adaptador de reportes. Pasar el pool.
func NewReportRepository(q pgxscan.Querier) *ReportRepo {
	return &ReportRepo{q: q, queries: reportsql.New(sq.Dollar)}
}

func (r *ReportRepo) get(ctx context.Context, dst any, build func() (string, []any, error)) error {
	query, args, err := build()
	if err != nil {
		return fmt.Errorf("build report query: %w", err)
	}
	return pgxscan.Get(ctx, r.q, dst, query, args...)
}

func (r *ReportRepo) sel(ctx context.Context, dst any, build func() (string, []any, error)) error {
	query, args, err := build()
	if err != nil {
		return fmt.Errorf("build report query: %w", err)
	}
	return pgxscan.Select(ctx, r.q, dst, query, args...)
}

// SalesTotals totales de ventas en [from, to).
func (r *ReportRepo) SalesTotals(ctx context.Context, from, to time.Time) (repository.SalesTotals, error) {
	var out repository.SalesTotals
	err := r.get(ctx, &out, func() (string, []any, error) { return r.queries.SalesTotals(from, to) })
	if err != nil {
		return out, fmt.Errorf("sales totals: %w", err)
	}
	return out, nil
}

// ReturnTotals totales de devoluciones en [from, to).
func (r *ReportRepo) ReturnTotals(ctx context.Context, from, to time.Time) (repository.ReturnTotals, error) {
	var out repository.ReturnTotals
	err := r.get(ctx, &out, func() (string, []any, error) { return r.queries.ReturnTotals(from, to) })
	if err != nil {
		return out, fmt.Errorf("return totals: %w", err)
	}
	return out, nil
}

// ProductSales ventas por producto en [from, to).
func (r *ReportRepo) ProductSales(ctx context.Context, from, to time.Time, limit int) ([]repository.ProductSalesRow, error) {
	var out []repository.ProductSalesRow
	err := r.sel(ctx, &out, func() (string, []any, error) { return r.queries.ProductSales(from, to, limit) })
	if err != nil {
		return nil, fmt.Errorf("product sales: %w", err)
	}
	return out, nil
}

// CustomerCategories clientes por categoría.
func (r *ReportRepo) CustomerCategories(ctx context.Context) ([]repository.CategoryCount, error) {
	var out []repository.CategoryCount
	if err := r.sel(ctx, &out, r.queries.CustomerCategories); err != nil {
		return nil, fmt.Errorf("customer categories: %w", err)
	}
	return out, nil
}

// SaleHeaders total y fecha de las ventas en [from, to).
func (r *ReportRepo) SaleHeaders(ctx context.Context, from, to time.Time) ([]repository.HeaderRow, error) {
	var out []repository.HeaderRow
	err := r.sel(ctx, &out, func() (string, []any, error) { return r.queries.SaleHeaders(from, to) })
	if err != nil {
		return nil, fmt.Errorf("sale headers: %w", err)
	}
	return out, nil
}

// SaleReturnHeaders total y fecha de las devoluciones de cliente en [from, to).
func (r *ReportRepo) SaleReturnHeaders(ctx context.Context, from, to time.Time) ([]repository.HeaderRow, error) {
	var out []repository.HeaderRow
	err := r.sel(ctx, &out, func() (string, []any, error) { return r.queries.SaleReturnHeaders(from, to) })
	if err != nil {
		return nil, fmt.Errorf("sale return headers: %w", err)
	}
	return out, nil
}

// Reconciliation identidad de conservación por producto.
func (r *ReportRepo) Reconciliation(ctx context.Context, productID string) ([]inventory.Reconciliation, error) {
	var out []inventory.Reconciliation
	err := r.sel(ctx, &out, func() (string, []any, error) { return r.queries.Reconciliation(productID) })
	if err != nil {
		return nil, fmt.Errorf("reconciliation: %w", err)
	}
	return out, nil
}
