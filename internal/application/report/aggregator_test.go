package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/pos-beras/internal/domain"
	"github.com/jhoicas/pos-beras/internal/domain/inventory"
	"github.com/jhoicas/pos-beras/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReportRepo struct {
	sales      repository.SalesTotals
	returns    repository.ReturnTotals
	products   []repository.ProductSalesRow
	categories []repository.CategoryCount
	headers    []repository.HeaderRow
	retHeaders []repository.HeaderRow
	recon      []inventory.Reconciliation
	err        error

	lastLimit int
}

func (f *fakeReportRepo) SalesTotals(context.Context, time.Time, time.Time) (repository.SalesTotals, error) {
	return f.sales, f.err
}

func (f *fakeReportRepo) ReturnTotals(context.Context, time.Time, time.Time) (repository.ReturnTotals, error) {
	return f.returns, nil
}

func (f *fakeReportRepo) ProductSales(_ context.Context, _, _ time.Time, limit int) ([]repository.ProductSalesRow, error) {
	f.lastLimit = limit
	if limit > 0 && limit < len(f.products) {
		return f.products[:limit], nil
	}
	return f.products, nil
}

func (f *fakeReportRepo) CustomerCategories(context.Context) ([]repository.CategoryCount, error) {
	return f.categories, nil
}

func (f *fakeReportRepo) SaleHeaders(context.Context, time.Time, time.Time) ([]repository.HeaderRow, error) {
	return f.headers, nil
}

func (f *fakeReportRepo) SaleReturnHeaders(context.Context, time.Time, time.Time) ([]repository.HeaderRow, error) {
	return f.retHeaders, nil
}

func (f *fakeReportRepo) Reconciliation(_ context.Context, productID string) ([]inventory.Reconciliation, error) {
	if productID == "" {
		return f.recon, nil
	}
	var out []inventory.Reconciliation
	for _, r := range f.recon {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func jakarta(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	return loc
}

func TestSummary(t *testing.T) {
	repo := &fakeReportRepo{
		sales:   repository.SalesTotals{Gross: 100000, Cost: 70000, Units: 12, Transactions: 3},
		returns: repository.ReturnTotals{SaleReturns: 3000, PurchaseReturns: 5000},
	}
	a := NewAggregator(repo, time.UTC, 0)
	r := Day(time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC), time.UTC)

	got, err := a.Summary(context.Background(), r)
	require.NoError(t, err)

	assert.Equal(t, int64(100000), got.GrossSales)
	assert.Equal(t, int64(97000), got.NetSales)
	assert.Equal(t, int64(5000), got.PurchaseReturns)
	assert.Equal(t, int64(33333), got.AverageTicket)
	assert.Equal(t, int64(30000), got.Profit)
	assert.Equal(t, int64(30), got.MarginPct)
	assert.Equal(t, "2026-10-18", got.Range.From)
	assert.Equal(t, "2026-10-18", got.Range.To)

	again, err := a.Summary(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestSummary_SinVentas(t *testing.T) {
	a := NewAggregator(&fakeReportRepo{}, time.UTC, 0)
	got, err := a.Summary(context.Background(), Day(time.Now(), time.UTC))
	require.NoError(t, err)
	assert.Zero(t, got.AverageTicket)
	assert.Zero(t, got.MarginPct)
}

func TestSummary_ErrorDeRepositorio(t *testing.T) {
	boom := errors.New("boom")
	a := NewAggregator(&fakeReportRepo{err: boom}, time.UTC, 0)
	_, err := a.Summary(context.Background(), Day(time.Now(), time.UTC))
	assert.ErrorIs(t, err, boom)
}

func TestProductProfit_UsaCostoHistorico(t *testing.T) {
	repo := &fakeReportRepo{products: []repository.ProductSalesRow{
		{ProductID: "a", ProductName: "Beras Pandan", Units: 10, Revenue: 120000, Cost: 100000},
		{ProductID: "b", ProductName: "Beras Merah", Units: 2, Revenue: 50000, Cost: 20000},
	}}
	a := NewAggregator(repo, time.UTC, 0)

	got, err := a.ProductProfit(context.Background(), Day(time.Now(), time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ProductID)
	assert.Equal(t, int64(30000), got[0].Profit)
	assert.Equal(t, int64(60), got[0].MarginPct)
	assert.Equal(t, int64(20000), got[1].Profit)
	assert.Equal(t, int64(17), got[1].MarginPct) // 16.67
}

func TestTopProducts(t *testing.T) {
	repo := &fakeReportRepo{
		sales: repository.SalesTotals{Units: 30},
		products: []repository.ProductSalesRow{
			{ProductID: "a", Units: 20},
			{ProductID: "b", Units: 7},
			{ProductID: "c", Units: 3},
		},
	}
	a := NewAggregator(repo, time.UTC, 2)

	got, err := a.TopProducts(context.Background(), Day(time.Now(), time.UTC), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.lastLimit)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, int64(67), got[0].SharePct)
	assert.Equal(t, int64(23), got[1].SharePct)

	_, err = a.TopProducts(context.Background(), Day(time.Now(), time.UTC), 1000)
	require.NoError(t, err)
	assert.Equal(t, maxTopN, repo.lastLimit)
}

func TestCustomerCategories(t *testing.T) {
	repo := &fakeReportRepo{categories: []repository.CategoryCount{
		{Category: "eceran", Count: 2},
		{Category: "grosir", Count: 1},
		{Category: "", Count: 0},
	}}
	a := NewAggregator(repo, time.UTC, 0)

	got, err := a.CustomerCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, int64(67), got[0].Percent)
	assert.Equal(t, int64(33), got[1].Percent)
	assert.Equal(t, uncategorized, got[2].Category)
	assert.Equal(t, int64(0), got[2].Percent)
}

func TestMonthly_ZonaDeLaTienda(t *testing.T) {
	loc := jakarta(t)
	repo := &fakeReportRepo{
		headers: []repository.HeaderRow{
			{Total: 1000, CreatedAt: time.Date(2026, 8, 31, 18, 0, 0, 0, time.UTC)}, // 1 sep en Jakarta
			{Total: 2000, CreatedAt: time.Date(2026, 8, 15, 3, 0, 0, 0, time.UTC)},
		},
		retHeaders: []repository.HeaderRow{
			{Total: 500, CreatedAt: time.Date(2026, 9, 2, 3, 0, 0, 0, time.UTC)},
		},
	}
	a := NewAggregator(repo, loc, 0)
	r, err := ParseRange("2026-08-01", "2026-10-31", time.Now(), loc)
	require.NoError(t, err)

	got, err := a.Monthly(context.Background(), r)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "2026-08", got[0].Month)
	assert.Equal(t, int64(2000), got[0].GrossSales)
	assert.Equal(t, int64(1000), got[1].GrossSales)
	assert.Equal(t, int64(500), got[1].NetSales)
	assert.Equal(t, int64(0), got[2].Transactions)
}

func TestReconcile(t *testing.T) {
	repo := &fakeReportRepo{recon: []inventory.Reconciliation{
		{ProductID: "a", Movements: 70, Sold: 10, ReturnedIn: 3, OnHand: 63},
		{ProductID: "b", Movements: 5, OnHand: 4},
	}}
	a := NewAggregator(repo, time.UTC, 0)

	got, err := a.Reconcile(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Balanced)
	assert.False(t, got[1].Balanced)
	assert.Equal(t, int64(-1), got[1].Drift)

	_, err = a.Reconcile(context.Background(), "zzz")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestParseRange(t *testing.T) {
	loc := jakarta(t)
	now := time.Date(2026, 10, 17, 20, 0, 0, 0, time.UTC) // 18 oct en Jakarta

	r, err := ParseRange("", "", now, loc)
	require.NoError(t, err)
	from, to := r.Label()
	assert.Equal(t, "2026-10-18", from)
	assert.Equal(t, "2026-10-18", to)
	assert.Equal(t, 24*time.Hour, r.To.Sub(r.From))

	r, err = ParseRange("2026-10-01", "", now, loc)
	require.NoError(t, err)
	from, to = r.Label()
	assert.Equal(t, "2026-10-01", from)
	assert.Equal(t, "2026-10-18", to)

	r, err = ParseRange("", "2026-09-30", now, loc)
	require.NoError(t, err)
	from, _ = r.Label()
	assert.Equal(t, "2026-09-30", from)

	_, err = ParseRange("18-10-2026", "", now, loc)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = ParseRange("2026-10-10", "2026-10-01", now, loc)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
