package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/pos-beras/internal/application/dto"
	"github.com/jhoicas/pos-beras/internal/domain"
	"github.com/jhoicas/pos-beras/internal/domain/entity"
	"github.com/jhoicas/pos-beras/internal/domain/repository"
	"github.com/shopspring/decimal"
)

const (
	maxTopN       = 200
	uncategorized = "sin categoría"
)

// Aggregator calcula reportes de solo lectura sobre ventas, devoluciones y stock.
// No escribe nada: la misma consulta sobre los mismos datos devuelve lo mismo.
type Aggregator struct {
	repo  repository.ReportRepository
	loc   *time.Location
	topN  int
	clock func() time.Time
}

// NewAggregator construye el agregador. loc es la zona horaria de la tienda.
func NewAggregator(repo repository.ReportRepository, loc *time.Location, topN int) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	if topN <= 0 {
		topN = 10
	}
	return &Aggregator{repo: repo, loc: loc, topN: topN, clock: time.Now}
}

// Range interpreta las fechas de una petición; vacías = hoy.
func (a *Aggregator) Range(from, to string) (Range, error) {
	return ParseRange(from, to, a.clock(), a.loc)
}

func rangeDTO(r Range) dto.RangeDTO {
	from, to := r.Label()
	return dto.RangeDTO{From: from, To: to}
}

// Summary totales del período: ventas brutas, devoluciones, netas, ticket promedio y utilidad.
func (a *Aggregator) Summary(ctx context.Context, r Range) (*dto.SummaryDTO, error) {
	// Consultas independientes en paralelo
	type salesResult struct {
		totals repository.SalesTotals
		err    error
	}
	type returnsResult struct {
		totals repository.ReturnTotals
		err    error
	}
	salesCh := make(chan salesResult, 1)
	returnsCh := make(chan returnsResult, 1)
	go func() {
		t, err := a.repo.SalesTotals(ctx, r.From, r.To)
		salesCh <- salesResult{t, err}
	}()
	go func() {
		t, err := a.repo.ReturnTotals(ctx, r.From, r.To)
		returnsCh <- returnsResult{t, err}
	}()
	sales, returns := <-salesCh, <-returnsCh
	if sales.err != nil {
		return nil, fmt.Errorf("totales de ventas: %w", sales.err)
	}
	if returns.err != nil {
		return nil, fmt.Errorf("totales de devoluciones: %w", returns.err)
	}

	s, rt := sales.totals, returns.totals
	profit := s.Gross - s.Cost
	out := &dto.SummaryDTO{
		Range:           rangeDTO(r),
		GrossSales:      int64(s.Gross),
		SaleReturns:     int64(rt.SaleReturns),
		PurchaseReturns: int64(rt.PurchaseReturns),
		NetSales:        int64(s.Gross - rt.SaleReturns),
		UnitsSold:       s.Units,
		Transactions:    s.Transactions,
		Profit:          int64(profit),
		MarginPct:       entity.Percent(int64(profit), int64(s.Gross)),
	}
	if s.Transactions > 0 {
		out.AverageTicket = s.Gross.Decimal().DivRound(decimal.NewFromInt(s.Transactions), 0).IntPart()
	}
	return out, nil
}

// ProductProfit utilidad por producto: (precio - costo capturado en la venta) * cantidad.
// Ordenado por utilidad descendente y luego por id de producto.
func (a *Aggregator) ProductProfit(ctx context.Context, r Range) ([]dto.ProductProfitDTO, error) {
	rows, err := a.repo.ProductSales(ctx, r.From, r.To, 0)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductProfitDTO, 0, len(rows))
	for _, row := range rows {
		profit := row.Revenue - row.Cost
		out = append(out, dto.ProductProfitDTO{
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			Category:    row.Category,
			Units:       row.Units,
			Revenue:     int64(row.Revenue),
			Cost:        int64(row.Cost),
			Profit:      int64(profit),
			MarginPct:   entity.Percent(int64(profit), int64(row.Revenue)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Profit != out[j].Profit {
			return out[i].Profit > out[j].Profit
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out, nil
}

// TopProducts los n productos más vendidos por unidades; empate por id de producto.
// n <= 0 usa el valor configurado.
func (a *Aggregator) TopProducts(ctx context.Context, r Range, n int) ([]dto.TopProductDTO, error) {
	if n <= 0 {
		n = a.topN
	}
	if n > maxTopN {
		n = maxTopN
	}
	totals, err := a.repo.SalesTotals(ctx, r.From, r.To)
	if err != nil {
		return nil, err
	}
	rows, err := a.repo.ProductSales(ctx, r.From, r.To, n)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TopProductDTO, 0, len(rows))
	for i, row := range rows {
		out = append(out, dto.TopProductDTO{
			Rank:        i + 1,
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			Units:       row.Units,
			Revenue:     int64(row.Revenue),
			SharePct:    entity.Percent(row.Units, totals.Units),
		})
	}
	return out, nil
}

// CustomerCategories distribución de clientes por categoría en porcentaje entero.
func (a *Aggregator) CustomerCategories(ctx context.Context) ([]dto.CategoryShareDTO, error) {
	rows, err := a.repo.CustomerCategories(ctx)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, row := range rows {
		total += row.Count
	}
	out := make([]dto.CategoryShareDTO, 0, len(rows))
	for _, row := range rows {
		category := row.Category
		if category == "" {
			category = uncategorized
		}
		out = append(out, dto.CategoryShareDTO{
			Category:  category,
			Customers: row.Count,
			Percent:   entity.Percent(row.Count, total),
		})
	}
	return out, nil
}

// Monthly acumulados por mes calendario en la zona de la tienda. Incluye los meses sin movimiento.
func (a *Aggregator) Monthly(ctx context.Context, r Range) ([]dto.MonthlyDTO, error) {
	sales, err := a.repo.SaleHeaders(ctx, r.From, r.To)
	if err != nil {
		return nil, err
	}
	returns, err := a.repo.SaleReturnHeaders(ctx, r.From, r.To)
	if err != nil {
		return nil, err
	}

	var out []dto.MonthlyDTO
	index := make(map[string]int)
	start := r.From.In(a.loc)
	last := r.To.In(a.loc).Add(-time.Nanosecond)
	for m := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, a.loc); !m.After(last); m = m.AddDate(0, 1, 0) {
		key := m.Format("2006-01")
		index[key] = len(out)
		out = append(out, dto.MonthlyDTO{Month: key})
	}

	for _, h := range sales {
		if i, ok := index[h.CreatedAt.In(a.loc).Format("2006-01")]; ok {
			out[i].GrossSales += int64(h.Total)
			out[i].Transactions++
		}
	}
	for _, h := range returns {
		if i, ok := index[h.CreatedAt.In(a.loc).Format("2006-01")]; ok {
			out[i].SaleReturns += int64(h.Total)
		}
	}
	for i := range out {
		out[i].NetSales = out[i].GrossSales - out[i].SaleReturns
	}
	return out, nil
}

// Reconcile verifica movimientos + devoluciones - vendido = stock actual.
// productID vacío revisa todos los productos.
func (a *Aggregator) Reconcile(ctx context.Context, productID string) ([]dto.ReconciliationDTO, error) {
	rows, err := a.repo.Reconciliation(ctx, productID)
	if err != nil {
		return nil, err
	}
	if productID != "" && len(rows) == 0 {
		return nil, domain.ErrNotFound
	}
	out := make([]dto.ReconciliationDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.ReconciliationDTO{
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			Movements:   row.Movements,
			ReturnedIn:  row.ReturnedIn,
			ReturnedOut: row.ReturnedOut,
			Sold:        row.Sold,
			Expected:    row.Expected(),
			OnHand:      row.OnHand,
			Drift:       row.Drift(),
			Balanced:    row.Balanced(),
		})
	}
	return out, nil
}
