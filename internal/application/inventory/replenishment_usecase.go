package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/pos-beras/internal/application/dto"
	"github.com/jhoicas/pos-beras/internal/domain/entity"
	"github.com/jhoicas/pos-beras/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición de la tienda.
// Combina los productos en o bajo su mínimo con el historial de ventas para priorizar.
type ReplenishmentUseCase struct {
	products repository.ProductRepository
	reports  repository.ReportRepository
	now      func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(products repository.ProductRepository, reports repository.ReportRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{products: products, reports: reports, now: time.Now}
}

// GenerateReplenishmentList devuelve los productos activos con stock <= mínimo, con la
// cantidad sugerida de pedido y un ranking por margen histórico y volumen de los últimos 90 días.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	low, err := uc.products.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	if len(low) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	end := uc.now().UTC()
	start := end.AddDate(0, 0, -90)
	rows, err := uc.reports.ProductSales(ctx, start, end, 0)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]repository.ProductSalesRow, len(rows))
	for _, r := range rows {
		byID[r.ProductID] = r
	}

	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(low))
	for _, p := range low {
		ideal := (p.MinQty*3 + 1) / 2
		suggested := ideal - p.Quantity
		if suggested < 0 {
			suggested = 0
		}

		var marginPct, unitsSold int64
		if r, ok := byID[p.ID]; ok {
			unitsSold = r.Units
			marginPct = entity.Percent(int64(r.Revenue-r.Cost), int64(r.Revenue))
		} else {
			// sin ventas recientes: margen estimado por precio y costo
			marginPct = entity.Percent(int64(p.UnitPrice-p.Cost), int64(p.UnitPrice))
		}

		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:           p.ID,
			ProductName:         p.Name,
			Category:            p.Category,
			CurrentStock:        p.Quantity,
			MinQty:              p.MinQty,
			IdealStock:          ideal,
			SuggestedOrderQty:   suggested,
			UnitCost:            int64(p.Cost),
			EstimatedOrderCost:  int64(p.Cost.Times(suggested)),
			GrossMarginPct:      marginPct,
			UnitsSoldLast90Days: unitsSold,
		})
	}

	// Primero mayor margen, luego mayor volumen, finalmente mayor déficit.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.GrossMarginPct != b.GrossMarginPct {
			return a.GrossMarginPct > b.GrossMarginPct
		}
		if a.UnitsSoldLast90Days != b.UnitsSoldLast90Days {
			return a.UnitsSoldLast90Days > b.UnitsSoldLast90Days
		}
		return a.MinQty-a.CurrentStock > b.MinQty-b.CurrentStock
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
