package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-beras/internal/application/dto"
	"github.com/jhoicas/pos-beras/internal/domain"
	"github.com/jhoicas/pos-beras/internal/domain/entity"
	"github.com/jhoicas/pos-beras/internal/domain/repository"
)

// SaleQueryUseCase consulta de ventas registradas (por id o por código).
type SaleQueryUseCase struct {
	repo repository.SaleRepository
}

// NewSaleQueryUseCase construye el caso de uso.
func NewSaleQueryUseCase(repo repository.SaleRepository) *SaleQueryUseCase {
	return &SaleQueryUseCase{repo: repo}
}

// Get busca la venta por id y, si no, por código.
func (uc *SaleQueryUseCase) Get(ctx context.Context, ref string) (*dto.SaleResponse, error) {
	var (
		sale *entity.Sale
		err  error
	)
	if _, perr := uuid.Parse(ref); perr == nil {
		sale, err = uc.repo.GetByID(ctx, ref)
		if err != nil {
			return nil, err
		}
	}
	if sale == nil {
		sale, err = uc.repo.GetByCode(ctx, ref)
		if err != nil {
			return nil, err
		}
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.repo.Lines(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	out := &dto.SaleResponse{
		ID:         sale.ID,
		Code:       sale.Code,
		Buyer:      sale.Buyer,
		CustomerID: sale.CustomerID,
		CashierID:  sale.CashierID,
		Total:      int64(sale.Total),
		Tendered:   int64(sale.Tendered),
		Change:     int64(sale.Change),
		CreatedAt:  sale.CreatedAt,
		Lines:      make([]dto.SaleLineResponse, 0, len(lines)),
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, dto.SaleLineResponse{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: int64(l.UnitPrice),
			Subtotal:  int64(l.Subtotal),
		})
	}
	return out, nil
}
