package repository

import (
	"context"

	"github.com/jhoicas/pos-beras/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas y sus líneas.
type SaleRepository interface {
	// CreateHeader inserta la cabecera. domain.ErrConflict si el código ya existe.
	CreateHeader(ctx context.Context, sale *entity.Sale) error
	CreateLine(ctx context.Context, line *entity.SaleLine) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetByCode(ctx context.Context, code string) (*entity.Sale, error)
	Lines(ctx context.Context, saleID string) ([]*entity.SaleLine, error)
}
