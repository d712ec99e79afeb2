package repository

import (
	"context"

	"github.com/jhoicas/pos-beras/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia para movimientos de stock (solo inserción).
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error)
	ListByBatch(ctx context.Context, batchID string) ([]*entity.StockMovement, error)
}
