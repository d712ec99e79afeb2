package repository

import (
	"context"

	"github.com/jhoicas/pos-beras/internal/domain/entity"
)

// ReturnRepository define el puerto de persistencia para devoluciones (cabecera + líneas).
type ReturnRepository interface {
	Create(ctx context.Context, ret *entity.Return) error
	GetByID(ctx context.Context, id string) (*entity.Return, error)
	// ReturnedQty suma por producto lo ya devuelto por clientes contra una venta.
	ReturnedQty(ctx context.Context, saleID string) (map[string]int64, error)
}
