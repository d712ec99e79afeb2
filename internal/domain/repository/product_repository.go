package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-beras/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Las lecturas devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetMany(ctx context.Context, ids []string) (map[string]*entity.Product, error)
	// Update modifica datos de catálogo (nombre, categoría, precio, mínimo). No toca cantidad ni costo.
	Update(ctx context.Context, product *entity.Product) error
	SetStatus(ctx context.Context, id string, status entity.ProductStatus, now time.Time) error
	ListActive(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	ListLowStock(ctx context.Context) ([]*entity.Product, error)

	// ApplyDelta suma delta a la cantidad en una sola sentencia condicionada a qty + delta >= 0.
	// applied=false si ninguna fila cumplió la condición (producto inexistente o stock insuficiente).
	ApplyDelta(ctx context.Context, id string, delta int64, now time.Time) (newQty int64, applied bool, err error)
	// SetQuantity fija la cantidad absoluta y devuelve la anterior. domain.ErrNotFound si no existe.
	SetQuantity(ctx context.Context, id string, qty int64, now time.Time) (previous int64, err error)
	// Quantity lee la cantidad actual. domain.ErrNotFound si no existe.
	Quantity(ctx context.Context, id string) (int64, error)
	UpdateCost(ctx context.Context, id string, cost entity.Money) error
}
