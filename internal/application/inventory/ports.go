package inventory

import (
	"context"

	"github.com/jhoicas/pos-beras/internal/domain/repository"
)

// Repos agrupa los repositorios que participan en una unidad atómica.
// Dentro de TxRunner.Run todos comparten la misma transacción.
type Repos struct {
	Products  repository.ProductRepository
	Sales     repository.SaleRepository
	Movements repository.MovementRepository
	Returns   repository.ReturnRepository
	Customers repository.CustomerRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn retorna error se hace Rollback; si no, Commit. La transacción corre desacoplada de la
// cancelación del caller y con su propio límite de tiempo: al vencer se revierte y se
// devuelve domain.ErrTimeout.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error
}
