package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jhoicas/pos-beras/internal/domain/entity"
	"github.com/jhoicas/pos-beras/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, batch_id, product_id, kind, delta, counterparty, note, created_by, created_at`

// MovementRepo implementación sobre SQLite (usable con db o tx). Solo inserción.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar db o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento de stock.
func (r *MovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO stock_movements (`+movementColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.BatchID, m.ProductID, string(m.Kind), m.Delta, m.Counterparty, m.Note, m.CreatedBy, m.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListByProduct historial de un producto, más reciente primero.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+movementColumns+` FROM stock_movements
		WHERE product_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return collectMovements(rows)
}

// ListByBatch movimientos de un mismo lote, en orden de inserción.
func (r *MovementRepo) ListByBatch(ctx context.Context, batchID string) ([]*entity.StockMovement, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+movementColumns+` FROM stock_movements WHERE batch_id = ? ORDER BY rowid`, batchID)
	if err != nil {
		return nil, fmt.Errorf("list batch movements: %w", err)
	}
	return collectMovements(rows)
}

func collectMovements(rows *sql.Rows) ([]*entity.StockMovement, error) {
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var (
			m    entity.StockMovement
			kind string
		)
		if err := rows.Scan(&m.ID, &m.BatchID, &m.ProductID, &kind, &m.Delta, &m.Counterparty, &m.Note, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.Kind = entity.MovementKind(kind)
		list = append(list, &m)
	}
	return list, rows.Err()
}
