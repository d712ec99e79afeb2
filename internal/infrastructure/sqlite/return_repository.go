package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jhoicas/pos-beras/internal/domain/entity"
	"github.com/jhoicas/pos-beras/internal/domain/repository"
)

var _ repository.ReturnRepository = (*ReturnRepo)(nil)

// ReturnRepo implementación de ReturnRepository (usable con db o tx).
type ReturnRepo struct {
	q Querier
}

// NewReturnRepository construye el adaptador. Pasar db o tx (Querier).
func NewReturnRepository(q Querier) *ReturnRepo {
	return &ReturnRepo{q: q}
}

// Create inserta la cabecera y sus líneas. Debe llamarse dentro de una transacción.
func (r *ReturnRepo) Create(ctx context.Context, ret *entity.Return) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO returns (id, kind, sale_id, reference, supplier, total, note, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ret.ID, string(ret.Kind), nullable(ret.SaleID), ret.Reference, ret.Supplier,
		int64(ret.Total), ret.Note, ret.CreatedBy, ret.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert return: %w", err)
	}
	for _, l := range ret.Lines {
		_, err := r.q.ExecContext(ctx, `
			INSERT INTO return_items (id, return_id, product_id, qty, unit_price, subtotal)
			VALUES (?, ?, ?, ?, ?, ?)`,
			l.ID, ret.ID, l.ProductID, l.Quantity, int64(l.UnitPrice), int64(l.Subtotal),
		)
		if err != nil {
			return fmt.Errorf("insert return item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una devolución con sus líneas.
func (r *ReturnRepo) GetByID(ctx context.Context, id string) (*entity.Return, error) {
	var (
		ret    entity.Return
		kind   string
		saleID sql.NullString
		total  int64
	)
	err := r.q.QueryRowContext(ctx, `
		SELECT id, kind, sale_id, reference, supplier, total, note, created_by, created_at
		FROM returns WHERE id = ?`, id).Scan(
		&ret.ID, &kind, &saleID, &ret.Reference, &ret.Supplier, &total, &ret.Note, &ret.CreatedBy, &ret.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get return: %w", err)
	}
	ret.Kind, ret.Total, ret.SaleID = entity.ReturnKind(kind), entity.Money(total), saleID.String

	rows, err := r.q.QueryContext(ctx, `
		SELECT id, return_id, product_id, qty, unit_price, subtotal
		FROM return_items WHERE return_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("list return items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			l              entity.ReturnLine
			unitPrice, sub int64
		)
		if err := rows.Scan(&l.ID, &l.ReturnID, &l.ProductID, &l.Quantity, &unitPrice, &sub); err != nil {
			return nil, fmt.Errorf("scan return item: %w", err)
		}
		l.UnitPrice, l.Subtotal = entity.Money(unitPrice), entity.Money(sub)
		ret.Lines = append(ret.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &ret, nil
}

// ReturnedQty suma por producto las cantidades ya devueltas contra la venta.
func (r *ReturnRepo) ReturnedQty(ctx context.Context, saleID string) (map[string]int64, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT i.product_id, SUM(i.qty)
		FROM return_items i JOIN returns r ON r.id = i.return_id
		WHERE r.sale_id = ? AND r.kind = 'sale'
		GROUP BY i.product_id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("returned qty: %w", err)
	}
	defer rows.Close()
	out := make(map[string]int64)
	for rows.Next() {
		var (
			id  string
			qty int64
		)
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, fmt.Errorf("scan returned qty: %w", err)
		}
		out[id] = qty
	}
	return out, rows.Err()
}
