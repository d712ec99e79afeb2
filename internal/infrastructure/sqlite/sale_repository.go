package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jhoicas/pos-beras/internal/domain"
	"github.com/jhoicas/pos-beras/internal/domain/entity"
	"github.com/jhoicas/pos-beras/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, code, buyer, customer_id, cashier_id, total, tendered, change_due, created_at`

// SaleRepo implementación de SaleRepository (usable con db o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar db o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// CreateHeader inserta la cabecera; un código repetido devuelve domain.ErrConflict sin abortar la tx.
func (r *SaleRepo) CreateHeader(ctx context.Context, s *entity.Sale) error {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO sales (`+saleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (code) DO NOTHING`,
		s.ID, s.Code, s.Buyer, nullable(s.CustomerID), s.CashierID,
		int64(s.Total), int64(s.Tendered), int64(s.Change), s.CreatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrConflict
	}
	return nil
}

// CreateLine inserta una línea de venta.
func (r *SaleRepo) CreateLine(ctx context.Context, l *entity.SaleLine) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO sale_items (id, sale_id, product_id, qty, unit_price, unit_cost, subtotal)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.SaleID, l.ProductID, l.Quantity, int64(l.UnitPrice), int64(l.UnitCost), int64(l.Subtotal),
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = ?`, id)
}

// GetByCode obtiene una venta por su código legible.
func (r *SaleRepo) GetByCode(ctx context.Context, code string) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE code = ?`, code)
}

func (r *SaleRepo) getOne(ctx context.Context, query, arg string) (*entity.Sale, error) {
	var (
		s                       entity.Sale
		customerID              sql.NullString
		total, tendered, change int64
	)
	err := r.q.QueryRowContext(ctx, query, arg).Scan(
		&s.ID, &s.Code, &s.Buyer, &customerID, &s.CashierID, &total, &tendered, &change, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	s.CustomerID = customerID.String
	s.Total, s.Tendered, s.Change = entity.Money(total), entity.Money(tendered), entity.Money(change)
	return &s, nil
}

// Lines devuelve las líneas de una venta en orden de inserción.
func (r *SaleRepo) Lines(ctx context.Context, saleID string) ([]*entity.SaleLine, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, sale_id, product_id, qty, unit_price, unit_cost, subtotal
		FROM sale_items WHERE sale_id = ? ORDER BY rowid`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleLine
	for rows.Next() {
		var (
			l                        entity.SaleLine
			unitPrice, unitCost, sub int64
		)
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.Quantity, &unitPrice, &unitCost, &sub); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		l.UnitPrice, l.UnitCost, l.Subtotal = entity.Money(unitPrice), entity.Money(unitCost), entity.Money(sub)
		list = append(list, &l)
	}
	return list, rows.Err()
}
