package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/pos-beras/internal/domain"
	"github.com/jhoicas/pos-beras/internal/domain/entity"
	"github.com/jhoicas/pos-beras/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, code, buyer, customer_id, cashier_id, total, tendered, change_due, created_at`

// SaleRepo implementación de SaleRepository (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// CreateHeader inserta la cabecera. Un código repetido no aborta la transacción:
// ON CONFLICT DO NOTHING no afecta filas y se devuelve domain.ErrConflict.
func (r *SaleRepo) CreateHeader(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (code) DO NOTHING`
	cmd, err := r.q.Exec(ctx, query,
		s.ID, s.Code, s.Buyer, nullable(s.CustomerID), s.CashierID,
		int64(s.Total), int64(s.Tendered), int64(s.Change), s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// CreateLine inserta una línea de venta.
func (r *SaleRepo) CreateLine(ctx context.Context, l *entity.SaleLine) error {
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, qty, unit_price, unit_cost, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.SaleID, l.ProductID, l.Quantity, int64(l.UnitPrice), int64(l.UnitCost), int64(l.Subtotal),
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

// GetByCode obtiene una venta por su código legible.
func (r *SaleRepo) GetByCode(ctx context.Context, code string) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE code = $1`, code)
}

func (r *SaleRepo) getOne(ctx context.Context, query, arg string) (*entity.Sale, error) {
	var (
		s                       entity.Sale
		customerID              *string
		total, tendered, change int64
	)
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&s.ID, &s.Code, &s.Buyer, &customerID, &s.CashierID, &total, &tendered, &change, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if customerID != nil {
		s.CustomerID = *customerID
	}
	s.Total, s.Tendered, s.Change = entity.Money(total), entity.Money(tendered), entity.Money(change)
	return &s, nil
}

// Lines devuelve las líneas de una venta en orden de inserción.
func (r *SaleRepo) Lines(ctx context.Context, saleID string) ([]*entity.SaleLine, error) {
	query := `
		SELECT id, sale_id, product_id, qty, unit_price, unit_cost, subtotal
		FROM sale_items WHERE sale_id = $1 ORDER BY seq`
	rows, err := r.q.Query(ctx, query, saleID)
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

// nullable convierte "" en NULL para columnas de referencia opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
