package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/pos-beras/internal/domain"
	"github.com/jhoicas/pos-beras/internal/domain/entity"
	"github.com/jhoicas/pos-beras/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, category, unit_price, cost, qty, min_qty, status, created_at, updated_at`

// ProductRepo implementación de ProductRepository sobre SQLite (usable con db o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar db o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Category, int64(p.UnitPrice), int64(p.Cost), p.Quantity, p.MinQty,
		string(p.Status), p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetMany obtiene varios productos por ID; los inexistentes no aparecen en el mapa.
func (r *ProductRepo) GetMany(ctx context.Context, ids []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE id IN (?` + strings.Repeat(", ?", len(ids)-1) + `)`
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	list, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		out[p.ID] = p
	}
	return out, nil
}

// Update actualiza datos de catálogo. No modifica cantidad ni costo.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE products SET name = ?, category = ?, unit_price = ?, min_qty = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.Category, int64(p.UnitPrice), p.MinQty, p.UpdatedAt.UTC(), p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return expectOne(res)
}

// SetStatus activa o desactiva un producto (baja lógica).
func (r *ProductRepo) SetStatus(ctx context.Context, id string, status entity.ProductStatus, now time.Time) error {
	res, err := r.q.ExecContext(ctx, `UPDATE products SET status = ?, updated_at = ? WHERE id = ?`, string(status), now.UTC(), id)
	if err != nil {
		return fmt.Errorf("set product status: %w", err)
	}
	return expectOne(res)
}

// ListActive lista el catálogo activo ordenado por nombre.
func (r *ProductRepo) ListActive(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE status = 'active' ORDER BY name, id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return collectProducts(rows)
}

// ListLowStock productos activos con cantidad en o bajo el mínimo.
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE status = 'active' AND qty <= min_qty ORDER BY qty, name`)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return collectProducts(rows)
}

// ApplyDelta suma delta en una sola sentencia condicionada a qty + delta >= 0.
func (r *ProductRepo) ApplyDelta(ctx context.Context, id string, delta int64, now time.Time) (int64, bool, error) {
	var qty int64
	err := r.q.QueryRowContext(ctx, `
		UPDATE products SET qty = qty + ?1, updated_at = ?2
		WHERE id = ?3 AND qty + ?1 >= 0
		RETURNING qty`, delta, now.UTC(), id).Scan(&qty)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("apply stock delta: %w", err)
	}
	return qty, true, nil
}

// SetQuantity fija la cantidad y devuelve la anterior. Dentro de una transacción
// BEGIN IMMEDIATE la lectura y la escritura no se intercalan con otro escritor.
func (r *ProductRepo) SetQuantity(ctx context.Context, id string, qty int64, now time.Time) (int64, error) {
	previous, err := r.Quantity(ctx, id)
	if err != nil {
		return 0, err
	}
	if _, err := r.q.ExecContext(ctx, `UPDATE products SET qty = ?, updated_at = ? WHERE id = ?`, qty, now.UTC(), id); err != nil {
		return 0, fmt.Errorf("set stock: %w", err)
	}
	return previous, nil
}

// Quantity lee la cantidad actual.
func (r *ProductRepo) Quantity(ctx context.Context, id string) (int64, error) {
	var qty int64
	err := r.q.QueryRowContext(ctx, `SELECT qty FROM products WHERE id = ?`, id).Scan(&qty)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("get stock: %w", err)
	}
	return qty, nil
}

// UpdateCost actualiza solo el costo del producto.
func (r *ProductRepo) UpdateCost(ctx context.Context, id string, cost entity.Money) error {
	res, err := r.q.ExecContext(ctx, `UPDATE products SET cost = ? WHERE id = ?`, int64(cost), id)
	if err != nil {
		return fmt.Errorf("update product cost: %w", err)
	}
	return expectOne(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	var (
		p               entity.Product
		unitPrice, cost int64
		status          string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Category, &unitPrice, &cost, &p.Quantity, &p.MinQty,
		&status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.UnitPrice, p.Cost, p.Status = entity.Money(unitPrice), entity.Money(cost), entity.ProductStatus(status)
	return &p, nil
}

func collectProducts(rows *sql.Rows) ([]*entity.Product, error) {
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return list, nil
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
