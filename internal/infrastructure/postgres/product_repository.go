package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/pos-beras/internal/domain"
	"github.com/jhoicas/pos-beras/internal/domain/entity"
	"github.com/jhoicas/pos-beras/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, category, unit_price, cost, qty, min_qty, status, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Category, int64(p.UnitPrice), int64(p.Cost), p.Quantity, p.MinQty,
		string(p.Status), p.CreatedAt, p.UpdatedAt,
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
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, ids)
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
	query := `
		UPDATE products SET name = $2, category = $3, unit_price = $4, min_qty = $5, updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, p.ID, p.Name, p.Category, int64(p.UnitPrice), p.MinQty, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetStatus activa o desactiva un producto (baja lógica).
func (r *ProductRepo) SetStatus(ctx context.Context, id string, status entity.ProductStatus, now time.Time) error {
	cmd, err := r.q.Exec(ctx, `UPDATE products SET status = $2, updated_at = $3 WHERE id = $1`, id, string(status), now)
	if err != nil {
		return fmt.Errorf("set product status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListActive lista el catálogo activo ordenado por nombre.
func (r *ProductRepo) ListActive(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + ` FROM products
		WHERE status = 'active' ORDER BY name, id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return collectProducts(rows)
}

// ListLowStock productos activos con cantidad en o bajo el mínimo.
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + ` FROM products
		WHERE status = 'active' AND qty <= min_qty ORDER BY qty, name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return collectProducts(rows)
}

// ApplyDelta suma delta en una sola sentencia; la guarda qty + delta >= 0 la evalúa la base de datos
// con la fila bloqueada, por lo que dos descuentos concurrentes no pueden dejar stock negativo.
func (r *ProductRepo) ApplyDelta(ctx context.Context, id string, delta int64, now time.Time) (int64, bool, error) {
	query := `
		UPDATE products SET qty = qty + $2, updated_at = $3
		WHERE id = $1 AND qty + $2 >= 0
		RETURNING qty`
	var qty int64
	err := r.q.QueryRow(ctx, query, id, delta, now).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("apply stock delta: %w", err)
	}
	return qty, true, nil
}

// SetQuantity fija la cantidad y devuelve la anterior, leída con la fila bloqueada.
func (r *ProductRepo) SetQuantity(ctx context.Context, id string, qty int64, now time.Time) (int64, error) {
	query := `
		WITH old AS (SELECT id, qty FROM products WHERE id = $1 FOR UPDATE)
		UPDATE products p SET qty = $2, updated_at = $3
		FROM old WHERE p.id = old.id
		RETURNING old.qty`
	var previous int64
	err := r.q.QueryRow(ctx, query, id, qty, now).Scan(&previous)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("set stock: %w", err)
	}
	return previous, nil
}

// Quantity lee la cantidad actual.
func (r *ProductRepo) Quantity(ctx context.Context, id string) (int64, error) {
	var qty int64
	err := r.q.QueryRow(ctx, `SELECT qty FROM products WHERE id = $1`, id).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("get stock: %w", err)
	}
	return qty, nil
}

// UpdateCost actualiza solo el costo del producto (usado por el motor de inventario).
func (r *ProductRepo) UpdateCost(ctx context.Context, id string, cost entity.Money) error {
	cmd, err := r.q.Exec(ctx, `UPDATE products SET cost = $2 WHERE id = $1`, id, int64(cost))
	if err != nil {
		return fmt.Errorf("update product cost: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
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

func collectProducts(rows pgx.Rows) ([]*entity.Product, error) {
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
