package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/pos-beras/internal/application/dto"
	"github.com/jhoicas/pos-beras/internal/application/inventory"
	"github.com/jhoicas/pos-beras/internal/domain"
	"github.com/jhoicas/pos-beras/internal/domain/entity"
	"github.com/jhoicas/pos-beras/internal/domain/repository"
)

// ProductCreator alta de productos con stock inicial (lo implementa inventory.Coordinator).
type ProductCreator interface {
	CreateProduct(ctx context.Context, req inventory.CreateProductRequest) (*inventory.ProductResult, error)
}

// ProductUseCase casos de uso del catálogo. Costo y stock se manejan vía movimientos.
type ProductUseCase struct {
	repo    repository.ProductRepository
	creator ProductCreator
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, creator ProductCreator) *ProductUseCase {
	return &ProductUseCase{repo: repo, creator: creator}
}

// Create crea un producto; el stock inicial queda registrado como ajuste.
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	res, err := uc.creator.CreateProduct(ctx, inventory.CreateProductRequest{
		Name:       in.Name,
		Category:   in.Category,
		UnitPrice:  entity.Money(in.UnitPrice),
		Cost:       entity.Money(in.Cost),
		MinQty:     in.MinQty,
		OpeningQty: in.OpeningQty,
		CreatedBy:  userID,
	})
	if err != nil {
		return nil, err
	}
	return ToProductResponse(res.Product), nil
}

// GetByID obtiene un producto por ID (incluye inactivos).
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return ToProductResponse(product), nil
}

// Update actualiza datos de catálogo. No permite modificar costo ni stock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = name
	}
	if in.Category != nil {
		product.Category = strings.TrimSpace(*in.Category)
	}
	if in.UnitPrice != nil {
		if *in.UnitPrice < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.UnitPrice = entity.Money(*in.UnitPrice)
	}
	if in.MinQty != nil {
		if *in.MinQty < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.MinQty = *in.MinQty
	}
	product.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// List lista el catálogo activo con paginación.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListActive(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return &dto.ProductListResponse{
		Items: toProductResponses(list),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// LowStock productos activos en o bajo su mínimo.
func (uc *ProductUseCase) LowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

// Deactivate baja lógica: el producto sale del catálogo pero sus ventas siguen intactas.
func (uc *ProductUseCase) Deactivate(ctx context.Context, id string) error {
	return uc.repo.SetStatus(ctx, id, entity.ProductInactive, time.Now().UTC())
}

// ToProductResponse mapea la entidad a la respuesta HTTP.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Category:  p.Category,
		UnitPrice: int64(p.UnitPrice),
		Cost:      int64(p.Cost),
		Quantity:  p.Quantity,
		MinQty:    p.MinQty,
		Status:    string(p.Status),
		LowStock:  p.BelowMinimum(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toProductResponses(list []*entity.Product) []dto.ProductResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return items
}
