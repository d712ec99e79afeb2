package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-beras/internal/application/dto"
	"github.com/jhoicas/pos-beras/internal/application/inventory"
	"github.com/jhoicas/pos-beras/internal/application/usecase"
	"github.com/jhoicas/pos-beras/internal/domain/entity"
)

// SaleRecorder registra ventas (lo implementa inventory.Coordinator).
type SaleRecorder interface {
	RecordSale(ctx context.Context, req inventory.SaleRequest) (*inventory.SaleResult, error)
}

// SaleHandler maneja las peticiones HTTP de ventas.
type SaleHandler struct {
	coord SaleRecorder
	query *usecase.SaleQueryUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(coord SaleRecorder, query *usecase.SaleQueryUseCase) *SaleHandler {
	return &SaleHandler{coord: coord, query: query}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Registra la venta y descuenta el stock de todas las líneas en una sola unidad atómica.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Líneas de la venta"
// @Success      201   {object}  dto.CreateSaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      504   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	req := inventory.SaleRequest{
		Buyer:      in.Buyer,
		CustomerID: in.CustomerID,
		CashierID:  GetUserID(c),
		Tendered:   entity.Money(in.Tendered),
		Lines:      make([]inventory.SaleLineInput, len(in.Lines)),
	}
	if in.Total != nil {
		total := entity.Money(*in.Total)
		req.Total = &total
	}
	for i, l := range in.Lines {
		req.Lines[i] = inventory.SaleLineInput{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: entity.Money(l.UnitPrice)}
	}

	res, err := h.coord.RecordSale(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateSaleResponse{
		TransactionID: res.Sale.ID,
		Code:          res.Sale.Code,
		Total:         int64(res.Sale.Total),
		Tendered:      int64(res.Sale.Tendered),
		Change:        int64(res.Sale.Change),
		State:         string(res.State),
	})
}

// Get godoc
// @Summary      Obtener venta por id o código
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        ref  path  string  true  "ID o código de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{ref} [get]
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	out, err := h.query.Get(c.UserContext(), c.Params("ref"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
