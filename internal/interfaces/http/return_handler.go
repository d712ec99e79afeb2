package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-beras/internal/application/dto"
	"github.com/jhoicas/pos-beras/internal/application/inventory"
	"github.com/jhoicas/pos-beras/internal/domain/entity"
)

// ReturnRecorder registra devoluciones (lo implementa inventory.Coordinator).
type ReturnRecorder interface {
	RecordReturn(ctx context.Context, req inventory.ReturnRequest) (*inventory.ReturnResult, error)
}

// ReturnHandler maneja las devoluciones de clientes y a proveedores.
type ReturnHandler struct {
	coord ReturnRecorder
}

// NewReturnHandler construye el handler.
func NewReturnHandler(coord ReturnRecorder) *ReturnHandler {
	return &ReturnHandler{coord: coord}
}

// Create godoc
// @Summary      Registrar devolución
// @Description  kind=sale devuelve mercadería del cliente (referencia = id o código de la venta);
// @Description  kind=purchase devuelve al proveedor (supplier requerido).
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReturnRequest  true  "Devolución"
// @Success      201   {object}  dto.CreateReturnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/returns [post]
func (h *ReturnHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	req := inventory.ReturnRequest{
		Kind:      entity.ReturnKind(in.Kind),
		Reference: in.Reference,
		Supplier:  in.Supplier,
		Note:      in.Note,
		CreatedBy: GetUserID(c),
		Lines:     make([]inventory.ReturnLineInput, len(in.Lines)),
	}
	for i, l := range in.Lines {
		req.Lines[i] = inventory.ReturnLineInput{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: entity.Money(l.UnitPrice)}
	}
	res, err := h.coord.RecordReturn(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateReturnResponse{
		ReturnID:  res.Return.ID,
		Kind:      string(res.Return.Kind),
		Reference: res.Return.Reference,
		Total:     int64(res.Return.Total),
		Stock:     stockChanges(res.Entries),
		State:     string(res.State),
	})
}
