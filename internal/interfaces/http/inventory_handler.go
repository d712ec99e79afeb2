package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-beras/internal/application/dto"
	"github.com/jhoicas/pos-beras/internal/application/inventory"
	"github.com/jhoicas/pos-beras/internal/domain"
	"github.com/jhoicas/pos-beras/internal/domain/entity"
)

// StockRecorder entradas, traslados y correcciones (lo implementa inventory.Coordinator).
type StockRecorder interface {
	RecordReceipt(ctx context.Context, req inventory.ReceiptRequest) (*inventory.MovementResult, error)
	RecordTransfer(ctx context.Context, req inventory.TransferRequest) (*inventory.MovementResult, error)
	SetQuantity(ctx context.Context, req inventory.AdjustRequest) (*inventory.MovementResult, error)
}

// InventoryHandler maneja las peticiones HTTP de movimientos de stock (protegido).
type InventoryHandler struct {
	coord         StockRecorder
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(coord StockRecorder, replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{coord: coord, replenishment: replenishment}
}

// Receipt godoc
// @Summary      Registrar entrada de proveedor
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiptRequest  true  "product_id, quantity, supplier, unit_cost opcional"
// @Success      200   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/receipts [post]
func (h *InventoryHandler) Receipt(c *fiber.Ctx) error {
	var in dto.ReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.coord.RecordReceipt(c.UserContext(), receiptRequest(GetUserID(c), []dto.ReceiptRequest{in}))
	if err != nil {
		return respondError(c, err)
	}
	out := movementResponse(res)
	out.MovementID = out.MovementIDs[0]
	return c.JSON(out)
}

// ReceiptBatch godoc
// @Summary      Registrar lote de entradas
// @Description  Todo el lote se aplica en una sola unidad atómica; una línea inválida rechaza el lote completo.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiptBatchRequest  true  "items"
// @Success      200   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/receipts/batch [post]
func (h *InventoryHandler) ReceiptBatch(c *fiber.Ctx) error {
	var in dto.ReceiptBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.coord.RecordReceipt(c.UserContext(), receiptRequest(GetUserID(c), in.Items))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(movementResponse(res))
}

func receiptRequest(userID string, items []dto.ReceiptRequest) inventory.ReceiptRequest {
	req := inventory.ReceiptRequest{CreatedBy: userID, Items: make([]inventory.ReceiptItem, len(items))}
	for i, it := range items {
		req.Items[i] = inventory.ReceiptItem{ProductID: it.ProductID, Quantity: it.Quantity, Supplier: it.Supplier, Note: it.Note}
		if it.UnitCost != nil {
			cost := entity.Money(*it.UnitCost)
			req.Items[i].UnitCost = &cost
		}
	}
	return req
}

// Transfer godoc
// @Summary      Registrar traslado a otra sucursal
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "items"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/transfers [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	req := inventory.TransferRequest{CreatedBy: GetUserID(c), Items: make([]inventory.TransferItem, len(in.Items))}
	for i, it := range in.Items {
		req.Items[i] = inventory.TransferItem{ProductID: it.ProductID, Quantity: it.Quantity, Destination: it.Destination, Note: it.Note}
	}
	res, err := h.coord.RecordTransfer(c.UserContext(), req)
	if err != nil {
		if errors.Is(err, domain.ErrMissingCounterparty) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_DESTINATION", Message: err.Error(), Details: errorDetail(err)})
		}
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(movementResponse(res))
}

// SetStock godoc
// @Summary      Corregir stock (valor absoluto)
// @Description  Fija la cantidad y deja un movimiento de ajuste con la diferencia. Solo admin.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del producto"
// @Param        body  body  dto.SetStockRequest  true  "quantity"
// @Success      200   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock [put]
func (h *InventoryHandler) SetStock(c *fiber.Ctx) error {
	var in dto.SetStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Quantity == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity es requerido"})
	}
	res, err := h.coord.SetQuantity(c.UserContext(), inventory.AdjustRequest{
		ProductID: c.Params("id"),
		Quantity:  *in.Quantity,
		Note:      in.Note,
		CreatedBy: GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(movementResponse(res))
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Productos en o bajo su mínimo con la cantidad sugerida de pedido,
// @Description  ordenados por margen histórico y volumen de ventas.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/stock/replenishment [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}

func movementResponse(res *inventory.MovementResult) dto.MovementResponse {
	out := dto.MovementResponse{
		BatchID:     res.BatchID,
		MovementIDs: make([]string, 0, len(res.Movements)),
		Stock:       stockChanges(res.Entries),
		State:       string(res.State),
	}
	for _, m := range res.Movements {
		out.MovementIDs = append(out.MovementIDs, m.ID)
	}
	return out
}

func stockChanges(entries []inventory.LedgerEntry) []dto.StockChange {
	out := make([]dto.StockChange, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.StockChange{ProductID: e.ProductID, Previous: e.Previous, Current: e.Current})
	}
	return out
}
