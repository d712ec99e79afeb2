package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-beras/internal/application/dto"
	"github.com/jhoicas/pos-beras/internal/application/report"
	"github.com/jhoicas/pos-beras/internal/domain"
)

// ReportHandler expone los reportes de solo lectura.
type ReportHandler struct {
	agg *report.Aggregator
}

// NewReportHandler construye el handler.
func NewReportHandler(agg *report.Aggregator) *ReportHandler {
	return &ReportHandler{agg: agg}
}

func (h *ReportHandler) period(c *fiber.Ctx) (report.Range, dto.ReportRangeRequest, error) {
	var q dto.ReportRangeRequest
	if err := c.QueryParser(&q); err != nil {
		return report.Range{}, q, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	r, err := h.agg.Range(q.From, q.To)
	return r, q, err
}

// Summary godoc
// @Summary      Resumen de ventas
// @Description  Ventas brutas, devoluciones, netas, ticket promedio y utilidad del período.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "YYYY-MM-DD (por defecto hoy)"
// @Param        to    query  string  false  "YYYY-MM-DD inclusive"
// @Success      200   {object}  dto.SummaryDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	r, _, err := h.period(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.agg.Summary(c.UserContext(), r)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ProductProfit godoc
// @Summary      Utilidad por producto
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "YYYY-MM-DD"
// @Param        to    query  string  false  "YYYY-MM-DD"
// @Success      200   {array}   dto.ProductProfitDTO
// @Router       /api/reports/products [get]
func (h *ReportHandler) ProductProfit(c *fiber.Ctx) error {
	r, _, err := h.period(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.agg.ProductProfit(c.UserContext(), r)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// TopProducts godoc
// @Summary      Productos más vendidos
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "YYYY-MM-DD"
// @Param        to    query  string  false  "YYYY-MM-DD"
// @Param        n     query  int     false  "Cantidad de productos"
// @Success      200   {array}   dto.TopProductDTO
// @Router       /api/reports/top-products [get]
func (h *ReportHandler) TopProducts(c *fiber.Ctx) error {
	r, q, err := h.period(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.agg.TopProducts(c.UserContext(), r, q.N)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CustomerCategories godoc
// @Summary      Distribución de clientes por categoría
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CategoryShareDTO
// @Router       /api/reports/customers [get]
func (h *ReportHandler) CustomerCategories(c *fiber.Ctx) error {
	out, err := h.agg.CustomerCategories(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Monthly godoc
// @Summary      Acumulados mensuales
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "YYYY-MM-DD"
// @Param        to    query  string  false  "YYYY-MM-DD"
// @Success      200   {array}   dto.MonthlyDTO
// @Router       /api/reports/monthly [get]
func (h *ReportHandler) Monthly(c *fiber.Ctx) error {
	r, _, err := h.period(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.agg.Monthly(c.UserContext(), r)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reconciliation godoc
// @Summary      Conciliación de stock
// @Description  movimientos + devoluciones - vendido = stock actual, por producto.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Un solo producto"
// @Success      200  {array}   dto.ReconciliationDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/reconciliation [get]
func (h *ReportHandler) Reconciliation(c *fiber.Ctx) error {
	out, err := h.agg.Reconcile(c.UserContext(), c.Query("product_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
