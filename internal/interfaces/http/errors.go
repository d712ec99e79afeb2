package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-beras/internal/application/dto"
	"github.com/jhoicas/pos-beras/internal/domain"
	"github.com/rs/zerolog/log"
)

// errorStatus traduce la taxonomía de errores de dominio a status HTTP y código de respuesta.
// El orden importa: las causas concretas envuelven a ErrInvalidLine / ErrInvalidInput.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrTimeout):
		return fiber.StatusGatewayTimeout, "TIMEOUT"
	case errors.Is(err, domain.ErrEmptyOrder):
		return fiber.StatusBadRequest, "EMPTY_ORDER"
	case errors.Is(err, domain.ErrEmptyBatch):
		return fiber.StatusBadRequest, "EMPTY_BATCH"
	case errors.Is(err, domain.ErrInvalidQuantity):
		return fiber.StatusBadRequest, "INVALID_QUANTITY"
	case errors.Is(err, domain.ErrMissingCounterparty):
		return fiber.StatusBadRequest, "MISSING_SUPPLIER"
	case errors.Is(err, domain.ErrInactiveProduct):
		return fiber.StatusBadRequest, "INACTIVE_PRODUCT"
	case errors.Is(err, domain.ErrInvalidLine):
		return fiber.StatusBadRequest, "INVALID_LINE"
	case errors.Is(err, domain.ErrInsufficientPayment):
		return fiber.StatusBadRequest, "INSUFFICIENT_PAYMENT"
	case errors.Is(err, domain.ErrTotalMismatch):
		return fiber.StatusBadRequest, "TOTAL_MISMATCH"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	}
	return fiber.StatusInternalServerError, "STORE_ERROR"
}

// respondError escribe el ErrorResponse correspondiente a err. Los errores internos y los
// vencimientos se reportan de forma opaca; el detalle queda en el log.
func respondError(c *fiber.Ctx, err error) error {
	status, code := errorStatus(err)
	body := dto.ErrorResponse{Code: code, Message: err.Error(), Details: errorDetail(err)}
	switch status {
	case fiber.StatusInternalServerError:
		if !errors.Is(err, domain.ErrStore) {
			log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
		}
		body.Message = domain.ErrStore.Error()
	case fiber.StatusGatewayTimeout:
		// la causa del vencimiento ya quedó en el log del TxRunner
		body.Message = domain.ErrTimeout.Error()
	}
	return c.Status(status).JSON(body)
}

func errorDetail(err error) *dto.ErrorDetail {
	var (
		lineErr  *domain.LineError
		stockErr *domain.StockError
		detail   dto.ErrorDetail
		found    bool
	)
	if errors.As(err, &lineErr) {
		detail.Line = lineErr.Index + 1
		detail.ProductID = lineErr.ProductID
		found = true
	}
	if errors.As(err, &stockErr) {
		detail.ProductID = stockErr.ProductID
		detail.Requested = stockErr.Requested
		if stockErr.Available >= 0 {
			available := stockErr.Available
			detail.Available = &available
		}
		found = true
	}
	if !found {
		return nil
	}
	return &detail
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
