package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-beras/internal/domain"
	"github.com/jhoicas/pos-beras/internal/domain/entity"
	inv "github.com/jhoicas/pos-beras/internal/domain/inventory"
)

// maxCodeAttempts intentos de generar un código de venta libre antes de devolver ErrConflict.
const maxCodeAttempts = 5

// Recorder persiste cabeceras y líneas de ventas, movimientos y devoluciones.
// No toca cantidades: eso lo hace el StockLedger.
type Recorder struct {
	codes inv.SaleCodeGenerator
}

// NewRecorder construye el registrador con el generador de códigos de venta.
func NewRecorder(codes inv.SaleCodeGenerator) *Recorder {
	return &Recorder{codes: codes}
}

// SaleLineInput línea de venta tal como llega del caller.
type SaleLineInput struct {
	ProductID string
	Quantity  int64
	UnitPrice entity.Money // 0 = precio de catálogo
}

// ValidateSaleLines chequeo estructural de las líneas de una venta.
func (r *Recorder) ValidateSaleLines(lines []SaleLineInput) error {
	if len(lines) == 0 {
		return domain.ErrEmptyOrder
	}
	for i, l := range lines {
		if strings.TrimSpace(l.ProductID) == "" || l.UnitPrice < 0 {
			return domain.NewLineError(i, l.ProductID, domain.ErrInvalidLine)
		}
		if l.Quantity <= 0 {
			return domain.NewLineError(i, l.ProductID, domain.ErrInvalidQuantity)
		}
	}
	return nil
}

// RecordSale inserta la cabecera (generando el código) y las líneas de la venta.
// Si el código choca con uno existente se genera otro; la inserción usa
// ON CONFLICT DO NOTHING, por lo que la transacción sigue utilizable.
func (r *Recorder) RecordSale(ctx context.Context, repos Repos, sale *entity.Sale, lines []*entity.SaleLine) error {
	if len(lines) == 0 {
		return domain.ErrEmptyOrder
	}
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	var err error
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		sale.Code = r.codes.Next(sale.CreatedAt)
		err = repos.Sales.CreateHeader(ctx, sale)
		if !errors.Is(err, domain.ErrConflict) {
			break
		}
	}
	if err != nil {
		return err
	}
	for _, line := range lines {
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		line.SaleID = sale.ID
		if err := repos.Sales.CreateLine(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

// MovementLine línea de un lote de entrada o traslado.
type MovementLine struct {
	ProductID    string
	Quantity     int64  // siempre positiva; el signo lo pone el tipo de movimiento
	Counterparty string // proveedor (entrada) o sucursal destino (traslado)
	Note         string
}

// ValidateMovement chequeo estructural de un lote de entradas o traslados.
func (r *Recorder) ValidateMovement(items []MovementLine, kind entity.MovementKind) error {
	if kind != entity.MovementReceipt && kind != entity.MovementTransfer {
		return fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, kind)
	}
	if len(items) == 0 {
		return domain.ErrEmptyBatch
	}
	for i, it := range items {
		if strings.TrimSpace(it.ProductID) == "" {
			return domain.NewLineError(i, it.ProductID, domain.ErrInvalidLine)
		}
		if it.Quantity <= 0 {
			return domain.NewLineError(i, it.ProductID, domain.ErrInvalidQuantity)
		}
		if strings.TrimSpace(it.Counterparty) == "" {
			return domain.NewLineError(i, it.ProductID, domain.ErrMissingCounterparty)
		}
	}
	return nil
}

// RecordMovement inserta un movimiento por línea, todos con el mismo BatchID.
func (r *Recorder) RecordMovement(ctx context.Context, repos Repos, movements []*entity.StockMovement) error {
	if len(movements) == 0 {
		return domain.ErrEmptyBatch
	}
	batchID := movements[0].BatchID
	if batchID == "" {
		batchID = uuid.New().String()
	}
	for _, m := range movements {
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		m.BatchID = batchID
		if err := repos.Movements.Create(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// ReturnLineInput línea de devolución tal como llega del caller.
type ReturnLineInput struct {
	ProductID string
	Quantity  int64
	UnitPrice entity.Money // 0 = precio original de la venta (o costo para devoluciones a proveedor)
}

// ValidateReturnLines chequeo estructural de las líneas de una devolución.
func (r *Recorder) ValidateReturnLines(kind entity.ReturnKind, lines []ReturnLineInput) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: tipo de devolución %q", domain.ErrInvalidInput, kind)
	}
	if len(lines) == 0 {
		return domain.ErrEmptyBatch
	}
	for i, l := range lines {
		if strings.TrimSpace(l.ProductID) == "" || l.UnitPrice < 0 {
			return domain.NewLineError(i, l.ProductID, domain.ErrInvalidLine)
		}
		if l.Quantity <= 0 {
			return domain.NewLineError(i, l.ProductID, domain.ErrInvalidQuantity)
		}
	}
	return nil
}

// RecordReturn inserta la devolución con sus líneas; el total se calcula aquí.
func (r *Recorder) RecordReturn(ctx context.Context, repos Repos, ret *entity.Return) error {
	if len(ret.Lines) == 0 {
		return domain.ErrEmptyBatch
	}
	if ret.ID == "" {
		ret.ID = uuid.New().String()
	}
	var total entity.Money
	for i := range ret.Lines {
		line := &ret.Lines[i]
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		line.ReturnID = ret.ID
		line.Subtotal = line.UnitPrice.Times(line.Quantity)
		total += line.Subtotal
	}
	ret.Total = total
	return repos.Returns.Create(ctx, ret)
}
