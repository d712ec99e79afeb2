package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-beras/internal/domain"
	"github.com/jhoicas/pos-beras/internal/domain/entity"
	inv "github.com/jhoicas/pos-beras/internal/domain/inventory"
	"github.com/jhoicas/pos-beras/internal/domain/repository"
	"github.com/rs/zerolog"
)

// Coordinator ejecuta cada operación de venta o inventario como una unidad atómica:
// valida fuera de la transacción, luego registra documentos y aplica deltas de stock
// dentro de un único TxRunner.Run. Si cualquier paso falla no queda nada escrito.
type Coordinator struct {
	tx       TxRunner
	read     Repos // lecturas de validación, fuera de la transacción
	recorder *Recorder
	ledger   *StockLedger
	log      zerolog.Logger
	now      func() time.Time
}

// NewCoordinator construye el coordinador.
func NewCoordinator(tx TxRunner, read Repos, recorder *Recorder, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		tx:       tx,
		read:     read,
		recorder: recorder,
		ledger:   NewStockLedger(),
		log:      log.With().Str("component", "coordinator").Logger(),
		now:      time.Now,
	}
}

// SaleRequest petición de venta.
type SaleRequest struct {
	Buyer      string
	CustomerID string
	CashierID  string
	Tendered   entity.Money  // 0 = pago exacto
	Total      *entity.Money // total declarado por la caja; nil = no se verifica
	Lines      []SaleLineInput
}

// SaleResult resultado de una venta. Se devuelve también cuando falla, con el estado final.
type SaleResult struct {
	Sale    *entity.Sale
	Lines   []*entity.SaleLine
	Entries []LedgerEntry
	State   State
}

// RecordSale registra una venta y descuenta el stock de cada línea.
func (c *Coordinator) RecordSale(ctx context.Context, req SaleRequest) (*SaleResult, error) {
	op := newOperation("sale", c.log)
	res := &SaleResult{}
	defer func() { res.State = op.state }()

	op.to(StateValidating)
	sale, lines, err := c.prepareSale(ctx, req)
	if err != nil {
		return res, c.fail(op, err)
	}

	op.to(StateApplying)
	err = c.tx.Run(ctx, func(ctx context.Context, repos Repos) error {
		if err := c.recorder.RecordSale(ctx, repos, sale, lines); err != nil {
			return err
		}
		for i, l := range lines {
			entry, err := c.ledger.ApplyDelta(ctx, repos.Products, l.ProductID, -l.Quantity, Relative)
			if err != nil {
				return domain.NewLineError(i, l.ProductID, err)
			}
			res.Entries = append(res.Entries, entry)
		}
		return nil
	})
	if err != nil {
		res.Entries = nil
		return res, c.fail(op, err)
	}
	op.to(StateCommitted)
	res.Sale, res.Lines = sale, lines
	c.log.Info().Str("code", sale.Code).Int64("total", int64(sale.Total)).Int("lines", len(lines)).Msg("venta registrada")
	return res, nil
}

// prepareSale valida la petición y arma cabecera y líneas con precios y costos del catálogo.
func (c *Coordinator) prepareSale(ctx context.Context, req SaleRequest) (*entity.Sale, []*entity.SaleLine, error) {
	if err := c.recorder.ValidateSaleLines(req.Lines); err != nil {
		return nil, nil, err
	}
	if req.Tendered < 0 {
		return nil, nil, domain.ErrInsufficientPayment
	}
	products, err := c.read.Products.GetMany(ctx, saleProductIDs(req.Lines))
	if err != nil {
		return nil, nil, err
	}
	if req.CustomerID != "" {
		customer, err := c.read.Customers.GetByID(ctx, req.CustomerID)
		if err != nil {
			return nil, nil, err
		}
		if customer == nil {
			return nil, nil, fmt.Errorf("cliente %s: %w", req.CustomerID, domain.ErrNotFound)
		}
	}

	lines := make([]*entity.SaleLine, 0, len(req.Lines))
	var total entity.Money
	for i, in := range req.Lines {
		p := products[in.ProductID]
		if p == nil {
			return nil, nil, domain.NewLineError(i, in.ProductID, domain.ErrNotFound)
		}
		if !p.Active() {
			return nil, nil, domain.NewLineError(i, in.ProductID, domain.ErrInactiveProduct)
		}
		price := in.UnitPrice
		if price == 0 {
			price = p.UnitPrice
		}
		line := &entity.SaleLine{
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			UnitPrice: price,
			UnitCost:  p.Cost,
			Subtotal:  price.Times(in.Quantity),
		}
		total += line.Subtotal
		lines = append(lines, line)
	}
	if req.Total != nil && *req.Total != total {
		return nil, nil, domain.ErrTotalMismatch
	}
	tendered := req.Tendered
	if tendered == 0 {
		tendered = total
	}
	if tendered < total {
		return nil, nil, domain.ErrInsufficientPayment
	}
	sale := &entity.Sale{
		ID:         uuid.New().String(),
		Buyer:      strings.TrimSpace(req.Buyer),
		CustomerID: req.CustomerID,
		CashierID:  req.CashierID,
		Total:      total,
		Tendered:   tendered,
		Change:     tendered - total,
		CreatedAt:  c.now().UTC(),
	}
	return sale, lines, nil
}

// ReceiptItem línea de una entrada de proveedor.
type ReceiptItem struct {
	ProductID string
	Quantity  int64
	Supplier  string
	UnitCost  *entity.Money // si viene, recalcula el costo promedio ponderado
	Note      string
}

// ReceiptRequest lote de entradas; una entrada simple es un lote de una línea.
type ReceiptRequest struct {
	CreatedBy string
	Items     []ReceiptItem
}

// TransferItem línea de un traslado a otra sucursal.
type TransferItem struct {
	ProductID   string
	Quantity    int64
	Destination string
	Note        string
}

// TransferRequest lote de traslados.
type TransferRequest struct {
	CreatedBy string
	Items     []TransferItem
}

// AdjustRequest corrección absoluta de la cantidad de un producto.
type AdjustRequest struct {
	ProductID string
	Quantity  int64
	Note      string
	CreatedBy string
}

// MovementResult resultado de entradas, traslados y correcciones.
type MovementResult struct {
	BatchID   string
	Movements []*entity.StockMovement
	Entries   []LedgerEntry
	State     State
}

// RecordReceipt registra un lote de entradas completo en una sola unidad atómica.
func (c *Coordinator) RecordReceipt(ctx context.Context, req ReceiptRequest) (*MovementResult, error) {
	items := make([]MovementLine, len(req.Items))
	costs := make([]*entity.Money, len(req.Items))
	for i, it := range req.Items {
		items[i] = MovementLine{ProductID: it.ProductID, Quantity: it.Quantity, Counterparty: strings.TrimSpace(it.Supplier), Note: it.Note}
		costs[i] = it.UnitCost
	}
	return c.recordMovement(ctx, "receipt", entity.MovementReceipt, req.CreatedBy, items, costs)
}

// RecordTransfer registra un lote de traslados; cualquier línea sin stock revierte todo el lote.
func (c *Coordinator) RecordTransfer(ctx context.Context, req TransferRequest) (*MovementResult, error) {
	items := make([]MovementLine, len(req.Items))
	for i, it := range req.Items {
		items[i] = MovementLine{ProductID: it.ProductID, Quantity: it.Quantity, Counterparty: strings.TrimSpace(it.Destination), Note: it.Note}
	}
	return c.recordMovement(ctx, "transfer", entity.MovementTransfer, req.CreatedBy, items, nil)
}

func (c *Coordinator) recordMovement(ctx context.Context, name string, kind entity.MovementKind, createdBy string, items []MovementLine, costs []*entity.Money) (*MovementResult, error) {
	op := newOperation(name, c.log)
	res := &MovementResult{}
	defer func() { res.State = op.state }()

	op.to(StateValidating)
	if err := c.validateMovement(ctx, kind, items, costs); err != nil {
		return res, c.fail(op, err)
	}

	now := c.now().UTC()
	batchID := uuid.New().String()
	movements := make([]*entity.StockMovement, len(items))
	for i, it := range items {
		movements[i] = &entity.StockMovement{
			ID:           uuid.New().String(),
			BatchID:      batchID,
			ProductID:    it.ProductID,
			Kind:         kind,
			Delta:        kind.Sign() * it.Quantity,
			Counterparty: it.Counterparty,
			Note:         it.Note,
			CreatedBy:    createdBy,
			CreatedAt:    now,
		}
	}

	op.to(StateApplying)
	err := c.tx.Run(ctx, func(ctx context.Context, repos Repos) error {
		if err := c.recorder.RecordMovement(ctx, repos, movements); err != nil {
			return err
		}
		for i, m := range movements {
			if costs != nil && costs[i] != nil {
				if err := c.updateAverageCost(ctx, repos, m.ProductID, m.Delta, *costs[i]); err != nil {
					return domain.NewLineError(i, m.ProductID, err)
				}
			}
			entry, err := c.ledger.ApplyDelta(ctx, repos.Products, m.ProductID, m.Delta, Relative)
			if err != nil {
				return domain.NewLineError(i, m.ProductID, err)
			}
			res.Entries = append(res.Entries, entry)
		}
		return nil
	})
	if err != nil {
		res.Entries = nil
		return res, c.fail(op, err)
	}
	op.to(StateCommitted)
	res.BatchID, res.Movements = batchID, movements
	c.log.Info().Str("kind", string(kind)).Str("batch", batchID).Int("lines", len(movements)).Msg("movimiento registrado")
	return res, nil
}

func (c *Coordinator) validateMovement(ctx context.Context, kind entity.MovementKind, items []MovementLine, costs []*entity.Money) error {
	if err := c.recorder.ValidateMovement(items, kind); err != nil {
		return err
	}
	for i, cost := range costs {
		if cost != nil && *cost < 0 {
			return domain.NewLineError(i, items[i].ProductID, domain.ErrInvalidLine)
		}
	}
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ProductID
	}
	products, err := c.read.Products.GetMany(ctx, ids)
	if err != nil {
		return err
	}
	for i, it := range items {
		if products[it.ProductID] == nil {
			return domain.NewLineError(i, it.ProductID, domain.ErrNotFound)
		}
	}
	return nil
}

// updateAverageCost recalcula el costo con la cantidad y el costo leídos dentro de la transacción.
func (c *Coordinator) updateAverageCost(ctx context.Context, repos Repos, productID string, qty int64, unitCost entity.Money) error {
	p, err := repos.Products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	return repos.Products.UpdateCost(ctx, productID, inv.CostCalculator(p.Quantity, p.Cost, qty, unitCost))
}

// SetQuantity fija la cantidad de un producto y deja un movimiento de ajuste con la diferencia.
func (c *Coordinator) SetQuantity(ctx context.Context, req AdjustRequest) (*MovementResult, error) {
	op := newOperation("adjust", c.log)
	res := &MovementResult{}
	defer func() { res.State = op.state }()

	op.to(StateValidating)
	if strings.TrimSpace(req.ProductID) == "" {
		return res, c.fail(op, domain.ErrInvalidInput)
	}
	if req.Quantity < 0 {
		return res, c.fail(op, domain.ErrInvalidQuantity)
	}
	p, err := c.read.Products.GetByID(ctx, req.ProductID)
	if err == nil && p == nil {
		err = domain.ErrNotFound
	}
	if err != nil {
		return res, c.fail(op, err)
	}

	now := c.now().UTC()
	batchID := uuid.New().String()
	op.to(StateApplying)
	err = c.tx.Run(ctx, func(ctx context.Context, repos Repos) error {
		entry, err := c.ledger.ApplyDelta(ctx, repos.Products, req.ProductID, req.Quantity, Absolute)
		if err != nil {
			return err
		}
		res.Entries = []LedgerEntry{entry}
		if entry.Delta() == 0 {
			return nil
		}
		m := &entity.StockMovement{
			ID:        uuid.New().String(),
			BatchID:   batchID,
			ProductID: req.ProductID,
			Kind:      entity.MovementAdjustment,
			Delta:     entry.Delta(),
			Note:      req.Note,
			CreatedBy: req.CreatedBy,
			CreatedAt: now,
		}
		res.Movements = []*entity.StockMovement{m}
		return c.recorder.RecordMovement(ctx, repos, res.Movements)
	})
	if err != nil {
		res.Entries, res.Movements = nil, nil
		return res, c.fail(op, err)
	}
	op.to(StateCommitted)
	res.BatchID = batchID
	c.log.Info().Str("product", req.ProductID).Int64("previous", res.Entries[0].Previous).Int64("current", req.Quantity).Msg("stock corregido")
	return res, nil
}

// ReturnRequest petición de devolución. Reference es el id o el código de la venta original
// (devolución de cliente) o una referencia libre (devolución a proveedor).
type ReturnRequest struct {
	Kind      entity.ReturnKind
	Reference string
	Supplier  string
	Note      string
	CreatedBy string
	Lines     []ReturnLineInput
}

// ReturnResult resultado de una devolución.
type ReturnResult struct {
	Return  *entity.Return
	Entries []LedgerEntry
	State   State
}

// RecordReturn registra una devolución y aplica los deltas de stock que implica.
func (c *Coordinator) RecordReturn(ctx context.Context, req ReturnRequest) (*ReturnResult, error) {
	op := newOperation("return", c.log)
	res := &ReturnResult{}
	defer func() { res.State = op.state }()

	op.to(StateValidating)
	ret, sold, err := c.prepareReturn(ctx, req)
	if err != nil {
		return res, c.fail(op, err)
	}

	op.to(StateApplying)
	err = c.tx.Run(ctx, func(ctx context.Context, repos Repos) error {
		// se repite dentro de la unidad: otra devolución pudo confirmarse entre medio
		if ret.Kind == entity.ReturnSale {
			if err := checkReturnable(ctx, repos.Returns, ret, sold); err != nil {
				return err
			}
		}
		if err := c.recorder.RecordReturn(ctx, repos, ret); err != nil {
			return err
		}
		for i, l := range ret.Lines {
			entry, err := c.ledger.ApplyDelta(ctx, repos.Products, l.ProductID, ret.Kind.Sign()*l.Quantity, Relative)
			if err != nil {
				return domain.NewLineError(i, l.ProductID, err)
			}
			res.Entries = append(res.Entries, entry)
		}
		return nil
	})
	if err != nil {
		res.Entries = nil
		return res, c.fail(op, err)
	}
	op.to(StateCommitted)
	res.Return = ret
	c.log.Info().Str("kind", string(ret.Kind)).Str("reference", ret.Reference).Int64("total", int64(ret.Total)).Msg("devolución registrada")
	return res, nil
}

// prepareReturn valida la devolución y arma sus líneas. Para devoluciones de cliente
// devuelve además las cantidades vendidas por producto en la venta original.
func (c *Coordinator) prepareReturn(ctx context.Context, req ReturnRequest) (*entity.Return, map[string]int64, error) {
	if err := c.recorder.ValidateReturnLines(req.Kind, req.Lines); err != nil {
		return nil, nil, err
	}
	ret := &entity.Return{
		ID:        uuid.New().String(),
		Kind:      req.Kind,
		Reference: strings.TrimSpace(req.Reference),
		Note:      req.Note,
		CreatedBy: req.CreatedBy,
		CreatedAt: c.now().UTC(),
		Lines:     make([]entity.ReturnLine, len(req.Lines)),
	}

	if req.Kind == entity.ReturnPurchase {
		ret.Supplier = strings.TrimSpace(req.Supplier)
		if ret.Supplier == "" {
			return nil, nil, domain.ErrMissingCounterparty
		}
		ids := make([]string, len(req.Lines))
		for i, l := range req.Lines {
			ids[i] = l.ProductID
		}
		products, err := c.read.Products.GetMany(ctx, ids)
		if err != nil {
			return nil, nil, err
		}
		for i, l := range req.Lines {
			p := products[l.ProductID]
			if p == nil {
				return nil, nil, domain.NewLineError(i, l.ProductID, domain.ErrNotFound)
			}
			price := l.UnitPrice
			if price == 0 {
				price = p.Cost
			}
			ret.Lines[i] = entity.ReturnLine{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: price}
		}
		return ret, nil, nil
	}

	sale, err := c.findSale(ctx, ret.Reference)
	if err != nil {
		return nil, nil, err
	}
	ret.SaleID = sale.ID
	if ret.Reference == sale.ID {
		ret.Reference = sale.Code
	}
	saleLines, err := c.read.Sales.Lines(ctx, sale.ID)
	if err != nil {
		return nil, nil, err
	}
	sold := make(map[string]int64, len(saleLines))
	prices := make(map[string]entity.Money, len(saleLines))
	for _, sl := range saleLines {
		sold[sl.ProductID] += sl.Quantity
		if _, ok := prices[sl.ProductID]; !ok {
			prices[sl.ProductID] = sl.UnitPrice
		}
	}
	for i, l := range req.Lines {
		if _, ok := sold[l.ProductID]; !ok {
			return nil, nil, domain.NewLineError(i, l.ProductID, domain.ErrInvalidLine)
		}
		price := l.UnitPrice
		if price == 0 {
			price = prices[l.ProductID]
		}
		ret.Lines[i] = entity.ReturnLine{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: price}
	}
	if err := checkReturnable(ctx, c.read.Returns, ret, sold); err != nil {
		return nil, nil, err
	}
	return ret, sold, nil
}

// checkReturnable rechaza la devolución si, sumando las líneas del mismo producto,
// supera lo vendido menos lo ya devuelto de esa venta.
func checkReturnable(ctx context.Context, returns repository.ReturnRepository, ret *entity.Return, sold map[string]int64) error {
	returned, err := returns.ReturnedQty(ctx, ret.SaleID)
	if err != nil {
		return err
	}
	requested := make(map[string]int64, len(ret.Lines))
	for i, l := range ret.Lines {
		requested[l.ProductID] += l.Quantity
		if requested[l.ProductID] > sold[l.ProductID]-returned[l.ProductID] {
			return domain.NewLineError(i, l.ProductID, domain.ErrInvalidQuantity)
		}
	}
	return nil
}

// findSale resuelve la referencia por id y, si no, por código.
func (c *Coordinator) findSale(ctx context.Context, ref string) (*entity.Sale, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: falta la referencia de la venta", domain.ErrInvalidInput)
	}
	if _, err := uuid.Parse(ref); err == nil {
		sale, err := c.read.Sales.GetByID(ctx, ref)
		if err != nil {
			return nil, err
		}
		if sale != nil {
			return sale, nil
		}
	}
	sale, err := c.read.Sales.GetByCode(ctx, ref)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, fmt.Errorf("venta %s: %w", ref, domain.ErrNotFound)
	}
	return sale, nil
}

// CreateProductRequest alta de producto con stock inicial.
type CreateProductRequest struct {
	Name       string
	Category   string
	UnitPrice  entity.Money
	Cost       entity.Money
	MinQty     int64
	OpeningQty int64
	CreatedBy  string
}

// Validate revisa el alta sin tocar la base; la carga masiva la usa para validar
// todo el lote antes de escribir.
func (req CreateProductRequest) Validate() error {
	if strings.TrimSpace(req.Name) == "" || req.UnitPrice < 0 || req.Cost < 0 || req.MinQty < 0 {
		return domain.ErrInvalidInput
	}
	if req.OpeningQty < 0 {
		return domain.ErrInvalidQuantity
	}
	return nil
}

// ProductResult resultado del alta de producto.
type ProductResult struct {
	Product *entity.Product
	State   State
}

// CreateProduct inserta el producto en cero y registra el stock inicial como ajuste,
// de modo que la identidad de conservación parte desde el historial.
func (c *Coordinator) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResult, error) {
	op := newOperation("create_product", c.log)
	res := &ProductResult{}
	defer func() { res.State = op.state }()

	op.to(StateValidating)
	if err := req.Validate(); err != nil {
		return res, c.fail(op, err)
	}

	name := strings.TrimSpace(req.Name)
	now := c.now().UTC()
	p := &entity.Product{
		ID:        uuid.New().String(),
		Name:      name,
		Category:  strings.TrimSpace(req.Category),
		UnitPrice: req.UnitPrice,
		Cost:      req.Cost,
		MinQty:    req.MinQty,
		Status:    entity.ProductActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	op.to(StateApplying)
	err := c.tx.Run(ctx, func(ctx context.Context, repos Repos) error {
		if err := repos.Products.Create(ctx, p); err != nil {
			return err
		}
		if req.OpeningQty == 0 {
			return nil
		}
		m := &entity.StockMovement{
			ID:        uuid.New().String(),
			ProductID: p.ID,
			Kind:      entity.MovementAdjustment,
			Delta:     req.OpeningQty,
			Note:      "stock inicial",
			CreatedBy: req.CreatedBy,
			CreatedAt: now,
		}
		if err := c.recorder.RecordMovement(ctx, repos, []*entity.StockMovement{m}); err != nil {
			return err
		}
		entry, err := c.ledger.ApplyDelta(ctx, repos.Products, p.ID, req.OpeningQty, Relative)
		if err != nil {
			return err
		}
		p.Quantity = entry.Current
		return nil
	})
	if err != nil {
		return res, c.fail(op, err)
	}
	op.to(StateCommitted)
	res.Product = p
	return res, nil
}

// fail cierra la operación. Los errores de negocio se devuelven tal cual; los del
// almacenamiento se registran con detalle y se devuelven como domain.ErrStore.
func (c *Coordinator) fail(op *operation, err error) error {
	op.fail(err)
	if domain.IsBusiness(err) {
		c.log.Info().Str("op", op.name).Str("state", string(op.state)).Err(err).Msg("operación rechazada")
		return err
	}
	c.log.Error().Str("op", op.name).Str("state", string(op.state)).Err(err).Msg("error de almacenamiento")
	return domain.ErrStore
}

func saleProductIDs(lines []SaleLineInput) []string {
	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductID
	}
	return ids
}
