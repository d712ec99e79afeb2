package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/pos-beras/internal/domain"
	"github.com/jhoicas/pos-beras/internal/domain/entity"
	inv "github.com/jhoicas/pos-beras/internal/domain/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSaleLines(t *testing.T) {
	r := NewRecorder(inv.SaleCodeGenerator{})

	assert.ErrorIs(t, r.ValidateSaleLines(nil), domain.ErrEmptyOrder)
	assert.NoError(t, r.ValidateSaleLines([]SaleLineInput{{ProductID: "a", Quantity: 1}}))

	err := r.ValidateSaleLines([]SaleLineInput{{ProductID: "a", Quantity: 1}, {ProductID: "b", Quantity: 0}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	var lineErr *domain.LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 1, lineErr.Index)

	assert.ErrorIs(t, r.ValidateSaleLines([]SaleLineInput{{ProductID: " ", Quantity: 1}}), domain.ErrInvalidLine)
	assert.ErrorIs(t, r.ValidateSaleLines([]SaleLineInput{{ProductID: "a", Quantity: 1, UnitPrice: -1}}), domain.ErrInvalidLine)
}

func TestValidateMovement(t *testing.T) {
	r := NewRecorder(inv.SaleCodeGenerator{})

	assert.ErrorIs(t, r.ValidateMovement(nil, entity.MovementReceipt), domain.ErrEmptyBatch)
	assert.ErrorIs(t, r.ValidateMovement([]MovementLine{{ProductID: "a", Quantity: 1, Counterparty: "x"}}, entity.MovementAdjustment), domain.ErrInvalidInput)
	assert.ErrorIs(t, r.ValidateMovement([]MovementLine{{ProductID: "a", Quantity: 1}}, entity.MovementReceipt), domain.ErrMissingCounterparty)
	assert.ErrorIs(t, r.ValidateMovement([]MovementLine{{ProductID: "a", Quantity: -2, Counterparty: "x"}}, entity.MovementTransfer), domain.ErrInvalidQuantity)
	assert.NoError(t, r.ValidateMovement([]MovementLine{{ProductID: "a", Quantity: 2, Counterparty: "Toko Jaya"}}, entity.MovementReceipt))
}

func TestValidateReturnLines(t *testing.T) {
	r := NewRecorder(inv.SaleCodeGenerator{})

	assert.ErrorIs(t, r.ValidateReturnLines("cambio", []ReturnLineInput{{ProductID: "a", Quantity: 1}}), domain.ErrInvalidInput)
	assert.ErrorIs(t, r.ValidateReturnLines(entity.ReturnSale, nil), domain.ErrEmptyBatch)
	assert.ErrorIs(t, r.ValidateReturnLines(entity.ReturnSale, []ReturnLineInput{{ProductID: "a"}}), domain.ErrInvalidQuantity)
	assert.NoError(t, r.ValidateReturnLines(entity.ReturnPurchase, []ReturnLineInput{{ProductID: "a", Quantity: 3}}))
}

type memSales struct {
	codes map[string]bool
	lines []*entity.SaleLine
}

func (m *memSales) CreateHeader(_ context.Context, s *entity.Sale) error {
	if m.codes[s.Code] {
		return domain.ErrConflict
	}
	m.codes[s.Code] = true
	return nil
}

func (m *memSales) CreateLine(_ context.Context, l *entity.SaleLine) error {
	m.lines = append(m.lines, l)
	return nil
}

func (m *memSales) GetByID(context.Context, string) (*entity.Sale, error)   { return nil, nil }
func (m *memSales) GetByCode(context.Context, string) (*entity.Sale, error) { return nil, nil }
func (m *memSales) Lines(context.Context, string) ([]*entity.SaleLine, error) {
	return m.lines, nil
}

func sequence(values ...int) func(int) int {
	i := 0
	return func(int) int {
		v := values[i%len(values)]
		i++
		return v
	}
}

func TestRecordSale_ReintentaCodigo(t *testing.T) {
	at := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	sales := &memSales{codes: map[string]bool{"TRX181020260007": true}}
	r := NewRecorder(inv.SaleCodeGenerator{Prefix: "TRX", Intn: sequence(7, 7, 42)})

	sale := &entity.Sale{CreatedAt: at}
	lines := []*entity.SaleLine{{ProductID: "a", Quantity: 1}}
	require.NoError(t, r.RecordSale(context.Background(), Repos{Sales: sales}, sale, lines))

	assert.Equal(t, "TRX181020260042", sale.Code)
	assert.NotEmpty(t, sale.ID)
	assert.Equal(t, sale.ID, lines[0].SaleID)
	assert.Len(t, sales.lines, 1)
}

func TestRecordSale_AgotaIntentos(t *testing.T) {
	at := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	sales := &memSales{codes: map[string]bool{"TRX181020260007": true}}
	r := NewRecorder(inv.SaleCodeGenerator{Prefix: "TRX", Intn: sequence(7)})

	err := r.RecordSale(context.Background(), Repos{Sales: sales}, &entity.Sale{CreatedAt: at}, []*entity.SaleLine{{ProductID: "a", Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Empty(t, sales.lines)
}

type memReturns struct{ saved *entity.Return }

func (m *memReturns) Create(_ context.Context, ret *entity.Return) error {
	m.saved = ret
	return nil
}

func (m *memReturns) GetByID(context.Context, string) (*entity.Return, error) { return m.saved, nil }

func (m *memReturns) ReturnedQty(context.Context, string) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func TestRecordReturn_CalculaTotal(t *testing.T) {
	returns := &memReturns{}
	r := NewRecorder(inv.SaleCodeGenerator{})
	ret := &entity.Return{Kind: entity.ReturnSale, Lines: []entity.ReturnLine{
		{ProductID: "a", Quantity: 3, UnitPrice: 1000},
		{ProductID: "b", Quantity: 2, UnitPrice: 12500},
	}}

	require.NoError(t, r.RecordReturn(context.Background(), Repos{Returns: returns}, ret))
	assert.Equal(t, entity.Money(28000), returns.saved.Total)
	assert.Equal(t, entity.Money(3000), returns.saved.Lines[0].Subtotal)
	assert.Equal(t, ret.ID, returns.saved.Lines[1].ReturnID)
}
