package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorsWrapInvalidInput(t *testing.T) {
	for _, err := range []error{
		ErrEmptyOrder, ErrEmptyBatch, ErrInvalidLine, ErrInvalidQuantity,
		ErrMissingCounterparty, ErrInsufficientPayment, ErrTotalMismatch, ErrInactiveProduct,
	} {
		assert.ErrorIs(t, err, ErrInvalidInput, err.Error())
	}
}

func TestLineCausesWrapInvalidLine(t *testing.T) {
	for _, err := range []error{ErrInvalidQuantity, ErrMissingCounterparty, ErrInactiveProduct} {
		assert.ErrorIs(t, err, ErrInvalidLine, err.Error())
	}
	assert.NotErrorIs(t, ErrEmptyOrder, ErrInvalidLine)
}

func TestStockError(t *testing.T) {
	var err error = NewLineError(1, "Q", &StockError{ProductID: "Q", Requested: 5, Available: 3})

	assert.ErrorIs(t, err, ErrInsufficientStock)
	var se *StockError
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, int64(3), se.Available)
	assert.Contains(t, err.Error(), "línea 2")
	assert.Contains(t, err.Error(), "disponible 3")
}

func TestIsBusiness(t *testing.T) {
	assert.True(t, IsBusiness(fmt.Errorf("x: %w", ErrEmptyOrder)))
	assert.True(t, IsBusiness(&StockError{ProductID: "P", Requested: 1, Available: -1}))
	assert.False(t, IsBusiness(errors.New("connection reset")))
	assert.False(t, IsBusiness(ErrStore))
}
