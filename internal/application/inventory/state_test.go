package inventory

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestOperation_CaminoFeliz(t *testing.T) {
	op := newOperation("sale", zerolog.Nop())
	op.to(StateValidating)
	op.to(StateApplying)
	op.to(StateCommitted)

	assert.Equal(t, StateCommitted, op.state)
	assert.True(t, op.state.Terminal())
	assert.Equal(t, []State{StatePending, StateValidating, StateApplying, StateCommitted}, op.history)
}

func TestOperation_FallaValidando(t *testing.T) {
	op := newOperation("sale", zerolog.Nop())
	op.to(StateValidating)
	boom := errors.New("boom")
	op.fail(boom)

	assert.Equal(t, StateFailed, op.state)
	assert.Equal(t, boom, op.reason)
	assert.NotContains(t, op.history, StateRolledBack)
}

func TestOperation_FallaAplicando(t *testing.T) {
	op := newOperation("transfer", zerolog.Nop())
	op.to(StateValidating)
	op.to(StateApplying)
	op.fail(errors.New("sin stock"))

	assert.Equal(t, StateRolledBack, op.state)
	assert.Equal(t, []State{StatePending, StateValidating, StateApplying, StateFailed, StateRolledBack}, op.history)
}

func TestOperation_TransicionInvalida(t *testing.T) {
	op := newOperation("sale", zerolog.Nop())
	assert.Panics(t, func() { op.to(StateCommitted) })

	op.to(StateValidating)
	op.to(StateApplying)
	op.to(StateCommitted)
	assert.Panics(t, func() { op.to(StateFailed) })
}
