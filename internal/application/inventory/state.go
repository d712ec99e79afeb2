package inventory

import (
	"fmt"

	"github.com/rs/zerolog"
)

// State estado de una operación del coordinador.
type State string

const (
	StatePending    State = "pending"
	StateValidating State = "validating"
	StateApplying   State = "applying"
	StateCommitted  State = "committed"
	StateFailed     State = "failed"
	StateRolledBack State = "rolled_back"
)

// transiciones permitidas.
var transitions = map[State][]State{
	StatePending:    {StateValidating},
	StateValidating: {StateApplying, StateFailed},
	StateApplying:   {StateCommitted, StateFailed},
	StateFailed:     {StateRolledBack},
}

// Terminal indica si no hay transiciones posteriores.
// Failed es terminal cuando la falla ocurrió validando (no se abrió transacción).
func (s State) Terminal() bool {
	return s == StateCommitted || s == StateRolledBack
}

// operation sigue el estado de una llamada al coordinador.
type operation struct {
	name    string
	state   State
	history []State
	reason  error
	log     zerolog.Logger
}

func newOperation(name string, log zerolog.Logger) *operation {
	return &operation{
		name:    name,
		state:   StatePending,
		history: []State{StatePending},
		log:     log.With().Str("op", name).Logger(),
	}
}

// to avanza a next; una transición no permitida es un error de programación.
func (o *operation) to(next State) {
	for _, allowed := range transitions[o.state] {
		if allowed == next {
			o.log.Debug().Str("from", string(o.state)).Str("to", string(next)).Msg("transición")
			o.state = next
			o.history = append(o.history, next)
			return
		}
	}
	panic(fmt.Sprintf("inventory: transición inválida %s -> %s en %s", o.state, next, o.name))
}

// fail registra el motivo y pasa a Failed. Si ya se estaba aplicando, la unidad
// atómica fue revertida por el TxRunner y se continúa a RolledBack.
func (o *operation) fail(err error) {
	applying := o.state == StateApplying
	o.reason = err
	o.to(StateFailed)
	if applying {
		o.to(StateRolledBack)
	}
}
