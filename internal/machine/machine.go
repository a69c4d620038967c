// Package machine implements the generic validator/consumer pipeline every
// dataset runs an event through: spec.md §2's "single entrypoint
// process_event" that first runs every registered Validator, then every
// registered Consumer.
//
// Grounded on _examples/original_source/core.py's Machine (register +
// process_event): a component is wired in as whichever roles it satisfies,
// discovered structurally rather than through the Python isinstance check.
package machine

import (
	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger"
)

// Validator rejects an event that is well-formed but violates a rule.
type Validator interface {
	Validate(event ledger.Event) error
}

// Consumer applies an already-validated event to some derived state.
type Consumer interface {
	Consume(event ledger.Event) error
}

// ValidatorFunc adapts a plain function to Validator.
type ValidatorFunc func(event ledger.Event) error

// Validate implements Validator.
func (f ValidatorFunc) Validate(event ledger.Event) error { return f(event) }

// ConsumerFunc adapts a plain function to Consumer.
type ConsumerFunc func(event ledger.Event) error

// Consume implements Consumer.
func (f ConsumerFunc) Consume(event ledger.Event) error { return f(event) }

// Machine runs an event through every registered Validator, in registration
// order, and then — only if every Validator accepted it — every registered
// Consumer, also in registration order. A single critical section (spec.md
// §5) is the caller's responsibility; Machine itself holds no lock.
type Machine struct {
	validators []Validator
	consumers  []Consumer
}

// New constructs an empty Machine.
func New() *Machine {
	return &Machine{}
}

// Register wires component into the pipeline as whichever of Validator and
// Consumer it implements. A component satisfying both (the RecordKeeper,
// the SchemaValidator, the State) is wired as both.
func (m *Machine) Register(component any) {
	if v, ok := component.(Validator); ok {
		m.validators = append(m.validators, v)
	}
	if c, ok := component.(Consumer); ok {
		m.consumers = append(m.consumers, c)
	}
}

// ProcessEvent runs event through every validator, then — only if all of
// them accepted it — every consumer. A rejecting validator stops the
// pipeline before any consumer runs, so a refused event leaves no trace.
func (m *Machine) ProcessEvent(event ledger.Event) error {
	for _, v := range m.validators {
		if err := v.Validate(event); err != nil {
			return err
		}
	}
	for _, c := range m.consumers {
		if err := c.Consume(event); err != nil {
			return err
		}
	}
	return nil
}
