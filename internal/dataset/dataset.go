// Package dataset composes one Depot, one RecordKeeper, one State, and the
// validator/consumer pipeline of spec.md §4 into the single entrypoint a
// host calls: ProcessEvent. Event processing is serialized per dataset
// (spec.md §5) by a mutex scoped to the Dataset value; the host may run
// many datasets concurrently without cross-dataset contention.
package dataset

import (
	"context"
	"sync"

	"github.com/kvshepherd-labs/ledgerkeep/internal/depot"
	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger"
	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger/integrity"
	"github.com/kvshepherd-labs/ledgerkeep/internal/machine"
	"github.com/kvshepherd-labs/ledgerkeep/internal/recordkeeper"
	"github.com/kvshepherd-labs/ledgerkeep/internal/state"
	"github.com/kvshepherd-labs/ledgerkeep/internal/state/mem"
	"github.com/kvshepherd-labs/ledgerkeep/internal/validate"
)

// IntegrityMode selects one of the two mutually exclusive tamper-evidence
// regimes spec.md §4.3 describes. A dataset runs under exactly one for its
// whole lifetime.
type IntegrityMode int

// Supported integrity regimes.
const (
	IntegrityHashChain IntegrityMode = iota
	IntegritySigned
)

// recordKeeperComponent wires the package-level recordkeeper.Validate
// function and the RecordKeeper's Add method into the machine's
// Validator/Consumer roles, mirroring core.py's RecordKeeper(Consumer).
type recordKeeperComponent struct {
	rk recordkeeper.RecordKeeper
}

func (c recordKeeperComponent) Validate(event ledger.Event) error {
	return recordkeeper.Validate(c.rk, event)
}

func (c recordKeeperComponent) Consume(event ledger.Event) error {
	return c.rk.Add(event)
}

// Dataset is one independent event log + blob store + projected state,
// identified by name.
type Dataset struct {
	name string

	mu sync.Mutex

	depot        depot.Depot
	recordKeeper recordkeeper.RecordKeeper
	state        state.State
	schema       *validate.SchemaValidator
	machine      *machine.Machine
}

// New wires d, rk, and a fresh in-memory State into a Dataset running under
// mode. The validator pipeline order follows spec.md §4.5's "ordered
// stages": field shape, log uniqueness, integrity, schema, business rules.
func New(name string, d depot.Depot, rk recordkeeper.RecordKeeper, mode IntegrityMode) *Dataset {
	st := mem.New(rk)
	schemaValidator := validate.NewSchemaValidator(d)

	m := machine.New()
	m.Register(machine.ValidatorFunc(validate.Fields))
	m.Register(recordKeeperComponent{rk: rk})
	switch mode {
	case IntegritySigned:
		m.Register(integrity.NewSignatureValidator())
	default:
		m.Register(integrity.NewHashChainValidator(rk))
	}
	m.Register(schemaValidator)
	m.Register(st)

	return &Dataset{
		name:         name,
		depot:        d,
		recordKeeper: rk,
		state:        st,
		schema:       schemaValidator,
		machine:      m,
	}
}

// Name returns the dataset's identifying name.
func (ds *Dataset) Name() string { return ds.name }

// Depot returns the dataset's blob store, for host-side payload download
// and the caller-orchestrated reserve/write/finalize sequence of spec.md §5.
func (ds *Dataset) Depot() depot.Depot { return ds.depot }

// RecordKeeper returns the dataset's append-only event log, for host-side
// iteration and inspection.
func (ds *Dataset) RecordKeeper() recordkeeper.RecordKeeper { return ds.recordKeeper }

// State returns the dataset's query surface (spec.md §4.5's listings).
func (ds *Dataset) State() state.State { return ds.state }

// ProcessEvent is the single entrypoint spec.md §2 and §6.2 describe: the
// host constructs an unsigned event, runs it through a Signer/Linker, and
// calls ProcessEvent. All validators run, then all consumers, under one
// critical section scoped to this dataset — no other goroutine's event for
// this dataset interleaves partway through.
//
// A context cancelled before the critical section is entered aborts with
// no visible effect, satisfying spec.md §5's cancellation contract; once
// inside the section the call always runs to completion; there is no
// partial-validation or partial-consumption state to roll back; since every
// backing here is purely in-process, the section never itself blocks on
// cancellable I/O.
func (ds *Dataset) ProcessEvent(ctx context.Context, event ledger.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.machine.ProcessEvent(event)
}
