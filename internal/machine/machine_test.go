package machine_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger"
	"github.com/kvshepherd-labs/ledgerkeep/internal/machine"
)

func ownerAddEvent() ledger.Event {
	return ledger.NewOwnerAddEvent("alice", "alice")
}

func TestMachine_RunsValidatorsBeforeConsumers(t *testing.T) {
	var order []string

	m := machine.New()
	m.Register(machine.ValidatorFunc(func(ledger.Event) error {
		order = append(order, "validate")
		return nil
	}))
	m.Register(machine.ConsumerFunc(func(ledger.Event) error {
		order = append(order, "consume")
		return nil
	}))

	require.NoError(t, m.ProcessEvent(ownerAddEvent()))
	require.Equal(t, []string{"validate", "consume"}, order)
}

func TestMachine_RejectingValidatorStopsConsumers(t *testing.T) {
	consumed := false
	wantErr := errors.New("rejected")

	m := machine.New()
	m.Register(machine.ValidatorFunc(func(ledger.Event) error { return wantErr }))
	m.Register(machine.ConsumerFunc(func(ledger.Event) error {
		consumed = true
		return nil
	}))

	err := m.ProcessEvent(ownerAddEvent())
	require.ErrorIs(t, err, wantErr)
	require.False(t, consumed)
}

func TestMachine_RegisterWiresBothRoles(t *testing.T) {
	var validated, consumed bool

	both := struct {
		machine.Validator
		machine.Consumer
	}{
		Validator: machine.ValidatorFunc(func(ledger.Event) error { validated = true; return nil }),
		Consumer:  machine.ConsumerFunc(func(ledger.Event) error { consumed = true; return nil }),
	}

	m := machine.New()
	m.Register(both)

	require.NoError(t, m.ProcessEvent(ownerAddEvent()))
	require.True(t, validated)
	require.True(t, consumed)
}

func TestMachine_RegistrationOrderPreserved(t *testing.T) {
	var order []int

	m := machine.New()
	for i := 0; i < 3; i++ {
		i := i
		m.Register(machine.ValidatorFunc(func(ledger.Event) error {
			order = append(order, i)
			return nil
		}))
	}

	require.NoError(t, m.ProcessEvent(ownerAddEvent()))
	require.Equal(t, []int{0, 1, 2}, order)
}
