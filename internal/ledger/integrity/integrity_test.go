package integrity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger"
)

type fakeTailReader struct {
	events map[uuid.UUID][]byte
	order  []uuid.UUID
}

func newFakeTailReader() *fakeTailReader {
	return &fakeTailReader{events: make(map[uuid.UUID][]byte)}
}

func (f *fakeTailReader) Tail() (uuid.UUID, bool, error) {
	if len(f.order) == 0 {
		return uuid.Nil, false, nil
	}
	return f.order[len(f.order)-1], true, nil
}

func (f *fakeTailReader) ReadIntegrity(id uuid.UUID) ([]byte, error) {
	return f.events[id], nil
}

func (f *fakeTailReader) append(ev ledger.Event) {
	b := ev.Base()
	f.events[b.UUID] = b.Integrity
	f.order = append(f.order, b.UUID)
}

func newOwnerAddEvent() *ledger.OwnerAddEvent {
	return ledger.NewOwnerAddEvent("alice", "")
}

func TestHashChain_LinkAndValidate(t *testing.T) {
	rk := newFakeTailReader()
	linker := NewHashChainLinker(rk)
	validator := NewHashChainValidator(rk)

	ev1 := newOwnerAddEvent()
	require.NoError(t, linker.Link(ev1, "alice"))
	require.NoError(t, validator.Validate(ev1))
	rk.append(ev1)

	ev2 := newOwnerAddEvent()
	require.NoError(t, linker.Link(ev2, "bob"))
	require.NoError(t, validator.Validate(ev2))
	rk.append(ev2)

	require.NotEqual(t, ev1.Integrity, ev2.Integrity)
}

func TestHashChain_ValidateRejectsTamperedIntegrity(t *testing.T) {
	rk := newFakeTailReader()
	linker := NewHashChainLinker(rk)
	validator := NewHashChainValidator(rk)

	ev := newOwnerAddEvent()
	require.NoError(t, linker.Link(ev, "alice"))
	ev.Integrity[0] ^= 0xff

	require.Error(t, validator.Validate(ev))
}

func TestHashChain_ValidateRejectsMissingIntegrity(t *testing.T) {
	rk := newFakeTailReader()
	validator := NewHashChainValidator(rk)

	ev := newOwnerAddEvent()
	ev.Author = "alice"
	require.Error(t, validator.Validate(ev))
}

func TestSignature_SignAndValidate(t *testing.T) {
	kp, err := NewKeyPair()
	require.NoError(t, err)

	signer := NewSigner(kp.SigningKey)
	validator := NewSignatureValidator()

	ev := newOwnerAddEvent()
	require.NoError(t, signer.Sign(ev))
	require.NoError(t, validator.Validate(ev))
}

func TestSignature_ValidateRejectsTamperedSignature(t *testing.T) {
	kp, err := NewKeyPair()
	require.NoError(t, err)

	signer := NewSigner(kp.SigningKey)
	validator := NewSignatureValidator()

	ev := newOwnerAddEvent()
	require.NoError(t, signer.Sign(ev))
	ev.Integrity[0] ^= 0xff

	require.Error(t, validator.Validate(ev))
}

func TestSignature_ValidateRejectsWrongKey(t *testing.T) {
	kp1, err := NewKeyPair()
	require.NoError(t, err)
	kp2, err := NewKeyPair()
	require.NoError(t, err)

	signer := NewSigner(kp1.SigningKey)
	validator := NewSignatureValidator()

	ev := newOwnerAddEvent()
	require.NoError(t, signer.Sign(ev))
	ev.Author = NewSigner(kp2.SigningKey).verifyHex

	require.Error(t, validator.Validate(ev))
}

func TestKeyPair_SerializeRoundTrip(t *testing.T) {
	kp, err := NewKeyPair()
	require.NoError(t, err)

	data := kp.Serialize()
	out, err := DeserializeKeyPair(data)
	require.NoError(t, err)

	require.Equal(t, kp.SigningKey, out.SigningKey)
	require.Equal(t, kp.VerifyKey, out.VerifyKey)
}
