package integrity

import (
	"crypto/ed25519"
	"encoding/hex"

	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger"
	pkgerrors "github.com/kvshepherd-labs/ledgerkeep/internal/pkg/errors"
)

// Signer signs events with an Ed25519 private key. The dataset's Author
// field carries the hex-encoded public key, making every event
// self-describing: no external key registry is required to validate it.
type Signer struct {
	signingKey ed25519.PrivateKey
	verifyHex  string
}

// NewSigner constructs a Signer from an Ed25519 private key.
func NewSigner(signingKey ed25519.PrivateKey) *Signer {
	pub := signingKey.Public().(ed25519.PublicKey)
	return &Signer{signingKey: signingKey, verifyHex: hex.EncodeToString(pub)}
}

// Sign populates event's Integrity and Author fields in place.
func (s *Signer) Sign(event ledger.Event) error {
	sb, err := event.SigningBytes()
	if err != nil {
		return pkgerrors.WrapValidation(pkgerrors.KindIntegrity, err, "compute signing bytes")
	}
	sig := ed25519.Sign(s.signingKey, sb)
	base := event.Base()
	base.Integrity = sig
	base.Author = s.verifyHex
	return nil
}

// SignatureValidator verifies that an event's Integrity is a valid Ed25519
// signature over its signing bytes, made by the public key named in Author.
type SignatureValidator struct{}

// NewSignatureValidator constructs a SignatureValidator.
func NewSignatureValidator() *SignatureValidator {
	return &SignatureValidator{}
}

// Validate implements the dataset Validator contract.
func (v *SignatureValidator) Validate(event ledger.Event) error {
	base := event.Base()
	if base.Author == "" {
		return pkgerrors.NewValidation(pkgerrors.KindIntegrity, "event missing author")
	}
	if base.Integrity == nil {
		return pkgerrors.NewValidation(pkgerrors.KindIntegrity, "event missing integrity")
	}

	pub, err := hex.DecodeString(base.Author)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return pkgerrors.NewValidation(pkgerrors.KindIntegrity, "author is not a valid public key")
	}

	sb, err := event.SigningBytes()
	if err != nil {
		return pkgerrors.WrapValidation(pkgerrors.KindIntegrity, err, "compute signing bytes")
	}

	if !ed25519.Verify(ed25519.PublicKey(pub), sb, base.Integrity) {
		return pkgerrors.NewValidation(pkgerrors.KindIntegrity, "event integrity failed to validate")
	}
	return nil
}
