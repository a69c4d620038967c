package integrity

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// KeyPair is a convenience wrapper for generating and serializing an
// Ed25519 key pair, used by the CLI to bootstrap a signed-mode dataset's
// first owner key.
type KeyPair struct {
	SigningKey ed25519.PrivateKey
	VerifyKey  ed25519.PublicKey
}

// NewKeyPair generates a fresh Ed25519 key pair.
func NewKeyPair() (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate ed25519 key pair: %w", err)
	}
	return &KeyPair{SigningKey: priv, VerifyKey: pub}, nil
}

// KeyPairFromSigningKey reconstructs a KeyPair from a raw private key.
func KeyPairFromSigningKey(signingKey []byte) (*KeyPair, error) {
	if len(signingKey) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("signing key must be %d bytes, got %d", ed25519.PrivateKeySize, len(signingKey))
	}
	priv := ed25519.PrivateKey(signingKey)
	pub := priv.Public().(ed25519.PublicKey)
	return &KeyPair{SigningKey: priv, VerifyKey: pub}, nil
}

// Serialize returns the hex-encoded signing and verify keys.
func (k *KeyPair) Serialize() map[string]string {
	return map[string]string{
		"signing_key": hex.EncodeToString(k.SigningKey),
		"verify_key":  hex.EncodeToString(k.VerifyKey),
	}
}

// DeserializeKeyPair reconstructs a KeyPair from its serialized form.
func DeserializeKeyPair(data map[string]string) (*KeyPair, error) {
	signingKey, err := hex.DecodeString(data["signing_key"])
	if err != nil {
		return nil, fmt.Errorf("decode signing_key: %w", err)
	}
	return KeyPairFromSigningKey(signingKey)
}
