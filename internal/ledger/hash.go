package ledger

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// HashType identifies the digest algorithm covering an Object or Annotation
// payload. SHA256 is the only supported value; the type exists so the wire
// encoding is self-describing and future algorithms slot in without an ABI
// break. Serialized as its integer value, matching the on-disk encoding of
// the event log.
type HashType uint8

// Supported hash types.
const (
	HashTypeSHA256 HashType = 1 << 0
)

func (h HashType) String() string {
	switch h {
	case HashTypeSHA256:
		return "SHA256"
	default:
		return fmt.Sprintf("HashType(%d)", uint8(h))
	}
}

func (h HashType) MarshalJSON() ([]byte, error) {
	return json.Marshal(uint8(h))
}

func (h *HashType) UnmarshalJSON(data []byte) error {
	var v uint8
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*h = HashType(v)
	return nil
}

// decodeHexHash decodes a hex-encoded SHA-256 digest, enforcing the 64
// character (32 byte) length the field validator requires.
func decodeHexHash(hash string) ([]byte, error) {
	if len(hash) != 64 {
		return nil, fmt.Errorf("hash must be 64 hex characters, got %d", len(hash))
	}
	b, err := hex.DecodeString(hash)
	if err != nil {
		return nil, fmt.Errorf("decode hex hash: %w", err)
	}
	return b, nil
}
