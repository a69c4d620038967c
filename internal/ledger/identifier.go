// Package ledger implements the dataset event model: identifiers, the
// Object/Annotation metadata containers, the ten event kinds, their
// canonical signing-byte encoding, and their JSON codec.
//
// Grounded on _examples/original_source/src/core/events.py (project "gonk"),
// restated as a Go tagged union per spec.md §9 ("model events as a tagged
// union and pattern-match once per stage").
package ledger

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Identifier names one specific version of an object or annotation.
type Identifier struct {
	UUID    uuid.UUID
	Version uint64
}

// SigningBytes returns the canonical byte representation used for
// signatures and hash chaining: 16-byte UUID followed by the version as a
// little-endian u64.
func (id Identifier) SigningBytes() []byte {
	buf := make([]byte, 16+8)
	copy(buf, id.UUID[:])
	binary.LittleEndian.PutUint64(buf[16:], id.Version)
	return buf
}

// Equal reports whether two identifiers name the same UUID and version.
func (id Identifier) Equal(other Identifier) bool {
	return id.UUID == other.UUID && id.Version == other.Version
}

func (id Identifier) String() string {
	return fmt.Sprintf("%s.%d", id.UUID, id.Version)
}

type identifierJSON struct {
	UUID    string `json:"uuid"`
	Version uint64 `json:"version"`
}

// MarshalJSON implements json.Marshaler.
func (id Identifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(identifierJSON{UUID: id.UUID.String(), Version: id.Version})
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *Identifier) UnmarshalJSON(data []byte) error {
	var raw identifierJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	u, err := uuid.Parse(raw.UUID)
	if err != nil {
		return fmt.Errorf("identifier uuid: %w", err)
	}
	id.UUID = u
	id.Version = raw.Version
	return nil
}
