package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Annotation is the metadata container for a schema-validated JSON document
// attached to an object in the Depot.
type Annotation struct {
	UUID     uuid.UUID
	Version  uint64
	Schema   Identifier
	Size     uint64
	HashType HashType
	Hash     string // hex-encoded digest
}

// NewAnnotation constructs a version-0 Annotation with a freshly generated
// UUID, referencing the given schema identifier.
func NewAnnotation(schema Identifier, size uint64, hashType HashType, hash string) Annotation {
	return Annotation{
		UUID:     uuid.New(),
		Version:  0,
		Schema:   schema,
		Size:     size,
		HashType: hashType,
		Hash:     hash,
	}
}

// Identifier returns the Identifier naming this version of the annotation.
func (a Annotation) Identifier() Identifier {
	return Identifier{UUID: a.UUID, Version: a.Version}
}

// SigningBytes returns the canonical byte representation used for
// signatures and hash chaining: uuid ++ version:u64le ++ schema signing
// bytes ++ size:u64le ++ hash_type:u8 ++ raw hash bytes.
func (a Annotation) SigningBytes() ([]byte, error) {
	hashBytes, err := decodeHexHash(a.Hash)
	if err != nil {
		return nil, fmt.Errorf("annotation hash: %w", err)
	}

	var buf []byte
	buf = append(buf, a.UUID[:]...)
	buf = appendU64(buf, a.Version)
	buf = append(buf, a.Schema.SigningBytes()...)
	buf = appendU64(buf, a.Size)
	buf = append(buf, byte(a.HashType))
	buf = append(buf, hashBytes...)
	return buf, nil
}

type annotationJSON struct {
	UUID     string     `json:"uuid"`
	Version  uint64     `json:"version"`
	Schema   Identifier `json:"schema"`
	Size     uint64     `json:"size"`
	HashType HashType   `json:"hash_type"`
	Hash     string     `json:"hash"`
}

// MarshalJSON implements json.Marshaler.
func (a Annotation) MarshalJSON() ([]byte, error) {
	return json.Marshal(annotationJSON{
		UUID:     a.UUID.String(),
		Version:  a.Version,
		Schema:   a.Schema,
		Size:     a.Size,
		HashType: a.HashType,
		Hash:     a.Hash,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Annotation) UnmarshalJSON(data []byte) error {
	var raw annotationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	u, err := uuid.Parse(raw.UUID)
	if err != nil {
		return fmt.Errorf("annotation uuid: %w", err)
	}
	a.UUID = u
	a.Version = raw.Version
	a.Schema = raw.Schema
	a.Size = raw.Size
	a.HashType = raw.HashType
	a.Hash = raw.Hash
	return nil
}
