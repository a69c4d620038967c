package ledger

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// SchemaNamePrefix marks an Object as a schema object: its payload is a JSON
// Schema document that annotations referencing it must conform to.
const SchemaNamePrefix = "schema-"

// SchemaMimetype is the required format for a schema object's payload.
const SchemaMimetype = "application/schema+json"

// IsSchemaName reports whether name marks a schema object.
func IsSchemaName(name string) bool {
	return strings.HasPrefix(name, SchemaNamePrefix)
}

// Object is the metadata container for a blob held in the Depot.
type Object struct {
	UUID     uuid.UUID
	Version  uint64
	Name     string
	Format   string
	Size     uint64
	HashType HashType
	Hash     string // hex-encoded digest
}

// NewObject constructs a version-0 Object with a freshly generated UUID.
func NewObject(name, format string, size uint64, hashType HashType, hash string) Object {
	return Object{
		UUID:     uuid.New(),
		Version:  0,
		Name:     name,
		Format:   format,
		Size:     size,
		HashType: hashType,
		Hash:     hash,
	}
}

// Identifier returns the Identifier naming this version of the object.
func (o Object) Identifier() Identifier {
	return Identifier{UUID: o.UUID, Version: o.Version}
}

// IsSchema reports whether this object is a schema object.
func (o Object) IsSchema() bool {
	return IsSchemaName(o.Name) && o.Format == SchemaMimetype
}

// SigningBytes returns the canonical byte representation used for
// signatures and hash chaining: uuid ++ version:u64le ++ name ++ format ++
// size:u64le ++ hash_type:u8 ++ raw hash bytes.
func (o Object) SigningBytes() ([]byte, error) {
	hashBytes, err := decodeHexHash(o.Hash)
	if err != nil {
		return nil, fmt.Errorf("object hash: %w", err)
	}

	var buf []byte
	buf = append(buf, o.UUID[:]...)
	buf = appendU64(buf, o.Version)
	buf = append(buf, []byte(o.Name)...)
	buf = append(buf, []byte(o.Format)...)
	buf = appendU64(buf, o.Size)
	buf = append(buf, byte(o.HashType))
	buf = append(buf, hashBytes...)
	return buf, nil
}

func appendU64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

type objectJSON struct {
	UUID     string   `json:"uuid"`
	Version  uint64   `json:"version"`
	Name     string   `json:"name"`
	Format   string   `json:"format"`
	Size     uint64   `json:"size"`
	HashType HashType `json:"hash_type"`
	Hash     string   `json:"hash"`
}

// MarshalJSON implements json.Marshaler.
func (o Object) MarshalJSON() ([]byte, error) {
	return json.Marshal(objectJSON{
		UUID:     o.UUID.String(),
		Version:  o.Version,
		Name:     o.Name,
		Format:   o.Format,
		Size:     o.Size,
		HashType: o.HashType,
		Hash:     o.Hash,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Object) UnmarshalJSON(data []byte) error {
	var raw objectJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	u, err := uuid.Parse(raw.UUID)
	if err != nil {
		return fmt.Errorf("object uuid: %w", err)
	}
	o.UUID = u
	o.Version = raw.Version
	o.Name = raw.Name
	o.Format = raw.Format
	o.Size = raw.Size
	o.HashType = raw.HashType
	o.Hash = raw.Hash
	return nil
}
