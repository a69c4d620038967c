package schema_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvshepherd-labs/ledgerkeep/internal/schema"
)

const personSchema = `{
	"type": "object",
	"properties": {
		"name": {"type": "string"},
		"age": {"type": "integer", "minimum": 0}
	},
	"required": ["name"]
}`

func TestCompile_ValidSchema(t *testing.T) {
	s, err := schema.Compile([]byte(personSchema))
	require.NoError(t, err)
	require.NotNil(t, s)
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := schema.Compile([]byte(`{"type": "not-a-real-type"}`))
	require.Error(t, err)
}

func TestCompile_MalformedJSON(t *testing.T) {
	_, err := schema.Compile([]byte(`not json`))
	require.Error(t, err)
}

func TestValidate_ConformingInstance(t *testing.T) {
	s, err := schema.Compile([]byte(personSchema))
	require.NoError(t, err)

	err = s.Validate([]byte(`{"name": "ada", "age": 32}`))
	require.NoError(t, err)
}

func TestValidate_NonConformingInstance(t *testing.T) {
	s, err := schema.Compile([]byte(personSchema))
	require.NoError(t, err)

	err = s.Validate([]byte(`{"age": -1}`))
	require.Error(t, err)
}
