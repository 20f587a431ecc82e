package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSchema = `// Primary application database.
// Uses the local dev file.
datasource "db" {
  provider = "sqlite"
  url      = "file:./dev.db"
}

generator "client" {
  provider = "quarry-client-go"
}

model "User" {
  id    = "name"
  name  = "String"
  email = "String?"
}
`

func TestParseSchema(t *testing.T) {
	schema, diags := ParseSchema("test.quarry", []byte(sampleSchema))
	require.False(t, diags.HasErrors(), diags.Error())

	require.Len(t, schema.Sources, 1)
	require.Len(t, schema.Generators, 1)
	require.Len(t, schema.Models, 1)

	src := schema.Sources[0]
	assert.Equal(t, "db", src.Name)
	assert.Equal(t, "Primary application database.\nUses the local dev file.", src.Documentation)

	require.Len(t, src.Properties, 2)
	assert.Equal(t, "provider", src.Properties[0].Name)
	assert.Equal(t, "url", src.Properties[1].Name)

	// Spans are byte offsets into the source.
	assert.Greater(t, src.Span.End, src.Span.Start)
	assert.Greater(t, src.Properties[0].Span.Start, src.Span.Start)
	assert.Less(t, src.Properties[0].Span.End, src.Span.End)

	assert.Equal(t, "client", schema.Generators[0].Name)
	assert.Empty(t, schema.Generators[0].Documentation)

	model := schema.Models[0]
	assert.Equal(t, "User", model.Name)
	assert.Len(t, model.Properties, 3)
}

func TestParseSchemaPropertyOrder(t *testing.T) {
	src := `datasource "db" {
  url      = "file:./dev.db"
  provider = "sqlite"
}
`
	schema, diags := ParseSchema("test.quarry", []byte(src))
	require.False(t, diags.HasErrors())

	props := schema.Sources[0].Properties
	require.Len(t, props, 2)
	assert.Equal(t, "url", props[0].Name)
	assert.Equal(t, "provider", props[1].Name)
}

func TestParseSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "missing block label", src: "datasource {\n}\n"},
		{name: "unknown block type", src: "warehouse \"w\" {\n}\n"},
		{name: "syntax error", src: "datasource \"db\" {\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema, diags := ParseSchema("test.quarry", []byte(tt.src))
			assert.Nil(t, schema)
			assert.True(t, diags.HasErrors())
		})
	}
}

func TestParseSchemaCommentSeparatedFromBlock(t *testing.T) {
	src := `// Stale comment.

datasource "db" {
  provider = "sqlite"
  url      = "file:./dev.db"
}
`
	schema, diags := ParseSchema("test.quarry", []byte(src))
	require.False(t, diags.HasErrors())
	assert.Empty(t, schema.Sources[0].Documentation)
}
