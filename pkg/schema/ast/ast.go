// Package ast defines the abstract syntax tree consumed by the schema
// validation pipeline. The tree is produced from HCL source by ParseSchema
// and is immutable once built.
package ast

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// Span is a byte-offset range into the original schema text. Diagnostics
// carry spans so tooling can highlight the offending source.
type Span struct {
	Start int
	End   int
}

// EmptySpan returns the zero span, used when no source location applies.
func EmptySpan() Span {
	return Span{}
}

// SpanFromRange converts an HCL source range into a byte-offset span.
func SpanFromRange(rng hcl.Range) Span {
	return Span{Start: rng.Start.Byte, End: rng.End.Byte}
}

// Property is one `name = value` entry inside a configuration block. The
// raw expression is retained so value resolution can distinguish literals,
// arrays and env() indirection.
type Property struct {
	Name     string
	NameSpan Span
	Expr     hclsyntax.Expression
	Span     Span
}

// SourceConfig is a named `datasource` block with its ordered properties.
type SourceConfig struct {
	Name          string
	NameSpan      Span
	Properties    []*Property
	Span          Span
	Documentation string
}

// GeneratorConfig is a named `generator` block with its ordered properties.
type GeneratorConfig struct {
	Name          string
	NameSpan      Span
	Properties    []*Property
	Span          Span
	Documentation string
}

// Model is a named `model` block. Each field is declared as one property
// whose value is the scalar type name, optionally suffixed with `?` for
// optional fields or `[]` for list fields. A property named `id` names the
// model's identifier field instead of declaring one.
type Model struct {
	Name          string
	NameSpan      Span
	Properties    []*Property
	Span          Span
	Documentation string
}

// Schema is the parsed schema: zero or more named configuration blocks.
type Schema struct {
	Sources    []*SourceConfig
	Generators []*GeneratorConfig
	Models     []*Model
}
