// Package schema ties the parsing front end to the validation pipeline:
// schema text in, validated configuration plus AST out, or collected
// diagnostics.
package schema

import (
	"github.com/hashicorp/hcl/v2"

	"github.com/quarrydb/quarry/pkg/datasource"
	"github.com/quarrydb/quarry/pkg/generator"
	"github.com/quarrydb/quarry/pkg/schema/ast"
	"github.com/quarrydb/quarry/pkg/schema/diag"
)

// Configuration is the validated configuration half of a schema: its
// datasources and generators, plus any warnings the pass produced.
type Configuration struct {
	Datasources []*datasource.Datasource
	Generators  []*generator.Generator
	Warnings    []diag.Warning
}

// PreviewFeatures returns every preview feature declared across all
// generators, in declaration order.
func (c *Configuration) PreviewFeatures() []string {
	var flags []string
	for _, gen := range c.Generators {
		flags = append(flags, gen.PreviewFeatures...)
	}
	return flags
}

// ValidateThatOneDatasourceIsProvided fails when the schema declares no
// datasource at all. The at-most-one rule is enforced by the loader.
func (c *Configuration) ValidateThatOneDatasourceIsProvided() *diag.DatamodelError {
	if len(c.Datasources) == 0 {
		err := diag.NewValidationError(
			"You defined no datasource. You must define exactly one datasource.",
			ast.EmptySpan(),
		)
		return &err
	}
	return nil
}

// ParseConfiguration parses schema text and validates its configuration
// blocks. It fails closed: any error means no configuration is returned,
// while warnings never prevent success. The AST is returned alongside so
// callers can consume the datamodel blocks.
func ParseConfiguration(filename string, src []byte, opts datasource.LoadOptions) (*Configuration, *ast.Schema, diag.Diagnostics) {
	diags := diag.New()

	parsed, syntaxDiags := ast.ParseSchema(filename, src)
	if syntaxDiags.HasErrors() {
		for _, hclDiag := range syntaxDiags {
			if hclDiag.Severity == hcl.DiagError {
				diags.PushError(diag.NewValidationError(hclDiag.Error(), spanOf(hclDiag)))
			}
		}
		return nil, nil, diags
	}

	loader := datasource.NewLoader(nil)
	sources, sourceDiags := loader.LoadFromSchema(parsed, opts)
	diags.Merge(sourceDiags)

	generators, genDiags := generator.Load(parsed, opts.LookupEnv)
	diags.Merge(genDiags)

	if diags.HasErrors() {
		return nil, nil, diags
	}

	return &Configuration{
		Datasources: sources,
		Generators:  generators,
		Warnings:    diags.Warnings,
	}, parsed, diags
}

func spanOf(hclDiag *hcl.Diagnostic) ast.Span {
	if hclDiag.Subject != nil {
		return ast.SpanFromRange(*hclDiag.Subject)
	}
	return ast.EmptySpan()
}
