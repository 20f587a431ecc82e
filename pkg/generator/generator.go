// Package generator loads and validates generator configuration blocks.
// Generators are where preview feature flags are legally declared; the
// datasource loader rejects them anywhere else.
package generator

import (
	"fmt"

	"github.com/quarrydb/quarry/pkg/features"
	"github.com/quarrydb/quarry/pkg/schema/arguments"
	"github.com/quarrydb/quarry/pkg/schema/ast"
	"github.com/quarrydb/quarry/pkg/schema/diag"
)

const (
	providerKey        = "provider"
	previewFeaturesKey = "previewFeatures"
)

// Generator is one validated generator block.
type Generator struct {
	Name            string
	Provider        string
	PreviewFeatures []string
	Documentation   string
}

// Load validates every generator block in the schema, collecting all
// errors instead of stopping at the first one.
func Load(schema *ast.Schema, env arguments.LookupEnv) ([]*Generator, diag.Diagnostics) {
	var generators []*Generator
	diags := diag.New()

	for _, gen := range schema.Generators {
		loaded, genDiags := lift(gen, env)
		diags.Merge(genDiags)
		if loaded != nil {
			generators = append(generators, loaded)
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return generators, diags
}

func lift(gen *ast.GeneratorConfig, env arguments.LookupEnv) (*Generator, diag.Diagnostics) {
	diags := diag.New()
	args := arguments.New(gen.Properties, gen.Span, env)

	providerArg, argErr := args.Arg(providerKey)
	if argErr != nil {
		diags.PushError(diag.NewSourceArgumentNotFoundError(providerKey, gen.Name, argErr.Span))
		return nil, diags
	}

	providerName, valErr := providerArg.AsStr()
	if valErr != nil {
		diags.PushError(*valErr)
		return nil, diags
	}

	var previewFeatures []string
	if arg := args.OptionalArg(previewFeaturesKey); arg != nil {
		flags, flagErr := arg.AsStrArray()
		if flagErr != nil {
			diags.PushError(*flagErr)
			return nil, diags
		}
		for _, flag := range flags {
			if !features.IsKnown(flag) {
				diags.PushError(diag.NewValidationError(
					fmt.Sprintf("The preview feature %q is not known.", flag),
					arg.Span(),
				))
			}
		}
		if diags.HasErrors() {
			return nil, diags
		}
		previewFeatures = flags
	}

	return &Generator{
		Name:            gen.Name,
		Provider:        providerName,
		PreviewFeatures: previewFeatures,
		Documentation:   gen.Documentation,
	}, diags
}
