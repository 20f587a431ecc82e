// Package arguments implements typed access to the properties of a parsed
// configuration block. A block's arguments are looked up by name and each
// value is resolved through a ValueValidator bound to its source span, so
// every failure carries a precise location.
package arguments

import (
	"os"

	"github.com/quarrydb/quarry/pkg/schema/ast"
	"github.com/quarrydb/quarry/pkg/schema/diag"
)

// LookupEnv resolves an environment variable by name. The default is
// os.LookupEnv; tests inject their own.
type LookupEnv func(name string) (string, bool)

// Arguments wraps one configuration block's properties for typed access.
type Arguments struct {
	props     map[string]*ast.Property
	blockSpan ast.Span
	env       LookupEnv
}

// New creates an argument accessor over a block's properties. The block
// span is reported when a required argument is missing entirely.
func New(props []*ast.Property, blockSpan ast.Span, env LookupEnv) *Arguments {
	if env == nil {
		env = os.LookupEnv
	}
	byName := make(map[string]*ast.Property, len(props))
	for _, p := range props {
		byName[p.Name] = p
	}
	return &Arguments{props: byName, blockSpan: blockSpan, env: env}
}

// Arg returns the named required argument, or an argument-not-found error
// carrying the block span.
func (a *Arguments) Arg(name string) (*ValueValidator, *diag.DatamodelError) {
	prop, ok := a.props[name]
	if !ok {
		err := diag.NewArgumentNotFoundError(name, a.blockSpan)
		return nil, &err
	}
	return &ValueValidator{prop: prop, env: a.env}, nil
}

// OptionalArg returns the named argument, or nil when it is absent.
// Absence of an optional argument is never an error.
func (a *Arguments) OptionalArg(name string) *ValueValidator {
	prop, ok := a.props[name]
	if !ok {
		return nil
	}
	return &ValueValidator{prop: prop, env: a.env}
}
