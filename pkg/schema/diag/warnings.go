package diag

import "github.com/quarrydb/quarry/pkg/schema/ast"

// Warning is a soft diagnostic. Warnings never prevent a pass from
// succeeding and are propagated even when the owning block fails.
type Warning struct {
	Message string
	Span    ast.Span
}

// NewDeprecatedProviderArrayWarning flags the array form of the provider
// argument, which is deprecated in favor of a single string.
func NewDeprecatedProviderArrayWarning(span ast.Span) Warning {
	return Warning{
		Message: "The array form of the provider argument is deprecated. Declare a single provider instead.",
		Span:    span,
	}
}
