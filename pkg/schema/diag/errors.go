package diag

import (
	"fmt"

	"github.com/quarrydb/quarry/pkg/schema/ast"
)

// ErrorKind classifies validation errors. Callers match on the kind to
// re-tag or special-case certain failures without parsing messages.
type ErrorKind int

const (
	// KindValidation is a generic schema validation failure.
	KindValidation ErrorKind = iota
	// KindArgumentNotFound is a required argument missing from a block.
	KindArgumentNotFound
	// KindSourceArgumentNotFound is an argument missing from a named
	// datasource block; produced by re-tagging KindArgumentNotFound.
	KindSourceArgumentNotFound
	// KindTypeMismatch is a value of the wrong literal kind.
	KindTypeMismatch
	// KindFunctionalEvaluation is env() indirection used where a literal
	// is required.
	KindFunctionalEvaluation
	// KindSourceValidation is a datasource-level validation failure,
	// including rejected URL shapes and empty URLs.
	KindSourceValidation
	// KindProviderNotKnown means no declared provider name matched a
	// registered provider.
	KindProviderNotKnown
	// KindConnector is a connector-level restriction, such as preview
	// features declared in a datasource block.
	KindConnector
)

// DatamodelError is one hard validation error with a stable message, the
// offending block name where applicable, and a source span.
type DatamodelError struct {
	Kind         ErrorKind
	Message      string
	ArgumentName string
	BlockName    string
	Span         ast.Span
	// ExpectedType is set for KindTypeMismatch and names the literal kind
	// the validator expected, e.g. "String".
	ExpectedType string
}

// Error implements the error interface.
func (e DatamodelError) Error() string {
	return e.Message
}

// NewValidationError creates a generic validation error.
func NewValidationError(message string, span ast.Span) DatamodelError {
	return DatamodelError{
		Kind:    KindValidation,
		Message: message,
		Span:    span,
	}
}

// NewArgumentNotFoundError reports a missing required argument.
func NewArgumentNotFoundError(argumentName string, span ast.Span) DatamodelError {
	return DatamodelError{
		Kind:         KindArgumentNotFound,
		Message:      fmt.Sprintf("Argument %q is missing.", argumentName),
		ArgumentName: argumentName,
		Span:         span,
	}
}

// NewSourceArgumentNotFoundError reports a missing required argument in a
// named datasource block. The loader re-tags KindArgumentNotFound errors
// into this kind so the block name appears in the message.
func NewSourceArgumentNotFoundError(argumentName, sourceName string, span ast.Span) DatamodelError {
	return DatamodelError{
		Kind:         KindSourceArgumentNotFound,
		Message:      fmt.Sprintf("Argument %q is missing in data source block %q.", argumentName, sourceName),
		ArgumentName: argumentName,
		BlockName:    sourceName,
		Span:         span,
	}
}

// NewTypeMismatchError reports a value of the wrong literal kind.
func NewTypeMismatchError(expected, received string, span ast.Span) DatamodelError {
	return DatamodelError{
		Kind:         KindTypeMismatch,
		Message:      fmt.Sprintf("Expected a %s value, but received %s value.", expected, received),
		Span:         span,
		ExpectedType: expected,
	}
}

// NewFunctionalEvaluationError reports env() indirection used where only a
// literal is allowed.
func NewFunctionalEvaluationError(message string, span ast.Span) DatamodelError {
	return DatamodelError{
		Kind:    KindFunctionalEvaluation,
		Message: message,
		Span:    span,
	}
}

// NewSourceValidationError reports a datasource-level validation failure.
func NewSourceValidationError(message, sourceName string, span ast.Span) DatamodelError {
	return DatamodelError{
		Kind:      KindSourceValidation,
		Message:   fmt.Sprintf("Error validating datasource `%s`: %s", sourceName, message),
		BlockName: sourceName,
		Span:      span,
	}
}

// NewDatasourceProviderNotKnownError reports that none of the declared
// provider names matched a registered provider.
func NewDatasourceProviderNotKnownError(providers string, span ast.Span) DatamodelError {
	return DatamodelError{
		Kind:    KindProviderNotKnown,
		Message: fmt.Sprintf("Datasource provider not known: %q.", providers),
		Span:    span,
	}
}

// NewConnectorError reports a connector-level restriction.
func NewConnectorError(message string, span ast.Span) DatamodelError {
	return DatamodelError{
		Kind:    KindConnector,
		Message: message,
		Span:    span,
	}
}
