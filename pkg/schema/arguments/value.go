package arguments

import (
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/quarrydb/quarry/pkg/schema/ast"
	"github.com/quarrydb/quarry/pkg/schema/diag"
)

const envFunctionName = "env"

// ValueValidator wraps one raw property value plus its span and interprets
// it as a scalar, an array, or an environment-variable indirection.
type ValueValidator struct {
	prop *ast.Property
	env  LookupEnv
}

// Span returns the byte-offset span of the underlying value.
func (v *ValueValidator) Span() ast.Span {
	return v.prop.Span
}

// IsFromEnv reports whether the value is an env() indirection.
func (v *ValueValidator) IsFromEnv() bool {
	_, ok := v.envCall()
	return ok
}

// IsArray reports whether the value was written in array syntax.
func (v *ValueValidator) IsArray() bool {
	_, ok := v.prop.Expr.(*hclsyntax.TupleConsExpr)
	return ok
}

// AsStr interprets the value as a single string literal.
func (v *ValueValidator) AsStr() (string, *diag.DatamodelError) {
	return v.literalString(v.prop.Expr)
}

// AsStrArray interprets the value as a sequence of string literals. A
// single string is treated as a one-element sequence; an empty sequence is
// not itself an error.
func (v *ValueValidator) AsStrArray() ([]string, *diag.DatamodelError) {
	tuple, ok := v.prop.Expr.(*hclsyntax.TupleConsExpr)
	if !ok {
		s, err := v.AsStr()
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	}

	out := make([]string, 0, len(tuple.Exprs))
	for _, expr := range tuple.Exprs {
		s, err := v.literalString(expr)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// AsStrFromEnv resolves the value as a string that may come from an
// environment variable. For a direct literal it returns (nil, literal).
// For env("NAME") it resolves NAME at validation time and returns the
// variable name together with the resolved value, which is the empty
// string when the variable is unset.
func (v *ValueValidator) AsStrFromEnv() (*string, string, *diag.DatamodelError) {
	call, ok := v.envCall()
	if !ok {
		s, err := v.AsStr()
		if err != nil {
			return nil, "", err
		}
		return nil, s, nil
	}

	if len(call.Args) != 1 {
		err := diag.NewFunctionalEvaluationError(
			"The env() function takes exactly one string literal argument.",
			ast.SpanFromRange(call.Range()),
		)
		return nil, "", &err
	}

	name, nameErr := v.literalString(call.Args[0])
	if nameErr != nil {
		err := diag.NewFunctionalEvaluationError(
			"The argument to env() must be a string literal naming an environment variable.",
			ast.SpanFromRange(call.Args[0].Range()),
		)
		return nil, "", &err
	}

	value, _ := v.env(name)
	return &name, value, nil
}

// envCall returns the env() call expression when the value is an
// indirection.
func (v *ValueValidator) envCall() (*hclsyntax.FunctionCallExpr, bool) {
	call, ok := v.prop.Expr.(*hclsyntax.FunctionCallExpr)
	if !ok || call.Name != envFunctionName {
		return nil, false
	}
	return call, true
}

// literalString evaluates an expression that must be a constant string.
func (v *ValueValidator) literalString(expr hclsyntax.Expression) (string, *diag.DatamodelError) {
	span := ast.SpanFromRange(expr.Range())

	if call, ok := expr.(*hclsyntax.FunctionCallExpr); ok && call.Name == envFunctionName {
		err := diag.NewTypeMismatchError("String", "env() function", span)
		return "", &err
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		err := diag.NewTypeMismatchError("String", "non-constant expression", span)
		return "", &err
	}
	if val.IsNull() || !val.Type().Equals(cty.String) {
		err := diag.NewTypeMismatchError("String", val.Type().FriendlyName(), span)
		return "", &err
	}
	return val.AsString(), nil
}
