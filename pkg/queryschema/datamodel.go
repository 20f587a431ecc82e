// Package queryschema converts the validated datamodel into the internal
// relational representation and builds the capability-aware query schema a
// connected engine dispatches against.
package queryschema

import (
	"fmt"
	"strings"

	"github.com/quarrydb/quarry/pkg/schema/arguments"
	"github.com/quarrydb/quarry/pkg/schema/ast"
	"github.com/quarrydb/quarry/pkg/schema/diag"
)

// ScalarType is a schema-level field type.
type ScalarType string

const (
	TypeString   ScalarType = "String"
	TypeInt      ScalarType = "Int"
	TypeFloat    ScalarType = "Float"
	TypeBoolean  ScalarType = "Boolean"
	TypeDateTime ScalarType = "DateTime"
	TypeJSON     ScalarType = "Json"
	TypeBytes    ScalarType = "Bytes"
)

var scalarTypes = map[ScalarType]bool{
	TypeString:   true,
	TypeInt:      true,
	TypeFloat:    true,
	TypeBoolean:  true,
	TypeDateTime: true,
	TypeJSON:     true,
	TypeBytes:    true,
}

const idKey = "id"

// Field is one scalar field of a model.
type Field struct {
	Name     string
	Type     ScalarType
	List     bool
	Optional bool
	IsID     bool
}

// Model is one relational model of the internal data model.
type Model struct {
	Name   string
	Fields []Field
}

// Template is a converted datamodel, not yet bound to a database.
type Template struct {
	models []Model
}

// DataModel is the internal data model bound to a logical database name.
type DataModel struct {
	DatabaseName string
	Models       []Model
}

// Build binds the template to the logical database name reported by the
// executor loader.
func (t *Template) Build(databaseName string) *DataModel {
	return &DataModel{
		DatabaseName: databaseName,
		Models:       t.models,
	}
}

// Convert translates AST model blocks into a template, validating field
// type names. Each model property declares one field as `name = "Type"`,
// with a `?` suffix for optional fields and `[]` for lists; the reserved
// `id` property names the model's identifier field instead.
func Convert(schema *ast.Schema) (*Template, diag.Diagnostics) {
	diags := diag.New()
	template := &Template{}

	for _, astModel := range schema.Models {
		model, modelDiags := convertModel(astModel)
		diags.Merge(modelDiags)
		if !modelDiags.HasErrors() {
			template.models = append(template.models, model)
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return template, diags
}

func convertModel(astModel *ast.Model) (Model, diag.Diagnostics) {
	diags := diag.New()
	model := Model{Name: astModel.Name}

	var idField string
	for _, prop := range astModel.Properties {
		value := arguments.New([]*ast.Property{prop}, astModel.Span, nil)
		resolver, _ := value.Arg(prop.Name)

		raw, err := resolver.AsStr()
		if err != nil {
			diags.PushError(*err)
			continue
		}

		if prop.Name == idKey {
			idField = raw
			continue
		}

		field, fieldErr := parseField(prop.Name, raw, prop.Span)
		if fieldErr != nil {
			diags.PushError(*fieldErr)
			continue
		}
		model.Fields = append(model.Fields, field)
	}

	if idField != "" {
		found := false
		for i := range model.Fields {
			if model.Fields[i].Name == idField {
				model.Fields[i].IsID = true
				found = true
				break
			}
		}
		if !found {
			diags.PushError(diag.NewValidationError(
				fmt.Sprintf("The id field %q is not declared in model %q.", idField, astModel.Name),
				astModel.Span,
			))
		}
	}

	return model, diags
}

func parseField(name, raw string, span ast.Span) (Field, *diag.DatamodelError) {
	field := Field{Name: name}

	typeName := raw
	switch {
	case strings.HasSuffix(typeName, "[]"):
		field.List = true
		typeName = strings.TrimSuffix(typeName, "[]")
	case strings.HasSuffix(typeName, "?"):
		field.Optional = true
		typeName = strings.TrimSuffix(typeName, "?")
	}

	scalar := ScalarType(typeName)
	if !scalarTypes[scalar] {
		err := diag.NewValidationError(
			fmt.Sprintf("Type %q is not a known scalar type for field %q.", typeName, name),
			span,
		)
		return Field{}, &err
	}

	field.Type = scalar
	return field, nil
}
