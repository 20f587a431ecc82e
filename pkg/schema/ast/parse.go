package ast

import (
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// ParseSchema parses schema source text into an AST. Syntax problems are
// returned as HCL diagnostics; callers convert them into the validation
// pipeline's own diagnostics.
func ParseSchema(filename string, src []byte) (*Schema, hcl.Diagnostics) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unsupported schema body",
			Detail:   "The schema must be native HCL syntax.",
		})
		return nil, diags
	}

	lines := strings.Split(string(src), "\n")
	schema := &Schema{}

	for _, block := range body.Blocks {
		if len(block.Labels) != 1 {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Missing block name",
				Detail:   "A " + block.Type + " block must have exactly one name label.",
				Subject:  block.TypeRange.Ptr(),
			})
			continue
		}

		name := block.Labels[0]
		nameSpan := SpanFromRange(block.LabelRanges[0])
		span := Span{Start: block.TypeRange.Start.Byte, End: block.CloseBraceRange.End.Byte}
		props := blockProperties(block.Body)
		doc := leadingComment(lines, block.TypeRange.Start.Line)

		switch block.Type {
		case "datasource":
			schema.Sources = append(schema.Sources, &SourceConfig{
				Name:          name,
				NameSpan:      nameSpan,
				Properties:    props,
				Span:          span,
				Documentation: doc,
			})
		case "generator":
			schema.Generators = append(schema.Generators, &GeneratorConfig{
				Name:          name,
				NameSpan:      nameSpan,
				Properties:    props,
				Span:          span,
				Documentation: doc,
			})
		case "model":
			schema.Models = append(schema.Models, &Model{
				Name:          name,
				NameSpan:      nameSpan,
				Properties:    props,
				Span:          span,
				Documentation: doc,
			})
		default:
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unknown block type",
				Detail:   "Block type " + block.Type + " is not recognized. Expected datasource, generator or model.",
				Subject:  block.TypeRange.Ptr(),
			})
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return schema, nil
}

// blockProperties extracts a block's attributes in source order.
func blockProperties(body *hclsyntax.Body) []*Property {
	props := make([]*Property, 0, len(body.Attributes))
	for _, attr := range body.Attributes {
		props = append(props, &Property{
			Name:     attr.Name,
			NameSpan: SpanFromRange(attr.NameRange),
			Expr:     attr.Expr,
			Span:     SpanFromRange(attr.SrcRange),
		})
	}
	sort.Slice(props, func(i, j int) bool {
		return props[i].Span.Start < props[j].Span.Start
	})
	return props
}

// leadingComment collects contiguous // comment lines immediately above the
// block declaration and returns them joined as the block's documentation.
func leadingComment(lines []string, blockLine int) string {
	// blockLine is 1-based; the candidate comment ends on the line above.
	var doc []string
	for i := blockLine - 2; i >= 0; i-- {
		trimmed := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(trimmed, "//") {
			break
		}
		text := strings.TrimSpace(strings.TrimPrefix(trimmed, "//"))
		doc = append([]string{text}, doc...)
	}
	return strings.Join(doc, "\n")
}
