package graphql

import (
	"fmt"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"
)

// Field is one selected field with its arguments bound and its
// sub-selection flattened through fragments.
type Field struct {
	Alias      string
	Name       string
	Type       string
	Args       map[string]any
	Selections []Field
}

// Key is the name the field's value is reported under.
func (f Field) Key() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// Selects reports whether name appears in the field's sub-selection.
func (f Field) Selects(name string) bool {
	for _, s := range f.Selections {
		if s.Name == name {
			return true
		}
	}
	return false
}

// operation is a validated operation ready to resolve.
type operation struct {
	RootType   string
	Selections []Field
}

// prepare parses and validates the document against the schema, picks the
// requested operation and coerces its variables, applying declared defaults.
func prepare(req Request) (op *operation, errs []Error) {
	doc, list := gqlparser.LoadQuery(schema, req.Query)
	if len(list) > 0 {
		return nil, toErrors(list)
	}

	if len(doc.Operations) == 0 {
		return nil, []Error{{Message: "No operation provided."}}
	}
	def := doc.Operations.ForName(req.OperationName)
	if def == nil {
		if req.OperationName == "" {
			return nil, []Error{{Message: "Must provide operation name if query contains multiple operations."}}
		}
		return nil, []Error{{Message: fmt.Sprintf("Unknown operation named %q.", req.OperationName)}}
	}

	vars, verr := validator.VariableValues(schema, def, req.Variables)
	if verr != nil {
		return nil, []Error{{Message: verr.Error()}}
	}

	var root *ast.Definition
	switch def.Operation {
	case ast.Query:
		root = schema.Query
	case ast.Mutation:
		root = schema.Mutation
	}
	if root == nil {
		return nil, []Error{{Message: fmt.Sprintf("%s operations are not supported", def.Operation)}}
	}

	// Argument binding panics on values validation should have rejected.
	defer func() {
		if r := recover(); r != nil {
			op, errs = nil, []Error{{Message: fmt.Sprint(r)}}
		}
	}()
	return &operation{
		RootType:   root.Name,
		Selections: collectFields(def.SelectionSet, vars),
	}, nil
}

func collectFields(set ast.SelectionSet, vars map[string]any) []Field {
	var fields []Field
	for _, sel := range set {
		switch s := sel.(type) {
		case *ast.Field:
			if skipped(s.Directives, vars) {
				continue
			}
			f := Field{
				Alias:      s.Alias,
				Name:       s.Name,
				Args:       s.ArgumentMap(vars),
				Selections: collectFields(s.SelectionSet, vars),
			}
			if s.Definition != nil && s.Definition.Type != nil {
				f.Type = s.Definition.Type.Name()
			}
			fields = append(fields, f)
		case *ast.InlineFragment:
			if !skipped(s.Directives, vars) {
				fields = append(fields, collectFields(s.SelectionSet, vars)...)
			}
		case *ast.FragmentSpread:
			if !skipped(s.Directives, vars) && s.Definition != nil {
				fields = append(fields, collectFields(s.Definition.SelectionSet, vars)...)
			}
		}
	}
	return fields
}

// skipped evaluates @skip and @include.
func skipped(directives ast.DirectiveList, vars map[string]any) bool {
	if d := directives.ForName("skip"); d != nil && d.ArgumentMap(vars)["if"] == true {
		return true
	}
	if d := directives.ForName("include"); d != nil && d.ArgumentMap(vars)["if"] != true {
		return true
	}
	return false
}

func toErrors(list gqlerror.List) []Error {
	out := make([]Error, len(list))
	for i, e := range list {
		out[i] = Error{Message: e.Message}
	}
	return out
}
