package permissions

import (
	"fmt"
	"reflect"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/ext"
)

// CELPredicate grants every permission for which a CEL boolean expression holds.
// The expression sees the string variables id, name, description and category
// (the owning category id), plus the CEL string extensions, e.g.
//
//	id.endsWith(".view") && category != "finance"
type CELPredicate struct {
	program cel.Program
}

// NewCELPredicate compiles and type-checks the expression.
func NewCELPredicate(expr string) (*CELPredicate, error) {
	env, err := cel.NewEnv(
		cel.Variable("id", cel.StringType),
		cel.Variable("name", cel.StringType),
		cel.Variable("description", cel.StringType),
		cel.Variable("category", cel.StringType),
		ext.Strings(),
	)
	if err != nil {
		return nil, fmt.Errorf("permissions: create CEL environment: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("permissions: compile predicate: %w", issues.Err())
	}
	if !reflect.DeepEqual(ast.OutputType(), cel.BoolType) {
		return nil, fmt.Errorf("permissions: predicate must be boolean, got %v", ast.OutputType())
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("permissions: build predicate program: %w", err)
	}
	return &CELPredicate{program: program}, nil
}

// MustCELPredicate is like NewCELPredicate but panics on error. Intended for
// package-level template tables.
func MustCELPredicate(expr string) *CELPredicate {
	p, err := NewCELPredicate(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// Resolve implements Resolver.
func (p *CELPredicate) Resolve(catalog *Catalog) ([]string, error) {
	var ids []string
	for _, cat := range catalog.categories {
		for _, perm := range cat.Permissions {
			out, _, err := p.program.Eval(map[string]any{
				"id":          perm.ID,
				"name":        perm.Name,
				"description": perm.Description,
				"category":    cat.ID,
			})
			if err != nil {
				return nil, fmt.Errorf("permissions: evaluate predicate on %q: %w", perm.ID, err)
			}
			if ok, _ := out.Value().(bool); ok {
				ids = append(ids, perm.ID)
			}
		}
	}
	return ids, nil
}
