package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	gqlgen "github.com/99designs/gqlgen/graphql"
	"github.com/tournevent/storefront/pkg/shipping"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
)

// Executor runs GraphQL documents against the root resolver. The schema is
// small enough that fields are dispatched by name:
//
//	type Query    { health: String!  landing(next: String): String! }
//	type Mutation { quoteShipment(input: QuoteShipmentInput!): ShippingQuote! }
type Executor struct {
	resolver *Resolver
}

// NewExecutor creates an executor for r.
func NewExecutor(r *Resolver) *Executor {
	return &Executor{resolver: r}
}

// Execute parses and runs req. Field errors are reported in the response
// alongside the data of the fields that succeeded.
func (e *Executor) Execute(ctx context.Context, req Request) *gqlgen.Response {
	doc, parseErr := parser.ParseQuery(&ast.Source{Name: "request", Input: req.Query})
	if parseErr != nil {
		var gqlErr *gqlerror.Error
		if !errors.As(parseErr, &gqlErr) {
			gqlErr = gqlerror.Wrap(parseErr)
		}
		return &gqlgen.Response{Errors: gqlerror.List{gqlErr}}
	}

	op := doc.Operations.ForName(req.OperationName)
	if op == nil {
		return &gqlgen.Response{Errors: gqlerror.List{gqlerror.Errorf("operation %q not found", req.OperationName)}}
	}

	fields, err := collectFields(doc, op.SelectionSet)
	if err != nil {
		return &gqlgen.Response{Errors: gqlerror.List{gqlerror.Wrap(err)}}
	}

	data := make(map[string]interface{}, len(fields))
	var errs gqlerror.List
	for _, f := range fields {
		key := responseKey(f)
		val, gqlErr := e.resolveRoot(ctx, doc, op.Operation, f, req.Variables)
		if gqlErr != nil {
			errs = append(errs, gqlErr)
			data[key] = nil
			continue
		}
		data[key] = val
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return &gqlgen.Response{Errors: gqlerror.List{gqlerror.Wrap(err)}}
	}
	return &gqlgen.Response{Data: raw, Errors: errs}
}

func (e *Executor) resolveRoot(ctx context.Context, doc *ast.QueryDocument, op ast.Operation, f *ast.Field, vars map[string]interface{}) (interface{}, *gqlerror.Error) {
	path := ast.Path{ast.PathName(responseKey(f))}
	fail := func(err error) *gqlerror.Error {
		gqlErr := toGQLError(err, path)
		if f.Position != nil {
			gqlErr.Locations = []gqlerror.Location{{Line: f.Position.Line, Column: f.Position.Column}}
		}
		return gqlErr
	}

	args, err := argumentValues(f, vars)
	if err != nil {
		return nil, fail(err)
	}

	switch {
	case f.Name == "__typename":
		if op == ast.Mutation {
			return "Mutation", nil
		}
		return "Query", nil

	case op == ast.Query && f.Name == "health":
		v, err := e.resolver.Query().Health(ctx)
		if err != nil {
			return nil, fail(err)
		}
		return v, nil

	case op == ast.Query && f.Name == "landing":
		next, err := stringArg(args, "next")
		if err != nil {
			return nil, fail(err)
		}
		v, err := e.resolver.Query().Landing(ctx, next)
		if err != nil {
			return nil, fail(err)
		}
		return v, nil

	case op == ast.Mutation && f.Name == "quoteShipment":
		if len(f.SelectionSet) == 0 {
			return nil, gqlerror.ErrorPosf(f.Position, "field %q of type \"ShippingQuote!\" must have a selection of subfields", f.Name)
		}
		input, err := quoteInputArg(args)
		if err != nil {
			return nil, fail(err)
		}
		quote, err := e.resolver.Mutation().QuoteShipment(ctx, input)
		if err != nil {
			return nil, fail(err)
		}

		sub, err := collectFields(doc, f.SelectionSet)
		if err != nil {
			return nil, fail(err)
		}
		out := make(map[string]interface{}, len(sub))
		for _, sf := range sub {
			v, ok := quoteField(quote, sf.Name)
			if !ok {
				return nil, gqlerror.ErrorPosf(sf.Position, "cannot query field %q on type \"ShippingQuote\"", sf.Name)
			}
			out[responseKey(sf)] = v
		}
		return out, nil
	}

	typeName := "Query"
	if op == ast.Mutation {
		typeName = "Mutation"
	}
	return nil, gqlerror.ErrorPosf(f.Position, "cannot query field %q on type %q", f.Name, typeName)
}

func responseKey(f *ast.Field) string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

func argumentValues(f *ast.Field, vars map[string]interface{}) (map[string]interface{}, error) {
	args := make(map[string]interface{}, len(f.Arguments))
	for _, a := range f.Arguments {
		v, err := a.Value.Value(vars)
		if err != nil {
			return nil, shipping.NewError(shipping.KindValidation, fmt.Sprintf("argument %q: %v", a.Name, err))
		}
		args[a.Name] = v
	}
	return args, nil
}

// collectFields flattens fragments into the list of fields to resolve.
func collectFields(doc *ast.QueryDocument, set ast.SelectionSet) ([]*ast.Field, error) {
	var out []*ast.Field
	for _, sel := range set {
		switch s := sel.(type) {
		case *ast.Field:
			out = append(out, s)
		case *ast.InlineFragment:
			nested, err := collectFields(doc, s.SelectionSet)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
		case *ast.FragmentSpread:
			def := doc.Fragments.ForName(s.Name)
			if def == nil {
				return nil, shipping.NewError(shipping.KindValidation, fmt.Sprintf("unknown fragment %q", s.Name))
			}
			nested, err := collectFields(doc, def.SelectionSet)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
		}
	}
	return out, nil
}
