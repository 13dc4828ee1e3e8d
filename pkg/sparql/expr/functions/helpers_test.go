package functions

import (
	"context"
	"testing"
	"time"

	"github.com/aleksaelezovic/sparqlexpr/pkg/rdf"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/exprerr"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/expression"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/overload"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/terms"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/types"
)

var testNow = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func testEnv() *overload.Env {
	return (&overload.Env{Now: testNow, ImplicitTimeZone: time.UTC}).WithDefaults()
}

func lit(lexical, datatype string) terms.Term {
	return terms.TransformLiteral(typedRDF(lexical, datatype), nil)
}

func integer(v int64) terms.Term { return terms.NewInteger(v) }

func str(s string) terms.Term { return terms.NewString(s) }

func lang(s, tag string) terms.Term { return terms.NewLangString(s, tag) }

func call(t *testing.T, name string, args ...terms.Term) (terms.Term, error) {
	t.Helper()
	f, ok := Regular(name)
	if !ok {
		t.Fatalf("Function %s is not defined", name)
	}
	if err := f.CheckArity(len(args)); err != nil {
		return nil, err
	}
	return f.Apply(testEnv(), args)
}

func cast(t *testing.T, iri string, arg terms.Term) (terms.Term, error) {
	t.Helper()
	f, ok := Named(iri)
	if !ok {
		t.Fatalf("Cast %s is not defined", iri)
	}
	return f.Apply(testEnv(), []terms.Term{arg})
}

// expectTerm fails unless res equals expected as an RDF term
func expectTerm(t *testing.T, res terms.Term, err error, expected terms.Term) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !res.ToRDF().Equals(expected.ToRDF()) {
		t.Errorf("Expected %s, got %s", expected, res)
	}
}

func expectCode(t *testing.T, err error, code exprerr.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error %s, got none", code)
	}
	if got, _ := exprerr.CodeOf(err); got != code {
		t.Errorf("Expected error %s, got %v", code, err)
	}
}

// testContext is a minimal evaluator for special forms
type testContext struct {
	env         *overload.Env
	binding     rdf.Binding
	evaluations int
	blanks      int
}

func newTestContext(binding rdf.Binding) *testContext {
	return &testContext{env: testEnv(), binding: binding}
}

func (c *testContext) Context() context.Context { return context.Background() }

func (c *testContext) Binding() rdf.Binding { return c.binding }

func (c *testContext) Env() *overload.Env { return c.env }

func (c *testContext) BlankNode(label *string) terms.Term {
	if label != nil {
		return terms.NewBlankNode(*label)
	}
	c.blanks++
	return terms.NewBlankNode("b" + string(rune('0'+c.blanks)))
}

func (c *testContext) Evaluate(expr expression.Expression) (terms.Term, error) {
	c.evaluations++
	switch e := expr.(type) {
	case *expression.Term:
		return e.Value, nil
	case *expression.Variable:
		v, ok := c.binding[e.Name]
		if !ok {
			return nil, &exprerr.UnboundVariableError{Name: e.Name, Binding: c.binding}
		}
		return terms.TransformRDFTermUnsafe(v, c.env.Lattice), nil
	case *expression.Operator:
		args := make([]terms.Term, len(e.Args))
		for i, arg := range e.Args {
			v, err := c.Evaluate(arg)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return e.Apply(c.env, args)
	case *expression.SpecialOperator:
		return e.Apply(c, e.Args)
	}
	return nil, &exprerr.UnimplementedError{Feature: expr.Type().String()}
}

func constant(t terms.Term) expression.Expression { return &expression.Term{Value: t} }

// failing evaluates to an EBV coercion error like a dateTime operand of &&
var failing = &expression.Operator{
	Name: "fail",
	Apply: func(_ *overload.Env, _ []terms.Term) (terms.Term, error) {
		return nil, &exprerr.EBVCoercionError{Arg: lit("2020-01-01T00:00:00Z", types.XSDDateTime)}
	},
}

func operator(t *testing.T, name string, args ...expression.Expression) expression.Expression {
	t.Helper()
	f, ok := Regular(name)
	if !ok {
		t.Fatalf("Function %s is not defined", name)
	}
	return &expression.Operator{Name: name, Args: args, Apply: f.Apply}
}

func specialForm(t *testing.T, name string, args ...expression.Expression) expression.Expression {
	t.Helper()
	s, ok := SpecialForm(name)
	if !ok {
		t.Fatalf("Special form %s is not defined", name)
	}
	return &expression.SpecialOperator{Name: name, Args: args, Apply: s.Apply}
}
