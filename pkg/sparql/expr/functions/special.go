package functions

import (
	"net/url"

	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/exprerr"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/expression"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/terms"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/types"
)

// evaluateEBV evaluates expr and reduces the result to a boolean
func evaluateEBV(ctx expression.EvalContext, expr expression.Expression) (bool, error) {
	t, err := ctx.Evaluate(expr)
	if err != nil {
		return false, err
	}
	return t.EBV()
}

func bound(ctx expression.EvalContext, args []expression.Expression) (terms.Term, error) {
	v, ok := args[0].(*expression.Variable)
	if !ok {
		return nil, &exprerr.InvalidArgumentTypesError{Operator: "bound", Args: nil}
	}
	_, ok = ctx.Binding().Get(v.Name)
	return terms.Bool(ok), nil
}

func ifThenElse(ctx expression.EvalContext, args []expression.Expression) (terms.Term, error) {
	cond, err := evaluateEBV(ctx, args[0])
	if err != nil {
		return nil, err
	}
	if cond {
		return ctx.Evaluate(args[1])
	}
	return ctx.Evaluate(args[2])
}

func coalesce(ctx expression.EvalContext, args []expression.Expression) (terms.Term, error) {
	var errs []error
	for _, arg := range args {
		t, err := ctx.Evaluate(arg)
		if err == nil {
			return t, nil
		}
		errs = append(errs, err)
	}
	return nil, &exprerr.CoalesceError{Errors: errs}
}

// logical builds || and &&. decisive is the left value that settles the
// result on its own: true for ||, false for &&. An error on the left is
// masked when the right operand is decisive.
func logical(decisive bool) expression.SpecialApply {
	return func(ctx expression.EvalContext, args []expression.Expression) (terms.Term, error) {
		left, leftErr := evaluateEBV(ctx, args[0])
		if leftErr == nil && left == decisive {
			return terms.Bool(decisive), nil
		}
		right, err := evaluateEBV(ctx, args[1])
		if leftErr != nil {
			if err == nil && right == decisive {
				return terms.Bool(decisive), nil
			}
			return nil, leftErr
		}
		if err != nil {
			return nil, err
		}
		return terms.Bool(right), nil
	}
}

func sameTerm(ctx expression.EvalContext, args []expression.Expression) (terms.Term, error) {
	a, err := ctx.Evaluate(args[0])
	if err != nil {
		return nil, err
	}
	b, err := ctx.Evaluate(args[1])
	if err != nil {
		return nil, err
	}
	return terms.Bool(terms.SameTerm(a, b)), nil
}

// in evaluates the needle once and compares it left to right with every
// haystack element. The first match wins over earlier errors.
func in(ctx expression.EvalContext, args []expression.Expression) (terms.Term, error) {
	needle, err := ctx.Evaluate(args[0])
	if err != nil {
		return nil, err
	}
	var errs []error
	for _, arg := range args[1:] {
		t, err := ctx.Evaluate(arg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		eq, err := Equal(ctx.Env(), needle, t)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if eq {
			return terms.True, nil
		}
	}
	if len(errs) > 0 {
		return nil, &exprerr.InError{Errors: errs}
	}
	return terms.False, nil
}

func notIn(ctx expression.EvalContext, args []expression.Expression) (terms.Term, error) {
	res, err := in(ctx, args)
	if err != nil {
		return nil, err
	}
	return terms.Bool(!res.(*terms.BooleanLiteral).Value), nil
}

// concat joins string arguments. The result keeps a language tag only
// when every argument carries the same one.
func concat(ctx expression.EvalContext, args []expression.Expression) (terms.Term, error) {
	var value []byte
	lang := ""
	for i, arg := range args {
		t, err := ctx.Evaluate(arg)
		if err != nil {
			return nil, err
		}
		lit, ok := t.(terms.Literal)
		if !ok || !isStringly(lit) {
			return nil, &exprerr.InvalidArgumentTypesError{Operator: "concat", Args: terms.Stringers([]terms.Term{t})}
		}
		if i == 0 {
			lang = lit.Language()
		} else if lang != lit.Language() {
			lang = ""
		}
		value = append(value, lit.Str()...)
	}
	if lang != "" {
		return terms.NewLangString(string(value), lang), nil
	}
	return terms.NewString(string(value)), nil
}

func isStringly(lit terms.Literal) bool {
	switch lit.(type) {
	case *terms.StringLiteral, *terms.LangStringLiteral:
		return true
	}
	return false
}

func now(ctx expression.EvalContext, _ []expression.Expression) (terms.Term, error) {
	return terms.NewDateTimeFromTime(ctx.Env().Now), nil
}

// iri resolves a simple string against the base IRI. IRIs pass through.
func iri(ctx expression.EvalContext, args []expression.Expression) (terms.Term, error) {
	t, err := ctx.Evaluate(args[0])
	if err != nil {
		return nil, err
	}
	if t.TermType() == types.KindNamedNode {
		return t, nil
	}
	if !isSimple(t) {
		return nil, &exprerr.InvalidArgumentTypesError{Operator: "iri", Args: terms.Stringers([]terms.Term{t})}
	}
	ref, err := url.Parse(t.Str())
	if err != nil {
		return nil, &exprerr.ExpressionError{Message: "invalid IRI " + t.String(), Err: err}
	}
	if base := ctx.Env().BaseIRI; base != "" && !ref.IsAbs() {
		b, err := url.Parse(base)
		if err != nil {
			return nil, &exprerr.ExpressionError{Message: "invalid base IRI " + base, Err: err}
		}
		ref = b.ResolveReference(ref)
	}
	return terms.NewNamedNode(ref.String()), nil
}

func bnode(ctx expression.EvalContext, args []expression.Expression) (terms.Term, error) {
	if len(args) == 0 {
		return ctx.BlankNode(nil), nil
	}
	t, err := ctx.Evaluate(args[0])
	if err != nil {
		return nil, err
	}
	if !isSimple(t) {
		return nil, &exprerr.InvalidArgumentTypesError{Operator: "bnode", Args: terms.Stringers([]terms.Term{t})}
	}
	label := t.Str()
	return ctx.BlankNode(&label), nil
}

func init() {
	defineSpecial("bound", Exactly(1), bound)
	defineSpecial("if", Exactly(3), ifThenElse)
	defineSpecial("coalesce", AtLeast(0), coalesce)
	defineSpecial("||", Exactly(2), logical(true))
	defineSpecial("&&", Exactly(2), logical(false))
	defineSpecial("sameterm", Exactly(2), sameTerm)
	defineSpecial("in", AtLeast(1), in)
	defineSpecial("notin", AtLeast(1), notIn)
	defineSpecial("concat", AtLeast(0), concat)
	defineSpecial("now", Exactly(0), now)
	defineSpecial("iri", Exactly(1), iri)
	defineSpecial("uri", Exactly(1), iri)
	defineSpecial("bnode", Exactly(0, 1), bnode)
}
