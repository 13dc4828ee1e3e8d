package functions

import (
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/exprerr"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/order"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/overload"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/terms"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/types"
)

// orderedTypes can be compared with < and friends
var orderedTypes = []string{
	types.SPARQLNumeric,
	types.XSDString,
	types.XSDBoolean,
	types.XSDDateTime,
	types.XSDDate,
	types.XSDTime,
	types.XSDYearMonthDuration,
	types.XSDDayTimeDuration,
}

// equalityTypes can be compared with = and !=
var equalityTypes = append([]string{types.RDFLangString, types.XSDDuration}, orderedTypes...)

// comparison builds a value comparison. incomparable is the result for
// values without an order, such as NaN.
func comparison(test func(c int) bool, incomparable bool) func(env *overload.Env, a, b terms.Term) (terms.Term, error) {
	return func(env *overload.Env, a, b terms.Term) (terms.Term, error) {
		c, ok := order.CompareValues(a.(terms.Literal), b.(terms.Literal), env.ImplicitTimeZone)
		if !ok {
			return terms.Bool(incomparable), nil
		}
		return terms.Bool(test(c)), nil
	}
}

// RDFTermEqual is "=" for terms without a shared value space. Distinct
// literals cannot be proven unequal, so comparing them is an error.
func RDFTermEqual(_ *overload.Env, a, b terms.Term) (terms.Term, error) {
	if terms.SameTerm(a, b) {
		return terms.True, nil
	}
	_, aLit := a.(terms.Literal)
	_, bLit := b.(terms.Literal)
	if !aLit || !bLit {
		return terms.False, nil
	}
	for _, t := range []terms.Term{a, b} {
		if nl, ok := t.(*terms.NonLexicalLiteral); ok {
			return nil, &exprerr.InvalidLexicalFormError{Arg: nl}
		}
	}
	return nil, &exprerr.InvalidArgumentTypesError{Operator: "=", Args: terms.Stringers([]terms.Term{a, b})}
}

func rdfTermNotEqual(env *overload.Env, a, b terms.Term) (terms.Term, error) {
	res, err := RDFTermEqual(env, a, b)
	if err != nil {
		return nil, err
	}
	return terms.Bool(!res.(*terms.BooleanLiteral).Value), nil
}

func equalBuilder(name string, negated bool) *Builder {
	b := NewBuilder(name)
	if negated {
		b.OnBinaryTyped(equalityTypes, comparison(func(c int) bool { return c != 0 }, true))
		return b.OnBinary(types.Term, types.Term, rdfTermNotEqual)
	}
	b.OnBinaryTyped(equalityTypes, comparison(func(c int) bool { return c == 0 }, false))
	return b.OnBinary(types.Term, types.Term, RDFTermEqual)
}

func orderBuilder(name string, test func(c int) bool) *Builder {
	return NewBuilder(name).OnBinaryTyped(orderedTypes, comparison(test, false))
}

// Equal evaluates "=" on two terms, used by IN and NOT IN
func Equal(env *overload.Env, a, b terms.Term) (bool, error) {
	eq, _ := Regular("=")
	res, err := eq.Apply(env, []terms.Term{a, b})
	if err != nil {
		return false, err
	}
	return res.EBV()
}
