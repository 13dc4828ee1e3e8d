package functions

import (
	"math"

	"github.com/cockroachdb/apd/v3"

	"github.com/aleksaelezovic/sparqlexpr/pkg/rdf"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/exprerr"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/overload"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/terms"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/types"
)

func typedRDF(lexical, datatype string) *rdf.Literal {
	return rdf.NewLiteralWithDatatype(lexical, rdf.NewNamedNode(datatype))
}

func castError(arg terms.Term, target string) error {
	return &exprerr.CastError{Arg: arg, Target: target}
}

// canonical renders a literal's value as a cast to xsd:string does
func canonical(lit terms.Literal) string {
	switch v := lit.(type) {
	case *terms.IntegerLiteral:
		return v.Value.Text('f')
	case *terms.DecimalLiteral:
		return terms.FormatDecimal(v.Value)
	case *terms.FloatLiteral:
		return terms.FloatString(v.Value, 32)
	case *terms.DoubleLiteral:
		return terms.FloatString(v.Value, 64)
	case *terms.BooleanLiteral:
		if v.Value {
			return "true"
		}
		return "false"
	case *terms.DateTimeLiteral:
		return terms.FormatDateTime(v.Value)
	case *terms.DateLiteral:
		return terms.FormatDate(v.Value)
	case *terms.TimeLiteral:
		return terms.FormatTime(v.Value)
	case *terms.DurationLiteral:
		return terms.FormatDuration(v.Value, v.Datatype())
	}
	return lit.Str()
}

// parseAs runs the lexical parser of target over a string and fails with
// a CastError when the result is not a valid value
func parseAs(env *overload.Env, s terms.Term, target string) (terms.Term, error) {
	lit := terms.TransformLiteral(typedRDF(s.Str(), target), env.Lattice)
	if _, ok := lit.(*terms.NonLexicalLiteral); ok {
		return nil, castError(s, target)
	}
	return retype(lit, target), nil
}

// retype drops the preserved lexical form so results are canonical
func retype(lit terms.Literal, target string) terms.Literal {
	switch v := lit.(type) {
	case *terms.IntegerLiteral:
		return terms.NewIntegerFromDecimal(v.Value, target)
	case *terms.DecimalLiteral:
		return terms.NewDecimal(v.Value, target)
	case *terms.FloatLiteral:
		return terms.NewFloat(v.Value)
	case *terms.DoubleLiteral:
		return terms.NewDouble(v.Value)
	case *terms.BooleanLiteral:
		return terms.Bool(v.Value)
	case *terms.DateTimeLiteral:
		return terms.NewDateTime(v.Value)
	case *terms.DateLiteral:
		return terms.NewDate(v.Value)
	case *terms.TimeLiteral:
		return terms.NewTime(v.Value)
	case *terms.DurationLiteral:
		return terms.NewDurationOf(v.Value, target)
	}
	return lit
}

func fromString(target string) func(env *overload.Env, a terms.Term) (terms.Term, error) {
	return func(env *overload.Env, a terms.Term) (terms.Term, error) {
		return parseAs(env, a, target)
	}
}

func boolToNumeric(kind terms.NumericKind) func(env *overload.Env, a terms.Term) (terms.Term, error) {
	return func(_ *overload.Env, a terms.Term) (terms.Term, error) {
		var v int64
		if a.(*terms.BooleanLiteral).Value {
			v = 1
		}
		return terms.NewNumeric(kind, apd.New(v, 0), float64(v)), nil
	}
}

func toExact(kind terms.NumericKind, target string) func(env *overload.Env, a terms.Term) (terms.Term, error) {
	return func(_ *overload.Env, a terms.Term) (terms.Term, error) {
		d, ok := a.(terms.Numeric).Decimal()
		if !ok {
			return nil, castError(a, target)
		}
		if kind == terms.KindInteger {
			return terms.NewIntegerFromDecimal(truncate(d), types.XSDInteger), nil
		}
		return terms.NewDecimal(d, types.XSDDecimal), nil
	}
}

// truncate drops the fractional digits of d
func truncate(d *apd.Decimal) *apd.Decimal {
	if d.Exponent >= 0 {
		return d
	}
	var res apd.Decimal
	ctx := *terms.ExactContext
	ctx.Rounding = apd.RoundDown
	_, _ = ctx.Quantize(&res, d, 0)
	return &res
}

func toFloating(kind terms.NumericKind) func(env *overload.Env, a terms.Term) (terms.Term, error) {
	return func(_ *overload.Env, a terms.Term) (terms.Term, error) {
		return terms.NewNumeric(kind, nil, a.(terms.Numeric).Float64()), nil
	}
}

func numericToBool(_ *overload.Env, a terms.Term) (terms.Term, error) {
	f := a.(terms.Numeric)
	if d, ok := f.Decimal(); ok {
		return terms.Bool(!d.IsZero()), nil
	}
	return terms.Bool(!math.IsNaN(f.Float64())), nil
}

func toString(_ *overload.Env, a terms.Term) (terms.Term, error) {
	if lit, ok := a.(terms.Literal); ok {
		return terms.NewString(canonical(lit)), nil
	}
	return terms.NewString(a.Str()), nil
}

func identityAs(target string) func(env *overload.Env, a terms.Term) (terms.Term, error) {
	return func(_ *overload.Env, a terms.Term) (terms.Term, error) {
		return retype(a.(terms.Literal), target), nil
	}
}

func init() {
	defineNamed(types.XSDString, NewBuilder(types.XSDString).
		OnUnary(types.KindLiteral, toString).
		OnUnary(types.KindNamedNode, toString))

	defineNamed(types.XSDBoolean, NewBuilder(types.XSDBoolean).
		OnUnary(types.XSDBoolean, identityAs(types.XSDBoolean)).
		OnUnary(types.SPARQLNumeric, numericToBool).
		OnUnary(types.XSDString, fromString(types.XSDBoolean)))

	defineNamed(types.XSDInteger, NewBuilder(types.XSDInteger).
		OnUnary(types.XSDBoolean, boolToNumeric(terms.KindInteger)).
		OnUnary(types.SPARQLNumeric, toExact(terms.KindInteger, types.XSDInteger)).
		OnUnary(types.XSDString, fromString(types.XSDInteger)))

	defineNamed(types.XSDDecimal, NewBuilder(types.XSDDecimal).
		OnUnary(types.XSDBoolean, boolToNumeric(terms.KindDecimal)).
		OnUnary(types.SPARQLNumeric, toExact(terms.KindDecimal, types.XSDDecimal)).
		OnUnary(types.XSDString, fromString(types.XSDDecimal)))

	defineNamed(types.XSDFloat, NewBuilder(types.XSDFloat).
		OnUnary(types.XSDBoolean, boolToNumeric(terms.KindFloat)).
		OnUnary(types.SPARQLNumeric, toFloating(terms.KindFloat)).
		OnUnary(types.XSDString, fromString(types.XSDFloat)))

	defineNamed(types.XSDDouble, NewBuilder(types.XSDDouble).
		OnUnary(types.XSDBoolean, boolToNumeric(terms.KindDouble)).
		OnUnary(types.SPARQLNumeric, toFloating(terms.KindDouble)).
		OnUnary(types.XSDString, fromString(types.XSDDouble)))

	defineNamed(types.XSDDateTime, NewBuilder(types.XSDDateTime).
		OnUnary(types.XSDDateTime, identityAs(types.XSDDateTime)).
		OnUnary(types.XSDDate, func(_ *overload.Env, a terms.Term) (terms.Term, error) {
			return terms.NewDateTime(a.(*terms.DateLiteral).Value), nil
		}).
		OnUnary(types.XSDString, fromString(types.XSDDateTime)))

	defineNamed(types.XSDDate, NewBuilder(types.XSDDate).
		OnUnary(types.XSDDate, identityAs(types.XSDDate)).
		OnUnary(types.XSDDateTime, func(_ *overload.Env, a terms.Term) (terms.Term, error) {
			return terms.NewDate(a.(*terms.DateTimeLiteral).Value), nil
		}).
		OnUnary(types.XSDString, fromString(types.XSDDate)))

	defineNamed(types.XSDTime, NewBuilder(types.XSDTime).
		OnUnary(types.XSDTime, identityAs(types.XSDTime)).
		OnUnary(types.XSDDateTime, func(_ *overload.Env, a terms.Term) (terms.Term, error) {
			return terms.NewTime(a.(*terms.DateTimeLiteral).Value), nil
		}).
		OnUnary(types.XSDString, fromString(types.XSDTime)))

	defineNamed(types.XSDDuration, NewBuilder(types.XSDDuration).
		OnUnary(types.XSDDuration, func(_ *overload.Env, a terms.Term) (terms.Term, error) {
			return terms.NewDuration(durationOf(a)), nil
		}).
		OnUnary(types.XSDString, fromString(types.XSDDuration)))

	defineNamed(types.XSDDayTimeDuration, NewBuilder(types.XSDDayTimeDuration).
		OnUnary(types.XSDDuration, func(_ *overload.Env, a terms.Term) (terms.Term, error) {
			return terms.NewDayTimeDuration(secondsOf(durationOf(a))), nil
		}).
		OnUnary(types.XSDString, fromString(types.XSDDayTimeDuration)))

	defineNamed(types.XSDYearMonthDuration, NewBuilder(types.XSDYearMonthDuration).
		OnUnary(types.XSDDuration, func(_ *overload.Env, a terms.Term) (terms.Term, error) {
			return terms.NewYearMonthDuration(durationOf(a).Months), nil
		}).
		OnUnary(types.XSDString, fromString(types.XSDYearMonthDuration)))
}
