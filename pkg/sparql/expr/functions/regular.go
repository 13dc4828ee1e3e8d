package functions

import (
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/overload"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/terms"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/types"
)

func init() {
	// Operators

	defineRegular("!", Exactly(1), NewBuilder("!").OnTerm1(func(_ *overload.Env, a terms.Term) (terms.Term, error) {
		v, err := a.EBV()
		if err != nil {
			return nil, err
		}
		return terms.Bool(!v), nil
	}))
	defineRegular("uminus", Exactly(1), NewBuilder("uminus").OnNumeric1(negate))
	defineRegular("uplus", Exactly(1), NewBuilder("uplus").OnNumeric1(func(_ *overload.Env, a terms.Numeric) (terms.Term, error) {
		return a, nil
	}))

	defineRegular("*", Exactly(2), NewBuilder("*").OnBinary(types.SPARQLNumeric, types.SPARQLNumeric, arithmetic(opMultiply)))
	defineRegular("/", Exactly(2), NewBuilder("/").OnBinary(types.SPARQLNumeric, types.SPARQLNumeric, arithmetic(opDivide)))
	plus := NewBuilder("+").OnBinary(types.SPARQLNumeric, types.SPARQLNumeric, arithmetic(opAdd))
	minus := NewBuilder("-").OnBinary(types.SPARQLNumeric, types.SPARQLNumeric, arithmetic(opSubtract))
	registerTemporalArithmetic(plus, minus)
	defineRegular("+", Exactly(2), plus)
	defineRegular("-", Exactly(2), minus)

	defineRegular("=", Exactly(2), equalBuilder("=", false))
	defineRegular("!=", Exactly(2), equalBuilder("!=", true))
	defineRegular("<", Exactly(2), orderBuilder("<", func(c int) bool { return c < 0 }))
	defineRegular(">", Exactly(2), orderBuilder(">", func(c int) bool { return c > 0 }))
	defineRegular("<=", Exactly(2), orderBuilder("<=", func(c int) bool { return c <= 0 }))
	defineRegular(">=", Exactly(2), orderBuilder(">=", func(c int) bool { return c >= 0 }))

	// Functions on RDF terms

	isIRI := NewBuilder("isiri").OnTerm1(func(_ *overload.Env, a terms.Term) (terms.Term, error) {
		return terms.Bool(a.TermType() == types.KindNamedNode), nil
	})
	defineRegular("isiri", Exactly(1), isIRI)
	regular["isuri"] = &Function{Name: "isuri", Arity: Exactly(1), tree: isIRI.Collect()}
	defineRegular("isblank", Exactly(1), NewBuilder("isblank").OnTerm1(func(_ *overload.Env, a terms.Term) (terms.Term, error) {
		return terms.Bool(a.TermType() == types.KindBlankNode), nil
	}))
	defineRegular("isliteral", Exactly(1), NewBuilder("isliteral").OnTerm1(func(_ *overload.Env, a terms.Term) (terms.Term, error) {
		return terms.Bool(a.TermType() == types.KindLiteral), nil
	}))
	defineRegular("isnumeric", Exactly(1), NewBuilder("isnumeric").OnTerm1(func(_ *overload.Env, a terms.Term) (terms.Term, error) {
		_, ok := a.(terms.Numeric)
		return terms.Bool(ok), nil
	}))

	defineRegular("str", Exactly(1), NewBuilder("str").
		OnLiteral1(func(_ *overload.Env, a terms.Literal) (terms.Term, error) {
			return terms.NewString(a.Str()), nil
		}).
		OnUnary(types.KindNamedNode, func(_ *overload.Env, a terms.Term) (terms.Term, error) {
			return terms.NewString(a.Str()), nil
		}))
	defineRegular("lang", Exactly(1), NewBuilder("lang").OnLiteral1(func(_ *overload.Env, a terms.Literal) (terms.Term, error) {
		return terms.NewString(a.Language()), nil
	}))
	defineRegular("datatype", Exactly(1), NewBuilder("datatype").OnLiteral1(func(_ *overload.Env, a terms.Literal) (terms.Term, error) {
		return terms.NewNamedNode(a.Datatype()), nil
	}))
	defineRegular("strdt", Exactly(2), NewBuilder("strdt").OnBinary(types.XSDString, types.KindNamedNode, strdt))
	defineRegular("strlang", Exactly(2), NewBuilder("strlang").OnBinary(types.XSDString, types.XSDString, strlang))
	defineRegular("uuid", Exactly(0), NewBuilder("uuid").OnNullary(func(_ *overload.Env) (terms.Term, error) {
		return terms.NewNamedNode("urn:uuid:" + uuid.NewString()), nil
	}))
	defineRegular("struuid", Exactly(0), NewBuilder("struuid").OnNullary(func(_ *overload.Env) (terms.Term, error) {
		return terms.NewString(uuid.NewString()), nil
	}))

	// Functions on strings

	defineRegular("strlen", Exactly(1), NewBuilder("strlen").OnStringly1(strlen))
	defineRegular("substr", Exactly(2, 3), NewBuilder("substr").
		Set([]string{types.SPARQLStringly, types.SPARQLNumeric}, substr2).
		Set([]string{types.SPARQLStringly, types.SPARQLNumeric, types.SPARQLNumeric}, substr3))
	defineRegular("ucase", Exactly(1), NewBuilder("ucase").OnStringly1(ucase))
	defineRegular("lcase", Exactly(1), NewBuilder("lcase").OnStringly1(lcase))
	defineRegular("strstarts", Exactly(2), NewBuilder("strstarts").OnStringly2(strstarts))
	defineRegular("strends", Exactly(2), NewBuilder("strends").OnStringly2(strends))
	defineRegular("contains", Exactly(2), NewBuilder("contains").OnStringly2(contains))
	defineRegular("strbefore", Exactly(2), NewBuilder("strbefore").OnStringly2(strbefore))
	defineRegular("strafter", Exactly(2), NewBuilder("strafter").OnStringly2(strafter))
	defineRegular("encode_for_uri", Exactly(1), NewBuilder("encode_for_uri").OnStringly1(encodeForURI))
	defineRegular("langmatches", Exactly(2), NewBuilder("langmatches").OnBinary(types.XSDString, types.XSDString, langMatches))
	defineRegular("regex", Exactly(2, 3), NewBuilder("regex").
		Set([]string{types.SPARQLStringly, types.XSDString}, regex).
		Set([]string{types.SPARQLStringly, types.XSDString, types.XSDString}, regex))
	defineRegular("replace", Exactly(3, 4), NewBuilder("replace").
		Set([]string{types.SPARQLStringly, types.XSDString, types.XSDString}, replace).
		Set([]string{types.SPARQLStringly, types.XSDString, types.XSDString, types.XSDString}, replace))

	// Functions on numerics

	defineRegular("abs", Exactly(1), NewBuilder("abs").OnNumeric1(func(_ *overload.Env, a terms.Numeric) (terms.Term, error) {
		return roundNumeric(a, absDecimal, math.Abs)
	}))
	defineRegular("round", Exactly(1), NewBuilder("round").OnNumeric1(func(_ *overload.Env, a terms.Numeric) (terms.Term, error) {
		return roundNumeric(a, roundDecimal, xpathRound)
	}))
	defineRegular("ceil", Exactly(1), NewBuilder("ceil").OnNumeric1(func(_ *overload.Env, a terms.Numeric) (terms.Term, error) {
		return roundNumeric(a, ceilDecimal, math.Ceil)
	}))
	defineRegular("floor", Exactly(1), NewBuilder("floor").OnNumeric1(func(_ *overload.Env, a terms.Numeric) (terms.Term, error) {
		return roundNumeric(a, floorDecimal, math.Floor)
	}))
	defineRegular("rand", Exactly(0), NewBuilder("rand").OnNullary(func(_ *overload.Env) (terms.Term, error) {
		return terms.NewDouble(rand.Float64()), nil
	}))

	// Functions on dates and times

	defineRegular("year", Exactly(1), NewBuilder("year").OnUnary(types.XSDDateTime, year).OnUnary(types.XSDDate, year))
	defineRegular("month", Exactly(1), NewBuilder("month").OnUnary(types.XSDDateTime, month).OnUnary(types.XSDDate, month))
	defineRegular("day", Exactly(1), NewBuilder("day").OnUnary(types.XSDDateTime, day).OnUnary(types.XSDDate, day))
	defineRegular("hours", Exactly(1), NewBuilder("hours").OnUnary(types.XSDDateTime, hours).OnUnary(types.XSDTime, hours))
	defineRegular("minutes", Exactly(1), NewBuilder("minutes").OnUnary(types.XSDDateTime, minutes).OnUnary(types.XSDTime, minutes))
	defineRegular("seconds", Exactly(1), NewBuilder("seconds").OnUnary(types.XSDDateTime, seconds).OnUnary(types.XSDTime, seconds))
	defineRegular("timezone", Exactly(1), NewBuilder("timezone").
		OnUnary(types.XSDDateTime, timezone).OnUnary(types.XSDDate, timezone).OnUnary(types.XSDTime, timezone))
	defineRegular("tz", Exactly(1), NewBuilder("tz").
		OnUnary(types.XSDDateTime, tz).OnUnary(types.XSDDate, tz).OnUnary(types.XSDTime, tz))

	// Hash functions

	for name, newHash := range hashes {
		defineRegular(name, Exactly(1), NewBuilder(name).OnString1(hashFunc(newHash)))
	}
}
