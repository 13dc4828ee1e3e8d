package functions

import (
	"math"

	"github.com/cockroachdb/apd/v3"

	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/exprerr"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/overload"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/terms"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/types"
)

type arithOp int

const (
	opAdd arithOp = iota
	opSubtract
	opMultiply
	opDivide
)

func (op arithOp) String() string {
	switch op {
	case opAdd:
		return "+"
	case opSubtract:
		return "-"
	case opMultiply:
		return "*"
	default:
		return "/"
	}
}

func (op arithOp) float(a, b float64) float64 {
	switch op {
	case opAdd:
		return a + b
	case opSubtract:
		return a - b
	case opMultiply:
		return a * b
	default:
		return a / b
	}
}

func (op arithOp) decimal(a, b *apd.Decimal) (*apd.Decimal, error) {
	res := new(apd.Decimal)
	var err error
	switch op {
	case opAdd:
		_, err = terms.ExactContext.Add(res, a, b)
	case opSubtract:
		_, err = terms.ExactContext.Sub(res, a, b)
	case opMultiply:
		_, err = terms.ExactContext.Mul(res, a, b)
	default:
		if b.IsZero() {
			return nil, exprerr.NewExpressionError("division by zero")
		}
		_, err = terms.DivisionContext.Quo(res, a, b)
	}
	if err != nil {
		return nil, &exprerr.ExpressionError{Message: "decimal arithmetic failed", Err: err}
	}
	return res, nil
}

// applyArithmetic applies op to two numerics after XPath numeric promotion.
// Integer operands give an xsd:integer, except for division which
// yields an xsd:decimal.
func applyArithmetic(env *overload.Env, op arithOp, a, b terms.Numeric) (terms.Term, error) {
	widened := env.Lattice.ArithmeticWidening(a.DispatchType(), b.DispatchType())
	kind, ok := terms.KindOf(env.Lattice, widened)
	if !ok {
		return nil, &exprerr.InvalidArgumentTypesError{Operator: op.String(), Args: terms.Stringers([]terms.Term{a, b})}
	}
	if kind == terms.KindInteger && op == opDivide {
		kind = terms.KindDecimal
	}

	switch kind {
	case terms.KindFloat:
		return terms.NewFloat(op.float(a.Float64(), b.Float64())), nil
	case terms.KindDouble:
		return terms.NewDouble(op.float(a.Float64(), b.Float64())), nil
	}

	da, _ := a.Decimal()
	db, _ := b.Decimal()
	res, err := op.decimal(da, db)
	if err != nil {
		return nil, err
	}
	if kind == terms.KindInteger {
		return terms.NewIntegerFromDecimal(res, types.XSDInteger), nil
	}
	return terms.NewDecimal(res, types.XSDDecimal), nil
}

func arithmetic(op arithOp) func(env *overload.Env, a, b terms.Term) (terms.Term, error) {
	return func(env *overload.Env, a, b terms.Term) (terms.Term, error) {
		return applyArithmetic(env, op, a.(terms.Numeric), b.(terms.Numeric))
	}
}

// Add is the "+" operator on numerics, shared with SUM and AVG
func Add(env *overload.Env, a, b terms.Numeric) (terms.Term, error) {
	return applyArithmetic(env, opAdd, a, b)
}

// Divide is the "/" operator on numerics, shared with AVG
func Divide(env *overload.Env, a, b terms.Numeric) (terms.Term, error) {
	return applyArithmetic(env, opDivide, a, b)
}

func negate(_ *overload.Env, n terms.Numeric) (terms.Term, error) {
	switch v := n.(type) {
	case *terms.IntegerLiteral:
		var d apd.Decimal
		d.Neg(v.Value)
		return terms.NewIntegerFromDecimal(&d, types.XSDInteger), nil
	case *terms.DecimalLiteral:
		var d apd.Decimal
		d.Neg(v.Value)
		return terms.NewDecimal(&d, types.XSDDecimal), nil
	case *terms.FloatLiteral:
		return terms.NewFloat(-v.Value), nil
	default:
		return terms.NewDouble(-n.Float64()), nil
	}
}

// roundNumeric applies a rounding function to the value, keeping the kind
func roundNumeric(n terms.Numeric, dec func(res, x *apd.Decimal) error, flt func(float64) float64) (terms.Term, error) {
	switch v := n.(type) {
	case *terms.IntegerLiteral:
		res := new(apd.Decimal)
		if err := dec(res, v.Value); err != nil {
			return nil, &exprerr.ExpressionError{Message: "integer rounding failed", Err: err}
		}
		return terms.NewIntegerFromDecimal(res, types.XSDInteger), nil
	case *terms.DecimalLiteral:
		res := new(apd.Decimal)
		if err := dec(res, v.Value); err != nil {
			return nil, &exprerr.ExpressionError{Message: "decimal rounding failed", Err: err}
		}
		return terms.NewDecimal(res, types.XSDDecimal), nil
	case *terms.FloatLiteral:
		return terms.NewFloat(flt(v.Value)), nil
	default:
		return terms.NewDouble(flt(n.Float64())), nil
	}
}

var half = apd.New(5, -1)

// xpathRound rounds half towards positive infinity
func xpathRound(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	return math.Floor(f + 0.5)
}

func roundDecimal(res, x *apd.Decimal) error {
	var shifted apd.Decimal
	if _, err := terms.ExactContext.Add(&shifted, x, half); err != nil {
		return err
	}
	_, err := terms.ExactContext.Floor(res, &shifted)
	return err
}

func ceilDecimal(res, x *apd.Decimal) error {
	_, err := terms.ExactContext.Ceil(res, x)
	return err
}

func floorDecimal(res, x *apd.Decimal) error {
	_, err := terms.ExactContext.Floor(res, x)
	return err
}

func absDecimal(res, x *apd.Decimal) error {
	res.Abs(x)
	return nil
}
