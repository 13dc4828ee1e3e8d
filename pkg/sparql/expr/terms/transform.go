package terms

import (
	"regexp"
	"strings"

	"github.com/aleksaelezovic/sparqlexpr/pkg/rdf"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/types"
)

var (
	integerPattern = regexp.MustCompile(`^[+-]?\d+$`)
	decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)
	floatPattern   = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)
)

// TransformLiteral converts an external literal into its typed internal
// form. Lexical forms that do not parse for a recognised datatype yield a
// NonLexicalLiteral rather than an error.
func TransformLiteral(lit *rdf.Literal, lattice *types.Lattice) Literal {
	if lattice == nil {
		lattice = types.Default()
	}
	lexical := lit.Lexical
	if lit.Datatype == nil || lit.Datatype.IRI == "" {
		if lit.Language != "" {
			return NewLangString(lexical, lit.Language)
		}
		return NewString(lexical)
	}
	datatype := lit.Datatype.IRI
	dict := lattice.SuperTypes(datatype)

	switch {
	case dict.Has(types.XSDString):
		return NewTypedString(lexical, datatype)

	case dict.Has(types.RDFLangString):
		if lit.Language == "" {
			return NewNonLexical(lexical, datatype, types.RDFLangString, "")
		}
		return NewLangString(lexical, lit.Language)

	case dict.Has(types.XSDDayTimeDuration):
		return durationLiteral(lexical, datatype, types.XSDDayTimeDuration, ParseDayTimeDuration)
	case dict.Has(types.XSDYearMonthDuration):
		return durationLiteral(lexical, datatype, types.XSDYearMonthDuration, ParseYearMonthDuration)
	case dict.Has(types.XSDDuration):
		return durationLiteral(lexical, datatype, types.XSDDuration, ParseDuration)

	case dict.Has(types.XSDDateTime):
		v, ok := ParseDateTime(lexical)
		if !ok || (dict.Has(types.XSDDateTimeStamp) && !v.HasZone) {
			return NewNonLexical(lexical, datatype, types.XSDDateTime, "")
		}
		return &DateTimeLiteral{literalBase: base(datatype, lexical), Value: v}

	case dict.Has(types.XSDDate):
		v, ok := ParseDate(lexical)
		if !ok {
			return NewNonLexical(lexical, datatype, types.XSDDate, "")
		}
		return &DateLiteral{literalBase: base(datatype, lexical), Value: v}

	case dict.Has(types.XSDTime):
		v, ok := ParseTime(lexical)
		if !ok {
			return NewNonLexical(lexical, datatype, types.XSDTime, "")
		}
		return &TimeLiteral{literalBase: base(datatype, lexical), Value: v}

	case dict.Has(types.XSDBoolean):
		switch strings.TrimSpace(lexical) {
		case "true", "1":
			return &BooleanLiteral{literalBase: base(datatype, lexical), Value: true}
		case "false", "0":
			return &BooleanLiteral{literalBase: base(datatype, lexical), Value: false}
		}
		return NewNonLexical(lexical, datatype, types.XSDBoolean, "")

	case dict.Has(types.XSDInteger):
		v, ok := ParseInteger(lexical)
		if !ok || !inIntegerRange(lattice, datatype, v) {
			return NewNonLexical(lexical, datatype, types.XSDInteger, "")
		}
		return &IntegerLiteral{literalBase: base(datatype, lexical), Value: v}

	case dict.Has(types.XSDDecimal):
		v, ok := ParseDecimal(lexical)
		if !ok {
			return NewNonLexical(lexical, datatype, types.XSDDecimal, "")
		}
		return &DecimalLiteral{literalBase: base(datatype, lexical), Value: v}

	case dict.Has(types.XSDFloat):
		v, ok := ParseFloat(lexical, 32)
		if !ok {
			return NewNonLexical(lexical, datatype, types.XSDFloat, "")
		}
		return &FloatLiteral{literalBase: base(datatype, lexical), Value: float64(float32(v))}

	case dict.Has(types.XSDDouble):
		v, ok := ParseFloat(lexical, 64)
		if !ok {
			return NewNonLexical(lexical, datatype, types.XSDDouble, "")
		}
		return &DoubleLiteral{literalBase: base(datatype, lexical), Value: v}
	}

	if dict.Depth() == 0 && !types.IsKnown(datatype) {
		return NewOpaque(lexical, datatype)
	}
	return NewOther(lexical, datatype)
}

func durationLiteral(lexical, datatype, origin string, parse func(string) (Duration, bool)) Literal {
	v, ok := parse(lexical)
	if !ok {
		return NewNonLexical(lexical, datatype, origin, "")
	}
	return &DurationLiteral{literalBase: base(datatype, lexical), Value: v}
}

// TransformRDFTermUnsafe converts any external term. Variables become
// named nodes carrying the variable name; callers must resolve bound
// variables themselves.
func TransformRDFTermUnsafe(term rdf.Term, lattice *types.Lattice) Term {
	switch t := term.(type) {
	case *rdf.Literal:
		return TransformLiteral(t, lattice)
	case *rdf.NamedNode:
		return NewNamedNode(t.IRI)
	case *rdf.BlankNode:
		return NewBlankNode(t.ID)
	case *rdf.Variable:
		return NewNamedNode(t.Name)
	default:
		return NewNamedNode(term.Value())
	}
}
