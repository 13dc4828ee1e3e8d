package terms

import (
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"github.com/aleksaelezovic/sparqlexpr/pkg/rdf"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/types"
)

// NumericKind is the primitive numeric category of a literal
type NumericKind int

const (
	KindInteger NumericKind = iota + 1
	KindDecimal
	KindFloat
	KindDouble
)

func (k NumericKind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindDecimal:
		return "decimal"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	default:
		return "unknown"
	}
}

// Datatype returns the primitive datatype of the kind
func (k NumericKind) Datatype() string {
	switch k {
	case KindInteger:
		return types.XSDInteger
	case KindDecimal:
		return types.XSDDecimal
	case KindFloat:
		return types.XSDFloat
	default:
		return types.XSDDouble
	}
}

// KindOf maps a numeric datatype to its primitive kind
func KindOf(lattice *types.Lattice, datatype string) (NumericKind, bool) {
	switch {
	case lattice.IsSubTypeOf(datatype, types.XSDInteger):
		return KindInteger, true
	case lattice.IsSubTypeOf(datatype, types.XSDDecimal):
		return KindDecimal, true
	case lattice.IsSubTypeOf(datatype, types.XSDFloat):
		return KindFloat, true
	case lattice.IsSubTypeOf(datatype, types.XSDDouble):
		return KindDouble, true
	}
	return 0, false
}

var (
	// ExactContext performs integer and decimal addition, subtraction and
	// multiplication without rounding for any realistic operand size.
	ExactContext = apd.BaseContext.WithPrecision(1000)
	// DivisionContext bounds the digits of decimal quotients.
	DivisionContext = apd.BaseContext.WithPrecision(34)
)

// Numeric is any numeric literal
type Numeric interface {
	Literal
	Kind() NumericKind
	// Float64 converts the value, possibly losing precision
	Float64() float64
	// Decimal converts the value to an exact decimal. It fails for
	// NaN and infinities.
	Decimal() (*apd.Decimal, bool)
}

// IntegerLiteral is an xsd:integer or one of its derived types
type IntegerLiteral struct {
	literalBase
	Value *apd.Decimal
}

// NewInteger creates a computed xsd:integer
func NewInteger(v int64) *IntegerLiteral {
	return &IntegerLiteral{literalBase: computed(types.XSDInteger), Value: apd.New(v, 0)}
}

// NewIntegerFromDecimal creates a computed integer of datatype from an
// integral decimal
func NewIntegerFromDecimal(v *apd.Decimal, datatype string) *IntegerLiteral {
	var d apd.Decimal
	_, _ = ExactContext.Quantize(&d, v, 0)
	return &IntegerLiteral{literalBase: computed(datatype), Value: &d}
}

func (i *IntegerLiteral) Kind() NumericKind { return KindInteger }

func (i *IntegerLiteral) Float64() float64 {
	f, _ := i.Value.Float64()
	return f
}

func (i *IntegerLiteral) Decimal() (*apd.Decimal, bool) { return i.Value, true }

// Int64 returns the value if it fits
func (i *IntegerLiteral) Int64() (int64, bool) {
	v, err := i.Value.Int64()
	return v, err == nil
}

func (i *IntegerLiteral) Str() string {
	return i.strOr(func() string { return i.Value.Text('f') })
}

func (i *IntegerLiteral) EBV() (bool, error) { return !i.Value.IsZero(), nil }

func (i *IntegerLiteral) ToRDF() rdf.Term { return typedRDF(i.Str(), i.datatype) }

func (i *IntegerLiteral) String() string { return i.ToRDF().String() }

// DecimalLiteral is an xsd:decimal
type DecimalLiteral struct {
	literalBase
	Value *apd.Decimal
}

// NewDecimal creates a computed literal of datatype
func NewDecimal(v *apd.Decimal, datatype string) *DecimalLiteral {
	if datatype == "" {
		datatype = types.XSDDecimal
	}
	return &DecimalLiteral{literalBase: computed(datatype), Value: v}
}

func (d *DecimalLiteral) Kind() NumericKind { return KindDecimal }

func (d *DecimalLiteral) Float64() float64 {
	f, _ := d.Value.Float64()
	return f
}

func (d *DecimalLiteral) Decimal() (*apd.Decimal, bool) { return d.Value, true }

func (d *DecimalLiteral) Str() string {
	return d.strOr(func() string { return FormatDecimal(d.Value) })
}

func (d *DecimalLiteral) EBV() (bool, error) { return !d.Value.IsZero(), nil }

func (d *DecimalLiteral) ToRDF() rdf.Term { return typedRDF(d.Str(), d.datatype) }

func (d *DecimalLiteral) String() string { return d.ToRDF().String() }

// FloatLiteral is an xsd:float; Value always holds a float32-representable number
type FloatLiteral struct {
	literalBase
	Value float64
}

// NewFloat creates a computed xsd:float, rounding v to single precision
func NewFloat(v float64) *FloatLiteral {
	return &FloatLiteral{literalBase: computed(types.XSDFloat), Value: float64(float32(v))}
}

func (f *FloatLiteral) Kind() NumericKind { return KindFloat }

func (f *FloatLiteral) Float64() float64 { return f.Value }

func (f *FloatLiteral) Decimal() (*apd.Decimal, bool) { return floatToDecimal(f.Value, 32) }

func (f *FloatLiteral) Str() string {
	return f.strOr(func() string { return FormatFloat(f.Value, 32) })
}

func (f *FloatLiteral) EBV() (bool, error) { return f.Value != 0 && !math.IsNaN(f.Value), nil }

func (f *FloatLiteral) ToRDF() rdf.Term { return typedRDF(f.Str(), f.datatype) }

func (f *FloatLiteral) String() string { return f.ToRDF().String() }

// DoubleLiteral is an xsd:double
type DoubleLiteral struct {
	literalBase
	Value float64
}

// NewDouble creates a computed xsd:double
func NewDouble(v float64) *DoubleLiteral {
	return &DoubleLiteral{literalBase: computed(types.XSDDouble), Value: v}
}

func (d *DoubleLiteral) Kind() NumericKind { return KindDouble }

func (d *DoubleLiteral) Float64() float64 { return d.Value }

func (d *DoubleLiteral) Decimal() (*apd.Decimal, bool) { return floatToDecimal(d.Value, 64) }

func (d *DoubleLiteral) Str() string {
	return d.strOr(func() string { return FormatFloat(d.Value, 64) })
}

func (d *DoubleLiteral) EBV() (bool, error) { return d.Value != 0 && !math.IsNaN(d.Value), nil }

func (d *DoubleLiteral) ToRDF() rdf.Term { return typedRDF(d.Str(), d.datatype) }

func (d *DoubleLiteral) String() string { return d.ToRDF().String() }

// NewNumeric creates a computed literal of kind from a decimal or float value
func NewNumeric(kind NumericKind, dec *apd.Decimal, f float64) Numeric {
	switch kind {
	case KindInteger:
		return NewIntegerFromDecimal(dec, types.XSDInteger)
	case KindDecimal:
		return NewDecimal(dec, types.XSDDecimal)
	case KindFloat:
		return NewFloat(f)
	default:
		return NewDouble(f)
	}
}

func floatToDecimal(f float64, bitSize int) (*apd.Decimal, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	d, _, err := apd.NewFromString(strconv.FormatFloat(f, 'g', -1, bitSize))
	if err != nil {
		return nil, false
	}
	return d, true
}

// FormatDecimal renders a decimal without exponent and trailing zeros
func FormatDecimal(d *apd.Decimal) string {
	var r apd.Decimal
	r.Reduce(d)
	if r.Exponent > 0 {
		_, _ = ExactContext.Quantize(&r, &r, 0)
	}
	s := r.Text('f')
	if s == "-0" {
		return "0"
	}
	return s
}

// FormatFloat renders the canonical lexical form of a float or double:
// one integer digit, at least one fraction digit and an exponent, as in 5.0E0.
func FormatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	}
	mantissa, exponent, _ := strings.Cut(strconv.FormatFloat(f, 'E', -1, bitSize), "E")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	e, _ := strconv.Atoi(exponent)
	return mantissa + "E" + strconv.Itoa(e)
}

// FloatString renders a float or double the way a cast to xsd:string does,
// using plain notation for moderate magnitudes.
func FloatString(f float64, bitSize int) string {
	abs := math.Abs(f)
	if abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(f, 'f', -1, bitSize)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return FormatFloat(f, bitSize)
	}
	return strings.Replace(strconv.FormatFloat(f, 'E', -1, bitSize), "E+", "E", 1)
}

// ParseDecimal parses an XSD decimal lexical form
func ParseDecimal(lexical string) (*apd.Decimal, bool) {
	s := strings.TrimSpace(lexical)
	if !decimalPattern.MatchString(s) {
		return nil, false
	}
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, false
	}
	return d, true
}

// ParseInteger parses an XSD integer lexical form
func ParseInteger(lexical string) (*apd.Decimal, bool) {
	s := strings.TrimSpace(lexical)
	if !integerPattern.MatchString(s) {
		return nil, false
	}
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, false
	}
	return d, true
}

// ParseFloat parses an XSD float or double lexical form
func ParseFloat(lexical string, bitSize int) (float64, bool) {
	s := strings.TrimSpace(lexical)
	switch s {
	case "INF", "+INF":
		return math.Inf(1), true
	case "-INF":
		return math.Inf(-1), true
	case "NaN":
		return math.NaN(), true
	}
	if !floatPattern.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, bitSize)
	if err != nil {
		// out of range values round to infinity
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f, true
		}
		return 0, false
	}
	return f, true
}

// integerBounds lists the value spaces of bounded integer types
var integerBounds = map[string][2]*apd.Decimal{
	types.XSDNonPositiveInteger: {nil, apd.New(0, 0)},
	types.XSDNegativeInteger:    {nil, apd.New(-1, 0)},
	types.XSDLong:               {apd.New(math.MinInt64, 0), apd.New(math.MaxInt64, 0)},
	types.XSDInt:                {apd.New(math.MinInt32, 0), apd.New(math.MaxInt32, 0)},
	types.XSDShort:              {apd.New(math.MinInt16, 0), apd.New(math.MaxInt16, 0)},
	types.XSDByte:               {apd.New(math.MinInt8, 0), apd.New(math.MaxInt8, 0)},
	types.XSDNonNegativeInteger: {apd.New(0, 0), nil},
	types.XSDPositiveInteger:    {apd.New(1, 0), nil},
	types.XSDUnsignedLong:       {apd.New(0, 0), mustDecimal("18446744073709551615")},
	types.XSDUnsignedInt:        {apd.New(0, 0), apd.New(math.MaxUint32, 0)},
	types.XSDUnsignedShort:      {apd.New(0, 0), apd.New(math.MaxUint16, 0)},
	types.XSDUnsignedByte:       {apd.New(0, 0), apd.New(math.MaxUint8, 0)},
}

func mustDecimal(s string) *apd.Decimal {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// inIntegerRange checks v against the bounds of datatype and all its
// known integer ancestors
func inIntegerRange(lattice *types.Lattice, datatype string, v *apd.Decimal) bool {
	for _, m := range lattice.Ancestors(datatype, func(t string) bool { _, ok := integerBounds[t]; return ok }) {
		bounds := integerBounds[m.Type]
		if bounds[0] != nil && v.Cmp(bounds[0]) < 0 {
			return false
		}
		if bounds[1] != nil && v.Cmp(bounds[1]) > 0 {
			return false
		}
	}
	return true
}
