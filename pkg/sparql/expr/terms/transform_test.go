package terms

import (
	"math"
	"testing"
	"time"

	"github.com/cockroachdb/apd/v3"

	"github.com/aleksaelezovic/sparqlexpr/pkg/rdf"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/exprerr"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/types"
)

func typed(lexical, datatype string) *rdf.Literal {
	return rdf.NewLiteralWithDatatype(lexical, rdf.NewNamedNode(datatype))
}

func TestTransformLiteral_RoundTrip(t *testing.T) {
	tests := []struct {
		lexical  string
		datatype string
	}{
		{"1", types.XSDInteger},
		{"-42", types.XSDInteger},
		{"123456789012345678901234567890", types.XSDInteger},
		{"127", types.XSDByte},
		{"1.5", types.XSDDecimal},
		{"-0.25", types.XSDDecimal},
		{"1.0E0", types.XSDDouble},
		{"INF", types.XSDDouble},
		{"NaN", types.XSDFloat},
		{"true", types.XSDBoolean},
		{"0", types.XSDBoolean},
		{"2020-01-02T03:04:05Z", types.XSDDateTime},
		{"2020-01-02", types.XSDDate},
		{"10:00:00+02:00", types.XSDTime},
		{"P1Y2M", types.XSDYearMonthDuration},
		{"PT1H30M", types.XSDDayTimeDuration},
	}

	for _, tt := range tests {
		t.Run(tt.lexical, func(t *testing.T) {
			lit := TransformLiteral(typed(tt.lexical, tt.datatype), nil)
			if _, ok := lit.(*NonLexicalLiteral); ok {
				t.Fatalf("Expected a typed literal, got non-lexical %s", lit)
			}
			if lit.Str() != tt.lexical {
				t.Errorf("Expected %s, got %s", tt.lexical, lit.Str())
			}
			if lit.Datatype() != tt.datatype {
				t.Errorf("Expected datatype %s, got %s", tt.datatype, lit.Datatype())
			}
		})
	}
}

func TestTransformLiteral_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		input *rdf.Literal
		check func(Literal) bool
	}{
		{"simple", rdf.NewLiteral("a"), func(l Literal) bool { _, ok := l.(*StringLiteral); return ok }},
		{"lang", rdf.NewLiteralWithLanguage("a", "EN"), func(l Literal) bool {
			s, ok := l.(*LangStringLiteral)
			return ok && s.Language() == "en"
		}},
		{"string subtype", typed("x", types.XSDToken), func(l Literal) bool { _, ok := l.(*StringLiteral); return ok }},
		{"int", typed("5", types.XSDInt), func(l Literal) bool { _, ok := l.(*IntegerLiteral); return ok }},
		{"decimal", typed("5.1", types.XSDDecimal), func(l Literal) bool { _, ok := l.(*DecimalLiteral); return ok }},
		{"float", typed("5.1", types.XSDFloat), func(l Literal) bool { _, ok := l.(*FloatLiteral); return ok }},
		{"dateTimeStamp", typed("2020-01-01T00:00:00Z", types.XSDDateTimeStamp), func(l Literal) bool {
			_, ok := l.(*DateTimeLiteral)
			return ok
		}},
		{"gYear stays other", typed("2020", types.XSDGYear), func(l Literal) bool {
			o, ok := l.(*OtherLiteral)
			return ok && o.DispatchType() == types.XSDGYear
		}},
		{"anyURI dispatches on itself", typed("http://example.org/", types.XSDAnyURI), func(l Literal) bool {
			o, ok := l.(*OtherLiteral)
			return ok && o.DispatchType() == types.XSDAnyURI
		}},
		{"unknown is opaque", typed("x", "http://example.org/t"), func(l Literal) bool {
			o, ok := l.(*OtherLiteral)
			return ok && o.DispatchType() == types.SPARQLOther
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if lit := TransformLiteral(tt.input, nil); !tt.check(lit) {
				t.Errorf("Unexpected transform result %#v", lit)
			}
		})
	}
}

func TestTransformLiteral_NonLexical(t *testing.T) {
	tests := []struct {
		name     string
		lexical  string
		datatype string
		origin   string
	}{
		{"integer", "abc", types.XSDInteger, types.XSDInteger},
		{"byte out of range", "128", types.XSDByte, types.XSDInteger},
		{"positive zero", "0", types.XSDPositiveInteger, types.XSDInteger},
		{"decimal exponent", "1e3", types.XSDDecimal, types.XSDDecimal},
		{"boolean", "yes", types.XSDBoolean, types.XSDBoolean},
		{"date", "2020-02-30", types.XSDDate, types.XSDDate},
		{"dateTimeStamp without zone", "2020-01-01T00:00:00", types.XSDDateTimeStamp, types.XSDDateTime},
		{"yearMonth with days", "P1D", types.XSDYearMonthDuration, types.XSDYearMonthDuration},
		{"dayTime with years", "P1Y", types.XSDDayTimeDuration, types.XSDDayTimeDuration},
		{"empty duration", "P", types.XSDDuration, types.XSDDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lit := TransformLiteral(typed(tt.lexical, tt.datatype), nil)
			nl, ok := lit.(*NonLexicalLiteral)
			if !ok {
				t.Fatalf("Expected non-lexical literal, got %#v", lit)
			}
			if nl.DispatchType() != types.SPARQLNonLexical {
				t.Errorf("Expected dispatch type %s, got %s", types.SPARQLNonLexical, nl.DispatchType())
			}
			if nl.Origin() != tt.origin {
				t.Errorf("Expected origin %s, got %s", tt.origin, nl.Origin())
			}
			if nl.Datatype() != tt.datatype || nl.Str() != tt.lexical {
				t.Errorf("Expected the original term to be kept, got %s", nl)
			}
		})
	}
}

func TestTransformLiteral_OpenWorld(t *testing.T) {
	lattice := types.NewLattice(types.WithDiscoverer(types.DiscovererFunc(func(datatype string) string {
		if datatype == "http://example.org/age" {
			return types.XSDNonNegativeInteger
		}
		return types.Term
	})))

	lit := TransformLiteral(typed("12", "http://example.org/age"), lattice)
	i, ok := lit.(*IntegerLiteral)
	if !ok {
		t.Fatalf("Expected an integer literal, got %#v", lit)
	}
	if i.Datatype() != "http://example.org/age" {
		t.Errorf("Expected the custom datatype to be kept, got %s", i.Datatype())
	}

	if _, ok := TransformLiteral(typed("-1", "http://example.org/age"), lattice).(*NonLexicalLiteral); !ok {
		t.Error("Expected inherited range checks to apply to the custom type")
	}
}

func TestEBV(t *testing.T) {
	tests := []struct {
		name     string
		term     Term
		expected bool
		err      bool
	}{
		{"empty string", NewString(""), false, false},
		{"string", NewString("a"), true, false},
		{"lang string", NewLangString("a", "en"), true, false},
		{"zero", NewInteger(0), false, false},
		{"one", NewInteger(1), true, false},
		{"NaN", NewDouble(math.NaN()), false, false},
		{"float", NewFloat(0.5), true, false},
		{"false", False, false, false},
		{"invalid numeric", TransformLiteral(typed("x", types.XSDInteger), nil), false, false},
		{"invalid boolean", TransformLiteral(typed("x", types.XSDBoolean), nil), false, false},
		{"invalid date", TransformLiteral(typed("x", types.XSDDate), nil), false, true},
		{"iri", NewNamedNode("http://example.org/"), false, true},
		{"other", NewOther("x", "http://example.org/t"), false, true},
		{"dateTime", NewDateTimeFromTime(time.Unix(0, 0).UTC()), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.term.EBV()
			if tt.err {
				if code, _ := exprerr.CodeOf(err); code != exprerr.CodeEBVCoercion {
					t.Errorf("Expected EBV coercion error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{5, "5.0E0"},
		{0.5, "5.0E-1"},
		{0, "0.0E0"},
		{-1250, "-1.25E3"},
		{1e21, "1.0E21"},
		{1.5e-7, "1.5E-7"},
		{math.Inf(1), "INF"},
		{math.Inf(-1), "-INF"},
		{math.NaN(), "NaN"},
	}
	for _, tt := range tests {
		if got := FormatFloat(tt.value, 64); got != tt.expected {
			t.Errorf("FormatFloat(%v): expected %s, got %s", tt.value, tt.expected, got)
		}
	}
}

func TestFloatString(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{5, "5"},
		{0.5, "0.5"},
		{1e21, "1E21"},
		{1.5e-7, "1.5E-07"},
		{math.Inf(-1), "-INF"},
		{math.NaN(), "NaN"},
	}
	for _, tt := range tests {
		if got := FloatString(tt.value, 64); got != tt.expected {
			t.Errorf("FloatString(%v): expected %s, got %s", tt.value, tt.expected, got)
		}
	}
}

func TestFormatDecimal(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1.50", "1.5"},
		{"2.000", "2"},
		{"-0.0", "0"},
		{"100", "100"},
	}
	for _, tt := range tests {
		d, _, err := apd.NewFromString(tt.input)
		if err != nil {
			t.Fatal(err)
		}
		if got := FormatDecimal(d); got != tt.expected {
			t.Errorf("FormatDecimal(%s): expected %s, got %s", tt.input, tt.expected, got)
		}
	}
}

func TestComputedLiteralsAreCanonical(t *testing.T) {
	tests := []struct {
		term     Term
		expected string
	}{
		{NewInteger(-3), `"-3"^^<http://www.w3.org/2001/XMLSchema#integer>`},
		{NewFloat(0.1), `"1.0E-1"^^<http://www.w3.org/2001/XMLSchema#float>`},
		{NewDouble(5), `"5.0E0"^^<http://www.w3.org/2001/XMLSchema#double>`},
		{True, `"true"^^<http://www.w3.org/2001/XMLSchema#boolean>`},
		{NewString("a"), `"a"`},
		{NewLangString("a", "en-GB"), `"a"@en-gb`},
		{NewYearMonthDuration(14), `"P1Y2M"^^<http://www.w3.org/2001/XMLSchema#yearMonthDuration>`},
		{NewDayTimeDuration(apd.New(0, 0)), `"PT0S"^^<http://www.w3.org/2001/XMLSchema#dayTimeDuration>`},
	}
	for _, tt := range tests {
		if got := tt.term.String(); got != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, got)
		}
	}
}

func TestTransformRDFTermUnsafe(t *testing.T) {
	if n, ok := TransformRDFTermUnsafe(rdf.NewNamedNode("http://example.org/a"), nil).(*NamedNode); !ok || n.IRI != "http://example.org/a" {
		t.Error("Expected a named node")
	}
	if b, ok := TransformRDFTermUnsafe(rdf.NewBlankNode("b0"), nil).(*BlankNode); !ok || b.ID != "b0" {
		t.Error("Expected a blank node")
	}
	if n, ok := TransformRDFTermUnsafe(rdf.NewVariable("x"), nil).(*NamedNode); !ok || n.IRI != "x" {
		t.Error("Expected a variable to become a named node")
	}
}
