package order

import (
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/aleksaelezovic/sparqlexpr/pkg/rdf"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/terms"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/types"
)

func lit(lexical, datatype string) terms.Term {
	return terms.TransformLiteral(rdf.NewLiteralWithDatatype(lexical, rdf.NewNamedNode(datatype)), nil)
}

func TestCompareNumeric(t *testing.T) {
	tests := []struct {
		name     string
		a, b     terms.Term
		expected int
		ok       bool
	}{
		{"integers", lit("1", types.XSDInteger), lit("2", types.XSDInteger), -1, true},
		{"integer and decimal", lit("2", types.XSDInteger), lit("2.0", types.XSDDecimal), 0, true},
		{"decimal and double", lit("2.5", types.XSDDecimal), lit("2", types.XSDDouble), 1, true},
		{"derived integer types", lit("7", types.XSDByte), lit("7", types.XSDLong), 0, true},
		{"large decimals", lit("10000000000000000000.1", types.XSDDecimal), lit("10000000000000000000", types.XSDInteger), 1, true},
		{"NaN", lit("NaN", types.XSDDouble), lit("1", types.XSDInteger), 0, false},
		{"infinity", lit("INF", types.XSDFloat), lit("1e300", types.XSDDouble), 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := CompareNumeric(tt.a.(terms.Numeric), tt.b.(terms.Numeric))
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && sign(c) != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, c)
			}
		})
	}
}

func TestCompareDurations(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected int
		ok       bool
	}{
		{"equal months", "P1Y", "P12M", 0, true},
		{"days and hours", "P1D", "PT24H", 0, true},
		{"shorter", "PT1H", "PT2H", -1, true},
		{"months and days together", "P1M1D", "P1M", 1, true},
		{"months against days", "P1M", "P30D", 0, false},
		{"negative", "-P1D", "PT0S", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := terms.ParseDuration(tt.a)
			b, _ := terms.ParseDuration(tt.b)
			c, ok := CompareDurations(a, b)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && c != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, c)
			}
		})
	}
}

func TestCompareValues_Temporal(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	tests := []struct {
		name     string
		a, b     terms.Term
		implicit *time.Location
		expected int
	}{
		{"same instant in two zones", lit("2020-01-01T12:00:00Z", types.XSDDateTime), lit("2020-01-01T07:00:00-05:00", types.XSDDateTime), time.UTC, 0},
		{"implicit timezone", lit("2020-01-01T12:00:00", types.XSDDateTime), lit("2020-01-01T12:00:00Z", types.XSDDateTime), est, 1},
		{"dates", lit("2020-01-01", types.XSDDate), lit("2020-01-02", types.XSDDate), time.UTC, -1},
		{"times", lit("10:00:00", types.XSDTime), lit("09:59:59", types.XSDTime), time.UTC, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := CompareValues(tt.a.(terms.Literal), tt.b.(terms.Literal), tt.implicit)
			if !ok {
				t.Fatal("Expected the values to be comparable")
			}
			if sign(c) != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, c)
			}
		})
	}
}

func TestCompareValues_Incomparable(t *testing.T) {
	tests := []struct {
		name string
		a, b terms.Term
	}{
		{"string and integer", terms.NewString("1"), lit("1", types.XSDInteger)},
		{"string and lang string", terms.NewString("a"), terms.NewLangString("a", "en")},
		{"dateTime and date", lit("2020-01-01T00:00:00Z", types.XSDDateTime), lit("2020-01-01Z", types.XSDDate)},
		{"non-lexical", lit("abc", types.XSDInteger), lit("1", types.XSDInteger)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := CompareValues(tt.a.(terms.Literal), tt.b.(terms.Literal), time.UTC); ok {
				t.Errorf("Expected %s and %s to be incomparable", tt.a, tt.b)
			}
		})
	}
}

func TestCompare_TotalOrder(t *testing.T) {
	values := []terms.Term{
		terms.NewString("b"),
		lit("10", types.XSDInteger),
		terms.NewNamedNode("http://example.org/b"),
		nil,
		terms.NewBlankNode("x"),
		lit("2", types.XSDInteger),
		terms.NewNamedNode("http://example.org/a"),
		terms.NewString("a"),
		lit("2.5", types.XSDDecimal),
	}
	sort.SliceStable(values, func(i, j int) bool {
		return Compare(values[i], values[j], time.UTC) < 0
	})

	got := make([]string, len(values))
	for i, v := range values {
		if v == nil {
			got[i] = "UNDEF"
		} else {
			got[i] = v.String()
		}
	}
	expected := []string{
		"UNDEF",
		"_:x",
		"<http://example.org/a>",
		"<http://example.org/b>",
		`"2"^^<http://www.w3.org/2001/XMLSchema#integer>`,
		`"2.5"^^<http://www.w3.org/2001/XMLSchema#decimal>`,
		`"10"^^<http://www.w3.org/2001/XMLSchema#integer>`,
		`"a"`,
		`"b"`,
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("Unexpected order (-expected +got):\n%s", diff)
	}
}

func TestCompare_Antisymmetric(t *testing.T) {
	values := []terms.Term{
		lit("1", types.XSDInteger),
		lit("1.0", types.XSDDecimal),
		lit("NaN", types.XSDDouble),
		terms.NewLangString("a", "en"),
		terms.NewString("a"),
		lit("abc", types.XSDInteger),
		terms.NewNamedNode("http://example.org/"),
	}
	for _, a := range values {
		for _, b := range values {
			if ab, ba := Compare(a, b, time.UTC), Compare(b, a, time.UTC); ab != -ba {
				t.Errorf("Compare(%s, %s) = %d but Compare(%s, %s) = %d", a, b, ab, b, a, ba)
			}
		}
	}
}

func TestCompareRDF(t *testing.T) {
	one := rdf.NewIntegerLiteral(1)
	double := rdf.NewDoubleLiteral("0.5")
	if c := CompareRDF(double, one, nil, time.UTC); c >= 0 {
		t.Errorf("Expected 0.5 < 1, got %d", c)
	}
	if c := CompareRDF(nil, one, nil, time.UTC); c >= 0 {
		t.Errorf("Expected unbound first, got %d", c)
	}
	if c := CompareRDF(one, rdf.NewIntegerLiteral(1), nil, time.UTC); c != 0 {
		t.Errorf("Expected equal terms to compare equal, got %d", c)
	}
	if c := CompareRDF(rdf.NewNamedNode("http://a"), rdf.NewBlankNode("b"), nil, time.UTC); c <= 0 {
		t.Errorf("Expected IRIs after blank nodes, got %d", c)
	}
}
