package rdf

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ===== NamedNode Tests =====

func TestNamedNode_Type(t *testing.T) {
	node := NewNamedNode("http://example.org/resource")
	if node.Type() != TermTypeNamedNode {
		t.Errorf("Expected TermTypeNamedNode, got %v", node.Type())
	}
}

func TestNamedNode_String(t *testing.T) {
	node := NewNamedNode("http://example.org/resource")
	expected := "<http://example.org/resource>"
	if node.String() != expected {
		t.Errorf("Expected %s, got %s", expected, node.String())
	}
}

func TestNamedNode_Equals(t *testing.T) {
	node1 := NewNamedNode("http://example.org/resource")
	node2 := NewNamedNode("http://example.org/resource")
	node3 := NewNamedNode("http://example.org/different")

	if !node1.Equals(node2) {
		t.Error("Expected equal NamedNodes to be equal")
	}

	if node1.Equals(node3) {
		t.Error("Expected different NamedNodes to not be equal")
	}

	// Test with different term type
	literal := NewLiteral("test")
	if node1.Equals(literal) {
		t.Error("NamedNode should not equal Literal")
	}
}

// ===== BlankNode Tests =====

func TestBlankNode_Type(t *testing.T) {
	node := NewBlankNode("b1")
	if node.Type() != TermTypeBlankNode {
		t.Errorf("Expected TermTypeBlankNode, got %v", node.Type())
	}
}

func TestBlankNode_String(t *testing.T) {
	node := NewBlankNode("b1")
	expected := "_:b1"
	if node.String() != expected {
		t.Errorf("Expected %s, got %s", expected, node.String())
	}
}

func TestBlankNode_Equals(t *testing.T) {
	node1 := NewBlankNode("b1")
	node2 := NewBlankNode("b1")
	node3 := NewBlankNode("b2")

	if !node1.Equals(node2) {
		t.Error("Expected equal BlankNodes to be equal")
	}

	if node1.Equals(node3) {
		t.Error("Expected different BlankNodes to not be equal")
	}

	// Test with different term type
	namedNode := NewNamedNode("http://example.org/resource")
	if node1.Equals(namedNode) {
		t.Error("BlankNode should not equal NamedNode")
	}
}

// ===== Literal Tests =====

func TestLiteral_Type(t *testing.T) {
	literal := NewLiteral("test")
	if literal.Type() != TermTypeLiteral {
		t.Errorf("Expected TermTypeLiteral, got %v", literal.Type())
	}
}

func TestLiteral_String(t *testing.T) {
	tests := []struct {
		name     string
		literal  *Literal
		expected string
	}{
		{
			name:     "plain literal",
			literal:  NewLiteral("hello"),
			expected: "\"hello\"",
		},
		{
			name:     "literal with language",
			literal:  NewLiteralWithLanguage("hello", "en"),
			expected: "\"hello\"@en",
		},
		{
			name:     "literal with datatype",
			literal:  NewLiteralWithDatatype("42", NewNamedNode("http://www.w3.org/2001/XMLSchema#integer")),
			expected: "\"42\"^^<http://www.w3.org/2001/XMLSchema#integer>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.literal.String()
			if result != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestLiteral_Equals(t *testing.T) {
	lit1 := NewLiteral("hello")
	lit2 := NewLiteral("hello")
	lit3 := NewLiteral("world")

	if !lit1.Equals(lit2) {
		t.Error("Expected equal plain literals to be equal")
	}

	if lit1.Equals(lit3) {
		t.Error("Expected different plain literals to not be equal")
	}

	// Language-tagged literals
	litLang1 := NewLiteralWithLanguage("hello", "en")
	litLang2 := NewLiteralWithLanguage("hello", "en")
	litLang3 := NewLiteralWithLanguage("hello", "fr")

	if !litLang1.Equals(litLang2) {
		t.Error("Expected equal language-tagged literals to be equal")
	}

	if litLang1.Equals(litLang3) {
		t.Error("Expected literals with different languages to not be equal")
	}

	if litLang1.Equals(lit1) {
		t.Error("Language-tagged literal should not equal plain literal")
	}

	// Typed literals
	litType1 := NewLiteralWithDatatype("42", XSDInteger)
	litType2 := NewLiteralWithDatatype("42", XSDInteger)
	litType3 := NewLiteralWithDatatype("42", XSDString)

	if !litType1.Equals(litType2) {
		t.Error("Expected equal typed literals to be equal")
	}

	if litType1.Equals(litType3) {
		t.Error("Expected literals with different datatypes to not be equal")
	}

	// Test with different term type
	namedNode := NewNamedNode("http://example.org/resource")
	if lit1.Equals(namedNode) {
		t.Error("Literal should not equal NamedNode")
	}
}

// ===== Literal Datatype Tests =====

func TestLiteral_DatatypeIRI(t *testing.T) {
	tests := []struct {
		name     string
		literal  *Literal
		expected string
	}{
		{"plain literal", NewLiteral("a"), XSD + "string"},
		{"language-tagged literal", NewLiteralWithLanguage("a", "en"), RDF + "langString"},
		{"typed literal", NewIntegerLiteral(1), XSD + "integer"},
		{"empty datatype", NewLiteralWithDatatype("a", NewNamedNode("")), XSD + "string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.literal.DatatypeIRI(); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestLiteral_ExplicitStringDatatype(t *testing.T) {
	explicit := NewLiteralWithDatatype("hello", XSDString)
	if !explicit.Equals(NewLiteral("hello")) {
		t.Error("Expected an explicit xsd:string literal to equal a plain literal")
	}
	if explicit.String() != `"hello"` {
		t.Errorf("Expected xsd:string to be implicit, got %s", explicit.String())
	}
}

func TestLiteral_LanguageCaseInsensitive(t *testing.T) {
	if !NewLiteralWithLanguage("a", "en-GB").Equals(NewLiteralWithLanguage("a", "en-gb")) {
		t.Error("Expected language tags to compare case-insensitively")
	}
}

func TestLiteral_Escaping(t *testing.T) {
	lit := NewLiteral("say \"hi\"\n\tback\\slash")
	expected := `"say \"hi\"\n\tback\\slash"`
	if lit.String() != expected {
		t.Errorf("Expected %s, got %s", expected, lit.String())
	}
}

func TestLiteral_EmptyString(t *testing.T) {
	lit := NewLiteral("")
	if lit.String() != `""` {
		t.Errorf("Expected empty quoted string, got %s", lit.String())
	}
}

func TestNewLiteralHelpers(t *testing.T) {
	tests := []struct {
		name     string
		literal  *Literal
		expected string
	}{
		{"integer", NewIntegerLiteral(-42), `"-42"^^<http://www.w3.org/2001/XMLSchema#integer>`},
		{"decimal", NewDecimalLiteral("1.5"), `"1.5"^^<http://www.w3.org/2001/XMLSchema#decimal>`},
		{"double", NewDoubleLiteral("1e3"), `"1e3"^^<http://www.w3.org/2001/XMLSchema#double>`},
		{"true", NewBooleanLiteral(true), `"true"^^<http://www.w3.org/2001/XMLSchema#boolean>`},
		{"false", NewBooleanLiteral(false), `"false"^^<http://www.w3.org/2001/XMLSchema#boolean>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.literal.String(); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

// ===== Variable Tests =====

func TestVariable(t *testing.T) {
	v := NewVariable("x")
	if v.Type() != TermTypeVariable {
		t.Errorf("Expected TermTypeVariable, got %v", v.Type())
	}
	if v.String() != "?x" {
		t.Errorf("Expected ?x, got %s", v.String())
	}
	if !v.Equals(NewVariable("x")) || v.Equals(NewVariable("y")) {
		t.Error("Expected variables to compare by name")
	}
	if v.Equals(NewLiteral("x")) {
		t.Error("Variable should not equal Literal")
	}
}

func TestTermType_String(t *testing.T) {
	tests := []struct {
		termType TermType
		expected string
	}{
		{TermTypeNamedNode, "namedNode"},
		{TermTypeBlankNode, "blankNode"},
		{TermTypeLiteral, "literal"},
		{TermTypeVariable, "variable"},
		{TermType(99), "TermType(99)"},
	}
	for _, tt := range tests {
		if got := tt.termType.String(); got != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, got)
		}
	}
}

// ===== Binding Tests =====

func TestBinding(t *testing.T) {
	b := NewBinding("?x", NewIntegerLiteral(1), "name", NewLiteral("a"), "unset", nil)

	if term, ok := b.Get("x"); !ok || !term.Equals(NewIntegerLiteral(1)) {
		t.Errorf("Expected ?x to be bound to 1, got %v", term)
	}
	if _, ok := b.Get("unset"); ok {
		t.Error("Expected a nil term to count as unbound")
	}
	if _, ok := b.Get("missing"); ok {
		t.Error("Expected a missing name to be unbound")
	}

	if diff := cmp.Diff([]string{"name", "unset", "x"}, b.Names()); diff != "" {
		t.Errorf("Unexpected names (-expected +got):\n%s", diff)
	}
}

func TestBinding_String(t *testing.T) {
	b := NewBinding("y", NewNamedNode("http://example.org/"), "x", NewIntegerLiteral(1))
	expected := `{?x -> "1"^^<http://www.w3.org/2001/XMLSchema#integer>, ?y -> <http://example.org/>}`
	if b.String() != expected {
		t.Errorf("Expected %s, got %s", expected, b.String())
	}
}

func TestBinding_NilGet(t *testing.T) {
	var b Binding
	if _, ok := b.Get("x"); ok {
		t.Error("Expected a nil binding to bind nothing")
	}
}
