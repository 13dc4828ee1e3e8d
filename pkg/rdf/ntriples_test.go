package rdf

import (
	"strings"
	"testing"
)

func TestParseTerm(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Term
	}{
		{"IRI", "<http://example.org/a>", NewNamedNode("http://example.org/a")},
		{"blank node", "_:b0", NewBlankNode("b0")},
		{"plain literal", `"hello"`, NewLiteral("hello")},
		{"language literal", `"chat"@fr`, NewLiteralWithLanguage("chat", "fr")},
		{"typed literal", `"1"^^<http://www.w3.org/2001/XMLSchema#integer>`, NewIntegerLiteral(1)},
		{"escapes", `"a\"b\\c\nd"`, NewLiteral("a\"b\\c\nd")},
		{"unicode escape", `"caf\u00e9"`, NewLiteral("café")},
		{"variable", "?x", NewVariable("x")},
		{"dollar variable", "$name", NewVariable("name")},
		{"integer", "42", NewIntegerLiteral(42)},
		{"negative integer", "-7", NewIntegerLiteral(-7)},
		{"decimal", "1.5", NewDecimalLiteral("1.5")},
		{"double", "1.5e3", NewDoubleLiteral("1.5e3")},
		{"true", "true", NewBooleanLiteral(true)},
		{"false", "false", NewBooleanLiteral(false)},
		{"surrounding whitespace", "  <http://a>\t", NewNamedNode("http://a")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, err := ParseTerm(tt.input)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !term.Equals(tt.expected) {
				t.Errorf("Expected %s, got %s", tt.expected, term)
			}
		})
	}
}

func TestParseTerm_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"unclosed IRI", "<http://a"},
		{"space in IRI", "<http://a b>"},
		{"unclosed literal", `"abc`},
		{"bad escape", `"\q"`},
		{"empty language", `"a"@`},
		{"empty blank node", "_:"},
		{"empty variable", "?"},
		{"trailing input", "<http://a> <http://b>"},
		{"bare word", "hello"},
		{"sign only", "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if term, err := ParseTerm(tt.input); err == nil {
				t.Errorf("Expected an error for %q, got %s", tt.input, term)
			}
		})
	}
}

func TestParseBinding(t *testing.T) {
	b, err := ParseBinding([]string{"x=1", "?name=\"Alice\"@en", " s =<http://example.org/s>"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := NewBinding(
		"x", NewIntegerLiteral(1),
		"name", NewLiteralWithLanguage("Alice", "en"),
		"s", NewNamedNode("http://example.org/s"),
	)
	if b.String() != expected.String() {
		t.Errorf("Expected %s, got %s", expected, b)
	}
}

func TestParseBinding_Errors(t *testing.T) {
	tests := []struct {
		name       string
		assignment string
		message    string
	}{
		{"missing equals", "x", "expected name=term"},
		{"empty name", "?=1", "empty variable name"},
		{"invalid term", "x=<oops", "invalid binding for ?x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBinding([]string{tt.assignment})
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("Expected error containing %q, got %v", tt.message, err)
			}
		})
	}
}
