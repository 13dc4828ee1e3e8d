package rdf

import (
	"fmt"
	"sort"
	"strings"
)

// TermType represents the type of an RDF term
type TermType byte

const (
	TermTypeNamedNode TermType = iota + 1
	TermTypeBlankNode
	TermTypeLiteral
	TermTypeVariable
)

func (t TermType) String() string {
	switch t {
	case TermTypeNamedNode:
		return "namedNode"
	case TermTypeBlankNode:
		return "blankNode"
	case TermTypeLiteral:
		return "literal"
	case TermTypeVariable:
		return "variable"
	default:
		return fmt.Sprintf("TermType(%d)", byte(t))
	}
}

// Term represents an RDF term (IRI, blank node, literal or variable)
type Term interface {
	Type() TermType
	// Value is the IRI, blank node label, lexical form or variable name.
	Value() string
	String() string
	Equals(other Term) bool
}

// NamedNode represents an IRI
type NamedNode struct {
	IRI string
}

func NewNamedNode(iri string) *NamedNode {
	return &NamedNode{IRI: iri}
}

func (n *NamedNode) Type() TermType {
	return TermTypeNamedNode
}

func (n *NamedNode) Value() string {
	return n.IRI
}

func (n *NamedNode) String() string {
	return fmt.Sprintf("<%s>", n.IRI)
}

func (n *NamedNode) Equals(other Term) bool {
	if on, ok := other.(*NamedNode); ok {
		return n.IRI == on.IRI
	}
	return false
}

// BlankNode represents a blank node
type BlankNode struct {
	ID string
}

func NewBlankNode(id string) *BlankNode {
	return &BlankNode{ID: id}
}

func (b *BlankNode) Type() TermType {
	return TermTypeBlankNode
}

func (b *BlankNode) Value() string {
	return b.ID
}

func (b *BlankNode) String() string {
	return fmt.Sprintf("_:%s", b.ID)
}

func (b *BlankNode) Equals(other Term) bool {
	if ob, ok := other.(*BlankNode); ok {
		return b.ID == ob.ID
	}
	return false
}

// Literal represents an RDF literal
type Literal struct {
	Lexical  string
	Language string     // for language-tagged strings
	Datatype *NamedNode // for typed literals, nil means xsd:string or rdf:langString
}

func NewLiteral(value string) *Literal {
	return &Literal{Lexical: value}
}

func NewLiteralWithLanguage(value, language string) *Literal {
	return &Literal{Lexical: value, Language: language}
}

func NewLiteralWithDatatype(value string, datatype *NamedNode) *Literal {
	return &Literal{Lexical: value, Datatype: datatype}
}

func (l *Literal) Type() TermType {
	return TermTypeLiteral
}

func (l *Literal) Value() string {
	return l.Lexical
}

// DatatypeIRI returns the datatype IRI, applying the RDF 1.1 defaults for
// simple and language-tagged literals.
func (l *Literal) DatatypeIRI() string {
	if l.Datatype != nil && l.Datatype.IRI != "" {
		return l.Datatype.IRI
	}
	if l.Language != "" {
		return RDFLangString.IRI
	}
	return XSDString.IRI
}

func (l *Literal) String() string {
	result := `"` + escapeLexical(l.Lexical) + `"`
	if l.Language != "" {
		result += "@" + l.Language
	} else if l.Datatype != nil && l.Datatype.IRI != XSDString.IRI {
		result += "^^" + l.Datatype.String()
	}
	return result
}

func (l *Literal) Equals(other Term) bool {
	ol, ok := other.(*Literal)
	if !ok {
		return false
	}
	if l.Lexical != ol.Lexical {
		return false
	}
	if !strings.EqualFold(l.Language, ol.Language) {
		return false
	}
	return l.DatatypeIRI() == ol.DatatypeIRI()
}

func escapeLexical(s string) string {
	if !strings.ContainsAny(s, "\"\\\n\r\t") {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Variable represents a SPARQL variable appearing in term position
type Variable struct {
	Name string
}

func NewVariable(name string) *Variable {
	return &Variable{Name: name}
}

func (v *Variable) Type() TermType {
	return TermTypeVariable
}

func (v *Variable) Value() string {
	return v.Name
}

func (v *Variable) String() string {
	return "?" + v.Name
}

func (v *Variable) Equals(other Term) bool {
	if ov, ok := other.(*Variable); ok {
		return v.Name == ov.Name
	}
	return false
}

// Binding maps variable names (without the leading '?') to terms.
// A Binding is never mutated once handed to an evaluator.
type Binding map[string]Term

// NewBinding creates a binding from alternating name/term pairs
func NewBinding(pairs ...any) Binding {
	b := make(Binding, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		name, _ := pairs[i].(string)
		term, _ := pairs[i+1].(Term)
		b[strings.TrimPrefix(name, "?")] = term
	}
	return b
}

// Get returns the term bound to name, if any
func (b Binding) Get(name string) (Term, bool) {
	t, ok := b[name]
	if !ok || t == nil {
		return nil, false
	}
	return t, true
}

// Names returns the bound variable names in sorted order
func (b Binding) Names() []string {
	names := make([]string, 0, len(b))
	for k := range b {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (b Binding) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, name := range b.Names() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("?" + name + " -> ")
		if t := b[name]; t != nil {
			sb.WriteString(t.String())
		} else {
			sb.WriteString("UNDEF")
		}
	}
	sb.WriteString("}")
	return sb.String()
}

// Helper functions for common datatypes
var (
	XSDString   = NewNamedNode(XSD + "string")
	XSDInteger  = NewNamedNode(XSD + "integer")
	XSDDecimal  = NewNamedNode(XSD + "decimal")
	XSDFloat    = NewNamedNode(XSD + "float")
	XSDDouble   = NewNamedNode(XSD + "double")
	XSDBoolean  = NewNamedNode(XSD + "boolean")
	XSDDateTime = NewNamedNode(XSD + "dateTime")
	XSDDate     = NewNamedNode(XSD + "date")
	XSDTime     = NewNamedNode(XSD + "time")
	XSDDuration = NewNamedNode(XSD + "duration")

	RDFLangString = NewNamedNode(RDF + "langString")
)

const (
	XSD = "http://www.w3.org/2001/XMLSchema#"
	RDF = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
)

func NewIntegerLiteral(value int64) *Literal {
	return NewLiteralWithDatatype(fmt.Sprintf("%d", value), XSDInteger)
}

func NewDecimalLiteral(lexical string) *Literal {
	return NewLiteralWithDatatype(lexical, XSDDecimal)
}

func NewDoubleLiteral(lexical string) *Literal {
	return NewLiteralWithDatatype(lexical, XSDDouble)
}

func NewBooleanLiteral(value bool) *Literal {
	return NewLiteralWithDatatype(fmt.Sprintf("%t", value), XSDBoolean)
}
