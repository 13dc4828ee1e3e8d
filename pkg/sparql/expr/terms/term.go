// Package terms is the runtime value model of the expression evaluator:
// RDF terms whose literals carry a parsed, typed value next to their
// datatype and lexical form.
package terms

import (
	"fmt"
	"strings"

	"github.com/aleksaelezovic/sparqlexpr/pkg/rdf"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/exprerr"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/types"
)

// Term is an evaluated RDF term
type Term interface {
	fmt.Stringer
	// TermType is one of types.KindNamedNode, types.KindBlankNode or types.KindLiteral
	TermType() string
	// Str is the SPARQL STR() value: the IRI, label or lexical form
	Str() string
	// EBV computes the effective boolean value
	EBV() (bool, error)
	// ToRDF converts back to the external term model
	ToRDF() rdf.Term
}

// Literal is a literal term of any datatype
type Literal interface {
	Term
	// Datatype is the IRI reported by DATATYPE()
	Datatype() string
	// DispatchType is the type used for overload resolution. It equals
	// Datatype except for non-lexical literals.
	DispatchType() string
	// Language is the language tag, empty for non-langString literals
	Language() string
}

// NamedNode is an IRI
type NamedNode struct {
	IRI string
}

func NewNamedNode(iri string) *NamedNode {
	return &NamedNode{IRI: iri}
}

func (n *NamedNode) TermType() string { return types.KindNamedNode }

func (n *NamedNode) Str() string { return n.IRI }

func (n *NamedNode) EBV() (bool, error) {
	return false, &exprerr.EBVCoercionError{Arg: n}
}

func (n *NamedNode) ToRDF() rdf.Term { return rdf.NewNamedNode(n.IRI) }

func (n *NamedNode) String() string { return "<" + n.IRI + ">" }

// BlankNode is a blank node
type BlankNode struct {
	ID string
}

func NewBlankNode(id string) *BlankNode {
	return &BlankNode{ID: id}
}

func (b *BlankNode) TermType() string { return types.KindBlankNode }

func (b *BlankNode) Str() string { return b.ID }

func (b *BlankNode) EBV() (bool, error) {
	return false, &exprerr.EBVCoercionError{Arg: b}
}

func (b *BlankNode) ToRDF() rdf.Term { return rdf.NewBlankNode(b.ID) }

func (b *BlankNode) String() string { return "_:" + b.ID }

// literalBase holds what every literal carries: its datatype and, when the
// literal came from outside, its original lexical form.
type literalBase struct {
	datatype string
	lexical  string
	hasLex   bool
}

func (l *literalBase) TermType() string { return types.KindLiteral }

func (l *literalBase) Datatype() string { return l.datatype }

func (l *literalBase) DispatchType() string { return l.datatype }

func (l *literalBase) Language() string { return "" }

// strOr returns the preserved lexical form, or canonical when there is none
func (l *literalBase) strOr(canonical func() string) string {
	if l.hasLex {
		return l.lexical
	}
	return canonical()
}

func base(datatype, lexical string) literalBase {
	return literalBase{datatype: datatype, lexical: lexical, hasLex: true}
}

func computed(datatype string) literalBase {
	return literalBase{datatype: datatype}
}

func typedRDF(lexical, datatype string) rdf.Term {
	return rdf.NewLiteralWithDatatype(lexical, rdf.NewNamedNode(datatype))
}

func typedString(lexical, datatype string) string {
	return typedRDF(lexical, datatype).String()
}

// StringLiteral is a simple literal or a literal of an xsd:string subtype
type StringLiteral struct {
	literalBase
	Value string
}

// NewString creates an xsd:string literal
func NewString(value string) *StringLiteral {
	return &StringLiteral{literalBase: base(types.XSDString, value), Value: value}
}

// NewTypedString creates a literal of an xsd:string subtype
func NewTypedString(value, datatype string) *StringLiteral {
	return &StringLiteral{literalBase: base(datatype, value), Value: value}
}

func (s *StringLiteral) Str() string { return s.Value }

func (s *StringLiteral) EBV() (bool, error) { return s.Value != "", nil }

func (s *StringLiteral) ToRDF() rdf.Term {
	if s.datatype == types.XSDString {
		return rdf.NewLiteral(s.Value)
	}
	return typedRDF(s.Value, s.datatype)
}

func (s *StringLiteral) String() string { return s.ToRDF().String() }

// LangStringLiteral is a language-tagged string
type LangStringLiteral struct {
	literalBase
	Value string
	Lang  string
}

// NewLangString creates an rdf:langString literal. Tags are lower-cased.
func NewLangString(value, lang string) *LangStringLiteral {
	return &LangStringLiteral{
		literalBase: base(types.RDFLangString, value),
		Value:       value,
		Lang:        strings.ToLower(lang),
	}
}

func (s *LangStringLiteral) Language() string { return s.Lang }

func (s *LangStringLiteral) Str() string { return s.Value }

func (s *LangStringLiteral) EBV() (bool, error) { return s.Value != "", nil }

func (s *LangStringLiteral) ToRDF() rdf.Term { return rdf.NewLiteralWithLanguage(s.Value, s.Lang) }

func (s *LangStringLiteral) String() string { return s.ToRDF().String() }

// BooleanLiteral is an xsd:boolean
type BooleanLiteral struct {
	literalBase
	Value bool
}

// NewBoolean creates a computed boolean literal
func NewBoolean(v bool) *BooleanLiteral {
	return &BooleanLiteral{literalBase: computed(types.XSDBoolean), Value: v}
}

// True and False are shared immutable results
var (
	True  = NewBoolean(true)
	False = NewBoolean(false)
)

// Bool returns the shared literal for v
func Bool(v bool) *BooleanLiteral {
	if v {
		return True
	}
	return False
}

func (b *BooleanLiteral) Str() string {
	return b.strOr(func() string {
		if b.Value {
			return "true"
		}
		return "false"
	})
}

func (b *BooleanLiteral) EBV() (bool, error) { return b.Value, nil }

func (b *BooleanLiteral) ToRDF() rdf.Term { return typedRDF(b.Str(), b.datatype) }

func (b *BooleanLiteral) String() string { return b.ToRDF().String() }

// NonLexicalLiteral is a literal whose lexical form is invalid for its
// (recognised) datatype. It is a valid term without a typed value: any
// operation needing the value fails with an InvalidLexicalFormError.
type NonLexicalLiteral struct {
	literalBase
	Lang string
	// origin is the dispatch type the literal would have had
	origin string
}

// NewNonLexical creates a non-lexical literal. origin is the category the
// datatype resolved to, e.g. xsd:integer for an invalid xsd:int.
func NewNonLexical(lexical, datatype, origin, lang string) *NonLexicalLiteral {
	return &NonLexicalLiteral{literalBase: base(datatype, lexical), Lang: lang, origin: origin}
}

func (n *NonLexicalLiteral) DispatchType() string { return types.SPARQLNonLexical }

// Origin is the datatype category the lexical form failed to parse as
func (n *NonLexicalLiteral) Origin() string { return n.origin }

func (n *NonLexicalLiteral) Language() string { return n.Lang }

func (n *NonLexicalLiteral) Str() string { return n.lexical }

// EBV of an invalid numeric or boolean literal is false; any other invalid
// literal has no EBV.
func (n *NonLexicalLiteral) EBV() (bool, error) {
	lattice := types.Default()
	if lattice.IsSubTypeOf(n.origin, types.SPARQLNumeric) || lattice.IsSubTypeOf(n.origin, types.XSDBoolean) {
		return false, nil
	}
	return false, &exprerr.EBVCoercionError{Arg: n}
}

func (n *NonLexicalLiteral) ToRDF() rdf.Term { return typedRDF(n.lexical, n.datatype) }

func (n *NonLexicalLiteral) String() string { return n.ToRDF().String() }

// OtherLiteral is a literal of a datatype with no value semantics
type OtherLiteral struct {
	literalBase
	dispatch string
}

// NewOther creates a literal that is only comparable by term identity
func NewOther(lexical, datatype string) *OtherLiteral {
	return &OtherLiteral{literalBase: base(datatype, lexical), dispatch: datatype}
}

// NewOpaque creates a literal of a datatype the lattice knows nothing
// about. It dispatches as SPARQL_OTHER.
func NewOpaque(lexical, datatype string) *OtherLiteral {
	return &OtherLiteral{literalBase: base(datatype, lexical), dispatch: types.SPARQLOther}
}

func (o *OtherLiteral) DispatchType() string { return o.dispatch }

func (o *OtherLiteral) Str() string { return o.lexical }

func (o *OtherLiteral) EBV() (bool, error) {
	return false, &exprerr.EBVCoercionError{Arg: o}
}

func (o *OtherLiteral) ToRDF() rdf.Term { return typedRDF(o.lexical, o.datatype) }

func (o *OtherLiteral) String() string { return o.ToRDF().String() }

func ebvError(t Term) error {
	return &exprerr.EBVCoercionError{Arg: t}
}

// Stringers adapts terms for error messages
func Stringers(args []Term) []fmt.Stringer {
	out := make([]fmt.Stringer, len(args))
	for i, a := range args {
		out[i] = a
	}
	return out
}

// SameTerm reports RDF term identity (sameTerm)
func SameTerm(a, b Term) bool {
	if a.TermType() != b.TermType() {
		return false
	}
	return a.ToRDF().Equals(b.ToRDF())
}
