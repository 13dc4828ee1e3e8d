// Package algebra holds the parsed SPARQL expression tree handed to the
// expression evaluator. It is produced by a SPARQL parser and never mutated.
package algebra

import (
	"github.com/aleksaelezovic/sparqlexpr/pkg/rdf"
)

// ExpressionType discriminates the expression variants
type ExpressionType string

const (
	ExpressionTypeTerm      ExpressionType = "term"
	ExpressionTypeVariable  ExpressionType = "variable"
	ExpressionTypeOperator  ExpressionType = "operator"
	ExpressionTypeNamed     ExpressionType = "named"
	ExpressionTypeAggregate ExpressionType = "aggregate"
	ExpressionTypeExistence ExpressionType = "existence"
	ExpressionTypeWildcard  ExpressionType = "wildcard"
)

// Expression represents a SPARQL expression
type Expression interface {
	ExpressionType() ExpressionType
}

// TermExpression represents a constant RDF term
type TermExpression struct {
	Term rdf.Term
}

func (e *TermExpression) ExpressionType() ExpressionType { return ExpressionTypeTerm }

// VariableExpression represents a variable reference
type VariableExpression struct {
	Name string
}

func (e *VariableExpression) ExpressionType() ExpressionType { return ExpressionTypeVariable }

// OperatorExpression represents a built-in operator or function call, such
// as "+", "&&", "regex" or "bound". Operator names are lower case.
type OperatorExpression struct {
	Operator string
	Args     []Expression
}

func (e *OperatorExpression) ExpressionType() ExpressionType { return ExpressionTypeOperator }

// NamedExpression represents a call of a function identified by an IRI:
// either an XSD constructor cast or an extension function.
type NamedExpression struct {
	Name *rdf.NamedNode
	Args []Expression
}

func (e *NamedExpression) ExpressionType() ExpressionType { return ExpressionTypeNamed }

// AggregateExpression represents COUNT, SUM, MIN, MAX, AVG, GROUP_CONCAT or SAMPLE
type AggregateExpression struct {
	Aggregator string
	Distinct   bool
	Separator  string // GROUP_CONCAT only, "" means the default " "
	Expression Expression
}

func (e *AggregateExpression) ExpressionType() ExpressionType { return ExpressionTypeAggregate }

// ExistenceExpression represents EXISTS / NOT EXISTS. Input is the graph
// pattern, opaque to the expression evaluator and handed to the caller's hook.
type ExistenceExpression struct {
	Not   bool
	Input any
}

func (e *ExistenceExpression) ExpressionType() ExpressionType { return ExpressionTypeExistence }

// WildcardExpression is the '*' in COUNT(*)
type WildcardExpression struct{}

func (e *WildcardExpression) ExpressionType() ExpressionType { return ExpressionTypeWildcard }

// Term wraps a constant term
func Term(t rdf.Term) *TermExpression {
	return &TermExpression{Term: t}
}

// Variable references ?name
func Variable(name string) *VariableExpression {
	return &VariableExpression{Name: name}
}

// Operator builds an operator call
func Operator(op string, args ...Expression) *OperatorExpression {
	return &OperatorExpression{Operator: op, Args: args}
}

// Named builds a call of the function named by iri
func Named(iri string, args ...Expression) *NamedExpression {
	return &NamedExpression{Name: rdf.NewNamedNode(iri), Args: args}
}
