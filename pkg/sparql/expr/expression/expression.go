// Package expression defines the internal expression tree the evaluator
// walks. Nodes are built once from algebra and never mutated.
package expression

import (
	"context"

	"github.com/aleksaelezovic/sparqlexpr/pkg/rdf"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/algebra"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/overload"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/terms"
)

// Type tags an expression node
type Type int

const (
	TypeTerm Type = iota
	TypeVariable
	TypeOperator
	TypeSpecialOperator
	TypeNamed
	TypeSyncExtension
	TypeAsyncExtension
	TypeExistence
	TypeAggregate
)

func (t Type) String() string {
	switch t {
	case TypeTerm:
		return "term"
	case TypeVariable:
		return "variable"
	case TypeOperator:
		return "operator"
	case TypeSpecialOperator:
		return "specialOperator"
	case TypeNamed:
		return "named"
	case TypeSyncExtension:
		return "syncExtension"
	case TypeAsyncExtension:
		return "asyncExtension"
	case TypeExistence:
		return "existence"
	case TypeAggregate:
		return "aggregate"
	default:
		return "unknown"
	}
}

// Expression is a node of the tree
type Expression interface {
	Type() Type
}

// Apply runs a regular function on already evaluated arguments
type Apply func(env *overload.Env, args []terms.Term) (terms.Term, error)

// EvalContext is what special forms see of the evaluator. Evaluate runs
// one sub-expression on the current binding.
type EvalContext interface {
	Context() context.Context
	Evaluate(expr Expression) (terms.Term, error)
	Binding() rdf.Binding
	Env() *overload.Env
	// BlankNode creates a blank node for BNODE(), labelled when label is not nil
	BlankNode(label *string) terms.Term
}

// SpecialApply runs a special form on unevaluated arguments
type SpecialApply func(ctx EvalContext, args []Expression) (terms.Term, error)

// Term is a constant
type Term struct {
	Value terms.Term
}

func (e *Term) Type() Type { return TypeTerm }

// Variable is looked up in the binding
type Variable struct {
	Name string
}

func (e *Variable) Type() Type { return TypeVariable }

// Operator is a regular function or operator call
type Operator struct {
	Name  string
	Args  []Expression
	Apply Apply
}

func (e *Operator) Type() Type { return TypeOperator }

// SpecialOperator is a control-flow form that evaluates its own arguments
type SpecialOperator struct {
	Name  string
	Args  []Expression
	Apply SpecialApply
}

func (e *SpecialOperator) Type() Type { return TypeSpecialOperator }

// Named is a call of a built-in IRI-named function, e.g. an XSD cast
type Named struct {
	Name  string
	Args  []Expression
	Apply Apply
}

func (e *Named) Type() Type { return TypeNamed }

// SyncExtensionFunc is a user-supplied function for the sync evaluator
type SyncExtensionFunc func(args []rdf.Term) (rdf.Term, error)

// AsyncExtensionFunc is a user-supplied function for the async evaluator
type AsyncExtensionFunc func(ctx context.Context, args []rdf.Term) (rdf.Term, error)

// SyncExtension calls a SyncExtensionFunc
type SyncExtension struct {
	Name  string
	Args  []Expression
	Apply SyncExtensionFunc
}

func (e *SyncExtension) Type() Type { return TypeSyncExtension }

// AsyncExtension calls an AsyncExtensionFunc
type AsyncExtension struct {
	Name  string
	Args  []Expression
	Apply AsyncExtensionFunc
}

func (e *AsyncExtension) Type() Type { return TypeAsyncExtension }

// Existence is an EXISTS or NOT EXISTS delegated to a hook
type Existence struct {
	Expression *algebra.ExistenceExpression
}

func (e *Existence) Type() Type { return TypeExistence }

// Aggregate is an aggregate delegated to a hook
type Aggregate struct {
	Name       string
	Expression *algebra.AggregateExpression
}

func (e *Aggregate) Type() Type { return TypeAggregate }
