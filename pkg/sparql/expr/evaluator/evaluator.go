// Package evaluator evaluates parsed SPARQL expressions against bindings.
// SyncEvaluator and AsyncEvaluator share one recursive evaluator and
// produce identical results and errors; the async one evaluates the
// arguments of regular functions concurrently.
package evaluator

import (
	"context"

	"github.com/aleksaelezovic/sparqlexpr/pkg/rdf"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/algebra"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/expression"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/overload"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/terms"
)

// SyncEvaluator evaluates one expression on the calling goroutine
type SyncEvaluator struct {
	expr      expression.Expression
	evaluator *recursiveEvaluator
}

// NewSyncEvaluator resolves every operator of expr. cfg may be nil.
func NewSyncEvaluator(expr algebra.Expression, cfg *Config) (*SyncEvaluator, error) {
	c, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	transformed, err := newTransformer(c, false).transform(expr)
	if err != nil {
		return nil, err
	}
	return &SyncEvaluator{expr: transformed, evaluator: newRecursiveEvaluator(c, sequential{})}, nil
}

// Evaluate returns the value of the expression for binding
func (e *SyncEvaluator) Evaluate(binding rdf.Binding) (rdf.Term, error) {
	t, err := e.EvaluateAsInternal(binding)
	if err != nil {
		return nil, err
	}
	return t.ToRDF(), nil
}

// EvaluateAsEBV returns the effective boolean value, as FILTER needs it
func (e *SyncEvaluator) EvaluateAsEBV(binding rdf.Binding) (bool, error) {
	t, err := e.EvaluateAsInternal(binding)
	if err != nil {
		return false, err
	}
	return t.EBV()
}

// EvaluateAsInternal returns the typed internal term
func (e *SyncEvaluator) EvaluateAsInternal(binding rdf.Binding) (terms.Term, error) {
	return e.evaluator.evaluate(context.Background(), e.expr, binding)
}

// Env returns the environment function implementations run in
func (e *SyncEvaluator) Env() *overload.Env {
	return e.evaluator.env
}

// AsyncEvaluator evaluates one expression, running sibling arguments of
// regular functions concurrently
type AsyncEvaluator struct {
	expr      expression.Expression
	evaluator *recursiveEvaluator
}

// NewAsyncEvaluator resolves every operator of expr. cfg may be nil.
func NewAsyncEvaluator(expr algebra.Expression, cfg *Config) (*AsyncEvaluator, error) {
	c, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	transformed, err := newTransformer(c, true).transform(expr)
	if err != nil {
		return nil, err
	}
	return &AsyncEvaluator{expr: transformed, evaluator: newRecursiveEvaluator(c, concurrent{})}, nil
}

// Evaluate returns the value of the expression for binding
func (e *AsyncEvaluator) Evaluate(ctx context.Context, binding rdf.Binding) (rdf.Term, error) {
	t, err := e.EvaluateAsInternal(ctx, binding)
	if err != nil {
		return nil, err
	}
	return t.ToRDF(), nil
}

// EvaluateAsEBV returns the effective boolean value, as FILTER needs it
func (e *AsyncEvaluator) EvaluateAsEBV(ctx context.Context, binding rdf.Binding) (bool, error) {
	t, err := e.EvaluateAsInternal(ctx, binding)
	if err != nil {
		return false, err
	}
	return t.EBV()
}

// EvaluateAsInternal returns the typed internal term
func (e *AsyncEvaluator) EvaluateAsInternal(ctx context.Context, binding rdf.Binding) (terms.Term, error) {
	return e.evaluator.evaluate(ctx, e.expr, binding)
}

// Env returns the environment function implementations run in
func (e *AsyncEvaluator) Env() *overload.Env {
	return e.evaluator.env
}
