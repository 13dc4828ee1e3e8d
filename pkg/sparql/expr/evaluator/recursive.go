package evaluator

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/aleksaelezovic/sparqlexpr/pkg/rdf"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/exprerr"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/expression"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/overload"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/terms"
)

// argumentStrategy evaluates the arguments of a regular function call.
// It is the only place where the sync and async evaluators differ.
type argumentStrategy interface {
	evaluateArgs(ctx context.Context, r *recursiveEvaluator, args []expression.Expression, binding rdf.Binding) ([]terms.Term, error)
}

// sequential evaluates arguments left to right on the calling goroutine
type sequential struct{}

func (sequential) evaluateArgs(ctx context.Context, r *recursiveEvaluator, args []expression.Expression, binding rdf.Binding) ([]terms.Term, error) {
	res := make([]terms.Term, len(args))
	for i, arg := range args {
		v, err := r.evaluate(ctx, arg, binding)
		if err != nil {
			return nil, err
		}
		res[i] = v
	}
	return res, nil
}

// concurrent evaluates sibling arguments in parallel and joins them. The
// first error observed by the join is returned.
type concurrent struct{}

func (concurrent) evaluateArgs(ctx context.Context, r *recursiveEvaluator, args []expression.Expression, binding rdf.Binding) ([]terms.Term, error) {
	switch len(args) {
	case 0:
		return nil, nil
	case 1:
		v, err := r.evaluate(ctx, args[0], binding)
		if err != nil {
			return nil, err
		}
		return []terms.Term{v}, nil
	}

	res := make([]terms.Term, len(args))
	g, gctx := errgroup.WithContext(ctx)
	for i, arg := range args {
		i, arg := i, arg
		g.Go(func() error {
			v, err := r.evaluate(gctx, arg, binding)
			if err != nil {
				return err
			}
			res[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// recursiveEvaluator walks an expression tree against one binding. It
// holds no per-evaluation state and is safe for concurrent use.
type recursiveEvaluator struct {
	env      *overload.Env
	cfg      *Config
	strategy argumentStrategy
}

func newRecursiveEvaluator(cfg *Config, strategy argumentStrategy) *recursiveEvaluator {
	return &recursiveEvaluator{env: cfg.env(), cfg: cfg, strategy: strategy}
}

func (r *recursiveEvaluator) evaluate(ctx context.Context, expr expression.Expression, binding rdf.Binding) (terms.Term, error) {
	switch e := expr.(type) {
	case *expression.Term:
		return e.Value, nil
	case *expression.Variable:
		return r.evaluateVariable(e, binding)
	case *expression.Operator:
		args, err := r.strategy.evaluateArgs(ctx, r, e.Args, binding)
		if err != nil {
			return nil, err
		}
		return e.Apply(r.env, args)
	case *expression.Named:
		args, err := r.strategy.evaluateArgs(ctx, r, e.Args, binding)
		if err != nil {
			return nil, err
		}
		return e.Apply(r.env, args)
	case *expression.SpecialOperator:
		return e.Apply(&evalContext{ctx: ctx, r: r, binding: binding}, e.Args)
	case *expression.SyncExtension:
		return r.evaluateExtension(ctx, e.Name, e.Args, binding, func(args []rdf.Term) (rdf.Term, error) {
			return e.Apply(args)
		})
	case *expression.AsyncExtension:
		return r.evaluateExtension(ctx, e.Name, e.Args, binding, func(args []rdf.Term) (rdf.Term, error) {
			return e.Apply(ctx, args)
		})
	case *expression.Existence:
		return r.evaluateExistence(ctx, e, binding)
	case *expression.Aggregate:
		return r.evaluateAggregate(ctx, e)
	default:
		return nil, &exprerr.UnimplementedError{Feature: fmt.Sprintf("expression type %T", expr)}
	}
}

func (r *recursiveEvaluator) evaluateVariable(e *expression.Variable, binding rdf.Binding) (terms.Term, error) {
	value, ok := binding.Get(e.Name)
	if !ok {
		return nil, &exprerr.UnboundVariableError{Name: e.Name, Binding: binding}
	}
	return terms.TransformRDFTermUnsafe(value, r.env.Lattice), nil
}

func (r *recursiveEvaluator) evaluateExtension(ctx context.Context, name string, exprs []expression.Expression, binding rdf.Binding, apply func([]rdf.Term) (rdf.Term, error)) (terms.Term, error) {
	args, err := r.strategy.evaluateArgs(ctx, r, exprs, binding)
	if err != nil {
		return nil, err
	}
	rdfArgs := make([]rdf.Term, len(args))
	for i, arg := range args {
		rdfArgs[i] = arg.ToRDF()
	}
	res, err := apply(rdfArgs)
	if err != nil {
		r.env.Logger.WithFields(logrus.Fields{
			"function": name,
			"error":    err,
		}).Debug("Extension function failed")
		return nil, &exprerr.ExtensionFunctionError{Name: name, Err: err}
	}
	if res == nil {
		return nil, &exprerr.ExtensionFunctionError{Name: name, Err: fmt.Errorf("no result")}
	}
	return terms.TransformRDFTermUnsafe(res, r.env.Lattice), nil
}

func (r *recursiveEvaluator) evaluateExistence(ctx context.Context, e *expression.Existence, binding rdf.Binding) (terms.Term, error) {
	if r.cfg.Exists == nil {
		return nil, &exprerr.NoExistenceHookError{}
	}
	ok, err := r.cfg.Exists(ctx, e.Expression, binding)
	if err != nil {
		return nil, err
	}
	return terms.Bool(ok), nil
}

func (r *recursiveEvaluator) evaluateAggregate(ctx context.Context, e *expression.Aggregate) (terms.Term, error) {
	if r.cfg.Aggregate == nil {
		return nil, &exprerr.NoAggregatorError{}
	}
	res, err := r.cfg.Aggregate(ctx, e.Expression)
	if err != nil {
		return nil, err
	}
	// a poisoned or empty group leaves the aggregate unbound
	if res == nil {
		return nil, exprerr.NewExpressionError("aggregate %s has no value", e.Expression.Aggregator)
	}
	return terms.TransformRDFTermUnsafe(res, r.env.Lattice), nil
}

// evalContext exposes the evaluator to special forms. Special forms
// evaluate their children one at a time in both modes.
type evalContext struct {
	ctx     context.Context
	r       *recursiveEvaluator
	binding rdf.Binding
}

func (c *evalContext) Context() context.Context { return c.ctx }

func (c *evalContext) Evaluate(expr expression.Expression) (terms.Term, error) {
	return c.r.evaluate(c.ctx, expr, c.binding)
}

func (c *evalContext) Binding() rdf.Binding { return c.binding }

func (c *evalContext) Env() *overload.Env { return c.r.env }

func (c *evalContext) BlankNode(label *string) terms.Term {
	return terms.NewBlankNode(c.r.cfg.BlankNodeID(label))
}
