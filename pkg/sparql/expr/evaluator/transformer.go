package evaluator

import (
	"fmt"
	"strings"

	"github.com/aleksaelezovic/sparqlexpr/pkg/rdf"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/algebra"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/exprerr"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/expression"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/functions"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/terms"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/types"
)

// transformer turns a parsed algebra expression into an evaluable
// expression tree, resolving every operator and function once
type transformer struct {
	lattice *types.Lattice
	async   bool
	sync    func(iri string) expression.SyncExtensionFunc
	asyncFn func(iri string) expression.AsyncExtensionFunc
}

func newTransformer(cfg *Config, async bool) *transformer {
	return &transformer{
		lattice: cfg.Lattice,
		async:   async,
		sync:    cfg.Extensions,
		asyncFn: cfg.AsyncExtensions,
	}
}

func (t *transformer) transform(expr algebra.Expression) (expression.Expression, error) {
	if expr == nil {
		return nil, fmt.Errorf("cannot transform nil expression")
	}

	switch e := expr.(type) {
	case *algebra.TermExpression:
		return t.transformTerm(e)
	case *algebra.VariableExpression:
		return &expression.Variable{Name: strings.TrimPrefix(e.Name, "?")}, nil
	case *algebra.OperatorExpression:
		return t.transformOperator(e)
	case *algebra.NamedExpression:
		return t.transformNamed(e)
	case *algebra.AggregateExpression:
		return &expression.Aggregate{Name: strings.ToLower(e.Aggregator), Expression: e}, nil
	case *algebra.ExistenceExpression:
		return &expression.Existence{Expression: e}, nil
	case *algebra.WildcardExpression:
		return nil, &exprerr.UnimplementedError{Feature: "wildcard outside of an aggregate"}
	default:
		return nil, &exprerr.UnimplementedError{Feature: fmt.Sprintf("expression type %s", expr.ExpressionType())}
	}
}

func (t *transformer) transformTerm(e *algebra.TermExpression) (expression.Expression, error) {
	if e.Term == nil {
		return nil, fmt.Errorf("term expression has nil term")
	}
	if v, ok := e.Term.(*rdf.Variable); ok {
		return &expression.Variable{Name: v.Name}, nil
	}
	return &expression.Term{Value: terms.TransformRDFTermUnsafe(e.Term, t.lattice)}, nil
}

func (t *transformer) transformArgs(args []algebra.Expression) ([]expression.Expression, error) {
	res := make([]expression.Expression, len(args))
	for i, arg := range args {
		v, err := t.transform(arg)
		if err != nil {
			return nil, err
		}
		res[i] = v
	}
	return res, nil
}

func (t *transformer) transformOperator(e *algebra.OperatorExpression) (expression.Expression, error) {
	name := strings.ToLower(e.Operator)

	if special, ok := functions.SpecialForm(name); ok {
		if err := special.CheckArity(len(e.Args)); err != nil {
			return nil, err
		}
		args, err := t.transformArgs(e.Args)
		if err != nil {
			return nil, err
		}
		return &expression.SpecialOperator{Name: name, Args: args, Apply: special.Apply}, nil
	}

	regular, ok := functions.Regular(name)
	if !ok {
		return nil, &exprerr.UnknownOperatorError{Name: e.Operator}
	}
	if err := regular.CheckArity(len(e.Args)); err != nil {
		return nil, err
	}
	args, err := t.transformArgs(e.Args)
	if err != nil {
		return nil, err
	}
	return &expression.Operator{Name: name, Args: args, Apply: regular.Apply}, nil
}

func (t *transformer) transformNamed(e *algebra.NamedExpression) (expression.Expression, error) {
	if e.Name == nil {
		return nil, fmt.Errorf("named expression has nil name")
	}
	iri := e.Name.IRI
	args, err := t.transformArgs(e.Args)
	if err != nil {
		return nil, err
	}

	if named, ok := functions.Named(iri); ok {
		if err := named.CheckArity(len(e.Args)); err != nil {
			return nil, err
		}
		return &expression.Named{Name: iri, Args: args, Apply: named.Apply}, nil
	}

	if t.async {
		if t.asyncFn != nil {
			if fn := t.asyncFn(iri); fn != nil {
				return &expression.AsyncExtension{Name: iri, Args: args, Apply: fn}, nil
			}
		}
	} else if t.sync != nil {
		if fn := t.sync(iri); fn != nil {
			return &expression.SyncExtension{Name: iri, Args: args, Apply: fn}, nil
		}
	}
	return nil, &exprerr.UnknownOperatorError{Name: iri}
}
