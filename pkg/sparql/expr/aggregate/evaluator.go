package aggregate

import (
	"context"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/aleksaelezovic/sparqlexpr/pkg/rdf"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/algebra"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/evaluator"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/exprerr"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/overload"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/terms"
)

// Config configures an aggregate evaluator. The embedded evaluator config
// is used for the aggregated expression.
type Config struct {
	evaluator.Config

	// ThrowErrors makes PutBinding return evaluation errors. By default an
	// error poisons the aggregate and its result becomes unbound.
	ThrowErrors bool
}

func newPoisonedCounter(reg prometheus.Registerer) (*prometheus.CounterVec, error) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sparqlexpr",
		Subsystem: "aggregate",
		Name:      "poisoned_total",
		Help:      "Aggregates whose result was discarded after an evaluation error.",
	}, []string{"aggregator"})
	if reg == nil {
		return counter, nil
	}
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return counter, nil
}

// group is the state shared by the sync and async evaluators
type group struct {
	name       string
	aggregator Aggregator
	env        *overload.Env
	logger     logrus.FieldLogger
	poisoned   *prometheus.CounterVec
	throw      bool

	wildcard bool
	distinct bool
	seen     map[rdf.TermKey]struct{}

	started bool
	failed  bool
}

func newGroup(expr *algebra.AggregateExpression, cfg *Config) (*group, error) {
	if expr == nil {
		return nil, exprerr.NewExpressionError("nil aggregate expression")
	}
	agg, err := New(expr.Aggregator, expr.Separator)
	if err != nil {
		return nil, err
	}
	_, wildcard := expr.Expression.(*algebra.WildcardExpression)
	if wildcard {
		if _, ok := agg.(*count); !ok {
			return nil, &exprerr.UnimplementedError{Feature: "wildcard in " + expr.Aggregator}
		}
	}
	poisoned, err := newPoisonedCounter(cfg.Registerer)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	g := &group{
		name:       expr.Aggregator,
		aggregator: agg,
		logger:     logger,
		poisoned:   poisoned,
		throw:      cfg.ThrowErrors,
		wildcard:   wildcard,
		distinct:   expr.Distinct,
	}
	if g.distinct {
		g.seen = make(map[rdf.TermKey]struct{})
	}
	return g, nil
}

// firstSeen reports whether key was not seen before and records it
func (g *group) firstSeen(key rdf.TermKey) bool {
	if _, ok := g.seen[key]; ok {
		return false
	}
	g.seen[key] = struct{}{}
	return true
}

func (g *group) putWildcard(binding rdf.Binding) {
	if g.distinct && !g.firstSeen(rdf.HashBinding(binding)) {
		return
	}
	g.accept(terms.True)
}

func (g *group) put(value terms.Term, err error) error {
	if g.failed {
		return nil
	}
	if err != nil {
		return g.fail(err)
	}
	if g.distinct && !g.firstSeen(rdf.HashTerm(value.ToRDF())) {
		return nil
	}
	if err := g.accept(value); err != nil {
		return g.fail(err)
	}
	return nil
}

func (g *group) accept(value terms.Term) error {
	if !g.started {
		g.started = true
		return g.aggregator.Init(g.env, value)
	}
	return g.aggregator.Put(g.env, value)
}

func (g *group) fail(err error) error {
	if g.throw {
		return err
	}
	g.failed = true
	g.poisoned.WithLabelValues(g.name).Inc()
	g.logger.WithFields(logrus.Fields{
		"aggregator": g.name,
		"error":      err,
	}).Debug("Aggregate poisoned")
	return nil
}

func (g *group) result() (terms.Term, error) {
	if g.failed {
		return nil, nil
	}
	if !g.started {
		return g.aggregator.EmptyValue(), nil
	}
	return g.aggregator.Result(g.env)
}

func toRDF(t terms.Term, err error) (rdf.Term, error) {
	if err != nil || t == nil {
		return nil, err
	}
	return t.ToRDF(), nil
}

// wildcardEnv is used by COUNT(*), which never evaluates an expression
func wildcardEnv(cfg *Config) *overload.Env {
	return (&overload.Env{Logger: cfg.Logger}).WithDefaults()
}

// SyncAggregateEvaluator computes one aggregate over the bindings of one group
type SyncAggregateEvaluator struct {
	group     *group
	evaluator *evaluator.SyncEvaluator
}

// NewSyncAggregateEvaluator prepares expr for accumulation. cfg may be nil.
func NewSyncAggregateEvaluator(expr *algebra.AggregateExpression, cfg *Config) (*SyncAggregateEvaluator, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	g, err := newGroup(expr, cfg)
	if err != nil {
		return nil, err
	}
	a := &SyncAggregateEvaluator{group: g}
	if g.wildcard {
		g.env = wildcardEnv(cfg)
		return a, nil
	}
	a.evaluator, err = evaluator.NewSyncEvaluator(expr.Expression, &cfg.Config)
	if err != nil {
		return nil, err
	}
	g.env = a.evaluator.Env()
	return a, nil
}

// PutBinding feeds the bindings of one row. It only returns an error when
// Config.ThrowErrors is set.
func (a *SyncAggregateEvaluator) PutBinding(binding rdf.Binding) error {
	if a.group.wildcard {
		a.group.putWildcard(binding)
		return nil
	}
	if a.group.failed {
		return nil
	}
	return a.group.put(a.evaluator.EvaluateAsInternal(binding))
}

// Result returns the aggregate; a nil term means unbound
func (a *SyncAggregateEvaluator) Result() (rdf.Term, error) {
	return toRDF(a.group.result())
}

// ResultInternal returns the aggregate as a typed term
func (a *SyncAggregateEvaluator) ResultInternal() (terms.Term, error) {
	return a.group.result()
}

// EmptyValue returns the result of a group without rows
func (a *SyncAggregateEvaluator) EmptyValue() rdf.Term {
	t, _ := toRDF(a.group.aggregator.EmptyValue(), nil)
	return t
}

// AsyncAggregateEvaluator is SyncAggregateEvaluator evaluating the
// aggregated expression with an AsyncEvaluator. Rows must still be fed
// one at a time.
type AsyncAggregateEvaluator struct {
	group     *group
	evaluator *evaluator.AsyncEvaluator
}

// NewAsyncAggregateEvaluator prepares expr for accumulation. cfg may be nil.
func NewAsyncAggregateEvaluator(expr *algebra.AggregateExpression, cfg *Config) (*AsyncAggregateEvaluator, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	g, err := newGroup(expr, cfg)
	if err != nil {
		return nil, err
	}
	a := &AsyncAggregateEvaluator{group: g}
	if g.wildcard {
		g.env = wildcardEnv(cfg)
		return a, nil
	}
	a.evaluator, err = evaluator.NewAsyncEvaluator(expr.Expression, &cfg.Config)
	if err != nil {
		return nil, err
	}
	g.env = a.evaluator.Env()
	return a, nil
}

// PutBinding feeds the bindings of one row
func (a *AsyncAggregateEvaluator) PutBinding(ctx context.Context, binding rdf.Binding) error {
	if a.group.wildcard {
		a.group.putWildcard(binding)
		return nil
	}
	if a.group.failed {
		return nil
	}
	return a.group.put(a.evaluator.EvaluateAsInternal(ctx, binding))
}

// Result returns the aggregate; a nil term means unbound
func (a *AsyncAggregateEvaluator) Result() (rdf.Term, error) {
	return toRDF(a.group.result())
}

// ResultInternal returns the aggregate as a typed term
func (a *AsyncAggregateEvaluator) ResultInternal() (terms.Term, error) {
	return a.group.result()
}

// EmptyValue returns the result of a group without rows
func (a *AsyncAggregateEvaluator) EmptyValue() rdf.Term {
	t, _ := toRDF(a.group.aggregator.EmptyValue(), nil)
	return t
}
