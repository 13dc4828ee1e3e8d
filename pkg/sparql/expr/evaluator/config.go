package evaluator

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/aleksaelezovic/sparqlexpr/pkg/rdf"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/algebra"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/expression"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/overload"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/types"
)

// ExistenceHook answers EXISTS and NOT EXISTS for one binding. The hook
// sees the whole node, including its Not flag.
type ExistenceHook func(ctx context.Context, expr *algebra.ExistenceExpression, binding rdf.Binding) (bool, error)

// AggregateHook returns the value of an aggregate computed by the caller
type AggregateHook func(ctx context.Context, expr *algebra.AggregateExpression) (rdf.Term, error)

// Config holds the optional collaborators of an evaluator. The zero value
// is usable.
type Config struct {
	// Now is the value of NOW(). Defaults to the creation time of the evaluator.
	Now time.Time
	// BaseIRI resolves relative IRIs passed to IRI()
	BaseIRI string
	// DefaultTimeZone is assumed for temporal values without a timezone.
	// Defaults to the location of Now.
	DefaultTimeZone *time.Location

	// Discoverer resolves the supertype of datatypes the lattice does not know
	Discoverer types.Discoverer
	// TypeCache shares discovered supertypes between evaluators
	TypeCache types.Cache
	// Lattice overrides Discoverer and TypeCache with a ready lattice
	Lattice *types.Lattice

	Exists    ExistenceHook
	Aggregate AggregateHook

	// BlankNodeID names the blank node created by BNODE(). label is nil
	// for the argument-less form.
	BlankNodeID func(label *string) string

	// Extensions resolves function IRIs for the sync evaluator
	Extensions func(iri string) expression.SyncExtensionFunc
	// AsyncExtensions resolves function IRIs for the async evaluator
	AsyncExtensions func(iri string) expression.AsyncExtensionFunc

	Logger logrus.FieldLogger

	// Registerer receives the overload cache counters
	Registerer prometheus.Registerer
	// OverloadCache is shared between evaluators when set
	OverloadCache *overload.Cache
	// CacheSize bounds the overload cache created when OverloadCache is nil.
	// Zero means overload.DefaultCacheSize, a negative size disables caching.
	CacheSize int
}

func defaultBlankNodeID(label *string) string {
	if label != nil {
		return *label
	}
	return "b" + uuid.NewString()
}

// withDefaults returns a copy of c with every unset collaborator filled in
func (c *Config) withDefaults() (*Config, error) {
	var cfg Config
	if c != nil {
		cfg = *c
	}
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if cfg.DefaultTimeZone == nil {
		cfg.DefaultTimeZone = cfg.Now.Location()
	}
	if cfg.Logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		cfg.Logger = logger
	}
	if cfg.Lattice == nil {
		if cfg.Discoverer == nil && cfg.TypeCache == nil {
			cfg.Lattice = types.Default()
		} else {
			cfg.Lattice = types.NewLattice(
				types.WithDiscoverer(cfg.Discoverer),
				types.WithCache(cfg.TypeCache),
				types.WithLogger(cfg.Logger),
			)
		}
	}
	if cfg.BlankNodeID == nil {
		cfg.BlankNodeID = defaultBlankNodeID
	}
	if cfg.OverloadCache == nil && cfg.CacheSize >= 0 {
		cache, err := overload.NewCache(cfg.CacheSize, cfg.Registerer)
		if err != nil {
			return nil, err
		}
		cfg.OverloadCache = cache
	}
	return &cfg, nil
}

// env builds the read-only environment handed to function implementations
func (c *Config) env() *overload.Env {
	return &overload.Env{
		Now:              c.Now,
		BaseIRI:          c.BaseIRI,
		ImplicitTimeZone: c.DefaultTimeZone,
		Lattice:          c.Lattice,
		OverloadCache:    c.OverloadCache,
		Logger:           c.Logger,
	}
}
