// Package overload resolves a function name plus the runtime types of its
// arguments to an implementation.
package overload

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/terms"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/types"
)

// Env is the read-only context every implementation receives
type Env struct {
	// Now is the value of NOW(), fixed for one evaluator
	Now time.Time
	// BaseIRI resolves relative IRIs in IRI()
	BaseIRI string
	// ImplicitTimeZone is assumed for dateTimes without a timezone
	ImplicitTimeZone *time.Location
	Lattice          *types.Lattice
	// OverloadCache memoises overload resolution; nil disables it
	OverloadCache *Cache
	Logger        logrus.FieldLogger
}

// NewEnv returns an Env with defaults filled in
func NewEnv() *Env {
	return (&Env{}).WithDefaults()
}

// WithDefaults returns a copy of env with unset fields defaulted
func (env *Env) WithDefaults() *Env {
	e := *env
	if e.Now.IsZero() {
		e.Now = time.Now()
	}
	if e.ImplicitTimeZone == nil {
		e.ImplicitTimeZone = e.Now.Location()
	}
	if e.Lattice == nil {
		e.Lattice = types.Default()
	}
	if e.Logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		e.Logger = logger
	}
	return &e
}

// Impl is one overload of a function
type Impl func(env *Env, args []terms.Term) (terms.Term, error)
