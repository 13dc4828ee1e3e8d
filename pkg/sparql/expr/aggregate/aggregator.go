// Package aggregate implements the SPARQL set functions: COUNT, SUM, MIN,
// MAX, AVG, GROUP_CONCAT and SAMPLE. An Aggregator holds the running state
// of one group; the aggregate evaluators feed it one binding at a time.
package aggregate

import (
	"strings"

	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/exprerr"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/functions"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/order"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/overload"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/terms"
)

// Aggregator accumulates the values of one group. Init is called with the
// first value, Put with every following one.
type Aggregator interface {
	// EmptyValue is the result of a group without values; nil means unbound
	EmptyValue() terms.Term
	Init(env *overload.Env, value terms.Term) error
	Put(env *overload.Env, value terms.Term) error
	Result(env *overload.Env) (terms.Term, error)
}

// DefaultSeparator joins GROUP_CONCAT values when no separator is given
const DefaultSeparator = " "

var constructors = map[string]func(separator string) Aggregator{
	"count":        func(string) Aggregator { return &count{} },
	"sum":          func(string) Aggregator { return &sum{} },
	"min":          func(string) Aggregator { return &extremum{name: "min", keep: func(c int) bool { return c < 0 }} },
	"max":          func(string) Aggregator { return &extremum{name: "max", keep: func(c int) bool { return c > 0 }} },
	"avg":          func(string) Aggregator { return &average{} },
	"sample":       func(string) Aggregator { return &sample{} },
	"group_concat": newGroupConcat,
}

// New creates the aggregator called name. separator only applies to
// GROUP_CONCAT, where "" selects DefaultSeparator.
func New(name, separator string) (Aggregator, error) {
	ctor, ok := constructors[strings.ToLower(name)]
	if !ok {
		return nil, &exprerr.UnknownOperatorError{Name: name}
	}
	return ctor(separator), nil
}

// Names lists the supported aggregators
func Names() []string {
	return []string{"avg", "count", "group_concat", "max", "min", "sample", "sum"}
}

type count struct {
	n int64
}

func (a *count) EmptyValue() terms.Term { return terms.NewInteger(0) }

func (a *count) Init(_ *overload.Env, _ terms.Term) error {
	a.n = 1
	return nil
}

func (a *count) Put(_ *overload.Env, _ terms.Term) error {
	a.n++
	return nil
}

func (a *count) Result(_ *overload.Env) (terms.Term, error) {
	return terms.NewInteger(a.n), nil
}

func numeric(operator string, t terms.Term) (terms.Numeric, error) {
	n, ok := t.(terms.Numeric)
	if !ok {
		if nl, ok := t.(*terms.NonLexicalLiteral); ok {
			return nil, &exprerr.InvalidLexicalFormError{Arg: nl}
		}
		return nil, &exprerr.InvalidArgumentTypesError{Operator: operator, Args: terms.Stringers([]terms.Term{t})}
	}
	return n, nil
}

// sum adds with the "+" operator so widening matches scalar arithmetic
type sum struct {
	total terms.Numeric
}

func (a *sum) EmptyValue() terms.Term { return nil }

func (a *sum) Init(_ *overload.Env, value terms.Term) error {
	n, err := numeric("sum", value)
	if err != nil {
		return err
	}
	a.total = n
	return nil
}

func (a *sum) Put(env *overload.Env, value terms.Term) error {
	n, err := numeric("sum", value)
	if err != nil {
		return err
	}
	res, err := functions.Add(env, a.total, n)
	if err != nil {
		return err
	}
	a.total = res.(terms.Numeric)
	return nil
}

func (a *sum) Result(_ *overload.Env) (terms.Term, error) {
	return a.total, nil
}

type average struct {
	sum
	n int64
}

func (a *average) Init(env *overload.Env, value terms.Term) error {
	if err := a.sum.Init(env, value); err != nil {
		return err
	}
	a.n = 1
	return nil
}

func (a *average) Put(env *overload.Env, value terms.Term) error {
	if err := a.sum.Put(env, value); err != nil {
		return err
	}
	a.n++
	return nil
}

func (a *average) Result(env *overload.Env) (terms.Term, error) {
	return functions.Divide(env, a.total, terms.NewInteger(a.n))
}

// extremum is MIN or MAX over the total order of terms
type extremum struct {
	name    string
	keep    func(c int) bool
	current terms.Term
}

func (a *extremum) EmptyValue() terms.Term { return nil }

func (a *extremum) Init(_ *overload.Env, value terms.Term) error {
	a.current = value
	return nil
}

func (a *extremum) Put(env *overload.Env, value terms.Term) error {
	if a.keep(order.Compare(value, a.current, env.ImplicitTimeZone)) {
		a.current = value
	}
	return nil
}

func (a *extremum) Result(_ *overload.Env) (terms.Term, error) {
	return a.current, nil
}

type sample struct {
	value terms.Term
}

func (a *sample) EmptyValue() terms.Term { return nil }

func (a *sample) Init(_ *overload.Env, value terms.Term) error {
	a.value = value
	return nil
}

func (a *sample) Put(_ *overload.Env, _ terms.Term) error { return nil }

func (a *sample) Result(_ *overload.Env) (terms.Term, error) {
	return a.value, nil
}

// groupConcat keeps the language tag only when every value carries the same one
type groupConcat struct {
	separator string
	sb        strings.Builder
	lang      string
}

func newGroupConcat(separator string) Aggregator {
	if separator == "" {
		separator = DefaultSeparator
	}
	return &groupConcat{separator: separator}
}

func (a *groupConcat) EmptyValue() terms.Term { return terms.NewString("") }

func language(t terms.Term) string {
	if lit, ok := t.(terms.Literal); ok {
		return lit.Language()
	}
	return ""
}

func (a *groupConcat) Init(_ *overload.Env, value terms.Term) error {
	a.sb.WriteString(value.Str())
	a.lang = language(value)
	return nil
}

func (a *groupConcat) Put(_ *overload.Env, value terms.Term) error {
	a.sb.WriteString(a.separator)
	a.sb.WriteString(value.Str())
	if a.lang != language(value) {
		a.lang = ""
	}
	return nil
}

func (a *groupConcat) Result(_ *overload.Env) (terms.Term, error) {
	if a.lang != "" {
		return terms.NewLangString(a.sb.String(), a.lang), nil
	}
	return terms.NewString(a.sb.String()), nil
}
