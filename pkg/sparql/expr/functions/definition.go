// Package functions defines the SPARQL operators and functions: regular
// functions dispatched through an overload tree, IRI-named XSD casts and
// special forms that control the evaluation of their own arguments.
package functions

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/exprerr"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/expression"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/overload"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/terms"
)

// Arity is the set of argument counts a function accepts
type Arity struct {
	counts []int
	// min is the lower bound of a variadic function, -1 otherwise
	min int
}

// Exactly accepts each of the given counts
func Exactly(counts ...int) Arity {
	return Arity{counts: counts, min: -1}
}

// AtLeast accepts any count from min upwards
func AtLeast(min int) Arity {
	return Arity{min: min}
}

// Check reports whether n arguments are accepted
func (a Arity) Check(n int) bool {
	if a.min >= 0 {
		return n >= a.min
	}
	for _, c := range a.counts {
		if c == n {
			return true
		}
	}
	return false
}

func (a Arity) String() string {
	if a.min >= 0 {
		return "at least " + strconv.Itoa(a.min)
	}
	parts := make([]string, len(a.counts))
	for i, c := range a.counts {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, " or ")
}

// Function is a regular or named function backed by an overload tree
type Function struct {
	Name  string
	Arity Arity
	tree  *overload.Tree
}

// CheckArity fails with an InvalidArityError for a wrong argument count
func (f *Function) CheckArity(n int) error {
	if !f.Arity.Check(n) {
		return &exprerr.InvalidArityError{Operator: f.Name, Got: n, Expected: f.Arity.String()}
	}
	return nil
}

// Apply dispatches on the argument types and runs the matching overload
func (f *Function) Apply(env *overload.Env, args []terms.Term) (terms.Term, error) {
	impl, ok := f.tree.Resolve(args, env.Lattice, env.OverloadCache)
	if !ok {
		for _, arg := range args {
			if nl, ok := arg.(*terms.NonLexicalLiteral); ok {
				return nil, &exprerr.InvalidLexicalFormError{Arg: nl}
			}
		}
		env.Logger.WithFields(logrus.Fields{
			"function":  f.Name,
			"signature": f.tree.Signature(args),
		}).Debug("No overload matched")
		return nil, &exprerr.InvalidArgumentTypesError{Operator: f.Name, Args: terms.Stringers(args)}
	}
	return impl(env, args)
}

// Special is a control-flow form evaluating its own arguments
type Special struct {
	Name  string
	Arity Arity
	Apply expression.SpecialApply
}

// CheckArity fails with an InvalidArityError for a wrong argument count
func (s *Special) CheckArity(n int) error {
	if !s.Arity.Check(n) {
		return &exprerr.InvalidArityError{Operator: s.Name, Got: n, Expected: s.Arity.String()}
	}
	return nil
}

var (
	regular = map[string]*Function{}
	named   = map[string]*Function{}
	special = map[string]*Special{}
)

func defineRegular(name string, arity Arity, b *Builder) {
	if _, ok := regular[name]; ok {
		panic(fmt.Sprintf("regular function %s defined twice", name))
	}
	regular[name] = &Function{Name: name, Arity: arity, tree: b.Collect()}
}

func defineNamed(iri string, b *Builder) {
	named[iri] = &Function{Name: iri, Arity: Exactly(1), tree: b.Collect()}
}

func defineSpecial(name string, arity Arity, apply expression.SpecialApply) {
	special[name] = &Special{Name: name, Arity: arity, Apply: apply}
}

// Regular looks up an operator or built-in function by its lower-case name
func Regular(name string) (*Function, bool) {
	f, ok := regular[name]
	return f, ok
}

// Named looks up an IRI-named function
func Named(iri string) (*Function, bool) {
	f, ok := named[iri]
	return f, ok
}

// SpecialForm looks up a special form by its lower-case name
func SpecialForm(name string) (*Special, bool) {
	s, ok := special[name]
	return s, ok
}

// RegularNames lists the defined regular functions
func RegularNames() []string {
	names := make([]string, 0, len(regular))
	for name := range regular {
		names = append(names, name)
	}
	return names
}
