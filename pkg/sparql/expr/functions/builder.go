package functions

import (
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/overload"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/terms"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/types"
)

// Builder declares the overloads of one function
type Builder struct {
	tree *overload.Tree
}

// NewBuilder starts the overload tree of name
func NewBuilder(name string) *Builder {
	return &Builder{tree: overload.NewTree(name)}
}

// Collect returns the finished tree
func (b *Builder) Collect() *overload.Tree {
	return b.tree
}

// Set registers impl for an exact signature
func (b *Builder) Set(argTypes []overload.ArgumentType, impl overload.Impl) *Builder {
	b.tree.AddOverload(argTypes, impl)
	return b
}

// OnNullary registers a function without arguments
func (b *Builder) OnNullary(fn func(env *overload.Env) (terms.Term, error)) *Builder {
	return b.Set(nil, func(env *overload.Env, _ []terms.Term) (terms.Term, error) {
		return fn(env)
	})
}

// OnUnary registers a one-argument overload
func (b *Builder) OnUnary(t string, fn func(env *overload.Env, a terms.Term) (terms.Term, error)) *Builder {
	return b.Set([]string{t}, func(env *overload.Env, args []terms.Term) (terms.Term, error) {
		return fn(env, args[0])
	})
}

// OnBinary registers a two-argument overload
func (b *Builder) OnBinary(l, r string, fn func(env *overload.Env, a, b terms.Term) (terms.Term, error)) *Builder {
	return b.Set([]string{l, r}, func(env *overload.Env, args []terms.Term) (terms.Term, error) {
		return fn(env, args[0], args[1])
	})
}

// OnTerm1 registers a unary overload accepting any term
func (b *Builder) OnTerm1(fn func(env *overload.Env, a terms.Term) (terms.Term, error)) *Builder {
	return b.OnUnary(types.Term, fn)
}

// OnLiteral1 registers a unary overload accepting any literal
func (b *Builder) OnLiteral1(fn func(env *overload.Env, a terms.Literal) (terms.Term, error)) *Builder {
	return b.OnUnary(types.KindLiteral, func(env *overload.Env, a terms.Term) (terms.Term, error) {
		return fn(env, a.(terms.Literal))
	})
}

// OnNumeric1 registers a unary overload for numerics
func (b *Builder) OnNumeric1(fn func(env *overload.Env, a terms.Numeric) (terms.Term, error)) *Builder {
	return b.OnUnary(types.SPARQLNumeric, func(env *overload.Env, a terms.Term) (terms.Term, error) {
		return fn(env, a.(terms.Numeric))
	})
}

// OnString1 registers a unary overload for xsd:string and its subtypes
func (b *Builder) OnString1(fn func(env *overload.Env, a *terms.StringLiteral) (terms.Term, error)) *Builder {
	return b.OnUnary(types.XSDString, func(env *overload.Env, a terms.Term) (terms.Term, error) {
		return fn(env, a.(*terms.StringLiteral))
	})
}

// OnStringly1 registers a unary overload for plain and language-tagged strings
func (b *Builder) OnStringly1(fn func(env *overload.Env, a terms.Literal) (terms.Term, error)) *Builder {
	return b.OnUnary(types.SPARQLStringly, func(env *overload.Env, a terms.Term) (terms.Term, error) {
		return fn(env, a.(terms.Literal))
	})
}

// OnStringly2 registers an overload for two string arguments that must be
// argument-compatible
func (b *Builder) OnStringly2(fn func(env *overload.Env, a, b terms.Literal) (terms.Term, error)) *Builder {
	name := b.tree.Name()
	return b.OnBinary(types.SPARQLStringly, types.SPARQLStringly, func(env *overload.Env, x, y terms.Term) (terms.Term, error) {
		a, c := x.(terms.Literal), y.(terms.Literal)
		if err := checkCompatible(name, a, c); err != nil {
			return nil, err
		}
		return fn(env, a, c)
	})
}

// OnDateTime1 registers a unary overload for xsd:dateTime
func (b *Builder) OnDateTime1(fn func(env *overload.Env, a *terms.DateTimeLiteral) (terms.Term, error)) *Builder {
	return b.OnUnary(types.XSDDateTime, func(env *overload.Env, a terms.Term) (terms.Term, error) {
		return fn(env, a.(*terms.DateTimeLiteral))
	})
}

// OnBinaryTyped registers a two-argument overload for each of the types,
// used for both positions
func (b *Builder) OnBinaryTyped(ts []string, fn func(env *overload.Env, a, b terms.Term) (terms.Term, error)) *Builder {
	for _, t := range ts {
		b.OnBinary(t, t, fn)
	}
	return b
}
