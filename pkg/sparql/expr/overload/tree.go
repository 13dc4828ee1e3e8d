package overload

import (
	"strings"

	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/terms"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/types"
)

// ArgumentType is one position of an overload signature: a datatype IRI, a
// type alias, a term kind (types.KindLiteral, ...) or types.Term.
type ArgumentType = string

// promotion converts an argument of type From into one of type To
type promotion struct {
	From    string
	To      string
	Convert func(terms.Term) terms.Term
}

// promotions lists the XPath type promotions. Registering an overload for
// a To type installs a promoted path for From.
var promotions = []promotion{
	{types.XSDAnyURI, types.XSDString, anyURIToString},
	{types.XSDAnyURI, types.SPARQLStringly, anyURIToString},
	{types.XSDFloat, types.XSDDouble, toDouble},
	{types.XSDDecimal, types.XSDDouble, toDouble},
	{types.XSDDecimal, types.XSDFloat, func(t terms.Term) terms.Term {
		return terms.NewFloat(t.(terms.Numeric).Float64())
	}},
}

func anyURIToString(t terms.Term) terms.Term {
	return terms.NewString(t.Str())
}

func toDouble(t terms.Term) terms.Term {
	return terms.NewDouble(t.(terms.Numeric).Float64())
}

type node struct {
	impl       Impl
	promotions int
	children   map[ArgumentType]*node
}

func (n *node) child(key ArgumentType) *node {
	if n.children == nil {
		n.children = make(map[ArgumentType]*node)
	}
	c, ok := n.children[key]
	if !ok {
		c = &node{}
		n.children[key] = c
	}
	return c
}

// Tree is the overload trie of one function. It is built once and is safe
// for concurrent searches afterwards.
type Tree struct {
	name string
	root *node
}

// NewTree creates an empty tree; name identifies it in the resolution cache
func NewTree(name string) *Tree {
	return &Tree{name: name, root: &node{}}
}

// Name returns the function name the tree was created for
func (t *Tree) Name() string { return t.name }

// AddOverload registers impl for the argument types. Promoted variants of
// the signature are installed alongside, but never replace an overload
// reached with fewer promotions.
func (t *Tree) AddOverload(argTypes []ArgumentType, impl Impl) {
	t.install(argTypes, impl, 0)

	type variant struct {
		types      []ArgumentType
		converters []func(terms.Term) terms.Term
	}
	variants := []variant{{types: nil, converters: nil}}
	for _, at := range argTypes {
		var next []variant
		for _, v := range variants {
			next = append(next, variant{
				types:      appendCopy(v.types, at),
				converters: appendCopy(v.converters, nil),
			})
			for _, p := range promotions {
				if p.To != at {
					continue
				}
				next = append(next, variant{
					types:      appendCopy(v.types, p.From),
					converters: appendCopy(v.converters, p.Convert),
				})
			}
		}
		variants = next
	}

	for _, v := range variants[1:] {
		count := 0
		for _, c := range v.converters {
			if c != nil {
				count++
			}
		}
		t.install(v.types, promoted(impl, v.converters), count)
	}
}

func appendCopy[T any](s []T, v T) []T {
	out := make([]T, len(s), len(s)+1)
	copy(out, s)
	return append(out, v)
}

func promoted(impl Impl, converters []func(terms.Term) terms.Term) Impl {
	return func(env *Env, args []terms.Term) (terms.Term, error) {
		converted := make([]terms.Term, len(args))
		for i, arg := range args {
			if i < len(converters) && converters[i] != nil {
				converted[i] = converters[i](arg)
			} else {
				converted[i] = arg
			}
		}
		return impl(env, converted)
	}
}

func (t *Tree) install(argTypes []ArgumentType, impl Impl, promotions int) {
	n := t.root
	for _, at := range argTypes {
		n = n.child(at)
	}
	if n.impl != nil && n.promotions <= promotions {
		// first registration wins among equals
		return
	}
	n.impl = impl
	n.promotions = promotions
}

// candidateKeys lists the child keys an argument can follow, highest
// priority first: its own type, its term kind, its ancestors by distance,
// and finally the root.
func candidateKeys(arg terms.Term, lattice *types.Lattice) []ArgumentType {
	lit, ok := arg.(terms.Literal)
	if !ok {
		return []ArgumentType{arg.TermType(), types.Term}
	}
	dispatch := lit.DispatchType()
	keys := []ArgumentType{dispatch, types.KindLiteral}
	for _, m := range lattice.Ancestors(dispatch, nil) {
		if m.Distance == 0 || m.Type == types.Term {
			continue
		}
		keys = append(keys, m.Type)
	}
	return append(keys, types.Term)
}

type frame struct {
	n     *node
	depth int
}

// Search finds the implementation for args. Candidate children are tried
// in priority order and the first implemented leaf wins, so a path reached
// by promotion through an exact type outranks a wildcard further down the
// candidate list.
func (t *Tree) Search(args []terms.Term, lattice *types.Lattice) (Impl, bool) {
	if lattice == nil {
		lattice = types.Default()
	}
	keys := make([][]ArgumentType, len(args))
	for i, arg := range args {
		keys[i] = candidateKeys(arg, lattice)
	}

	stack := []frame{{n: t.root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.depth == len(args) {
			if top.n.impl != nil {
				return top.n.impl, true
			}
			continue
		}

		// push in reverse so the highest priority child is popped first
		candidates := keys[top.depth]
		for i := len(candidates) - 1; i >= 0; i-- {
			if c, ok := top.n.children[candidates[i]]; ok {
				stack = append(stack, frame{n: c, depth: top.depth + 1})
			}
		}
	}
	return nil, false
}

// Signature is the cache key of a call: the tree name and the dispatch
// type or term kind of every argument.
func (t *Tree) Signature(args []terms.Term) string {
	var sb strings.Builder
	sb.WriteString(t.name)
	for _, arg := range args {
		sb.WriteByte('|')
		if lit, ok := arg.(terms.Literal); ok {
			sb.WriteString(lit.DispatchType())
		} else {
			sb.WriteString(arg.TermType())
		}
	}
	return sb.String()
}

// Resolve searches through cache, which may be nil. Entries are keyed by
// the lattice as well as the signature, since lattices with different
// discoverers can resolve the same call differently.
func (t *Tree) Resolve(args []terms.Term, lattice *types.Lattice, cache *Cache) (Impl, bool) {
	if cache == nil {
		return t.Search(args, lattice)
	}
	if lattice == nil {
		lattice = types.Default()
	}
	key := lattice.ID() + "|" + t.Signature(args)
	if impl, found, ok := cache.Get(key); ok {
		return impl, found
	}
	impl, found := t.Search(args, lattice)
	cache.Add(key, impl, found)
	return impl, found
}
