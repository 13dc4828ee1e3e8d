package types

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Dict is the precomputed ancestor table of one type: every supertype
// (including the type itself) mapped to its promotion distance, 0 for the
// type itself. Dicts are immutable once built.
type Dict struct {
	self      string
	ancestors map[string]int
	chain     []string
}

// Has reports whether target is the type itself or one of its ancestors
func (d *Dict) Has(target string) bool {
	_, ok := d.ancestors[target]
	return ok
}

// Distance returns the number of promotion steps from the type to target
func (d *Dict) Distance(target string) (int, bool) {
	dist, ok := d.ancestors[target]
	return dist, ok
}

// Depth is the distance from the type to the lattice root
func (d *Dict) Depth() int {
	return len(d.chain) - 1
}

// Chain lists the type and its ancestors, most specific first
func (d *Dict) Chain() []string {
	out := make([]string, len(d.chain))
	copy(out, d.chain)
	return out
}

// NewDict builds a dict from a chain ordered most specific first
func NewDict(chain []string) *Dict {
	d := &Dict{ancestors: make(map[string]int, len(chain)), chain: chain}
	if len(chain) > 0 {
		d.self = chain[0]
	}
	for i, t := range chain {
		d.ancestors[t] = i
	}
	return d
}

// extend returns the dict of a new direct subtype of d
func (d *Dict) extend(sub string) *Dict {
	chain := make([]string, 0, len(d.chain)+1)
	chain = append(chain, sub)
	chain = append(chain, d.chain...)
	return NewDict(chain)
}

func rootDict(t string) *Dict {
	return NewDict([]string{t})
}

// Discoverer resolves the direct supertype of a datatype unknown to the
// static lattice. It returns Term when the datatype has no known supertype.
type Discoverer interface {
	SuperType(datatype string) string
}

// DiscovererFunc adapts a function to the Discoverer interface
type DiscovererFunc func(datatype string) string

func (f DiscovererFunc) SuperType(datatype string) string {
	return f(datatype)
}

type opaqueDiscoverer struct{}

func (opaqueDiscoverer) SuperType(string) string { return Term }

// Cache memoises open-world dicts by datatype IRI. Implementations must be
// safe for concurrent use; losing an entry only costs a recomputation.
type Cache interface {
	Get(datatype string) (*Dict, bool)
	Add(datatype string, d *Dict)
}

var (
	staticOnce  sync.Once
	staticDicts map[string]*Dict
)

// static returns the dict table of all declared types, built once.
func static() map[string]*Dict {
	staticOnce.Do(func() {
		res := make(map[string]*Dict, len(extensionTable))
		for key, parent := range extensionTable {
			if _, ok := res[key]; ok {
				continue
			}
			buildStatic(key, parent, res)
		}
		staticDicts = res
	})
	return staticDicts
}

func buildStatic(key, parent string, res map[string]*Dict) *Dict {
	if parent == Term || parent == "" {
		d := rootDict(key)
		res[key] = d
		return d
	}
	pd, ok := res[parent]
	if !ok {
		pd = buildStatic(parent, extensionTable[parent], res)
	}
	d := pd.extend(key)
	res[key] = d
	return d
}

// Lattice answers subtype questions about known and open-world datatypes.
// A Lattice is safe for concurrent use.
type Lattice struct {
	id         string
	discoverer Discoverer
	cache      Cache
	logger     logrus.FieldLogger
}

// Option configures a Lattice
type Option func(*Lattice)

// WithDiscoverer sets the open-world supertype callback
func WithDiscoverer(d Discoverer) Option {
	return func(l *Lattice) {
		if d != nil {
			l.discoverer = d
		}
	}
}

// WithCache shares an open-world dict cache, e.g. between evaluators
func WithCache(c Cache) Option {
	return func(l *Lattice) {
		if c != nil {
			l.cache = c
		}
	}
}

// WithLogger logs open-world discoveries at debug level
func WithLogger(logger logrus.FieldLogger) Option {
	return func(l *Lattice) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLattice creates a lattice. Without a discoverer every unknown datatype
// is opaque: a direct child of the root.
func NewLattice(opts ...Option) *Lattice {
	l := &Lattice{id: uuid.NewString(), discoverer: opaqueDiscoverer{}}
	for _, opt := range opts {
		opt(l)
	}
	if l.cache == nil {
		l.cache = NewLRUCache(DefaultCacheSize)
	}
	if l.logger == nil {
		l.logger = discardLogger()
	}
	return l
}

var defaultLattice = NewLattice()

// Default returns the shared lattice without open-world discovery
func Default() *Lattice {
	return defaultLattice
}

// ID identifies the lattice in caches shared between lattices
func (l *Lattice) ID() string {
	return l.id
}

// SuperTypes returns the ancestor dict of datatype
func (l *Lattice) SuperTypes(datatype string) *Dict {
	return l.superTypes(datatype, 0)
}

// maxDiscoveryDepth stops runaway discoverers that report cyclic supertypes
const maxDiscoveryDepth = 64

func (l *Lattice) superTypes(datatype string, depth int) *Dict {
	if d, ok := static()[datatype]; ok {
		return d
	}
	if d, ok := l.cache.Get(datatype); ok {
		return d
	}

	parent := Term
	if depth < maxDiscoveryDepth {
		parent = l.discoverer.SuperType(datatype)
	}
	var d *Dict
	if parent == Term || parent == "" || parent == datatype {
		d = rootDict(datatype)
	} else {
		d = l.superTypes(parent, depth+1).extend(datatype)
	}
	l.logger.WithFields(logrus.Fields{
		"datatype":  datatype,
		"supertype": parent,
		"depth":     d.Depth(),
	}).Debug("Discovered open-world datatype")
	l.cache.Add(datatype, d)
	return d
}

// IsSubTypeOf reports whether candidate equals target or promotes to it.
// The root is a subtype of nothing.
func (l *Lattice) IsSubTypeOf(candidate, target string) bool {
	if candidate == Term {
		return target == Term
	}
	return l.SuperTypes(candidate).Has(target)
}

// TypeWidening returns the most specific type shared by all given types,
// or Term when only the root is shared.
func (l *Lattice) TypeWidening(types ...string) string {
	if len(types) == 0 {
		return Term
	}
	first := l.SuperTypes(types[0])
	dicts := make([]*Dict, 0, len(types)-1)
	for _, t := range types[1:] {
		dicts = append(dicts, l.SuperTypes(t))
	}
	for _, candidate := range first.chain {
		shared := true
		for _, d := range dicts {
			if !d.Has(candidate) {
				shared = false
				break
			}
		}
		if shared {
			return candidate
		}
	}
	return Term
}

// ArithmeticWidening is TypeWidening for numeric operands with XPath's
// numeric promotion: when only the numeric alias is shared the result is
// double if either side is a double, float otherwise.
func (l *Lattice) ArithmeticWidening(left, right string) string {
	widened := l.TypeWidening(left, right)
	if widened != SPARQLNumeric {
		return widened
	}
	if l.IsSubTypeOf(left, XSDDouble) || l.IsSubTypeOf(right, XSDDouble) {
		return XSDDouble
	}
	return XSDFloat
}

// Match is a candidate ancestor and its distance
type Match struct {
	Type     string
	Distance int
}

// Ancestors lists the ancestors of datatype present in filter (all when
// filter is nil), ordered most specific first. Ties keep chain order.
func (l *Lattice) Ancestors(datatype string, filter func(string) bool) []Match {
	d := l.SuperTypes(datatype)
	out := make([]Match, 0, len(d.chain))
	for i, t := range d.chain {
		if filter == nil || filter(t) {
			out = append(out, Match{Type: t, Distance: i})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}
