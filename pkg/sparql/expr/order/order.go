// Package order defines the ordering of terms used by comparison
// operators, ORDER BY and the MIN/MAX aggregators.
package order

import (
	"math"
	"strings"
	"time"

	"github.com/aleksaelezovic/sparqlexpr/pkg/rdf"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/terms"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/types"
)

func sign(c int) int {
	switch {
	case c < 0:
		return -1
	case c > 0:
		return 1
	}
	return 0
}

func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func isFloating(n terms.Numeric) bool {
	k := n.Kind()
	return k == terms.KindFloat || k == terms.KindDouble
}

// CompareNumeric compares two numerics in their widened value space. ok
// is false when either side is NaN.
func CompareNumeric(a, b terms.Numeric) (int, bool) {
	if isFloating(a) || isFloating(b) {
		fa, fb := a.Float64(), b.Float64()
		if math.IsNaN(fa) || math.IsNaN(fb) {
			return 0, false
		}
		return cmpFloat(fa, fb), true
	}
	da, _ := a.Decimal()
	db, _ := b.Decimal()
	return da.Cmp(db), true
}

// CompareDurations compares durations; ok is false when the months and
// seconds parts disagree, e.g. P1M against P30D.
func CompareDurations(a, b terms.Duration) (int, bool) {
	months := sign(int(a.Months - b.Months))
	sa, sb := a.Seconds, b.Seconds
	seconds := 0
	switch {
	case sa != nil && sb != nil:
		seconds = sa.Cmp(sb)
	case sa != nil:
		seconds = sign(sa.Sign())
	case sb != nil:
		seconds = -sign(sb.Sign())
	}
	switch {
	case months == seconds, seconds == 0:
		return months, true
	case months == 0:
		return seconds, true
	}
	return 0, false
}

// CompareValues compares two literals whose value spaces are comparable.
// ok is false for literals of unrelated or non-lexical types.
func CompareValues(a, b terms.Literal, implicit *time.Location) (int, bool) {
	switch x := a.(type) {
	case terms.Numeric:
		if y, ok := b.(terms.Numeric); ok {
			return CompareNumeric(x, y)
		}
	case *terms.StringLiteral:
		if y, ok := b.(*terms.StringLiteral); ok {
			return strings.Compare(x.Value, y.Value), true
		}
	case *terms.LangStringLiteral:
		if y, ok := b.(*terms.LangStringLiteral); ok {
			if c := strings.Compare(x.Value, y.Value); c != 0 {
				return c, true
			}
			return strings.Compare(x.Lang, y.Lang), true
		}
	case *terms.BooleanLiteral:
		if y, ok := b.(*terms.BooleanLiteral); ok {
			return cmpBool(x.Value, y.Value), true
		}
	case *terms.DateTimeLiteral:
		if y, ok := b.(*terms.DateTimeLiteral); ok {
			return x.Value.Instant(implicit).Compare(y.Value.Instant(implicit)), true
		}
	case *terms.DateLiteral:
		if y, ok := b.(*terms.DateLiteral); ok {
			return x.Value.Instant(implicit).Compare(y.Value.Instant(implicit)), true
		}
	case *terms.TimeLiteral:
		if y, ok := b.(*terms.TimeLiteral); ok {
			return x.Value.Instant(implicit).Compare(y.Value.Instant(implicit)), true
		}
	case *terms.DurationLiteral:
		if y, ok := b.(*terms.DurationLiteral); ok {
			return CompareDurations(x.Value, y.Value)
		}
	}
	return 0, false
}

func kindRank(t terms.Term) int {
	if t == nil {
		return 0
	}
	switch t.TermType() {
	case types.KindBlankNode:
		return 1
	case types.KindNamedNode:
		return 2
	}
	return 3
}

// Compare is a total order over terms: unbound (nil) first, then blank
// nodes, IRIs and literals. Literals with comparable values are ordered by
// value; everything else by datatype, language and lexical form.
func Compare(a, b terms.Term, implicit *time.Location) int {
	ra, rb := kindRank(a), kindRank(b)
	if ra != rb || ra == 0 {
		return sign(ra - rb)
	}
	la, aLit := a.(terms.Literal)
	lb, bLit := b.(terms.Literal)
	if !aLit || !bLit {
		return strings.Compare(a.Str(), b.Str())
	}
	if c, ok := CompareValues(la, lb, implicit); ok && c != 0 {
		return sign(c)
	}
	if c := strings.Compare(la.Datatype(), lb.Datatype()); c != 0 {
		return c
	}
	if c := strings.Compare(la.Language(), lb.Language()); c != 0 {
		return c
	}
	return strings.Compare(la.Str(), lb.Str())
}

// CompareRDF orders external terms; nil stands for unbound
func CompareRDF(a, b rdf.Term, lattice *types.Lattice, implicit *time.Location) int {
	var ta, tb terms.Term
	if a != nil {
		ta = terms.TransformRDFTermUnsafe(a, lattice)
	}
	if b != nil {
		tb = terms.TransformRDFTermUnsafe(b, lattice)
	}
	return Compare(ta, tb, implicit)
}
