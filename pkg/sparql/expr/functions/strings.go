package functions

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/exprerr"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/overload"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/terms"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/types"
)

// checkCompatible enforces argument compatibility of string functions:
// both simple, both with the same language tag, or a tagged first
// argument with a simple second one.
func checkCompatible(name string, a, b terms.Literal) error {
	la, lb := a.Language(), b.Language()
	if lb == "" || la == lb {
		return nil
	}
	return &exprerr.IncompatibleLanguageOperationError{Operator: name, Left: a, Right: b}
}

// sameKind creates a string result carrying the language tag of like
func sameKind(like terms.Literal, value string) terms.Literal {
	if lang := like.Language(); lang != "" {
		return terms.NewLangString(value, lang)
	}
	return terms.NewString(value)
}

func strlen(_ *overload.Env, a terms.Literal) (terms.Term, error) {
	return terms.NewInteger(int64(utf8.RuneCountInString(a.Str()))), nil
}

// Casers keep state between calls, so each call gets its own
func ucase(_ *overload.Env, a terms.Literal) (terms.Term, error) {
	return sameKind(a, cases.Upper(language.Und).String(a.Str())), nil
}

func lcase(_ *overload.Env, a terms.Literal) (terms.Term, error) {
	return sameKind(a, cases.Lower(language.Und).String(a.Str())), nil
}

// substring follows fn:substring: characters at positions p with
// round(start) <= p < round(start) + round(length), counting from 1
func substring(source terms.Literal, start float64, length *float64) terms.Term {
	runes := []rune(source.Str())
	first := xpathRound(start)
	last := math.Inf(1)
	if length != nil {
		last = first + xpathRound(*length)
	}
	if math.IsNaN(first) || math.IsNaN(last) {
		return sameKind(source, "")
	}
	var sb strings.Builder
	for i, r := range runes {
		p := float64(i + 1)
		if p >= first && p < last {
			sb.WriteRune(r)
		}
	}
	return sameKind(source, sb.String())
}

func substr2(_ *overload.Env, args []terms.Term) (terms.Term, error) {
	return substring(args[0].(terms.Literal), args[1].(terms.Numeric).Float64(), nil), nil
}

func substr3(_ *overload.Env, args []terms.Term) (terms.Term, error) {
	length := args[2].(terms.Numeric).Float64()
	return substring(args[0].(terms.Literal), args[1].(terms.Numeric).Float64(), &length), nil
}

func strstarts(_ *overload.Env, a, b terms.Literal) (terms.Term, error) {
	return terms.Bool(strings.HasPrefix(a.Str(), b.Str())), nil
}

func strends(_ *overload.Env, a, b terms.Literal) (terms.Term, error) {
	return terms.Bool(strings.HasSuffix(a.Str(), b.Str())), nil
}

func contains(_ *overload.Env, a, b terms.Literal) (terms.Term, error) {
	return terms.Bool(strings.Contains(a.Str(), b.Str())), nil
}

func strbefore(_ *overload.Env, a, b terms.Literal) (terms.Term, error) {
	i := strings.Index(a.Str(), b.Str())
	if i < 0 {
		return terms.NewString(""), nil
	}
	if b.Str() == "" {
		return sameKind(a, ""), nil
	}
	return sameKind(a, a.Str()[:i]), nil
}

func strafter(_ *overload.Env, a, b terms.Literal) (terms.Term, error) {
	i := strings.Index(a.Str(), b.Str())
	if i < 0 {
		return terms.NewString(""), nil
	}
	return sameKind(a, a.Str()[i+len(b.Str()):]), nil
}

const upperHex = "0123456789ABCDEF"

// encodeForURI percent-encodes everything but RFC 3986 unreserved characters
func encodeForURI(_ *overload.Env, a terms.Literal) (terms.Term, error) {
	s := a.Str()
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9',
			c == '-', c == '_', c == '.', c == '~':
			sb.WriteByte(c)
		default:
			sb.WriteByte('%')
			sb.WriteByte(upperHex[c>>4])
			sb.WriteByte(upperHex[c&15])
		}
	}
	return terms.NewString(sb.String()), nil
}

// langMatches implements RFC 4647 basic filtering
func langMatches(_ *overload.Env, tag, rng terms.Term) (terms.Term, error) {
	t := strings.ToLower(tag.Str())
	r := strings.ToLower(rng.Str())
	if r == "*" {
		return terms.Bool(t != ""), nil
	}
	if t == r {
		return terms.True, nil
	}
	return terms.Bool(r != "" && strings.HasPrefix(t, r+"-")), nil
}

func strlang(_ *overload.Env, a, b terms.Term) (terms.Term, error) {
	tag := b.Str()
	if _, err := language.Parse(tag); err != nil || tag == "" {
		return nil, &exprerr.ExpressionError{Message: "invalid language tag " + b.String(), Err: err}
	}
	return terms.NewLangString(a.Str(), tag), nil
}

func strdt(env *overload.Env, a, b terms.Term) (terms.Term, error) {
	return terms.TransformLiteral(typedRDF(a.Str(), b.Str()), env.Lattice), nil
}

func hashFunc(newHash func() hash.Hash) func(env *overload.Env, a *terms.StringLiteral) (terms.Term, error) {
	return func(_ *overload.Env, a *terms.StringLiteral) (terms.Term, error) {
		h := newHash()
		h.Write([]byte(a.Value))
		return terms.NewString(hex.EncodeToString(h.Sum(nil))), nil
	}
}

var hashes = map[string]func() hash.Hash{
	"md5":    md5.New,
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha384": sha512.New384,
	"sha512": sha512.New,
}

// isSimple reports whether a term is a simple literal or an xsd:string
func isSimple(t terms.Term) bool {
	lit, ok := t.(terms.Literal)
	return ok && lit.Datatype() == types.XSDString
}
