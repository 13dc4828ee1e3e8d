package rdf

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

// TermKey is a 128-bit fingerprint of a term's N-Triples form.
type TermKey [16]byte

// Hash128 computes a 128-bit xxhash3 hash of the input string
func Hash128(s string) TermKey {
	hash := xxh3.HashString128(s)
	var result TermKey
	binary.BigEndian.PutUint64(result[0:8], hash.Hi)
	binary.BigEndian.PutUint64(result[8:16], hash.Lo)
	return result
}

// HashTerm fingerprints a term. Terms that are Equals hash identically,
// except for language tags differing only in case.
func HashTerm(t Term) TermKey {
	if t == nil {
		return TermKey{}
	}
	return Hash128(t.String())
}

// HashBinding fingerprints a whole binding, independent of map order.
func HashBinding(b Binding) TermKey {
	h := xxh3.New()
	for _, name := range b.Names() {
		_, _ = h.WriteString(name)
		_, _ = h.WriteString("\x00")
		if t := b[name]; t != nil {
			_, _ = h.WriteString(t.String())
		}
		_, _ = h.WriteString("\x00")
	}
	sum := h.Sum128()
	var result TermKey
	binary.BigEndian.PutUint64(result[0:8], sum.Hi)
	binary.BigEndian.PutUint64(result[8:16], sum.Lo)
	return result
}
