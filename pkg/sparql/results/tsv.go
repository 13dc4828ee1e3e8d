package results

import (
	"bufio"
	"io"
	"strings"

	"github.com/aleksaelezovic/sparqlexpr/pkg/rdf"
)

// SPARQL TSV Results Format
// https://www.w3.org/TR/sparql11-results-csv-tsv/

// WriteTSV writes t as SPARQL TSV results, terms in N-Triples syntax with
// the Turtle shorthand for integers, decimals, doubles and booleans
func WriteTSV(w io.Writer, t *Table) error {
	bw := bufio.NewWriter(w)

	for i, name := range t.Vars {
		if i > 0 {
			bw.WriteString("\t")
		}
		bw.WriteString("?" + name)
	}
	bw.WriteString("\n")

	for _, binding := range t.Rows {
		for i, name := range t.Vars {
			if i > 0 {
				bw.WriteString("\t")
			}
			if term, ok := binding.Get(name); ok {
				bw.WriteString(termToTSVValue(term))
			}
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}

var shorthandDatatypes = map[string]bool{
	rdf.XSDInteger.IRI: true,
	rdf.XSDDecimal.IRI: true,
	rdf.XSDDouble.IRI:  true,
	rdf.XSDBoolean.IRI: true,
}

func termToTSVValue(term rdf.Term) string {
	lit, ok := term.(*rdf.Literal)
	if !ok || lit.Language != "" || !shorthandDatatypes[lit.DatatypeIRI()] {
		return escapeTSV(term.String())
	}
	// the shorthand is only valid when it reads back as the same literal
	if parsed, err := rdf.ParseTerm(lit.Lexical); err == nil && parsed.Equals(lit) {
		return lit.Lexical
	}
	return escapeTSV(term.String())
}

// escapeTSV escapes the tabs and newlines term.String leaves in IRIs
func escapeTSV(s string) string {
	return strings.NewReplacer("\t", `\t`, "\n", `\n`, "\r", `\r`).Replace(s)
}
