package results

import (
	"encoding/csv"
	"io"

	"github.com/aleksaelezovic/sparqlexpr/pkg/rdf"
)

// SPARQL CSV Results Format
// https://www.w3.org/TR/sparql11-results-csv-tsv/

// WriteCSV writes t as SPARQL CSV results. The format is lossy: datatypes
// and language tags are dropped.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(t.Vars); err != nil {
		return err
	}
	for _, binding := range t.Rows {
		row := make([]string, len(t.Vars))
		for i, name := range t.Vars {
			if term, ok := binding.Get(name); ok {
				row[i] = termToCSVValue(term)
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func termToCSVValue(term rdf.Term) string {
	switch t := term.(type) {
	case *rdf.BlankNode:
		return "_:" + t.ID
	default:
		return term.Value()
	}
}
