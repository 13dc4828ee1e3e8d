// Package results reads and writes variable bindings in the SPARQL 1.1
// query results formats (JSON, CSV and TSV).
package results

import (
	"fmt"
	"io"
	"sort"

	"github.com/aleksaelezovic/sparqlexpr/pkg/rdf"
)

// Format names a results serialization
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
)

// Formats lists the supported formats
var Formats = []Format{FormatJSON, FormatCSV, FormatTSV}

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	for _, f := range Formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown results format %q", name)
}

// Table is a solution sequence. A nil term in a row is unbound.
type Table struct {
	Vars []string
	Rows []rdf.Binding
}

// NewTable creates a table over rows. Without vars, the variables of all
// rows are collected in alphabetical order.
func NewTable(vars []string, rows []rdf.Binding) *Table {
	if vars == nil {
		seen := make(map[string]bool)
		for _, row := range rows {
			for name := range row {
				if !seen[name] {
					seen[name] = true
					vars = append(vars, name)
				}
			}
		}
		sort.Strings(vars)
	}
	return &Table{Vars: vars, Rows: rows}
}

// Write serializes t in format
func Write(w io.Writer, format Format, t *Table) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, t)
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatTSV:
		return WriteTSV(w, t)
	default:
		return fmt.Errorf("unknown results format %q", format)
	}
}

// WriteBoolean serializes a boolean result in format
func WriteBoolean(w io.Writer, format Format, value bool) error {
	switch format {
	case FormatJSON:
		return WriteBooleanJSON(w, value)
	case FormatCSV, FormatTSV:
		header := "result"
		if format == FormatTSV {
			header = "?result"
		}
		_, err := fmt.Fprintf(w, "%s\n%t\n", header, value)
		return err
	default:
		return fmt.Errorf("unknown results format %q", format)
	}
}
