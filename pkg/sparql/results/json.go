package results

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aleksaelezovic/sparqlexpr/pkg/rdf"
)

// SPARQL JSON Results Format
// https://www.w3.org/TR/sparql11-results-json/

// SPARQLResultsJSON represents the JSON format for SPARQL query results
type SPARQLResultsJSON struct {
	Head    ResultHead      `json:"head"`
	Results *ResultBindings `json:"results,omitempty"`
	Boolean *bool           `json:"boolean,omitempty"`
}

// ResultHead contains the variable names
type ResultHead struct {
	Vars []string `json:"vars"`
}

// ResultBindings contains the result bindings
type ResultBindings struct {
	Bindings []map[string]BindingValue `json:"bindings"`
}

// BindingValue represents a single bound value
type BindingValue struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Datatype string `json:"datatype,omitempty"`
	XMLLang  string `json:"xml:lang,omitempty"`
}

// WriteJSON writes t as SPARQL JSON results
func WriteJSON(w io.Writer, t *Table) error {
	bindings := make([]map[string]BindingValue, 0, len(t.Rows))
	for _, row := range t.Rows {
		b := make(map[string]BindingValue, len(row))
		for _, name := range t.Vars {
			if term, ok := row.Get(name); ok {
				b[name] = termToBindingValue(term)
			}
		}
		bindings = append(bindings, b)
	}
	vars := t.Vars
	if vars == nil {
		vars = []string{}
	}
	return encodeJSON(w, SPARQLResultsJSON{
		Head:    ResultHead{Vars: vars},
		Results: &ResultBindings{Bindings: bindings},
	})
}

// WriteBooleanJSON writes an ASK-style boolean result
func WriteBooleanJSON(w io.Writer, value bool) error {
	return encodeJSON(w, SPARQLResultsJSON{
		Head:    ResultHead{Vars: []string{}},
		Boolean: &value,
	})
}

func encodeJSON(w io.Writer, v SPARQLResultsJSON) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ReadJSON reads a SPARQL JSON results document into a table
func ReadJSON(r io.Reader) (*Table, error) {
	var doc SPARQLResultsJSON
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}
	if doc.Results == nil {
		return nil, fmt.Errorf("results document has no bindings")
	}

	rows := make([]rdf.Binding, 0, len(doc.Results.Bindings))
	for i, b := range doc.Results.Bindings {
		row := make(rdf.Binding, len(b))
		for name, value := range b {
			term, err := bindingValueToTerm(value)
			if err != nil {
				return nil, fmt.Errorf("row %d, ?%s: %w", i, name, err)
			}
			row[name] = term
		}
		rows = append(rows, row)
	}
	return NewTable(doc.Head.Vars, rows), nil
}

// termToBindingValue converts an RDF term to a SPARQL JSON binding value
func termToBindingValue(term rdf.Term) BindingValue {
	switch t := term.(type) {
	case *rdf.NamedNode:
		return BindingValue{Type: "uri", Value: t.IRI}

	case *rdf.BlankNode:
		return BindingValue{Type: "bnode", Value: t.ID}

	case *rdf.Literal:
		bv := BindingValue{Type: "literal", Value: t.Lexical}
		if t.Language != "" {
			bv.XMLLang = t.Language
		} else if dt := t.DatatypeIRI(); dt != rdf.XSDString.IRI {
			bv.Datatype = dt
		}
		return bv

	default:
		return BindingValue{Type: "literal", Value: term.String()}
	}
}

func bindingValueToTerm(v BindingValue) (rdf.Term, error) {
	switch v.Type {
	case "uri":
		return rdf.NewNamedNode(v.Value), nil
	case "bnode":
		return rdf.NewBlankNode(v.Value), nil
	case "literal", "typed-literal":
		switch {
		case v.XMLLang != "":
			return rdf.NewLiteralWithLanguage(v.Value, v.XMLLang), nil
		case v.Datatype != "":
			return rdf.NewLiteralWithDatatype(v.Value, rdf.NewNamedNode(v.Datatype)), nil
		default:
			return rdf.NewLiteral(v.Value), nil
		}
	default:
		return nil, fmt.Errorf("unknown term type %q", v.Type)
	}
}
