package overload

import "github.com/aleksaelezovic/sparqlexpr/pkg/rdf"

func typedLit(lexical, datatype string) *rdf.Literal {
	return rdf.NewLiteralWithDatatype(lexical, rdf.NewNamedNode(datatype))
}
