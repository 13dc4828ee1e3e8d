// Package types implements the XSD/SPARQL literal type lattice: the subtype
// tables used for overload resolution, type promotion and open-world
// (unknown datatype) extension.
package types

const (
	XSD = "http://www.w3.org/2001/XMLSchema#"
	RDF = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
)

// Datatype IRIs known to the lattice
const (
	XSDString           = XSD + "string"
	XSDNormalizedString = XSD + "normalizedString"
	XSDToken            = XSD + "token"
	XSDLanguage         = XSD + "language"
	XSDNMToken          = XSD + "NMTOKEN"
	XSDName             = XSD + "Name"
	XSDNCName           = XSD + "NCName"
	XSDEntity           = XSD + "ENTITY"
	XSDID               = XSD + "ID"
	XSDIDRef            = XSD + "IDREF"
	RDFLangString       = RDF + "langString"

	XSDBoolean = XSD + "boolean"

	XSDDouble             = XSD + "double"
	XSDFloat              = XSD + "float"
	XSDDecimal            = XSD + "decimal"
	XSDInteger            = XSD + "integer"
	XSDNonPositiveInteger = XSD + "nonPositiveInteger"
	XSDNegativeInteger    = XSD + "negativeInteger"
	XSDLong               = XSD + "long"
	XSDInt                = XSD + "int"
	XSDShort              = XSD + "short"
	XSDByte               = XSD + "byte"
	XSDNonNegativeInteger = XSD + "nonNegativeInteger"
	XSDPositiveInteger    = XSD + "positiveInteger"
	XSDUnsignedLong       = XSD + "unsignedLong"
	XSDUnsignedInt        = XSD + "unsignedInt"
	XSDUnsignedShort      = XSD + "unsignedShort"
	XSDUnsignedByte       = XSD + "unsignedByte"

	XSDDateTime          = XSD + "dateTime"
	XSDDateTimeStamp     = XSD + "dateTimeStamp"
	XSDDate              = XSD + "date"
	XSDTime              = XSD + "time"
	XSDGMonth            = XSD + "gMonth"
	XSDGMonthDay         = XSD + "gMonthDay"
	XSDGYear             = XSD + "gYear"
	XSDGYearMonth        = XSD + "gYearMonth"
	XSDGDay              = XSD + "gDay"
	XSDDuration          = XSD + "duration"
	XSDDayTimeDuration   = XSD + "dayTimeDuration"
	XSDYearMonthDuration = XSD + "yearMonthDuration"

	XSDAnyURI = XSD + "anyURI"
)

// Type aliases grouping datatypes into SPARQL operator categories
const (
	SPARQLNumeric    = "SPARQL_NUMERIC"
	SPARQLStringly   = "SPARQL_STRINGLY"
	SPARQLNonLexical = "SPARQL_NON_LEXICAL"
	SPARQLOther      = "SPARQL_OTHER"
)

// Term is the root of the lattice: every type is a subtype of it, it is a
// subtype of nothing but itself.
const Term = "term"

// Term-type argument kinds, usable wherever a datatype is expected when
// registering overloads.
const (
	KindLiteral   = "literal"
	KindNamedNode = "namedNode"
	KindBlankNode = "blankNode"
)

// extensionTable declares the direct supertype of every known type.
var extensionTable = map[string]string{
	// datetime types
	XSDDateTimeStamp: XSDDateTime,

	// duration types
	XSDDayTimeDuration:   XSDDuration,
	XSDYearMonthDuration: XSDDuration,

	// stringly types
	RDFLangString: SPARQLStringly,
	XSDString:     SPARQLStringly,

	// string types
	XSDNormalizedString: XSDString,
	XSDToken:            XSDNormalizedString,
	XSDLanguage:         XSDToken,
	XSDNMToken:          XSDToken,
	XSDName:             XSDToken,
	XSDNCName:           XSDName,
	XSDEntity:           XSDNCName,
	XSDID:               XSDNCName,
	XSDIDRef:            XSDNCName,

	// numeric types
	XSDDouble:  SPARQLNumeric,
	XSDFloat:   SPARQLNumeric,
	XSDDecimal: SPARQLNumeric,

	// decimal types
	XSDInteger:            XSDDecimal,
	XSDNonPositiveInteger: XSDInteger,
	XSDNegativeInteger:    XSDNonPositiveInteger,
	XSDLong:               XSDInteger,
	XSDInt:                XSDLong,
	XSDShort:              XSDInt,
	XSDByte:               XSDShort,
	XSDNonNegativeInteger: XSDInteger,
	XSDPositiveInteger:    XSDNonNegativeInteger,
	XSDUnsignedLong:       XSDNonNegativeInteger,
	XSDUnsignedInt:        XSDUnsignedLong,
	XSDUnsignedShort:      XSDUnsignedInt,
	XSDUnsignedByte:       XSDUnsignedShort,

	// types directly below the root
	XSDBoolean:       Term,
	XSDDateTime:      Term,
	XSDDate:          Term,
	XSDTime:          Term,
	XSDGMonth:        Term,
	XSDGMonthDay:     Term,
	XSDGYear:         Term,
	XSDGYearMonth:    Term,
	XSDGDay:          Term,
	XSDDuration:      Term,
	XSDAnyURI:        Term,
	SPARQLNumeric:    Term,
	SPARQLStringly:   Term,
	SPARQLNonLexical: Term,
	SPARQLOther:      Term,
}

// IsKnown reports whether t is declared in the static lattice
func IsKnown(t string) bool {
	_, ok := extensionTable[t]
	return ok
}
