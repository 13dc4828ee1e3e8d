package rdf

import (
	"fmt"
	"strconv"
	"strings"
)

// TermParser reads single RDF terms written in N-Triples syntax, extended
// with '?name' variables and the Turtle shorthands for numbers and booleans.
type TermParser struct {
	input  string
	pos    int
	length int
}

// NewTermParser creates a parser over input
func NewTermParser(input string) *TermParser {
	return &TermParser{input: input, length: len(input)}
}

// ParseTerm parses exactly one term from s
func ParseTerm(s string) (Term, error) {
	p := NewTermParser(strings.TrimSpace(s))
	if p.length == 0 {
		return nil, fmt.Errorf("empty term")
	}
	term, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	p.skipWhitespace()
	if p.pos < p.length {
		return nil, fmt.Errorf("unexpected trailing input at position %d: %q", p.pos, p.input[p.pos:])
	}
	return term, nil
}

// ParseBinding parses "name=term" assignments into a binding
func ParseBinding(assignments []string) (Binding, error) {
	b := make(Binding, len(assignments))
	for _, a := range assignments {
		name, value, ok := strings.Cut(a, "=")
		if !ok {
			return nil, fmt.Errorf("invalid binding %q: expected name=term", a)
		}
		name = strings.TrimPrefix(strings.TrimSpace(name), "?")
		if name == "" {
			return nil, fmt.Errorf("invalid binding %q: empty variable name", a)
		}
		term, err := ParseTerm(value)
		if err != nil {
			return nil, fmt.Errorf("invalid binding for ?%s: %w", name, err)
		}
		b[name] = term
	}
	return b, nil
}

func (p *TermParser) skipWhitespace() {
	for p.pos < p.length {
		ch := p.input[p.pos]
		if ch != ' ' && ch != '\t' && ch != '\n' && ch != '\r' {
			return
		}
		p.pos++
	}
}

// parseTerm parses an RDF term (IRI, blank node, literal or variable)
func (p *TermParser) parseTerm() (Term, error) {
	ch := p.input[p.pos]

	switch ch {
	case '<':
		iri, err := p.parseIRI()
		if err != nil {
			return nil, err
		}
		return NewNamedNode(iri), nil

	case '_':
		return p.parseBlankNode()

	case '"':
		return p.parseLiteral()

	case '?', '$':
		p.pos++
		start := p.pos
		for p.pos < p.length && isNameChar(p.input[p.pos]) {
			p.pos++
		}
		if start == p.pos {
			return nil, fmt.Errorf("empty variable name at position %d", start)
		}
		return NewVariable(p.input[start:p.pos]), nil

	case '-', '+', '.', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return p.parseNumber()

	default:
		rest := p.input[p.pos:]
		for _, kw := range []string{"true", "false"} {
			if strings.HasPrefix(rest, kw) {
				p.pos += len(kw)
				return NewLiteralWithDatatype(kw, XSDBoolean), nil
			}
		}
		return nil, fmt.Errorf("unexpected character at position %d: %c", p.pos, ch)
	}
}

func isNameChar(ch byte) bool {
	return ch == '_' || ch == '-' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') || ch >= 0x80
}

// parseIRI parses an IRI enclosed in < >
func (p *TermParser) parseIRI() (string, error) {
	if p.pos >= p.length || p.input[p.pos] != '<' {
		return "", fmt.Errorf("expected '<' at start of IRI")
	}
	p.pos++ // skip '<'

	var result strings.Builder
	for p.pos < p.length && p.input[p.pos] != '>' {
		ch := p.input[p.pos]

		if ch == '\\' {
			if p.pos+1 < p.length && (p.input[p.pos+1] == 'u' || p.input[p.pos+1] == 'U') {
				escaped, err := p.processUnicodeEscape()
				if err != nil {
					return "", err
				}
				result.WriteString(escaped)
				continue
			}
			return "", fmt.Errorf("invalid escape sequence in IRI at position %d", p.pos)
		}

		// IRIs cannot contain: space, <, >, ", {, }, |, ^, `
		// and must not contain control characters (0x00-0x1F)
		if ch == ' ' || ch == '<' || ch == '"' || ch == '{' || ch == '}' ||
			ch == '|' || ch == '^' || ch == '`' || ch <= 0x1F {
			return "", fmt.Errorf("invalid character in IRI: %q at position %d", ch, p.pos)
		}

		result.WriteByte(ch)
		p.pos++
	}

	if p.pos >= p.length {
		return "", fmt.Errorf("unclosed IRI")
	}
	p.pos++ // skip '>'

	return result.String(), nil
}

// parseBlankNode parses a blank node
func (p *TermParser) parseBlankNode() (Term, error) {
	if p.pos+1 >= p.length || p.input[p.pos+1] != ':' {
		return nil, fmt.Errorf("expected ':' after '_' in blank node")
	}
	p.pos += 2 // skip '_:'

	start := p.pos
	for p.pos < p.length && isNameChar(p.input[p.pos]) {
		p.pos++
	}
	if start == p.pos {
		return nil, fmt.Errorf("empty blank node label")
	}
	return NewBlankNode(p.input[start:p.pos]), nil
}

// parseLiteral parses a quoted literal with optional language tag or datatype
func (p *TermParser) parseLiteral() (Term, error) {
	p.pos++ // skip opening '"'

	var value strings.Builder
	for p.pos < p.length {
		ch := p.input[p.pos]
		if ch == '"' {
			break
		}
		if ch != '\\' {
			value.WriteByte(ch)
			p.pos++
			continue
		}
		p.pos++
		if p.pos >= p.length {
			return nil, fmt.Errorf("unexpected end of input in escape sequence")
		}
		switch escCh := p.input[p.pos]; escCh {
		case 'n':
			value.WriteByte('\n')
		case 't':
			value.WriteByte('\t')
		case 'r':
			value.WriteByte('\r')
		case 'b':
			value.WriteByte('\b')
		case 'f':
			value.WriteByte('\f')
		case '"':
			value.WriteByte('"')
		case '\'':
			value.WriteByte('\'')
		case '\\':
			value.WriteByte('\\')
		case 'u', 'U':
			p.pos--
			escaped, err := p.processUnicodeEscape()
			if err != nil {
				return nil, err
			}
			value.WriteString(escaped)
			continue
		default:
			return nil, fmt.Errorf("invalid escape sequence \\%c at position %d", escCh, p.pos)
		}
		p.pos++
	}

	if p.pos >= p.length {
		return nil, fmt.Errorf("unclosed string literal")
	}
	p.pos++ // skip closing '"'

	if p.pos < p.length && p.input[p.pos] == '@' {
		p.pos++
		start := p.pos
		for p.pos < p.length && (isNameChar(p.input[p.pos])) {
			p.pos++
		}
		langTag := p.input[start:p.pos]
		if langTag == "" {
			return nil, fmt.Errorf("empty language tag")
		}
		return NewLiteralWithLanguage(value.String(), langTag), nil
	}
	if strings.HasPrefix(p.input[p.pos:], "^^") {
		p.pos += 2
		datatypeIRI, err := p.parseIRI()
		if err != nil {
			return nil, fmt.Errorf("error parsing datatype: %w", err)
		}
		return NewLiteralWithDatatype(value.String(), NewNamedNode(datatypeIRI)), nil
	}
	return NewLiteral(value.String()), nil
}

// processUnicodeEscape processes \uXXXX or \UXXXXXXXX escape sequences
func (p *TermParser) processUnicodeEscape() (string, error) {
	p.pos++ // skip '\'
	if p.pos >= p.length {
		return "", fmt.Errorf("unexpected end of input in Unicode escape")
	}

	hexDigits := 4
	if p.input[p.pos] == 'U' {
		hexDigits = 8
	}
	p.pos++ // skip 'u' or 'U'

	if p.pos+hexDigits > p.length {
		return "", fmt.Errorf("incomplete Unicode escape sequence")
	}
	hexStr := p.input[p.pos : p.pos+hexDigits]
	p.pos += hexDigits

	codePoint, err := strconv.ParseUint(hexStr, 16, 32)
	if err != nil {
		return "", fmt.Errorf("invalid hex digits in Unicode escape: %s", hexStr)
	}
	return string(rune(codePoint)), nil
}

// parseNumber parses a Turtle numeric shorthand into integer, decimal or double
func (p *TermParser) parseNumber() (Term, error) {
	start := p.pos

	if p.input[p.pos] == '-' || p.input[p.pos] == '+' {
		p.pos++
	}

	hasDigits := false
	for p.pos < p.length && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
		p.pos++
		hasDigits = true
	}

	datatype := XSDInteger
	if p.pos < p.length && p.input[p.pos] == '.' {
		datatype = XSDDecimal
		p.pos++
		for p.pos < p.length && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
			p.pos++
			hasDigits = true
		}
	}

	if p.pos < p.length && (p.input[p.pos] == 'e' || p.input[p.pos] == 'E') {
		datatype = XSDDouble
		p.pos++
		if p.pos < p.length && (p.input[p.pos] == '-' || p.input[p.pos] == '+') {
			p.pos++
		}
		for p.pos < p.length && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
			p.pos++
		}
	}

	if !hasDigits {
		return nil, fmt.Errorf("invalid number at position %d", start)
	}
	return NewLiteralWithDatatype(p.input[start:p.pos], datatype), nil
}
