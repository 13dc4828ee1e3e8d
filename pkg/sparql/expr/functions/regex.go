package functions

import (
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/exprerr"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/overload"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/terms"
)

// compiled holds recently used patterns keyed by flags and pattern
var compiled, _ = lru.New[string, *regexp.Regexp](512)

// compileRegex translates XPath flags into RE2 syntax:
//   - i, s and m map to the inline flags of the same name
//   - x drops whitespace from the pattern
//   - q matches the pattern literally
func compileRegex(pattern, flags string) (*regexp.Regexp, error) {
	key := flags + "\x00" + pattern
	if re, ok := compiled.Get(key); ok {
		return re, nil
	}

	var inline strings.Builder
	for _, f := range flags {
		switch f {
		case 'i', 's', 'm':
			inline.WriteRune(f)
		case 'x':
			pattern = stripWhitespace(pattern)
		case 'q':
			pattern = regexp.QuoteMeta(pattern)
		default:
			return nil, exprerr.NewExpressionError("invalid regex flag %q", f)
		}
	}
	source := pattern
	if inline.Len() > 0 {
		source = "(?" + inline.String() + ")" + pattern
	}
	re, err := regexp.Compile(source)
	if err != nil {
		return nil, &exprerr.ExpressionError{Message: "invalid regular expression " + pattern, Err: err}
	}
	compiled.Add(key, re)
	return re, nil
}

// stripWhitespace removes whitespace outside character classes
func stripWhitespace(pattern string) string {
	var sb strings.Builder
	inClass := false
	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '[':
			inClass = true
		case r == ']':
			inClass = false
		case !inClass && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func regex(_ *overload.Env, args []terms.Term) (terms.Term, error) {
	flags := ""
	if len(args) == 3 {
		flags = args[2].Str()
	}
	re, err := compileRegex(args[1].Str(), flags)
	if err != nil {
		return nil, err
	}
	return terms.Bool(re.MatchString(args[0].Str())), nil
}

// xpathReplacement converts an fn:replace replacement string, where $n
// refers to a group and \$ and \\ are escapes, to regexp.Expand syntax
func xpathReplacement(repl string) (string, error) {
	var sb strings.Builder
	for i := 0; i < len(repl); i++ {
		c := repl[i]
		switch c {
		case '\\':
			if i+1 >= len(repl) || (repl[i+1] != '$' && repl[i+1] != '\\') {
				return "", exprerr.NewExpressionError("invalid replacement string %q", repl)
			}
			if repl[i+1] == '$' {
				sb.WriteString("$$")
			} else {
				sb.WriteByte('\\')
			}
			i++
		case '$':
			j := i + 1
			for j < len(repl) && repl[j] >= '0' && repl[j] <= '9' {
				j++
			}
			if j == i+1 {
				return "", exprerr.NewExpressionError("invalid replacement string %q", repl)
			}
			sb.WriteString("${" + repl[i+1:j] + "}")
			i = j - 1
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String(), nil
}

func replace(_ *overload.Env, args []terms.Term) (terms.Term, error) {
	flags := ""
	if len(args) == 4 {
		flags = args[3].Str()
	}
	re, err := compileRegex(args[1].Str(), flags)
	if err != nil {
		return nil, err
	}
	if re.MatchString("") {
		return nil, exprerr.NewExpressionError("pattern %q matches the empty string", args[1].Str())
	}
	template, err := xpathReplacement(args[2].Str())
	if err != nil {
		return nil, err
	}
	source := args[0].(terms.Literal)
	out := re.ReplaceAllString(source.Str(), template)
	return sameKind(source, out), nil
}
