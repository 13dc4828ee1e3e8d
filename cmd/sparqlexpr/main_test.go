package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const addExpr = `{"type":"operator","operator":"+","args":[{"type":"variable","name":"x"},{"type":"term","term":"1"}]}`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestEval(t *testing.T) {
	tests := []struct {
		name     string
		stdin    string
		args     []string
		expected string
	}{
		{
			name:     "sync",
			stdin:    addExpr,
			args:     []string{"eval", "--bind", "x=41"},
			expected: "\"42\"^^<http://www.w3.org/2001/XMLSchema#integer>\n",
		},
		{
			name:     "async",
			stdin:    addExpr,
			args:     []string{"eval", "--async", "-b", "?x=41"},
			expected: "\"42\"^^<http://www.w3.org/2001/XMLSchema#integer>\n",
		},
		{
			name:     "explicit stdin",
			stdin:    addExpr,
			args:     []string{"eval", "-", "--bind", "x=1.5"},
			expected: "\"2.5\"^^<http://www.w3.org/2001/XMLSchema#decimal>\n",
		},
		{
			name:     "effective boolean value",
			stdin:    `{"type":"term","term":"\"\""}`,
			args:     []string{"eval", "--ebv"},
			expected: "false\n",
		},
		{
			name:     "now",
			stdin:    `{"type":"operator","operator":"year","args":[{"type":"operator","operator":"now"}]}`,
			args:     []string{"eval", "--now", "2020-06-01T12:00:00Z"},
			expected: "\"2020\"^^<http://www.w3.org/2001/XMLSchema#integer>\n",
		},
		{
			name:     "open-world datatype",
			stdin:    addExpr,
			args:     []string{"eval", "--supertype", "http://example.org/age=" + "http://www.w3.org/2001/XMLSchema#integer", "--bind", `x="41"^^<http://example.org/age>`},
			expected: "\"42\"^^<http://www.w3.org/2001/XMLSchema#integer>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if out != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, out)
			}
		})
	}
}

func TestEval_File(t *testing.T) {
	path := writeFile(t, "expr.json", addExpr)
	out, err := execute(t, "", "eval", path, "--bind", "x=1", "--output", "yaml")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, want := range []string{
		`"2"^^<http://www.w3.org/2001/XMLSchema#integer>`,
		"datatype: http://www.w3.org/2001/XMLSchema#integer",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got %q", want, out)
		}
	}
}

func TestEval_ExpressionError(t *testing.T) {
	out, err := execute(t, addExpr, "eval")
	if !errors.Is(err, errReported) {
		t.Fatalf("Expected the error to be reported, got %v", err)
	}
	if !strings.HasPrefix(out, "error [UNBOUND_VARIABLE]: ") {
		t.Errorf("Expected an unbound variable error, got %q", out)
	}

	out, err = execute(t, `{"type":"operator","operator":"frobnicate"}`, "eval", "-o", "yaml")
	if !errors.Is(err, errReported) {
		t.Fatalf("Expected the error to be reported, got %v", err)
	}
	if !strings.Contains(out, "code: UNKNOWN_OPERATOR") {
		t.Errorf("Expected an unknown operator error, got %q", out)
	}
}

func TestEval_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{"invalid json", "{", []string{"eval"}},
		{"invalid binding", addExpr, []string{"eval", "--bind", "x"}},
		{"invalid now", addExpr, []string{"eval", "--now", "yesterday"}},
		{"invalid timezone", addExpr, []string{"eval", "--timezone", "CET"}},
		{"invalid supertype", addExpr, []string{"eval", "--supertype", "http://example.org/age"}},
		{"invalid output", addExpr, []string{"eval", "--output", "xml"}},
		{"missing rows", addExpr, []string{"eval", "--rows", filepath.Join(t.TempDir(), "rows.srj")}},
		{"missing file", "", []string{"eval", filepath.Join(t.TempDir(), "missing.json")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.stdin, tt.args...)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if errors.Is(err, errReported) {
				t.Errorf("Expected a usage error, got an evaluation error: %v", err)
			}
		})
	}
}

func TestEval_ConfigFile(t *testing.T) {
	config := writeFile(t, "config.yaml", "bind:\n  - x=2\noutput: yaml\ncache-size: -1\n")
	out, err := execute(t, addExpr, "eval", "--config", config)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, `"3"^^<http://www.w3.org/2001/XMLSchema#integer>`) {
		t.Errorf("Expected 3 in yaml output, got %q", out)
	}

	// flags win over the config file
	out, err = execute(t, addExpr, "eval", "--config", config, "--bind", "x=5", "-o", "text")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if expected := "\"6\"^^<http://www.w3.org/2001/XMLSchema#integer>\n"; out != expected {
		t.Errorf("Expected %q, got %q", expected, out)
	}
}

func TestEval_Environment(t *testing.T) {
	t.Setenv("SPARQLEXPR_NOW", "1999-12-31T23:00:00Z")
	t.Setenv("SPARQLEXPR_TIMEZONE", "+02:00")
	out, err := execute(t, `{"type":"operator","operator":"year","args":[{"type":"operator","operator":"now"}]}`, "eval")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if expected := "\"1999\"^^<http://www.w3.org/2001/XMLSchema#integer>\n"; out != expected {
		t.Errorf("Expected %q, got %q", expected, out)
	}
}

func TestEval_MissingConfigFile(t *testing.T) {
	_, err := execute(t, addExpr, "eval", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "failed to read config") {
		t.Errorf("Expected a config error, got %v", err)
	}
}

func TestTypes(t *testing.T) {
	const xsd = "http://www.w3.org/2001/XMLSchema#"
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{
			name:     "static chain",
			args:     []string{"types", xsd + "integer"},
			expected: xsd + "integer -> " + xsd + "decimal -> SPARQL_NUMERIC\n",
		},
		{
			name: "widening",
			args: []string{"types", "--widen", xsd + "integer", xsd + "double"},
			expected: xsd + "integer -> " + xsd + "decimal -> SPARQL_NUMERIC\n" +
				xsd + "double -> SPARQL_NUMERIC\n" +
				"widening: SPARQL_NUMERIC\n",
		},
		{
			name:     "unknown datatype",
			args:     []string{"types", "http://example.org/unknown"},
			expected: "http://example.org/unknown\n",
		},
		{
			name:     "open-world datatype",
			args:     []string{"types", "--supertype", "http://example.org/age=" + xsd + "byte", "http://example.org/age"},
			expected: "http://example.org/age -> " + xsd + "byte -> " + xsd + "short -> " + xsd + "int -> " + xsd + "long -> " + xsd + "integer -> " + xsd + "decimal -> SPARQL_NUMERIC\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "", tt.args...)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if out != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, out)
			}
		})
	}
}

func TestTypes_PersistentCache(t *testing.T) {
	dir := t.TempDir()
	const age = "http://example.org/age"

	if _, err := execute(t, "", "types", "--type-cache-dir", dir, "--supertype", age+"=http://www.w3.org/2001/XMLSchema#integer", age); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// the second run has no discoverer and must read the chain from disk
	out, err := execute(t, "", "types", "--type-cache-dir", dir, age)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, age+" -> http://www.w3.org/2001/XMLSchema#integer") {
		t.Errorf("Expected the cached chain, got %q", out)
	}
}

const rowsJSON = `{
  "head": {"vars": ["x"]},
  "results": {"bindings": [
    {"x": {"type": "literal", "value": "1", "datatype": "http://www.w3.org/2001/XMLSchema#integer"}},
    {"x": {"type": "literal", "value": "a"}},
    {},
    {"x": {"type": "literal", "value": "2", "datatype": "http://www.w3.org/2001/XMLSchema#integer"}}
  ]}
}`

func TestEval_Rows(t *testing.T) {
	rows := writeFile(t, "rows.srj", rowsJSON)

	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{
			name: "text",
			args: []string{"eval", "--rows", rows},
			expected: "\"2\"^^<http://www.w3.org/2001/XMLSchema#integer>\n" +
				"error [INVALID_ARGUMENT_TYPES]: ",
		},
		{
			name:     "tsv",
			args:     []string{"eval", "--rows", rows, "-o", "tsv"},
			expected: "?result\n2\n\n\n3\n",
		},
		{
			name:     "csv ebv",
			args:     []string{"eval", "--rows", rows, "--ebv", "-o", "csv", "--async"},
			expected: "result\r\ntrue\r\n\r\n\r\ntrue\r\n",
		},
		{
			name:     "command line bindings are overridden by rows",
			args:     []string{"eval", "--rows", rows, "--bind", "x=10", "-o", "tsv"},
			expected: "?result\n2\n\n11\n3\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, addExpr, tt.args...)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !strings.HasPrefix(out, tt.expected) {
				t.Errorf("Expected output starting with %q, got %q", tt.expected, out)
			}
		})
	}
}

func TestEval_TableOutput(t *testing.T) {
	out, err := execute(t, addExpr, "eval", "--bind", "x=1", "-o", "json")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, want := range []string{`"vars": [`, `"result"`, `"value": "2"`, `"datatype": "http://www.w3.org/2001/XMLSchema#integer"`} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got %s", want, out)
		}
	}

	out, err = execute(t, addExpr, "eval", "--bind", "x=1", "--ebv", "-o", "json")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, `"boolean": true`) {
		t.Errorf("Expected a boolean result, got %s", out)
	}
}

func TestAggregate(t *testing.T) {
	rows := writeFile(t, "rows.srj", rowsJSON)
	numbers := writeFile(t, "numbers.srj", `{
  "head": {"vars": ["x"]},
  "results": {"bindings": [
    {"x": {"type": "literal", "value": "1", "datatype": "http://www.w3.org/2001/XMLSchema#integer"}},
    {"x": {"type": "literal", "value": "2", "datatype": "http://www.w3.org/2001/XMLSchema#integer"}},
    {"x": {"type": "literal", "value": "2", "datatype": "http://www.w3.org/2001/XMLSchema#integer"}}
  ]}
}`)
	const sumExpr = `{"type":"aggregate","aggregator":"sum","expression":{"type":"variable","name":"x"}}`
	const countAll = `{"type":"aggregate","aggregator":"count","expression":{"type":"wildcard"}}`
	const countDistinct = `{"type":"aggregate","aggregator":"count","distinct":true,"expression":{"type":"variable","name":"x"}}`

	tests := []struct {
		name     string
		stdin    string
		args     []string
		expected string
	}{
		{"sum", sumExpr, []string{"aggregate", "--rows", numbers}, "\"5\"^^<http://www.w3.org/2001/XMLSchema#integer>\n"},
		{"async sum", sumExpr, []string{"aggregate", "--rows", numbers, "--async"}, "\"5\"^^<http://www.w3.org/2001/XMLSchema#integer>\n"},
		{"count distinct", countDistinct, []string{"aggregate", "--rows", numbers}, "\"2\"^^<http://www.w3.org/2001/XMLSchema#integer>\n"},
		{"count wildcard", countAll, []string{"aggregate", "--rows", rows}, "\"4\"^^<http://www.w3.org/2001/XMLSchema#integer>\n"},
		{"poisoned sum", sumExpr, []string{"aggregate", "--rows", rows}, "UNDEF\n"},
		{"tsv", sumExpr, []string{"aggregate", "--rows", numbers, "-o", "tsv"}, "?result\n5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if out != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, out)
			}
		})
	}
}

func TestAggregate_Errors(t *testing.T) {
	rows := writeFile(t, "rows.srj", rowsJSON)
	const sumExpr = `{"type":"aggregate","aggregator":"sum","expression":{"type":"variable","name":"x"}}`

	out, err := execute(t, sumExpr, "aggregate", "--rows", rows, "--throw-errors")
	if !errors.Is(err, errReported) {
		t.Fatalf("Expected the error to be reported, got %v", err)
	}
	if !strings.HasPrefix(out, "error [INVALID_ARGUMENT_TYPES]: ") {
		t.Errorf("Expected an argument type error, got %q", out)
	}

	if _, err := execute(t, addExpr, "aggregate", "--rows", rows); err == nil || errors.Is(err, errReported) {
		t.Errorf("Expected a usage error for a non-aggregate expression, got %v", err)
	}
	if _, err := execute(t, sumExpr, "aggregate"); err == nil {
		t.Error("Expected an error without --rows")
	}
}
