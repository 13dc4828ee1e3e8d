package exprerr

import (
	"errors"
	"fmt"
	"testing"
)

type stringer string

func (s stringer) String() string { return string(s) }

func TestIsExpressionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"unbound variable", &UnboundVariableError{Name: "x", Binding: stringer("{}")}, true},
		{"wrapped cast error", fmt.Errorf("bind: %w", &CastError{Arg: stringer(`"a"`), Target: "integer"}), true},
		{"in error", &InError{Errors: []error{&EBVCoercionError{Arg: stringer("x")}}}, true},
		{"no existence hook", &NoExistenceHookError{}, false},
		{"no aggregator", &NoAggregatorError{}, false},
		{"unknown operator", &UnknownOperatorError{Name: "foo"}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsExpressionError(tt.err); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestAggregateErrorsUnwrap(t *testing.T) {
	inner := &EBVCoercionError{Arg: stringer(`"x"^^<http://example.org/t>`)}
	err := &CoalesceError{Errors: []error{errors.New("first"), inner}}

	var ebv *EBVCoercionError
	if !errors.As(err, &ebv) {
		t.Fatal("Expected CoalesceError to unwrap to its branch errors")
	}
	if code, _ := CodeOf(err); code != CodeCoalesce {
		t.Errorf("Expected code %s, got %s", CodeCoalesce, code)
	}
}

func TestExtensionFunctionErrorUnwrap(t *testing.T) {
	cause := errors.New("remote failure")
	err := &ExtensionFunctionError{Name: "http://example.org/f", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("Expected ExtensionFunctionError to wrap its cause")
	}
	expected := "error thrown in extension function http://example.org/f: remote failure"
	if err.Error() != expected {
		t.Errorf("Expected %q, got %q", expected, err.Error())
	}
}
