// Package exprerr defines the typed errors raised while evaluating SPARQL
// expressions.
//
// Most errors are expression errors in the SPARQL sense: a FILTER treats
// them as false and a BIND leaves its variable unbound. The remaining ones
// signal a misconfigured evaluator or a malformed algebra tree and should
// be propagated to the caller. IsExpressionError tells them apart.
package exprerr

import (
	"errors"
	"fmt"
	"strings"
)

// Code identifies the error category
type Code string

const (
	CodeUnboundVariable      Code = "UNBOUND_VARIABLE"
	CodeInvalidLexicalForm   Code = "INVALID_LEXICAL_FORM"
	CodeInvalidArgumentTypes Code = "INVALID_ARGUMENT_TYPES"
	CodeInvalidArity         Code = "INVALID_ARITY"
	CodeCast                 Code = "CAST"
	CodeEBVCoercion          Code = "EBV_COERCION"
	CodeIncompatibleLanguage Code = "INCOMPATIBLE_LANGUAGE_OPERATION"
	CodeCoalesce             Code = "COALESCE"
	CodeIn                   Code = "IN"
	CodeExtensionFunction    Code = "EXTENSION_FUNCTION"
	CodeExpression           Code = "EXPRESSION"
	CodeNoExistenceHook      Code = "NO_EXISTENCE_HOOK"
	CodeNoAggregator         Code = "NO_AGGREGATOR"
	CodeUnknownOperator      Code = "UNKNOWN_OPERATOR"
	CodeUnimplemented        Code = "UNIMPLEMENTED"
)

// Error is implemented by every error in this package
type Error interface {
	error
	Code() Code
}

// CodeOf returns the code of the first Error in err's chain
func CodeOf(err error) (Code, bool) {
	var e Error
	if errors.As(err, &e) {
		return e.Code(), true
	}
	return "", false
}

// IsExpressionError reports whether err is a SPARQL expression error,
// as opposed to a configuration or algebra problem.
func IsExpressionError(err error) bool {
	code, ok := CodeOf(err)
	if !ok {
		return false
	}
	switch code {
	case CodeNoExistenceHook, CodeNoAggregator, CodeUnknownOperator, CodeUnimplemented:
		return false
	default:
		return true
	}
}

// UnboundVariableError is raised when a variable has no value in the binding
type UnboundVariableError struct {
	Name    string
	Binding fmt.Stringer
}

func (e *UnboundVariableError) Error() string {
	return fmt.Sprintf("unbound variable ?%s in binding %v", e.Name, e.Binding)
}

func (e *UnboundVariableError) Code() Code { return CodeUnboundVariable }

// InvalidLexicalFormError is raised when an operation needs the value of a
// literal whose lexical form does not match its datatype
type InvalidLexicalFormError struct {
	Arg fmt.Stringer
}

func (e *InvalidLexicalFormError) Error() string {
	return fmt.Sprintf("invalid lexical form: %v", e.Arg)
}

func (e *InvalidLexicalFormError) Code() Code { return CodeInvalidLexicalForm }

// InvalidArgumentTypesError is raised when no overload matches the argument types
type InvalidArgumentTypesError struct {
	Operator string
	Args     []fmt.Stringer
}

func (e *InvalidArgumentTypesError) Error() string {
	return fmt.Sprintf("argument types not valid for operator %s: %s", e.Operator, joinArgs(e.Args))
}

func (e *InvalidArgumentTypesError) Code() Code { return CodeInvalidArgumentTypes }

// InvalidArityError is raised for a wrong number of arguments
type InvalidArityError struct {
	Operator string
	Got      int
	Expected string
}

func (e *InvalidArityError) Error() string {
	return fmt.Sprintf("operator %s expects %s arguments, got %d", e.Operator, e.Expected, e.Got)
}

func (e *InvalidArityError) Code() Code { return CodeInvalidArity }

// CastError is raised when an XSD constructor cannot represent its argument
type CastError struct {
	Arg    fmt.Stringer
	Target string
}

func (e *CastError) Error() string {
	return fmt.Sprintf("invalid cast of %v to %s", e.Arg, e.Target)
}

func (e *CastError) Code() Code { return CodeCast }

// EBVCoercionError is raised for terms without an effective boolean value
type EBVCoercionError struct {
	Arg fmt.Stringer
}

func (e *EBVCoercionError) Error() string {
	return fmt.Sprintf("cannot coerce term to EBV: %v", e.Arg)
}

func (e *EBVCoercionError) Code() Code { return CodeEBVCoercion }

// IncompatibleLanguageOperationError is raised when a string function
// combines literals whose language tags are not argument-compatible
type IncompatibleLanguageOperationError struct {
	Operator    string
	Left, Right fmt.Stringer
}

func (e *IncompatibleLanguageOperationError) Error() string {
	return fmt.Sprintf("operation %s on incompatible language literals %v and %v", e.Operator, e.Left, e.Right)
}

func (e *IncompatibleLanguageOperationError) Code() Code { return CodeIncompatibleLanguage }

// CoalesceError is raised when every COALESCE branch failed
type CoalesceError struct {
	Errors []error
}

func (e *CoalesceError) Error() string {
	return "all COALESCE arguments threw errors: " + joinErrors(e.Errors)
}

func (e *CoalesceError) Code() Code { return CodeCoalesce }

func (e *CoalesceError) Unwrap() []error { return e.Errors }

// InError is raised when IN found no match but some comparison failed
type InError struct {
	Errors []error
}

func (e *InError) Error() string {
	return "some argument of IN errored and none matched: " + joinErrors(e.Errors)
}

func (e *InError) Code() Code { return CodeIn }

func (e *InError) Unwrap() []error { return e.Errors }

// ExtensionFunctionError wraps a failure of a user-supplied function
type ExtensionFunctionError struct {
	Name string
	Err  error
}

func (e *ExtensionFunctionError) Error() string {
	return fmt.Sprintf("error thrown in extension function %s: %v", e.Name, e.Err)
}

func (e *ExtensionFunctionError) Code() Code { return CodeExtensionFunction }

func (e *ExtensionFunctionError) Unwrap() error { return e.Err }

// ExpressionError is a value-level failure without a dedicated kind, such
// as integer division by zero or an invalid regular expression
type ExpressionError struct {
	Message string
	Err     error
}

// NewExpressionError formats an ExpressionError
func NewExpressionError(format string, args ...any) *ExpressionError {
	return &ExpressionError{Message: fmt.Sprintf(format, args...)}
}

func (e *ExpressionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ExpressionError) Code() Code { return CodeExpression }

func (e *ExpressionError) Unwrap() error { return e.Err }

// NoExistenceHookError is raised for EXISTS without a configured hook
type NoExistenceHookError struct{}

func (e *NoExistenceHookError) Error() string {
	return "EXISTS found, but no existence hook provided"
}

func (e *NoExistenceHookError) Code() Code { return CodeNoExistenceHook }

// NoAggregatorError is raised for an aggregate without a configured hook
type NoAggregatorError struct{}

func (e *NoAggregatorError) Error() string {
	return "aggregate expression found, but no aggregate hook provided"
}

func (e *NoAggregatorError) Code() Code { return CodeNoAggregator }

// UnknownOperatorError is raised for operator or function names the
// evaluator does not define
type UnknownOperatorError struct {
	Name string
}

func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("unknown operator: %q", e.Name)
}

func (e *UnknownOperatorError) Code() Code { return CodeUnknownOperator }

// UnimplementedError is raised for algebra the evaluator cannot handle
type UnimplementedError struct {
	Feature string
}

func (e *UnimplementedError) Error() string {
	return fmt.Sprintf("unimplemented feature: %s", e.Feature)
}

func (e *UnimplementedError) Code() Code { return CodeUnimplemented }

func joinArgs(args []fmt.Stringer) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if a == nil {
			parts[i] = "<nil>"
			continue
		}
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}

func joinErrors(errs []error) string {
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		if err == nil {
			continue
		}
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "; ")
}
