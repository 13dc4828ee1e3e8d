package algebra

import (
	"encoding/json"
	"fmt"

	"github.com/aleksaelezovic/sparqlexpr/pkg/rdf"
)

// node is the JSON wire shape of an expression. Terms are written in
// N-Triples syntax.
type node struct {
	Type       ExpressionType    `json:"type"`
	Term       string            `json:"term,omitempty"`
	Name       string            `json:"name,omitempty"`
	Operator   string            `json:"operator,omitempty"`
	Args       []json.RawMessage `json:"args,omitempty"`
	Aggregator string            `json:"aggregator,omitempty"`
	Distinct   bool              `json:"distinct,omitempty"`
	Separator  string            `json:"separator,omitempty"`
	Expression json.RawMessage   `json:"expression,omitempty"`
	Not        bool              `json:"not,omitempty"`
	Input      json.RawMessage   `json:"input,omitempty"`
}

// Decode reads an expression tree from its JSON form, e.g.
//
//	{"type":"operator","operator":"+","args":[
//	  {"type":"variable","name":"x"},
//	  {"type":"term","term":"\"1\"^^<http://www.w3.org/2001/XMLSchema#integer>"}]}
func Decode(data []byte) (Expression, error) {
	var n node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("failed to decode expression: %w", err)
	}

	switch n.Type {
	case ExpressionTypeTerm:
		term, err := rdf.ParseTerm(n.Term)
		if err != nil {
			return nil, fmt.Errorf("invalid term %q: %w", n.Term, err)
		}
		return Term(term), nil

	case ExpressionTypeVariable:
		if n.Name == "" {
			return nil, fmt.Errorf("variable expression without name")
		}
		return Variable(n.Name), nil

	case ExpressionTypeOperator:
		args, err := decodeArgs(n.Args)
		if err != nil {
			return nil, err
		}
		return Operator(n.Operator, args...), nil

	case ExpressionTypeNamed:
		args, err := decodeArgs(n.Args)
		if err != nil {
			return nil, err
		}
		return Named(n.Name, args...), nil

	case ExpressionTypeAggregate:
		if len(n.Expression) == 0 {
			return nil, fmt.Errorf("aggregate %q without expression", n.Aggregator)
		}
		inner, err := Decode(n.Expression)
		if err != nil {
			return nil, err
		}
		return &AggregateExpression{
			Aggregator: n.Aggregator,
			Distinct:   n.Distinct,
			Separator:  n.Separator,
			Expression: inner,
		}, nil

	case ExpressionTypeExistence:
		var input any
		if len(n.Input) > 0 {
			if err := json.Unmarshal(n.Input, &input); err != nil {
				return nil, fmt.Errorf("failed to decode existence input: %w", err)
			}
		}
		return &ExistenceExpression{Not: n.Not, Input: input}, nil

	case ExpressionTypeWildcard:
		return &WildcardExpression{}, nil

	default:
		return nil, fmt.Errorf("unknown expression type %q", n.Type)
	}
}

func decodeArgs(raw []json.RawMessage) ([]Expression, error) {
	args := make([]Expression, 0, len(raw))
	for i, r := range raw {
		arg, err := Decode(r)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		args = append(args, arg)
	}
	return args, nil
}
