package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aleksaelezovic/sparqlexpr/pkg/rdf"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/algebra"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/aggregate"
)

type aggregateOptions struct {
	evalOptions
	throwErrors bool
}

func newAggregateCommand(root *rootOptions) *cobra.Command {
	opts := &aggregateOptions{}

	cmd := &cobra.Command{
		Use:   "aggregate [file]",
		Short: "Aggregate an expression over rows",
		Long: `Compute a JSON algebra aggregate expression, such as
{"type":"aggregate","aggregator":"sum","expression":{"type":"variable","name":"x"}},
over the rows of a SPARQL JSON results file. The rows form a single group.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return runAggregate(cmd.Context(), root, opts, path, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.rows, "rows", "", "SPARQL JSON results file with the rows of the group")
	cmd.Flags().StringVar(&opts.now, "now", "", "value of NOW() as RFC 3339 (default: current time)")
	cmd.Flags().StringVar(&opts.baseIRI, "base-iri", "", "base IRI for relative IRI()")
	cmd.Flags().StringVar(&opts.timezone, "timezone", "", "implicit timezone as Z or +hh:mm (default: timezone of --now)")
	cmd.Flags().BoolVar(&opts.async, "async", false, "use the async evaluator")
	cmd.Flags().StringVar(&opts.typeCacheDir, "type-cache-dir", "", "directory of a persistent open-world type cache")
	cmd.Flags().IntVar(&opts.cacheSize, "cache-size", 0, "overload cache size, negative to disable")
	cmd.Flags().StringArrayVar(&opts.supertypes, "supertype", nil, "open-world datatype as iri=parent-iri (repeatable)")
	cmd.Flags().BoolVar(&opts.throwErrors, "throw-errors", false, "fail on the first evaluation error instead of an unbound result")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "text", "output format (text|yaml|json|csv|tsv)")

	return cmd
}

type aggregateResult interface {
	Result() (rdf.Term, error)
}

func runAggregate(ctx context.Context, root *rootOptions, opts *aggregateOptions, path string, stdin io.Reader, out io.Writer) (err error) {
	if err := checkOutput(opts.output); err != nil {
		return err
	}
	if opts.rows == "" {
		return fmt.Errorf("--rows is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	expr, err := readExpression(path, stdin)
	if err != nil {
		return err
	}
	aggExpr, ok := expr.(*algebra.AggregateExpression)
	if !ok {
		return fmt.Errorf("expected an aggregate expression, got %s", expr.ExpressionType())
	}
	table, err := readRows(opts.rows)
	if err != nil {
		return err
	}
	evalCfg, closeCache, err := evaluatorConfig(root, &opts.evalOptions)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeCache(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close type cache: %w", cerr)
		}
	}()
	cfg := &aggregate.Config{Config: *evalCfg, ThrowErrors: opts.throwErrors}

	var agg aggregateResult
	if opts.async {
		a, aerr := aggregate.NewAsyncAggregateEvaluator(aggExpr, cfg)
		if aerr == nil {
			agg = a
			for _, row := range table.Rows {
				if aerr = a.PutBinding(ctx, row); aerr != nil {
					break
				}
			}
		}
		err = aerr
	} else {
		a, aerr := aggregate.NewSyncAggregateEvaluator(aggExpr, cfg)
		if aerr == nil {
			agg = a
			for _, row := range table.Rows {
				if aerr = a.PutBinding(row); aerr != nil {
					break
				}
			}
		}
		err = aerr
	}

	var term rdf.Term
	if err == nil {
		term, err = agg.Result()
	}
	if err != nil {
		if werr := writeResult(out, opts.output, errorResult(err)); werr != nil {
			return werr
		}
		return errReported
	}

	root.logger.WithField("rows", len(table.Rows)).Debug("Aggregated rows")
	res := evalResult{term: term}
	if term != nil {
		res.Term = term.String()
		if lit, ok := term.(*rdf.Literal); ok {
			res.Datatype = lit.DatatypeIRI()
		}
	}
	return writeResult(out, opts.output, res)
}
