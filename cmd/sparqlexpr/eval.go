package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aleksaelezovic/sparqlexpr/pkg/rdf"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/algebra"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/evaluator"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/exprerr"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/terms"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/types"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/types/badgercache"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/results"
)

type evalOptions struct {
	bindings     []string
	now          string
	baseIRI      string
	timezone     string
	async        bool
	ebv          bool
	typeCacheDir string
	cacheSize    int
	supertypes   []string
	rows         string
	output       string
}

// evalResult is what eval prints. Exactly one of Term, EBV and Error is set,
// except for an unbound result where all are empty.
type evalResult struct {
	Term     string `yaml:"term,omitempty"`
	Datatype string `yaml:"datatype,omitempty"`
	EBV      *bool  `yaml:"ebv,omitempty"`
	Error    string `yaml:"error,omitempty"`
	Code     string `yaml:"code,omitempty"`

	term rdf.Term
}

func newEvalCommand(root *rootOptions) *cobra.Command {
	opts := &evalOptions{}

	cmd := &cobra.Command{
		Use:   "eval [file]",
		Short: "Evaluate one expression",
		Long: `Evaluate a JSON algebra expression read from file, or from stdin when the
file is omitted or "-".

Bindings are given in N-Triples term syntax:

  sparqlexpr eval expr.json --bind x=1 --bind 'name="Alice"@en'

With --rows the expression is evaluated against every row of a SPARQL JSON
results file; a row that fails to evaluate yields an unbound result.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return runEval(cmd.Context(), root, opts, path, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringArrayVarP(&opts.bindings, "bind", "b", nil, "variable binding as name=term (repeatable)")
	cmd.Flags().StringVar(&opts.now, "now", "", "value of NOW() as RFC 3339 (default: current time)")
	cmd.Flags().StringVar(&opts.baseIRI, "base-iri", "", "base IRI for relative IRI()")
	cmd.Flags().StringVar(&opts.timezone, "timezone", "", "implicit timezone as Z or +hh:mm (default: timezone of --now)")
	cmd.Flags().BoolVar(&opts.async, "async", false, "use the async evaluator")
	cmd.Flags().BoolVar(&opts.ebv, "ebv", false, "print the effective boolean value")
	cmd.Flags().StringVar(&opts.typeCacheDir, "type-cache-dir", "", "directory of a persistent open-world type cache")
	cmd.Flags().IntVar(&opts.cacheSize, "cache-size", 0, "overload cache size, negative to disable")
	cmd.Flags().StringArrayVar(&opts.supertypes, "supertype", nil, "open-world datatype as iri=parent-iri (repeatable)")
	cmd.Flags().StringVar(&opts.rows, "rows", "", "SPARQL JSON results file; evaluate once per row")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "text", "output format (text|yaml|json|csv|tsv)")

	return cmd
}

func readExpression(path string, stdin io.Reader) (algebra.Expression, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read expression: %w", err)
	}
	return algebra.Decode(data)
}

// parseSupertypes turns iri=parent pairs into a discoverer
func parseSupertypes(pairs []string) (types.Discoverer, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	parents := make(map[string]string, len(pairs))
	for _, p := range pairs {
		child, parent, ok := strings.Cut(p, "=")
		if !ok || child == "" || parent == "" {
			return nil, fmt.Errorf("invalid supertype %q: expected iri=parent-iri", p)
		}
		parents[child] = parent
	}
	return types.DiscovererFunc(func(datatype string) string {
		if parent, ok := parents[datatype]; ok {
			return parent
		}
		return types.Term
	}), nil
}

// evaluatorConfig builds the evaluator config. The returned close function
// releases the type cache.
func evaluatorConfig(root *rootOptions, opts *evalOptions) (*evaluator.Config, func() error, error) {
	cfg := &evaluator.Config{
		BaseIRI:   opts.baseIRI,
		CacheSize: opts.cacheSize,
		Logger:    root.logger,
	}
	closer := func() error { return nil }

	if opts.now != "" {
		now, err := time.Parse(time.RFC3339Nano, opts.now)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid --now: %w", err)
		}
		cfg.Now = now
	}
	if opts.timezone != "" {
		loc, err := terms.ParseTimeZone(opts.timezone)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid --timezone: %w", err)
		}
		cfg.DefaultTimeZone = loc
	}

	discoverer, err := parseSupertypes(opts.supertypes)
	if err != nil {
		return nil, nil, err
	}
	cfg.Discoverer = discoverer

	if opts.typeCacheDir != "" {
		cache, err := badgercache.Open(opts.typeCacheDir, root.logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open type cache: %w", err)
		}
		cfg.TypeCache = cache
		closer = cache.Close
	}
	return cfg, closer, nil
}

func runEval(ctx context.Context, root *rootOptions, opts *evalOptions, path string, stdin io.Reader, out io.Writer) (err error) {
	if err := checkOutput(opts.output); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	expr, err := readExpression(path, stdin)
	if err != nil {
		return err
	}
	var table *results.Table
	if opts.rows != "" {
		if table, err = readRows(opts.rows); err != nil {
			return err
		}
	}
	binding, err := rdf.ParseBinding(opts.bindings)
	if err != nil {
		return err
	}
	cfg, closeCache, err := evaluatorConfig(root, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeCache(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close type cache: %w", cerr)
		}
	}()

	eval, err := newRowEvaluator(expr, cfg, opts)
	if err != nil {
		res := errorResult(err)
		if werr := writeResult(out, opts.output, res); werr != nil {
			return werr
		}
		return errReported
	}

	if table == nil {
		root.logger.WithField("binding", binding.String()).Debug("Evaluating expression")
		res := eval(ctx, binding)
		if werr := writeResult(out, opts.output, res); werr != nil {
			return werr
		}
		if res.Error != "" {
			return errReported
		}
		return nil
	}

	// Rows behave like BIND: an error leaves the result unbound
	res := make([]evalResult, len(table.Rows))
	for i, row := range table.Rows {
		res[i] = eval(ctx, merge(binding, row))
		if res[i].Error != "" {
			root.logger.WithFields(logrus.Fields{"row": i, "error": res[i].Error}).Debug("Row evaluation failed")
		}
	}
	return writeResults(out, opts.output, res)
}

// merge layers row over the bindings given on the command line
func merge(base, row rdf.Binding) rdf.Binding {
	if len(base) == 0 {
		return row
	}
	b := make(rdf.Binding, len(base)+len(row))
	for k, v := range base {
		b[k] = v
	}
	for k, v := range row {
		b[k] = v
	}
	return b
}

func readRows(path string) (*results.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rows: %w", err)
	}
	defer f.Close()
	return results.ReadJSON(f)
}

type rowEvaluator func(ctx context.Context, binding rdf.Binding) evalResult

func newRowEvaluator(expr algebra.Expression, cfg *evaluator.Config, opts *evalOptions) (rowEvaluator, error) {
	if opts.async {
		ev, err := evaluator.NewAsyncEvaluator(expr, cfg)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context, b rdf.Binding) evalResult {
			if opts.ebv {
				return ebvResult(ev.EvaluateAsEBV(ctx, b))
			}
			return termResult(ev.EvaluateAsInternal(ctx, b))
		}, nil
	}

	ev, err := evaluator.NewSyncEvaluator(expr, cfg)
	if err != nil {
		return nil, err
	}
	return func(_ context.Context, b rdf.Binding) evalResult {
		if opts.ebv {
			return ebvResult(ev.EvaluateAsEBV(b))
		}
		return termResult(ev.EvaluateAsInternal(b))
	}, nil
}

func errorResult(err error) evalResult {
	res := evalResult{Error: err.Error()}
	if code, ok := exprerr.CodeOf(err); ok {
		res.Code = string(code)
	}
	return res
}

func ebvResult(ebv bool, err error) evalResult {
	if err != nil {
		return errorResult(err)
	}
	return evalResult{EBV: &ebv}
}

func termResult(term terms.Term, err error) evalResult {
	if err != nil {
		return errorResult(err)
	}
	if term == nil {
		return evalResult{}
	}
	res := evalResult{Term: term.ToRDF().String(), term: term.ToRDF()}
	if lit, ok := term.(terms.Literal); ok {
		res.Datatype = lit.Datatype()
	}
	return res
}

// rdfTerm is the result as a term, EBVs becoming xsd:boolean
func (r evalResult) rdfTerm() rdf.Term {
	if r.EBV != nil {
		return rdf.NewBooleanLiteral(*r.EBV)
	}
	return r.term
}

var outputFormats = []string{"text", "yaml", "json", "csv", "tsv"}

func checkOutput(format string) error {
	for _, f := range outputFormats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("invalid output format %q: must be one of %s", format, strings.Join(outputFormats, ", "))
}

func writeResult(w io.Writer, format string, res evalResult) error {
	switch format {
	case "yaml":
		return writeYAML(w, res)
	case "text":
		return writeText(w, res)
	}

	// a failed evaluation has no table form
	if res.Error != "" {
		return writeText(w, res)
	}
	rf, err := results.ParseFormat(format)
	if err != nil {
		return err
	}
	if res.EBV != nil {
		return results.WriteBoolean(w, rf, *res.EBV)
	}
	return results.Write(w, rf, resultTable([]evalResult{res}))
}

func writeResults(w io.Writer, format string, res []evalResult) error {
	switch format {
	case "yaml":
		return writeYAML(w, res)
	case "text":
		for _, r := range res {
			if err := writeText(w, r); err != nil {
				return err
			}
		}
		return nil
	}
	rf, err := results.ParseFormat(format)
	if err != nil {
		return err
	}
	return results.Write(w, rf, resultTable(res))
}

func resultTable(res []evalResult) *results.Table {
	rows := make([]rdf.Binding, len(res))
	for i, r := range res {
		rows[i] = rdf.NewBinding("result", r.rdfTerm())
	}
	return results.NewTable([]string{"result"}, rows)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return enc.Close()
}

func writeText(w io.Writer, res evalResult) error {
	var err error
	switch {
	case res.Error != "" && res.Code != "":
		_, err = fmt.Fprintf(w, "error [%s]: %s\n", res.Code, res.Error)
	case res.Error != "":
		_, err = fmt.Fprintf(w, "error: %s\n", res.Error)
	case res.EBV != nil:
		_, err = fmt.Fprintln(w, *res.EBV)
	case res.Term == "":
		_, err = fmt.Fprintln(w, "UNDEF")
	default:
		_, err = fmt.Fprintln(w, res.Term)
	}
	return err
}
