package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/types"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/types/badgercache"
)

type typesOptions struct {
	typeCacheDir string
	supertypes   []string
	widen        bool
}

func newTypesCommand(root *rootOptions) *cobra.Command {
	opts := &typesOptions{}

	cmd := &cobra.Command{
		Use:   "types <datatype-iri>...",
		Short: "Print the super-type chain of datatypes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTypes(root, opts, args, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.typeCacheDir, "type-cache-dir", "", "directory of a persistent open-world type cache")
	cmd.Flags().StringArrayVar(&opts.supertypes, "supertype", nil, "open-world datatype as iri=parent-iri (repeatable)")
	cmd.Flags().BoolVar(&opts.widen, "widen", false, "also print the common supertype of all datatypes")

	return cmd
}

func runTypes(root *rootOptions, opts *typesOptions, datatypes []string, out io.Writer) error {
	discoverer, err := parseSupertypes(opts.supertypes)
	if err != nil {
		return err
	}
	latticeOpts := []types.Option{types.WithDiscoverer(discoverer), types.WithLogger(root.logger)}
	if opts.typeCacheDir != "" {
		cache, err := badgercache.Open(opts.typeCacheDir, root.logger)
		if err != nil {
			return fmt.Errorf("failed to open type cache: %w", err)
		}
		defer cache.Close()
		latticeOpts = append(latticeOpts, types.WithCache(cache))
	}
	lattice := types.NewLattice(latticeOpts...)

	for _, dt := range datatypes {
		if _, err := fmt.Fprintln(out, strings.Join(lattice.SuperTypes(dt).Chain(), " -> ")); err != nil {
			return err
		}
	}
	if opts.widen {
		if _, err := fmt.Fprintf(out, "widening: %s\n", lattice.TypeWidening(datatypes...)); err != nil {
			return err
		}
	}
	return nil
}
