package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "sparqlexpr"

// errReported is returned once a failure has already been written to the
// command output
var errReported = errors.New("reported")

type rootOptions struct {
	verbose    bool
	configFile string
	logger     *logrus.Logger
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{logger: logrus.New()}

	cmd := &cobra.Command{
		Use:   "sparqlexpr",
		Short: "Evaluate SPARQL expressions",
		Long: `Evaluate SPARQL expressions given as JSON algebra against variable bindings.

Every flag can also be set in the file passed with --config, or through an
environment variable such as SPARQLEXPR_BASE_IRI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opts.logger.SetOutput(cmd.ErrOrStderr())
			if err := loadConfig(cmd, opts.configFile); err != nil {
				return err
			}
			if opts.verbose {
				opts.logger.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML file with flag defaults")

	cmd.AddCommand(newEvalCommand(opts))
	cmd.AddCommand(newAggregateCommand(opts))
	cmd.AddCommand(newTypesCommand(opts))

	return cmd
}

// loadConfig fills every flag the user did not set from the config file or
// the environment, the environment taking precedence
func loadConfig(cmd *cobra.Command, configFile string) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	}

	var errs []string
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed || f.Name == "config" || !v.IsSet(f.Name) {
			return
		}
		var err error
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			err = sv.Replace(v.GetStringSlice(f.Name))
		} else {
			err = f.Value.Set(v.GetString(f.Name))
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", f.Name, err))
		}
	})
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}
