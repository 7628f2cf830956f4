package main

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"partialgen/internal/config"
	"partialgen/internal/diagnostic"
	"partialgen/internal/gen"
	"partialgen/internal/logging"
	"partialgen/internal/pipeline"
)

// errDiagnostics signals a run that reported errors; they are already printed.
var errDiagnostics = errors.New("generation reported errors")

// app carries the state shared by the subcommands.
type app struct {
	v          *viper.Viper
	configPath string
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}

	root := &cobra.Command{
		Use:           "partialgen",
		Short:         "Generate partial companions of annotated Go types",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if a.configPath == "" {
				return nil
			}

			a.v.SetConfigFile(a.configPath)
			a.v.SetConfigType("yaml")

			return errors.Wrapf(a.v.ReadInConfig(), "reading config file %s", a.configPath)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	flags.Int("workers", 0, "maximum number of declarations processed in parallel (0: GOMAXPROCS)")
	flags.Bool("json-logs", false, "log as JSON")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.StringSlice("build-flags", nil, "build flags passed to the package loader")
	flags.Bool("tests", false, "also read _test.go files")
	flags.String("opt-import", "", "import path of the package providing opt.Field")

	for key, name := range map[string]string{
		"workers":     "workers",
		"log.json":    "json-logs",
		"log.level":   "log-level",
		"build_flags": "build-flags",
		"tests":       "tests",
		"opt_import":  "opt-import",
	} {
		if err := a.v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	root.AddCommand(a.genCmd(), a.checkCmd(), a.configCmd())

	return root
}

func (a *app) genCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "gen [packages...]",
		Short: "Write the partials of every annotated declaration",
		Long: `Write <type>_partial.go next to each annotated declaration.

Packages are go/packages patterns and default to "./...".
With --dry-run nothing is written; the files that would be written are listed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var target gen.Target = gen.NewDirTarget()
			if dryRun {
				target = gen.NewMemoryTarget()
			}

			res, err := a.run(cmd, target, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, f := range res.Generated {
				verb := "wrote"
				if dryRun {
					verb = "would write"
				}

				fmt.Fprintf(out, "%s %s\n", verb, f.Path)
			}

			return exitStatus(res)
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "do not write files")

	return cmd
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [packages...]",
		Short: "Report diagnostics without writing files",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.run(cmd, gen.NewMemoryTarget(), args)
			if err != nil {
				return err
			}

			return exitStatus(res)
		},
	}
}

func (a *app) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.FromViper(a.v)
			if err != nil {
				return err
			}

			out, err := cfg.YAML()
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(out)

			return err
		},
	}
}

// run executes the pipeline and prints its diagnostics to stderr.
func (a *app) run(cmd *cobra.Command, target gen.Target, patterns []string) (*pipeline.Result, error) {
	cfg, err := config.FromViper(a.v)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	defer func() { _ = logger.Sync() }()

	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	res, err := pipeline.Run(cmd.Context(), cfg, target, logger, patterns...)
	if err != nil {
		logger.Error("generation stopped", zap.Error(err))
		return nil, err
	}

	printDiagnostics(cmd.ErrOrStderr(), res.Diagnostics)

	return res, nil
}

func exitStatus(res *pipeline.Result) error {
	if res.HasErrors() {
		return errDiagnostics
	}

	return nil
}

// printDiagnostics writes one line per diagnostic followed by its suggestions.
func printDiagnostics(w io.Writer, diags []diagnostic.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, d.String())

		for _, s := range d.Suggestions {
			fmt.Fprintf(w, "\thint: %s\n", s)
		}
	}
}
