package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/doclet/config"
)

const version = "0.1.0"

// app holds the configuration every subcommand starts from.
type app struct {
	configFile string
	verbosity  int
	cfg        *config.Config
	log        commonlog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:          "doclet",
		Short:        "Cross-referenced documentation for Java APIs",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default doclet.{toml,yaml,json})")
	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", "log more, repeat for debug output")

	rootCmd.AddCommand(newGenerateCmd(a))
	rootCmd.AddCommand(newDumpCmd(a))
	rootCmd.AddCommand(newRefsCmd(a))
	rootCmd.AddCommand(newWatchCmd(a))
	rootCmd.AddCommand(newLSPCmd(a))
	rootCmd.AddCommand(newMCPCmd(a))

	return rootCmd
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.verbosity > 0 {
		cfg.Log.Verbosity = a.verbosity
	}
	var logPath *string
	if cfg.Log.Path != "" {
		logPath = &cfg.Log.Path
	}
	commonlog.Configure(cfg.Log.Verbosity, logPath)
	a.log = commonlog.GetLogger("doclet")
	if cfg.File != "" {
		a.log.Debugf("using config %s", cfg.File)
	}
	a.cfg = cfg
	return nil
}

// inputFlags are shared by every command that reads sources.
type inputFlags struct {
	exclude    []string
	visibility string
	workers    int
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", nil, "gitignore style patterns of files to skip")
	cmd.Flags().StringVar(&f.visibility, "visibility", "", "drop declarations less visible than this (public, protected, package, private)")
	cmd.Flags().IntVar(&f.workers, "workers", 1, "parallel parse and extraction workers")
}

// apply overrides the configuration with the flags given on the command line.
func (f *inputFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("exclude") {
		cfg.Input.Exclude = append(cfg.Input.Exclude, f.exclude...)
	}
	if cmd.Flags().Changed("visibility") {
		cfg.Input.Visibility = f.visibility
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = f.workers
	}
	return cfg.Validate()
}

func inputPaths(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}
