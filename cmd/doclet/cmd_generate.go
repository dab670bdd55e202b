package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/dhamidi/doclet/config"
	"github.com/dhamidi/doclet/doc"
	"github.com/dhamidi/doclet/java"
)

// build loads the inputs under paths and runs the pipeline, handing the
// result to emit when it is not nil.
func build(cmd *cobra.Command, a *app, paths []string, emit doc.Emitter) (*doc.Result, error) {
	root, err := java.Load(cmd.Context(), paths, a.cfg.LoadOptions()...)
	if err != nil {
		return nil, err
	}
	run := doc.NewRun(doc.WithWorkers(a.cfg.Workers), doc.WithLogger(a.log))
	return doc.Generate(run, root, emit)
}

// outputFlags override the [output] section of the configuration.
type outputFlags struct {
	dir      string
	format   string
	layout   string
	compress bool
	css      string
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.dir, "output", "o", "docs", "destination directory")
	cmd.Flags().StringVarP(&f.format, "format", "f", "markdown", "output format (markdown, html, json)")
	cmd.Flags().StringVar(&f.layout, "layout", "type", "one unit per type or per package (type, package)")
	cmd.Flags().BoolVar(&f.compress, "compress", false, "write zstd compressed units")
	cmd.Flags().StringVar(&f.css, "css", "", "stylesheet linked from HTML pages")
}

func (f *outputFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output.Dir = f.dir
	}
	if flags.Changed("format") {
		cfg.Output.Format = f.format
	}
	if flags.Changed("layout") {
		cfg.Output.Layout = f.layout
	}
	if flags.Changed("compress") {
		cfg.Output.Compress = f.compress
	}
	if flags.Changed("css") {
		cfg.Output.CSS = f.css
	}
}

func newGenerateCmd(a *app) *cobra.Command {
	var (
		input  inputFlags
		output outputFlags
	)

	cmd := &cobra.Command{
		Use:   "generate [paths...]",
		Short: "Write cross-referenced documentation for Java sources and API models",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			output.apply(cmd, cfg)
			if err := input.apply(cmd, cfg); err != nil {
				return err
			}

			w, err := cfg.Writer()
			if err != nil {
				return err
			}
			res, err := build(cmd, a, inputPaths(args), w)
			if err != nil {
				return err
			}
			pterm.Success.Printf("Documented %d types in %d packages to %s\n",
				len(res.View.Types()), len(res.View.Packages), cfg.Output.Dir)
			if res.Report.Unresolved > 0 {
				pterm.Warning.Printf("%d of %d references unresolved, see `doclet refs --unresolved`\n",
					res.Report.Unresolved, res.Report.Resolved+res.Report.Unresolved)
			}
			return nil
		},
	}

	input.register(cmd)
	output.register(cmd)

	return cmd
}
