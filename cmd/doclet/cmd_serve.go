package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/dhamidi/doclet/codebase"
	"github.com/dhamidi/doclet/config"
	"github.com/dhamidi/doclet/mcpserver"
)

func codebaseOptions(cfg *config.Config) []codebase.Option {
	return []codebase.Option{
		codebase.WithLoadOptions(cfg.LoadOptions()...),
		codebase.WithWorkers(cfg.Workers),
	}
}

func newWatchCmd(a *app) *cobra.Command {
	var (
		input  inputFlags
		output outputFlags
	)

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Regenerate the documentation whenever an input file changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			output.apply(cmd, a.cfg)
			if err := input.apply(cmd, a.cfg); err != nil {
				return err
			}
			w, err := a.cfg.Writer()
			if err != nil {
				return err
			}
			c := codebase.New(inputPaths(args), append(codebaseOptions(a.cfg), codebase.WithEmitter(w))...)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if _, err := c.Rebuild(ctx); err != nil {
				pterm.Error.Printf("%v\n", err)
			} else {
				pterm.Success.Printf("Wrote %s\n", a.cfg.Output.Dir)
			}

			watcher, err := codebase.NewWatcher(c)
			if err != nil {
				return err
			}
			defer watcher.Stop()
			watcher.OnBuild(func(snap *codebase.Snapshot, err error) {
				if err != nil {
					pterm.Error.Printf("%v\n", err)
					return
				}
				pterm.Success.Printf("Rebuilt %d types, %d unresolved references\n",
					len(snap.Result.View.Types()), snap.Result.Report.Unresolved)
			})
			watcher.Start(ctx)
			pterm.Info.Println("Watching for changes, press Ctrl-C to stop")

			<-ctx.Done()
			return nil
		},
	}

	input.register(cmd)
	output.register(cmd)
	return cmd
}

func newLSPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := codebase.NewLSPServer(version, codebaseOptions(a.cfg)...)
			return server.RunStdio()
		},
	}
}

func newMCPCmd(a *app) *cobra.Command {
	var input inputFlags

	cmd := &cobra.Command{
		Use:   "mcp [paths...]",
		Short: "Serve the documentation to MCP clients over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := input.apply(cmd, a.cfg); err != nil {
				return err
			}
			c := codebase.New(inputPaths(args), codebaseOptions(a.cfg)...)
			if _, err := c.Rebuild(cmd.Context()); err != nil {
				return err
			}
			watcher, err := codebase.NewWatcher(c)
			if err != nil {
				return err
			}
			defer watcher.Stop()
			watcher.Start(cmd.Context())

			return mcpserver.NewServer(c, version).ServeStdio()
		},
	}

	input.register(cmd)
	return cmd
}
