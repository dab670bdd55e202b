package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/doclet/format"
)

func newDumpCmd(a *app) *cobra.Command {
	var (
		input      inputFlags
		dumpFormat string
	)

	cmd := &cobra.Command{
		Use:   "dump [paths...]",
		Short: "Dump the resolved document model",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := input.apply(cmd, a.cfg); err != nil {
				return err
			}

			var enc format.Encoder
			switch dumpFormat {
			case "json":
				enc = format.NewJSONEncoder(os.Stdout)
			case "line":
				enc = format.NewLineEncoder(os.Stdout)
			default:
				return fmt.Errorf("unknown format: %s (expected json or line)", dumpFormat)
			}

			res, err := build(cmd, a, inputPaths(args), nil)
			if err != nil {
				return err
			}
			if err := enc.Encode(res.Model); err != nil {
				return fmt.Errorf("encode %s: %w", dumpFormat, err)
			}
			return nil
		},
	}

	input.register(cmd)
	cmd.Flags().StringVarP(&dumpFormat, "format", "f", "line", "output format (json, line)")

	return cmd
}
