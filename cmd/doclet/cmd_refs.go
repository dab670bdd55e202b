package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/dhamidi/doclet/doc"
)

func newRefsCmd(a *app) *cobra.Command {
	var (
		input          inputFlags
		unresolvedOnly bool
	)

	cmd := &cobra.Command{
		Use:   "refs [paths...]",
		Short: "Show how every cross reference resolved",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := input.apply(cmd, a.cfg); err != nil {
				return err
			}
			res, err := build(cmd, a, inputPaths(args), nil)
			if err != nil {
				return err
			}

			data := pterm.TableData{{"Owner", "Reference", "Target"}}
			for _, e := range res.Model.Entities() {
				for _, ref := range e.References() {
					if unresolvedOnly && ref.Resolved() {
						continue
					}
					data = append(data, []string{string(e.Name), ref.Text, target(ref)})
				}
			}
			if len(data) > 1 {
				if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
					return err
				}
			}
			pterm.Info.Printf("%d resolved, %d unresolved\n", res.Report.Resolved, res.Report.Unresolved)
			return nil
		},
	}

	input.register(cmd)
	cmd.Flags().BoolVar(&unresolvedOnly, "unresolved", false, "only list references that did not resolve")

	return cmd
}

func target(ref *doc.Reference) string {
	if ref.Resolved() {
		return string(ref.Target)
	}
	return pterm.Yellow(ref.State.String())
}
