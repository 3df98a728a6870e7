package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipscribe/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check external tools and environment readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			depRows := make([][]string, 0, 4)
			for _, status := range preflight.CheckSystemDeps(cfg) {
				state := "ok"
				detail := status.Description
				if !status.Available {
					state = "missing"
					detail = status.Detail
				}
				depRows = append(depRows, []string{status.Name, status.Command, state, detail})
			}
			fmt.Fprintln(out, renderTable(
				[]tableColumn{{title: "Tool"}, {title: "Command"}, {title: "State"}, {title: "Detail"}},
				depRows,
			))

			checkRows := make([][]string, 0, 4)
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				state := "ok"
				if !result.Passed {
					state = "fail"
				}
				checkRows = append(checkRows, []string{result.Name, state, result.Detail})
			}
			fmt.Fprintln(out, renderTable(
				[]tableColumn{{title: "Check"}, {title: "State"}, {title: "Detail"}},
				checkRows,
			))
			return nil
		},
	}
}
