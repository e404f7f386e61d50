package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"shireesh.com/bootgen/internal/generator"
	"shireesh.com/bootgen/internal/logs"
)

func newPlanCmd(r *run) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Print the tasks a generation would run, without running them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := r.config(cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			p, err := generator.Plan(cfg, generator.Options{Store: r.store, Logger: logs.L()})
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), p.String())
			return err
		},
	}
}
