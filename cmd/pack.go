package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"shireesh.com/bootgen/internal/templates"
)

func newPackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pack <template-dir> <pack.zip>",
		Short: "Zip a template tree into a pack usable with --templates",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := templates.Pack(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("packed"), args[0], "->", args[1])
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir>",
		Short: "Write the built-in templates to a directory for customising",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := templates.Embedded().Export(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("exported"), args[0])
			return nil
		},
	}
}
