package cmd

import (
	"fmt"

	"github.com/docuflow/docuflow/internal/models"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check whether the docuflow service is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Backend %s: ", a.api.BaseURL())

			status := a.probe.Check(cmd.Context())
			if status != models.StatusConnected {
				color.New(color.FgRed).Fprintln(out, "Backend Error")
				return fmt.Errorf("backend at %s is not healthy", a.api.BaseURL())
			}

			color.New(color.FgGreen).Fprintln(out, "Backend Connected")
			return nil
		},
	}
}
