package cmd

import (
	"fmt"
	"strings"

	"github.com/docuflow/docuflow/internal/workbook"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	var sheetName string

	cmd := &cobra.Command{
		Use:   "inspect <spreadsheet>",
		Short: "List the sheets and columns of a spreadsheet",
		Long: `Lists every sheet in a workbook with its header row, then checks that the
target sheet carries the columns the service needs. Nothing is uploaded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := workbook.Inspect(args[0])
			if err != nil {
				return userError(err)
			}

			out := cmd.OutOrStdout()
			cyan := color.New(color.FgCyan)
			for _, sheet := range info.Sheets {
				cyan.Fprintf(out, "%s", sheet.Name)
				fmt.Fprintf(out, " (%d rows)\n", sheet.Rows)
				if len(sheet.Headers) > 0 {
					fmt.Fprintf(out, "  %s\n", strings.Join(sheet.Headers, " | "))
				}
			}
			fmt.Fprintln(out)

			if err := workbook.Check(args[0], sheetName); err != nil {
				color.New(color.FgRed).Fprintln(out, "Not ready to upload")
				return userError(err)
			}
			color.New(color.FgGreen).Fprintln(out, "Ready to upload")
			return nil
		},
	}

	cmd.Flags().StringVarP(&sheetName, "sheet", "s", "", "Worksheet to check (defaults to the first sheet)")

	return cmd
}
