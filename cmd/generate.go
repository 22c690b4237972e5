package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docuflow/docuflow/internal/generation"
	"github.com/docuflow/docuflow/internal/models"
	"github.com/docuflow/docuflow/internal/workbook"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func readFile(path string) (*generation.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return &generation.File{Name: filepath.Base(path), Data: data}, nil
}

// checkable reports whether the workbook format can be inspected locally
func checkable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

func newGenerateCmd(a *app) *cobra.Command {
	var (
		templatePath string
		sheetName    string
		filter       string
		outputDir    string
		skipCheck    bool
	)

	cmd := &cobra.Command{
		Use:   "generate <spreadsheet>",
		Short: "Generate a Business Requirements Document from a spreadsheet",
		Long: `Uploads a requirements spreadsheet to the docuflow service and saves the
returned document as "Business Requirements Document - updated.docx".

The spreadsheet is checked locally for the expected sheet and columns before
it is uploaded, unless --skip-check is given.`,
		Example: `  # Generate using the first sheet and the default template
  docuflow generate requirements.xlsx

  # Only include final or approved requirements from a named sheet
  docuflow generate requirements.xlsx --sheet "Release 2" --filter final_or_approved

  # Use a custom Word template and write into ./out
  docuflow generate requirements.xlsx --template brd.docx --output ./out`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			excelPath := args[0]

			mode, err := models.ParseFilterMode(filter)
			if err != nil {
				return err
			}

			if !skipCheck && checkable(excelPath) {
				if err := workbook.Check(excelPath, sheetName); err != nil {
					return userError(err)
				}
			}

			excel, err := readFile(excelPath)
			if err != nil {
				return err
			}
			req := generation.Request{
				Excel:      excel,
				SheetName:  sheetName,
				FilterMode: mode,
			}
			if templatePath != "" {
				if req.Template, err = readFile(templatePath); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generating document from %s...\n", excel.Name)

			artifact, err := a.orchestrator(outputDir).Generate(cmd.Context(), req)
			if err != nil {
				return userError(err)
			}

			color.New(color.FgGreen).Fprintf(out, "Saved %s (%d bytes)\n", artifact.Path, artifact.Size)
			return nil
		},
	}

	cmd.Flags().StringVarP(&templatePath, "template", "t", "", "Word template (.docx) to fill")
	cmd.Flags().StringVarP(&sheetName, "sheet", "s", "", "Worksheet to read (defaults to the first sheet)")
	cmd.Flags().StringVarP(&filter, "filter", "f", string(models.FilterNone), "Requirement filter: none, final or final_or_approved")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory to save the document in (defaults to output_dir from config)")
	cmd.Flags().BoolVar(&skipCheck, "skip-check", false, "Upload without checking the spreadsheet locally")

	return cmd
}

func newPreviewCmd(a *app) *cobra.Command {
	var sheetName string

	cmd := &cobra.Command{
		Use:   "preview <spreadsheet>",
		Short: "Show how the service parses a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			excel, err := readFile(args[0])
			if err != nil {
				return err
			}

			preview, err := a.orchestrator("").Preview(cmd.Context(), excel, sheetName)
			if err != nil {
				return userError(err)
			}

			out := cmd.OutOrStdout()
			cyan := color.New(color.FgCyan)
			fmt.Fprintf(out, "%d groups, %d requirements\n", preview.TotalGroups, preview.RequirementCount())
			for _, group := range preview.Groups {
				form := group.Form
				if form == "" {
					form = "(no form)"
				}
				cyan.Fprintf(out, "\n%s\n", form)
				for _, req := range group.Requirements {
					fmt.Fprintf(out, "  %-10s %-12s %s\n", req.ReqID, req.Status, req.Description)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&sheetName, "sheet", "s", "", "Worksheet to read (defaults to the first sheet)")

	return cmd
}
