package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	a := &app{}
	var (
		configPath string
		apiURL     string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "docuflow",
		Short: "Generate Business Requirements Documents from requirement spreadsheets",
		Long: `Docuflow turns a requirements spreadsheet into a Business Requirements
Document using the docuflow service.

Log in once, then submit a spreadsheet (and optionally a Word template) to
receive "Business Requirements Document - updated.docx".`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			return a.init(configPath, apiURL, verbose)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Base URL of the docuflow service (overrides DOCUFLOW_API_URL)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	// Add subcommands
	cmd.AddCommand(newLoginCmd(a))
	cmd.AddCommand(newRegisterCmd(a))
	cmd.AddCommand(newLogoutCmd(a))
	cmd.AddCommand(newWhoamiCmd(a))
	cmd.AddCommand(newHealthCmd(a))
	cmd.AddCommand(newGenerateCmd(a))
	cmd.AddCommand(newPreviewCmd(a))
	cmd.AddCommand(newInspectCmd())
	cmd.AddCommand(newServeCmd(a))

	return cmd
}
