package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/docuflow/docuflow/internal/auth"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// readPassword resolves the password from the flag, stdin or DOCUFLOW_PASSWORD
func readPassword(cmd *cobra.Command, password string, fromStdin bool) (string, error) {
	if fromStdin {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && err != io.EOF {
			return "", fmt.Errorf("failed to read password from stdin: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	if password != "" {
		return password, nil
	}
	if v := os.Getenv("DOCUFLOW_PASSWORD"); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("a password is required: use --password, --password-stdin or DOCUFLOW_PASSWORD")
}

func newLoginCmd(a *app) *cobra.Command {
	var username, password string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the docuflow service",
		Example: `  # Sign in, reading the password from stdin
  echo "$PASSWORD" | docuflow login --username alice --password-stdin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password, passwordStdin)
			if err != nil {
				return err
			}

			session, err := a.auth.Login(cmd.Context(), username, pw)
			if err != nil {
				return userError(err)
			}

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", session.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (required)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var in auth.RegisterInput
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, in.Password, passwordStdin)
			if err != nil {
				return err
			}
			in.Password = pw

			session, err := a.auth.Register(cmd.Context(), in)
			if err != nil {
				return userError(err)
			}

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Registered and logged in as %s\n", session.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.Username, "username", "u", "", "Username (required)")
	cmd.Flags().StringVarP(&in.Email, "email", "e", "", "Email address (required)")
	cmd.Flags().StringVar(&in.FullName, "full-name", "", "Full name")
	cmd.Flags().StringVarP(&in.Password, "password", "p", "", "Password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.auth.Logout()
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := a.auth.Me(cmd.Context())
			if err != nil {
				return userError(err)
			}

			out := cmd.OutOrStdout()
			cyan := color.New(color.FgCyan)
			cyan.Fprint(out, "Username: ")
			fmt.Fprintln(out, profile.Username)
			if profile.Email != "" {
				cyan.Fprint(out, "Email:    ")
				fmt.Fprintln(out, profile.Email)
			}
			if profile.FullName != "" {
				cyan.Fprint(out, "Name:     ")
				fmt.Fprintln(out, profile.FullName)
			}
			return nil
		},
	}
}
