package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// LoginCmd creates the login command
func LoginCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Log in as a studio member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := app.Login(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged in as %s (%s)\n", user.Username, user.Role)
			return nil
		},
	}
}

// LogoutCmd creates the logout command
func LogoutCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Session.Username == "" {
				return errNotLoggedIn
			}
			app.Logger.Info("Logged out")
			app.Session.Username = ""
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Logged out")
			return nil
		},
	}
}

// WhoamiCmd creates the whoami command
func WhoamiCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := app.CurrentUser()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", user.Username, user.Role)
			if user.Phone != "" {
				fmt.Fprintf(out, "  Phone: %s\n", user.Phone)
			}
			if user.Email != "" {
				fmt.Fprintf(out, "  Email: %s\n", user.Email)
			}
			fmt.Fprintf(out, "  Signs up for: %s\n", preferencesLabel(user.SignupPreferences))
			return nil
		},
	}
}
