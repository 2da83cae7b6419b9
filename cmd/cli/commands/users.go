package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/dojo-roster/pkg/core/model"
	"github.com/jakechorley/dojo-roster/pkg/core/users"
)

// UsersCmd creates the users command
func UsersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List studio members and their contact details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.CurrentUser(); err != nil {
				return err
			}

			list := app.Users.List()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nFound %d members:\n\n", len(list))
			for _, u := range list {
				contact := ""
				if u.Phone != "" {
					contact += " - " + u.Phone
				}
				if u.Email != "" {
					contact += " - " + u.Email
				}
				fmt.Fprintf(out, "- %s (%s)%s\n", u.Username, u.Role, contact)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

func parseRole(s string) (model.Role, error) {
	role, ok := model.ParseRole(s)
	if !ok {
		return "", fmt.Errorf("role must be JL, TI, CI or Admin, got: %s", s)
	}
	return role, nil
}

// CreateUserCmd creates the createUser command
func CreateUserCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "createUser <username> <role> <password>",
		Short: "Create a member account (admin)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := app.CurrentAdmin()
			if err != nil {
				return err
			}
			role, err := parseRole(args[1])
			if err != nil {
				return err
			}
			phone, _ := cmd.Flags().GetString("phone")
			email, _ := cmd.Flags().GetString("email")

			user, err := app.Users.Create(users.NewUser{
				Username: args[0],
				Role:     role,
				Password: args[2],
				Phone:    phone,
				Email:    email,
			})
			if err != nil {
				return err
			}

			app.Logger.Info("Created user",
				zap.String("admin", admin.Username),
				zap.String("username", user.Username),
				zap.String("role", string(user.Role)))

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Created %s (%s)\n", user.Username, user.Role)
			return nil
		},
	}

	cmd.Flags().String("phone", "", "Phone number")
	cmd.Flags().String("email", "", "Email address")

	return cmd
}

// EditUserCmd creates the editUser command
func EditUserCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "editUser <username>",
		Short: "Change a member's role, contact details or password (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := app.CurrentAdmin()
			if err != nil {
				return err
			}

			var edit users.AdminEdit
			flags := cmd.Flags()
			if flags.Changed("role") {
				v, _ := flags.GetString("role")
				role, err := parseRole(v)
				if err != nil {
					return err
				}
				edit.Role = &role
			}
			edit.Phone = changedString(cmd, "phone")
			edit.Email = changedString(cmd, "email")
			edit.Password = changedString(cmd, "password")
			if edit == (users.AdminEdit{}) {
				return fmt.Errorf("nothing to change (use --role, --phone, --email or --password)")
			}

			user, err := app.Users.AdminUpdate(args[0], edit)
			if err != nil {
				return err
			}

			app.Logger.Info("Edited user",
				zap.String("admin", admin.Username),
				zap.String("username", user.Username))

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated %s (%s)\n", user.Username, user.Role)
			return nil
		},
	}

	cmd.Flags().String("role", "", "Role: JL, TI, CI or Admin")
	cmd.Flags().String("phone", "", "Phone number")
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("password", "", "New password")

	return cmd
}

// changedString returns the flag's value only if it was given
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

// DeleteUserCmd creates the deleteUser command
func DeleteUserCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deleteUser <username>",
		Short: "Delete a member account; their credit history is kept (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := app.CurrentAdmin()
			if err != nil {
				return err
			}
			if args[0] == admin.Username {
				return fmt.Errorf("cannot delete your own account")
			}
			if !app.Users.Delete(args[0]) {
				return fmt.Errorf("%w: %s", users.ErrUserNotFound, args[0])
			}

			app.Logger.Info("Deleted user",
				zap.String("admin", admin.Username),
				zap.String("username", args[0]))

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", args[0])
			return nil
		},
	}
}

// ProfileCmd creates the profile command
func ProfileCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update your contact details and, for TI and CI, the positions you sign up for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := app.CurrentUser()
			if err != nil {
				return err
			}

			edit := users.ProfileEdit{
				Phone: changedString(cmd, "phone"),
				Email: changedString(cmd, "email"),
			}
			flags := cmd.Flags()
			if flags.Changed("lead") || flags.Changed("desk") || flags.Changed("assist") {
				prefs := users.DefaultPreferences
				if user.SignupPreferences != nil {
					prefs = *user.SignupPreferences
				}
				for _, pos := range model.AllPositions {
					if flags.Changed(string(pos)) {
						v, _ := flags.GetBool(string(pos))
						prefs.Set(pos, v)
					}
				}
				edit.Preferences = &prefs
			}

			updated, err := app.Users.UpdateProfile(user.Username, edit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Profile updated for %s\n", updated.Username)
			fmt.Fprintf(out, "  Phone: %s\n", updated.Phone)
			fmt.Fprintf(out, "  Email: %s\n", updated.Email)
			fmt.Fprintf(out, "  Signs up for: %s\n", preferencesLabel(updated.SignupPreferences))
			return nil
		},
	}

	cmd.Flags().String("phone", "", "Phone number")
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().Bool("lead", false, "Willing to lead (TI and CI only)")
	cmd.Flags().Bool("desk", false, "Willing to cover the desk (TI and CI only)")
	cmd.Flags().Bool("assist", false, "Willing to assist (TI and CI only)")

	return cmd
}
