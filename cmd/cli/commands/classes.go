package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/dojo-roster/pkg/core/calendar"
	"github.com/jakechorley/dojo-roster/pkg/core/model"
	"github.com/jakechorley/dojo-roster/pkg/core/services"
)

// parsePosition reads a position argument, defaulting to assist
func parsePosition(args []string, i int) (model.Position, error) {
	if len(args) <= i {
		return model.PositionAssist, nil
	}
	pos, ok := model.ParsePosition(args[i])
	if !ok {
		return "", fmt.Errorf("position must be lead, desk or assist, got: %s", args[i])
	}
	return pos, nil
}

// SignupCmd creates the signup command
func SignupCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "signup <day> <class> [position]",
		Short: "Sign up for a class (position defaults to assist)",
		Long: `Sign up for a class in the viewed week.
<day> is a weekday name (e.g. tuesday) or a date (YYYY-MM-DD).
<class> is the class number shown by the week command.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := app.CurrentUser()
			if err != nil {
				return err
			}
			id, err := app.ResolveOccurrence(args[0], args[1])
			if err != nil {
				return err
			}
			pos, err := parsePosition(args, 2)
			if err != nil {
				return err
			}

			result, err := services.SignUpForClass(app.Roster, app.Ledger, user, id, pos, app.Now(), app.Logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			occ := result.Occurrence
			fmt.Fprintf(out, "✓ Signed up for %s %s as %s\n",
				className(occ.Type, occ.Subvariant), calendar.TimeRange(occ.StartTime, occ.EndTime), result.Position)
			if result.Position != pos {
				fmt.Fprintf(out, "  %s users always sign up to assist\n", user.Role)
			}
			if result.Moved {
				fmt.Fprintf(out, "  Moved from %s\n", result.Previous)
			}
			fmt.Fprintf(out, "  Credit: %s\n", creditLabel(result.Entry))
			return nil
		},
	}
}

// WithdrawCmd creates the withdraw command
func WithdrawCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <day> <class>",
		Short: "Withdraw from a class you signed up for",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := app.CurrentUser()
			if err != nil {
				return err
			}
			id, err := app.ResolveOccurrence(args[0], args[1])
			if err != nil {
				return err
			}

			pos, err := services.WithdrawFromClass(app.Roster, app.Ledger, user, id, app.Now(), app.Logger)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Withdrew from %s position\n", pos)
			return nil
		},
	}
}
