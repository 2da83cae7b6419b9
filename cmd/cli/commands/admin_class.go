package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/dojo-roster/internal/config"
	"github.com/jakechorley/dojo-roster/pkg/core/calendar"
	"github.com/jakechorley/dojo-roster/pkg/core/model"
	"github.com/jakechorley/dojo-roster/pkg/core/roster"
	"github.com/jakechorley/dojo-roster/pkg/core/services"
)

// EditClassCmd creates the editClass command
func EditClassCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "editClass <day> <class>",
		Short: "Edit a class's type, variant, times or colour (admin)",
		Long: `Edit one class occurrence. Only the flags given are changed.
Times are HH:MM on a quarter hour. Changing the type resets the class's positions.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := app.CurrentAdmin()
			if err != nil {
				return err
			}
			id, err := app.ResolveOccurrence(args[0], args[1])
			if err != nil {
				return err
			}

			edit, err := classEditFromFlags(cmd)
			if err != nil {
				return err
			}

			occ, err := services.AdminEditClass(app.Roster, app.Ledger, admin, id, edit, app.Logger)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Class is now %s %s\n",
				className(occ.Type, occ.Subvariant), calendar.TimeRange(occ.StartTime, occ.EndTime))
			return nil
		},
	}

	cmd.Flags().String("type", "", "Class type, e.g. Dragons")
	cmd.Flags().String("variant", "", "Class variant, e.g. Muay Thai")
	cmd.Flags().String("start", "", "Start time (HH:MM)")
	cmd.Flags().String("end", "", "End time (HH:MM)")
	cmd.Flags().String("color", "", "Display colour")

	return cmd
}

// classEditFromFlags builds an edit from the flags that were set
func classEditFromFlags(cmd *cobra.Command) (roster.ClassEdit, error) {
	var edit roster.ClassEdit
	flags := cmd.Flags()

	if flags.Changed("type") {
		v, _ := flags.GetString("type")
		edit.Type = &v
	}
	if flags.Changed("variant") {
		v, _ := flags.GetString("variant")
		edit.Subvariant = &v
	}
	if flags.Changed("color") {
		v, _ := flags.GetString("color")
		edit.Color = &v
	}
	for name, dst := range map[string]**int{"start": &edit.StartTime, "end": &edit.EndTime} {
		if !flags.Changed(name) {
			continue
		}
		v, _ := flags.GetString(name)
		index, err := config.ParseClock(v)
		if err != nil {
			return roster.ClassEdit{}, fmt.Errorf("--%s: %w", name, err)
		}
		*dst = &index
	}

	if edit == (roster.ClassEdit{}) {
		return roster.ClassEdit{}, fmt.Errorf("nothing to change (use --type, --variant, --start, --end or --color)")
	}
	return edit, nil
}

// DeleteClassCmd creates the deleteClass command
func DeleteClassCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deleteClass <day> <class>",
		Short: "Delete a class and reverse everyone's credit for it (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := app.CurrentAdmin()
			if err != nil {
				return err
			}
			id, err := app.ResolveOccurrence(args[0], args[1])
			if err != nil {
				return err
			}

			removed, err := services.AdminDeleteClass(app.Roster, app.Ledger, admin, id, app.Logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "✓ Class deleted")
			for _, s := range removed {
				fmt.Fprintf(out, "  Removed %s (%s)\n", s.Username, s.Position)
			}
			return nil
		},
	}
}

// RestoreClassCmd creates the restoreClass command
func RestoreClassCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "restoreClass <day> <class>",
		Short: "Bring back a deleted class from the weekly schedule (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := app.CurrentAdmin()
			if err != nil {
				return err
			}
			id, err := app.ResolveOccurrence(args[0], args[1])
			if err != nil {
				return err
			}

			occ, err := services.AdminRestoreClass(app.Roster, admin, id, app.Logger)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Restored %s %s\n",
				className(occ.Type, occ.Subvariant), calendar.TimeRange(occ.StartTime, occ.EndTime))
			return nil
		},
	}
}

// AddToClassCmd creates the addToClass command
func AddToClassCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "addToClass <day> <class> <username> <position>",
		Short: "Add a member to a class, past or future (admin)",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := app.CurrentAdmin()
			if err != nil {
				return err
			}
			id, err := app.ResolveOccurrence(args[0], args[1])
			if err != nil {
				return err
			}
			pos, err := parsePosition(args, 3)
			if err != nil {
				return err
			}

			result, err := services.AdminAddToClass(app.Roster, app.Ledger, app.Users, admin, id, args[2], pos, app.Logger)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s as %s (credit: %s)\n",
				args[2], result.Position, creditLabel(result.Entry))
			return nil
		},
	}
}

// RemoveFromClassCmd creates the removeFromClass command
func RemoveFromClassCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "removeFromClass <day> <class> <username>",
		Short: "Remove a member from a class and reverse their credit (admin)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := app.CurrentAdmin()
			if err != nil {
				return err
			}
			id, err := app.ResolveOccurrence(args[0], args[1])
			if err != nil {
				return err
			}

			pos, err := services.AdminRemoveFromClass(app.Roster, app.Ledger, admin, id, args[2], app.Logger)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %s from %s\n", args[2], pos)
			return nil
		},
	}
}

// SetPositionCmd creates the setPosition command
func SetPositionCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setPosition <day> <class> <position> <open|closed|default>",
		Short: "Force a class position open or closed, or reset it (admin)",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := app.CurrentAdmin()
			if err != nil {
				return err
			}
			id, err := app.ResolveOccurrence(args[0], args[1])
			if err != nil {
				return err
			}
			pos, ok := model.ParsePosition(args[2])
			if !ok {
				return fmt.Errorf("position must be lead, desk or assist, got: %s", args[2])
			}
			setting, ok := services.ParsePositionSetting(args[3])
			if !ok {
				return fmt.Errorf("setting must be open, closed or default, got: %s", args[3])
			}

			occ, err := services.AdminSetPosition(app.Roster, admin, id, pos, setting, app.Logger)
			if err != nil {
				return err
			}

			state := "closed"
			if occ.AvailablePositions.Get(pos) {
				state = "open"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is now %s\n", pos, state)
			return nil
		},
	}
}
