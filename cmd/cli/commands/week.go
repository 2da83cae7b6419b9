package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/dojo-roster/pkg/core/calendar"
	"github.com/jakechorley/dojo-roster/pkg/core/model"
	"github.com/jakechorley/dojo-roster/pkg/core/services"
)

// showWeek renders the session's current week for whoever is logged in
func showWeek(app *AppContext, cmd *cobra.Command) {
	viewer, _ := app.CurrentUser()
	view := services.ViewWeek(app.Roster, app.Planner, viewer, app.Session.Week, app.Logger)
	renderWeek(cmd.OutOrStdout(), view)
}

// WeekCmd creates the week command
func WeekCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "week [offset]",
		Short: "Show the current week, or jump to a week offset from the calendar start",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				week, err := strconv.Atoi(args[0])
				if err != nil || week < 0 {
					return fmt.Errorf("offset must be a non-negative integer, got: %s", args[0])
				}
				app.Session.Week = week
			}
			showWeek(app, cmd)
			return nil
		},
	}
}

// NextCmd creates the next command
func NextCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Show the following week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Session.Week++
			showWeek(app, cmd)
			return nil
		},
	}
}

// PrevCmd creates the prev command
func PrevCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prev",
		Short: "Show the previous week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Session.Week == 0 {
				return fmt.Errorf("already at the first week")
			}
			app.Session.Week--
			showWeek(app, cmd)
			return nil
		},
	}
}

// TodayCmd creates the today command
func TodayCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show the week containing today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Session.Week = app.currentWeek()
			showWeek(app, cmd)
			return nil
		},
	}
}

// LoopCmd creates the loop command
func LoopCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "loop",
		Short: "Toggle a curriculum loop point at the current week (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := app.CurrentAdmin()
			if err != nil {
				return err
			}

			week := app.Session.Week
			added := app.Planner.ToggleLoop(week)
			app.Logger.Info("Toggled loop point",
				zap.String("admin", admin.Username),
				zap.Int("week", week),
				zap.Bool("added", added))

			if added {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Week %d now restarts the curriculum at week 1\n", week)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed loop point at week %d\n", week)
			}
			return nil
		},
	}
}

// FocusCmd creates the focus command
func FocusCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "focus [text]",
		Short: "Set the focus of the current week, or clear it when no text is given (admin)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := app.CurrentAdmin()
			if err != nil {
				return err
			}

			text := strings.TrimSpace(strings.Join(args, " "))
			app.Planner.SetFocus(app.Session.Week, text)
			app.Logger.Info("Set week focus",
				zap.String("admin", admin.Username),
				zap.Int("week", app.Session.Week))

			if text == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "✓ Cleared week focus")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Week focus: %s\n", text)
			}
			return nil
		},
	}
}

// EventCmd creates the event command
func EventCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event <day> <type> [color] [text]",
		Short: "Set the event banner for a day (admin)",
		Long: fmt.Sprintf(`Set the event banner for a day, replacing any existing event.
Types: %s. Custom events show their text as the banner.`, strings.Join(model.EventTypes, ", ")),
		Args: cobra.RangeArgs(2, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := app.CurrentAdmin()
			if err != nil {
				return err
			}

			date, err := app.ResolveDate(args[0])
			if err != nil {
				return err
			}
			color := model.EventBlue
			if len(args) > 2 {
				color = model.EventColor(strings.ToLower(args[2]))
			}
			var text string
			if len(args) > 3 {
				text = args[3]
			}
			description, _ := cmd.Flags().GetString("description")

			event, err := app.Planner.SetEvent(model.Event{
				Date:        calendar.FormatDate(date),
				Type:        args[1],
				Color:       color,
				CustomText:  text,
				Description: description,
			})
			if err != nil {
				return err
			}

			app.Logger.Info("Set day event",
				zap.String("admin", admin.Username),
				zap.String("date", event.Date),
				zap.String("type", event.Type))

			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %s\n", calendar.DayLabel(date), event.Label())
			return nil
		},
	}

	cmd.Flags().String("description", "", "Longer description shown with the banner")

	return cmd
}

// DeleteEventCmd creates the deleteEvent command
func DeleteEventCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deleteEvent <day>",
		Short: "Remove the event banner from a day (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := app.CurrentAdmin()
			if err != nil {
				return err
			}

			date, err := app.ResolveDate(args[0])
			if err != nil {
				return err
			}
			key := calendar.FormatDate(date)
			if !app.Planner.DeleteEvent(key) {
				return fmt.Errorf("no event on %s", key)
			}

			app.Logger.Info("Deleted day event",
				zap.String("admin", admin.Username),
				zap.String("date", key))

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed event on %s\n", calendar.DayLabel(date))
			return nil
		},
	}
}
