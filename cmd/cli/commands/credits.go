package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/dojo-roster/pkg/core/calendar"
	"github.com/jakechorley/dojo-roster/pkg/core/model"
	"github.com/jakechorley/dojo-roster/pkg/core/services"
	"github.com/jakechorley/dojo-roster/pkg/export"
)

// CreditsCmd creates the credits command
func CreditsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credits [username]",
		Short: "Show your credits (admins may view anyone's)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := app.CurrentUser()
			if err != nil {
				return err
			}
			username := user.Username
			if len(args) > 0 {
				username = args[0]
			}

			filter, _ := cmd.Flags().GetString("filter")
			sort, _ := cmd.Flags().GetString("sort")
			opts := services.ReportOptions{Filter: services.TimeFilter(filter), Sort: services.SortOrder(sort)}
			switch opts.Filter {
			case services.FilterAll, services.FilterMonth, services.FilterWeek:
			default:
				return fmt.Errorf("filter must be all, month or week, got: %s", filter)
			}
			switch opts.Sort {
			case services.SortNewest, services.SortOldest:
			default:
				return fmt.Errorf("sort must be newest or oldest, got: %s", sort)
			}

			report, err := services.UserCreditReport(app.Ledger, app.Users, user, username, opts, app.Now(), app.Logger)
			if err != nil {
				return err
			}

			renderCreditReport(cmd.OutOrStdout(), report, opts)
			return nil
		},
	}

	cmd.Flags().String("filter", string(services.FilterAll), "Entries to list: all, month or week")
	cmd.Flags().String("sort", string(services.SortNewest), "Entry order: newest or oldest")

	return cmd
}

func renderCreditReport(w io.Writer, report *services.CreditReport, opts services.ReportOptions) {
	fmt.Fprintf(w, "\nCredits for %s\n\n", report.Username)
	fmt.Fprintf(w, "  Total:            %d\n", report.TotalCredits)
	fmt.Fprintf(w, "  This week:        %d\n", report.WeeklyCredits)
	fmt.Fprintf(w, "  This month:       %d\n", report.MonthlyCredits)
	fmt.Fprintf(w, "  Desk credits:     %d\n", report.DeskCredits)
	fmt.Fprintf(w, "  Desk this month:  %d\n", report.DeskThisMonth)

	if len(report.Categories) > 0 {
		fmt.Fprintln(w, "\nClasses by category:")
		for _, c := range report.Categories {
			fmt.Fprintf(w, "  %-12s %3d  %s\n", c.Category, c.Count, bar(c.Count))
		}
	}

	fmt.Fprintf(w, "\nEntries (%s, %s first):\n", opts.Filter, opts.Sort)
	if len(report.Entries) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for _, e := range report.Entries {
		fmt.Fprintf(w, "  %s  %-10s %-22s %-6s %-4s  %s\n",
			e.Date,
			className(e.ClassType, e.ClassVariant),
			calendar.TimeRange(e.StartTime, e.EndTime),
			e.Position,
			creditLabel(e),
			e.ID)
	}
	fmt.Fprintln(w)
}

func bar(n int) string {
	const maxWidth = 40
	b := make([]rune, 0, min(n, maxWidth))
	for range min(n, maxWidth) {
		b = append(b, '█')
	}
	return string(b)
}

// CreditSheetCmd creates the creditSheet command
func CreditSheetCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "creditSheet",
		Short: "Show every member's credits (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := app.CurrentAdmin()
			if err != nil {
				return err
			}

			rows, err := services.CreditSheet(app.Ledger, app.Users, admin, app.Now(), app.Logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n%-16s %-6s %6s %6s %6s %6s\n", "Username", "Role", "Desk", "Week", "Month", "Total")
			for _, row := range rows {
				fmt.Fprintf(out, "%-16s %-6s %6d %6d %6d %6d\n",
					row.Username, row.Role, row.DeskCredits, row.WeeklyCredits, row.MonthlyCredits, row.TotalCredits)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

// ExportCreditsCmd creates the exportCredits command
func ExportCreditsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "exportCredits <path>",
		Short: "Save the credit sheet and every entry to an xlsx workbook (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := app.CurrentAdmin()
			if err != nil {
				return err
			}

			rows, err := services.CreditSheet(app.Ledger, app.Users, admin, app.Now(), app.Logger)
			if err != nil {
				return err
			}
			entries := make(map[string][]model.CreditEntry, len(rows))
			for _, row := range rows {
				entries[row.Username] = app.Ledger.Entries(row.Username)
			}

			if err := export.SaveCreditSheet(args[0], rows, entries); err != nil {
				return err
			}

			app.Logger.Info("Exported credit sheet",
				zap.String("admin", admin.Username),
				zap.String("path", args[0]),
				zap.Int("users", len(rows)))

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Credit sheet saved to %s\n", args[0])
			return nil
		},
	}
}

// RemoveCreditCmd creates the removeCredit command
func RemoveCreditCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "removeCredit <username> <entry_id>",
		Short: "Delete a single credit entry (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := app.CurrentAdmin()
			if err != nil {
				return err
			}

			if err := services.AdminRemoveCreditEntry(app.Ledger, admin, args[0], args[1], app.Logger); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed credit entry %s\n", args[1])
			return nil
		},
	}
}
