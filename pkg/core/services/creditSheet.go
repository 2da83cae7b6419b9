package services

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/dojo-roster/pkg/core/calendar"
	"github.com/jakechorley/dojo-roster/pkg/core/model"
)

// Credit chart categories in display order
const (
	CategoryDragons    = "Dragons"
	CategoryKarateKids = "Karate Kids"
	CategoryAdults     = "Adults"
	CategoryDemo       = "Demo"
	CategoryLeadership = "Leadership"
	CategoryOther      = "Other"
)

var categoryOrder = []string{CategoryDragons, CategoryKarateKids, CategoryAdults, CategoryDemo, CategoryLeadership, CategoryOther}

// CategorizeClass groups a class type into a chart category by substring
func CategorizeClass(classType string) string {
	lower := strings.ToLower(classType)
	switch {
	case strings.Contains(lower, "dragon"):
		return CategoryDragons
	case strings.Contains(lower, "karate kid"):
		return CategoryKarateKids
	case strings.Contains(lower, "adult"):
		return CategoryAdults
	case strings.Contains(lower, "demo team"):
		return CategoryDemo
	case strings.Contains(lower, "leadership"):
		return CategoryLeadership
	default:
		return CategoryOther
	}
}

// CreditSheetRow is one user's line in the admin credit sheet
type CreditSheetRow struct {
	Username       string
	Role           model.Role
	DeskCredits    int
	WeeklyCredits  int
	MonthlyCredits int
	TotalCredits   int
}

// CreditSheet summarises every user's credits for admins, most senior role first
func CreditSheet(
	l CreditLedger,
	users UserDirectory,
	actor model.User,
	now time.Time,
	logger *zap.Logger,
) ([]CreditSheetRow, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	list := users.List()
	rows := make([]CreditSheetRow, 0, len(list))
	for _, u := range list {
		rows = append(rows, CreditSheetRow{
			Username:       u.Username,
			Role:           u.Role,
			DeskCredits:    l.TotalDeskCredits(u.Username),
			WeeklyCredits:  l.CreditsThisWeek(u.Username),
			MonthlyCredits: l.MonthlyCredits(u.Username, now.Year(), now.Month()),
			TotalCredits:   l.TotalCredits(u.Username),
		})
	}

	slices.SortStableFunc(rows, func(a, b CreditSheetRow) int {
		return cmp.Compare(b.Role.Rank(), a.Role.Rank())
	})

	logger.Debug("Built credit sheet", zap.Int("users", len(rows)))
	return rows, nil
}

// TimeFilter limits the entries listed in a credit report
type TimeFilter string

const (
	FilterAll   TimeFilter = "all"
	FilterMonth TimeFilter = "month"
	FilterWeek  TimeFilter = "week"
)

// SortOrder orders the entries listed in a credit report
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// ReportOptions selects which entries a credit report lists
type ReportOptions struct {
	Filter TimeFilter
	Sort   SortOrder
}

// CategoryTotal is one bar of the class category chart
type CategoryTotal struct {
	Category string
	Count    int
}

// CreditReport is a single user's credit summary
type CreditReport struct {
	Username       string
	TotalCredits   int
	DeskCredits    int
	DeskThisMonth  int
	WeeklyCredits  int
	MonthlyCredits int
	Categories     []CategoryTotal
	Entries        []model.CreditEntry
}

// UserCreditReport builds a user's credit summary. Users may view their own report;
// admins may view anyone's.
func UserCreditReport(
	l CreditLedger,
	users UserDirectory,
	actor model.User,
	username string,
	opts ReportOptions,
	now time.Time,
	logger *zap.Logger,
) (*CreditReport, error) {
	if username != actor.Username {
		if err := requireAdmin(actor); err != nil {
			return nil, err
		}
	}
	if _, ok := users.Get(username); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUser, username)
	}

	report := &CreditReport{
		Username:       username,
		TotalCredits:   l.TotalCredits(username),
		DeskCredits:    l.TotalDeskCredits(username),
		DeskThisMonth:  l.DeskCreditsThisMonth(username),
		WeeklyCredits:  l.CreditsThisWeek(username),
		MonthlyCredits: l.MonthlyCredits(username, now.Year(), now.Month()),
		Categories:     categoryTotals(l, username),
		Entries:        FilterEntries(l.Entries(username), opts, now),
	}

	logger.Debug("Built credit report",
		zap.String("username", username),
		zap.String("filter", string(opts.Filter)),
		zap.Int("entries", len(report.Entries)))

	return report, nil
}

func categoryTotals(l CreditLedger, username string) []CategoryTotal {
	counts := make(map[string]int)
	for classType, spread := range l.ClassTypeSpread(username) {
		counts[CategorizeClass(classType)] += spread.Total()
	}

	var totals []CategoryTotal
	for _, category := range categoryOrder {
		if n, ok := counts[category]; ok {
			totals = append(totals, CategoryTotal{Category: category, Count: n})
		}
	}
	return totals
}

// FilterEntries applies a report's time filter and sort order. The month filter keeps
// entries in now's calendar month; the week filter keeps the last seven days.
// Entries with unreadable dates only appear unfiltered.
func FilterEntries(entries []model.CreditEntry, opts ReportOptions, now time.Time) []model.CreditEntry {
	loc := now.Location()
	weekAgo := now.AddDate(0, 0, -7)

	filtered := make([]model.CreditEntry, 0, len(entries))
	for _, e := range entries {
		if opts.Filter == FilterMonth || opts.Filter == FilterWeek {
			date, err := calendar.ParseDate(e.Date, loc)
			if err != nil {
				continue
			}
			if opts.Filter == FilterMonth && (date.Year() != now.Year() || date.Month() != now.Month()) {
				continue
			}
			if opts.Filter == FilterWeek && date.Before(weekAgo) {
				continue
			}
		}
		filtered = append(filtered, e)
	}

	slices.SortStableFunc(filtered, func(a, b model.CreditEntry) int {
		if opts.Sort == SortOldest {
			return cmp.Compare(a.Date, b.Date)
		}
		return cmp.Compare(b.Date, a.Date)
	})

	return filtered
}
