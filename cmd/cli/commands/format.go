package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/jakechorley/dojo-roster/pkg/core/calendar"
	"github.com/jakechorley/dojo-roster/pkg/core/model"
	"github.com/jakechorley/dojo-roster/pkg/core/roster"
	"github.com/jakechorley/dojo-roster/pkg/core/services"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorPurple = "\033[35m"
	colorDim    = "\033[2m"
	colorBold   = "\033[1m"
)

// colorCode maps class and event colour names to terminal colours
func colorCode(name string) string {
	switch name {
	case "red":
		return colorRed
	case "green":
		return colorGreen
	case "yellow", "orange":
		return colorYellow
	case "blue":
		return colorBlue
	case "purple":
		return colorPurple
	case "black":
		return colorBold
	default:
		return ""
	}
}

// renderWeek prints a week view: header, focus, then each day's event and classes
func renderWeek(w io.Writer, view *services.WeekView) {
	loop := ""
	if view.IsLoopPoint {
		loop = " ⟲"
	}
	fmt.Fprintf(w, "\n%sWeek %d%s%s  %s%s%s\n", colorBold, view.VisualWeek, loop, colorReset, colorDim, view.RangeLabel, colorReset)
	if view.Focus != "" {
		fmt.Fprintf(w, "Focus: %s\n", view.Focus)
	}

	if len(view.Days) == 0 {
		fmt.Fprintln(w, "\nNo classes this week.")
		return
	}

	for _, day := range view.Days {
		fmt.Fprintf(w, "\n%s\n", day.Label)
		if day.Event != nil {
			fmt.Fprintf(w, "  %s[%s]%s", colorCode(string(day.Event.Color)), day.Event.Label(), colorReset)
			if day.Event.Description != "" {
				fmt.Fprintf(w, " %s", day.Event.Description)
			}
			fmt.Fprintln(w)
		}
		for _, slot := range day.Classes {
			fmt.Fprintf(w, "  %s\n", slotLine(slot))
		}
	}
	fmt.Fprintln(w)
}

// slotLine renders one class of a day as a single line
func slotLine(slot roster.Slot) string {
	if slot.Deleted {
		return fmt.Sprintf("#%d %s(deleted)%s", slot.Index+1, colorDim, colorReset)
	}

	occ := slot.Occurrence
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s  %s%s%s",
		slot.Index+1,
		calendar.TimeRange(occ.StartTime, occ.EndTime),
		colorCode(occ.Color), className(occ.Type, occ.Subvariant), colorReset)

	for _, pos := range model.AllPositions {
		if !occ.Defaults.Get(pos) && len(occ.SignUps(pos)) == 0 && !occ.AvailablePositions.Get(pos) {
			continue
		}
		fmt.Fprintf(&b, "  %s: %s", positionLabel(pos, occ.AvailablePositions.Get(pos)), signUpNames(occ.SignUps(pos)))
	}
	return b.String()
}

// className joins a class type and its variant, e.g. "Adults (Muay Thai)"
func className(classType, variant string) string {
	if variant == "" {
		return classType
	}
	return fmt.Sprintf("%s (%s)", classType, variant)
}

// positionLabel marks closed positions with an asterisk
func positionLabel(pos model.Position, open bool) string {
	if open {
		return string(pos)
	}
	return string(pos) + "*"
}

func signUpNames(signUps []model.SignUp) string {
	if len(signUps) == 0 {
		return "-"
	}
	names := make([]string, len(signUps))
	for i, s := range signUps {
		names[i] = s.Username
	}
	return strings.Join(names, ", ")
}

// preferencesLabel lists enabled positions, e.g. "lead, assist"
func preferencesLabel(p *model.Positions) string {
	if p == nil {
		return "any"
	}
	var enabled []string
	for _, pos := range model.AllPositions {
		if p.Get(pos) {
			enabled = append(enabled, string(pos))
		}
	}
	if len(enabled) == 0 {
		return "none"
	}
	return strings.Join(enabled, ", ")
}

// creditLabel shows desk entries as "Desk" and others as their credit value
func creditLabel(e model.CreditEntry) string {
	if e.IsDeskCredit {
		return "Desk"
	}
	return fmt.Sprintf("%d", e.Credits)
}
