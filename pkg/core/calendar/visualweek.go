package calendar

import (
	"maps"
	"slices"
)

// VisualWeek maps an absolute week offset to the "Week N" label shown to users.
//
// Without loop points the label is week+1. Otherwise the loop points are walked in
// ascending order; the last point p <= week decides the label, with the cycle length
// being the distance from the previous point (or 0) to p:
//
//	label = (week-p) % cycleLength + 1
//
// and, once week-p reaches a full cycle, floor((week-p)/cycleLength)*cycleLength is
// added on top, so labels keep growing after the first repeat instead of wrapping.
func VisualWeek(week int, loopPoints []int) int {
	label := week + 1
	if len(loopPoints) == 0 {
		return label
	}

	sorted := slices.Clone(loopPoints)
	slices.Sort(sorted)

	for i, point := range sorted {
		if week < point {
			break
		}

		cycleStart := 0
		if i > 0 {
			cycleStart = sorted[i-1]
		}
		cycleLength := point - cycleStart
		delta := week - point

		// A loop point at the start of its own cycle has no length to repeat over
		if cycleLength <= 0 {
			label = delta + 1
			continue
		}

		label = delta%cycleLength + 1
		if delta >= cycleLength {
			label += (delta / cycleLength) * cycleLength
		}
	}

	return label
}

// LoopPoints is the admin-chosen set of week offsets where the visual week count restarts
type LoopPoints map[int]struct{}

// NewLoopPoints builds a set from the given week offsets
func NewLoopPoints(weeks ...int) LoopPoints {
	lp := make(LoopPoints, len(weeks))
	for _, w := range weeks {
		lp[w] = struct{}{}
	}
	return lp
}

// Contains reports whether week is a loop point
func (lp LoopPoints) Contains(week int) bool {
	_, ok := lp[week]
	return ok
}

// Add marks week as a loop point; it reports false if it already was one
func (lp LoopPoints) Add(week int) bool {
	if lp.Contains(week) {
		return false
	}
	lp[week] = struct{}{}
	return true
}

// Remove unmarks week; it reports false if it was not a loop point
func (lp LoopPoints) Remove(week int) bool {
	if !lp.Contains(week) {
		return false
	}
	delete(lp, week)
	return true
}

// Toggle flips week's membership and reports whether it is now a loop point
func (lp LoopPoints) Toggle(week int) bool {
	if lp.Remove(week) {
		return false
	}
	lp.Add(week)
	return true
}

// Sorted returns the loop points in ascending order
func (lp LoopPoints) Sorted() []int {
	return slices.Sorted(maps.Keys(lp))
}

// VisualWeek labels week using this set
func (lp LoopPoints) VisualWeek(week int) int {
	return VisualWeek(week, lp.Sorted())
}
