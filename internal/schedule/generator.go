package schedule

import (
	"strings"
	"time"

	"maintplan-backend/internal/model"
)

// DefaultAnchorDay is the day-of-month occurrences are anchored to when the
// configuration does not override it. A mid-month anchor keeps the plan away
// from month-boundary clamping in the common case and lines displays up
// across equipment.
const DefaultAnchorDay = 15

// anchorMonths fixes which months each frequency lands on. The months are
// evenly spaced so plans for different frequencies overlap in July, which is
// deliberate: a combined annual+quarterly plan shows a single mid-year
// service window.
var anchorMonths = map[model.Frequency][]time.Month{
	model.FrequencyMonthly: {
		time.January, time.February, time.March, time.April,
		time.May, time.June, time.July, time.August,
		time.September, time.October, time.November, time.December,
	},
	model.FrequencyQuarterly: {time.January, time.April, time.July, time.October},
	model.FrequencyBiannual:  {time.January, time.July},
	model.FrequencyAnnual:    {time.July},
}

// Slot is one generated (frequency, date) pair. Slots carry no identity or
// status; the planner turns them into occurrences.
type Slot struct {
	Frequency model.Frequency
	Date      time.Time
}

// ActiveFrequencies derives the recurrence frequencies enabled for a piece
// of equipment from the presence of its check-definition texts. Daily checks
// belong to the inspection-checklist subsystem and are never returned.
func ActiveFrequencies(eq model.Equipment) []model.Frequency {
	var active []model.Frequency
	if strings.TrimSpace(eq.CheckMonthly) != "" {
		active = append(active, model.FrequencyMonthly)
	}
	if strings.TrimSpace(eq.CheckQuarterly) != "" {
		active = append(active, model.FrequencyQuarterly)
	}
	if strings.TrimSpace(eq.CheckBiannual) != "" {
		active = append(active, model.FrequencyBiannual)
	}
	if strings.TrimSpace(eq.CheckAnnual) != "" {
		active = append(active, model.FrequencyAnnual)
	}
	return active
}

// YearSlots generates the full set of slots for one equipment and one target
// year: one sub-sequence per active frequency, in frequency declaration
// order, dates ascending within each. Equipment with no active frequencies
// yields an empty slice. The function is pure; it performs no I/O.
func YearSlots(eq model.Equipment, year int, anchorDay int) []Slot {
	if anchorDay < 1 || anchorDay > 31 {
		anchorDay = DefaultAnchorDay
	}

	var slots []Slot
	for _, freq := range ActiveFrequencies(eq) {
		for _, month := range anchorMonths[freq] {
			slots = append(slots, Slot{
				Frequency: freq,
				Date:      AnchorDate(year, month, anchorDay),
			})
		}
	}
	return slots
}

// AnchorDate builds the calendar date for an anchor, clamping the day to the
// last valid day of the month (anchor day 31 in February yields Feb 28, or
// Feb 29 in a leap year).
func AnchorDate(year int, month time.Month, day int) time.Time {
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOnly truncates a timestamp to its calendar date in UTC. All planner
// date comparisons go through this so time-of-day never leaks in.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
