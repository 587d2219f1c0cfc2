package appointment

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/pro-scheduler/internal/models"
)

// DefaultSlotStepMinutes is the spacing between candidate start times.
const DefaultSlotStepMinutes = 30

// GenerateSlots walks every open interval of day independently, in steps of
// step minutes, and keeps the starts whose [start, start+duration) fits the
// interval and does not collide with busy. The result is deduplicated and
// sorted as zero-padded "HH:MM".
func GenerateSlots(
	day time.Time,
	intervals []Interval,
	durationMin int,
	stepMin int,
	busy []models.Appointment,
) []string {
	if durationMin <= 0 {
		return []string{}
	}
	if stepMin <= 0 {
		stepMin = DefaultSlotStepMinutes
	}

	seen := make(map[string]struct{})
	for _, iv := range intervals {
		for cur := iv.Start; cur+durationMin <= iv.End; cur += stepMin {
			start := AtMinute(day, cur)
			end := start.Add(time.Duration(durationMin) * time.Minute)

			if ConflictsWith(busy, start, end, "") {
				continue
			}
			seen[FormatClock(cur)] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for hm := range seen {
		out = append(out, hm)
	}
	sort.Strings(out)
	return out
}

// AtMinute builds the wall-clock instant of day at min minutes past midnight.
func AtMinute(day time.Time, min int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), min/60, min%60, 0, 0, day.Location())
}

// DayBounds returns local midnight of day and of the following day.
func DayBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}
