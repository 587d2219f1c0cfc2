package appointment

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BruksfildServices01/pro-scheduler/internal/models"
)

const minutesPerDay = 24 * 60

// Interval is a half-open [Start, End) range in minutes from midnight.
type Interval struct {
	Start int
	End   int
}

func (iv Interval) Contains(start, end int) bool {
	return start >= iv.Start && end <= iv.End
}

func (iv Interval) String() string {
	return FormatClock(iv.Start) + "-" + FormatClock(iv.End)
}

// ParseClock turns "HH:MM" into minutes from midnight. "24:00" is accepted
// as the end of the day.
func ParseClock(hm string) (int, error) {
	hm = strings.TrimSpace(hm)
	if hm == "24:00" {
		return minutesPerDay, nil
	}
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", hm)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func FormatClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// MinuteOfDay reads the wall-clock minute of t in its own location.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// IntervalsFromEntries keeps the active, well-formed entries of one weekday
// and returns them ordered by start.
func IntervalsFromEntries(entries []models.WorkingHours, weekday int) []Interval {
	out := make([]Interval, 0, len(entries))
	for _, wh := range entries {
		if !wh.Active || wh.Weekday != weekday {
			continue
		}
		start, err := ParseClock(wh.StartTime)
		if err != nil {
			continue
		}
		end, err := ParseClock(wh.EndTime)
		if err != nil || start >= end {
			continue
		}
		out = append(out, Interval{Start: start, End: end})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start == out[j].Start {
			return out[i].End < out[j].End
		}
		return out[i].Start < out[j].Start
	})
	return out
}

// FitsAny is true when [start,end) lies entirely inside one interval.
// Straddling a gap between two shifts does not count.
func FitsAny(intervals []Interval, start, end int) bool {
	for _, iv := range intervals {
		if iv.Contains(start, end) {
			return true
		}
	}
	return false
}

func DescribeIntervals(intervals []Interval) string {
	parts := make([]string, len(intervals))
	for i, iv := range intervals {
		parts[i] = iv.String()
	}
	return strings.Join(parts, ", ")
}

// WorkingHoursReader is the slice of the store the policy needs.
type WorkingHoursReader interface {
	ListWorkingHours(ctx context.Context, professionalID string, weekday int) ([]models.WorkingHours, error)
}

// WorkingHoursPolicy answers questions about a professional's open hours.
type WorkingHoursPolicy struct {
	reader WorkingHoursReader
}

func NewWorkingHoursPolicy(reader WorkingHoursReader) *WorkingHoursPolicy {
	return &WorkingHoursPolicy{reader: reader}
}

func (p *WorkingHoursPolicy) OpenIntervals(
	ctx context.Context,
	professionalID string,
	weekday int,
) ([]Interval, error) {
	entries, err := p.reader.ListWorkingHours(ctx, professionalID, weekday)
	if err != nil {
		return nil, fmt.Errorf("list working hours: %w", err)
	}
	return IntervalsFromEntries(entries, weekday), nil
}

func (p *WorkingHoursPolicy) IsWithinOpenHours(
	ctx context.Context,
	professionalID string,
	weekday int,
	startMin int,
	endMin int,
) (bool, error) {
	intervals, err := p.OpenIntervals(ctx, professionalID, weekday)
	if err != nil {
		return false, err
	}
	return FitsAny(intervals, startMin, endMin), nil
}
