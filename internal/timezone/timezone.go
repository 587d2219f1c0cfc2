package timezone

import (
	"time"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04"
	ClockLayout    = "15:04"
)

// IsValid reports whether tz names a loadable IANA zone. "Local" is valid.
func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location resolves tz, falling back to the server's local zone. Wall-clock
// times are never converted between zones; this only pins how they are read.
func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.Local
}

func NowIn(loc *time.Location) time.Time {
	return time.Now().In(loc)
}

// ParseDate reads "YYYY-MM-DD" as local midnight in loc.
func ParseDate(loc *time.Location, s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// ParseDateTime reads a date and an "HH:MM" time in loc.
func ParseDateTime(loc *time.Location, date, clock string) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+ClockLayout, date+" "+clock, loc)
}

// ParseLocalDateTime reads the "YYYY-MM-DDTHH:MM" form sent by
// datetime-local inputs.
func ParseLocalDateTime(loc *time.Location, s string) (time.Time, error) {
	return time.ParseInLocation(DateTimeLayout, s, loc)
}

// MonthBounds returns the first instant of the month and of the next one.
func MonthBounds(loc *time.Location, year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}
