package services

import (
	"time"
)

const DateLayout = "2006-01-02"

// Calendar maps instants onto civil days in one fixed zone. Every day
// bucket in the ledger is computed through it.
type Calendar struct {
	Location *time.Location
	Now      func() time.Time
}

func NewCalendar(location *time.Location) *Calendar {
	return &Calendar{Location: location, Now: time.Now}
}

func (calendar *Calendar) now() time.Time {
	if calendar.Now == nil {
		return time.Now().In(calendar.Location)
	}
	return calendar.Now().In(calendar.Location)
}

func (calendar *Calendar) Today() string {
	return calendar.now().Format(DateLayout)
}

// DateOf returns the civil date of instant in the calendar's zone.
func (calendar *Calendar) DateOf(instant time.Time) string {
	return instant.In(calendar.Location).Format(DateLayout)
}

// ParseDate validates a YYYY-MM-DD civil date.
func ParseDate(field, value string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, invalid(field, "expected a YYYY-MM-DD date")
	}
	return parsed, nil
}

// DaysBetween lists every civil date from start to end inclusive. Both are
// ParseDate results, so stepping happens in UTC and no day is skipped or
// repeated across zone transitions.
func DaysBetween(start, end time.Time) []string {
	var days []string
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		days = append(days, day.Format(DateLayout))
	}
	return days
}

func parseRange(from, to string) (time.Time, time.Time, error) {
	start, err := ParseDate("from", from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseDate("to", to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, invalid("to", "must not be before from")
	}
	return start, end, nil
}
