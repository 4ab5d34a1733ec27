package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var errInsufficientDateFields = errors.New("insufficient date fields to derive a timestamp")

// deriveTime builds a UTC timestamp from extracted date fields. Ordinal
// dates (year plus jday) win over calendar dates (year, month, day); hour
// and minute default to zero. A zero-valued date component counts as
// absent, after two-digit years are widened into the 2000s, so "00" means
// the year 2000. Ordinal day counts past the end of the year roll over;
// impossible calendar dates are rejected.
func deriveTime(fields map[string]string) (time.Time, error) {
	year, err := dateComponent(fields, "year")
	if err != nil {
		return time.Time{}, err
	}
	if len(fields["year"]) == 2 {
		year += 2000
	}

	month, err := dateComponent(fields, "month")
	if err != nil {
		return time.Time{}, err
	}
	day, err := dateComponent(fields, "day")
	if err != nil {
		return time.Time{}, err
	}
	jday, err := dateComponent(fields, "jday")
	if err != nil {
		return time.Time{}, err
	}
	hour, err := dateComponent(fields, "hour")
	if err != nil {
		return time.Time{}, err
	}
	minute, err := dateComponent(fields, "minute")
	if err != nil {
		return time.Time{}, err
	}

	switch {
	case year != 0 && jday != 0:
		base := time.Date(year, time.January, 1, hour, minute, 0, 0, time.UTC)
		return base.AddDate(0, 0, jday-1), nil
	case year != 0 && month != 0 && day != 0:
		t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
		if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
			return time.Time{}, fmt.Errorf("invalid calendar date %04d-%02d-%02d", year, month, day)
		}
		return t, nil
	default:
		return time.Time{}, errInsufficientDateFields
	}
}

// dateComponent parses a numeric field, treating absence and empty text as
// zero.
func dateComponent(fields map[string]string, name string) (int, error) {
	s, ok := fields[name]
	if !ok || s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("field %s: %w", name, err)
	}
	return v, nil
}
