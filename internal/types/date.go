package types

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DatePrecision is the number of leading components a ReleaseDate carries.
type DatePrecision uint8

const (
	PrecisionNone DatePrecision = iota
	PrecisionYear
	PrecisionMonth
	PrecisionDay
	PrecisionHour
	PrecisionMinute
	PrecisionSecond
)

// ReleaseDate is a partial ISO-8601 date.
//
// Only a contiguous prefix is meaningful: a day is never set without a
// month. Components beyond the precision are zero.
type ReleaseDate struct {
	year      int
	month     int
	day       int
	hour      int
	minute    int
	second    int
	precision DatePrecision
}

// NewDate builds a ReleaseDate from a year and up to five further components
// (month, day, hour, minute, second). It fails when a component is out of
// range or the year does not fit the four-digit ISO-8601 form.
//
// Example:
//
//	d, err := types.NewDate(1999, 12, 31) // 1999-12-31
func NewDate(year int, rest ...int) (ReleaseDate, error) {
	if len(rest) > 5 {
		return ReleaseDate{}, fmt.Errorf("release date takes at most six components, got %d", len(rest)+1)
	}
	d := buildDate(year, rest)
	if !d.valid() {
		return ReleaseDate{}, fmt.Errorf("invalid release date %s", d)
	}
	return d, nil
}

// MustDate is like NewDate but panics on invalid components. It is meant
// for dates written as literals.
func MustDate(year int, rest ...int) ReleaseDate {
	d, err := NewDate(year, rest...)
	if err != nil {
		panic("types: " + err.Error())
	}
	return d
}

func buildDate(year int, rest []int) ReleaseDate {
	d := ReleaseDate{year: year, precision: PrecisionYear + DatePrecision(len(rest))}
	parts := []*int{&d.month, &d.day, &d.hour, &d.minute, &d.second}
	for i, v := range rest {
		*parts[i] = v
	}
	return d
}

var datePattern = regexp.MustCompile(
	`^(\d{4})(?:-(\d{2})(?:-(\d{2})(?:[T ](\d{2})(?::(\d{2})(?::(\d{2}))?)?)?)?)?$`)

// ParseDate parses an ISO-8601 prefix such as "2004", "2004-07" or
// "2004-07-15T10:30". Surrounding whitespace is ignored. It reports false
// when the string is not a well-formed prefix or a component is out of range.
func ParseDate(s string) (ReleaseDate, bool) {
	m := datePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return ReleaseDate{}, false
	}

	var comps []int
	for _, g := range m[1:] {
		if g == "" {
			break
		}
		n, err := strconv.Atoi(g)
		if err != nil {
			return ReleaseDate{}, false
		}
		comps = append(comps, n)
	}

	d, err := NewDate(comps[0], comps[1:]...)
	return d, err == nil
}

func (d ReleaseDate) valid() bool {
	if d.year < 0 || d.year > 9999 {
		return false
	}
	if d.precision >= PrecisionMonth && (d.month < 1 || d.month > 12) {
		return false
	}
	if d.precision >= PrecisionDay {
		last := time.Date(d.year, time.Month(d.month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
		if d.day < 1 || d.day > last {
			return false
		}
	}
	if d.precision >= PrecisionHour && (d.hour < 0 || d.hour > 23) {
		return false
	}
	if d.precision >= PrecisionMinute && (d.minute < 0 || d.minute > 59) {
		return false
	}
	if d.precision >= PrecisionSecond && (d.second < 0 || d.second > 59) {
		return false
	}
	return true
}

// Precision returns how many components are set.
func (d ReleaseDate) Precision() DatePrecision { return d.precision }

// IsZero reports whether no component is set.
func (d ReleaseDate) IsZero() bool { return d.precision == PrecisionNone }

// Year returns the year.
func (d ReleaseDate) Year() int { return d.year }

// Month returns the month, or 0 beyond the precision.
func (d ReleaseDate) Month() int { return d.month }

// Day returns the day of month, or 0 beyond the precision.
func (d ReleaseDate) Day() int { return d.day }

// Hour returns the hour, or 0 beyond the precision.
func (d ReleaseDate) Hour() int { return d.hour }

// Minute returns the minute, or 0 beyond the precision.
func (d ReleaseDate) Minute() int { return d.minute }

// Second returns the second, or 0 beyond the precision.
func (d ReleaseDate) Second() int { return d.second }

// String renders the date as the ISO-8601 prefix it was built from.
func (d ReleaseDate) String() string {
	var b strings.Builder
	if d.precision >= PrecisionYear {
		fmt.Fprintf(&b, "%04d", d.year)
	}
	if d.precision >= PrecisionMonth {
		fmt.Fprintf(&b, "-%02d", d.month)
	}
	if d.precision >= PrecisionDay {
		fmt.Fprintf(&b, "-%02d", d.day)
	}
	if d.precision >= PrecisionHour {
		fmt.Fprintf(&b, "T%02d", d.hour)
	}
	if d.precision >= PrecisionMinute {
		fmt.Fprintf(&b, ":%02d", d.minute)
	}
	if d.precision >= PrecisionSecond {
		fmt.Fprintf(&b, ":%02d", d.second)
	}
	return b.String()
}
