// Package normalizer converts raw date and amount cells into canonical values.
package normalizer

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ISODate is the canonical output layout for dates.
const ISODate = "2006-01-02"

// ErrInvalidDate is returned when no supported date pattern matches.
var ErrInvalidDate = errors.New("invalid date format")

// monthNames covers Indonesian and English names and abbreviations.
var monthNames = map[string]time.Month{
	"jan": time.January, "januari": time.January, "january": time.January,
	"feb": time.February, "februari": time.February, "february": time.February,
	"mar": time.March, "maret": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"mei": time.May, "may": time.May,
	"jun": time.June, "juni": time.June, "june": time.June,
	"jul": time.July, "juli": time.July, "july": time.July,
	"agu": time.August, "agt": time.August, "agustus": time.August, "aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"okt": time.October, "oktober": time.October, "oct": time.October, "october": time.October,
	"nov": time.November, "nopember": time.November, "november": time.November,
	"des": time.December, "desember": time.December, "dec": time.December, "december": time.December,
}

var (
	dayMonthShortYear = regexp.MustCompile(`^(\d{1,2})[-/]([A-Za-z]+)[-/](\d{2})$`)
	dayMonthLongYear  = regexp.MustCompile(`^(\d{1,2})[-/]([A-Za-z]+)[-/](\d{4})$`)
	dayMonthSpaced    = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]+)\s+(\d{4})$`)
	monthDayYear      = regexp.MustCompile(`^([A-Za-z]+)\s+(\d{1,2}),?\s+(\d{4})$`)
)

// numericLayouts are tried in order; a layout only matches when formatting
// the parsed date reproduces the input exactly.
var numericLayouts = []struct {
	layout    string
	shortYear bool
}{
	{"2006-01-02", false},
	{"02/01/2006", false},
	{"01/02/2006", false},
	{"02-01-2006", false},
	{"01-02-2006", false},
	{"2006/01/02", false},
	{"02.01.2006", false},
	{"02/01/06", true},
	{"01/02/06", true},
	{"02-01-06", true},
	{"01-02-06", true},
}

// ParseDate normalizes raw to YYYY-MM-DD. Named-month patterns are tried
// first, then the numeric layouts.
func ParseDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrInvalidDate
	}

	if m := dayMonthShortYear.FindStringSubmatch(s); m != nil {
		yy, _ := strconv.Atoi(m[3])
		if d, ok := namedDate(m[1], m[2], 2000+yy); ok {
			return d, nil
		}
	}
	if m := dayMonthLongYear.FindStringSubmatch(s); m != nil {
		if d, ok := namedDate(m[1], m[2], atoi(m[3])); ok {
			return d, nil
		}
	}
	if m := dayMonthSpaced.FindStringSubmatch(s); m != nil {
		if d, ok := namedDate(m[1], m[2], atoi(m[3])); ok {
			return d, nil
		}
	}
	if m := monthDayYear.FindStringSubmatch(s); m != nil {
		if d, ok := namedDate(m[2], m[1], atoi(m[3])); ok {
			return d, nil
		}
	}

	for _, nl := range numericLayouts {
		t, err := time.Parse(nl.layout, s)
		if err != nil || t.Format(nl.layout) != s {
			continue
		}
		if nl.shortYear {
			t = remapShortYear(t)
		}
		return t.Format(ISODate), nil
	}

	return "", ErrInvalidDate
}

// namedDate builds a date from a day string and month name, rejecting
// unknown months and days that do not exist in the month.
func namedDate(day, monthName string, year int) (string, bool) {
	month, ok := monthNames[strings.ToLower(monthName)]
	if !ok {
		return "", false
	}
	d := atoi(day)
	if d < 1 {
		return "", false
	}
	t := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || t.Month() != month {
		return "", false
	}
	return t.Format(ISODate), true
}

// remapShortYear applies the <50 → 20xx, otherwise 19xx rule.
func remapShortYear(t time.Time) time.Time {
	yy := t.Year() % 100
	year := 1900 + yy
	if yy < 50 {
		year = 2000 + yy
	}
	return time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
