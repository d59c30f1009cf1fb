package textparse

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// datePattern pairs a regexp with the order its capture groups carry
// (day-month-year vs year-month-day). Patterns are tried in order; a
// match with an impossible calendar value is rejected and the next
// pattern tried.
type datePattern struct {
	re        *regexp.Regexp
	yearFirst bool
}

var datePatterns = []datePattern{
	{regexp.MustCompile(`(\d{4})[/\-.](\d{1,2})[/\-.](\d{1,2})`), true},
	{regexp.MustCompile(`(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{4})`), false},
}

var timeRe = regexp.MustCompile(`(\d{1,2}):(\d{2})`)

// phnomPenh is the fixed offset used for prescription timestamps.
var phnomPenh = time.FixedZone("ICT", 7*60*60)

// ParseDate extracts the first valid calendar date from text and
// returns it in ISO form (YYYY-MM-DD). Returns "" when no pattern
// yields a real date.
func ParseDate(text string) string {
	text = Normalize(text)
	if d, ok := findDate(text); ok {
		return d.Format("2006-01-02")
	}
	return ""
}

// ParseDateTime extracts a date followed by an HH:MM time and returns
// an ISO timestamp in the local prescription timezone. Returns "" when
// either part is missing or invalid.
func ParseDateTime(text string) string {
	text = Normalize(text)
	d, ok := findDate(text)
	if !ok {
		return ""
	}
	tm := timeRe.FindStringSubmatch(text)
	if tm == nil {
		return ""
	}
	hour, _ := strconv.Atoi(tm[1])
	minute, _ := strconv.Atoi(tm[2])
	if hour > 23 || minute > 59 {
		return ""
	}
	full := time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, phnomPenh)
	return full.Format("2006-01-02T15:04:05-07:00")
}

func findDate(text string) (time.Time, bool) {
	for _, p := range datePatterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			var year, month, day int
			if p.yearFirst {
				year, _ = strconv.Atoi(m[1])
				month, _ = strconv.Atoi(m[2])
				day, _ = strconv.Atoi(m[3])
			} else {
				day, _ = strconv.Atoi(m[1])
				month, _ = strconv.Atoi(m[2])
				year, _ = strconv.Atoi(m[3])
			}
			if d, err := calendarDate(year, month, day); err == nil {
				return d, true
			}
		}
	}
	return time.Time{}, false
}

// calendarDate builds a date and rejects values that normalize away,
// such as month 13 or February 30.
func calendarDate(year, month, day int) (time.Time, error) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("out of range: %04d-%02d-%02d", year, month, day)
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, phnomPenh)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, fmt.Errorf("not a calendar date: %04d-%02d-%02d", year, month, day)
	}
	return d, nil
}
