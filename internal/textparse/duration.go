package textparse

import (
	"regexp"
	"strconv"
	"strings"
)

// Duration is a parsed treatment duration. Days carries the
// day-equivalent value when the unit is weeks or years; month values
// are kept in their original magnitude since month lengths vary per
// prescription.
type Duration struct {
	Days int
	Unit string
	Note string
}

const untilFinishedKhmer = "រួសាប់"

var (
	durationNumRe   = regexp.MustCompile(`(\d+)`)
	durationWeekRe  = regexp.MustCompile(`(?i)(weeks?|សប្ដាហ៍)`)
	durationMonthRe = regexp.MustCompile(`(?i)(months?|ខែ)`)
	durationYearRe  = regexp.MustCompile(`(?i)(years?|ឆ្នាំ)`)
	untilFinishedRe = regexp.MustCompile(`(?i)(until\s+finished|continue)`)
)

// ParseDuration extracts the numeric duration from a cell like
// "14 ថ្ងៃ" or "21 days". Weeks are converted to day-equivalents. A
// trailing "until finished" keyword, Latin or Khmer, attaches as a note
// without changing the numeric value. Returns nil when no number is
// present, with the note still populated if the keyword alone appears.
func ParseDuration(text string) *Duration {
	text = Normalize(text)
	if text == "" {
		return nil
	}

	note := ""
	if strings.Contains(text, untilFinishedKhmer) {
		note = untilFinishedKhmer + " (until finished)"
	} else if untilFinishedRe.MatchString(text) {
		note = "until finished"
	}

	m := durationNumRe.FindStringSubmatch(text)
	if m == nil {
		if note == "" {
			return nil
		}
		return &Duration{Unit: "days", Note: note}
	}
	value, _ := strconv.Atoi(m[1])

	unit := "days"
	switch {
	case durationWeekRe.MatchString(text):
		unit = "weeks"
		value *= 7
	case durationMonthRe.MatchString(text):
		unit = "months"
	case durationYearRe.MatchString(text):
		unit = "years"
		value *= 365
	}

	return &Duration{Days: value, Unit: unit, Note: note}
}
