package textparse

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// vulgar fraction glyphs map to the same values as their a/b spellings.
var fractionGlyphs = map[string]float64{
	"½": 0.5, "¼": 0.25, "¾": 0.75, "⅓": 0.333, "⅔": 0.667,
}

var (
	fracRe      = regexp.MustCompile(`^(\d+)\s*/\s*(\d+)$`)
	mixedFracRe = regexp.MustCompile(`^(\d+)\s+(\d+)\s*/\s*(\d+)$`)
	numberRe    = regexp.MustCompile(`[\d.]+`)
)

// ParseDose interprets a dose-cell value. It returns the numeric dose
// and whether the slot is enabled. Dashes, underscores, "x", "0" and
// empty cells disable the slot; fractions (slash form, mixed form, or
// Unicode vulgar glyphs) and plain numerics enable it.
func ParseDose(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	switch text {
	case "", "-", "—", "_", "0", "x", "X":
		return 0, false
	}

	if v, ok := fractionGlyphs[text]; ok {
		return v, true
	}

	if m := fracRe.FindStringSubmatch(text); m != nil {
		num, _ := strconv.Atoi(m[1])
		den, _ := strconv.Atoi(m[2])
		if den > 0 {
			return round3(float64(num) / float64(den)), true
		}
	}

	if m := mixedFracRe.FindStringSubmatch(text); m != nil {
		whole, _ := strconv.Atoi(m[1])
		num, _ := strconv.Atoi(m[2])
		den, _ := strconv.Atoi(m[3])
		if den > 0 {
			return round3(float64(whole) + float64(num)/float64(den)), true
		}
	}

	if v, err := strconv.ParseFloat(text, 64); err == nil {
		return v, v > 0
	}

	// Last resort: first embedded numeric run.
	if d := numberRe.FindString(text); d != "" {
		if v, err := strconv.ParseFloat(d, 64); err == nil {
			return v, v > 0
		}
	}
	return 0, false
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
