package textparse

import (
	"regexp"
	"strconv"
	"strings"
)

// Strength is a parsed medication strength, e.g. 10 mg.
type Strength struct {
	Value float64
	Text  string
	Unit  string
}

var strengthRe = regexp.MustCompile(`(?i)^(.+?)\s+(\d+(?:\.\d+)?)\s*(mg|g|ml|mcg|IU|%|mEq|mmol|units?)$`)

// ParseMedicationName splits a recognized name cell into the drug name
// and an optional trailing strength ("Omeprazole 20mg"). If no strength
// pattern matches, the whole normalized string is the name and the
// returned Strength pointer is nil.
func ParseMedicationName(text string) (string, *Strength) {
	text = Normalize(text)
	if text == "" {
		return "", nil
	}
	m := strengthRe.FindStringSubmatch(text)
	if m == nil {
		return text, nil
	}
	v, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return text, nil
	}
	return strings.TrimSpace(m[1]), &Strength{
		Value: v,
		Text:  m[2] + m[3],
		Unit:  m[3],
	}
}
