package layout

import (
	"regexp"
	"strings"

	"github.com/clinicode/rxscan/internal/textparse"
)

// RowClass is the outcome of free-text row classification.
type RowClass string

const (
	RowMedication RowClass = "medication"
	RowHeader     RowClass = "header"
	RowOther      RowClass = "other"
)

// headerKeywords identify table header and section label rows. Latin
// and Khmer labels from the source form.
var headerKeywords = []string{
	"medication", "name of medicine", "duration", "instruction",
	"morning", "midday", "afternoon", "evening", "item", "dose",
	"quantity", "signature", "diagnosis", "patient",
	"ឈ្មោះថ្នាំ", "រយៈពេល", "ព្រឹក", "ថ្ងៃត្រង់", "ល្ងាច", "យប់",
	"ការណែនាំ", "ហត្ថលេខា",
}

// drugSuffixes are common INN name endings used as a weak medication
// signal for rows without a strength pattern.
var drugSuffixes = []string{
	"cillin", "azole", "mycin", "pril", "olol", "statin", "prazole",
	"floxacin", "cycline", "dipine", "formin", "gliptin", "sartan",
	"zepam", "semide", "vitamin", "vitamine",
}

var (
	strengthPatternRe = regexp.MustCompile(`(?i)\d+\s*(mg|g|ml|mcg|iu)\b`)
	capitalRunRe      = regexp.MustCompile(`\b[A-Z][a-z]{3,}\b`)
	letterRunRe       = regexp.MustCompile(`(?i)[a-z]{3,}`)
	khmerRunRe        = regexp.MustCompile(`[\x{1780}-\x{17FF}]{3,}`)
)

// rowRule pairs a named predicate with the class it assigns. Rules are
// evaluated in order; the first hit wins.
type rowRule struct {
	name  string
	class RowClass
	match func(string) bool
}

var rowRules = []rowRule{
	{"header-keyword", RowHeader, containsHeaderKeyword},
	{"strength-pattern", RowMedication, strengthPatternRe.MatchString},
	{"drug-suffix", RowMedication, hasDrugSuffix},
	{"capitalized-run", RowMedication, capitalRunRe.MatchString},
	{"letter-run", RowMedication, letterRunRe.MatchString},
	{"khmer-run", RowMedication, khmerRunRe.MatchString},
}

// ClassifyRow decides whether a free-text row carries a medication.
// Header label rows are excluded first so column titles never become
// items.
func ClassifyRow(text string) RowClass {
	text = textparse.Normalize(text)
	if len(text) < 3 {
		return RowOther
	}
	for _, rule := range rowRules {
		if rule.match(text) {
			return rule.class
		}
	}
	return RowOther
}

func containsHeaderKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range headerKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func hasDrugSuffix(text string) bool {
	lower := strings.ToLower(text)
	for _, word := range strings.Fields(lower) {
		for _, suffix := range drugSuffixes {
			if strings.HasSuffix(word, suffix) && len(word) > len(suffix) {
				return true
			}
		}
	}
	return false
}
