// Package textparse provides grammar-level parsers for recognized
// prescription text: medication names with strength, durations, dose
// values, dates, administration routes, and mixed Khmer/Latin numerals.
// All parsers are pure functions over normalized strings and report a
// miss by returning zero values, never an error.
package textparse

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// khmerDigits maps Khmer numerals to their Arabic equivalents.
var khmerDigits = map[rune]rune{
	'០': '0', '១': '1', '២': '2', '៣': '3', '៤': '4',
	'៥': '5', '៦': '6', '៧': '7', '៨': '8', '៩': '9',
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Language identifies the dominant script of a text fragment.
type Language string

const (
	LangEnglish Language = "english"
	LangKhmer   Language = "khmer"
	LangMixed   Language = "mixed"
)

// ConvertKhmerNumerals replaces Khmer digits with Arabic digits.
func ConvertKhmerNumerals(text string) string {
	return strings.Map(func(r rune) rune {
		if d, ok := khmerDigits[r]; ok {
			return d
		}
		return r
	}, text)
}

// Normalize trims and collapses whitespace, applies Unicode NFC and
// converts Khmer numerals to Arabic. All parsers in this package expect
// their input in this form.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = norm.NFC.String(text)
	text = strings.TrimSpace(text)
	text = whitespaceRe.ReplaceAllString(text, " ")
	return ConvertKhmerNumerals(text)
}

// IsKhmer reports whether text contains any Khmer script characters.
func IsKhmer(text string) bool {
	for _, r := range text {
		if r >= 0x1780 && r <= 0x17FF {
			return true
		}
	}
	return false
}

// IsEnglish reports whether text is predominantly ASCII.
func IsEnglish(text string) bool {
	if text == "" {
		return false
	}
	ascii := 0
	total := 0
	for _, r := range text {
		total++
		if r >= 0x20 && r <= 0x7F {
			ascii++
		}
	}
	return ascii*2 > total
}

// DetectLanguage returns the dominant language of a text fragment.
// Empty or blank text defaults to English.
func DetectLanguage(text string) Language {
	if strings.TrimSpace(text) == "" {
		return LangEnglish
	}
	kh := IsKhmer(text)
	en := IsEnglish(text)
	switch {
	case kh && en:
		return LangMixed
	case kh:
		return LangKhmer
	default:
		return LangEnglish
	}
}
