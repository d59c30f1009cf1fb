package postprocess

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/clinicode/rxscan/internal/textparse"
)

var (
	patientIDRe  = regexp.MustCompile(`([A-Z]{2,5}\d{5,})`)
	ageRe        = regexp.MustCompile(`(?i)(\d{1,3})\s*(?:years?|ans?|ឆ្នាំ)`)
	prescriberRe = regexp.MustCompile(`[A-Z][a-z]+\s+[A-Z][a-z]+`)
)

// Gender keyword groups. Female first: "female" contains "male".
var (
	femaleWords = []string{"female", "femme", "ស្រី"}
	maleWords   = []string{"male", "homme", "ប្រុស"}
)

// nonEmptyLines splits raw OCR text into normalized lines.
func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = textparse.Normalize(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// ParseHeader reads the facility block at the top of the form.
func ParseHeader(text string) FacilityInfo {
	info := FacilityInfo{FacilityType: "public_hospital"}
	info.Lines = nonEmptyLines(text)

	for _, line := range info.Lines {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "h-eqip") || strings.Contains(lower, "heqip") {
			info.SystemName = "H-EQIP"
		} else if strings.Contains(lower, "hospital") || strings.Contains(lower, "clinic") {
			info.NameEnglish = line
		}
		if info.NameKhmer == "" && textparse.IsKhmer(line) && len([]rune(line)) > 5 {
			info.NameKhmer = line
		}
	}
	return info
}

// ParsePatient reads the patient identification block.
func ParsePatient(text string) PatientInfo {
	norm := textparse.Normalize(text)
	var info PatientInfo

	if m := patientIDRe.FindStringSubmatch(norm); m != nil {
		info.PatientID = m[1]
	}
	if m := ageRe.FindStringSubmatch(norm); m != nil {
		if age, err := strconv.Atoi(m[1]); err == nil {
			info.Age = &age
		}
	}

	lower := strings.ToLower(norm)
	if containsAny(lower, femaleWords) {
		info.Gender, info.GenderEnglish, info.GenderKhmer = "F", "Female", "ស្រី"
	} else if containsAny(lower, maleWords) {
		info.Gender, info.GenderEnglish, info.GenderKhmer = "M", "Male", "ប្រុស"
	}
	return info
}

// ParseClinical reads the diagnosis section. The whole normalized text
// becomes the primary diagnosis; the form carries free prose here.
func ParseClinical(text string) ClinicalInfo {
	return ClinicalInfo{Diagnosis: textparse.Normalize(text)}
}

// ParseFooter reads the signature block: prescription date, optional
// time, and the prescriber's name.
func ParseFooter(text string) FooterInfo {
	info := FooterInfo{Lines: nonEmptyLines(text)}

	for _, line := range info.Lines {
		if dt := textparse.ParseDateTime(line); dt != "" {
			info.DateTime = dt
			info.Date = textparse.ParseDate(line)
			break
		}
		if d := textparse.ParseDate(line); d != "" {
			info.Date = d
		}
	}
	for _, line := range info.Lines {
		if prescriberRe.MatchString(line) {
			info.Prescriber = line
			break
		}
	}
	return info
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
