package textparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace collapse", "  a \t b\n c  ", "a b c"},
		{"khmer numerals", "១៤ ថ្ងៃ", "14 ថ្ងៃ"},
		{"mixed", "  ២០mg  ", "20mg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, LangEnglish, DetectLanguage(""))
	assert.Equal(t, LangEnglish, DetectLanguage("Paracetamol 500mg"))
	assert.Equal(t, LangKhmer, DetectLanguage("ថ្ងៃ"))
	assert.Equal(t, LangMixed, DetectLanguage("14 days ថ្ងៃ otherwise latin text"))
}

func TestParseDose(t *testing.T) {
	tests := []struct {
		in          string
		wantVal     float64
		wantEnabled bool
	}{
		{"-", 0, false},
		{"—", 0, false},
		{"_", 0, false},
		{"", 0, false},
		{"0", 0, false},
		{"x", 0, false},
		{"1", 1, true},
		{"2", 2, true},
		{"1.5", 1.5, true},
		{"1/2", 0.5, true},
		{"1 / 2", 0.5, true},
		{"1/3", 0.333, true},
		{"2/3", 0.667, true},
		{"1 1/2", 1.5, true},
		{"½", 0.5, true},
		{"¼", 0.25, true},
		{"¾", 0.75, true},
		{"⅓", 0.333, true},
		{"⅔", 0.667, true},
		{"1 tab", 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, enabled := ParseDose(tt.in)
			assert.InDelta(t, tt.wantVal, v, 1e-9)
			assert.Equal(t, tt.wantEnabled, enabled)
		})
	}
}

func TestParseDoseGlyphMatchesSlashForm(t *testing.T) {
	gv, ge := ParseDose("½")
	sv, se := ParseDose("1/2")
	assert.Equal(t, gv, sv)
	assert.Equal(t, ge, se)
}

func TestParseMedicationName(t *testing.T) {
	tests := []struct {
		in       string
		wantName string
		wantVal  float64
		wantUnit string
	}{
		{"Butylscopolamine 10mg", "Butylscopolamine", 10, "mg"},
		{"Omeprazole 20 mg", "Omeprazole", 20, "mg"},
		{"Amoxicillin 0.5g", "Amoxicillin", 0.5, "g"},
		{"Vitamin D 1000 IU", "Vitamin D", 1000, "IU"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, s := ParseMedicationName(tt.in)
			assert.Equal(t, tt.wantName, name)
			require.NotNil(t, s)
			assert.InDelta(t, tt.wantVal, s.Value, 1e-9)
			assert.Equal(t, tt.wantUnit, s.Unit)
		})
	}
}

func TestParseMedicationNameNoStrength(t *testing.T) {
	name, s := ParseMedicationName("Multivitamine")
	assert.Equal(t, "Multivitamine", name)
	assert.Nil(t, s)

	name, s = ParseMedicationName("")
	assert.Empty(t, name)
	assert.Nil(t, s)
}

func TestParseDuration(t *testing.T) {
	d := ParseDuration("14 days")
	require.NotNil(t, d)
	assert.Equal(t, 14, d.Days)
	assert.Equal(t, "days", d.Unit)
	assert.Empty(t, d.Note)

	// Khmer numeral and unit word yield the same value.
	d = ParseDuration("១៤ ថ្ងៃ")
	require.NotNil(t, d)
	assert.Equal(t, 14, d.Days)
	assert.Equal(t, "days", d.Unit)
}

func TestParseDurationWeeksConvertToDays(t *testing.T) {
	d := ParseDuration("2 weeks")
	require.NotNil(t, d)
	assert.Equal(t, 14, d.Days)
	assert.Equal(t, "weeks", d.Unit)

	d = ParseDuration("1 សប្ដាហ៍")
	require.NotNil(t, d)
	assert.Equal(t, 7, d.Days)
}

func TestParseDurationYearsConvertToDays(t *testing.T) {
	d := ParseDuration("1 year")
	require.NotNil(t, d)
	assert.Equal(t, 365, d.Days)
	assert.Equal(t, "years", d.Unit)

	d = ParseDuration("1 ឆ្នាំ")
	require.NotNil(t, d)
	assert.Equal(t, 365, d.Days)
}

func TestParseDurationUntilFinishedNote(t *testing.T) {
	plain := ParseDuration("14 ថ្ងៃ")
	noted := ParseDuration("14 ថ្ងៃរួសាប់")
	require.NotNil(t, plain)
	require.NotNil(t, noted)
	assert.Equal(t, plain.Days, noted.Days)
	assert.Contains(t, noted.Note, "until finished")
}

func TestParseDurationMiss(t *testing.T) {
	assert.Nil(t, ParseDuration(""))
	assert.Nil(t, ParseDuration("no number here"))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"25/12/2024", "2024-12-25"},
		{"25-12-2024", "2024-12-25"},
		{"2024/12/25", "2024-12-25"},
		{"2024-12-25", "2024-12-25"},
		{"2024.12.25", "2024-12-25"},
		{"Date: 03/01/2025", "2025-01-03"},
		{"៣/១/២០២៥", "2025-01-03"},
		{"13/13/2024", ""},    // month 13 in both orders
		{"30/02/2024", ""},    // February 30
		{"nothing here", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDate(tt.in))
		})
	}
}

func TestParseDateTime(t *testing.T) {
	got := ParseDateTime("25/12/2024 14:30")
	assert.Equal(t, "2024-12-25T14:30:00+07:00", got)

	assert.Empty(t, ParseDateTime("25/12/2024"))
	assert.Empty(t, ParseDateTime("25/12/2024 99:30"))
}

func TestDetectRoute(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"take PO twice daily", "PO"},
		{"IV infusion", "IV"},
		{"intramuscular injection", "IM"},
		{"SC before breakfast", "SC"},
		{"sublingual", "SL"},
		{"apply topical cream", "TOP"},
		{"inhaled as needed", "INH"},
		{"no route mentioned", "PO"},
		{"", "PO"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectRoute(tt.in).Code)
		})
	}
}
