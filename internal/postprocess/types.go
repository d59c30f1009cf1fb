package postprocess

import (
	"github.com/clinicode/rxscan/internal/imgproc"
	"github.com/clinicode/rxscan/internal/layout"
	"github.com/clinicode/rxscan/internal/recognize"
	"github.com/clinicode/rxscan/internal/textparse"
)

// MedicationRow is the intermediate per-row bundle handed over by the
// table stage: raw recognized text per column plus positional detail.
// Consumed immediately; never persisted.
type MedicationRow struct {
	Columns map[layout.ColumnKind]string
	Boxes   map[layout.ColumnKind]imgproc.BBox
	Words   []recognize.Word
}

// Text returns the raw text of one column, or "".
func (r MedicationRow) Text(col layout.ColumnKind) string {
	return r.Columns[col]
}

// Dose is one recognized dose cell.
type Dose struct {
	Raw     string  `json:"raw_text"`
	Numeric float64 `json:"numeric"`
	Enabled bool    `json:"enabled"`
}

// TimeSlot is one of the four fixed schedule slots. The schedule
// always carries exactly four slots in period order.
type TimeSlot struct {
	Period    string `json:"period"`
	TimeRange string `json:"time_range"`
	Dose      Dose   `json:"dose"`
}

// timeSlotDefs fixes the slot order and clock ranges of the form.
var timeSlotDefs = [4]struct {
	period    string
	timeRange string
}{
	{"morning", "06:00-08:00"},
	{"midday", "11:00-12:00"},
	{"afternoon", "17:00-18:00"},
	{"evening", "20:00-22:00"},
}

// Name carries the resolved medication naming.
type Name struct {
	Brand    string       `json:"brand_name"`
	Generic  string       `json:"generic_name"`
	FullText string       `json:"full_text"`
	Box      imgproc.BBox `json:"bbox"`
}

// Frequency describes how often the medication is taken.
type Frequency struct {
	TimesPerDay   int    `json:"times_per_day"`
	IntervalHours int    `json:"interval_hours"`
	Description   string `json:"text_description"`
}

// Dosing aggregates duration, schedule and quantity.
type Dosing struct {
	Duration       *textparse.Duration `json:"duration,omitempty"`
	DurationText   string              `json:"duration_text"`
	Schedule       []TimeSlot          `json:"time_slots"`
	Frequency      Frequency           `json:"frequency"`
	TotalQuantity  *int                `json:"total_quantity,omitempty"`
	TotalDailyDose float64             `json:"total_daily_dose"`
}

// FoodTiming is a class-derived administration hint.
type FoodTiming struct {
	BeforeMeal bool   `json:"before_meal"`
	AfterMeal  bool   `json:"after_meal"`
	Text       string `json:"text"`
}

// MedicationItem is one fully assembled prescription line.
type MedicationItem struct {
	ItemNumber       int                 `json:"item_number"`
	Name             Name                `json:"name"`
	Strength         *textparse.Strength `json:"strength,omitempty"`
	Route            textparse.Route     `json:"route"`
	Dosing           Dosing              `json:"dosing"`
	Instructions     string              `json:"instructions"`
	FoodTiming       *FoodTiming         `json:"food_timing,omitempty"`
	TherapeuticClass string              `json:"therapeutic_class,omitempty"`
	MatchConfidence  float64             `json:"match_confidence"`
	ReviewFields     []string            `json:"review_fields,omitempty"`
}

// FacilityInfo holds what the header region yields.
type FacilityInfo struct {
	NameEnglish  string   `json:"name_english,omitempty"`
	NameKhmer    string   `json:"name_khmer,omitempty"`
	SystemName   string   `json:"system_name,omitempty"`
	FacilityType string   `json:"facility_type"`
	Lines        []string `json:"lines,omitempty"`
}

// PatientInfo holds what the patient region yields. Absent fields stay
// zero-valued.
type PatientInfo struct {
	PatientID     string `json:"patient_id,omitempty"`
	Age           *int   `json:"age,omitempty"`
	Gender        string `json:"gender,omitempty"`
	GenderEnglish string `json:"gender_english,omitempty"`
	GenderKhmer   string `json:"gender_khmer,omitempty"`
}

// ClinicalInfo holds the diagnosis section.
type ClinicalInfo struct {
	Diagnosis string `json:"diagnosis,omitempty"`
}

// FooterInfo holds prescription date and prescriber.
type FooterInfo struct {
	Date       string   `json:"date,omitempty"`
	DateTime   string   `json:"datetime,omitempty"`
	Prescriber string   `json:"prescriber_name,omitempty"`
	Lines      []string `json:"lines,omitempty"`
}
