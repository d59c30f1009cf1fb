// Package postprocess assembles recognized table rows and region text
// into typed prescription records.
package postprocess

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/clinicode/rxscan/internal/layout"
	"github.com/clinicode/rxscan/internal/lexicon"
	"github.com/clinicode/rxscan/internal/textparse"
)

// Processor turns MedicationRows into MedicationItems using the shared
// lexicon. Stateless apart from the immutable lexicon.
type Processor struct {
	lex    *lexicon.Lexicon
	logger *slog.Logger
}

// NewProcessor creates a Processor.
func NewProcessor(lex *lexicon.Lexicon, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{lex: lex, logger: logger}
}

// BuildMedicationItem assembles one prescription line. itemNumber is
// 1-based document order. Unparseable fields stay at their zero value
// and are listed in ReviewFields rather than failing the row.
func (p *Processor) BuildMedicationItem(row MedicationRow, itemNumber int) MedicationItem {
	medText := textparse.Normalize(row.Text(layout.ColMedication))
	name, strength := textparse.ParseMedicationName(medText)

	match := p.lex.Match(name)
	brand := name
	generic := name
	class := ""
	if match.Confidence > 0 {
		brand = match.Name
		class = match.Class
		if match.Generic != "" {
			generic = match.Generic
		} else {
			generic = match.Name
		}
	}

	durationText := textparse.Normalize(row.Text(layout.ColDuration))
	duration := textparse.ParseDuration(durationText)

	var review []string
	schedule := make([]TimeSlot, 0, len(timeSlotDefs))
	enabled := 0
	dailyDose := 0.0
	for i, col := range layout.DoseColumns {
		raw := strings.TrimSpace(row.Text(col))
		if raw == "" {
			raw = "-"
		}
		val, on := textparse.ParseDose(raw)
		schedule = append(schedule, TimeSlot{
			Period:    timeSlotDefs[i].period,
			TimeRange: timeSlotDefs[i].timeRange,
			Dose:      Dose{Raw: raw, Numeric: val, Enabled: on},
		})
		if on {
			enabled++
			dailyDose += val
		}
	}

	interval := 24
	if enabled >= 2 {
		interval = 24 / enabled
	}

	var totalQuantity *int
	if duration != nil && duration.Days > 0 && dailyDose > 0 {
		exact := dailyDose * float64(duration.Days)
		q := int(exact)
		totalQuantity = &q
		// Truncation of a fractional total is ambiguous on the form;
		// keep the floor and ask a human.
		if exact != math.Trunc(exact) {
			review = append(review, "total_quantity")
		}
	}

	instructions := textparse.Normalize(row.Text(layout.ColInstr))
	route := textparse.DetectRoute(instructions)

	if match.Confidence == 0 && name != "" {
		review = append(review, "medication_name")
	}
	if duration == nil && dailyDose > 0 {
		review = append(review, "duration")
	}

	item := MedicationItem{
		ItemNumber: itemNumber,
		Name: Name{
			Brand:    brand,
			Generic:  generic,
			FullText: medText,
			Box:      row.Boxes[layout.ColMedication],
		},
		Strength: strength,
		Route:    route,
		Dosing: Dosing{
			Duration:     duration,
			DurationText: durationText,
			Schedule:     schedule,
			Frequency: Frequency{
				TimesPerDay:   enabled,
				IntervalHours: interval,
				Description:   frequencyText(enabled, durationNote(duration)),
			},
			TotalQuantity:  totalQuantity,
			TotalDailyDose: dailyDose,
		},
		Instructions:     instructions,
		FoodTiming:       guessFoodTiming(class),
		TherapeuticClass: class,
		MatchConfidence:  match.Confidence,
		ReviewFields:     review,
	}

	p.logger.Debug("medication row assembled",
		"item", itemNumber, "name", brand,
		"slots_enabled", enabled, "confidence", match.Confidence)
	return item
}

func durationNote(d *textparse.Duration) string {
	if d == nil {
		return ""
	}
	return d.Note
}

// frequencyText renders the schedule as prose, e.g. "3 times daily".
func frequencyText(timesPerDay int, note string) string {
	plural := "s"
	if timesPerDay == 1 {
		plural = ""
	}
	base := fmt.Sprintf("%d time%s daily", timesPerDay, plural)
	if strings.Contains(note, "until finished") {
		base += " until finished"
	}
	return base
}

// guessFoodTiming derives a food-timing hint from the therapeutic
// class. Nil when the class gives nothing to go on.
func guessFoodTiming(class string) *FoodTiming {
	c := strings.ToLower(class)
	switch {
	case c == "":
		return nil
	case strings.Contains(c, "proton pump"):
		return &FoodTiming{BeforeMeal: true, Text: "Take before meals"}
	case strings.Contains(c, "vitamin"), strings.Contains(c, "supplement"),
		strings.Contains(c, "nsaid"):
		return &FoodTiming{AfterMeal: true, Text: "Take after meals"}
	}
	return nil
}
