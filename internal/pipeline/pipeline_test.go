package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicode/rxscan/internal/lexicon"
	"github.com/clinicode/rxscan/internal/preprocess"
	"github.com/clinicode/rxscan/internal/recognize"
)

// scriptedEngine answers recognition calls by layout hint and crop
// geometry, so the concurrent region calls stay deterministic
// regardless of scheduling order. Single-line duration calls pop a
// queue; those run sequentially in row order.
type scriptedEngine struct {
	mu          sync.Mutex
	regions     map[string]recognize.RegionResult // keyed "WxH"
	regionErr   error
	sparse      recognize.RegionResult
	sparseErr   error
	page        recognize.RegionResult
	durations   []string
	sparseCalls int
}

func (e *scriptedEngine) Recognize(_ context.Context, img image.Image, _ recognize.LanguageHint, hint recognize.LayoutHint) (recognize.RegionResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	b := img.Bounds()
	switch hint {
	case recognize.LayoutSparse:
		e.sparseCalls++
		if e.sparseErr != nil {
			return recognize.RegionResult{}, e.sparseErr
		}
		return e.sparse, nil
	case recognize.LayoutSingleLine:
		if len(e.durations) == 0 {
			return recognize.RegionResult{}, nil
		}
		d := e.durations[0]
		e.durations = e.durations[1:]
		return recognize.RegionResult{Text: d, Confidence: 0.8}, nil
	default:
		if r, ok := e.regions[fmt.Sprintf("%dx%d", b.Dx(), b.Dy())]; ok {
			return r, nil
		}
		// The whole-page fallback scans the top 85% of the 1000px page.
		if b.Dx() == 800 && b.Dy() == 850 {
			return e.page, nil
		}
		if e.regionErr != nil {
			return recognize.RegionResult{}, e.regionErr
		}
		return recognize.RegionResult{}, nil
	}
}

func (e *scriptedEngine) SparseCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sparseCalls
}

func fillRect(img *image.Gray, x, y, w, h int) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			img.Pix[(y+dy)*img.Stride+x+dx] = 0
		}
	}
}

// prescriptionPage renders an 800x1000 form: a ruled medication table
// at (100, 400)-(705, 645) and ink marks in the dose columns. Text is
// supplied by the scripted engine, so none is drawn.
//
// Fixed column boundaries for this table land near
// [100 126 294 377 443 492 544 636 705]; row centers for the four
// medication rows sit at y = 430, 490, 550 and 610.
func prescriptionPage(t *testing.T) []byte {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, 800, 1000))
	for i := range img.Pix {
		img.Pix[i] = 255
	}

	for _, y := range []int{400, 460, 520, 580, 640} {
		fillRect(img, 100, y, 605, 5)
	}
	for _, x := range []int{100, 400, 700} {
		fillRect(img, x, 400, 5, 245)
	}

	// Morning marks on every row, midday only on the last, afternoon
	// on every row, evening empty.
	for _, cy := range []int{430, 490, 550, 610} {
		fillRect(img, 462, cy-5, 10, 10)
		fillRect(img, 585, cy-5, 10, 10)
	}
	fillRect(img, 513, 605, 10, 10)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// stripWords returns the text-strip words for the four medication
// rows plus the column-title row, relative to the strip crop origin
// (100, 400).
func stripWords() []recognize.Word {
	abs := []recognize.Word{
		recognize.W("No", 108, 406, 14, 8, 0.9),
		recognize.W("Name", 140, 404, 34, 12, 0.9),
		recognize.W("of", 180, 404, 16, 12, 0.9),
		recognize.W("Medicine", 200, 404, 60, 12, 0.9),

		recognize.W("1", 110, 426, 8, 8, 0.9),
		recognize.W("Paracetamol", 132, 422, 80, 16, 0.92),
		recognize.W("500mg", 218, 422, 44, 16, 0.9),
		recognize.W("14", 300, 424, 20, 12, 0.4),

		recognize.W("2", 110, 486, 8, 8, 0.9),
		recognize.W("Amoxicillin", 132, 482, 78, 16, 0.91),
		recognize.W("500mg", 216, 482, 44, 16, 0.9),
		recognize.W("14", 300, 484, 20, 12, 0.4),

		recognize.W("3", 110, 546, 8, 8, 0.9),
		recognize.W("Omeprazole", 132, 542, 76, 16, 0.9),
		recognize.W("20mg", 214, 542, 36, 16, 0.9),
		recognize.W("14", 300, 544, 20, 12, 0.4),

		recognize.W("4", 110, 606, 8, 8, 0.9),
		recognize.W("Multivitamine", 132, 602, 90, 16, 0.9),
		recognize.W("21", 300, 604, 20, 12, 0.4),
	}
	out := make([]recognize.Word, len(abs))
	for i, w := range abs {
		w.Box.X -= 100
		w.Box.Y -= 400
		out[i] = w
	}
	return out
}

func newOrchestrator(t *testing.T, engine recognize.Engine) *Orchestrator {
	t.Helper()
	lex, err := lexicon.New("")
	require.NoError(t, err)
	o, err := New(DefaultConfig(), engine, lex, nil)
	require.NoError(t, err)
	return o
}

func TestExtractEndToEnd(t *testing.T) {
	engine := &scriptedEngine{
		regions: map[string]recognize.RegionResult{
			"800x150": {Text: "H-EQIP\nCalmette Hospital\nមន្ទីរពេទ្យកាល់ម៉ែត", Confidence: 0.88},
			"800x180": {Text: "ID: KH12345 Age: 34 years Female", Confidence: 0.9},
			"800x160": {Text: "Hypertension", Confidence: 0.85},
			"800x250": {Text: "Dr. Sok Dara", Confidence: 0.8},
			"480x150": {Text: "25/12/2024 10:30", Confidence: 0.82},
		},
		sparse:    recognize.WordsResult(stripWords()...),
		durations: []string{"14 ថ្ងៃ", "14 ថ្ងៃ", "14 ថ្ងៃ", "21 ថ្ងៃ"},
	}
	o := newOrchestrator(t, engine)

	res, err := o.Extract(context.Background(), prescriptionPage(t), "rx.png")
	require.NoError(t, err)
	require.True(t, res.Success)
	require.NotNil(t, res.Document)
	doc := res.Document

	assert.Equal(t, "fixed_proportions", res.Summary.StrategyUsed)
	assert.Equal(t, []string{"rxscan"}, res.Summary.EnginesUsed)
	require.Len(t, doc.Medications.Items, 4)
	assert.Equal(t, 4, res.Summary.TotalMedications)

	names := make([]string, 4)
	for i, item := range doc.Medications.Items {
		names[i] = item.Name.Brand
		assert.Equal(t, i+1, item.ItemNumber)
	}
	assert.Equal(t, []string{"Paracetamol", "Amoxicillin", "Omeprazole", "Multivitamine"}, names)

	first := doc.Medications.Items[0]
	require.NotNil(t, first.Strength)
	assert.InDelta(t, 500, first.Strength.Value, 0.001)
	require.NotNil(t, first.Dosing.Duration)
	assert.Equal(t, 14, first.Dosing.Duration.Days)
	assert.Equal(t, 2, first.Dosing.Frequency.TimesPerDay)
	assert.Equal(t, 12, first.Dosing.Frequency.IntervalHours)
	require.NotNil(t, first.Dosing.TotalQuantity)
	assert.Equal(t, 28, *first.Dosing.TotalQuantity)

	// Dose patterns come off the drawn ink marks, not the OCR text.
	for i, item := range doc.Medications.Items {
		require.Len(t, item.Dosing.Schedule, 4)
		wantMidday := i == 3
		assert.True(t, item.Dosing.Schedule[0].Dose.Enabled, "item %d morning", i+1)
		assert.Equal(t, wantMidday, item.Dosing.Schedule[1].Dose.Enabled, "item %d midday", i+1)
		assert.True(t, item.Dosing.Schedule[2].Dose.Enabled, "item %d afternoon", i+1)
		assert.False(t, item.Dosing.Schedule[3].Dose.Enabled, "item %d evening", i+1)
	}

	last := doc.Medications.Items[3]
	assert.Equal(t, "Multivitamin", last.Name.Generic)
	require.NotNil(t, last.Dosing.Duration)
	assert.Equal(t, 21, last.Dosing.Duration.Days)
	assert.Equal(t, 8, last.Dosing.Frequency.IntervalHours)
	require.NotNil(t, last.Dosing.TotalQuantity)
	assert.Equal(t, 63, *last.Dosing.TotalQuantity)
	require.NotNil(t, last.FoodTiming)
	assert.True(t, last.FoodTiming.AfterMeal)

	omep := doc.Medications.Items[2]
	require.NotNil(t, omep.FoodTiming)
	assert.True(t, omep.FoodTiming.BeforeMeal)

	assert.True(t, doc.Medications.AntibioticsPresent)
	assert.Equal(t, 21, doc.Medications.MaxDurationDays)

	assert.Equal(t, "H-EQIP", doc.Facility.SystemName)
	assert.Equal(t, "Calmette Hospital", doc.Facility.NameEnglish)
	assert.Equal(t, "មន្ទីរពេទ្យកាល់ម៉ែត", doc.Facility.NameKhmer)

	assert.Equal(t, "KH12345", doc.Patient.PatientID)
	require.NotNil(t, doc.Patient.Age)
	assert.Equal(t, 34, *doc.Patient.Age)
	assert.Equal(t, "F", doc.Patient.Gender)

	assert.Equal(t, "Hypertension", doc.Clinical.Diagnosis)

	assert.Equal(t, "2024-12-25", doc.Footer.Date)
	assert.Equal(t, "2024-12-25T10:30:00+07:00", doc.Footer.DateTime)
	assert.Equal(t, "Dr. Sok Dara", doc.Footer.Prescriber)

	assert.Equal(t, "KH12345-20241225", doc.Metadata.PrescriptionID)
	assert.Equal(t, "png", doc.Metadata.Image.Format)
	assert.Equal(t, 800, doc.Metadata.Image.Width)
	assert.Equal(t, 1000, doc.Metadata.Image.Height)

	assert.Contains(t, doc.Raw.FullText, "Calmette")
	assert.False(t, res.Summary.NeedsReview)
	assert.Empty(t, res.Summary.FieldsNeedingReview)
	assert.Greater(t, res.Summary.ConfidenceScore, 0.7)
}

func TestExtractFallsBackToWholePage(t *testing.T) {
	engine := &scriptedEngine{
		sparseErr: errors.New("strip recognition unavailable"),
		regionErr: errors.New("region recognition unavailable"),
		page: recognize.WordsResult(
			recognize.W("Paracetamol", 100, 300, 80, 16, 0.9),
			recognize.W("500mg", 190, 300, 40, 16, 0.9),
			recognize.W("14", 240, 300, 20, 12, 0.9),
			recognize.W("days", 265, 300, 30, 12, 0.9),
		),
	}
	o := newOrchestrator(t, engine)

	res, err := o.Extract(context.Background(), prescriptionPage(t), "rx.jpg")
	require.NoError(t, err)
	require.True(t, res.Success)

	// Both strip-based strategies must have been attempted before the
	// whole-page fallback ran.
	assert.Equal(t, 2, engine.SparseCalls())
	assert.Equal(t, "whole_page", res.Summary.StrategyUsed)

	require.Len(t, res.Document.Medications.Items, 1)
	item := res.Document.Medications.Items[0]
	assert.Equal(t, "Paracetamol", item.Name.Brand)
	require.NotNil(t, item.Dosing.Duration)
	assert.Equal(t, 14, item.Dosing.Duration.Days)
	for _, slot := range item.Dosing.Schedule {
		assert.False(t, slot.Dose.Enabled)
	}
	assert.Nil(t, item.Dosing.TotalQuantity)

	// Region failures degrade to empty sections, never abort the run.
	assert.Empty(t, res.Document.Facility.NameEnglish)
	assert.Empty(t, res.Document.Patient.PatientID)
}

func TestExtractWholePageSkipsSignatureBand(t *testing.T) {
	// Text below the scan band, like the prescriber signature block,
	// must never become a medication item. The engine only answers a
	// full-page request here; the fallback must not make one.
	engine := &scriptedEngine{
		sparseErr: errors.New("strip recognition unavailable"),
		regionErr: errors.New("region recognition unavailable"),
		regions: map[string]recognize.RegionResult{
			"800x1000": recognize.WordsResult(
				recognize.W("Dr.", 400, 950, 30, 16, 0.95),
				recognize.W("Sok", 440, 950, 30, 16, 0.95),
				recognize.W("Dara", 480, 950, 40, 16, 0.95),
			),
		},
	}
	o := newOrchestrator(t, engine)

	res, err := o.Extract(context.Background(), prescriptionPage(t), "rx.jpg")
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Empty(t, res.Document.Medications.Items)
	assert.Empty(t, res.Summary.StrategyUsed)
	assert.Contains(t, res.Summary.FieldsNeedingReview, "medications")
}

func TestAlignBoundaries(t *testing.T) {
	expected := []int{100, 126, 294, 377, 443, 492, 544, 636, 705}

	// Rulings near three expected boundaries snap onto them; the rest
	// keep their form-proportion positions.
	got := alignBoundaries(expected, []int{104, 290, 440}, 605)
	assert.Equal(t, []int{104, 126, 290, 377, 440, 492, 544, 636, 705}, got)

	// A ruling outside the snap window is ignored.
	got = alignBoundaries(expected, []int{200}, 605)
	assert.Equal(t, expected, got)

	// Output stays strictly increasing even for crowded rulings.
	got = alignBoundaries(expected, []int{120, 121, 122}, 605)
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i], got[i-1])
	}
}

func TestExtractUndecodableInput(t *testing.T) {
	o := newOrchestrator(t, &scriptedEngine{})

	_, err := o.Extract(context.Background(), []byte("not an image"), "rx.png")
	require.Error(t, err)
	var decErr *preprocess.DecodeError
	assert.True(t, errors.As(err, &decErr))
}

func TestExtractWithNullEngine(t *testing.T) {
	lex, err := lexicon.New("")
	require.NoError(t, err)
	o, err := New(DefaultConfig(), nil, lex, nil)
	require.NoError(t, err)

	res, err := o.Extract(context.Background(), prescriptionPage(t), "rx.png")
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Zero(t, res.Summary.TotalMedications)
	assert.True(t, res.Summary.NeedsReview)
	assert.Contains(t, res.Summary.FieldsNeedingReview, "medications")
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.MinWordConfidence = 1.5
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.MinMedNameLen = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.BaseConfidence = -0.1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.ReviewConfidence = 0.9
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Marks.SideTrimFrac = 0.9
	assert.Error(t, cfg.Validate())
}

func TestNewWithMissingTemplateFile(t *testing.T) {
	lex, err := lexicon.New("")
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.TemplateFile = filepath.Join(t.TempDir(), "absent.yaml")
	_, err = New(cfg, nil, lex, nil)
	assert.Error(t, err)
}
