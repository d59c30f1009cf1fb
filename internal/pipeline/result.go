package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/clinicode/rxscan/internal/postprocess"
	"github.com/clinicode/rxscan/internal/preprocess"
	"github.com/clinicode/rxscan/internal/recognize"
)

// SchemaVersion identifies the output document layout for downstream
// consumers, e.g. an LLM correction service.
const SchemaVersion = "rxscan-prescription-v1"

// phnomPenh is the prescription timezone.
var phnomPenh = time.FixedZone("ICT", 7*60*60)

// engineLabel names the extraction engine in document metadata and
// the request summary.
const engineLabel = "rxscan"

// ImageMetadata describes the decoded upload.
type ImageMetadata struct {
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Format        string `json:"format"`
	FileSizeBytes int    `json:"file_size_bytes"`
}

// Metadata carries extraction provenance.
type Metadata struct {
	ExtractedAt          string        `json:"extracted_at"`
	Engine               string        `json:"ocr_engine"`
	ConfidenceScore      float64       `json:"confidence_score"`
	PreprocessingApplied []string      `json:"preprocessing_applied"`
	Image                ImageMetadata `json:"image_metadata"`
	PrescriptionID       string        `json:"prescription_id,omitempty"`
	SchemaVersion        string        `json:"version"`
}

// MedicationSection groups the extracted items with table-level
// detail.
type MedicationSection struct {
	Strategy           string                       `json:"strategy"`
	Items              []postprocess.MedicationItem `json:"items"`
	TotalMedications   int                          `json:"total_medications"`
	AntibioticsPresent bool                         `json:"antibiotics_present"`
	MaxDurationDays    int                          `json:"max_duration_days"`
}

// RawExtraction preserves recognized text and word detail for
// downstream re-correction.
type RawExtraction struct {
	FullText           string                      `json:"full_text,omitempty"`
	SectionConfidence  map[string]float64          `json:"ocr_confidence_by_section,omitempty"`
	WordsBySection     map[string][]recognize.Word `json:"words_by_section,omitempty"`
	PoorImageQuality   bool                        `json:"poor_image_quality"`
	CorrectionsApplied bool                        `json:"corrections_applied"`
}

// Document is the full structured prescription.
type Document struct {
	Schema      string                    `json:"$schema"`
	Metadata    Metadata                  `json:"metadata"`
	Facility    postprocess.FacilityInfo  `json:"healthcare_facility"`
	Patient     postprocess.PatientInfo   `json:"patient"`
	Clinical    postprocess.ClinicalInfo  `json:"clinical_information"`
	Medications MedicationSection         `json:"medications"`
	Footer      postprocess.FooterInfo    `json:"footer_information"`
	Quality     preprocess.QualityReport  `json:"quality_report"`
	Raw         RawExtraction             `json:"raw_extraction_data"`
}

// Summary is the per-request quality digest returned alongside the
// document.
type Summary struct {
	TotalMedications    int      `json:"total_medications"`
	ConfidenceScore     float64  `json:"confidence_score"`
	NeedsReview         bool     `json:"needs_review"`
	FieldsNeedingReview []string `json:"fields_needing_review"`
	ProcessingTimeMS    float64  `json:"processing_time_ms"`
	StrategyUsed        string   `json:"strategy_used,omitempty"`
	EnginesUsed         []string `json:"engines_used,omitempty"`
}

// Result is the terminal pipeline output. Error and Message are set
// only on a failed run.
type Result struct {
	Success  bool      `json:"success"`
	Error    string    `json:"error,omitempty"`
	Message  string    `json:"message,omitempty"`
	Document *Document `json:"data,omitempty"`
	Summary  Summary   `json:"extraction_summary"`
}

// buildInput bundles everything the formatter needs.
type buildInput struct {
	items    []postprocess.MedicationItem
	strategy string
	facility postprocess.FacilityInfo
	patient  postprocess.PatientInfo
	clinical postprocess.ClinicalInfo
	footer   postprocess.FooterInfo
	regions  map[string]recognize.RegionResult
	report   preprocess.QualityReport
	byteSize int
	filename string
	width    int
	height   int
	elapsed  time.Duration
}

// buildResult assembles the Document and Summary.
func (o *Orchestrator) buildResult(in buildInput) *Result {
	confidence := o.overallConfidence(in.regions)

	maxDuration := 0
	antibiotics := false
	var reviewFields []string
	for _, item := range in.items {
		if d := item.Dosing.Duration; d != nil && d.Days > maxDuration {
			maxDuration = d.Days
		}
		if strings.Contains(strings.ToLower(item.TherapeuticClass), "antibiotic") {
			antibiotics = true
		}
		for _, f := range item.ReviewFields {
			reviewFields = append(reviewFields, fmt.Sprintf("item_%d.%s", item.ItemNumber, f))
		}
	}
	if len(in.items) == 0 {
		reviewFields = append(reviewFields, "medications")
	}
	if confidence < o.cfg.ReviewConfidence {
		reviewFields = append(reviewFields, "confidence_score")
	}
	if confidence < o.cfg.AutoAcceptConfidence {
		o.logger.Info("document below auto-accept confidence",
			"confidence", confidence, "threshold", o.cfg.AutoAcceptConfidence)
	}

	doc := &Document{
		Schema: SchemaVersion,
		Metadata: Metadata{
			ExtractedAt:          time.Now().In(phnomPenh).Format(time.RFC3339),
			Engine:               engineLabel,
			ConfidenceScore:      confidence,
			PreprocessingApplied: in.report.StepsApplied,
			Image: ImageMetadata{
				Width:         in.width,
				Height:        in.height,
				Format:        formatFromFilename(in.filename),
				FileSizeBytes: in.byteSize,
			},
			PrescriptionID: prescriptionID(in.patient.PatientID, in.footer.Date),
			SchemaVersion:  "1.0",
		},
		Facility: in.facility,
		Patient:  in.patient,
		Clinical: in.clinical,
		Medications: MedicationSection{
			Strategy:           in.strategy,
			Items:              in.items,
			TotalMedications:   len(in.items),
			AntibioticsPresent: antibiotics,
			MaxDurationDays:    maxDuration,
		},
		Footer:  in.footer,
		Quality: in.report,
		Raw:     buildRawExtraction(in.regions, in.report),
	}

	return &Result{
		Success:  true,
		Document: doc,
		Summary: Summary{
			TotalMedications:    len(in.items),
			ConfidenceScore:     confidence,
			NeedsReview:         len(reviewFields) > 0,
			FieldsNeedingReview: reviewFields,
			ProcessingTimeMS:    float64(in.elapsed.Microseconds()) / 1000,
			StrategyUsed:        in.strategy,
			EnginesUsed:         []string{engineLabel},
		},
	}
}

// FailureResult shapes a terminal failure the way a degraded success
// is shaped, so callers always see a Summary.
func FailureResult(elapsed time.Duration) *Result {
	return &Result{
		Success: false,
		Error:   "extraction_failed",
		Message: "Extraction failed",
		Summary: Summary{
			NeedsReview:         true,
			FieldsNeedingReview: []string{"all"},
			ProcessingTimeMS:    float64(elapsed.Microseconds()) / 1000,
			EnginesUsed:         []string{engineLabel},
		},
	}
}

// overallConfidence averages the region confidences; with no signal
// at all the configured base applies.
func (o *Orchestrator) overallConfidence(regions map[string]recognize.RegionResult) float64 {
	sum, n := 0.0, 0
	for _, res := range regions {
		if res.Confidence > 0 {
			sum += res.Confidence
			n++
		}
	}
	if n == 0 {
		return o.cfg.BaseConfidence
	}
	return sum / float64(n)
}

func buildRawExtraction(regions map[string]recognize.RegionResult, report preprocess.QualityReport) RawExtraction {
	var parts []string
	sectionConf := make(map[string]float64)
	words := make(map[string][]recognize.Word)
	for _, name := range regionNames {
		res := regions[name]
		if res.Text != "" {
			parts = append(parts, res.Text)
		}
		if res.Confidence > 0 {
			sectionConf[name] = res.Confidence
		}
		if len(res.Words) > 0 {
			words[name] = res.Words
		}
	}
	return RawExtraction{
		FullText:           strings.Join(parts, "\n"),
		SectionConfidence:  sectionConf,
		WordsBySection:     words,
		PoorImageQuality:   report.IsBlurry,
		CorrectionsApplied: len(report.StepsApplied) > 0,
	}
}

func prescriptionID(patientID, date string) string {
	if patientID == "" || date == "" {
		return ""
	}
	return patientID + "-" + strings.ReplaceAll(date, "-", "")
}

func formatFromFilename(name string) string {
	name = strings.ToLower(name)
	switch {
	case strings.HasSuffix(name, ".png"):
		return "png"
	case strings.HasSuffix(name, ".pdf"):
		return "pdf"
	case strings.HasSuffix(name, ".webp"):
		return "webp"
	case strings.HasSuffix(name, ".bmp"):
		return "bmp"
	default:
		return "jpg"
	}
}
