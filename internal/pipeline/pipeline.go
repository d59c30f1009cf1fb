// Package pipeline orchestrates the full extraction run: decode,
// preprocess, layout, table strategies, region recognition, assembly.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/clinicode/rxscan/internal/imgproc"
	"github.com/clinicode/rxscan/internal/layout"
	"github.com/clinicode/rxscan/internal/lexicon"
	"github.com/clinicode/rxscan/internal/marks"
	"github.com/clinicode/rxscan/internal/postprocess"
	"github.com/clinicode/rxscan/internal/preprocess"
	"github.com/clinicode/rxscan/internal/recognize"
)

// Config composes the per-stage configurations plus orchestrator
// settings.
type Config struct {
	Preprocess preprocess.Config `mapstructure:"preprocess" yaml:"preprocess" json:"preprocess"`
	Layout     layout.Config     `mapstructure:"layout" yaml:"layout" json:"layout"`
	Rows       layout.RowConfig  `mapstructure:"rows" yaml:"rows" json:"rows"`
	Marks      marks.Config      `mapstructure:"marks" yaml:"marks" json:"marks"`

	// RegionTimeout bounds each recognition call.
	RegionTimeout time.Duration `mapstructure:"region_timeout" yaml:"region_timeout" json:"region_timeout"`
	// MinWordConfidence drops low-confidence words before clustering.
	MinWordConfidence float64 `mapstructure:"min_word_confidence" yaml:"min_word_confidence" json:"min_word_confidence"`
	// MinMedNameLen is the shortest recognized name that counts as a
	// medication row.
	MinMedNameLen int `mapstructure:"min_med_name_len" yaml:"min_med_name_len" json:"min_med_name_len"`
	// BaseConfidence is reported when no region yields a confidence.
	BaseConfidence float64 `mapstructure:"base_confidence" yaml:"base_confidence" json:"base_confidence"`
	// AutoAcceptConfidence marks a document clean without operator
	// attention; results below it are logged.
	AutoAcceptConfidence float64 `mapstructure:"auto_accept_confidence" yaml:"auto_accept_confidence" json:"auto_accept_confidence"`
	// ReviewConfidence flags the whole document for manual review.
	ReviewConfidence float64 `mapstructure:"review_confidence" yaml:"review_confidence" json:"review_confidence"`
	// WholePageFrac caps the whole-page fallback scan at this fraction
	// of the page height, keeping the signature block out of it.
	WholePageFrac float64 `mapstructure:"whole_page_frac" yaml:"whole_page_frac" json:"whole_page_frac"`
	// TemplateFile optionally points at a YAML form template
	// overriding the built-in page geometry.
	TemplateFile string `mapstructure:"template_file" yaml:"template_file" json:"template_file"`
}

// DefaultConfig returns the calibrated pipeline settings.
func DefaultConfig() Config {
	return Config{
		Preprocess:           preprocess.DefaultConfig(),
		Layout:               layout.DefaultConfig(),
		Rows:                 layout.DefaultRowConfig(),
		Marks:                marks.DefaultConfig(),
		RegionTimeout:        30 * time.Second,
		MinWordConfidence:    0.15,
		MinMedNameLen:        3,
		BaseConfidence:       0.85,
		AutoAcceptConfidence: 0.80,
		ReviewConfidence:     0.60,
		WholePageFrac:        0.85,
	}
}

// Validate checks the composed configuration.
func (c Config) Validate() error {
	if err := c.Preprocess.Validate(); err != nil {
		return fmt.Errorf("preprocess: %w", err)
	}
	if err := c.Layout.Validate(); err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	if err := c.Rows.Validate(); err != nil {
		return fmt.Errorf("rows: %w", err)
	}
	if err := c.Marks.Validate(); err != nil {
		return fmt.Errorf("marks: %w", err)
	}
	if c.MinWordConfidence < 0 || c.MinWordConfidence > 1 {
		return fmt.Errorf("min_word_confidence must be in [0, 1], got %v", c.MinWordConfidence)
	}
	if c.BaseConfidence < 0 || c.BaseConfidence > 1 {
		return fmt.Errorf("base_confidence must be in [0, 1], got %v", c.BaseConfidence)
	}
	if c.ReviewConfidence < 0 || c.AutoAcceptConfidence > 1 || c.ReviewConfidence > c.AutoAcceptConfidence {
		return fmt.Errorf("confidence thresholds must satisfy 0 <= review_confidence <= auto_accept_confidence <= 1, got %v and %v",
			c.ReviewConfidence, c.AutoAcceptConfidence)
	}
	if c.WholePageFrac <= 0 || c.WholePageFrac > 1 {
		return fmt.Errorf("whole_page_frac must be in (0, 1], got %v", c.WholePageFrac)
	}
	if c.MinMedNameLen < 1 {
		return fmt.Errorf("min_med_name_len must be positive, got %d", c.MinMedNameLen)
	}
	return nil
}

// Orchestrator runs the extraction pipeline. Stateless across
// requests; safe for concurrent Extract calls as long as the engine
// is.
type Orchestrator struct {
	cfg    Config
	tpl    layout.FormTemplate
	pre    *preprocess.Preprocessor
	layout *layout.Analyzer
	rows   *layout.RowReconstructor
	marks  *marks.Analyzer
	post   *postprocess.Processor
	engine recognize.Engine
	logger *slog.Logger

	strategies []tableStrategy
}

// New wires an Orchestrator from its configuration, recognition
// engine and lexicon.
func New(cfg Config, engine recognize.Engine, lex *lexicon.Lexicon, logger *slog.Logger) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline config: %w", err)
	}
	if engine == nil {
		engine = recognize.Null{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	tpl := layout.DefaultTemplate()
	if cfg.TemplateFile != "" {
		loaded, err := layout.LoadTemplate(cfg.TemplateFile)
		if err != nil {
			return nil, fmt.Errorf("form template: %w", err)
		}
		tpl = loaded
	}
	o := &Orchestrator{
		cfg:    cfg,
		tpl:    tpl,
		pre:    preprocess.New(cfg.Preprocess, logger),
		layout: layout.NewAnalyzerWithTemplate(cfg.Layout, tpl, logger),
		rows:   layout.NewRowReconstructor(cfg.Rows),
		marks:  marks.NewAnalyzer(cfg.Marks, logger),
		post:   postprocess.NewProcessor(lex, logger),
		engine: engine,
		logger: logger,
	}
	o.strategies = []tableStrategy{
		dynamicColumnStrategy{o},
		fixedColumnStrategy{o},
		freeTextStrategy{o},
		wholePageStrategy{o},
	}
	return o, nil
}

// regionNames fixes the iteration order of the five free-text page
// regions.
var regionNames = []string{"header", "patient", "clinical", "footer", "date"}

// Extract runs the full pipeline on one upload. Decode failures abort
// the run; every later stage degrades to partial output instead of
// failing.
func (o *Orchestrator) Extract(ctx context.Context, data []byte, filename string) (*Result, error) {
	start := time.Now()

	img, report, err := o.pre.Run(data, filename)
	if err != nil {
		return nil, err
	}
	gray := imgproc.ToGray(img)
	lay := o.layout.Analyze(gray)
	o.logger.Debug("layout analyzed",
		"width", lay.Width, "height", lay.Height,
		"table_rows", lay.Table.NumRows)

	regions := o.recognizeRegions(ctx, img, lay)

	tc := &tableContext{img: img, gray: gray, layout: lay}
	items, strategyName := o.runStrategies(ctx, tc)

	facility := postprocess.ParseHeader(regions["header"].Text)
	patient := postprocess.ParsePatient(regions["patient"].Text)
	clinical := postprocess.ParseClinical(regions["clinical"].Text)
	footer := postprocess.ParseFooter(regions["footer"].Text + "\n" + regions["date"].Text)

	res := o.buildResult(buildInput{
		items:     items,
		strategy:  strategyName,
		facility:  facility,
		patient:   patient,
		clinical:  clinical,
		footer:    footer,
		regions:   regions,
		report:    report,
		byteSize:  len(data),
		filename:  filename,
		width:     lay.Width,
		height:    lay.Height,
		elapsed:   time.Since(start),
	})

	o.logger.Info("extraction complete",
		"medications", len(items),
		"strategy", strategyName,
		"elapsed_ms", res.Summary.ProcessingTimeMS)
	return res, nil
}

// runStrategies walks the fallback chain in order until one strategy
// yields at least one medication. An exhausted chain returns an empty
// list, never an error.
func (o *Orchestrator) runStrategies(ctx context.Context, tc *tableContext) ([]postprocess.MedicationItem, string) {
	for _, s := range o.strategies {
		rows, err := s.Extract(ctx, tc)
		if err != nil {
			o.logger.Warn("table strategy failed", "strategy", s.Name(), "error", err)
			continue
		}
		if len(rows) == 0 {
			o.logger.Debug("table strategy yielded no medications", "strategy", s.Name())
			continue
		}
		items := make([]postprocess.MedicationItem, 0, len(rows))
		for i, row := range rows {
			items = append(items, o.post.BuildMedicationItem(row, i+1))
		}
		return items, s.Name()
	}
	return nil, ""
}

// recognizeRegions runs the five page-region recognition calls
// concurrently. A failed call degrades to an empty result for that
// region only.
func (o *Orchestrator) recognizeRegions(ctx context.Context, img image.Image, lay layout.Result) map[string]recognize.RegionResult {
	boxes := map[string]imgproc.BBox{
		"header":   lay.Header,
		"patient":  lay.Patient,
		"clinical": lay.Clinical,
		"footer":   lay.Footer,
		"date":     lay.Date,
	}
	langs := map[string]recognize.LanguageHint{
		"header":   recognize.LangKhmerMixed,
		"patient":  recognize.LangKhmerMixed,
		"clinical": recognize.LangKhmerMixed,
		"footer":   recognize.LangKhmerMixed,
		"date":     recognize.LangEnglish,
	}

	results := make([]recognize.RegionResult, len(regionNames))
	var g errgroup.Group
	for i, name := range regionNames {
		i, name := i, name
		g.Go(func() error {
			res, err := o.recognizeRegion(ctx, img, boxes[name], langs[name], recognize.LayoutBlock)
			if err != nil {
				o.logger.Warn("region recognition failed, continuing with empty text",
					"region", name, "error", err)
				res = recognize.RegionResult{}
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors

	out := make(map[string]recognize.RegionResult, len(regionNames))
	for i, name := range regionNames {
		out[name] = results[i]
	}
	return out
}

// recognizeRegion crops one box and calls the engine under the
// configured timeout. Word boxes in the result are crop-relative.
func (o *Orchestrator) recognizeRegion(ctx context.Context, img image.Image, box imgproc.BBox, lang recognize.LanguageHint, hint recognize.LayoutHint) (recognize.RegionResult, error) {
	if box.Empty() {
		return recognize.RegionResult{}, nil
	}
	crop := imaging.Crop(img, box.Rect())

	if o.cfg.RegionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.RegionTimeout)
		defer cancel()
	}
	res, err := o.engine.Recognize(ctx, crop, lang, hint)
	if err != nil {
		return recognize.RegionResult{}, err
	}
	if res.Confidence < 0 {
		res.Confidence = 0
	} else if res.Confidence > 1 {
		res.Confidence = 1
	}
	return res, nil
}
