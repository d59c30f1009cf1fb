// Package marks reads dose-schedule marks out of the four time-slot
// columns of the medication table. Marks are handwritten ticks or
// digits; the analyzer works on ink blobs rather than recognized text
// because the marks rarely survive OCR.
package marks

import (
	"fmt"
	"image"
	"log/slog"
	"math"

	"github.com/clinicode/rxscan/internal/imgproc"
)

// Mark values produced per table row.
const (
	MarkDose = "1"
	MarkNone = "-"
)

// Config tunes blob extraction and fold-artifact filtering. The
// defaults are calibrated to one hospital's form and scan setup;
// other layouts will want different edge bands and areas.
type Config struct {
	// Column crop
	SideTrimFrac float64 `mapstructure:"side_trim_frac" yaml:"side_trim_frac" json:"side_trim_frac"`
	MinSideTrim  int     `mapstructure:"min_side_trim" yaml:"min_side_trim" json:"min_side_trim"`

	// Binarization and line removal
	FixedThreshold int     `mapstructure:"fixed_threshold" yaml:"fixed_threshold" json:"fixed_threshold"`
	LineKernelFrac float64 `mapstructure:"line_kernel_frac" yaml:"line_kernel_frac" json:"line_kernel_frac"`
	MinLineKernel  int     `mapstructure:"min_line_kernel" yaml:"min_line_kernel" json:"min_line_kernel"`

	// Blob acceptance
	MinBlobArea   int `mapstructure:"min_blob_area" yaml:"min_blob_area" json:"min_blob_area"`
	MinBlobHeight int `mapstructure:"min_blob_height" yaml:"min_blob_height" json:"min_blob_height"`

	// Fold-artifact filter and row assignment
	EdgeBandFrac    float64 `mapstructure:"edge_band_frac" yaml:"edge_band_frac" json:"edge_band_frac"`
	RowMatchWindow  int     `mapstructure:"row_match_window" yaml:"row_match_window" json:"row_match_window"`
	RowMatchMinArea int     `mapstructure:"row_match_min_area" yaml:"row_match_min_area" json:"row_match_min_area"`
}

// DefaultConfig returns the calibrated form constants.
func DefaultConfig() Config {
	return Config{
		SideTrimFrac:    0.30,
		MinSideTrim:     5,
		FixedThreshold:  160,
		LineKernelFrac:  2.0 / 3.0,
		MinLineKernel:   5,
		MinBlobArea:     12,
		MinBlobHeight:   3,
		EdgeBandFrac:    0.30,
		RowMatchWindow:  30,
		RowMatchMinArea: 15,
	}
}

// Validate checks config bounds.
func (c Config) Validate() error {
	if c.SideTrimFrac < 0 || c.SideTrimFrac >= 0.5 {
		return fmt.Errorf("side_trim_frac must be in [0, 0.5), got %v", c.SideTrimFrac)
	}
	if c.FixedThreshold < 1 || c.FixedThreshold > 254 {
		return fmt.Errorf("fixed_threshold must be in [1, 254], got %d", c.FixedThreshold)
	}
	if c.LineKernelFrac <= 0 || c.LineKernelFrac >= 1 {
		return fmt.Errorf("line_kernel_frac must be in (0, 1), got %v", c.LineKernelFrac)
	}
	if c.EdgeBandFrac <= 0 || c.EdgeBandFrac >= 1 {
		return fmt.Errorf("edge_band_frac must be in (0, 1), got %v", c.EdgeBandFrac)
	}
	if c.MinBlobArea < 1 || c.MinBlobHeight < 1 {
		return fmt.Errorf("blob minimums must be positive")
	}
	if c.RowMatchWindow < 1 || c.RowMatchMinArea < 1 {
		return fmt.Errorf("row match parameters must be positive")
	}
	return nil
}

// Analyzer extracts dose marks from a column crop.
type Analyzer struct {
	cfg    Config
	logger *slog.Logger
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(cfg Config, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{cfg: cfg, logger: logger}
}

// blob is an accepted ink component with its assigned table row.
type blob struct {
	comp imgproc.Component
	row  int
}

// AnalyzeColumn inspects one dose column. crop is the column strip for
// the full table height; rowCenters are the data-row center
// y-coordinates in crop space. Returns one mark per row.
func (a *Analyzer) AnalyzeColumn(crop *image.Gray, rowCenters []int) []string {
	out := make([]string, len(rowCenters))
	for i := range out {
		out[i] = MarkNone
	}
	if len(rowCenters) == 0 {
		return out
	}
	w := crop.Bounds().Dx()
	h := crop.Bounds().Dy()
	if w == 0 || h == 0 {
		return out
	}

	// Trim the sides so the vertical grid rulings never register as
	// ink.
	trim := int(float64(w) * a.cfg.SideTrimFrac)
	if trim < a.cfg.MinSideTrim {
		trim = a.cfg.MinSideTrim
	}
	if 2*trim >= w {
		trim = 0
	}
	inner := imgproc.CropGray(crop, imgproc.BBox{X: trim, Y: 0, W: w - 2*trim, H: h})

	mask := a.binarize(inner)

	// Knock out residual horizontal rulings.
	kernel := int(float64(mask.W) * a.cfg.LineKernelFrac)
	if kernel < a.cfg.MinLineKernel {
		kernel = a.cfg.MinLineKernel
	}
	mask = mask.Subtract(mask.OpenHorizontal(kernel))

	var blobs []blob
	for _, c := range imgproc.ConnectedComponents(mask) {
		if c.Area < a.cfg.MinBlobArea || c.Box.H < a.cfg.MinBlobHeight {
			continue
		}
		row := nearestRow(rowCenters, c.Box.CY(), float64(a.cfg.RowMatchWindow))
		if row < 0 {
			continue
		}
		blobs = append(blobs, blob{comp: c, row: row})
	}

	blobs = a.filterFoldArtifacts(blobs, len(rowCenters), mask.W)

	areas := make([]int, len(rowCenters))
	for _, b := range blobs {
		areas[b.row] += b.comp.Area
	}
	for i, area := range areas {
		if area >= a.cfg.RowMatchMinArea {
			out[i] = MarkDose
		}
	}
	return out
}

// binarize picks the threshold that recovers more ink. Faint pencil
// marks vanish under Otsu on washed-out scans, while the fixed
// threshold over-segments clean ones.
func (a *Analyzer) binarize(g *image.Gray) *imgproc.Mask {
	otsu := imgproc.BinarizeInverted(g, imgproc.OtsuThreshold(g))
	fixed := imgproc.BinarizeInverted(g, uint8(a.cfg.FixedThreshold))
	if fixed.Count() > otsu.Count() {
		return fixed
	}
	return otsu
}

// filterFoldArtifacts handles the vertical paper crease that runs
// through the dose columns on folded forms. The crease shows up as a
// thin blob near the left edge of nearly every row. When most of those
// rows also carry a separate centered blob, the edge blobs are noise
// and are dropped for exactly those rows; when centered alternatives
// are missing for most rows, the edge blobs are kept as real marks
// made near the column border.
func (a *Analyzer) filterFoldArtifacts(blobs []blob, numRows, innerW int) []blob {
	if numRows < 3 || len(blobs) == 0 {
		return blobs
	}
	edgeBand := float64(innerW) * a.cfg.EdgeBandFrac

	leftRows := map[int]bool{}
	centeredRows := map[int]bool{}
	for _, b := range blobs {
		if b.comp.Box.CX() < edgeBand {
			leftRows[b.row] = true
		} else {
			centeredRows[b.row] = true
		}
	}
	if len(leftRows) < numRows-1 {
		return blobs
	}
	centeredMajority := 0
	for row := range leftRows {
		if centeredRows[row] {
			centeredMajority++
		}
	}
	if centeredMajority < numRows/2 {
		a.logger.Debug("edge blobs kept as marks",
			"left_rows", len(leftRows), "centered_rows", centeredMajority)
		return blobs
	}

	// Drop edge blobs only where a centered mark backs the row up.
	kept := blobs[:0]
	removed := 0
	for _, b := range blobs {
		if b.comp.Box.CX() < edgeBand && centeredRows[b.row] {
			removed++
			continue
		}
		kept = append(kept, b)
	}
	a.logger.Debug("fold artifacts removed", "count", removed)
	return kept
}

// nearestRow returns the index of the closest row center within the
// match window, or -1.
func nearestRow(centers []int, cy, window float64) int {
	best := -1
	bestDist := window
	for i, c := range centers {
		if d := math.Abs(cy - float64(c)); d <= bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
