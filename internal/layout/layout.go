// Package layout partitions a prescription page into named regions and
// discovers the medication table's grid structure.
package layout

import (
	"fmt"
	"image"
	"log/slog"
	"sort"

	"github.com/clinicode/rxscan/internal/imgproc"
)

// ColumnKind identifies the content of a table column on the source
// prescription form.
type ColumnKind string

const (
	ColItemNumber ColumnKind = "item_number"
	ColMedication ColumnKind = "medication_name"
	ColDuration   ColumnKind = "duration"
	ColInstr      ColumnKind = "instructions"
	ColMorning    ColumnKind = "morning"
	ColMidday     ColumnKind = "midday"
	ColAfternoon  ColumnKind = "afternoon"
	ColEvening    ColumnKind = "evening"
)

// ColumnOrder is the fixed left-to-right column layout of the form.
var ColumnOrder = []ColumnKind{
	ColItemNumber, ColMedication, ColDuration, ColInstr,
	ColMorning, ColMidday, ColAfternoon, ColEvening,
}

// DoseColumns are the four time-slot columns, in schedule order.
var DoseColumns = []ColumnKind{ColMorning, ColMidday, ColAfternoon, ColEvening}

// colBoundaries are the known column boundaries as fractions of table
// width, measured from the source form's ground truth.
var colBoundaries = []float64{0.0, 0.043, 0.322, 0.458, 0.568, 0.648, 0.734, 0.887, 1.0}

// Cell is one cell of the realized table grid.
type Cell struct {
	Row     int
	Col     int
	Box     imgproc.BBox
	Content ColumnKind
}

// TableRegion describes the detected medication table: its bounding
// box, the realized cell grid with the header split off, and the
// column x-boundaries in image coordinates.
type TableRegion struct {
	Box        imgproc.BBox
	Header     []Cell
	Rows       [][]Cell
	NumRows    int
	NumCols    int
	Boundaries []int
}

// Result is the full page partition. The table is never nil; when
// detection fails an estimated region is produced instead.
type Result struct {
	Width     int
	Height    int
	Header    imgproc.BBox
	Patient   imgproc.BBox
	Clinical  imgproc.BBox
	Footer    imgproc.BBox
	Signature imgproc.BBox
	Date      imgproc.BBox
	Table     *TableRegion
}

// Config tunes table detection.
type Config struct {
	// Line detection
	MinHorizLines     int     `mapstructure:"min_horiz_lines" yaml:"min_horiz_lines" json:"min_horiz_lines"`
	MinVertLines      int     `mapstructure:"min_vert_lines" yaml:"min_vert_lines" json:"min_vert_lines"`
	HorizLineMinFrac  float64 `mapstructure:"horiz_line_min_frac" yaml:"horiz_line_min_frac" json:"horiz_line_min_frac"`
	VertLineMinFrac   float64 `mapstructure:"vert_line_min_frac" yaml:"vert_line_min_frac" json:"vert_line_min_frac"`
	EstimatedDataRows int     `mapstructure:"estimated_data_rows" yaml:"estimated_data_rows" json:"estimated_data_rows"`

	// Dynamic column projection
	ColumnLineHeightFrac float64 `mapstructure:"column_line_height_frac" yaml:"column_line_height_frac" json:"column_line_height_frac"`
	ProjectionPeakFrac   float64 `mapstructure:"projection_peak_frac" yaml:"projection_peak_frac" json:"projection_peak_frac"`
	BoundaryMergeFrac    float64 `mapstructure:"boundary_merge_frac" yaml:"boundary_merge_frac" json:"boundary_merge_frac"`
	MinBoundaries        int     `mapstructure:"min_boundaries" yaml:"min_boundaries" json:"min_boundaries"`
}

// DefaultConfig returns thresholds matching the source form geometry.
func DefaultConfig() Config {
	return Config{
		MinHorizLines:        3,
		MinVertLines:         2,
		HorizLineMinFrac:     0.3,
		VertLineMinFrac:      0.05,
		EstimatedDataRows:    5,
		ColumnLineHeightFrac: 0.35,
		ProjectionPeakFrac:   0.25,
		BoundaryMergeFrac:    0.02,
		MinBoundaries:        5,
	}
}

// Validate checks config bounds.
func (c Config) Validate() error {
	if c.MinHorizLines < 1 || c.MinVertLines < 1 {
		return fmt.Errorf("line minimums must be positive")
	}
	for name, f := range map[string]float64{
		"horiz_line_min_frac":     c.HorizLineMinFrac,
		"vert_line_min_frac":      c.VertLineMinFrac,
		"column_line_height_frac": c.ColumnLineHeightFrac,
		"projection_peak_frac":    c.ProjectionPeakFrac,
		"boundary_merge_frac":     c.BoundaryMergeFrac,
	} {
		if f <= 0 || f >= 1 {
			return fmt.Errorf("%s must be in (0, 1), got %v", name, f)
		}
	}
	if c.MinBoundaries < 2 {
		return fmt.Errorf("min_boundaries must be at least 2, got %d", c.MinBoundaries)
	}
	return nil
}

// Analyzer performs page partition and table detection.
type Analyzer struct {
	cfg    Config
	tpl    FormTemplate
	logger *slog.Logger
}

// NewAnalyzer creates an Analyzer using the built-in form template.
func NewAnalyzer(cfg Config, logger *slog.Logger) *Analyzer {
	return NewAnalyzerWithTemplate(cfg, DefaultTemplate(), logger)
}

// NewAnalyzerWithTemplate creates an Analyzer for an alternate form
// geometry, typically loaded via LoadTemplate.
func NewAnalyzerWithTemplate(cfg Config, tpl FormTemplate, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{cfg: cfg, tpl: tpl, logger: logger}
}

// Analyze partitions the page. Region bands use calibrated fractions of
// the page height; the table is located by grid lines, then by the
// largest wide contour, then by a fixed proportional estimate. The
// returned Result always carries a table.
func (a *Analyzer) Analyze(gray *image.Gray) Result {
	w := gray.Bounds().Dx()
	h := gray.Bounds().Dy()

	bands := a.tpl.Regions
	res := Result{
		Width:     w,
		Height:    h,
		Header:    bandBox(bands.Header, w, h),
		Patient:   bandBox(bands.Patient, w, h),
		Clinical:  bandBox(bands.Clinical, w, h),
		Footer:    bandBox(bands.Footer, w, h),
		Signature: bandBox(bands.Signature, w, h),
		Date:      bandBox(bands.Date, w, h),
	}

	tableBox, found := a.findTable(gray)
	if !found {
		tableBox = imgproc.NewBBox(
			int(float64(w)*0.03), int(float64(h)*0.35),
			int(float64(w)*0.94), int(float64(h)*0.30), w, h)
		a.logger.Debug("table not detected, using proportional estimate", "box", tableBox)
	}
	res.Table = a.buildGrid(gray, tableBox)
	return res
}

// findTable locates the medication table. Grid lines first; if fewer
// than the configured minimums are found, the largest wide-and-tall
// foreground contour is used instead.
func (a *Analyzer) findTable(gray *image.Gray) (imgproc.BBox, bool) {
	w := gray.Bounds().Dx()
	h := gray.Bounds().Dy()

	mask := imgproc.BinarizeInverted(gray, imgproc.OtsuThreshold(gray))
	hLines := a.detectLines(mask, true)
	vLines := a.detectLines(mask, false)

	if len(hLines) >= a.cfg.MinHorizLines && len(vLines) >= a.cfg.MinVertLines {
		yMin, yMax := hLines[0].Y, hLines[0].Y2()
		for _, l := range hLines {
			if l.Y < yMin {
				yMin = l.Y
			}
			if l.Y2() > yMax {
				yMax = l.Y2()
			}
		}
		xMin, xMax := vLines[0].X, vLines[0].X2()
		for _, l := range vLines {
			if l.X < xMin {
				xMin = l.X
			}
			if l.X2() > xMax {
				xMax = l.X2()
			}
		}
		a.logger.Debug("table detected via grid lines",
			"horiz", len(hLines), "vert", len(vLines))
		return imgproc.NewBBox(xMin, yMin, xMax-xMin, yMax-yMin, w, h), true
	}

	// Contour fallback: the largest component that is wide and tall
	// enough to be the medication table.
	best := imgproc.BBox{}
	bestArea := 0
	for _, c := range imgproc.ConnectedComponents(mask) {
		b := c.Box
		if b.W > w/2 && float64(b.H) > float64(h)*0.15 && b.W*b.H > bestArea {
			best = b
			bestArea = b.W * b.H
		}
	}
	if bestArea > 0 {
		a.logger.Debug("table detected via contour fallback", "box", best)
		return best, true
	}
	return imgproc.BBox{}, false
}

// detectLines finds long straight segments by directional morphological
// opening, mirroring a rectangular-kernel open on the binarized page.
func (a *Analyzer) detectLines(mask *imgproc.Mask, horizontal bool) []imgproc.BBox {
	var opened *imgproc.Mask
	if horizontal {
		opened = mask.OpenHorizontal(maxInt(mask.W/15, 3))
	} else {
		opened = mask.OpenVertical(maxInt(mask.H/15, 3))
	}

	var lines []imgproc.BBox
	for _, c := range imgproc.ConnectedComponents(opened) {
		b := c.Box
		if horizontal && float64(b.W) > float64(mask.W)*a.cfg.HorizLineMinFrac {
			lines = append(lines, b)
		} else if !horizontal && float64(b.H) > float64(mask.H)*a.cfg.VertLineMinFrac {
			lines = append(lines, b)
		}
	}
	return lines
}

// buildGrid realizes the cell grid for a table box: fixed form
// proportions for columns, detected horizontal lines (or an even
// estimate) for rows. Row 0 becomes the header.
func (a *Analyzer) buildGrid(gray *image.Gray, box imgproc.BBox) *TableRegion {
	tw, th := box.W, box.H

	xs := a.tpl.Boundaries(box.X, tw)

	crop := imgproc.CropGray(gray, box)
	cropMask := imgproc.BinarizeInverted(crop, imgproc.OtsuThreshold(crop))
	hLines := a.detectLines(cropMask, true)

	var ys []int
	if len(hLines) >= a.cfg.MinHorizLines {
		seen := map[int]bool{0: true, th: true}
		ys = []int{0}
		for _, l := range hLines {
			for _, y := range []int{l.Y, l.Y2()} {
				if !seen[y] {
					seen[y] = true
					ys = append(ys, y)
				}
			}
		}
		ys = append(ys, th)
		sort.Ints(ys)
		ys = mergeClose(ys, 15)
	} else {
		// 1 header row plus the estimated data rows.
		n := a.cfg.EstimatedDataRows + 1
		ys = make([]int, n+1)
		for i := 0; i < n; i++ {
			ys[i] = i * th / n
		}
		ys[n] = th
	}

	table := &TableRegion{
		Box:        box,
		NumCols:    len(xs) - 1,
		NumRows:    len(ys) - 1,
		Boundaries: xs,
	}

	for r := 0; r < len(ys)-1; r++ {
		cells := make([]Cell, 0, table.NumCols)
		for c := 0; c < len(xs)-1; c++ {
			kind := ColumnKind("unknown")
			if c < len(ColumnOrder) {
				kind = ColumnOrder[c]
			}
			cells = append(cells, Cell{
				Row:     r,
				Col:     c,
				Content: kind,
				Box: imgproc.BBox{
					X: xs[c], Y: box.Y + ys[r],
					W: xs[c+1] - xs[c], H: ys[r+1] - ys[r],
				},
			})
		}
		if r == 0 {
			table.Header = cells
		} else {
			table.Rows = append(table.Rows, cells)
		}
	}
	return table
}

// bandBox realizes a fractional band on a page of the given size. The
// box runs from the band's left edge to the right page edge.
func bandBox(b Band, w, h int) imgproc.BBox {
	x := int(float64(w) * b.Left)
	y := int(float64(h) * b.Top)
	return imgproc.NewBBox(x, y, w-x, int(float64(h)*b.Height), w, h)
}

// mergeClose drops values within threshold of their predecessor.
// Input must be sorted.
func mergeClose(values []int, threshold int) []int {
	if len(values) == 0 {
		return nil
	}
	merged := values[:1]
	for _, v := range values[1:] {
		if v-merged[len(merged)-1] > threshold {
			merged = append(merged, v)
		}
	}
	return merged
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
