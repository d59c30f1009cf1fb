package layout

import (
	"fmt"
	"sort"

	"github.com/clinicode/rxscan/internal/imgproc"
	"github.com/clinicode/rxscan/internal/recognize"
)

// RowConfig controls row clustering tolerance.
type RowConfig struct {
	Tolerance      float64 `mapstructure:"tolerance" yaml:"tolerance" json:"tolerance"`
	Adaptive       bool    `mapstructure:"adaptive" yaml:"adaptive" json:"adaptive"`
	AdaptiveFactor float64 `mapstructure:"adaptive_factor" yaml:"adaptive_factor" json:"adaptive_factor"`
}

// DefaultRowConfig returns the calibrated clustering defaults.
func DefaultRowConfig() RowConfig {
	return RowConfig{Tolerance: 10, Adaptive: true, AdaptiveFactor: 0.5}
}

// Validate checks config bounds.
func (c RowConfig) Validate() error {
	if c.Tolerance < 0 {
		return fmt.Errorf("tolerance must be non-negative, got %v", c.Tolerance)
	}
	if c.Adaptive && c.AdaptiveFactor <= 0 {
		return fmt.Errorf("adaptive_factor must be positive, got %v", c.AdaptiveFactor)
	}
	return nil
}

// RowReconstructor groups recognized word boxes into table rows by
// vertical-center proximity. A word joins the running row while its
// center stays within tolerance of the row's median center; the median
// anchor keeps a long run of slightly drifting boxes from absorbing the
// next row. The result is invariant to input ordering.
type RowReconstructor struct {
	cfg RowConfig
}

// NewRowReconstructor creates a RowReconstructor.
func NewRowReconstructor(cfg RowConfig) *RowReconstructor {
	return &RowReconstructor{cfg: cfg}
}

type rowItem struct {
	cy  float64
	x   int
	w   int
	h   int
	idx int
}

// effectiveTolerance resolves the tolerance for a box set. Adaptive
// mode scales with the average box height but never drops below the
// configured base.
func (r *RowReconstructor) effectiveTolerance(heights []int) float64 {
	if !r.cfg.Adaptive || len(heights) == 0 {
		return r.cfg.Tolerance
	}
	sum := 0
	for _, h := range heights {
		sum += h
	}
	avg := float64(sum) / float64(len(heights))
	if scaled := avg * r.cfg.AdaptiveFactor; scaled > r.cfg.Tolerance {
		return scaled
	}
	return r.cfg.Tolerance
}

// cluster groups item indices into rows. Items are sorted by (cy, x)
// first so equal inputs in any order produce identical rows.
func (r *RowReconstructor) cluster(items []rowItem, tolerance float64) [][]int {
	if len(items) == 0 {
		return nil
	}
	// Full tie-break chain so equal inputs cluster identically in any
	// input order.
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch {
		case a.cy != b.cy:
			return a.cy < b.cy
		case a.x != b.x:
			return a.x < b.x
		case a.w != b.w:
			return a.w < b.w
		default:
			return a.h < b.h
		}
	})

	var groups [][]int
	current := []int{0}
	// Centers accumulate in ascending order, so the median is a direct
	// index into the slice.
	centers := []float64{items[0].cy}

	for i := 1; i < len(items); i++ {
		median := centers[len(centers)/2]
		if abs(items[i].cy-median) <= tolerance {
			current = append(current, i)
			centers = append(centers, items[i].cy)
		} else {
			groups = append(groups, current)
			current = []int{i}
			centers = []float64{items[i].cy}
		}
	}
	groups = append(groups, current)

	// Left-to-right within each row.
	for _, g := range groups {
		sort.Slice(g, func(a, b int) bool { return items[g[a]].x < items[g[b]].x })
	}

	out := make([][]int, len(groups))
	for gi, g := range groups {
		row := make([]int, len(g))
		for i, pos := range g {
			row[i] = items[pos].idx
		}
		out[gi] = row
	}
	return out
}

// ClusterBoxes groups boxes into rows, top-to-bottom, each row sorted
// left-to-right.
func (r *RowReconstructor) ClusterBoxes(boxes []imgproc.BBox) [][]imgproc.BBox {
	if len(boxes) == 0 {
		return nil
	}
	items := make([]rowItem, len(boxes))
	heights := make([]int, len(boxes))
	for i, b := range boxes {
		items[i] = rowItem{cy: b.CY(), x: b.X, w: b.W, h: b.H, idx: i}
		heights[i] = b.H
	}
	groups := r.cluster(items, r.effectiveTolerance(heights))

	rows := make([][]imgproc.BBox, len(groups))
	for gi, g := range groups {
		row := make([]imgproc.BBox, len(g))
		for i, idx := range g {
			row[i] = boxes[idx]
		}
		rows[gi] = row
	}
	return rows
}

// ClusterWords groups recognized words into rows using their boxes.
func (r *RowReconstructor) ClusterWords(words []recognize.Word) [][]recognize.Word {
	if len(words) == 0 {
		return nil
	}
	items := make([]rowItem, len(words))
	heights := make([]int, len(words))
	for i, w := range words {
		items[i] = rowItem{cy: w.Box.CY(), x: w.Box.X, w: w.Box.W, h: w.Box.H, idx: i}
		heights[i] = w.Box.H
	}
	groups := r.cluster(items, r.effectiveTolerance(heights))

	rows := make([][]recognize.Word, len(groups))
	for gi, g := range groups {
		row := make([]recognize.Word, len(g))
		for i, idx := range g {
			row[i] = words[idx]
		}
		rows[gi] = row
	}
	return rows
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
