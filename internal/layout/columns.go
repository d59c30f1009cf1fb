package layout

import (
	"image"

	"github.com/clinicode/rxscan/internal/imgproc"
)

// DetectColumnBoundaries finds table column boundaries from the ruled
// vertical lines of a table crop. The crop is binarized, opened with a
// vertical kernel sized to the configured fraction of table height, and
// the surviving line pixels are projected onto the x-axis. Contiguous
// projection regions above the peak-relative threshold become boundary
// candidates at their midpoints; candidates closer than the merge
// fraction of table width collapse into one. Returns nil unless at
// least the configured minimum number of boundaries survives.
func (a *Analyzer) DetectColumnBoundaries(tableCrop *image.Gray) []int {
	w := tableCrop.Bounds().Dx()
	h := tableCrop.Bounds().Dy()
	if w < 10 || h < 10 {
		return nil
	}

	mask := imgproc.BinarizeInverted(tableCrop, imgproc.OtsuThreshold(tableCrop))
	kernel := maxInt(int(float64(h)*a.cfg.ColumnLineHeightFrac), 3)
	lines := mask.OpenVertical(kernel)

	proj := lines.ColumnProjection()
	peak := 0
	for _, v := range proj {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		return nil
	}
	threshold := int(float64(peak) * a.cfg.ProjectionPeakFrac)

	// Midpoints of contiguous above-threshold runs.
	var candidates []int
	runStart := -1
	for x := 0; x <= w; x++ {
		high := x < w && proj[x] > threshold
		if high && runStart < 0 {
			runStart = x
		} else if !high && runStart >= 0 {
			candidates = append(candidates, (runStart+x-1)/2)
			runStart = -1
		}
	}

	mergeDist := maxInt(int(float64(w)*a.cfg.BoundaryMergeFrac), 1)
	boundaries := mergeClose(candidates, mergeDist)

	if len(boundaries) < a.cfg.MinBoundaries {
		a.logger.Debug("dynamic column detection insufficient",
			"boundaries", len(boundaries), "required", a.cfg.MinBoundaries)
		return nil
	}
	return boundaries
}

// ColumnForX maps an x coordinate to the column index of the given
// boundary set, or -1 when it falls outside.
func ColumnForX(boundaries []int, x int) int {
	for i := 0; i+1 < len(boundaries); i++ {
		if boundaries[i] <= x && x < boundaries[i+1] {
			return i
		}
	}
	return -1
}
