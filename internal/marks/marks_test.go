package marks

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func whiteColumn(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

func fillRect(img *image.Gray, x, y, w, h int) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			img.Pix[(y+dy)*img.Stride+x+dx] = 0
		}
	}
}

func TestAnalyzeColumnEmpty(t *testing.T) {
	a := NewAnalyzer(DefaultConfig(), nil)

	assert.Empty(t, a.AnalyzeColumn(whiteColumn(60, 300), nil))

	got := a.AnalyzeColumn(whiteColumn(60, 300), []int{30, 90, 150})
	assert.Equal(t, []string{MarkNone, MarkNone, MarkNone}, got)
}

func TestAnalyzeColumnSingleMark(t *testing.T) {
	a := NewAnalyzer(DefaultConfig(), nil)
	rows := []int{30, 90, 150, 210, 270}

	for k := range rows {
		crop := whiteColumn(60, 300)
		// 10x10 ink blob centered in the column at row k.
		fillRect(crop, 25, rows[k]-5, 10, 10)

		got := a.AnalyzeColumn(crop, rows)
		require.Len(t, got, len(rows))
		for i, m := range got {
			if i == k {
				assert.Equal(t, MarkDose, m, "row %d should carry the mark", k)
			} else {
				assert.Equal(t, MarkNone, m, "row %d should be empty (mark at %d)", i, k)
			}
		}
	}
}

func TestAnalyzeColumnIgnoresGridRuling(t *testing.T) {
	a := NewAnalyzer(DefaultConfig(), nil)
	crop := whiteColumn(100, 300)
	// A horizontal ruling spanning the full column width at a row
	// center. Tall enough to pass the blob filters if it were kept.
	fillRect(crop, 0, 148, 100, 4)

	got := a.AnalyzeColumn(crop, []int{50, 150, 250})
	assert.Equal(t, []string{MarkNone, MarkNone, MarkNone}, got)
}

func TestAnalyzeColumnIgnoresBlobOutsideMatchWindow(t *testing.T) {
	a := NewAnalyzer(DefaultConfig(), nil)
	crop := whiteColumn(60, 400)
	// Ink midway between rows at y=100 and y=300, outside the 30px
	// window of both.
	fillRect(crop, 25, 195, 10, 10)

	got := a.AnalyzeColumn(crop, []int{100, 300})
	assert.Equal(t, []string{MarkNone, MarkNone}, got)
}

// A paper crease leaves a thin edge blob on every row. When most rows
// also carry a centered mark, the edge blobs are noise and must not
// contribute area.
func TestFoldArtifactsRemovedWithCenteredBackup(t *testing.T) {
	a := NewAnalyzer(DefaultConfig(), nil)
	rows := []int{50, 150, 250}
	crop := whiteColumn(100, 300)
	for _, cy := range rows {
		// Edge blob inside the left 30% band of the inner strip,
		// large enough to mark the row on its own.
		fillRect(crop, 32, cy-3, 4, 6)
		// Centered blob below the per-row area minimum.
		fillRect(crop, 45, cy-1, 4, 3)
	}

	got := a.AnalyzeColumn(crop, rows)
	assert.Equal(t, []string{MarkNone, MarkNone, MarkNone}, got,
		"edge blobs should be discarded, leaving only sub-minimum centered area")
}

// Without centered alternatives the edge blobs are real marks made
// near the column border and must be kept.
func TestFoldPatternWithoutBackupKeptAsMarks(t *testing.T) {
	a := NewAnalyzer(DefaultConfig(), nil)
	rows := []int{50, 150, 250}
	crop := whiteColumn(100, 300)
	for _, cy := range rows {
		fillRect(crop, 32, cy-3, 4, 6)
	}

	got := a.AnalyzeColumn(crop, rows)
	assert.Equal(t, []string{MarkDose, MarkDose, MarkDose}, got)
}

func TestFoldFilterNeedsThreeRows(t *testing.T) {
	a := NewAnalyzer(DefaultConfig(), nil)
	rows := []int{50, 150}
	crop := whiteColumn(100, 200)
	for _, cy := range rows {
		fillRect(crop, 32, cy-3, 4, 6)
		fillRect(crop, 45, cy-3, 4, 6)
	}

	// Two rows never trigger the fold filter; both blob groups count.
	got := a.AnalyzeColumn(crop, rows)
	assert.Equal(t, []string{MarkDose, MarkDose}, got)
}

func TestFoldFilterKeepsEdgeBlobWithoutRowBackup(t *testing.T) {
	a := NewAnalyzer(DefaultConfig(), nil)
	rows := []int{50, 150, 250, 350}
	crop := whiteColumn(100, 400)
	for _, cy := range rows {
		fillRect(crop, 32, cy-3, 4, 6)
	}
	// Centered backup on all but the last row.
	for _, cy := range rows[:3] {
		fillRect(crop, 45, cy-1, 4, 3)
	}

	got := a.AnalyzeColumn(crop, rows)
	// Backed-up rows lose the edge blob and fall under the area
	// minimum; the final row keeps its edge blob.
	assert.Equal(t, []string{MarkNone, MarkNone, MarkNone, MarkDose}, got)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.SideTrimFrac = 0.5
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.FixedThreshold = 0
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.EdgeBandFrac = 1
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.MinBlobArea = 0
	assert.Error(t, bad.Validate())
}
