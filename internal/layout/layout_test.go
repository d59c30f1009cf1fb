package layout

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func whitePage(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

func drawHLine(img *image.Gray, y, x0, x1, thickness int) {
	for dy := 0; dy < thickness; dy++ {
		for x := x0; x < x1; x++ {
			img.Pix[(y+dy)*img.Stride+x] = 0
		}
	}
}

func drawVLine(img *image.Gray, x, y0, y1, thickness int) {
	for dx := 0; dx < thickness; dx++ {
		for y := y0; y < y1; y++ {
			img.Pix[y*img.Stride+x+dx] = 0
		}
	}
}

func TestAnalyzeRegionBands(t *testing.T) {
	a := NewAnalyzer(DefaultConfig(), nil)
	res := a.Analyze(whitePage(800, 1000))

	assert.Equal(t, 800, res.Width)
	assert.Equal(t, 1000, res.Height)

	assert.Equal(t, 0, res.Header.Y)
	assert.Equal(t, 150, res.Header.H)
	assert.Equal(t, 800, res.Header.W)

	assert.Equal(t, 120, res.Patient.Y)
	assert.Equal(t, 180, res.Patient.H)

	assert.Equal(t, 220, res.Clinical.Y)
	assert.Equal(t, 160, res.Clinical.H)

	assert.Equal(t, 750, res.Footer.Y)
	assert.Equal(t, 250, res.Footer.H)

	assert.Equal(t, 400, res.Signature.X)
	assert.Equal(t, 700, res.Signature.Y)

	assert.Equal(t, 320, res.Date.X)
	assert.Equal(t, 600, res.Date.Y)
}

func TestAnalyzeBlankFallsBackToEstimate(t *testing.T) {
	a := NewAnalyzer(DefaultConfig(), nil)
	res := a.Analyze(whitePage(800, 1000))

	require.NotNil(t, res.Table)
	assert.Equal(t, 24, res.Table.Box.X)  // 0.03 * 800
	assert.Equal(t, 350, res.Table.Box.Y) // 0.35 * 1000
	assert.Equal(t, 752, res.Table.Box.W)
	assert.Equal(t, 300, res.Table.Box.H)

	// One header row plus the estimated data rows, evenly split.
	assert.Equal(t, 6, res.Table.NumRows)
	assert.Len(t, res.Table.Rows, 5)
	require.Len(t, res.Table.Header, 8)
	for i, cell := range res.Table.Header {
		assert.Equal(t, ColumnOrder[i], cell.Content)
		assert.Equal(t, 0, cell.Row)
		assert.Equal(t, i, cell.Col)
	}
}

func TestAnalyzeDetectsGridTable(t *testing.T) {
	img := whitePage(800, 1000)
	for _, y := range []int{400, 460, 520, 580, 640} {
		drawHLine(img, y, 100, 701, 3)
	}
	for _, x := range []int{100, 400, 700} {
		drawVLine(img, x, 400, 641, 3)
	}

	a := NewAnalyzer(DefaultConfig(), nil)
	res := a.Analyze(img)
	require.NotNil(t, res.Table)

	tb := res.Table.Box
	assert.InDelta(t, 100, tb.X, 3)
	assert.InDelta(t, 400, tb.Y, 3)
	assert.InDelta(t, 600, tb.W, 6)
	assert.InDelta(t, 240, tb.H, 6)

	// Five rulings bound four row bands: a header plus three data rows.
	assert.Equal(t, 8, res.Table.NumCols)
	assert.Equal(t, 4, res.Table.NumRows)
	require.Len(t, res.Table.Header, 8)
	assert.Len(t, res.Table.Rows, 3)

	// Cells tile the table left to right without gaps.
	for _, row := range res.Table.Rows {
		require.Len(t, row, 8)
		for i := 1; i < len(row); i++ {
			assert.Equal(t, row[i-1].Box.X2(), row[i].Box.X)
		}
	}
	require.Len(t, res.Table.Boundaries, 9)
	assert.Equal(t, tb.X, res.Table.Boundaries[0])
	assert.Equal(t, tb.X2(), res.Table.Boundaries[8])
}

func TestDetectColumnBoundariesRuledCrop(t *testing.T) {
	crop := whitePage(400, 200)
	for _, x := range DefaultTemplate().Boundaries(1, 396) {
		drawVLine(crop, x, 0, 200, 2)
	}

	a := NewAnalyzer(DefaultConfig(), nil)
	got := a.DetectColumnBoundaries(crop)
	require.Len(t, got, 9)
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i], got[i-1])
	}
}

func TestDetectColumnBoundariesInsufficient(t *testing.T) {
	a := NewAnalyzer(DefaultConfig(), nil)

	assert.Nil(t, a.DetectColumnBoundaries(whitePage(400, 200)))

	// Three rulings are below the minimum boundary count.
	crop := whitePage(400, 200)
	for _, x := range []int{10, 200, 390} {
		drawVLine(crop, x, 0, 200, 2)
	}
	assert.Nil(t, a.DetectColumnBoundaries(crop))
}

func TestColumnForX(t *testing.T) {
	xs := DefaultTemplate().Boundaries(0, 1000)

	assert.Equal(t, 0, ColumnForX(xs, 0))
	assert.Equal(t, 1, ColumnForX(xs, 43))
	assert.Equal(t, 1, ColumnForX(xs, 100))
	assert.Equal(t, 2, ColumnForX(xs, 400))
	assert.Equal(t, 7, ColumnForX(xs, 999))
	assert.Equal(t, -1, ColumnForX(xs, 1000))
	assert.Equal(t, -1, ColumnForX(xs, -1))
}

func TestClassifyRow(t *testing.T) {
	tests := []struct {
		text string
		want RowClass
	}{
		{"Amoxicillin 500mg", RowMedication},
		{"Paracetamol", RowMedication},
		{"metformin", RowMedication},
		{"Ibuprofen 400 mg", RowMedication},
		{"ប៉ារ៉ាសេតាម៉ុល", RowMedication},
		{"ប៉ារ៉ាសេតាម៉ុល ៥០០មក 14 ថ្ងៃ", RowMedication},
		{"Name of Medicine", RowHeader},
		{"Morning", RowHeader},
		{"Signature", RowHeader},
		{"ឈ្មោះថ្នាំ", RowHeader},
		{"ព្រឹក", RowHeader},
		{"", RowOther},
		{"12", RowOther},
		{"---", RowOther},
		{"x 2", RowOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyRow(tt.text), "text %q", tt.text)
	}
}
