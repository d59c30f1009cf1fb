package pipeline

import (
	"context"

	"github.com/clinicode/rxscan/internal/imgproc"
	"github.com/clinicode/rxscan/internal/layout"
	"github.com/clinicode/rxscan/internal/marks"
	"github.com/clinicode/rxscan/internal/postprocess"
	"github.com/clinicode/rxscan/internal/recognize"
)

// tableStrategy is one link of the table-extraction fallback chain.
// Returning no rows (or an error) hands over to the next strategy;
// errors never abort the run.
type tableStrategy interface {
	Name() string
	Extract(ctx context.Context, tc *tableContext) ([]postprocess.MedicationRow, error)
}

// dynamicColumnStrategy derives column boundaries from the table's
// own vertical rulings. The projection must recover at least the
// configured minimum number of boundaries to engage; measured rulings
// then snap onto the form grid, with undetected boundaries keeping
// their form-proportion positions.
type dynamicColumnStrategy struct{ o *Orchestrator }

func (dynamicColumnStrategy) Name() string { return "dynamic_columns" }

func (s dynamicColumnStrategy) Extract(ctx context.Context, tc *tableContext) ([]postprocess.MedicationRow, error) {
	tb := tc.layout.Table.Box
	crop := imgproc.CropGray(tc.gray, tb)
	detected := s.o.layout.DetectColumnBoundaries(crop)
	if detected == nil {
		return nil, nil
	}
	for i := range detected {
		detected[i] += tb.X
	}
	bounds := alignBoundaries(s.o.tpl.Boundaries(tb.X, tb.W), detected, tb.W)
	return s.o.extractWithBoundaries(ctx, tc, bounds)
}

// alignBoundaries snaps each expected boundary to the nearest detected
// ruling within 5% of table width. Boundaries with no nearby ruling
// keep their expected position; a snap that would break left-to-right
// order is discarded.
func alignBoundaries(expected, detected []int, tableWidth int) []int {
	window := tableWidth / 20
	out := make([]int, len(expected))
	for i, e := range expected {
		best := e
		bestDist := window + 1
		for _, d := range detected {
			if dist := abs(d - e); dist < bestDist {
				best = d
				bestDist = dist
			}
		}
		if i > 0 && best <= out[i-1] {
			best = e
		}
		if i > 0 && best <= out[i-1] {
			best = out[i-1] + 1
		}
		out[i] = best
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// fixedColumnStrategy uses the known column proportions of the form.
type fixedColumnStrategy struct{ o *Orchestrator }

func (fixedColumnStrategy) Name() string { return "fixed_proportions" }

func (s fixedColumnStrategy) Extract(ctx context.Context, tc *tableContext) ([]postprocess.MedicationRow, error) {
	tb := tc.layout.Table.Box
	return s.o.extractWithBoundaries(ctx, tc, s.o.tpl.Boundaries(tb.X, tb.W))
}

// freeTextStrategy abandons column structure: the whole table region
// is recognized as sparse text, rows are clustered and classified,
// and dose marks still come from the fixed-proportion dose columns.
type freeTextStrategy struct{ o *Orchestrator }

func (freeTextStrategy) Name() string { return "free_text" }

func (s freeTextStrategy) Extract(ctx context.Context, tc *tableContext) ([]postprocess.MedicationRow, error) {
	tb := tc.layout.Table.Box
	res, err := s.o.recognizeRegion(ctx, tc.img, tb, recognize.LangKhmerMixed, recognize.LayoutSparse)
	if err != nil {
		return nil, err
	}
	words := s.o.usableWords(res.Words, tb.X, tb.Y)

	medRows := s.o.classifyFreeTextRows(words)
	if len(medRows) == 0 {
		return nil, nil
	}
	s.o.readDoseMarks(tc, medRows, s.o.tpl.Boundaries(tb.X, tb.W))

	rows := make([]postprocess.MedicationRow, len(medRows))
	for i, mr := range medRows {
		rows[i] = mr.row
	}
	return rows, nil
}

// wholePageStrategy is the last resort: recognize the page as free
// text and keep any row that reads like a medication. The scan stops
// at the configured height fraction so the signature block cannot
// produce phantom items. No table geometry is trusted at this point,
// so dose marks stay empty.
type wholePageStrategy struct{ o *Orchestrator }

func (wholePageStrategy) Name() string { return "whole_page" }

func (s wholePageStrategy) Extract(ctx context.Context, tc *tableContext) ([]postprocess.MedicationRow, error) {
	scanH := int(float64(tc.layout.Height) * s.o.cfg.WholePageFrac)
	page := imgproc.NewBBox(0, 0, tc.layout.Width, scanH, tc.layout.Width, tc.layout.Height)
	res, err := s.o.recognizeRegion(ctx, tc.img, page, recognize.LangKhmerMixed, recognize.LayoutBlock)
	if err != nil {
		return nil, err
	}
	words := s.o.usableWords(res.Words, 0, 0)

	medRows := s.o.classifyFreeTextRows(words)
	rows := make([]postprocess.MedicationRow, len(medRows))
	for i, mr := range medRows {
		rows[i] = mr.row
		for _, col := range layout.DoseColumns {
			rows[i].Columns[col] = marks.MarkNone
		}
	}
	return rows, nil
}

// classifyFreeTextRows clusters unstructured words into rows and
// keeps those the row classifier marks as medication-bearing.
func (o *Orchestrator) classifyFreeTextRows(words []recognize.Word) []medRow {
	var medRows []medRow
	for _, group := range o.rows.ClusterWords(words) {
		text := rowText(group)
		if layout.ClassifyRow(text) != layout.RowMedication {
			continue
		}
		row := splitFreeTextRow(group)
		if len([]rune(row.Columns[layout.ColMedication])) < o.cfg.MinMedNameLen {
			continue
		}
		medRows = append(medRows, medRow{row: row, centerY: rowCenterY(group)})
	}
	return medRows
}
