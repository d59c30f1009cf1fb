package pipeline

import (
	"context"
	"image"
	"regexp"
	"strings"

	"github.com/clinicode/rxscan/internal/imgproc"
	"github.com/clinicode/rxscan/internal/layout"
	"github.com/clinicode/rxscan/internal/postprocess"
	"github.com/clinicode/rxscan/internal/recognize"
	"github.com/clinicode/rxscan/internal/textparse"
)

// tableContext carries the per-request buffers the table strategies
// share.
type tableContext struct {
	img    image.Image
	gray   *image.Gray
	layout layout.Result
}

// medRow is a clustered table row with its vertical center in image
// coordinates.
type medRow struct {
	row     postprocess.MedicationRow
	centerY float64
}

// extractWithBoundaries is the hybrid table path shared by the
// dynamic and fixed column strategies: recognize the text-column
// strip as sparse words, cluster them into rows, re-recognize each
// row's duration cell with a Khmer hint, and read the dose columns as
// ink marks. bounds holds the nine column x-positions in image
// coordinates.
func (o *Orchestrator) extractWithBoundaries(ctx context.Context, tc *tableContext, bounds []int) ([]postprocess.MedicationRow, error) {
	tb := tc.layout.Table.Box

	strip := imgproc.NewBBox(bounds[0], tb.Y, bounds[4]-bounds[0], tb.H, tc.layout.Width, tc.layout.Height)
	res, err := o.recognizeRegion(ctx, tc.img, strip, recognize.LangEnglish, recognize.LayoutSparse)
	if err != nil {
		return nil, err
	}
	words := o.usableWords(res.Words, strip.X, strip.Y)

	medRows := o.clusterMedicationRows(words, bounds)
	if len(medRows) == 0 {
		return nil, nil
	}

	o.refineDurations(ctx, tc, medRows, bounds)
	o.readDoseMarks(tc, medRows, bounds)

	rows := make([]postprocess.MedicationRow, len(medRows))
	for i, mr := range medRows {
		rows[i] = mr.row
	}
	return rows, nil
}

// usableWords drops words below the confidence floor and shifts their
// boxes from crop space into image space.
func (o *Orchestrator) usableWords(words []recognize.Word, dx, dy int) []recognize.Word {
	out := make([]recognize.Word, 0, len(words))
	for _, w := range words {
		if strings.TrimSpace(w.Text) == "" || w.Confidence < o.cfg.MinWordConfidence {
			continue
		}
		w.Box.X += dx
		w.Box.Y += dy
		out = append(out, w)
	}
	return out
}

// clusterMedicationRows groups words into rows and keeps the ones
// carrying a plausible medication name. Header label rows are
// dropped so column titles never become items.
func (o *Orchestrator) clusterMedicationRows(words []recognize.Word, bounds []int) []medRow {
	var medRows []medRow
	for _, group := range o.rows.ClusterWords(words) {
		row := mapWordsToColumns(group, bounds)
		name := textparse.Normalize(row.Text(layout.ColMedication))
		if len([]rune(name)) < o.cfg.MinMedNameLen {
			continue
		}
		if layout.ClassifyRow(rowText(group)) == layout.RowHeader {
			continue
		}
		medRows = append(medRows, medRow{row: row, centerY: rowCenterY(group)})
	}
	return medRows
}

// refineDurations re-recognizes each row's duration cell as a single
// line with a Khmer-capable hint. The sparse strip pass reads Khmer
// duration text poorly; a per-cell pass with tight bounds does much
// better. Cell heights come from row-center spacing.
func (o *Orchestrator) refineDurations(ctx context.Context, tc *tableContext, medRows []medRow, bounds []int) {
	tb := tc.layout.Table.Box

	halfRow := tb.H / 4
	if len(medRows) >= 2 {
		spacing := (medRows[len(medRows)-1].centerY - medRows[0].centerY) / float64(len(medRows)-1)
		halfRow = int(spacing / 2)
	}

	for i := range medRows {
		minY := int(medRows[i].centerY) - halfRow
		if i > 0 {
			minY = int((medRows[i-1].centerY + medRows[i].centerY) / 2)
		} else if minY < tb.Y {
			minY = tb.Y
		}
		maxY := int(medRows[i].centerY) + halfRow
		if i < len(medRows)-1 {
			maxY = int((medRows[i].centerY + medRows[i+1].centerY) / 2)
		} else if maxY > tb.Y2() {
			maxY = tb.Y2()
		}

		cell := imgproc.NewBBox(bounds[2], minY, bounds[3]-bounds[2], maxY-minY, tc.layout.Width, tc.layout.Height)
		res, err := o.recognizeRegion(ctx, tc.img, cell, recognize.LangKhmerMixed, recognize.LayoutSingleLine)
		if err != nil {
			continue
		}
		if text := strings.TrimSpace(res.Text); text != "" {
			medRows[i].row.Columns[layout.ColDuration] = text
			medRows[i].row.Boxes[layout.ColDuration] = cell
		}
	}
}

// readDoseMarks runs the ink-mark analyzer over the four dose columns
// and writes "1"/"-" values into each row.
func (o *Orchestrator) readDoseMarks(tc *tableContext, medRows []medRow, bounds []int) {
	tb := tc.layout.Table.Box

	centers := make([]int, len(medRows))
	for i, mr := range medRows {
		centers[i] = int(mr.centerY) - tb.Y
	}

	for i, col := range layout.DoseColumns {
		colBox := imgproc.NewBBox(bounds[4+i], tb.Y, bounds[5+i]-bounds[4+i], tb.H, tc.layout.Width, tc.layout.Height)
		crop := imgproc.CropGray(tc.gray, colBox)
		values := o.marks.AnalyzeColumn(crop, centers)
		for r := range medRows {
			medRows[r].row.Columns[col] = values[r]
		}
	}
}

// mapWordsToColumns assigns each word to one of the four text columns
// by its center x and joins the texts left to right.
func mapWordsToColumns(words []recognize.Word, bounds []int) postprocess.MedicationRow {
	row := postprocess.MedicationRow{
		Columns: make(map[layout.ColumnKind]string),
		Boxes:   make(map[layout.ColumnKind]imgproc.BBox),
		Words:   words,
	}
	for _, w := range words {
		idx := layout.ColumnForX(bounds, int(w.Box.CX()))
		if idx < 0 || idx >= 4 {
			continue
		}
		col := layout.ColumnOrder[idx]
		if row.Columns[col] == "" {
			row.Columns[col] = w.Text
			row.Boxes[col] = w.Box
		} else {
			row.Columns[col] += " " + w.Text
			row.Boxes[col] = row.Boxes[col].Union(w.Box)
		}
	}
	return row
}

func rowText(words []recognize.Word) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}

func rowCenterY(words []recognize.Word) float64 {
	if len(words) == 0 {
		return 0
	}
	sum := 0.0
	for _, w := range words {
		sum += w.Box.CY()
	}
	return sum / float64(len(words))
}

// durationTextRe pulls a duration phrase out of free-form row text.
var durationTextRe = regexp.MustCompile(`(\d+)\s*(days?|weeks?|months?|ថ្ងៃ|សប្ដាហ៍|ខែ)`)

// splitFreeTextRow builds a MedicationRow from an unstructured row:
// a detected duration phrase moves to the duration column, the rest
// stays as the medication name.
func splitFreeTextRow(words []recognize.Word) postprocess.MedicationRow {
	text := textparse.Normalize(rowText(words))
	row := postprocess.MedicationRow{
		Columns: make(map[layout.ColumnKind]string),
		Boxes:   make(map[layout.ColumnKind]imgproc.BBox),
		Words:   words,
	}
	if m := durationTextRe.FindString(text); m != "" {
		row.Columns[layout.ColDuration] = m
		text = textparse.Normalize(strings.Replace(text, m, "", 1))
	}
	row.Columns[layout.ColMedication] = text
	if len(words) > 0 {
		box := words[0].Box
		for _, w := range words[1:] {
			box = box.Union(w.Box)
		}
		row.Boxes[layout.ColMedication] = box
	}
	return row
}
