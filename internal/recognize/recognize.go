// Package recognize defines the text-recognition boundary of the
// pipeline. The extraction core is written only against the Engine
// contract; binding a concrete OCR backend happens at process wiring.
package recognize

import (
	"context"
	"image"

	"github.com/clinicode/rxscan/internal/imgproc"
)

// LanguageHint tells the engine which scripts to expect in a region.
type LanguageHint string

const (
	LangAuto       LanguageHint = "auto"
	LangEnglish    LanguageHint = "eng"
	LangKhmer      LanguageHint = "khm"
	LangKhmerMixed LanguageHint = "khm+eng"
)

// LayoutHint describes the expected text layout of a cropped region,
// mirroring the page-segmentation modes of common OCR engines.
type LayoutHint string

const (
	LayoutBlock      LayoutHint = "block"
	LayoutSingleLine LayoutHint = "line"
	LayoutSparse     LayoutHint = "sparse"
)

// Word is one recognized token with its box and confidence in [0,1].
type Word struct {
	Text       string
	Box        imgproc.BBox
	Confidence float64
}

// RegionResult is the recognition output for one image region.
type RegionResult struct {
	Text       string
	Confidence float64
	Words      []Word
	Language   LanguageHint
}

// Engine recognizes text in an image region. Implementations must be
// safe for concurrent use; region calls within one request may run in
// parallel.
type Engine interface {
	Recognize(ctx context.Context, img image.Image, lang LanguageHint, layout LayoutHint) (RegionResult, error)
}

// Null is an Engine that recognizes nothing. It stands in when no
// backend is configured so the pipeline still produces a structured,
// empty-text result.
type Null struct{}

func (Null) Recognize(context.Context, image.Image, LanguageHint, LayoutHint) (RegionResult, error) {
	return RegionResult{Language: LangAuto}, nil
}
