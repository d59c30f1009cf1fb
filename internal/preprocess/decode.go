// Package preprocess decodes prescription uploads and normalizes them
// for recognition: quality assessment, denoising, contrast and
// sharpness correction, deskew and size bounding.
package preprocess

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// DecodeError reports input bytes that could not be decoded as any
// supported format. It is the only preprocessing failure that aborts a
// pipeline run.
type DecodeError struct {
	Hint string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("cannot decode input %q: %v", e.Hint, e.Err)
	}
	return fmt.Sprintf("cannot decode input: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

var pdfMagic = []byte("%PDF")

// Decode turns raw upload bytes into a pixel image. PNG, JPEG, WEBP and
// BMP are decoded directly; PDF input is rasterized by extracting the
// first page's embedded image. The filename hint only aids error
// reporting, format detection is content-based.
func Decode(data []byte, filenameHint string) (image.Image, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Hint: filenameHint, Err: fmt.Errorf("empty input")}
	}

	if bytes.HasPrefix(data, pdfMagic) {
		img, err := decodePDFFirstPage(data)
		if err != nil {
			return nil, &DecodeError{Hint: filenameHint, Err: err}
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Hint: filenameHint, Err: err}
	}
	return img, nil
}

// decodePDFFirstPage extracts the first page's image from a scanned
// PDF. Prescription PDFs from the source scanners carry exactly one
// full-page image per page.
func decodePDFFirstPage(data []byte) (image.Image, error) {
	tempDir, err := os.MkdirTemp("", "rxscan-pdf-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	pdfPath := filepath.Join(tempDir, "upload.pdf")
	if err := os.WriteFile(pdfPath, data, 0o600); err != nil {
		return nil, fmt.Errorf("staging pdf: %w", err)
	}

	if err := api.ExtractImagesFile(pdfPath, tempDir, []string{"1"}, nil); err != nil {
		return nil, fmt.Errorf("extracting pdf images: %w", err)
	}

	img, err := firstExtractedImage(tempDir)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// firstExtractedImage finds the first page image pdfcpu wrote into dir.
// pdfcpu names extracted files like upload_1_Im0.png.
func firstExtractedImage(dir string) (image.Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.IsDir() || strings.HasSuffix(e.Name(), ".pdf") {
			continue
		}
		f, err := os.Open(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		img, _, err := image.Decode(f)
		_ = f.Close()
		if err == nil {
			return img, nil
		}
	}
	return nil, fmt.Errorf("pdf contains no decodable page image")
}
