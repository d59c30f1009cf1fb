package recognize

import (
	"context"
	"image"
	"strings"
	"sync"

	"github.com/clinicode/rxscan/internal/imgproc"
)

// Fake is a scriptable Engine used in tests. Results are returned in
// FIFO order; when the script is exhausted the Default result is
// served. Safe for concurrent use.
type Fake struct {
	mu      sync.Mutex
	script  []RegionResult
	calls   int
	Default RegionResult
	Err     error
}

// Enqueue appends results to the script.
func (f *Fake) Enqueue(results ...RegionResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.script = append(f.script, results...)
}

// Calls reports how many times Recognize has been invoked.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *Fake) Recognize(_ context.Context, _ image.Image, _ LanguageHint, _ LayoutHint) (RegionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.Err != nil {
		return RegionResult{}, f.Err
	}
	if len(f.script) > 0 {
		r := f.script[0]
		f.script = f.script[1:]
		return r, nil
	}
	return f.Default, nil
}

// WordsResult builds a RegionResult from words, joining their text and
// averaging confidences. Convenient for layout and pipeline tests.
func WordsResult(words ...Word) RegionResult {
	if len(words) == 0 {
		return RegionResult{}
	}
	texts := make([]string, len(words))
	sum := 0.0
	for i, w := range words {
		texts[i] = w.Text
		sum += w.Confidence
	}
	return RegionResult{
		Text:       strings.Join(texts, " "),
		Confidence: sum / float64(len(words)),
		Words:      words,
	}
}

// W builds a Word, keeping test tables compact.
func W(text string, x, y, w, h int, conf float64) Word {
	return Word{Text: text, Box: imgproc.BBox{X: x, Y: y, W: w, H: h, Text: text, Confidence: conf}, Confidence: conf}
}
