// Package lexicon loads the medication reference lists and provides
// fuzzy name matching, brand-to-generic resolution and therapeutic
// class lookup. A Lexicon is loaded once at process start and is
// read-only afterwards.
package lexicon

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

//go:embed data/medications_en.txt data/medications_km.txt
var defaultData embed.FS

// DefaultThreshold is the minimum fuzzy score (0-100) to accept a match.
const DefaultThreshold = 85.0

// Entry is one reference medication name, optionally annotated with its
// generic name and therapeutic class from a pipe-delimited list line.
type Entry struct {
	Name    string
	Generic string
	Class   string
}

// Match is the result of a lexicon lookup. A zero Confidence means no
// acceptable match was found and callers should keep the raw name.
type Match struct {
	Name       string
	Generic    string
	Class      string
	Confidence float64
}

// Lexicon holds the merged medication name set. Immutable after New.
type Lexicon struct {
	entries   []Entry
	byLower   map[string]int
	threshold float64
	logger    *slog.Logger
}

// Option configures a Lexicon during construction.
type Option func(*Lexicon)

// WithThreshold overrides the fuzzy acceptance score (0-100).
func WithThreshold(score float64) Option {
	return func(l *Lexicon) { l.threshold = score }
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Lexicon) { l.logger = logger }
}

// New builds a Lexicon. If dir is non-empty, medications_en.txt and
// medications_km.txt are loaded from it; entries missing there fall
// back to the embedded defaults. Brand names from the static
// brand-to-generic table are always included as lookup entries.
func New(dir string, opts ...Option) (*Lexicon, error) {
	l := &Lexicon{
		byLower:   make(map[string]int),
		threshold: DefaultThreshold,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}

	for _, name := range []string{"medications_en.txt", "medications_km.txt"} {
		entries, err := loadList(dir, name)
		if err != nil {
			return nil, fmt.Errorf("loading lexicon %s: %w", name, err)
		}
		l.add(entries)

		// Brand names slot in after the English list, mirroring the
		// precedence of file entries over the static table.
		if name == "medications_en.txt" {
			for brand, generic := range brandToGeneric {
				l.add([]Entry{{Name: brand, Generic: generic}})
			}
		}
	}

	l.logger.Info("medication lexicon loaded",
		"entries", len(l.entries),
		"threshold", l.threshold)
	return l, nil
}

func loadList(dir, name string) ([]Entry, error) {
	if dir != "" {
		path := filepath.Join(dir, name)
		f, err := os.Open(path)
		if err == nil {
			defer f.Close()
			return parseList(f)
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
	}
	f, err := defaultData.Open("data/" + name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseList(f)
}

// parseList reads one entry per line: name[|generic[|class]].
// Blank lines and #-comments are skipped.
func parseList(r io.Reader) ([]Entry, error) {
	var entries []Entry
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "|", 3)
		e := Entry{Name: strings.TrimSpace(parts[0])}
		if len(parts) > 1 {
			e.Generic = strings.TrimSpace(parts[1])
		}
		if len(parts) > 2 {
			e.Class = strings.TrimSpace(parts[2])
		}
		if e.Name != "" {
			entries = append(entries, e)
		}
	}
	return entries, sc.Err()
}

func (l *Lexicon) add(entries []Entry) {
	for _, e := range entries {
		key := strings.ToLower(e.Name)
		if _, exists := l.byLower[key]; exists {
			continue
		}
		l.byLower[key] = len(l.entries)
		l.entries = append(l.entries, e)
	}
}

// Size returns the number of distinct reference names.
func (l *Lexicon) Size() int { return len(l.entries) }

// Match looks up a recognized medication name. Exact case-insensitive
// matches always win with confidence 100; otherwise the best fuzzy
// candidate is returned if its score meets the threshold. A miss is
// reported as a zero-valued Match, never an error.
func (l *Lexicon) Match(text string) Match {
	text = strings.TrimSpace(text)
	if text == "" {
		return Match{}
	}

	if idx, ok := l.byLower[strings.ToLower(text)]; ok {
		return l.resolve(l.entries[idx], 100)
	}

	metric := metrics.NewLevenshtein()
	bestScore := 0.0
	bestIdx := -1
	for i, e := range l.entries {
		score := strutil.Similarity(strings.ToLower(text), strings.ToLower(e.Name), metric) * 100
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx < 0 || bestScore < l.threshold {
		return Match{}
	}
	return l.resolve(l.entries[bestIdx], bestScore)
}

// resolve fills generic name and therapeutic class from the entry's own
// annotations, falling back to the static tables.
func (l *Lexicon) resolve(e Entry, score float64) Match {
	m := Match{Name: e.Name, Generic: e.Generic, Class: e.Class, Confidence: score}
	if m.Generic == "" {
		m.Generic = GenericName(e.Name)
	}
	if m.Class == "" {
		m.Class = TherapeuticClass(e.Name)
	}
	return m
}

// GenericName resolves a brand name to its generic equivalent, or ""
// if the name is not a known brand.
func GenericName(brand string) string {
	if g, ok := brandToGeneric[brand]; ok {
		return g
	}
	lower := strings.ToLower(brand)
	for b, g := range brandToGeneric {
		if strings.ToLower(b) == lower {
			return g
		}
	}
	return ""
}

// TherapeuticClass returns the therapeutic class for a drug name,
// checking the name itself and then its generic equivalent.
func TherapeuticClass(name string) string {
	if name == "" {
		return ""
	}
	if c, ok := therapeuticClasses[name]; ok {
		return c
	}
	lower := strings.ToLower(name)
	for drug, c := range therapeuticClasses {
		if strings.ToLower(drug) == lower {
			return c
		}
	}
	if generic := GenericName(name); generic != "" {
		if c, ok := therapeuticClasses[generic]; ok {
			return c
		}
		lowerGeneric := strings.ToLower(generic)
		for drug, c := range therapeuticClasses {
			if strings.ToLower(drug) == lowerGeneric {
				return c
			}
		}
	}
	return ""
}
