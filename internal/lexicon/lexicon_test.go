package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLexicon(t *testing.T, opts ...Option) *Lexicon {
	t.Helper()
	l, err := New("", opts...)
	require.NoError(t, err)
	require.Positive(t, l.Size())
	return l
}

func TestMatchExact(t *testing.T) {
	l := newTestLexicon(t)

	m := l.Match("Omeprazole")
	assert.Equal(t, "Omeprazole", m.Name)
	assert.Equal(t, 100.0, m.Confidence)
	assert.Equal(t, "Proton Pump Inhibitor", m.Class)
}

func TestMatchExactCaseInsensitive(t *testing.T) {
	l := newTestLexicon(t)

	m := l.Match("omeprazole")
	assert.Equal(t, "Omeprazole", m.Name)
	assert.Equal(t, 100.0, m.Confidence)
}

func TestMatchBrandResolvesGeneric(t *testing.T) {
	l := newTestLexicon(t)

	m := l.Match("Buscopan")
	assert.Equal(t, 100.0, m.Confidence)
	assert.Equal(t, "Butylscopolamine", m.Generic)
	assert.Equal(t, "Antispasmodic", m.Class)
}

func TestMatchFuzzyOCRNoise(t *testing.T) {
	l := newTestLexicon(t)

	// Single-character OCR slip.
	m := l.Match("Omeprazol")
	assert.Equal(t, "Omeprazole", m.Name)
	assert.Greater(t, m.Confidence, 85.0)
	assert.Less(t, m.Confidence, 100.0)
}

func TestMatchBelowThresholdMisses(t *testing.T) {
	l := newTestLexicon(t)

	m := l.Match("Xqzw")
	assert.Zero(t, m.Confidence)
	assert.Empty(t, m.Name)
}

func TestMatchExactOutranksFuzzy(t *testing.T) {
	// With a permissive threshold a fuzzy candidate would be found for
	// almost anything, but an exact hit must still return 100.
	l := newTestLexicon(t, WithThreshold(10))

	m := l.Match("Paracetamol")
	assert.Equal(t, 100.0, m.Confidence)
	assert.Equal(t, "Paracetamol", m.Name)
}

func TestMatchEmpty(t *testing.T) {
	l := newTestLexicon(t)
	assert.Zero(t, l.Match("").Confidence)
	assert.Zero(t, l.Match("   ").Confidence)
}

func TestMatchKhmerEntry(t *testing.T) {
	l := newTestLexicon(t)

	m := l.Match("ប៉ារ៉ាសេតាម៉ុល")
	assert.Equal(t, 100.0, m.Confidence)
	assert.Equal(t, "Paracetamol", m.Generic)
}

func TestGenericName(t *testing.T) {
	assert.Equal(t, "Celecoxib", GenericName("Celcoxx"))
	assert.Equal(t, "Celecoxib", GenericName("celcoxx"))
	assert.Empty(t, GenericName("Omeprazole"))
}

func TestTherapeuticClass(t *testing.T) {
	assert.Equal(t, "Proton Pump Inhibitor", TherapeuticClass("Omeprazole"))
	// Brand resolves through its generic.
	assert.Equal(t, "Proton Pump Inhibitor", TherapeuticClass("Losec"))
	assert.Empty(t, TherapeuticClass("Unknownium"))
}
