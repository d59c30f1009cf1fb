package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTemplateValid(t *testing.T) {
	tpl := DefaultTemplate()
	require.NoError(t, tpl.Validate())
	assert.Equal(t, "moh-standard", tpl.Name)
	assert.Len(t, tpl.ColumnFractions, 9)
}

func TestTemplateBoundaries(t *testing.T) {
	tpl := DefaultTemplate()
	assert.Equal(t, []int{100, 126, 294, 377, 443, 492, 544, 636, 705}, tpl.Boundaries(100, 605))

	xs := tpl.Boundaries(50, 700)
	assert.Equal(t, 50, xs[0])
	assert.Equal(t, 750, xs[len(xs)-1])
	for i := 1; i < len(xs); i++ {
		assert.Greater(t, xs[i], xs[i-1])
	}
}

func TestLoadTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: clinic-a4
column_fractions: [0.0, 0.1, 0.5, 1.0]
regions:
  footer:
    top: 0.8
    height: 0.2
`), 0o644))

	tpl, err := LoadTemplate(path)
	require.NoError(t, err)
	assert.Equal(t, "clinic-a4", tpl.Name)
	assert.Equal(t, []float64{0.0, 0.1, 0.5, 1.0}, tpl.ColumnFractions)
	assert.Equal(t, 0.8, tpl.Regions.Footer.Top)
	// Regions absent from the file keep the built-in geometry.
	assert.Equal(t, DefaultTemplate().Regions.Header, tpl.Regions.Header)
}

func TestLoadTemplateMissingFile(t *testing.T) {
	_, err := LoadTemplate(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadTemplateMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: [unclosed"), 0o644))
	_, err := LoadTemplate(path)
	assert.Error(t, err)
}

func TestTemplateValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*FormTemplate)
	}{
		{"too few fractions", func(tpl *FormTemplate) { tpl.ColumnFractions = []float64{0} }},
		{"not starting at zero", func(tpl *FormTemplate) { tpl.ColumnFractions[0] = 0.01 }},
		{"not ending at one", func(tpl *FormTemplate) { tpl.ColumnFractions[len(tpl.ColumnFractions)-1] = 0.9 }},
		{"not increasing", func(tpl *FormTemplate) { tpl.ColumnFractions[2] = tpl.ColumnFractions[1] }},
		{"negative band top", func(tpl *FormTemplate) { tpl.Regions.Patient.Top = -0.1 }},
		{"band past page bottom", func(tpl *FormTemplate) { tpl.Regions.Footer.Height = 0.5 }},
		{"zero band height", func(tpl *FormTemplate) { tpl.Regions.Date.Height = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := DefaultTemplate()
			tt.mutate(&tpl)
			assert.Error(t, tpl.Validate())
		})
	}
}

func TestAnalyzerWithTemplate(t *testing.T) {
	tpl := DefaultTemplate()
	tpl.Regions.Header.Height = 0.10
	a := NewAnalyzerWithTemplate(DefaultConfig(), tpl, nil)
	res := a.Analyze(whitePage(800, 1000))
	assert.Equal(t, 100, res.Header.H)
}
