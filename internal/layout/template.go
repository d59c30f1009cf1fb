package layout

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Band is a page region expressed in fractions of the page dimensions.
// The region spans from Left to the right page edge.
type Band struct {
	Left   float64 `yaml:"left"`
	Top    float64 `yaml:"top"`
	Height float64 `yaml:"height"`
}

// RegionBands names the fractional bands of each page region.
type RegionBands struct {
	Header    Band `yaml:"header"`
	Patient   Band `yaml:"patient"`
	Clinical  Band `yaml:"clinical"`
	Footer    Band `yaml:"footer"`
	Signature Band `yaml:"signature"`
	Date      Band `yaml:"date"`
}

// FormTemplate describes one prescription form layout: where its page
// regions sit and how its table columns divide the table width. The
// built-in default matches the national form; alternate forms load
// from YAML.
type FormTemplate struct {
	Name            string      `yaml:"name"`
	ColumnFractions []float64   `yaml:"column_fractions"`
	Regions         RegionBands `yaml:"regions"`
}

// DefaultTemplate returns the built-in form geometry.
func DefaultTemplate() FormTemplate {
	fractions := make([]float64, len(colBoundaries))
	copy(fractions, colBoundaries)
	return FormTemplate{
		Name:            "moh-standard",
		ColumnFractions: fractions,
		Regions: RegionBands{
			Header:    Band{Left: 0, Top: 0, Height: 0.15},
			Patient:   Band{Left: 0, Top: 0.12, Height: 0.18},
			Clinical:  Band{Left: 0, Top: 0.22, Height: 0.16},
			Footer:    Band{Left: 0, Top: 0.75, Height: 0.25},
			Signature: Band{Left: 0.5, Top: 0.70, Height: 0.15},
			Date:      Band{Left: 0.4, Top: 0.60, Height: 0.15},
		},
	}
}

// LoadTemplate reads a form template from a YAML file. Fields absent
// from the file keep their built-in defaults, so a template may
// override only the column fractions or only a single region band.
func LoadTemplate(path string) (FormTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FormTemplate{}, fmt.Errorf("reading template: %w", err)
	}
	tpl := DefaultTemplate()
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return FormTemplate{}, fmt.Errorf("parsing template %s: %w", path, err)
	}
	if err := tpl.Validate(); err != nil {
		return FormTemplate{}, fmt.Errorf("template %s: %w", path, err)
	}
	return tpl, nil
}

// Validate checks that the template describes a usable geometry.
func (t FormTemplate) Validate() error {
	if len(t.ColumnFractions) < 2 {
		return fmt.Errorf("column_fractions needs at least 2 entries, got %d", len(t.ColumnFractions))
	}
	if t.ColumnFractions[0] != 0 {
		return fmt.Errorf("column_fractions must start at 0, got %v", t.ColumnFractions[0])
	}
	if last := t.ColumnFractions[len(t.ColumnFractions)-1]; last != 1 {
		return fmt.Errorf("column_fractions must end at 1, got %v", last)
	}
	for i := 1; i < len(t.ColumnFractions); i++ {
		if t.ColumnFractions[i] <= t.ColumnFractions[i-1] {
			return fmt.Errorf("column_fractions must be strictly increasing at index %d", i)
		}
	}
	for name, b := range map[string]Band{
		"header":    t.Regions.Header,
		"patient":   t.Regions.Patient,
		"clinical":  t.Regions.Clinical,
		"footer":    t.Regions.Footer,
		"signature": t.Regions.Signature,
		"date":      t.Regions.Date,
	} {
		if err := b.validate(); err != nil {
			return fmt.Errorf("region %s: %w", name, err)
		}
	}
	return nil
}

func (b Band) validate() error {
	if b.Left < 0 || b.Left >= 1 {
		return fmt.Errorf("left must be in [0, 1), got %v", b.Left)
	}
	if b.Top < 0 || b.Top >= 1 {
		return fmt.Errorf("top must be in [0, 1), got %v", b.Top)
	}
	if b.Height <= 0 || b.Top+b.Height > 1 {
		return fmt.Errorf("height must be positive and fit the page, got %v at top %v", b.Height, b.Top)
	}
	return nil
}

// Boundaries maps the template's column fractions onto a table of the
// given width, offset by x0.
func (t FormTemplate) Boundaries(x0, width int) []int {
	xs := make([]int, len(t.ColumnFractions))
	for i, f := range t.ColumnFractions {
		xs[i] = x0 + int(float64(width)*f)
	}
	xs[len(xs)-1] = x0 + width
	return xs
}
