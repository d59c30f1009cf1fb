package preprocess

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"

	"github.com/disintegration/imaging"

	"github.com/clinicode/rxscan/internal/imgproc"
)

// Config controls quality thresholds and the normalization chain.
type Config struct {
	BlurThreshold  float64 `mapstructure:"blur_threshold" yaml:"blur_threshold" json:"blur_threshold"`
	BrightnessMin  float64 `mapstructure:"brightness_min" yaml:"brightness_min" json:"brightness_min"`
	BrightnessMax  float64 `mapstructure:"brightness_max" yaml:"brightness_max" json:"brightness_max"`
	MaxDimension   int     `mapstructure:"max_dimension" yaml:"max_dimension" json:"max_dimension"`
	DeskewMinAngle float64 `mapstructure:"deskew_min_angle" yaml:"deskew_min_angle" json:"deskew_min_angle"`
	DenoiseSigma   float64 `mapstructure:"denoise_sigma" yaml:"denoise_sigma" json:"denoise_sigma"`
	ContrastAmount float64 `mapstructure:"contrast_amount" yaml:"contrast_amount" json:"contrast_amount"`
	SharpenSigma   float64 `mapstructure:"sharpen_sigma" yaml:"sharpen_sigma" json:"sharpen_sigma"`
}

// DefaultConfig returns thresholds calibrated on the source scanner
// output.
func DefaultConfig() Config {
	return Config{
		BlurThreshold:  100.0,
		BrightnessMin:  40.0,
		BrightnessMax:  220.0,
		MaxDimension:   2000,
		DeskewMinAngle: 0.5,
		DenoiseSigma:   0.8,
		ContrastAmount: 20.0,
		SharpenSigma:   1.0,
	}
}

// Validate checks config bounds.
func (c Config) Validate() error {
	if c.MaxDimension <= 0 {
		return fmt.Errorf("max_dimension must be positive, got %d", c.MaxDimension)
	}
	if c.BrightnessMin < 0 || c.BrightnessMax > 255 || c.BrightnessMin >= c.BrightnessMax {
		return fmt.Errorf("brightness range [%v, %v] invalid", c.BrightnessMin, c.BrightnessMax)
	}
	if c.BlurThreshold < 0 {
		return fmt.Errorf("blur_threshold must be non-negative, got %v", c.BlurThreshold)
	}
	return nil
}

// QualityReport captures the measured input quality and the steps that
// were applied. Immutable after Run returns.
type QualityReport struct {
	BlurScore       float64  `json:"blur_score"`
	Brightness      float64  `json:"brightness"`
	IsBlurry        bool     `json:"is_blurry"`
	TooDark         bool     `json:"too_dark"`
	TooBright       bool     `json:"too_bright"`
	SkewAngle       float64  `json:"skew_angle"`
	StepsApplied    []string `json:"steps_applied"`
	OriginalWidth   int      `json:"original_width"`
	OriginalHeight  int      `json:"original_height"`
	ProcessedWidth  int      `json:"processed_width"`
	ProcessedHeight int      `json:"processed_height"`
}

// Preprocessor normalizes decoded images for recognition.
type Preprocessor struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Preprocessor.
func New(cfg Config, logger *slog.Logger) *Preprocessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Preprocessor{cfg: cfg, logger: logger}
}

// Run decodes the input bytes and applies the conditional normalization
// chain: denoise always, contrast when too dark or too bright, sharpen
// when blurry, rotate when skew exceeds the minimum angle, and bound
// the largest dimension. Fails only on undecodable input.
func (p *Preprocessor) Run(data []byte, filenameHint string) (image.Image, QualityReport, error) {
	img, err := Decode(data, filenameHint)
	if err != nil {
		return nil, QualityReport{}, err
	}
	processed, report := p.Normalize(img)
	return processed, report, nil
}

// Normalize applies the chain to an already-decoded image.
func (p *Preprocessor) Normalize(img image.Image) (image.Image, QualityReport) {
	bounds := img.Bounds()
	report := QualityReport{
		OriginalWidth:  bounds.Dx(),
		OriginalHeight: bounds.Dy(),
	}

	gray := imgproc.ToGray(img)
	report.BlurScore = imgproc.LaplacianVariance(gray)
	report.Brightness = imgproc.MeanIntensity(gray)
	report.SkewAngle = imgproc.EstimateSkew(gray)
	report.IsBlurry = report.BlurScore < p.cfg.BlurThreshold
	report.TooDark = report.Brightness < p.cfg.BrightnessMin
	report.TooBright = report.Brightness > p.cfg.BrightnessMax

	out := imaging.Clone(img)

	out = imaging.Blur(out, p.cfg.DenoiseSigma)
	report.StepsApplied = append(report.StepsApplied, "denoise")

	if report.TooDark || report.TooBright {
		out = imaging.AdjustContrast(out, p.cfg.ContrastAmount)
		if report.TooDark {
			out = imaging.AdjustGamma(out, 1.2)
		} else {
			out = imaging.AdjustGamma(out, 0.8)
		}
		report.StepsApplied = append(report.StepsApplied, "contrast")
	}

	if report.IsBlurry {
		out = imaging.Sharpen(out, p.cfg.SharpenSigma)
		report.StepsApplied = append(report.StepsApplied, "sharpen")
	}

	if math.Abs(report.SkewAngle) > p.cfg.DeskewMinAngle {
		// Positive skew means the text mass leans counter-clockwise;
		// rotate back by the measured angle on a white background.
		out = imaging.Rotate(out, -report.SkewAngle, color.White)
		report.StepsApplied = append(report.StepsApplied, "deskew")
	}

	if w, h := out.Bounds().Dx(), out.Bounds().Dy(); w > p.cfg.MaxDimension || h > p.cfg.MaxDimension {
		out = imaging.Fit(out, p.cfg.MaxDimension, p.cfg.MaxDimension, imaging.Lanczos)
		report.StepsApplied = append(report.StepsApplied, "resize")
	}

	report.ProcessedWidth = out.Bounds().Dx()
	report.ProcessedHeight = out.Bounds().Dy()

	p.logger.Debug("image normalized",
		"blur_score", report.BlurScore,
		"brightness", report.Brightness,
		"skew_angle", report.SkewAngle,
		"steps", report.StepsApplied,
		"size", fmt.Sprintf("%dx%d", report.ProcessedWidth, report.ProcessedHeight))
	return out, report
}
