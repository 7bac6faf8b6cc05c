package scan

// Defaults for the document scan pipeline. The detection constants are
// expressed in downscaled-image units.
const (
	DefaultMaxDetectionSize = 800
	DefaultCannyLow         = 75.0
	DefaultCannyHigh        = 200.0
	DefaultMinContourArea   = 5000.0
	DefaultApproxEpsilon    = 0.02
	DefaultJPEGQuality      = 92
)

// Config holds the tunable parameters of a Scanner.
type Config struct {
	// MaxDetectionSize caps the longer frame dimension during detection.
	// Full-resolution pixels are still used for the output warp.
	MaxDetectionSize int `mapstructure:"max_detection_size" yaml:"max_detection_size"`

	// CannyLow and CannyHigh are the hysteresis thresholds of the edge
	// detector, applied to L1 Sobel magnitudes.
	CannyLow  float64 `mapstructure:"canny_low" yaml:"canny_low"`
	CannyHigh float64 `mapstructure:"canny_high" yaml:"canny_high"`

	// MinContourArea rejects contours smaller than this many square pixels
	// in the downscaled frame.
	MinContourArea float64 `mapstructure:"min_contour_area" yaml:"min_contour_area"`

	// ApproxEpsilonRatio sets the polygon simplification tolerance as a
	// fraction of the contour perimeter.
	ApproxEpsilonRatio float64 `mapstructure:"approx_epsilon_ratio" yaml:"approx_epsilon_ratio"`

	// JPEGQuality is the encoder quality for scan output (1-100).
	JPEGQuality int `mapstructure:"jpeg_quality" yaml:"jpeg_quality"`
}

// DefaultConfig returns the pipeline defaults.
func DefaultConfig() Config {
	return Config{
		MaxDetectionSize:   DefaultMaxDetectionSize,
		CannyLow:           DefaultCannyLow,
		CannyHigh:          DefaultCannyHigh,
		MinContourArea:     DefaultMinContourArea,
		ApproxEpsilonRatio: DefaultApproxEpsilon,
		JPEGQuality:        DefaultJPEGQuality,
	}
}
