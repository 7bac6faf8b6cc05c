// Package config defines the application configuration and its loading
// rules: defaults, an optional YAML file and DOCSCAN_* environment
// variables, in ascending precedence.
package config

import (
	"fmt"

	"github.com/MeKo-Tech/docscan/internal/scan"
)

// Config is the root configuration for the docscan CLI and server.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// Verbose enables debug logging regardless of LogLevel.
	Verbose bool `mapstructure:"verbose" yaml:"verbose"`

	Scan   scan.Config  `mapstructure:"scan"   yaml:"scan"`
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Output OutputConfig `mapstructure:"output" yaml:"output"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host"             yaml:"host"`
	Port            int    `mapstructure:"port"             yaml:"port"`
	CORSOrigin      string `mapstructure:"cors_origin"      yaml:"cors_origin"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb"    yaml:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec"      yaml:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	OverlayEnabled  bool   `mapstructure:"overlay_enabled"  yaml:"overlay_enabled"`
}

// OutputConfig holds CLI output settings.
type OutputConfig struct {
	// Format selects the image CLI output: image or json.
	Format string `mapstructure:"format" yaml:"format"`

	// Directory is where scans and exports are written.
	Directory string `mapstructure:"directory" yaml:"directory"`

	// PDFTitle is the document title stamped into exported PDFs.
	PDFTitle string `mapstructure:"pdf_title" yaml:"pdf_title"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Scan:     scan.DefaultConfig(),
		Server: ServerConfig{
			Host:            "",
			Port:            8080,
			CORSOrigin:      "*",
			MaxUploadMB:     50,
			TimeoutSec:      30,
			ShutdownTimeout: 10,
			OverlayEnabled:  true,
		},
		Output: OutputConfig{
			Format:    "image",
			Directory: ".",
			PDFTitle:  "Scanned Document",
		},
	}
}

// Validate checks the configuration for inconsistent values.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}

	if c.Scan.MaxDetectionSize < 1 {
		return fmt.Errorf("scan.max_detection_size must be positive, got %d", c.Scan.MaxDetectionSize)
	}
	if c.Scan.CannyLow <= 0 || c.Scan.CannyHigh <= 0 {
		return fmt.Errorf("scan canny thresholds must be positive, got %v/%v", c.Scan.CannyLow, c.Scan.CannyHigh)
	}
	if c.Scan.CannyLow >= c.Scan.CannyHigh {
		return fmt.Errorf("scan.canny_low (%v) must be below scan.canny_high (%v)", c.Scan.CannyLow, c.Scan.CannyHigh)
	}
	if c.Scan.MinContourArea <= 0 {
		return fmt.Errorf("scan.min_contour_area must be positive, got %v", c.Scan.MinContourArea)
	}
	if c.Scan.ApproxEpsilonRatio <= 0 || c.Scan.ApproxEpsilonRatio >= 1 {
		return fmt.Errorf("scan.approx_epsilon_ratio must be in (0, 1), got %v", c.Scan.ApproxEpsilonRatio)
	}
	if c.Scan.JPEGQuality < 1 || c.Scan.JPEGQuality > 100 {
		return fmt.Errorf("scan.jpeg_quality must be in 1..100, got %d", c.Scan.JPEGQuality)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Server.MaxUploadMB < 1 {
		return fmt.Errorf("server.max_upload_mb must be positive, got %d", c.Server.MaxUploadMB)
	}
	if c.Server.TimeoutSec < 1 {
		return fmt.Errorf("server.timeout_sec must be positive, got %d", c.Server.TimeoutSec)
	}

	switch c.Output.Format {
	case "image", "json":
	default:
		return fmt.Errorf("invalid output.format %q", c.Output.Format)
	}

	return nil
}
