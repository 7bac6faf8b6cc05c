package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/docscan/internal/engine"
	"github.com/MeKo-Tech/docscan/internal/scan"
	"github.com/MeKo-Tech/docscan/internal/utils"
)

const (
	outputFormatImage = "image"
	outputFormatJSON  = "json"
)

// imageScanReport is the JSON output of one scanned file.
type imageScanReport struct {
	File     string       `json:"file"`
	Detected bool         `json:"detected"`
	Corners  [][2]float64 `json:"corners,omitempty"`
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	Output   string       `json:"output,omitempty"`
}

// imageCmd represents the image command.
var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Scan document photos into flat rectangular images",
	Long: `Process one or more image files: detect the document boundary, correct
perspective and write the flattened scan.

Supported formats: JPEG, PNG, BMP

Examples:
  docscan image photo.jpg
  docscan image *.jpg --output-dir scans/
  docscan image photo.jpg --format json
  docscan image photo.jpg --overlay`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input files provided")
		}

		cfg := GetConfig()

		format := cfg.Output.Format
		if cmd.Flags().Changed("format") {
			format, _ = cmd.Flags().GetString("format")
		}
		if format != outputFormatImage && format != outputFormatJSON {
			return fmt.Errorf("invalid output format: %s (must be one of: image, json)", format)
		}

		outputDir := cfg.Output.Directory
		if cmd.Flags().Changed("output-dir") {
			outputDir, _ = cmd.Flags().GetString("output-dir")
		}
		overlay, _ := cmd.Flags().GetBool("overlay")

		eng := engine.New()
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		if err := eng.WaitReady(ctx); err != nil {
			return fmt.Errorf("engine initialization: %w", err)
		}
		scanner := scan.NewScanner(eng, cfg.Scan)

		reports := make([]imageScanReport, 0, len(args))
		for _, path := range args {
			report, err := scanOneImage(scanner, path, outputDir, overlay, cfg.Scan.JPEGQuality)
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			reports = append(reports, report)
		}

		if format == outputFormatJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(reports)
		}

		for _, r := range reports {
			status := "no document found, kept original"
			if r.Detected {
				status = fmt.Sprintf("document %dx%d", r.Width, r.Height)
			}
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s\n", r.File, status, r.Output); err != nil {
				return fmt.Errorf("failed to write to stdout: %w", err)
			}
		}
		return nil
	},
}

// scanOneImage processes a single file and writes its outputs.
func scanOneImage(scanner *scan.Scanner, path, outputDir string, overlay bool, quality int) (imageScanReport, error) {
	img, _, err := utils.LoadImage(path)
	if err != nil {
		return imageScanReport{}, err
	}

	res, err := scanner.Process(img)
	if err != nil {
		return imageScanReport{}, err
	}

	outPath := scanOutputPath(path, outputDir)
	if err := utils.SaveImage(res.Image, outPath, quality); err != nil {
		return imageScanReport{}, err
	}

	if overlay {
		ov := utils.CloneRGBA(img)
		if res.Detected {
			utils.DrawPolygon(ov, res.Corners[:], color.RGBA{0, 255, 0, 255}, 3)
		}
		ovPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + "_overlay.png"
		if err := utils.SaveImage(ov, ovPath, quality); err != nil {
			return imageScanReport{}, err
		}
		slog.Debug("Wrote detection overlay", "path", ovPath)
	}

	report := imageScanReport{
		File:     path,
		Detected: res.Detected,
		Width:    res.Width,
		Height:   res.Height,
		Output:   outPath,
	}
	if res.Detected {
		report.Corners = make([][2]float64, 4)
		for i, c := range res.Corners {
			report.Corners[i] = [2]float64{c.X, c.Y}
		}
	}
	return report, nil
}

// scanOutputPath derives the output filename for a scanned input.
func scanOutputPath(inputPath, outputDir string) string {
	base := filepath.Base(inputPath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext) + "_scan.jpg"
	if outputDir == "" {
		outputDir = "."
	}
	return filepath.Join(outputDir, name)
}

func init() {
	rootCmd.AddCommand(imageCmd)
	imageCmd.Flags().StringP("format", "f", "image", "output format: image or json")
	imageCmd.Flags().StringP("output-dir", "o", "", "directory for scan output (default: output.directory config)")
	imageCmd.Flags().Bool("overlay", false, "also write a PNG with the detected boundary drawn on the input")
}
