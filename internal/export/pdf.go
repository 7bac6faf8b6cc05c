// Package export assembles captured scans into a single PDF document, one
// page per capture.
package export

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/MeKo-Tech/docscan/internal/scan"
)

// Options controls PDF assembly.
type Options struct {
	// Title is stamped into the PDF document properties when non-empty.
	Title string

	// JPEGQuality is used when encoding in-memory captures to pages.
	JPEGQuality int

	// ImportSpec is the pdfcpu page placement description. Empty uses
	// centered placement on pages sized to each image.
	ImportSpec string
}

// DefaultOptions returns sensible export defaults.
func DefaultOptions() Options {
	return Options{
		Title:       "Scanned Document",
		JPEGQuality: scan.DefaultJPEGQuality,
	}
}

// PDF writes the captures to outPath as a PDF, one page per image, in the
// given order.
func PDF(images []image.Image, outPath string, opts Options) error {
	if len(images) == 0 {
		return errors.New("no captures to export")
	}

	tempDir, err := os.MkdirTemp("", "docscan-export-*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	quality := opts.JPEGQuality
	if quality < 1 || quality > 100 {
		quality = scan.DefaultJPEGQuality
	}

	files := make([]string, 0, len(images))
	for i, img := range images {
		if img == nil {
			return fmt.Errorf("capture %d is nil", i)
		}
		data, err := scan.EncodeJPEG(img, quality)
		if err != nil {
			return fmt.Errorf("failed to encode capture %d: %w", i, err)
		}
		path := filepath.Join(tempDir, fmt.Sprintf("page_%04d.jpg", i))
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return fmt.Errorf("failed to stage capture %d: %w", i, err)
		}
		files = append(files, path)
	}

	return PDFFromFiles(files, outPath, opts)
}

// PDFFromFiles assembles existing image files into a PDF at outPath.
func PDFFromFiles(imageFiles []string, outPath string, opts Options) error {
	if len(imageFiles) == 0 {
		return errors.New("no image files to export")
	}

	imp, err := api.Import(opts.ImportSpec, types.POINTS)
	if err != nil {
		return fmt.Errorf("invalid import spec %q: %w", opts.ImportSpec, err)
	}

	if err := api.ImportImagesFile(imageFiles, outPath, imp, nil); err != nil {
		return fmt.Errorf("failed to assemble PDF: %w", err)
	}

	if opts.Title != "" {
		props := map[string]string{"Title": opts.Title}
		if err := api.AddPropertiesFile(outPath, "", props, nil); err != nil {
			return fmt.Errorf("failed to set PDF title: %w", err)
		}
	}
	return nil
}

// PageCount returns the number of pages in the PDF at path.
func PageCount(path string) (int, error) {
	return api.PageCountFile(path)
}
