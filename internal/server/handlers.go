package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"

	"github.com/MeKo-Tech/docscan/internal/scan"
	"github.com/MeKo-Tech/docscan/internal/utils"
	"github.com/MeKo-Tech/docscan/internal/version"
)

const (
	formatJSON    = "json"
	formatJPEG    = "jpeg"
	formatOverlay = "overlay"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:      "healthy",
		EngineReady: s.engine != nil && s.engine.Ready(),
		Version:     version.Version,
		Time:        time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding health response: %v\n", err)
	}
}

// scanImageHandler processes a single uploaded frame.
func (s *Server) scanImageHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(s.maxUploadMB * 1024 * 1024); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "too large") {
			s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		} else {
			s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
		}
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeErrorResponse(w, "No image file provided", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > s.maxUploadMB*1024*1024 {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}

	imageData, err := io.ReadAll(file)
	if err != nil {
		s.writeErrorResponse(w, "Failed to read image data", http.StatusInternalServerError)
		return
	}
	uploadSizeBytes.Observe(float64(len(imageData)))

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		s.writeErrorResponse(w, "Invalid image format", http.StatusBadRequest)
		return
	}

	start := time.Now()
	res, err := s.scanner.Process(img)
	duration := time.Since(start)

	if err != nil {
		if errors.Is(err, scan.ErrEngineUnavailable) {
			scanRequestsTotal.WithLabelValues("image", "unavailable").Inc()
			s.writeErrorResponse(w, "Scan engine not ready", http.StatusServiceUnavailable)
			return
		}
		scanRequestsTotal.WithLabelValues("image", "error").Inc()
		s.writeErrorResponse(w, fmt.Sprintf("Scan processing failed: %v", err), http.StatusInternalServerError)
		return
	}

	scanRequestsTotal.WithLabelValues("image", "success").Inc()
	scanProcessingDuration.WithLabelValues("image").Observe(duration.Seconds())
	if res.Detected {
		scanDetectionsTotal.WithLabelValues("detected").Inc()
	} else {
		scanDetectionsTotal.WithLabelValues("fallback").Inc()
	}

	format := r.FormValue("format")
	if format == "" {
		format = r.URL.Query().Get("format")
	}

	switch format {
	case formatJSON:
		w.Header().Set("Content-Type", "application/json")
		obj := ScanResponse{Success: true, Result: scanResultJSON(res)}
		if err := json.NewEncoder(w).Encode(obj); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding scan response: %v\n", err)
		}
	case formatOverlay:
		s.handleOverlayOutput(w, img, res)
	case formatJPEG, "":
		w.Header().Set("Content-Type", "image/jpeg")
		w.Header().Set("X-Scan-Detected", fmt.Sprintf("%t", res.Detected))
		_, _ = w.Write(res.JPEG)
	default:
		s.writeErrorResponse(w, "Unsupported format: "+format, http.StatusBadRequest)
	}
}

// handleOverlayOutput renders the detected boundary onto the original frame
// as a PNG, for debugging detection quality.
func (s *Server) handleOverlayOutput(w http.ResponseWriter, img image.Image, res *scan.Result) {
	if !s.overlayEnabled {
		http.Error(w, "overlay output disabled", http.StatusForbidden)
		return
	}

	ov := utils.CloneRGBA(img)
	if res.Detected {
		utils.DrawPolygon(ov, res.Corners[:], color.RGBA{0, 255, 0, 255}, 3)
	}

	w.Header().Set("Content-Type", "image/png")
	_ = png.Encode(w, ov)
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ScanResponse{
		Success: false,
		Error:   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing error response: %v\n", err)
	}
}
