// Package server exposes the scan pipeline over HTTP: a multipart scan
// endpoint, a WebSocket frame stream, health and Prometheus metrics.
package server

import (
	"image"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MeKo-Tech/docscan/internal/engine"
	"github.com/MeKo-Tech/docscan/internal/scan"
)

// scannerInterface defines the methods the server needs from a scanner.
type scannerInterface interface {
	Process(img image.Image) (*scan.Result, error)
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	scanner        scannerInterface
	engine         *engine.Engine
	corsOrigin     string
	maxUploadMB    int64
	timeoutSec     int
	overlayEnabled bool
}

// Config holds server configuration.
type Config struct {
	Host           string
	Port           int
	CORSOrigin     string
	MaxUploadMB    int64
	TimeoutSec     int
	OverlayEnabled bool
	ScanConfig     scan.Config
}

// HealthResponse reports server and engine status.
type HealthResponse struct {
	Status      string `json:"status"`
	EngineReady bool   `json:"engine_ready"`
	Version     string `json:"version,omitempty"`
	Time        string `json:"time"`
}

// ScanResult is the JSON shape of one processed frame.
type ScanResult struct {
	Detected bool         `json:"detected"`
	Corners  [][2]float64 `json:"corners,omitempty"`
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	Image    string       `json:"image"` // JPEG data URL
}

// ScanResponse is the envelope for scan endpoints.
type ScanResponse struct {
	Success bool        `json:"success"`
	Result  *ScanResult `json:"result,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// NewServer creates a scan server backed by a fresh engine.
func NewServer(config Config) (*Server, error) {
	eng := engine.New()
	return &Server{
		scanner:        scan.NewScanner(eng, config.ScanConfig),
		engine:         eng,
		corsOrigin:     config.CORSOrigin,
		maxUploadMB:    config.MaxUploadMB,
		timeoutSec:     config.TimeoutSec,
		overlayEnabled: config.OverlayEnabled,
	}, nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/scan/image", s.corsMiddleware(s.scanImageHandler))
	mux.HandleFunc("/scan/ws", s.scanWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
}

// scanResultJSON converts a pipeline result to its transport shape.
func scanResultJSON(res *scan.Result) *ScanResult {
	out := &ScanResult{
		Detected: res.Detected,
		Width:    res.Width,
		Height:   res.Height,
		Image:    res.DataURL,
	}
	if res.Detected {
		out.Corners = make([][2]float64, 4)
		for i, c := range res.Corners {
			out.Corners[i] = [2]float64{c.X, c.Y}
		}
	}
	return out
}
