package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/docscan/internal/scan"
	"github.com/MeKo-Tech/docscan/internal/testutil"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	srv, err := NewServer(Config{
		CORSOrigin:     "*",
		MaxUploadMB:    10,
		TimeoutSec:     30,
		OverlayEnabled: true,
		ScanConfig:     scan.DefaultConfig(),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.engine.WaitReady(ctx))

	return srv
}

func multipartFrame(t *testing.T, img image.Image, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("image", "frame.jpg")
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(part, img, &jpeg.Options{Quality: 90}))

	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())

	return &body, writer.FormDataContentType()
}

func TestHealthHandler(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.healthHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.True(t, resp.EngineReady)
}

func TestHealthHandlerMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rec := httptest.NewRecorder()
	srv.healthHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestScanImageJSON(t *testing.T) {
	srv := newTestServer(t)

	frame := testutil.GenerateFrame(testutil.DefaultFrameConfig())
	body, contentType := multipartFrame(t, frame, map[string]string{"format": "json"})

	req := httptest.NewRequest(http.MethodPost, "/scan/image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.scanImageHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ScanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotNil(t, resp.Result)
	assert.True(t, resp.Result.Detected)
	require.Len(t, resp.Result.Corners, 4)
	assert.InDelta(t, 200, resp.Result.Corners[0][0], 5)
	assert.InDelta(t, 300, resp.Result.Corners[0][1], 5)
	assert.True(t, strings.HasPrefix(resp.Result.Image, "data:image/jpeg;base64,"))
}

func TestScanImageDefaultJPEG(t *testing.T) {
	srv := newTestServer(t)

	frame := testutil.GenerateFrame(testutil.DefaultFrameConfig())
	body, contentType := multipartFrame(t, frame, nil)

	req := httptest.NewRequest(http.MethodPost, "/scan/image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.scanImageHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "true", rec.Header().Get("X-Scan-Detected"))

	img, _, err := image.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.InDelta(t, 600, img.Bounds().Dx(), 8)
	assert.InDelta(t, 400, img.Bounds().Dy(), 8)
}

func TestScanImageOverlay(t *testing.T) {
	srv := newTestServer(t)

	frame := testutil.GenerateFrame(testutil.DefaultFrameConfig())
	body, contentType := multipartFrame(t, frame, map[string]string{"format": "overlay"})

	req := httptest.NewRequest(http.MethodPost, "/scan/image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.scanImageHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	// The overlay keeps the original frame size.
	assert.Equal(t, 1000, img.Bounds().Dx())
}

func TestScanImageOverlayDisabled(t *testing.T) {
	srv := newTestServer(t)
	srv.overlayEnabled = false

	frame := testutil.GenerateFrame(testutil.DefaultFrameConfig())
	body, contentType := multipartFrame(t, frame, map[string]string{"format": "overlay"})

	req := httptest.NewRequest(http.MethodPost, "/scan/image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.scanImageHandler(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestScanImageUnsupportedFormat(t *testing.T) {
	srv := newTestServer(t)

	frame := testutil.GenerateFrame(testutil.DefaultFrameConfig())
	body, contentType := multipartFrame(t, frame, map[string]string{"format": "tiff"})

	req := httptest.NewRequest(http.MethodPost, "/scan/image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.scanImageHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScanImageNoFile(t *testing.T) {
	srv := newTestServer(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/scan/image", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.scanImageHandler(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ScanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "No image file")
}

func TestScanImageInvalidData(t *testing.T) {
	srv := newTestServer(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", "frame.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("not an image"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/scan/image", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.scanImageHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScanImageMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/scan/image", nil)
	rec := httptest.NewRecorder()
	srv.scanImageHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestScanImageEngineUnavailable(t *testing.T) {
	srv := newTestServer(t)
	srv.scanner = unavailableScanner{}

	frame := testutil.GenerateFrame(testutil.DefaultFrameConfig())
	body, contentType := multipartFrame(t, frame, nil)

	req := httptest.NewRequest(http.MethodPost, "/scan/image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.scanImageHandler(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp ScanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}

func TestCORSMiddleware(t *testing.T) {
	srv := newTestServer(t)

	handler := srv.corsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodOptions, "/scan/image", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestSetupRoutes(t *testing.T) {
	srv := newTestServer(t)

	mux := http.NewServeMux()
	srv.SetupRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
