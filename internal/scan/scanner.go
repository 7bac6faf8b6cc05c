package scan

import (
	"errors"
	"image"

	"github.com/MeKo-Tech/docscan/internal/engine"
	"github.com/MeKo-Tech/docscan/internal/utils"
)

// Scanner detects the dominant document in a frame and produces a
// perspective-corrected scan of it. A Scanner is safe for concurrent use.
type Scanner struct {
	cfg Config
	eng *engine.Engine
}

// Result is the outcome of processing one frame. When Detected is false the
// frame contained no usable document boundary and Image/JPEG carry the
// re-encoded original frame unchanged.
type Result struct {
	Image    image.Image
	JPEG     []byte
	DataURL  string
	Detected bool
	Corners  [4]utils.Point
	Width    int
	Height   int
}

// NewScanner builds a Scanner on top of eng with the given configuration.
func NewScanner(eng *engine.Engine, cfg Config) *Scanner {
	return &Scanner{cfg: cfg, eng: eng}
}

// Config returns the scanner's active configuration.
func (s *Scanner) Config() Config { return s.cfg }

// Process runs the full scan pipeline on img. It returns
// ErrEngineUnavailable while the engine is still initializing, and a
// *ProcessingError for internal failures; in both cases callers should keep
// their original capture. A frame with no detectable document is not an
// error: the result carries the original image with Detected set to false.
func (s *Scanner) Process(img image.Image) (*Result, error) {
	if s.eng == nil || !s.eng.Ready() {
		return nil, ErrEngineUnavailable
	}
	if img == nil {
		return nil, processingErr("input", errors.New("nil frame"))
	}
	b := img.Bounds()
	if b.Dx() < 1 || b.Dy() < 1 {
		return nil, processingErr("input", errors.New("empty frame"))
	}

	corners, found := s.detect(img)
	if !found {
		return s.fallback(img)
	}

	w, h := targetSize(corners)
	if w < 1 || h < 1 {
		return s.fallback(img)
	}

	warped, err := s.eng.WarpPerspective(img, corners, w, h)
	if err != nil {
		if errors.Is(err, engine.ErrSingularTransform) {
			// Numerically degenerate quad: treat like no detection.
			return s.fallback(img)
		}
		return nil, processingErr("warp", err)
	}

	res, err := s.encodeResult(warped)
	if err != nil {
		return nil, err
	}
	res.Detected = true
	res.Corners = corners
	return res, nil
}

// detect finds the largest convex quadrilateral document boundary and
// returns its corners in full-resolution coordinates, ordered TL, TR, BR,
// BL.
func (s *Scanner) detect(img image.Image) ([4]utils.Point, bool) {
	small, scale := s.eng.Downscale(img, s.cfg.MaxDetectionSize)

	gray := s.eng.Grayscale(small)
	defer gray.Release()
	blurred := s.eng.GaussianBlur5(gray)
	defer blurred.Release()
	edges := s.eng.Canny(blurred, s.cfg.CannyLow, s.cfg.CannyHigh)
	defer edges.Release()

	contours := s.eng.FindContours(edges)

	var best [4]utils.Point
	bestArea := -1.0
	found := false
	for _, c := range contours {
		if c.Area < s.cfg.MinContourArea {
			continue
		}
		approx := utils.ApproxPolyClosed(c.Points, s.cfg.ApproxEpsilonRatio*c.Perimeter)
		if len(approx) != 4 || !utils.IsConvexQuadrilateral(approx) {
			continue
		}
		// Strict comparison keeps the first contour on area ties.
		if c.Area > bestArea {
			bestArea = c.Area
			copy(best[:], approx)
			found = true
		}
	}
	if !found {
		return best, false
	}

	ordered := OrderCorners(best)
	inv := 1.0 / scale
	for i := range ordered {
		ordered[i] = utils.ScalePoint(ordered[i], inv, inv)
	}
	return ordered, true
}

// fallback re-encodes the original frame when no document was found.
func (s *Scanner) fallback(img image.Image) (*Result, error) {
	res, err := s.encodeResult(img)
	if err != nil {
		return nil, err
	}
	res.Detected = false
	return res, nil
}

func (s *Scanner) encodeResult(img image.Image) (*Result, error) {
	data, err := EncodeJPEG(img, s.cfg.JPEGQuality)
	if err != nil {
		return nil, processingErr("encode", err)
	}
	b := img.Bounds()
	return &Result{
		Image:   img,
		JPEG:    data,
		DataURL: DataURL(data),
		Width:   b.Dx(),
		Height:  b.Dy(),
	}, nil
}
