package scan

import (
	"errors"
	"fmt"
)

// ErrEngineUnavailable is returned when a scan is requested before the
// image-processing engine finished initializing. Callers should fall back
// to their own unprocessed capture and may retry on a later frame.
var ErrEngineUnavailable = errors.New("image-processing engine unavailable")

// ProcessingError wraps any failure inside the scan pipeline (malformed
// frame, singular transform, encoding failure). It is non-fatal to the
// host: there is never a partial result behind it.
type ProcessingError struct {
	Stage string
	Err   error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("scan processing failed in %s: %v", e.Stage, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

func processingErr(stage string, err error) error {
	return &ProcessingError{Stage: stage, Err: err}
}
