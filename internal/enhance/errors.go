package enhance

import (
	"errors"
	"fmt"
	"strings"
)

// ErrContextExtraction marks a scope that could not be located in the
// document. Non-fatal to the batch; the orchestrator records a skip.
var ErrContextExtraction = errors.New("context extraction failed")

// PreflightError aborts a whole run before any edit is attempted.
type PreflightError struct {
	Diagnostics []string
}

func (e *PreflightError) Error() string {
	return fmt.Sprintf("pre-flight validation failed: %s", strings.Join(e.Diagnostics, "; "))
}
