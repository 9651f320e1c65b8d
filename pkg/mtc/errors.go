package mtc

import (
	"errors"
	"fmt"

	"github.com/enhanced-telerobotics/go-mt4/internal/log"
)

// Sentinel errors for session construction. Anything else the driver
// encounters is a recoverable per-call failure reported through the Reporter,
// never an error from the pose API.
var (
	// ErrNoMTHome is returned when no installation root was configured.
	ErrNoMTHome = errors.New("mtc: MTHome not configured")

	// ErrCameraIndex is returned for a negative camera index. Unlike
	// device failures this is a caller bug and fails loudly.
	ErrCameraIndex = errors.New("mtc: camera index out of range")
)

// LoadError wraps a native library load failure. It is fatal: no session is
// created.
type LoadError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("mtc: cannot load native library %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying loader error.
func (e *LoadError) Unwrap() error { return e.Err }

// CallError describes one failed native call: the operation that failed and
// the diagnostic text the native layer held at that moment.
type CallError struct {
	Op      string
	Message string
}

// Error implements the error interface.
func (e *CallError) Error() string {
	return fmt.Sprintf("mtc: %s failed: %s", e.Op, e.Message)
}

// Reporter receives recoverable native call failures. Implementations must
// not panic; the driver continues with sentinel results after every report.
type Reporter interface {
	Report(err *CallError)
}

// logReporter is the default Reporter, emitting structured warnings.
type logReporter struct{}

func (logReporter) Report(err *CallError) {
	log.Warn("native call failed", "op", err.Op, "error", err.Message)
}
