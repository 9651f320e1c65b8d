// Package config provides configuration helpers for go-mt4 commands.
//
// The tracker installation root ("MTHome") is resolved once at startup and
// passed into the session explicitly; everything else comes from environment
// variables with sensible defaults.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/enhanced-telerobotics/go-mt4/internal/log"
)

// Defaults for the pose service.
const (
	DefaultPort        = "18080"
	DefaultCameraIndex = 0
)

// MTHome returns the MicronTracker installation root.
// The MT_HOME environment variable wins; on Windows the MTHome value from the
// system environment registry key is the fallback. An empty return means the
// tracker is not installed; callers degrade with a warning rather than crash.
func MTHome() string {
	if home := os.Getenv("MT_HOME"); home != "" {
		return home
	}
	if home := registryMTHome(); home != "" {
		return home
	}
	log.Warn("MTHome not configured", "hint", "set MT_HOME or install MicronTracker")
	return ""
}

// Port returns the HTTP listen port from MT4_PORT or the default.
func Port() string {
	if port := os.Getenv("MT4_PORT"); port != "" {
		return port
	}
	return DefaultPort
}

// CameraIndex returns the camera selection index from MT4_CAMERA_INDEX
// or the default.
func CameraIndex() int {
	if v := os.Getenv("MT4_CAMERA_INDEX"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i
		}
		log.Warn("invalid MT4_CAMERA_INDEX, using default", "value", v)
	}
	return DefaultCameraIndex
}

// CalibrationDir returns the camera calibration directory under mtHome.
func CalibrationDir(mtHome string) string {
	return filepath.Join(mtHome, "CalibrationFiles")
}

// MarkerDir returns the marker template directory under mtHome.
func MarkerDir(mtHome string) string {
	return filepath.Join(mtHome, "Markers")
}

// LibraryPath returns the full path of the native tracker library under
// mtHome for the current platform.
func LibraryPath(mtHome string) string {
	return filepath.Join(mtHome, "Dist64MT4", libraryName())
}

func libraryName() string {
	switch runtime.GOOS {
	case "windows":
		return "mtc.dll"
	case "darwin":
		return "libmtc.dylib"
	default:
		return "libmtc.so"
	}
}
