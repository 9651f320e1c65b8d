package mtc

import (
	"fmt"

	"github.com/enhanced-telerobotics/go-mt4/internal/config"
	"github.com/enhanced-telerobotics/go-mt4/internal/log"
)

// Config configures a tracker session.
type Config struct {
	// MTHome is the tracker installation root. Required unless Native is
	// injected.
	MTHome string

	// CameraIndex selects which attached camera drives the session.
	CameraIndex int

	// StreamingMode overrides DefaultStreamingMode when non-zero.
	StreamingMode StreamingMode

	// Native overrides the purego-bound library. Used by tests.
	Native Interface

	// Reporter overrides the default log-backed failure reporter.
	Reporter Reporter
}

// Session owns one camera and the two reusable native resources that the
// per-frame pipeline needs: a marker collection and a scratch transform.
// Both are created once here and reused for every frame until Close.
//
// A session is not safe for concurrent use; callers serialize every pose
// request (the web server holds a mutex around its session calls).
type Session struct {
	native   Interface
	reporter Reporter

	camera CameraHandle
	serial int32
	width  int32
	height int32

	markers CollectionHandle
	poseXf  TransformHandle

	active bool
	closed bool
}

// Open loads the native library, attaches available cameras, loads marker
// templates, selects the configured camera, pushes the streaming mode, and
// creates the session's reusable resources.
//
// Only a missing installation root or a library load failure is fatal:
// everything after the library is up is reported and recovered, so a session
// with zero cameras (or a camera that refused a step) still opens and simply
// returns empty pose maps.
func Open(cfg Config) (*Session, error) {
	if cfg.CameraIndex < 0 {
		return nil, fmt.Errorf("%w: %d", ErrCameraIndex, cfg.CameraIndex)
	}

	reporter := cfg.Reporter
	if reporter == nil {
		reporter = logReporter{}
	}

	native := cfg.Native
	if native == nil {
		if cfg.MTHome == "" {
			return nil, ErrNoMTHome
		}
		lib, err := LoadLibrary(config.LibraryPath(cfg.MTHome))
		if err != nil {
			return nil, err
		}
		native = lib
	}

	mode := cfg.StreamingMode
	if mode == (StreamingMode{}) {
		mode = DefaultStreamingMode
	}

	s := &Session{native: native, reporter: reporter}

	if st := native.AttachAvailableCameras(config.CalibrationDir(cfg.MTHome)); st.OK() {
		log.Info("attached available cameras")
	} else {
		s.reportFailure("Cameras_AttachAvailableCameras")
	}

	if st := native.LoadMarkerTemplates(config.MarkerDir(cfg.MTHome)); st.OK() {
		log.Info("loaded marker templates")
	} else {
		s.reportFailure("Markers_LoadTemplates")
	}

	count := native.CameraCount()
	if count == 0 {
		log.Warn("no camera to connect")
		return s, nil
	}

	camera, st := native.CameraItem(cfg.CameraIndex)
	if !st.OK() {
		s.reportFailure("Cameras_ItemGet")
		return s, nil
	}
	s.camera = camera

	if serial, st := native.CameraSerialNumber(camera); st.OK() {
		s.serial = serial
		if st := native.SetStreamingMode(mode, serial); !st.OK() {
			// The camera stays usable with its previous mode.
			s.reportFailure("Cameras_StreamingModeSet")
		}
	} else {
		s.reportFailure("Camera_SerialNumberGet")
	}

	if width, height, st := native.CameraResolution(camera); st.OK() {
		s.width, s.height = width, height
	} else {
		s.reportFailure("Camera_ResolutionGet")
	}

	if s.markers = native.NewCollection(); !s.markers.Valid() {
		s.reportFailure("Collection_New")
	}
	if s.poseXf = native.NewTransform(); !s.poseXf.Valid() {
		s.reportFailure("Xform3D_New")
	}

	s.active = true
	log.Info("tracker session open",
		"serial", s.serial, "width", s.width, "height", s.height, "cameras", count)
	return s, nil
}

// Close releases the session's native resources and detaches cameras. It is
// idempotent; only the first call touches the native layer.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.poseXf.Valid() {
		if st := s.native.FreeTransform(s.poseXf); !st.OK() {
			s.reportFailure("Xform3D_Free")
		}
		s.poseXf = 0
	}
	if s.markers.Valid() {
		if st := s.native.FreeCollection(s.markers); !st.OK() {
			s.reportFailure("Collection_Free")
		}
		s.markers = 0
	}
	if st := s.native.Detach(); !st.OK() {
		s.reportFailure("Cameras_Detach")
	}
	return nil
}

// Active reports whether the session holds a usable camera.
func (s *Session) Active() bool {
	return s.active && !s.closed
}

// CameraCount returns the number of attached cameras.
func (s *Session) CameraCount() int {
	if s.closed {
		return 0
	}
	return s.native.CameraCount()
}

// CameraSerial returns the active camera's serial number.
func (s *Session) CameraSerial() (int32, bool) {
	if !s.Active() || s.serial == 0 {
		return 0, false
	}
	return s.serial, true
}

// CameraResolution returns the active camera's sensor resolution.
func (s *Session) CameraResolution() (width, height int32, ok bool) {
	if !s.Active() || s.width == 0 {
		return 0, 0, false
	}
	return s.width, s.height, true
}

// WarmUp grabs and discards the given number of frames. The device needs a
// few frames after a mode change before identification settles.
func (s *Session) WarmUp(frames int) {
	for i := 0; i < frames; i++ {
		s.Poses(false)
	}
}

// ready reports whether the per-frame pipeline may run: an active camera and
// both reusable resources in place.
func (s *Session) ready() bool {
	return s.Active() && s.markers.Valid() && s.poseXf.Valid()
}

// reportFailure reads the process-wide last-error slot and hands the failure
// to the reporter. It must run immediately after the failing call, before
// any other native call overwrites the slot.
func (s *Session) reportFailure(op string) {
	s.reporter.Report(&CallError{Op: op, Message: s.native.LastErrorString()})
}
