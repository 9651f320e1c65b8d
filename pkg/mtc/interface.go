// Package mtc is a host-side driver for MicronTracker 4 optical marker
// trackers. It attaches cameras, loads marker templates, configures a
// streaming mode, and on each request grabs one frame, runs marker
// identification, and returns each identified marker's 3D pose keyed by
// marker name.
//
// The native tracker library is reached through the Interface operation
// table. Production sessions bind it with purego (see Library); tests inject
// a fake.
package mtc

// Status is the raw result code returned by native calls. Zero means
// success; anything else is a failure whose diagnostic text must be read
// from the last-error slot immediately.
type Status int32

// StatusOK is the native success code.
const StatusOK Status = 0

// OK reports whether the call succeeded.
func (s Status) OK() bool { return s == StatusOK }

// MaxStringLength is the buffer capacity for bounded native string queries,
// marker names included.
const MaxStringLength = 400

// Interface is the native operation table. One method per native entry
// point, each with an explicit argument and return shape; implementations
// must never assume an implicit layout.
//
// The error slot behind LastErrorString is process-wide, not per call. It
// must be read immediately after a failing call and before any other native
// call.
type Interface interface {
	// LastErrorString returns the diagnostic text of the most recent
	// native failure.
	LastErrorString() string

	// AttachAvailableCameras scans for connected cameras using the
	// calibration data in calibrationDir.
	AttachAvailableCameras(calibrationDir string) Status

	// LoadMarkerTemplates loads marker geometry templates from markerDir.
	LoadMarkerTemplates(markerDir string) Status

	// CameraCount returns the number of attached cameras.
	CameraCount() int

	// CameraItem returns the camera at the 0-based index.
	CameraItem(index int) (CameraHandle, Status)

	// CameraSerialNumber reads the camera's serial number.
	CameraSerialNumber(cam CameraHandle) (int32, Status)

	// CameraResolution reads the camera's sensor resolution.
	CameraResolution(cam CameraHandle) (width, height int32, s Status)

	// SetStreamingMode pushes a streaming mode to the camera with the
	// given serial number.
	SetStreamingMode(mode StreamingMode, serial int32) Status

	// NewCollection allocates a native marker collection.
	// Zero means allocation failed.
	NewCollection() CollectionHandle

	// NewTransform allocates a native 3D transform.
	// Zero means allocation failed.
	NewTransform() TransformHandle

	// FreeCollection releases a collection allocated by NewCollection.
	FreeCollection(c CollectionHandle) Status

	// FreeTransform releases a transform allocated by NewTransform.
	FreeTransform(t TransformHandle) Status

	// Detach releases all attached cameras.
	Detach() Status

	// GrabFrame acquires one frame from the camera.
	GrabFrame(cam CameraHandle) Status

	// ProcessFrame runs marker processing on the grabbed frame.
	ProcessFrame(cam CameraHandle) Status

	// IdentifiedMarkers writes the markers identified in the processed
	// frame into the collection.
	IdentifiedMarkers(cam CameraHandle, into CollectionHandle) Status

	// CollectionCount returns the number of handles in the collection.
	CollectionCount(c CollectionHandle) int

	// CollectionItem returns the handle at the 1-based index, per native
	// collection convention.
	CollectionItem(c CollectionHandle, index int) MarkerHandle

	// MarkerToCameraXf computes the marker's pose relative to the camera
	// into the scratch transform.
	MarkerToCameraXf(m MarkerHandle, cam CameraHandle, scratch TransformHandle) Status

	// TransformShift reads the transform's translation. The returned array
	// is an owned copy.
	TransformShift(t TransformHandle) ([3]float64, Status)

	// TransformRotation reads the transform's 3x3 rotation matrix in
	// row-major order. The returned array is an owned copy.
	TransformRotation(t TransformHandle) ([9]float64, Status)

	// MarkerName resolves the marker's display name, truncated to the
	// exact character count the native call reports.
	MarkerName(m MarkerHandle) (string, Status)
}
