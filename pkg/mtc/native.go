package mtc

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"
)

// streamingModeRecord is the wire layout of the streaming mode struct the
// native library expects: three consecutive 32-bit codes.
type streamingModeRecord struct {
	FrameType  int32
	Decimation int32
	BitDepth   int32
}

func init() {
	if unsafe.Sizeof(streamingModeRecord{}) != 12 {
		panic("mtc: streamingModeRecord size mismatch, check struct layout")
	}
}

// Library binds the MicronTracker shared library through purego. Every entry
// point is registered with an explicit signature before first use.
type Library struct {
	handle uintptr

	lastErrorString        func() string
	attachAvailableCameras func(calibrationDir string) int32
	loadMarkerTemplates    func(markerDir string) int32
	cameraCount            func() int32
	cameraItem             func(index int32, out *int64) int32
	serialNumber           func(cam int64, out *int32) int32
	resolution             func(cam int64, width, height *int32) int32
	setStreamingMode       func(mode *streamingModeRecord, serial int32) int32
	collectionNew          func() int64
	transformNew           func() int64
	collectionFree         func(c int64) int32
	transformFree          func(t int64) int32
	detach                 func() int32
	grabFrame              func(cam int64) int32
	processFrame           func(cam int64) int32
	identifiedMarkers      func(cam, into int64) int32
	collectionCount        func(c int64) int32
	collectionItem         func(c int64, index int32) int64
	markerToCameraXf       func(m, cam, scratch int64, identifyingCam *int64) int32
	transformShift         func(t int64, out *float64) int32
	transformRotation      func(t int64, out *float64) int32
	markerName             func(m int64, buf *byte, capacity int32, actual *int32) int32
}

var _ Interface = (*Library)(nil)

// LoadLibrary opens the native tracker library at path and binds every entry
// point. A missing library or symbol yields a *LoadError; no partially bound
// Library is ever returned.
func LoadLibrary(path string) (*Library, error) {
	handle, err := dlopen(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	lib := &Library{handle: handle}
	if err := lib.bind(); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return lib, nil
}

// bind registers all symbols. purego panics on a missing symbol; that is
// converted into the returned error.
func (l *Library) bind() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("symbol binding: %v", r)
		}
	}()

	purego.RegisterLibFunc(&l.lastErrorString, l.handle, "MTLastErrorString")
	purego.RegisterLibFunc(&l.attachAvailableCameras, l.handle, "Cameras_AttachAvailableCameras")
	purego.RegisterLibFunc(&l.loadMarkerTemplates, l.handle, "Markers_LoadTemplates")
	purego.RegisterLibFunc(&l.cameraCount, l.handle, "Cameras_Count")
	purego.RegisterLibFunc(&l.cameraItem, l.handle, "Cameras_ItemGet")
	purego.RegisterLibFunc(&l.serialNumber, l.handle, "Camera_SerialNumberGet")
	purego.RegisterLibFunc(&l.resolution, l.handle, "Camera_ResolutionGet")
	purego.RegisterLibFunc(&l.setStreamingMode, l.handle, "Cameras_StreamingModeSet")
	purego.RegisterLibFunc(&l.collectionNew, l.handle, "Collection_New")
	purego.RegisterLibFunc(&l.transformNew, l.handle, "Xform3D_New")
	purego.RegisterLibFunc(&l.collectionFree, l.handle, "Collection_Free")
	purego.RegisterLibFunc(&l.transformFree, l.handle, "Xform3D_Free")
	purego.RegisterLibFunc(&l.detach, l.handle, "Cameras_Detach")
	purego.RegisterLibFunc(&l.grabFrame, l.handle, "Cameras_GrabFrame")
	purego.RegisterLibFunc(&l.processFrame, l.handle, "Markers_ProcessFrame")
	purego.RegisterLibFunc(&l.identifiedMarkers, l.handle, "Markers_IdentifiedMarkersGet")
	purego.RegisterLibFunc(&l.collectionCount, l.handle, "Collection_Count")
	purego.RegisterLibFunc(&l.collectionItem, l.handle, "Collection_Int")
	purego.RegisterLibFunc(&l.markerToCameraXf, l.handle, "Marker_Marker2CameraXfGet")
	purego.RegisterLibFunc(&l.transformShift, l.handle, "Xform3D_ShiftGet")
	purego.RegisterLibFunc(&l.transformRotation, l.handle, "Xform3D_RotMatGet")
	purego.RegisterLibFunc(&l.markerName, l.handle, "Marker_NameGet")
	return nil
}

// LastErrorString returns the diagnostic text of the most recent failure.
func (l *Library) LastErrorString() string {
	return l.lastErrorString()
}

// AttachAvailableCameras scans for connected cameras.
func (l *Library) AttachAvailableCameras(calibrationDir string) Status {
	return Status(l.attachAvailableCameras(calibrationDir))
}

// LoadMarkerTemplates loads marker geometry templates.
func (l *Library) LoadMarkerTemplates(markerDir string) Status {
	return Status(l.loadMarkerTemplates(markerDir))
}

// CameraCount returns the number of attached cameras.
func (l *Library) CameraCount() int {
	return int(l.cameraCount())
}

// CameraItem returns the camera at the 0-based index.
func (l *Library) CameraItem(index int) (CameraHandle, Status) {
	var out int64
	s := Status(l.cameraItem(int32(index), &out))
	if !s.OK() {
		return 0, s
	}
	return CameraHandle(out), s
}

// CameraSerialNumber reads the camera's serial number.
func (l *Library) CameraSerialNumber(cam CameraHandle) (int32, Status) {
	var out int32
	s := Status(l.serialNumber(int64(cam), &out))
	return out, s
}

// CameraResolution reads the camera's sensor resolution.
func (l *Library) CameraResolution(cam CameraHandle) (int32, int32, Status) {
	var width, height int32
	s := Status(l.resolution(int64(cam), &width, &height))
	return width, height, s
}

// SetStreamingMode pushes a streaming mode to the camera with the given
// serial number.
func (l *Library) SetStreamingMode(mode StreamingMode, serial int32) Status {
	record := streamingModeRecord{
		FrameType:  int32(mode.FrameType),
		Decimation: int32(mode.Decimation),
		BitDepth:   int32(mode.BitDepth),
	}
	return Status(l.setStreamingMode(&record, serial))
}

// NewCollection allocates a native marker collection.
func (l *Library) NewCollection() CollectionHandle {
	return CollectionHandle(l.collectionNew())
}

// NewTransform allocates a native 3D transform.
func (l *Library) NewTransform() TransformHandle {
	return TransformHandle(l.transformNew())
}

// FreeCollection releases a collection.
func (l *Library) FreeCollection(c CollectionHandle) Status {
	return Status(l.collectionFree(int64(c)))
}

// FreeTransform releases a transform.
func (l *Library) FreeTransform(t TransformHandle) Status {
	return Status(l.transformFree(int64(t)))
}

// Detach releases all attached cameras.
func (l *Library) Detach() Status {
	return Status(l.detach())
}

// GrabFrame acquires one frame from the camera.
func (l *Library) GrabFrame(cam CameraHandle) Status {
	return Status(l.grabFrame(int64(cam)))
}

// ProcessFrame runs marker processing on the grabbed frame.
func (l *Library) ProcessFrame(cam CameraHandle) Status {
	return Status(l.processFrame(int64(cam)))
}

// IdentifiedMarkers writes the identified markers into the collection.
func (l *Library) IdentifiedMarkers(cam CameraHandle, into CollectionHandle) Status {
	return Status(l.identifiedMarkers(int64(cam), int64(into)))
}

// CollectionCount returns the number of handles in the collection.
func (l *Library) CollectionCount(c CollectionHandle) int {
	return int(l.collectionCount(int64(c)))
}

// CollectionItem returns the handle at the 1-based index.
func (l *Library) CollectionItem(c CollectionHandle, index int) MarkerHandle {
	return MarkerHandle(l.collectionItem(int64(c), int32(index)))
}

// MarkerToCameraXf computes the marker's pose relative to the camera into
// the scratch transform.
func (l *Library) MarkerToCameraXf(m MarkerHandle, cam CameraHandle, scratch TransformHandle) Status {
	// The identifying-camera out parameter is unused but must be supplied.
	var identifying int64
	return Status(l.markerToCameraXf(int64(m), int64(cam), int64(scratch), &identifying))
}

// TransformShift reads the transform's translation into an owned copy. The
// native transform is scratch and must not be aliased past this call.
func (l *Library) TransformShift(t TransformHandle) ([3]float64, Status) {
	var out [3]float64
	s := Status(l.transformShift(int64(t), &out[0]))
	return out, s
}

// TransformRotation reads the transform's row-major 3x3 rotation matrix into
// an owned copy.
func (l *Library) TransformRotation(t TransformHandle) ([9]float64, Status) {
	var out [9]float64
	s := Status(l.transformRotation(int64(t), &out[0]))
	return out, s
}

// MarkerName resolves the marker's display name through a bounded string
// call.
func (l *Library) MarkerName(m MarkerHandle) (string, Status) {
	buf := make([]byte, MaxStringLength)
	var actual int32
	s := Status(l.markerName(int64(m), &buf[0], MaxStringLength, &actual))
	if !s.OK() {
		return "", s
	}
	return clampName(buf, actual), s
}

// clampName slices the name buffer to the exact character count the native
// call reported. The buffer is not guaranteed to be zero-filled beyond that
// count, so a terminator scan would over-read.
func clampName(buf []byte, actual int32) string {
	n := int(actual)
	if n < 0 {
		n = 0
	}
	if n > len(buf) {
		n = len(buf)
	}
	return string(buf[:n])
}
