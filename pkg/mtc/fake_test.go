package mtc

// fakeNative is a simulated native layer. Ops append to the ops slice so
// tests can assert call ordering, and every fail* field forces the matching
// native call to return a non-zero status.
type fakeNative struct {
	cameras int
	markers []fakeMarker

	failAttach    bool
	failTemplates bool
	failItem      bool
	failSerial    bool
	failRes       bool
	failMode      bool
	failGrab      bool
	failProcess   bool
	failIdentify  bool
	failNewColl   bool
	failNewXf     bool

	errText string

	ops []string

	grabCalls     int
	processCalls  int
	identifyCalls int
	poseCalls     int
	shiftCalls    int
	rotCalls      int
	nameCalls     int

	freedCollections int
	freedTransforms  int
	detachCalls      int

	modeSet   []StreamingMode
	serialSet []int32

	// scratch state mirroring the native side
	current int // marker index written into the scratch transform
}

type fakeMarker struct {
	name     string
	pos      [3]float64
	rot      [9]float64
	failPose bool
	failName bool
}

const (
	fakeCamera     = CameraHandle(0xC0)
	fakeCollection = CollectionHandle(0xD0)
	fakeTransform  = TransformHandle(0xE0)
)

var identityRot = [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}

func status(fail bool) Status {
	if fail {
		return Status(1)
	}
	return StatusOK
}

func (f *fakeNative) LastErrorString() string {
	if f.errText == "" {
		return "simulated failure"
	}
	return f.errText
}

func (f *fakeNative) AttachAvailableCameras(string) Status {
	f.ops = append(f.ops, "attach")
	return status(f.failAttach)
}

func (f *fakeNative) LoadMarkerTemplates(string) Status {
	f.ops = append(f.ops, "templates")
	return status(f.failTemplates)
}

func (f *fakeNative) CameraCount() int {
	f.ops = append(f.ops, "count")
	return f.cameras
}

func (f *fakeNative) CameraItem(index int) (CameraHandle, Status) {
	f.ops = append(f.ops, "item")
	if f.failItem || index >= f.cameras {
		return 0, 1
	}
	return fakeCamera, StatusOK
}

func (f *fakeNative) CameraSerialNumber(CameraHandle) (int32, Status) {
	f.ops = append(f.ops, "serial")
	if f.failSerial {
		return 0, 1
	}
	return 4217, StatusOK
}

func (f *fakeNative) CameraResolution(CameraHandle) (int32, int32, Status) {
	f.ops = append(f.ops, "resolution")
	if f.failRes {
		return 0, 0, 1
	}
	return 2464, 1536, StatusOK
}

func (f *fakeNative) SetStreamingMode(mode StreamingMode, serial int32) Status {
	f.ops = append(f.ops, "mode")
	if f.failMode {
		return 1
	}
	f.modeSet = append(f.modeSet, mode)
	f.serialSet = append(f.serialSet, serial)
	return StatusOK
}

func (f *fakeNative) NewCollection() CollectionHandle {
	f.ops = append(f.ops, "newcollection")
	if f.failNewColl {
		return 0
	}
	return fakeCollection
}

func (f *fakeNative) NewTransform() TransformHandle {
	f.ops = append(f.ops, "newtransform")
	if f.failNewXf {
		return 0
	}
	return fakeTransform
}

func (f *fakeNative) FreeCollection(CollectionHandle) Status {
	f.freedCollections++
	return StatusOK
}

func (f *fakeNative) FreeTransform(TransformHandle) Status {
	f.freedTransforms++
	return StatusOK
}

func (f *fakeNative) Detach() Status {
	f.detachCalls++
	return StatusOK
}

func (f *fakeNative) GrabFrame(CameraHandle) Status {
	f.grabCalls++
	return status(f.failGrab)
}

func (f *fakeNative) ProcessFrame(CameraHandle) Status {
	f.processCalls++
	return status(f.failProcess)
}

func (f *fakeNative) IdentifiedMarkers(CameraHandle, CollectionHandle) Status {
	f.identifyCalls++
	return status(f.failIdentify)
}

func (f *fakeNative) CollectionCount(CollectionHandle) int {
	return len(f.markers)
}

func (f *fakeNative) CollectionItem(_ CollectionHandle, index int) MarkerHandle {
	// 1-based, like the native collection
	return MarkerHandle(index)
}

func (f *fakeNative) MarkerToCameraXf(m MarkerHandle, _ CameraHandle, _ TransformHandle) Status {
	f.poseCalls++
	marker := f.markers[int(m)-1]
	if marker.failPose {
		return 1
	}
	f.current = int(m)
	return StatusOK
}

func (f *fakeNative) TransformShift(TransformHandle) ([3]float64, Status) {
	f.shiftCalls++
	return f.markers[f.current-1].pos, StatusOK
}

func (f *fakeNative) TransformRotation(TransformHandle) ([9]float64, Status) {
	f.rotCalls++
	return f.markers[f.current-1].rot, StatusOK
}

func (f *fakeNative) MarkerName(m MarkerHandle) (string, Status) {
	f.nameCalls++
	marker := f.markers[int(m)-1]
	if marker.failName {
		return "", 1
	}
	return marker.name, StatusOK
}

// recordReporter collects reported call failures for assertions.
type recordReporter struct {
	calls []*CallError
}

func (r *recordReporter) Report(err *CallError) {
	r.calls = append(r.calls, err)
}

func (r *recordReporter) failedOps() []string {
	ops := make([]string, 0, len(r.calls))
	for _, c := range r.calls {
		ops = append(ops, c.Op)
	}
	return ops
}
