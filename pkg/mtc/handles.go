package mtc

// Native objects are addressed by opaque 64-bit handles. Each kind gets its
// own type so a marker handle can never be passed where a camera handle is
// expected.

// CameraHandle identifies an attached camera. Obtained once at session start
// and valid for the session lifetime.
type CameraHandle int64

// CollectionHandle identifies a native container of marker handles. Created
// once per session and re-populated every frame; never recreated while the
// session is alive, or the native side leaks collection objects.
type CollectionHandle int64

// TransformHandle identifies a native 3D transform. The session keeps one as
// a scratch buffer: its contents are valid only until the next pose
// computation writes into it, so decoded values must be copied out
// immediately.
type TransformHandle int64

// MarkerHandle identifies an identified marker. Transient: valid only for the
// current processed frame.
type MarkerHandle int64

// Valid reports whether the handle refers to a native object.
func (h CameraHandle) Valid() bool { return h != 0 }

// Valid reports whether the handle refers to a native object.
func (h CollectionHandle) Valid() bool { return h != 0 }

// Valid reports whether the handle refers to a native object.
func (h TransformHandle) Valid() bool { return h != 0 }

// Valid reports whether the handle refers to a native object.
func (h MarkerHandle) Valid() bool { return h != 0 }

// FrameType selects what the camera streams per frame.
type FrameType int32

const (
	// FrameTypeNone is the error state, no frame type set.
	FrameTypeNone FrameType = iota
	// FrameTypeFull streams frames at full resolution and bit depth.
	FrameTypeFull
	// FrameTypeROIs streams only XPoint regions of interest.
	FrameTypeROIs
	// FrameTypeAlternating alternates ROI frames and image frames.
	FrameTypeAlternating
)

// Decimation selects how many rows and columns the camera keeps.
type Decimation int32

const (
	// DecimationNone is the error state, no decimation mode set.
	DecimationNone Decimation = iota
	// Decimation11 keeps every row and column.
	Decimation11
	// Decimation21 keeps every 2nd row and column.
	Decimation21
	// Decimation41 keeps every 4th row and column.
	Decimation41
)

// BitDepth selects the pixel depth the camera streams.
type BitDepth int32

const (
	// BitDepthNone is the error state, no pixel depth set.
	BitDepthNone BitDepth = iota
	// BitDepth14 requests 14-bit pixels.
	BitDepth14
	// BitDepth12 requests 12-bit pixels.
	BitDepth12
)

// StreamingMode is the fixed-layout record pushed to a camera during setup.
// It is set once per session, not per frame.
type StreamingMode struct {
	FrameType  FrameType
	Decimation Decimation
	BitDepth   BitDepth
}

// DefaultStreamingMode is the session default: alternating frames with 4:1
// decimation at 14-bit depth.
var DefaultStreamingMode = StreamingMode{
	FrameType:  FrameTypeAlternating,
	Decimation: Decimation41,
	BitDepth:   BitDepth14,
}
