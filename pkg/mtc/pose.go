package mtc

// Pose is one marker's pose relative to the camera. Rotation is nil unless
// requested. The JSON shape matches the service output: arrays in place of
// vectors and matrices.
type Pose struct {
	Position [3]float64     `json:"pos"`
	Rotation *[3][3]float64 `json:"rot,omitempty"`
}

// Poses grabs one frame, identifies markers, and returns each identified
// marker's pose keyed by its display name. With withRotation false the
// rotation matrix is neither read from the native layer nor populated.
//
// Device-level failures never surface as errors: a dead or camera-less
// session yields an empty map, and a marker whose pose or name cannot be
// resolved is skipped, not inserted. When the native layer reports the same
// name twice in one frame the later entry overwrites the earlier one.
//
// The returned map and every pose in it are independently owned; mutating
// one result does not affect the next.
func (s *Session) Poses(withRotation bool) map[string]Pose {
	poses := make(map[string]Pose)
	if !s.ready() {
		return poses
	}

	count := s.identifyFrame()
	for i := 1; i <= count; i++ { // collection indices are 1-based
		marker := s.native.CollectionItem(s.markers, i)

		if st := s.native.MarkerToCameraXf(marker, s.camera, s.poseXf); !st.OK() {
			s.reportFailure("Marker_Marker2CameraXfGet")
			continue
		}

		name, st := s.native.MarkerName(marker)
		if !st.OK() {
			// A marker without a resolvable name has no usable key.
			s.reportFailure("Marker_NameGet")
			continue
		}

		shift, st := s.native.TransformShift(s.poseXf)
		if !st.OK() {
			s.reportFailure("Xform3D_ShiftGet")
			continue
		}

		pose := Pose{Position: shift}
		if withRotation {
			flat, st := s.native.TransformRotation(s.poseXf)
			if !st.OK() {
				s.reportFailure("Xform3D_RotMatGet")
				continue
			}
			rot := rotationMatrix(flat)
			pose.Rotation = &rot
		}

		poses[name] = pose
	}
	return poses
}

// rotationMatrix reshapes the row-major flat array the native layer returns
// into a 3x3 matrix.
func rotationMatrix(flat [9]float64) [3][3]float64 {
	var m [3][3]float64
	for row := 0; row < 3; row++ {
		copy(m[row][:], flat[row*3:row*3+3])
	}
	return m
}
