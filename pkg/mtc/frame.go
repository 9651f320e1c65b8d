package mtc

// identifyFrame runs the per-request frame pipeline: grab a frame from the
// camera, process it, and write the identified markers into the session's
// collection. Each step is gated on the previous one succeeding; the first
// failure is reported and the run abandoned with a count of zero, which
// callers treat as "no markers this frame", not a hard error. The pipeline
// restarts from scratch on every request; nothing carries over between
// frames.
func (s *Session) identifyFrame() int {
	if st := s.native.GrabFrame(s.camera); !st.OK() {
		s.reportFailure("Cameras_GrabFrame")
		return 0
	}

	if st := s.native.ProcessFrame(s.camera); !st.OK() {
		s.reportFailure("Markers_ProcessFrame")
		return 0
	}

	if st := s.native.IdentifiedMarkers(s.camera, s.markers); !st.OK() {
		s.reportFailure("Markers_IdentifiedMarkersGet")
		return 0
	}

	return s.native.CollectionCount(s.markers)
}
