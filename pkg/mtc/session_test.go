package mtc

import (
	"errors"
	"testing"
)

func openFake(t *testing.T, fake *fakeNative) (*Session, *recordReporter) {
	t.Helper()
	rec := &recordReporter{}
	sess, err := Open(Config{Native: fake, Reporter: rec})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return sess, rec
}

func TestOpenWithoutMTHome(t *testing.T) {
	if _, err := Open(Config{}); !errors.Is(err, ErrNoMTHome) {
		t.Fatalf("expected ErrNoMTHome, got %v", err)
	}
}

func TestOpenNegativeCameraIndex(t *testing.T) {
	_, err := Open(Config{Native: &fakeNative{}, CameraIndex: -1})
	if !errors.Is(err, ErrCameraIndex) {
		t.Fatalf("expected ErrCameraIndex, got %v", err)
	}
}

func TestOpenConstructionOrder(t *testing.T) {
	fake := &fakeNative{cameras: 1}
	sess, _ := openFake(t, fake)
	defer sess.Close()

	want := []string{"attach", "templates", "count", "item", "serial", "mode", "resolution", "newcollection", "newtransform"}
	if len(fake.ops) != len(want) {
		t.Fatalf("expected %d construction calls, got %d: %v", len(want), len(fake.ops), fake.ops)
	}
	for i, op := range want {
		if fake.ops[i] != op {
			t.Errorf("construction step %d: expected %s, got %s", i, op, fake.ops[i])
		}
	}

	if len(fake.modeSet) != 1 || fake.modeSet[0] != DefaultStreamingMode {
		t.Errorf("expected default streaming mode pushed once, got %v", fake.modeSet)
	}
	if len(fake.serialSet) != 1 || fake.serialSet[0] != 4217 {
		t.Errorf("expected mode pushed to serial 4217, got %v", fake.serialSet)
	}
}

func TestOpenNoCamera(t *testing.T) {
	fake := &fakeNative{cameras: 0}
	sess, _ := openFake(t, fake)
	defer sess.Close()

	if sess.Active() {
		t.Error("session with zero cameras must not be active")
	}

	poses := sess.Poses(true)
	if len(poses) != 0 {
		t.Errorf("expected empty pose map, got %d entries", len(poses))
	}
	if fake.grabCalls != 0 || fake.processCalls != 0 || fake.identifyCalls != 0 {
		t.Error("inactive session must not issue frame pipeline calls")
	}
}

func TestOpenCameraIndexPastCount(t *testing.T) {
	fake := &fakeNative{cameras: 1}
	rec := &recordReporter{}
	sess, err := Open(Config{Native: fake, Reporter: rec, CameraIndex: 1})
	if err != nil {
		t.Fatalf("an index past the attached count is device-level, not fatal: %v", err)
	}
	defer sess.Close()

	if sess.Active() {
		t.Error("session must be inactive when the camera lookup fails")
	}
	ops := rec.failedOps()
	if len(ops) != 1 || ops[0] != "Cameras_ItemGet" {
		t.Errorf("expected one Cameras_ItemGet report, got %v", ops)
	}

	if poses := sess.Poses(false); len(poses) != 0 {
		t.Errorf("expected empty poses, got %d", len(poses))
	}
	if fake.grabCalls != 0 {
		t.Error("inactive session must not issue frame pipeline calls")
	}
}

func TestOpenAttachFailureIsRecovered(t *testing.T) {
	fake := &fakeNative{cameras: 1, failAttach: true}
	sess, rec := openFake(t, fake)
	defer sess.Close()

	if !sess.Active() {
		t.Error("attach failure must not abort later construction steps")
	}
	ops := rec.failedOps()
	if len(ops) != 1 || ops[0] != "Cameras_AttachAvailableCameras" {
		t.Errorf("expected one attach failure report, got %v", ops)
	}
}

func TestOpenStreamingModeFailureKeepsSessionUsable(t *testing.T) {
	fake := &fakeNative{
		cameras:  1,
		markers:  []fakeMarker{{name: "probe", pos: [3]float64{1, 2, 3}}},
		failMode: true,
	}
	sess, rec := openFake(t, fake)
	defer sess.Close()

	ops := rec.failedOps()
	if len(ops) != 1 || ops[0] != "Cameras_StreamingModeSet" {
		t.Fatalf("expected one streaming mode failure report, got %v", ops)
	}

	poses := sess.Poses(false)
	if len(poses) != 1 {
		t.Errorf("session must stay usable after mode failure, got %d poses", len(poses))
	}
}

func TestOpenCollectionFailureDisablesPipeline(t *testing.T) {
	fake := &fakeNative{
		cameras:     1,
		markers:     []fakeMarker{{name: "probe"}},
		failNewColl: true,
	}
	sess, rec := openFake(t, fake)
	defer sess.Close()

	if poses := sess.Poses(false); len(poses) != 0 {
		t.Errorf("expected empty poses without a collection, got %d", len(poses))
	}
	if fake.grabCalls != 0 {
		t.Error("pipeline must not run without a collection")
	}
	ops := rec.failedOps()
	if len(ops) != 1 || ops[0] != "Collection_New" {
		t.Errorf("expected one Collection_New report, got %v", ops)
	}
}

func TestCameraQueries(t *testing.T) {
	fake := &fakeNative{cameras: 2}
	sess, _ := openFake(t, fake)
	defer sess.Close()

	if serial, ok := sess.CameraSerial(); !ok || serial != 4217 {
		t.Errorf("expected serial 4217, got %d ok=%v", serial, ok)
	}
	if w, h, ok := sess.CameraResolution(); !ok || w != 2464 || h != 1536 {
		t.Errorf("expected 2464x1536, got %dx%d ok=%v", w, h, ok)
	}
	if count := sess.CameraCount(); count != 2 {
		t.Errorf("expected camera count 2, got %d", count)
	}
}

func TestCloseReleasesResourcesOnce(t *testing.T) {
	fake := &fakeNative{cameras: 1}
	sess, _ := openFake(t, fake)

	if err := sess.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := sess.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	if fake.freedCollections != 1 {
		t.Errorf("expected collection freed once, got %d", fake.freedCollections)
	}
	if fake.freedTransforms != 1 {
		t.Errorf("expected transform freed once, got %d", fake.freedTransforms)
	}
	if fake.detachCalls != 1 {
		t.Errorf("expected one detach, got %d", fake.detachCalls)
	}

	if poses := sess.Poses(true); len(poses) != 0 {
		t.Error("closed session must return empty poses")
	}
}

func TestCloseWithoutCameraStillDetaches(t *testing.T) {
	fake := &fakeNative{cameras: 0}
	sess, _ := openFake(t, fake)

	sess.Close()

	if fake.detachCalls != 1 {
		t.Errorf("expected one detach, got %d", fake.detachCalls)
	}
	if fake.freedCollections != 0 || fake.freedTransforms != 0 {
		t.Error("no resources were created, none should be freed")
	}
}

func TestWarmUpDiscardsFrames(t *testing.T) {
	fake := &fakeNative{
		cameras: 1,
		markers: []fakeMarker{{name: "probe"}},
	}
	sess, _ := openFake(t, fake)
	defer sess.Close()

	sess.WarmUp(10)

	if fake.grabCalls != 10 {
		t.Errorf("expected 10 warm-up grabs, got %d", fake.grabCalls)
	}
	if fake.rotCalls != 0 {
		t.Error("warm-up must not read rotations")
	}
}
