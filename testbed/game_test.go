package testbed

import (
	"testing"

	"github.com/spaghettifunk/modelview/engine/renderer/components"
)

func TestOrbitInputDrag(t *testing.T) {
	camera := components.NewCamera()
	orbitInput{dx: 10, dy: 5, orbit: true}.apply(camera)

	if camera.YawAngle != -10*orbitSpeed {
		t.Errorf("yaw = %f, want %f", camera.YawAngle, -10*orbitSpeed)
	}
	if camera.PitchAngle != 5*orbitSpeed {
		t.Errorf("pitch = %f, want %f", camera.PitchAngle, 5*orbitSpeed)
	}
}

func TestOrbitInputPanMovesTarget(t *testing.T) {
	camera := components.NewCamera()
	orbitInput{dx: 100, pan: true}.apply(camera)

	if camera.Target.Len() == 0 {
		t.Fatal("panning should move the target")
	}
	if camera.YawAngle != 0 || camera.PitchAngle != 0 {
		t.Error("panning should not rotate the camera")
	}
}

func TestOrbitInputIdleDoesNothing(t *testing.T) {
	camera := components.NewCamera()
	before := *camera
	// Movement without a held button is just the cursor passing by.
	orbitInput{dx: 40, dy: -12}.apply(camera)

	if camera.YawAngle != before.YawAngle || camera.Distance != before.Distance || camera.Target != before.Target {
		t.Errorf("camera changed without any button held: %+v", camera)
	}
}

func TestOrbitInputScrollZooms(t *testing.T) {
	camera := components.NewCamera()
	start := camera.Distance
	orbitInput{scroll: 1}.apply(camera)
	if camera.Distance >= start {
		t.Errorf("scrolling up should move closer: %f -> %f", start, camera.Distance)
	}
	orbitInput{scroll: -2}.apply(camera)
	if camera.Distance <= start*(1-zoomStep) {
		t.Errorf("scrolling down should move away: %f", camera.Distance)
	}
}

func TestOrbitInputKeys(t *testing.T) {
	camera := components.NewCamera()
	orbitInput{yaw: 0.25, pitch: -0.5}.apply(camera)
	if camera.YawAngle != 0.25 || camera.PitchAngle != -0.5 {
		t.Errorf("yaw/pitch = %f/%f", camera.YawAngle, camera.PitchAngle)
	}
}
