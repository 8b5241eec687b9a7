package systems

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/modelview/engine/core"
)

func TestTextureSystemReferenceCounting(t *testing.T) {
	f := newFixture(t, nil, SlotMappingLegacy)
	ts := f.systems.TextureSystem

	tex, err := ts.Load("wood.png", nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if tex.Reference.ReferenceCount != 1 || tex.Generation != 1 {
		t.Fatalf("unexpected texture %+v", tex)
	}
	ts.Acquire(tex)
	if ts.Release(tex) {
		t.Error("texture destroyed while still referenced")
	}
	if !ts.Release(tex) {
		t.Error("last release should destroy the texture")
	}
	if !f.backend.Textures[tex.ID].Destroyed || ts.Count() != 0 {
		t.Error("texture should be gone")
	}
	if ts.Release(tex) {
		t.Error("releasing a dead texture should do nothing")
	}
}

func TestTextureSystemKeepsFailedTextures(t *testing.T) {
	f := newFixture(t, nil, SlotMappingLegacy)
	f.images.broken["bad.png"] = true
	ts := f.systems.TextureSystem

	tex, err := ts.Load("bad.png", nil, false)
	if !errors.Is(err, core.ErrImageDecode) {
		t.Errorf("expected ErrImageDecode, got %v", err)
	}
	if tex == nil || tex.Generation != 0 {
		t.Fatal("a failed load still returns the allocated texture")
	}
	if f.backend.Textures[tex.ID].Uploads != 0 {
		t.Error("nothing should be uploaded")
	}
	if err := ts.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if f.backend.LiveTextures() != 0 {
		t.Error("shutdown should destroy every texture")
	}
}

func TestTextureSystemLimit(t *testing.T) {
	f := newFixture(t, nil, SlotMappingLegacy)
	ts := f.systems.TextureSystem
	ts.Config.MaxTextureCount = 1

	if _, err := ts.Load("one.png", nil, false); err != nil {
		t.Fatal(err)
	}
	tex, err := ts.Load("two.png", nil, false)
	if err == nil || tex != nil {
		t.Error("loading past the limit should fail")
	}
}

func TestTextureSystemBind(t *testing.T) {
	f := newFixture(t, nil, SlotMappingLegacy)
	ts := f.systems.TextureSystem
	tex, _ := ts.Load("wood.png", nil, false)

	ts.Bind(3, tex)
	if f.backend.ActiveUnit != 3 || f.backend.Units[3] != tex.ID {
		t.Errorf("unit 3 = %d", f.backend.Units[3])
	}
}

func TestCameraSystem(t *testing.T) {
	cs, err := NewCameraSystem(&CameraSystemConfig{MaxCameraCount: 1})
	if err != nil {
		t.Fatal(err)
	}
	if cam, _ := cs.Acquire(DEFAULT_CAMERA_NAME); cam != cs.GetDefault() {
		t.Error("default name should return the default camera")
	}
	a, err := cs.Acquire("orbit")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := cs.Acquire("orbit")
	if a != b {
		t.Error("same name should return the same camera")
	}
	if _, err := cs.Acquire("second"); err == nil {
		t.Error("expected the camera limit to be enforced")
	}
	cs.Release("orbit")
	cs.Release("orbit")
	if _, ok := cs.Lookup["orbit"]; ok {
		t.Error("camera should be forgotten after the last release")
	}
	if _, err := NewCameraSystem(&CameraSystemConfig{}); err == nil {
		t.Error("zero cameras should be rejected")
	}
}
