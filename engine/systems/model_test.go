package systems

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/modelview/engine/assets"
	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/spaghettifunk/modelview/engine/renderer/metadata"
	"github.com/spaghettifunk/modelview/engine/renderer/rendertest"
	"github.com/spaghettifunk/modelview/engine/resources"
)

func TestModelLoadUploadsEachPathOnce(t *testing.T) {
	f := newFixture(t, testScene(), SlotMappingLegacy)

	model, diag := f.systems.ModelSystem.Load("models/thing/scene.obj", false)
	if !diag.OK() {
		t.Fatalf("unexpected diagnostics: %v", diag.Err())
	}
	if len(model.Meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(model.Meshes))
	}
	// a.png, b.png, bump.png, ambient.png
	if got := f.backend.UploadedTextures(); got != 4 {
		t.Errorf("uploaded %d textures, want 4", got)
	}
	if len(model.TexturesLoaded) != 4 {
		t.Errorf("TexturesLoaded has %d entries, want 4", len(model.TexturesLoaded))
	}
	if len(f.images.paths) != 4 {
		t.Errorf("decoded %d images, want 4: %v", len(f.images.paths), f.images.paths)
	}
}

func TestModelLoadSharesHandlesForRepeatedPaths(t *testing.T) {
	f := newFixture(t, testScene(), SlotMappingLegacy)
	model, _ := f.systems.ModelSystem.Load("models/thing/scene.obj", false)

	first := model.Meshes[0].Textures[0]
	if first.Path != "a.png" || first.Type != metadata.TextureTypeDiffuse {
		t.Fatalf("unexpected first texture %+v", first)
	}
	second := model.Meshes[1].Textures
	if len(second) != 2 {
		t.Fatalf("expected 2 textures on the second mesh, got %d", len(second))
	}
	for _, tex := range second {
		if tex.ID != first.ID {
			t.Errorf("%s uses handle %d, want shared handle %d", tex.Type, tex.ID, first.ID)
		}
		if tex.Reference != first.Reference {
			t.Errorf("shared textures should share their reference")
		}
	}
	// The reused handle takes the slot it was requested for.
	if second[1].Type != metadata.TextureTypeSpecular {
		t.Errorf("second texture type = %s, want specular", second[1].Type)
	}
	if first.Reference.ReferenceCount != 3 {
		t.Errorf("reference count = %d, want 3", first.Reference.ReferenceCount)
	}
}

func TestModelLoadVertexAttributes(t *testing.T) {
	f := newFixture(t, testScene(), SlotMappingLegacy)
	model, _ := f.systems.ModelSystem.Load("scene.obj", false)

	textured := model.Meshes[0]
	v := textured.Vertices[1]
	if v.Position != (mgl32.Vec3{1, 0, 0}) || v.Normal != (mgl32.Vec3{0, 0, 1}) {
		t.Errorf("unexpected vertex %+v", v)
	}
	if v.TexCoords != (mgl32.Vec2{1, 0}) || v.Tangent != (mgl32.Vec3{1, 0, 0}) || v.Bitangent != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("texture space not copied: %+v", v)
	}

	// No normals and no texture coordinates.
	bare := model.Meshes[1]
	if len(bare.Vertices) != 4 {
		t.Fatalf("expected 4 vertices, got %d", len(bare.Vertices))
	}
	for i, v := range bare.Vertices {
		if v.TexCoords != (mgl32.Vec2{0, 0}) {
			t.Errorf("vertex %d: texcoords %v, want zero", i, v.TexCoords)
		}
		if v.Normal != (mgl32.Vec3{}) || v.Tangent != (mgl32.Vec3{}) || v.Bitangent != (mgl32.Vec3{}) {
			t.Errorf("vertex %d: attributes should be zero: %+v", i, v)
		}
	}
}

func TestModelLoadIndicesAreTriangles(t *testing.T) {
	scene := testScene()
	// A stray line and a face pointing past the vertex list.
	scene.Meshes[1].Faces = append(scene.Meshes[1].Faces, []uint32{0, 1}, []uint32{0, 1, 9})
	f := newFixture(t, scene, SlotMappingLegacy)

	model, diag := f.systems.ModelSystem.Load("scene.obj", false)
	if diag.Status() != core.StatusDegraded {
		t.Errorf("status = %s, want degraded", diag.Status())
	}
	for _, mesh := range model.Meshes {
		if len(mesh.Indices)%3 != 0 {
			t.Errorf("mesh %s: %d indices", mesh.Name, len(mesh.Indices))
		}
		for _, index := range mesh.Indices {
			if int(index) >= len(mesh.Vertices) {
				t.Errorf("mesh %s: index %d out of range", mesh.Name, index)
			}
		}
	}
	if len(model.Meshes[1].Indices) != 6 {
		t.Errorf("expected the two valid triangles, got %d indices", len(model.Meshes[1].Indices))
	}
}

func TestModelLoadTraversalOrder(t *testing.T) {
	scene := testScene()
	third := &resources.Mesh{Name: "third", Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, Faces: [][]uint32{{0, 1, 2}}}
	scene.Meshes = append(scene.Meshes, third)
	// root: [0], children: child [1] then sibling [2]
	scene.Root.Children = append(scene.Root.Children, &resources.Node{Name: "sibling", Meshes: []int{2}})
	// a mesh on a grandchild comes before the sibling
	scene.Root.Children[0].Children = []*resources.Node{{Name: "grandchild", Meshes: []int{0}}}
	f := newFixture(t, scene, SlotMappingLegacy)

	model, _ := f.systems.ModelSystem.Load("scene.obj", false)
	var names []string
	for _, m := range model.Meshes {
		names = append(names, m.Name)
	}
	want := []string{"textured", "bare", "textured", "third"}
	if len(names) != len(want) {
		t.Fatalf("meshes = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("meshes = %v, want %v", names, want)
		}
	}
}

func TestModelLoadResolvesTexturePaths(t *testing.T) {
	tests := []struct {
		path      string
		directory string
		texture   string
	}{
		{"models/thing/scene.obj", "models/thing", "models/thing/a.png"},
		{`C:\models\scene.obj`, `C:\models`, `C:\models/a.png`},
		{"scene.obj", "", "a.png"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			f := newFixture(t, testScene(), SlotMappingLegacy)
			model, _ := f.systems.ModelSystem.Load(tt.path, false)
			if model.Directory != tt.directory {
				t.Errorf("directory = %q, want %q", model.Directory, tt.directory)
			}
			if len(f.images.paths) == 0 || f.images.paths[0] != tt.texture {
				t.Errorf("first texture path = %v, want %q", f.images.paths, tt.texture)
			}
		})
	}
}

func TestModelLoadFailureReturnsEmptyModel(t *testing.T) {
	f := newFixture(t, nil, SlotMappingLegacy)
	f.scenes.err = core.ErrSceneImport

	model, diag := f.systems.ModelSystem.Load("model.obj", false)
	if model == nil {
		t.Fatal("model must never be nil")
	}
	if len(model.Meshes) != 0 {
		t.Errorf("expected no meshes, got %d", len(model.Meshes))
	}
	if model.Directory != "" {
		t.Errorf("directory = %q, want empty", model.Directory)
	}
	if diag.Status() != core.StatusFailed || !errors.Is(diag.Err(), core.ErrSceneImport) {
		t.Errorf("unexpected diagnostics %s: %v", diag.Status(), diag.Err())
	}
	if n := len(f.systems.ModelSystem.Models); n != 0 {
		t.Errorf("failed load registered %d models", n)
	}
	model.Draw(nil)
	model.Release()
}

func TestModelLoadIncompleteScene(t *testing.T) {
	tests := map[string]*resources.Scene{
		"nil scene": nil,
		"flagged":   {Flags: resources.SceneFlagsIncomplete, Root: &resources.Node{}},
		"no root":   {Meshes: testScene().Meshes},
	}
	for name, scene := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, scene, SlotMappingLegacy)
			model, diag := f.systems.ModelSystem.Load("scene.obj", false)
			if len(model.Meshes) != 0 {
				t.Errorf("expected no meshes")
			}
			if !errors.Is(diag.Err(), core.ErrSceneIncomplete) {
				t.Errorf("expected ErrSceneIncomplete, got %v", diag.Err())
			}
			if n := len(f.systems.ModelSystem.Models); n != 0 {
				t.Errorf("incomplete scene registered %d models", n)
			}
		})
	}
}

func TestModelLoadUnreadableFile(t *testing.T) {
	// The real importer registry, not the scene stub.
	am := assets.NewAssetManager()
	defer am.Shutdown()
	sm, err := NewSystemManager(nil, am, rendertest.New())
	if err != nil {
		t.Fatal(err)
	}
	defer sm.Shutdown()

	path := filepath.Join(t.TempDir(), "missing", "model.gltf")
	model, diag := sm.ModelSystem.Load(path, false)
	if len(model.Meshes) != 0 {
		t.Errorf("expected no meshes")
	}
	if model.Directory != filepath.Dir(path) {
		t.Errorf("directory = %q", model.Directory)
	}
	if diag.Status() != core.StatusFailed || !errors.Is(diag.Err(), core.ErrSceneImport) {
		t.Errorf("unexpected diagnostics %s: %v", diag.Status(), diag.Err())
	}
}

func TestModelLoadSlotMappings(t *testing.T) {
	tests := []struct {
		mapping SlotMapping
		normal  string
		height  string
	}{
		{SlotMappingLegacy, "bump.png", "ambient.png"},
		{SlotMappingCorrected, "normal.png", "bump.png"},
	}
	for _, tt := range tests {
		t.Run(tt.mapping.String(), func(t *testing.T) {
			f := newFixture(t, testScene(), tt.mapping)
			model, _ := f.systems.ModelSystem.Load("scene.obj", false)

			got := map[metadata.TextureType]string{}
			for _, tex := range model.Meshes[0].Textures {
				got[tex.Type] = tex.Path
			}
			want := map[metadata.TextureType]string{
				metadata.TextureTypeDiffuse:  "a.png",
				metadata.TextureTypeSpecular: "b.png",
				metadata.TextureTypeNormal:   tt.normal,
				metadata.TextureTypeHeight:   tt.height,
			}
			for slot, path := range want {
				if got[slot] != path {
					t.Errorf("%s = %q, want %q", slot, got[slot], path)
				}
			}
		})
	}
}

func TestModelLoadTextureFailures(t *testing.T) {
	f := newFixture(t, testScene(), SlotMappingLegacy)
	f.images.broken["b.png"] = true
	f.images.channels["bump.png"] = 2

	model, diag := f.systems.ModelSystem.Load("scene.obj", false)
	if diag.Status() != core.StatusDegraded {
		t.Fatalf("status = %s, want degraded", diag.Status())
	}
	if !errors.Is(diag.Err(), core.ErrImageDecode) || !errors.Is(diag.Err(), core.ErrUnsupportedChannels) {
		t.Errorf("unexpected errors: %v", diag.Err())
	}
	// Both failing textures stay allocated but hold no pixels.
	if len(model.Meshes[0].Textures) != 4 {
		t.Fatalf("expected 4 textures, got %d", len(model.Meshes[0].Textures))
	}
	for _, tex := range model.Meshes[0].Textures {
		uploads := f.backend.Textures[tex.ID].Uploads
		broken := tex.Path == "b.png" || tex.Path == "bump.png"
		if broken && uploads != 0 {
			t.Errorf("%s should not be uploaded", tex.Path)
		}
		if !broken && uploads != 1 {
			t.Errorf("%s uploaded %d times", tex.Path, uploads)
		}
	}
}

func TestModelLoadGammaCorrection(t *testing.T) {
	for _, gamma := range []bool{false, true} {
		f := newFixture(t, testScene(), SlotMappingLegacy)
		f.images.channels["a.png"] = 4
		f.images.channels["b.png"] = 1

		model, _ := f.systems.ModelSystem.Load("scene.obj", gamma)
		configs := map[string]*metadata.TextureConfig{}
		for _, tex := range model.TexturesLoaded {
			configs[tex.Path] = f.backend.Textures[tex.ID].Config
		}

		wantRGBA, wantRGB := metadata.TextureFormatRGBA, metadata.TextureFormatRGB
		if gamma {
			wantRGBA, wantRGB = metadata.TextureFormatSRGBAlpha, metadata.TextureFormatSRGB
		}
		if configs["a.png"].InternalFormat != wantRGBA || configs["a.png"].Format != metadata.TextureFormatRGBA {
			t.Errorf("gamma=%v: a.png formats %s/%s", gamma, configs["a.png"].InternalFormat, configs["a.png"].Format)
		}
		if configs["bump.png"].InternalFormat != wantRGB {
			t.Errorf("gamma=%v: bump.png internal format %s", gamma, configs["bump.png"].InternalFormat)
		}
		// Single channel data is never treated as colour.
		if configs["b.png"].InternalFormat != metadata.TextureFormatRed {
			t.Errorf("gamma=%v: b.png internal format %s", gamma, configs["b.png"].InternalFormat)
		}
		sampler := configs["a.png"].Sampler
		if sampler != metadata.DefaultTextureSampler() {
			t.Errorf("unexpected sampler %+v", sampler)
		}
	}
}

func TestModelLoadEmbeddedTextures(t *testing.T) {
	scene := testScene()
	scene.Textures = []*resources.EmbeddedTexture{{FormatHint: "png", Data: []byte{1, 2, 3}}}
	scene.Materials[1].AddTexture(resources.TextureKindDiffuse, "*0")
	f := newFixture(t, scene, SlotMappingLegacy)

	model, _ := f.systems.ModelSystem.Load("models/scene.gltf", false)
	found := false
	for _, tex := range model.Meshes[1].Textures {
		if tex.Path == "*0" {
			found = true
		}
	}
	if !found {
		t.Fatal("embedded texture not attached")
	}
	// Embedded textures are not resolved against the model directory.
	last := f.images.paths[len(f.images.paths)-1]
	if last != "*0" {
		t.Errorf("embedded texture loaded as %q", last)
	}
}

func TestModelReleaseDestroysTextures(t *testing.T) {
	f := newFixture(t, testScene(), SlotMappingLegacy)
	model, _ := f.systems.ModelSystem.Load("scene.obj", false)
	if f.backend.LiveTextures() != 4 || len(f.backend.Geometries) != 2 {
		t.Fatalf("expected 4 textures and 2 geometries before release")
	}

	f.systems.ModelSystem.Unload(model)
	if f.backend.LiveTextures() != 0 {
		t.Errorf("%d textures still alive", f.backend.LiveTextures())
	}
	if len(f.backend.Geometries) != 0 {
		t.Errorf("%d geometries still alive", len(f.backend.Geometries))
	}
	if f.systems.TextureSystem.Count() != 0 {
		t.Errorf("texture system still tracks %d textures", f.systems.TextureSystem.Count())
	}
}

func TestModelDrawBindsSamplers(t *testing.T) {
	f := newFixture(t, testScene(), SlotMappingLegacy)
	dir := t.TempDir()
	shader, diag := NewShader(f.backend, f.assets,
		writeShader(t, dir, "model.vert", vertexSource),
		writeShader(t, dir, "model.frag", fragmentSource))
	if !diag.OK() {
		t.Fatalf("shader failed: %v", diag.Err())
	}
	model, _ := f.systems.ModelSystem.Load("scene.obj", false)

	shader.Use()
	model.Draw(shader)

	if len(f.backend.Draws) != 2 {
		t.Fatalf("expected 2 draws, got %d", len(f.backend.Draws))
	}
	if f.backend.ActiveUnit != 0 {
		t.Errorf("active unit = %d, want 0", f.backend.ActiveUnit)
	}
	first := f.backend.Draws[0]
	textures := model.Meshes[0].Textures
	for unit, tex := range textures {
		if first.Units[uint32(unit)] != tex.ID {
			t.Errorf("unit %d bound to %d, want %d", unit, first.Units[uint32(unit)], tex.ID)
		}
	}
	if first.IndexCount != 3 {
		t.Errorf("index count = %d", first.IndexCount)
	}

	// The second mesh binds a.png as texture_diffuse1 (unit 0) and
	// texture_specular1 (unit 1).
	if v, _ := f.backend.UniformValue(shader.ID, "texture_diffuse1"); v != int32(0) {
		t.Errorf("texture_diffuse1 = %v", v)
	}
	if v, _ := f.backend.UniformValue(shader.ID, "texture_specular1"); v != int32(1) {
		t.Errorf("texture_specular1 = %v", v)
	}
	if v, _ := f.backend.UniformValue(shader.ID, "texture_normal1"); v != int32(2) {
		t.Errorf("texture_normal1 = %v", v)
	}
}

func TestModelExtentsAndCounts(t *testing.T) {
	f := newFixture(t, testScene(), SlotMappingLegacy)
	model, _ := f.systems.ModelSystem.Load(filepath.Join("a", "scene.obj"), false)

	if model.VertexCount() != 7 || model.IndexCount() != 9 {
		t.Errorf("counts = %d/%d", model.VertexCount(), model.IndexCount())
	}
	ext := model.Extents()
	if ext.Min != (mgl32.Vec3{0, 0, 0}) || ext.Max != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("extents = %+v", ext)
	}
}

func TestDirectory(t *testing.T) {
	tests := map[string]string{
		"a/b/c.obj": "a/b",
		`a\b\c.obj`: `a\b`,
		`a/b\c.obj`: "a/b",
		"c.obj":     "",
		"/c.obj":    "",
		"models/x/": "models/x",
		"":          "",
	}
	for path, want := range tests {
		if got := Directory(path); got != want {
			t.Errorf("Directory(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestParseSlotMapping(t *testing.T) {
	for in, want := range map[string]SlotMapping{"": SlotMappingLegacy, "legacy": SlotMappingLegacy, "Corrected": SlotMappingCorrected} {
		got, err := ParseSlotMapping(in)
		if err != nil || got != want {
			t.Errorf("ParseSlotMapping(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseSlotMapping("ambient"); err == nil {
		t.Error("expected an error")
	}
}

func TestModelSystemTracksLoadedModels(t *testing.T) {
	f := newFixture(t, testScene(), SlotMappingLegacy)

	model, diag := f.systems.ModelSystem.Load("models/thing/scene.obj", false)
	if !diag.OK() {
		t.Fatalf("unexpected diagnostics: %v", diag.Err())
	}
	if got, ok := f.systems.ModelSystem.Models[model.ID]; !ok || got != model {
		t.Fatal("loaded model should be registered")
	}

	f.systems.ModelSystem.Unload(model)
	if n := len(f.systems.ModelSystem.Models); n != 0 {
		t.Errorf("%d models left after unload", n)
	}
}
