package systems

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/modelview/engine/assets"
	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/spaghettifunk/modelview/engine/renderer/metadata"
	"github.com/spaghettifunk/modelview/engine/renderer/rendertest"
	"github.com/spaghettifunk/modelview/engine/resources"
)

func TestMain(m *testing.M) {
	core.SetLogOutput(io.Discard)
	os.Exit(m.Run())
}

// sceneLoader hands out a prepared scene instead of importing a file.
type sceneLoader struct {
	scene *resources.Scene
	err   error
	paths []string
}

func (l *sceneLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	l.paths = append(l.paths, path)
	if l.err != nil {
		return nil, l.err
	}
	return &metadata.Resource{FullPath: path, Data: l.scene}, nil
}

func (l *sceneLoader) Unload(*metadata.Resource) error { return nil }

// imageLoader fakes decoding: every path yields a 2x2 image with the
// configured channel count, or fails if listed in broken.
type imageLoader struct {
	channels map[string]uint8
	broken   map[string]bool
	paths    []string
}

func (l *imageLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	l.paths = append(l.paths, path)
	if l.broken[path] {
		return nil, fmt.Errorf("%w: %s: bad header", core.ErrImageDecode, path)
	}
	channels := uint8(3)
	if c, ok := l.channels[path]; ok {
		channels = c
	}
	return &metadata.Resource{
		FullPath: path,
		Data: &metadata.ImageResourceData{
			ChannelCount: channels,
			Width:        2,
			Height:       2,
			Pixels:       make([]uint8, 4*int(channels)),
		},
	}, nil
}

func (l *imageLoader) Unload(*metadata.Resource) error { return nil }

type fixture struct {
	backend *rendertest.Backend
	assets  *assets.AssetManager
	systems *SystemManager
	scenes  *sceneLoader
	images  *imageLoader
}

func newFixture(t *testing.T, scene *resources.Scene, mapping SlotMapping) *fixture {
	t.Helper()
	f := &fixture{
		backend: rendertest.New(),
		assets:  assets.NewAssetManager(),
		scenes:  &sceneLoader{scene: scene},
		images:  &imageLoader{channels: map[string]uint8{}, broken: map[string]bool{}},
	}
	f.assets.RegisterLoader(metadata.ResourceTypeModel, f.scenes)
	f.assets.RegisterLoader(metadata.ResourceTypeImage, f.images)

	config := DefaultSystemManagerConfig()
	config.SlotMapping = mapping
	sm, err := NewSystemManager(config, f.assets, f.backend)
	if err != nil {
		t.Fatal(err)
	}
	f.systems = sm
	t.Cleanup(func() {
		sm.Shutdown()
		f.assets.Shutdown()
	})
	return f
}

// testScene has a textured triangle at the root and an untextured one,
// without normals, in a child node. Both materials use a.png.
func testScene() *resources.Scene {
	textured := &resources.Mesh{
		Name:       "textured",
		Positions:  []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Normals:    []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		Tangents:   []mgl32.Vec3{{1, 0, 0}, {1, 0, 0}, {1, 0, 0}},
		Bitangents: []mgl32.Vec3{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}},
		Faces:      [][]uint32{{0, 1, 2}},
	}
	textured.TexCoords[0] = []mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}}

	bare := &resources.Mesh{
		Name:          "bare",
		Positions:     []mgl32.Vec3{{0, 0, 1}, {1, 0, 1}, {0, 1, 1}, {1, 1, 1}},
		Faces:         [][]uint32{{0, 1, 2}, {2, 1, 3}},
		MaterialIndex: 1,
	}

	painted := resources.NewMaterial("painted")
	painted.AddTexture(resources.TextureKindDiffuse, "a.png")
	painted.AddTexture(resources.TextureKindSpecular, "b.png")
	painted.AddTexture(resources.TextureKindHeight, "bump.png")
	painted.AddTexture(resources.TextureKindAmbient, "ambient.png")
	painted.AddTexture(resources.TextureKindNormals, "normal.png")

	reused := resources.NewMaterial("reused")
	reused.AddTexture(resources.TextureKindDiffuse, "a.png")
	reused.AddTexture(resources.TextureKindSpecular, "a.png")

	return &resources.Scene{
		Root: &resources.Node{
			Name:     "root",
			Meshes:   []int{0},
			Children: []*resources.Node{{Name: "child", Meshes: []int{1}}},
		},
		Meshes:    []*resources.Mesh{textured, bare},
		Materials: []*resources.Material{painted, reused},
	}
}

func writeShader(t *testing.T, dir, name, source string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const vertexSource = `#version 410 core
layout (location = 0) in vec3 aPos;
uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;
void main() { gl_Position = projection * view * model * vec4(aPos, 1.0); }
`

const fragmentSource = `#version 410 core
out vec4 FragColor;
uniform sampler2D texture_diffuse1;
uniform sampler2D texture_diffuse2;
uniform sampler2D texture_specular1;
uniform sampler2D texture_normal1;
uniform sampler2D texture_height1;
uniform bool useTexture;
uniform float shininess;
uniform vec2 uvScale;
uniform vec3 lightColour;
uniform vec4 tint;
uniform mat2 uvRotation;
uniform mat3 normalMatrix;
void main() { FragColor = vec4(1.0); }
`
