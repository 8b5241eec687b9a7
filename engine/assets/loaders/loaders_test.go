package loaders

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/spaghettifunk/modelview/engine/renderer/metadata"
	"github.com/spaghettifunk/modelview/engine/resources"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestImageLoaderChannels(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 1))
	gray.SetGray(1, 0, color.Gray{Y: 200})

	opaque := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	opaque.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	translucent := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	translucent.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 40})

	tests := []struct {
		name     string
		img      image.Image
		channels uint8
		pixels   []uint8
	}{
		{"gray", gray, 1, []uint8{0, 200}},
		{"opaque", opaque, 3, []uint8{10, 20, 30}},
		{"translucent", translucent, 4, []uint8{10, 20, 30, 40}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := &metadata.ImageResourceParams{Source: encodePNG(t, tt.img)}
			res, err := (&ImageLoader{}).Load("*0", metadata.ResourceTypeImage, params)
			if err != nil {
				t.Fatalf("load failed: %s", err)
			}
			data := res.Data.(*metadata.ImageResourceData)
			if data.ChannelCount != tt.channels {
				t.Errorf("channels = %d, want %d", data.ChannelCount, tt.channels)
			}
			if !bytes.Equal(data.Pixels, tt.pixels) {
				t.Errorf("pixels = %v, want %v", data.Pixels, tt.pixels)
			}
		})
	}
}

func TestImageLoaderFlipAndFile(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 1, 2))
	img.SetGray(0, 0, color.Gray{Y: 1})
	img.SetGray(0, 1, color.Gray{Y: 2})
	path := filepath.Join(t.TempDir(), "column.png")
	if err := os.WriteFile(path, encodePNG(t, img), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := (&ImageLoader{}).Load(path, metadata.ResourceTypeImage, &metadata.ImageResourceParams{FlipY: true})
	if err != nil {
		t.Fatalf("load failed: %s", err)
	}
	data := res.Data.(*metadata.ImageResourceData)
	if data.Width != 1 || data.Height != 2 {
		t.Errorf("size = %dx%d", data.Width, data.Height)
	}
	if !bytes.Equal(data.Pixels, []uint8{2, 1}) {
		t.Errorf("rows not flipped: %v", data.Pixels)
	}
}

func TestImageLoaderErrors(t *testing.T) {
	_, err := (&ImageLoader{}).Load(filepath.Join(t.TempDir(), "missing.png"), metadata.ResourceTypeImage, nil)
	if !errors.Is(err, core.ErrImageDecode) {
		t.Errorf("missing file: got %v", err)
	}
	params := &metadata.ImageResourceParams{Source: []byte("not an image")}
	_, err = (&ImageLoader{}).Load("*1", metadata.ResourceTypeImage, params)
	if !errors.Is(err, core.ErrImageDecode) {
		t.Errorf("garbage data: got %v", err)
	}
}

func TestTextLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "basic.vert")
	if err := os.WriteFile(path, []byte("void main() {}"), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := (&TextLoader{}).Load(path, metadata.ResourceTypeShader, nil)
	if err != nil {
		t.Fatalf("load failed: %s", err)
	}
	if res.Data.(string) != "void main() {}" {
		t.Errorf("unexpected source %q", res.Data)
	}

	res, err = (&TextLoader{}).Load(path+".missing", metadata.ResourceTypeShader, nil)
	if !errors.Is(err, core.ErrShaderRead) {
		t.Errorf("expected ErrShaderRead, got %v", err)
	}
	if res == nil || res.Data.(string) != "" {
		t.Errorf("a failed read should still return empty content")
	}
}

func TestBinaryLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.bin")
	if err := os.WriteFile(path, []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}
	bl := &BinaryLoader{}
	res, err := bl.Load(path, metadata.ResourceTypeBinary, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.DataSize != 3 || !bytes.Equal(res.Data.([]byte), []byte{1, 2, 3}) {
		t.Errorf("unexpected resource %+v", res)
	}
	if err := bl.Unload(res); err != nil || res.Data != nil {
		t.Errorf("unload should drop the data")
	}
}

func TestMaterialLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.mtl")
	if err := os.WriteFile(path, []byte("newmtl wood\nmap_Kd wood.jpg\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := (&MaterialLoader{}).Load(path, metadata.ResourceTypeMaterial, nil)
	if err != nil {
		t.Fatal(err)
	}
	materials := res.Data.(map[string]*resources.Material)
	if p, _ := materials["wood"].Texture(resources.TextureKindDiffuse, 0); p != "wood.jpg" {
		t.Errorf("diffuse = %q", p)
	}
}

func TestModelLoader(t *testing.T) {
	obj := "o tri\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	path := filepath.Join(t.TempDir(), "tri.obj")
	if err := os.WriteFile(path, []byte(obj), 0o644); err != nil {
		t.Fatal(err)
	}
	ml := NewModelLoader()
	res, err := ml.Load(path, metadata.ResourceTypeModel, &ModelResourceParams{})
	if err != nil {
		t.Fatalf("load failed: %s", err)
	}
	scene := res.Data.(*resources.Scene)
	if len(scene.Meshes) != 1 || !scene.Meshes[0].HasNormals() {
		t.Errorf("expected one post-processed mesh")
	}

	if _, err := ml.Load(filepath.Join(t.TempDir(), "x.fbx"), metadata.ResourceTypeModel, nil); !errors.Is(err, core.ErrNoImporter) {
		t.Errorf("expected ErrNoImporter, got %v", err)
	}
}
