package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spaghettifunk/modelview/engine/systems"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadApplicationConfig(t *testing.T) {
	path := writeConfig(t, `
name = "viewer"
log_level = "debug"
clear_colour = [0.2, 0.3, 0.4, 1.0]

[window]
width = 800
height = 600

[model]
path = "models/backpack/backpack.obj"
gamma_correction = true
slot_mapping = "corrected"
`)

	config, err := LoadApplicationConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if config.Name != "viewer" || config.LogLevel != "debug" {
		t.Errorf("name/log level not decoded: %+v", config)
	}
	if config.Window.Width != 800 || config.Window.Height != 600 {
		t.Errorf("window size = %dx%d", config.Window.Width, config.Window.Height)
	}
	// Keys absent from the file keep their defaults.
	if config.Window.X != 100 || !config.Window.VSync {
		t.Errorf("window defaults lost: %+v", config.Window)
	}
	if config.Shader.Vertex != "shaders/model.vert" {
		t.Errorf("shader default lost: %q", config.Shader.Vertex)
	}
	if !config.Model.GammaCorrection || config.Model.Path != "models/backpack/backpack.obj" {
		t.Errorf("model section = %+v", config.Model)
	}
	if got := config.SystemManagerConfig().SlotMapping; got != systems.SlotMappingCorrected {
		t.Errorf("slot mapping = %s", got)
	}
	if got := config.ClearColourVec(); got.Y() != 0.3 {
		t.Errorf("clear colour = %v", got)
	}
}

func TestLoadApplicationConfigRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
[window]
widht = 800
`)
	_, err := LoadApplicationConfig(path)
	if err == nil {
		t.Fatal("expected an error for an unknown key")
	}
	if !strings.Contains(err.Error(), "widht") {
		t.Errorf("error should name the offending key: %s", err)
	}
}

func TestLoadApplicationConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero width", "[window]\nwidth = 0\n"},
		{"bad slot mapping", "[model]\nslot_mapping = \"swapped\"\n"},
		{"missing fragment", "[shader]\nfragment = \"\"\n"},
		{"not toml", "name = \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadApplicationConfig(writeConfig(t, tt.content)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadApplicationConfigMissingFile(t *testing.T) {
	if _, err := LoadApplicationConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestDefaultApplicationConfigIsValid(t *testing.T) {
	if err := DefaultApplicationConfig().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestAssetPath(t *testing.T) {
	config := DefaultApplicationConfig()
	config.Assets.Dir = "assets"
	abs, _ := filepath.Abs("model.obj")

	tests := map[string]string{
		"":                   "",
		"shaders/model.vert": filepath.Join("assets", "shaders", "model.vert"),
		abs:                  abs,
	}
	for in, want := range tests {
		if got := config.AssetPath(in); got != want {
			t.Errorf("AssetPath(%q) = %q, want %q", in, got, want)
		}
	}

	config.Assets.Dir = ""
	if got := config.AssetPath("model.obj"); got != "model.obj" {
		t.Errorf("AssetPath without dir = %q", got)
	}
}
