package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/modelview/engine/systems"
)

type WindowConfig struct {
	// Window starting position x axis, if applicable.
	X uint32 `toml:"x"`
	// Window starting position y axis, if applicable.
	Y uint32 `toml:"y"`
	// Window starting width, if applicable.
	Width uint32 `toml:"width"`
	// Window starting height, if applicable.
	Height uint32 `toml:"height"`
	VSync  bool   `toml:"vsync"`
}

type AssetsConfig struct {
	// Root directory for relative model and shader paths.
	Dir string `toml:"dir"`
	// Rebuild shaders when their sources change on disk.
	HotReload bool `toml:"hot_reload"`
}

type ModelConfig struct {
	Path            string `toml:"path"`
	GammaCorrection bool   `toml:"gamma_correction"`
	// "legacy" or "corrected".
	SlotMapping string `toml:"slot_mapping"`
}

type ShaderFilesConfig struct {
	Vertex   string `toml:"vertex"`
	Fragment string `toml:"fragment"`
}

type ApplicationConfig struct {
	// The application name used in windowing, if applicable.
	Name        string            `toml:"name"`
	LogLevel    string            `toml:"log_level"`
	Window      WindowConfig      `toml:"window"`
	Assets      AssetsConfig      `toml:"assets"`
	Model       ModelConfig       `toml:"model"`
	Shader      ShaderFilesConfig `toml:"shader"`
	ClearColour [4]float32        `toml:"clear_colour"`
}

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Name:     "modelview",
		LogLevel: "info",
		Window: WindowConfig{
			X:      100,
			Y:      100,
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Assets: AssetsConfig{
			Dir:       "assets",
			HotReload: true,
		},
		Model: ModelConfig{
			SlotMapping: systems.SlotMappingLegacy.String(),
		},
		Shader: ShaderFilesConfig{
			Vertex:   "shaders/model.vert",
			Fragment: "shaders/model.frag",
		},
		ClearColour: [4]float32{0.1, 0.1, 0.12, 1.0},
	}
}

// LoadApplicationConfig reads a TOML file on top of the defaults. Keys the
// config does not know about are rejected.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config %s: %w", path, err)
	}
	defer f.Close()

	config := DefaultApplicationConfig()
	decoder := toml.NewDecoder(f).DisallowUnknownFields()
	if err := decoder.Decode(config); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("config %s: %s", path, strict.String())
		}
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return config, nil
}

func (c *ApplicationConfig) Validate() error {
	if c.Window.Width == 0 || c.Window.Height == 0 {
		return fmt.Errorf("window size must be non-zero, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if _, err := systems.ParseSlotMapping(c.Model.SlotMapping); err != nil {
		return err
	}
	if c.Shader.Vertex == "" || c.Shader.Fragment == "" {
		return fmt.Errorf("shader.vertex and shader.fragment are required")
	}
	return nil
}

// SystemManagerConfig derives the resource system limits from the config.
func (c *ApplicationConfig) SystemManagerConfig() *systems.SystemManagerConfig {
	config := systems.DefaultSystemManagerConfig()
	if mapping, err := systems.ParseSlotMapping(c.Model.SlotMapping); err == nil {
		config.SlotMapping = mapping
	}
	return config
}

func (c *ApplicationConfig) ClearColourVec() mgl32.Vec4 {
	return mgl32.Vec4(c.ClearColour)
}

// AssetPath resolves a config path against the assets directory. Absolute
// paths are returned unchanged.
func (c *ApplicationConfig) AssetPath(path string) string {
	if path == "" || c.Assets.Dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Assets.Dir, path)
}
