package systems

import (
	"github.com/spaghettifunk/modelview/engine/assets"
	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/spaghettifunk/modelview/engine/renderer"
)

type SystemManagerConfig struct {
	MaxTextureCount uint32
	MaxShaderCount  uint16
	MaxCameraCount  uint16
	SlotMapping     SlotMapping
}

func DefaultSystemManagerConfig() *SystemManagerConfig {
	return &SystemManagerConfig{
		MaxTextureCount: 1024,
		MaxShaderCount:  64,
		MaxCameraCount:  16,
		SlotMapping:     SlotMappingLegacy,
	}
}

type SystemManager struct {
	CameraSystem  *CameraSystem
	TextureSystem *TextureSystem
	ShaderSystem  *ShaderSystem
	ModelSystem   *ModelSystem
}

func NewSystemManager(config *SystemManagerConfig, am *assets.AssetManager, backend renderer.Backend) (*SystemManager, error) {
	if config == nil {
		config = DefaultSystemManagerConfig()
	}
	cs, err := NewCameraSystem(&CameraSystemConfig{
		MaxCameraCount: config.MaxCameraCount,
	})
	if err != nil {
		return nil, err
	}
	ts, err := NewTextureSystem(&TextureSystemConfig{
		MaxTextureCount: config.MaxTextureCount,
	}, am, backend)
	if err != nil {
		return nil, err
	}
	ss, err := NewShaderSystem(&ShaderSystemConfig{
		MaxShaderCount: config.MaxShaderCount,
	}, am, backend)
	if err != nil {
		return nil, err
	}
	ms, err := NewModelSystem(&ModelSystemConfig{
		SlotMapping: config.SlotMapping,
	}, am, ts, backend)
	if err != nil {
		return nil, err
	}
	core.LogDebug("systems initialized (slot mapping %s)", config.SlotMapping)
	return &SystemManager{
		CameraSystem:  cs,
		TextureSystem: ts,
		ShaderSystem:  ss,
		ModelSystem:   ms,
	}, nil
}

// Shutdown releases models before the textures they hold.
func (sm *SystemManager) Shutdown() error {
	if err := sm.ModelSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.ShaderSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.TextureSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.CameraSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}
