package engine

import (
	"github.com/spaghettifunk/modelview/engine/assets"
	"github.com/spaghettifunk/modelview/engine/renderer/metadata"
	"github.com/spaghettifunk/modelview/engine/systems"
)

// Game is the application plugged into the engine. The engine fills in
// SystemManager and AssetManager before FnInitialize runs.
type Game struct {
	ApplicationConfig *ApplicationConfig
	SystemManager     *systems.SystemManager
	AssetManager      *assets.AssetManager
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error
type Render func(packet *metadata.RenderPacket, deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
