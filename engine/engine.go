package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spaghettifunk/modelview/engine/assets"
	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/spaghettifunk/modelview/engine/platform"
	"github.com/spaghettifunk/modelview/engine/renderer"
	"github.com/spaghettifunk/modelview/engine/renderer/metadata"
	"github.com/spaghettifunk/modelview/engine/renderer/opengl"
	"github.com/spaghettifunk/modelview/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

// Refresh the window title this often.
const titleInterval = 500 * time.Millisecond

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	isRunning     bool
	isSuspended   bool
	quitRequested atomic.Bool
	platform      *platform.Platform
	renderer      *renderer.Renderer
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	width         uint32
	height        uint32
	clock         *core.Clock
	lastTime      time.Duration
	lastTitle     time.Duration
}

func New(g *Game) (*Engine, error) {
	if g.ApplicationConfig == nil {
		g.ApplicationConfig = DefaultApplicationConfig()
	}
	config := g.ApplicationConfig
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if err := core.SetLogLevel(config.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", config.LogLevel, err)
	}

	p, err := platform.New()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		clock:        core.NewClock(),
		platform:     p,
		renderer:     renderer.New(opengl.New(p)),
		assetManager: assets.NewAssetManager(),
		width:        config.Window.Width,
		height:       config.Window.Height,
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	config := e.gameInstance.ApplicationConfig

	if err := core.InputInitialize(); err != nil {
		return err
	}
	if err := core.EventInitialize(); err != nil {
		return err
	}
	if err := core.MetricsInitialize(); err != nil {
		return err
	}

	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e.onEvent)
	core.EventRegister(core.EVENT_CODE_RESIZED, e.onResized)

	if err := e.platform.Startup(config.Name,
		config.Window.X,
		config.Window.Y,
		config.Window.Width,
		config.Window.Height,
		config.Window.VSync); err != nil {
		return err
	}
	// High-DPI displays hand out a framebuffer larger than the window.
	e.width, e.height = e.platform.FramebufferSize()

	if err := e.renderer.Initialize(config.Name, e.width, e.height); err != nil {
		return err
	}

	sm, err := systems.NewSystemManager(config.SystemManagerConfig(), e.assetManager, e.renderer.Backend())
	if err != nil {
		return err
	}
	e.systemManager = sm
	e.gameInstance.SystemManager = sm
	e.gameInstance.AssetManager = e.assetManager

	if config.Assets.HotReload && config.Assets.Dir != "" {
		if err := e.assetManager.Watch(config.Assets.Dir); err != nil {
			// Hot reload is a convenience, the viewer still works without it.
			core.LogWarn("not watching %s: %s", config.Assets.Dir, err)
		}
	}

	if err := e.gameInstance.FnInitialize(); err != nil {
		return err
	}
	if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
		return err
	}

	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.isRunning = true

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for e.isRunning {
		e.platform.PumpMessages()
		core.EventProcess()

		if e.quitRequested.Load() {
			e.isRunning = false
		}
		if !e.isRunning {
			break
		}

		if e.isSuspended {
			// Nothing to draw into while minimized.
			time.Sleep(10 * time.Millisecond)
			continue
		}

		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := (currentTime - e.lastTime).Seconds()
		frameStart := time.Now()

		e.reloadChangedAssets()

		if err := e.gameInstance.FnUpdate(delta); err != nil {
			core.LogError("game update failed, shutting down: %s", err)
			e.isRunning = false
			break
		}

		packet := &metadata.RenderPacket{
			DeltaTime:   delta,
			ClearColour: e.gameInstance.ApplicationConfig.ClearColourVec(),
			CullMode:    metadata.FaceCullModeNone,
		}
		if err := e.gameInstance.FnRender(packet, delta); err != nil {
			core.LogError("game render failed, shutting down: %s", err)
			e.isRunning = false
			break
		}
		if err := e.renderer.DrawFrame(packet); err != nil {
			e.isRunning = false
			break
		}

		core.MetricsUpdate(time.Since(frameStart))
		if currentTime-e.lastTitle >= titleInterval {
			fps, frameTime := core.MetricsFrame()
			e.platform.SetTitle("%s - %.0f FPS (%.2fms)", e.gameInstance.ApplicationConfig.Name, fps, frameTime)
			e.lastTitle = currentTime
		}

		// NOTE: Input update/state copying should always be handled
		// after any input should be recorded; I.E. before this line.
		core.InputUpdate()

		e.lastTime = currentTime
	}

	return e.Shutdown()
}

// Quit asks the main loop to stop after the current frame. Safe to call from
// any goroutine.
func (e *Engine) Quit() {
	e.quitRequested.Store(true)
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShuttingDown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown

	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError("game shutdown failed: %s", err)
		}
	}
	if e.systemManager != nil {
		if err := e.systemManager.Shutdown(); err != nil {
			return err
		}
	}
	if config := e.gameInstance.ApplicationConfig; config.Assets.HotReload && config.Assets.Dir != "" {
		if err := e.assetManager.Unwatch(config.Assets.Dir); err != nil {
			core.LogWarn("failed to stop watching %s: %s", config.Assets.Dir, err)
		}
	}
	if err := e.assetManager.Shutdown(); err != nil {
		return err
	}
	if err := e.renderer.Shutdown(); err != nil {
		return err
	}
	if err := core.EventShutdown(); err != nil {
		return err
	}
	if err := core.InputShutdown(); err != nil {
		return err
	}
	return e.platform.Shutdown()
}

// GetFramebufferSize returns the width and height (in this order)
// of the application Framebuffer
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

// reloadChangedAssets rebuilds the shaders whose sources changed since the
// last frame and tells listeners about every changed file.
func (e *Engine) reloadChangedAssets() {
	changed := e.assetManager.DrainChanges()
	if len(changed) == 0 {
		return
	}
	for _, name := range e.systemManager.ShaderSystem.ReloadByPath(changed) {
		core.LogInfo("shader %s reloaded", name)
	}
	for _, path := range changed {
		core.EventFire(core.EventContext{
			Type: core.EVENT_CODE_ASSET_CHANGED,
			Data: &core.AssetEvent{Path: path},
		})
	}
}

func (e *Engine) onEvent(context core.EventContext) bool {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning = false
		return true
	}
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}

	width := se.WindowWidth
	height := se.WindowHeight
	if width == e.width && height == e.height {
		return false
	}
	e.width = width
	e.height = height
	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return false
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	if err := e.renderer.OnResize(width, height); err != nil {
		core.LogError(err.Error())
	}
	if err := e.gameInstance.FnOnResize(width, height); err != nil {
		core.LogError(err.Error())
	}
	// Let the game see the resize too.
	return false
}
