package testbed

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/modelview/engine"
	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/spaghettifunk/modelview/engine/renderer/components"
	"github.com/spaghettifunk/modelview/engine/renderer/metadata"
	"github.com/spaghettifunk/modelview/engine/systems"
)

const (
	modelShaderName = "model"
	viewerCamera    = "viewer"

	// Radians per pixel of mouse drag.
	orbitSpeed float32 = 0.008
	// Fraction of the orbit distance per pixel of right drag.
	panSpeed float32 = 0.0015
	// Fraction of the orbit distance per wheel notch.
	zoomStep float32 = 0.1
	// Radians per second when orbiting with the arrow keys.
	keyOrbitSpeed float32 = 1.5
)

// ModelViewer loads one model and one shader and lets the user orbit around
// the model.
type ModelViewer struct {
	*engine.Game
}

type viewerState struct {
	camera *components.Camera
	shader *systems.Shader
	model  *systems.Model

	width  uint32
	height uint32
}

func NewModelViewer(config *engine.ApplicationConfig) *ModelViewer {
	mv := &ModelViewer{
		Game: &engine.Game{
			ApplicationConfig: config,
			State:             &viewerState{},
		},
	}

	mv.FnInitialize = mv.Initialize
	mv.FnUpdate = mv.Update
	mv.FnRender = mv.Render
	mv.FnOnResize = mv.OnResize
	mv.FnShutdown = mv.Shutdown

	return mv
}

func (g *ModelViewer) state() *viewerState {
	return g.State.(*viewerState)
}

func (g *ModelViewer) Initialize() error {
	if g.SystemManager == nil {
		return fmt.Errorf("the engine is not yet initialized with all the system managers")
	}
	state := g.state()
	config := g.ApplicationConfig

	camera, err := g.SystemManager.CameraSystem.Acquire(viewerCamera)
	if err != nil {
		return err
	}
	state.camera = camera

	shader, diag := g.SystemManager.ShaderSystem.Create(&metadata.ShaderConfig{
		Name:         modelShaderName,
		VertexPath:   config.AssetPath(config.Shader.Vertex),
		FragmentPath: config.AssetPath(config.Shader.Fragment),
	})
	if shader == nil {
		return diag.Err()
	}
	if !diag.OK() {
		// Keep going: the program can be fixed on disk and reloaded.
		core.LogWarn("shader %s is %s, press R after fixing it", modelShaderName, diag.Status())
	}
	state.shader = shader

	if config.Model.Path != "" {
		g.loadModel(config.AssetPath(config.Model.Path))
	}

	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, g.onKey)
	core.EventRegister(core.EVENT_CODE_ASSET_CHANGED, g.onAssetChanged)
	return nil
}

func (g *ModelViewer) loadModel(path string) {
	state := g.state()
	model, diag := g.SystemManager.ModelSystem.Load(path, g.ApplicationConfig.Model.GammaCorrection)
	switch diag.Status() {
	case core.StatusFailed:
		core.LogError("model %s could not be loaded: %s", path, diag.Err())
	case core.StatusDegraded:
		core.LogWarn("model %s loaded with %d problem(s)", path, len(diag.Entries()))
	}
	core.LogInfo("model %s: %d meshes, %d unique textures, %d vertices, %d indices",
		path, len(model.Meshes), len(model.TexturesLoaded), model.VertexCount(), model.IndexCount())
	state.model = model
	if len(model.Meshes) > 0 {
		state.camera.Frame(model.Extents())
	}
}

func (g *ModelViewer) Update(deltaTime float64) error {
	state := g.state()
	dx, dy := core.InputGetMouseDelta()
	controls := orbitInput{
		dx:     float32(dx),
		dy:     float32(dy),
		scroll: float32(core.InputGetScroll()),
		orbit:  core.InputIsButtonDown(core.BUTTON_LEFT),
		pan:    core.InputIsButtonDown(core.BUTTON_RIGHT) || core.InputIsButtonDown(core.BUTTON_MIDDLE),
	}

	step := keyOrbitSpeed * float32(deltaTime)
	if core.InputIsKeyDown(core.KEY_LEFT) || core.InputIsKeyDown(core.KEY_A) {
		controls.yaw += step
	}
	if core.InputIsKeyDown(core.KEY_RIGHT) || core.InputIsKeyDown(core.KEY_D) {
		controls.yaw -= step
	}
	if core.InputIsKeyDown(core.KEY_UP) || core.InputIsKeyDown(core.KEY_W) {
		controls.pitch += step
	}
	if core.InputIsKeyDown(core.KEY_DOWN) || core.InputIsKeyDown(core.KEY_S) {
		controls.pitch -= step
	}

	controls.apply(state.camera)
	return nil
}

func (g *ModelViewer) Render(packet *metadata.RenderPacket, deltaTime float64) error {
	state := g.state()
	packet.CullMode = metadata.FaceCullModeBack
	packet.Draw = func() error {
		if state.model == nil || !state.shader.Linked() {
			return nil
		}
		aspect := float32(1)
		if state.height > 0 {
			aspect = float32(state.width) / float32(state.height)
		}
		if _, err := g.SystemManager.ShaderSystem.Use(modelShaderName); err != nil {
			return err
		}
		shader := state.shader
		shader.SetMat4("projection", state.camera.GetProjection(aspect))
		shader.SetMat4("view", state.camera.GetView())
		shader.SetMat4("model", mgl32.Ident4())
		shader.SetVec3("viewPos", state.camera.GetPosition())
		shader.SetVec3f("lightDir", -0.3, -1.0, -0.5)
		state.model.Draw(shader)
		return nil
	}
	return nil
}

func (g *ModelViewer) OnResize(width uint32, height uint32) error {
	state := g.state()
	state.width = width
	state.height = height
	return nil
}

func (g *ModelViewer) Shutdown() error {
	if g.SystemManager == nil {
		return nil
	}
	state := g.state()
	if state.model != nil {
		g.SystemManager.ModelSystem.Unload(state.model)
		state.model = nil
	}
	g.SystemManager.CameraSystem.Release(viewerCamera)
	return nil
}

func (g *ModelViewer) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		return false
	}
	state := g.state()
	switch ke.KeyCode {
	case core.KEY_ESCAPE:
		// NOTE: Technically firing an event to itself, but there may be other listeners.
		core.EventFire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
		return true
	case core.KEY_R:
		diag, err := g.SystemManager.ShaderSystem.Reload(modelShaderName)
		if err != nil {
			core.LogError(err.Error())
		} else if !diag.OK() {
			core.LogWarn("shader reload: %s", diag.Err())
		}
		return true
	case core.KEY_F:
		if state.model != nil && len(state.model.Meshes) > 0 {
			state.camera.Frame(state.model.Extents())
		}
		return true
	case core.KEY_P:
		pos := state.camera.GetPosition()
		core.LogInfo("camera at [%.2f, %.2f, %.2f] looking at [%.2f, %.2f, %.2f]",
			pos.X(), pos.Y(), pos.Z(), state.camera.Target.X(), state.camera.Target.Y(), state.camera.Target.Z())
		return true
	}
	return false
}

func (g *ModelViewer) onAssetChanged(context core.EventContext) bool {
	if ae, ok := context.Data.(*core.AssetEvent); ok {
		core.LogDebug("asset changed: %s", ae.Path)
	}
	return false
}

// orbitInput is one frame worth of camera controls.
type orbitInput struct {
	dx, dy     float32
	scroll     float32
	yaw, pitch float32
	orbit, pan bool
}

func (in orbitInput) apply(camera *components.Camera) {
	if in.orbit {
		// Dragging right swings the camera left around the target.
		camera.Yaw(-in.dx * orbitSpeed)
		camera.Pitch(in.dy * orbitSpeed)
	} else if in.pan {
		camera.Pan(-in.dx*panSpeed, in.dy*panSpeed)
	}
	if in.yaw != 0 {
		camera.Yaw(in.yaw)
	}
	if in.pitch != 0 {
		camera.Pitch(in.pitch)
	}
	if in.scroll != 0 {
		camera.Zoom(in.scroll * zoomStep)
	}
}
