package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/spaghettifunk/modelview/engine/platform"
	"github.com/spaghettifunk/modelview/engine/renderer"
	"github.com/spaghettifunk/modelview/engine/renderer/metadata"
)

var _ renderer.Backend = (*OpenGLRenderer)(nil)

// OpenGLRenderer implements renderer.Backend on an OpenGL 4.1 core context
// owned by the platform window.
type OpenGLRenderer struct {
	platform          *platform.Platform
	FrameNumber       uint64
	framebufferWidth  uint32
	framebufferHeight uint32
}

func New(p *platform.Platform) *OpenGLRenderer {
	return &OpenGLRenderer{
		platform: p,
	}
}

func (r *OpenGLRenderer) Initialize(appName string, appWidth, appHeight uint32) error {
	if err := gl.Init(); err != nil {
		core.LogFatal("failed to initialize gl: %s", err)
		return err
	}
	core.LogInfo("%s running on OpenGL %s (%s)", appName,
		gl.GoStr(gl.GetString(gl.VERSION)),
		gl.GoStr(gl.GetString(gl.RENDERER)))

	r.framebufferWidth, r.framebufferHeight = appWidth, appHeight
	if r.platform != nil && r.platform.Window != nil {
		r.framebufferWidth, r.framebufferHeight = r.platform.FramebufferSize()
	}
	gl.Viewport(0, 0, int32(r.framebufferWidth), int32(r.framebufferHeight))
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	return nil
}

func (r *OpenGLRenderer) Shutdown() error {
	core.LogDebug("OpenGL backend shut down after %d frames", r.FrameNumber)
	return nil
}

func (r *OpenGLRenderer) Resized(width, height uint32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("invalid framebuffer size %dx%d", width, height)
	}
	r.framebufferWidth, r.framebufferHeight = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	return nil
}

func (r *OpenGLRenderer) BeginFrame(clearColour mgl32.Vec4, cullMode metadata.FaceCullMode) error {
	switch cullMode {
	case metadata.FaceCullModeNone:
		gl.Disable(gl.CULL_FACE)
	default:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(cullFaceMode(cullMode))
	}
	gl.ClearColor(clearColour.X(), clearColour.Y(), clearColour.Z(), clearColour.W())
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	return nil
}

func (r *OpenGLRenderer) EndFrame() error {
	if r.platform != nil && r.platform.Window != nil {
		r.platform.SwapBuffers()
	}
	r.FrameNumber++
	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		core.LogWarn("gl error 0x%x at end of frame %d", errCode, r.FrameNumber)
	}
	return nil
}
