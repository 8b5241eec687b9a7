package renderer

import (
	"fmt"

	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/spaghettifunk/modelview/engine/renderer/metadata"
)

type RendererType uint8

const (
	OpenGL RendererType = iota
)

// Renderer is the frontend the engine talks to. It owns the backend and
// frames every draw between BeginFrame and EndFrame.
type Renderer struct {
	backend     Backend
	frameNumber uint64
}

func New(backend Backend) *Renderer {
	return &Renderer{backend: backend}
}

func (r *Renderer) Initialize(appName string, appWidth, appHeight uint32) error {
	if err := r.backend.Initialize(appName, appWidth, appHeight); err != nil {
		return fmt.Errorf("renderer backend failed to initialize: %w", err)
	}
	core.LogInfo("renderer initialized (%dx%d)", appWidth, appHeight)
	return nil
}

// Backend exposes the graphics context to the resource systems.
func (r *Renderer) Backend() Backend {
	return r.backend
}

func (r *Renderer) Shutdown() error {
	return r.backend.Shutdown()
}

func (r *Renderer) OnResize(width, height uint32) error {
	return r.backend.Resized(width, height)
}

func (r *Renderer) FrameNumber() uint64 {
	return r.frameNumber
}

func (r *Renderer) DrawFrame(packet *metadata.RenderPacket) error {
	if err := r.backend.BeginFrame(packet.ClearColour, packet.CullMode); err != nil {
		core.LogError("BeginFrame failed: %s", err)
		return err
	}
	if packet.Draw != nil {
		if err := packet.Draw(); err != nil {
			core.LogError("frame %d draw failed: %s", r.frameNumber, err)
			return err
		}
	}
	if err := r.backend.EndFrame(); err != nil {
		core.LogError("EndFrame failed. Application shutting down...")
		return err
	}
	r.frameNumber++
	return nil
}
