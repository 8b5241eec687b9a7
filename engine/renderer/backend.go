package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/modelview/engine/math"
	"github.com/spaghettifunk/modelview/engine/renderer/metadata"
)

// Backend is the graphics context. Every method must be called from the
// thread that owns the context.
type Backend interface {
	Initialize(appName string, width, height uint32) error
	Shutdown() error
	Resized(width, height uint32) error
	BeginFrame(clearColour mgl32.Vec4, cullMode metadata.FaceCullMode) error
	EndFrame() error

	// TextureCreate allocates an empty texture object.
	TextureCreate() uint32
	// TextureUpload populates a texture created with TextureCreate.
	TextureUpload(id uint32, config *metadata.TextureConfig)
	// TextureActivate selects the texture unit subsequent binds apply to.
	TextureActivate(unit uint32)
	TextureBind(id uint32)
	TextureDestroy(id uint32)

	ShaderCreate(stage metadata.ShaderStage, source string) uint32
	// ShaderCompile reports success and the (possibly empty) info log.
	ShaderCompile(shader uint32) (bool, string)
	ShaderDestroy(shader uint32)
	ProgramCreate() uint32
	ProgramAttach(program, shader uint32)
	ProgramLink(program uint32) (bool, string)
	ProgramUse(program uint32)
	ProgramDestroy(program uint32)

	// UniformLocation returns -1 for names the program does not use. The
	// Uniform* setters ignore location -1.
	UniformLocation(program uint32, name string) int32
	Uniform1i(location int32, value int32)
	Uniform1f(location int32, value float32)
	Uniform2f(location int32, x, y float32)
	Uniform3f(location int32, x, y, z float32)
	Uniform4f(location int32, x, y, z, w float32)
	UniformMatrix2f(location int32, value mgl32.Mat2)
	UniformMatrix3f(location int32, value mgl32.Mat3)
	UniformMatrix4f(location int32, value mgl32.Mat4)

	GeometryCreate(geometry *metadata.Geometry, vertices []math.Vertex, indices []uint32) error
	GeometryDraw(geometry *metadata.Geometry)
	GeometryDestroy(geometry *metadata.Geometry)
}
