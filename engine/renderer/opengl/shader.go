package opengl

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/modelview/engine/renderer/metadata"
)

func (r *OpenGLRenderer) ShaderCreate(stage metadata.ShaderStage, source string) uint32 {
	shader := gl.CreateShader(shaderStage(stage))
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	return shader
}

func (r *OpenGLRenderer) ShaderCompile(shader uint32) (bool, string) {
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.TRUE {
		return true, ""
	}
	log := make([]uint8, metadata.ShaderInfoLogSize)
	var length int32
	gl.GetShaderInfoLog(shader, metadata.ShaderInfoLogSize, &length, &log[0])
	return false, string(log[:length])
}

func (r *OpenGLRenderer) ShaderDestroy(shader uint32) {
	gl.DeleteShader(shader)
}

func (r *OpenGLRenderer) ProgramCreate() uint32 {
	return gl.CreateProgram()
}

func (r *OpenGLRenderer) ProgramAttach(program, shader uint32) {
	gl.AttachShader(program, shader)
}

func (r *OpenGLRenderer) ProgramLink(program uint32) (bool, string) {
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.TRUE {
		return true, ""
	}
	log := make([]uint8, metadata.ShaderInfoLogSize)
	var length int32
	gl.GetProgramInfoLog(program, metadata.ShaderInfoLogSize, &length, &log[0])
	return false, string(log[:length])
}

func (r *OpenGLRenderer) ProgramUse(program uint32) {
	gl.UseProgram(program)
}

func (r *OpenGLRenderer) ProgramDestroy(program uint32) {
	gl.DeleteProgram(program)
}

func (r *OpenGLRenderer) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

// GL silently ignores location -1, so the setters pass it through.

func (r *OpenGLRenderer) Uniform1i(location int32, value int32) {
	gl.Uniform1i(location, value)
}

func (r *OpenGLRenderer) Uniform1f(location int32, value float32) {
	gl.Uniform1f(location, value)
}

func (r *OpenGLRenderer) Uniform2f(location int32, x, y float32) {
	gl.Uniform2f(location, x, y)
}

func (r *OpenGLRenderer) Uniform3f(location int32, x, y, z float32) {
	gl.Uniform3f(location, x, y, z)
}

func (r *OpenGLRenderer) Uniform4f(location int32, x, y, z, w float32) {
	gl.Uniform4f(location, x, y, z, w)
}

func (r *OpenGLRenderer) UniformMatrix2f(location int32, value mgl32.Mat2) {
	gl.UniformMatrix2fv(location, 1, false, &value[0])
}

func (r *OpenGLRenderer) UniformMatrix3f(location int32, value mgl32.Mat3) {
	gl.UniformMatrix3fv(location, 1, false, &value[0])
}

func (r *OpenGLRenderer) UniformMatrix4f(location int32, value mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &value[0])
}
