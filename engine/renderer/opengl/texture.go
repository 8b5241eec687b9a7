package opengl

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/spaghettifunk/modelview/engine/renderer/metadata"
)

func (r *OpenGLRenderer) TextureCreate() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	return id
}

func (r *OpenGLRenderer) TextureUpload(id uint32, config *metadata.TextureConfig) {
	gl.BindTexture(gl.TEXTURE_2D, id)
	// Rows are tightly packed, which matters for RED and RGB data.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	var pixels unsafe.Pointer
	if len(config.Pixels) > 0 {
		pixels = gl.Ptr(config.Pixels)
	}
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		int32(textureFormat(config.InternalFormat)),
		int32(config.Width),
		int32(config.Height),
		0,
		textureFormat(config.Format),
		gl.UNSIGNED_BYTE,
		pixels,
	)
	if config.Sampler.GenerateMipmaps {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, textureRepeat(config.Sampler.RepeatU))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, textureRepeat(config.Sampler.RepeatV))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, textureFilter(config.Sampler.FilterMinify))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, textureFilter(config.Sampler.FilterMagnify))
}

func (r *OpenGLRenderer) TextureActivate(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
}

func (r *OpenGLRenderer) TextureBind(id uint32) {
	gl.BindTexture(gl.TEXTURE_2D, id)
}

func (r *OpenGLRenderer) TextureDestroy(id uint32) {
	gl.DeleteTextures(1, &id)
}
