package opengl

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/spaghettifunk/modelview/engine/renderer/metadata"
)

func cullFaceMode(mode metadata.FaceCullMode) uint32 {
	switch mode {
	case metadata.FaceCullModeFront:
		return gl.FRONT
	case metadata.FaceCullModeFrontAndBack:
		return gl.FRONT_AND_BACK
	default:
		return gl.BACK
	}
}

func textureFormat(format metadata.TextureFormat) uint32 {
	switch format {
	case metadata.TextureFormatRed:
		return gl.RED
	case metadata.TextureFormatRGB:
		return gl.RGB
	case metadata.TextureFormatSRGB:
		return gl.SRGB8
	case metadata.TextureFormatSRGBAlpha:
		return gl.SRGB8_ALPHA8
	default:
		return gl.RGBA
	}
}

func textureFilter(filter metadata.TextureFilter) int32 {
	switch filter {
	case metadata.TextureFilterModeNearest:
		return gl.NEAREST
	case metadata.TextureFilterModeLinearMipmapLinear:
		return gl.LINEAR_MIPMAP_LINEAR
	default:
		return gl.LINEAR
	}
}

func textureRepeat(repeat metadata.TextureRepeat) int32 {
	switch repeat {
	case metadata.TextureRepeatMirroredRepeat:
		return gl.MIRRORED_REPEAT
	case metadata.TextureRepeatClampToEdge:
		return gl.CLAMP_TO_EDGE
	case metadata.TextureRepeatClampToBorder:
		return gl.CLAMP_TO_BORDER
	default:
		return gl.REPEAT
	}
}

func shaderStage(stage metadata.ShaderStage) uint32 {
	if stage == metadata.ShaderStageFragment {
		return gl.FRAGMENT_SHADER
	}
	return gl.VERTEX_SHADER
}
