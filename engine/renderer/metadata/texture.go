package metadata

import "fmt"

/** @brief Tracks how many meshes share a texture handle. */
type TextureReference struct {
	ReferenceCount uint64
	Handle         uint32
	/** @brief Destroy the texture once the count reaches zero. */
	AutoRelease bool
}

/**
 * @brief The semantic slot a texture is bound to. The string form is
 * the sampler uniform prefix used by the shaders.
 */
type TextureType int

const (
	TextureTypeDiffuse TextureType = iota
	TextureTypeSpecular
	TextureTypeNormal
	TextureTypeHeight
)

func (t TextureType) String() string {
	switch t {
	case TextureTypeDiffuse:
		return "texture_diffuse"
	case TextureTypeSpecular:
		return "texture_specular"
	case TextureTypeNormal:
		return "texture_normal"
	case TextureTypeHeight:
		return "texture_height"
	default:
		return fmt.Sprintf("texture_type(%d)", int(t))
	}
}

/**
 * @brief Represents a texture.
 */
type Texture struct {
	/** @brief The GPU handle. */
	ID uint32
	/** @brief The slot the texture is used for. */
	Type TextureType
	/** @brief The source path, used to deduplicate uploads. */
	Path string
	/** @brief The texture Width. */
	Width uint32
	/** @brief The texture Height. */
	Height uint32
	/** @brief The number of channels in the source image. */
	ChannelCount uint8
	/** @brief The texture Generation. Incremented every time the data is uploaded. */
	Generation uint32
	/** @brief Shared ownership of the handle. */
	Reference *TextureReference
}

/** @brief Pixel layouts understood by the backends. */
type TextureFormat int

const (
	TextureFormatRed TextureFormat = iota
	TextureFormatRGB
	TextureFormatRGBA
	TextureFormatSRGB
	TextureFormatSRGBAlpha
)

func (f TextureFormat) String() string {
	switch f {
	case TextureFormatRed:
		return "RED"
	case TextureFormatRGB:
		return "RGB"
	case TextureFormatRGBA:
		return "RGBA"
	case TextureFormatSRGB:
		return "SRGB"
	case TextureFormatSRGBAlpha:
		return "SRGB_ALPHA"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// TextureFormatsForChannels maps a channel count to the internal and pixel
// formats used for upload. Only 1, 3 and 4 channels are supported. With gamma
// correction colour data is stored as sRGB.
func TextureFormatsForChannels(channels uint8, gamma bool) (internal, pixel TextureFormat, ok bool) {
	switch channels {
	case 1:
		return TextureFormatRed, TextureFormatRed, true
	case 3:
		if gamma {
			return TextureFormatSRGB, TextureFormatRGB, true
		}
		return TextureFormatRGB, TextureFormatRGB, true
	case 4:
		if gamma {
			return TextureFormatSRGBAlpha, TextureFormatRGBA, true
		}
		return TextureFormatRGBA, TextureFormatRGBA, true
	}
	return 0, 0, false
}

/** @brief Represents supported texture filtering modes. */
type TextureFilter int

const (
	/** @brief Nearest-neighbor filtering. */
	TextureFilterModeNearest TextureFilter = iota
	/** @brief Linear (i.e. bilinear) filtering.*/
	TextureFilterModeLinear
	/** @brief Trilinear filtering across mip levels. Minification only. */
	TextureFilterModeLinearMipmapLinear
)

type TextureRepeat int

const (
	TextureRepeatRepeat TextureRepeat = iota + 1
	TextureRepeatMirroredRepeat
	TextureRepeatClampToEdge
	TextureRepeatClampToBorder
)

/** @brief Sampling state applied when a texture is uploaded. */
type TextureSampler struct {
	FilterMinify  TextureFilter
	FilterMagnify TextureFilter
	/** @brief The repeat mode on the U axis (or X, or S) */
	RepeatU TextureRepeat
	/** @brief The repeat mode on the V axis (or Y, or T) */
	RepeatV         TextureRepeat
	GenerateMipmaps bool
}

// DefaultTextureSampler repeats on both axes with trilinear minification.
func DefaultTextureSampler() TextureSampler {
	return TextureSampler{
		FilterMinify:    TextureFilterModeLinearMipmapLinear,
		FilterMagnify:   TextureFilterModeLinear,
		RepeatU:         TextureRepeatRepeat,
		RepeatV:         TextureRepeatRepeat,
		GenerateMipmaps: true,
	}
}

/**
 * @brief Everything a backend needs to populate a 2D texture.
 */
type TextureConfig struct {
	Width          uint32
	Height         uint32
	InternalFormat TextureFormat
	Format         TextureFormat
	/** @brief Tightly packed rows. The first row is sampled at v = 0. */
	Pixels  []uint8
	Sampler TextureSampler
}
