package resources

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

/** @brief Texture kinds a material can reference, as reported by the importers. */
type TextureKind int

const (
	TextureKindNone TextureKind = iota
	TextureKindDiffuse
	TextureKindSpecular
	TextureKindAmbient
	TextureKindEmissive
	TextureKindHeight
	TextureKindNormals
	TextureKindShininess
	TextureKindOpacity
	TextureKindDisplacement
	TextureKindLightmap
	TextureKindReflection
	TextureKindBaseColor
	TextureKindMetalnessRoughness
)

func (k TextureKind) String() string {
	switch k {
	case TextureKindNone:
		return "none"
	case TextureKindDiffuse:
		return "diffuse"
	case TextureKindSpecular:
		return "specular"
	case TextureKindAmbient:
		return "ambient"
	case TextureKindEmissive:
		return "emissive"
	case TextureKindHeight:
		return "height"
	case TextureKindNormals:
		return "normals"
	case TextureKindShininess:
		return "shininess"
	case TextureKindOpacity:
		return "opacity"
	case TextureKindDisplacement:
		return "displacement"
	case TextureKindLightmap:
		return "lightmap"
	case TextureKindReflection:
		return "reflection"
	case TextureKindBaseColor:
		return "base_color"
	case TextureKindMetalnessRoughness:
		return "metalness_roughness"
	default:
		return fmt.Sprintf("texture_kind(%d)", int(k))
	}
}

/**
 * @brief An imported material. Texture paths are relative to the
 * model file, or "*N" for the N-th embedded texture.
 */
type Material struct {
	Name     string
	Textures map[TextureKind][]string
}

func NewMaterial(name string) *Material {
	return &Material{
		Name:     name,
		Textures: map[TextureKind][]string{},
	}
}

func (m *Material) AddTexture(kind TextureKind, path string) {
	if path == "" {
		return
	}
	m.Textures[kind] = append(m.Textures[kind], path)
}

func (m *Material) TextureCount(kind TextureKind) int {
	if m == nil {
		return 0
	}
	return len(m.Textures[kind])
}

func (m *Material) Texture(kind TextureKind, index int) (string, bool) {
	if m == nil || index < 0 || index >= len(m.Textures[kind]) {
		return "", false
	}
	return m.Textures[kind][index], true
}

/** @brief Maximum number of texture coordinate channels a mesh carries. */
const MaxTexCoordChannels = 8

/**
 * @brief An imported mesh. Attribute slices are either empty or
 * as long as Positions.
 */
type Mesh struct {
	Name       string
	Positions  []mgl32.Vec3
	Normals    []mgl32.Vec3
	Tangents   []mgl32.Vec3
	Bitangents []mgl32.Vec3
	/** @brief Texture coordinate sets, indexed by channel. */
	TexCoords [MaxTexCoordChannels][]mgl32.Vec2
	/** @brief Faces as lists of vertex indices. Triangles after post-processing. */
	Faces [][]uint32
	/** @brief Index into Scene.Materials. */
	MaterialIndex int
}

func (m *Mesh) HasNormals() bool {
	return len(m.Positions) > 0 && len(m.Normals) == len(m.Positions)
}

func (m *Mesh) HasTexCoords(channel int) bool {
	if channel < 0 || channel >= MaxTexCoordChannels {
		return false
	}
	return len(m.Positions) > 0 && len(m.TexCoords[channel]) == len(m.Positions)
}

func (m *Mesh) HasTangentsAndBitangents() bool {
	return len(m.Positions) > 0 &&
		len(m.Tangents) == len(m.Positions) &&
		len(m.Bitangents) == len(m.Positions)
}

// Indices flattens the faces.
func (m *Mesh) Indices() []uint32 {
	count := 0
	for _, f := range m.Faces {
		count += len(f)
	}
	indices := make([]uint32, 0, count)
	for _, f := range m.Faces {
		indices = append(indices, f...)
	}
	return indices
}

/** @brief A node of the imported scene graph. */
type Node struct {
	Name string
	/** @brief Indices into Scene.Meshes. */
	Meshes    []int
	Children  []*Node
	Transform mgl32.Mat4
}

/** @brief An image stored inside the model file. */
type EmbeddedTexture struct {
	/** @brief Format hint, e.g. "png" or "jpg". */
	FormatHint string
	Data       []byte
}

type SceneFlags uint32

const (
	/** @brief The import did not produce a usable scene. */
	SceneFlagsIncomplete SceneFlags = 0x1
)

/**
 * @brief The result of importing a model file.
 */
type Scene struct {
	Flags     SceneFlags
	Root      *Node
	Meshes    []*Mesh
	Materials []*Material
	Textures  []*EmbeddedTexture
}

func (s *Scene) Incomplete() bool {
	return s.Flags&SceneFlagsIncomplete != 0
}

// EmbeddedTexturePath returns the path materials use for the index-th
// embedded texture.
func EmbeddedTexturePath(index int) string {
	return "*" + strconv.Itoa(index)
}

// EmbeddedTexture resolves a "*N" path.
func (s *Scene) EmbeddedTexture(path string) (*EmbeddedTexture, bool) {
	if !strings.HasPrefix(path, "*") {
		return nil, false
	}
	index, err := strconv.Atoi(path[1:])
	if err != nil || index < 0 || index >= len(s.Textures) {
		return nil, false
	}
	return s.Textures[index], true
}

/** @brief Post-processing steps applied after import. */
type PostProcess uint32

const (
	/** @brief Splits polygons into triangles. */
	PostProcessTriangulate PostProcess = 1 << iota
	/** @brief Generates smooth normals for meshes without normals. */
	PostProcessGenSmoothNormals
	/** @brief Flips the V texture coordinate. */
	PostProcessFlipUVs
	/** @brief Computes tangents and bitangents for meshes with UVs. */
	PostProcessCalcTangentSpace
)

/** @brief The steps used when loading models for rendering. */
const DefaultPostProcess = PostProcessTriangulate | PostProcessGenSmoothNormals | PostProcessFlipUVs | PostProcessCalcTangentSpace
