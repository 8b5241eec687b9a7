package metadata

import (
	"unsafe"

	"github.com/spaghettifunk/modelview/engine/math"
)

/**
 * @brief A single vertex attribute as laid out in the interleaved buffer.
 */
type VertexAttribute struct {
	/** @brief The shader attribute location. */
	Location uint32
	/** @brief Number of float components. */
	Components int32
	/** @brief Byte offset inside math.Vertex. */
	Offset uintptr
}

/** @brief Byte size of one interleaved vertex. */
const VertexStride = int32(unsafe.Sizeof(math.Vertex{}))

/** @brief Attribute layout: position, normal, texcoords, tangent, bitangent. */
var VertexAttributes = []VertexAttribute{
	{Location: 0, Components: 3, Offset: unsafe.Offsetof(math.Vertex{}.Position)},
	{Location: 1, Components: 3, Offset: unsafe.Offsetof(math.Vertex{}.Normal)},
	{Location: 2, Components: 2, Offset: unsafe.Offsetof(math.Vertex{}.TexCoords)},
	{Location: 3, Components: 3, Offset: unsafe.Offsetof(math.Vertex{}.Tangent)},
	{Location: 4, Components: 3, Offset: unsafe.Offsetof(math.Vertex{}.Bitangent)},
}

/**
 * @brief GPU side geometry: a vertex array with its vertex and index buffers.
 */
type Geometry struct {
	/** @brief The vertex array object. */
	ID uint32
	/** @brief The interleaved vertex buffer. */
	VertexBuffer uint32
	/** @brief The element buffer. */
	IndexBuffer uint32
	VertexCount uint32
	IndexCount  uint32
	/** @brief The geometry generation. Incremented every time the geometry is uploaded. */
	Generation uint32
	Name       string
}
