package math

import "github.com/go-gl/mathgl/mgl32"

/**
 * @brief Represents a single vertex as it is uploaded to the GPU.
 * The field order matches the attribute locations 0..4.
 */
type Vertex struct {
	/** @brief The position of the vertex */
	Position mgl32.Vec3
	/** @brief The normal of the vertex. */
	Normal mgl32.Vec3
	/** @brief The texture coordinate of the vertex. */
	TexCoords mgl32.Vec2
	/** @brief The tangent of the vertex. */
	Tangent mgl32.Vec3
	/** @brief The bitangent of the vertex. */
	Bitangent mgl32.Vec3
}

// NewVertex creates a vertex at the given position. Every other attribute is
// set to the zero vector so that meshes missing normals or texture
// coordinates never upload stale data.
func NewVertex(position mgl32.Vec3) Vertex {
	return Vertex{
		Position:  position,
		Normal:    mgl32.Vec3{0, 0, 0},
		TexCoords: mgl32.Vec2{0, 0},
		Tangent:   mgl32.Vec3{0, 0, 0},
		Bitangent: mgl32.Vec3{0, 0, 0},
	}
}

/**
 * @brief Represents the extents of a 3d object.
 */
type Extents3D struct {
	/** @brief The minimum extents of the object. */
	Min mgl32.Vec3
	/** @brief The maximum extents of the object. */
	Max mgl32.Vec3
}

// Center returns the midpoint of the extents.
func (e Extents3D) Center() mgl32.Vec3 {
	return e.Min.Add(e.Max).Mul(0.5)
}

// Radius returns half the length of the diagonal.
func (e Extents3D) Radius() float32 {
	return e.Max.Sub(e.Min).Len() * 0.5
}
