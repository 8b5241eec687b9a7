package opengl

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/spaghettifunk/modelview/engine/math"
	"github.com/spaghettifunk/modelview/engine/renderer/metadata"
)

// GeometryCreate uploads an interleaved vertex buffer and an element buffer
// and records the attribute layout in a new vertex array.
func (r *OpenGLRenderer) GeometryCreate(geometry *metadata.Geometry, vertices []math.Vertex, indices []uint32) error {
	if len(vertices) == 0 || len(indices) == 0 {
		return fmt.Errorf("geometry %q has no data", geometry.Name)
	}

	gl.GenVertexArrays(1, &geometry.ID)
	gl.GenBuffers(1, &geometry.VertexBuffer)
	gl.GenBuffers(1, &geometry.IndexBuffer)

	gl.BindVertexArray(geometry.ID)

	gl.BindBuffer(gl.ARRAY_BUFFER, geometry.VertexBuffer)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*int(metadata.VertexStride), unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, geometry.IndexBuffer)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	for _, attr := range metadata.VertexAttributes {
		gl.EnableVertexAttribArray(attr.Location)
		gl.VertexAttribPointerWithOffset(attr.Location, attr.Components, gl.FLOAT, false, metadata.VertexStride, attr.Offset)
	}

	gl.BindVertexArray(0)

	geometry.VertexCount = uint32(len(vertices))
	geometry.IndexCount = uint32(len(indices))
	geometry.Generation++
	return nil
}

func (r *OpenGLRenderer) GeometryDraw(geometry *metadata.Geometry) {
	gl.BindVertexArray(geometry.ID)
	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(geometry.IndexCount), gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}

func (r *OpenGLRenderer) GeometryDestroy(geometry *metadata.Geometry) {
	gl.DeleteVertexArrays(1, &geometry.ID)
	gl.DeleteBuffers(1, &geometry.VertexBuffer)
	gl.DeleteBuffers(1, &geometry.IndexBuffer)
	geometry.ID, geometry.VertexBuffer, geometry.IndexBuffer = 0, 0, 0
}
