package systems

import (
	"strconv"

	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/spaghettifunk/modelview/engine/math"
	"github.com/spaghettifunk/modelview/engine/renderer"
	"github.com/spaghettifunk/modelview/engine/renderer/metadata"
)

// Mesh is one drawable piece of a model: its vertices, triangle indices and
// the textures sampled while drawing it.
type Mesh struct {
	Name     string
	Vertices []math.Vertex
	Indices  []uint32
	// Shared with other meshes of the same model. Owned through the reference count.
	Textures []metadata.Texture
	Geometry *metadata.Geometry

	backend       renderer.Backend
	textureSystem *TextureSystem
}

// NewMesh uploads the vertex and index data. On failure the mesh is still
// returned, without geometry, and draws nothing.
func NewMesh(backend renderer.Backend, ts *TextureSystem, name string, vertices []math.Vertex, indices []uint32, textures []metadata.Texture) (*Mesh, error) {
	m := &Mesh{
		Name:          name,
		Vertices:      vertices,
		Indices:       indices,
		Textures:      textures,
		backend:       backend,
		textureSystem: ts,
	}
	geometry := &metadata.Geometry{Name: name}
	if err := backend.GeometryCreate(geometry, vertices, indices); err != nil {
		return m, err
	}
	m.Geometry = geometry
	return m, nil
}

// Draw binds texture i to unit i, points the sampler uniform
// texture_<slot><N> at it, where N counts from 1 per slot, and draws the
// triangles. The active unit is left at 0.
func (m *Mesh) Draw(shader *Shader) {
	var counts [metadata.TextureTypeHeight + 1]int
	for i, texture := range m.Textures {
		unit := uint32(i)
		m.backend.TextureActivate(unit)
		number := 0
		if texture.Type >= 0 && int(texture.Type) < len(counts) {
			counts[texture.Type]++
			number = counts[texture.Type]
		}
		shader.SetInt(texture.Type.String()+strconv.Itoa(number), int32(unit))
		m.backend.TextureBind(texture.ID)
	}

	if m.Geometry != nil {
		m.backend.GeometryDraw(m.Geometry)
	}
	m.backend.TextureActivate(0)
}

// Release destroys the geometry and gives back every texture reference.
func (m *Mesh) Release() {
	if m.Geometry != nil {
		m.backend.GeometryDestroy(m.Geometry)
		m.Geometry = nil
	}
	if m.textureSystem != nil {
		for i := range m.Textures {
			m.textureSystem.Release(&m.Textures[i])
		}
	}
	m.Textures = nil
	core.LogDebug("mesh %q released", m.Name)
}
