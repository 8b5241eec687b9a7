// Package rendertest provides a recording renderer.Backend for tests that
// need a graphics context without a GPU.
package rendertest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/modelview/engine/math"
	"github.com/spaghettifunk/modelview/engine/renderer"
	"github.com/spaghettifunk/modelview/engine/renderer/metadata"
)

var _ renderer.Backend = (*Backend)(nil)

var uniformDecl = regexp.MustCompile(`uniform\s+\w+\s+(\w+)\s*(?:\[\s*\d+\s*\])?\s*;`)

type Texture struct {
	ID        uint32
	Config    *metadata.TextureConfig
	Uploads   int
	Destroyed bool
}

type Shader struct {
	ID        uint32
	Stage     metadata.ShaderStage
	Source    string
	Compiled  bool
	Destroyed bool
}

type Program struct {
	ID        uint32
	Shaders   []uint32
	Linked    bool
	Destroyed bool
	// Locations of every uniform declared by the attached sources.
	Locations map[string]int32
	// Last value written per location.
	Values map[int32]interface{}
}

type DrawCall struct {
	Program    uint32
	Geometry   uint32
	IndexCount uint32
	// Texture bound to each unit at the time of the draw.
	Units map[uint32]uint32
}

// Backend records every call so tests can assert on GPU side effects.
type Backend struct {
	Textures   map[uint32]*Texture
	Shaders    map[uint32]*Shader
	Programs   map[uint32]*Program
	Geometries map[uint32]*metadata.Geometry
	Draws      []DrawCall

	CurrentProgram uint32
	ActiveUnit     uint32
	Units          map[uint32]uint32

	// Uniform calls that were dropped because the location was -1.
	IgnoredUniforms int
	Frames          int
	Width, Height   uint32

	// FailGeometry makes GeometryCreate return an error.
	FailGeometry bool

	nextID uint32
}

func New() *Backend {
	return &Backend{
		Textures:   map[uint32]*Texture{},
		Shaders:    map[uint32]*Shader{},
		Programs:   map[uint32]*Program{},
		Geometries: map[uint32]*metadata.Geometry{},
		Units:      map[uint32]uint32{},
	}
}

func (b *Backend) id() uint32 {
	b.nextID++
	return b.nextID
}

func (b *Backend) Initialize(appName string, width, height uint32) error {
	b.Width, b.Height = width, height
	return nil
}

func (b *Backend) Shutdown() error {
	return nil
}

func (b *Backend) Resized(width, height uint32) error {
	b.Width, b.Height = width, height
	return nil
}

func (b *Backend) BeginFrame(clearColour mgl32.Vec4, cullMode metadata.FaceCullMode) error {
	return nil
}

func (b *Backend) EndFrame() error {
	b.Frames++
	return nil
}

func (b *Backend) TextureCreate() uint32 {
	id := b.id()
	b.Textures[id] = &Texture{ID: id}
	return id
}

func (b *Backend) TextureUpload(id uint32, config *metadata.TextureConfig) {
	tex, ok := b.Textures[id]
	if !ok {
		return
	}
	tex.Config = config
	tex.Uploads++
}

func (b *Backend) TextureActivate(unit uint32) {
	b.ActiveUnit = unit
}

func (b *Backend) TextureBind(id uint32) {
	b.Units[b.ActiveUnit] = id
}

func (b *Backend) TextureDestroy(id uint32) {
	if tex, ok := b.Textures[id]; ok {
		tex.Destroyed = true
	}
}

// ShaderCreate stores the source; compilation fails for empty sources or
// sources without an entry point.
func (b *Backend) ShaderCreate(stage metadata.ShaderStage, source string) uint32 {
	id := b.id()
	b.Shaders[id] = &Shader{ID: id, Stage: stage, Source: source}
	return id
}

func (b *Backend) ShaderCompile(shader uint32) (bool, string) {
	s, ok := b.Shaders[shader]
	if !ok {
		return false, fmt.Sprintf("ERROR: invalid shader %d", shader)
	}
	switch {
	case strings.TrimSpace(s.Source) == "":
		return false, "ERROR: 0:1: '' : syntax error: empty source"
	case !strings.Contains(s.Source, "void main"):
		return false, "ERROR: 0:1: 'main' : function not defined"
	}
	s.Compiled = true
	return true, ""
}

func (b *Backend) ShaderDestroy(shader uint32) {
	if s, ok := b.Shaders[shader]; ok {
		s.Destroyed = true
	}
}

func (b *Backend) ProgramCreate() uint32 {
	id := b.id()
	b.Programs[id] = &Program{
		ID:        id,
		Locations: map[string]int32{},
		Values:    map[int32]interface{}{},
	}
	return id
}

func (b *Backend) ProgramAttach(program, shader uint32) {
	if p, ok := b.Programs[program]; ok {
		p.Shaders = append(p.Shaders, shader)
	}
}

func (b *Backend) ProgramLink(program uint32) (bool, string) {
	p, ok := b.Programs[program]
	if !ok {
		return false, fmt.Sprintf("ERROR: invalid program %d", program)
	}
	if len(p.Shaders) == 0 {
		return false, "ERROR: no shaders attached"
	}
	for _, id := range p.Shaders {
		s := b.Shaders[id]
		if s == nil || !s.Compiled {
			return false, fmt.Sprintf("ERROR: %s shader %d is not compiled", stageName(s), id)
		}
	}

	next := int32(0)
	for _, id := range p.Shaders {
		for _, m := range uniformDecl.FindAllStringSubmatch(b.Shaders[id].Source, -1) {
			if _, seen := p.Locations[m[1]]; !seen {
				p.Locations[m[1]] = next
				next++
			}
		}
	}
	p.Linked = true
	return true, ""
}

func (b *Backend) ProgramUse(program uint32) {
	b.CurrentProgram = program
}

func (b *Backend) ProgramDestroy(program uint32) {
	if p, ok := b.Programs[program]; ok {
		p.Destroyed = true
	}
	if b.CurrentProgram == program {
		b.CurrentProgram = 0
	}
}

func (b *Backend) UniformLocation(program uint32, name string) int32 {
	p, ok := b.Programs[program]
	if !ok || !p.Linked {
		return -1
	}
	if loc, ok := p.Locations[name]; ok {
		return loc
	}
	return -1
}

func (b *Backend) setUniform(location int32, value interface{}) {
	p, ok := b.Programs[b.CurrentProgram]
	if location == -1 || !ok {
		b.IgnoredUniforms++
		return
	}
	p.Values[location] = value
}

func (b *Backend) Uniform1i(location int32, value int32) {
	b.setUniform(location, value)
}

func (b *Backend) Uniform1f(location int32, value float32) {
	b.setUniform(location, value)
}

func (b *Backend) Uniform2f(location int32, x, y float32) {
	b.setUniform(location, mgl32.Vec2{x, y})
}

func (b *Backend) Uniform3f(location int32, x, y, z float32) {
	b.setUniform(location, mgl32.Vec3{x, y, z})
}

func (b *Backend) Uniform4f(location int32, x, y, z, w float32) {
	b.setUniform(location, mgl32.Vec4{x, y, z, w})
}

func (b *Backend) UniformMatrix2f(location int32, value mgl32.Mat2) {
	b.setUniform(location, value)
}

func (b *Backend) UniformMatrix3f(location int32, value mgl32.Mat3) {
	b.setUniform(location, value)
}

func (b *Backend) UniformMatrix4f(location int32, value mgl32.Mat4) {
	b.setUniform(location, value)
}

func (b *Backend) GeometryCreate(geometry *metadata.Geometry, vertices []math.Vertex, indices []uint32) error {
	if b.FailGeometry {
		return fmt.Errorf("geometry %q rejected", geometry.Name)
	}
	geometry.ID = b.id()
	geometry.VertexBuffer = b.id()
	geometry.IndexBuffer = b.id()
	geometry.VertexCount = uint32(len(vertices))
	geometry.IndexCount = uint32(len(indices))
	geometry.Generation++
	b.Geometries[geometry.ID] = geometry
	return nil
}

func (b *Backend) GeometryDraw(geometry *metadata.Geometry) {
	units := make(map[uint32]uint32, len(b.Units))
	for unit, tex := range b.Units {
		units[unit] = tex
	}
	b.Draws = append(b.Draws, DrawCall{
		Program:    b.CurrentProgram,
		Geometry:   geometry.ID,
		IndexCount: geometry.IndexCount,
		Units:      units,
	})
}

func (b *Backend) GeometryDestroy(geometry *metadata.Geometry) {
	delete(b.Geometries, geometry.ID)
	geometry.ID, geometry.VertexBuffer, geometry.IndexBuffer = 0, 0, 0
}

// UniformValue returns the last value written to name in program.
func (b *Backend) UniformValue(program uint32, name string) (interface{}, bool) {
	p, ok := b.Programs[program]
	if !ok {
		return nil, false
	}
	loc, ok := p.Locations[name]
	if !ok {
		return nil, false
	}
	v, ok := p.Values[loc]
	return v, ok
}

// UploadedTextures counts textures that received pixel data.
func (b *Backend) UploadedTextures() int {
	n := 0
	for _, tex := range b.Textures {
		if tex.Uploads > 0 {
			n++
		}
	}
	return n
}

// LiveTextures counts textures that were created and not destroyed.
func (b *Backend) LiveTextures() int {
	n := 0
	for _, tex := range b.Textures {
		if !tex.Destroyed {
			n++
		}
	}
	return n
}

func stageName(s *Shader) string {
	if s == nil {
		return "unknown"
	}
	return s.Stage.String()
}
