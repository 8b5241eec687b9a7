package systems

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/modelview/engine/assets"
	"github.com/spaghettifunk/modelview/engine/assets/loaders"
	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/spaghettifunk/modelview/engine/math"
	"github.com/spaghettifunk/modelview/engine/renderer"
	"github.com/spaghettifunk/modelview/engine/renderer/metadata"
	"github.com/spaghettifunk/modelview/engine/resources"
)

// SlotMapping decides which material textures feed the normal and height slots.
type SlotMapping int

const (
	// SlotMappingLegacy reads normal maps from the height textures and height
	// maps from the ambient textures, which is how OBJ exporters usually
	// store bump maps.
	SlotMappingLegacy SlotMapping = iota
	// SlotMappingCorrected reads normal maps from the normal textures (falling
	// back to height) and height maps from displacement or height.
	SlotMappingCorrected
)

func ParseSlotMapping(s string) (SlotMapping, error) {
	switch strings.ToLower(s) {
	case "", "legacy":
		return SlotMappingLegacy, nil
	case "corrected":
		return SlotMappingCorrected, nil
	default:
		return SlotMappingLegacy, fmt.Errorf("unknown slot mapping %q", s)
	}
}

func (m SlotMapping) String() string {
	if m == SlotMappingCorrected {
		return "corrected"
	}
	return "legacy"
}

// Model is everything drawable that came out of one model file.
type Model struct {
	ID   string
	Path string
	// Directory of Path, used to resolve texture paths.
	Directory       string
	GammaCorrection bool
	Meshes          []*Mesh
	// Every texture uploaded for this model, in load order. Looked up by Path.
	TexturesLoaded []metadata.Texture
}

// Draw draws every mesh with shader.
func (m *Model) Draw(shader *Shader) {
	for _, mesh := range m.Meshes {
		mesh.Draw(shader)
	}
}

// Release frees the geometry of every mesh and the textures no other model uses.
func (m *Model) Release() {
	for _, mesh := range m.Meshes {
		mesh.Release()
	}
	m.Meshes = nil
	m.TexturesLoaded = nil
}

// VertexCount and IndexCount sum over the meshes.
func (m *Model) VertexCount() int {
	n := 0
	for _, mesh := range m.Meshes {
		n += len(mesh.Vertices)
	}
	return n
}

func (m *Model) IndexCount() int {
	n := 0
	for _, mesh := range m.Meshes {
		n += len(mesh.Indices)
	}
	return n
}

// Extents returns the bounding box of all vertices.
func (m *Model) Extents() math.Extents3D {
	var positions []mgl32.Vec3
	for _, mesh := range m.Meshes {
		for _, v := range mesh.Vertices {
			positions = append(positions, v.Position)
		}
	}
	return math.ComputeExtents(positions)
}

type ModelSystemConfig struct {
	SlotMapping SlotMapping
}

type ModelSystem struct {
	Config *ModelSystemConfig
	// Loaded models by ID.
	Models map[string]*Model
	// sub systems
	assetManager  *assets.AssetManager
	textureSystem *TextureSystem
	backend       renderer.Backend
}

func NewModelSystem(config *ModelSystemConfig, am *assets.AssetManager, ts *TextureSystem, backend renderer.Backend) (*ModelSystem, error) {
	if config == nil {
		config = &ModelSystemConfig{}
	}
	return &ModelSystem{
		Config:        config,
		Models:        make(map[string]*Model),
		assetManager:  am,
		textureSystem: ts,
		backend:       backend,
	}, nil
}

// Load imports the model at path and uploads its meshes and textures. The
// returned model is never nil: if the import fails it has no meshes and the
// diagnostics report StatusFailed. Textures that fail to decode leave the
// model usable with StatusDegraded.
func (ms *ModelSystem) Load(path string, gammaCorrection bool) (*Model, *core.Diagnostics) {
	diag := core.NewDiagnostics()
	model := &Model{
		ID:              core.NewIdentifier("model"),
		Path:            path,
		Directory:       Directory(path),
		GammaCorrection: gammaCorrection,
	}

	res, err := ms.assetManager.LoadAsset(path, metadata.ResourceTypeModel, &loaders.ModelResourceParams{
		PostProcess: resources.DefaultPostProcess,
	})
	if err != nil {
		diag.Fail("import", path, err)
		return model, diag
	}
	defer func() {
		if err := ms.assetManager.UnloadAsset(res); err != nil {
			core.LogWarn("unloading %s: %s", path, err)
		}
	}()

	scene, _ := res.Data.(*resources.Scene)
	if scene == nil || scene.Incomplete() || scene.Root == nil {
		diag.Fail("import", path, core.ErrSceneIncomplete)
		return model, diag
	}

	// Only accepted scenes are tracked; failed loads own nothing to release.
	ms.Models[model.ID] = model
	b := &modelBuilder{system: ms, model: model, scene: scene, diag: diag}
	b.processNode(scene.Root)

	core.LogInfo("model %s loaded from %s: %d meshes, %d textures, %d vertices",
		core.ShortIdentifier(model.ID), path, len(model.Meshes), len(model.TexturesLoaded), model.VertexCount())
	return model, diag
}

// Unload releases a model and forgets it.
func (ms *ModelSystem) Unload(model *Model) {
	if model == nil {
		return
	}
	model.Release()
	delete(ms.Models, model.ID)
}

func (ms *ModelSystem) Shutdown() error {
	for _, model := range ms.Models {
		ms.Unload(model)
	}
	return nil
}

// Directory returns the part of path before its last separator, either '/'
// or '\'. A path without a separator has no directory.
func Directory(path string) string {
	i := strings.LastIndexAny(path, `/\`)
	if i < 0 {
		return ""
	}
	return path[:i]
}

// texturePath resolves a path stored in a material against the model's directory.
func texturePath(directory, rel string) string {
	if directory == "" {
		return rel
	}
	return directory + "/" + rel
}

type modelBuilder struct {
	system *ModelSystem
	model  *Model
	scene  *resources.Scene
	diag   *core.Diagnostics
}

// processNode converts the meshes of node, then recurses into its children.
func (b *modelBuilder) processNode(node *resources.Node) {
	for _, index := range node.Meshes {
		if index < 0 || index >= len(b.scene.Meshes) {
			b.diag.Degrade("mesh", node.Name, fmt.Errorf("node references missing mesh %d", index))
			continue
		}
		b.model.Meshes = append(b.model.Meshes, b.processMesh(b.scene.Meshes[index]))
	}
	for _, child := range node.Children {
		b.processNode(child)
	}
}

func (b *modelBuilder) processMesh(src *resources.Mesh) *Mesh {
	hasNormals := src.HasNormals()
	hasTexCoords := src.HasTexCoords(0)
	hasTangents := src.HasTangentsAndBitangents()

	vertices := make([]math.Vertex, len(src.Positions))
	for i, position := range src.Positions {
		vertex := math.NewVertex(position)
		if hasNormals {
			vertex.Normal = src.Normals[i]
		}
		if hasTexCoords {
			vertex.TexCoords = src.TexCoords[0][i]
			if hasTangents {
				vertex.Tangent = src.Tangents[i]
				vertex.Bitangent = src.Bitangents[i]
			}
		}
		vertices[i] = vertex
	}

	indices := make([]uint32, 0, len(src.Faces)*3)
	dropped := 0
	for _, face := range src.Faces {
		if len(face) != 3 || !indicesInRange(face, len(vertices)) {
			dropped++
			continue
		}
		indices = append(indices, face...)
	}
	if dropped > 0 {
		b.diag.Degrade("mesh", src.Name, fmt.Errorf("dropped %d faces that were not valid triangles", dropped))
	}

	var textures []metadata.Texture
	if src.MaterialIndex >= 0 && src.MaterialIndex < len(b.scene.Materials) {
		material := b.scene.Materials[src.MaterialIndex]
		normalKind, heightKind := b.slotKinds(material)
		textures = append(textures, b.loadMaterialTextures(material, resources.TextureKindDiffuse, metadata.TextureTypeDiffuse)...)
		textures = append(textures, b.loadMaterialTextures(material, resources.TextureKindSpecular, metadata.TextureTypeSpecular)...)
		textures = append(textures, b.loadMaterialTextures(material, normalKind, metadata.TextureTypeNormal)...)
		textures = append(textures, b.loadMaterialTextures(material, heightKind, metadata.TextureTypeHeight)...)
	}

	mesh, err := NewMesh(b.system.backend, b.system.textureSystem, src.Name, vertices, indices, textures)
	if err != nil {
		b.diag.Degrade("upload", src.Name, err)
	}
	return mesh
}

// slotKinds picks the material textures used for the normal and height slots.
func (b *modelBuilder) slotKinds(material *resources.Material) (normal, height resources.TextureKind) {
	if b.system.Config.SlotMapping == SlotMappingLegacy {
		return resources.TextureKindHeight, resources.TextureKindAmbient
	}
	normal = resources.TextureKindNormals
	if material.TextureCount(normal) == 0 {
		normal = resources.TextureKindHeight
	}
	height = resources.TextureKindDisplacement
	if material.TextureCount(height) == 0 && normal != resources.TextureKindHeight {
		height = resources.TextureKindHeight
	}
	return normal, height
}

// loadMaterialTextures returns one texture per material texture of kind.
// Paths already uploaded for this model reuse the existing handle.
func (b *modelBuilder) loadMaterialTextures(material *resources.Material, kind resources.TextureKind, slot metadata.TextureType) []metadata.Texture {
	var textures []metadata.Texture
	for i := 0; i < material.TextureCount(kind); i++ {
		rel, _ := material.Texture(kind, i)

		skip := false
		for j := range b.model.TexturesLoaded {
			if b.model.TexturesLoaded[j].Path == rel {
				texture := b.model.TexturesLoaded[j]
				// The copy takes the requesting slot so Draw binds it to
				// that slot's sampler; the cached record keeps its own type.
				texture.Type = slot
				b.system.textureSystem.Acquire(&texture)
				textures = append(textures, texture)
				skip = true
				break
			}
		}
		if skip {
			continue
		}

		texture, err := b.loadTexture(rel)
		if err != nil {
			b.diag.Degrade("texture", rel, err)
		}
		if texture == nil {
			continue
		}
		loaded := *texture
		loaded.Path = rel
		loaded.Type = slot
		textures = append(textures, loaded)
		b.model.TexturesLoaded = append(b.model.TexturesLoaded, loaded)
	}
	return textures
}

func (b *modelBuilder) loadTexture(rel string) (*metadata.Texture, error) {
	if embedded, ok := b.scene.EmbeddedTexture(rel); ok {
		return b.system.textureSystem.Load(rel, embedded.Data, b.model.GammaCorrection)
	}
	return b.system.textureSystem.Load(texturePath(b.model.Directory, rel), nil, b.model.GammaCorrection)
}

func indicesInRange(face []uint32, count int) bool {
	for _, index := range face {
		if int(index) >= count {
			return false
		}
	}
	return true
}
