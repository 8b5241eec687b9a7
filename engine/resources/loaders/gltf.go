package loaders

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/spaghettifunk/modelview/engine/resources"
)

// GLTFImporter reads glTF 2.0 files, both .gltf and .glb. Every primitive
// becomes its own mesh.
type GLTFImporter struct{}

func NewGLTFImporter() *GLTFImporter {
	return &GLTFImporter{}
}

func (g *GLTFImporter) Extensions() []string {
	return []string{".gltf", ".glb"}
}

func (g *GLTFImporter) Import(path string) (*resources.Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, err
	}

	scene := &resources.Scene{}
	imagePaths := g.readImages(doc, scene)
	g.readMaterials(doc, scene, imagePaths)

	// Primitives of the i-th glTF mesh, as indices into scene.Meshes.
	meshPrimitives := make([][]int, len(doc.Meshes))
	for mi, m := range doc.Meshes {
		for pi, prim := range m.Primitives {
			mesh, err := g.readPrimitive(doc, prim)
			if err != nil {
				core.LogWarn("skipping primitive %d of mesh %q: %s", pi, m.Name, err)
				continue
			}
			mesh.Name = m.Name
			meshPrimitives[mi] = append(meshPrimitives[mi], len(scene.Meshes))
			scene.Meshes = append(scene.Meshes, mesh)
		}
	}

	scene.Root = g.readRoot(doc, meshPrimitives)
	return scene, nil
}

// readImages collects embedded images and returns the path each image is
// referenced by.
func (g *GLTFImporter) readImages(doc *gltf.Document, scene *resources.Scene) []string {
	paths := make([]string, len(doc.Images))
	for i, img := range doc.Images {
		switch {
		case img.BufferView != nil:
			if *img.BufferView >= len(doc.BufferViews) {
				core.LogWarn("image %d references missing buffer view %d", i, *img.BufferView)
				continue
			}
			data, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
			if err != nil {
				core.LogWarn("image %d: %s", i, err)
				continue
			}
			paths[i] = g.embed(scene, img.MimeType, data)
		case img.IsEmbeddedResource():
			data, err := img.MarshalData()
			if err != nil {
				core.LogWarn("image %d: %s", i, err)
				continue
			}
			paths[i] = g.embed(scene, mimeFromDataURI(img.URI), data)
		default:
			uri, err := url.PathUnescape(img.URI)
			if err != nil {
				uri = img.URI
			}
			paths[i] = uri
		}
	}
	return paths
}

func (g *GLTFImporter) embed(scene *resources.Scene, mime string, data []byte) string {
	scene.Textures = append(scene.Textures, &resources.EmbeddedTexture{
		FormatHint: strings.TrimPrefix(mime, "image/"),
		Data:       data,
	})
	return resources.EmbeddedTexturePath(len(scene.Textures) - 1)
}

func (g *GLTFImporter) readMaterials(doc *gltf.Document, scene *resources.Scene, imagePaths []string) {
	texturePath := func(index int) string {
		if index < 0 || index >= len(doc.Textures) || doc.Textures[index].Source == nil {
			return ""
		}
		source := *doc.Textures[index].Source
		if source < 0 || source >= len(imagePaths) {
			return ""
		}
		return imagePaths[source]
	}

	for i, m := range doc.Materials {
		name := m.Name
		if name == "" {
			name = fmt.Sprintf("material_%d", i)
		}
		mat := resources.NewMaterial(name)
		if pbr := m.PBRMetallicRoughness; pbr != nil {
			if pbr.BaseColorTexture != nil {
				p := texturePath(pbr.BaseColorTexture.Index)
				// Base colour doubles as the classic diffuse map.
				mat.AddTexture(resources.TextureKindDiffuse, p)
				mat.AddTexture(resources.TextureKindBaseColor, p)
			}
			if pbr.MetallicRoughnessTexture != nil {
				mat.AddTexture(resources.TextureKindMetalnessRoughness, texturePath(pbr.MetallicRoughnessTexture.Index))
			}
		}
		if m.NormalTexture != nil && m.NormalTexture.Index != nil {
			mat.AddTexture(resources.TextureKindNormals, texturePath(*m.NormalTexture.Index))
		}
		if m.OcclusionTexture != nil && m.OcclusionTexture.Index != nil {
			mat.AddTexture(resources.TextureKindLightmap, texturePath(*m.OcclusionTexture.Index))
		}
		if m.EmissiveTexture != nil {
			mat.AddTexture(resources.TextureKindEmissive, texturePath(m.EmissiveTexture.Index))
		}
		scene.Materials = append(scene.Materials, mat)
	}
	// Primitives without a material use a default one at the end.
	scene.Materials = append(scene.Materials, resources.NewMaterial("default"))
}

// accessorAt looks up an accessor by index. gltf.Open does not validate
// accessor references.
func accessorAt(doc *gltf.Document, idx int, attribute string) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("%s references accessor %d of %d", attribute, idx, len(doc.Accessors))
	}
	return doc.Accessors[idx], nil
}

func (g *GLTFImporter) readPrimitive(doc *gltf.Document, prim *gltf.Primitive) (*resources.Mesh, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	accessor, err := accessorAt(doc, posIdx, gltf.POSITION)
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(doc, accessor, nil)
	if err != nil {
		return nil, fmt.Errorf("reading positions: %w", err)
	}

	mesh := &resources.Mesh{
		Positions:     make([]mgl32.Vec3, len(positions)),
		MaterialIndex: len(doc.Materials),
	}
	for i, p := range positions {
		mesh.Positions[i] = mgl32.Vec3(p)
	}
	if prim.Material != nil && *prim.Material < len(doc.Materials) {
		mesh.MaterialIndex = *prim.Material
	}

	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		accessor, err := accessorAt(doc, idx, gltf.NORMAL)
		if err != nil {
			return nil, err
		}
		normals, err := modeler.ReadNormal(doc, accessor, nil)
		if err != nil {
			return nil, fmt.Errorf("reading normals: %w", err)
		}
		mesh.Normals = make([]mgl32.Vec3, len(normals))
		for i, n := range normals {
			mesh.Normals[i] = mgl32.Vec3(n)
		}
	}

	for channel := 0; channel < resources.MaxTexCoordChannels; channel++ {
		idx, ok := prim.Attributes[fmt.Sprintf("TEXCOORD_%d", channel)]
		if !ok {
			continue
		}
		accessor, err := accessorAt(doc, idx, fmt.Sprintf("TEXCOORD_%d", channel))
		if err != nil {
			return nil, err
		}
		uvs, err := modeler.ReadTextureCoord(doc, accessor, nil)
		if err != nil {
			return nil, fmt.Errorf("reading TEXCOORD_%d: %w", channel, err)
		}
		mesh.TexCoords[channel] = make([]mgl32.Vec2, len(uvs))
		for i, uv := range uvs {
			mesh.TexCoords[channel][i] = mgl32.Vec2(uv)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		accessor, err := accessorAt(doc, *prim.Indices, "indices")
		if err != nil {
			return nil, err
		}
		indices, err = modeler.ReadIndices(doc, accessor, nil)
		if err != nil {
			return nil, fmt.Errorf("reading indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	faces, err := primitiveFaces(prim.Mode, indices)
	if err != nil {
		return nil, err
	}
	mesh.Faces = faces
	return mesh, nil
}

func primitiveFaces(mode gltf.PrimitiveMode, indices []uint32) ([][]uint32, error) {
	var faces [][]uint32
	switch mode {
	case gltf.PrimitiveTriangles:
		for i := 0; i+2 < len(indices); i += 3 {
			faces = append(faces, []uint32{indices[i], indices[i+1], indices[i+2]})
		}
	case gltf.PrimitiveTriangleStrip:
		for i := 0; i+2 < len(indices); i++ {
			if i%2 == 0 {
				faces = append(faces, []uint32{indices[i], indices[i+1], indices[i+2]})
			} else {
				faces = append(faces, []uint32{indices[i+1], indices[i], indices[i+2]})
			}
		}
	case gltf.PrimitiveTriangleFan:
		for i := 1; i+1 < len(indices); i++ {
			faces = append(faces, []uint32{indices[0], indices[i], indices[i+1]})
		}
	default:
		return nil, fmt.Errorf("unsupported primitive mode %d", mode)
	}
	return faces, nil
}

// readRoot builds a synthetic root holding the nodes of the default scene.
func (g *GLTFImporter) readRoot(doc *gltf.Document, meshPrimitives [][]int) *resources.Node {
	root := &resources.Node{Name: "root", Transform: mgl32.Ident4()}

	var roots []int
	switch {
	case doc.Scene != nil && *doc.Scene < len(doc.Scenes):
		roots = doc.Scenes[*doc.Scene].Nodes
	case len(doc.Scenes) > 0:
		roots = doc.Scenes[0].Nodes
	default:
		// No scenes: every node that is nobody's child is a root.
		isChild := make([]bool, len(doc.Nodes))
		for _, n := range doc.Nodes {
			for _, c := range n.Children {
				if c < len(isChild) {
					isChild[c] = true
				}
			}
		}
		for i := range doc.Nodes {
			if !isChild[i] {
				roots = append(roots, i)
			}
		}
	}

	visited := make([]bool, len(doc.Nodes))
	var build func(index int) *resources.Node
	build = func(index int) *resources.Node {
		if index < 0 || index >= len(doc.Nodes) || visited[index] {
			return nil
		}
		visited[index] = true
		n := doc.Nodes[index]
		node := &resources.Node{Name: n.Name, Transform: nodeTransform(n)}
		if n.Mesh != nil && *n.Mesh < len(meshPrimitives) {
			node.Meshes = append(node.Meshes, meshPrimitives[*n.Mesh]...)
		}
		for _, c := range n.Children {
			if child := build(c); child != nil {
				node.Children = append(node.Children, child)
			}
		}
		return node
	}
	for _, r := range roots {
		if child := build(r); child != nil {
			root.Children = append(root.Children, child)
		}
	}
	return root
}

func nodeTransform(n *gltf.Node) mgl32.Mat4 {
	var m mgl32.Mat4
	for i, v := range n.Matrix {
		m[i] = float32(v)
	}
	if m != (mgl32.Mat4{}) && m != mgl32.Ident4() {
		return m
	}
	t := mgl32.Translate3D(float32(n.Translation[0]), float32(n.Translation[1]), float32(n.Translation[2]))
	q := mgl32.Quat{
		W: float32(n.Rotation[3]),
		V: mgl32.Vec3{float32(n.Rotation[0]), float32(n.Rotation[1]), float32(n.Rotation[2])},
	}
	s := mgl32.Scale3D(float32(n.Scale[0]), float32(n.Scale[1]), float32(n.Scale[2]))
	if q == (mgl32.Quat{}) {
		q = mgl32.QuatIdent()
	}
	if n.Scale == [3]float64{} {
		s = mgl32.Ident4()
	}
	return t.Mul4(q.Mat4()).Mul4(s)
}

func mimeFromDataURI(uri string) string {
	// data:image/png;base64,...
	rest := strings.TrimPrefix(uri, "data:")
	if i := strings.IndexAny(rest, ";,"); i >= 0 {
		return rest[:i]
	}
	return ""
}
