package loaders

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/g3n/engine/loader/obj"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/spaghettifunk/modelview/engine/resources"
)

// OBJImporter reads Wavefront OBJ files and their material library. Each
// object is split into one mesh per material it uses.
type OBJImporter struct{}

func NewOBJImporter() *OBJImporter {
	return &OBJImporter{}
}

func (o *OBJImporter) Extensions() []string {
	return []string{".obj"}
}

func (o *OBJImporter) Import(path string) (*resources.Scene, error) {
	objData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	mtlData := o.readMaterialLibrary(path, objData)

	dec, err := obj.DecodeReader(bytes.NewReader(objData), bytes.NewReader(mtlData))
	if err != nil {
		return nil, err
	}
	for _, w := range dec.Warnings {
		if mtlKeywordHandled(w) {
			core.LogDebug("%s: %s", path, w)
			continue
		}
		core.LogWarn("%s: %s", path, w)
	}

	scene := &resources.Scene{}
	materialIndex := o.readMaterials(dec, mtlData, scene)

	root := &resources.Node{Name: filepath.Base(path), Transform: mgl32.Ident4()}
	for _, object := range dec.Objects {
		node := &resources.Node{Name: object.Name, Transform: mgl32.Ident4()}
		for _, mesh := range o.readObject(dec, object, materialIndex) {
			node.Meshes = append(node.Meshes, len(scene.Meshes))
			scene.Meshes = append(scene.Meshes, mesh)
		}
		root.Children = append(root.Children, node)
	}
	scene.Root = root
	return scene, nil
}

// readMaterialLibrary returns the contents of the mtllib named in the file,
// falling back to the .mtl sharing the model's base name. Missing libraries
// yield no data.
func (o *OBJImporter) readMaterialLibrary(path string, objData []byte) []byte {
	dir := filepath.Dir(path)
	candidates := []string{}
	for _, line := range strings.Split(string(objData), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "mtllib ") {
			candidates = append(candidates, filepath.Join(dir, strings.TrimSpace(line[len("mtllib "):])))
			break
		}
	}
	candidates = append(candidates, strings.TrimSuffix(path, filepath.Ext(path))+".mtl")

	for _, c := range candidates {
		data, err := os.ReadFile(c)
		if err == nil {
			return data
		}
	}
	core.LogDebug("%s: no material library found", path)
	return nil
}

// readMaterials converts the decoded materials, in name order so indices are
// stable, and returns the index of each material name.
func (o *OBJImporter) readMaterials(dec *obj.Decoder, mtlData []byte, scene *resources.Scene) map[string]int {
	extras := ParseMaterialLibrary(bytes.NewReader(mtlData))

	names := make([]string, 0, len(dec.Materials))
	for name := range dec.Materials {
		names = append(names, name)
	}
	sort.Strings(names)

	index := make(map[string]int, len(names)+1)
	for _, name := range names {
		m := dec.Materials[name]
		mat := resources.NewMaterial(name)
		mat.AddTexture(resources.TextureKindDiffuse, m.MapKd)
		if extra, ok := extras[name]; ok {
			for kind, paths := range extra.Textures {
				if kind == resources.TextureKindDiffuse {
					continue
				}
				for _, p := range paths {
					mat.AddTexture(kind, p)
				}
			}
		}
		index[name] = len(scene.Materials)
		scene.Materials = append(scene.Materials, mat)
	}
	index[""] = len(scene.Materials)
	scene.Materials = append(scene.Materials, resources.NewMaterial("default"))
	return index
}

// readObject splits an object by material and rebuilds each part with its
// own vertex list, one vertex per face corner.
func (o *OBJImporter) readObject(dec *obj.Decoder, object obj.Object, materialIndex map[string]int) []*resources.Mesh {
	vertexCount := len(dec.Vertices) / 3
	normalCount := len(dec.Normals) / 3
	uvCount := len(dec.Uvs) / 2

	byMaterial := map[string]*resources.Mesh{}
	var order []string

	for _, face := range object.Faces {
		mesh, ok := byMaterial[face.Material]
		if !ok {
			mi, known := materialIndex[face.Material]
			if !known {
				mi = materialIndex[""]
			}
			mesh = &resources.Mesh{Name: object.Name, MaterialIndex: mi}
			byMaterial[face.Material] = mesh
			order = append(order, face.Material)
		}

		// Normals and UVs are kept only while every corner has one.
		keepNormals := len(mesh.Positions) == len(mesh.Normals)
		keepUVs := len(mesh.Positions) == len(mesh.TexCoords[0])

		corners := make([]uint32, 0, len(face.Vertices))
		for i, vi := range face.Vertices {
			if vi < 0 || vi >= vertexCount {
				core.LogWarn("object %q: vertex index %d out of range", object.Name, vi)
				continue
			}
			pos := mgl32.Vec3{dec.Vertices[vi*3], dec.Vertices[vi*3+1], dec.Vertices[vi*3+2]}

			var normal *mgl32.Vec3
			if i < len(face.Normals) && face.Normals[i] >= 0 && face.Normals[i] < normalCount {
				ni := face.Normals[i]
				n := mgl32.Vec3{dec.Normals[ni*3], dec.Normals[ni*3+1], dec.Normals[ni*3+2]}
				normal = &n
			}
			var uv *mgl32.Vec2
			if i < len(face.Uvs) && face.Uvs[i] >= 0 && face.Uvs[i] < uvCount {
				ti := face.Uvs[i]
				t := mgl32.Vec2{dec.Uvs[ti*2], dec.Uvs[ti*2+1]}
				uv = &t
			}

			corners = append(corners, uint32(len(mesh.Positions)))
			mesh.Positions = append(mesh.Positions, pos)
			if keepNormals && normal != nil {
				mesh.Normals = append(mesh.Normals, *normal)
			} else {
				keepNormals = false
				mesh.Normals = nil
			}
			if keepUVs && uv != nil {
				mesh.TexCoords[0] = append(mesh.TexCoords[0], *uv)
			} else {
				keepUVs = false
				mesh.TexCoords[0] = nil
			}
		}
		mesh.Faces = append(mesh.Faces, corners)
	}

	meshes := make([]*resources.Mesh, 0, len(order))
	for _, name := range order {
		meshes = append(meshes, byMaterial[name])
	}
	return meshes
}

// mtlKeywordHandled reports whether a decoder warning is about a map keyword
// ParseMaterialLibrary reads anyway.
func mtlKeywordHandled(warning string) bool {
	const unsupported = "field not supported: "
	i := strings.Index(warning, unsupported)
	if i < 0 {
		return false
	}
	fields := strings.Fields(warning[i+len(unsupported):])
	if len(fields) == 0 {
		return false
	}
	_, ok := mtlTextureKeywords[strings.ToLower(fields[0])]
	return ok
}
