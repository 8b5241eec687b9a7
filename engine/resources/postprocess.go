package resources

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/modelview/engine/math"
)

// ApplyPostProcess runs the requested steps on every mesh, in the order
// triangulate, normals, UV flip, tangents, then validates the scene.
func ApplyPostProcess(scene *Scene, steps PostProcess) {
	for _, mesh := range scene.Meshes {
		if mesh == nil {
			continue
		}
		if steps&PostProcessTriangulate != 0 {
			triangulate(mesh)
		}
		if steps&PostProcessGenSmoothNormals != 0 && !mesh.HasNormals() {
			mesh.Normals = math.GenerateSmoothNormals(mesh.Positions, triangleIndices(mesh))
		}
		if steps&PostProcessFlipUVs != 0 {
			flipUVs(mesh)
		}
		if steps&PostProcessCalcTangentSpace != 0 && mesh.HasNormals() && mesh.HasTexCoords(0) {
			mesh.Tangents, mesh.Bitangents = math.GenerateTangents(mesh.Positions, mesh.Normals, mesh.TexCoords[0], triangleIndices(mesh))
		}
	}
	Validate(scene)
}

// Validate flags scenes that cannot be rendered.
func Validate(scene *Scene) {
	if scene.Root == nil || len(scene.Meshes) == 0 {
		scene.Flags |= SceneFlagsIncomplete
	}
}

// triangulate fans polygons around their first vertex. Points and lines
// are dropped since they have no area to draw.
func triangulate(mesh *Mesh) {
	faces := make([][]uint32, 0, len(mesh.Faces))
	for _, f := range mesh.Faces {
		switch {
		case len(f) < 3:
			continue
		case len(f) == 3:
			faces = append(faces, f)
		default:
			for i := 1; i+1 < len(f); i++ {
				faces = append(faces, []uint32{f[0], f[i], f[i+1]})
			}
		}
	}
	mesh.Faces = faces
}

func flipUVs(mesh *Mesh) {
	for c := range mesh.TexCoords {
		for i, uv := range mesh.TexCoords[c] {
			mesh.TexCoords[c][i] = mgl32.Vec2{uv.X(), 1 - uv.Y()}
		}
	}
}

// triangleIndices flattens only triangular faces.
func triangleIndices(mesh *Mesh) []uint32 {
	indices := make([]uint32, 0, len(mesh.Faces)*3)
	for _, f := range mesh.Faces {
		if len(f) == 3 {
			indices = append(indices, f...)
		}
	}
	return indices
}
