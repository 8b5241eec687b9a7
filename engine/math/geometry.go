package math

import "github.com/go-gl/mathgl/mgl32"

// GenerateSmoothNormals averages the face normals around every vertex,
// weighting each face by its area. Vertices sharing the exact same position
// share the result, so split seams stay smooth.
func GenerateSmoothNormals(positions []mgl32.Vec3, indices []uint32) []mgl32.Vec3 {
	groups := make(map[mgl32.Vec3]mgl32.Vec3, len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		if !inRange(len(positions), i0, i1, i2) {
			continue
		}
		// The unnormalized cross product is twice the area of the face.
		n := faceNormal(positions[i0], positions[i1], positions[i2])
		for _, idx := range [3]uint32{i0, i1, i2} {
			p := positions[idx]
			groups[p] = groups[p].Add(n)
		}
	}

	normals := make([]mgl32.Vec3, len(positions))
	for i, p := range positions {
		n := groups[p]
		if n.Len() > K_FLOAT_EPSILON {
			normals[i] = n.Normalize()
		}
	}
	return normals
}

// GenerateTangents computes a per vertex tangent frame from the texture
// coordinates. Triangles with degenerate UVs contribute nothing; vertices
// left without a tangent get an arbitrary one perpendicular to the normal.
func GenerateTangents(positions, normals []mgl32.Vec3, uvs []mgl32.Vec2, indices []uint32) ([]mgl32.Vec3, []mgl32.Vec3) {
	count := len(positions)
	tan := make([]mgl32.Vec3, count)
	bitan := make([]mgl32.Vec3, count)

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		if !inRange(count, i0, i1, i2) || !inRange(len(uvs), i0, i1, i2) {
			continue
		}

		edge1 := positions[i1].Sub(positions[i0])
		edge2 := positions[i2].Sub(positions[i0])

		deltaU1 := uvs[i1].X() - uvs[i0].X()
		deltaV1 := uvs[i1].Y() - uvs[i0].Y()
		deltaU2 := uvs[i2].X() - uvs[i0].X()
		deltaV2 := uvs[i2].Y() - uvs[i0].Y()

		dividend := deltaU1*deltaV2 - deltaU2*deltaV1
		if Abs(dividend) < K_FLOAT_EPSILON {
			continue
		}
		fc := 1.0 / dividend

		t := edge1.Mul(deltaV2).Sub(edge2.Mul(deltaV1)).Mul(fc)
		b := edge2.Mul(deltaU1).Sub(edge1.Mul(deltaU2)).Mul(fc)
		for _, idx := range [3]uint32{i0, i1, i2} {
			tan[idx] = tan[idx].Add(t)
			bitan[idx] = bitan[idx].Add(b)
		}
	}

	for i := 0; i < count; i++ {
		var n mgl32.Vec3
		if i < len(normals) {
			n = normals[i]
		}
		// Gram-Schmidt orthogonalize.
		t := tan[i].Sub(n.Mul(n.Dot(tan[i])))
		if t.Len() <= K_FLOAT_EPSILON {
			t = perpendicular(n)
		} else {
			t = t.Normalize()
		}

		b := n.Cross(t)
		if b.Len() <= K_FLOAT_EPSILON {
			b = bitan[i]
		}
		if b.Dot(bitan[i]) < 0 {
			b = b.Mul(-1)
		}
		if b.Len() > K_FLOAT_EPSILON {
			b = b.Normalize()
		}
		tan[i] = t
		bitan[i] = b
	}
	return tan, bitan
}

// ComputeExtents returns the axis aligned bounds of the given positions.
func ComputeExtents(positions []mgl32.Vec3) Extents3D {
	if len(positions) == 0 {
		return Extents3D{}
	}
	ext := Extents3D{Min: positions[0], Max: positions[0]}
	for _, p := range positions[1:] {
		for axis := 0; axis < 3; axis++ {
			if p[axis] < ext.Min[axis] {
				ext.Min[axis] = p[axis]
			}
			if p[axis] > ext.Max[axis] {
				ext.Max[axis] = p[axis]
			}
		}
	}
	return ext
}

func faceNormal(p0, p1, p2 mgl32.Vec3) mgl32.Vec3 {
	return p1.Sub(p0).Cross(p2.Sub(p0))
}

func perpendicular(n mgl32.Vec3) mgl32.Vec3 {
	axis := mgl32.Vec3{1, 0, 0}
	if Abs(n.X()) > 0.9 {
		axis = mgl32.Vec3{0, 1, 0}
	}
	p := axis.Sub(n.Mul(n.Dot(axis)))
	if p.Len() <= K_FLOAT_EPSILON {
		return axis
	}
	return p.Normalize()
}

func inRange(count int, indices ...uint32) bool {
	for _, idx := range indices {
		if int(idx) >= count {
			return false
		}
	}
	return true
}
