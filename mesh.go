package isomesh

import (
	"errors"
	"fmt"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/isomesh/internal/d3"
)

// ErrIndexOutOfRange is returned by Validate when a triangle references a
// vertex that does not exist.
var ErrIndexOutOfRange = errors.New("vertex index out of range")

// Mesh is an indexed triangle mesh without normals. Every three consecutive
// Indices name the Positions of one triangle. Positions shared by several
// triangles make the mesh welded.
type Mesh struct {
	Positions []ms3.Vec
	Indices   []uint32
}

// Validate checks the index buffer holds whole triangles and that every
// index is in range of Positions.
func (m Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 3", len(m.Indices))
	}
	nv := uint32(len(m.Positions))
	for i, idx := range m.Indices {
		if idx >= nv {
			return fmt.Errorf("triangle %d index %d (vertex count %d): %w", i/3, idx, nv, ErrIndexOutOfRange)
		}
	}
	return nil
}

// TriangleCount returns the number of triangles in the mesh.
func (m Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// Triangle returns the vertex positions of the ith triangle.
func (m Mesh) Triangle(i int) ms3.Triangle {
	i *= 3
	return ms3.Triangle{
		m.Positions[m.Indices[i]],
		m.Positions[m.Indices[i+1]],
		m.Positions[m.Indices[i+2]],
	}
}

// Triangles expands the mesh into a triangle soup.
func (m Mesh) Triangles() []ms3.Triangle {
	tris := make([]ms3.Triangle, m.TriangleCount())
	for i := range tris {
		tris[i] = m.Triangle(i)
	}
	return tris
}

// Bounds returns the bounding box of the mesh positions. The zero Box is
// returned for a mesh with no positions.
func (m Mesh) Bounds() ms3.Box {
	if len(m.Positions) == 0 {
		return ms3.Box{}
	}
	return ms3.Box(d3.Set(m.Positions).Bounds())
}

// Smooth computes smooth vertex normals for the mesh with [SmoothNormals].
func (m Mesh) Smooth() SmoothMesh {
	return SmoothMesh{
		Positions: m.Positions,
		Normals:   SmoothNormals(m.Positions, m.Indices),
		Indices:   m.Indices,
	}
}

// SmoothMesh is a Mesh with one normal per position. Normals[i] belongs to
// Positions[i].
type SmoothMesh struct {
	Positions []ms3.Vec
	Normals   []ms3.Vec
	Indices   []uint32
}

// Mesh returns the mesh without normals.
func (m SmoothMesh) Mesh() Mesh {
	return Mesh{Positions: m.Positions, Indices: m.Indices}
}

// Validate checks the mesh indices and that there is exactly one normal per position.
func (m SmoothMesh) Validate() error {
	if len(m.Normals) != len(m.Positions) {
		return fmt.Errorf("%d normals for %d positions: %w", len(m.Normals), len(m.Positions), ErrLengthMismatch)
	}
	return m.Mesh().Validate()
}
