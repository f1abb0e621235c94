package render

import (
	"bufio"
	"fmt"
	"io"

	"github.com/soypat/isomesh"
)

// WriteOBJ writes the mesh in Wavefront OBJ format with one vertex normal
// per position. Normals are written as stored, OBJ readers normalize them.
func WriteOBJ(w io.Writer, m isomesh.SmoothMesh) error {
	if err := m.Validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %d vertices, %d triangles\n", len(m.Positions), len(m.Indices)/3)
	for _, p := range m.Positions {
		fmt.Fprintf(bw, "v %g %g %g\n", p.X, p.Y, p.Z)
	}
	for _, n := range m.Normals {
		fmt.Fprintf(bw, "vn %g %g %g\n", n.X, n.Y, n.Z)
	}
	for i := 0; i < len(m.Indices); i += 3 {
		// OBJ indices start at 1.
		a, b, c := m.Indices[i]+1, m.Indices[i+1]+1, m.Indices[i+2]+1
		fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
	}
	return bw.Flush()
}
