package isomesh

import (
	"fmt"

	"github.com/soypat/glgl/math/ms3"
)

// Vertex is a vertex record ready for upload to a rendering backend.
type Vertex struct {
	Position ms3.Vec
	Normal   ms3.Vec
}

// Assemble copies parallel position and normal buffers into vertex records.
func Assemble(positions, normals []ms3.Vec) ([]Vertex, error) {
	if len(positions) != len(normals) {
		return nil, fmt.Errorf("%d positions and %d normals: %w", len(positions), len(normals), ErrLengthMismatch)
	}
	vertices := make([]Vertex, len(positions))
	for i := range vertices {
		vertices[i] = Vertex{Position: positions[i], Normal: normals[i]}
	}
	return vertices, nil
}

// Interleave flattens vertex records into px,py,pz,nx,ny,nz float groups.
func Interleave(vertices []Vertex) []float32 {
	const stride = 6
	buf := make([]float32, 0, stride*len(vertices))
	for _, v := range vertices {
		buf = append(buf,
			v.Position.X, v.Position.Y, v.Position.Z,
			v.Normal.X, v.Normal.Y, v.Normal.Z,
		)
	}
	return buf
}

// Flatten copies vectors into a flat buffer of 3 floats per vector.
func Flatten(v []ms3.Vec) []float32 {
	buf := make([]float32, 0, 3*len(v))
	for _, p := range v {
		buf = append(buf, p.X, p.Y, p.Z)
	}
	return buf
}

// Unflatten copies a flat buffer of 3 floats per vector into vectors.
func Unflatten(buf []float32) ([]ms3.Vec, error) {
	if len(buf)%3 != 0 {
		return nil, fmt.Errorf("flat buffer length %d is not a multiple of 3", len(buf))
	}
	v := make([]ms3.Vec, len(buf)/3)
	for i := range v {
		v[i] = ms3.Vec{X: buf[3*i], Y: buf[3*i+1], Z: buf[3*i+2]}
	}
	return v, nil
}
