package render

import (
	"errors"
	"fmt"

	"github.com/soypat/isomesh"
)

// Extractor builds a triangle mesh approximating the zero level set of a
// scalar field. resolution is the number of grid cells along each axis of
// the sampled domain, so work grows with the cube of resolution.
//
// The returned mesh passes [isomesh.Mesh.Validate].
type Extractor interface {
	Extract(src isomesh.Source, resolution int) (isomesh.Mesh, error)
}

var (
	// ErrNonFiniteSample is returned when a Source returns NaN or an infinity.
	ErrNonFiniteSample = errors.New("non-finite field sample")
	// ErrNoSurface is returned by ExtractSmooth when the extracted mesh is empty.
	ErrNoSurface = errors.New("no surface found in domain")
)

// ExtractSmooth extracts the surface of src with ex and computes smooth
// vertex normals for it. The normals are left unnormalized.
func ExtractSmooth(ex Extractor, src isomesh.Source, resolution int) (isomesh.SmoothMesh, error) {
	m, err := ex.Extract(src, resolution)
	if err != nil {
		return isomesh.SmoothMesh{}, err
	}
	if len(m.Indices) == 0 {
		return isomesh.SmoothMesh{}, ErrNoSurface
	}
	// Guard against extractors breaking their contract since SmoothNormals panics.
	if err := m.Validate(); err != nil {
		return isomesh.SmoothMesh{}, fmt.Errorf("extractor %T: %w", ex, err)
	}
	return m.Smooth(), nil
}
