package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	sdfxrender "github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/isomesh"
	"github.com/soypat/isomesh/internal/d3"
)

// SDFXOctree extracts surfaces with the octree marching cubes renderer of
// github.com/deadsy/sdfx. sdfx outputs a triangle soup through an STL file,
// so the result is welded before being returned.
type SDFXOctree struct {
	// Domain is the sampled region. The zero Box samples the unit cube [0,1]³.
	Domain ms3.Box
	// TempDir is where the intermediate STL file is written. Empty uses
	// the default directory for temporary files.
	TempDir string
}

var _ Extractor = (*SDFXOctree)(nil)

// Extract renders src with resolution cells along the longest domain side.
func (so *SDFXOctree) Extract(src isomesh.Source, resolution int) (isomesh.Mesh, error) {
	if src == nil {
		return isomesh.Mesh{}, errors.New("nil Source")
	} else if resolution < 1 {
		return isomesh.Mesh{}, fmt.Errorf("resolution must be 1 or larger, got %d", resolution)
	} else if resolution > MaxResolution {
		return isomesh.Mesh{}, fmt.Errorf("resolution %d exceeds maximum %d", resolution, MaxResolution)
	}
	domain := so.Domain
	if domain == (ms3.Box{}) {
		domain = ms3.Box(d3.UnitBox())
	}
	if d3.Box(domain).Empty() {
		return isomesh.Mesh{}, errors.New("empty extraction domain")
	}
	dir, err := os.MkdirTemp(so.TempDir, "isomesh-sdfx")
	if err != nil {
		return isomesh.Mesh{}, err
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "surface.stl")
	wrapped := &sdfxSource{src: src, bb: domain}
	sdfxrender.ToSTL(wrapped, resolution, path, &sdfxrender.MarchingCubesOctree{})
	if wrapped.err != nil {
		return isomesh.Mesh{}, wrapped.err
	}

	fp, err := os.Open(path)
	if err != nil {
		return isomesh.Mesh{}, fmt.Errorf("sdfx produced no output: %w", err)
	}
	defer fp.Close()
	info, err := fp.Stat()
	if err != nil {
		return isomesh.Mesh{}, err
	}
	if info.Size() <= stlHeaderSize {
		return isomesh.Mesh{}, nil // No surface crossed the domain.
	}
	tris, err := ReadBinarySTL(fp)
	if err != nil && !errors.Is(err, ErrNormalMismatch) {
		return isomesh.Mesh{}, err
	}
	return isomesh.Weld(tris, 0)
}

// sdfxSource adapts a Source to sdf.SDF3. sdfx renderers have no error
// path so the first non-finite sample is recorded and reported afterwards.
type sdfxSource struct {
	src isomesh.Source
	bb  ms3.Box
	mu  sync.Mutex
	err error
}

func (s *sdfxSource) Evaluate(p sdf.V3) float64 {
	d := s.src.Sample(float32(p.X), float32(p.Y), float32(p.Z))
	if !d3.IsFinite(ms3.Vec{X: d}) {
		s.mu.Lock()
		if s.err == nil {
			s.err = fmt.Errorf("field is %v at %v: %w", d, p, ErrNonFiniteSample)
		}
		s.mu.Unlock()
		return 1
	}
	return float64(d)
}

func (s *sdfxSource) BoundingBox() sdf.Box3 {
	return sdf.Box3{
		Min: sdf.V3{X: float64(s.bb.Min.X), Y: float64(s.bb.Min.Y), Z: float64(s.bb.Min.Z)},
		Max: sdf.V3{X: float64(s.bb.Max.X), Y: float64(s.bb.Max.Y), Z: float64(s.bb.Max.Z)},
	}
}
