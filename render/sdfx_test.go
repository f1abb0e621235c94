package render_test

import (
	"errors"
	"os"
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/isomesh"
	"github.com/soypat/isomesh/render"
)

func TestSDFXOctree(t *testing.T) {
	if testing.Short() {
		t.Skip("sdfx rendering writes temporary files")
	}
	stdout := os.Stdout
	defer func() {
		os.Stdout = stdout // pesky sdfx prints out stuff
	}()
	os.Stdout, _ = os.Open(os.DevNull)

	center := ms3.Vec{X: 0.5, Y: 0.5, Z: 0.5}
	sphere, _ := isomesh.NewSphere(0.3, center)
	ex := &render.SDFXOctree{TempDir: t.TempDir()}
	m, err := ex.Extract(sphere, 32)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	nt := m.TriangleCount()
	if nt == 0 {
		t.Fatal("no triangles extracted")
	}
	if len(m.Positions) >= nt {
		t.Errorf("mesh does not look welded: %d vertices for %d triangles", len(m.Positions), nt)
	}
	for i, p := range m.Positions {
		if d := isomesh.SampleVec(sphere, p); math32.Abs(d) > 2e-2 {
			t.Fatalf("vertex %d at %v is %g away from the surface", i, p, d)
		}
	}
	if _, err := ex.Extract(sphere, 0); err == nil {
		t.Error("expected error for zero resolution")
	}

	outside := isomesh.SourceFunc(func(x, y, z float32) float32 { return 1 })
	empty, err := ex.Extract(outside, 16)
	if err != nil {
		t.Fatalf("field without surface: %v", err)
	}
	if empty.TriangleCount() != 0 || len(empty.Positions) != 0 {
		t.Errorf("field without surface gave %d triangles", empty.TriangleCount())
	}
	if _, err := render.ExtractSmooth(ex, outside, 16); !errors.Is(err, render.ErrNoSurface) {
		t.Errorf("expected ErrNoSurface, got %v", err)
	}
}
