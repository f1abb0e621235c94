package render

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/isomesh/internal/d3"
)

func TestLatticeIndex(t *testing.T) {
	domain := ms3.Box{Min: ms3.Vec{X: -1, Y: 0, Z: 2}, Max: ms3.Vec{X: 1, Y: 4, Z: 3}}
	l := newLattice(domain, 4)
	s := l.points()
	if len(l.dist) != s*s*s {
		t.Fatalf("got %d samples, want %d", len(l.dist), s*s*s)
	}
	seen := make([]bool, len(l.dist))
	for k := 0; k < s; k++ {
		for j := 0; j < s; j++ {
			for i := 0; i < s; i++ {
				idx := l.index(v3i{i, j, k})
				if seen[idx] {
					t.Fatalf("index %d repeated at %v", idx, v3i{i, j, k})
				}
				seen[idx] = true
			}
		}
	}
	if got := l.pos(v3i{}); got != domain.Min {
		t.Errorf("origin lattice point at %v, want %v", got, domain.Min)
	}
	if got := l.pos(v3i{4, 4, 4}); !d3.EqualWithin(got, domain.Max, 1e-6) {
		t.Errorf("last lattice point at %v, want %v", got, domain.Max)
	}
}

func TestCellTetrahedra(t *testing.T) {
	// The six tetrahedra must fill the unit cell without overlapping.
	var volume float32
	for _, tet := range cellTetrahedra {
		var p [4]ms3.Vec
		for i, c := range tet {
			off := cellCorners[c]
			p[i] = ms3.Vec{X: float32(off[0]), Y: float32(off[1]), Z: float32(off[2])}
		}
		a, b, c := ms3.Sub(p[1], p[0]), ms3.Sub(p[2], p[0]), ms3.Sub(p[3], p[0])
		v := math32.Abs(ms3.Dot(a, ms3.Cross(b, c))) / 6
		if math32.Abs(v-1./6) > 1e-6 {
			t.Errorf("tetrahedron %v has volume %g, want 1/6", tet, v)
		}
		volume += v
	}
	if math32.Abs(volume-1) > 1e-6 {
		t.Errorf("tetrahedra volume sum %g, want 1", volume)
	}
}
