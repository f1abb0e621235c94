package render

import (
	"github.com/soypat/glgl/math/ms3"
)

// v3i is a 3D integer vector indexing lattice points.
type v3i [3]int

// Add adds two vectors. Return v = a + b.
func (a v3i) Add(b v3i) v3i {
	return v3i{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// lattice holds field samples on the points of a uniform grid of n³ cells.
// Samples are stored with x varying fastest.
type lattice struct {
	n      int
	origin ms3.Vec
	step   ms3.Vec
	dist   []float32
}

func newLattice(domain ms3.Box, n int) *lattice {
	s := n + 1
	size := ms3.Sub(domain.Max, domain.Min)
	return &lattice{
		n:      n,
		origin: domain.Min,
		step:   ms3.Scale(1/float32(n), size),
		dist:   make([]float32, s*s*s),
	}
}

// points returns the number of lattice points along an axis.
func (l *lattice) points() int { return l.n + 1 }

func (l *lattice) index(v v3i) int {
	s := l.n + 1
	return v[0] + s*(v[1]+s*v[2])
}

func (l *lattice) pos(v v3i) ms3.Vec {
	return ms3.Add(l.origin, ms3.Vec{
		X: l.step.X * float32(v[0]),
		Y: l.step.Y * float32(v[1]),
		Z: l.step.Z * float32(v[2]),
	})
}

// cellCorners are the offsets of a cell's corners from its origin corner.
var cellCorners = [8]v3i{
	{0, 0, 0},
	{1, 0, 0},
	{1, 1, 0},
	{0, 1, 0},
	{0, 0, 1},
	{1, 0, 1},
	{1, 1, 1},
	{0, 1, 1},
}

// cellTetrahedra splits a cell into six tetrahedra that share the diagonal
// from corner 0 to corner 6. Every cell face is split along the diagonal
// through its lowest corner so neighbouring cells agree on shared faces.
var cellTetrahedra = [6][4]int{
	{0, 1, 2, 6},
	{0, 1, 5, 6},
	{0, 3, 2, 6},
	{0, 3, 7, 6},
	{0, 4, 5, 6},
	{0, 4, 7, 6},
}
