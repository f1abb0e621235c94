// Package isomesh turns implicit scalar fields into triangle meshes with
// smooth per-vertex shading normals.
package isomesh

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// Source is a scalar field sampled in 3D space. The value is negative
// inside the surface, positive outside and zero on it.
//
// Implementations must not hold mutable state: extractors may call Sample
// from several goroutines at once and in any order.
type Source interface {
	// Sample returns the field value at (x, y, z). It should return a finite
	// value for any finite input, including points far from the surface.
	Sample(x, y, z float32) float32
}

// SourceFunc adapts an ordinary function to the Source interface.
type SourceFunc func(x, y, z float32) float32

// Sample calls f(x, y, z).
func (f SourceFunc) Sample(x, y, z float32) float32 { return f(x, y, z) }

// SampleVec samples s at point p.
func SampleVec(s Source, p ms3.Vec) float32 {
	return s.Sample(p.X, p.Y, p.Z)
}

// ErrLengthMismatch is returned when parallel buffers differ in length.
var ErrLengthMismatch = errors.New("buffer length mismatch")

// EvaluateBatch samples s at every position in pos and stores the results
// in dist. pos and dist must be of the same length.
func EvaluateBatch(s Source, pos []ms3.Vec, dist []float32) error {
	if len(pos) != len(dist) {
		return fmt.Errorf("%d positions and %d distances: %w", len(pos), len(dist), ErrLengthMismatch)
	}
	for i, p := range pos {
		dist[i] = s.Sample(p.X, p.Y, p.Z)
	}
	return nil
}

// Torus is a ring torus lying in the XY plane. R1 is the distance from the
// torus center to the center of the tube and R2 is the tube radius.
type Torus struct {
	R1, R2 float32
	Center ms3.Vec
}

var _ Source = Torus{}

// NewTorus returns a torus centered at center. The tube radius r2 must be
// smaller than the ring radius r1.
func NewTorus(r1, r2 float32, center ms3.Vec) (Torus, error) {
	if r1 <= 0 || r2 <= 0 {
		return Torus{}, errors.New("invalid torus parameter")
	} else if r2 >= r1 {
		return Torus{}, errors.New("too large torus ring radius")
	}
	return Torus{R1: r1, R2: r2, Center: center}, nil
}

// UnitTorus returns a torus with R1=1/4 and R2=1/10 centered in the unit cube.
func UnitTorus() Torus {
	return Torus{R1: 1. / 4, R2: 1. / 10, Center: ms3.Vec{X: 0.5, Y: 0.5, Z: 0.5}}
}

// Sample returns the signed distance from (x,y,z) to the torus surface.
func (t Torus) Sample(x, y, z float32) float32 {
	x -= t.Center.X
	y -= t.Center.Y
	z -= t.Center.Z
	qx := math32.Hypot(x, y) - t.R1
	return math32.Hypot(qx, z) - t.R2
}

// Bounds returns the box that contains the torus.
func (t Torus) Bounds() ms3.Box {
	R := t.R1 + t.R2
	ext := ms3.Vec{X: R, Y: R, Z: t.R2}
	return ms3.Box{Min: ms3.Sub(t.Center, ext), Max: ms3.Add(t.Center, ext)}
}

// Sphere is the signed distance field of a sphere.
type Sphere struct {
	Radius float32
	Center ms3.Vec
}

var _ Source = Sphere{}

// NewSphere returns a sphere of radius r centered at center.
func NewSphere(r float32, center ms3.Vec) (Sphere, error) {
	if r <= 0 {
		return Sphere{}, errors.New("zero or negative sphere radius")
	}
	return Sphere{Radius: r, Center: center}, nil
}

func (s Sphere) Sample(x, y, z float32) float32 {
	return ms3.Norm(ms3.Vec{X: x - s.Center.X, Y: y - s.Center.Y, Z: z - s.Center.Z}) - s.Radius
}

// Bounds returns the box that contains the sphere.
func (s Sphere) Bounds() ms3.Box {
	ext := ms3.Vec{X: s.Radius, Y: s.Radius, Z: s.Radius}
	return ms3.Box{Min: ms3.Sub(s.Center, ext), Max: ms3.Add(s.Center, ext)}
}

type union struct{ a, b Source }

// Union returns the union of two fields.
func Union(a, b Source) Source {
	mustNotNil(a, b)
	return union{a: a, b: b}
}

func (u union) Sample(x, y, z float32) float32 {
	return math32.Min(u.a.Sample(x, y, z), u.b.Sample(x, y, z))
}

type intersection struct{ a, b Source }

// Intersection returns the region contained in both fields.
func Intersection(a, b Source) Source {
	mustNotNil(a, b)
	return intersection{a: a, b: b}
}

func (s intersection) Sample(x, y, z float32) float32 {
	return math32.Max(s.a.Sample(x, y, z), s.b.Sample(x, y, z))
}

type difference struct{ a, b Source }

// Difference returns the region of a that is not contained in b.
func Difference(a, b Source) Source {
	mustNotNil(a, b)
	return difference{a: a, b: b}
}

func (s difference) Sample(x, y, z float32) float32 {
	return math32.Max(s.a.Sample(x, y, z), -s.b.Sample(x, y, z))
}

type translation struct {
	s      Source
	offset ms3.Vec
}

// Translate moves a field by offset.
func Translate(s Source, offset ms3.Vec) Source {
	mustNotNil(s)
	return translation{s: s, offset: offset}
}

func (t translation) Sample(x, y, z float32) float32 {
	return t.s.Sample(x-t.offset.X, y-t.offset.Y, z-t.offset.Z)
}

func mustNotNil(s ...Source) {
	for _, src := range s {
		if src == nil {
			panic("nil Source argument")
		}
	}
}
