package d3

import (
	"math/rand"

	"github.com/soypat/glgl/math/ms3"
)

// Box is a 3d bounding box.
type Box ms3.Box

// NewBox creates a 3d box with a given center and size.
// Negative components of size will be interpreted as zero.
func NewBox(center, size ms3.Vec) Box {
	size = MaxElem(size, ms3.Vec{})
	half := ms3.Scale(0.5, size)
	return Box{Min: ms3.Sub(center, half), Max: ms3.Add(center, half)}
}

// UnitBox returns the box spanning [0,1] on every axis.
func UnitBox() Box {
	return Box{Max: Elem(1)}
}

// Bounds returns the smallest box containing every vector of the set.
// The set must not be empty.
func (a Set) Bounds() Box {
	return Box{Min: a.Min(), Max: a.Max()}
}

// Equals test the equality of 3d boxes.
func (a Box) Equals(b Box, tol float32) bool {
	return EqualWithin(a.Min, b.Min, tol) && EqualWithin(a.Max, b.Max, tol)
}

// Include enlarges a 3d box to include a point.
func (a Box) Include(v ms3.Vec) Box {
	return Box{
		Min: MinElem(a.Min, v),
		Max: MaxElem(a.Max, v),
	}
}

// Size returns the size of a 3d box.
func (a Box) Size() ms3.Vec {
	return ms3.Sub(a.Max, a.Min)
}

// Center returns the center of a 3d box.
func (a Box) Center() ms3.Vec {
	return ms3.Add(a.Min, ms3.Scale(0.5, a.Size()))
}

// ScaleAboutCenter returns a new 3d box scaled about the center of a box.
func (a Box) ScaleAboutCenter(k float32) Box {
	return NewBox(a.Center(), ms3.Scale(k, a.Size()))
}

// Empty returns true if the box has no volume.
func (a Box) Empty() bool {
	sz := a.Size()
	return sz.X <= 0 || sz.Y <= 0 || sz.Z <= 0
}

// Contains checks if the 3d box contains the given vector (considering bounds as inside).
func (a Box) Contains(v ms3.Vec) bool {
	return a.Min.X <= v.X && a.Min.Y <= v.Y && a.Min.Z <= v.Z &&
		v.X <= a.Max.X && v.Y <= a.Max.Y && v.Z <= a.Max.Z
}

// Random returns a random point within a bounding box.
func (a Box) Random(rng *rand.Rand) ms3.Vec {
	return ms3.Vec{
		X: randomRange(rng, a.Min.X, a.Max.X),
		Y: randomRange(rng, a.Min.Y, a.Max.Y),
		Z: randomRange(rng, a.Min.Z, a.Max.Z),
	}
}

// RandomSet returns a set of random points from within a bounding box.
func (a Box) RandomSet(rng *rand.Rand, n int) Set {
	s := make([]ms3.Vec, n)
	for i := range s {
		s[i] = a.Random(rng)
	}
	return s
}

// randomRange returns a random float32 [a,b)
func randomRange(rng *rand.Rand, a, b float32) float32 {
	return a + (b-a)*rng.Float32()
}
