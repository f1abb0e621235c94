package d3

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// ms3 vector manipulation routines that glgl does not provide.

func Elem(sides float32) ms3.Vec {
	return ms3.Vec{
		X: sides,
		Y: sides,
		Z: sides,
	}
}

func EqualWithin(a, b ms3.Vec, tol float32) bool {
	return math32.Abs(a.X-b.X) <= tol &&
		math32.Abs(a.Y-b.Y) <= tol &&
		math32.Abs(a.Z-b.Z) <= tol
}

// IsFinite returns true if no vector component is NaN or infinite.
func IsFinite(a ms3.Vec) bool {
	return !(math32.IsNaN(a.X) || math32.IsInf(a.X, 0) ||
		math32.IsNaN(a.Y) || math32.IsInf(a.Y, 0) ||
		math32.IsNaN(a.Z) || math32.IsInf(a.Z, 0))
}

// MinElem return a vector with the minimum components of two vectors.
func MinElem(a, b ms3.Vec) ms3.Vec {
	return ms3.Vec{X: math32.Min(a.X, b.X), Y: math32.Min(a.Y, b.Y), Z: math32.Min(a.Z, b.Z)}
}

// MaxElem return a vector with the maximum components of two vectors.
func MaxElem(a, b ms3.Vec) ms3.Vec {
	return ms3.Vec{X: math32.Max(a.X, b.X), Y: math32.Max(a.Y, b.Y), Z: math32.Max(a.Z, b.Z)}
}

func Max(a ms3.Vec) float32 {
	return math32.Max(a.Z, math32.Max(a.X, a.Y))
}

// Lerp returns a + t*(b-a).
func Lerp(a, b ms3.Vec, t float32) ms3.Vec {
	return ms3.Add(a, ms3.Scale(t, ms3.Sub(b, a)))
}

type Set []ms3.Vec

// Min return the minimum components of a set of vectors.
func (a Set) Min() ms3.Vec {
	vmin := a[0]
	for _, v := range a[1:] {
		vmin = MinElem(vmin, v)
	}
	return vmin
}

// Max return the maximum components of a set of vectors.
func (a Set) Max() ms3.Vec {
	vmax := a[0]
	for _, v := range a[1:] {
		vmax = MaxElem(vmax, v)
	}
	return vmax
}

func AbsElem(a ms3.Vec) ms3.Vec {
	return ms3.Vec{
		X: math32.Abs(a.X),
		Y: math32.Abs(a.Y),
		Z: math32.Abs(a.Z),
	}
}
