package isomesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/isomesh/internal/d3"
)

// Weld builds an indexed mesh from a triangle soup by merging triangle
// corners that fall within the same tol sized cell, so that triangles
// sharing an edge also share its vertices. Normals computed on a welded
// mesh are smooth across edges instead of flat per face.
//
// If tol is zero or negative then it is inferred as 1/256th of the shortest edge.
func Weld(tris []ms3.Triangle, tol float32) (Mesh, error) {
	if len(tris) == 0 {
		return Mesh{}, errors.New("empty triangle slice")
	}
	bb := d3.Box{Min: d3.Elem(math.MaxFloat32), Max: d3.Elem(-math.MaxFloat32)}
	minDist2 := float32(math.MaxFloat32)
	maxDist2 := float32(0)
	for i := range tris {
		for j, vert := range tris[i] {
			if !d3.IsFinite(vert) {
				return Mesh{}, fmt.Errorf("triangle %d has non-finite vertex %v", i, vert)
			}
			bb = bb.Include(vert)
			side := ms3.Sub(tris[i][(j+1)%3], vert)
			side2 := ms3.Dot(side, side)
			if side2 > 0 {
				minDist2 = math32.Min(minDist2, side2)
			}
			maxDist2 = math32.Max(maxDist2, side2)
		}
	}
	if maxDist2 == 0 {
		return Mesh{}, errors.New("all triangles are degenerate")
	}
	suggested := math32.Sqrt(minDist2) / 256
	if tol <= 0 {
		tol = suggested
	} else if tol > math32.Sqrt(maxDist2)/2 {
		return Mesh{}, fmt.Errorf("weld tolerance is too large to generate appropiate mesh, suggested tolerance: %g", suggested)
	}
	maxDim := d3.Max(d3.MaxElem(d3.AbsElem(bb.Min), d3.AbsElem(bb.Max)))
	if float64(maxDim)/float64(tol) > math.MaxInt64/2 {
		return Mesh{}, errors.New("weld tolerance too small. overflowed int64")
	}
	// vertex index cache
	cache := make(map[[3]int64]uint32, len(tris))
	ri := 1 / tol
	m := Mesh{
		Positions: make([]ms3.Vec, 0, len(tris)/2+3),
		Indices:   make([]uint32, 0, 3*len(tris)),
	}
	for _, tri := range tris {
		for _, vert := range tri {
			// Scale vert to be integer in resolution-space.
			v := ms3.Scale(ri, vert)
			vi := [3]int64{roundi(v.X), roundi(v.Y), roundi(v.Z)}
			idx, ok := cache[vi]
			if !ok {
				idx = uint32(len(m.Positions))
				cache[vi] = idx
				m.Positions = append(m.Positions, vert)
			}
			m.Indices = append(m.Indices, idx)
		}
	}
	return m, nil
}

func roundi(f float32) int64 {
	return int64(math32.Floor(f + 0.5))
}
