package isomesh

import (
	"fmt"

	"github.com/soypat/glgl/math/ms3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes a mesh with smooth normals.
type Stats struct {
	Vertices     int
	Triangles    int
	Degenerate   int // Triangles with zero area.
	Unreferenced int // Vertices not used by any triangle.
	Area         float64
	Bounds       ms3.Box
	// Statistics over the magnitude of the unnormalized vertex normals.
	NormalMean   float64
	NormalStdDev float64
	NormalMin    float64
	NormalMax    float64
}

// ComputeStats calculates mesh statistics. m must pass Validate.
func ComputeStats(m SmoothMesh) (Stats, error) {
	if err := m.Validate(); err != nil {
		return Stats{}, err
	}
	st := Stats{
		Vertices:  len(m.Positions),
		Triangles: len(m.Indices) / 3,
		Bounds:    m.Mesh().Bounds(),
	}
	referenced := make([]bool, len(m.Positions))
	areas := make([]float64, st.Triangles)
	for i := range areas {
		i0, i1, i2 := m.Indices[3*i], m.Indices[3*i+1], m.Indices[3*i+2]
		referenced[i0], referenced[i1], referenced[i2] = true, true, true
		areas[i] = 0.5 * float64(ms3.Norm(FaceNormal(m.Positions[i0], m.Positions[i1], m.Positions[i2])))
		if areas[i] == 0 {
			st.Degenerate++
		}
	}
	for _, ref := range referenced {
		if !ref {
			st.Unreferenced++
		}
	}
	st.Area = floats.Sum(areas)
	if len(m.Normals) == 0 {
		return st, nil
	}
	mags := make([]float64, len(m.Normals))
	for i, n := range m.Normals {
		mags[i] = float64(ms3.Norm(n))
	}
	st.NormalMean, st.NormalStdDev = stat.MeanStdDev(mags, nil)
	st.NormalMin = floats.Min(mags)
	st.NormalMax = floats.Max(mags)
	return st, nil
}

func (st Stats) String() string {
	return fmt.Sprintf("%d vertices, %d triangles (%d degenerate), %d unreferenced vertices, area %.4g, normal magnitude %.4g±%.4g [%.4g, %.4g]",
		st.Vertices, st.Triangles, st.Degenerate, st.Unreferenced, st.Area, st.NormalMean, st.NormalStdDev, st.NormalMin, st.NormalMax)
}
