package isomesh

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// FaceNormal returns the raw face normal (v1-v0)×(v2-v0) of a triangle.
// Its magnitude is twice the triangle's area.
func FaceNormal(v0, v1, v2 ms3.Vec) ms3.Vec {
	return ms3.Cross(ms3.Sub(v1, v0), ms3.Sub(v2, v0))
}

// SmoothNormals computes one normal per position by summing the raw face
// normals of every triangle that references the position. indices holds
// three consecutive vertex indices per triangle. Since face normals are not
// normalized, larger triangles weigh more in the sum. The result is not
// normalized either, see [NormalizeNormals].
//
// Vertices not referenced by any triangle get the zero vector. Degenerate
// triangles contribute a zero (or near zero) vector.
//
// SmoothNormals panics if len(indices) is not a multiple of 3 or if an
// index is out of range of positions.
func SmoothNormals(positions []ms3.Vec, indices []uint32) []ms3.Vec {
	normals := make([]ms3.Vec, len(positions))
	AccumulateNormals(normals, positions, indices)
	return normals
}

// AccumulateNormals adds the raw face normal of every triangle in indices to
// the dst entries of its three vertices. dst must be of the same length as
// positions. It panics under the same conditions as [SmoothNormals].
func AccumulateNormals(dst, positions []ms3.Vec, indices []uint32) {
	if len(dst) != len(positions) {
		panic(fmt.Sprintf("normals buffer length %d does not match %d positions", len(dst), len(positions)))
	}
	if len(indices)%3 != 0 {
		panic(fmt.Sprintf("index count %d is not a multiple of 3", len(indices)))
	}
	nv := uint32(len(positions))
	for i := 0; i < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		if i0 >= nv || i1 >= nv || i2 >= nv {
			panic(outOfRangeMessage(i/3, i0, i1, i2, nv))
		}
		n := FaceNormal(positions[i0], positions[i1], positions[i2])
		dst[i0] = ms3.Add(dst[i0], n)
		dst[i1] = ms3.Add(dst[i1], n)
		dst[i2] = ms3.Add(dst[i2], n)
	}
}

func outOfRangeMessage(tri int, i0, i1, i2, nv uint32) string {
	bad := i0
	if i1 >= nv {
		bad = i1
	} else if i2 >= nv {
		bad = i2
	}
	return fmt.Sprintf("triangle %d references vertex index %d, only %d vertices present", tri, bad, nv)
}

// minTrianglesPerWorker keeps small meshes on a single goroutine.
const minTrianglesPerWorker = 4096

// SmoothNormalsConcurrent computes the same result as [SmoothNormals] using
// up to workers goroutines. Every goroutine accumulates a contiguous range of
// triangles into its own buffer and the buffers are summed once all are done,
// so results may differ from SmoothNormals by float rounding only.
// If workers <= 0 then runtime.NumCPU() is used.
func SmoothNormalsConcurrent(positions []ms3.Vec, indices []uint32, workers int) []ms3.Vec {
	if len(indices)%3 != 0 {
		panic(fmt.Sprintf("index count %d is not a multiple of 3", len(indices)))
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	nt := len(indices) / 3
	workers = min(workers, nt/minTrianglesPerWorker)
	if workers <= 1 {
		return SmoothNormals(positions, indices)
	}
	partials := make([][]ms3.Vec, workers)
	per := (nt + workers - 1) / workers
	var wg sync.WaitGroup
	var mu sync.Mutex
	var recovered any
	for w := 0; w < workers; w++ {
		start := w * per * 3
		end := min((w+1)*per*3, len(indices))
		partials[w] = make([]ms3.Vec, len(positions))
		wg.Add(1)
		go func(dst []ms3.Vec, tris []uint32) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					recovered = r
					mu.Unlock()
				}
			}()
			AccumulateNormals(dst, positions, tris)
		}(partials[w], indices[start:end])
	}
	wg.Wait()
	if recovered != nil {
		panic(recovered) // Out of range index in one of the workers.
	}
	normals := partials[0]
	for _, partial := range partials[1:] {
		for i := range normals {
			normals[i] = ms3.Add(normals[i], partial[i])
		}
	}
	return normals
}

// NormalizeNormals scales every non-zero normal to unit length in place.
// Zero vectors, such as those of unreferenced vertices, are left as zero.
func NormalizeNormals(normals []ms3.Vec) {
	for i, n := range normals {
		norm := ms3.Norm(n)
		if norm == 0 || math32.IsNaN(norm) {
			continue
		}
		normals[i] = ms3.Scale(1/norm, n)
	}
}
