package render

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/isomesh"
	"github.com/soypat/isomesh/internal/d3"
	"golang.org/x/sync/errgroup"
)

// MaxResolution is the largest resolution accepted by MarchingTetrahedra.
const MaxResolution = 1024

// MarchingTetrahedra extracts surfaces by sampling a field on a uniform grid
// and splitting every grid cell into six tetrahedra. Vertices are placed on
// grid edges by linear interpolation and shared between neighbouring
// triangles, so the output mesh is welded.
type MarchingTetrahedra struct {
	// Domain is the sampled region. The zero Box samples the unit cube [0,1]³.
	Domain ms3.Box
	// Workers limits the goroutines sampling the field. Zero or negative
	// uses runtime.NumCPU().
	Workers int
}

var _ Extractor = (*MarchingTetrahedra)(nil)

// NewMarchingTetrahedra returns an extractor sampling the unit cube.
func NewMarchingTetrahedra() *MarchingTetrahedra {
	return &MarchingTetrahedra{Domain: ms3.Box(d3.UnitBox())}
}

// Extract samples src on resolution³ cells spanning the domain and returns
// the triangulated zero level set. Triangles are wound so that their raw face
// normal points towards increasing field values, which is outwards for
// fields that are negative inside.
func (mt *MarchingTetrahedra) Extract(src isomesh.Source, resolution int) (isomesh.Mesh, error) {
	if src == nil {
		return isomesh.Mesh{}, errors.New("nil Source")
	} else if resolution < 1 {
		return isomesh.Mesh{}, fmt.Errorf("resolution must be 1 or larger, got %d", resolution)
	} else if resolution > MaxResolution {
		return isomesh.Mesh{}, fmt.Errorf("resolution %d exceeds maximum %d", resolution, MaxResolution)
	}
	domain := mt.Domain
	if domain == (ms3.Box{}) {
		domain = ms3.Box(d3.UnitBox())
	}
	if d3.Box(domain).Empty() {
		return isomesh.Mesh{}, errors.New("empty extraction domain")
	}
	lat := newLattice(domain, resolution)
	err := lat.sample(src, mt.Workers)
	if err != nil {
		return isomesh.Mesh{}, err
	}
	var mc tetraMarcher
	mc.march(lat)
	return mc.mesh, nil
}

// sample evaluates src on every lattice point. Each z-slab of lattice points
// is evaluated as a batch by one goroutine.
func (l *lattice) sample(src isomesh.Source, workers int) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	s := l.points()
	slab := s * s
	var g errgroup.Group
	g.SetLimit(workers)
	for k := 0; k < s; k++ {
		k := k
		g.Go(func() error {
			pos := make([]ms3.Vec, slab)
			for j := 0; j < s; j++ {
				for i := 0; i < s; i++ {
					pos[i+s*j] = l.pos(v3i{i, j, k})
				}
			}
			dist := l.dist[k*slab : (k+1)*slab]
			err := isomesh.EvaluateBatch(src, pos, dist)
			if err != nil {
				return err
			}
			for i, d := range dist {
				if math32.IsNaN(d) || math32.IsInf(d, 0) {
					return fmt.Errorf("field is %v at %v: %w", d, pos[i], ErrNonFiniteSample)
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// tetraMarcher accumulates the mesh generated from a lattice.
type tetraMarcher struct {
	mesh isomesh.Mesh
	// edgeVerts maps a lattice edge, stored with lower index first, to the
	// mesh vertex placed on it. Crossings landing exactly on a lattice point
	// are stored as the edge from that point to itself.
	edgeVerts map[[2]int]uint32
	lat       *lattice
}

func (mc *tetraMarcher) march(l *lattice) {
	mc.lat = l
	mc.edgeVerts = make(map[[2]int]uint32)
	var (
		ids  [8]int
		vals [8]float32
		pos  [8]ms3.Vec
	)
	for k := 0; k < l.n; k++ {
		for j := 0; j < l.n; j++ {
			for i := 0; i < l.n; i++ {
				origin := v3i{i, j, k}
				inside := 0
				for c, off := range cellCorners {
					corner := origin.Add(off)
					ids[c] = l.index(corner)
					vals[c] = l.dist[ids[c]]
					pos[c] = l.pos(corner)
					if vals[c] < 0 {
						inside++
					}
				}
				if inside == 0 || inside == 8 {
					continue // Cell does not cross the surface.
				}
				for _, tet := range cellTetrahedra {
					mc.tetrahedron(
						[4]int{ids[tet[0]], ids[tet[1]], ids[tet[2]], ids[tet[3]]},
						[4]float32{vals[tet[0]], vals[tet[1]], vals[tet[2]], vals[tet[3]]},
						[4]ms3.Vec{pos[tet[0]], pos[tet[1]], pos[tet[2]], pos[tet[3]]},
					)
				}
			}
		}
	}
}

// tetrahedron emits the triangles where the field's zero level set crosses
// the tetrahedron. Corners with negative values are inside.
func (mc *tetraMarcher) tetrahedron(ids [4]int, vals [4]float32, pos [4]ms3.Vec) {
	var in, out [4]int
	nin, nout := 0, 0
	for c := range vals {
		if vals[c] < 0 {
			in[nin] = c
			nin++
		} else {
			out[nout] = c
			nout++
		}
	}
	edge := func(a, b int) uint32 {
		return mc.edgeVertex(ids[a], ids[b], vals[a], vals[b], pos[a], pos[b])
	}
	switch nin {
	case 0, 4:
		return
	case 1:
		a := in[0]
		mc.triangle(edge(a, out[0]), edge(a, out[1]), edge(a, out[2]), pos[a], pos[out[0]])
	case 3:
		a := out[0]
		mc.triangle(edge(a, in[0]), edge(a, in[1]), edge(a, in[2]), pos[in[0]], pos[a])
	case 2:
		a, b := in[0], in[1]
		c, d := out[0], out[1]
		// The crossing points form the quad ac-ad-bd-bc.
		ac, ad, bd, bc := edge(a, c), edge(a, d), edge(b, d), edge(b, c)
		mc.triangle(ac, ad, bd, pos[a], pos[c])
		mc.triangle(ac, bd, bc, pos[b], pos[d])
	}
}

// edgeVertex returns the mesh vertex where the field crosses zero on the
// lattice edge between points ia and ib, creating it if needed.
func (mc *tetraMarcher) edgeVertex(ia, ib int, va, vb float32, pa, pb ms3.Vec) uint32 {
	if ia > ib {
		ia, ib = ib, ia
		va, vb = vb, va
		pa, pb = pb, pa
	}
	t := va / (va - vb)
	key := [2]int{ia, ib}
	if t <= 0 {
		key[1] = ia
	} else if t >= 1 {
		key[0] = ib
	}
	idx, ok := mc.edgeVerts[key]
	if ok {
		return idx
	}
	var p ms3.Vec
	switch {
	case key[0] == key[1] && key[0] == ia:
		p = pa
	case key[0] == key[1]:
		p = pb
	default:
		p = d3.Lerp(pa, pb, t)
	}
	idx = uint32(len(mc.mesh.Positions))
	mc.mesh.Positions = append(mc.mesh.Positions, p)
	mc.edgeVerts[key] = idx
	return idx
}

// triangle appends a triangle wound so its face normal points from the
// inside point pin towards the outside point pout. Triangles that collapsed
// onto a repeated vertex are dropped.
func (mc *tetraMarcher) triangle(i0, i1, i2 uint32, pin, pout ms3.Vec) {
	if i0 == i1 || i1 == i2 || i2 == i0 {
		return
	}
	p := mc.mesh.Positions
	n := isomesh.FaceNormal(p[i0], p[i1], p[i2])
	if ms3.Dot(n, ms3.Sub(pout, pin)) < 0 {
		i1, i2 = i2, i1
	}
	mc.mesh.Indices = append(mc.mesh.Indices, i0, i1, i2)
}
