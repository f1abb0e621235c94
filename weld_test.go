package isomesh_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/isomesh"
	"github.com/soypat/isomesh/internal/d3"
)

func TestWeldCube(t *testing.T) {
	cube := unitCube()
	soup := cube.Triangles()
	welded, err := isomesh.Weld(soup, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := welded.Validate(); err != nil {
		t.Fatal(err)
	}
	if len(welded.Positions) != len(cube.Positions) {
		t.Errorf("got %d welded vertices, want %d", len(welded.Positions), len(cube.Positions))
	}
	if welded.TriangleCount() != len(soup) {
		t.Fatalf("got %d triangles, want %d", welded.TriangleCount(), len(soup))
	}
	for i, tri := range soup {
		if got := welded.Triangle(i); got != tri {
			t.Errorf("triangle %d: got %v, want %v", i, got, tri)
		}
	}
	// Welded cube corners get smooth normals pointing away from the center.
	center := ms3.Vec{X: 0.5, Y: 0.5, Z: 0.5}
	normals := isomesh.SmoothNormals(welded.Positions, welded.Indices)
	for i, n := range normals {
		if ms3.Dot(n, ms3.Sub(welded.Positions[i], center)) <= 0 {
			t.Errorf("corner %v: normal %v points inwards", welded.Positions[i], n)
		}
	}
}

func TestWeldJitter(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	soup := unitCube().Triangles()
	jitter := d3.NewBox(ms3.Vec{}, d3.Elem(2e-5))
	for i := range soup {
		for j := range soup[i] {
			soup[i][j] = ms3.Add(soup[i][j], jitter.Random(rng))
		}
	}
	welded, err := isomesh.Weld(soup, 1e-3)
	if err != nil {
		t.Fatal(err)
	}
	if len(welded.Positions) != 8 {
		t.Errorf("got %d welded vertices, want 8", len(welded.Positions))
	}
}

func TestWeldErrors(t *testing.T) {
	nan := float32(math.NaN())
	cube := unitCube().Triangles()
	for _, test := range []struct {
		name string
		tris []ms3.Triangle
		tol  float32
	}{
		{"empty", nil, 0},
		{"tolerance too large", cube, 10},
		{"non-finite", []ms3.Triangle{{{X: nan}, {X: 1}, {Y: 1}}}, 0},
		{"degenerate", []ms3.Triangle{{{X: 1}, {X: 1}, {X: 1}}}, 0},
	} {
		_, err := isomesh.Weld(test.tris, test.tol)
		if err == nil {
			t.Errorf("%s: expected error", test.name)
		}
	}
}

// unitCube returns the unit cube [0,1]³ with outward facing triangles.
func unitCube() isomesh.Mesh {
	return isomesh.Mesh{
		Positions: []ms3.Vec{
			{}, {X: 1}, {X: 1, Y: 1}, {Y: 1},
			{Z: 1}, {X: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {Y: 1, Z: 1},
		},
		Indices: []uint32{
			0, 2, 1, 0, 3, 2, // -z
			4, 5, 6, 4, 6, 7, // +z
			0, 1, 5, 0, 5, 4, // -y
			3, 7, 6, 3, 6, 2, // +y
			0, 4, 7, 0, 7, 3, // -x
			1, 2, 6, 1, 6, 5, // +x
		},
	}
}

func TestWeldNegativeTolerance(t *testing.T) {
	soup := unitCube().Triangles()
	inferred, err := isomesh.Weld(soup, 0)
	if err != nil {
		t.Fatal(err)
	}
	negative, err := isomesh.Weld(soup, -1)
	if err != nil {
		t.Fatal(err)
	}
	if len(negative.Positions) != len(inferred.Positions) || len(negative.Indices) != len(inferred.Indices) {
		t.Errorf("negative tolerance welded %d vertices, inferred tolerance %d", len(negative.Positions), len(inferred.Positions))
	}
}
