package isomesh_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/isomesh"
	"github.com/soypat/isomesh/internal/d3"
)

func TestTorusSample(t *testing.T) {
	torus := isomesh.UnitTorus()
	c := torus.Center
	for _, test := range []struct {
		p    ms3.Vec
		want float32
	}{
		{p: c, want: torus.R1 - torus.R2},                                           // hole center
		{p: ms3.Add(c, ms3.Vec{X: torus.R1}), want: -torus.R2},                      // tube center
		{p: ms3.Add(c, ms3.Vec{Y: torus.R1 + torus.R2}), want: 0},                   // outer equator
		{p: ms3.Add(c, ms3.Vec{X: torus.R1 - torus.R2}), want: 0},                   // inner equator
		{p: ms3.Add(c, ms3.Vec{X: torus.R1, Z: torus.R2}), want: 0},                 // top of tube
		{p: ms3.Add(c, ms3.Vec{X: -torus.R1, Z: 2 * torus.R2}), want: torus.R2},     // above tube
		{p: ms3.Vec{}, want: math32.Hypot(math32.Hypot(.5, .5)-torus.R1, .5) - torus.R2}, // cube corner
	} {
		got := isomesh.SampleVec(torus, test.p)
		if math32.Abs(got-test.want) > 1e-6 {
			t.Errorf("torus at %v: got %g, want %g", test.p, got, test.want)
		}
	}
}

func TestNewTorus(t *testing.T) {
	for _, test := range []struct {
		r1, r2 float32
		ok     bool
	}{
		{1, 0.5, true},
		{0.25, 0.1, true},
		{0, 0.1, false},
		{1, -1, false},
		{1, 1, false},
		{0.1, 0.2, false},
	} {
		_, err := isomesh.NewTorus(test.r1, test.r2, ms3.Vec{})
		if (err == nil) != test.ok {
			t.Errorf("NewTorus(%g, %g): got error %v, want ok=%v", test.r1, test.r2, err, test.ok)
		}
	}
}

func TestFieldBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	torus := isomesh.UnitTorus()
	sphere, err := isomesh.NewSphere(0.3, ms3.Vec{X: 1, Y: -1, Z: 2})
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		name string
		src  isomesh.Source
		bb   ms3.Box
	}{
		{"torus", torus, torus.Bounds()},
		{"sphere", sphere, sphere.Bounds()},
	} {
		// Points outside the bounds are outside the surface.
		outer := d3.Box(test.bb).ScaleAboutCenter(3)
		for _, p := range outer.RandomSet(rng, 2000) {
			if d3.Box(test.bb).Contains(p) {
				continue
			}
			if d := isomesh.SampleVec(test.src, p); d < 0 {
				t.Fatalf("%s: point %v outside bounds has negative distance %g", test.name, p, d)
			}
		}
	}
}

func TestCSG(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	a, _ := isomesh.NewSphere(0.4, ms3.Vec{X: 0.4, Y: 0.5, Z: 0.5})
	b, _ := isomesh.NewSphere(0.4, ms3.Vec{X: 0.6, Y: 0.5, Z: 0.5})
	union := isomesh.Union(a, b)
	inter := isomesh.Intersection(a, b)
	diff := isomesh.Difference(a, b)
	for _, p := range d3.UnitBox().RandomSet(rng, 1000) {
		da, db := isomesh.SampleVec(a, p), isomesh.SampleVec(b, p)
		inA, inB := da < 0, db < 0
		if got := isomesh.SampleVec(union, p) < 0; got != (inA || inB) {
			t.Errorf("union at %v: got inside=%v", p, got)
		}
		if got := isomesh.SampleVec(inter, p) < 0; got != (inA && inB) {
			t.Errorf("intersection at %v: got inside=%v", p, got)
		}
		if got := isomesh.SampleVec(diff, p) < 0; got != (inA && !inB) && db != 0 {
			t.Errorf("difference at %v: got inside=%v", p, got)
		}
	}
	moved := isomesh.Translate(a, ms3.Vec{X: 0.2})
	if d := isomesh.SampleVec(moved, b.Center); math32.Abs(d+a.Radius) > 1e-6 {
		t.Errorf("translated sphere center: got %g, want %g", d, -a.Radius)
	}
	if !panics(func() { isomesh.Union(a, nil) }) {
		t.Error("expected panic on nil Source")
	}
}

func TestEvaluateBatch(t *testing.T) {
	src := isomesh.SourceFunc(func(x, y, z float32) float32 { return x + 2*y + 3*z })
	pos := []ms3.Vec{{X: 1}, {Y: 1}, {Z: 1}, {X: 1, Y: 1, Z: 1}}
	dist := make([]float32, len(pos))
	if err := isomesh.EvaluateBatch(src, pos, dist); err != nil {
		t.Fatal(err)
	}
	want := []float32{1, 2, 3, 6}
	for i := range want {
		if dist[i] != want[i] {
			t.Errorf("position %v: got %g, want %g", pos[i], dist[i], want[i])
		}
	}
	err := isomesh.EvaluateBatch(src, pos, dist[:2])
	if !errors.Is(err, isomesh.ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
}
