package isomesh_test

import (
	"errors"
	"testing"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/isomesh"
)

func TestAssembleInterleave(t *testing.T) {
	positions := []ms3.Vec{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}}
	normals := []ms3.Vec{{X: -1}, {Z: 2}}
	vertices, err := isomesh.Assemble(positions, normals)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range vertices {
		if v.Position != positions[i] || v.Normal != normals[i] {
			t.Errorf("vertex %d: got %+v", i, v)
		}
	}
	got := isomesh.Interleave(vertices)
	want := []float32{1, 2, 3, -1, 0, 0, 4, 5, 6, 0, 0, 2}
	if len(got) != len(want) {
		t.Fatalf("got %d floats, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("float %d: got %g, want %g", i, got[i], want[i])
		}
	}

	_, err = isomesh.Assemble(positions, normals[:1])
	if !errors.Is(err, isomesh.ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestFlatten(t *testing.T) {
	v := unitCube().Positions
	buf := isomesh.Flatten(v)
	if len(buf) != 3*len(v) {
		t.Fatalf("got %d floats for %d vectors", len(buf), len(v))
	}
	back, err := isomesh.Unflatten(buf)
	if err != nil {
		t.Fatal(err)
	}
	for i := range v {
		if back[i] != v[i] {
			t.Errorf("vector %d: got %v, want %v", i, back[i], v[i])
		}
	}
	if _, err := isomesh.Unflatten(buf[:4]); err == nil {
		t.Error("expected error for partial vector")
	}
}
