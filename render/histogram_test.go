package render_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/isomesh"
	"github.com/soypat/isomesh/render"
)

func TestWriteNormalHistogram(t *testing.T) {
	m, err := render.ExtractSmooth(render.NewMarchingTetrahedra(), isomesh.UnitTorus(), 16)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	for _, name := range []string{"hist.png", "hist.svg"} {
		path := filepath.Join(dir, name)
		err = render.WriteNormalHistogram(path, m.Normals, 20)
		if err != nil {
			t.Fatal(err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
	if err := render.WriteNormalHistogram(filepath.Join(dir, "empty.png"), nil, 20); err == nil {
		t.Error("expected error for no normals")
	}
	if err := render.WriteNormalHistogram(filepath.Join(dir, "bins.png"), m.Normals, 0); err == nil {
		t.Error("expected error for zero bins")
	}
}
