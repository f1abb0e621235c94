package render

import (
	"errors"

	"github.com/soypat/glgl/math/ms3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// WriteNormalHistogram plots the distribution of normal magnitudes to path.
// The image format is chosen from the file extension, i.e: ".png" or ".svg".
// Smooth normals that were not normalized are proportional to the area of
// the triangles around each vertex, so the histogram shows how uniform the
// triangulation is.
func WriteNormalHistogram(path string, normals []ms3.Vec, bins int) error {
	if len(normals) == 0 {
		return errors.New("no normals to plot")
	} else if bins < 1 {
		return errors.New("histogram needs at least one bin")
	}
	vals := make(plotter.Values, len(normals))
	for i, n := range normals {
		vals[i] = float64(ms3.Norm(n))
	}
	p := plot.New()
	p.Title.Text = "Vertex normal magnitude"
	p.X.Label.Text = "|n|"
	p.Y.Label.Text = "vertices"
	h, err := plotter.NewHist(vals, bins)
	if err != nil {
		return err
	}
	p.Add(h)
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
