package render

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/isomesh"
)

// Shading selects the fragment shading model used by RenderImage.
type Shading int

const (
	// ShadingLambert shades with N·L scaled to [0.25, 1] so faces pointing
	// away from the light are dimmed but never black.
	ShadingLambert Shading = iota
	// ShadingPhong uses fauxgl's Phong shader with the light at LightDir.
	ShadingPhong
)

// ParseShading parses the name of a shading model.
func ParseShading(s string) (Shading, error) {
	switch s {
	case "lambert", "":
		return ShadingLambert, nil
	case "phong":
		return ShadingPhong, nil
	}
	return 0, fmt.Errorf("unknown shading %q", s)
}

// ImageConfig configures RenderImage.
type ImageConfig struct {
	Width, Height int
	// Supersample renders at a multiple of the output size and downscales
	// the result for antialiasing. Values below 1 are taken as 1.
	Supersample int
	// FitUnitCube scales and translates the mesh into the cube [-1,1]³
	// before rendering so one view works for any mesh size.
	FitUnitCube bool

	Eye    ms3.Vec // camera position
	LookAt ms3.Vec // view center position
	Up     ms3.Vec // up vector
	// FovY is the vertical field of view in degrees.
	FovY      float64
	Near, Far float64

	Shading Shading
	// LightDir is the direction towards the light.
	LightDir    ms3.Vec
	ObjectColor string // hex color, i.e. "#468966"
	Background  string
}

// DefaultImageConfig returns an isometric view of the mesh fitted to the unit cube.
func DefaultImageConfig() ImageConfig {
	return ImageConfig{
		Width:       768,
		Height:      432,
		Supersample: 2,
		FitUnitCube: true,
		Eye:         ms3.Vec{X: 2.4, Y: 2.4, Z: 2.4},
		Up:          ms3.Vec{Z: 1},
		FovY:        30,
		Near:        1,
		Far:         10,
		Shading:     ShadingPhong,
		LightDir:    ms3.Vec{X: -0.75, Y: 1, Z: 0.25},
		ObjectColor: "#468966",
		Background:  "#FFF8E3",
	}
}

// RenderImage rasterizes a mesh with smooth normals on the CPU.
// Normals need not be unit length.
func RenderImage(m isomesh.SmoothMesh, cfg ImageConfig) (image.Image, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.New("image dimensions must be positive")
	} else if cfg.Near <= 0 || cfg.Far <= cfg.Near {
		return nil, errors.New("invalid near/far clipping planes")
	} else if cfg.FovY <= 0 || cfg.FovY >= 180 {
		return nil, errors.New("field of view must be in (0, 180) degrees")
	}
	vertices, err := isomesh.Assemble(m.Positions, m.Normals)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if len(m.Indices) == 0 {
		return nil, errors.New("empty triangle slice")
	}
	scale := cfg.Supersample
	if scale < 1 {
		scale = 1
	}
	mesh := fauxglMesh(vertices, m.Indices)
	if cfg.FitUnitCube {
		// fit mesh in a bi-unit cube centered at the origin
		mesh.BiUnitCube()
	}
	var (
		eye    = fauxglVec(cfg.Eye)
		center = fauxglVec(cfg.LookAt)
		up     = fauxglVec(cfg.Up)
		light  = fauxglVec(cfg.LightDir).Normalize()
		color  = fauxgl.HexColor(cfg.ObjectColor)
	)
	// create a rendering context
	context := fauxgl.NewContext(cfg.Width*scale, cfg.Height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor(cfg.Background))
	context.Cull = fauxgl.CullBack // outward counter-clockwise winding
	// create transformation matrix
	aspect := float64(cfg.Width) / float64(cfg.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(cfg.FovY, aspect, cfg.Near, cfg.Far)
	switch cfg.Shading {
	case ShadingPhong:
		shader := fauxgl.NewPhongShader(matrix, light, eye)
		shader.ObjectColor = color
		context.Shader = shader
	case ShadingLambert:
		context.Shader = &lambertShader{matrix: matrix, light: light, color: color}
	default:
		return nil, fmt.Errorf("unknown shading %d", cfg.Shading)
	}
	context.DrawMesh(mesh)
	img := context.Image()
	if scale > 1 {
		// downsample image for antialiasing
		img = resize.Resize(uint(cfg.Width), uint(cfg.Height), img, resize.Bilinear)
	}
	return img, nil
}

// SavePNG writes img to path in PNG format.
func SavePNG(path string, img image.Image) error {
	return fauxgl.SavePNG(path, img)
}

func fauxglMesh(vertices []isomesh.Vertex, indices []uint32) *fauxgl.Mesh {
	tris := make([]*fauxgl.Triangle, 0, len(indices)/3)
	for i := 0; i < len(indices); i += 3 {
		var v [3]fauxgl.Vertex
		for j := range v {
			vert := vertices[indices[i+j]]
			v[j] = fauxgl.Vertex{Position: fauxglVec(vert.Position), Normal: fauxglVec(vert.Normal)}
		}
		tris = append(tris, fauxgl.NewTriangle(v[0], v[1], v[2]))
	}
	return fauxgl.NewTriangleMesh(tris)
}

func fauxglVec(v ms3.Vec) fauxgl.Vector {
	return fauxgl.V(float64(v.X), float64(v.Y), float64(v.Z))
}

// lambertShader is a fauxgl.Shader with a single directional light and a
// constant ambient term.
type lambertShader struct {
	matrix fauxgl.Matrix
	light  fauxgl.Vector
	color  fauxgl.Color
}

func (s *lambertShader) Vertex(v fauxgl.Vertex) fauxgl.Vertex {
	v.Output = s.matrix.MulPositionW(v.Position)
	return v
}

func (s *lambertShader) Fragment(v fauxgl.Vertex) fauxgl.Color {
	const ambient = 0.25
	intensity := ambient
	if n := v.Normal; n.Length() > 0 {
		intensity = n.Normalize().Dot(s.light)*(1-ambient) + ambient
	}
	intensity = math.Max(0, math.Min(1, intensity))
	return fauxgl.Color{R: s.color.R * intensity, G: s.color.G * intensity, B: s.color.B * intensity, A: 1}
}
