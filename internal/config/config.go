// Package config holds the settings of the isomesh command and loads them
// from JSON files and command line flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/isomesh"
	"github.com/soypat/isomesh/render"
)

// Field names.
const (
	FieldTorus  = "torus"
	FieldSphere = "sphere"
)

// Extractor names.
const (
	ExtractorTetra = "tetra"
	ExtractorSDFX  = "sdfx"
)

// Config describes one run of the mesh pipeline. Output file names are
// relative to OutputDir; empty names skip that output.
type Config struct {
	Field       string  `json:"field"`
	MajorRadius float32 `json:"major_radius"`
	MinorRadius float32 `json:"minor_radius"`
	Radius      float32 `json:"radius"`

	Resolution int    `json:"resolution"`
	Extractor  string `json:"extractor"`
	Workers    int    `json:"workers"`
	Normalize  bool   `json:"normalize"`

	OutputDir string `json:"output_dir"`
	STL       string `json:"stl"`
	OBJ       string `json:"obj"`
	PNG       string `json:"png"`
	Histogram string `json:"histogram"`

	ImageWidth  int    `json:"image_width"`
	ImageHeight int    `json:"image_height"`
	Supersample int    `json:"supersample"`
	Shading     string `json:"shading"`
}

// Default returns the settings reproducing the torus demo: a torus in the
// unit cube meshed with 256 cells per side and drawn to a 1024x768 image.
func Default() Config {
	return Config{
		Field:       FieldTorus,
		MajorRadius: 1. / 4,
		MinorRadius: 1. / 10,
		Radius:      0.4,
		Resolution:  256,
		Extractor:   ExtractorTetra,
		OutputDir:   ".",
		PNG:         "torus.png",
		ImageWidth:  1024,
		ImageHeight: 768,
		Supersample: 1,
		Shading:     "lambert",
	}
}

// Load reads a JSON configuration file. Keys missing from the file keep
// their Default values.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Flags are command line overrides. Zero values leave the configuration
// untouched.
type Flags struct {
	Field      string
	Resolution int
	Extractor  string
	Workers    int
	Normalize  bool
	OutputDir  string
	STL        string
	OBJ        string
	PNG        string
	Histogram  string
}

// Resolve returns a copy of cfg with the non-zero flags applied.
func (cfg Config) Resolve(f Flags) Config {
	setString(&cfg.Field, f.Field)
	setString(&cfg.Extractor, f.Extractor)
	setString(&cfg.OutputDir, f.OutputDir)
	setString(&cfg.STL, f.STL)
	setString(&cfg.OBJ, f.OBJ)
	setString(&cfg.PNG, f.PNG)
	setString(&cfg.Histogram, f.Histogram)
	if f.Resolution != 0 {
		cfg.Resolution = f.Resolution
	}
	if f.Workers != 0 {
		cfg.Workers = f.Workers
	}
	cfg.Normalize = cfg.Normalize || f.Normalize
	return cfg
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Validate checks the configuration for values the pipeline cannot run with.
func (cfg Config) Validate() error {
	switch cfg.Field {
	case FieldTorus:
		if cfg.MajorRadius <= 0 || cfg.MinorRadius <= 0 {
			return errors.New("torus radii must be positive")
		} else if cfg.MinorRadius >= cfg.MajorRadius {
			return errors.New("torus minor radius must be smaller than major radius")
		}
	case FieldSphere:
		if cfg.Radius <= 0 {
			return errors.New("sphere radius must be positive")
		}
	default:
		return fmt.Errorf("unknown field %q", cfg.Field)
	}
	if cfg.Resolution < 1 || cfg.Resolution > render.MaxResolution {
		return fmt.Errorf("resolution %d out of range [1, %d]", cfg.Resolution, render.MaxResolution)
	}
	if cfg.Extractor != ExtractorTetra && cfg.Extractor != ExtractorSDFX {
		return fmt.Errorf("unknown extractor %q", cfg.Extractor)
	}
	if cfg.Workers < 0 {
		return errors.New("negative worker count")
	}
	if cfg.PNG != "" {
		if cfg.ImageWidth <= 0 || cfg.ImageHeight <= 0 {
			return errors.New("image dimensions must be positive")
		} else if cfg.Supersample < 0 {
			return errors.New("negative supersample factor")
		}
	}
	if _, err := render.ParseShading(cfg.Shading); err != nil {
		return err
	}
	if cfg.STL == "" && cfg.OBJ == "" && cfg.PNG == "" && cfg.Histogram == "" {
		return errors.New("no outputs requested")
	}
	return nil
}

// Source builds the scalar field named by the configuration, centered in
// the unit cube.
func (cfg Config) Source() (isomesh.Source, error) {
	center := ms3.Vec{X: 0.5, Y: 0.5, Z: 0.5}
	switch cfg.Field {
	case FieldTorus:
		t, err := isomesh.NewTorus(cfg.MajorRadius, cfg.MinorRadius, center)
		if err != nil {
			return nil, err
		}
		return t, nil
	case FieldSphere:
		s, err := isomesh.NewSphere(cfg.Radius, center)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown field %q", cfg.Field)
}

// NewExtractor returns the surface extractor named by the configuration.
func (cfg Config) NewExtractor() (render.Extractor, error) {
	switch cfg.Extractor {
	case ExtractorTetra:
		mt := render.NewMarchingTetrahedra()
		mt.Workers = cfg.Workers
		return mt, nil
	case ExtractorSDFX:
		return &render.SDFXOctree{}, nil
	}
	return nil, fmt.Errorf("unknown extractor %q", cfg.Extractor)
}

// ImageConfig returns the view of the torus demo with the configured
// image size and shading: a camera at (-0.25,-0.25,-0.25) looking at the
// origin, lit from the -y direction.
func (cfg Config) ImageConfig() (render.ImageConfig, error) {
	shading, err := render.ParseShading(cfg.Shading)
	if err != nil {
		return render.ImageConfig{}, err
	}
	return render.ImageConfig{
		Width:       cfg.ImageWidth,
		Height:      cfg.ImageHeight,
		Supersample: cfg.Supersample,
		Eye:         ms3.Vec{X: -0.25, Y: -0.25, Z: -0.25},
		Up:          ms3.Vec{Y: 1},
		FovY:        45,
		Near:        0.01,
		Far:         1000,
		Shading:     shading,
		LightDir:    ms3.Vec{Y: -1},
		ObjectColor: "#AA7539",
		Background:  "#27566B",
	}, nil
}

// Path returns name joined to the output directory, or the empty string
// if name is empty.
func (cfg Config) Path(name string) string {
	if name == "" {
		return ""
	}
	return filepath.Join(cfg.OutputDir, name)
}
