// Command isomesh meshes a scalar field, reconstructs smooth vertex normals
// and writes the result as STL, OBJ, a rendered PNG and a histogram of the
// normal magnitudes.
//
// Usage:
//
//	isomesh [-config file.json] [flags]
package main

import (
	"flag"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/soypat/isomesh"
	"github.com/soypat/isomesh/internal/config"
	"github.com/soypat/isomesh/render"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "JSON configuration file. Defaults reproduce the torus demo")
		f       config.Flags
	)
	flag.StringVar(&f.Field, "field", "", "scalar field to mesh: torus or sphere")
	flag.IntVar(&f.Resolution, "res", 0, "grid cells along each side of the sampled cube")
	flag.StringVar(&f.Extractor, "extractor", "", "surface extractor: tetra or sdfx")
	flag.IntVar(&f.Workers, "workers", 0, "goroutines used for sampling and normals. 0 uses all CPUs")
	flag.BoolVar(&f.Normalize, "normalize", false, "normalize vertex normals before writing")
	flag.StringVar(&f.OutputDir, "o", "", "output directory")
	flag.StringVar(&f.STL, "stl", "", "binary STL output file name")
	flag.StringVar(&f.OBJ, "obj", "", "Wavefront OBJ output file name")
	flag.StringVar(&f.PNG, "png", "", "rendered image output file name")
	flag.StringVar(&f.Histogram, "hist", "", "normal magnitude histogram output file name (.png or .svg)")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		cfg, err = config.Load(*cfgPath)
		if err != nil {
			log.Fatal(err)
		}
	}
	cfg = cfg.Resolve(f)
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration: ", err)
	}
	if err := os.MkdirAll(cfg.OutputDir, 0777); err != nil {
		log.Fatal(err)
	}
	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg config.Config) error {
	src, err := cfg.Source()
	if err != nil {
		return err
	}
	ex, err := cfg.NewExtractor()
	if err != nil {
		return err
	}

	tstart := time.Now()
	mesh, err := ex.Extract(src, cfg.Resolution)
	if err != nil {
		return err
	}
	if err := mesh.Validate(); err != nil {
		return err
	}
	log.Printf("extracted %s at resolution %d with %s extractor: %d vertices, %d triangles in %s",
		cfg.Field, cfg.Resolution, cfg.Extractor, len(mesh.Positions), mesh.TriangleCount(), time.Since(tstart))

	tstart = time.Now()
	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	smooth := isomesh.SmoothMesh{
		Positions: mesh.Positions,
		Indices:   mesh.Indices,
		Normals:   isomesh.SmoothNormalsConcurrent(mesh.Positions, mesh.Indices, workers),
	}
	log.Printf("smooth normals with %d workers in %s", workers, time.Since(tstart))
	// Statistics are taken before normalizing so magnitudes show triangle areas.
	stats, err := isomesh.ComputeStats(smooth)
	if err != nil {
		return err
	}
	log.Println(stats)
	if path := cfg.Path(cfg.Histogram); path != "" {
		if err := render.WriteNormalHistogram(path, smooth.Normals, 50); err != nil {
			return err
		}
		log.Println("wrote", path)
	}
	if cfg.Normalize {
		isomesh.NormalizeNormals(smooth.Normals)
	}

	if path := cfg.Path(cfg.STL); path != "" {
		if err := createFile(path, func(fp *os.File) error {
			_, err := render.WriteBinarySTL(fp, mesh)
			return err
		}); err != nil {
			return err
		}
		log.Println("wrote", path)
	}
	if path := cfg.Path(cfg.OBJ); path != "" {
		if err := createFile(path, func(fp *os.File) error {
			return render.WriteOBJ(fp, smooth)
		}); err != nil {
			return err
		}
		log.Println("wrote", path)
	}
	if path := cfg.Path(cfg.PNG); path != "" {
		view, err := cfg.ImageConfig()
		if err != nil {
			return err
		}
		tstart = time.Now()
		img, err := render.RenderImage(smooth, view)
		if err != nil {
			return err
		}
		if err := render.SavePNG(path, img); err != nil {
			return err
		}
		log.Printf("wrote %s in %s", path, time.Since(tstart))
	}
	return nil
}

func createFile(path string, write func(fp *os.File) error) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(fp); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}
