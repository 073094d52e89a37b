package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"cg-scene-renderer/internal/camera"
	"cg-scene-renderer/internal/config"
	"cg-scene-renderer/internal/frames"
	"cg-scene-renderer/internal/postprocess"
	"cg-scene-renderer/internal/raster"
	"cg-scene-renderer/internal/scenefile"
)

// Summary is what one render run produced.
type Summary struct {
	Manifest     frames.Manifest
	ManifestPath string
	Elapsed      time.Duration
}

// renderScene loads the scene, runs the frame loop and writes the manifest.
// Each frame advances the drivers, updates the camera, draws the graph and
// hands the image to the encoder pool.
func renderScene(ctx context.Context, cfg config.Config, log *slog.Logger) (Summary, error) {
	start := time.Now()

	effect, err := postprocess.ParseEffect(cfg.Effect)
	if err != nil {
		return Summary{}, err
	}
	doc, err := scenefile.Load(cfg.Scene)
	if err != nil {
		return Summary{}, err
	}
	scene, err := doc.Build()
	if err != nil {
		return Summary{}, fmt.Errorf("build %s: %w", cfg.Scene, err)
	}
	defer func() {
		if err := scene.Release(); err != nil {
			log.Warn("release", "err", err)
		}
	}()
	log.Info("scene loaded", "nodes", scene.Graph.Len(), "drivers", len(scene.Drivers.Drivers()),
		"meshes", len(scene.Meshes))

	in := camera.Input{
		Right:      cfg.Orbit,
		AutoCamera: cfg.AutoCamera,
		SlowMotion: cfg.SlowMotion,
	}
	scene.Drivers.TimeScale = in.TimeScale()

	rw, rh := cfg.Width*cfg.Supersample, cfg.Height*cfg.Supersample
	p := raster.NewPipeline(rw, rh)
	p.Background = scene.Background
	p.SetProjection(camera.Perspective(cfg.FOV, float64(cfg.Width)/float64(cfg.Height), 0.05, 100))

	w, err := frames.NewWriter(frames.Config{
		OutputDir: cfg.OutputDir,
		Format:    cfg.Format,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Effect:    effect,
		Workers:   cfg.Workers,
		Logger:    log,
	})
	if err != nil {
		return Summary{}, err
	}

	dt := cfg.Dt()
	loopErr := func() error {
		for i := 0; i < cfg.Frames; i++ {
			if i == 0 {
				err = scene.Drivers.Apply()
			} else {
				err = scene.Drivers.Step(dt)
			}
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			scene.Camera.Update(in, dt)
			p.SetView(scene.Camera.View())

			p.Begin()
			if err := scene.Graph.Draw(scene.Root, p, raster.ModelUniform); err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			log.Debug("frame drawn", "index", i, "triangles", p.Triangles())
			if err := w.Submit(ctx, frames.Frame{Index: i, Time: float64(i) * dt, Image: p.Image()}); err != nil {
				return err
			}
		}
		return nil
	}()
	results := w.Close()
	if loopErr != nil {
		return Summary{}, loopErr
	}

	m := frames.Manifest{
		Scene:  cfg.Scene,
		Width:  cfg.Width,
		Height: cfg.Height,
		FPS:    cfg.FPS,
		Format: cfg.Format,
	}
	m.Add(results)
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := frames.WriteManifest(manifestPath, m); err != nil {
		return Summary{}, fmt.Errorf("manifest: %w", err)
	}
	return Summary{Manifest: m, ManifestPath: manifestPath, Elapsed: time.Since(start)}, nil
}
