package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"cg-scene-renderer/internal/config"
	"cg-scene-renderer/internal/logx"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.toml (default: "+config.DefaultPath+" if present)")
	scene := flag.String("scene", "", "Scene file (YAML)")
	outputDir := flag.String("output", "", "Output directory (default: frames)")
	frameCount := flag.Int("frames", 0, "Number of frames to render (default: 240)")
	width := flag.Int("width", 0, "Frame width (default: 640)")
	height := flag.Int("height", 0, "Frame height (default: 480)")
	format := flag.String("format", "", "Output format: webp or tga (default: webp)")
	effect := flag.String("effect", "", "Post effect: none, blur, grayscale, edges, sharpen, invert")
	workers := flag.Int("workers", 0, "Number of encoder goroutines (default: NumCPU)")
	auto := flag.Bool("auto", false, "Camera follows the scene's camera path")
	slow := flag.Bool("slow", false, "Slow motion")
	orbit := flag.Bool("orbit", false, "Circle the camera around the scene center")
	watch := flag.Bool("watch", false, "Re-render when the scene file changes")
	vv := flag.Bool("vv", false, "Debug logging")
	v := flag.Bool("v", false, "Verbose logging")
	q := flag.Bool("q", false, "Only log errors")

	flag.Parse()

	log := logx.Setup(logx.Verbosity{Debug: *vv, Verbose: *v, Quiet: *q})

	// Load config
	var cfg config.Config
	var err error
	if *configFile != "" {
		cfg, err = config.Load(*configFile)
	} else {
		cfg, err = config.LoadOptional(config.DefaultPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// CLI flags override config file
	if err := cfg.Resolve(config.Flags{
		Scene:      *scene,
		OutputDir:  *outputDir,
		Frames:     *frameCount,
		Width:      *width,
		Height:     *height,
		Format:     *format,
		Effect:     *effect,
		Workers:    *workers,
		AutoCamera: *auto,
		SlowMotion: *slow,
		Orbit:      *orbit,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Scene == "" && flag.NArg() > 0 {
		cfg.Scene, _ = filepath.Abs(flag.Arg(0))
	}
	if cfg.Scene == "" {
		fmt.Fprintln(os.Stderr, "Error: no scene. Use -scene, a positional argument or config.toml.")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Scene animator → %s\n", cfg.Format)
	fmt.Printf("Scene: %s\n", cfg.Scene)
	fmt.Printf("Frames: %d @ %.0f fps, %dx%d (x%d supersample), Workers: %d\n",
		cfg.Frames, cfg.FPS, cfg.Width, cfg.Height, cfg.Supersample, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	ok := runOnce(ctx, cfg, log)
	if !*watch {
		if !ok {
			os.Exit(1)
		}
		return
	}
	if err := watchScene(ctx, cfg, log); err != nil {
		fmt.Fprintf(os.Stderr, "Error: watch: %v\n", err)
		os.Exit(1)
	}
}

func runOnce(ctx context.Context, cfg config.Config, log *slog.Logger) bool {
	sum, err := renderScene(ctx, cfg, log)
	if err != nil {
		log.Error("render failed", "scene", cfg.Scene, "err", err)
		return false
	}
	fmt.Printf("Done in %.1fs\n", sum.Elapsed.Seconds())
	fmt.Printf("Rendered: %d/%d\n", len(sum.Manifest.Frames), cfg.Frames)
	if n := len(sum.Manifest.Failed); n > 0 {
		fmt.Printf("Failed: %d (first: frame %d)\n", n, sum.Manifest.Failed[0])
	}
	fmt.Printf("Manifest: %s\n", sum.ManifestPath)
	return len(sum.Manifest.Failed) == 0
}

// watchScene re-renders after the scene file is written. Editors often save
// by rename, so the directory is watched rather than the file.
func watchScene(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(cfg.Scene)); err != nil {
		return err
	}
	log.Info("watching", "scene", cfg.Scene)

	const settle = 200 * time.Millisecond
	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(cfg.Scene) {
				continue
			}
			if event.Op&fsnotify.Write == fsnotify.Write ||
				event.Op&fsnotify.Create == fsnotify.Create ||
				event.Op&fsnotify.Rename == fsnotify.Rename {
				timer = time.After(settle)
			}
		case <-timer:
			timer = nil
			fmt.Println("------------------------------------------------------------")
			runOnce(ctx, cfg, log)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher", "err", err)
		}
	}
}
