// Package frames post-processes and encodes rendered frames on a worker pool
// while the render loop keeps producing the next frame.
package frames

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"

	"cg-scene-renderer/internal/postprocess"
)

// Output formats.
const (
	FormatWebP = "webp"
	FormatTGA  = "tga"
)

var (
	ErrClosed        = errors.New("frames: writer closed")
	ErrUnknownFormat = errors.New("frames: unknown format")
)

// Config holds the shared settings for an encoding run.
type Config struct {
	OutputDir string
	Format    string
	// Width and Height are the final frame size. Larger submitted frames are
	// downsampled to it.
	Width, Height int
	Effect        postprocess.Effect
	Workers       int
	// Progress is the interval between progress log lines. Zero means 2s.
	Progress time.Duration
	Logger   *slog.Logger
}

// Frame is one rendered image handed to the pool. The writer owns Image after Submit.
type Frame struct {
	Index int
	Time  float64
	Image *image.NRGBA
}

// Result holds the outcome of encoding one frame.
type Result struct {
	Index   int
	Time    float64
	Path    string
	Success bool
	Error   string
}

// Writer is a pool of encoder goroutines fed by Submit.
type Writer struct {
	cfg    Config
	log    *slog.Logger
	frames chan Frame

	mu      sync.Mutex
	results []Result

	wg        sync.WaitGroup
	processed atomic.Int64
	submitted atomic.Int64
	done      chan struct{}
	closed    bool
	start     time.Time
}

// NewWriter creates the output directory and starts the workers.
func NewWriter(cfg Config) (*Writer, error) {
	switch cfg.Format {
	case FormatWebP, FormatTGA:
	case "":
		cfg.Format = FormatWebP
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, cfg.Format)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Progress <= 0 {
		cfg.Progress = 2 * time.Second
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("frames: create %s: %w", cfg.OutputDir, err)
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	w := &Writer{
		cfg:    cfg,
		log:    log,
		frames: make(chan Frame, cfg.Workers*2),
		done:   make(chan struct{}),
		start:  time.Now(),
	}

	go w.report()

	for i := 0; i < cfg.Workers; i++ {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			for f := range w.frames {
				r := w.process(f)
				w.mu.Lock()
				w.results = append(w.results, r)
				w.mu.Unlock()
				w.processed.Add(1)
			}
		}()
	}
	return w, nil
}

// Progress reporter
func (w *Writer) report() {
	ticker := time.NewTicker(w.cfg.Progress)
	defer ticker.Stop()
	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			p := w.processed.Load()
			if p > 0 {
				elapsed := time.Since(w.start).Seconds()
				w.log.Info("encoding", "done", p, "submitted", w.submitted.Load(),
					"fps", fmt.Sprintf("%.1f", float64(p)/elapsed))
			}
		}
	}
}

// Submit queues a frame, blocking while every worker is busy.
func (w *Writer) Submit(ctx context.Context, f Frame) error {
	if w.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case w.frames <- f:
		w.submitted.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close waits for queued frames and returns the results ordered by frame index.
// It must be called from the goroutine that calls Submit.
func (w *Writer) Close() []Result {
	if !w.closed {
		w.closed = true
		close(w.frames)
		w.wg.Wait()
		close(w.done)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	sort.Slice(w.results, func(i, j int) bool { return w.results[i].Index < w.results[j].Index })
	return w.results
}

// FileName is the output name of frame i.
func (w *Writer) FileName(i int) string {
	return fmt.Sprintf("frame_%05d.%s", i, w.cfg.Format)
}

func (w *Writer) process(f Frame) Result {
	res := Result{Index: f.Index, Time: f.Time, Path: w.FileName(f.Index)}
	if err := w.encodeFrame(f, filepath.Join(w.cfg.OutputDir, res.Path)); err != nil {
		res.Error = err.Error()
		w.log.Warn("frame failed", "index", f.Index, "err", err)
		return res
	}
	res.Success = true
	return res
}

func (w *Writer) encodeFrame(f Frame, path string) error {
	if f.Image == nil {
		return errors.New("no image")
	}
	img := f.Image
	if w.cfg.Width > 0 && w.cfg.Height > 0 {
		img = postprocess.Downsample(img, w.cfg.Width, w.cfg.Height)
	}
	img, err := postprocess.Apply(img, w.cfg.Effect)
	if err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(out, img, w.cfg.Format); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Encode writes img to out in the given format.
func Encode(out io.Writer, img image.Image, format string) error {
	switch format {
	case FormatWebP:
		if err := nativewebp.Encode(out, img, nil); err != nil {
			return fmt.Errorf("webp encode: %w", err)
		}
	case FormatTGA:
		if err := tga.Encode(out, img); err != nil {
			return fmt.Errorf("tga encode: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return nil
}
