package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/df07/go-scene-raytracer/pkg/loaders"
	"github.com/df07/go-scene-raytracer/pkg/output"
	"github.com/df07/go-scene-raytracer/pkg/renderer"
)

// options holds the command line settings. The *Set fields record which
// overrides were given explicitly.
type options struct {
	scene      string
	out        string
	samples    int
	threads    int
	seed       int64
	samplesSet bool
	threadsSet bool
	seedSet    bool
}

func main() {
	sceneName := flag.String("scene", "default", "Built-in scene name or path to a .yaml, .json or .toml scene document")
	outPath := flag.String("out", "", "Output image path; the extension picks the format (ppm, png, jpg, gif, tiff, bmp)")
	samples := flag.Int("samples", loaders.DefaultSamplesPerPixel, "Samples per pixel (overrides the scene document)")
	threads := flag.Int("threads", 0, "Worker goroutines, 0 for all CPUs (overrides the scene document)")
	seed := flag.Int64("seed", 0, "Random seed (overrides the scene document)")
	export := flag.String("export", "", "Write the scene document to a .yaml, .json or .toml file and exit")
	watch := flag.Bool("watch", false, "Re-render whenever the scene file changes")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *help {
		printHelp()
		return
	}

	opts := options{scene: *sceneName, out: *outPath, samples: *samples, threads: *threads, seed: *seed}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "samples":
			opts.samplesSet = true
		case "threads":
			opts.threadsSet = true
		case "seed":
			opts.seedSet = true
		}
	})

	if *export != "" {
		if err := exportScene(opts.scene, *export); err != nil {
			log.Fatal().Err(err).Msg("export failed")
		}
		log.Info().Str("path", *export).Msg("scene exported")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := renderOnce(ctx, opts, time.Now()); err != nil {
		if !*watch {
			log.Fatal().Err(err).Msg("render failed")
		}
		log.Error().Err(err).Msg("render failed")
	}

	if *watch {
		if !loaders.IsSceneFile(opts.scene) {
			log.Fatal().Str("scene", opts.scene).Msg("-watch needs a scene file, not a built-in scene")
		}
		err := watchScene(ctx, opts.scene, func() {
			if err := renderOnce(ctx, opts, time.Now()); err != nil {
				log.Error().Err(err).Msg("render failed")
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Fatal().Err(err).Msg("watch failed")
		}
	}
}

func printHelp() {
	fmt.Println("Scene Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Built-in scenes:")
	for _, info := range loaders.BuiltinScenes() {
		fmt.Printf("  %-10s - %s\n", info.ID, info.Description)
	}
	fmt.Println()
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.png unless -out or the")
	fmt.Println("scene document's output.file_path says otherwise")
}

// sceneID names the output directory for a scene: the built-in name or the
// scene file name without its extension
func sceneID(scene string) string {
	if _, err := loaders.Builtin(scene); err == nil {
		return strings.ToLower(scene)
	}
	base := filepath.Base(scene)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// defaultOutputPath returns output/<scene>/render_<timestamp>.png
func defaultOutputPath(id string, now time.Time) string {
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", id, fmt.Sprintf("render_%s.png", timestamp))
}

// resolveOutputPath prefers -out, then the document's file_path, then the default
func resolveOutputPath(opts options, settings loaders.OutputSettings, now time.Time) string {
	if opts.out != "" {
		return opts.out
	}
	if settings.FilePath != "" {
		return settings.FilePath
	}
	return defaultOutputPath(sceneID(opts.scene), now)
}

// applyOverrides replaces document render settings with explicit flags
func applyOverrides(settings loaders.RenderSettings, opts options) loaders.RenderSettings {
	if opts.samplesSet {
		settings.SamplesPerPixel = opts.samples
	}
	if opts.threadsSet {
		settings.Threads = opts.threads
	}
	if opts.seedSet {
		settings.Seed = opts.seed
		settings.SeedFromClock = false
	}
	return settings
}

// loadScene opens and builds a built-in scene or a scene file
func loadScene(scene string) (*loaders.Description, error) {
	if scene == "" {
		return nil, errors.New("no scene given")
	}
	doc, err := loaders.Open(scene)
	if err != nil {
		return nil, err
	}
	desc, err := doc.Build()
	if err != nil {
		return nil, fmt.Errorf("invalid scene %s: %w", scene, err)
	}
	return desc, nil
}

// exportScene writes the document of a scene in the format of path
func exportScene(scene, path string) error {
	doc, err := loaders.Open(scene)
	if err != nil {
		return err
	}
	format, err := loaders.FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := loaders.Encode(file, doc, format); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// progressReporter returns a row callback that logs every tenth of the rows.
// It is called concurrently from the render workers.
func progressReporter(totalRows int, logger zerolog.Logger) func(row int) {
	var done atomic.Int64
	return func(row int) {
		n := done.Add(1)
		if n*10/int64(totalRows) > (n-1)*10/int64(totalRows) {
			logger.Info().Int64("rowsDone", n).Int("totalRows", totalRows).Msgf("%d%% complete", n*100/int64(totalRows))
		}
	}
}

// renderOnce loads the scene, renders it and saves the image (and thumbnail)
func renderOnce(ctx context.Context, opts options, now time.Time) error {
	desc, err := loadScene(opts.scene)
	if err != nil {
		return err
	}
	settings := applyOverrides(desc.Render, opts)

	logger := log.With().Str("scene", sceneID(opts.scene)).Logger()
	logger.Info().
		Int("width", desc.Output.Width).
		Int("height", desc.Output.Height).
		Int("samples", settings.SamplesPerPixel).
		Int64("seed", settings.Seed).
		Bool("seedFromClock", settings.SeedFromClock).
		Int("primitives", desc.Environment.Len()).
		Msg("rendering")

	config := settings.Config(logger)
	config.OnRowComplete = progressReporter(desc.Output.Height, logger)
	raytracer, err := renderer.New(desc.Environment, desc.Scene, config)
	if err != nil {
		return err
	}

	img, stats, err := raytracer.Render(desc.Output.Width, desc.Output.Height, desc.Output.ColorRange)
	if err != nil {
		return err
	}

	path := resolveOutputPath(opts, desc.Output, now)
	targets := []output.Target{{Path: path, Image: img}}
	if desc.Output.ThumbnailWidth > 0 {
		targets = append(targets, output.Target{
			Path:  output.ThumbnailPath(path),
			Image: output.Thumbnail(img, desc.Output.ThumbnailWidth),
		})
	}
	if err := output.SaveAll(ctx, targets); err != nil {
		return err
	}

	logger.Info().
		Str("path", path).
		Dur("elapsed", stats.Elapsed).
		Int("workers", stats.Workers).
		Float64("hitRatio", stats.HitRatio()).
		Msg("render saved")
	return nil
}

// watchScene calls render whenever the scene file is written. The parent
// directory is watched because editors often replace files instead of writing
// them in place. Bursts of events within the debounce window trigger one render.
func watchScene(ctx context.Context, path string, render func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	log.Info().Str("path", path).Msg("watching scene for changes")

	const debounce = 200 * time.Millisecond
	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			changed, _ := filepath.Abs(event.Name)
			if changed != target || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(debounce)
		case <-timer.C:
			log.Info().Str("path", path).Msg("scene changed")
			render()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("scene watcher error")
		}
	}
}
