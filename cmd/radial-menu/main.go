// Package main provides the radial-menu command. It opens a radial menu
// centered on the mouse pointer, waits for a selection and prints the
// chosen command token on stdout.
//
// Exit status is 0 when a command was chosen, 2 when the menu was
// dismissed and 1 on errors.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/opd-ai/go-radial/internal/config"
	"github.com/opd-ai/go-radial/internal/dialog"
	"github.com/opd-ai/go-radial/internal/overlay"
	"github.com/opd-ai/go-radial/internal/profiling"
	"github.com/opd-ai/go-radial/pkg/radial"
)

// Version is the current version of radial-menu.
// This default value can be overridden at build time using:
//
//	go build -ldflags "-X main.Version=x.y.z"
var Version = "0.1.0-dev"

const (
	exitSelected  = 0
	exitError     = 1
	exitDismissed = 2
)

// fallbackAnchor is used when the pointer position cannot be queried and no
// -x/-y was given.
var fallbackAnchor = image.Pt(640, 400)

type flags struct {
	configPath string
	x, y       int
	exportPath string
	importPath string
	initConfig bool
	version    bool
	debug      bool
	jsonLogs   bool
	noWatch    bool
	leakCheck  bool
	prof       profiling.Config
}

func parseFlags(fs *flag.FlagSet, args []string) (flags, error) {
	var f flags
	fs.StringVar(&f.configPath, "c", "", "Path to the settings file (default $"+config.EnvConfigPath+" or the user config dir)")
	fs.IntVar(&f.x, "x", -1, "Anchor X in screen pixels (default: pointer position)")
	fs.IntVar(&f.y, "y", -1, "Anchor Y in screen pixels (default: pointer position)")
	fs.StringVar(&f.exportPath, "export", "", "Write the command tables to a file and exit")
	fs.StringVar(&f.importPath, "import", "", "Replace the command tables from a file, save and exit")
	fs.BoolVar(&f.initConfig, "init", false, "Write the default settings file if it does not exist and exit")
	fs.BoolVar(&f.version, "v", false, "Print version and exit")
	fs.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&f.jsonLogs, "json", false, "Log as JSON")
	fs.BoolVar(&f.noWatch, "nowatch", false, "Do not reload the settings file when it changes")
	fs.BoolVar(&f.leakCheck, "leakcheck", false, "Report goroutines and heap left behind by the menu session")
	fs.StringVar(&f.prof.CPUProfilePath, "cpuprofile", "", "Write CPU profile to file")
	fs.StringVar(&f.prof.MemProfilePath, "memprofile", "", "Write memory profile to file")
	fs.StringVar(&f.prof.TracePath, "trace", "", "Write execution trace to file")
	err := fs.Parse(args)
	return f, err
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("radial-menu", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f, err := parseFlags(fs, args)
	if err != nil {
		return exitError
	}

	if f.version {
		fmt.Fprintf(stdout, "radial-menu version %s\n", Version)
		return exitSelected
	}

	path := config.ResolvePath(f.configPath)
	// A .env beside the settings file may set the logo and font locations.
	if err := config.LoadDotEnv(filepath.Join(filepath.Dir(path), config.EnvFileName), config.EnvFileName); err != nil {
		fmt.Fprintf(stderr, "Warning: %v\n", err)
	}
	logger := newLogger(f, stderr)

	store := config.NewStore(path)
	switch {
	case f.initConfig:
		return runInit(store, stdout, stderr)
	case f.exportPath != "":
		return runExport(store, f.exportPath, stdout, stderr)
	case f.importPath != "":
		return runImport(store, f.importPath, stdout, stderr)
	}

	profiler := profiling.New(f.prof)
	if f.prof.Enabled() {
		if err := profiler.Start(); err != nil {
			fmt.Fprintf(stderr, "Failed to start profiling: %v\n", err)
			return exitError
		}
		defer func() {
			if err := profiler.Stop(); err != nil {
				fmt.Fprintf(stderr, "Warning: failed to stop profiling: %v\n", err)
			}
		}()
	}

	return runMenu(f, path, logger, stdout, stderr)
}

func newLogger(f flags, stderr io.Writer) radial.Logger {
	level := slog.LevelInfo
	if f.debug {
		level = slog.LevelDebug
	}
	if f.jsonLogs {
		return radial.JSONLogger(stderr, level)
	}
	if f.debug {
		return radial.DebugLogger()
	}
	return radial.DefaultLogger()
}

func runMenu(f flags, path string, logger radial.Logger, stdout, stderr io.Writer) int {
	if w := overlay.TransparencyWarning(overlay.DetectCompositor()); w != "" {
		logger.Warn(w)
	}

	var pointer pointerSource
	display, err := overlay.Connect()
	if err != nil {
		logger.Debug("X11 display unavailable", "error", err)
		display = nil
	} else {
		defer display.Close()
		pointer = display
	}
	anchor := resolveAnchor(f.x, f.y, pointer, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var surfaces radial.Surfaces
	if dialog.Available() {
		surfaces = dialog.New(ctx)
	} else {
		logger.Warn("native dialogs unavailable, editing is disabled")
	}

	host := overlay.NewHost(overlay.HostOptions{
		Title:        "radial-menu",
		Display:      display,
		ExitWhenDone: true,
		OnError: func(err error) {
			logger.Warn("overlay error", "error", err)
		},
	})

	metrics := radial.NewMetrics()
	metrics.RegisterExpvar()
	manager := radial.NewManager(radial.Options{
		ConfigPath:  path,
		Presenter:   host,
		Surfaces:    surfaces,
		Logger:      logger,
		Metrics:     metrics,
		WatchConfig: !f.noWatch,
		OnError: func(err error) {
			// The controller already logs recoverable failures.
			if radial.CategoryOf(err) == radial.CategoryDispatch {
				logger.Error("command handler failed", "error", err)
				return
			}
			logger.Debug("menu error", "category", radial.CategoryOf(err).String(), "error", err)
		},
	})
	defer manager.Close()

	var before profiling.Snapshot
	if f.leakCheck {
		before = profiling.TakeSnapshot()
	}

	session, err := manager.Open(anchor)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to open menu: %v\n", err)
		return exitError
	}
	host.SetSession(session)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received signal, closing menu", "signal", sig.String())
			manager.Dismiss()
		case <-session.Done():
		}
	}()

	if err := host.Run(); err != nil {
		fmt.Fprintf(stderr, "Overlay failed: %v\n", err)
		manager.Dismiss()
		return exitError
	}
	// The window can also be closed by the window manager.
	manager.Dismiss()
	cancel()

	snap := metrics.Snapshot()
	logger.Debug("session finished",
		"renders", snap.Renders,
		"render_failures", snap.RenderFailures,
		"avg_render", snap.RenderLatencyAvg,
		"dialogs", snap.DialogsOpened,
	)
	if f.leakCheck {
		reportLeaks(before, logger)
	}

	token, ok := session.Selection()
	if !ok {
		return exitDismissed
	}
	fmt.Fprintln(stdout, token)
	return exitSelected
}

// resolveAnchor picks the menu center: explicit coordinates first, then the
// pointer position, then fallbackAnchor.
func resolveAnchor(x, y int, pointer pointerSource, logger radial.Logger) image.Point {
	if x >= 0 && y >= 0 {
		return image.Pt(x, y)
	}
	if pointer != nil {
		p, err := pointer.Pointer()
		if err == nil {
			return p
		}
		logger.Warn("failed to query pointer position", "error", err)
	}
	logger.Warn("pointer position unknown, using fallback anchor", "x", fallbackAnchor.X, "y", fallbackAnchor.Y)
	return fallbackAnchor
}

type pointerSource interface {
	Pointer() (image.Point, error)
}

func reportLeaks(before profiling.Snapshot, logger radial.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	after := profiling.Settle(ctx, before.Goroutines, 10*time.Millisecond)
	growth := profiling.Compare(before, after)
	if leaked, reason := growth.Leaks(profiling.DefaultLeakThresholds()); leaked {
		logger.Warn("menu session leaked resources", "reason", reason, "growth", growth.String())
		return
	}
	logger.Info("no leaks after menu session", "growth", growth.String())
}

// runInit writes the default settings unless the file exists.
func runInit(store *config.Store, stdout, stderr io.Writer) int {
	if _, err := os.Stat(store.Path()); err == nil {
		fmt.Fprintf(stderr, "Settings file already exists: %s\n", store.Path())
		return exitError
	}
	if err := store.Save(config.DefaultSettings()); err != nil {
		fmt.Fprintf(stderr, "Failed to write settings: %v\n", err)
		return exitError
	}
	fmt.Fprintf(stdout, "Wrote default settings to %s\n", store.Path())
	return exitSelected
}

// runExport writes the command tables of the current settings to path.
func runExport(store *config.Store, path string, stdout, stderr io.Writer) int {
	res := store.Load()
	if res.Err != nil && !config.IsNotExist(res.Err) {
		fmt.Fprintf(stderr, "Warning: using default settings: %v\n", res.Err)
	}
	if err := store.Export(res.Settings, path); err != nil {
		fmt.Fprintf(stderr, "Export failed: %v\n", err)
		return exitError
	}
	fmt.Fprintf(stdout, "Exported commands to %s\n", path)
	return exitSelected
}

// runImport replaces the command tables from path and saves the settings.
// The settings file is left untouched when the import fails.
func runImport(store *config.Store, path string, stdout, stderr io.Writer) int {
	res := store.Load()
	if res.Err != nil && !config.IsNotExist(res.Err) {
		fmt.Fprintf(stderr, "Warning: using default settings: %v\n", res.Err)
	}
	vr, err := store.Import(res.Settings, path)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}
	if vr != nil {
		for _, w := range vr.Warnings {
			fmt.Fprintf(stderr, "Warning: %v\n", w)
		}
	}
	if err := store.Save(res.Settings); err != nil {
		fmt.Fprintf(stderr, "Failed to save settings: %v\n", err)
		return exitError
	}
	fmt.Fprintf(stdout, "Imported commands from %s into %s\n", path, store.Path())
	return exitSelected
}
