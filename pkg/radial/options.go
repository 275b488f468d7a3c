package radial

import (
	"time"

	"github.com/opd-ai/go-radial/internal/config"
	"github.com/opd-ai/go-radial/internal/menu"
)

// Options configures controllers. Presenter is required.
type Options struct {
	// ConfigPath is the settings file. Empty means config.ResolvePath("").
	ConfigPath string

	// Settings, when set, is used instead of loading ConfigPath. The
	// controller works on a copy; changes are still saved to ConfigPath.
	Settings *config.Settings

	// Timing overrides the double click and debounce windows. Zero fields
	// take menu.DefaultTiming values.
	Timing menu.Timing

	// Presenter shows frames. Required.
	Presenter Presenter

	// Surfaces shows the edit and settings dialogs. Nil disables editing:
	// double clicks that would open a dialog are ignored.
	Surfaces Surfaces

	// RunDialog runs a blocking dialog function. Nil means a new goroutine;
	// tests pass a synchronous runner.
	RunDialog func(func())

	// Logger receives session logs. Nil disables logging.
	Logger Logger

	// Metrics collects counters. Nil means a private instance.
	Metrics *Metrics

	// OnEvent and OnError observe the session. Panics inside them are
	// recovered.
	OnEvent EventHandler
	OnError ErrorHandler

	// WatchConfig reloads the settings when the file changes on disk while
	// the menu is open.
	WatchConfig bool

	// WatchDebounce overrides DefaultWatchDebounce.
	WatchDebounce time.Duration
}

// DefaultOptions returns Options that load the default settings file and
// watch it for edits.
func DefaultOptions() Options {
	return Options{WatchConfig: true}
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = NopLogger()
	}
	if o.Metrics == nil {
		o.Metrics = NewMetrics()
	}
	if o.RunDialog == nil {
		o.RunDialog = func(f func()) { go f() }
	}
	return o
}

func (o Options) store() *config.Store {
	return config.NewStore(config.ResolvePath(o.ConfigPath))
}
