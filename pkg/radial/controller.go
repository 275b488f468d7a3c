package radial

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"reflect"
	"sync"
	"time"

	"github.com/opd-ai/go-radial/internal/config"
	"github.com/opd-ai/go-radial/internal/geometry"
	"github.com/opd-ai/go-radial/internal/menu"
	"github.com/opd-ai/go-radial/internal/render"
)

// Controller runs one menu session. HandleEvent and Tick must be called from
// a single UI goroutine; the accessors are safe from any goroutine.
type Controller struct {
	mu sync.Mutex

	id      SessionID
	log     *SessionLogger
	opts    Options
	store   *config.Store
	metrics *Metrics

	settings *config.Settings
	theme    render.Theme
	fontPath string
	logoPath string

	machine *menu.Machine
	comp    *render.Compositor
	hover   geometry.Target

	origin    image.Point
	size      int
	presented bool

	timer struct {
		armed    bool
		seq      uint64
		deadline time.Time
	}

	results chan dialogResult
	reload  chan struct{}
	watcher *settingsWatcher
	// reloadPending holds a watcher signal that arrived while a dialog was
	// open.
	reloadPending bool

	handlers   []CommandHandler
	selected   string
	dispatched bool
	open       bool
	reason     menu.CloseReason
	done       chan struct{}
}

// dialogResult is sent from a dialog goroutine back to the UI goroutine.
// edit applies the user's change to a copy of the live settings and returns
// the result; it is nil when nothing changed.
type dialogResult struct {
	kind menu.DialogKind
	edit settingsEdit
	err  error
}

type settingsEdit func(s *config.Settings) *config.Settings

// deferred collects work that must run after the lock is released.
type deferred []func()

func (d *deferred) add(f func()) { *d = append(*d, f) }

func (d deferred) run() {
	for _, f := range d {
		f()
	}
}

// NewController opens a menu centered on anchor, in screen coordinates, and
// presents its first frame.
func NewController(anchor image.Point, opts Options) (*Controller, error) {
	if opts.Presenter == nil {
		return nil, ErrNoPresenter
	}
	opts = opts.withDefaults()

	id := NewSessionID()
	c := &Controller{
		id:      id,
		log:     NewSessionLogger(opts.Logger, id),
		opts:    opts,
		store:   opts.store(),
		metrics: opts.Metrics,
		hover:   geometry.None,
		results: make(chan dialogResult, 1),
		reload:  make(chan struct{}, 1),
		open:    true,
		done:    make(chan struct{}),
	}

	var after deferred
	c.settings = c.initialSettings(&after)

	fonts, err := render.NewFontManager()
	if err != nil {
		return nil, fmt.Errorf("failed to load fonts: %w", err)
	}
	c.size = c.settings.WindowSize()
	comp, err := render.NewCompositor(c.size, render.WithFonts(fonts))
	if err != nil {
		fonts.Close()
		return nil, fmt.Errorf("failed to create compositor: %w", err)
	}
	c.comp = comp
	c.origin = anchor.Sub(image.Pt(c.size/2, c.size/2))
	c.applyTheme(&after)

	c.machine = menu.New(c.settings.RingConfig(), c.center(), opts.Timing, menu.ResolverFunc(c.resolve))
	c.metrics.RecordSessionOpened()
	c.redraw(&after)

	if opts.WatchConfig {
		c.startWatcher(&after)
	}

	c.log.Info("menu opened", "origin", c.origin, "size", c.size, "config", c.store.Path())
	c.emit(&after, Event{Type: EventOpened, Message: c.settings.String()})
	after.run()
	return c, nil
}

// ID returns the session id.
func (c *Controller) ID() SessionID { return c.id }

// OnCommandSelected registers h to receive the committed command token.
// When the command was already dispatched, h is called immediately.
func (c *Controller) OnCommandSelected(h CommandHandler) {
	if h == nil {
		return
	}
	c.mu.Lock()
	token, done := c.selected, c.dispatched
	if !done {
		c.handlers = append(c.handlers, h)
	}
	c.mu.Unlock()

	if done {
		c.callHandler(h, token)
	}
}

// SelectedCommand returns the dispatched token, or "" when none was
// dispatched yet. Use Selection to tell a blank command from no selection.
func (c *Controller) SelectedCommand() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Selection returns the dispatched token and whether a command was
// dispatched at all.
func (c *Controller) Selection() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected, c.dispatched
}

// Done is closed when the session ends.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Settings returns a copy of the live settings.
func (c *Controller) Settings() *config.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings.Clone()
}

// Status returns a snapshot of the session.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		Session:    c.id,
		Open:       c.open,
		Phase:      c.machine.Phase(),
		Hover:      c.machine.Hover(),
		Modal:      c.machine.Modal(),
		Selected:   c.selected,
		Dispatched: c.dispatched,
		Reason:     c.reason,
		Origin:     c.origin,
		Size:       c.size,
	}
}

// Frame returns the last composed frame, or nil after Close.
func (c *Controller) Frame() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return nil
	}
	return c.comp.Frame()
}

// Close dismisses the menu without dispatching. Closing a closed menu does
// nothing.
func (c *Controller) Close() {
	c.HandleEvent(menu.Dismiss{})
}

// HandleEvent feeds one input event to the state machine and performs the
// resulting effects. Positions are in window coordinates.
func (c *Controller) HandleEvent(ev menu.Event) {
	c.mu.Lock()
	var after deferred
	if c.open {
		c.syncOrigin()
		c.apply(c.machine.Handle(ev), &after)
	}
	c.mu.Unlock()
	after.run()
}

// Tick advances the session clock to now. It applies finished dialogs and
// settings reloads, then fires the debounce timer once its deadline has
// passed. The UI loop calls it every frame.
func (c *Controller) Tick(now time.Time) {
	c.mu.Lock()
	var after deferred
	if c.open {
		c.syncOrigin()
		c.drain(now, &after)
	}
	if c.open && c.timer.armed && !now.Before(c.timer.deadline) {
		c.timer.armed = false
		c.apply(c.machine.Handle(menu.TimerFired{Seq: c.timer.seq, At: now}), &after)
	}
	c.mu.Unlock()
	after.run()
}

// Deadline returns the deadline of the armed timer: a pending dispatch or a
// focus check after a dialog.
func (c *Controller) Deadline() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer.deadline, c.timer.armed
}

// syncOrigin picks up window moves made by the presenter, such as a hub
// drag, once the window exists.
func (c *Controller) syncOrigin() {
	if c.presented {
		c.origin = c.opts.Presenter.Origin()
	}
}

func (c *Controller) drain(now time.Time, after *deferred) {
	for {
		select {
		case r := <-c.results:
			c.finishDialog(r, now, after)
		case <-c.reload:
			if c.machine.Modal() {
				c.reloadPending = true
			} else {
				c.reloadSettings(after)
			}
		default:
			return
		}
		if !c.open {
			return
		}
	}
}

// apply performs effects in order. Callbacks are queued on after.
func (c *Controller) apply(effects []menu.Effect, after *deferred) {
	dirty := false
	closing := false
	for _, eff := range effects {
		switch e := eff.(type) {
		case menu.Redraw:
			dirty = true
		case menu.ArmTimer:
			c.timer.armed = true
			c.timer.seq = e.Seq
			c.timer.deadline = e.Deadline
		case menu.CancelTimer:
			if c.timer.seq == e.Seq {
				c.timer.armed = false
			}
		case menu.BeginDrag:
			at := c.origin.Add(image.Pt(int(e.Pos.X), int(e.Pos.Y)))
			after.add(func() { c.opts.Presenter.BeginDrag(at) })
		case menu.OpenDialog:
			c.openDialog(e, after)
		case menu.Close:
			c.shutdown(e.Reason, after)
			closing = true
		case menu.EmitCommand:
			c.dispatch(e, after)
		}
	}
	if closing {
		close(c.done)
		return
	}
	if hover := c.machine.Hover(); hover != c.hover {
		c.log.Debug("hover changed", "from", c.hover, "to", hover)
		c.hover = hover
	}
	if dirty {
		c.redraw(after)
	}
}

func (c *Controller) dispatch(e menu.EmitCommand, after *deferred) {
	if c.dispatched {
		return
	}
	c.selected = e.Token
	c.dispatched = true
	c.metrics.RecordCommand()
	c.log.Info("command selected", "command", e.Token, "target", e.Target)

	handlers := c.handlers
	c.handlers = nil
	token := e.Token
	c.emit(after, Event{Type: EventCommandSelected, Message: e.Target.String(), Command: token})
	after.add(func() {
		for _, h := range handlers {
			c.callHandler(h, token)
		}
	})
}

func (c *Controller) callHandler(h CommandHandler, token string) {
	defer func() {
		if r := recover(); r != nil {
			err := NewCategorizedError(fmt.Errorf("command handler panicked: %v", r), CategoryDispatch, SeverityError)
			c.log.Error("command handler panicked", "panic", r)
			c.notifyError(err)
		}
	}()
	h(token)
}

// shutdown releases every session resource. The done channel is closed by
// apply once the remaining effects, such as EmitCommand, are recorded.
func (c *Controller) shutdown(reason menu.CloseReason, after *deferred) {
	c.open = false
	c.reason = reason
	c.timer.armed = false
	c.metrics.RecordSessionClosed(reason == menu.ReasonCommand)

	if err := c.comp.Close(); err != nil {
		c.log.Warn("failed to release compositor", "error", err)
	}
	watcher := c.watcher
	c.watcher = nil
	presenter := c.opts.Presenter
	after.add(func() {
		if watcher != nil {
			watcher.Stop()
		}
		if err := presenter.Hide(); err != nil {
			c.report(NewCategorizedError(fmt.Errorf("failed to hide overlay: %w", err), CategoryPresent, SeverityWarning))
		}
	})
	c.log.Info("menu closed", "reason", reason)
	c.emit(after, Event{Type: EventClosed, Message: reason.String()})
}

func (c *Controller) resolve(t geometry.Target) (string, bool) {
	return c.settings.CommandFor(t)
}

func (c *Controller) center() geometry.Point {
	half := float64(c.size) / 2
	return geometry.Pt(half, half)
}

// redraw composes the current scene and presents it. A failed render keeps
// the previous frame on screen.
func (c *Controller) redraw(after *deferred) {
	scene := render.Scene{
		Ring:   c.machine.Ring(),
		Center: c.machine.Center(),
		Hover:  c.machine.Hover(),
		Theme:  c.theme,
		Labels: c.settings,
	}
	start := time.Now()
	frame, err := c.comp.Render(scene)
	elapsed := time.Since(start)
	c.metrics.RecordRender(elapsed, err)
	if err != nil {
		c.log.Warn("render failed", "error", err)
		c.queueReport(after, NewCategorizedError(err, CategoryRender, SeverityWarning))
	} else if elapsed > render.FrameBudget {
		c.log.Warn("render over frame budget", "elapsed", elapsed, "budget", render.FrameBudget)
	}
	if frame == nil {
		return
	}
	if err := c.opts.Presenter.Present(frame, c.origin); err != nil {
		c.log.Warn("present failed", "error", err)
		c.queueReport(after, NewCategorizedError(err, CategoryPresent, SeverityWarning))
		return
	}
	c.presented = true
}

func (c *Controller) emit(after *deferred, ev Event) {
	if c.opts.OnEvent == nil {
		return
	}
	ev.Timestamp = time.Now()
	ev.Session = c.id
	h := c.opts.OnEvent
	after.add(func() {
		defer func() {
			if r := recover(); r != nil {
				c.log.Error("event handler panicked", "panic", r)
			}
		}()
		h(ev)
	})
}

func (c *Controller) queueReport(after *deferred, err *CategorizedError) {
	after.add(func() { c.report(err) })
}

// report counts err and hands it to the error and event handlers. It must
// be called without the lock held.
func (c *Controller) report(err *CategorizedError) {
	err.WithContext("session_id", c.id.String())
	c.metrics.RecordError()
	c.notifyError(err)
	if c.opts.OnEvent != nil {
		var after deferred
		c.emit(&after, Event{Type: EventError, Message: err.Error()})
		after.run()
	}
}

func (c *Controller) notifyError(err error) {
	if c.opts.OnError == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("error handler panicked", "panic", r)
		}
	}()
	c.opts.OnError(err)
}

// initialSettings returns the snapshot the session starts from. Load
// failures fall back to the defaults and are only logged.
func (c *Controller) initialSettings(after *deferred) *config.Settings {
	if c.opts.Settings != nil {
		s := c.opts.Settings.Clone()
		c.logValidation(config.Normalize(s))
		return s
	}

	res := c.store.Load()
	switch {
	case res.Err == nil:
	case config.IsNotExist(res.Err):
		c.log.Debug("settings file not found, using defaults", "path", c.store.Path())
	default:
		c.log.Warn("failed to load settings, using defaults", "path", c.store.Path(), "error", res.Err)
		c.queueReport(after, NewCategorizedError(res.Err, CategoryConfig, SeverityWarning))
	}
	c.logValidation(res.Validation)
	return res.Settings
}

func (c *Controller) logValidation(vr *config.ValidationResult) {
	if vr == nil {
		return
	}
	for _, e := range vr.Errors {
		c.log.Warn("invalid setting replaced", "field", e.Field, "problem", e.Message)
	}
	for _, w := range vr.Warnings {
		c.log.Warn("setting repaired", "field", w.Field, "problem", w.Message)
	}
}

// applyTheme rebuilds the theme and reloads the font and logo when their
// paths changed. Missing files fall back to the built-in look.
func (c *Controller) applyTheme(after *deferred) {
	c.theme = render.NewTheme(c.settings.Theme)

	if path := c.settings.Theme.FontPath(); path != c.fontPath {
		c.fontPath = path
		var err error
		if path == "" {
			err = c.comp.Fonts().UseEmbedded()
		} else if err = c.comp.Fonts().LoadFontFromFile(path); err != nil {
			c.comp.Fonts().UseEmbedded()
		}
		if err != nil {
			c.log.Warn("failed to load font, using embedded fonts", "path", path, "error", err)
			c.queueReport(after, NewCategorizedError(err, CategoryConfig, SeverityWarning))
		}
	}

	if path := c.settings.Theme.LogoPath(); path != c.logoPath {
		c.logoPath = path
		c.comp.SetLogo(nil)
		if path != "" {
			img, err := render.LoadLogo(path)
			if err != nil {
				c.log.Warn("failed to load logo", "path", path, "error", err)
				c.queueReport(after, NewCategorizedError(err, CategoryConfig, SeverityWarning))
			} else {
				c.comp.SetLogo(img)
			}
		}
	}
}

// useSettings switches the session to s: the window is resized around its
// current center and the machine gets the new geometry.
func (c *Controller) useSettings(s *config.Settings, after *deferred) {
	c.settings = s
	c.metrics.RecordSettingsChange()

	if size := s.WindowSize(); size != c.size {
		mid := c.origin.Add(image.Pt(c.size/2, c.size/2))
		if err := c.comp.Resize(size); err != nil {
			c.log.Warn("failed to resize compositor", "error", err)
			c.queueReport(after, NewCategorizedError(err, CategoryRender, SeverityWarning))
		} else {
			c.size = size
			c.origin = mid.Sub(image.Pt(size/2, size/2))
		}
	}
	c.applyTheme(after)

	c.log.Info("settings applied", "settings", s.String(), "origin", c.origin, "size", c.size)
	c.emit(after, Event{Type: EventSettingsChanged, Message: s.String()})
	c.apply(c.machine.Handle(menu.LayoutChanged{Ring: s.RingConfig(), Center: c.center()}), after)
}

// save persists the live settings. Failures are logged and swallowed; the
// in-memory settings stay authoritative for the session.
func (c *Controller) save(after *deferred) {
	if err := c.store.Save(c.settings.Clone()); err != nil {
		c.metrics.RecordSaveFailure()
		c.log.Warn("failed to save settings", "path", c.store.Path(), "error", err)
		c.queueReport(after, NewCategorizedError(err, CategoryConfig, SeverityInfo))
	}
}

func (c *Controller) startWatcher(after *deferred) {
	onChange := func() {
		select {
		case c.reload <- struct{}{}:
		default:
		}
	}
	onError := func(err error) {
		c.log.Warn("settings watcher error", "error", err)
	}
	w, err := newSettingsWatcher(c.store.Path(), c.opts.WatchDebounce, onChange, onError)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		c.log.Debug("settings directory does not exist, not watching", "path", c.store.Path())
		return
	case err != nil:
		c.log.Warn("failed to watch settings", "path", c.store.Path(), "error", err)
		c.queueReport(after, NewCategorizedError(err, CategoryConfig, SeverityInfo))
		return
	}
	c.watcher = w
}

// reloadSettings picks up an external edit of the settings file. A file
// that no longer loads leaves the live settings alone.
func (c *Controller) reloadSettings(after *deferred) {
	if next := c.loadExternal(after); next != nil {
		c.useSettings(next, after)
	}
}

// loadExternal reads the settings file and returns it when it loads and
// differs from the live settings.
func (c *Controller) loadExternal(after *deferred) *config.Settings {
	res := c.store.Load()
	if res.Err != nil {
		c.log.Warn("ignoring settings change", "path", c.store.Path(), "error", res.Err)
		c.queueReport(after, NewCategorizedError(res.Err, CategoryConfig, SeverityWarning))
		return nil
	}
	if reflect.DeepEqual(res.Settings, c.settings) {
		return nil
	}
	c.logValidation(res.Validation)
	return res.Settings
}

func (c *Controller) openDialog(e menu.OpenDialog, after *deferred) {
	c.metrics.RecordDialog()
	c.log.Info("dialog opened", "kind", e.Kind, "target", e.Target)
	c.emit(after, Event{Type: EventDialogOpened, Message: e.Kind.String()})

	surfaces := c.opts.Surfaces
	if surfaces == nil {
		c.log.Debug("no dialog surfaces configured", "kind", e.Kind)
		c.apply(c.machine.Handle(menu.DialogClosed{}), after)
		return
	}

	snap := c.settings.Clone()
	run := c.opts.RunDialog
	after.add(func() {
		run(func() {
			c.results <- c.runDialog(surfaces, e, snap)
		})
	})
}

// runDialog shows the requested surface for snap and returns the user's
// change as an edit. It runs off the UI goroutine and must not touch
// controller state.
func (c *Controller) runDialog(surfaces Surfaces, e menu.OpenDialog, snap *config.Settings) (res dialogResult) {
	res.kind = e.Kind
	defer func() {
		if r := recover(); r != nil {
			res = dialogResult{kind: e.Kind, err: fmt.Errorf("dialog panicked: %v", r)}
		}
	}()

	t := e.Target
	switch e.Kind {
	case menu.DialogRenameCategory:
		name, err := surfaces.RenameCategory(snap.CategoryName(t.Category))
		if err != nil {
			res.err = err
			return res
		}
		res.edit = func(s *config.Settings) *config.Settings {
			s.SetCategoryName(t.Category, name)
			return s
		}

	case menu.DialogEditEntry:
		entry, err := surfaces.EditEntry(snap.ItemAt(t))
		if err != nil {
			res.err = err
			return res
		}
		res.edit = func(s *config.Settings) *config.Settings {
			s.SetItem(t.Layer, t.Category, t.Index, entry)
			return s
		}

	case menu.DialogSettings:
		choice, err := surfaces.SettingsPanel(snap.Clone())
		if err != nil {
			res.err = err
			return res
		}
		res.edit, res.err = c.applyChoice(surfaces, choice, snap)
	}
	return res
}

// applyChoice carries out a settings panel answer. Exports run here; every
// other action is checked against snap and returned as an edit.
func (c *Controller) applyChoice(surfaces Surfaces, choice SettingsChoice, snap *config.Settings) (settingsEdit, error) {
	switch choice.Action {
	case ActionLayerCount:
		n := choice.LayerCount
		if n < 1 || n > geometry.MaxLayers {
			return nil, fmt.Errorf("layer count %d out of range 1..%d", n, geometry.MaxLayers)
		}
		return func(s *config.Settings) *config.Settings {
			s.Ring.LayerCount = n
			return s
		}, nil

	case ActionColor:
		role, col := choice.Role, choice.Color
		if !setColor(&snap.Theme, role, col) {
			return nil, fmt.Errorf("unknown color role %d", role)
		}
		return func(s *config.Settings) *config.Settings {
			setColor(&s.Theme, role, col)
			return s
		}, nil

	case ActionExport:
		if err := c.store.Export(snap, choice.Path); err != nil {
			c.notice(surfaces, "Export failed", err)
			return nil, NewCategorizedError(err, CategoryImport, SeverityError)
		}
		c.log.Info("commands exported", "path", choice.Path)
		return nil, nil

	case ActionImport:
		cs, err := c.store.ReadCommands(choice.Path)
		if err != nil {
			c.metrics.RecordImportFailure()
			c.notice(surfaces, "Import failed", err)
			return nil, NewCategorizedError(err, CategoryImport, SeverityError)
		}
		c.logValidation(snap.ApplyCommands(cs))
		c.log.Info("commands imported", "path", choice.Path)
		return func(s *config.Settings) *config.Settings {
			s.ApplyCommands(cs)
			return s
		}, nil

	case ActionReset:
		return func(*config.Settings) *config.Settings {
			return config.DefaultSettings()
		}, nil
	}
	return nil, nil
}

func (c *Controller) notice(surfaces Surfaces, title string, err error) {
	if nerr := surfaces.Notice(title, err.Error()); nerr != nil && !errors.Is(nerr, ErrCanceled) {
		c.log.Warn("failed to show notice", "error", nerr)
	}
}

// finishDialog applies a dialog result on the UI goroutine and resumes the
// machine. A settings file change seen while the dialog was open is loaded
// first, so the edit lands on top of it instead of reverting it.
func (c *Controller) finishDialog(r dialogResult, now time.Time, after *deferred) {
	switch {
	case r.err == nil:
	case errors.Is(r.err, ErrCanceled):
		c.log.Debug("dialog canceled", "kind", r.kind)
	default:
		c.log.Warn("dialog failed", "kind", r.kind, "error", r.err)
		var ce *CategorizedError
		if !errors.As(r.err, &ce) {
			ce = NewCategorizedError(r.err, CategoryDialog, SeverityWarning)
		}
		c.queueReport(after, ce)
	}

	c.apply(c.machine.Handle(menu.DialogClosed{At: now}), after)
	if !c.open {
		return
	}

	pending := c.reloadPending
	c.reloadPending = false
	select {
	case <-c.reload:
		pending = true
	default:
	}
	base := c.settings
	if pending {
		if fresh := c.loadExternal(after); fresh != nil {
			base = fresh
		}
	}
	switch {
	case r.edit != nil:
		c.useSettings(r.edit(base.Clone()), after)
		c.save(after)
	case base != c.settings:
		c.useSettings(base, after)
	}
}
