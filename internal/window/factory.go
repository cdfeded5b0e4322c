// Package window opens GLX-capable X11 windows and translates their
// native events into named toolkit events.
package window

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/1broseidon/glxwin/internal/glconfig"
	"github.com/1broseidon/glxwin/internal/platform"
	"github.com/1broseidon/glxwin/internal/x11"
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/glx"
	"github.com/BurntSushi/xgb/xproto"
)

// Event masks selected while waiting for the map and afterwards.
const (
	mapWaitMask = xproto.EventMaskStructureNotify
	allEvents   = 0x1ffffff &^ xproto.EventMaskPointerMotionHint
)

const wmDeleteWindow = "WM_DELETE_WINDOW"

// Factory owns a display connection and the event queue shared by every
// window created from it.
type Factory struct {
	backend    platform.Backend
	queue      *x11.EventQueue
	logger     *slog.Logger
	screen     int
	utf8Titles bool
	closed     bool
}

// Open connects to display ("" means $DISPLAY).
func Open(display string, logger *slog.Logger) (*Factory, error) {
	backend, err := platform.NewLinuxBackendFromDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrConnection, display, err)
	}
	return NewFactory(backend, logger), nil
}

// NewFactory wraps an already open backend. A nil logger uses
// slog.Default.
func NewFactory(backend platform.Backend, logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Factory{
		backend:    backend,
		logger:     logger,
		screen:     backend.Screen(),
		utf8Titles: true,
	}
	f.queue = x11.NewEventQueue(backend.Events(), func(err xgb.Error) {
		logger.Warn("asynchronous X error", "error", err)
	})
	return f
}

// Queue returns the display's event queue.
func (f *Factory) Queue() *x11.EventQueue { return f.queue }

// Screen returns the screen configs are negotiated on.
func (f *Factory) Screen() int { return f.screen }

// SetScreen selects the screen configs are negotiated on. A negative value
// selects the connection's default screen.
func (f *Factory) SetScreen(screen int) {
	if screen < 0 {
		screen = f.backend.Screen()
	}
	f.screen = screen
}

// SetUTF8Titles controls whether the extended naming properties are
// written as UTF8_STRING. When disabled, or when the server lacks the
// atom, every title property is ASCII.
func (f *Factory) SetUTF8Titles(enabled bool) { f.utf8Titles = enabled }

// Configs returns the framebuffer configs matching requested.
func (f *Factory) Configs(requested map[string]int) ([]*glconfig.Config, error) {
	if f.closed {
		return nil, ErrFactoryClosed
	}
	return glconfig.Enumerate(f.backend, f.screen, requested)
}

// CreateWindow creates a width x height window, registers for
// WM_DELETE_WINDOW and blocks until the server reports it mapped. If ctx
// ends first the window is destroyed and ErrMapTimeout returned. Events
// read while waiting stay queued.
func (f *Factory) CreateWindow(ctx context.Context, width, height int) (*Window, error) {
	if f.closed {
		return nil, ErrFactoryClosed
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid window size %dx%d", width, height)
	}

	id, err := f.backend.CreateWindow(width, height)
	if err != nil {
		return nil, err
	}

	fail := func(err error) (*Window, error) {
		if derr := f.backend.DestroyWindow(id); derr != nil {
			f.logger.Debug("destroy after failed create", "window", id, "error", derr)
		}
		return nil, err
	}

	if err := f.backend.SetProtocols(id, wmDeleteWindow); err != nil {
		return fail(err)
	}
	if err := f.backend.SelectInput(id, mapWaitMask); err != nil {
		return fail(fmt.Errorf("failed to select map events: %w", err))
	}
	if err := f.backend.MapWindow(id); err != nil {
		return fail(fmt.Errorf("failed to map window: %w", err))
	}

	_, err = f.queue.Wait(ctx, func(ev xgb.Event) bool {
		m, ok := ev.(xproto.MapNotifyEvent)
		return ok && m.Window == id
	})
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fail(fmt.Errorf("%w: %w", ErrMapTimeout, err))
	case err != nil:
		return fail(fmt.Errorf("failed waiting for map: %w", err))
	}

	if err := f.backend.SelectInput(id, allEvents); err != nil {
		return fail(fmt.Errorf("failed to select events: %w", err))
	}

	f.logger.Debug("window created", "window", id, "width", width, "height", height)
	return &Window{
		factory: f,
		id:      id,
		width:   width,
		height:  height,
		sink:    discardSink{},
	}, nil
}

// CreateContext creates a rendering context for cfg on w and attaches a
// GLX drawable to the window. share, when not nil, must be a window with
// a context whose display lists the new context shares.
func (f *Factory) CreateContext(w *Window, cfg *glconfig.Config, share *Window) error {
	if f.closed {
		return ErrFactoryClosed
	}
	if w.closed {
		return ErrWindowClosed
	}
	if cfg == nil {
		return fmt.Errorf("%w: no config", ErrInvalidConfig)
	}
	if w.context != 0 {
		return fmt.Errorf("%w: window already has a context", ErrContextCreation)
	}

	var shareID glx.Context
	if share != nil {
		if share.closed || share.context == 0 {
			return fmt.Errorf("%w: share window has no context", ErrInvalidShare)
		}
		shareID = share.context
	}

	ctx, err := f.backend.CreateContext(cfg.Screen, cfg.ID, shareID)
	if err != nil {
		return contextError(err, shareID != 0)
	}

	surface, err := f.backend.CreateSurface(cfg.Screen, cfg.ID, w.id)
	if err != nil {
		if derr := f.backend.DestroyContext(ctx); derr != nil {
			f.logger.Debug("destroy after failed surface", "context", ctx, "error", derr)
		}
		return fmt.Errorf("%w: %w", ErrContextCreation, err)
	}

	w.config = cfg
	w.context = ctx
	w.surface = surface
	f.logger.Debug("context created", "window", w.id, "fbconfig", cfg.ID, "context", ctx)
	return nil
}

// contextError classifies a GLX context creation failure.
func contextError(err error, shared bool) error {
	switch err.(type) {
	case glx.BadContextError:
		return fmt.Errorf("%w: %w", ErrInvalidShare, err)
	case glx.BadFBConfigError:
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	case xproto.MatchError:
		if shared {
			return fmt.Errorf("%w: %w", ErrInvalidShare, err)
		}
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return fmt.Errorf("%w: %w", ErrContextCreation, err)
}

// Close disconnects from the display. Windows are not closed.
func (f *Factory) Close() error {
	if f.closed {
		return ErrFactoryClosed
	}
	f.closed = true
	f.backend.Close()
	return nil
}
