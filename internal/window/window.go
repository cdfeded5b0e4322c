package window

import (
	"errors"
	"fmt"
	"strings"

	"github.com/1broseidon/glxwin/internal/glconfig"
	"github.com/1broseidon/glxwin/internal/platform"
	"github.com/BurntSushi/xgb/glx"
	"github.com/BurntSushi/xgb/xproto"
)

// Buttons is the number of pointer buttons whose state is tracked.
const Buttons = 5

// Mouse is the cached pointer state of a window. Buttons is indexed by
// native button id; index 0 is unused.
type Mouse struct {
	X, Y    int
	Buttons [Buttons + 1]bool
}

// Window is a top-level X11 window with an optional GLX context. Its
// cached geometry and pointer state are written only by DispatchEvents.
type Window struct {
	factory *Factory
	id      xproto.Window

	config  *glconfig.Config
	context glx.Context
	surface glx.Window
	tag     glx.ContextTag

	sink  Sink
	title string

	width, height int
	x, y          int
	mouse         Mouse

	closed bool
}

// ID returns the native window id.
func (w *Window) ID() xproto.Window { return w.id }

// Config returns the config of the window's context, or nil.
func (w *Window) Config() *glconfig.Config { return w.config }

// SetSink sets the receiver of translated events. nil discards them.
func (w *Window) SetSink(s Sink) {
	if s == nil {
		s = discardSink{}
	}
	w.sink = s
}

// Size returns the size from the last configure event.
func (w *Window) Size() (int, int) { return w.width, w.height }

// Position returns the position from the last configure event.
func (w *Window) Position() (int, int) { return w.x, w.y }

// Mouse returns the cached pointer state.
func (w *Window) Mouse() Mouse { return w.mouse }

// Title returns the last title set successfully.
func (w *Window) Title() string { return w.title }

// Closed reports whether Close has been called.
func (w *Window) Closed() bool { return w.closed }

// Close releases the context, the GLX drawable and the window, in that
// order. Every release is attempted; their errors are joined. Closing a
// closed window returns ErrWindowClosed.
func (w *Window) Close() error {
	if w.closed {
		return ErrWindowClosed
	}
	w.closed = true
	backend := w.factory.backend

	var errs []error
	if w.context != 0 {
		if err := backend.DestroyContext(w.context); err != nil {
			errs = append(errs, fmt.Errorf("failed to destroy context: %w", err))
		}
	}
	if w.surface != 0 {
		if err := backend.DestroySurface(w.surface); err != nil {
			errs = append(errs, fmt.Errorf("failed to destroy surface: %w", err))
		}
	}
	if err := backend.DestroyWindow(w.id); err != nil {
		errs = append(errs, fmt.Errorf("failed to destroy window: %w", err))
	}
	w.context, w.surface, w.tag = 0, 0, 0

	w.factory.logger.Debug("window closed", "window", w.id)
	return errors.Join(errs...)
}

// SwitchTo makes the window's context current.
func (w *Window) SwitchTo() error {
	if err := w.ready(); err != nil {
		return err
	}
	tag, err := w.factory.backend.MakeCurrent(w.tag, w.surface, w.context)
	if err != nil {
		return err
	}
	w.tag = tag
	return nil
}

// Flip presents the back buffer.
func (w *Window) Flip() error {
	if err := w.ready(); err != nil {
		return err
	}
	return w.factory.backend.SwapBuffers(w.tag, w.surface)
}

func (w *Window) ready() error {
	if w.closed {
		return ErrWindowClosed
	}
	if w.context == 0 {
		return ErrNoContext
	}
	return nil
}

var titleProperties = []struct {
	name      string
	allowUTF8 bool
}{
	{"WM_NAME", false},
	{"WM_ICON_NAME", false},
	{"_NET_WM_NAME", true},
	{"_NET_WM_ICON_NAME", true},
}

// SetTitle writes the legacy and extended window and icon names. The
// extended names are UTF-8 when enabled on the factory and supported by
// the server; everything else is ASCII with other characters dropped.
func (w *Window) SetTitle(title string) error {
	if w.closed {
		return ErrWindowClosed
	}
	backend := w.factory.backend

	utf8 := false
	if w.factory.utf8Titles {
		atom, err := backend.Atom("UTF8_STRING", true)
		if err != nil {
			return err
		}
		utf8 = atom != 0
	}

	for _, p := range titleProperties {
		atom, err := backend.Atom(p.name, true)
		if err != nil {
			return err
		}
		if atom == 0 {
			return &UndefinedPropertyError{Name: p.name}
		}

		typ, data := "STRING", []byte(asciiOnly(title))
		if utf8 && p.allowUTF8 {
			typ, data = "UTF8_STRING", []byte(title)
		}
		if err := backend.SetTextProperty(w.id, p.name, typ, data); err != nil {
			return err
		}
	}

	w.title = title
	return nil
}

// ServerTitle reads the title back from the window's properties.
func (w *Window) ServerTitle() (string, error) {
	if w.closed {
		return "", ErrWindowClosed
	}
	return w.factory.backend.WindowTitle(w.id)
}

// ServerRect asks the server for the window's current geometry. It does
// not touch the cached size and position.
func (w *Window) ServerRect() (platform.Rect, error) {
	if w.closed {
		return platform.Rect{}, ErrWindowClosed
	}
	return w.factory.backend.WindowRect(w.id)
}

func asciiOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 0x80 {
			return -1
		}
		return r
	}, s)
}
