package platform

import (
	"github.com/1broseidon/glxwin/internal/x11"
	"github.com/BurntSushi/xgb/glx"
	"github.com/BurntSushi/xgb/xproto"
)

// Rect describes a rectangular region in root window coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// WindowSystem is the core window and property capability set.
type WindowSystem interface {
	CreateWindow(width, height int) (xproto.Window, error)
	DestroyWindow(win xproto.Window) error
	SelectInput(win xproto.Window, mask uint32) error
	MapWindow(win xproto.Window) error
	SetProtocols(win xproto.Window, protocols ...string) error
	Atom(name string, onlyIfExists bool) (xproto.Atom, error)
	SetTextProperty(win xproto.Window, prop, typ string, data []byte) error
	WindowTitle(win xproto.Window) (string, error)
	WindowRect(win xproto.Window) (Rect, error)
}

// Keyboard decodes key events.
type Keyboard interface {
	Keysym(keycode xproto.Keycode, column byte) xproto.Keysym
	LookupText(keycode xproto.Keycode, state uint16) string
	RefreshKeyboard()
}

// GL is the GLX capability set keyed by framebuffer configuration.
type GL interface {
	ChooseFBConfigs(screen int, attribs []int32) ([]glx.Fbconfig, error)
	FBConfigAttrib(screen int, id glx.Fbconfig, attr int32) (int, error)
	CreateContext(screen int, id glx.Fbconfig, share glx.Context) (glx.Context, error)
	CreateSurface(screen int, id glx.Fbconfig, win xproto.Window) (glx.Window, error)
	DestroyContext(ctx glx.Context) error
	DestroySurface(surface glx.Window) error
	MakeCurrent(old glx.ContextTag, surface glx.Window, ctx glx.Context) (glx.ContextTag, error)
	SwapBuffers(tag glx.ContextTag, surface glx.Window) error
}

// Backend abstracts the native display connection.
type Backend interface {
	WindowSystem
	Keyboard
	GL

	// Screen is the default screen index of the connection.
	Screen() int
	// Events is the source the connection's event queue reads from.
	Events() x11.EventSource
	Close()
}
