//go:build linux

package platform

import (
	"fmt"
	"strings"

	"github.com/1broseidon/glxwin/internal/x11"
	"github.com/BurntSushi/xgb/glx"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// LinuxBackend wraps an X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay opens display ("" means $DISPLAY) and wraps it.
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return NewLinuxBackend(conn), nil
}

// Close disconnects from the X server.
func (b *LinuxBackend) Close() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

func (b *LinuxBackend) Screen() int             { return b.conn.Screen }
func (b *LinuxBackend) Events() x11.EventSource { return b.conn.Events() }

func (b *LinuxBackend) CreateWindow(width, height int) (xproto.Window, error) {
	return b.conn.CreateWindow(width, height)
}

func (b *LinuxBackend) DestroyWindow(win xproto.Window) error { return b.conn.DestroyWindow(win) }

func (b *LinuxBackend) SelectInput(win xproto.Window, mask uint32) error {
	return b.conn.SelectInput(win, mask)
}

func (b *LinuxBackend) MapWindow(win xproto.Window) error { return b.conn.MapWindow(win) }

func (b *LinuxBackend) SetProtocols(win xproto.Window, protocols ...string) error {
	return b.conn.SetProtocols(win, protocols...)
}

func (b *LinuxBackend) Atom(name string, onlyIfExists bool) (xproto.Atom, error) {
	return b.conn.Atom(name, onlyIfExists)
}

func (b *LinuxBackend) SetTextProperty(win xproto.Window, prop, typ string, data []byte) error {
	return b.conn.SetTextProperty(win, prop, typ, data)
}

// WindowTitle reads back the title a window manager would show: the EWMH
// name when set, else the ICCCM name.
func (b *LinuxBackend) WindowTitle(win xproto.Window) (string, error) {
	title, err := ewmh.WmNameGet(b.conn.XUtil, win)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title, nil
		}
	}

	title, err = icccm.WmNameGet(b.conn.XUtil, win)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(title), nil
}

// WindowRect asks the server for the window's current size and its position
// relative to the root window.
func (b *LinuxBackend) WindowRect(win xproto.Window) (Rect, error) {
	conn := b.conn
	geom, err := xproto.GetGeometry(conn.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return Rect{}, err
	}

	translate, err := xproto.TranslateCoordinates(
		conn.XUtil.Conn(),
		win,
		conn.Root,
		0, 0,
	).Reply()
	if err != nil {
		return Rect{}, err
	}

	return Rect{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}

func (b *LinuxBackend) Keysym(keycode xproto.Keycode, column byte) xproto.Keysym {
	return b.conn.Keysym(keycode, column)
}

func (b *LinuxBackend) LookupText(keycode xproto.Keycode, state uint16) string {
	return b.conn.LookupText(keycode, state)
}

func (b *LinuxBackend) RefreshKeyboard() { b.conn.RefreshKeyboard() }

func (b *LinuxBackend) ChooseFBConfigs(screen int, attribs []int32) ([]glx.Fbconfig, error) {
	return b.conn.ChooseFBConfigs(screen, attribs)
}

func (b *LinuxBackend) FBConfigAttrib(screen int, id glx.Fbconfig, attr int32) (int, error) {
	return b.conn.FBConfigAttrib(screen, id, attr)
}

func (b *LinuxBackend) CreateContext(screen int, id glx.Fbconfig, share glx.Context) (glx.Context, error) {
	return b.conn.CreateContext(screen, id, share)
}

func (b *LinuxBackend) CreateSurface(screen int, id glx.Fbconfig, win xproto.Window) (glx.Window, error) {
	return b.conn.CreateSurface(screen, id, win)
}

func (b *LinuxBackend) DestroyContext(ctx glx.Context) error { return b.conn.DestroyContext(ctx) }

func (b *LinuxBackend) DestroySurface(surface glx.Window) error {
	return b.conn.DestroySurface(surface)
}

func (b *LinuxBackend) MakeCurrent(old glx.ContextTag, surface glx.Window, ctx glx.Context) (glx.ContextTag, error) {
	return b.conn.MakeCurrent(old, surface, ctx)
}

func (b *LinuxBackend) SwapBuffers(tag glx.ContextTag, surface glx.Window) error {
	return b.conn.SwapBuffers(tag, surface)
}
