package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/glx"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
)

// Connection manages the X11 connection and the core resources every
// window created on it shares.
type Connection struct {
	XUtil  *xgbutil.XUtil
	Root   xproto.Window
	Screen int

	fbconfigs map[int][]FBConfigInfo
}

// NewConnection opens the named display ("" means $DISPLAY) and initializes
// the extensions windows on it rely on.
func NewConnection(display string) (*Connection, error) {
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, err
	}

	if err := glx.Init(xu.Conn()); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("glx init failed: %w", err)
	}
	if _, err := glx.QueryVersion(xu.Conn(), 1, 4).Reply(); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("glx version query failed: %w", err)
	}

	// Keysym tables for key translation.
	keybind.Initialize(xu)

	return &Connection{
		XUtil:     xu,
		Root:      xu.RootWin(),
		Screen:    xu.Conn().DefaultScreen,
		fbconfigs: make(map[int][]FBConfigInfo),
	}, nil
}

// Events returns the connection as an EventSource for an EventQueue.
func (c *Connection) Events() EventSource {
	return c.XUtil.Conn()
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
