package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// CreateWindow creates an unmapped top-level window of the given size at the
// origin of the root window, with black background and border.
func (c *Connection) CreateWindow(width, height int) (xproto.Window, error) {
	conn := c.XUtil.Conn()
	screen := c.XUtil.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate window id: %w", err)
	}

	err = xproto.CreateWindowChecked(conn, screen.RootDepth, wid, c.Root,
		0, 0, uint16(width), uint16(height), 0,
		xproto.WindowClassInputOutput, screen.RootVisual,
		xproto.CwBackPixel|xproto.CwBorderPixel,
		[]uint32{screen.BlackPixel, screen.BlackPixel},
	).Check()
	if err != nil {
		return 0, fmt.Errorf("failed to create window: %w", err)
	}
	return wid, nil
}

// SelectInput replaces the event mask of win.
func (c *Connection) SelectInput(win xproto.Window, mask uint32) error {
	return xproto.ChangeWindowAttributesChecked(c.XUtil.Conn(), win,
		xproto.CwEventMask, []uint32{mask}).Check()
}

// MapWindow maps win.
func (c *Connection) MapWindow(win xproto.Window) error {
	return xproto.MapWindowChecked(c.XUtil.Conn(), win).Check()
}

// DestroyWindow destroys win.
func (c *Connection) DestroyWindow(win xproto.Window) error {
	return xproto.DestroyWindowChecked(c.XUtil.Conn(), win).Check()
}
