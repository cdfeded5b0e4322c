package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
)

// Atom resolves name. With onlyIfExists set, a name the server has never
// interned resolves to 0 (xproto.AtomNone) without error.
func (c *Connection) Atom(name string, onlyIfExists bool) (xproto.Atom, error) {
	if onlyIfExists {
		// Bypass the xprop cache so a miss is not remembered.
		reply, err := xproto.InternAtom(c.XUtil.Conn(), true, uint16(len(name)), name).Reply()
		if err != nil {
			return 0, fmt.Errorf("failed to look up %s: %w", name, err)
		}
		return reply.Atom, nil
	}

	atom, err := xprop.Atom(c.XUtil, name, false)
	if err != nil {
		return 0, fmt.Errorf("failed to intern %s: %w", name, err)
	}
	return atom, nil
}

// SetProtocols sets WM_PROTOCOLS on win to the named protocol atoms.
func (c *Connection) SetProtocols(win xproto.Window, protocols ...string) error {
	if err := icccm.WmProtocolsSet(c.XUtil, win, protocols); err != nil {
		return fmt.Errorf("failed to set WM_PROTOCOLS: %w", err)
	}
	return nil
}

// SetTextProperty replaces an 8-bit text property on win.
func (c *Connection) SetTextProperty(win xproto.Window, prop, typ string, data []byte) error {
	if err := xprop.ChangeProp(c.XUtil, win, 8, prop, typ, data); err != nil {
		return fmt.Errorf("failed to set %s: %w", prop, err)
	}
	return nil
}
