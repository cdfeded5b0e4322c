package x11

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// EventType returns the core protocol event code of ev, or 0 for events this
// package does not classify (extension events, errors).
func EventType(ev xgb.Event) int {
	switch ev.(type) {
	case xproto.KeyPressEvent:
		return xproto.KeyPress
	case xproto.KeyReleaseEvent:
		return xproto.KeyRelease
	case xproto.ButtonPressEvent:
		return xproto.ButtonPress
	case xproto.ButtonReleaseEvent:
		return xproto.ButtonRelease
	case xproto.MotionNotifyEvent:
		return xproto.MotionNotify
	case xproto.EnterNotifyEvent:
		return xproto.EnterNotify
	case xproto.LeaveNotifyEvent:
		return xproto.LeaveNotify
	case xproto.FocusInEvent:
		return xproto.FocusIn
	case xproto.FocusOutEvent:
		return xproto.FocusOut
	case xproto.KeymapNotifyEvent:
		return xproto.KeymapNotify
	case xproto.ExposeEvent:
		return xproto.Expose
	case xproto.VisibilityNotifyEvent:
		return xproto.VisibilityNotify
	case xproto.DestroyNotifyEvent:
		return xproto.DestroyNotify
	case xproto.UnmapNotifyEvent:
		return xproto.UnmapNotify
	case xproto.MapNotifyEvent:
		return xproto.MapNotify
	case xproto.ReparentNotifyEvent:
		return xproto.ReparentNotify
	case xproto.ConfigureNotifyEvent:
		return xproto.ConfigureNotify
	case xproto.GravityNotifyEvent:
		return xproto.GravityNotify
	case xproto.ResizeRequestEvent:
		return xproto.ResizeRequest
	case xproto.CirculateNotifyEvent:
		return xproto.CirculateNotify
	case xproto.PropertyNotifyEvent:
		return xproto.PropertyNotify
	case xproto.ColormapNotifyEvent:
		return xproto.ColormapNotify
	case xproto.ClientMessageEvent:
		return xproto.ClientMessage
	case xproto.MappingNotifyEvent:
		return xproto.MappingNotify
	}
	return 0
}

// EventWindow returns the window an event is reported to (the Xlib
// xany.window). Display-scoped events such as MappingNotify report false.
func EventWindow(ev xgb.Event) (xproto.Window, bool) {
	switch e := ev.(type) {
	case xproto.KeyPressEvent:
		return e.Event, true
	case xproto.KeyReleaseEvent:
		return e.Event, true
	case xproto.ButtonPressEvent:
		return e.Event, true
	case xproto.ButtonReleaseEvent:
		return e.Event, true
	case xproto.MotionNotifyEvent:
		return e.Event, true
	case xproto.EnterNotifyEvent:
		return e.Event, true
	case xproto.LeaveNotifyEvent:
		return e.Event, true
	case xproto.FocusInEvent:
		return e.Event, true
	case xproto.FocusOutEvent:
		return e.Event, true
	case xproto.ExposeEvent:
		return e.Window, true
	case xproto.VisibilityNotifyEvent:
		return e.Window, true
	case xproto.DestroyNotifyEvent:
		return e.Event, true
	case xproto.UnmapNotifyEvent:
		return e.Event, true
	case xproto.MapNotifyEvent:
		return e.Event, true
	case xproto.ReparentNotifyEvent:
		return e.Event, true
	case xproto.ConfigureNotifyEvent:
		return e.Event, true
	case xproto.GravityNotifyEvent:
		return e.Event, true
	case xproto.ResizeRequestEvent:
		return e.Window, true
	case xproto.CirculateNotifyEvent:
		return e.Event, true
	case xproto.PropertyNotifyEvent:
		return e.Window, true
	case xproto.ColormapNotifyEvent:
		return e.Window, true
	case xproto.ClientMessageEvent:
		return e.Window, true
	}
	return 0, false
}
