package window

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/1broseidon/glxwin/internal/x11"
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// DispatchEvents translates every pending event for the window and sends
// the results to its sink. It never blocks.
//
// Window events are drained first. Client messages cannot be selected by
// window, so they are then drained by type: those for other windows are
// put back at the head of the queue in their original order once the
// drain ends. Keyboard mapping changes are applied last.
func (w *Window) DispatchEvents() error {
	if w.closed {
		return ErrWindowClosed
	}
	q := w.factory.queue

	for {
		ev, ok := q.TakeWindow(w.id)
		if !ok {
			break
		}
		if err := translate(w, ev); err != nil {
			return err
		}
	}

	var deferred []xgb.Event
	var err error
	for {
		ev, ok := q.TakeType(xproto.ClientMessage)
		if !ok {
			break
		}
		if ev.(xproto.ClientMessageEvent).Window != w.id {
			deferred = append(deferred, ev)
			continue
		}
		if err = translate(w, ev); err != nil {
			break
		}
	}
	q.PushFront(deferred...)
	if err != nil {
		return err
	}

	for {
		ev, ok := q.TakeType(xproto.MappingNotify)
		if !ok {
			break
		}
		if ev.(xproto.MappingNotifyEvent).Request != xproto.MappingPointer {
			w.factory.backend.RefreshKeyboard()
		}
	}
	return nil
}

// translate routes ev to its translator. Events without one are dropped.
func translate(w *Window, ev xgb.Event) error {
	switch e := ev.(type) {
	case xproto.KeyPressEvent:
		translateKey(w, e, true)
	case xproto.KeyReleaseEvent:
		translateKey(w, xproto.KeyPressEvent(e), false)
	case xproto.MotionNotifyEvent:
		translateMotion(w, e)
	case xproto.ButtonPressEvent:
		translateButton(w, e.Detail, e.EventX, e.EventY, e.State, true)
	case xproto.ButtonReleaseEvent:
		translateButton(w, e.Detail, e.EventX, e.EventY, e.State, false)
	case xproto.ClientMessageEvent:
		return translateClientMessage(w, e)
	case xproto.ExposeEvent:
		translateExpose(w, e)
	case xproto.EnterNotifyEvent:
		translateCrossing(w, EventMouseEnter, e.EventX, e.EventY, e.State)
	case xproto.LeaveNotifyEvent:
		translateCrossing(w, EventMouseLeave, e.EventX, e.EventY, e.State)
	case xproto.ConfigureNotifyEvent:
		translateConfigure(w, e)
	default:
		w.factory.logger.Debug("dropped event", "window", w.id, "type", x11.EventType(ev))
	}
	return nil
}

// translateKey emits key press and release events. A release followed by
// a press with the same timestamp is auto-repeat and only produces the
// press's text.
func translateKey(w *Window, e xproto.KeyPressEvent, press bool) {
	backend := w.factory.backend

	if !press {
		q := w.factory.queue
		if next, ok := q.TakeTypedWindow(xproto.KeyPress, w.id); ok {
			repeat := next.(xproto.KeyPressEvent)
			if repeat.Time == e.Time {
				if text := backend.LookupText(repeat.Detail, repeat.State); text != "" {
					w.sink.DispatchEvent(EventText, text)
				}
				return
			}
			q.PushFront(next)
		}
	}

	symbol := backend.Keysym(e.Detail, 0)
	mods := TranslateModifiers(e.State)

	if !press {
		w.sink.DispatchEvent(EventKeyRelease, symbol, mods)
		return
	}

	w.sink.DispatchEvent(EventKeyPress, symbol, mods)
	text := backend.LookupText(e.Detail, e.State)
	if text != "" && (text == "\r" || strings.IndexFunc(text, unicode.IsControl) < 0) {
		w.sink.DispatchEvent(EventText, text)
	}
}

func translateMotion(w *Window, e xproto.MotionNotifyEvent) {
	x, y := int(e.EventX), int(e.EventY)
	dx, dy := x-w.mouse.X, y-w.mouse.Y
	w.mouse.X, w.mouse.Y = x, y
	w.sink.DispatchEvent(EventMouseMotion, x, y, dx, dy)
}

func translateButton(w *Window, button xproto.Button, x, y int16, state uint16, press bool) {
	b := int(button)
	if b >= 1 && b <= Buttons {
		w.mouse.Buttons[b] = press
	}

	name := EventMouseRelease
	if press {
		name = EventMousePress
	}
	w.sink.DispatchEvent(name, b, int(x), int(y), TranslateModifiers(state))
}

func translateClientMessage(w *Window, e xproto.ClientMessageEvent) error {
	atom, err := w.factory.backend.Atom(wmDeleteWindow, false)
	if err != nil {
		return err
	}

	var first uint32
	if e.Format == 32 && len(e.Data.Data32) > 0 {
		first = e.Data.Data32[0]
	}
	if e.Format == 32 && first == uint32(atom) {
		w.sink.DispatchEvent(EventClose)
		return nil
	}
	return &ProtocolViolationError{
		Event:  "client message",
		Detail: fmt.Sprintf("type %d format %d data %d", e.Type, e.Format, first),
	}
}

// translateExpose emits one expose per burst, on its last rectangle.
func translateExpose(w *Window, e xproto.ExposeEvent) {
	if e.Count > 0 {
		return
	}
	w.sink.DispatchEvent(EventExpose)
}

var buttonMasks = [Buttons + 1]uint16{
	1: xproto.KeyButMaskButton1,
	2: xproto.KeyButMaskButton2,
	3: xproto.KeyButMaskButton3,
	4: xproto.KeyButMaskButton4,
	5: xproto.KeyButMaskButton5,
}

func translateCrossing(w *Window, name string, x, y int16, state uint16) {
	for b := 1; b <= Buttons; b++ {
		w.mouse.Buttons[b] = state&buttonMasks[b] != 0
	}
	w.mouse.X, w.mouse.Y = int(x), int(y)
	w.sink.DispatchEvent(name, w.mouse.X, w.mouse.Y)
}

// translateConfigure emits resize and move independently, each only when
// the cached value changed.
func translateConfigure(w *Window, e xproto.ConfigureNotifyEvent) {
	width, height := int(e.Width), int(e.Height)
	x, y := int(e.X), int(e.Y)

	if width != w.width || height != w.height {
		w.sink.DispatchEvent(EventResize, width, height)
		w.width, w.height = width, height
	}
	if x != w.x || y != w.y {
		w.sink.DispatchEvent(EventMove, x, y)
		w.x, w.y = x, y
	}
}
