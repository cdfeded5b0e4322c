package window

// Event names passed to a Sink, with their arguments.
const (
	EventKeyPress     = "key_press"     // symbol xproto.Keysym, modifiers int
	EventKeyRelease   = "key_release"   // symbol xproto.Keysym, modifiers int
	EventText         = "text"          // text string
	EventMouseMotion  = "mouse_motion"  // x, y, dx, dy int
	EventMousePress   = "mouse_press"   // button int, x, y int, modifiers int
	EventMouseRelease = "mouse_release" // button int, x, y int, modifiers int
	EventClose        = "close"         // no arguments
	EventExpose       = "expose"        // no arguments
	EventMouseEnter   = "mouse_enter"   // x, y int
	EventMouseLeave   = "mouse_leave"   // x, y int
	EventResize       = "resize"        // width, height int
	EventMove         = "move"          // x, y int
)

// Sink receives translated events.
type Sink interface {
	DispatchEvent(name string, args ...interface{})
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(name string, args ...interface{})

func (f SinkFunc) DispatchEvent(name string, args ...interface{}) { f(name, args...) }

type discardSink struct{}

func (discardSink) DispatchEvent(string, ...interface{}) {}
