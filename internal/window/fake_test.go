package window

import (
	"errors"
	"testing"

	"github.com/1broseidon/glxwin/internal/platform"
	"github.com/1broseidon/glxwin/internal/x11"
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/glx"
	"github.com/BurntSushi/xgb/xproto"
)

// fakeSource hands out queued events. Once drained, WaitForEvent blocks
// forever when open is set and reads as a closed connection otherwise.
type fakeSource struct {
	events []xgb.Event
	open   bool
}

func (s *fakeSource) PollForEvent() (xgb.Event, xgb.Error) {
	if len(s.events) == 0 {
		return nil, nil
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, nil
}

func (s *fakeSource) WaitForEvent() (xgb.Event, xgb.Error) {
	if len(s.events) == 0 && s.open {
		select {}
	}
	return s.PollForEvent()
}

type propertyWrite struct {
	win  xproto.Window
	prop string
	typ  string
	data string
}

// fakeBackend records native calls. With autoMap set, MapWindow queues the
// window's MapNotify.
type fakeBackend struct {
	src *fakeSource

	nextWindow xproto.Window
	calls      []string
	autoMap    bool

	atoms     map[string]xproto.Atom
	props     []propertyWrite
	protocols map[xproto.Window][]string
	masks     map[xproto.Window]uint32
	destroyed []xproto.Window

	keysyms map[xproto.Keycode]xproto.Keysym
	text    map[xproto.Keycode]string
	refresh int

	contextErr   error
	surfaceErr   error
	destroyErr   error
	nextContext  glx.Context
	lastShare    glx.Context
	madeCurrent  []glx.ContextTag
	swaps        []glx.ContextTag
	fbconfigs    []glx.Fbconfig
	fbconfigAttr map[int32]int
}

var _ platform.Backend = (*fakeBackend)(nil)

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		src:        &fakeSource{},
		nextWindow: 0x400001,
		autoMap:    true,
		atoms: map[string]xproto.Atom{
			"WM_PROTOCOLS":      1,
			"WM_DELETE_WINDOW":  2,
			"WM_NAME":           39,
			"WM_ICON_NAME":      37,
			"_NET_WM_NAME":      300,
			"_NET_WM_ICON_NAME": 301,
			"UTF8_STRING":       302,
		},
		protocols:    make(map[xproto.Window][]string),
		masks:        make(map[xproto.Window]uint32),
		keysyms:      make(map[xproto.Keycode]xproto.Keysym),
		text:         make(map[xproto.Keycode]string),
		nextContext:  0x800001,
		fbconfigAttr: map[int32]int{x11.GLXDepthSize: 24, x11.GLXDoublebuffer: 1},
	}
}

func (b *fakeBackend) push(evs ...xgb.Event) { b.src.events = append(b.src.events, evs...) }

func (b *fakeBackend) Screen() int             { return 0 }
func (b *fakeBackend) Events() x11.EventSource { return b.src }
func (b *fakeBackend) Close()                  { b.calls = append(b.calls, "close") }

func (b *fakeBackend) CreateWindow(width, height int) (xproto.Window, error) {
	id := b.nextWindow
	b.nextWindow++
	b.calls = append(b.calls, "create_window")
	return id, nil
}

func (b *fakeBackend) DestroyWindow(win xproto.Window) error {
	b.calls = append(b.calls, "destroy_window")
	b.destroyed = append(b.destroyed, win)
	return b.destroyErr
}

func (b *fakeBackend) SelectInput(win xproto.Window, mask uint32) error {
	b.masks[win] = mask
	return nil
}

func (b *fakeBackend) MapWindow(win xproto.Window) error {
	b.calls = append(b.calls, "map_window")
	if b.autoMap {
		b.push(xproto.MapNotifyEvent{Event: win, Window: win})
	}
	return nil
}

func (b *fakeBackend) SetProtocols(win xproto.Window, protocols ...string) error {
	b.protocols[win] = protocols
	return nil
}

func (b *fakeBackend) Atom(name string, onlyIfExists bool) (xproto.Atom, error) {
	atom, ok := b.atoms[name]
	if !ok && !onlyIfExists {
		atom = xproto.Atom(1000 + len(b.atoms))
		b.atoms[name] = atom
	}
	return atom, nil
}

func (b *fakeBackend) SetTextProperty(win xproto.Window, prop, typ string, data []byte) error {
	b.props = append(b.props, propertyWrite{win: win, prop: prop, typ: typ, data: string(data)})
	return nil
}

func (b *fakeBackend) WindowTitle(win xproto.Window) (string, error) {
	for i := len(b.props) - 1; i >= 0; i-- {
		if b.props[i].win == win && b.props[i].prop == "_NET_WM_NAME" {
			return b.props[i].data, nil
		}
	}
	return "", errors.New("no title")
}

func (b *fakeBackend) WindowRect(win xproto.Window) (platform.Rect, error) {
	return platform.Rect{X: 10, Y: 20, Width: 640, Height: 480}, nil
}

func (b *fakeBackend) Keysym(keycode xproto.Keycode, column byte) xproto.Keysym {
	return b.keysyms[keycode]
}

func (b *fakeBackend) LookupText(keycode xproto.Keycode, state uint16) string {
	return b.text[keycode]
}

func (b *fakeBackend) RefreshKeyboard() { b.refresh++ }

func (b *fakeBackend) ChooseFBConfigs(screen int, attribs []int32) ([]glx.Fbconfig, error) {
	b.calls = append(b.calls, "choose_fbconfigs")
	return b.fbconfigs, nil
}

func (b *fakeBackend) FBConfigAttrib(screen int, id glx.Fbconfig, attr int32) (int, error) {
	v, ok := b.fbconfigAttr[attr]
	if !ok {
		return 0, x11.ErrBadAttribute
	}
	return v, nil
}

func (b *fakeBackend) CreateContext(screen int, id glx.Fbconfig, share glx.Context) (glx.Context, error) {
	b.lastShare = share
	if b.contextErr != nil {
		return 0, b.contextErr
	}
	ctx := b.nextContext
	b.nextContext++
	b.calls = append(b.calls, "create_context")
	return ctx, nil
}

func (b *fakeBackend) CreateSurface(screen int, id glx.Fbconfig, win xproto.Window) (glx.Window, error) {
	if b.surfaceErr != nil {
		return 0, b.surfaceErr
	}
	b.calls = append(b.calls, "create_surface")
	return glx.Window(win + 0x1000), nil
}

func (b *fakeBackend) DestroyContext(ctx glx.Context) error {
	b.calls = append(b.calls, "destroy_context")
	return nil
}

func (b *fakeBackend) DestroySurface(surface glx.Window) error {
	b.calls = append(b.calls, "destroy_surface")
	return nil
}

func (b *fakeBackend) MakeCurrent(old glx.ContextTag, surface glx.Window, ctx glx.Context) (glx.ContextTag, error) {
	b.madeCurrent = append(b.madeCurrent, old)
	return glx.ContextTag(ctx) + 1, nil
}

func (b *fakeBackend) SwapBuffers(tag glx.ContextTag, surface glx.Window) error {
	b.swaps = append(b.swaps, tag)
	return nil
}

// recorder is a Sink that keeps every event it receives.
type recorder struct {
	events []recorded
}

type recorded struct {
	name string
	args []interface{}
}

func (r *recorder) DispatchEvent(name string, args ...interface{}) {
	r.events = append(r.events, recorded{name: name, args: args})
}

func (r *recorder) names() []string {
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.name
	}
	return out
}

func (r *recorder) count(name string) int {
	n := 0
	for _, ev := range r.events {
		if ev.name == name {
			n++
		}
	}
	return n
}

func (r *recorder) reset() { r.events = nil }

// newTestWindow creates a mapped window on a fake backend with a recorder
// attached.
func newTestWindow(t *testing.T, b *fakeBackend) (*Factory, *Window, *recorder) {
	t.Helper()
	f := NewFactory(b, nil)
	w, err := f.CreateWindow(testContext(), 640, 480)
	if err != nil {
		t.Fatalf("create window: %v", err)
	}
	rec := &recorder{}
	w.SetSink(rec)
	return f, w, rec
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
