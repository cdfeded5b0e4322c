// Package glconfig negotiates GLX framebuffer configurations against a
// fixed table of named attributes.
package glconfig

import (
	"fmt"
	"sort"
	"strings"

	"github.com/1broseidon/glxwin/internal/x11"
	"github.com/BurntSushi/xgb/glx"
)

// Attributes maps attribute names to GLX attribute ids.
var Attributes = map[string]int32{
	"buffer_size":             x11.GLXBufferSize,
	"level":                   x11.GLXLevel,
	"doublebuffer":            x11.GLXDoublebuffer,
	"stereo":                  x11.GLXStereo,
	"aux_buffers":             x11.GLXAuxBuffers,
	"red_size":                x11.GLXRedSize,
	"green_size":              x11.GLXGreenSize,
	"blue_size":               x11.GLXBlueSize,
	"alpha_size":              x11.GLXAlphaSize,
	"depth_size":              x11.GLXDepthSize,
	"stencil_size":            x11.GLXStencilSize,
	"accum_red_size":          x11.GLXAccumRedSize,
	"accum_green_size":        x11.GLXAccumGreenSize,
	"accum_blue_size":         x11.GLXAccumBlueSize,
	"accum_alpha_size":        x11.GLXAccumAlphaSize,
	"sample_buffers":          x11.GLXSampleBuffers,
	"samples":                 x11.GLXSamples,
	"render_type":             x11.GLXRenderType,
	"config_caveat":           x11.GLXConfigCaveat,
	"transparent_type":        x11.GLXTransparentType,
	"transparent_index_value": x11.GLXTransparentIndexValue,
	"transparent_red_value":   x11.GLXTransparentRedValue,
	"transparent_green_value": x11.GLXTransparentGreenValue,
	"transparent_blue_value":  x11.GLXTransparentBlueValue,
	"transparent_alpha_value": x11.GLXTransparentAlphaValue,
}

// UnknownAttributeError reports a requested attribute name missing from
// Attributes.
type UnknownAttributeError struct {
	Name string
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("unknown pixel format attribute %q", e.Name)
}

// Chooser is the GLX capability Enumerate needs.
type Chooser interface {
	ChooseFBConfigs(screen int, attribs []int32) ([]glx.Fbconfig, error)
	FBConfigAttrib(screen int, id glx.Fbconfig, attr int32) (int, error)
}

// Config is a concrete framebuffer configuration and the attributes the
// server reported for it.
type Config struct {
	Screen     int
	ID         glx.Fbconfig
	Attributes map[string]int
}

// Get returns the named attribute.
func (c *Config) Get(name string) (int, bool) {
	v, ok := c.Attributes[name]
	return v, ok
}

func (c *Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "fbconfig 0x%x (screen %d)", uint32(c.ID), c.Screen)
	for _, name := range Names() {
		if v, ok := c.Attributes[name]; ok {
			fmt.Fprintf(&b, " %s=%d", name, v)
		}
	}
	return b.String()
}

// Names returns the attribute names in sorted order.
func Names() []string {
	names := make([]string, 0, len(Attributes))
	for name := range Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every key of requested is a known attribute.
func Validate(requested map[string]int) error {
	for _, name := range sortedKeys(requested) {
		if _, ok := Attributes[name]; !ok {
			return &UnknownAttributeError{Name: name}
		}
	}
	return nil
}

// AttribList flattens requested into a zero-terminated GLX attribute list
// ordered by name. An empty request yields nil, which matches every config.
func AttribList(requested map[string]int) ([]int32, error) {
	if err := Validate(requested); err != nil {
		return nil, err
	}
	if len(requested) == 0 {
		return nil, nil
	}

	attribs := make([]int32, 0, len(requested)*2+2)
	for _, name := range sortedKeys(requested) {
		attribs = append(attribs, Attributes[name], int32(requested[name]))
	}
	return append(attribs, 0, 0), nil
}

// Enumerate returns every config of screen matching requested. Attributes
// left out of requested are not constrained. No match is an empty result,
// not an error. Unknown names fail before the server is asked.
func Enumerate(gl Chooser, screen int, requested map[string]int) ([]*Config, error) {
	attribs, err := AttribList(requested)
	if err != nil {
		return nil, err
	}

	ids, err := gl.ChooseFBConfigs(screen, attribs)
	if err != nil {
		return nil, fmt.Errorf("failed to choose fbconfigs: %w", err)
	}

	configs := make([]*Config, 0, len(ids))
	for _, id := range ids {
		configs = append(configs, &Config{
			Screen:     screen,
			ID:         id,
			Attributes: QueryAttributes(gl, screen, id),
		})
	}
	return configs, nil
}

// QueryAttributes reads every known attribute of id. Attributes the server
// rejects are left out of the result.
func QueryAttributes(gl Chooser, screen int, id glx.Fbconfig) map[string]int {
	attrs := make(map[string]int, len(Attributes))
	for name, attr := range Attributes {
		v, err := gl.FBConfigAttrib(screen, id, attr)
		if err != nil {
			continue
		}
		attrs[name] = v
	}
	return attrs
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
