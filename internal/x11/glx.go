package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/glx"
	"github.com/BurntSushi/xgb/xproto"
)

// GLX attribute ids and values used by the wire calls and by matching.
const (
	GLXBufferSize            = 2
	GLXLevel                 = 3
	GLXDoublebuffer          = 5
	GLXStereo                = 6
	GLXAuxBuffers            = 7
	GLXRedSize               = 8
	GLXGreenSize             = 9
	GLXBlueSize              = 10
	GLXAlphaSize             = 11
	GLXDepthSize             = 12
	GLXStencilSize           = 13
	GLXAccumRedSize          = 14
	GLXAccumGreenSize        = 15
	GLXAccumBlueSize         = 16
	GLXAccumAlphaSize        = 17
	GLXConfigCaveat          = 0x20
	GLXTransparentType       = 0x23
	GLXTransparentIndexValue = 0x24
	GLXTransparentRedValue   = 0x25
	GLXTransparentGreenValue = 0x26
	GLXTransparentBlueValue  = 0x27
	GLXTransparentAlphaValue = 0x28
	GLXVisualID              = 0x800b
	GLXDrawableType          = 0x8010
	GLXRenderType            = 0x8011
	GLXXRenderable           = 0x8012
	GLXFBConfigID            = 0x8013
	GLXRGBAType              = 0x8014
	GLXSampleBuffers         = 100000
	GLXSamples               = 100001

	GLXDontCare = -1
)

// ErrBadAttribute is returned for an attribute a config does not carry.
var ErrBadAttribute = errors.New("glx: bad attribute")

// FBConfigInfo is one framebuffer configuration as reported by the server.
type FBConfigInfo struct {
	ID    glx.Fbconfig
	Props map[uint32]uint32
}

// ParseFBConfigs splits a GetFBConfigs property list into configs.
func ParseFBConfigs(numConfigs, numProps uint32, list []uint32) ([]FBConfigInfo, error) {
	stride := int(numProps) * 2
	if len(list) < int(numConfigs)*stride {
		return nil, fmt.Errorf("glx: short fbconfig list (%d values for %d configs of %d properties)",
			len(list), numConfigs, numProps)
	}

	configs := make([]FBConfigInfo, 0, numConfigs)
	for i := 0; i < int(numConfigs); i++ {
		props := make(map[uint32]uint32, numProps)
		chunk := list[i*stride : (i+1)*stride]
		for j := 0; j+1 < len(chunk); j += 2 {
			props[chunk[j]] = chunk[j+1]
		}
		configs = append(configs, FBConfigInfo{
			ID:    glx.Fbconfig(props[GLXFBConfigID]),
			Props: props,
		})
	}
	return configs, nil
}

// MatchFBConfigs filters configs by a zero-terminated (attribute, value)
// list. Size attributes are minimums, the render type is a bit mask,
// GLXDontCare matches anything and the rest must be equal. Order is kept.
func MatchFBConfigs(configs []FBConfigInfo, attribs []int32) []FBConfigInfo {
	var out []FBConfigInfo
	for _, cfg := range configs {
		if matchFBConfig(cfg, attribs) {
			out = append(out, cfg)
		}
	}
	return out
}

func matchFBConfig(cfg FBConfigInfo, attribs []int32) bool {
	for i := 0; i+1 < len(attribs); i += 2 {
		attr, want := attribs[i], attribs[i+1]
		if attr == 0 {
			break
		}
		if want == GLXDontCare {
			continue
		}
		raw, ok := cfg.Props[uint32(attr)]
		if !ok {
			return false
		}
		have := int32(raw)

		switch attr {
		case GLXBufferSize, GLXAuxBuffers,
			GLXRedSize, GLXGreenSize, GLXBlueSize, GLXAlphaSize,
			GLXDepthSize, GLXStencilSize,
			GLXAccumRedSize, GLXAccumGreenSize, GLXAccumBlueSize, GLXAccumAlphaSize,
			GLXSampleBuffers, GLXSamples:
			if have < want {
				return false
			}
		case GLXRenderType, GLXDrawableType:
			if have&want != want {
				return false
			}
		default:
			if have != want {
				return false
			}
		}
	}
	return true
}

// FBConfigs returns the framebuffer configurations of screen. The list is
// fetched once per screen.
func (c *Connection) FBConfigs(screen int) ([]FBConfigInfo, error) {
	if cached, ok := c.fbconfigs[screen]; ok {
		return cached, nil
	}
	reply, err := glx.GetFBConfigs(c.XUtil.Conn(), uint32(screen)).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get fbconfigs for screen %d: %w", screen, err)
	}
	configs, err := ParseFBConfigs(reply.NumFbConfigs, reply.NumProperties, reply.PropertyList)
	if err != nil {
		return nil, err
	}
	c.fbconfigs[screen] = configs
	return configs, nil
}

// ChooseFBConfigs returns the configs of screen matching attribs. A nil
// list matches every config.
func (c *Connection) ChooseFBConfigs(screen int, attribs []int32) ([]glx.Fbconfig, error) {
	configs, err := c.FBConfigs(screen)
	if err != nil {
		return nil, err
	}
	matched := MatchFBConfigs(configs, attribs)
	ids := make([]glx.Fbconfig, 0, len(matched))
	for _, cfg := range matched {
		ids = append(ids, cfg.ID)
	}
	return ids, nil
}

// FBConfigAttrib reads one attribute of a config. Unknown configs and
// attributes the config does not report fail with ErrBadAttribute.
func (c *Connection) FBConfigAttrib(screen int, id glx.Fbconfig, attr int32) (int, error) {
	configs, err := c.FBConfigs(screen)
	if err != nil {
		return 0, err
	}
	for _, cfg := range configs {
		if cfg.ID != id {
			continue
		}
		v, ok := cfg.Props[uint32(attr)]
		if !ok {
			return 0, ErrBadAttribute
		}
		return int(int32(v)), nil
	}
	return 0, ErrBadAttribute
}

// CreateContext creates an RGBA rendering context for id sharing display
// lists with share (0 for none). GLX protocol errors are returned as-is so
// callers can tell a bad share list from a bad config.
func (c *Connection) CreateContext(screen int, id glx.Fbconfig, share glx.Context) (glx.Context, error) {
	ctx, err := glx.NewContextId(c.XUtil.Conn())
	if err != nil {
		return 0, err
	}
	err = glx.CreateNewContextChecked(c.XUtil.Conn(), ctx, id, uint32(screen),
		GLXRGBAType, share, false).Check()
	if err != nil {
		return 0, err
	}
	return ctx, nil
}

// CreateSurface creates the GLX drawable for win.
func (c *Connection) CreateSurface(screen int, id glx.Fbconfig, win xproto.Window) (glx.Window, error) {
	surface, err := glx.NewWindowId(c.XUtil.Conn())
	if err != nil {
		return 0, err
	}
	err = glx.CreateWindowChecked(c.XUtil.Conn(), uint32(screen), id, win, surface, 0, nil).Check()
	if err != nil {
		return 0, err
	}
	return surface, nil
}

// DestroyContext releases a rendering context.
func (c *Connection) DestroyContext(ctx glx.Context) error {
	return glx.DestroyContextChecked(c.XUtil.Conn(), ctx).Check()
}

// DestroySurface releases a GLX drawable.
func (c *Connection) DestroySurface(surface glx.Window) error {
	return glx.DeleteWindowChecked(c.XUtil.Conn(), surface).Check()
}

// MakeCurrent binds ctx to surface for drawing and reading and returns the
// context tag later requests use.
func (c *Connection) MakeCurrent(old glx.ContextTag, surface glx.Window, ctx glx.Context) (glx.ContextTag, error) {
	reply, err := glx.MakeContextCurrent(c.XUtil.Conn(), old,
		glx.Drawable(surface), glx.Drawable(surface), ctx).Reply()
	if err != nil {
		return 0, err
	}
	return reply.ContextTag, nil
}

// SwapBuffers presents the back buffer of surface.
func (c *Connection) SwapBuffers(tag glx.ContextTag, surface glx.Window) error {
	return glx.SwapBuffersChecked(c.XUtil.Conn(), tag, glx.Drawable(surface)).Check()
}
