package x11

import (
	"unicode"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/keybind"
)

const noSymbol xproto.Keysym = 0

// Keypad keysyms that compose to text.
const (
	xkKPSpace    xproto.Keysym = 0xff80
	xkKPTab      xproto.Keysym = 0xff89
	xkKPEnter    xproto.Keysym = 0xff8d
	xkKPMultiply xproto.Keysym = 0xffaa
	xkKPDivide   xproto.Keysym = 0xffaf
	xkKP0        xproto.Keysym = 0xffb0
	xkKP9        xproto.Keysym = 0xffb9
	xkKPEqual    xproto.Keysym = 0xffbd
)

var functionKeyRunes = map[xproto.Keysym]rune{
	0xff08: '\b', // BackSpace
	0xff09: '\t', // Tab
	0xff0a: '\n', // Linefeed
	0xff0b: '\v', // Clear
	0xff0d: '\r', // Return
	0xff1b: 0x1b, // Escape
	0xffff: 0x7f, // Delete

	xkKPSpace: ' ',
	xkKPTab:   '\t',
	xkKPEnter: '\r',
	xkKPEqual: '=',
}

// Keysym returns the keysym bound to keycode in the given column of the
// keyboard map.
func (c *Connection) Keysym(keycode xproto.Keycode, column byte) xproto.Keysym {
	return keybind.KeysymGet(c.XUtil, keycode, column)
}

// LookupText returns the text a key press composes under state, or "".
func (c *Connection) LookupText(keycode xproto.Keycode, state uint16) string {
	ks := SelectKeysym(c.Keysym(keycode, 0), c.Keysym(keycode, 1), state)
	return KeysymText(ks, state)
}

// RefreshKeyboard reloads the keyboard and modifier maps after a
// MappingNotify.
func (c *Connection) RefreshKeyboard() {
	keyMap, modMap := keybind.MapsGet(c.XUtil)
	keybind.KeyMapSet(c.XUtil, keyMap)
	keybind.ModMapSet(c.XUtil, modMap)
}

// SelectKeysym picks the keysym of a key's first group according to the
// shift, caps lock and num lock bits of state.
func SelectKeysym(first, second xproto.Keysym, state uint16) xproto.Keysym {
	if second == noSymbol {
		lower, upper := keysymCase(first)
		if lower != upper {
			first, second = lower, upper
		} else {
			second = first
		}
	}

	shift := state&xproto.ModMaskShift != 0
	lock := state&xproto.ModMaskLock != 0

	if state&xproto.ModMask2 != 0 && isKeypad(second) {
		if shift {
			return first
		}
		return second
	}

	switch {
	case !shift && !lock:
		return first
	case !shift && lock:
		_, upper := keysymCase(first)
		return upper
	case shift && lock:
		_, upper := keysymCase(second)
		return upper
	default:
		return second
	}
}

// KeysymText converts ks to the text it produces, folding printable
// characters to C0 controls when Control is held. Keysyms without a text
// form return "".
func KeysymText(ks xproto.Keysym, state uint16) string {
	r, ok := KeysymRune(ks)
	if !ok {
		return ""
	}
	if state&xproto.ModMaskControl != 0 {
		r = controlRune(r)
	}
	return string(r)
}

// KeysymRune maps Latin-1, Unicode and the text-producing function and
// keypad keysyms to their rune.
func KeysymRune(ks xproto.Keysym) (rune, bool) {
	switch {
	case ks >= 0x20 && ks <= 0x7e, ks >= 0xa0 && ks <= 0xff:
		return rune(ks), true
	case ks >= 0x01000100 && ks <= 0x0110ffff:
		return rune(ks - 0x01000000), true
	case ks >= xkKP0 && ks <= xkKP9:
		return rune('0' + (ks - xkKP0)), true
	case ks >= xkKPMultiply && ks <= xkKPDivide:
		return rune("*+,-./"[ks-xkKPMultiply]), true
	}
	r, ok := functionKeyRunes[ks]
	return r, ok
}

func controlRune(r rune) rune {
	switch {
	case r >= '@' && r < 0x7f, r == ' ':
		return r & 0x1f
	case r == '2':
		return 0
	case r >= '3' && r <= '7':
		return r - ('3' - 0x1b)
	case r == '8':
		return 0x7f
	case r == '/':
		return '_' & 0x1f
	}
	return r
}

func isKeypad(ks xproto.Keysym) bool {
	return ks >= xkKPSpace && ks <= xkKPEqual
}

// keysymCase returns the lower and upper case forms of ks. Keysyms without
// case return ks twice.
func keysymCase(ks xproto.Keysym) (xproto.Keysym, xproto.Keysym) {
	switch {
	case ks >= 'a' && ks <= 'z':
		return ks, ks - 0x20
	case ks >= 'A' && ks <= 'Z':
		return ks + 0x20, ks
	case ks >= 0xe0 && ks <= 0xfe && ks != 0xf7:
		return ks, ks - 0x20
	case ks >= 0xc0 && ks <= 0xde && ks != 0xd7:
		return ks + 0x20, ks
	case ks >= 0x01000100 && ks <= 0x0110ffff:
		r := rune(ks - 0x01000000)
		return xproto.Keysym(unicode.ToLower(r)) + 0x01000000, xproto.Keysym(unicode.ToUpper(r)) + 0x01000000
	}
	return ks, ks
}
