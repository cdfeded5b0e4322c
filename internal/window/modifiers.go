package window

import "github.com/BurntSushi/xgb/xproto"

// Modifier bits passed with key and button events.
const (
	ModShift    = 1 << 0
	ModCtrl     = 1 << 1
	ModAlt      = 1 << 2
	ModCapsLock = 1 << 3
	ModNumLock  = 1 << 4
	ModWindows  = 1 << 5
)

var modifierBits = []struct {
	native uint16
	mod    int
}{
	{xproto.ModMaskShift, ModShift},
	{xproto.ModMaskControl, ModCtrl},
	{xproto.ModMaskLock, ModCapsLock},
	{xproto.ModMask1, ModAlt},
	{xproto.ModMask2, ModNumLock},
	{xproto.ModMask4, ModWindows},
}

// TranslateModifiers maps a core protocol key/button state to modifier
// bits. Other state bits are ignored.
func TranslateModifiers(state uint16) int {
	mods := 0
	for _, b := range modifierBits {
		if state&b.native != 0 {
			mods |= b.mod
		}
	}
	return mods
}
