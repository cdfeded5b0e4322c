package x11

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"
)

func TestSelectKeysym(t *testing.T) {
	const (
		a     xproto.Keysym = 'a'
		upA   xproto.Keysym = 'A'
		one   xproto.Keysym = '1'
		bang  xproto.Keysym = '!'
		kpEnd xproto.Keysym = 0xff9c
		kp1   xproto.Keysym = 0xffb1
	)

	tests := []struct {
		name          string
		first, second xproto.Keysym
		state         uint16
		want          xproto.Keysym
	}{
		{"plain", a, upA, 0, a},
		{"shift", a, upA, xproto.ModMaskShift, upA},
		{"caps lock", a, upA, xproto.ModMaskLock, upA},
		{"shift and caps lock", a, upA, xproto.ModMaskShift | xproto.ModMaskLock, upA},
		{"caps lock leaves digits", one, bang, xproto.ModMaskLock, one},
		{"shift digit", one, bang, xproto.ModMaskShift, bang},
		{"no second symbol fills case", a, noSymbol, xproto.ModMaskShift, upA},
		{"no second symbol without case", one, noSymbol, xproto.ModMaskShift, one},
		{"num lock keypad", kpEnd, kp1, xproto.ModMask2, kp1},
		{"num lock keypad with shift", kpEnd, kp1, xproto.ModMask2 | xproto.ModMaskShift, kpEnd},
		{"keypad without num lock", kpEnd, kp1, 0, kpEnd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectKeysym(tt.first, tt.second, tt.state); got != tt.want {
				t.Fatalf("expected %#x, got %#x", tt.want, got)
			}
		})
	}
}

func TestKeysymText(t *testing.T) {
	tests := []struct {
		name  string
		ks    xproto.Keysym
		state uint16
		want  string
	}{
		{"ascii", 'q', 0, "q"},
		{"latin1", 0xe9, 0, "é"},
		{"unicode keysym", 0x010020ac, 0, "€"},
		{"return", 0xff0d, 0, "\r"},
		{"keypad digit", 0xffb7, 0, "7"},
		{"keypad plus", 0xffab, 0, "+"},
		{"control letter", 'c', xproto.ModMaskControl, "\x03"},
		{"control bracket", '[', xproto.ModMaskControl, "\x1b"},
		{"control space", ' ', xproto.ModMaskControl, "\x00"},
		{"arrow key has no text", 0xff51, 0, ""},
		{"shift key has no text", 0xffe1, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeysymText(tt.ks, tt.state); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
