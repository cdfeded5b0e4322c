package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/1broseidon/glxwin/internal/window"
	"github.com/BurntSushi/xgb/xproto"
)

func TestEventPrinter_Human(t *testing.T) {
	var buf bytes.Buffer
	p := newEventPrinter(&buf, true)

	p.DispatchEvent(window.EventKeyPress, xproto.Keysym(0x61), window.ModShift)
	p.DispatchEvent(window.EventText, "a")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[0], "key_press") || !strings.HasSuffix(lines[0], "0x0061 1") {
		t.Fatalf("unexpected key line %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], `"a"`) {
		t.Fatalf("expected quoted text, got %q", lines[1])
	}
}

func TestEventPrinter_JSON(t *testing.T) {
	var buf bytes.Buffer
	p := newEventPrinter(&buf, false)

	p.DispatchEvent(window.EventResize, 800, 600)
	p.DispatchEvent(window.EventClose)

	want := "{\"event\":\"resize\",\"args\":[800,600]}\n{\"event\":\"close\",\"args\":null}\n"
	if buf.String() != want {
		t.Fatalf("expected %q, got %q", want, buf.String())
	}
}
