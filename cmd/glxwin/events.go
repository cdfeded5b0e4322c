package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/1broseidon/glxwin/internal/window"
	"github.com/BurntSushi/xgb/xproto"
)

// eventPrinter writes translated events, one per line: aligned text on a
// terminal, JSON otherwise.
type eventPrinter struct {
	w     io.Writer
	human bool
}

func newEventPrinter(w io.Writer, human bool) *eventPrinter {
	return &eventPrinter{w: w, human: human}
}

func (p *eventPrinter) DispatchEvent(name string, args ...interface{}) {
	if !p.human {
		data, err := json.Marshal(struct {
			Event string        `json:"event"`
			Args  []interface{} `json:"args"`
		}{name, args})
		if err != nil {
			return
		}
		fmt.Fprintln(p.w, string(data))
		return
	}

	parts := make([]string, 0, len(args))
	for _, arg := range args {
		switch v := arg.(type) {
		case xproto.Keysym:
			parts = append(parts, fmt.Sprintf("0x%04x", uint32(v)))
		case string:
			parts = append(parts, fmt.Sprintf("%q", v))
		default:
			parts = append(parts, fmt.Sprint(v))
		}
	}
	fmt.Fprintf(p.w, "%-14s %s\n", name, strings.Join(parts, " "))
}

// traceSink logs every event before passing it on.
type traceSink struct {
	next   window.Sink
	logger *slog.Logger
}

func (t traceSink) DispatchEvent(name string, args ...interface{}) {
	t.logger.Debug("event", "name", name, "args", args)
	t.next.DispatchEvent(name, args...)
}
