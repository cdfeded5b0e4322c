package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/1broseidon/glxwin/internal/glconfig"
)

// WindowConfig describes the window the run command opens.
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`

	// UTF8Title writes the extended naming properties as UTF8_STRING when
	// the server supports it. Default: true
	UTF8Title *bool `yaml:"utf8_title,omitempty"`

	// MapTimeout bounds the wait for the window to be mapped.
	// 0 waits forever.
	MapTimeout time.Duration `yaml:"map_timeout"`
}

// GetUTF8Title returns the UTF8Title setting, defaulting to true.
func (w *WindowConfig) GetUTF8Title() bool {
	if w.UTF8Title == nil {
		return true
	}
	return *w.UTF8Title
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	// Level controls verbosity: debug, info, warn, error
	Level string `yaml:"level"`
	// Format is text or json
	Format string `yaml:"format"`
	// File is the log file path; empty logs to stderr
	File string `yaml:"file,omitempty"`
	// MaxSizeMB rotates the file once it grows past this size (0 = never)
	MaxSizeMB int `yaml:"max_size_mb"`
	// MaxFiles is how many rotated files are kept
	MaxFiles int `yaml:"max_files"`
}

// Config is the glxwin configuration.
type Config struct {
	Display string `yaml:"display"`
	// Screen is the GLX screen configs are negotiated on; -1 uses the
	// connection default.
	Screen int `yaml:"screen"`

	Window WindowConfig `yaml:"window"`

	// PixelFormat is the requested framebuffer template, attribute name to
	// value. Omitted attributes are not constrained.
	PixelFormat map[string]int `yaml:"pixel_format"`

	Logging LoggingConfig `yaml:"logging"`

	// TraceEvents logs every translated event at debug level.
	TraceEvents bool `yaml:"trace_events"`
}

const (
	DefaultWidth     = 640
	DefaultHeight    = 480
	DefaultTitle     = "glxwin"
	DefaultMaxSizeMB = 10
	DefaultMaxFiles  = 3
)

// DefaultPixelFormat is the template used when pixel_format is absent.
func DefaultPixelFormat() map[string]int {
	return map[string]int{
		"doublebuffer": 1,
		"depth_size":   24,
	}
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Screen: -1,
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Title:  DefaultTitle,
		},
		PixelFormat: DefaultPixelFormat(),
		Logging: LoggingConfig{
			Level:     "info",
			Format:    "text",
			MaxSizeMB: DefaultMaxSizeMB,
			MaxFiles:  DefaultMaxFiles,
		},
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Screen < -1 {
		return &ValidationError{Path: "screen", Err: fmt.Errorf("screen must be >= -1")}
	}
	if c.Window.Width <= 0 {
		return &ValidationError{Path: "window.width", Err: fmt.Errorf("width must be > 0")}
	}
	if c.Window.Height <= 0 {
		return &ValidationError{Path: "window.height", Err: fmt.Errorf("height must be > 0")}
	}
	if c.Window.Width > 0xffff || c.Window.Height > 0xffff {
		return &ValidationError{Path: "window", Err: fmt.Errorf("window size must fit in 16 bits")}
	}
	if c.Window.MapTimeout < 0 {
		return &ValidationError{Path: "window.map_timeout", Err: fmt.Errorf("map_timeout must be >= 0")}
	}
	if err := glconfig.Validate(c.PixelFormat); err != nil {
		path := "pixel_format"
		var unknown *glconfig.UnknownAttributeError
		if errors.As(err, &unknown) {
			path += "." + unknown.Name
		}
		return &ValidationError{Path: path, Err: err}
	}
	if !isValidLogLevel(c.Logging.Level) {
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	if f := strings.ToLower(c.Logging.Format); f != "text" && f != "json" {
		return &ValidationError{Path: "logging.format", Err: fmt.Errorf("format must be one of: text, json")}
	}
	if c.Logging.MaxSizeMB < 0 {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 0")}
	}
	if c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging.max_files", Err: fmt.Errorf("max_files must be >= 0")}
	}
	return nil
}

func isValidLogLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}
