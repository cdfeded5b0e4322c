package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/glxwin/internal/config"
	"github.com/1broseidon/glxwin/internal/glconfig"
	"github.com/1broseidon/glxwin/internal/imagecodec"
	"github.com/1broseidon/glxwin/internal/logging"
	"github.com/1broseidon/glxwin/internal/window"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

const frameInterval = time.Second / 60

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runRun(os.Args[2:]))
	case "configs":
		os.Exit(runConfigs(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "image":
		os.Exit(runImage(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: glxwin <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Open a GL window and print its events until closed")
	fmt.Fprintln(w, "  configs             List framebuffer configs matching the pixel format")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  image FILE          Decode an image and report its pixel format")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'glxwin <command> --help' for command-specific options.")
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromPath(path)
}

func runRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/glxwin/config.yaml)")
	display := fs.String("display", "", "X display (overrides config)")
	title := fs.String("title", "", "Window title (overrides config)")
	width := fs.Int("width", 0, "Window width (overrides config)")
	height := fs.Int("height", 0, "Window height (overrides config)")
	frames := fs.Int("frames", 0, "Stop after this many frames (0 = until closed)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: glxwin run [options]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open a window with a GL context and print translated events.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := res.Config
	if *display != "" {
		cfg.Display = *display
	}
	if *title != "" {
		cfg.Window.Title = *title
	}
	if *width > 0 {
		cfg.Window.Width = *width
	}
	if *height > 0 {
		cfg.Window.Height = *height
	}

	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closer.Close()

	factory, err := window.Open(cfg.Display, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to display: %v\n", err)
		return 1
	}
	defer factory.Close()
	factory.SetScreen(cfg.Screen)
	factory.SetUTF8Titles(cfg.Window.GetUTF8Title())

	configs, err := factory.Configs(cfg.PixelFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to query pixel formats: %v\n", err)
		return 1
	}
	if len(configs) == 0 {
		fmt.Fprintf(os.Stderr, "No framebuffer config matches pixel_format %v\n", cfg.PixelFormat)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mapCtx := ctx
	if cfg.Window.MapTimeout > 0 {
		var cancel context.CancelFunc
		mapCtx, cancel = context.WithTimeout(ctx, cfg.Window.MapTimeout)
		defer cancel()
	}

	win, err := factory.CreateWindow(mapCtx, cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create window: %v\n", err)
		return 1
	}
	defer func() {
		if err := win.Close(); err != nil && !errors.Is(err, window.ErrWindowClosed) {
			logger.Warn("window close failed", "error", err)
		}
	}()

	if err := factory.CreateContext(win, configs[0], nil); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create context: %v\n", err)
		return 1
	}
	if err := win.SetTitle(cfg.Window.Title); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set title: %v\n", err)
		return 1
	}
	if err := win.SwitchTo(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to make context current: %v\n", err)
		return 1
	}

	if rect, err := win.ServerRect(); err == nil {
		logger.Info("window mapped", "window", win.ID(), "fbconfig", configs[0].ID,
			"x", rect.X, "y", rect.Y, "width", rect.Width, "height", rect.Height)
	}
	if t, err := win.ServerTitle(); err == nil {
		logger.Debug("title set", "title", t)
	}

	printer := newEventPrinter(os.Stdout, term.IsTerminal(int(os.Stdout.Fd())))
	var sink window.Sink = printer
	if cfg.TraceEvents {
		sink = traceSink{next: sink, logger: logger}
	}
	closeRequested := false
	win.SetSink(window.SinkFunc(func(name string, args ...interface{}) {
		if name == window.EventClose {
			closeRequested = true
		}
		sink.DispatchEvent(name, args...)
	}))

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for n := 0; !closeRequested && (*frames == 0 || n < *frames); n++ {
		if err := win.DispatchEvents(); err != nil {
			fmt.Fprintf(os.Stderr, "Event dispatch failed: %v\n", err)
			return 1
		}
		if err := win.Flip(); err != nil {
			fmt.Fprintf(os.Stderr, "Flip failed: %v\n", err)
			return 1
		}
		select {
		case <-ctx.Done():
			return 0
		case <-ticker.C:
		}
	}
	return 0
}

func runConfigs(args []string) int {
	fs := flag.NewFlagSet("configs", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/glxwin/config.yaml)")
	display := fs.String("display", "", "X display (overrides config)")
	all := fs.Bool("all", false, "Ignore pixel_format and list every config")
	jsonOut := fs.Bool("json", false, "Output JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config
	if *display != "" {
		cfg.Display = *display
	}

	factory, err := window.Open(cfg.Display, slog.Default())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer factory.Close()
	factory.SetScreen(cfg.Screen)

	requested := cfg.PixelFormat
	if *all {
		requested = nil
	}
	configs, err := factory.Configs(requested)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut {
		type item struct {
			ID         uint32         `json:"id"`
			Screen     int            `json:"screen"`
			Attributes map[string]int `json:"attributes"`
		}
		out := make([]item, 0, len(configs))
		for _, c := range configs {
			out = append(out, item{ID: uint32(c.ID), Screen: c.Screen, Attributes: c.Attributes})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	if len(configs) == 0 {
		fmt.Println("No matching configs.")
		return 0
	}
	for _, c := range configs {
		fmt.Println(c)
	}
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  glxwin config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  glxwin config print [--path PATH] [--defaults]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintf(os.Stderr, "pixel_format attributes: %v\n", glconfig.Names())
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/glxwin/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		if _, err := loadConfig(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/glxwin/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := loadConfig(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			if res.File != "" {
				fmt.Printf("# file: %s\n", res.File)
			}
			cfg = res.Config
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func runImage(args []string) int {
	fs := flag.NewFlagSet("image", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	autoOrient := fs.Bool("auto-orient", true, "Apply EXIF orientation")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: glxwin image [--auto-orient=false] FILE...")
		fmt.Fprintf(os.Stderr, "\nKnown extensions: %v\n", imagecodec.Decoder{}.Extensions())
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	dec := imagecodec.Decoder{AutoOrient: *autoOrient}
	status := 0
	for _, file := range fs.Args() {
		img, err := dec.DecodeFile(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", file, err)
			status = 1
			continue
		}
		fmt.Printf("%s: %dx%d %s (%d bytes)\n", file, img.Width, img.Height, img.Format, len(img.Pixels))
	}
	return status
}
