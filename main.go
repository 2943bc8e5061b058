package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"math"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/tinyrange/piko/internal/config"
	"github.com/tinyrange/piko/internal/graphics"
	"github.com/tinyrange/piko/internal/vecmath"
	"github.com/tinyrange/piko/internal/window"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("piko", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	defaultPath, err := config.DefaultConfigPath()
	if err != nil {
		defaultPath = "config.yaml"
	}

	fs := flag.NewFlagSet("piko", flag.ContinueOnError)
	configPath := fs.String("config", defaultPath, "path to the YAML configuration")
	title := fs.String("title", "", "window title")
	width := fs.Int("width", 0, "window width (0 = half the display)")
	height := fs.Int("height", 0, "window height (0 = half the display)")
	fullscreen := fs.Bool("fullscreen", false, "start in fullscreen mode")
	screenshot := fs.String("screenshot", "", "write the first frame to this PNG file and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.LoadFromPath(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			cfg.Window.Title = *title
		case "width":
			cfg.Window.Width = *width
		case "height":
			cfg.Window.Height = *height
		case "fullscreen":
			cfg.Window.Fullscreen = *fullscreen
		}
	})
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	log, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(log)

	paused := false
	hook := window.KeyHook(func(w *window.Window, key window.Key) bool {
		if key == window.KeySpace {
			paused = !paused
			return true
		}
		return false
	})

	gfx, err := graphics.New(graphics.Options{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		Handler:    hook,
		FrameRate:  cfg.Render.FrameRate,
		Logger:     log,
	})
	if err != nil {
		return fmt.Errorf("open window: %w", err)
	}
	gfx.SetClearColor(graphics.Color(cfg.Render.ClearColor))

	tex, err := gfx.NewTexture(checkerImage())
	if err != nil {
		gfx.Close()
		return fmt.Errorf("texture: %w", err)
	}

	mesh := graphics.Tetrahedron(1, [4]graphics.Color{
		{0.95, 0.35, 0.3, 1},
		{0.3, 0.85, 0.4, 1},
		{0.3, 0.5, 0.95, 1},
		{0.95, 0.85, 0.3, 1},
	})
	light := vecmath.V3[float32](0.5, 1, 2)

	var (
		angle     float64
		frames    int
		lastTitle = time.Now()
	)
	return gfx.Loop(func(f graphics.Frame) error {
		if !paused {
			angle = math.Mod(angle+f.Delta().Seconds()*math.Pi/2, 2*math.Pi)
		}

		// The mesh rotates in GL, so turn the light the other way to keep it
		// fixed in world space.
		lit := graphics.Shade(mesh, light.RotateY(-angle), 0.25)
		f.RenderTriangles(lit, graphics.Transform{
			Position:  vecmath.V3[float32](0, 0, -4),
			RotationY: float32(angle * 180 / math.Pi),
		})
		f.RenderQuad(16, 16, 64, 64, tex, graphics.ColorWhite)

		frames++
		if since := time.Since(lastTitle); since >= time.Second {
			fps := float64(frames) / since.Seconds()
			f.Window().SetTitle(fmt.Sprintf("%s - %.0f fps", cfg.Window.Title, fps))
			frames = 0
			lastTitle = time.Now()
		}

		if *screenshot != "" {
			if err := writeScreenshot(f, *screenshot); err != nil {
				return err
			}
			log.Info("screenshot written", "path", *screenshot)
			return graphics.ErrStop
		}
		return nil
	})
}

// newLogger picks a text handler for terminals and JSON otherwise, unless the
// configuration names a format.
func newLogger(cfg config.LogConfig, out *os.File) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	format := cfg.Format
	if format == "auto" {
		format = "json"
		if term.IsTerminal(int(out.Fd())) {
			format = "text"
		}
	}

	if format == "json" {
		return slog.New(slog.NewJSONHandler(out, opts)), nil
	}
	return slog.New(slog.NewTextHandler(out, opts)), nil
}

func writeScreenshot(f graphics.Frame, path string) error {
	img, err := f.Screenshot()
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create screenshot file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encode screenshot: %w", err)
	}
	return file.Close()
}

func checkerImage() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	red := color.NRGBA{R: 0xff, G: 0x66, B: 0x66, A: 0xff}
	green := color.NRGBA{R: 0x66, G: 0xff, B: 0x66, A: 0xff}

	for y := range 4 {
		for x := range 4 {
			if (x+y)%2 == 0 {
				img.Set(x, y, red)
			} else {
				img.Set(x, y, green)
			}
		}
	}
	return img
}
