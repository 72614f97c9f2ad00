// Command g2dscene replays scene scripts through the blitter renderer.
//
//	g2dscene run scene.yaml --out frame.png
//	g2dscene run scene.yaml --config renderer.toml --fbdev
//	g2dscene drivers
package main

import (
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/g2d"
	"github.com/gogpu/g2d/backend/fbdev"
	"github.com/gogpu/g2d/backend/memblit"
	"github.com/gogpu/g2d/surface"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

type runOptions struct {
	config  string
	out     string
	fbdev   bool
	verbose bool
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "g2dscene",
		Short:        "Replay compositor scenes through the g2d renderer",
		SilenceUsage: true,
	}
	root.AddCommand(newRunCommand(), newDriversCommand())
	return root
}

func newRunCommand() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run scene.yaml",
		Short: "Composite the frames of a scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.config, "config", "", "renderer configuration file (TOML)")
	f.StringVar(&opts.out, "out", "", "write the first output as PNG")
	f.BoolVar(&opts.fbdev, "fbdev", false, "draw on real framebuffer devices")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log frame stages")
	return cmd
}

func newDriversCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "drivers",
		Short: "List registered blit drivers",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			available := make(map[string]bool)
			for _, name := range surface.Available() {
				available[name] = true
			}
			for _, name := range surface.List() {
				entry, _ := surface.Get(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s priority=%d available=%t\n", name, entry.Priority, available[name])
			}
		},
	}
}

func run(stdout, stderr io.Writer, path string, opts runOptions) error {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	g2d.SetLogger(logger)
	defer g2d.SetLogger(nil)

	sc, err := LoadScene(path)
	if err != nil {
		return err
	}
	cfg := g2d.DefaultConfig()
	if opts.config != "" {
		if cfg, err = g2d.LoadConfig(opts.config); err != nil {
			return err
		}
	}

	dev := memblit.New(memblit.WithLogger(logger))
	opener, err := newOpener(dev, sc, opts.fbdev, logger)
	if err != nil {
		return err
	}
	r, err := g2d.NewRenderer(g2d.WithConfig(cfg), g2d.WithBlitter(dev), g2d.WithFramebufferOpener(opener))
	if err != nil {
		return err
	}
	defer r.Destroy()

	s, err := load(r, sc)
	if err != nil {
		return err
	}
	defer s.close()

	frames := sc.Frames
	if len(frames) == 0 {
		frames = []FrameSpec{{}}
	}
	for _, f := range frames {
		if err := s.frame(f); err != nil {
			return err
		}
	}

	st := dev.Stats()
	fmt.Fprintf(stdout, "frames=%d blits=%d clears=%d finishes=%d pixels=%d\n",
		len(frames), st.Blits, st.Clears, st.Finishes, st.Pixels)

	if opts.out == "" {
		return nil
	}
	return writePNG(dev, displayed(s.outputs[0]), opts.out)
}

func newOpener(dev *memblit.Device, sc *Scene, hw bool, logger *slog.Logger) (surface.FramebufferOpener, error) {
	if hw {
		return &memblit.ImportingOpener{Device: dev, Opener: &fbdev.Opener{Logger: logger}}, nil
	}
	fo := memblit.NewFramebufferOpener(dev, memblit.ScreenConfig{Width: 800, Height: 480})
	for device, spec := range sc.Screens {
		format, err := screenFormat(spec.Format)
		if err != nil {
			return nil, fmt.Errorf("screen %s: %w", device, err)
		}
		fo.AddScreen(device, memblit.ScreenConfig{Width: spec.Width, Height: spec.Height, Format: format})
	}
	return fo, nil
}

func writePNG(dev *memblit.Device, d surface.Drawable, path string) error {
	img, err := dev.Snapshot(d)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
