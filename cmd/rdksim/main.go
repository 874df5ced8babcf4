package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/rdksim/internal/analysis"
	"github.com/san-kum/rdksim/internal/config"
	"github.com/san-kum/rdksim/internal/ensemble"
	"github.com/san-kum/rdksim/internal/export"
	"github.com/san-kum/rdksim/internal/host"
	"github.com/san-kum/rdksim/internal/kinematogram"
	"github.com/san-kum/rdksim/internal/motion"
	"github.com/san-kum/rdksim/internal/render"
	"github.com/san-kum/rdksim/internal/trial"
	"github.com/san-kum/rdksim/internal/tui"
	"github.com/san-kum/rdksim/internal/viz"
)

var (
	configFile string
	preset     string
	logLevel   string
	logFile    string

	seed      int64
	dotCount  int
	speed     int
	coherence int
	direction string
	fps       int
	width     int
	height    int

	// render
	frames   int
	every    int
	outPath  string
	frameDir string
	svgPath  string
	ink      string

	// trial
	pngPath string

	// stats
	ticks int
	bins  int
	runs  int
	alpha float64

	// tui
	columns int
	rows    int
	theme   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "rdksim",
		Short:         "random-dot kinematogram",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&logFile, "log-file", "", "write logs to file instead of stderr")
	pf.Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	pf.IntVar(&dotCount, "dots", config.DefaultDotCount, "number of dots")
	pf.IntVar(&speed, "speed", config.DefaultSpeed, "speed 0-100")
	pf.IntVar(&coherence, "coherence", config.DefaultCoherence, "coherence 0-100")
	pf.StringVar(&direction, "direction", "down", "coherent direction (down, up)")
	pf.IntVar(&fps, "fps", config.DefaultFPS, "refresh rate")
	pf.IntVar(&width, "width", config.DefaultWidth, "surface width")
	pf.IntVar(&height, "height", config.DefaultHeight, "surface height")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive terminal kinematogram",
		RunE:  runTUI,
	}
	for _, c := range []*cobra.Command{rootCmd, tuiCmd} {
		c.Flags().IntVar(&columns, "columns", 60, "canvas width in terminal cells")
		c.Flags().IntVar(&rows, "rows", 30, "canvas height in terminal cells")
		c.Flags().StringVar(&theme, "theme", "mono", "theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	}

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "free-run headless and write PNG frames",
		RunE:  runRender,
	}
	renderCmd.Flags().IntVar(&frames, "frames", 60, "frames to simulate")
	renderCmd.Flags().IntVar(&every, "every", 0, "also save every Nth frame to --frame-dir")
	renderCmd.Flags().StringVar(&outPath, "out", "rdk.png", "final frame PNG path")
	renderCmd.Flags().StringVar(&frameDir, "frame-dir", "frames", "directory for --every frames")
	renderCmd.Flags().StringVar(&svgPath, "svg", "", "also write the final frame as braille SVG")
	renderCmd.Flags().StringVar(&ink, "ink", "#ffffff", "dot colour")

	trialCmd := &cobra.Command{
		Use:   "trial",
		Short: "run one trial headless and print its phases",
		RunE:  runTrial,
	}
	trialCmd.Flags().StringVar(&pngPath, "png", "", "write the answer frame PNG")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "heading statistics of the motion field",
		RunE:  runStats,
	}
	statsCmd.Flags().IntVar(&ticks, "ticks", 120, "ticks to sample")
	statsCmd.Flags().IntVar(&bins, "bins", 36, "histogram bins")
	statsCmd.Flags().IntVar(&runs, "runs", 1, "independent seeded fields to pool")
	statsCmd.Flags().Float64Var(&alpha, "alpha", 0.01, "significance level")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDOTS\tSPEED\tCOHERENCE\tDIRECTION")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n", name, p.DotCount, p.Speed, p.Coherence, directionName(p.Direction))
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(tuiCmd, renderCmd, trialCmd, statsCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("rdksim failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig layers defaults, preset, config file and changed flags, in
// that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := baseConfig(preset, configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("dots") {
		cfg.DotCount = dotCount
	}
	if flags.Changed("speed") {
		cfg.Speed = speed
	}
	if flags.Changed("coherence") {
		cfg.Coherence = coherence
	}
	if flags.Changed("direction") {
		switch direction {
		case "down":
			cfg.Direction = kinematogram.Down.Degrees()
		case "up":
			cfg.Direction = kinematogram.Up.Degrees()
		default:
			return nil, fmt.Errorf("%w: direction must be down or up, got %q", config.ErrInvalidConfig, direction)
		}
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// baseConfig applies the named preset, then the config file on top of it.
func baseConfig(presetName, path string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if presetName != "" {
		cfg = config.GetPreset(presetName)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", presetName, config.ListPresets())
		}
	}
	if path == "" {
		return cfg, nil
	}
	loaded, err := config.LoadOver(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return loaded, nil
}

// newLogger builds the text logger. When quiet is set and no log file was
// requested, logs are discarded so they do not corrupt the terminal UI.
func newLogger(quiet bool) (*slog.Logger, io.Closer, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	opts := &slog.HandlerOptions{Level: level}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return slog.New(slog.NewTextHandler(f, opts)), f, nil
	}
	if quiet {
		return slog.New(slog.DiscardHandler), nopCloser{}, nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts)), nopCloser{}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func setup(cmd *cobra.Command, quiet bool) (*config.Config, *slog.Logger, io.Closer, error) {
	logger, closer, err := newLogger(quiet)
	if err != nil {
		return nil, nil, nil, err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		closer.Close()
		return nil, nil, nil, err
	}
	logger.Debug("configuration loaded",
		"dots", cfg.DotCount, "speed", cfg.Speed, "coherence", cfg.Coherence,
		"direction", cfg.Direction, "fps", cfg.FPS, "seed", cfg.Seed)
	return cfg, logger, closer, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, logger, closer, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return tui.Run(ctx, cfg, tui.Options{
		Columns: columns,
		Rows:    rows,
		Theme:   theme,
		Logger:  logger,
	})
}

// headless builds a session on a fake host drawing into a gg raster.
func headless(cfg *config.Config, logger *slog.Logger) (*kinematogram.Session, *host.Fake, *export.Raster, error) {
	raster := export.NewRaster(cfg.Width, cfg.Height)
	raster.SetInk(ink)
	fake := host.NewFake(cfg.FPS)
	s, err := kinematogram.New(fake, raster, cfg, rand.New(rand.NewSource(cfg.Seed)), logger)
	if err != nil {
		raster.Close()
		return nil, nil, nil, err
	}
	return s, fake, raster, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, logger, closer, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer closer.Close()

	s, fake, raster, err := headless(cfg, logger)
	if err != nil {
		return err
	}
	defer raster.Close()

	if every > 0 {
		if err := os.MkdirAll(frameDir, 0755); err != nil {
			return err
		}
	}

	start := time.Now()
	s.Start()
	for i := 1; i <= frames; i++ {
		fake.AdvanceFrames(1)
		if every > 0 && i%every == 0 {
			path := filepath.Join(frameDir, fmt.Sprintf("frame_%05d.png", i))
			if err := raster.SavePNG(path); err != nil {
				return err
			}
			logger.Debug("frame saved", "frame", i, "path", path)
		}
	}
	if err := raster.SavePNG(outPath); err != nil {
		return err
	}
	logger.Info("render complete",
		"frames", s.Loop().Frames(), "dots", s.Field().Len(),
		"out", outPath, "elapsed", time.Since(start))

	if svgPath != "" {
		canvas := viz.NewCanvas(columns, rows)
		r := render.NewRenderer(viz.NewSurface(canvas, cfg.Width, cfg.Height), s.Field().Aperture())
		r.BeginFrame()
		r.Dots(s.Field().Dots())
		svg := export.CanvasToSVG(canvas, 4, ink)
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
		logger.Info("svg written", "path", svgPath)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d frames)\n", outPath, frames)
	return nil
}

func runTrial(cmd *cobra.Command, args []string) error {
	cfg, logger, closer, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer closer.Close()

	s, fake, raster, err := headless(cfg, logger)
	if err != nil {
		return err
	}
	defer raster.Close()

	out := cmd.OutOrStdout()
	s.Trial().OnTransition = func(from, to trial.Phase) {
		fmt.Fprintf(out, "%8s  %-8s -> %s\n", fake.Now(), from, to)
	}

	s.Start()
	s.RunTrial()
	fake.Advance(cfg.FixationDuration() + cfg.StimulusDuration() + fake.Interval())

	fmt.Fprintf(out, "answer: %s (%g deg)\n", directionName(s.Direction()), s.Direction())
	if err := s.RevealAnswer(); err != nil {
		return err
	}
	if pngPath != "" {
		if err := raster.SavePNG(pngPath); err != nil {
			return err
		}
		logger.Info("answer frame written", "path", pngPath)
	}
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, logger, closer, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer closer.Close()
	if err := checkStatsFlags(ticks, runs, bins); err != nil {
		return err
	}

	params := motion.Params{
		Coherence:   motion.Coherence(cfg.Coherence),
		SpeedFactor: motion.SpeedFactor(cfg.Speed),
		Direction:   cfg.Direction,
	}
	sampler := ensemble.Headings(motion.ApertureFor(cfg.Width, cfg.Height), cfg.DotCount, ticks, params)
	perRun, err := ensemble.New(runs, cfg.Seed).Run(cmd.Context(), sampler)
	if err != nil {
		return err
	}
	headings := ensemble.Flatten(perRun)
	logger.Debug("headings sampled", "runs", runs, "ticks", ticks, "samples", len(headings))

	u, err := analysis.Uniformity(headings, bins)
	if err != nil {
		return err
	}
	mean, length, err := analysis.Resultant(headings)
	if err != nil {
		return err
	}
	hist, err := analysis.Histogram(headings, bins)
	if err != nil {
		return err
	}
	signal := analysis.SignalFraction(headings, motion.Radians(cfg.Direction), 1e-9)

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "runs\t%d\n", runs)
	fmt.Fprintf(w, "samples\t%d\n", u.Samples)
	fmt.Fprintf(w, "coherence\t%.2f\n", params.Coherence)
	fmt.Fprintf(w, "signal fraction\t%.4f\n", signal)
	fmt.Fprintf(w, "chi-square (%d bins)\t%.2f\n", u.Bins, u.ChiSquare)
	fmt.Fprintf(w, "p-value\t%.4g\n", u.PValue)
	fmt.Fprintf(w, "uniform at %.2g\t%t\n", alpha, u.Uniform(alpha))
	fmt.Fprintf(w, "mean direction\t%.1f deg\n", mean*180/math.Pi)
	fmt.Fprintf(w, "resultant length\t%.4f\n", length)
	if err := w.Flush(); err != nil {
		return err
	}

	graph := asciigraph.Plot(hist,
		asciigraph.Height(10),
		asciigraph.Width(72),
		asciigraph.Caption(fmt.Sprintf("heading histogram, %d bins over 0-360 deg", len(hist))),
	)
	fmt.Fprintln(out)
	fmt.Fprintln(out, graph)
	return nil
}

func checkStatsFlags(ticks, runs, bins int) error {
	switch {
	case ticks < 1:
		return fmt.Errorf("%w: --ticks must be at least 1, got %d", config.ErrInvalidConfig, ticks)
	case runs < 1:
		return fmt.Errorf("%w: --runs must be at least 1, got %d", config.ErrInvalidConfig, runs)
	case bins < 2:
		return fmt.Errorf("%w: --bins must be at least 2, got %d", config.ErrInvalidConfig, bins)
	}
	return nil
}

func directionName(deg float64) string {
	switch deg {
	case kinematogram.Down.Degrees():
		return kinematogram.Down.String()
	case kinematogram.Up.Degrees():
		return kinematogram.Up.String()
	}
	return fmt.Sprintf("%g", deg)
}
