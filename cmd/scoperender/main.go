// Command scoperender renders audio files as a grid of oscilloscope views.
//
// Each input file becomes one channel. Frames are written as numbered PNGs
// (-o), as a raw rgb24 stream on stdout (-raw), shown live (-window), or
// only counted (-dry-run):
//
//	scoperender -o frames -nrows 2 kick.wav snare.flac hat.ogg
//	scoperender -raw -fps 60 *.wav | ffmpeg -f rawvideo -pix_fmt rgb24 -s 1280x720 -r 60 -i - out.mp4
//	scoperender -window -synth 4
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/scope"
	_ "github.com/gogpu/scope/backend/raster"
	_ "github.com/gogpu/scope/backend/record"
	"github.com/gogpu/scope/internal/export"
	"github.com/gogpu/scope/internal/frames"
	"github.com/gogpu/scope/internal/progress"
	"github.com/gogpu/scope/internal/source"
	"github.com/gogpu/scope/preview"
)

func main() {
	log.SetFlags(0)
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatalf("scoperender: %v", err)
	}
}

type mode int

const (
	modeNone mode = iota
	modePNG
	modeRaw
	modeWindow
	modeDryRun
)

type options struct {
	mode    mode
	outDir  string
	labels  bool
	quiet   bool
	verbose bool
	cfg     fileConfig
	inputs  []string
}

// parseFlags reads the config file named by -config, then applies the
// flags that were set on the command line on top of it.
func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("scoperender", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", "", "TOML config file")
		outDir     = fs.String("o", "", "write PNG frames to `dir`")
		raw        = fs.Bool("raw", false, "write raw rgb24 frames to stdout")
		window     = fs.Bool("window", false, "show frames in a window")
		dryRun     = fs.Bool("dry-run", false, "render with the record backend and print a summary")
		labels     = fs.Bool("labels", false, "label channels with their file names")
		quiet      = fs.Bool("quiet", false, "no progress bar")
		verbose    = fs.Bool("v", false, "debug logging on stderr")

		width       = fs.Int("width", 0, "frame width")
		height      = fs.Int("height", 0, "frame height")
		nrows       = fs.Int("nrows", 0, "grid rows (exclusive with -ncols)")
		ncols       = fs.Int("ncols", 0, "grid columns (exclusive with -nrows)")
		orientation = fs.String("orientation", "", "channel order: h (row-major) or v (column-major)")
		backend     = fs.String("backend", "", "backend name")
		fps         = fs.Float64("fps", 0, "frames per second")
		windowMS    = fs.Float64("window-ms", 0, "visible time window per frame, in milliseconds")
		amplify     = fs.Float64("amplify", 0, "amplitude multiplier")
		synth       = fs.Int("synth", 0, "render `n` demo tones instead of input files")
		seconds     = fs.Float64("seconds", 0, "length of demo tones")
	)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return nil, err
	}

	var ferr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "nrows":
			cfg.Layout.Rows, cfg.Layout.Cols = *nrows, 0
		case "ncols":
			cfg.Layout.Cols, cfg.Layout.Rows = *ncols, 0
		case "orientation":
			o, err := scope.ParseOrientation(*orientation)
			if err != nil {
				ferr = err
			}
			cfg.Layout.Orientation = o
		case "backend":
			cfg.Backend = *backend
		case "fps":
			cfg.Render.FPS = *fps
		case "window-ms":
			cfg.Render.WindowMS = *windowMS
		case "amplify":
			cfg.Render.Amplify = *amplify
		case "synth":
			cfg.Render.Synth = *synth
		case "seconds":
			cfg.Render.Seconds = *seconds
		}
	})
	if ferr != nil {
		return nil, ferr
	}
	if *nrows > 0 && *ncols > 0 {
		return nil, fmt.Errorf("%w: -nrows and -ncols are exclusive", scope.ErrInvalidConfig)
	}

	o := &options{
		outDir:  *outDir,
		labels:  *labels,
		quiet:   *quiet,
		verbose: *verbose,
		cfg:     cfg,
		inputs:  append(append([]string(nil), cfg.Render.Inputs...), fs.Args()...),
	}
	n := 0
	for _, m := range []struct {
		set  bool
		mode mode
	}{
		{*outDir != "", modePNG},
		{*raw, modeRaw},
		{*window, modeWindow},
		{*dryRun, modeDryRun},
	} {
		if m.set {
			o.mode = m.mode
			n++
		}
	}
	if n != 1 {
		return nil, errors.New("choose exactly one of -o, -raw, -window and -dry-run")
	}
	return o, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if o.verbose {
		scope.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer scope.SetLogger(nil)
	}

	tracks, err := loadTracks(o)
	if err != nil {
		return err
	}
	rc := o.cfg.Render
	sampler := &frames.Sampler{
		Tracks:  tracks,
		FPS:     rc.FPS,
		Window:  time.Duration(rc.WindowMS * float64(time.Millisecond)),
		Amplify: rc.Amplify,
	}
	if err := sampler.Validate(); err != nil {
		return err
	}

	cfg := o.cfg.Config
	if o.mode != modeWindow {
		cfg = cfg.ForRecording()
	}
	if o.mode == modeDryRun {
		cfg.Backend = "record"
	}

	if o.mode == modeWindow {
		return runWindow(cfg, o, sampler)
	}

	r, err := newRenderer(cfg, o, tracks)
	if err != nil {
		return err
	}
	defer r.Close()

	w, h := r.Size()
	var sink export.Sink
	switch o.mode {
	case modePNG:
		if sink, err = export.NewPNGSequence(o.outDir, "", w, h); err != nil {
			return err
		}
	case modeRaw:
		sink = export.NewRawStream(stdout, w, h)
	}

	total := sampler.NumFrames()
	report := func(int) {}
	var bar *progress.Reporter
	if !o.quiet && o.mode != modeDryRun {
		bar = progress.Start(stderr, fmt.Sprintf("scoperender %dx%d, %d channels", w, h, len(tracks)), total)
		report = bar.Frame
	}

	err = renderAll(r, sampler, sink, report)
	if sink != nil {
		err = errors.Join(err, sink.Close())
	}
	if bar != nil {
		err = errors.Join(err, bar.Finish(err))
	}
	if err != nil {
		return err
	}

	if o.mode == modeDryRun {
		l := r.Layout()
		fmt.Fprintf(stdout, "frames=%d channels=%d grid=%dx%d size=%dx%d\n",
			r.FrameCount(), r.Channels(), l.Rows, l.Cols, w, h)
	}
	return nil
}

func loadTracks(o *options) ([]*source.Track, error) {
	rc := o.cfg.Render
	if len(o.inputs) > 0 {
		return source.LoadAll(o.inputs)
	}
	if rc.Synth > 0 {
		return source.Demo(rc.Synth, rc.Rate, time.Duration(rc.Seconds*float64(time.Second)))
	}
	return nil, errors.New("no input files (or -synth n)")
}

// newRenderer creates the renderer and applies per-channel colors and
// labels.
func newRenderer(cfg scope.Config, o *options, tracks []*source.Track, opts ...scope.Option) (*scope.Renderer, error) {
	r, err := scope.New(cfg, len(tracks), opts...)
	if err != nil {
		return nil, err
	}
	colors, err := o.cfg.Render.colors(len(tracks))
	if err == nil {
		err = r.SetColors(colors)
	}
	if err == nil {
		if labels := channelLabels(o, tracks); labels != nil {
			err = r.SetLabels(labels)
		}
	}
	if err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}

func channelLabels(o *options, tracks []*source.Track) []string {
	if len(o.cfg.Render.Labels) > 0 {
		labels := make([]string, len(tracks))
		copy(labels, o.cfg.Render.Labels)
		return labels
	}
	if !o.labels {
		return nil
	}
	labels := make([]string, len(tracks))
	for i, t := range tracks {
		labels[i] = t.Name
	}
	return labels
}

// renderAll renders every frame of s and writes it to sink, if any.
func renderAll(r *scope.Renderer, s *frames.Sampler, sink export.Sink, report func(done int)) error {
	n := s.NumFrames()
	var data [][]float64
	for i := 0; i < n; i++ {
		data = s.Frame(i, data)
		if err := r.RenderFrame(data); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if sink != nil {
			rgb, err := r.Frame()
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			if err := sink.WriteFrame(rgb); err != nil {
				return err
			}
		}
		report(i + 1)
	}
	return nil
}

// runWindow renders on a separate goroutine, paced at the sampler frame
// rate, while the window runs on this one.
func runWindow(cfg scope.Config, o *options, s *frames.Sampler) error {
	cfg.CreateWindow = true
	win := preview.NewWindow("scoperender", cfg.Width, cfg.Height)
	inner, err := scope.NewBackend(cfg.Backend)
	if err != nil {
		return err
	}
	r, err := newRenderer(cfg, o, s.Tracks, scope.WithBackend(preview.NewBackend(inner, win)))
	if err != nil {
		return err
	}
	defer r.Close()

	var data [][]float64
	return paceWindow(win, s.FPS, s.NumFrames(), func(i int) error {
		data = s.Frame(i, data)
		err := r.RenderFrame(data)
		if errors.Is(err, preview.ErrWindowClosed) {
			return nil
		}
		return err
	})
}

// window is the part of preview.Window that paceWindow drives.
type window interface {
	Run() error
	Close()
	Done() <-chan struct{}
}

// paceWindow calls render for frames 0..n-1 at fps on a new goroutine and
// runs win on the calling one. It returns only after the render goroutine
// has exited, so the caller may release what render uses.
func paceWindow(win window, fps float64, n int, render func(i int) error) error {
	errc := make(chan error, 1)
	go func() {
		defer win.Close()
		tick := time.NewTicker(time.Duration(float64(time.Second) / fps))
		defer tick.Stop()
		for i := 0; i < n; i++ {
			select {
			case <-win.Done():
				errc <- nil
				return
			case <-tick.C:
			}
			select {
			case <-win.Done():
				errc <- nil
				return
			default:
			}
			if err := render(i); err != nil {
				errc <- err
				return
			}
		}
		errc <- nil
	}()

	if err := win.Run(); err != nil {
		win.Close()
		<-errc
		return err
	}
	return <-errc
}
