package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gogpu/scope"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "scope.toml", `
width = 640
height = 360
grid_color = "#404040"
h_midline = true
label_position = "right-bottom"

[layout]
nrows = 2
orientation = "v"

[render]
fps = 30
colors = ["", "orange"]
inputs = ["a.wav"]
`)
	fc, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if fc.Width != 640 || fc.Height != 360 {
		t.Errorf("size = %dx%d, want 640x360", fc.Width, fc.Height)
	}
	if fc.Layout != (scope.LayoutConfig{Rows: 2, Orientation: scope.Vertical}) {
		t.Errorf("layout = %+v", fc.Layout)
	}
	if fc.GridColor.String() != "#404040" || !fc.HMidline || fc.LabelPosition != scope.LabelRightBottom {
		t.Errorf("decorations = %v %v %v", fc.GridColor, fc.HMidline, fc.LabelPosition)
	}
	if fc.Render.FPS != 30 || fc.Render.WindowMS != 40 {
		t.Errorf("render = %+v, want fps 30 and default window", fc.Render)
	}
	if fc.BgColor != scope.Named("black") || fc.LabelSize != 20 {
		t.Error("defaults not kept for missing keys")
	}
	if err := fc.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	colors, err := fc.Render.colors(3)
	if err != nil {
		t.Fatal(err)
	}
	if colors[0].IsSet() || colors[1] != scope.Named("orange") || colors[2].IsSet() {
		t.Errorf("colors = %v", colors)
	}
	if _, err := fc.Render.colors(1); !errors.Is(err, scope.ErrInvalidConfig) {
		t.Errorf("colors(1) = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	for name, content := range map[string]string{
		"unknown key":   "widht = 10\n",
		"bad color":     "bg_color = \"#zzz\"\n",
		"bad layout":    "[layout]\norientation = \"diagonal\"\n",
		"invalid toml":  "width = \n",
		"bad label pos": "label_position = \"middle\"\n",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := loadConfig(writeFile(t, "bad.toml", content)); err == nil {
				t.Error("loadConfig() should fail")
			}
		})
	}
	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("loadConfig(missing) should fail")
	}
}

func TestParseFlags(t *testing.T) {
	path := writeFile(t, "scope.toml", "[layout]\nncols = 3\n[render]\nfps = 24\n")
	o, err := parseFlags([]string{"-config", path, "-dry-run", "-nrows", "2", "-orientation", "v", "-width", "320", "x.wav"}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if o.mode != modeDryRun {
		t.Errorf("mode = %v, want dry run", o.mode)
	}
	if o.cfg.Layout != (scope.LayoutConfig{Rows: 2, Orientation: scope.Vertical}) {
		t.Errorf("layout = %+v, want -nrows to replace ncols", o.cfg.Layout)
	}
	if o.cfg.Width != 320 || o.cfg.Height != 720 || o.cfg.Render.FPS != 24 {
		t.Errorf("cfg = %dx%d @ %v", o.cfg.Width, o.cfg.Height, o.cfg.Render.FPS)
	}
	if len(o.inputs) != 1 || o.inputs[0] != "x.wav" {
		t.Errorf("inputs = %v", o.inputs)
	}

	for _, args := range [][]string{
		{},
		{"-raw", "-dry-run"},
		{"-dry-run", "-nrows", "1", "-ncols", "1"},
		{"-dry-run", "-orientation", "up"},
	} {
		if _, err := parseFlags(args, &bytes.Buffer{}); err == nil {
			t.Errorf("parseFlags(%q) should fail", args)
		}
	}
}

func TestRunDryRun(t *testing.T) {
	var stdout bytes.Buffer
	args := []string{"-dry-run", "-synth", "3", "-seconds", "0.5", "-fps", "10", "-ncols", "2"}
	if err := run(args, &stdout, &bytes.Buffer{}); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	want := "frames=5 channels=3 grid=2x2 size=1280x720"
	if !strings.Contains(stdout.String(), want) {
		t.Errorf("stdout = %q, want %q", stdout.String(), want)
	}
}

func TestRunRaw(t *testing.T) {
	var stdout bytes.Buffer
	args := []string{"-raw", "-quiet", "-synth", "2", "-seconds", "0.2", "-fps", "10", "-width", "32", "-height", "16"}
	if err := run(args, &stdout, &bytes.Buffer{}); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if got, want := stdout.Len(), 2*scope.FrameLen(32, 16); got != want {
		t.Errorf("raw stream = %d bytes, want %d", got, want)
	}
}

func TestRunPNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	args := []string{"-o", dir, "-quiet", "-labels", "-synth", "1", "-seconds", "0.1", "-fps", "20", "-width", "48", "-height", "24"}
	if err := run(args, &bytes.Buffer{}, &bytes.Buffer{}); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Errorf("wrote %d PNGs, want 2", len(files))
	}
}

func TestRunNoInput(t *testing.T) {
	if err := run([]string{"-dry-run"}, &bytes.Buffer{}, &bytes.Buffer{}); err == nil {
		t.Error("run() without inputs should fail")
	}
}

func TestRunVerboseLogs(t *testing.T) {
	var stderr bytes.Buffer
	args := []string{"-dry-run", "-v", "-synth", "1", "-seconds", "0.1", "-fps", "10"}
	if err := run(args, &bytes.Buffer{}, &stderr); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr.String(), "scope: renderer initialized") {
		t.Errorf("stderr = %q, want renderer log", stderr.String())
	}
}

// fakeWindow stands in for preview.Window. Run returns runErr once the
// first frame has started rendering, or blocks until Close.
type fakeWindow struct {
	runErr    error
	started   chan struct{}
	done      chan struct{}
	closing   chan struct{}
	closeOnce sync.Once
}

func newFakeWindow(runErr error) *fakeWindow {
	return &fakeWindow{
		runErr:  runErr,
		started: make(chan struct{}),
		done:    make(chan struct{}),
		closing: make(chan struct{}),
	}
}

func (w *fakeWindow) Run() error {
	defer close(w.done)
	if w.runErr != nil {
		<-w.started
		return w.runErr
	}
	<-w.closing
	return nil
}

func (w *fakeWindow) Close()                { w.closeOnce.Do(func() { close(w.closing) }) }
func (w *fakeWindow) Done() <-chan struct{} { return w.done }

func TestPaceWindowWaitsForRenderOnRunError(t *testing.T) {
	runErr := errors.New("no display")
	win := newFakeWindow(runErr)

	var inFlight atomic.Bool
	var once sync.Once
	err := paceWindow(win, 1000, 100, func(int) error {
		inFlight.Store(true)
		defer inFlight.Store(false)
		once.Do(func() { close(win.started) })
		time.Sleep(20 * time.Millisecond)
		return nil
	})
	if !errors.Is(err, runErr) {
		t.Errorf("paceWindow() = %v, want %v", err, runErr)
	}
	if inFlight.Load() {
		t.Error("paceWindow returned while a frame was still rendering")
	}
}

func TestPaceWindowRendersAllFrames(t *testing.T) {
	win := newFakeWindow(nil)
	var frames []int
	err := paceWindow(win, 1000, 3, func(i int) error {
		frames = append(frames, i)
		return nil
	})
	if err != nil {
		t.Fatalf("paceWindow() = %v", err)
	}
	if len(frames) != 3 || frames[2] != 2 {
		t.Errorf("rendered frames = %v, want [0 1 2]", frames)
	}
}

func TestPaceWindowRenderError(t *testing.T) {
	boom := errors.New("render failed")
	win := newFakeWindow(nil)
	err := paceWindow(win, 1000, 5, func(i int) error {
		if i == 1 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("paceWindow() = %v, want %v", err, boom)
	}
}
