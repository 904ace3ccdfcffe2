// Package preview shows rendered frames in an ebiten window.
//
// ebiten must own the main goroutine, so rendering runs elsewhere:
//
//	win := preview.NewWindow("scope", 1280, 720)
//	b := preview.NewBackend(raster.New(), win)
//	go func() {
//	    r, _ := scope.New(cfg, n, scope.WithBackend(b)) // cfg.CreateWindow = true
//	    for ... { r.RenderFrame(data) }
//	    win.Close()
//	}()
//	err := win.Run()
package preview

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gogpu/scope"
)

// ErrWindowClosed is returned by surfaces whose window has been closed.
var ErrWindowClosed = errors.New("preview: window closed")

// Window is an ebiten game that displays the latest presented frame,
// scaled to the window.
type Window struct {
	title         string
	width, height int

	frames slot
	pix    []byte
	seen   uint64
	img    *ebiten.Image

	closing   atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// Ensure Window implements ebiten.Game.
var _ ebiten.Game = (*Window)(nil)

// NewWindow creates a window of the given logical size. It is shown by Run.
func NewWindow(title string, width, height int) *Window {
	return &Window{
		title:  title,
		width:  width,
		height: height,
		done:   make(chan struct{}),
	}
}

// Run opens the window and blocks until it is closed by the user or by
// Close. It must be called from the main goroutine.
func (w *Window) Run() error {
	defer w.markDone()
	ebiten.SetWindowTitle(w.title)
	ebiten.SetWindowSize(w.width, w.height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	scope.Logger().Debug("preview: window running", "title", w.title, "width", w.width, "height", w.height)
	if err := ebiten.RunGame(w); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("preview: %w", err)
	}
	return nil
}

// Present queues an rgb24 frame for display. It never blocks on the window.
func (w *Window) Present(rgb []byte, width, height int) error {
	if w.Closed() {
		return ErrWindowClosed
	}
	if err := scope.ValidateFrame(rgb, width, height); err != nil {
		return err
	}
	w.frames.put(rgb, width, height)
	return nil
}

// Close asks the window to exit at its next update.
func (w *Window) Close() {
	w.closing.Store(true)
}

// Closed reports whether Close was called or the window has exited.
func (w *Window) Closed() bool {
	if w.closing.Load() {
		return true
	}
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}

// Done is closed when Run returns.
func (w *Window) Done() <-chan struct{} { return w.done }

func (w *Window) markDone() {
	w.closeOnce.Do(func() { close(w.done) })
}

// Update implements ebiten.Game.
func (w *Window) Update() error {
	if w.closing.Load() {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (w *Window) Draw(screen *ebiten.Image) {
	pix, fw, fh, seq, ok := w.frames.take(w.pix, w.seen)
	w.pix = pix
	if ok {
		w.seen = seq
		if w.img == nil || w.img.Bounds().Dx() != fw || w.img.Bounds().Dy() != fh {
			if w.img != nil {
				w.img.Deallocate()
			}
			w.img = ebiten.NewImage(fw, fh)
		}
		w.img.WritePixels(pix)
	}
	if w.img == nil {
		return
	}

	var op ebiten.DrawImageOptions
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	iw, ih := w.img.Bounds().Dx(), w.img.Bounds().Dy()
	op.GeoM.Scale(float64(sw)/float64(iw), float64(sh)/float64(ih))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(w.img, &op)
}

// Layout implements ebiten.Game. The screen keeps the window's logical
// size; frames are scaled onto it.
func (w *Window) Layout(_, _ int) (int, int) {
	return w.width, w.height
}
