package preview

import (
	"errors"

	"github.com/gogpu/scope"
)

// Backend wraps another backend so that its surfaces can be shown in a
// Window. Every Draw of a shown surface presents the drawn frame.
type Backend struct {
	inner  scope.Backend
	window *Window
}

// Ensure Backend implements scope.Backend.
var _ scope.Backend = (*Backend)(nil)

// NewBackend wraps inner, presenting to window.
func NewBackend(inner scope.Backend, window *Window) *Backend {
	return &Backend{inner: inner, window: window}
}

// CreateSurface creates an inner surface that implements scope.Window.
func (b *Backend) CreateSurface(width, height int) (scope.Surface, error) {
	s, err := b.inner.CreateSurface(width, height)
	if err != nil {
		return nil, err
	}
	return &Surface{Surface: s, window: b.window, width: width, height: height}, nil
}

// Surface forwards to the wrapped surface and presents drawn frames.
type Surface struct {
	scope.Surface
	window        *Window
	width, height int
	shown         bool
}

// Ensure Surface implements scope.Surface and scope.Window.
var (
	_ scope.Surface = (*Surface)(nil)
	_ scope.Window  = (*Surface)(nil)
	_ scope.Scaler  = (*Surface)(nil)
)

// ShowWindow starts presenting frames. The window itself is opened by
// Window.Run on the main goroutine.
func (s *Surface) ShowWindow() error {
	if s.shown {
		return errors.New("preview: window already shown")
	}
	if s.window.Closed() {
		return ErrWindowClosed
	}
	s.shown = true
	return nil
}

// SetScale forwards to the wrapped surface if it is a scope.Scaler.
func (s *Surface) SetScale(scale float64) {
	if sc, ok := s.Surface.(scope.Scaler); ok {
		sc.SetScale(scale)
	}
}

// Draw draws the inner surface and presents the result.
func (s *Surface) Draw() error {
	if err := s.Surface.Draw(); err != nil {
		return err
	}
	if !s.shown {
		return nil
	}
	rgb, err := s.Surface.ExtractPixelsRGB()
	if err != nil {
		return err
	}
	return s.window.Present(rgb, s.width, s.height)
}
