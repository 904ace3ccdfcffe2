// Package export writes rendered frames to files or streams.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/gogpu/scope"
)

// ErrClosed is returned when writing to a closed sink.
var ErrClosed = errors.New("export: sink is closed")

// Sink receives packed rgb24 frames in order.
type Sink interface {
	WriteFrame(rgb []byte) error
	io.Closer
}

// PNGSequence writes each frame to dir as a numbered PNG file.
type PNGSequence struct {
	dir           string
	pattern       string
	width, height int
	n             int
	closed        bool
}

// Ensure PNGSequence implements Sink.
var _ Sink = (*PNGSequence)(nil)

// DefaultPattern names PNG frames frame-000000.png, frame-000001.png, ...
const DefaultPattern = "frame-%06d.png"

// NewPNGSequence creates dir if needed. An empty pattern selects
// DefaultPattern; it must contain one integer verb.
func NewPNGSequence(dir, pattern string, width, height int) (*PNGSequence, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return &PNGSequence{dir: dir, pattern: pattern, width: width, height: height}, nil
}

// WriteFrame encodes rgb as the next PNG.
func (p *PNGSequence) WriteFrame(rgb []byte) error {
	if p.closed {
		return ErrClosed
	}
	img, err := scope.FrameImage(rgb, p.width, p.height)
	if err != nil {
		return err
	}
	path := p.Path(p.n)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("export: encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	p.n++
	return nil
}

// Path returns the file name of frame i.
func (p *PNGSequence) Path(i int) string {
	return filepath.Join(p.dir, fmt.Sprintf(p.pattern, i))
}

// Frames returns the number of frames written.
func (p *PNGSequence) Frames() int { return p.n }

// Close marks the sequence complete.
func (p *PNGSequence) Close() error {
	p.closed = true
	return nil
}

// RawStream writes frames back to back as raw rgb24, the format expected by
// an external encoder such as "ffmpeg -f rawvideo -pix_fmt rgb24".
type RawStream struct {
	w             *bufio.Writer
	closer        io.Closer
	width, height int
	n             int
	closed        bool
}

// Ensure RawStream implements Sink.
var _ Sink = (*RawStream)(nil)

// NewRawStream wraps w. If w is an io.Closer it is closed by Close.
func NewRawStream(w io.Writer, width, height int) *RawStream {
	s := &RawStream{
		w:      bufio.NewWriterSize(w, scope.FrameLen(width, height)),
		width:  width,
		height: height,
	}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// WriteFrame appends one frame.
func (s *RawStream) WriteFrame(rgb []byte) error {
	if s.closed {
		return ErrClosed
	}
	if err := scope.ValidateFrame(rgb, s.width, s.height); err != nil {
		return err
	}
	if _, err := s.w.Write(rgb); err != nil {
		return fmt.Errorf("export: frame %d: %w", s.n, err)
	}
	s.n++
	return nil
}

// Frames returns the number of frames written.
func (s *RawStream) Frames() int { return s.n }

// Close flushes buffered frames and closes the underlying writer.
// Close is idempotent.
func (s *RawStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.w.Flush()
	if s.closer != nil {
		err = errors.Join(err, s.closer.Close())
	}
	return err
}
