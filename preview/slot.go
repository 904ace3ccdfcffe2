package preview

import (
	"sync"

	"github.com/gogpu/scope"
)

// slot holds the most recent frame. The renderer goroutine puts frames and
// the window goroutine takes them; frames not taken in time are dropped.
type slot struct {
	mu            sync.Mutex
	pix           []byte // RGBA
	width, height int
	seq           uint64
}

// put stores a copy of an rgb24 frame, expanded to RGBA.
func (s *slot) put(rgb []byte, width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pix = scope.ExpandRGBA(s.pix, rgb)
	s.width, s.height = width, height
	s.seq++
}

// take copies the stored frame into dst if it is newer than seen.
func (s *slot) take(dst []byte, seen uint64) (pix []byte, width, height int, seq uint64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq == seen || s.pix == nil {
		return dst, 0, 0, seen, false
	}
	if cap(dst) < len(s.pix) {
		dst = make([]byte, len(s.pix))
	}
	dst = dst[:len(s.pix)]
	copy(dst, s.pix)
	return dst, s.width, s.height, s.seq, true
}
