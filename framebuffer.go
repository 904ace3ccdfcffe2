package scope

import (
	"fmt"
	"image"
)

// BytesPerPixel is the size of one pixel in a frame buffer (packed rgb24).
const BytesPerPixel = 3

// FrameLen returns the frame buffer length of a width×height surface.
func FrameLen(width, height int) int {
	return width * height * BytesPerPixel
}

// ValidateFrame checks that buf is a complete width×height rgb24 frame.
// A mismatch means the backend broke its pixel format contract.
func ValidateFrame(buf []byte, width, height int) error {
	if want := FrameLen(width, height); len(buf) != want {
		return fmt.Errorf("%w: frame is %d bytes, want %d (%dx%dx%d)",
			ErrBackendContract, len(buf), want, width, height, BytesPerPixel)
	}
	return nil
}

// PackRGB appends the pixels of img to dst as packed rgb24, dropping alpha.
// The surface is opaque, so premultiplied and straight values coincide.
func PackRGB(dst []byte, img *image.RGBA) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst = grow(dst, FrameLen(w, h))
	o := 0
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for i := 0; i < len(row); i += 4 {
			dst[o] = row[i]
			dst[o+1] = row[i+1]
			dst[o+2] = row[i+2]
			o += 3
		}
	}
	return dst
}

// ExpandRGBA converts a packed rgb24 buffer to opaque RGBA, reusing dst
// when it is large enough.
func ExpandRGBA(dst, rgb []byte) []byte {
	n := len(rgb) / BytesPerPixel
	dst = grow(dst, n*4)
	for i := 0; i < n; i++ {
		dst[i*4] = rgb[i*3]
		dst[i*4+1] = rgb[i*3+1]
		dst[i*4+2] = rgb[i*3+2]
		dst[i*4+3] = 0xff
	}
	return dst
}

// FrameImage wraps a packed rgb24 frame in a new image.RGBA.
func FrameImage(rgb []byte, width, height int) (*image.RGBA, error) {
	if err := ValidateFrame(rgb, width, height); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	ExpandRGBA(img.Pix[:0], rgb)
	return img, nil
}

// grow returns dst resized to n bytes, reallocating only when needed.
func grow(dst []byte, n int) []byte {
	if cap(dst) < n {
		return make([]byte, n)
	}
	return dst[:n]
}
