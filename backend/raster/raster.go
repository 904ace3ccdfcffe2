// Package raster provides the default scope backend. It rasterizes the
// region grid with the gogpu/gg software renderer.
//
// # Example
//
//	// Import to register the backend as "raster"
//	import _ "github.com/gogpu/scope/backend/raster"
//
//	// Or pass it explicitly
//	r, err := scope.New(cfg, 2, scope.WithBackend(raster.New()))
//
// Each surface owns one gg.Context. Draw clears it to the background color
// and then, region by region, clips to the region's cell and strokes the
// border, midlines, waveform lines and label, in that order.
package raster

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/scope"
)

func init() {
	scope.RegisterBackend("raster", func() scope.Backend {
		return New()
	})
}

// DefaultLineWidth is the stroke width of lines plotted with width 0.
const DefaultLineWidth = 1.5

// labelPadding is the label distance from the region corner, in multiples
// of the label size.
const labelPadding = 0.5

var errSurfaceClosed = errors.New("raster: surface is closed")

// Backend creates gg-backed surfaces.
type Backend struct{}

// Ensure Backend implements scope.Backend.
var _ scope.Backend = (*Backend)(nil)

// New creates a raster backend.
func New() *Backend {
	return &Backend{}
}

// CreateSurface allocates a width×height gg.Context.
func (b *Backend) CreateSurface(width, height int) (scope.Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("raster: invalid surface size %dx%d", width, height)
	}
	return &Surface{
		dc:     gg.NewContext(width, height),
		width:  width,
		height: height,
		bg:     scope.RGB{},
		scale:  1,
	}, nil
}

// Surface is a gg.Context subdivided into a grid of regions.
type Surface struct {
	dc      *gg.Context
	width   int
	height  int
	bg      scope.RGB
	regions []*Region
	scale   float64
	fonts   *text.FontSource
	closed  bool
}

// Ensure Surface implements scope.Surface and scope.Scaler.
var (
	_ scope.Surface = (*Surface)(nil)
	_ scope.Scaler  = (*Surface)(nil)
)

// CreateRegionGrid splits the surface into rows×cols equal cells.
func (s *Surface) CreateRegionGrid(rows, cols int) ([]scope.Region, error) {
	if s.regions != nil {
		return nil, errors.New("raster: region grid already created")
	}
	cw := float64(s.width) / float64(max(cols, 1))
	ch := float64(s.height) / float64(max(rows, 1))

	s.regions = make([]*Region, 0, rows*cols)
	out := make([]scope.Region, 0, rows*cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			r := &Region{
				surface: s,
				x:       float64(col) * cw,
				y:       float64(row) * ch,
				w:       cw,
				h:       ch,
				xmax:    1,
				ymin:    -1,
				ymax:    1,
			}
			s.regions = append(s.regions, r)
			out = append(out, r)
		}
	}
	scope.Logger().Debug("raster: region grid", "rows", rows, "cols", cols, "cell_w", cw, "cell_h", ch)
	return out, nil
}

// SetScale scales DefaultLineWidth for lines plotted with width 0.
func (s *Surface) SetScale(scale float64) {
	s.scale = scale
}

// SetBackgroundColor sets the clear color.
func (s *Surface) SetBackgroundColor(c scope.RGB) {
	s.bg = c
}

// Draw redraws the whole surface.
func (s *Surface) Draw() error {
	if s.closed {
		return errSurfaceClosed
	}
	s.dc.ClearWithColor(s.bg.RGBA())
	for i, r := range s.regions {
		if !r.used() {
			continue
		}
		if err := r.draw(s.dc); err != nil {
			return fmt.Errorf("raster: region %d: %w", i, err)
		}
	}
	return nil
}

// Image returns the current surface contents.
func (s *Surface) Image() image.Image {
	return s.dc.Image()
}

// ExtractPixelsRGB returns the surface as packed rgb24.
func (s *Surface) ExtractPixelsRGB() ([]byte, error) {
	if s.closed {
		return nil, errSurfaceClosed
	}
	img := s.dc.Image()
	if img == nil {
		return nil, fmt.Errorf("%w: raster: context has no image", scope.ErrBackendContract)
	}
	if b := img.Bounds(); b.Dx() != s.width || b.Dy() != s.height {
		return nil, fmt.Errorf("%w: raster: image is %dx%d, surface is %dx%d",
			scope.ErrBackendContract, b.Dx(), b.Dy(), s.width, s.height)
	}

	rgba, ok := img.(*image.RGBA)
	if !ok {
		return nil, fmt.Errorf("%w: raster: unsupported image type %T", scope.ErrBackendContract, img)
	}
	return scope.PackRGB(nil, rgba), nil
}

// Close releases the gg.Context. Close is idempotent.
func (s *Surface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.regions = nil
	return s.dc.Close()
}

// face returns a Go Regular face of the given pixel size.
func (s *Surface) face(size float64) (text.Face, error) {
	if s.fonts == nil {
		src, err := text.NewFontSource(goregular.TTF)
		if err != nil {
			return nil, fmt.Errorf("raster: load label font: %w", err)
		}
		s.fonts = src
	}
	return s.fonts.Face(size), nil
}
