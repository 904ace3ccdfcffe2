package scope

// Backend creates drawing surfaces.
// Backends are registered by name with RegisterBackend, usually from an
// init function in the backend package, or passed directly with WithBackend.
//
// # Implementation Contract
//
// A Surface is owned by exactly one Renderer from creation until Close and
// is only ever called from that Renderer's goroutine. Implementations do not
// need to be safe for concurrent use.
type Backend interface {
	// CreateSurface allocates a width×height pixel surface.
	CreateSurface(width, height int) (Surface, error)
}

// Surface is a pixel surface subdivided into regions.
type Surface interface {
	// CreateRegionGrid subdivides the surface into rows×cols equal regions and
	// returns them in row-major order. It is called once per surface.
	CreateRegionGrid(rows, cols int) ([]Region, error)

	// SetBackgroundColor sets the color the surface is cleared to on Draw.
	SetBackgroundColor(c RGB)

	// Draw synchronously redraws the whole surface.
	Draw() error

	// ExtractPixelsRGB returns the last drawn frame as packed rgb24,
	// row-major, exactly width*height*3 bytes. A backend unable to honor
	// the format returns an error wrapping ErrBackendContract.
	ExtractPixelsRGB() ([]byte, error)

	// Close releases the surface. Regions and lines become invalid.
	Close() error
}

// Region is one cell of a surface with its own data coordinate system.
type Region interface {
	// SetBounds maps the data rectangle [xmin, xmax]×[ymin, ymax] onto the
	// region. y grows upward.
	SetBounds(xmin, xmax, ymin, ymax float64)

	// PlotLine adds a polyline through (i, data[i]). A width of 0 selects
	// the backend default. The data slice is copied.
	PlotLine(data []float64, color RGB, width float64) (Line, error)
}

// Line is a plotted polyline whose y values can be replaced.
type Line interface {
	// SetYData replaces the y values. The x values stay 0..n-1 of the data
	// the line was created with. The data slice is copied.
	SetYData(data []float64)
}

// Scaler is implemented by surfaces whose default sizes follow the
// renderer's resolution scale (see Config.Scale). SetScale is called once,
// before any region is plotted.
type Scaler interface {
	SetScale(scale float64)
}

// Window is implemented by surfaces that can be shown interactively.
type Window interface {
	ShowWindow() error
}

// Decorator is implemented by regions that can draw static decorations.
// Decorations are added once, before the region's line is plotted.
type Decorator interface {
	// SetBorder strokes the region outline except along the edges in hide.
	SetBorder(color RGB, width float64, hide Edges)

	// AddHLine adds a horizontal line at data y.
	AddHLine(y float64, color RGB, width float64)

	// AddVLine adds a vertical line at data x.
	AddVLine(x float64, color RGB, width float64)

	// SetLabel draws text of the given pixel size in a corner of the region.
	SetLabel(text string, color RGB, size float64, pos LabelPosition) error
}
