// Package scope renders multi-channel oscilloscope frames.
//
// # Overview
//
// A Renderer draws N independent waveform channels into a grid of regions
// on one pixel surface and hands back each frame as packed rgb24, ready for
// a live preview window or a video encoder. Drawing is delegated to a
// Backend; the default "raster" backend (package backend/raster) uses the
// gogpu/gg software rasterizer.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/scope"
//	    _ "github.com/gogpu/scope/backend/raster" // register "raster"
//	)
//
//	cfg := scope.DefaultConfig()
//	cfg.Layout = scope.LayoutConfig{Rows: 1}
//
//	r, err := scope.New(cfg, 3)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	for _, frame := range frames {
//	    if err := r.RenderFrame(frame); err != nil { // frame[ch] = samples in [-1, 1]
//	        return err
//	    }
//	    rgb, err := r.Frame() // width*height*3 bytes
//	    ...
//	}
//
// # Layout
//
// The grid is constrained along one axis: with LayoutConfig.Rows set the
// column count is ceil(channels/rows), otherwise Cols (default 1) is fixed
// and rows follow. Horizontal orientation assigns channels row by row,
// Vertical column by column. Every cell of the grid gets a region, even
// when the last row or column is only partly used.
//
// # Lifecycle
//
// Colors (SetColors) and labels (SetLabels) may only be set before the
// first RenderFrame. The first frame fixes each channel's x-domain, color
// and stroke width; later frames only replace y values and must keep the
// same number of samples per channel.
package scope
