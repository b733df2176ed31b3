// Package pipeline drives the two-pass rendering of a single layer
// (extents discovery, then rasterization) and the serial composition
// of multiple rendered layers. Grounded in Renderscript.py's
// _render_generic_file (two-pass render) and _render_compose.
package pipeline

import (
	"fmt"
	"image/color"
	"io"

	"pcbrender/internal/geom"
	"pcbrender/internal/raster"
	"pcbrender/internal/sink"
)

// Interpreter is the shape both gerber.Interpreter and
// drill.Interpreter satisfy: construct bound to a sink, run over a
// reader.
type Interpreter interface {
	Run(r io.Reader) error
}

// NewInterpreterFunc builds a fresh Interpreter bound to s. The
// pipeline needs one instance per pass since interpreters are
// stateful and single-use (spec.md §5: "single-threaded and
// synchronous", one interpreter per run).
type NewInterpreterFunc func(s sink.Sink) Interpreter

// Options configures a single-layer render.
type Options struct {
	DPI        float64
	Color      color.Color
	Background color.Color // nil = transparent
	InvertY    bool
	// AlphaPolarizeThreshold, if non-nil, is applied as a
	// post-processing step after rasterization (spec.md §4.10 step 6).
	AlphaPolarizeThreshold *uint8
}

// Render executes the two-pass pipeline against src: an ExtentsSink
// pass to discover bounding box, then a RasterSink pass into a Canvas
// sized to those extents. Returns nil, nil if the layer produced no
// output (no primitive was ever drawn) — a zero-size or empty file is
// not an error.
func Render(newInterpreter NewInterpreterFunc, src io.ReaderAt, size int64, opts Options) (*raster.Canvas, error) {
	extents := sink.NewExtentsSink()
	if err := runOnce(newInterpreter, extents, src, size); err != nil {
		return nil, err
	}
	minPt, ok := extents.MinPt()
	if !ok {
		return nil, nil
	}
	maxPt, _ := extents.MaxPt()

	dims := maxPt.Sub(minPt)
	canvas := raster.NewInches(dims, opts.DPI, minPt, opts.InvertY)
	if opts.Background != nil {
		canvas.Fill(opts.Background)
	}

	col := opts.Color
	if col == nil {
		col = color.Black
	}
	rs := sink.NewRasterSink(canvas, col)
	if err := runOnce(newInterpreter, rs, src, size); err != nil {
		return nil, err
	}

	if opts.AlphaPolarizeThreshold != nil {
		canvas.AlphaPolarize(*opts.AlphaPolarizeThreshold)
	}
	return canvas, nil
}

func runOnce(newInterpreter NewInterpreterFunc, s sink.Sink, src io.ReaderAt, size int64) error {
	interp := newInterpreter(s)
	return interp.Run(io.NewSectionReader(src, 0, size))
}

// ComposeLayer is one input to Compose: a rendered canvas and the
// operator to blend it onto the composition with.
type ComposeLayer struct {
	Canvas   *raster.Canvas
	Operator raster.Operator
}

// Compose builds a composition canvas covering the union of all
// layers' extents, fills it with background, and composites each
// layer in order. Grounded in Renderscript.py's _render_compose /
// CairoContext.create_composition_canvas.
func Compose(layers []ComposeLayer, background color.Color, invertY bool) (*raster.Canvas, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("pipeline: compose requires at least one layer")
	}
	dpi := layers[0].Canvas.DPI()
	var min, max geom.Vec2
	for i, l := range layers {
		if l.Canvas.DPI() != dpi {
			return nil, fmt.Errorf("pipeline: compose requires equal DPI across layers (%v vs %v)", dpi, l.Canvas.DPI())
		}
		lo := l.Canvas.Offset().Div(dpi)
		hi := lo.Add(l.Canvas.Dimensions().Div(dpi))
		if i == 0 {
			min, max = lo, hi
			continue
		}
		if lo.X < min.X {
			min.X = lo.X
		}
		if lo.Y < min.Y {
			min.Y = lo.Y
		}
		if hi.X > max.X {
			max.X = hi.X
		}
		if hi.Y > max.Y {
			max.Y = hi.Y
		}
	}

	composition := raster.NewInches(max.Sub(min), dpi, min, invertY)
	if background != nil {
		composition.Fill(background)
	}
	for _, l := range layers {
		if err := l.Canvas.ComposeOnto(composition, l.Operator); err != nil {
			return nil, err
		}
	}
	return composition, nil
}
