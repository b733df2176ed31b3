package renderscript

import (
	"bytes"
	"fmt"
	"image/color"
	"log/slog"

	"pcbrender/internal/drill"
	"pcbrender/internal/gerber"
	"pcbrender/internal/pipeline"
	"pcbrender/internal/raster"
	"pcbrender/internal/sink"
)

// alphaPolarizeThreshold is the postprocess "alpha-polarize" step's
// fixed threshold, matching Renderscript.py's ALPHA_POLARIZE_THRESHOLD.
const alphaPolarizeThreshold uint8 = 30

// Driver executes a loaded Script against a pool of registered
// Sources, rendering and composing each step in declaration order and
// memoizing results by step name. Grounded in Renderscript.py's
// render()/_do_render driving loop.
type Driver struct {
	Script  *Script
	Sources *Sources
	DPI     float64
	InvertY bool
	Logger  *slog.Logger

	results map[string]*raster.Canvas
}

// NewDriver builds a Driver for script drawing from sources, at dpi,
// using the PCB Y-up convention when invertY is set.
func NewDriver(script *Script, sources *Sources, dpi float64, invertY bool, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{
		Script:  script,
		Sources: sources,
		DPI:     dpi,
		InvertY: invertY,
		Logger:  logger,
		results: make(map[string]*raster.Canvas),
	}
}

// Results returns every step's rendered canvas (nil for steps that
// produced no output), keyed by step name, after RenderAll has run.
func (d *Driver) Results() map[string]*raster.Canvas {
	out := make(map[string]*raster.Canvas, len(d.results))
	for name, canvas := range d.results {
		out[name] = canvas
	}
	return out
}

// RenderAll runs every step in declaration order and returns the
// canvases produced by steps marked deliverable:true, keyed by step
// name.
func (d *Driver) RenderAll() (map[string]*raster.Canvas, error) {
	for _, name := range d.Script.Order() {
		if _, err := d.render(name); err != nil {
			return nil, err
		}
	}
	out := make(map[string]*raster.Canvas)
	for _, name := range d.Script.DeliverableNames() {
		out[name] = d.results[name]
	}
	return out, nil
}

// render returns the memoized canvas for step name, rendering it (and
// any compose dependencies) on first request. A nil canvas with a nil
// error means the step legitimately produced no output.
func (d *Driver) render(name string) (*raster.Canvas, error) {
	if canvas, ok := d.results[name]; ok {
		return canvas, nil
	}
	step, ok := d.Script.Steps[name]
	if !ok {
		return nil, fmt.Errorf("renderscript: unknown step %q", name)
	}

	var canvas *raster.Canvas
	var err error
	switch step.Action {
	case ActionRenderGerber:
		canvas, err = d.renderFile(name, step, func(s sink.Sink) pipeline.Interpreter { return gerber.NewInterpreter(s) })
	case ActionRenderDrill:
		canvas, err = d.renderFile(name, step, func(s sink.Sink) pipeline.Interpreter { return drill.NewInterpreter(s) })
	case ActionCompose:
		canvas, err = d.renderCompose(name, step)
	default:
		return nil, fmt.Errorf("renderscript: step %q: unknown action %q", name, step.Action)
	}
	if err != nil {
		return nil, fmt.Errorf("renderscript: step %q: %w", name, err)
	}

	d.applyPostprocess(step, canvas)
	d.results[name] = canvas
	d.Logger.Debug("rendered step", "step", name, "action", step.Action, "produced", canvas != nil)
	return canvas, nil
}

func (d *Driver) renderFile(name string, step Step, newInterp pipeline.NewInterpreterFunc) (*raster.Canvas, error) {
	matches, err := d.Sources.Find(step.FileRegex)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no source matched file_regex %q", step.FileRegex)
	}
	src := matches[0]
	data, err := src.Bytes()
	if err != nil {
		return nil, err
	}

	opts := pipeline.Options{DPI: d.DPI, InvertY: d.InvertY}
	if step.Color != "" {
		col, err := parseStepColor(step.Color)
		if err != nil {
			return nil, err
		}
		opts.Color = col
	}
	if step.Background != "" {
		bg, err := parseStepColor(step.Background)
		if err != nil {
			return nil, err
		}
		opts.Background = bg
	}

	reader := bytes.NewReader(data)
	return pipeline.Render(newInterp, reader, reader.Size(), opts)
}

func (d *Driver) renderCompose(name string, step Step) (*raster.Canvas, error) {
	var layers []pipeline.ComposeLayer
	for _, src := range step.Sources {
		canvas, err := d.render(src.Name)
		if err != nil {
			return nil, err
		}
		if canvas == nil {
			continue
		}
		op := raster.OpOver
		if src.Operator != "" {
			op = raster.Operator(src.Operator)
		}
		layers = append(layers, pipeline.ComposeLayer{Canvas: canvas, Operator: op})
	}
	if len(layers) == 0 {
		return nil, nil
	}

	var background color.Color
	if step.Background != "" {
		bg, err := parseStepColor(step.Background)
		if err != nil {
			return nil, err
		}
		background = bg
	}
	return pipeline.Compose(layers, background, d.InvertY)
}

func (d *Driver) applyPostprocess(step Step, canvas *raster.Canvas) {
	if canvas == nil {
		return
	}
	for _, p := range step.Postprocess {
		switch p {
		case "alpha-polarize":
			canvas.AlphaPolarize(alphaPolarizeThreshold)
		default:
			d.Logger.Warn("unknown postprocess step", "postprocess", p)
		}
	}
}

func parseStepColor(hex string) (color.Color, error) {
	r, g, b, a, err := ParseColor(hex)
	if err != nil {
		return nil, err
	}
	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}
