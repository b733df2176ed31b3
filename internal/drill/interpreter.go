// Package drill implements the Excellon interpreter: unit, coordinate
// format, tool table, current tool and position, emitting
// switch_drill_tool/drill events to a sink.Sink. Grounded in
// original_source/gerber's DrillInterpreter.py.
package drill

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"pcbrender/internal/geom"
	"pcbrender/internal/lex"
	"pcbrender/internal/sink"
)

// Unit is the measurement system declared by the INCH/METRIC header
// keyword.
type Unit int

const (
	UnitInch Unit = iota
	UnitMM
)

// ValueInterpretation selects how a raw coordinate token is decoded.
type ValueInterpretation int

const (
	LiteralFloat ValueInterpretation = iota
	FixedDecimal
)

// Precision records the fixed-decimal digit widths, when
// ValueInterpretation is FixedDecimal.
type Precision struct {
	IntDigits  int
	FracDigits int
}

func (p Precision) Total() int { return p.IntDigits + p.FracDigits }

// ParseError is an unrecoverable drill-file parse failure.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("drill: line %d: %s: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

type errEndOfFile struct{}

func (errEndOfFile) Error() string { return "end of file (M30)" }

// Interpreter is the Excellon drill-file state machine.
type Interpreter struct {
	Sink   sink.Sink
	Logger *slog.Logger

	matcher *lex.Matcher

	unit        Unit
	valueInterp ValueInterpretation
	precision   Precision

	tools       map[int]float64 // tool number -> diameter, inches
	currentTool int

	posValid bool
	pos      geom.Vec2

	lineNum int
}

// NewInterpreter returns an Interpreter emitting events to s.
func NewInterpreter(s sink.Sink) *Interpreter {
	d := &Interpreter{
		Sink:   s,
		Logger: slog.Default(),
		tools:  make(map[int]float64),
	}
	d.matcher = d.buildMatcher()
	return d
}

func (d *Interpreter) buildMatcher() *lex.Matcher {
	return lex.NewMatcher(
		lex.P("header_begin", `M48`, d.matchNoop),
		lex.P("end_of_file", `M30`, d.matchEOF),
		lex.P("unit", `(?P<unit>INCH|METRIC)(,(?P<mode>LZ|\d\.\d))?`, d.matchUnit),
		lex.P("file_format", `;FILE_FORMAT=(?P<int>\d+):(?P<frac>\d+)`, d.matchFileFormat),
		lex.P("tool_def", `T(?P<tool>\d+)(F\d+)?(S\d+)?C(?P<dia>[0-9.]+)`, d.matchToolDef),
		lex.P("tool_select", `T(?P<tool>\d+)`, d.matchToolSelect),
		lex.P("xy", `X(?P<x>-?[0-9.]+)Y(?P<y>-?[0-9.]+)`, d.matchXY),
		lex.P("x_only", `X(?P<x>-?[0-9.]+)`, d.matchXOnly),
		lex.P("y_only", `Y(?P<y>-?[0-9.]+)`, d.matchYOnly),
		lex.P("drill_mode", `G5`, d.matchNoop),
		lex.P("end_of_header", `%`, d.matchNoop),
		lex.P("comment", `;.*`, d.matchNoop),
	)
}

// Run reads r line by line and interprets it, returning nil at a clean
// M30 or end of stream.
func (d *Interpreter) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		d.lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := d.matcher.Match(line); err != nil {
			var eof errEndOfFile
			if errors.As(err, &eof) {
				return nil
			}
			var noMatch *lex.ErrNoPatternMatched
			if errors.As(err, &noMatch) {
				d.Logger.Warn("unrecognized drill line", "line", d.lineNum, "text", line)
				continue
			}
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return &ParseError{Line: d.lineNum, Text: "reading input", Err: err}
	}
	return nil
}

func (d *Interpreter) matchNoop(map[string]string) error { return nil }

func (d *Interpreter) matchEOF(map[string]string) error { return errEndOfFile{} }

func (d *Interpreter) matchUnit(groups map[string]string) error {
	if groups["unit"] == "METRIC" {
		d.unit = UnitMM
	} else {
		d.unit = UnitInch
	}
	mode := groups["mode"]
	if mode == "" {
		d.valueInterp = LiteralFloat
		return nil
	}
	if mode == "LZ" {
		// LZ alone (no explicit <int>.<frac>) selects the conventional
		// fixed-decimal width for the active unit: 2.4 for inch, 3.3 for
		// metric, the common Excellon defaults.
		d.valueInterp = FixedDecimal
		if d.unit == UnitMM {
			d.precision = Precision{IntDigits: 3, FracDigits: 3}
		} else {
			d.precision = Precision{IntDigits: 2, FracDigits: 4}
		}
		return nil
	}
	parts := strings.SplitN(mode, ".", 2)
	if len(parts) != 2 {
		return nil
	}
	i, _ := strconv.Atoi(parts[0])
	frac, _ := strconv.Atoi(parts[1])
	d.valueInterp = FixedDecimal
	d.precision = Precision{IntDigits: i, FracDigits: frac}
	return nil
}

func (d *Interpreter) matchFileFormat(groups map[string]string) error {
	i, _ := strconv.Atoi(groups["int"])
	frac, _ := strconv.Atoi(groups["frac"])
	d.valueInterp = FixedDecimal
	d.precision = Precision{IntDigits: i, FracDigits: frac}
	return nil
}

func (d *Interpreter) matchToolDef(groups map[string]string) error {
	n, _ := strconv.Atoi(groups["tool"])
	dia, err := strconv.ParseFloat(groups["dia"], 64)
	if err != nil {
		return &ParseError{Line: d.lineNum, Text: "tool diameter", Err: err}
	}
	d.tools[n] = d.toInches(dia)
	return nil
}

func (d *Interpreter) matchToolSelect(groups map[string]string) error {
	n, _ := strconv.Atoi(groups["tool"])
	dia, ok := d.tools[n]
	if !ok {
		d.Logger.Warn("drill tool activated with no diameter definition", "line", d.lineNum, "tool", n)
		d.currentTool = n
		return nil
	}
	d.currentTool = n
	d.Sink.SwitchDrillTool(dia)
	return nil
}

func (d *Interpreter) matchXY(groups map[string]string) error {
	x, err := d.convertCoord(groups["x"])
	if err != nil {
		return err
	}
	y, err := d.convertCoord(groups["y"])
	if err != nil {
		return err
	}
	d.emitDrill(x, y)
	return nil
}

func (d *Interpreter) matchXOnly(groups map[string]string) error {
	x, err := d.convertCoord(groups["x"])
	if err != nil {
		return err
	}
	d.emitDrill(x, d.pos.Y)
	return nil
}

func (d *Interpreter) matchYOnly(groups map[string]string) error {
	y, err := d.convertCoord(groups["y"])
	if err != nil {
		return err
	}
	d.emitDrill(d.pos.X, y)
	return nil
}

func (d *Interpreter) emitDrill(x, y float64) {
	d.pos = geom.Vec2{X: x, Y: y}
	d.posValid = true
	d.Sink.Drill(d.pos)
}

func (d *Interpreter) convertCoord(raw string) (float64, error) {
	var v float64
	var err error
	switch d.valueInterp {
	case LiteralFloat:
		v, err = strconv.ParseFloat(raw, 64)
	case FixedDecimal:
		v, err = convertFixedDecimal(raw, d.precision)
	}
	if err != nil {
		return 0, &ParseError{Line: d.lineNum, Text: "malformed coordinate " + raw, Err: err}
	}
	return d.toInches(v), nil
}

// convertFixedDecimal decodes raw's digits (sign aside) as an omitted-
// decimal-point integer whose last FracDigits digits are the
// fractional part: value = digits / 10^FracDigits. No padding is
// applied — per the worked drill example in spec.md §8, "10000" under
// a 2.4 format (INCH,LZ's assumed default) decodes to 1.0, which only
// holds if the raw digit count itself (not IntDigits+FracDigits) sets
// the integer scale; IntDigits only bounds how many integer digits are
// expected, never how the value is padded.
func convertFixedDecimal(raw string, prec Precision) (float64, error) {
	s := raw
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	s = strings.ReplaceAll(s, ".", "")
	if s == "" {
		s = "0"
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	v := float64(n) / math.Pow10(prec.FracDigits)
	if neg {
		v = -v
	}
	return v, nil
}

func (d *Interpreter) toInches(v float64) float64 {
	if d.unit == UnitMM {
		return v / 25.4
	}
	return v
}
