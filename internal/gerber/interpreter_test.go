package gerber

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcbrender/internal/sink"
)

func TestConvertCoordinateMatchesWorkedExample(t *testing.T) {
	// spec.md §8 scenario 1: "1000" under a 2-int/3-frac format decodes
	// to 0.010, i.e. divided by 10^(2+3), not 10^3.
	v, err := ConvertCoordinate("1000", Precision{IntDigits: 2, FracDigits: 3})
	require.NoError(t, err)
	assert.InDelta(t, 0.010, v, 1e-9)
}

func TestConvertCoordinateNegative(t *testing.T) {
	v, err := ConvertCoordinate("-1000", Precision{IntDigits: 2, FracDigits: 3})
	require.NoError(t, err)
	assert.InDelta(t, -0.010, v, 1e-9)
}

func TestMinimalFlash(t *testing.T) {
	input := "%FSLAX23Y23*%\n%MOIN*%\n%ADD10C,0.050*%\nD10*\nX1000Y1000D03*\nM02*"
	extents := sink.NewExtentsSink()
	interp := NewInterpreter(extents)
	require.NoError(t, interp.Run(strings.NewReader(input)))

	min, ok := extents.MinPt()
	require.True(t, ok)
	max, _ := extents.MaxPt()

	assert.InDelta(t, -0.015, min.X, 1e-9)
	assert.InDelta(t, -0.015, min.Y, 1e-9)
	assert.InDelta(t, 0.035, max.X, 1e-9)
	assert.InDelta(t, 0.035, max.Y, 1e-9)
}

func TestLinearTrace(t *testing.T) {
	input := "%FSLAX23Y23*%\n%MOIN*%\n%ADD10C,0.050*%\nD10*\nG01*\nX0Y0D02*\nX1000Y0D01*\nM02*"
	extents := sink.NewExtentsSink()
	interp := NewInterpreter(extents)
	require.NoError(t, interp.Run(strings.NewReader(input)))

	min, ok := extents.MinPt()
	require.True(t, ok)
	max, _ := extents.MaxPt()

	assert.InDelta(t, -0.025, min.X, 1e-9)
	assert.InDelta(t, -0.025, min.Y, 1e-9)
	assert.InDelta(t, 0.035, max.X, 1e-9)
	assert.InDelta(t, 0.025, max.Y, 1e-9)
}

func TestFullCircleViaCCW(t *testing.T) {
	input := "%FSLAX23Y23*%\n%MOIN*%\n%ADD10C,0.010*%\nD10*\nG75*\nG03*\nX0Y0I500J0D01*\nM02*"
	extents := sink.NewExtentsSink()
	interp := NewInterpreter(extents)
	require.NoError(t, interp.Run(strings.NewReader(input)))

	min, ok := extents.MinPt()
	require.True(t, ok)
	max, _ := extents.MaxPt()

	// circle of radius 0.005 centered at (0.005, 0), padded by the
	// 0.005 aperture half-width: x in [-0.005, 0.015], y in [-0.010, 0.010].
	assert.InDelta(t, -0.005, min.X, 1e-6)
	assert.InDelta(t, -0.010, min.Y, 1e-6)
	assert.InDelta(t, 0.015, max.X, 1e-6)
	assert.InDelta(t, 0.010, max.Y, 1e-6)
}

func TestFullCircleInsideRegionMatchesOutsideRegion(t *testing.T) {
	// D01 under CW/CCW interpolation dispatches to circle/arc_cw/arc_ccw
	// regardless of region state, per Interpreter.py's _execute_D; a
	// region-active arc must land in the same place as TestFullCircleViaCCW.
	input := "%FSLAX23Y23*%\n%MOIN*%\n%ADD10C,0.010*%\nD10*\nG36*\nG75*\nG03*\nX0Y0I500J0D01*\nG37*\nM02*"
	extents := sink.NewExtentsSink()
	interp := NewInterpreter(extents)
	require.NoError(t, interp.Run(strings.NewReader(input)))

	min, ok := extents.MinPt()
	require.True(t, ok)
	max, _ := extents.MaxPt()

	assert.InDelta(t, -0.005, min.X, 1e-6)
	assert.InDelta(t, -0.010, min.Y, 1e-6)
	assert.InDelta(t, 0.015, max.X, 1e-6)
	assert.InDelta(t, 0.010, max.Y, 1e-6)
}

func TestMMUnitConversion(t *testing.T) {
	input := "%FSLAX23Y23*%\n%MOMM*%\n%ADD10C,25.4*%\nD10*\nX0Y0D03*\nM02*"
	extents := sink.NewExtentsSink()
	interp := NewInterpreter(extents)
	require.NoError(t, interp.Run(strings.NewReader(input)))

	min, ok := extents.MinPt()
	require.True(t, ok)
	max, _ := extents.MaxPt()
	// diameter 25.4mm = 1.000in, so half-extent is 0.5in each side.
	assert.InDelta(t, -0.5, min.X, 1e-6)
	assert.InDelta(t, 0.5, max.X, 1e-6)
}

func TestRegionFillExtents(t *testing.T) {
	input := "%FSLAX23Y23*%\n%MOIN*%\nG36*\nX0Y0D02*\nX1000Y0D01*\nX1000Y1000D01*\nX0Y1000D01*\nG37*\nM02*"
	extents := sink.NewExtentsSink()
	interp := NewInterpreter(extents)
	require.NoError(t, interp.Run(strings.NewReader(input)))

	min, ok := extents.MinPt()
	require.True(t, ok)
	max, _ := extents.MaxPt()
	assert.InDelta(t, 0, min.X, 1e-9)
	assert.InDelta(t, 0, min.Y, 1e-9)
	assert.InDelta(t, 0.010, max.X, 1e-9)
	assert.InDelta(t, 0.010, max.Y, 1e-9)
}

func TestMissingApertureSubstitutesPlaceholder(t *testing.T) {
	input := "%FSLAX23Y23*%\n%MOIN*%\nD99*\nX0Y0D03*\nM02*"
	extents := sink.NewExtentsSink()
	interp := NewInterpreter(extents)
	require.NoError(t, interp.Run(strings.NewReader(input)))

	_, ok := extents.MinPt()
	assert.True(t, ok, "missing aperture should still produce bounded, non-empty output")
}

func TestSingleQuadrantArcIsNotImplemented(t *testing.T) {
	input := "%FSLAX23Y23*%\n%MOIN*%\nG74*\nG03*\nX1000Y0I500J0D01*\nM02*"
	interp := NewInterpreter(sink.NopSink{})
	err := interp.Run(strings.NewReader(input))
	require.Error(t, err)
	var notImpl *ErrNotImplemented
	assert.ErrorAs(t, err, &notImpl)
}

func TestCoordinateBeforePrecisionIsParseError(t *testing.T) {
	input := "%MOIN*%\nX1000Y1000D03*\nM02*"
	interp := NewInterpreter(sink.NopSink{})
	err := interp.Run(strings.NewReader(input))
	require.Error(t, err)
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}
