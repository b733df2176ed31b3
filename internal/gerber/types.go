package gerber

import "fmt"

// Unit is the measurement system declared by an MO command.
type Unit int

const (
	UnitUndefined Unit = iota
	UnitInch
	UnitMM
)

// InterpolationMode is the G01/G02/G03 drawing mode.
type InterpolationMode int

const (
	Linear InterpolationMode = iota
	CW
	CCW
)

// QuadrantMode governs how I/J arc-center offsets are interpreted.
type QuadrantMode int

const (
	Multi QuadrantMode = iota
	Single
)

// Polarity is the LP command's image polarity: Dark adds material,
// Clear removes it.
type Polarity int

const (
	Dark Polarity = iota
	Clear
)

// Precision records the FS command's declared digit widths for one
// axis: intDigits before the implied decimal point, fracDigits after.
type Precision struct {
	IntDigits  int
	FracDigits int
}

// Total is the combined digit width used to scale a raw coordinate
// token: value = rawDigits / 10^Total(). See ConvertCoordinate.
func (p Precision) Total() int { return p.IntDigits + p.FracDigits }

// ParseError is an unrecoverable parse failure: a malformed command in
// a context where its meaning is required (e.g. a coordinate seen
// before any FS command). Carries the source line for diagnostics.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("gerber: line %d: %s: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// errEndOfFile is the internal sentinel raised by an M02 command and
// caught by Run; it is never surfaced to callers as an error.
type errEndOfFile struct{}

func (errEndOfFile) Error() string { return "end of file (M02)" }
