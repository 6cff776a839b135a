package normalizer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"MacroSentinel/internal/model"
)

var (
	// ErrUnordered is returned when observation dates are not strictly increasing.
	ErrUnordered = errors.New("observation dates not strictly increasing")
	// ErrIndicatorMismatch is returned when stitched segments name different indicators.
	ErrIndicatorMismatch = errors.New("segments belong to different indicators")
	// ErrInvalidAxis is returned when a date axis ends before it starts.
	ErrInvalidAxis = errors.New("date axis ends before it starts")
)

// EmptyInputError reports a series with nothing to resample or stitch.
type EmptyInputError struct {
	Series string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("series %q has no observations", e.Series)
}

// UnsupportedShapeError reports a multi-column input that cannot be reduced
// to a single series with the given selector.
type UnsupportedShapeError struct {
	Input   string
	Column  string
	Columns []string
}

func (e *UnsupportedShapeError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("input %q has %d columns [%s]: a column selector is required",
			e.Input, len(e.Columns), strings.Join(e.Columns, ", "))
	}
	return fmt.Sprintf("input %q: column %q not found in [%s]",
		e.Input, e.Column, strings.Join(e.Columns, ", "))
}

// CoverageGapError reports days inside a stitched range that no segment covers.
// From and To are inclusive.
type CoverageGapError struct {
	Indicator string
	From      time.Time
	To        time.Time
}

func (e *CoverageGapError) Error() string {
	return fmt.Sprintf("indicator %q has no coverage from %s to %s",
		e.Indicator, e.From.Format(model.DateLayout), e.To.Format(model.DateLayout))
}

// DuplicateIndicatorError reports a name that appears twice in a composite build.
type DuplicateIndicatorError struct {
	Name string
}

func (e *DuplicateIndicatorError) Error() string {
	return fmt.Sprintf("indicator %q given more than once", e.Name)
}
