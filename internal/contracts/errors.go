package contracts

import "errors"

// Error taxonomy shared by every engine package. Callers discriminate
// with errors.Is; engines wrap these with fmt.Errorf("%w: ...") to add
// detail.
var (
	// ErrInsufficientData means too few valid points exist for the
	// requested computation (e.g. a single price, or not enough
	// complete lag rows for a forecast).
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidInput means a configuration or input value is out of
	// range: non-positive cost-basis price, degenerate weights, a date
	// range where start >= end.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyInput means the upstream provider returned nothing for
	// the requested universe.
	ErrEmptyInput = errors.New("empty input")

	// ErrDataProvider means the provider failed at the transport or
	// lookup level. Distinct from "no data", which is an empty table.
	ErrDataProvider = errors.New("data provider failure")
)
