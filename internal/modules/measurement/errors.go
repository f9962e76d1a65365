package measurement

import "errors"

var (
	ErrValidation     = errors.New("validation error")
	ErrNotFound       = errors.New("measurement not found")
	ErrSeriesNotFound = errors.New("series not found")
)
