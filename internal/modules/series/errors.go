package series

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("series not found")
)
