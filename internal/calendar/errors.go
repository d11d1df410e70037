package calendar

import "errors"

// Calendar errors
var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidDate        = errors.New("invalid date")
	ErrNotFound           = errors.New("note not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Supported year range for explicit date selection
const (
	MinYear = 1900
	MaxYear = 2100
)
