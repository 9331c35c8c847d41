package models

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation error")
	ErrConfig     = errors.New("configuration error")

	ErrEmptyBody          = fmt.Errorf("%w: request body is empty", ErrValidation)
	ErrMissingDescription = fmt.Errorf("%w: description is required", ErrValidation)
	ErrMissingColumn      = fmt.Errorf("%w: required column missing", ErrValidation)
	ErrInvalidLimit       = fmt.Errorf("%w: limit must be a positive integer", ErrValidation)

	ErrMalformedCSV    = errors.New("malformed csv")
	ErrInvalidEncoding = errors.New("invalid text encoding")

	ErrCompletionFailed = errors.New("completion request failed")
)
