package leitner

import "errors"

// Sentinel errors. Use errors.Is to check.
var (
	ErrInvalidGrade  = errors.New("leitner: invalid grade")
	ErrInvalidFilter = errors.New("leitner: invalid filter")
)
