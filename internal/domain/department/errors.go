package department

import "errors"

// Department domain errors
var (
	ErrTimingNotFound = errors.New("department timing not found")
	ErrInvalidTiming  = errors.New("department timing configuration is invalid")
)
