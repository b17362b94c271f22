package api

import "errors"

var (
	// ErrInvalidTarget is returned for malformed move arguments.
	ErrInvalidTarget = errors.New("invalid target")

	// ErrTargetNotFound is returned when a selector matches no element.
	ErrTargetNotFound = errors.New("target not found")

	// ErrInvalidAnnotationInput is returned when Annotate receives a value
	// it does not understand.
	ErrInvalidAnnotationInput = errors.New("invalid annotation input")

	// ErrContinuationReused is reported when an action calls its
	// continuation more than once. The extra call is ignored.
	ErrContinuationReused = errors.New("continuation called more than once")
)
