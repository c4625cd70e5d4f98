package domain

import "errors"

var (
	// ErrInvalidQuery signals that neither a title nor a location was provided.
	ErrInvalidQuery = errors.New("invalid query: need title or location")
	// ErrMissingColumn signals a required header column absent from the source sheet.
	ErrMissingColumn = errors.New("missing column")
	// ErrInvalidAmount signals a wage amount that is not numeric.
	ErrInvalidAmount = errors.New("invalid wage amount")
	// ErrUnknownUnit signals an unrecognized pay-period unit.
	ErrUnknownUnit = errors.New("unknown pay unit")
	// ErrOutOfRange signals a salary too large for the half_float storage field.
	ErrOutOfRange = errors.New("salary out of storage range")
)
