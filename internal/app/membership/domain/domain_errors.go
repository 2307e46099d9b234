package domain

import "errors"

// Domain errors as sentinel values
var (
	ErrInvalidDenominator = errors.New("denominator must be positive")
	ErrInvalidAmount      = errors.New("invalid monetary amount")
	ErrInvalidPercent     = errors.New("discount percentage must be between 0 and 100")
	ErrUnknownTier        = errors.New("unknown member tier")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrPointsOverflow     = errors.New("reward points total out of range")
)
