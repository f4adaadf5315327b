package quantity

import "errors"

// Sentinel error kinds, checked with errors.Is by callers; mirrors the
// dao package's ErrNotFound/ErrConstraintViolation convention.
var (
	ErrDimensionMismatch = errors.New("incompatible exponent vectors")
	ErrNotUnitless       = errors.New("value is not dimensionless")
	ErrForeignRegistry   = errors.New("values do not share a base unit registry")
)
