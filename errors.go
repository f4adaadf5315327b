package physunits

import "errors"

// Sentinel errors surfaced directly by the façade, distinct from the
// catalog/quantity packages' own sentinels (ErrUnknownUnit, ErrAmbiguousUnit,
// ErrDimensionMismatch, etc.), which propagate unwrapped through errors.Is.
var ErrUnknownFunction = errors.New("unknown function")
