package models

import "errors"

// Validation and resolution errors. Materiality values carry audit
// significance, so validation failures are surfaced to the caller rather
// than clamped to safe defaults.
var (
	ErrInvalidFormula        = errors.New("invalid materiality formula")
	ErrMissingFinancialInput = errors.New("missing financial input")
	ErrInvalidWeight         = errors.New("invalid materiality weight")
	ErrUnknownPresetKey      = errors.New("unknown preset key")
	ErrStalePreview          = errors.New("preview superseded by a newer request")
)
