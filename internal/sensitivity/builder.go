package sensitivity

import (
	"errors"
	"fmt"
	"math"

	"github.com/attestlabs/attest/internal/models"
)

// OverrideBuilder validates field-level edits before they reach the merge
// engine, so out-of-range values are rejected here rather than relying on
// UI-level input constraints. Errors accumulate and surface from Build.
type OverrideBuilder struct {
	battery   models.Battery
	allowed   map[string]fieldValue
	overrides Overrides
	errs      []error
}

// NewOverrideBuilder creates a builder for one battery's field set
func NewOverrideBuilder(battery models.Battery) (*OverrideBuilder, error) {
	defaults, err := defaultConfigFor(battery)
	if err != nil {
		return nil, err
	}
	allowed, err := fieldsOf(defaults)
	if err != nil {
		return nil, err
	}
	return &OverrideBuilder{
		battery:   battery,
		allowed:   allowed,
		overrides: make(Overrides),
	}, nil
}

// SetNumber stages a numeric field edit. Sensitivity thresholds are
// non-negative magnitudes; negative and non-finite values are rejected.
func (b *OverrideBuilder) SetNumber(name string, value float64) *OverrideBuilder {
	fv, ok := b.allowed[name]
	if !ok {
		b.errs = append(b.errs, fmt.Errorf("unknown field %q for battery %s", name, b.battery))
		return b
	}
	if fv.isBool {
		b.errs = append(b.errs, fmt.Errorf("field %q is a toggle, not a number", name))
		return b
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		b.errs = append(b.errs, fmt.Errorf("field %q must be finite, got %v", name, value))
		return b
	}
	if value < 0 {
		b.errs = append(b.errs, fmt.Errorf("field %q must be non-negative, got %v", name, value))
		return b
	}
	b.overrides[name] = value
	return b
}

// SetBool stages a toggle edit
func (b *OverrideBuilder) SetBool(name string, value bool) *OverrideBuilder {
	fv, ok := b.allowed[name]
	if !ok {
		b.errs = append(b.errs, fmt.Errorf("unknown field %q for battery %s", name, b.battery))
		return b
	}
	if !fv.isBool {
		b.errs = append(b.errs, fmt.Errorf("field %q is a number, not a toggle", name))
		return b
	}
	b.overrides[name] = value
	return b
}

// Build returns the staged overrides, or every accumulated validation error
func (b *OverrideBuilder) Build() (Overrides, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	return b.overrides, nil
}
