// Package materiality computes effective materiality thresholds from
// formulas, financial snapshots, and layered configuration scopes. All
// functions are pure: no I/O, no shared state.
package materiality

import (
	"fmt"

	"github.com/attestlabs/attest/internal/models"
)

// Evaluation is the detailed outcome of evaluating a formula: the raw
// computed value and the bound-clamped threshold, with flags recording
// which bound applied.
type Evaluation struct {
	Raw          float64
	Threshold    float64
	ClampedByMin bool
	ClampedByMax bool
}

// Clamped reports whether either bound altered the raw value
func (e Evaluation) Clamped() bool {
	return e.ClampedByMin || e.ClampedByMax
}

// Evaluate computes the materiality threshold for a formula against a
// financial snapshot. Fixed formulas ignore the snapshot entirely;
// percentage formulas require their base figure to be present and finite.
func Evaluate(formula models.MaterialityFormula, snapshot models.FinancialSnapshot) (float64, error) {
	detail, err := EvaluateDetail(formula, snapshot)
	if err != nil {
		return 0, err
	}
	return detail.Threshold, nil
}

// EvaluateDetail is Evaluate retaining the raw value and clamp flags,
// for callers that explain results to users.
func EvaluateDetail(formula models.MaterialityFormula, snapshot models.FinancialSnapshot) (Evaluation, error) {
	if err := formula.Validate(); err != nil {
		return Evaluation{}, err
	}

	var raw float64
	switch formula.Type {
	case models.FormulaFixed:
		raw = formula.Value
	default:
		base, ok := snapshot.BaseFor(formula.Type)
		if !ok {
			return Evaluation{}, fmt.Errorf("%w: %s requires %s",
				models.ErrMissingFinancialInput, formula.Type, baseName(formula.Type))
		}
		raw = formula.Value / 100 * base
	}

	eval := Evaluation{Raw: raw, Threshold: raw}
	if formula.MinThreshold != nil && eval.Threshold < *formula.MinThreshold {
		eval.Threshold = *formula.MinThreshold
		eval.ClampedByMin = true
	}
	if formula.MaxThreshold != nil && eval.Threshold > *formula.MaxThreshold {
		eval.Threshold = *formula.MaxThreshold
		eval.ClampedByMax = true
	}
	return eval, nil
}

func baseName(t models.FormulaType) string {
	switch t {
	case models.FormulaPctOfRevenue:
		return "revenue"
	case models.FormulaPctOfAssets:
		return "total_assets"
	case models.FormulaPctOfEquity:
		return "total_equity"
	}
	return "unknown base"
}
