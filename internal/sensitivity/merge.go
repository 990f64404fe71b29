package sensitivity

import (
	"fmt"

	"github.com/attestlabs/attest/internal/models"
)

// Merge layers partial overrides over a complete default config, lowest
// precedence first: defaults, then a preset partial, then user edits.
// Each overlay is a field-level shallow overwrite. The result is always a
// fully-populated config, so classification can compare fields without
// null handling. Merging the same overlays again is a no-op.
func Merge[T any](defaults T, overlays ...Overrides) (T, error) {
	out := defaults
	for _, overlay := range overlays {
		if len(overlay) == 0 {
			continue
		}
		if err := applyOverrides(&out, overlay); err != nil {
			var zero T
			return zero, err
		}
	}
	return out, nil
}

// WeightedOverride is a partial WeightedMaterialityConfig. AccountWeights
// entries overlay key-by-key: categories the override does not mention
// keep their prior weight.
type WeightedOverride struct {
	AccountWeights        map[models.AccountCategory]float64
	BalanceSheetWeight    *float64
	IncomeStatementWeight *float64
	Enabled               *bool
}

// MergeWeighted layers weighted-materiality overrides over a complete
// config. Weights ≤ 0 are rejected before they enter the merged config.
func MergeWeighted(defaults models.WeightedMaterialityConfig, overlays ...WeightedOverride) (models.WeightedMaterialityConfig, error) {
	out := defaults
	out.AccountWeights = make(map[models.AccountCategory]float64, len(defaults.AccountWeights))
	for cat, w := range defaults.AccountWeights {
		out.AccountWeights[cat] = w
	}

	for _, overlay := range overlays {
		for cat, w := range overlay.AccountWeights {
			if !models.ValidAccountCategory(cat) {
				return models.WeightedMaterialityConfig{}, fmt.Errorf("unknown account category %q", cat)
			}
			if w <= 0 {
				return models.WeightedMaterialityConfig{}, fmt.Errorf("%w: account_weights[%s] = %v", models.ErrInvalidWeight, cat, w)
			}
			out.AccountWeights[cat] = w
		}
		if overlay.BalanceSheetWeight != nil {
			if *overlay.BalanceSheetWeight <= 0 {
				return models.WeightedMaterialityConfig{}, fmt.Errorf("%w: balance_sheet_weight = %v", models.ErrInvalidWeight, *overlay.BalanceSheetWeight)
			}
			out.BalanceSheetWeight = *overlay.BalanceSheetWeight
		}
		if overlay.IncomeStatementWeight != nil {
			if *overlay.IncomeStatementWeight <= 0 {
				return models.WeightedMaterialityConfig{}, fmt.Errorf("%w: income_statement_weight = %v", models.ErrInvalidWeight, *overlay.IncomeStatementWeight)
			}
			out.IncomeStatementWeight = *overlay.IncomeStatementWeight
		}
		if overlay.Enabled != nil {
			out.Enabled = *overlay.Enabled
		}
	}
	return out, nil
}
