package materiality

import (
	"github.com/attestlabs/attest/internal/models"
)

// ResolveByCategory derives per-account-category thresholds from a base
// threshold. Disabled configs map every category to the base unchanged.
// When enabled, the category weight times its statement-group weight
// DIVIDES the base: higher weight means more scrutiny, a lower threshold.
// Weights ≤ 0 are rejected, never floored.
func ResolveByCategory(baseThreshold float64, config models.WeightedMaterialityConfig) (map[models.AccountCategory]float64, error) {
	out := make(map[models.AccountCategory]float64, len(models.AccountCategories()))

	if !config.Enabled {
		for _, cat := range models.AccountCategories() {
			out[cat] = baseThreshold
		}
		return out, nil
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	for _, cat := range models.AccountCategories() {
		statementWeight := config.IncomeStatementWeight
		if cat.IsBalanceSheet() {
			statementWeight = config.BalanceSheetWeight
		}
		out[cat] = baseThreshold / (config.AccountWeights[cat] * statementWeight)
	}
	return out, nil
}
