package preview

import (
	"fmt"

	"github.com/attestlabs/attest/internal/materiality"
	"github.com/attestlabs/attest/internal/models"
)

// composeExplanation renders a natural-language account of an evaluation,
// e.g. "Calculated 2% of $1,000,000 revenue = $20,000, capped at the
// $15,000 maximum". Clamping is always named when it altered the raw
// value, so the UI never shows a clamped number without cause.
func composeExplanation(formula models.MaterialityFormula, snapshot models.FinancialSnapshot, eval materiality.Evaluation) string {
	var text string
	if formula.Type == models.FormulaFixed {
		text = fmt.Sprintf("Fixed threshold of %s", models.FormatAmount(formula.Value))
	} else {
		base, _ := snapshot.BaseFor(formula.Type)
		text = fmt.Sprintf("Calculated %s of %s %s = %s",
			formatPct(formula.Value), models.FormatAmount(base), baseLabel(formula.Type),
			models.FormatAmount(eval.Raw))
	}

	switch {
	case eval.ClampedByMax:
		text += fmt.Sprintf(", capped at the %s maximum", models.FormatAmount(*formula.MaxThreshold))
	case eval.ClampedByMin:
		text += fmt.Sprintf(", raised to the %s minimum", models.FormatAmount(*formula.MinThreshold))
	}
	return text
}

func baseLabel(t models.FormulaType) string {
	switch t {
	case models.FormulaPctOfRevenue:
		return "revenue"
	case models.FormulaPctOfAssets:
		return "total assets"
	case models.FormulaPctOfEquity:
		return "total equity"
	}
	return string(t)
}

func formatPct(v float64) string {
	return fmt.Sprintf("%v%%", v)
}
