package materiality

import (
	"github.com/attestlabs/attest/internal/models"
)

// Resolve applies scope precedence (session > client > practice) and
// returns the materiality formula in force. A session override becomes a
// synthetic fixed formula at the override value; it lives only for the
// editing session and is never persisted. The effective formula is
// validated before it is returned, so callers can compute with it directly.
func Resolve(practice models.MaterialityFormula, client *models.ClientSettings, session *models.SessionState) (models.ResolvedMateriality, error) {
	resolved := models.ResolvedMateriality{
		Formula: practice,
		Source:  models.SourcePractice,
	}

	switch {
	case session != nil && session.MaterialityOverride != nil:
		override := *session.MaterialityOverride
		resolved.Formula = models.MaterialityFormula{Type: models.FormulaFixed, Value: override}
		resolved.SessionOverride = &override
		resolved.Source = models.SourceSession
	case client != nil && client.MaterialityOverride != nil:
		resolved.Formula = *client.MaterialityOverride
		resolved.Source = models.SourceClient
	}

	if err := resolved.Formula.Validate(); err != nil {
		return models.ResolvedMateriality{}, err
	}

	resolved.FormulaDisplay = resolved.Formula.Display()
	return resolved, nil
}
