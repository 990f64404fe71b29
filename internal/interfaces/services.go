// Package interfaces defines service contracts for Attest
package interfaces

import (
	"context"

	"github.com/attestlabs/attest/internal/models"
	"github.com/attestlabs/attest/internal/sensitivity"
)

// PreviewService produces threshold previews with explanatory text for
// UI feedback as the user edits a formula.
type PreviewService interface {
	// Preview computes a threshold locally from the formula and snapshot
	Preview(ctx context.Context, formula models.MaterialityFormula, snapshot models.FinancialSnapshot) (*models.PreviewResult, error)

	// PreviewLive echoes the formula off the remote preview endpoint.
	// Requests are sequenced last-request-wins: a response superseded by a
	// newer edit is dropped with models.ErrStalePreview. On network
	// failure it degrades to local computation where the snapshot allows,
	// or to a stale-preview warning.
	PreviewLive(ctx context.Context, formula models.MaterialityFormula, snapshot models.FinancialSnapshot) (*models.PreviewResult, error)
}

// SettingsService resolves effective thresholds and testing configs from
// layered configuration scopes (practice → client → session).
type SettingsService interface {
	// EffectiveMateriality resolves the materiality formula in force
	EffectiveMateriality(ctx context.Context, clientID string, session *models.SessionState) (*models.ResolvedMateriality, error)

	// CategoryThresholds evaluates the effective formula against a
	// snapshot and splits it per account category by the practice's
	// weighted-materiality config
	CategoryThresholds(ctx context.Context, clientID string, session *models.SessionState, snapshot models.FinancialSnapshot) (map[models.AccountCategory]float64, error)

	// ClassifyBatteries reports each battery's preset state derived from
	// the practice's stored configs
	ClassifyBatteries(ctx context.Context) (map[models.Battery]models.PresetName, error)

	// Registry exposes the preset tables used for classification
	Registry() *sensitivity.Registry
}
