// Package settings resolves effective audit thresholds and testing
// configs from layered configuration scopes
package settings

import (
	"context"
	"fmt"

	"github.com/attestlabs/attest/internal/common"
	"github.com/attestlabs/attest/internal/interfaces"
	"github.com/attestlabs/attest/internal/materiality"
	"github.com/attestlabs/attest/internal/models"
	"github.com/attestlabs/attest/internal/sensitivity"
)

// Compile-time interface check
var _ interfaces.SettingsService = (*Service)(nil)

// Service implements SettingsService. Resolved values are recomputed on
// every read; nothing is cached across config mutation.
type Service struct {
	store    interfaces.SettingsStore
	registry *sensitivity.Registry
	logger   *common.Logger
}

// NewService creates a new settings service
func NewService(store interfaces.SettingsStore, logger *common.Logger) (*Service, error) {
	registry, err := sensitivity.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load preset registry: %w", err)
	}
	return &Service{
		store:    store,
		registry: registry,
		logger:   logger,
	}, nil
}

// Registry exposes the preset tables used for classification
func (s *Service) Registry() *sensitivity.Registry {
	return s.registry
}

// EffectiveMateriality resolves the materiality formula in force for a
// client, applying scope precedence session > client > practice.
func (s *Service) EffectiveMateriality(ctx context.Context, clientID string, session *models.SessionState) (*models.ResolvedMateriality, error) {
	practice, err := s.practiceSettings(ctx)
	if err != nil {
		return nil, err
	}

	var client *models.ClientSettings
	if clientID != "" {
		client, err = s.store.GetClientSettings(ctx, clientID)
		if err != nil {
			return nil, fmt.Errorf("failed to load client settings for %s: %w", clientID, err)
		}
	}

	resolved, err := materiality.Resolve(practice.DefaultMateriality, client, session)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("client_id", clientID).
		Str("source", string(resolved.Source)).
		Str("formula", resolved.FormulaDisplay).
		Msg("Resolved materiality")
	return &resolved, nil
}

// CategoryThresholds evaluates the effective formula against a snapshot
// and splits the base threshold per account category using the practice's
// weighted-materiality config.
func (s *Service) CategoryThresholds(ctx context.Context, clientID string, session *models.SessionState, snapshot models.FinancialSnapshot) (map[models.AccountCategory]float64, error) {
	resolved, err := s.EffectiveMateriality(ctx, clientID, session)
	if err != nil {
		return nil, err
	}

	base, err := materiality.Evaluate(resolved.Formula, snapshot)
	if err != nil {
		return nil, err
	}

	practice, err := s.practiceSettings(ctx)
	if err != nil {
		return nil, err
	}
	weighted := models.DefaultWeightedMaterialityConfig()
	if practice.WeightedMateriality != nil {
		weighted = *practice.WeightedMateriality
	}

	return materiality.ResolveByCategory(base, weighted)
}

// ClassifyBatteries reports each battery's preset state, derived purely
// from the stored config field values.
func (s *Service) ClassifyBatteries(ctx context.Context) (map[models.Battery]models.PresetName, error) {
	practice, err := s.practiceSettings(ctx)
	if err != nil {
		return nil, err
	}

	je, ap, payroll, twm := batteryConfigs(practice)
	return map[models.Battery]models.PresetName{
		models.BatteryJournalEntry:  s.registry.Classify(je, models.BatteryJournalEntry),
		models.BatteryAPPayment:     s.registry.Classify(ap, models.BatteryAPPayment),
		models.BatteryPayroll:       s.registry.Classify(payroll, models.BatteryPayroll),
		models.BatteryThreeWayMatch: s.registry.Classify(twm, models.BatteryThreeWayMatch),
	}, nil
}

// EffectiveJETesting merges the stored JE config with an optional preset
// selection and field-level edits, and classifies the outcome.
func (s *Service) EffectiveJETesting(ctx context.Context, preset models.PresetName, edits sensitivity.Overrides) (*models.JETestingConfig, models.PresetName, error) {
	practice, err := s.practiceSettings(ctx)
	if err != nil {
		return nil, models.PresetCustom, err
	}
	base, _, _, _ := batteryConfigs(practice)
	return effectiveConfig(s, models.BatteryJournalEntry, base, preset, edits)
}

// EffectiveAPPayment merges the stored AP Payment config with an optional
// preset selection and field-level edits, and classifies the outcome.
func (s *Service) EffectiveAPPayment(ctx context.Context, preset models.PresetName, edits sensitivity.Overrides) (*models.APTestingConfig, models.PresetName, error) {
	practice, err := s.practiceSettings(ctx)
	if err != nil {
		return nil, models.PresetCustom, err
	}
	_, base, _, _ := batteryConfigs(practice)
	return effectiveConfig(s, models.BatteryAPPayment, base, preset, edits)
}

// EffectivePayroll merges the stored Payroll config with an optional
// preset selection and field-level edits, and classifies the outcome.
func (s *Service) EffectivePayroll(ctx context.Context, preset models.PresetName, edits sensitivity.Overrides) (*models.PayrollTestingConfig, models.PresetName, error) {
	practice, err := s.practiceSettings(ctx)
	if err != nil {
		return nil, models.PresetCustom, err
	}
	_, _, base, _ := batteryConfigs(practice)
	return effectiveConfig(s, models.BatteryPayroll, base, preset, edits)
}

// EffectiveThreeWayMatch merges the stored Three-Way-Match config with an
// optional preset selection and field-level edits, and classifies the outcome.
func (s *Service) EffectiveThreeWayMatch(ctx context.Context, preset models.PresetName, edits sensitivity.Overrides) (*models.ThreeWayMatchConfig, models.PresetName, error) {
	practice, err := s.practiceSettings(ctx)
	if err != nil {
		return nil, models.PresetCustom, err
	}
	_, _, _, base := batteryConfigs(practice)
	return effectiveConfig(s, models.BatteryThreeWayMatch, base, preset, edits)
}

// SavePracticeSettings validates and overwrites the practice-scope record
// wholesale. Session state is deliberately excluded: promoting a session
// override requires the caller to fold it into the record first.
func (s *Service) SavePracticeSettings(ctx context.Context, settings *models.PracticeSettings) error {
	if err := settings.DefaultMateriality.Validate(); err != nil {
		return err
	}
	if settings.WeightedMateriality != nil {
		if err := settings.WeightedMateriality.Validate(); err != nil {
			return err
		}
	}
	if err := s.store.SavePracticeSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to save practice settings: %w", err)
	}
	s.logger.Info().Str("formula", settings.DefaultMateriality.Display()).Msg("Saved practice settings")
	return nil
}

// effectiveConfig is the shared merge-then-classify pipeline behind the
// per-battery methods. An empty preset name means "no preset selected":
// only the edits overlay the stored config.
func effectiveConfig[T any](s *Service, battery models.Battery, base T, preset models.PresetName, edits sensitivity.Overrides) (*T, models.PresetName, error) {
	var partial sensitivity.Overrides
	if preset != "" && preset != models.PresetCustom {
		var err error
		partial, err = s.registry.Partial(battery, preset)
		if err != nil {
			return nil, models.PresetCustom, err
		}
	}

	merged, err := sensitivity.Merge(base, partial, edits)
	if err != nil {
		return nil, models.PresetCustom, err
	}
	return &merged, s.registry.Classify(merged, battery), nil
}

// practiceSettings loads the stored record, falling back to built-in
// defaults for a practice that has never saved one.
func (s *Service) practiceSettings(ctx context.Context) (*models.PracticeSettings, error) {
	practice, err := s.store.GetPracticeSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load practice settings: %w", err)
	}
	if practice == nil {
		return models.DefaultPracticeSettings(), nil
	}
	return practice, nil
}

// batteryConfigs returns the four battery configs from a settings record,
// substituting defaults for any the record omits.
func batteryConfigs(practice *models.PracticeSettings) (models.JETestingConfig, models.APTestingConfig, models.PayrollTestingConfig, models.ThreeWayMatchConfig) {
	je := models.DefaultJETestingConfig()
	if practice.JETesting != nil {
		je = *practice.JETesting
	}
	ap := models.DefaultAPTestingConfig()
	if practice.APPayment != nil {
		ap = *practice.APPayment
	}
	payroll := models.DefaultPayrollTestingConfig()
	if practice.Payroll != nil {
		payroll = *practice.Payroll
	}
	twm := models.DefaultThreeWayMatchConfig()
	if practice.ThreeWayMatch != nil {
		twm = *practice.ThreeWayMatch
	}
	return je, ap, payroll, twm
}
