package sensitivity

import (
	"errors"
	"testing"

	"github.com/attestlabs/attest/internal/models"
)

func mustRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return r
}

func TestRegistry_CoversEveryBattery(t *testing.T) {
	r := mustRegistry(t)
	for _, battery := range models.Batteries() {
		for _, name := range models.NamedPresets() {
			partial, err := r.Partial(battery, name)
			if err != nil {
				t.Errorf("Partial(%s, %s) error = %v", battery, name, err)
				continue
			}
			if len(partial) == 0 {
				t.Errorf("Partial(%s, %s) is empty", battery, name)
			}
		}
	}
}

func TestRegistry_DefaultsClassifyAsStandard(t *testing.T) {
	r := mustRegistry(t)

	if got := r.Classify(models.DefaultJETestingConfig(), models.BatteryJournalEntry); got != models.PresetStandard {
		t.Errorf("Classify(JE defaults) = %q, want standard", got)
	}
	if got := r.Classify(models.DefaultAPTestingConfig(), models.BatteryAPPayment); got != models.PresetStandard {
		t.Errorf("Classify(AP defaults) = %q, want standard", got)
	}
	if got := r.Classify(models.DefaultPayrollTestingConfig(), models.BatteryPayroll); got != models.PresetStandard {
		t.Errorf("Classify(Payroll defaults) = %q, want standard", got)
	}
	if got := r.Classify(models.DefaultThreeWayMatchConfig(), models.BatteryThreeWayMatch); got != models.PresetStandard {
		t.Errorf("Classify(TWM defaults) = %q, want standard", got)
	}
}

func TestRegistry_ApplyThenClassifyIsIdempotent(t *testing.T) {
	r := mustRegistry(t)

	for _, name := range models.NamedPresets() {
		applied, err := ApplyPreset(r, models.BatteryJournalEntry, name, models.DefaultJETestingConfig())
		if err != nil {
			t.Fatalf("ApplyPreset(je, %s) error = %v", name, err)
		}
		if got := r.Classify(applied, models.BatteryJournalEntry); got != name {
			t.Errorf("Classify after applying %s = %q, want %q", name, got, name)
		}

		appliedAP, err := ApplyPreset(r, models.BatteryAPPayment, name, models.DefaultAPTestingConfig())
		if err != nil {
			t.Fatalf("ApplyPreset(ap_payment, %s) error = %v", name, err)
		}
		if got := r.Classify(appliedAP, models.BatteryAPPayment); got != name {
			t.Errorf("Classify after applying %s to AP = %q, want %q", name, got, name)
		}

		appliedPayroll, err := ApplyPreset(r, models.BatteryPayroll, name, models.DefaultPayrollTestingConfig())
		if err != nil {
			t.Fatalf("ApplyPreset(payroll, %s) error = %v", name, err)
		}
		if got := r.Classify(appliedPayroll, models.BatteryPayroll); got != name {
			t.Errorf("Classify after applying %s to Payroll = %q, want %q", name, got, name)
		}

		appliedTWM, err := ApplyPreset(r, models.BatteryThreeWayMatch, name, models.DefaultThreeWayMatchConfig())
		if err != nil {
			t.Fatalf("ApplyPreset(three_way_match, %s) error = %v", name, err)
		}
		if got := r.Classify(appliedTWM, models.BatteryThreeWayMatch); got != name {
			t.Errorf("Classify after applying %s to TWM = %q, want %q", name, got, name)
		}
	}
}

func TestRegistry_EditAfterPresetFlipsToCustom(t *testing.T) {
	r := mustRegistry(t)

	// Apply conservative (round_amount_threshold 5000), then edit that
	// field to 6000: classification must report custom.
	applied, err := ApplyPreset(r, models.BatteryJournalEntry, models.PresetConservative, models.DefaultJETestingConfig())
	if err != nil {
		t.Fatalf("ApplyPreset() error = %v", err)
	}
	if applied.RoundAmountThreshold != 5000 {
		t.Fatalf("conservative round_amount_threshold = %v, want 5000", applied.RoundAmountThreshold)
	}

	edited, err := Merge(applied, Overrides{"round_amount_threshold": 6000.0})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if got := r.Classify(edited, models.BatteryJournalEntry); got != models.PresetCustom {
		t.Errorf("Classify after edit = %q, want custom", got)
	}

	// Editing a toggle the preset constrains also flips to custom.
	toggled, err := Merge(applied, Overrides{"after_hours_flagging": false})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if got := r.Classify(toggled, models.BatteryJournalEntry); got != models.PresetCustom {
		t.Errorf("Classify after toggle edit = %q, want custom", got)
	}
}

func TestRegistry_UnconstrainedFieldEditsKeepPreset(t *testing.T) {
	r := mustRegistry(t)

	// suspense_account_flagging is not constrained by any JE preset, so
	// editing it does not discriminate.
	edited, err := Merge(models.DefaultJETestingConfig(), Overrides{"suspense_account_flagging": false})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if got := r.Classify(edited, models.BatteryJournalEntry); got != models.PresetStandard {
		t.Errorf("Classify = %q, want standard: unconstrained fields are ignored", got)
	}
}

func TestRegistry_NumericToleranceAbsorbsFloatNoise(t *testing.T) {
	r := mustRegistry(t)

	cfg := models.DefaultAPTestingConfig()
	// A value that differs from 0.1 by float arithmetic noise only.
	cfg.BenfordDeviationThreshold = 0.1 * (1 + 1e-12)
	if got := r.Classify(cfg, models.BatteryAPPayment); got != models.PresetStandard {
		t.Errorf("Classify = %q, want standard despite 1e-12 relative noise", got)
	}

	// A real edit well outside tolerance flips to custom.
	cfg.BenfordDeviationThreshold = 0.11
	if got := r.Classify(cfg, models.BatteryAPPayment); got != models.PresetCustom {
		t.Errorf("Classify = %q, want custom for a real change", got)
	}
}

func TestRegistry_UnknownBatteryClassifiesAsCustom(t *testing.T) {
	r := mustRegistry(t)
	if got := r.Classify(models.DefaultJETestingConfig(), models.Battery("cash_count")); got != models.PresetCustom {
		t.Errorf("Classify(unknown battery) = %q, want custom", got)
	}
}

func TestRegistry_PartialErrors(t *testing.T) {
	r := mustRegistry(t)

	if _, err := r.Partial(models.Battery("cash_count"), models.PresetStandard); !errors.Is(err, models.ErrUnknownPresetKey) {
		t.Errorf("unknown battery error = %v, want ErrUnknownPresetKey", err)
	}
	// Custom has no stored values: empty partial, no error.
	partial, err := r.Partial(models.BatteryJournalEntry, models.PresetCustom)
	if err != nil {
		t.Errorf("Partial(custom) error = %v, want nil", err)
	}
	if len(partial) != 0 {
		t.Errorf("Partial(custom) = %v, want empty", partial)
	}
}

func TestParseRegistry_RejectsBadTables(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"unknown battery", "cash_count:\n  standard:\n    x: 1\n"},
		{"custom preset stored", "je:\n  custom:\n    round_amount_threshold: 1\n"},
		{"unknown field", "je:\n  standard:\n    no_such_field: 1\n"},
		{"type mismatch", "je:\n  standard:\n    weekend_entry_flagging: 3\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseRegistry([]byte(tc.yaml)); err == nil {
				t.Error("parseRegistry() accepted invalid table")
			}
		})
	}
}
