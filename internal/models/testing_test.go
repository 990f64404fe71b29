package models

import (
	"encoding/json"
	"testing"
)

func TestValidBattery(t *testing.T) {
	for _, b := range Batteries() {
		if !ValidBattery(b) {
			t.Errorf("ValidBattery(%q) = false, want true", b)
		}
	}

	invalid := []Battery{"", "JE", "journal_entry", "ap"}
	for _, b := range invalid {
		if ValidBattery(b) {
			t.Errorf("ValidBattery(%q) = true, want false", b)
		}
	}
}

func TestNamedPresets_ExcludesCustom(t *testing.T) {
	for _, p := range NamedPresets() {
		if p == PresetCustom {
			t.Error("NamedPresets() includes custom; custom carries no stored values")
		}
	}
	if len(NamedPresets()) != 3 {
		t.Errorf("NamedPresets() length = %d, want 3", len(NamedPresets()))
	}
}

func TestDefaultPracticeSettings_Complete(t *testing.T) {
	s := DefaultPracticeSettings()
	if s.WeightedMateriality == nil || s.JETesting == nil || s.APPayment == nil ||
		s.Payroll == nil || s.ThreeWayMatch == nil {
		t.Fatal("DefaultPracticeSettings() has nil battery configs")
	}
	if err := s.DefaultMateriality.Validate(); err != nil {
		t.Errorf("default materiality invalid: %v", err)
	}
	if s.WeightedMateriality.Enabled {
		t.Error("weighted materiality should start disabled")
	}
}

func TestBatteryConfig_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(DefaultJETestingConfig())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	want := []string{
		"round_amount_threshold", "large_entry_multiplier", "period_end_window_days",
		"weekend_entry_flagging", "after_hours_flagging", "manual_entry_scrutiny",
		"suspense_account_flagging", "duplicate_description_check",
	}
	for _, name := range want {
		if _, ok := fields[name]; !ok {
			t.Errorf("JE config JSON missing field %q", name)
		}
	}
	if len(fields) != len(want) {
		t.Errorf("JE config JSON has %d fields, want %d", len(fields), len(want))
	}
}

func TestBatteryConfig_JSONRoundTrip(t *testing.T) {
	cfg := DefaultAPTestingConfig()
	cfg.BenfordDeviationThreshold = 0.1234567890123
	cfg.SplitPaymentDetection = false

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var got APTestingConfig
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got != cfg {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, cfg)
	}
}

func TestNewSessionState(t *testing.T) {
	s := NewSessionState()
	if s.SessionID == "" {
		t.Error("SessionID is empty")
	}
	if s.MaterialityOverride != nil {
		t.Error("new session should have no materiality override")
	}
	if s.StartedAt.IsZero() {
		t.Error("StartedAt is zero")
	}

	other := NewSessionState()
	if other.SessionID == s.SessionID {
		t.Error("session IDs should be unique")
	}
}
