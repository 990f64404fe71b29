package models

import (
	"time"

	"github.com/google/uuid"
)

// Battery identifies an analysis battery that consumes a testing config
type Battery string

const (
	BatteryJournalEntry  Battery = "je"
	BatteryAPPayment     Battery = "ap_payment"
	BatteryPayroll       Battery = "payroll"
	BatteryThreeWayMatch Battery = "three_way_match"
)

// Batteries lists every battery in a stable order
func Batteries() []Battery {
	return []Battery{BatteryJournalEntry, BatteryAPPayment, BatteryPayroll, BatteryThreeWayMatch}
}

// ValidBattery reports whether b is a known battery
func ValidBattery(b Battery) bool {
	switch b {
	case BatteryJournalEntry, BatteryAPPayment, BatteryPayroll, BatteryThreeWayMatch:
		return true
	}
	return false
}

// PresetName names a sensitivity profile for a testing battery. Custom is
// never stored; it is the inferred state when a live config matches no
// named preset exactly.
type PresetName string

const (
	PresetConservative PresetName = "conservative"
	PresetStandard     PresetName = "standard"
	PresetPermissive   PresetName = "permissive"
	PresetCustom       PresetName = "custom"
)

// NamedPresets lists the presets that carry stored values, in the order
// classification checks them
func NamedPresets() []PresetName {
	return []PresetName{PresetConservative, PresetStandard, PresetPermissive}
}

// JETestingConfig holds Journal Entry testing sensitivity.
// Amounts are dollars, windows are days.
type JETestingConfig struct {
	RoundAmountThreshold      float64 `json:"round_amount_threshold"`
	LargeEntryMultiplier      float64 `json:"large_entry_multiplier"`
	PeriodEndWindowDays       float64 `json:"period_end_window_days"`
	WeekendEntryFlagging      bool    `json:"weekend_entry_flagging"`
	AfterHoursFlagging        bool    `json:"after_hours_flagging"`
	ManualEntryScrutiny       bool    `json:"manual_entry_scrutiny"`
	SuspenseAccountFlagging   bool    `json:"suspense_account_flagging"`
	DuplicateDescriptionCheck bool    `json:"duplicate_description_check"`
}

// APTestingConfig holds AP Payment testing sensitivity
type APTestingConfig struct {
	DuplicatePaymentTolerancePct float64 `json:"duplicate_payment_tolerance_pct"`
	DuplicateWindowDays          float64 `json:"duplicate_window_days"`
	NewVendorScrutinyDays        float64 `json:"new_vendor_scrutiny_days"`
	RoundPaymentThreshold        float64 `json:"round_payment_threshold"`
	BenfordDeviationThreshold    float64 `json:"benford_deviation_threshold"`
	SplitWindowDays              float64 `json:"split_window_days"`
	SequentialInvoiceCheck       bool    `json:"sequential_invoice_check"`
	SplitPaymentDetection        bool    `json:"split_payment_detection"`
}

// PayrollTestingConfig holds Payroll testing sensitivity
type PayrollTestingConfig struct {
	OvertimeMultiplierCap        float64 `json:"overtime_multiplier_cap"`
	TerminatedEmployeeWindowDays float64 `json:"terminated_employee_window_days"`
	PaySpikePct                  float64 `json:"pay_spike_pct"`
	GhostEmployeeCheck           bool    `json:"ghost_employee_check"`
	DuplicateBankAccountCheck    bool    `json:"duplicate_bank_account_check"`
	OffCycleFlagging             bool    `json:"off_cycle_flagging"`
}

// ThreeWayMatchConfig holds Three-Way-Match validation sensitivity
type ThreeWayMatchConfig struct {
	PriceVariancePct       float64 `json:"price_variance_pct"`
	QuantityVariancePct    float64 `json:"quantity_variance_pct"`
	DateGapDays            float64 `json:"date_gap_days"`
	MissingReceiptFlagging bool    `json:"missing_receipt_flagging"`
	MissingPOFlagging      bool    `json:"missing_po_flagging"`
}

// Battery defaults. Each matches the "standard" preset on every field the
// preset constrains, so a freshly initialized practice classifies as standard.

// DefaultJETestingConfig returns JE testing defaults
func DefaultJETestingConfig() JETestingConfig {
	return JETestingConfig{
		RoundAmountThreshold:      10000,
		LargeEntryMultiplier:      3,
		PeriodEndWindowDays:       3,
		WeekendEntryFlagging:      true,
		AfterHoursFlagging:        false,
		ManualEntryScrutiny:       true,
		SuspenseAccountFlagging:   true,
		DuplicateDescriptionCheck: true,
	}
}

// DefaultAPTestingConfig returns AP Payment testing defaults
func DefaultAPTestingConfig() APTestingConfig {
	return APTestingConfig{
		DuplicatePaymentTolerancePct: 1.0,
		DuplicateWindowDays:          60,
		NewVendorScrutinyDays:        60,
		RoundPaymentThreshold:        10000,
		BenfordDeviationThreshold:    0.1,
		SplitWindowDays:              7,
		SequentialInvoiceCheck:       true,
		SplitPaymentDetection:        true,
	}
}

// DefaultPayrollTestingConfig returns Payroll testing defaults
func DefaultPayrollTestingConfig() PayrollTestingConfig {
	return PayrollTestingConfig{
		OvertimeMultiplierCap:        2.0,
		TerminatedEmployeeWindowDays: 60,
		PaySpikePct:                  50,
		GhostEmployeeCheck:           true,
		DuplicateBankAccountCheck:    true,
		OffCycleFlagging:             true,
	}
}

// DefaultThreeWayMatchConfig returns Three-Way-Match defaults
func DefaultThreeWayMatchConfig() ThreeWayMatchConfig {
	return ThreeWayMatchConfig{
		PriceVariancePct:       5,
		QuantityVariancePct:    5,
		DateGapDays:            60,
		MissingReceiptFlagging: true,
		MissingPOFlagging:      true,
	}
}

// PracticeSettings is the practice-scope settings record. It is written
// wholesale on save; persistence itself lives outside this engine.
type PracticeSettings struct {
	DefaultMateriality  MaterialityFormula         `json:"default_materiality"`
	WeightedMateriality *WeightedMaterialityConfig `json:"weighted_materiality,omitempty"`
	JETesting           *JETestingConfig           `json:"je_testing_config,omitempty"`
	APPayment           *APTestingConfig           `json:"ap_testing_config,omitempty"`
	Payroll             *PayrollTestingConfig      `json:"payroll_testing_config,omitempty"`
	ThreeWayMatch       *ThreeWayMatchConfig       `json:"three_way_match_config,omitempty"`
	UpdatedAt           time.Time                  `json:"updated_at,omitempty"`
}

// DefaultPracticeSettings returns the settings a practice starts with:
// a $50,000 fixed materiality and standard battery sensitivity.
func DefaultPracticeSettings() *PracticeSettings {
	weighted := DefaultWeightedMaterialityConfig()
	je := DefaultJETestingConfig()
	ap := DefaultAPTestingConfig()
	payroll := DefaultPayrollTestingConfig()
	twm := DefaultThreeWayMatchConfig()
	return &PracticeSettings{
		DefaultMateriality:  MaterialityFormula{Type: FormulaFixed, Value: 50000},
		WeightedMateriality: &weighted,
		JETesting:           &je,
		APPayment:           &ap,
		Payroll:             &payroll,
		ThreeWayMatch:       &twm,
	}
}

// ClientSettings is the client-scope overlay on practice settings
type ClientSettings struct {
	ClientID            string              `json:"client_id"`
	Name                string              `json:"name,omitempty"`
	MaterialityOverride *MaterialityFormula `json:"materiality_override,omitempty"`
}

// SessionState holds in-memory overrides for one editing session. It is
// never persisted: navigating away without a save discards it, and a
// caller wanting the override to survive must promote it to the client or
// practice scope through an explicit save.
type SessionState struct {
	SessionID           string    `json:"session_id"`
	MaterialityOverride *float64  `json:"materiality_override,omitempty"`
	StartedAt           time.Time `json:"started_at"`
}

// NewSessionState starts an empty editing session
func NewSessionState() *SessionState {
	return &SessionState{
		SessionID: uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
}

// PreviewRequest is the payload sent to the remote preview echo endpoint
type PreviewRequest struct {
	Formula MaterialityFormula `json:"formula"`
	Revenue *float64           `json:"revenue,omitempty"`
	Assets  *float64           `json:"assets,omitempty"`
	Equity  *float64           `json:"equity,omitempty"`
}

// PreviewSource records where a preview result was computed
type PreviewSource string

const (
	PreviewSourceLocal  PreviewSource = "local"
	PreviewSourceRemote PreviewSource = "remote"
)

// PreviewResult is a computed threshold with its explanation. Stale is set
// when the remote echo was unavailable and the local snapshot could not
// back the formula, so the UI should warn rather than show a number.
type PreviewResult struct {
	Threshold   float64       `json:"threshold"`
	Explanation string        `json:"explanation"`
	Source      PreviewSource `json:"source"`
	Stale       bool          `json:"stale,omitempty"`
}
