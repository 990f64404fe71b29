package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func TestValidFormulaType(t *testing.T) {
	valid := []FormulaType{FormulaFixed, FormulaPctOfRevenue, FormulaPctOfAssets, FormulaPctOfEquity}
	for _, ft := range valid {
		if !ValidFormulaType(ft) {
			t.Errorf("ValidFormulaType(%q) = false, want true", ft)
		}
	}

	invalid := []FormulaType{"", "FIXED", "pct_of_profit", "percentage"}
	for _, ft := range invalid {
		if ValidFormulaType(ft) {
			t.Errorf("ValidFormulaType(%q) = true, want false", ft)
		}
	}
}

func TestMaterialityFormula_Validate(t *testing.T) {
	tests := []struct {
		name    string
		formula MaterialityFormula
		wantErr error
	}{
		{"valid fixed", MaterialityFormula{Type: FormulaFixed, Value: 500}, nil},
		{"valid pct with bounds", MaterialityFormula{Type: FormulaPctOfRevenue, Value: 2, MinThreshold: ptr(1000), MaxThreshold: ptr(50000)}, nil},
		{"zero value", MaterialityFormula{Type: FormulaFixed, Value: 0}, nil},
		{"negative value", MaterialityFormula{Type: FormulaFixed, Value: -1}, ErrInvalidFormula},
		{"unknown type", MaterialityFormula{Type: "pct_of_profit", Value: 1}, ErrInvalidFormula},
		{"inverted bounds", MaterialityFormula{Type: FormulaFixed, Value: 500, MinThreshold: ptr(5000), MaxThreshold: ptr(1000)}, ErrInvalidFormula},
		{"equal bounds ok", MaterialityFormula{Type: FormulaFixed, Value: 500, MinThreshold: ptr(1000), MaxThreshold: ptr(1000)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.formula.Validate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMaterialityFormula_Display(t *testing.T) {
	tests := []struct {
		name    string
		formula MaterialityFormula
		want    string
	}{
		{"fixed", MaterialityFormula{Type: FormulaFixed, Value: 500}, "Fixed $500"},
		{"pct of revenue with bounds",
			MaterialityFormula{Type: FormulaPctOfRevenue, Value: 2, MinThreshold: ptr(1000), MaxThreshold: ptr(50000)},
			"2% of Revenue (min $1,000, max $50,000)"},
		{"pct of assets min only",
			MaterialityFormula{Type: FormulaPctOfAssets, Value: 0.5, MinThreshold: ptr(2500)},
			"0.5% of Total Assets (min $2,500)"},
		{"pct of equity max only",
			MaterialityFormula{Type: FormulaPctOfEquity, Value: 1.5, MaxThreshold: ptr(100000)},
			"1.5% of Total Equity (max $100,000)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.formula.Display(); got != tt.want {
				t.Errorf("Display() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0"},
		{500, "$500"},
		{1000, "$1,000"},
		{1234567, "$1,234,567"},
		{833.33, "$833.33"},
		{1000.5, "$1,000.50"},
		{-2500, "-$2,500"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.in); got != tt.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFinancialSnapshot_BaseFor(t *testing.T) {
	snap := FinancialSnapshot{Revenue: ptr(1000000), TotalAssets: ptr(5000000)}

	if base, ok := snap.BaseFor(FormulaPctOfRevenue); !ok || base != 1000000 {
		t.Errorf("BaseFor(pct_of_revenue) = (%v, %v), want (1000000, true)", base, ok)
	}
	if base, ok := snap.BaseFor(FormulaPctOfAssets); !ok || base != 5000000 {
		t.Errorf("BaseFor(pct_of_assets) = (%v, %v), want (5000000, true)", base, ok)
	}
	if _, ok := snap.BaseFor(FormulaPctOfEquity); ok {
		t.Error("BaseFor(pct_of_equity) ok = true for missing equity, want false")
	}
	if _, ok := snap.BaseFor(FormulaFixed); ok {
		t.Error("BaseFor(fixed) ok = true, want false: fixed formulas have no base")
	}
}

func TestAccountCategory_Groups(t *testing.T) {
	balanceSheet := []AccountCategory{CategoryAsset, CategoryLiability, CategoryEquity, CategoryUnknown}
	for _, c := range balanceSheet {
		if !c.IsBalanceSheet() {
			t.Errorf("IsBalanceSheet(%q) = false, want true", c)
		}
	}

	incomeStatement := []AccountCategory{CategoryRevenue, CategoryExpense}
	for _, c := range incomeStatement {
		if c.IsBalanceSheet() {
			t.Errorf("IsBalanceSheet(%q) = true, want false", c)
		}
	}
}

func TestWeightedMaterialityConfig_Validate(t *testing.T) {
	cfg := DefaultWeightedMaterialityConfig()
	cfg.Enabled = true
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config Validate() error = %v", err)
	}

	zero := DefaultWeightedMaterialityConfig()
	zero.Enabled = true
	zero.AccountWeights[CategoryExpense] = 0
	if err := zero.Validate(); !errors.Is(err, ErrInvalidWeight) {
		t.Errorf("zero weight Validate() error = %v, want ErrInvalidWeight", err)
	}

	negative := DefaultWeightedMaterialityConfig()
	negative.Enabled = true
	negative.BalanceSheetWeight = -1
	if err := negative.Validate(); !errors.Is(err, ErrInvalidWeight) {
		t.Errorf("negative statement weight Validate() error = %v, want ErrInvalidWeight", err)
	}

	// Disabled configs are not validated: they never affect thresholds.
	disabled := WeightedMaterialityConfig{Enabled: false}
	if err := disabled.Validate(); err != nil {
		t.Errorf("disabled config Validate() error = %v, want nil", err)
	}
}

func TestPracticeSettings_JSONRoundTrip(t *testing.T) {
	settings := DefaultPracticeSettings()
	settings.DefaultMateriality = MaterialityFormula{
		Type: FormulaPctOfRevenue, Value: 2.5,
		MinThreshold: ptr(1000), MaxThreshold: ptr(50000),
	}
	settings.JETesting.RoundAmountThreshold = 8750.25

	data, err := json.Marshal(settings)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got PracticeSettings
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if got.DefaultMateriality != settings.DefaultMateriality {
		// Pointer fields compare by address; check values instead.
		if got.DefaultMateriality.Value != 2.5 ||
			*got.DefaultMateriality.MinThreshold != 1000 ||
			*got.DefaultMateriality.MaxThreshold != 50000 {
			t.Errorf("DefaultMateriality round trip mismatch: %+v", got.DefaultMateriality)
		}
	}
	if *got.JETesting != *settings.JETesting {
		t.Errorf("JETesting round trip mismatch: got %+v, want %+v", *got.JETesting, *settings.JETesting)
	}
	if got.WeightedMateriality.AccountWeights[CategoryLiability] != 1.2 {
		t.Errorf("AccountWeights[liability] = %v, want 1.2", got.WeightedMateriality.AccountWeights[CategoryLiability])
	}
}
