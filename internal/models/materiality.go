// Package models defines data structures for Attest
package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormulaType identifies how a materiality threshold is derived
type FormulaType string

const (
	FormulaFixed        FormulaType = "fixed"
	FormulaPctOfRevenue FormulaType = "pct_of_revenue"
	FormulaPctOfAssets  FormulaType = "pct_of_assets"
	FormulaPctOfEquity  FormulaType = "pct_of_equity"
)

// ValidFormulaType reports whether t is a known formula type
func ValidFormulaType(t FormulaType) bool {
	switch t {
	case FormulaFixed, FormulaPctOfRevenue, FormulaPctOfAssets, FormulaPctOfEquity:
		return true
	}
	return false
}

// MaterialityFormula describes how the base materiality threshold is computed.
// Percentage types apply Value as a percentage of the matching snapshot base;
// fixed uses Value directly. Optional bounds clamp the computed result.
type MaterialityFormula struct {
	Type         FormulaType `json:"type"`
	Value        float64     `json:"value"`
	MinThreshold *float64    `json:"min_threshold,omitempty"`
	MaxThreshold *float64    `json:"max_threshold,omitempty"`
}

// Validate checks formula invariants: known type, non-negative finite value,
// finite bounds with min ≤ max when both are set.
func (f MaterialityFormula) Validate() error {
	if !ValidFormulaType(f.Type) {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidFormula, f.Type)
	}
	if math.IsNaN(f.Value) || math.IsInf(f.Value, 0) {
		return fmt.Errorf("%w: value must be finite", ErrInvalidFormula)
	}
	if f.Value < 0 {
		return fmt.Errorf("%w: value %v is negative", ErrInvalidFormula, f.Value)
	}
	for name, bound := range map[string]*float64{"min_threshold": f.MinThreshold, "max_threshold": f.MaxThreshold} {
		if bound != nil && (math.IsNaN(*bound) || math.IsInf(*bound, 0)) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidFormula, name)
		}
	}
	if f.MinThreshold != nil && f.MaxThreshold != nil && *f.MinThreshold > *f.MaxThreshold {
		return fmt.Errorf("%w: min_threshold %v exceeds max_threshold %v",
			ErrInvalidFormula, *f.MinThreshold, *f.MaxThreshold)
	}
	return nil
}

// Display renders the formula deterministically for UI feedback,
// e.g. "2% of Revenue (min $1,000, max $50,000)" or "Fixed $500".
func (f MaterialityFormula) Display() string {
	var b strings.Builder
	switch f.Type {
	case FormulaFixed:
		b.WriteString("Fixed " + FormatAmount(f.Value))
	case FormulaPctOfRevenue:
		b.WriteString(formatPct(f.Value) + " of Revenue")
	case FormulaPctOfAssets:
		b.WriteString(formatPct(f.Value) + " of Total Assets")
	case FormulaPctOfEquity:
		b.WriteString(formatPct(f.Value) + " of Total Equity")
	default:
		b.WriteString(string(f.Type))
	}

	var bounds []string
	if f.MinThreshold != nil {
		bounds = append(bounds, "min "+FormatAmount(*f.MinThreshold))
	}
	if f.MaxThreshold != nil {
		bounds = append(bounds, "max "+FormatAmount(*f.MaxThreshold))
	}
	if len(bounds) > 0 {
		b.WriteString(" (" + strings.Join(bounds, ", ") + ")")
	}
	return b.String()
}

// FormatAmount renders a dollar amount with thousands separators, dropping
// the cents when the value is whole (e.g. "$1,000" or "$833.33").
func FormatAmount(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	whole := math.Floor(v)
	cents := math.Round((v - whole) * 100)
	if cents >= 100 {
		whole++
		cents = 0
	}

	digits := strconv.FormatFloat(whole, 'f', 0, 64)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	out := "$" + b.String()
	if cents > 0 {
		out += fmt.Sprintf(".%02d", int(cents))
	}
	if neg {
		out = "-" + out
	}
	return out
}

func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// FinancialSnapshot holds the financial bases percentage formulas draw from.
// Nil means the figure was not provided.
type FinancialSnapshot struct {
	Revenue     *float64 `json:"revenue,omitempty"`
	TotalAssets *float64 `json:"total_assets,omitempty"`
	TotalEquity *float64 `json:"total_equity,omitempty"`
}

// BaseFor returns the snapshot figure backing a percentage formula type.
// The second return is false when the figure is absent or non-finite.
// Fixed formulas have no base.
func (s FinancialSnapshot) BaseFor(t FormulaType) (float64, bool) {
	var v *float64
	switch t {
	case FormulaPctOfRevenue:
		v = s.Revenue
	case FormulaPctOfAssets:
		v = s.TotalAssets
	case FormulaPctOfEquity:
		v = s.TotalEquity
	default:
		return 0, false
	}
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, false
	}
	return *v, true
}

// AccountCategory classifies general-ledger accounts for weighted materiality
type AccountCategory string

const (
	CategoryAsset     AccountCategory = "asset"
	CategoryLiability AccountCategory = "liability"
	CategoryEquity    AccountCategory = "equity"
	CategoryRevenue   AccountCategory = "revenue"
	CategoryExpense   AccountCategory = "expense"
	CategoryUnknown   AccountCategory = "unknown"
)

// AccountCategories lists every category in a stable order
func AccountCategories() []AccountCategory {
	return []AccountCategory{
		CategoryAsset, CategoryLiability, CategoryEquity,
		CategoryRevenue, CategoryExpense, CategoryUnknown,
	}
}

// ValidAccountCategory reports whether c is a known category
func ValidAccountCategory(c AccountCategory) bool {
	switch c {
	case CategoryAsset, CategoryLiability, CategoryEquity,
		CategoryRevenue, CategoryExpense, CategoryUnknown:
		return true
	}
	return false
}

// IsBalanceSheet reports whether the category belongs to the balance-sheet
// statement group. Unclassified accounts are treated as balance-sheet.
func (c AccountCategory) IsBalanceSheet() bool {
	switch c {
	case CategoryAsset, CategoryLiability, CategoryEquity, CategoryUnknown:
		return true
	}
	return false
}

// WeightedMaterialityConfig adjusts the base threshold per account category.
// A higher weight denotes higher audit scrutiny, realized as a LOWER
// threshold: the weight divides the base rather than multiplying it.
type WeightedMaterialityConfig struct {
	AccountWeights        map[AccountCategory]float64 `json:"account_weights"`
	BalanceSheetWeight    float64                     `json:"balance_sheet_weight"`
	IncomeStatementWeight float64                     `json:"income_statement_weight"`
	Enabled               bool                        `json:"enabled"`
}

// Validate rejects non-positive or non-finite weights when weighting is
// enabled. A zero or negative weight would invert the scrutiny semantics,
// so it is never floored to an epsilon.
func (c WeightedMaterialityConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if !validWeight(c.BalanceSheetWeight) {
		return fmt.Errorf("%w: balance_sheet_weight %v", ErrInvalidWeight, c.BalanceSheetWeight)
	}
	if !validWeight(c.IncomeStatementWeight) {
		return fmt.Errorf("%w: income_statement_weight %v", ErrInvalidWeight, c.IncomeStatementWeight)
	}
	for _, cat := range AccountCategories() {
		if w := c.AccountWeights[cat]; !validWeight(w) {
			return fmt.Errorf("%w: account_weights[%s] = %v", ErrInvalidWeight, cat, w)
		}
	}
	return nil
}

func validWeight(w float64) bool {
	return w > 0 && !math.IsInf(w, 0) && !math.IsNaN(w)
}

// DefaultWeightedMaterialityConfig returns the standard weight table.
// Liability, equity and revenue accounts attract more scrutiny than 1.0;
// expense accounts less.
func DefaultWeightedMaterialityConfig() WeightedMaterialityConfig {
	return WeightedMaterialityConfig{
		AccountWeights: map[AccountCategory]float64{
			CategoryAsset:     1.0,
			CategoryLiability: 1.2,
			CategoryEquity:    1.15,
			CategoryRevenue:   1.1,
			CategoryExpense:   0.8,
			CategoryUnknown:   1.0,
		},
		BalanceSheetWeight:    1.0,
		IncomeStatementWeight: 0.9,
		Enabled:               false,
	}
}

// ScopeSource records which configuration scope determined the effective formula
type ScopeSource string

const (
	SourceSession  ScopeSource = "session"
	SourceClient   ScopeSource = "client"
	SourcePractice ScopeSource = "practice"
)

// ResolvedMateriality is the outcome of scope resolution: the effective
// formula, its rendering, and the scope that determined it. SessionOverride
// is set only when an ad-hoc session value superseded the formula.
type ResolvedMateriality struct {
	Formula         MaterialityFormula `json:"formula"`
	FormulaDisplay  string             `json:"formula_display"`
	SessionOverride *float64           `json:"session_override"`
	Source          ScopeSource        `json:"source"`
}
