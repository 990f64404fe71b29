// Package sensitivity provides the shared machinery behind per-battery
// testing configs: field-level merging, preset classification, and
// validated overrides. Battery configs are flat structs of float64
// thresholds and bool toggles; everything here works off their json tags
// so the four batteries share one implementation.
package sensitivity

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/attestlabs/attest/internal/models"
)

// Overrides is a partial battery config keyed by JSON field name.
// Values are float64 or bool.
type Overrides map[string]any

// relTolerance guards numeric preset comparison against floating-point
// false negatives.
const relTolerance = 1e-9

// fieldValue is one flat-config field: a numeric threshold or a toggle
type fieldValue struct {
	isBool bool
	num    float64
	b      bool
}

// fieldsOf flattens a battery config struct into json-name → value
func fieldsOf(cfg any) (map[string]fieldValue, error) {
	v := reflect.ValueOf(cfg)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("config must be a struct, got %T", cfg)
	}

	out := make(map[string]fieldValue, v.NumField())
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name := jsonName(t.Field(i))
		if name == "" {
			continue
		}
		switch t.Field(i).Type.Kind() {
		case reflect.Float64:
			out[name] = fieldValue{num: v.Field(i).Float()}
		case reflect.Bool:
			out[name] = fieldValue{isBool: true, b: v.Field(i).Bool()}
		default:
			return nil, fmt.Errorf("field %s: unsupported kind %s", name, t.Field(i).Type.Kind())
		}
	}
	return out, nil
}

// applyOverrides writes override values onto cfg, which must be a pointer
// to a battery config struct. Unknown fields, type mismatches, and
// non-finite numbers are rejected.
func applyOverrides(cfg any, overrides Overrides) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config must be a struct pointer, got %T", cfg)
	}
	v = v.Elem()
	t := v.Type()

	byName := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if name := jsonName(t.Field(i)); name != "" {
			byName[name] = i
		}
	}

	for name, value := range overrides {
		idx, ok := byName[name]
		if !ok {
			return fmt.Errorf("unknown field %q for %s", name, t.Name())
		}
		field := v.Field(idx)
		switch field.Kind() {
		case reflect.Float64:
			num, ok := coerceNumber(value)
			if !ok {
				return fmt.Errorf("field %q expects a number, got %T", name, value)
			}
			if math.IsNaN(num) || math.IsInf(num, 0) {
				return fmt.Errorf("field %q must be finite, got %v", name, num)
			}
			field.SetFloat(num)
		case reflect.Bool:
			b, ok := value.(bool)
			if !ok {
				return fmt.Errorf("field %q expects a bool, got %T", name, value)
			}
			field.SetBool(b)
		}
	}
	return nil
}

// coerceNumber accepts the numeric types JSON and YAML decoders produce
func coerceNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// numEqual compares numeric fields with a small relative tolerance
func numEqual(a, b float64) bool {
	if a == b {
		return true
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	return math.Abs(a-b) <= relTolerance*scale
}

func jsonName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" || tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	return name
}

// defaultConfigFor returns the complete default config for a battery
func defaultConfigFor(battery models.Battery) (any, error) {
	switch battery {
	case models.BatteryJournalEntry:
		return models.DefaultJETestingConfig(), nil
	case models.BatteryAPPayment:
		return models.DefaultAPTestingConfig(), nil
	case models.BatteryPayroll:
		return models.DefaultPayrollTestingConfig(), nil
	case models.BatteryThreeWayMatch:
		return models.DefaultThreeWayMatchConfig(), nil
	}
	return nil, fmt.Errorf("unknown battery %q", battery)
}
