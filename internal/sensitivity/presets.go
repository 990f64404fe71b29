package sensitivity

import (
	_ "embed"
	"fmt"

	yaml "gopkg.in/yaml.v3"

	"github.com/attestlabs/attest/internal/models"
)

//go:embed presets.yaml
var presetsYAML []byte

// Registry maps named presets to the partial configs they constrain,
// per testing battery, and classifies live configs against them.
type Registry struct {
	partials map[models.Battery]map[models.PresetName]Overrides
}

// NewRegistry loads the built-in preset tables
func NewRegistry() (*Registry, error) {
	return parseRegistry(presetsYAML)
}

// parseRegistry decodes and validates preset tables. Every entry must
// name a known battery, a named (non-custom) preset, and fields that
// exist on that battery's config with matching types.
func parseRegistry(data []byte) (*Registry, error) {
	var raw map[string]map[string]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse preset tables: %w", err)
	}

	r := &Registry{partials: make(map[models.Battery]map[models.PresetName]Overrides, len(raw))}
	for batteryKey, presets := range raw {
		battery := models.Battery(batteryKey)
		if !models.ValidBattery(battery) {
			return nil, fmt.Errorf("preset table references unknown battery %q", batteryKey)
		}

		defaults, err := defaultConfigFor(battery)
		if err != nil {
			return nil, err
		}
		known, err := fieldsOf(defaults)
		if err != nil {
			return nil, err
		}

		r.partials[battery] = make(map[models.PresetName]Overrides, len(presets))
		for presetKey, fields := range presets {
			name := models.PresetName(presetKey)
			if !namedPreset(name) {
				return nil, fmt.Errorf("battery %s: %q is not a named preset", battery, presetKey)
			}

			partial := make(Overrides, len(fields))
			for fieldName, value := range fields {
				fv, ok := known[fieldName]
				if !ok {
					return nil, fmt.Errorf("battery %s preset %s: unknown field %q", battery, name, fieldName)
				}
				if fv.isBool {
					b, ok := value.(bool)
					if !ok {
						return nil, fmt.Errorf("battery %s preset %s: field %q expects a bool", battery, name, fieldName)
					}
					partial[fieldName] = b
					continue
				}
				num, ok := coerceNumber(value)
				if !ok {
					return nil, fmt.Errorf("battery %s preset %s: field %q expects a number", battery, name, fieldName)
				}
				partial[fieldName] = num
			}
			r.partials[battery][name] = partial
		}
	}
	return r, nil
}

// Partial returns the partial config a named preset constrains for a
// battery. Custom carries no stored values, so it yields an empty partial.
func (r *Registry) Partial(battery models.Battery, name models.PresetName) (Overrides, error) {
	if name == models.PresetCustom {
		return nil, nil
	}
	presets, ok := r.partials[battery]
	if !ok {
		return nil, fmt.Errorf("%w: no preset table for battery %q", models.ErrUnknownPresetKey, battery)
	}
	partial, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: battery %s has no preset %q", models.ErrUnknownPresetKey, battery, name)
	}
	return partial, nil
}

// Classify derives the preset state of a live config purely from its
// current field values: the first named preset whose every constrained
// field matches wins, otherwise custom. Numbers compare with a small
// relative tolerance; bools compare exactly. A battery without a preset
// table classifies as custom rather than erroring, since "no exact match"
// is an expected outcome.
func (r *Registry) Classify(live any, battery models.Battery) models.PresetName {
	presets, ok := r.partials[battery]
	if !ok {
		return models.PresetCustom
	}
	fields, err := fieldsOf(live)
	if err != nil {
		return models.PresetCustom
	}

	for _, name := range models.NamedPresets() {
		if matches(fields, presets[name]) {
			return name
		}
	}
	return models.PresetCustom
}

// ApplyPreset merges a named preset's partial over a complete base config
func ApplyPreset[T any](r *Registry, battery models.Battery, name models.PresetName, base T) (T, error) {
	partial, err := r.Partial(battery, name)
	if err != nil {
		var zero T
		return zero, err
	}
	return Merge(base, partial)
}

// matches reports whether every field the partial defines agrees with the
// live config. Fields the partial omits are not discriminating.
func matches(fields map[string]fieldValue, partial Overrides) bool {
	if len(partial) == 0 {
		return false
	}
	for name, want := range partial {
		fv, ok := fields[name]
		if !ok {
			return false
		}
		switch w := want.(type) {
		case bool:
			if !fv.isBool || fv.b != w {
				return false
			}
		case float64:
			if fv.isBool || !numEqual(fv.num, w) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func namedPreset(name models.PresetName) bool {
	for _, p := range models.NamedPresets() {
		if p == name {
			return true
		}
	}
	return false
}
