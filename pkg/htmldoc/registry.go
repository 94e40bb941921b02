package htmldoc

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigRegistry holds per-form-type parser configuration: detection
// threshold overrides and the cross-validation toggle (§2 component
// table). It carries no per-form section patterns. Operators hand-edit config_overrides.yaml (§6 persisted
// state) rather than the large generated JSON mapping catalogs, the
// same split the teacher uses between tickers.json (generated,
// go:embed'd) and its plain-struct-literal server config.
type ConfigRegistry struct {
	base      *ParserConfig
	overrides map[string]formOverride
}

type formOverride struct {
	MinConfidence          *float64 `yaml:"min_confidence,omitempty"`
	CrossValidationBoost   *float64 `yaml:"cross_validation_boost,omitempty"`
	DisagreementPenalty    *float64 `yaml:"disagreement_penalty,omitempty"`
	BoundaryOverlapPenalty *float64 `yaml:"boundary_overlap_penalty,omitempty"`
	EnableCrossValidation  *bool    `yaml:"enable_cross_validation,omitempty"`
}

type overridesFile struct {
	Forms map[string]formOverride `yaml:"forms"`
}

// NewConfigRegistry builds a registry over base, with no per-form
// overrides loaded yet.
func NewConfigRegistry(base *ParserConfig) *ConfigRegistry {
	if base == nil {
		base = DefaultConfig()
	}
	return &ConfigRegistry{base: base, overrides: map[string]formOverride{}}
}

// LoadOverrides reads a config_overrides.yaml file from disk. A
// missing or malformed file returns a wrapped error and leaves the
// registry's existing overrides unchanged; nothing is logged.
func (r *ConfigRegistry) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config overrides: %w", err)
	}
	var f overridesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("config overrides: %w", err)
	}
	for form, o := range f.Forms {
		r.overrides[form] = o
	}
	return nil
}

// ConfigFor returns a ParserConfig for the given form, applying any
// loaded override on top of the registry's base config. The returned
// config is a copy; callers may further mutate it without affecting
// the registry.
func (r *ConfigRegistry) ConfigFor(form string) *ParserConfig {
	cfg := *r.base
	cfg.Form = form
	if o, ok := r.overrides[form]; ok {
		if o.MinConfidence != nil {
			cfg.DetectionThresholds.MinConfidence = *o.MinConfidence
		}
		if o.CrossValidationBoost != nil {
			cfg.DetectionThresholds.CrossValidationBoost = *o.CrossValidationBoost
		}
		if o.DisagreementPenalty != nil {
			cfg.DetectionThresholds.DisagreementPenalty = *o.DisagreementPenalty
		}
		if o.BoundaryOverlapPenalty != nil {
			cfg.DetectionThresholds.BoundaryOverlapPenalty = *o.BoundaryOverlapPenalty
		}
		if o.EnableCrossValidation != nil {
			cfg.DetectionThresholds.EnableCrossValidation = *o.EnableCrossValidation
		}
	}
	return &cfg
}
