package config

import (
	"strings"

	"github.com/agentpack/agentpack/internal/source"
)

// validateGlobal checks the global configuration before any mutation.
func validateGlobal(cfg *Global) error {
	var errs ValidationErrors

	if cfg.SourcePosition != source.PositionFirst && cfg.SourcePosition != source.PositionLast {
		errs.Errors = append(errs.Errors, ValidationError{
			Field:   "source_position",
			Message: "must be \"first\" or \"last\"",
			Value:   string(cfg.SourcePosition),
		})
	}
	validateSources(&errs, "sources", cfg.Sources)

	if len(errs.Errors) > 0 {
		return &errs
	}
	return nil
}

// validateProject checks the project configuration before any mutation.
func validateProject(cfg *Project) error {
	var errs ValidationErrors

	validateSources(&errs, "sources", cfg.Sources)

	for _, spec := range cfg.Profiles {
		if spec == "" || strings.HasPrefix(spec, ":") || strings.HasSuffix(spec, ":") {
			errs.Errors = append(errs.Errors, ValidationError{
				Field:   "profiles",
				Message: "malformed profile specifier",
				Value:   spec,
			})
		}
	}
	for _, target := range cfg.Targets {
		if target == "" || strings.ContainsAny(target, "/\\") {
			errs.Errors = append(errs.Errors, ValidationError{
				Field:   "targets",
				Message: "target must be a bare tool name",
				Value:   target,
			})
		}
	}

	if len(errs.Errors) > 0 {
		return &errs
	}
	return nil
}

func validateSources(errs *ValidationErrors, field string, descs []source.Descriptor) {
	for _, desc := range descs {
		if err := desc.Validate(); err != nil {
			errs.Errors = append(errs.Errors, ValidationError{
				Field:   field,
				Message: err.Error(),
				Value:   desc.Location,
			})
		}
	}
}
