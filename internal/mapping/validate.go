package mapping

import (
	"errors"
	"fmt"

	"automapper/internal/diagnostic"
)

var (
	ErrEmptyTarget     = errors.New("field rule has no target")
	ErrRuleConflict    = errors.New("field rule sets both source and resolver")
	ErrEmptyRule       = errors.New("field rule sets neither source nor resolver")
	ErrDuplicatePair   = errors.New("type pair mapped twice in one file")
	ErrConverterFields = errors.New("converter cannot be combined with member rules")
)

// Validate checks the structure of a mapping file and, when reg is not nil,
// that every name it uses is registered. Member names are checked later
// against the real types, when plans are compiled.
func Validate(mf *MappingFile, reg *Registry) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if mf == nil {
		res.AddError("mapping_is_nil", errors.New("mapping file is nil"), "", "")
		return res
	}

	seen := map[string]struct{}{}

	for i := range mf.TypeMappings {
		tm := &mf.TypeMappings[i]
		pair := tm.Pair()

		if _, dup := seen[pair]; dup {
			res.AddError("duplicate_pair", ErrDuplicatePair, pair, "")
		}
		seen[pair] = struct{}{}

		if reg != nil {
			if _, err := reg.Type(tm.Source); err != nil {
				res.AddError("source_type_not_found", err, pair, "")
			}

			if _, err := reg.Type(tm.Target); err != nil {
				res.AddError("target_type_not_found", err, pair, "")
			}
		}

		if tm.Converter != "" {
			if len(tm.Fields) > 0 || len(tm.OneToOne) > 0 {
				res.AddError("converter_with_fields", ErrConverterFields, pair, "")
			}

			if reg != nil && !reg.Has(tm.Converter) {
				res.AddError("converter_not_found", fmt.Errorf("%w: %q", ErrUnknownFunc, tm.Converter), pair, "")
			}
		}

		for source, target := range tm.OneToOne {
			validateFieldMapping(res, pair, reg, &FieldMapping{Target: target, Source: source})
		}

		for j := range tm.Fields {
			validateFieldMapping(res, pair, reg, &tm.Fields[j])
		}

		for _, ig := range tm.Ignore {
			if !isExportedIdent(ig) {
				res.AddError("invalid_ignore", fmt.Errorf("invalid ignore entry %q", ig), pair, ig)
			}
		}
	}

	return res
}

// validateFieldMapping validates a single field rule within a type mapping.
func validateFieldMapping(res *diagnostic.Diagnostics, pair string, reg *Registry, fm *FieldMapping) {
	switch {
	case fm.Target == "":
		res.AddError("empty_target", ErrEmptyTarget, pair, "")
		return
	case !isExportedIdent(fm.Target):
		res.AddError("invalid_target", fmt.Errorf("invalid target %q", fm.Target), pair, fm.Target)
		return
	case fm.Source != "" && fm.Resolver != "":
		res.AddError("rule_conflict", ErrRuleConflict, pair, fm.Target)
		return
	case fm.Source == "" && fm.Resolver == "":
		res.AddError("empty_rule", ErrEmptyRule, pair, fm.Target)
		return
	}

	if fm.Source != "" {
		if _, err := ParsePath(fm.Source); err != nil {
			res.AddError("invalid_source_path", err, pair, fm.Target)
		}
	}

	if fm.Resolver != "" && reg != nil && !reg.Has(fm.Resolver) {
		res.AddError("resolver_not_found", fmt.Errorf("%w: %q", ErrUnknownFunc, fm.Resolver), pair, fm.Target)
	}
}
