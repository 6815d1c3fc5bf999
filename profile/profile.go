// Package profile declares how source types map onto destination types.
//
// A Profile groups type maps declared with CreateMap, CreateMapFor or loaded
// from a YAML file. Profiles are merged into a Configuration, which a mapper
// reads once it is sealed.
package profile

import (
	"errors"
	"fmt"
)

var (
	ErrNilProfile       = errors.New("profile is nil")
	ErrNilConverter     = errors.New("converter function is nil")
	ErrNilResolver      = errors.New("resolver function is nil")
	ErrRuleConflict     = errors.New("member rule sets both a source path and a resolver")
	ErrEmptyRule        = errors.New("member rule sets neither a source path nor a resolver")
	ErrEmptyMember      = errors.New("member name is empty")
	ErrSealed           = errors.New("configuration is sealed")
	ErrInvalidResolver  = errors.New("resolver does not accept the source type")
	ErrInvalidConverter = errors.New("converter does not match the type pair")
)

// Profile is a named group of type maps. Builder errors are collected on the
// profile and reported when it is added to a Configuration.
type Profile struct {
	name string
	maps []*TypeMap
	errs []error
}

func NewProfile(name string) *Profile {
	return &Profile{name: name}
}

func (p *Profile) Name() string { return p.name }

// TypeMaps returns the declared type maps in declaration order.
func (p *Profile) TypeMaps() []*TypeMap {
	out := make([]*TypeMap, len(p.maps))
	copy(out, p.maps)

	return out
}

// Err returns the joined builder errors, or nil.
func (p *Profile) Err() error {
	return errors.Join(p.errs...)
}

func (p *Profile) fail(tm *TypeMap, member string, err error) {
	if member != "" {
		err = fmt.Errorf("profile %q: %s: member %s: %w", p.name, tm.pair, member, err)
	} else {
		err = fmt.Errorf("profile %q: %s: %w", p.name, tm.pair, err)
	}

	p.errs = append(p.errs, err)
}

// typeMap returns the map already declared for the pair of tm, or registers tm.
// Declaring the same pair twice in one profile keeps adding to one map.
func (p *Profile) typeMap(tm *TypeMap) *TypeMap {
	for _, existing := range p.maps {
		if existing.pair == tm.pair {
			return existing
		}
	}

	p.maps = append(p.maps, tm)

	return tm
}
