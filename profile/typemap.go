package profile

import (
	"maps"
	"reflect"
	"slices"

	"automapper/node"
)

// MemberRule populates one destination member either from a dotted source
// path or from a resolver function. Exactly one of the two is set.
type MemberRule struct {
	Path     string
	Resolver *node.Caster
}

func (r MemberRule) IsResolver() bool { return r.Resolver != nil }

func (r MemberRule) String() string {
	if r.Resolver != nil {
		return "resolver " + r.Resolver.Name
	}

	return "path " + r.Path
}

// TypeMap is the configured mapping of one type pair.
type TypeMap struct {
	pair      node.TypePair
	profile   string
	rules     map[string]MemberRule
	ignored   map[string]struct{}
	converter *node.Caster
}

func newTypeMap(src, dst reflect.Type, profile string) *TypeMap {
	return &TypeMap{
		pair:    node.PairOf(src, dst),
		profile: profile,
		rules:   make(map[string]MemberRule),
		ignored: make(map[string]struct{}),
	}
}

func (tm *TypeMap) Pair() node.TypePair { return tm.pair }

// Profile returns the name of the profile that declared the map.
func (tm *TypeMap) Profile() string { return tm.profile }

func (tm *TypeMap) Rule(member string) (MemberRule, bool) {
	r, ok := tm.rules[member]
	return r, ok
}

// Rules returns the names of the members with an explicit rule, sorted.
func (tm *TypeMap) Rules() []string {
	return slices.Sorted(maps.Keys(tm.rules))
}

func (tm *TypeMap) IsIgnored(member string) bool {
	_, ok := tm.ignored[member]
	return ok
}

// Ignored returns the ignored member names, sorted.
func (tm *TypeMap) Ignored() []string {
	return slices.Sorted(maps.Keys(tm.ignored))
}

// Converter returns the whole object converter, if any.
func (tm *TypeMap) Converter() *node.Caster { return tm.converter }

// setRule and ignore keep each other's entries: when a member is both ruled
// and ignored, ignore wins at plan build and the rule is reported as shadowed.
func (tm *TypeMap) setRule(member string, rule MemberRule) {
	tm.rules[member] = rule
}

func (tm *TypeMap) ignore(member string) {
	tm.ignored[member] = struct{}{}
}

func (tm *TypeMap) clone() *TypeMap {
	return &TypeMap{
		pair:      tm.pair,
		profile:   tm.profile,
		rules:     maps.Clone(tm.rules),
		ignored:   maps.Clone(tm.ignored),
		converter: tm.converter,
	}
}
