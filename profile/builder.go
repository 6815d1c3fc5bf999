package profile

import (
	"fmt"
	"reflect"

	"automapper/internal/mapping"
	"automapper/node"
)

// MemberOptions collects the rule of one destination member inside ForMember.
type MemberOptions[S any] struct {
	path     string
	resolver any
	resolved bool
	ignore   bool
}

// MapFrom reads the member from a dotted source path, e.g. "Address.City".
func (o *MemberOptions[S]) MapFrom(path string) {
	o.path = path
}

// ResolveUsing computes the member with fn. Accepted shapes are func(S) M,
// func(*S) M and the same with trailing bool and/or error results.
func (o *MemberOptions[S]) ResolveUsing(fn any) {
	o.resolver = fn
	o.resolved = true
}

// Ignore leaves the member untouched.
func (o *MemberOptions[S]) Ignore() {
	o.ignore = true
}

// MapBuilder declares the type map of S to D.
type MapBuilder[S, D any] struct {
	b *builder
}

// CreateMap declares a type map from S to D on the profile. Pointer types are
// stripped, so CreateMap[*User, UserDTO] and CreateMap[User, UserDTO] declare
// the same map.
func CreateMap[S, D any](p *Profile) *MapBuilder[S, D] {
	return &MapBuilder[S, D]{b: newBuilder(p, reflect.TypeFor[S](), reflect.TypeFor[D]())}
}

func (m *MapBuilder[S, D]) ForMember(name string, configure func(*MemberOptions[S])) *MapBuilder[S, D] {
	if configure == nil {
		m.b.fail(name, ErrEmptyRule)
		return m
	}

	var o MemberOptions[S]
	configure(&o)
	m.b.member(name, o.path, o.resolver, o.resolved, o.ignore)

	return m
}

func (m *MapBuilder[S, D]) Ignore(names ...string) *MapBuilder[S, D] {
	m.b.ignore(names)
	return m
}

// ConvertUsing replaces member by member mapping with fn.
func (m *MapBuilder[S, D]) ConvertUsing(fn func(S) D) *MapBuilder[S, D] {
	if fn == nil {
		m.b.fail("", ErrNilConverter)
		return m
	}

	m.b.converter(fn)

	return m
}

// ConvertUsingFunc is ConvertUsing for converters taking *S, returning *D or
// reporting failures through bool and error results.
func (m *MapBuilder[S, D]) ConvertUsingFunc(fn any) *MapBuilder[S, D] {
	m.b.converter(fn)
	return m
}

// Builder declares a type map between types known only at runtime.
type Builder struct {
	b *builder
}

func CreateMapFor(p *Profile, src, dst reflect.Type) *Builder {
	return &Builder{b: newBuilder(p, src, dst)}
}

func (m *Builder) ForMember(name string, configure func(*MemberOptions[any])) *Builder {
	if configure == nil {
		m.b.fail(name, ErrEmptyRule)
		return m
	}

	var o MemberOptions[any]
	configure(&o)
	m.b.member(name, o.path, o.resolver, o.resolved, o.ignore)

	return m
}

func (m *Builder) Ignore(names ...string) *Builder {
	m.b.ignore(names)
	return m
}

func (m *Builder) ConvertUsing(fn any) *Builder {
	m.b.converter(fn)
	return m
}

type builder struct {
	p  *Profile
	tm *TypeMap
}

func newBuilder(p *Profile, src, dst reflect.Type) *builder {
	b := &builder{p: p, tm: newTypeMap(src, dst, p.name)}
	if src == nil || dst == nil {
		b.fail("", fmt.Errorf("type pair %s is incomplete", b.tm.pair))
		return b
	}

	b.tm = p.typeMap(b.tm)

	return b
}

func (b *builder) fail(member string, err error) {
	b.p.fail(b.tm, member, err)
}

func (b *builder) member(name, path string, resolver any, resolved, ignore bool) {
	if name == "" {
		b.fail(name, ErrEmptyMember)
		return
	}

	switch {
	case ignore && (path != "" || resolved):
		b.fail(name, fmt.Errorf("%w: ignored member also has a rule", ErrRuleConflict))
	case ignore:
		b.tm.ignore(name)
	case path != "" && resolved:
		b.fail(name, ErrRuleConflict)
	case resolved:
		b.resolver(name, resolver)
	case path != "":
		if _, err := mapping.ParsePath(path); err != nil {
			b.fail(name, err)
			return
		}
		b.tm.setRule(name, MemberRule{Path: path})
	default:
		b.fail(name, ErrEmptyRule)
	}
}

func (b *builder) resolver(name string, fn any) {
	if isNilFunc(fn) {
		b.fail(name, ErrNilResolver)
		return
	}

	caster, err := node.ParseCaster(fn)
	if err != nil {
		b.fail(name, fmt.Errorf("%w: %w", ErrInvalidResolver, err))
		return
	}

	if !acceptsSource(caster, b.tm.pair.Src) {
		b.fail(name, fmt.Errorf("%w: %s", ErrInvalidResolver, caster))
		return
	}

	b.tm.setRule(name, MemberRule{Resolver: &caster})
}

func (b *builder) ignore(names []string) {
	for _, name := range names {
		if name == "" {
			b.fail(name, ErrEmptyMember)
			continue
		}
		b.tm.ignore(name)
	}
}

func (b *builder) converter(fn any) {
	if isNilFunc(fn) {
		b.fail("", ErrNilConverter)
		return
	}

	caster, err := node.ParseCaster(fn)
	if err != nil {
		b.fail("", fmt.Errorf("%w: %w", ErrInvalidConverter, err))
		return
	}

	dst := b.tm.pair.Dst
	if !acceptsSource(caster, b.tm.pair.Src) || (caster.Dst != dst && caster.Dst != reflect.PointerTo(dst)) {
		b.fail("", fmt.Errorf("%w: %s", ErrInvalidConverter, caster))
		return
	}

	b.tm.converter = &caster
}

// acceptsSource reports whether the caster takes src by value or by pointer.
func acceptsSource(c node.Caster, src reflect.Type) bool {
	return c.Accepts(src) || c.Accepts(reflect.PointerTo(src))
}

func isNilFunc(fn any) bool {
	if fn == nil {
		return true
	}

	v := reflect.ValueOf(fn)

	return v.Kind() == reflect.Func && v.IsNil()
}
