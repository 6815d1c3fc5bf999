package plan

import (
	"fmt"
	"reflect"

	"automapper/internal/diagnostic"
	"automapper/internal/mapping"
	"automapper/internal/match"
	"automapper/node"
	"automapper/options"
	"automapper/profile"
)

// Build compiles the plan of a type pair. tm may be nil, in which case
// conventions alone apply. Configuration errors are returned joined; the
// other findings are kept in Plan.Diagnostics.
func Build(pair node.TypePair, tm *profile.TypeMap, opts options.Options) (*Plan, error) {
	pair = node.PairOf(pair.Src, pair.Dst)
	if pair.Src == nil || pair.Dst == nil {
		return nil, fmt.Errorf("%s: %w", pair, ErrNotStruct)
	}

	p := &Plan{Pair: pair}

	if tm != nil && tm.Converter() != nil {
		p.Converter = tm.Converter()
		p.converterByPtr = !p.Converter.Accepts(pair.Src)
		p.shadowedRules(tm)

		return p, nil
	}

	e := newEngine(opts)

	if !node.IsNestedObject(pair.Src, pair.Dst) {
		if tm != nil {
			return nil, fmt.Errorf("%s: member rules need struct types: %w", pair, ErrNotStruct)
		}

		// whole value conversion, e.g. []User -> []UserDTO
		p.root, p.rootStrategy = e.converter(pair.Src, pair.Dst)
		if p.rootStrategy == StrategyMiss {
			p.Diagnostics.AddWarning(diagnostic.CodeConversionMiss, "no conversion exists", pair.String(), "")
		}
		p.Needs = e.needs

		return p, nil
	}

	b := &builder{plan: p, tm: tm, opts: opts, engine: e}
	b.build()
	p.Needs = e.needs

	if err := p.Diagnostics.Error(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Plan) shadowedRules(tm *profile.TypeMap) {
	for _, member := range tm.Rules() {
		p.Diagnostics.AddWarning(diagnostic.CodeShadowedRule, "member rule is unused, a converter is set", p.Pair.String(), member)
	}

	for _, member := range tm.Ignored() {
		p.Diagnostics.AddWarning(diagnostic.CodeShadowedRule, "ignore is unused, a converter is set", p.Pair.String(), member)
	}
}

type builder struct {
	plan   *Plan
	tm     *profile.TypeMap
	opts   options.Options
	engine *engine

	readable []node.Member
	writable []node.Member
}

func (b *builder) pairName() string { return b.plan.Pair.String() }

func (b *builder) fail(code string, err error, member string) {
	b.plan.Diagnostics.AddError(code, err, b.pairName(), member)
}

func (b *builder) build() {
	var err error

	b.readable, err = node.ReadableMembers(b.plan.Pair.Src)
	if err != nil {
		b.fail(diagnostic.CodeBadTag, err, "")
		return
	}

	b.writable, err = node.WritableMembers(b.plan.Pair.Dst)
	if err != nil {
		b.fail(diagnostic.CodeBadTag, err, "")
		return
	}

	b.checkConfiguredMembers()

	for _, w := range b.writable {
		b.member(w)
	}
}

// checkConfiguredMembers rejects rules and ignores naming no writable member.
func (b *builder) checkConfiguredMembers() {
	if b.tm == nil {
		return
	}

	names := make([]string, 0, len(b.writable))
	for _, w := range b.writable {
		names = append(names, w.Name)
	}

	check := func(member string) {
		if _, ok := node.FindMember(b.writable, member); ok {
			return
		}

		err := fmt.Errorf("%w: %s", ErrUnknownMember, member)
		if similar := match.Suggest(member, names); len(similar) > 0 {
			err = fmt.Errorf("%w (similar: %v)", err, similar)
		}
		b.fail(diagnostic.CodeUnknownMember, err, member)
	}

	for _, member := range b.tm.Rules() {
		check(member)
	}

	for _, member := range b.tm.Ignored() {
		check(member)
	}
}

func (b *builder) member(w node.Member) {
	var (
		rule    profile.MemberRule
		hasRule bool
	)

	if b.tm != nil {
		rule, hasRule = b.tm.Rule(w.Name)
	}

	if w.Tag.Ignore || (b.tm != nil && b.tm.IsIgnored(w.Name)) {
		if hasRule {
			b.plan.Diagnostics.AddWarning(diagnostic.CodeShadowedRule, "member rule is unused, the member is ignored", b.pairName(), w.Name)
		}
		b.skip(w.Name, MappingSourceIgnored)
		return
	}

	switch {
	case hasRule && rule.IsResolver():
		b.resolverStep(w, rule.Resolver)
	case hasRule:
		b.pathStep(w, rule.Path)
	default:
		b.conventionStep(w)
	}
}

func (b *builder) skip(member string, source MappingSource) {
	b.plan.Skipped = append(b.plan.Skipped, Skipped{Member: member, Source: source})
}

func (b *builder) addStep(w node.Member, source MappingSource, from string, srcType reflect.Type, read func(reflect.Value) (reflect.Value, bool, error)) {
	conv, strategy := b.engine.converter(srcType, w.Type)
	if strategy == StrategyMiss {
		msg := fmt.Sprintf("%s cannot be converted to %s, the member gets its zero value", node.TypeID(srcType), node.TypeID(w.Type))
		b.plan.Diagnostics.AddWarning(diagnostic.CodeConversionMiss, msg, b.pairName(), w.Name)
	}

	b.plan.Steps = append(b.plan.Steps, Step{
		Member:   w.Name,
		Source:   source,
		From:     from,
		Strategy: strategy,
		SrcType:  srcType,
		index:    w.Index,
		read:     read,
		convert:  conv,
	})
}

func (b *builder) pathStep(w node.Member, path string) {
	fp, err := mapping.ParsePath(path)
	if err != nil {
		b.fail(diagnostic.CodeUnknownSourcePath, fmt.Errorf("%w: %w", ErrUnknownSourcePath, err), w.Name)
		return
	}

	chain, srcType, err := resolvePath(b.plan.Pair.Src, fp)
	if err != nil {
		b.fail(diagnostic.CodeUnknownSourcePath, err, w.Name)
		return
	}

	b.addStep(w, MappingSourcePath, fp.String(), srcType, readChain(chain))
}

func (b *builder) resolverStep(w node.Member, caster *node.Caster) {
	src := b.plan.Pair.Src

	var byPtr bool
	switch {
	case caster.Accepts(src):
	case caster.Accepts(reflect.PointerTo(src)):
		byPtr = true
	default:
		b.fail(diagnostic.CodeBadResolver, fmt.Errorf("%w: %s", profile.ErrInvalidResolver, caster), w.Name)
		return
	}

	read := func(v reflect.Value) (reflect.Value, bool, error) {
		if byPtr {
			v = addressable(v).Addr()
		}

		out, ok, err := caster.Call(v)
		if err != nil {
			return reflect.Value{}, false, fmt.Errorf("resolver %s: %w", caster.Name, err)
		}

		return out, ok, nil
	}

	b.addStep(w, MappingSourceResolver, caster.Name, caster.Dst, read)
}

func (b *builder) conventionStep(w node.Member) {
	if m, source, ok := b.conventionSource(w); ok {
		b.addStep(w, source, m.Name, m.Type, readChain([]node.Member{m}))
		return
	}

	names := make([]string, 0, len(b.readable))
	for _, m := range b.readable {
		if !m.Tag.Ignore {
			names = append(names, m.Name)
		}
	}

	b.plan.Diagnostics.AddInfo(diagnostic.CodeUnmapped, "no source member matches", b.pairName(), w.Name, match.Suggest(w.Name, names)...)
	b.skip(w.Name, MappingSourceUnmapped)
}

// conventionSource finds the source member of w: destination rename, same
// name, source rename, then normalized name when enabled.
func (b *builder) conventionSource(w node.Member) (node.Member, MappingSource, bool) {
	visible := func(m node.Member) bool { return !m.Tag.Ignore }

	if from := w.Tag.From; from != "" {
		if m, ok := node.FindMember(b.readable, from); ok && visible(m) {
			return m, MappingSourceRenameFrom, true
		}

		b.plan.Diagnostics.AddWarning(diagnostic.CodeUnknownMember, fmt.Sprintf("from=%s names no readable source member", from), b.pairName(), w.Name)
	}

	if m, ok := node.FindMember(b.readable, w.Name); ok && visible(m) {
		return m, MappingSourceSameName, true
	}

	if m, ok := b.unique(w, MappingSourceRenameTo, func(m node.Member) bool {
		return visible(m) && m.Tag.To == w.Name
	}); ok {
		return m, MappingSourceRenameTo, true
	}

	if b.opts.NormalizeNames {
		target := match.NormalizeIdent(w.Name)
		if m, ok := b.unique(w, MappingSourceNormalized, func(m node.Member) bool {
			return visible(m) && match.NormalizeIdent(m.Name) == target
		}); ok {
			return m, MappingSourceNormalized, true
		}
	}

	return node.Member{}, 0, false
}

// unique returns the first readable member matching the predicate and warns
// when more than one does.
func (b *builder) unique(w node.Member, source MappingSource, pred func(node.Member) bool) (node.Member, bool) {
	var found []node.Member
	for _, m := range b.readable {
		if pred(m) {
			found = append(found, m)
		}
	}

	if len(found) == 0 {
		return node.Member{}, false
	}

	if len(found) > 1 {
		names := make([]string, len(found))
		for i, m := range found {
			names[i] = m.Name
		}
		msg := fmt.Sprintf("%d source members match by %s %v, using %s", len(found), source, names, found[0].Name)
		b.plan.Diagnostics.AddWarning(diagnostic.CodeAmbiguous, msg, b.pairName(), w.Name)
	}

	return found[0], true
}

// resolvePath walks a dotted path through the source type, dereferencing
// pointers on the way, and returns the member chain and the final type.
func resolvePath(src reflect.Type, fp mapping.FieldPath) ([]node.Member, reflect.Type, error) {
	chain := make([]node.Member, 0, len(fp.Segments))
	cur := src

	for i, segment := range fp.Segments {
		_, base := node.PtrDepthAndBase(cur)
		if base.Kind() != reflect.Struct {
			return nil, nil, fmt.Errorf("%w: %s: %s is not a struct", ErrUnknownSourcePath, fp, node.TypeID(cur))
		}

		members, err := node.ReadableMembers(base)
		if err != nil {
			return nil, nil, err
		}

		m, ok := node.FindMember(members, segment)
		if !ok {
			err := fmt.Errorf("%w: %s: %s has no member %s", ErrUnknownSourcePath, fp, node.TypeID(base), segment)
			if i == 0 {
				names := make([]string, len(members))
				for j, m := range members {
					names[j] = m.Name
				}
				if similar := match.Suggest(segment, names); len(similar) > 0 {
					err = fmt.Errorf("%w (similar: %v)", err, similar)
				}
			}
			return nil, nil, err
		}

		chain = append(chain, m)
		cur = m.Type
	}

	return chain, cur, nil
}

// readChain reads a member chain. A nil pointer on the way skips the member.
func readChain(chain []node.Member) func(reflect.Value) (reflect.Value, bool, error) {
	return func(v reflect.Value) (reflect.Value, bool, error) {
		for _, m := range chain {
			for v.Kind() == reflect.Ptr {
				if v.IsNil() {
					return reflect.Value{}, false, nil
				}
				v = v.Elem()
			}

			var ok bool
			if v, ok = m.Read(v); !ok {
				return reflect.Value{}, false, nil
			}
		}

		return v, true, nil
	}
}

// addressable returns v or an addressable copy of it.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v
	}

	cp := reflect.New(v.Type()).Elem()
	cp.Set(v)

	return cp
}
