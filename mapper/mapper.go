// Package mapper copies values between structurally similar types using
// compiled, cached plans.
//
//	p := profile.NewProfile("users")
//	profile.CreateMap[User, UserDTO](p).
//		ForMember("FullName", func(o *profile.MemberOptions[User]) {
//			o.ResolveUsing(func(u User) string { return u.FirstName + " " + u.LastName })
//		})
//
//	cfg, err := profile.NewConfiguration(p)
//	...
//	m := mapper.New(cfg)
//	dto, err := mapper.Map[UserDTO](m, user)
package mapper

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"automapper/internal/plan"
	"automapper/node"
	"automapper/options"
	"automapper/profile"
)

var ErrNilDestination = errors.New("destination is nil")

// Mapper maps values by type pair. It is safe for concurrent use.
type Mapper struct {
	cfg  *profile.Configuration
	opts options.Options
	log  *zap.Logger

	plans sync.Map // node.TypePair -> *plan.Plan
	group singleflight.Group
}

// New creates a mapper reading cfg, which gets sealed. A nil cfg maps by
// conventions only.
func New(cfg *profile.Configuration, opts ...options.Option) *Mapper {
	if cfg == nil {
		cfg, _ = profile.NewConfiguration()
	}

	cfg.Seal()

	o := options.Apply(opts...)

	return &Mapper{
		cfg:  cfg,
		opts: o,
		log:  o.Logger.Named("mapper"),
	}
}

// Map maps src into a new D. A nil pointer source yields the zero D.
func Map[D, S any](m *Mapper, src S) (D, error) {
	var dst D
	err := m.mapValue(reflect.ValueOf(&src).Elem(), reflect.ValueOf(&dst).Elem())

	return dst, err
}

// MapInto maps src onto an existing destination. Members without a source
// keep their values; a nil source leaves dst unchanged.
func MapInto[S, D any](m *Mapper, src S, dst *D) error {
	if dst == nil {
		return ErrNilDestination
	}

	return m.mapValue(reflect.ValueOf(&src).Elem(), reflect.ValueOf(dst).Elem())
}

// MapEach maps every element of src, keeping order. The first failing
// element fails the batch.
func MapEach[D, S any](m *Mapper, src []S) ([]D, error) {
	if src == nil {
		return nil, nil
	}

	out := make([]D, len(src))
	for i := range src {
		if err := m.mapValue(reflect.ValueOf(&src[i]).Elem(), reflect.ValueOf(&out[i]).Elem()); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}

	return out, nil
}

// MapValue maps src onto the value dst points to, with types known only at
// runtime.
func (m *Mapper) MapValue(src, dst any) error {
	dv := reflect.ValueOf(dst)
	if !dv.IsValid() || dv.Kind() != reflect.Ptr || dv.IsNil() {
		return ErrNilDestination
	}

	sv := reflect.ValueOf(src)
	if !sv.IsValid() {
		return nil
	}

	cp := reflect.New(sv.Type()).Elem()
	cp.Set(sv)

	return m.mapValue(cp, dv.Elem())
}

func (m *Mapper) mapValue(src, dst reflect.Value) error {
	for src.Kind() == reflect.Ptr || src.Kind() == reflect.Interface {
		if src.IsNil() {
			return nil
		}
		src = src.Elem()
	}

	for dst.Kind() == reflect.Ptr {
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		dst = dst.Elem()
	}

	s := newSession(m)
	_, err := s.mapInto(src, dst)

	return err
}

// plan returns the compiled plan of the pair, compiling it and its nested
// pairs on first use.
func (m *Mapper) plan(pair node.TypePair) (*plan.Plan, error) {
	if p, ok := m.plans.Load(pair); ok {
		return p.(*plan.Plan), nil
	}

	v, err, _ := m.group.Do(pair.String(), func() (any, error) {
		if p, ok := m.plans.Load(pair); ok {
			return p, nil
		}

		return m.compile(pair)
	})
	if err != nil {
		return nil, err
	}

	// distinct types may share a name, e.g. types declared in functions
	if p := v.(*plan.Plan); p.Pair == pair {
		return p, nil
	}

	return m.compile(pair)
}

// compile builds the plan of pair and of every pair it transitively needs.
// Nothing is published unless all of them compile.
func (m *Mapper) compile(pair node.TypePair) (*plan.Plan, error) {
	root, err := m.build(pair)
	if err != nil {
		return nil, err
	}

	built := []*plan.Plan{root}

	var dealer node.Dealer
	dealer.Done(pair.Src, pair.Dst)
	for _, need := range root.Needs {
		dealer.Needs(need.Src, need.Dst)
	}

	var errs []error
	for src, dst, ok := dealer.NextNeeds(); ok; src, dst, ok = dealer.NextNeeds() {
		need := node.TypePair{Src: src, Dst: dst}
		if _, ok := m.plans.Load(need); ok {
			continue
		}

		p, err := m.build(need)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		built = append(built, p)
		for _, n := range p.Needs {
			dealer.Needs(n.Src, n.Dst)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("%s: nested mapping: %w", pair, err)
	}

	for _, p := range built[1:] {
		m.plans.LoadOrStore(p.Pair, p)
	}

	actual, _ := m.plans.LoadOrStore(pair, root)

	return actual.(*plan.Plan), nil
}

func (m *Mapper) build(pair node.TypePair) (*plan.Plan, error) {
	tm, _ := m.cfg.Lookup(pair)
	start := time.Now()

	p, err := plan.Build(pair, tm, m.opts)
	if err != nil {
		m.log.Debug("plan compilation failed", zap.Stringer("pair", pair), zap.Error(err))
		return nil, err
	}

	m.log.Debug("plan compiled",
		zap.Stringer("pair", pair),
		zap.Int("steps", len(p.Steps)),
		zap.Int("skipped", len(p.Skipped)),
		zap.Bool("converter", p.Converter != nil),
		zap.Duration("elapsed", time.Since(start)),
	)

	for _, w := range p.Diagnostics.Warnings {
		m.log.Warn(w.Message, zap.String("code", w.Code), zap.String("pair", w.TypePair), zap.String("member", w.Member))
	}

	for _, i := range p.Diagnostics.Infos {
		m.log.Debug(i.Message, zap.String("code", i.Code), zap.String("pair", i.TypePair), zap.String("member", i.Member), zap.Strings("similar", i.Suggestions))
	}

	return p, nil
}

// Validate compiles every configured pair and the pairs they need, and
// returns all configuration errors joined.
func (m *Mapper) Validate() error {
	var errs []error
	for _, pair := range m.cfg.Pairs() {
		if _, err := m.plan(pair); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
