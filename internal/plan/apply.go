package plan

import (
	"fmt"
	"reflect"

	"automapper/options"
)

// Apply runs the plan: src is a value of Pair.Src, dst a settable value of
// Pair.Dst. Conversion misses and cycles never fail the call; errors come from
// user functions only and carry the member path.
func (p *Plan) Apply(src, dst reflect.Value, r Runner) error {
	if p.Converter != nil {
		return p.applyConverter(src, dst)
	}

	if p.root != nil {
		return p.applyRoot(src, dst, r)
	}

	pair := p.Pair.String()

	for i := range p.Steps {
		s := &p.Steps[i]

		v, ok, err := s.read(src)
		if err != nil {
			return fmt.Errorf("%s: %w", s.Member, err)
		}

		// unreadable source, e.g. a nil pointer on an explicit path
		if !ok {
			continue
		}

		out, ok, err := s.convert(v, stepRunner{Runner: r, pair: pair, member: s.Member})
		if err != nil {
			return fmt.Errorf("%s: %w", s.Member, err)
		}

		field := dst.FieldByIndex(s.index)
		if !ok {
			field.SetZero()
			continue
		}

		field.Set(out)
	}

	return nil
}

func (p *Plan) applyRoot(src, dst reflect.Value, r Runner) error {
	out, ok, err := p.root(src, stepRunner{Runner: r, pair: p.Pair.String()})
	if err != nil {
		return err
	}

	if !ok {
		dst.SetZero()
		return nil
	}

	dst.Set(out)

	return nil
}

// applyConverter copies the exported members of the converter result onto
// dst, empty values included; unexported members of dst are kept. A converter
// reporting no value leaves dst unchanged.
func (p *Plan) applyConverter(src, dst reflect.Value) error {
	if p.converterByPtr {
		src = addressable(src).Addr()
	}

	out, ok, err := p.Converter.Call(src)
	if err != nil {
		return fmt.Errorf("converter %s: %w", p.Converter.Name, err)
	}

	if !ok {
		return nil
	}

	if out.Kind() == reflect.Ptr {
		if out.IsNil() {
			return nil
		}
		out = out.Elem()
	}

	if dst.Kind() != reflect.Struct {
		dst.Set(out)
		return nil
	}

	t := dst.Type()
	for i := range t.NumField() {
		if t.Field(i).IsExported() {
			dst.Field(i).Set(out.Field(i))
		}
	}

	return nil
}

// stepRunner fills in where a conversion miss happened.
type stepRunner struct {
	Runner

	pair   string
	member string
}

func (r stepRunner) Miss(m options.Miss) {
	if m.Pair == "" {
		m.Pair = r.pair
	}

	if m.Member == "" {
		m.Member = r.member
	}

	r.Runner.Miss(m)
}
