package mapper

import (
	"reflect"

	"go.uber.org/zap"

	"automapper/node"
	"automapper/options"
)

// session is the state of one top-level mapping call: the struct values
// currently being mapped along the active path.
type session struct {
	m    *Mapper
	path map[onPath]struct{}
}

type onPath struct {
	addr uintptr
	typ  reflect.Type
}

func newSession(m *Mapper) *session {
	return &session{m: m, path: make(map[onPath]struct{})}
}

func (s *session) MapNested(src reflect.Value, dst reflect.Type) (reflect.Value, bool, error) {
	out := reflect.New(dst).Elem()

	ok, err := s.mapInto(src, out)
	if err != nil || !ok {
		return reflect.Value{}, false, err
	}

	return out, true, nil
}

// mapInto applies the plan of the pair. It reports false, leaving dst
// untouched, when src is already on the path.
func (s *session) mapInto(src, dst reflect.Value) (bool, error) {
	pair := node.TypePair{Src: src.Type(), Dst: dst.Type()}

	p, err := s.m.plan(pair)
	if err != nil {
		return false, err
	}

	if src.Kind() == reflect.Struct {
		if !src.CanAddr() {
			cp := reflect.New(src.Type()).Elem()
			cp.Set(src)
			src = cp
		} else {
			key := onPath{addr: src.UnsafeAddr(), typ: src.Type()}
			if _, seen := s.path[key]; seen {
				s.m.log.Debug("cycle skipped", zap.Stringer("pair", pair))
				return false, nil
			}

			s.path[key] = struct{}{}
			defer delete(s.path, key)
		}
	}

	return true, p.Apply(src, dst, s)
}

func (s *session) Miss(m options.Miss) {
	s.m.log.Debug("conversion miss",
		zap.String("pair", m.Pair),
		zap.String("member", m.Member),
		zap.Stringer("from", m.From),
		zap.Stringer("to", m.To),
		zap.String("reason", m.Reason),
	)

	if s.m.opts.OnMiss != nil {
		s.m.opts.OnMiss(m)
	}
}
