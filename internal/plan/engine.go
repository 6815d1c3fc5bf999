package plan

import (
	"fmt"
	"reflect"
	"sync"

	"automapper/node"
	"automapper/options"
	"automapper/primitive"
)

// engine selects value converters. Converters for pairs that are still being
// selected are resolved lazily, so recursive types like type Tree []Tree work.
type engine struct {
	allowed primitive.CategoryEnum

	memo  map[node.TypePair]*selected
	needs []node.TypePair
	seen  map[node.TypePair]struct{}
}

type selected struct {
	fn       Converter
	strategy ConversionStrategy
}

func newEngine(opts options.Options) *engine {
	return &engine{
		allowed: opts.Conversions,
		memo:    make(map[node.TypePair]*selected),
		seen:    make(map[node.TypePair]struct{}),
	}
}

func (e *engine) need(src, dst reflect.Type) {
	pair := node.TypePair{Src: src, Dst: dst}
	if _, ok := e.seen[pair]; ok {
		return
	}

	e.seen[pair] = struct{}{}
	e.needs = append(e.needs, pair)
}

// converter returns the converter from src to dst and its strategy.
func (e *engine) converter(src, dst reflect.Type) (Converter, ConversionStrategy) {
	key := node.TypePair{Src: src, Dst: dst}
	if sel, ok := e.memo[key]; ok {
		if sel.fn == nil {
			// still being selected further up the stack
			return func(v reflect.Value, r Runner) (reflect.Value, bool, error) {
				return sel.fn(v, r)
			}, sel.strategy
		}

		return sel.fn, sel.strategy
	}

	sel := &selected{strategy: StrategyConvert}
	e.memo[key] = sel
	sel.fn, sel.strategy = e.selectConverter(src, dst)

	return sel.fn, sel.strategy
}

func (e *engine) selectConverter(src, dst reflect.Type) (Converter, ConversionStrategy) {
	if src.AssignableTo(dst) {
		return directAssign, StrategyDirectAssign
	}

	if src.Kind() == reflect.Interface {
		return e.dynamic(dst), StrategyDynamic
	}

	switch srcPtr, dstPtr := src.Kind() == reflect.Ptr, dst.Kind() == reflect.Ptr; {
	case srcPtr && dstPtr:
		return e.pointerMap(src, dst)
	case dstPtr:
		return e.pointerWrap(src, dst)
	case srcPtr:
		return e.pointerDeref(src, dst)
	}

	switch node.Dispatch(src, dst) {
	case node.DispatcherSlice:
		return e.sliceMap(src, dst)

	case node.DispatcherMap:
		return e.mapMap(src, dst)

	case node.DispatcherStruct:
		e.need(src, dst)
		return nested(dst), StrategyNestedCast

	case node.DispatcherPrimitive:
		if primitive.Convertible(src, dst, e.allowed) {
			return primitiveConvert(dst, e.allowed), StrategyConvert
		}

		return miss(src, dst, "conversion category not enabled"), StrategyMiss
	}

	if isGoConvertible(src, dst) {
		return goConvert(dst), StrategyConvert
	}

	return miss(src, dst, "no conversion"), StrategyMiss
}

// isGoConvertible allows reflect conversions between types that are not both
// primitive kinds, except integer to string which yields a rune.
func isGoConvertible(src, dst reflect.Type) bool {
	if !src.ConvertibleTo(dst) {
		return false
	}

	if primitive.FromReflectType(src) != 0 && primitive.FromReflectType(dst) != 0 {
		return false
	}

	switch src.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return dst.Kind() != reflect.String
	}

	return true
}

func directAssign(v reflect.Value, _ Runner) (reflect.Value, bool, error) {
	return v, true, nil
}

func goConvert(dst reflect.Type) Converter {
	return func(v reflect.Value, _ Runner) (reflect.Value, bool, error) {
		return v.Convert(dst), true, nil
	}
}

func primitiveConvert(dst reflect.Type, allowed primitive.CategoryEnum) Converter {
	return func(v reflect.Value, r Runner) (reflect.Value, bool, error) {
		out, ok := primitive.Convert(v, dst, allowed)
		if !ok {
			r.Miss(options.Miss{From: v.Type(), To: dst, Reason: "value not representable"})
			return reflect.Value{}, false, nil
		}

		return out, true, nil
	}
}

func miss(src, dst reflect.Type, reason string) Converter {
	return func(_ reflect.Value, r Runner) (reflect.Value, bool, error) {
		r.Miss(options.Miss{From: src, To: dst, Reason: reason})
		return reflect.Value{}, false, nil
	}
}

func nested(dst reflect.Type) Converter {
	return func(v reflect.Value, r Runner) (reflect.Value, bool, error) {
		return r.MapNested(v, dst)
	}
}

func (e *engine) pointerMap(src, dst reflect.Type) (Converter, ConversionStrategy) {
	inner, strategy := e.converter(src.Elem(), dst.Elem())
	if strategy == StrategyMiss {
		return miss(src, dst, "no conversion"), StrategyMiss
	}

	elem := dst.Elem()

	return func(v reflect.Value, r Runner) (reflect.Value, bool, error) {
		if v.IsNil() {
			return reflect.Value{}, false, nil
		}

		out, ok, err := inner(v.Elem(), r)
		if err != nil || !ok {
			return reflect.Value{}, false, err
		}

		return wrap(out, elem), true, nil
	}, StrategyPointerMap
}

func (e *engine) pointerWrap(src, dst reflect.Type) (Converter, ConversionStrategy) {
	inner, strategy := e.converter(src, dst.Elem())
	if strategy == StrategyMiss {
		return miss(src, dst, "no conversion"), StrategyMiss
	}

	elem := dst.Elem()

	return func(v reflect.Value, r Runner) (reflect.Value, bool, error) {
		out, ok, err := inner(v, r)
		if err != nil || !ok {
			return reflect.Value{}, false, err
		}

		return wrap(out, elem), true, nil
	}, StrategyPointerWrap
}

func (e *engine) pointerDeref(src, dst reflect.Type) (Converter, ConversionStrategy) {
	inner, strategy := e.converter(src.Elem(), dst)
	if strategy == StrategyMiss {
		return miss(src, dst, "no conversion"), StrategyMiss
	}

	return func(v reflect.Value, r Runner) (reflect.Value, bool, error) {
		if v.IsNil() {
			r.Miss(options.Miss{From: src, To: dst, Reason: "nil value"})
			return reflect.Value{}, false, nil
		}

		return inner(v.Elem(), r)
	}, StrategyPointerDeref
}

func wrap(v reflect.Value, elem reflect.Type) reflect.Value {
	p := reflect.New(elem)
	p.Elem().Set(v)

	return p
}

func (e *engine) sliceMap(src, dst reflect.Type) (Converter, ConversionStrategy) {
	inner, strategy := e.converter(src.Elem(), dst.Elem())
	if strategy == StrategyMiss {
		return miss(src, dst, "no element conversion"), StrategyMiss
	}

	toArray := dst.Kind() == reflect.Array

	return func(v reflect.Value, r Runner) (reflect.Value, bool, error) {
		if v.Kind() == reflect.Slice && v.IsNil() {
			return reflect.Value{}, false, nil
		}

		n := v.Len()

		var out reflect.Value
		if toArray {
			out = reflect.New(dst).Elem()
			n = min(n, dst.Len())
		} else {
			out = reflect.MakeSlice(dst, n, n)
		}

		for i := range n {
			elem, ok, err := inner(v.Index(i), r)
			if err != nil {
				return reflect.Value{}, false, fmt.Errorf("[%d]: %w", i, err)
			}

			if ok {
				out.Index(i).Set(elem)
			}
		}

		return out, true, nil
	}, StrategySliceMap
}

func (e *engine) mapMap(src, dst reflect.Type) (Converter, ConversionStrategy) {
	key, keyStrategy := e.converter(src.Key(), dst.Key())
	value, valueStrategy := e.converter(src.Elem(), dst.Elem())
	if keyStrategy == StrategyMiss || valueStrategy == StrategyMiss {
		return miss(src, dst, "no key or value conversion"), StrategyMiss
	}

	zero := reflect.Zero(dst.Elem())

	return func(v reflect.Value, r Runner) (reflect.Value, bool, error) {
		if v.IsNil() {
			return reflect.Value{}, false, nil
		}

		out := reflect.MakeMapWithSize(dst, v.Len())

		iter := v.MapRange()
		for iter.Next() {
			k, ok, err := key(iter.Key(), r)
			if err != nil {
				return reflect.Value{}, false, err
			}

			// a key that cannot be represented drops the entry
			if !ok {
				continue
			}

			val, ok, err := value(iter.Value(), r)
			if err != nil {
				return reflect.Value{}, false, fmt.Errorf("[%v]: %w", iter.Key(), err)
			}

			if !ok {
				val = zero
			}

			out.SetMapIndex(k, val)
		}

		return out, true, nil
	}, StrategyMapMap
}

// dynamic converts interface values by their dynamic type. Converters are
// selected on first sight of a dynamic type and reused.
func (e *engine) dynamic(dst reflect.Type) Converter {
	var (
		mu    sync.Mutex
		cache = make(map[reflect.Type]Converter)
	)

	allowed := e.allowed

	return func(v reflect.Value, r Runner) (reflect.Value, bool, error) {
		if v.IsNil() {
			return reflect.Value{}, false, nil
		}

		elem := v.Elem()

		mu.Lock()
		conv, ok := cache[elem.Type()]
		if !ok {
			runtime := &engine{
				allowed: allowed,
				memo:    make(map[node.TypePair]*selected),
				seen:    make(map[node.TypePair]struct{}),
			}
			conv, _ = runtime.converter(elem.Type(), dst)
			cache[elem.Type()] = conv
		}
		mu.Unlock()

		return conv(elem, r)
	}
}
