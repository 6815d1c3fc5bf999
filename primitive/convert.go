package primitive

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

type number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// isInRange checks if a value is within the specified range, both inclusive.
func isInRange[T number](min T, value T, max T) bool {
	return min <= value && value <= max
}

var (
	typeStringer        = reflect.TypeFor[fmt.Stringer]()
	typeTextUnmarshaler = reflect.TypeFor[encoding.TextUnmarshaler]()
	typeValidator       = reflect.TypeFor[interface{ IsValid() bool }]()

	// largest floats strictly below 2^63 and 2^64
	maxInt64Float  = math.Nextafter(1<<63, 0)
	maxUint64Float = math.Nextafter(1<<64, 0)
)

// Convertible reports whether Convert may succeed for the pair of types
// under the allowed categories.
func Convertible(src, dst reflect.Type, allowed CategoryEnum) bool {
	pair := ConversionPair{FromReflectType(src), FromReflectType(dst)}
	if pair.From == 0 || pair.To == 0 {
		return false
	}

	_, ok := Lookup(pair, allowed)

	return ok
}

// Convert converts v into a value of type dst using the first allowed category
// covering both kinds. It returns false when no category covers the pair or when
// the value is not representable in dst.
func Convert(v reflect.Value, dst reflect.Type, allowed CategoryEnum) (reflect.Value, bool) {
	pair := ConversionPair{FromReflectType(v.Type()), FromReflectType(dst)}
	if pair.From == 0 || pair.To == 0 {
		return reflect.Value{}, false
	}

	category, ok := Lookup(pair, allowed)
	if !ok {
		return reflect.Value{}, false
	}

	var out reflect.Value

	switch category {
	case CategorySafeNumber, CategoryUnsafeNumber:
		out, ok = convertNumber(v, dst)
	case CategoryEnumString:
		out, ok = convertEnum(v, dst)
	case CategoryTextNumber:
		out, ok = convertTextNumber(v, dst)
	case CategoryNumericBool:
		out, ok = convertNumericBool(v, dst)
	case CategoryTextualBool:
		out, ok = convertTextualBool(v, dst)
	case CategoryDatetime:
		out, ok = convertDatetime(v, dst)
	case CategoryTimestamp:
		out, ok = convertTimestamp(v, dst)
	case CategoryDuration:
		out, ok = convertDuration(v, dst)
	case CategoryNanoseconds:
		out, ok = convertNanoseconds(v, dst)
	case CategorySeconds:
		out, ok = convertSeconds(v, dst)
	default:
		return reflect.Value{}, false
	}

	if !ok || (pair.To == KindPrimitiveEnum && !isValid(out)) {
		return reflect.Value{}, false
	}

	return out, true
}

func isSignedKind(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUnsignedKind(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uint64
}

func isFloatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

// convertNumber moves a number between any integer or float types, failing on overflow.
// Floats are truncated toward zero when the target is an integer.
func convertNumber(v reflect.Value, dst reflect.Type) (reflect.Value, bool) {
	out := reflect.New(dst).Elem()

	switch k := v.Kind(); {
	case isSignedKind(k):
		return out, setInt(out, v.Int())

	case isUnsignedKind(k):
		u := v.Uint()
		switch {
		case isUnsignedKind(dst.Kind()):
			if out.OverflowUint(u) {
				return out, false
			}
			out.SetUint(u)
			return out, true
		case isFloatKind(dst.Kind()):
			out.SetFloat(float64(u))
			return out, true
		default:
			if u > math.MaxInt64 {
				return out, false
			}
			return out, setInt(out, int64(u))
		}

	case isFloatKind(k):
		f := v.Float()
		if isFloatKind(dst.Kind()) {
			if out.OverflowFloat(f) {
				return out, false
			}
			out.SetFloat(f)
			return out, true
		}

		if math.IsNaN(f) || math.IsInf(f, 0) {
			return out, false
		}

		f = math.Trunc(f)
		if isUnsignedKind(dst.Kind()) {
			if !isInRange(0, f, maxUint64Float) || out.OverflowUint(uint64(f)) {
				return out, false
			}
			out.SetUint(uint64(f))
			return out, true
		}

		if !isInRange(math.MinInt64, f, maxInt64Float) {
			return out, false
		}
		return out, setInt(out, int64(f))
	}

	return out, false
}

// setInt stores i into an integer or float value, failing on overflow.
func setInt(out reflect.Value, i int64) bool {
	switch k := out.Kind(); {
	case isSignedKind(k):
		if out.OverflowInt(i) {
			return false
		}
		out.SetInt(i)
	case isUnsignedKind(k):
		if i < 0 || out.OverflowUint(uint64(i)) {
			return false
		}
		out.SetUint(uint64(i))
	case isFloatKind(k):
		out.SetFloat(float64(i))
	default:
		return false
	}

	return true
}

func convertEnum(v reflect.Value, dst reflect.Type) (reflect.Value, bool) {
	srcText := v.Kind() == reflect.String
	dstText := dst.Kind() == reflect.String

	switch {
	case !srcText && !dstText:
		return convertNumber(v, dst)

	case srcText && dstText:
		out := reflect.New(dst).Elem()
		out.SetString(v.String())
		return out, true

	case dstText:
		text, ok := enumText(v)
		if !ok {
			return reflect.Value{}, false
		}

		out := reflect.New(dst).Elem()
		out.SetString(text)
		return out, true

	default:
		return parseEnum(v.String(), dst)
	}
}

// enumText renders an integer enum by its String method.
func enumText(v reflect.Value) (string, bool) {
	if !v.Type().Implements(typeStringer) || !v.CanInterface() {
		return "", false
	}

	return v.Interface().(fmt.Stringer).String(), true
}

// parseEnum builds an integer enum from its name through UnmarshalText.
func parseEnum(text string, dst reflect.Type) (reflect.Value, bool) {
	if !reflect.PointerTo(dst).Implements(typeTextUnmarshaler) {
		return reflect.Value{}, false
	}

	ptr := reflect.New(dst)
	if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil {
		return reflect.Value{}, false
	}

	return ptr.Elem(), true
}

func isValid(v reflect.Value) bool {
	if !v.Type().Implements(typeValidator) {
		return true
	}

	return v.Interface().(interface{ IsValid() bool }).IsValid()
}

func convertTextNumber(v reflect.Value, dst reflect.Type) (reflect.Value, bool) {
	out := reflect.New(dst).Elem()

	if dst.Kind() == reflect.String {
		switch k := v.Kind(); {
		case isSignedKind(k):
			out.SetString(strconv.FormatInt(v.Int(), 10))
		case isUnsignedKind(k):
			out.SetString(strconv.FormatUint(v.Uint(), 10))
		default:
			out.SetString(strconv.FormatFloat(v.Float(), 'g', -1, v.Type().Bits()))
		}

		return out, true
	}

	text := strings.TrimSpace(v.String())

	switch k := dst.Kind(); {
	case isSignedKind(k):
		i, err := strconv.ParseInt(text, 10, dst.Bits())
		if err != nil {
			return out, false
		}
		out.SetInt(i)
	case isUnsignedKind(k):
		u, err := strconv.ParseUint(text, 10, dst.Bits())
		if err != nil {
			return out, false
		}
		out.SetUint(u)
	default:
		f, err := strconv.ParseFloat(text, dst.Bits())
		if err != nil {
			return out, false
		}
		out.SetFloat(f)
	}

	return out, true
}

func convertNumericBool(v reflect.Value, dst reflect.Type) (reflect.Value, bool) {
	out := reflect.New(dst).Elem()

	if dst.Kind() == reflect.Bool {
		var n uint64
		switch {
		case isSignedKind(v.Kind()):
			if v.Int() < 0 {
				return out, false
			}
			n = uint64(v.Int())
		default:
			n = v.Uint()
		}

		switch n {
		case 0:
			out.SetBool(false)
		case 1:
			out.SetBool(true)
		default:
			return out, false
		}

		return out, true
	}

	var n int64
	if v.Bool() {
		n = 1
	}

	return out, setInt(out, n)
}

func convertTextualBool(v reflect.Value, dst reflect.Type) (reflect.Value, bool) {
	out := reflect.New(dst).Elem()

	if dst.Kind() == reflect.String {
		out.SetString(strconv.FormatBool(v.Bool()))
		return out, true
	}

	switch strings.ToLower(strings.TrimSpace(v.String())) {
	case "true", "yes", "on":
		out.SetBool(true)
	case "false", "no", "off":
		out.SetBool(false)
	default:
		return out, false
	}

	return out, true
}

func convertDatetime(v reflect.Value, dst reflect.Type) (reflect.Value, bool) {
	out := reflect.New(dst).Elem()

	if dst.Kind() == reflect.String {
		out.SetString(v.Interface().(time.Time).Format(time.RFC3339Nano))
		return out, true
	}

	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(v.String()))
	if err != nil {
		return out, false
	}

	out.Set(reflect.ValueOf(t))

	return out, true
}

func convertTimestamp(v reflect.Value, dst reflect.Type) (reflect.Value, bool) {
	if dst == typeTime {
		var sec int64
		switch {
		case isSignedKind(v.Kind()):
			sec = v.Int()
		case v.Uint() > math.MaxInt64:
			return reflect.Value{}, false
		default:
			sec = int64(v.Uint())
		}

		return reflect.ValueOf(time.Unix(sec, 0).UTC()), true
	}

	return convertNumber(reflect.ValueOf(v.Interface().(time.Time).Unix()), dst)
}

func convertDuration(v reflect.Value, dst reflect.Type) (reflect.Value, bool) {
	if dst == typeDuration {
		d, err := time.ParseDuration(strings.TrimSpace(v.String()))
		if err != nil {
			return reflect.Value{}, false
		}

		return reflect.ValueOf(d), true
	}

	out := reflect.New(dst).Elem()
	out.SetString(time.Duration(v.Int()).String())

	return out, true
}

func convertNanoseconds(v reflect.Value, dst reflect.Type) (reflect.Value, bool) {
	if dst == typeDuration {
		return convertNumber(v, dst)
	}

	return convertNumber(reflect.ValueOf(v.Int()), dst)
}

func convertSeconds(v reflect.Value, dst reflect.Type) (reflect.Value, bool) {
	if dst == typeDuration {
		ns := v.Float() * float64(time.Second)
		if math.IsNaN(ns) || !isInRange(math.MinInt64, ns, maxInt64Float) {
			return reflect.Value{}, false
		}

		return reflect.ValueOf(time.Duration(ns)), true
	}

	return convertNumber(reflect.ValueOf(time.Duration(v.Int()).Seconds()), dst)
}
