package primitive

import (
	"math/bits"
	"reflect"
	"time"
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

// KindEnum classifies the types the fallback conversion knows how to handle.
type KindEnum int

const (
	_ KindEnum = iota // zero value stands for "not a primitive"

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindTime
	KindDuration
	KindPrimitiveEnum // named integer or string type

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

var (
	typeTime     = reflect.TypeFor[time.Time]()
	typeDuration = reflect.TypeFor[time.Duration]()
)

func (k KindEnum) IsNumber() bool {
	return k.IsInteger() || k.IsFloat()
}

func (k KindEnum) IsInteger() bool {
	return k.IsSigned() || k.IsUnsigned()
}

func (k KindEnum) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

func (k KindEnum) IsSigned() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
}

func (k KindEnum) IsUnsigned() bool {
	switch k {
	default:
		return false
	case KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

// Bits reports the storage size of a numeric kind.
// Platform sized int and uint report the native word size.
func (k KindEnum) Bits() int {
	switch k {
	default:
		panic("only numeric kinds has meaningful bits amount, but requested for: " + k.String())
	case KindInt, KindUint:
		return bits.UintSize
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32, KindFloat32:
		return 32
	case KindInt64, KindUint64, KindFloat64:
		return 64
	}
}

// minBits and maxBits bound the portable width of a kind: int and uint
// may be anything from 32 to 64 bits depending on the target platform.
func (k KindEnum) minBits() int {
	if k == KindInt || k == KindUint {
		return 32
	}

	return k.Bits()
}

func (k KindEnum) maxBits() int {
	if k == KindInt || k == KindUint {
		return 64
	}

	return k.Bits()
}

// mantissa is the number of integer bits a float kind holds exactly.
func (k KindEnum) mantissa() int {
	switch k {
	case KindFloat32:
		return 24
	case KindFloat64:
		return 53
	default:
		return 0
	}
}

func FromReflectType(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	switch rtype {
	case typeTime:
		return KindTime
	case typeDuration:
		return KindDuration
	}

	// builtin types have no package path, named ones are enums
	if rtype.PkgPath() != "" {
		if underlying(rtype) != 0 {
			return KindPrimitiveEnum
		}

		return 0
	}

	switch rtype.Kind() {
	case reflect.Float32:
		return KindFloat32
	case reflect.Float64:
		return KindFloat64
	case reflect.Bool:
		return KindBool
	}

	return underlying(rtype)
}

// underlying reports the builtin kind an enum type is declared over.
func underlying(rtype reflect.Type) KindEnum {
	switch rtype.Kind() {
	default:
		return 0
	case reflect.Int:
		return KindInt
	case reflect.Int8:
		return KindInt8
	case reflect.Int16:
		return KindInt16
	case reflect.Int32:
		return KindInt32
	case reflect.Int64:
		return KindInt64
	case reflect.Uint:
		return KindUint
	case reflect.Uint8:
		return KindUint8
	case reflect.Uint16:
		return KindUint16
	case reflect.Uint32:
		return KindUint32
	case reflect.Uint64:
		return KindUint64
	case reflect.String:
		return KindString
	}
}
