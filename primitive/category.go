package primitive

import (
	"fmt"
	"strings"
)

// CategoryEnum is a bit set of conversion families the fallback conversion may use.
type CategoryEnum int

type ConversionPair struct {
	From, To KindEnum
}

const (
	CategorySafeNumber   CategoryEnum = 1 << iota // int, uint, float without precision loss
	CategoryUnsafeNumber                          // int, uint, float with precision loss, range checked
	CategoryTextNumber                            // int, uint, float <-> string: textual number representation
	CategoryNumericBool                           // int <-> bool: 0, 1 representation of boolean values
	CategoryTextualBool                           // string <-> bool: yes, no, on, off, true, false representation of boolean values
	CategoryDatetime                              // string(RFC3339Nano) <-> time.Time: textual date and time representation
	CategoryTimestamp                             // int(Unix seconds) <-> time.Time: Unix timestamp representation
	CategoryDuration                              // string(2h45m) <-> time.Duration: textual duration representation
	CategoryNanoseconds                           // int(nanoseconds) <-> time.Duration: numerical (integer) duration representation
	CategorySeconds                               // float(seconds) <-> time.Duration: numerical (floating-point) duration representation
	CategoryEnumString                            // string, integer <-> enum: uses IsValid, String and UnmarshalText methods when present

	CategoryAll  = (1 << iota) - 1 //all categories combined
	CategoryNone = 0               // no categories selected

	// CategoryDefault mirrors what a plain Go conversion expression would accept,
	// plus enum names.
	CategoryDefault = CategorySafeNumber | CategoryUnsafeNumber | CategoryEnumString
)

// categoryOrder is the lookup order when a pair belongs to several categories.
var categoryOrder = []CategoryEnum{
	CategorySafeNumber,
	CategoryUnsafeNumber,
	CategoryEnumString,
	CategoryTextNumber,
	CategoryNumericBool,
	CategoryTextualBool,
	CategoryDatetime,
	CategoryTimestamp,
	CategoryDuration,
	CategoryNanoseconds,
	CategorySeconds,
}

var conversionPairs map[CategoryEnum]map[ConversionPair]struct{}

func init() {
	conversionPairs = make(map[CategoryEnum]map[ConversionPair]struct{})
	for _, c := range categoryOrder {
		conversionPairs[c] = map[ConversionPair]struct{}{}
	}

	add := func(c CategoryEnum, from, to KindEnum) {
		conversionPairs[c][ConversionPair{from, to}] = struct{}{}
	}

	for from := KindEnum(1); int(from) < KindTotal; from++ {
		// number <-> number, split by precision loss
		for to := KindEnum(1); int(to) < KindTotal; to++ {
			if !from.IsNumber() || !to.IsNumber() {
				continue
			}

			if isSafeNumber(from, to) {
				add(CategorySafeNumber, from, to)
			} else {
				add(CategoryUnsafeNumber, from, to)
			}
		}

		if from.IsNumber() {
			add(CategoryTextNumber, from, KindString)
			add(CategoryTextNumber, KindString, from)
		}

		if from.IsInteger() {
			add(CategoryNumericBool, from, KindBool)
			add(CategoryNumericBool, KindBool, from)

			add(CategoryTimestamp, from, KindTime)
			add(CategoryTimestamp, KindTime, from)

			add(CategoryEnumString, from, KindPrimitiveEnum)
			add(CategoryEnumString, KindPrimitiveEnum, from)
		}

		if from.IsInteger() && from != KindUint64 {
			add(CategoryNanoseconds, from, KindDuration)
			add(CategoryNanoseconds, KindDuration, from)
		}

		if from.IsFloat() {
			add(CategorySeconds, from, KindDuration)
			add(CategorySeconds, KindDuration, from)
		}
	}

	add(CategoryTextualBool, KindString, KindBool)
	add(CategoryTextualBool, KindBool, KindString)

	add(CategoryDatetime, KindString, KindTime)
	add(CategoryDatetime, KindTime, KindString)

	add(CategoryDuration, KindString, KindDuration)
	add(CategoryDuration, KindDuration, KindString)

	add(CategoryEnumString, KindString, KindPrimitiveEnum)
	add(CategoryEnumString, KindPrimitiveEnum, KindString)
	add(CategoryEnumString, KindPrimitiveEnum, KindPrimitiveEnum)
}

// isSafeNumber reports whether every value of from is exactly representable in to
// on any platform.
func isSafeNumber(from, to KindEnum) bool {
	switch {
	case from == to:
		return true
	case from.IsFloat():
		return to.IsFloat() && to.Bits() >= from.Bits()
	case to.IsFloat():
		return from.maxBits() < to.mantissa()
	case from.IsSigned() && to.IsUnsigned():
		return false
	case from.IsUnsigned() && to.IsSigned():
		return to.minBits() > from.maxBits()
	default:
		return to.minBits() >= from.maxBits()
	}
}

// Lookup returns the first allowed category containing the pair.
func Lookup(pair ConversionPair, allowed CategoryEnum) (CategoryEnum, bool) {
	for _, c := range categoryOrder {
		if allowed&c == 0 {
			continue
		}

		if _, ok := conversionPairs[c][pair]; ok {
			return c, true
		}
	}

	return CategoryNone, false
}

// Has reports whether all categories of other are enabled in c.
func (c CategoryEnum) Has(other CategoryEnum) bool {
	return c&other == other
}

var categoryNames = map[string]CategoryEnum{
	"safe-number":   CategorySafeNumber,
	"unsafe-number": CategoryUnsafeNumber,
	"text-number":   CategoryTextNumber,
	"numeric-bool":  CategoryNumericBool,
	"textual-bool":  CategoryTextualBool,
	"datetime":      CategoryDatetime,
	"timestamp":     CategoryTimestamp,
	"duration":      CategoryDuration,
	"nanoseconds":   CategoryNanoseconds,
	"seconds":       CategorySeconds,
	"enum-string":   CategoryEnumString,
	"all":           CategoryAll,
	"none":          CategoryNone,
	"default":       CategoryDefault,
}

// ParseCategories combines categories named like "text-number" or "default".
func ParseCategories(names ...string) (CategoryEnum, error) {
	var c CategoryEnum
	for _, name := range names {
		bit, ok := categoryNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return CategoryNone, fmt.Errorf("unknown conversion category %q", name)
		}
		c |= bit
	}

	return c, nil
}
