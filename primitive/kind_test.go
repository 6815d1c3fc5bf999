package primitive_test

import (
	"automapper/primitive"
	"fmt"
	"reflect"
	"time"
)

func Example() {
	type IntEnum int
	type ByteEnum uint8
	type StringEnum string
	type Price float64
	type Empty struct{}

	fmt.Println(primitive.FromReflectType(reflect.TypeOf(int(0))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf("")))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(IntEnum(0))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(ByteEnum(0))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(StringEnum(""))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(Price(0))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(time.Duration(0))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(time.Time{})))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(Empty{})))
	// Output:
	// KindInt
	// KindString
	// KindPrimitiveEnum
	// KindPrimitiveEnum
	// KindPrimitiveEnum
	// KindEnum(0)
	// KindDuration
	// KindTime
	// KindEnum(0)
}

func ExampleLookup() {
	c, ok := primitive.Lookup(primitive.ConversionPair{From: primitive.KindInt32, To: primitive.KindInt64}, primitive.CategoryAll)
	fmt.Println(c == primitive.CategorySafeNumber, ok)

	c, ok = primitive.Lookup(primitive.ConversionPair{From: primitive.KindInt64, To: primitive.KindInt8}, primitive.CategoryAll)
	fmt.Println(c == primitive.CategoryUnsafeNumber, ok)

	_, ok = primitive.Lookup(primitive.ConversionPair{From: primitive.KindInt, To: primitive.KindString}, primitive.CategoryDefault)
	fmt.Println(ok)

	// Output:
	// true true
	// true true
	// false
}

func ExampleParseCategories() {
	c, err := primitive.ParseCategories("default", "Text-Number")
	fmt.Println(c.Has(primitive.CategoryDefault), c.Has(primitive.CategoryTextNumber), c.Has(primitive.CategoryDatetime), err)

	_, err = primitive.ParseCategories("roman-numerals")
	fmt.Println(err)

	// Output:
	// true true false <nil>
	// unknown conversion category "roman-numerals"
}
