package plan

import (
	"errors"
	"reflect"

	"automapper/internal/diagnostic"
	"automapper/node"
	"automapper/options"
)

var (
	ErrUnknownSourcePath = errors.New("source path does not resolve on the source type")
	ErrUnknownMember     = errors.New("no such writable destination member")
	ErrNotStruct         = errors.New("only struct types can be mapped member by member")
)

// Runner is what a running plan needs from the mapper: recursion into
// nested objects and a sink for conversion misses.
type Runner interface {
	// MapNested maps the struct value src into a new value of struct type dst.
	// It reports false when src is already being mapped higher up the path.
	MapNested(src reflect.Value, dst reflect.Type) (reflect.Value, bool, error)
	// Miss reports a value replaced by the zero value of its destination.
	Miss(m options.Miss)
}

// Converter turns a value of a fixed source type into a value of a fixed
// destination type. A false result asks the caller to use its own default:
// nil for pointers, the zero value otherwise.
type Converter func(v reflect.Value, r Runner) (reflect.Value, bool, error)

// Plan is the compiled transformation of one type pair. It is immutable and
// safe for concurrent use.
type Plan struct {
	Pair node.TypePair
	// Steps assign destination members, in destination declaration order.
	Steps []Step
	// Skipped lists destination members that are never assigned.
	Skipped []Skipped
	// Needs are the nested struct pairs the steps recurse into.
	Needs []node.TypePair
	// Converter replaces the steps when the type map declares one.
	Converter *node.Caster
	// Diagnostics are the non fatal findings of compilation.
	Diagnostics diagnostic.Diagnostics

	converterByPtr bool

	// root converts the whole value when the pair is not a pair of structs.
	root         Converter
	rootStrategy ConversionStrategy
}

// Step assigns one destination member.
type Step struct {
	Member   string
	Source   MappingSource
	From     string
	Strategy ConversionStrategy
	// SrcType is the static type of the value read from the source.
	SrcType reflect.Type

	index   []int
	read    func(src reflect.Value) (reflect.Value, bool, error)
	convert Converter
}

// Skipped is a destination member left untouched by the plan.
type Skipped struct {
	Member string
	Source MappingSource
}

// MappingSource indicates how a destination member found its value.
type MappingSource int

const (
	// MappingSourcePath - explicit source path rule.
	MappingSourcePath MappingSource = iota
	// MappingSourceResolver - explicit resolver function rule.
	MappingSourceResolver
	// MappingSourceRenameFrom - map:"from=Name" tag on the destination member.
	MappingSourceRenameFrom
	// MappingSourceSameName - source member with the same name.
	MappingSourceSameName
	// MappingSourceRenameTo - map:"to=Name" tag on a source member.
	MappingSourceRenameTo
	// MappingSourceNormalized - source member with the same normalized name.
	MappingSourceNormalized
	// MappingSourceIgnored - ignored by configuration or map:"-" tag.
	MappingSourceIgnored
	// MappingSourceUnmapped - nothing matched.
	MappingSourceUnmapped
)

func (s MappingSource) String() string {
	switch s {
	case MappingSourcePath:
		return "path"
	case MappingSourceResolver:
		return "resolver"
	case MappingSourceRenameFrom:
		return "tag:from"
	case MappingSourceSameName:
		return "name"
	case MappingSourceRenameTo:
		return "tag:to"
	case MappingSourceNormalized:
		return "normalized"
	case MappingSourceIgnored:
		return "ignored"
	case MappingSourceUnmapped:
		return "unmapped"
	default:
		return "unknown"
	}
}

// ConversionStrategy describes how a member value is converted.
type ConversionStrategy int

const (
	// StrategyDirectAssign - source type is assignable to the destination type.
	StrategyDirectAssign ConversionStrategy = iota
	// StrategyConvert - primitive conversion or Go type conversion.
	StrategyConvert
	// StrategyPointerDeref - unwrap an optional value, nil is a conversion miss.
	StrategyPointerDeref
	// StrategyPointerWrap - wrap a value into a new optional value.
	StrategyPointerWrap
	// StrategyPointerMap - optional to optional, nil stays nil.
	StrategyPointerMap
	// StrategySliceMap - convert slice or array elements one by one.
	StrategySliceMap
	// StrategyMapMap - convert map keys and values one by one.
	StrategyMapMap
	// StrategyNestedCast - map a nested struct through its own plan.
	StrategyNestedCast
	// StrategyDynamic - interface source, converter picked from the dynamic type.
	StrategyDynamic
	// StrategyMiss - no conversion exists, the destination gets its zero value.
	StrategyMiss
)

func (s ConversionStrategy) String() string {
	switch s {
	case StrategyDirectAssign:
		return "direct_assign"
	case StrategyConvert:
		return "convert"
	case StrategyPointerDeref:
		return "pointer_deref"
	case StrategyPointerWrap:
		return "pointer_wrap"
	case StrategyPointerMap:
		return "pointer_map"
	case StrategySliceMap:
		return "slice_map"
	case StrategyMapMap:
		return "map_map"
	case StrategyNestedCast:
		return "nested_cast"
	case StrategyDynamic:
		return "dynamic"
	case StrategyMiss:
		return "miss"
	default:
		return "unknown"
	}
}
