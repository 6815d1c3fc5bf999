// Package options holds the behavioral switches of a mapper.
package options

import (
	"automapper/primitive"
	"reflect"

	"go.uber.org/zap"
)

// Miss describes a value that could not be represented in its destination
// and was replaced by the destination's zero value.
type Miss struct {
	Pair   string
	Member string
	From   reflect.Type
	To     reflect.Type
	Reason string
}

type Options struct {
	// Conversions selects the primitive conversion families the fallback may use.
	Conversions primitive.CategoryEnum
	// NormalizeNames enables matching customer_id with CustomerID.
	NormalizeNames bool
	// Logger receives compile and miss events; never nil after Apply.
	Logger *zap.Logger
	// OnMiss is called for every conversion miss, if set.
	OnMiss func(Miss)
}

type Option func(*Options)

func Default() Options {
	return Options{
		Conversions: primitive.CategoryDefault,
		Logger:      zap.NewNop(),
	}
}

// Apply builds Options from the defaults and the given options in order.
func Apply(opts ...Option) Options {
	o := Default()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}

	return o
}

// WithConversions replaces the enabled primitive conversion categories.
func WithConversions(categories primitive.CategoryEnum) Option {
	return func(o *Options) { o.Conversions = categories }
}

// WithExtraConversions enables categories on top of the current ones.
func WithExtraConversions(categories primitive.CategoryEnum) Option {
	return func(o *Options) { o.Conversions |= categories }
}

func WithNameNormalization() Option {
	return func(o *Options) { o.NormalizeNames = true }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

func WithMissHandler(fn func(Miss)) Option {
	return func(o *Options) { o.OnMiss = fn }
}
