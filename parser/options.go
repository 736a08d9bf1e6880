package parser

import (
	"github.com/hashicorp/go-hclog"

	"github.com/phillipfoxsmaflex/entitydoc/typemap"
)

// Option configures parser behavior.
type Option func(*options)

type options struct {
	typeMapper typemap.TypeMapper
	logger     hclog.Logger
}

func defaultOptions() *options {
	return &options{
		typeMapper: typemap.NewJavaTypeMapper(nil),
		logger:     hclog.NewNullLogger(),
	}
}

// WithTypeMapper sets a custom type mapper for converting field types to
// storage types. If not specified, uses the default Java type mapper.
func WithTypeMapper(mapper typemap.TypeMapper) Option {
	return func(o *options) {
		if mapper != nil {
			o.typeMapper = mapper
		}
	}
}

// WithTypeMappings provides custom type mappings as a simple map.
// This is a convenience alternative to WithTypeMapper for simple use cases.
// Keys are Java base type names (case-sensitive), values are SQL types.
func WithTypeMappings(mappings map[string]string) Option {
	return func(o *options) {
		o.typeMapper = typemap.NewJavaTypeMapper(mappings)
	}
}

// WithLogger sets the logger used for unresolved types and dropped fields.
func WithLogger(logger hclog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
