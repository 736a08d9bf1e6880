// Package typemap converts Java field types to SQL storage types.
//
// Basic usage:
//
//	mapper := typemap.NewJavaTypeMapper(nil)
//	mapper.MapType("String", nil)        // "VARCHAR(255)"
//	mapper.MapType("LocalDate", nil)     // "DATE"
//
// With custom type mapping:
//
//	mapper := typemap.NewJavaTypeMapper(map[string]string{
//	    "Duration": "INTERVAL",
//	    "JsonNode": "JSONB",
//	})
package typemap

import (
	"fmt"
	"strings"
)

// DefaultTextType is used for text-like fields without an explicit length and
// for every type token that has no mapping.
const DefaultTextType = "VARCHAR(255)"

// TypeMapper defines the interface for converting source field types to
// storage types. Implement this interface to customize type mapping behavior.
type TypeMapper interface {
	// MapType converts a source type token to a storage type string.
	// sourceType may carry generic parameters (e.g., "List<Task>");
	// length is the explicit column length, or nil.
	MapType(sourceType string, length *int) string
}

// JavaTypeMapper provides Java to SQL type conversion.
// It supports custom type overrides via the CustomMappings field.
type JavaTypeMapper struct {
	// CustomMappings allows overriding default type mappings.
	// Keys are base type tokens without generic parameters (case-sensitive,
	// like Java type names), values are storage types.
	CustomMappings map[string]string
}

// NewJavaTypeMapper creates a new TypeMapper with optional custom mappings.
// If customMappings is nil, only default mappings are used.
func NewJavaTypeMapper(customMappings map[string]string) *JavaTypeMapper {
	return &JavaTypeMapper{CustomMappings: customMappings}
}

// MapType implements TypeMapper.
func (m *JavaTypeMapper) MapType(sourceType string, length *int) string {
	storageType, _ := m.Resolve(sourceType, length)
	return storageType
}

// Resolve maps sourceType like MapType and additionally reports whether the
// base token was known. Unknown tokens resolve to DefaultTextType.
func (m *JavaTypeMapper) Resolve(sourceType string, length *int) (string, bool) {
	base := BaseType(sourceType)
	if m.CustomMappings != nil {
		if mapped, ok := m.CustomMappings[base]; ok {
			return mapped, true
		}
	}
	return MapJavaTypeToSQL(base, length)
}

// DefaultTypeMappings contains the standard Java to SQL type mappings.
// Text-like types are listed with their default size; an explicit length
// replaces it (see TextTypes).
var DefaultTypeMappings = map[string]string{
	"String":         DefaultTextType,
	"Long":           "BIGINT",
	"long":           "BIGINT",
	"Integer":        "INTEGER",
	"int":            "INTEGER",
	"Short":          "SMALLINT",
	"short":          "SMALLINT",
	"Double":         "DOUBLE PRECISION",
	"double":         "DOUBLE PRECISION",
	"Float":          "REAL",
	"float":          "REAL",
	"Boolean":        "BOOLEAN",
	"boolean":        "BOOLEAN",
	"Date":           "TIMESTAMP",
	"LocalDate":      "DATE",
	"LocalDateTime":  "TIMESTAMP",
	"LocalTime":      "TIME",
	"Instant":        "TIMESTAMP",
	"OffsetDateTime": "TIMESTAMP WITH TIME ZONE",
	"ZonedDateTime":  "TIMESTAMP WITH TIME ZONE",
	"BigDecimal":     "NUMERIC",
	"BigInteger":     "NUMERIC",
	"byte[]":         "BYTEA",
	"Byte[]":         "BYTEA",
	"UUID":           "UUID",
}

// TextTypes lists the source types that honor an explicit length.
var TextTypes = map[string]bool{
	"String": true,
}

// MapJavaTypeToSQL converts a Java base type to its SQL equivalent. It returns
// the default text type and false for unknown tokens.
func MapJavaTypeToSQL(baseType string, length *int) (string, bool) {
	if TextTypes[baseType] {
		if length != nil && *length > 0 {
			return fmt.Sprintf("VARCHAR(%d)", *length), true
		}
		return DefaultTextType, true
	}
	if mapped, ok := DefaultTypeMappings[baseType]; ok {
		return mapped, true
	}
	return DefaultTextType, false
}

// BaseType strips generic parameters, package qualifiers and whitespace from
// a type token. Array brackets are kept ("byte[]" stays "byte[]").
func BaseType(sourceType string) string {
	base := strings.TrimSpace(sourceType)
	if i := strings.IndexByte(base, '<'); i >= 0 {
		rest := ""
		if j := strings.LastIndexByte(base, '>'); j > i {
			rest = base[j+1:]
		}
		base = base[:i] + rest
	}
	base = strings.ReplaceAll(base, " ", "")
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		base = base[i+1:]
	}
	return base
}

// IsTextType reports whether the source type is text-like.
func IsTextType(sourceType string) bool {
	return TextTypes[BaseType(sourceType)]
}
