package typemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestMapJavaTypeToSQL(t *testing.T) {
	tests := []struct {
		name     string
		baseType string
		length   *int
		expected string
		known    bool
	}{
		{"string", "String", nil, "VARCHAR(255)", true},
		{"string with length", "String", intPtr(500), "VARCHAR(500)", true},
		{"string with zero length", "String", intPtr(0), "VARCHAR(255)", true},
		{"wrapper long", "Long", nil, "BIGINT", true},
		{"primitive long", "long", nil, "BIGINT", true},
		{"integer", "Integer", nil, "INTEGER", true},
		{"int", "int", nil, "INTEGER", true},
		{"short", "short", nil, "SMALLINT", true},
		{"double", "Double", nil, "DOUBLE PRECISION", true},
		{"float", "float", nil, "REAL", true},
		{"boolean", "boolean", nil, "BOOLEAN", true},
		{"date", "Date", nil, "TIMESTAMP", true},
		{"local date", "LocalDate", nil, "DATE", true},
		{"local date time", "LocalDateTime", nil, "TIMESTAMP", true},
		{"big decimal", "BigDecimal", nil, "NUMERIC", true},
		{"byte array", "byte[]", nil, "BYTEA", true},
		{"uuid", "UUID", nil, "UUID", true},
		{"length ignored for non-text", "Long", intPtr(20), "BIGINT", true},
		{"unknown type", "Asset", nil, "VARCHAR(255)", false},
		{"unknown type with length", "InstructionType", intPtr(50), "VARCHAR(255)", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, known := MapJavaTypeToSQL(tt.baseType, tt.length)
			assert.Equal(t, tt.expected, result)
			assert.Equal(t, tt.known, known)
		})
	}
}

func TestBaseType(t *testing.T) {
	tests := []struct {
		sourceType string
		expected   string
	}{
		{"String", "String"},
		{"List<Task>", "List"},
		{"Map<String, List<Part>>", "Map"},
		{"Set<Team>", "Set"},
		{"byte[]", "byte[]"},
		{" Long ", "Long"},
		{"java.util.Date", "Date"},
		{"java.util.List<java.lang.String>", "List"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, BaseType(tt.sourceType), "BaseType(%q)", tt.sourceType)
	}
}

func TestJavaTypeMapper(t *testing.T) {
	mapper := NewJavaTypeMapper(map[string]string{
		"Duration": "INTERVAL",
		"String":   "TEXT",
	})

	t.Run("custom mapping", func(t *testing.T) {
		assert.Equal(t, "INTERVAL", mapper.MapType("Duration", nil))
	})

	t.Run("custom mapping overrides default", func(t *testing.T) {
		assert.Equal(t, "TEXT", mapper.MapType("String", intPtr(40)))
	})

	t.Run("fallback to default mapping", func(t *testing.T) {
		assert.Equal(t, "BIGINT", mapper.MapType("Long", nil))
	})

	t.Run("generic parameters stripped", func(t *testing.T) {
		storageType, known := mapper.Resolve("List<Task>", nil)
		assert.Equal(t, DefaultTextType, storageType)
		assert.False(t, known)
	})

	t.Run("case sensitive", func(t *testing.T) {
		_, known := mapper.Resolve("duration", nil)
		assert.False(t, known)
	})
}

func TestJavaTypeMapperNilMappings(t *testing.T) {
	mapper := NewJavaTypeMapper(nil)

	assert.Equal(t, "INTEGER", mapper.MapType("Integer", nil))
	assert.Equal(t, "VARCHAR(80)", mapper.MapType("String", intPtr(80)))
}

func TestIsTextType(t *testing.T) {
	assert.True(t, IsTextType("String"))
	assert.False(t, IsTextType("Long"))
	assert.False(t, IsTextType("List<String>"))
}
