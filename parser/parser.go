// Package parser extracts entity definitions from annotated Java sources.
//
// The source is tokenized, the first top-level class declaration is located
// and its body is walked statement by statement. Each field declaration is
// associated with the annotations written directly before it.
//
// Basic usage:
//
//	p := parser.New(parser.WithLogger(logger))
//	entity, err := p.Parse("WorkOrder.java", content)
//	if errors.Is(err, parser.ErrNotAnEntity) {
//	    // skip
//	}
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/phillipfoxsmaflex/entitydoc/schema"
	"github.com/phillipfoxsmaflex/entitydoc/typemap"
)

// ErrNotAnEntity is returned for sources without a class declaration carrying
// the @Entity annotation.
var ErrNotAnEntity = errors.New("not an entity")

var relationshipMarkers = map[string]schema.RelationshipKind{
	"OneToOne":   schema.OneToOne,
	"ManyToOne":  schema.ManyToOne,
	"OneToMany":  schema.OneToMany,
	"ManyToMany": schema.ManyToMany,
}

var notNullMarkers = map[string]bool{
	"NotNull":  true,
	"NonNull":  true,
	"NotBlank": true,
}

// resolver is implemented by type mappers that can report unknown types.
type resolver interface {
	Resolve(sourceType string, length *int) (string, bool)
}

// Parser turns source text into schema entities. A Parser holds no state
// between calls and is safe for concurrent use.
type Parser struct {
	typeMapper typemap.TypeMapper
	logger     hclog.Logger
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Parser{typeMapper: o.typeMapper, logger: o.logger}
}

// Parse extracts the entity declared in content. path is only recorded on
// the entity and used in log output.
func (p *Parser) Parse(path, content string) (*schema.Entity, error) {
	tokens := lex(content)

	class, ok := findClass(tokens)
	if !ok || !hasAnnotation(class.annotations, "Entity") {
		return nil, fmt.Errorf("%s: %w", path, ErrNotAnEntity)
	}

	entity := &schema.Entity{
		Name:        class.name,
		StorageName: storageName(class),
		SourcePath:  path,
		Columns:     []schema.Column{},
	}

	logger := p.logger.With("entity", entity.Name)
	seen := make(map[string]bool)

	for _, m := range members(tokens, class.body) {
		decl, ok := parseField(m.tokens)
		if !ok {
			continue
		}
		attrs := resolveAttributes(m.annotations)
		if decl.modifiers["static"] || decl.modifiers["transient"] || attrs.transient {
			continue
		}

		for _, d := range decl.declarators {
			column := p.column(logger, decl, d, attrs)
			if seen[column.Name] || seen[column.DisplayName()] {
				logger.Warn("dropping duplicate column", "column", column.DisplayName(), "field", column.FieldName, "path", path)
				continue
			}
			seen[column.Name] = true
			seen[column.DisplayName()] = true
			entity.Columns = append(entity.Columns, column)
		}
	}

	if len(entity.Columns) == 0 {
		logger.Debug("no columns matched", "path", path)
	}

	return entity, nil
}

func storageName(class classDecl) string {
	for i := len(class.annotations) - 1; i >= 0; i-- {
		a := class.annotations[i]
		if a.name != "Table" {
			continue
		}
		if name, ok := a.arg("name"); ok && name != "" {
			return name
		}
	}
	return strings.ToLower(class.name)
}

func hasAnnotation(annotations []annotation, name string) bool {
	for _, a := range annotations {
		if a.name == name {
			return true
		}
	}
	return false
}

// attributes is the column metadata carried by a field's annotations.
// Later annotations of the same kind override earlier ones.
type attributes struct {
	columnName   string
	definition   string
	length       *int
	nullable     *bool
	notNull      bool
	primaryKey   bool
	transient    bool
	relationship schema.RelationshipKind
	joinColumn   string
}

func resolveAttributes(annotations []annotation) attributes {
	var attrs attributes
	for _, a := range annotations {
		switch {
		case a.name == "Column":
			if name, ok := a.arg("name"); ok && name != "" {
				attrs.columnName = name
			}
			if def, ok := a.arg("columnDefinition"); ok && def != "" {
				attrs.definition = def
			}
			if length, ok := a.intArg("length"); ok {
				attrs.length = length
			}
			if nullable, ok := a.boolArg("nullable"); ok {
				attrs.nullable = &nullable
			}
		case a.name == "JoinColumn":
			if name, ok := a.arg("name"); ok && name != "" {
				attrs.joinColumn = name
			}
			if nullable, ok := a.boolArg("nullable"); ok && !nullable {
				attrs.notNull = true
			}
		case a.name == "Id":
			attrs.primaryKey = true
		case a.name == "Transient":
			attrs.transient = true
		case notNullMarkers[a.name]:
			attrs.notNull = true
		case relationshipMarkers[a.name] != "":
			attrs.relationship = relationshipMarkers[a.name]
			if optional, ok := a.boolArg("optional"); ok && !optional {
				attrs.notNull = true
			}
		}
	}
	return attrs
}

func (p *Parser) column(logger hclog.Logger, decl fieldDecl, d declarator, attrs attributes) schema.Column {
	sourceType := d.sourceType(decl.sourceType)

	column := schema.Column{
		Name:         d.name,
		FieldName:    d.name,
		SourceType:   sourceType,
		Nullable:     true,
		Length:       attrs.length,
		IsPrimaryKey: attrs.primaryKey,
	}
	if attrs.columnName != "" && len(decl.declarators) == 1 {
		column.Name = attrs.columnName
	}
	if attrs.nullable != nil {
		column.Nullable = *attrs.nullable
	}
	if attrs.notNull || attrs.primaryKey {
		column.Nullable = false
	}

	if attrs.relationship != "" {
		column.IsRelationship = true
		column.Relationship = attrs.relationship
		if attrs.relationship.SingleValued() {
			column.ForeignKeyName = d.name + "_id"
			if attrs.joinColumn != "" {
				column.ForeignKeyName = attrs.joinColumn
			}
		}
	}

	switch {
	case attrs.definition != "":
		column.StorageType = attrs.definition
	default:
		column.StorageType = p.typeMapper.MapType(sourceType, attrs.length)
		if r, ok := p.typeMapper.(resolver); ok && !column.IsRelationship {
			if _, known := r.Resolve(sourceType, attrs.length); !known {
				logger.Debug("unresolved type, using default", "field", d.name, "type", sourceType, "storage_type", column.StorageType)
			}
		}
	}

	return column
}
