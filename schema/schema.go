// Package schema defines the data structures for the schema model extracted
// from annotated entity sources. These types are used throughout the entitydoc
// packages for parsing, categorization and generation.
package schema

// Schema is the top-level container produced by one pipeline run.
type Schema struct {
	// Entities contains every entity parsed from the scanned sources.
	Entities []Entity `yaml:"entities"`
}

// Entity represents one annotated domain-model class, which corresponds to a
// logical table.
type Entity struct {
	// Name is the class identifier (e.g., "WorkOrder").
	Name string `yaml:"name"`
	// StorageName is the table name: the explicit @Table name or the
	// lowercased class name.
	StorageName string `yaml:"storage_name"`
	// SourcePath is the file the entity was parsed from.
	SourcePath string `yaml:"source_path,omitempty"`
	// Columns contains the persistent fields in declaration order.
	Columns []Column `yaml:"columns"`
}

// RelationshipKind identifies a relationship annotation.
type RelationshipKind string

const (
	OneToOne   RelationshipKind = "one-to-one"
	ManyToOne  RelationshipKind = "many-to-one"
	OneToMany  RelationshipKind = "one-to-many"
	ManyToMany RelationshipKind = "many-to-many"
)

// SingleValued reports whether the relationship references at most one row
// and therefore owns a foreign key column.
func (k RelationshipKind) SingleValued() bool {
	return k == OneToOne || k == ManyToOne
}

// Column represents one persistent field of an entity.
type Column struct {
	// Name is the column name: the explicit @Column name or the field name.
	Name string `yaml:"name"`
	// FieldName is the field identifier as declared in the source.
	FieldName string `yaml:"field_name"`
	// SourceType is the declared type token, possibly generic (e.g., "List<Task>").
	SourceType string `yaml:"source_type"`
	// StorageType is the resolved SQL type (e.g., "VARCHAR(255)", "BIGINT").
	StorageType string `yaml:"storage_type"`
	// Nullable indicates whether the column allows NULL values.
	Nullable bool `yaml:"nullable"`
	// Length is the explicit length for text-like columns, or nil.
	Length *int `yaml:"length,omitempty"`
	// IsPrimaryKey indicates whether the field carries @Id.
	IsPrimaryKey bool `yaml:"primary_key,omitempty"`
	// IsRelationship indicates whether the field references another entity.
	IsRelationship bool `yaml:"relationship,omitempty"`
	// Relationship is the relationship kind, empty for plain columns.
	Relationship RelationshipKind `yaml:"relationship_kind,omitempty"`
	// ForeignKeyName is set only for single-valued relationships.
	ForeignKeyName string `yaml:"foreign_key,omitempty"`
}

// DisplayName returns the name under which the column appears in the
// database: the foreign key column for single-valued relationships, the
// column name otherwise.
func (c Column) DisplayName() string {
	if c.ForeignKeyName != "" {
		return c.ForeignKeyName
	}
	return c.Name
}

// IsDataColumn reports whether the column is materialized in the entity's own
// table: plain columns and relationships carrying a foreign key.
func (c Column) IsDataColumn() bool {
	return !c.IsRelationship || c.ForeignKeyName != ""
}

// DataColumns returns the columns materialized in the entity's table, in
// declaration order.
func (e Entity) DataColumns() []Column {
	var columns []Column
	for _, c := range e.Columns {
		if c.IsDataColumn() {
			columns = append(columns, c)
		}
	}
	return columns
}

// Relationships returns the relationship columns without a foreign key (the
// inverse or collection side), in declaration order.
func (e Entity) Relationships() []Column {
	var columns []Column
	for _, c := range e.Columns {
		if !c.IsDataColumn() {
			columns = append(columns, c)
		}
	}
	return columns
}
