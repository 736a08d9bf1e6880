// Package generator renders categorized entities as a Markdown schema
// reference.
//
// Basic usage:
//
//	output, err := generator.Generate(groups,
//	    generator.WithTitle("MMS Database Schema"),
//	    generator.WithPurpose("Overview for dashboard development"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(output)
package generator

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/phillipfoxsmaflex/entitydoc/category"
	"github.com/phillipfoxsmaflex/entitydoc/schema"
)

// TimestampFormat is the layout of the generation timestamp line.
const TimestampFormat = "2006-01-02 15:04:05"

// Generate renders groups into Markdown bytes. The output has a title block,
// a table of contents, one section per non-empty group, and a closing section
// of query examples. Apart from the timestamp line the output depends only on
// its input.
func Generate(groups []category.Group, opts ...Option) ([]byte, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	var builder strings.Builder

	generateHeader(&builder, o)
	generateContents(&builder, groups)

	for _, group := range groups {
		if len(group.Entities) == 0 {
			continue
		}
		builder.WriteString(fmt.Sprintf("## %s\n\n", group.Name))
		for _, entity := range group.Entities {
			generateEntity(&builder, entity, o.descriptions)
		}
	}

	if len(o.queryExamples) > 0 {
		generateQueryExamples(&builder, o.querySection, o.queryExamples)
	}

	return []byte(builder.String()), nil
}

// GenerateString is a convenience wrapper that returns the document as a string.
func GenerateString(groups []category.Group, opts ...Option) (string, error) {
	result, err := Generate(groups, opts...)
	if err != nil {
		return "", err
	}
	return string(result), nil
}

func generateHeader(builder *strings.Builder, o *options) {
	builder.WriteString(fmt.Sprintf("# %s\n\n", o.title))
	if o.purpose != "" {
		builder.WriteString(fmt.Sprintf("**Generated:** %s  \n", o.clock().Format(TimestampFormat)))
		builder.WriteString(fmt.Sprintf("**Purpose:** %s\n\n", o.purpose))
	} else {
		builder.WriteString(fmt.Sprintf("**Generated:** %s\n\n", o.clock().Format(TimestampFormat)))
	}
	builder.WriteString("---\n\n")
}

func generateContents(builder *strings.Builder, groups []category.Group) {
	builder.WriteString("## Table of Contents\n\n")
	for _, group := range groups {
		if len(group.Entities) == 0 {
			continue
		}
		builder.WriteString(fmt.Sprintf("- [%s](#%s)\n", group.Name, Anchor(group.Name)))
	}
	builder.WriteString("\n---\n\n")
}

func generateEntity(builder *strings.Builder, entity schema.Entity, descriptions map[string]string) {
	builder.WriteString(fmt.Sprintf("### %s (`%s`)\n\n", entity.Name, entity.StorageName))

	if columns := entity.DataColumns(); len(columns) > 0 {
		builder.WriteString("| Column | Type | Nullable | Description |\n")
		builder.WriteString("|--------|------|----------|-------------|\n")
		for _, column := range columns {
			generateColumn(builder, column, descriptions)
		}
	}

	if relationships := entity.Relationships(); len(relationships) > 0 {
		builder.WriteString("\n**Relationships:**\n")
		for _, rel := range relationships {
			builder.WriteString(fmt.Sprintf("- `%s`: `%s`\n", rel.FieldName, rel.SourceType))
		}
	}

	builder.WriteString("\n")
}

func generateColumn(builder *strings.Builder, column schema.Column, descriptions map[string]string) {
	nullable := "✗"
	if column.Nullable {
		nullable = "✓"
	}

	builder.WriteString(fmt.Sprintf("| `%s` | %s | %s | %s |\n",
		column.DisplayName(),
		escapeCell(column.StorageType),
		nullable,
		escapeCell(Describe(column, descriptions)),
	))
}

func generateQueryExamples(builder *strings.Builder, section string, examples []QueryExample) {
	builder.WriteString("---\n\n")
	builder.WriteString(fmt.Sprintf("## %s\n\n", section))

	for _, example := range examples {
		builder.WriteString(fmt.Sprintf("### %s\n\n", example.Heading))
		builder.WriteString("```sql\n")
		for i, snippet := range example.Snippets {
			if i > 0 {
				builder.WriteString("\n")
			}
			if snippet.Comment != "" {
				builder.WriteString(fmt.Sprintf("-- %s\n", snippet.Comment))
			}
			builder.WriteString(strings.TrimRight(snippet.SQL, "\n"))
			builder.WriteString("\n")
		}
		builder.WriteString("```\n\n")
	}
}

// Describe looks up a column description by display name, then by its
// snake_case form, then by field name. It returns "" when none matches.
func Describe(column schema.Column, descriptions map[string]string) string {
	keys := []string{
		column.DisplayName(),
		strcase.ToSnake(column.DisplayName()),
		column.FieldName,
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if desc, ok := descriptions[key]; ok {
			return desc
		}
	}
	return ""
}

// Anchor returns the Markdown heading anchor for a section name: lower case,
// spaces replaced by "-", "&" removed.
func Anchor(name string) string {
	anchor := strings.ToLower(name)
	anchor = strings.ReplaceAll(anchor, " ", "-")
	return strings.ReplaceAll(anchor, "&", "")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
