package generator

import (
	"strings"
	"testing"
	"time"

	"github.com/phillipfoxsmaflex/entitydoc/category"
	"github.com/phillipfoxsmaflex/entitydoc/schema"
)

func fixedClock(ts string) func() time.Time {
	return func() time.Time {
		t, _ := time.Parse(TimestampFormat, ts)
		return t
	}
}

func testGroups() []category.Group {
	return []category.Group{
		{
			Name: "Work Management",
			Entities: []schema.Entity{
				{
					Name:        "WorkOrder",
					StorageName: "work_order",
					Columns: []schema.Column{
						{Name: "id", FieldName: "id", SourceType: "Long", StorageType: "BIGINT", IsPrimaryKey: true},
						{Name: "due_date", FieldName: "dueDate", SourceType: "Date", StorageType: "TIMESTAMP"},
						{Name: "title", FieldName: "title", SourceType: "String", StorageType: "VARCHAR(100)", Nullable: true},
						{Name: "asset", FieldName: "asset", SourceType: "Asset", StorageType: "VARCHAR(255)", Nullable: true, IsRelationship: true, Relationship: schema.ManyToOne, ForeignKeyName: "asset_id"},
						{Name: "tasks", FieldName: "tasks", SourceType: "List<Task>", StorageType: "VARCHAR(255)", Nullable: true, IsRelationship: true, Relationship: schema.OneToMany},
					},
				},
			},
		},
		{Name: "Inventory"},
		{
			Name: "People & Teams",
			Entities: []schema.Entity{
				{Name: "Role", StorageName: "role"},
				{
					Name:        "Team",
					StorageName: "team",
					Columns: []schema.Column{
						{Name: "name", FieldName: "name", SourceType: "String", StorageType: "VARCHAR(255)", Nullable: true},
						{Name: "createdAt", FieldName: "createdAt", SourceType: "Date", StorageType: "TIMESTAMP", Nullable: true},
					},
				},
			},
		},
	}
}

func TestGenerate(t *testing.T) {
	result, err := Generate(testGroups(),
		WithTitle("MMS Database Schema"),
		WithPurpose("Overview for dashboard development"),
		WithClock(fixedClock("2026-01-15 10:30:00")),
	)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	doc := string(result)

	expectedContains := []string{
		"# MMS Database Schema\n\n",
		"**Generated:** 2026-01-15 10:30:00  \n**Purpose:** Overview for dashboard development\n\n---\n\n",
		"## Table of Contents\n\n- [Work Management](#work-management)\n- [People & Teams](#people--teams)\n\n---\n\n",
		"## Work Management\n\n### WorkOrder (`work_order`)\n\n",
		"| Column | Type | Nullable | Description |\n|--------|------|----------|-------------|\n",
		"| `id` | BIGINT | ✗ | Unique ID |\n",
		"| `due_date` | TIMESTAMP | ✗ | Due date |\n",
		"| `title` | VARCHAR(100) | ✓ |  |\n",
		"| `asset_id` | VARCHAR(255) | ✓ | Asset (asset ID) |\n",
		"\n**Relationships:**\n- `tasks`: `List<Task>`\n",
		"## People & Teams\n\n### Role (`role`)\n\n",
		"### Team (`team`)",
		"| `createdAt` | TIMESTAMP | ✓ | Creation date |\n",
		"## Key Tables for Grafana Dashboards\n\n### Asset Monitoring\n\n```sql\n-- Assets with details\n",
		"LEFT JOIN reading r ON r.meter_id = m.id;\n```\n\n",
		"### Costs & Labor\n\n",
		"GROUP BY work_order_id;\n\n-- Part consumption\n",
	}

	for _, expected := range expectedContains {
		if !strings.Contains(doc, expected) {
			t.Errorf("Generated document does not contain expected string: %q", expected)
		}
	}

	if strings.Contains(doc, "## Inventory") || strings.Contains(doc, "#inventory") {
		t.Error("Empty group should not be rendered")
	}
	if strings.Contains(doc, "| `tasks` |") {
		t.Error("Collection relationship should not appear in the column table")
	}
}

func TestGenerateWithoutPurpose(t *testing.T) {
	result, err := GenerateString(nil, WithClock(fixedClock("2026-01-15 10:30:00")), WithQueryExamples(nil))
	if err != nil {
		t.Fatalf("GenerateString returned error: %v", err)
	}

	expected := "# Database Schema\n\n**Generated:** 2026-01-15 10:30:00\n\n---\n\n## Table of Contents\n\n\n---\n\n"
	if result != expected {
		t.Errorf("Unexpected output:\n%q\nwant:\n%q", result, expected)
	}
}

func TestGenerateIdempotentExceptTimestamp(t *testing.T) {
	first, err := GenerateString(testGroups(), WithClock(fixedClock("2026-01-15 10:30:00")))
	if err != nil {
		t.Fatalf("GenerateString returned error: %v", err)
	}
	second, err := GenerateString(testGroups(), WithClock(fixedClock("2026-02-01 08:00:00")))
	if err != nil {
		t.Fatalf("GenerateString returned error: %v", err)
	}

	firstLines := strings.Split(first, "\n")
	secondLines := strings.Split(second, "\n")
	if len(firstLines) != len(secondLines) {
		t.Fatalf("Line count differs: %d vs %d", len(firstLines), len(secondLines))
	}

	var diffs []int
	for i := range firstLines {
		if firstLines[i] != secondLines[i] {
			diffs = append(diffs, i)
		}
	}
	if len(diffs) != 1 || !strings.HasPrefix(firstLines[diffs[0]], "**Generated:**") {
		t.Errorf("Expected only the timestamp line to differ, got lines %v", diffs)
	}
}

func TestGenerateEveryEntityOnce(t *testing.T) {
	doc, err := GenerateString(testGroups(), WithQueryExamples(nil))
	if err != nil {
		t.Fatalf("GenerateString returned error: %v", err)
	}

	for _, heading := range []string{"### WorkOrder (`work_order`)", "### Team (`team`)", "### Role (`role`)"} {
		if n := strings.Count(doc, heading); n != 1 {
			t.Errorf("Heading %q appears %d times, want 1", heading, n)
		}
	}
}

func TestGenerateCustomQueryExamples(t *testing.T) {
	doc, err := GenerateString(nil,
		WithQuerySection("Reporting"),
		WithQueryExamples([]QueryExample{
			{Heading: "Open Orders", Snippets: []Snippet{{SQL: "SELECT id FROM work_order WHERE status = 'OPEN';\n"}}},
		}),
	)
	if err != nil {
		t.Fatalf("GenerateString returned error: %v", err)
	}

	expected := "---\n\n## Reporting\n\n### Open Orders\n\n```sql\nSELECT id FROM work_order WHERE status = 'OPEN';\n```\n\n"
	if !strings.HasSuffix(doc, expected) {
		t.Errorf("Document does not end with custom examples:\n%s", doc)
	}
	if strings.Contains(doc, "Asset Monitoring") {
		t.Error("Default examples should be replaced")
	}
}

func TestGenerateEscapesCells(t *testing.T) {
	groups := []category.Group{{
		Name: "Other",
		Entities: []schema.Entity{{
			Name:        "Flag",
			StorageName: "flag",
			Columns: []schema.Column{
				{Name: "mode", FieldName: "mode", StorageType: "VARCHAR(1) CHECK (mode = 'a'|'b')", Nullable: true},
			},
		}},
	}}

	doc, err := GenerateString(groups, WithDescriptions(map[string]string{"mode": "either a|b\nor c"}))
	if err != nil {
		t.Fatalf("GenerateString returned error: %v", err)
	}

	expected := "| `mode` | VARCHAR(1) CHECK (mode = 'a'\\|'b') | ✓ | either a\\|b or c |\n"
	if !strings.Contains(doc, expected) {
		t.Errorf("Expected escaped row %q in:\n%s", expected, doc)
	}
}

func TestGenerateRelationshipUsesFieldName(t *testing.T) {
	groups := []category.Group{{
		Name: "Other",
		Entities: []schema.Entity{{
			Name:        "Team",
			StorageName: "team",
			Columns: []schema.Column{
				{Name: "member_list", FieldName: "members", SourceType: "List<User>", StorageType: "VARCHAR(255)", Nullable: true, IsRelationship: true, Relationship: schema.OneToMany},
			},
		}},
	}}

	doc, err := GenerateString(groups)
	if err != nil {
		t.Fatalf("GenerateString returned error: %v", err)
	}

	expected := "**Relationships:**\n- `members`: `List<User>`\n"
	if !strings.Contains(doc, expected) {
		t.Errorf("Expected relationship bullet %q in:\n%s", expected, doc)
	}
	if strings.Contains(doc, "member_list") {
		t.Error("Relationship bullet should not use the column name override")
	}
}

func TestDescribe(t *testing.T) {
	descriptions := map[string]string{
		"due_date":  "Due date",
		"asset_id":  "Asset",
		"legacyRef": "Legacy reference",
	}

	tests := []struct {
		name     string
		column   schema.Column
		expected string
	}{
		{"display name", schema.Column{Name: "due_date", FieldName: "dueDate"}, "Due date"},
		{"snake case", schema.Column{Name: "dueDate", FieldName: "dueDate"}, "Due date"},
		{"foreign key", schema.Column{Name: "asset", FieldName: "asset", ForeignKeyName: "asset_id", IsRelationship: true}, "Asset"},
		{"field name", schema.Column{Name: "legacy_ref_col", FieldName: "legacyRef"}, "Legacy reference"},
		{"missing", schema.Column{Name: "other", FieldName: "other"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.column, descriptions); got != tt.expected {
				t.Errorf("Describe() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAnchor(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"Core Assets", "core-assets"},
		{"People & Teams", "people--teams"},
		{"Checklists & Tasks", "checklists--tasks"},
		{"Other", "other"},
	}

	for _, tt := range tests {
		if got := Anchor(tt.name); got != tt.expected {
			t.Errorf("Anchor(%q) = %q, want %q", tt.name, got, tt.expected)
		}
	}
}
