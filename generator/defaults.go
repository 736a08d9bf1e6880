package generator

// DefaultTitle is the document heading used when none is configured.
const DefaultTitle = "Database Schema"

// DefaultQuerySection is the heading of the closing query examples section.
const DefaultQuerySection = "Key Tables for Grafana Dashboards"

// QueryExample is a heading followed by one fenced SQL block.
type QueryExample struct {
	Heading  string    `hcl:"heading,label" yaml:"heading"`
	Snippets []Snippet `hcl:"snippet,block" yaml:"snippets"`
}

// Snippet is one commented statement inside a QueryExample.
type Snippet struct {
	Comment string `hcl:"comment,optional" yaml:"comment,omitempty"`
	SQL     string `hcl:"sql" yaml:"sql"`
}

// DefaultDescriptions maps common column names to a short description.
var DefaultDescriptions = map[string]string{
	"id":                     "Unique ID",
	"name":                   "Name",
	"description":            "Description",
	"created_at":             "Creation date",
	"updated_at":             "Last update date",
	"created_by":             "Created by (user ID)",
	"archived":               "Archived?",
	"status":                 "Status",
	"priority":               "Priority",
	"due_date":               "Due date",
	"completed_on":           "Completed on",
	"custom_id":              "Custom ID",
	"location_id":            "Location (location ID)",
	"asset_id":               "Asset (asset ID)",
	"work_order_id":          "Work order (work order ID)",
	"dashboard_url":          "Grafana dashboard URL",
	"dashboard_config":       "Dashboard configuration (JSON)",
	"alerting_dashboard_url": "Global alerting dashboard URL",
	"starts_on":              "Start time",
	"ends_on":                "End time",
	"duration":               "Duration",
	"value":                  "Value",
	"reading_date":           "Reading date",
	"quantity":               "Quantity",
	"cost":                   "Cost",
	"hourly_rate":            "Hourly rate",
}

// DefaultQueryExamples are illustrative queries for dashboard authors. They
// are static and never derived from scanned entities.
var DefaultQueryExamples = []QueryExample{
	{
		Heading: "Asset Monitoring",
		Snippets: []Snippet{
			{
				Comment: "Assets with details",
				SQL:     "SELECT id, name, custom_id, status, location_id, dashboard_url\nFROM asset\nWHERE archived = false;",
			},
			{
				Comment: "Asset downtimes",
				SQL:     "SELECT asset_id, starts_on, ends_on, duration, downtime_reason\nFROM asset_downtime;",
			},
			{
				Comment: "Work orders",
				SQL:     "SELECT id, title, status, priority, due_date, asset_id, completed_on\nFROM work_order;",
			},
			{
				Comment: "Meter readings",
				SQL:     "SELECT m.id, m.name, r.value, r.reading_date, m.asset_id\nFROM meter m\nLEFT JOIN reading r ON r.meter_id = m.id;",
			},
		},
	},
	{
		Heading: "Costs & Labor",
		Snippets: []Snippet{
			{
				Comment: "Labor time per work order",
				SQL:     "SELECT work_order_id, SUM(duration) AS total_hours, SUM(hourly_rate * duration) AS cost\nFROM labor\nGROUP BY work_order_id;",
			},
			{
				Comment: "Part consumption",
				SQL:     "SELECT p.name, pc.quantity, pc.work_order_id, pc.created_at\nFROM part_consumption pc\nJOIN part p ON p.id = pc.part_id;",
			},
		},
	},
}
