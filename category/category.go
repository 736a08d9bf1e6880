// Package category groups entities into named documentation sections.
//
// Categories are data: an ordered list of named member lists plus a residual
// category receiving every entity no list claims.
//
//	c, err := category.New(category.DefaultConfig())
//	groups := c.Categorize(entities)
package category

import (
	"fmt"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/phillipfoxsmaflex/entitydoc/schema"
)

// DefaultResidual is the residual category name used when none is configured.
const DefaultResidual = "Other"

// Category is a named list of entity class names.
type Category struct {
	Name    string   `hcl:"name,label"`
	Members []string `hcl:"members,optional"`
}

// Validate implements validation.Validatable.
func (c Category) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required),
	)
}

// Config holds the categorization rules.
type Config struct {
	// Categories are matched in order; the first category listing an entity's
	// name receives it.
	Categories []Category
	// Residual names the group for unlisted entities. Defaults to "Other".
	Residual string
}

// Validate implements validation.Validatable.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Categories, validation.By(uniqueNames)),
		validation.Field(&c.Residual, validation.Required, validation.By(notCategory(c.Categories))),
	)
}

func uniqueNames(value interface{}) error {
	categories, _ := value.([]Category)
	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		if seen[c.Name] {
			return fmt.Errorf("duplicate category %q", c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

func notCategory(categories []Category) validation.RuleFunc {
	return func(value interface{}) error {
		residual, _ := value.(string)
		for _, c := range categories {
			if c.Name == residual {
				return fmt.Errorf("must not name a declared category (%q)", residual)
			}
		}
		return nil
	}
}

// Group is one category with its entities, sorted by name.
type Group struct {
	Name     string          `yaml:"name"`
	Entities []schema.Entity `yaml:"entities"`
}

// Categorizer assigns entities to groups.
type Categorizer struct {
	categories []Category
	residual   string
	index      map[string]int
}

// New validates cfg and creates a Categorizer. An empty residual name is
// replaced by DefaultResidual.
func New(cfg Config) (*Categorizer, error) {
	if cfg.Residual == "" {
		cfg.Residual = DefaultResidual
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid category config: %w", err)
	}

	c := &Categorizer{
		categories: cfg.Categories,
		residual:   cfg.Residual,
		index:      make(map[string]int),
	}
	for i, category := range cfg.Categories {
		for _, member := range category.Members {
			if _, ok := c.index[member]; !ok {
				c.index[member] = i
			}
		}
	}
	return c, nil
}

// Categorize places every entity in exactly one group. Groups follow the
// configured order with the residual group last; empty groups are included.
func (c *Categorizer) Categorize(entities []schema.Entity) []Group {
	groups := make([]Group, len(c.categories)+1)
	for i, category := range c.categories {
		groups[i].Name = category.Name
	}
	residual := len(c.categories)
	groups[residual].Name = c.residual

	for _, e := range entities {
		i, ok := c.index[e.Name]
		if !ok {
			i = residual
		}
		groups[i].Entities = append(groups[i].Entities, e)
	}

	for i := range groups {
		sort.SliceStable(groups[i].Entities, func(a, b int) bool {
			ea, eb := groups[i].Entities[a], groups[i].Entities[b]
			if ea.Name != eb.Name {
				return ea.Name < eb.Name
			}
			return ea.StorageName < eb.StorageName
		})
	}
	return groups
}

// DefaultConfig returns the built-in maintenance-management categories.
func DefaultConfig() Config {
	return Config{
		Categories: []Category{
			{Name: "Core Assets", Members: []string{"Asset", "AssetCategory", "AssetDowntime", "AssetHotspot"}},
			{Name: "Work Management", Members: []string{"WorkOrder", "WorkOrderCategory", "WorkOrderHistory", "WorkOrderConfiguration", "PreventiveMaintenance", "Schedule"}},
			{Name: "Inventory", Members: []string{"Part", "PartCategory", "PartQuantity", "PartConsumption", "MultiParts"}},
			{Name: "Locations", Members: []string{"Location", "FloorPlan"}},
			{Name: "People & Teams", Members: []string{"OwnUser", "Team", "Role", "Customer", "Vendor", "ContractorEmployee"}},
			{Name: "Monitoring", Members: []string{"Meter", "Reading", "Labor"}},
			{Name: "Purchasing", Members: []string{"PurchaseOrder", "PurchaseOrderCategory", "AdditionalCost"}},
			{Name: "System", Members: []string{"Company", "CompanySettings", "GeneralPreferences", "UiConfiguration", "Notification"}},
			{Name: "Checklists & Tasks", Members: []string{"Checklist", "Task", "TaskBase", "TaskOption"}},
			{Name: "Workflows", Members: []string{"Workflow", "WorkflowAction", "WorkflowCondition"}},
			{Name: "Documents", Members: []string{"Document", "DocumentPermission", "File"}},
		},
		Residual: DefaultResidual,
	}
}
