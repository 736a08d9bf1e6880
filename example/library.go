//go:build ignore

// This file demonstrates various ways to use the entitydoc packages as a
// library.
// Run with: go run example/library.go <source_dir>
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/phillipfoxsmaflex/entitydoc"
	"github.com/phillipfoxsmaflex/entitydoc/category"
	"github.com/phillipfoxsmaflex/entitydoc/generator"
	"github.com/phillipfoxsmaflex/entitydoc/introspect"
	"github.com/phillipfoxsmaflex/entitydoc/parser"
	"github.com/phillipfoxsmaflex/entitydoc/scanner"
	"github.com/phillipfoxsmaflex/entitydoc/schema"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run example/library.go <source_dir>")
		fmt.Println("Example: go run example/library.go ./testdata/model")
		os.Exit(1)
	}

	sourceDir := os.Args[1]

	fmt.Println("=== Example 1: Basic Usage ===")
	basicUsage(sourceDir)

	fmt.Println("\n=== Example 2: Custom Type Mapping ===")
	customTypeMapping(sourceDir)

	fmt.Println("\n=== Example 3: Custom Categories ===")
	customCategories(sourceDir)

	fmt.Println("\n=== Example 4: Step by Step ===")
	stepByStep(sourceDir)

	fmt.Println("\n=== Example 5: Table Probe ===")
	tableProbe()
}

func basicUsage(sourceDir string) {
	result, err := entitydoc.Generate(&entitydoc.Config{SourceDir: sourceDir})
	if err != nil {
		log.Printf("Error: %v", err)
		return
	}

	fmt.Printf("Generated %d bytes for %d entities\n", len(result.Document), result.Report.Entities)
}

func customTypeMapping(sourceDir string) {
	config := &entitydoc.Config{
		SourceDir: sourceDir,
		TypeMappings: map[string]string{
			"Duration": "INTERVAL",
			"JsonNode": "JSONB",
		},
	}

	result, err := entitydoc.Generate(config)
	if err != nil {
		log.Printf("Error: %v", err)
		return
	}

	for _, entity := range result.Schema.Entities {
		for _, column := range entity.DataColumns() {
			fmt.Printf("%s.%s: %s\n", entity.StorageName, column.DisplayName(), column.StorageType)
		}
	}
}

func customCategories(sourceDir string) {
	config := &entitydoc.Config{
		SourceDir: sourceDir,
		Categories: &category.Config{
			Categories: []category.Category{
				{Name: "Maintenance", Members: []string{"WorkOrder", "Asset", "AssetDowntime"}},
				{Name: "Safety", Members: []string{"SafetyInstruction"}},
			},
			Residual: "Everything Else",
		},
		QueryExamples: []generator.QueryExample{},
	}

	result, err := entitydoc.Generate(config)
	if err != nil {
		log.Printf("Error: %v", err)
		return
	}

	for _, group := range result.Groups {
		fmt.Printf("%s: %d entities\n", group.Name, len(group.Entities))
	}
}

func stepByStep(sourceDir string) {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "example",
		Level: hclog.Debug,
	})

	// Step 1: Find candidate sources
	scanned, err := scanner.New(scanner.WithLogger(logger.Named("scanner"))).Scan(sourceDir)
	if err != nil {
		log.Printf("Error scanning: %v", err)
		return
	}
	if err := scanned.Err(); err != nil {
		log.Printf("Some files were skipped: %v", err)
	}

	// Step 2: Parse entities
	p := parser.New(parser.WithLogger(logger.Named("parser")))
	var entities []schema.Entity
	for _, src := range scanned.Sources {
		entity, err := p.Parse(src.Path, src.Content)
		if err != nil {
			continue
		}
		entities = append(entities, *entity)
	}
	schema.SortEntities(entities)

	// Step 3: Categorize
	categorizer, err := category.New(category.DefaultConfig())
	if err != nil {
		log.Printf("Error: %v", err)
		return
	}
	groups := categorizer.Categorize(entities)

	// Step 4: Render
	document, err := generator.GenerateString(groups, generator.WithTitle("Step by Step"))
	if err != nil {
		log.Printf("Error rendering: %v", err)
		return
	}

	fmt.Printf("Rendered %d entities into %d characters\n", len(entities), len(document))
}

func tableProbe() {
	if err := introspect.LoadEnv(); err != nil {
		log.Printf("Error: %v", err)
		return
	}
	cfg, err := introspect.ConnConfigFromEnv()
	if err != nil {
		log.Printf("Error: %v", err)
		return
	}

	status, err := introspect.Probe(context.Background(), cfg, []string{"safety_instruction"})
	if err != nil {
		fmt.Printf("Status: %s (%v)\n", status, err)
		return
	}
	fmt.Printf("Status: %s (exit code %d)\n", status, status.ExitCode())
}
