package main

import (
	"fmt"
	"log"
	"os"

	"github.com/phillipfoxsmaflex/entitydoc"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./example <source_dir> [output_file]")
		fmt.Println("Example: go run ./example ./testdata/model DATABASE_STRUCTURE.md")
		os.Exit(1)
	}

	sourceDir := os.Args[1]
	outputFile := entitydoc.DefaultOutput
	if len(os.Args) > 2 {
		outputFile = os.Args[2]
	}

	fmt.Printf("Scanning %s...\n", sourceDir)

	config := &entitydoc.Config{
		SourceDir: sourceDir,
		Output:    outputFile,
		Purpose:   "Reference for dashboard queries",
	}

	result, err := entitydoc.WriteToFile(config)
	if err != nil {
		log.Fatalf("Failed to generate documentation: %v", err)
	}

	for _, failure := range result.Report.Failures {
		fmt.Printf("Skipped: %v\n", failure)
	}

	fmt.Printf("Wrote %s\n", outputFile)
	fmt.Printf("Entities: %d, files scanned: %d, files skipped: %d\n",
		result.Report.Entities, result.Report.Scanned, result.Report.Skipped)

	for _, group := range result.Groups {
		if len(group.Entities) == 0 {
			continue
		}
		fmt.Printf("  %s: %d\n", group.Name, len(group.Entities))
	}
}
