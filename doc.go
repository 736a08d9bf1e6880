// Package entitydoc generates a Markdown reference of the relational schema
// implied by annotated Java entity classes.
//
// Sources below a directory are scanned for the @Entity marker, parsed into
// entities and columns, grouped into categories and rendered as one document
// with a table of contents, per-entity column tables and a closing section of
// example queries.
//
// # Basic Usage
//
//	import "github.com/phillipfoxsmaflex/entitydoc"
//
//	result, err := entitydoc.WriteToFile(&entitydoc.Config{
//	    SourceDir: "api/src/main/java/com/grash/model",
//	    Output:    "DATABASE_STRUCTURE.md",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d entities documented\n", result.Report.Entities)
//
// # Configuration
//
// Config customizes candidate selection, type mapping, categories and the
// document text:
//
//	cfg := &entitydoc.Config{
//	    SourceDir:       "model",
//	    ExcludeEntities: []string{"Migration"},
//	    TypeMappings:    map[string]string{"Duration": "INTERVAL"},
//	    Categories: &category.Config{
//	        Categories: []category.Category{
//	            {Name: "Core Assets", Members: []string{"Asset", "AssetCategory"}},
//	        },
//	    },
//	    Title: "MMS Database Schema",
//	}
//	result, err := entitydoc.Generate(cfg)
//
// # Subpackages
//
// For advanced use cases, consider using the subpackages directly:
//
//   - github.com/phillipfoxsmaflex/entitydoc/schema - Entity and column model
//   - github.com/phillipfoxsmaflex/entitydoc/scanner - Candidate source discovery
//   - github.com/phillipfoxsmaflex/entitydoc/parser - Annotation parsing
//   - github.com/phillipfoxsmaflex/entitydoc/typemap - Java to SQL type mapping
//   - github.com/phillipfoxsmaflex/entitydoc/category - Section grouping
//   - github.com/phillipfoxsmaflex/entitydoc/generator - Markdown rendering
//   - github.com/phillipfoxsmaflex/entitydoc/watch - Regeneration on change
//   - github.com/phillipfoxsmaflex/entitydoc/introspect - Table-existence probe
package entitydoc
