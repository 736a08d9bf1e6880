package entitydoc

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/phillipfoxsmaflex/entitydoc/category"
	"github.com/phillipfoxsmaflex/entitydoc/generator"
	"github.com/phillipfoxsmaflex/entitydoc/parser"
	"github.com/phillipfoxsmaflex/entitydoc/scanner"
	"github.com/phillipfoxsmaflex/entitydoc/schema"
	"github.com/phillipfoxsmaflex/entitydoc/typemap"
)

// DefaultOutput is the document path used when Config.Output is empty.
const DefaultOutput = "DATABASE_STRUCTURE.md"

// Config holds the settings of one documentation run.
type Config struct {
	// SourceDir is the root of the entity source tree. Required.
	SourceDir string
	// Output is the Markdown document path written by WriteToFile.
	Output string
	// ModelOutput, when set, is the path of a YAML dump of the categorized
	// model written by WriteToFile.
	ModelOutput string

	// Extensions and Marker select candidate sources. Empty values use the
	// scanner defaults (".java", "@Entity").
	Extensions []string
	Marker     string
	// ExcludeDirs replaces the scanner's skipped directory names when non-nil.
	ExcludeDirs []string
	// ExcludeEntities drops entities by class or storage name.
	ExcludeEntities []string

	// TypeMappings overrides individual Java to SQL type mappings.
	TypeMappings map[string]string
	// TypeMapper replaces the type mapper entirely. Takes precedence over
	// TypeMappings.
	TypeMapper typemap.TypeMapper

	// Categories defines the document sections. Nil uses
	// category.DefaultConfig().
	Categories *category.Config
	// Descriptions replaces the column description table when non-nil.
	Descriptions map[string]string
	// QueryExamples replaces the closing query examples when non-nil. An empty
	// non-nil slice omits the section.
	QueryExamples []generator.QueryExample
	// QuerySection is the heading of the query examples section.
	QuerySection string

	Title   string
	Purpose string
}

// Report summarizes what a run consumed.
type Report struct {
	// Scanned counts files with a matching extension.
	Scanned int
	// Entities counts entities in the document.
	Entities int
	// Skipped counts files without an entity declaration.
	Skipped int
	// Excluded counts entities removed by ExcludeEntities.
	Excluded int
	// Failures holds non-fatal errors such as unreadable files.
	Failures []error
}

// Result is the outcome of Generate.
type Result struct {
	Document []byte
	Schema   *schema.Schema
	Groups   []category.Group
	Report   Report
}

// Generate scans cfg.SourceDir, parses every entity source, categorizes the
// entities and renders the document. Unreadable files and non-entity sources
// are skipped and reported; only configuration errors are returned.
func Generate(cfg *Config, opts ...Option) (*Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if cfg == nil || cfg.SourceDir == "" {
		return nil, errors.New("source directory is required")
	}

	categoryConfig := category.DefaultConfig()
	if cfg.Categories != nil {
		categoryConfig = *cfg.Categories
	}
	categorizer, err := category.New(categoryConfig)
	if err != nil {
		return nil, err
	}

	scanOpts := []scanner.Option{
		scanner.WithFs(o.fs),
		scanner.WithExtensions(cfg.Extensions...),
		scanner.WithMarker(cfg.Marker),
		scanner.WithLogger(o.logger.Named("scanner")),
	}
	if cfg.ExcludeDirs != nil {
		scanOpts = append(scanOpts, scanner.WithExcludeDirs(cfg.ExcludeDirs...))
	}
	scanned, err := scanner.New(scanOpts...).Scan(cfg.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan sources: %w", err)
	}

	report := Report{
		Scanned:  scanned.Scanned,
		Skipped:  scanned.Skipped,
		Failures: scanned.Failures,
	}

	mapper := cfg.TypeMapper
	if mapper == nil {
		mapper = typemap.NewJavaTypeMapper(cfg.TypeMappings)
	}
	p := parser.New(
		parser.WithTypeMapper(mapper),
		parser.WithLogger(o.logger.Named("parser")),
	)

	parsed := &schema.Schema{Entities: make([]schema.Entity, 0, len(scanned.Sources))}
	for _, src := range scanned.Sources {
		entity, err := p.Parse(src.Path, src.Content)
		if errors.Is(err, parser.ErrNotAnEntity) {
			o.logger.Debug("skipping source without entity declaration", "path", src.Path)
			report.Skipped++
			continue
		}
		if err != nil {
			report.Failures = append(report.Failures, err)
			continue
		}
		parsed.Entities = append(parsed.Entities, *entity)
	}

	filtered := parsed
	if len(cfg.ExcludeEntities) > 0 {
		filtered = schema.FilterEntities(parsed, cfg.ExcludeEntities)
	}
	report.Excluded = len(parsed.Entities) - len(filtered.Entities)
	report.Entities = len(filtered.Entities)
	schema.SortEntities(filtered.Entities)

	groups := categorizer.Categorize(filtered.Entities)

	genOpts := []generator.Option{
		generator.WithTitle(cfg.Title),
		generator.WithPurpose(cfg.Purpose),
		generator.WithClock(o.clock),
		generator.WithQuerySection(cfg.QuerySection),
	}
	if cfg.Descriptions != nil {
		genOpts = append(genOpts, generator.WithDescriptions(cfg.Descriptions))
	}
	if cfg.QueryExamples != nil {
		genOpts = append(genOpts, generator.WithQueryExamples(cfg.QueryExamples))
	}
	document, err := generator.Generate(groups, genOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to render document: %w", err)
	}

	o.logger.Debug("generated document",
		"entities", report.Entities,
		"scanned", report.Scanned,
		"skipped", report.Skipped,
		"failures", len(report.Failures),
	)

	return &Result{
		Document: document,
		Schema:   filtered,
		Groups:   groups,
		Report:   report,
	}, nil
}

// WriteToFile runs Generate and writes the document to cfg.Output (default
// DefaultOutput), creating parent directories. When cfg.ModelOutput is set the
// categorized model is also written as YAML.
func WriteToFile(cfg *Config, opts ...Option) (*Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	result, err := Generate(cfg, opts...)
	if err != nil {
		return nil, err
	}

	output := cfg.Output
	if output == "" {
		output = DefaultOutput
	}
	if err := writeFile(o.fs, output, result.Document); err != nil {
		return nil, err
	}
	o.logger.Info("documentation written", "path", output, "entities", result.Report.Entities, "bytes", len(result.Document))

	if cfg.ModelOutput != "" {
		model, err := MarshalModel(result.Groups)
		if err != nil {
			return nil, err
		}
		if err := writeFile(o.fs, cfg.ModelOutput, model); err != nil {
			return nil, err
		}
		o.logger.Info("model written", "path", cfg.ModelOutput)
	}

	return result, nil
}

type modelDocument struct {
	Categories []category.Group `yaml:"categories"`
}

// MarshalModel encodes the non-empty groups as YAML.
func MarshalModel(groups []category.Group) ([]byte, error) {
	doc := modelDocument{Categories: make([]category.Group, 0, len(groups))}
	for _, g := range groups {
		if len(g.Entities) > 0 {
			doc.Categories = append(doc.Categories, g)
		}
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode model: %w", err)
	}
	return out, nil
}

func writeFile(fs afero.Fs, path string, content []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(fs, path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
