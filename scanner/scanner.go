// Package scanner finds candidate entity sources below a directory.
//
// A file is a candidate when its extension is configured and its content
// contains the entity marker. Files that cannot be read are recorded as
// failures and skipped; a scan never aborts because of a single bad file.
//
// Basic usage:
//
//	result, err := scanner.New(scanner.WithLogger(logger)).Scan("src/main/java")
//	if err != nil {
//	    return err // missing or invalid root
//	}
//	for _, src := range result.Sources {
//	    ...
//	}
package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
)

// ErrUnreadableSource is matched by every *SourceError.
var ErrUnreadableSource = errors.New("unreadable source")

// SourceError records a file or directory that could not be read.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Is reports whether target is ErrUnreadableSource.
func (e *SourceError) Is(target error) bool {
	return target == ErrUnreadableSource
}

// Source is the raw text of one candidate file.
type Source struct {
	Path    string
	Content string
}

// Result is the outcome of a scan.
type Result struct {
	// Sources contains the candidate files, sorted by path.
	Sources []Source
	// Scanned counts files with a matching extension.
	Scanned int
	// Skipped counts readable files without the entity marker.
	Skipped int
	// Failures contains one *SourceError per unreadable file or directory.
	Failures []error
}

// Err aggregates the non-fatal failures of the scan, or returns nil.
func (r *Result) Err() error {
	var merr *multierror.Error
	for _, f := range r.Failures {
		merr = multierror.Append(merr, f)
	}
	return merr.ErrorOrNil()
}

// Scanner walks a directory tree for candidate sources.
type Scanner struct {
	fs          afero.Fs
	extensions  map[string]bool
	marker      string
	excludeDirs map[string]bool
	logger      hclog.Logger
}

// New creates a Scanner.
func New(opts ...Option) *Scanner {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	s := &Scanner{
		fs:          o.fs,
		extensions:  make(map[string]bool),
		marker:      o.marker,
		excludeDirs: make(map[string]bool),
		logger:      o.logger,
	}
	for _, ext := range o.extensions {
		s.extensions[NormalizeExtension(ext)] = true
	}
	for _, dir := range o.excludeDirs {
		s.excludeDirs[dir] = true
	}
	return s
}

// Scan walks root recursively. It returns an error only when root does not
// exist or is not a directory.
func (s *Scanner) Scan(root string) (*Result, error) {
	info, err := s.fs.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open source root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source root %s is not a directory", root)
	}

	result := &Result{}
	err = afero.Walk(s.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			s.fail(result, path, err)
			return nil
		}

		if info.IsDir() {
			if path != root && s.excludeDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		if !s.extensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		result.Scanned++

		content, err := afero.ReadFile(s.fs, path)
		if err != nil {
			s.fail(result, path, err)
			return nil
		}

		text := string(content)
		if !strings.Contains(text, s.marker) {
			result.Skipped++
			return nil
		}

		result.Sources = append(result.Sources, Source{Path: path, Content: text})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Slice(result.Sources, func(i, j int) bool {
		return result.Sources[i].Path < result.Sources[j].Path
	})

	s.logger.Debug("scan complete", "root", root, "scanned", result.Scanned, "sources", len(result.Sources), "failures", len(result.Failures))
	return result, nil
}

func (s *Scanner) fail(result *Result, path string, err error) {
	s.logger.Warn("skipping unreadable source", "path", path, "error", err)
	result.Failures = append(result.Failures, &SourceError{Path: path, Err: err})
}
