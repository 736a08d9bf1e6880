package scanner

import (
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
)

// DefaultMarker is the text a source must contain to be considered.
const DefaultMarker = "@Entity"

// DefaultExtensions are the file extensions scanned when none are configured.
var DefaultExtensions = []string{".java"}

// DefaultExcludeDirs are directory names never descended into.
var DefaultExcludeDirs = []string{".git", "target", "build", "node_modules"}

// NormalizeExtension lowercases ext and adds a missing leading dot, giving
// the form filepath.Ext produces.
func NormalizeExtension(ext string) string {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return strings.ToLower(ext)
}

// Option configures scanner behavior.
type Option func(*options)

type options struct {
	fs          afero.Fs
	extensions  []string
	marker      string
	excludeDirs []string
	logger      hclog.Logger
}

func defaultOptions() *options {
	return &options{
		fs:          afero.NewOsFs(),
		extensions:  DefaultExtensions,
		marker:      DefaultMarker,
		excludeDirs: DefaultExcludeDirs,
		logger:      hclog.NewNullLogger(),
	}
}

// WithFs sets the filesystem to scan. Defaults to the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		if fs != nil {
			o.fs = fs
		}
	}
}

// WithExtensions sets the file extensions to consider (e.g., ".java").
// An empty list keeps the default.
func WithExtensions(extensions ...string) Option {
	return func(o *options) {
		if len(extensions) > 0 {
			o.extensions = extensions
		}
	}
}

// WithMarker sets the text that identifies candidate sources.
func WithMarker(marker string) Option {
	return func(o *options) {
		if marker != "" {
			o.marker = marker
		}
	}
}

// WithExcludeDirs replaces the directory names skipped during the walk.
func WithExcludeDirs(dirs ...string) Option {
	return func(o *options) {
		o.excludeDirs = dirs
	}
}

// WithLogger sets the logger used to report skipped files.
func WithLogger(logger hclog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
