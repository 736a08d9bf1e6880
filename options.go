package entitydoc

import (
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
)

// Option configures a pipeline run.
type Option func(*options)

type options struct {
	fs     afero.Fs
	logger hclog.Logger
	clock  func() time.Time
}

func defaultOptions() *options {
	return &options{
		fs:     afero.NewOsFs(),
		logger: hclog.NewNullLogger(),
		clock:  time.Now,
	}
}

// WithFs sets the filesystem used for scanning and writing output.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		if fs != nil {
			o.fs = fs
		}
	}
}

// WithLogger sets the root logger. Components log through named sub-loggers.
func WithLogger(logger hclog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock sets the time source for the generation timestamp.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}
