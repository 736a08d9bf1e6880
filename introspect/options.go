package introspect

import (
	"time"

	"github.com/hashicorp/go-hclog"
)

// DefaultTimeout bounds the connection check and each catalog query.
const DefaultTimeout = 5 * time.Second

// Option configures probe behavior.
type Option func(*options)

type options struct {
	timeout time.Duration
	logger  hclog.Logger
}

func defaultOptions() *options {
	return &options{
		timeout: DefaultTimeout,
		logger:  hclog.NewNullLogger(),
	}
}

// WithTimeout sets the timeout for the connection check and each query.
// If not specified, defaults to DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithLogger sets the logger used for per-table results.
func WithLogger(logger hclog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
