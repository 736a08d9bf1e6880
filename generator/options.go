package generator

import "time"

// Option configures document rendering.
type Option func(*options)

type options struct {
	title         string
	purpose       string
	clock         func() time.Time
	descriptions  map[string]string
	querySection  string
	queryExamples []QueryExample
}

func defaultOptions() *options {
	return &options{
		title:         DefaultTitle,
		clock:         time.Now,
		descriptions:  DefaultDescriptions,
		querySection:  DefaultQuerySection,
		queryExamples: DefaultQueryExamples,
	}
}

// WithTitle sets the document heading.
func WithTitle(title string) Option {
	return func(o *options) {
		if title != "" {
			o.title = title
		}
	}
}

// WithPurpose adds a purpose line below the generation timestamp.
func WithPurpose(purpose string) Option {
	return func(o *options) {
		o.purpose = purpose
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

// WithDescriptions replaces the column description table. Keys are column
// names, preferably in snake_case.
func WithDescriptions(descriptions map[string]string) Option {
	return func(o *options) {
		o.descriptions = descriptions
	}
}

// WithQueryExamples replaces the closing query examples. An empty list
// omits the section.
func WithQueryExamples(examples []QueryExample) Option {
	return func(o *options) {
		o.queryExamples = examples
	}
}

// WithQuerySection sets the heading of the query examples section.
func WithQuerySection(heading string) Option {
	return func(o *options) {
		if heading != "" {
			o.querySection = heading
		}
	}
}
