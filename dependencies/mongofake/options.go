package mongofake

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/ti/mongofake/config"
	"github.com/ti/mongofake/log"
)

const defaultDatabase = "test"

type clientOptions struct {
	database   string
	logger     log.Logger
	registerer prometheus.Registerer
}

func evaluateOptions(opts []Option) *clientOptions {
	o := &clientOptions{database: defaultDatabase}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// Option the option for the fake client.
type Option func(*clientOptions)

// WithDatabaseName sets the name reported by Database.Name.
func WithDatabaseName(name string) Option {
	return func(o *clientOptions) {
		if name != "" {
			o.database = name
		}
	}
}

// WithLogger logs operations to logger instead of the logger found in the call context.
func WithLogger(logger log.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithRegisterer registers the operation counters on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *clientOptions) {
		o.registerer = reg
	}
}

// WithConfig applies a loaded config. Metrics go to the default prometheus registerer when
// enabled and no registerer was given.
func WithConfig(c *config.Fake) Option {
	return func(o *clientOptions) {
		if c == nil {
			return
		}
		if c.Database != "" {
			o.database = c.Database
		}
		if c.Metrics && o.registerer == nil {
			o.registerer = prometheus.DefaultRegisterer
		}
	}
}
