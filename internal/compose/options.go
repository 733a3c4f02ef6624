package compose

import (
	"io"

	"github.com/charmbracelet/log"
)

// Option configures Compose.
type Option func(*options)

type options struct {
	logger *log.Logger
}

// discardLogger is used when no logger is configured.
var discardLogger = log.New(io.Discard)

// WithLogger sets the logger a class reports composition and activation
// events to. Subclasses inherit their parent's logger unless overridden.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(parent *Class, opts []Option) options {
	o := options{logger: discardLogger}
	if parent != nil {
		o.logger = parent.logger
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
