package bridge

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/wippyai/rosu-bridge/calc"
)

// Option configures a Bridge.
type Option func(*config)

type config struct {
	logger     *zap.Logger
	engine     calc.Engine
	registerer prometheus.Registerer
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithEngine replaces the built-in reference engine.
func WithEngine(e calc.Engine) Option {
	return func(c *config) {
		if e != nil {
			c.engine = e
		}
	}
}

// WithRegisterer registers the bridge metrics on reg instead of a private
// registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *config) {
		if reg != nil {
			c.registerer = reg
		}
	}
}
