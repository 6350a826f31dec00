package stache

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring the Compiler.
type Option func(*compilerConfig)

// compilerConfig holds the internal configuration for a Compiler.
type compilerConfig struct {
	logger   *zap.Logger
	maxDepth int
	provider FormatProvider
	resolver PropertyResolver
}

// defaultCompilerConfig returns the default compiler configuration.
func defaultCompilerConfig() *compilerConfig {
	return &compilerConfig{
		logger:   nil,
		maxDepth: DefaultMaxDepth,
		provider: DefaultFormatProvider(),
		resolver: ReflectResolver(),
	}
}

// WithLogger sets the logger for the compiler and everything it builds.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *compilerConfig) {
		c.logger = logger
	}
}

// WithMaxDepth sets the maximum body nesting depth during rendering.
// Use 0 for unlimited depth.
// Default: 100
func WithMaxDepth(depth int) Option {
	return func(c *compilerConfig) {
		c.maxDepth = depth
	}
}

// WithFormatProvider sets the format provider applied to format
// specifiers during rendering.
// Default: DefaultFormatProvider()
func WithFormatProvider(provider FormatProvider) Option {
	return func(c *compilerConfig) {
		if provider != nil {
			c.provider = provider
		}
	}
}

// WithPropertyResolver sets the property resolver used for path lookup
// during rendering.
// Default: ReflectResolver()
func WithPropertyResolver(resolver PropertyResolver) Option {
	return func(c *compilerConfig) {
		if resolver != nil {
			c.resolver = resolver
		}
	}
}
