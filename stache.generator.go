package stache

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/itsatony/go-stache/internal"
)

// Generator is a compiled template. It is immutable after compilation:
// concurrent Render calls with independent data are safe as long as the
// injected format provider and property resolver are reentrant.
type Generator struct {
	source string
	root   *internal.RootNode
	config *compilerConfig
	logger *zap.Logger
	tracer trace.Tracer
}

// RenderOption overrides a capability for a single render call.
type RenderOption func(*renderConfig)

// renderConfig holds the per-render capability set.
type renderConfig struct {
	provider FormatProvider
	resolver PropertyResolver
}

// UsingFormatProvider overrides the format provider for this render.
func UsingFormatProvider(provider FormatProvider) RenderOption {
	return func(c *renderConfig) {
		if provider != nil {
			c.provider = provider
		}
	}
}

// UsingPropertyResolver overrides the property resolver for this render.
func UsingPropertyResolver(resolver PropertyResolver) RenderOption {
	return func(c *renderConfig) {
		if resolver != nil {
			c.resolver = resolver
		}
	}
}

// Source returns the original template source.
func (g *Generator) Source() string {
	return g.source
}

// Render walks the generator tree against the given data and returns the
// rendered output. The scope stack is seeded with data; the output
// buffer's lifetime ends with the call.
func (g *Generator) Render(ctx context.Context, data any, opts ...RenderOption) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	rc := renderConfig{
		provider: g.config.provider,
		resolver: g.config.resolver,
	}
	for _, opt := range opts {
		opt(&rc)
	}

	ctx, span := g.tracer.Start(ctx, SpanNameRender,
		trace.WithAttributes(attribute.Int(AttrKeyTemplateLength, len(g.source))))
	defer span.End()

	scopes := internal.NewScopeStack(data, internal.PropertyResolver(rc.resolver))

	var formatter internal.Formatter
	if rc.provider != nil {
		formatter = rc.provider
	}

	state := internal.NewState(scopes, formatter)
	renderer := internal.NewRenderer(internal.RendererConfig{MaxDepth: g.config.maxDepth}, g.logger)

	out, err := renderer.Render(ctx, g.root, state)
	if err != nil {
		wrapped := wrapRenderError(err)
		span.RecordError(wrapped)
		span.SetStatus(codes.Error, ErrMsgRenderFailed)
		return "", wrapped
	}

	span.SetAttributes(attribute.Int(AttrKeyOutputLength, len(out)))
	return out, nil
}
