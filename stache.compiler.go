package stache

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/itsatony/go-stache/internal"
)

// Compiler is the entry point for the templating system. It owns the tag
// registry and turns template source into reusable generators.
type Compiler struct {
	registry *internal.Registry
	config   *compilerConfig
	logger   *zap.Logger
	tracer   trace.Tracer
}

// New creates a new Compiler with the built-in tags registered.
func New(opts ...Option) (*Compiler, error) {
	config := defaultCompilerConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	registry := internal.NewRegistry(logger)
	internal.RegisterBuiltins(registry)

	return &Compiler{
		registry: registry,
		config:   config,
		logger:   logger,
		tracer:   otel.Tracer(instrumentationName),
	}, nil
}

// MustNew creates a new Compiler and panics if there's an error.
func MustNew(opts ...Option) *Compiler {
	compiler, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return compiler
}

// RegisterTag installs a user tag definition. topLevel marks the tag as
// legal outside any parent; a non-top-level definition is legal only
// where a parent definition lists it among its child tags.
// Re-registration replaces the prior definition; generators compiled
// before the call are unaffected.
func (c *Compiler) RegisterTag(def TagDefinition, topLevel bool) error {
	if def == nil {
		return NewNilDefinitionError()
	}
	if def.Name() == "" {
		return NewEmptyTagNameError()
	}

	adapter := adaptDefinition(def)
	if err := c.registry.Register(adapter, topLevel); err != nil {
		return err
	}
	return nil
}

// MustRegisterTag installs a user tag definition and panics on error.
func (c *Compiler) MustRegisterTag(def TagDefinition, topLevel bool) {
	if err := c.RegisterTag(def, topLevel); err != nil {
		panic(err)
	}
}

// adaptDefinition wraps a public definition in the internal adapter
// matching its behavior. Definitions without behavior (subsection tags)
// carry grammar only.
func adaptDefinition(def TagDefinition) internal.TagSpec {
	meta := tagSpecAdapter{def: def}
	switch d := def.(type) {
	case BlockTag:
		return &blockTagAdapter{tagSpecAdapter: meta, block: d}
	case InlineTag:
		return &inlineTagAdapter{tagSpecAdapter: meta, inline: d}
	default:
		return &meta
	}
}

// Compile parses a template and builds its generator tree. The returned
// Generator can be rendered many times with different data.
func (c *Compiler) Compile(template string) (*Generator, error) {
	return c.CompileContext(context.Background(), template)
}

// CompileContext compiles with trace propagation from the caller's
// context.
func (c *Compiler) CompileContext(ctx context.Context, template string) (*Generator, error) {
	_, span := c.tracer.Start(ctx, SpanNameCompile,
		trace.WithAttributes(attribute.Int(AttrKeyTemplateLength, len(template))))
	defer span.End()

	lexer := internal.NewLexer(template, c.logger)
	tokens, err := lexer.Tokenize()
	if err != nil {
		wrapped := wrapParseError(err)
		span.RecordError(wrapped)
		span.SetStatus(codes.Error, ErrMsgParseFailed)
		return nil, wrapped
	}

	parser := internal.NewParser(tokens, c.registry, c.logger)
	root, err := parser.Parse()
	if err != nil {
		wrapped := wrapParseError(err)
		span.RecordError(wrapped)
		span.SetStatus(codes.Error, ErrMsgParseFailed)
		return nil, wrapped
	}

	return &Generator{
		source: template,
		root:   root,
		config: c.config,
		logger: c.logger,
		tracer: c.tracer,
	}, nil
}

// Render is a convenience that compiles and renders in one step. For
// templates rendered repeatedly, use Compile and keep the Generator.
func (c *Compiler) Render(ctx context.Context, template string, data any, opts ...RenderOption) (string, error) {
	gen, err := c.CompileContext(ctx, template)
	if err != nil {
		return "", err
	}
	return gen.Render(ctx, data, opts...)
}
