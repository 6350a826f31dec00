package stache

import (
	"context"

	"github.com/itsatony/go-stache/internal"
)

// TagParameter describes one parameter of a tag definition. Arguments
// bind positionally: required parameters must be supplied, optional ones
// take Default, and a trailing variadic parameter absorbs the remaining
// arguments.
type TagParameter struct {
	Name     string
	Required bool
	Default  any
	Variadic bool
}

// TagDefinition describes a tag's name and grammar. A definition must
// additionally implement InlineTag or BlockTag to carry behavior;
// subsection tags (legal only inside a parent's child set, like the
// built-in elif/else) need neither.
type TagDefinition interface {
	// Name returns the tag name (case-sensitive)
	Name() string

	// ContextSensitive reports whether the tag opens a new scope for its
	// body
	ContextSensitive() bool

	// HasCloser reports whether the tag is paired with a {{/NAME}} closer
	HasCloser() bool

	// Parameters returns the ordered parameter list arguments bind to
	Parameters() []TagParameter

	// ChildTags returns the names of subsection/child tags accepted
	// between this tag's opener and closer
	ChildTags() []string
}

// InlineTag is a tag without a closer that produces text directly
type InlineTag interface {
	TagDefinition

	// Text produces the tag's output from its bound arguments
	Text(ctx context.Context, provider FormatProvider, args Arguments) (string, error)
}

// BlockTag is a paired tag that orchestrates rendering of its body
type BlockTag interface {
	TagDefinition

	// RenderBody is invoked with the scope stack, the bound arguments,
	// and a handle for rendering the primary body and named subsections
	// into the output buffer
	RenderBody(ctx context.Context, scope *Scope, args Arguments, body Body) error
}

// Arguments provides read-only access to a tag's bound arguments
type Arguments interface {
	// Get retrieves an argument value.
	// Returns the value and true if bound, or empty string and false if not.
	Get(name string) (string, bool)

	// GetDefault retrieves an argument value with a fallback
	GetDefault(name, defaultVal string) string

	// GetAll retrieves a variadic argument's values
	GetAll(name string) []string

	// Has checks if an argument is bound
	Has(name string) bool

	// Keys returns all bound argument names in sorted order
	Keys() []string
}

// Body gives a block tag access to its primary body and subsections
type Body interface {
	// Render renders the primary body into the output buffer
	Render(ctx context.Context) error

	// Sections returns the subsections in source order
	Sections() []BodySection
}

// BodySection is one named subsection captured between a tag's opener and
// closer
type BodySection interface {
	// Tag returns the subsection's tag name
	Tag() string

	// Arguments returns the subsection's bound arguments
	Arguments() Arguments

	// Render renders the subsection's body into the output buffer
	Render(ctx context.Context) error
}

// Scope is the stack of lookup contexts a block tag renders against.
// Context-sensitive tags must pair every Push with a Pop on all exit
// paths.
type Scope struct {
	stack *internal.ScopeStack
}

// Push adds a value as the new innermost scope
func (s *Scope) Push(v any) {
	s.stack.Push(v)
}

// Pop removes and returns the innermost scope
func (s *Scope) Pop() any {
	return s.stack.Pop()
}

// Current returns the innermost scope
func (s *Scope) Current() any {
	return s.stack.Current()
}

// Resolve looks up a dotted path against the stack. "this" names the
// current scope; bare names probe outward from the innermost frame;
// dotted paths drill downward from their anchor.
func (s *Scope) Resolve(path string) (any, error) {
	v, err := s.stack.Resolve(path)
	if err != nil {
		return nil, wrapRenderError(err)
	}
	return v, nil
}

// Truthy resolves a path and reports the value's truthiness
func (s *Scope) Truthy(path string) (bool, error) {
	v, err := s.Resolve(path)
	if err != nil {
		return false, err
	}
	return Truth(v), nil
}

// Truth reports a value's truthiness: false, nil, and empty sequences are
// false; everything else is true.
func Truth(v any) bool {
	return internal.Truth(v)
}

// tagSpecAdapter adapts a public TagDefinition to internal.TagSpec
type tagSpecAdapter struct {
	def TagDefinition
}

func (a *tagSpecAdapter) Name() string {
	return a.def.Name()
}

func (a *tagSpecAdapter) ContextSensitive() bool {
	return a.def.ContextSensitive()
}

func (a *tagSpecAdapter) HasCloser() bool {
	return a.def.HasCloser()
}

func (a *tagSpecAdapter) Parameters() []internal.Parameter {
	params := a.def.Parameters()
	result := make([]internal.Parameter, len(params))
	for i, p := range params {
		result[i] = internal.Parameter{
			Name:     p.Name,
			Required: p.Required,
			Default:  p.Default,
			Variadic: p.Variadic,
		}
	}
	return result
}

func (a *tagSpecAdapter) ChildTags() []string {
	return a.def.ChildTags()
}

// inlineTagAdapter adapts an InlineTag to internal.InlineSpec
type inlineTagAdapter struct {
	tagSpecAdapter
	inline InlineTag
}

func (a *inlineTagAdapter) Text(ctx context.Context, formatter internal.Formatter, args internal.Arguments) (string, error) {
	var provider FormatProvider
	if formatter != nil {
		provider = formatter
	}
	return a.inline.Text(ctx, provider, &argumentsAdapter{args: args})
}

// blockTagAdapter adapts a BlockTag to internal.BlockSpec
type blockTagAdapter struct {
	tagSpecAdapter
	block BlockTag
}

func (a *blockTagAdapter) RenderBlock(ctx context.Context, state *internal.State, args internal.Arguments, body *internal.BodyHandle) error {
	return a.block.RenderBody(ctx, &Scope{stack: state.Scopes}, &argumentsAdapter{args: args}, &bodyAdapter{handle: body})
}

// argumentsAdapter wraps internal.Arguments to implement the public
// Arguments interface
type argumentsAdapter struct {
	args internal.Arguments
}

func (a *argumentsAdapter) Get(name string) (string, bool) {
	v, ok := a.args.Get(name)
	if !ok {
		return "", false
	}
	return internal.Stringify(v), true
}

func (a *argumentsAdapter) GetDefault(name, defaultVal string) string {
	if v, ok := a.Get(name); ok {
		return v
	}
	return defaultVal
}

func (a *argumentsAdapter) GetAll(name string) []string {
	return a.args.GetStrings(name)
}

func (a *argumentsAdapter) Has(name string) bool {
	return a.args.Has(name)
}

func (a *argumentsAdapter) Keys() []string {
	return a.args.Keys()
}

// bodyAdapter wraps an internal body handle for public block tags
type bodyAdapter struct {
	handle *internal.BodyHandle
}

func (b *bodyAdapter) Render(ctx context.Context) error {
	return b.handle.Render(ctx)
}

func (b *bodyAdapter) Sections() []BodySection {
	handles := b.handle.Sections()
	sections := make([]BodySection, len(handles))
	for i := range handles {
		sections[i] = &sectionAdapter{handle: handles[i]}
	}
	return sections
}

// sectionAdapter wraps an internal section handle
type sectionAdapter struct {
	handle internal.SectionHandle
}

func (s *sectionAdapter) Tag() string {
	return s.handle.Name()
}

func (s *sectionAdapter) Arguments() Arguments {
	return &argumentsAdapter{args: s.handle.Args()}
}

func (s *sectionAdapter) Render(ctx context.Context) error {
	return s.handle.Render(ctx)
}
