package internal

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// RendererConfig holds renderer configuration options
type RendererConfig struct {
	MaxDepth int // Maximum body nesting depth during rendering (0 = unlimited)
}

// DefaultRendererConfig returns the default renderer configuration
func DefaultRendererConfig() RendererConfig {
	return RendererConfig{
		MaxDepth: DefaultMaxDepth,
	}
}

// Renderer walks a generator tree and produces output by invoking tag
// behaviors against a scope stack
type Renderer struct {
	config RendererConfig
	logger *zap.Logger
}

// NewRenderer creates a new renderer
func NewRenderer(config RendererConfig, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgRendererCreated)
	return &Renderer{
		config: config,
		logger: logger,
	}
}

// State is the transient per-render state: the scope stack, the format
// capability, and the output buffer. Its lifetime ends with the render
// call.
type State struct {
	Scopes    *ScopeStack
	Formatter Formatter
	out       strings.Builder
	logger    *zap.Logger
}

// NewState creates a render state for one invocation
func NewState(scopes *ScopeStack, formatter Formatter) *State {
	return &State{
		Scopes:    scopes,
		Formatter: formatter,
	}
}

// Logger returns the logger the owning renderer installed
func (st *State) Logger() *zap.Logger {
	if st.logger == nil {
		return zap.NewNop()
	}
	return st.logger
}

// Write appends text to the output buffer
func (st *State) Write(s string) {
	st.out.WriteString(s)
}

// Output returns the accumulated output
func (st *State) Output() string {
	return st.out.String()
}

// Render walks the tree and returns the rendered output
func (r *Renderer) Render(ctx context.Context, root *RootNode, st *State) (string, error) {
	r.logger.Debug(LogMsgRendererStart)
	st.logger = r.logger

	if err := r.renderNodes(ctx, root.Children, st, 0); err != nil {
		return StringValueEmpty, err
	}

	r.logger.Debug(LogMsgRendererEnd)
	return st.Output(), nil
}

// renderNodes processes a slice of nodes in order
func (r *Renderer) renderNodes(ctx context.Context, nodes []Node, st *State, depth int) error {
	if r.config.MaxDepth > 0 && depth > r.config.MaxDepth {
		return &RenderError{
			Code:    CodeMaxDepth,
			Message: ErrMsgMaxDepthExceeded,
		}
	}

	for _, node := range nodes {
		if err := r.renderNode(ctx, node, st, depth); err != nil {
			return err
		}
	}
	return nil
}

// renderNode processes a single node
func (r *Renderer) renderNode(ctx context.Context, node Node, st *State, depth int) error {
	switch n := node.(type) {
	case *StaticNode:
		st.Write(n.Text)
		return nil

	case *PlaceholderNode:
		return r.renderPlaceholder(n, st)

	case *CompoundNode:
		return r.renderCompound(ctx, n, st, depth)

	default:
		return &RenderError{
			Code:     CodeBadBehavior,
			Message:  ErrMsgUnknownNodeType,
			Position: node.Pos(),
		}
	}
}

// renderPlaceholder resolves a key path and appends its formatted value
func (r *Renderer) renderPlaceholder(n *PlaceholderNode, st *State) error {
	value, err := st.Scopes.Resolve(n.Path)
	if err != nil {
		return r.wrapResolve(err, n.Pos())
	}

	s, err := FormatValue(st.Formatter, value, n.Alignment, n.Format)
	if err != nil {
		return positionError(err, n.Pos())
	}

	st.Write(s)
	return nil
}

// renderCompound dispatches a compound node to its definition's behavior
func (r *Renderer) renderCompound(ctx context.Context, n *CompoundNode, st *State, depth int) error {
	r.logger.Debug(LogMsgTagInvoked, zap.String(LogFieldTag, n.Spec.Name()))

	switch spec := n.Spec.(type) {
	case BlockSpec:
		body := &BodyHandle{renderer: r, node: n, state: st, depth: depth}
		if err := spec.RenderBlock(ctx, st, n.Args, body); err != nil {
			return positionError(err, n.Pos())
		}

	case InlineSpec:
		text, err := spec.Text(ctx, st.Formatter, n.Args)
		if err != nil {
			return positionError(err, n.Pos())
		}
		st.Write(text)

	default:
		return &RenderError{
			Code:     CodeBadBehavior,
			Message:  ErrMsgNoBehavior,
			TagName:  n.Spec.Name(),
			Position: n.Pos(),
		}
	}

	r.logger.Debug(LogMsgTagComplete, zap.String(LogFieldTag, n.Spec.Name()))
	return nil
}

// wrapResolve attaches a position to a path resolution failure
func (r *Renderer) wrapResolve(err error, pos Position) error {
	if re, ok := err.(*ResolveError); ok {
		return &RenderError{
			Code:     CodeKeyNotFound,
			Message:  ErrMsgKeyNotFound,
			Detail:   re.Path,
			Position: pos,
			Cause:    re,
		}
	}
	return err
}

// positionError stamps a position onto render errors that lack one
func positionError(err error, pos Position) error {
	if re, ok := err.(*RenderError); ok && re.Position == (Position{}) {
		re.Position = pos
		return re
	}
	return err
}

// BodyHandle gives a tag behavior access to its primary body and ordered
// subsections without exposing the tree
type BodyHandle struct {
	renderer *Renderer
	node     *CompoundNode
	state    *State
	depth    int
}

// Render renders the tag's primary body into the output buffer
func (b *BodyHandle) Render(ctx context.Context) error {
	return b.renderer.renderNodes(ctx, b.node.Body, b.state, b.depth+1)
}

// Sections returns handles for the tag's subsections in source order
func (b *BodyHandle) Sections() []SectionHandle {
	handles := make([]SectionHandle, len(b.node.Sections))
	for i := range b.node.Sections {
		handles[i] = SectionHandle{
			section:  &b.node.Sections[i],
			renderer: b.renderer,
			state:    b.state,
			depth:    b.depth,
		}
	}
	return handles
}

// SectionHandle gives a tag behavior access to one named subsection
type SectionHandle struct {
	section  *Section
	renderer *Renderer
	state    *State
	depth    int
}

// Name returns the subsection's tag name
func (s SectionHandle) Name() string {
	return s.section.Name
}

// Args returns the subsection's bound arguments
func (s SectionHandle) Args() Arguments {
	return s.section.Args
}

// Render renders the subsection's body into the output buffer
func (s SectionHandle) Render(ctx context.Context) error {
	return s.renderer.renderNodes(ctx, s.section.Body, s.state, s.depth+1)
}

// RenderError represents a rendering failure with context
type RenderError struct {
	Code     string
	Message  string
	TagName  string
	Detail   string
	Position Position
	Cause    error
}

// Error implements the error interface
func (e *RenderError) Error() string {
	var result string
	if e.TagName != StringValueEmpty {
		result = fmt.Sprintf(ErrFmtWithTagAndPosition, e.Message, e.TagName, e.Position.String())
	} else {
		result = fmt.Sprintf(ErrFmtWithPosition, e.Message, e.Position.String())
	}
	if e.Detail != StringValueEmpty {
		result = fmt.Sprintf(ErrFmtTagMessage, result, e.Detail)
	}
	if e.Cause != nil {
		result = fmt.Sprintf(ErrFmtWithCause, result, e.Cause)
	}
	return result
}

// Unwrap returns the underlying cause error
func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Renderer error message constants
const (
	ErrMsgMaxDepthExceeded = "maximum nesting depth exceeded"
	ErrMsgUnknownNodeType  = "unknown node type"
	ErrMsgNoBehavior       = "tag definition has no behavior"
	ErrMsgFormatFailed     = "format specifier failed"
)
