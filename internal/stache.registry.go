package internal

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Parameter describes a single tag parameter
type Parameter struct {
	Name     string
	Required bool
	Default  any
	Variadic bool
}

// TagSpec describes a tag's name and grammar. Behaviors are declared by
// additionally implementing InlineSpec or BlockSpec.
type TagSpec interface {
	// Name returns the tag name (case-sensitive)
	Name() string
	// ContextSensitive reports whether the tag opens a new scope
	ContextSensitive() bool
	// HasCloser reports whether the tag is paired with a {{/NAME}} closer
	HasCloser() bool
	// Parameters returns the ordered parameter list arguments bind to
	Parameters() []Parameter
	// ChildTags returns the names of subsection/child tags accepted
	// between this tag's opener and closer
	ChildTags() []string
}

// InlineSpec is a tag without a closer that produces text directly
type InlineSpec interface {
	TagSpec
	Text(ctx context.Context, formatter Formatter, args Arguments) (string, error)
}

// BlockSpec is a paired tag that orchestrates rendering of its body
type BlockSpec interface {
	TagSpec
	RenderBlock(ctx context.Context, state *State, args Arguments, body *BodyHandle) error
}

// SectionValidator can be implemented by a TagSpec to validate the
// ordered subsection list captured between its opener and closer
type SectionValidator interface {
	ValidateSections(sections []Section) error
}

// Registry is a case-sensitive catalog of tag definitions. It is
// thread-safe for concurrent read/write access. Re-registration replaces
// the prior definition.
type Registry struct {
	specs    map[string]TagSpec
	topLevel map[string]bool
	mu       sync.RWMutex
	logger   *zap.Logger
}

// NewRegistry creates a new tag registry
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgRegistryCreated)
	return &Registry{
		specs:    make(map[string]TagSpec),
		topLevel: make(map[string]bool),
		logger:   logger,
	}
}

// Register installs a tag definition. topLevel marks the tag as legal
// outside any parent; a non-top-level tag is legal only where a parent
// definition lists it among its child tags.
func (r *Registry) Register(spec TagSpec, topLevel bool) error {
	if spec == nil {
		return NewRegistryError(ErrMsgNilSpec, StringValueEmpty)
	}

	name := spec.Name()
	if name == StringValueEmpty {
		return NewRegistryError(ErrMsgEmptyTagName, StringValueEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.specs[name]; exists {
		r.logger.Debug(LogMsgTagReplaced, zap.String(LogFieldTag, name))
	}

	r.specs[name] = spec
	r.topLevel[name] = topLevel
	r.logger.Debug(LogMsgTagRegistered, zap.String(LogFieldTag, name))
	return nil
}

// MustRegister installs a tag definition and panics if registration fails.
// Use this for built-in definitions that must always be available.
func (r *Registry) MustRegister(spec TagSpec, topLevel bool) {
	if err := r.Register(spec, topLevel); err != nil {
		panic(err)
	}
}

// Get retrieves a definition by tag name
func (r *Registry) Get(name string) (TagSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, exists := r.specs[name]
	return spec, exists
}

// Has checks if a definition is registered for the given tag name
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.specs[name]
	return exists
}

// IsTopLevel reports whether the named tag is legal outside any parent
func (r *Registry) IsTopLevel(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.topLevel[name]
}

// IsSubsection reports whether the named tag appears in any registered
// definition's child set and has no closer of its own
func (r *Registry) IsSubsection(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, ok := r.specs[name]
	if !ok || spec.HasCloser() {
		return false
	}
	for _, parent := range r.specs {
		for _, child := range parent.ChildTags() {
			if child == name {
				return true
			}
		}
	}
	return false
}

// List returns all registered tag names in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered definitions
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.specs)
}

// Qualifies reports whether a token is eligible for standalone-line
// elision: closers always, openers when they are comments, paired tags,
// or subsection tags. Key placeholders never qualify.
func (r *Registry) Qualifies(tok Token) bool {
	switch {
	case tok.IsTagClose():
		return true
	case !tok.IsTagOpen() || tok.IsKey():
		return false
	case tok.Name == TagNameComment:
		return true
	}

	spec, ok := r.Get(tok.Name)
	if !ok {
		return false
	}
	return spec.HasCloser() || r.IsSubsection(tok.Name)
}

// RegistryError represents a registry operation error
type RegistryError struct {
	Message string
	TagName string
}

// NewRegistryError creates a new registry error
func NewRegistryError(message, tagName string) *RegistryError {
	return &RegistryError{
		Message: message,
		TagName: tagName,
	}
}

// Error implements the error interface
func (e *RegistryError) Error() string {
	if e.TagName != StringValueEmpty {
		return fmt.Sprintf(ErrFmtTagMessage, e.Message, e.TagName)
	}
	return e.Message
}

// Registry error message constants
const (
	ErrMsgNilSpec      = "tag definition cannot be nil"
	ErrMsgEmptyTagName = "tag name cannot be empty"
)
