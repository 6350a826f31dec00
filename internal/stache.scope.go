package internal

import (
	"fmt"
	"strings"
)

// PropertyResolver is the injected capability that looks up a named
// property on a scope value. It returns the child value and true, or
// false on a miss.
type PropertyResolver func(scope any, name string) (any, bool)

// ScopeStack is the ordered stack of lookup contexts used during
// rendering, outermost first. The reserved identifier "this" resolves to
// the innermost frame; bare names probe the property resolver from the
// innermost frame outward; dotted paths drill strictly downward from
// their anchor.
type ScopeStack struct {
	frames   []any
	resolver PropertyResolver
}

// NewScopeStack creates a scope stack seeded with the caller's data
func NewScopeStack(root any, resolver PropertyResolver) *ScopeStack {
	if resolver == nil {
		resolver = DefaultResolver
	}
	return &ScopeStack{
		frames:   []any{root},
		resolver: resolver,
	}
}

// Push adds a value as the new innermost scope
func (s *ScopeStack) Push(v any) {
	s.frames = append(s.frames, v)
}

// Pop removes and returns the innermost scope
func (s *ScopeStack) Pop() any {
	if len(s.frames) == 0 {
		return nil
	}
	v := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return v
}

// Current returns the innermost scope
func (s *ScopeStack) Current() any {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// Depth returns the number of frames on the stack
func (s *ScopeStack) Depth() int {
	return len(s.frames)
}

// Resolve looks up a dotted path against the stack. The leading segment
// anchors the lookup ("this" for the current scope, otherwise the first
// frame the property resolver answers for, innermost outward); the
// remaining segments drill into the anchor. Any miss, including a nil
// drill anchor, is a key-not-found error.
func (s *ScopeStack) Resolve(path string) (any, error) {
	segs := strings.Split(path, PathSeparator)

	var anchor any
	if segs[0] == KeywordThis {
		anchor = s.Current()
	} else {
		found := false
		for i := len(s.frames) - 1; i >= 0; i-- {
			if v, ok := s.resolver(s.frames[i], segs[0]); ok {
				anchor = v
				found = true
				break
			}
		}
		if !found {
			return nil, NewResolveError(path, segs[0])
		}
	}

	for _, seg := range segs[1:] {
		if anchor == nil {
			return nil, NewResolveError(path, seg)
		}
		v, ok := s.resolver(anchor, seg)
		if !ok {
			return nil, NewResolveError(path, seg)
		}
		anchor = v
	}

	return anchor, nil
}

// ResolveError reports a failed path lookup
type ResolveError struct {
	Path    string
	Segment string
}

// NewResolveError creates a resolve error for the given path and the
// segment that missed
func NewResolveError(path, segment string) *ResolveError {
	return &ResolveError{
		Path:    path,
		Segment: segment,
	}
}

func (e *ResolveError) Error() string {
	if e.Segment != StringValueEmpty && e.Segment != e.Path {
		return fmt.Sprintf("%s: %q (segment %q)", ErrMsgKeyNotFound, e.Path, e.Segment)
	}
	return fmt.Sprintf("%s: %q", ErrMsgKeyNotFound, e.Path)
}

// ErrMsgKeyNotFound is the key lookup failure message
const ErrMsgKeyNotFound = "key not found"
