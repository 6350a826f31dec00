package internal

import (
	"context"

	"go.uber.org/zap"
)

// RegisterBuiltins installs the built-in tag definitions into a registry
func RegisterBuiltins(r *Registry) {
	r.MustRegister(&ifSpec{}, true)
	r.MustRegister(&elifSpec{}, false)
	r.MustRegister(&elseSpec{}, false)
	r.MustRegister(&eachSpec{}, true)
	r.MustRegister(&withSpec{}, true)
	r.MustRegister(&commentSpec{}, true)
}

// ifSpec renders its body when the condition is truthy, otherwise hands
// control to the first winning elif branch or the else branch
type ifSpec struct{}

func (s *ifSpec) Name() string           { return TagNameIf }
func (s *ifSpec) ContextSensitive() bool { return false }
func (s *ifSpec) HasCloser() bool        { return true }

func (s *ifSpec) Parameters() []Parameter {
	return []Parameter{{Name: ParamNameCondition, Required: true}}
}

func (s *ifSpec) ChildTags() []string {
	return []string{TagNameElif, TagNameElse}
}

func (s *ifSpec) RenderBlock(ctx context.Context, st *State, args Arguments, body *BodyHandle) error {
	truthy, err := resolveCondition(st, args)
	if err != nil {
		return err
	}
	if truthy {
		st.Logger().Debug(LogMsgBranchSelected, zap.String(LogFieldBranch, TagNameIf))
		return body.Render(ctx)
	}

	for _, sec := range body.Sections() {
		switch sec.Name() {
		case TagNameElif:
			truthy, err := resolveCondition(st, sec.Args())
			if err != nil {
				return err
			}
			if truthy {
				st.Logger().Debug(LogMsgBranchSelected, zap.String(LogFieldBranch, TagNameElif))
				return sec.Render(ctx)
			}
		case TagNameElse:
			st.Logger().Debug(LogMsgBranchSelected, zap.String(LogFieldBranch, TagNameElse))
			return sec.Render(ctx)
		}
	}
	return nil
}

// ValidateSections enforces branch ordering: elif branches precede the
// single optional else branch.
func (s *ifSpec) ValidateSections(sections []Section) error {
	seenElse := false
	for _, sec := range sections {
		switch sec.Name {
		case TagNameElse:
			if seenElse {
				return &ParserError{
					Code:     CodeDuplicateElse,
					Message:  ErrMsgDuplicateElse,
					TagName:  TagNameIf,
					Position: sec.Pos,
				}
			}
			seenElse = true
		case TagNameElif:
			if seenElse {
				return &ParserError{
					Code:     CodeUnexpectedTag,
					Message:  ErrMsgElseNotLast,
					TagName:  TagNameElif,
					Position: sec.Pos,
				}
			}
		}
	}
	return nil
}

// resolveCondition resolves a branch condition path and tests truthiness
func resolveCondition(st *State, args Arguments) (bool, error) {
	value, err := st.Scopes.Resolve(args.GetString(ParamNameCondition))
	if err != nil {
		return false, err
	}
	return Truth(value), nil
}

// elifSpec is a subsection of if; it never renders on its own
type elifSpec struct{}

func (s *elifSpec) Name() string           { return TagNameElif }
func (s *elifSpec) ContextSensitive() bool { return false }
func (s *elifSpec) HasCloser() bool        { return false }
func (s *elifSpec) ChildTags() []string    { return nil }

func (s *elifSpec) Parameters() []Parameter {
	return []Parameter{{Name: ParamNameCondition, Required: true}}
}

// elseSpec is a subsection of if; it never renders on its own
type elseSpec struct{}

func (s *elseSpec) Name() string            { return TagNameElse }
func (s *elseSpec) ContextSensitive() bool  { return false }
func (s *elseSpec) HasCloser() bool         { return false }
func (s *elseSpec) Parameters() []Parameter { return nil }
func (s *elseSpec) ChildTags() []string     { return nil }

// eachSpec renders its body once per element of the resolved collection,
// pushing the element as the current scope
type eachSpec struct{}

func (s *eachSpec) Name() string           { return TagNameEach }
func (s *eachSpec) ContextSensitive() bool { return true }
func (s *eachSpec) HasCloser() bool        { return true }
func (s *eachSpec) ChildTags() []string    { return nil }

func (s *eachSpec) Parameters() []Parameter {
	return []Parameter{{Name: ParamNameCollection, Required: true}}
}

func (s *eachSpec) RenderBlock(ctx context.Context, st *State, args Arguments, body *BodyHandle) error {
	path := args.GetString(ParamNameCollection)
	value, err := st.Scopes.Resolve(path)
	if err != nil {
		return err
	}

	items, ok := Sequence(value)
	if !ok {
		return &RenderError{
			Code:    CodeBadCollection,
			Message: ErrMsgNotACollection,
			TagName: TagNameEach,
			Detail:  path,
		}
	}

	for _, item := range items {
		if err := renderScoped(ctx, st, item, body); err != nil {
			return err
		}
	}
	return nil
}

// withSpec renders its body once with the resolved expression pushed as
// the current scope
type withSpec struct{}

func (s *withSpec) Name() string           { return TagNameWith }
func (s *withSpec) ContextSensitive() bool { return true }
func (s *withSpec) HasCloser() bool        { return true }
func (s *withSpec) ChildTags() []string    { return nil }

func (s *withSpec) Parameters() []Parameter {
	return []Parameter{{Name: ParamNameContext, Required: true}}
}

func (s *withSpec) RenderBlock(ctx context.Context, st *State, args Arguments, body *BodyHandle) error {
	value, err := st.Scopes.Resolve(args.GetString(ParamNameContext))
	if err != nil {
		return err
	}
	return renderScoped(ctx, st, value, body)
}

// renderScoped renders a body with a pushed scope, popping on every exit
// path
func renderScoped(ctx context.Context, st *State, scope any, body *BodyHandle) error {
	st.Scopes.Push(scope)
	defer st.Scopes.Pop()
	return body.Render(ctx)
}

// commentSpec consumes its text and produces no output
type commentSpec struct{}

func (s *commentSpec) Name() string            { return TagNameComment }
func (s *commentSpec) ContextSensitive() bool  { return false }
func (s *commentSpec) HasCloser() bool         { return false }
func (s *commentSpec) Parameters() []Parameter { return nil }
func (s *commentSpec) ChildTags() []string     { return nil }

func (s *commentSpec) Text(ctx context.Context, formatter Formatter, args Arguments) (string, error) {
	return StringValueEmpty, nil
}

// ErrMsgNotACollection is returned when each receives a non-sequence value
const ErrMsgNotACollection = "value is not a collection"
