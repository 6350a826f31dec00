package internal

import (
	"fmt"

	"go.uber.org/zap"
)

// Parser consumes a token stream and produces a generator tree, consulting
// the tag registry for grammar and validating nesting as it goes. The
// standalone-line elision pass runs over the tokens before tree building.
type Parser struct {
	tokens   []Token
	registry *Registry
	pos      int
	logger   *zap.Logger
}

// NewParser creates a new parser for the given token stream
func NewParser(tokens []Token, registry *Registry, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgParserCreated, zap.Int(LogFieldTokens, len(tokens)))
	return &Parser{
		tokens:   tokens,
		registry: registry,
		pos:      0,
		logger:   logger,
	}
}

// frame records one open tag on the parse stack. The synthetic root frame
// has a nil spec. Children accumulate in the frame body until the first
// subsection tag arrives; after that they accumulate in the open section.
type frame struct {
	spec     TagSpec
	args     Arguments
	pos      Position
	body     []Node
	sections []Section
	section  *Section
}

// append adds a node to the frame's currently populated child list
func (f *frame) append(node Node) {
	if f.section != nil {
		f.section.Body = append(f.section.Body, node)
		return
	}
	f.body = append(f.body, node)
}

// openSection closes the current subsection (if any) and starts a new one
func (f *frame) openSection(name string, args Arguments, pos Position) {
	f.closeSection()
	f.section = &Section{Name: name, Args: args, Pos: pos}
}

// closeSection finalizes the open subsection
func (f *frame) closeSection() {
	if f.section != nil {
		f.sections = append(f.sections, *f.section)
		f.section = nil
	}
}

// Parse produces the generator tree root from the token stream
func (p *Parser) Parse() (*RootNode, error) {
	p.logger.Debug(LogMsgParserStart)

	p.tokens = ElideStandaloneLines(p.tokens, p.registry.Qualifies, p.logger)

	stack := []*frame{{}}
	top := func() *frame { return stack[len(stack)-1] }

	for !p.isAtEnd() {
		tok := p.advance()

		switch tok.Type {
		case TokenTypeLiteral:
			if tok.Text != StringValueEmpty {
				top().append(NewStaticNode(tok.Text, tok.Position))
			}

		case TokenTypeTagOpen:
			if tok.IsKey() {
				top().append(NewPlaceholderNode(tok.Path, tok.Alignment, tok.Format, tok.Position))
				continue
			}
			if tok.Name == TagNameComment {
				// Comments produce no output; standalone occurrences
				// were already elided with their line.
				continue
			}
			pushed, err := p.parseTagOpen(tok, top())
			if err != nil {
				return nil, err
			}
			if pushed != nil {
				stack = append(stack, pushed)
			}

		case TokenTypeTagClose:
			if len(stack) == 1 || top().spec.Name() != tok.Name {
				return nil, p.newUnmatchedCloseError(tok)
			}
			node, err := p.closeFrame(top())
			if err != nil {
				return nil, err
			}
			stack = stack[:len(stack)-1]
			top().append(node)
		}
	}

	if len(stack) > 1 {
		open := top()
		return nil, p.newUnterminatedError(open.spec.Name(), open.pos)
	}

	root := &RootNode{Children: stack[0].body}
	p.logger.Debug(LogMsgParserEnd, zap.Int(LogFieldNodes, len(root.Children)))
	return root, nil
}

// parseTagOpen handles a named tag opener: subsection transfer, inline
// emission, or frame push. Returns the new frame when the tag is paired.
func (p *Parser) parseTagOpen(tok Token, cur *frame) (*frame, error) {
	spec, ok := p.registry.Get(tok.Name)
	if !ok {
		return nil, p.newUnknownTagError(tok)
	}

	// Subsection tags close the current section of the enclosing frame
	// instead of pushing a new one.
	if cur.spec != nil && !spec.HasCloser() && containsName(cur.spec.ChildTags(), tok.Name) {
		args, err := p.bindArguments(spec, tok)
		if err != nil {
			return nil, err
		}
		cur.openSection(tok.Name, args, tok.Position)
		return nil, nil
	}

	// Everything else must be legal in the current context: either listed
	// by the enclosing definition or registered as a top-level tag.
	legal := p.registry.IsTopLevel(tok.Name) ||
		(cur.spec != nil && containsName(cur.spec.ChildTags(), tok.Name))
	if !legal {
		return nil, p.newUnexpectedTagError(tok)
	}

	args, err := p.bindArguments(spec, tok)
	if err != nil {
		return nil, err
	}

	if spec.HasCloser() {
		return &frame{spec: spec, args: args, pos: tok.Position}, nil
	}

	cur.append(NewCompoundNode(spec, args, nil, nil, tok.Position))
	return nil, nil
}

// closeFrame finalizes a frame into a compound node, running the
// definition's section validation hook if it has one
func (p *Parser) closeFrame(f *frame) (Node, error) {
	f.closeSection()

	if v, ok := f.spec.(SectionValidator); ok {
		if err := v.ValidateSections(f.sections); err != nil {
			return nil, err
		}
	}

	return NewCompoundNode(f.spec, f.args, f.body, f.sections, f.pos), nil
}

// bindArguments binds a token's positional arguments to the definition's
// parameters: required parameters must be present, optional ones take
// their default, a variadic parameter absorbs the tail, and leftover
// arguments are an error
func (p *Parser) bindArguments(spec TagSpec, tok Token) (Arguments, error) {
	params := spec.Parameters()
	args := make(Arguments, len(params))
	raw := tok.Args
	i := 0

	for _, prm := range params {
		if prm.Variadic {
			rest := make([]string, len(raw)-i)
			copy(rest, raw[i:])
			i = len(raw)
			if prm.Required && len(rest) == 0 {
				return nil, p.newMissingArgumentError(tok, prm.Name)
			}
			args[prm.Name] = rest
			continue
		}
		if i < len(raw) {
			args[prm.Name] = raw[i]
			i++
			continue
		}
		if prm.Required {
			return nil, p.newMissingArgumentError(tok, prm.Name)
		}
		if prm.Default != nil {
			args[prm.Name] = prm.Default
		}
	}

	if i < len(raw) {
		return nil, p.newExcessArgumentsError(tok, len(raw)-i)
	}

	return args, nil
}

// Helper methods

// current returns the current token
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenTypeEOF}
	}
	return p.tokens[p.pos]
}

// advance consumes and returns the current token
func (p *Parser) advance() Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// isAtEnd returns true if we've reached EOF
func (p *Parser) isAtEnd() bool {
	return p.current().Type == TokenTypeEOF
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// Error helpers

func (p *Parser) newUnknownTagError(tok Token) error {
	return &ParserError{
		Code:     CodeUnknownTag,
		Message:  ErrMsgUnknownTag,
		TagName:  tok.Name,
		Position: tok.Position,
	}
}

func (p *Parser) newUnexpectedTagError(tok Token) error {
	return &ParserError{
		Code:     CodeUnexpectedTag,
		Message:  ErrMsgUnexpectedTag,
		TagName:  tok.Name,
		Position: tok.Position,
	}
}

func (p *Parser) newUnmatchedCloseError(tok Token) error {
	return &ParserError{
		Code:     CodeUnmatchedClose,
		Message:  ErrMsgUnmatchedClose,
		TagName:  tok.Name,
		Position: tok.Position,
	}
}

func (p *Parser) newUnterminatedError(name string, pos Position) error {
	return &ParserError{
		Code:     CodeUnterminatedTag,
		Message:  ErrMsgUnterminatedBlock,
		TagName:  name,
		Position: pos,
	}
}

func (p *Parser) newMissingArgumentError(tok Token, param string) error {
	return &ParserError{
		Code:     CodeBadArguments,
		Message:  ErrMsgMissingArgument,
		TagName:  tok.Name,
		Detail:   param,
		Position: tok.Position,
	}
}

func (p *Parser) newExcessArgumentsError(tok Token, extra int) error {
	return &ParserError{
		Code:     CodeBadArguments,
		Message:  ErrMsgExcessArguments,
		TagName:  tok.Name,
		Detail:   fmt.Sprintf("%d", extra),
		Position: tok.Position,
	}
}

// ParserError represents a parser error with context
type ParserError struct {
	Code     string
	Message  string
	TagName  string
	Detail   string
	Position Position
}

func (e *ParserError) Error() string {
	if e.TagName != StringValueEmpty {
		return fmt.Sprintf(ErrFmtWithTagAndPosition, e.Message, e.TagName, e.Position.String())
	}
	return fmt.Sprintf(ErrFmtWithPosition, e.Message, e.Position.String())
}

// Parser error message constants
const (
	ErrMsgUnknownTag        = "unknown tag"
	ErrMsgUnexpectedTag     = "tag not permitted in this context"
	ErrMsgUnmatchedClose    = "unmatched closing tag"
	ErrMsgUnterminatedBlock = "tag is never closed"
	ErrMsgMissingArgument   = "missing required argument"
	ErrMsgExcessArguments   = "too many arguments"
	ErrMsgDuplicateElse     = "duplicate else branch"
	ErrMsgElseNotLast       = "else must be the final branch"
)
