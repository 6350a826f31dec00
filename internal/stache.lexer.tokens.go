package internal

import "fmt"

// Position represents a location in the source template
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// Token represents a lexical token produced by the lexer.
// A TAG_OPEN token either names a registered tag (Name set, Args carrying
// the raw whitespace-separated arguments) or is a key placeholder (Name
// empty, Path/Alignment/Format set).
type Token struct {
	Type      TokenType
	Text      string   // Literal content, or raw comment text
	Name      string   // Tag name for TAG_OPEN/TAG_CLOSE (empty for keys)
	Args      []string // Raw positional arguments for TAG_OPEN
	Path      string   // Key placeholder path
	Alignment int      // Key placeholder alignment (0 = none)
	Format    string   // Key placeholder format specifier
	Position  Position
}

// String returns a human-readable representation of the token
func (t Token) String() string {
	switch {
	case t.Type == TokenTypeLiteral:
		return fmt.Sprintf("Token{LITERAL %q @ %s}", t.Text, t.Position)
	case t.IsKey():
		return fmt.Sprintf("Token{KEY %s,%d:%s @ %s}", t.Path, t.Alignment, t.Format, t.Position)
	case t.Type == TokenTypeTagOpen:
		return fmt.Sprintf("Token{OPEN %s %v @ %s}", t.Name, t.Args, t.Position)
	case t.Type == TokenTypeTagClose:
		return fmt.Sprintf("Token{CLOSE %s @ %s}", t.Name, t.Position)
	default:
		return fmt.Sprintf("Token{%s @ %s}", t.Type, t.Position)
	}
}

// IsEOF returns true if this is an end-of-file token
func (t Token) IsEOF() bool {
	return t.Type == TokenTypeEOF
}

// IsLiteral returns true if this is a literal text token
func (t Token) IsLiteral() bool {
	return t.Type == TokenTypeLiteral
}

// IsTagOpen returns true if this is a tag open token (including keys)
func (t Token) IsTagOpen() bool {
	return t.Type == TokenTypeTagOpen
}

// IsTagClose returns true if this is a tag close token
func (t Token) IsTagClose() bool {
	return t.Type == TokenTypeTagClose
}

// IsKey returns true if this is a key placeholder token
func (t Token) IsKey() bool {
	return t.Type == TokenTypeTagOpen && t.Name == StringValueEmpty
}

// IsTag returns true for tag open and tag close tokens
func (t Token) IsTag() bool {
	return t.Type == TokenTypeTagOpen || t.Type == TokenTypeTagClose
}

// NewLiteralToken creates a literal token with the given content
func NewLiteralToken(content string, pos Position) Token {
	return Token{
		Type:     TokenTypeLiteral,
		Text:     content,
		Position: pos,
	}
}

// NewTagOpenToken creates a tag open token for a named tag
func NewTagOpenToken(name string, args []string, pos Position) Token {
	return Token{
		Type:     TokenTypeTagOpen,
		Name:     name,
		Args:     args,
		Position: pos,
	}
}

// NewKeyToken creates a tag open token for a key placeholder
func NewKeyToken(path string, alignment int, format string, pos Position) Token {
	return Token{
		Type:      TokenTypeTagOpen,
		Path:      path,
		Alignment: alignment,
		Format:    format,
		Position:  pos,
	}
}

// NewTagCloseToken creates a tag close token
func NewTagCloseToken(name string, pos Position) Token {
	return Token{
		Type:     TokenTypeTagClose,
		Name:     name,
		Position: pos,
	}
}

// NewEOFToken creates an EOF token at the given position
func NewEOFToken(pos Position) Token {
	return Token{
		Type:     TokenTypeEOF,
		Position: pos,
	}
}
