package internal

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Lexer tokenizes template source into a token stream
type Lexer struct {
	source string
	pos    int // Current byte position
	line   int // Current line (1-indexed)
	column int // Current column (1-indexed)
	logger *zap.Logger
}

// NewLexer creates a new lexer for the given source
func NewLexer(source string, logger *zap.Logger) *Lexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgLexerCreated, zap.Int(LogFieldSource, len(source)))
	return &Lexer{
		source: source,
		pos:    0,
		line:   1,
		column: 1,
		logger: logger,
	}
}

// Tokenize processes the source and returns a token stream ending in EOF
func (l *Lexer) Tokenize() ([]Token, error) {
	l.logger.Debug(LogMsgTokenizerStart)
	var tokens []Token

	for !l.isAtEnd() {
		if l.matchStr(StrOpenDelim) {
			tok, err := l.scanTag()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			continue
		}

		textToken := l.scanLiteral()
		if textToken.Text != StringValueEmpty {
			tokens = append(tokens, textToken)
		}
	}

	tokens = append(tokens, NewEOFToken(l.currentPosition()))
	l.logger.Debug(LogMsgTokenizerEnd, zap.Int(LogFieldTokens, len(tokens)))
	return tokens, nil
}

// scanLiteral scans text content until the next open delimiter
func (l *Lexer) scanLiteral() Token {
	startPos := l.currentPosition()
	var sb strings.Builder

	for !l.isAtEnd() && !l.matchStr(StrOpenDelim) {
		sb.WriteByte(l.advance())
	}

	return NewLiteralToken(sb.String(), startPos)
}

// scanTag scans a complete {{...}} tag. The character after the open
// delimiter discriminates: #! comment, #NAME opener, /NAME closer,
// anything else a key placeholder.
func (l *Lexer) scanTag() (Token, error) {
	startPos := l.currentPosition()
	l.advanceN(LenOpenDelim)

	switch {
	case l.peek() == CharHash && l.peekAt(1) == CharBang:
		return l.scanComment(startPos)
	case l.peek() == CharHash:
		l.advance()
		return l.scanOpener(startPos)
	case l.peek() == CharSlash:
		l.advance()
		return l.scanCloser(startPos)
	default:
		return l.scanKey(startPos)
	}
}

// scanComment consumes a comment tag up to the next close delimiter
func (l *Lexer) scanComment(startPos Position) (Token, error) {
	l.advanceN(2) // #!

	var sb strings.Builder
	for !l.isAtEnd() && !l.matchStr(StrCloseDelim) {
		sb.WriteByte(l.advance())
	}
	if l.isAtEnd() {
		return Token{}, l.newUnterminatedTagError(startPos)
	}
	l.advanceN(LenCloseDelim)

	tok := NewTagOpenToken(TagNameComment, nil, startPos)
	tok.Text = sb.String()
	return tok, nil
}

// scanOpener scans a tag opener: name followed by whitespace-separated
// arguments up to the close delimiter
func (l *Lexer) scanOpener(startPos Position) (Token, error) {
	name, err := l.scanTagName(startPos)
	if err != nil {
		return Token{}, err
	}

	var args []string
	for {
		l.skipWhitespace()
		if l.isAtEnd() {
			return Token{}, l.newUnterminatedTagError(startPos)
		}
		if l.matchStr(StrCloseDelim) {
			l.advanceN(LenCloseDelim)
			return NewTagOpenToken(name, args, startPos), nil
		}

		argPos := l.currentPosition()
		arg := l.scanWord()
		if !isValidArgument(arg) {
			return Token{}, l.newBadArgumentError(arg, argPos)
		}
		args = append(args, arg)
	}
}

// scanCloser scans a tag closer: name then the close delimiter
func (l *Lexer) scanCloser(startPos Position) (Token, error) {
	name, err := l.scanTagName(startPos)
	if err != nil {
		return Token{}, err
	}

	l.skipWhitespace()
	if !l.matchStr(StrCloseDelim) {
		return Token{}, l.newUnterminatedTagError(startPos)
	}
	l.advanceN(LenCloseDelim)

	return NewTagCloseToken(name, startPos), nil
}

// scanKey scans a key placeholder body PATH[,ALIGN][:FORMAT]
func (l *Lexer) scanKey(startPos Position) (Token, error) {
	var sb strings.Builder
	for !l.isAtEnd() && !l.matchStr(StrCloseDelim) {
		sb.WriteByte(l.advance())
	}
	if l.isAtEnd() {
		return Token{}, l.newUnterminatedTagError(startPos)
	}
	l.advanceN(LenCloseDelim)

	return l.parseKeyBody(sb.String(), startPos)
}

// parseKeyBody splits a key placeholder body into path, alignment, and
// format specifier. The format specifier is everything after the first
// colon, taken verbatim; the alignment is a signed integer after a comma.
func (l *Lexer) parseKeyBody(body string, pos Position) (Token, error) {
	format := StringValueEmpty
	if idx := strings.IndexByte(body, CharColon); idx >= 0 {
		format = body[idx+1:]
		body = body[:idx]
	}

	alignment := 0
	if idx := strings.IndexByte(body, CharComma); idx >= 0 {
		alignText := strings.TrimSpace(body[idx+1:])
		body = body[:idx]

		n, err := parseAlignment(alignText)
		if err != nil {
			return Token{}, l.newBadAlignmentError(alignText, pos)
		}
		alignment = n
	}

	path := strings.TrimSpace(body)
	if !isValidPath(path) {
		return Token{}, l.newBadKeyPathError(path, pos)
	}

	return NewKeyToken(path, alignment, format, pos), nil
}

// scanTagName scans a tag name identifier
func (l *Lexer) scanTagName(tagPos Position) (string, error) {
	l.skipWhitespace()

	var sb strings.Builder

	// First character must be letter or underscore
	if !l.isAtEnd() && (isLetter(l.peek()) || l.peek() == CharUnderscore) {
		sb.WriteByte(l.advance())
	} else {
		return StringValueEmpty, l.newInvalidTagNameError(tagPos)
	}

	// Subsequent characters can be letter, digit, underscore, hyphen, or dot
	for !l.isAtEnd() {
		ch := l.peek()
		if isLetter(ch) || isDigit(ch) || ch == CharUnderscore || ch == CharHyphen || ch == CharDot {
			sb.WriteByte(l.advance())
		} else {
			break
		}
	}

	return sb.String(), nil
}

// scanWord scans a run of characters up to whitespace or the close delimiter
func (l *Lexer) scanWord() string {
	var sb strings.Builder
	for !l.isAtEnd() && !isWhitespace(l.peek()) && !l.matchStr(StrCloseDelim) {
		sb.WriteByte(l.advance())
	}
	return sb.String()
}

// parseAlignment parses a [+-]?digits alignment value
func parseAlignment(s string) (int, error) {
	if s == StringValueEmpty {
		return 0, strconv.ErrSyntax
	}
	digits := s
	if digits[0] == CharPlus || digits[0] == CharMinus {
		digits = digits[1:]
	}
	if digits == StringValueEmpty {
		return 0, strconv.ErrSyntax
	}
	for i := 0; i < len(digits); i++ {
		if !isDigit(digits[i]) {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(strings.TrimPrefix(s, string(CharPlus)))
}

// isValidPath reports whether s is a dotted identifier path
func isValidPath(s string) bool {
	if s == StringValueEmpty {
		return false
	}
	for _, seg := range strings.Split(s, PathSeparator) {
		if !isValidSegment(seg) {
			return false
		}
	}
	return true
}

// isValidSegment reports whether s is a single path segment identifier
func isValidSegment(s string) bool {
	if s == StringValueEmpty {
		return false
	}
	if !isLetter(s[0]) && s[0] != CharUnderscore {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isLetter(s[i]) && !isDigit(s[i]) && s[i] != CharUnderscore {
			return false
		}
	}
	return true
}

// isValidArgument reports whether s is an acceptable tag argument:
// a dotted path or a signed integer literal
func isValidArgument(s string) bool {
	if isValidPath(s) {
		return true
	}
	_, err := parseAlignment(s)
	return err == nil
}

// Helper methods

// currentPosition returns the current position
func (l *Lexer) currentPosition() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

// isAtEnd returns true if we've reached the end of source
func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

// peek returns the current character without advancing
func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.pos]
}

// peekAt returns the character n bytes ahead without advancing
func (l *Lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.source) {
		return 0
	}
	return l.source[l.pos+n]
}

// advance consumes and returns the current character
func (l *Lexer) advance() byte {
	if l.isAtEnd() {
		return 0
	}
	ch := l.source[l.pos]
	l.pos++
	if ch == CharNewline {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

// advanceN advances by n characters
func (l *Lexer) advanceN(n int) {
	for i := 0; i < n && !l.isAtEnd(); i++ {
		l.advance()
	}
}

// matchStr returns true if the remaining source starts with s
func (l *Lexer) matchStr(s string) bool {
	return strings.HasPrefix(l.source[l.pos:], s)
}

// skipWhitespace skips whitespace characters
func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() && isWhitespace(l.peek()) {
		l.advance()
	}
}

// Character classification helpers

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isWhitespace(ch byte) bool {
	return ch == CharSpace || ch == CharTab || ch == CharNewline || ch == CharCarriageRet
}

// Error helpers

func (l *Lexer) newUnterminatedTagError(pos Position) error {
	return &LexerError{
		Code:     CodeUnterminatedTag,
		Message:  ErrMsgUnterminatedTag,
		Position: pos,
	}
}

func (l *Lexer) newInvalidTagNameError(pos Position) error {
	return &LexerError{
		Code:     CodeBadArguments,
		Message:  ErrMsgInvalidTagName,
		Position: pos,
	}
}

func (l *Lexer) newBadArgumentError(arg string, pos Position) error {
	return &LexerError{
		Code:     CodeBadArguments,
		Message:  ErrMsgBadArgument,
		Detail:   arg,
		Position: pos,
	}
}

func (l *Lexer) newBadAlignmentError(align string, pos Position) error {
	return &LexerError{
		Code:     CodeBadArguments,
		Message:  ErrMsgBadAlignment,
		Detail:   align,
		Position: pos,
	}
}

func (l *Lexer) newBadKeyPathError(path string, pos Position) error {
	return &LexerError{
		Code:     CodeBadArguments,
		Message:  ErrMsgBadKeyPath,
		Detail:   path,
		Position: pos,
	}
}

// LexerError represents a lexer error with position context
type LexerError struct {
	Code     string
	Message  string
	Detail   string
	Position Position
}

func (e *LexerError) Error() string {
	if e.Detail != StringValueEmpty {
		return e.Message + " " + strconv.Quote(e.Detail) + " at " + e.Position.String()
	}
	return e.Message + " at " + e.Position.String()
}

// Error message constants for lexer
const (
	ErrMsgUnterminatedTag = "unterminated tag"
	ErrMsgInvalidTagName  = "invalid tag name"
	ErrMsgBadArgument     = "malformed argument"
	ErrMsgBadAlignment    = "malformed alignment"
	ErrMsgBadKeyPath      = "malformed key path"
)
