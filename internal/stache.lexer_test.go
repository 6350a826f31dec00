package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func assertTokensMatch(t *testing.T, expected, actual []Token) {
	t.Helper()
	require.Equal(t, len(expected), len(actual), "token count mismatch: %v", actual)
	for i := range expected {
		assert.Equal(t, expected[i], actual[i], "token %d", i)
	}
}

func TestLexer_Tokenize_PlainText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "empty string",
			input: "",
			expected: []Token{
				{Type: TokenTypeEOF, Position: Position{Offset: 0, Line: 1, Column: 1}},
			},
		},
		{
			name:  "simple text",
			input: "Hello, world!",
			expected: []Token{
				{Type: TokenTypeLiteral, Text: "Hello, world!", Position: Position{Offset: 0, Line: 1, Column: 1}},
				{Type: TokenTypeEOF, Position: Position{Offset: 13, Line: 1, Column: 14}},
			},
		},
		{
			name:  "multiline text",
			input: "Line 1\nLine 2",
			expected: []Token{
				{Type: TokenTypeLiteral, Text: "Line 1\nLine 2", Position: Position{Offset: 0, Line: 1, Column: 1}},
				{Type: TokenTypeEOF, Position: Position{Offset: 13, Line: 2, Column: 7}},
			},
		},
		{
			name:  "single braces are literal",
			input: "a { b } c",
			expected: []Token{
				{Type: TokenTypeLiteral, Text: "a { b } c", Position: Position{Offset: 0, Line: 1, Column: 1}},
				{Type: TokenTypeEOF, Position: Position{Offset: 9, Line: 1, Column: 10}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lexer := NewLexer(tt.input, zap.NewNop())
			tokens, err := lexer.Tokenize()
			require.NoError(t, err)
			assertTokensMatch(t, tt.expected, tokens)
		})
	}
}

func TestLexer_Tokenize_KeyPlaceholders(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "bare key",
			input: "Hello, {{Name}}!",
			expected: []Token{
				{Type: TokenTypeLiteral, Text: "Hello, ", Position: Position{Offset: 0, Line: 1, Column: 1}},
				{Type: TokenTypeTagOpen, Path: "Name", Position: Position{Offset: 7, Line: 1, Column: 8}},
				{Type: TokenTypeLiteral, Text: "!", Position: Position{Offset: 15, Line: 1, Column: 16}},
				{Type: TokenTypeEOF, Position: Position{Offset: 16, Line: 1, Column: 17}},
			},
		},
		{
			name:  "dotted path",
			input: "{{Customer.Address.City}}",
			expected: []Token{
				{Type: TokenTypeTagOpen, Path: "Customer.Address.City", Position: Position{Offset: 0, Line: 1, Column: 1}},
				{Type: TokenTypeEOF, Position: Position{Offset: 25, Line: 1, Column: 26}},
			},
		},
		{
			name:  "this keyword",
			input: "{{this}}",
			expected: []Token{
				{Type: TokenTypeTagOpen, Path: "this", Position: Position{Offset: 0, Line: 1, Column: 1}},
				{Type: TokenTypeEOF, Position: Position{Offset: 8, Line: 1, Column: 9}},
			},
		},
		{
			name:  "negative alignment",
			input: "{{Name,-10}}",
			expected: []Token{
				{Type: TokenTypeTagOpen, Path: "Name", Alignment: -10, Position: Position{Offset: 0, Line: 1, Column: 1}},
				{Type: TokenTypeEOF, Position: Position{Offset: 12, Line: 1, Column: 13}},
			},
		},
		{
			name:  "explicit positive alignment",
			input: "{{Name,+10}}",
			expected: []Token{
				{Type: TokenTypeTagOpen, Path: "Name", Alignment: 10, Position: Position{Offset: 0, Line: 1, Column: 1}},
				{Type: TokenTypeEOF, Position: Position{Offset: 12, Line: 1, Column: 13}},
			},
		},
		{
			name:  "format specifier",
			input: "{{When:yyyyMMdd}}",
			expected: []Token{
				{Type: TokenTypeTagOpen, Path: "When", Format: "yyyyMMdd", Position: Position{Offset: 0, Line: 1, Column: 1}},
				{Type: TokenTypeEOF, Position: Position{Offset: 17, Line: 1, Column: 18}},
			},
		},
		{
			name:  "alignment and format",
			input: "{{Total,12:%.2f}}",
			expected: []Token{
				{Type: TokenTypeTagOpen, Path: "Total", Alignment: 12, Format: "%.2f", Position: Position{Offset: 0, Line: 1, Column: 1}},
				{Type: TokenTypeEOF, Position: Position{Offset: 17, Line: 1, Column: 18}},
			},
		},
		{
			name:  "whitespace around path and alignment",
			input: "{{ Name , 5 }}",
			expected: []Token{
				{Type: TokenTypeTagOpen, Path: "Name", Alignment: 5, Position: Position{Offset: 0, Line: 1, Column: 1}},
				{Type: TokenTypeEOF, Position: Position{Offset: 14, Line: 1, Column: 15}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lexer := NewLexer(tt.input, zap.NewNop())
			tokens, err := lexer.Tokenize()
			require.NoError(t, err)
			assertTokensMatch(t, tt.expected, tokens)
		})
	}
}

func TestLexer_Tokenize_Tags(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "opener with argument and closer",
			input: "{{#if User.Active}}yes{{/if}}",
			expected: []Token{
				{Type: TokenTypeTagOpen, Name: "if", Args: []string{"User.Active"}, Position: Position{Offset: 0, Line: 1, Column: 1}},
				{Type: TokenTypeLiteral, Text: "yes", Position: Position{Offset: 19, Line: 1, Column: 20}},
				{Type: TokenTypeTagClose, Name: "if", Position: Position{Offset: 22, Line: 1, Column: 23}},
				{Type: TokenTypeEOF, Position: Position{Offset: 29, Line: 1, Column: 30}},
			},
		},
		{
			name:  "opener without arguments",
			input: "{{#else}}",
			expected: []Token{
				{Type: TokenTypeTagOpen, Name: "else", Position: Position{Offset: 0, Line: 1, Column: 1}},
				{Type: TokenTypeEOF, Position: Position{Offset: 9, Line: 1, Column: 10}},
			},
		},
		{
			name:  "multiple arguments",
			input: "{{#join Items sep}}",
			expected: []Token{
				{Type: TokenTypeTagOpen, Name: "join", Args: []string{"Items", "sep"}, Position: Position{Offset: 0, Line: 1, Column: 1}},
				{Type: TokenTypeEOF, Position: Position{Offset: 19, Line: 1, Column: 20}},
			},
		},
		{
			name:  "whitespace inside tag",
			input: "{{# each   Items  }}",
			expected: []Token{
				{Type: TokenTypeTagOpen, Name: "each", Args: []string{"Items"}, Position: Position{Offset: 0, Line: 1, Column: 1}},
				{Type: TokenTypeEOF, Position: Position{Offset: 20, Line: 1, Column: 21}},
			},
		},
		{
			name:  "closer with whitespace",
			input: "{{/ each }}",
			expected: []Token{
				{Type: TokenTypeTagClose, Name: "each", Position: Position{Offset: 0, Line: 1, Column: 1}},
				{Type: TokenTypeEOF, Position: Position{Offset: 11, Line: 1, Column: 12}},
			},
		},
		{
			name:  "comment",
			input: "{{#! a note }}",
			expected: []Token{
				{Type: TokenTypeTagOpen, Name: TagNameComment, Text: " a note ", Position: Position{Offset: 0, Line: 1, Column: 1}},
				{Type: TokenTypeEOF, Position: Position{Offset: 14, Line: 1, Column: 15}},
			},
		},
		{
			name:  "comment swallows braces-like text",
			input: "{{#! {single} }}",
			expected: []Token{
				{Type: TokenTypeTagOpen, Name: TagNameComment, Text: " {single} ", Position: Position{Offset: 0, Line: 1, Column: 1}},
				{Type: TokenTypeEOF, Position: Position{Offset: 16, Line: 1, Column: 17}},
			},
		},
		{
			name:  "numeric argument",
			input: "{{#repeat this 3}}",
			expected: []Token{
				{Type: TokenTypeTagOpen, Name: "repeat", Args: []string{"this", "3"}, Position: Position{Offset: 0, Line: 1, Column: 1}},
				{Type: TokenTypeEOF, Position: Position{Offset: 18, Line: 1, Column: 19}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lexer := NewLexer(tt.input, zap.NewNop())
			tokens, err := lexer.Tokenize()
			require.NoError(t, err)
			assertTokensMatch(t, tt.expected, tokens)
		})
	}
}

func TestLexer_Tokenize_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode string
	}{
		{
			name:     "unterminated key",
			input:    "{{Name",
			wantCode: CodeUnterminatedTag,
		},
		{
			name:     "unterminated opener",
			input:    "{{#if Cond",
			wantCode: CodeUnterminatedTag,
		},
		{
			name:     "unterminated comment",
			input:    "{{#! never ends",
			wantCode: CodeUnterminatedTag,
		},
		{
			name:     "unterminated closer",
			input:    "{{/if",
			wantCode: CodeUnterminatedTag,
		},
		{
			name:     "malformed alignment",
			input:    "{{Name,abc}}",
			wantCode: CodeBadArguments,
		},
		{
			name:     "empty alignment",
			input:    "{{Name,}}",
			wantCode: CodeBadArguments,
		},
		{
			name:     "key starting with digit",
			input:    "{{9Name}}",
			wantCode: CodeBadArguments,
		},
		{
			name:     "empty path segment",
			input:    "{{A..B}}",
			wantCode: CodeBadArguments,
		},
		{
			name:     "empty key",
			input:    "{{}}",
			wantCode: CodeBadArguments,
		},
		{
			name:     "malformed tag argument",
			input:    "{{#if a=b}}",
			wantCode: CodeBadArguments,
		},
		{
			name:     "missing tag name",
			input:    "{{#}}",
			wantCode: CodeBadArguments,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lexer := NewLexer(tt.input, zap.NewNop())
			_, err := lexer.Tokenize()
			require.Error(t, err)

			var lexErr *LexerError
			require.ErrorAs(t, err, &lexErr)
			assert.Equal(t, tt.wantCode, lexErr.Code)
		})
	}
}

func TestLexer_Tokenize_PositionTracking(t *testing.T) {
	input := "a\n{{Name}}"
	lexer := NewLexer(input, zap.NewNop())
	tokens, err := lexer.Tokenize()
	require.NoError(t, err)

	expected := []Token{
		{Type: TokenTypeLiteral, Text: "a\n", Position: Position{Offset: 0, Line: 1, Column: 1}},
		{Type: TokenTypeTagOpen, Path: "Name", Position: Position{Offset: 2, Line: 2, Column: 1}},
		{Type: TokenTypeEOF, Position: Position{Offset: 10, Line: 2, Column: 9}},
	}
	assertTokensMatch(t, expected, tokens)
}
