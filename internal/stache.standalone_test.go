package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// elide tokenizes the input and runs the elision pass with the built-in
// registry's qualification rules
func elide(t *testing.T, input string) []Token {
	t.Helper()
	registry := NewRegistry(zap.NewNop())
	RegisterBuiltins(registry)

	lexer := NewLexer(input, zap.NewNop())
	tokens, err := lexer.Tokenize()
	require.NoError(t, err)

	return ElideStandaloneLines(tokens, registry.Qualifies, zap.NewNop())
}

// literalTexts extracts the literal token texts in order
func literalTexts(tokens []Token) []string {
	var texts []string
	for _, tok := range tokens {
		if tok.IsLiteral() {
			texts = append(texts, tok.Text)
		}
	}
	return texts
}

func TestElideStandaloneLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "opener and closer on own lines",
			input:    "A\n{{#if x}}\nB\n{{/if}}\nC",
			expected: []string{"A\n", "B\n", "C"},
		},
		{
			name:     "opener at start of template",
			input:    "{{#if x}}\nContent\n{{/if}}",
			expected: []string{"Content"},
		},
		{
			name:     "comment line elided",
			input:    "{{#! c }}\n{{this}}",
			expected: nil,
		},
		{
			name:     "comment line with surrounding whitespace",
			input:    " \t{{#! c }} \nX",
			expected: []string{"X"},
		},
		{
			name:     "whole template is one comment line",
			input:    "  {{#! c }}  \n",
			expected: nil,
		},
		{
			name:     "two qualifying tags on one line",
			input:    "{{#! a }} {{#! b }}\nX",
			expected: []string{"X"},
		},
		{
			name:     "consecutive standalone lines",
			input:    "{{#! a }}\n{{#! b }}",
			expected: nil,
		},
		{
			name:     "mixed line with text is preserved",
			input:    "text {{#! c }}\n",
			expected: []string{"text ", "\n"},
		},
		{
			name:     "key line is preserved",
			input:    "  {{Name}}  \n",
			expected: []string{"  ", "  \n"},
		},
		{
			name:     "key next to comment disqualifies the line",
			input:    "{{Name}} {{#! c }}\n",
			expected: []string{" ", "\n"},
		},
		{
			name:     "inline tags on shared line stay",
			input:    "Before{{#if this}}Yay{{#else}}Nay{{/if}}After",
			expected: []string{"Before", "Yay", "Nay", "After"},
		},
		{
			name:     "crlf terminators",
			input:    "{{#if x}}\r\nB\r\n{{/if}}",
			expected: []string{"B"},
		},
		{
			name:     "trailing whitespace after final closer",
			input:    "A\nB\n{{/if}}  ",
			expected: []string{"A\nB"},
		},
		{
			name:     "subsection tags qualify",
			input:    "{{#if x}}\nA\n{{#else}}\nB\n{{/if}}",
			expected: []string{"A\n", "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := elide(t, tt.input)
			require.Equal(t, tt.expected, literalTexts(tokens))
		})
	}
}
