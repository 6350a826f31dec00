package internal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// render compiles and renders input against the built-in registry
func render(t *testing.T, input string, data any) (string, error) {
	t.Helper()
	registry := NewRegistry(zap.NewNop())
	RegisterBuiltins(registry)

	lexer := NewLexer(input, zap.NewNop())
	tokens, err := lexer.Tokenize()
	require.NoError(t, err)

	parser := NewParser(tokens, registry, zap.NewNop())
	root, err := parser.Parse()
	require.NoError(t, err)

	state := NewState(NewScopeStack(data, nil), nil)
	renderer := NewRenderer(DefaultRendererConfig(), zap.NewNop())
	return renderer.Render(context.Background(), root, state)
}

func TestRenderer_Render_Basics(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		data     any
		expected string
	}{
		{
			name:     "static only",
			input:    "plain text",
			data:     nil,
			expected: "plain text",
		},
		{
			name:     "placeholder",
			input:    "Hello, {{Name}}!",
			data:     map[string]any{"Name": "Bob"},
			expected: "Hello, Bob!",
		},
		{
			name:     "this placeholder",
			input:    "[{{this}}]",
			data:     "X",
			expected: "[X]",
		},
		{
			name:     "nil this renders empty",
			input:    "[{{this}}]",
			data:     nil,
			expected: "[]",
		},
		{
			name:     "dotted path",
			input:    "{{Customer.Name}}",
			data:     map[string]any{"Customer": map[string]any{"Name": "Ada"}},
			expected: "Ada",
		},
		{
			name:     "alignment",
			input:    "[{{N,5}}][{{N,-5}}]",
			data:     map[string]any{"N": "ab"},
			expected: "[   ab][ab   ]",
		},
		{
			name:     "comment",
			input:    "a{{#! gone }}b",
			data:     nil,
			expected: "ab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := render(t, tt.input, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestRenderer_Render_Conditionals(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		data     any
		expected string
	}{
		{
			name:     "if true",
			input:    "a{{#if Flag}}yes{{/if}}b",
			data:     map[string]any{"Flag": true},
			expected: "ayesb",
		},
		{
			name:     "if false",
			input:    "a{{#if Flag}}yes{{/if}}b",
			data:     map[string]any{"Flag": false},
			expected: "ab",
		},
		{
			name:     "else branch",
			input:    "Before{{#if this}}Yay{{#else}}Nay{{/if}}After",
			data:     false,
			expected: "BeforeNayAfter",
		},
		{
			name:     "first elif wins",
			input:    "{{#if A}}1{{#elif B}}2{{#elif C}}3{{#else}}4{{/if}}",
			data:     map[string]any{"A": false, "B": true, "C": true},
			expected: "2",
		},
		{
			name:     "else after failed elifs",
			input:    "Before{{#if First}}First{{#elif Second}}Second{{#else}}Third{{/if}}After",
			data:     map[string]any{"First": false, "Second": false},
			expected: "BeforeThirdAfter",
		},
		{
			name:     "no branch matches",
			input:    "a{{#if A}}1{{#elif B}}2{{/if}}b",
			data:     map[string]any{"A": false, "B": false},
			expected: "ab",
		},
		{
			name:     "empty sequence is falsy",
			input:    "{{#if Items}}have{{#else}}none{{/if}}",
			data:     map[string]any{"Items": []any{}},
			expected: "none",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := render(t, tt.input, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestRenderer_Render_Each(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		data     any
		expected string
	}{
		{
			name:     "iterates pushing elements",
			input:    "Before{{#each this}}{{this}}{{/each}}After",
			data:     []any{1, 2, 3},
			expected: "Before123After",
		},
		{
			name:     "empty collection renders nothing",
			input:    "a{{#each Items}}x{{/each}}b",
			data:     map[string]any{"Items": []any{}},
			expected: "ab",
		},
		{
			name:     "nil collection renders nothing",
			input:    "a{{#each Items}}x{{/each}}b",
			data:     map[string]any{"Items": nil},
			expected: "ab",
		},
		{
			name:     "element fields",
			input:    "{{#each Users}}<{{Name}}>{{/each}}",
			data:     map[string]any{"Users": []any{map[string]any{"Name": "a"}, map[string]any{"Name": "b"}}},
			expected: "<a><b>",
		},
		{
			name:     "outer scope visible inside loop",
			input:    "{{#each Items}}{{Sep}}{{this}}{{/each}}",
			data:     map[string]any{"Items": []any{1, 2}, "Sep": "-"},
			expected: "-1-2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := render(t, tt.input, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestRenderer_Render_With(t *testing.T) {
	out, err := render(t, "{{#with Customer}}{{Name}} in {{Address.City}}{{/with}}",
		map[string]any{
			"Customer": map[string]any{
				"Name":    "Ada",
				"Address": map[string]any{"City": "London"},
			},
		})
	require.NoError(t, err)
	assert.Equal(t, "Ada in London", out)
}

func TestRenderer_Render_ScopeRestoredAfterBlock(t *testing.T) {
	out, err := render(t, "{{#with Inner}}{{Value}}{{/with}}{{Value}}",
		map[string]any{
			"Inner": map[string]any{"Value": "in"},
			"Value": "out",
		})
	require.NoError(t, err)
	assert.Equal(t, "inout", out)
}

func TestRenderer_Render_Errors(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		_, err := render(t, "{{Missing}}", map[string]any{})
		require.Error(t, err)

		var renderErr *RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, CodeKeyNotFound, renderErr.Code)
		assert.Equal(t, "Missing", renderErr.Detail)
	})

	t.Run("missing condition key", func(t *testing.T) {
		_, err := render(t, "{{#if Missing}}x{{/if}}", map[string]any{})
		require.Error(t, err)

		var resolveErr *ResolveError
		require.ErrorAs(t, err, &resolveErr)
		assert.Equal(t, "Missing", resolveErr.Path)
	})

	t.Run("each over scalar", func(t *testing.T) {
		_, err := render(t, "{{#each N}}x{{/each}}", map[string]any{"N": 42})
		require.Error(t, err)

		var renderErr *RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, CodeBadCollection, renderErr.Code)
	})
}

func TestRenderer_Render_StandaloneScenarios(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		data     any
		expected string
	}{
		{
			name:     "if block on own lines",
			input:    "{{#if this}}\nContent\n{{/if}}",
			data:     true,
			expected: "Content",
		},
		{
			name:     "comment line disappears",
			input:    "{{#! c }}\n{{this}}",
			data:     "X",
			expected: "X",
		},
		{
			name:     "each lines disappear",
			input:    "{{#each this}}\n{{this}}\n{{/each}}",
			data:     []any{1, 2},
			expected: "12",
		},
		{
			name:     "key line keeps its terminator",
			input:    "{{this}}\n",
			data:     "X",
			expected: "X\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := render(t, tt.input, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}
