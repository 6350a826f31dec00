// Package stache provides a compiler and renderer for a Mustache-derived
// templating language with structured control tags and an extensible tag
// registry.
//
// Templates interleave literal text with {{...}} tags:
//
//	Hello, {{Name}}!
//	{{#if Premium}}Thanks for subscribing.{{#else}}Consider upgrading.{{/if}}
//	{{#each Items}}- {{this}}
//	{{/each}}
//
// # Basic Usage
//
// Create a compiler, compile once, render many times:
//
//	compiler := stache.MustNew()
//	gen, err := compiler.Compile("Hello, {{Name}}!")
//	out, err := gen.Render(ctx, map[string]any{"Name": "Bob"})
//	// out: "Hello, Bob!"
//
// # Tag Syntax
//
// Key placeholders interpolate a dotted path with optional alignment and
// format specifier:
//
//	{{Customer.Name}}         lookup through the scope stack
//	{{Name,-10}}              left-aligned, padded to 10 characters
//	{{When:2006-01-02}}       formatted via the format provider
//
// Openers {{#NAME arg ...}} pair with closers {{/NAME}}. Built-in tags:
// if/elif/else (first truthy condition wins), each (iterates a collection,
// pushing each element as the current scope), with (pushes an expression
// for its body), and {{#! ... }} comments.
//
// A control or comment tag alone on a line is removed together with its
// surrounding whitespace and line terminator, so block structure does not
// leak blank lines into the output.
//
// # Custom Tags
//
// Extend the language by implementing TagDefinition plus one behavior
// interface and registering it:
//
//	type shout struct{}
//
//	func (shout) Name() string                { return "shout" }
//	func (shout) ContextSensitive() bool      { return false }
//	func (shout) HasCloser() bool             { return false }
//	func (shout) ChildTags() []string         { return nil }
//	func (shout) Parameters() []stache.TagParameter {
//	    return []stache.TagParameter{{Name: "word", Required: true}}
//	}
//
//	func (shout) Text(ctx context.Context, provider stache.FormatProvider, args stache.Arguments) (string, error) {
//	    word, _ := args.Get("word")
//	    return strings.ToUpper(word), nil
//	}
//
//	compiler.MustRegisterTag(shout{}, true)
//
// # Capabilities
//
// Two host capabilities are injected rather than implemented by the core:
// a FormatProvider applies format specifiers (the default handles fmt
// verbs and time.Time layouts), and a PropertyResolver looks up named
// keys on scope values (the default uses reflection over maps and
// structs).
//
// # Errors
//
// All errors are cuserr.CustomError values with a category code. Template
// syntax errors carry position metadata (line, column, offset); key lookup
// failures carry the path instead. Compile-time errors abort Compile,
// runtime errors abort Render.
package stache
