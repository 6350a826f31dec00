package stache

import (
	"context"
	"os"
	"strings"

	"github.com/itsatony/go-cuserr"
	"gopkg.in/yaml.v3"
)

// Document is a template file with optional YAML frontmatter. The
// frontmatter carries a name, a description, and default data that merges
// under caller-supplied data at render time; everything after the closing
// delimiter is the template body.
type Document struct {
	// Name is an optional document identifier
	Name string `yaml:"name,omitempty"`

	// Description is an optional human-readable summary
	Description string `yaml:"description,omitempty"`

	// Data holds default values available during rendering
	Data map[string]any `yaml:"data,omitempty"`

	// Body is the template source after the frontmatter
	Body string `yaml:"-"`

	generator *Generator
}

// ParseDocument parses a document into frontmatter and body. The document
// must start with --- and have a closing --- delimiter; without
// frontmatter the entire content is the body. A nil or empty document is
// the absent-template error.
func ParseDocument(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, NewNullTemplateError()
	}

	content := string(data)

	// Trim BOM
	content = strings.TrimPrefix(content, "\xef\xbb\xbf")

	if !strings.HasPrefix(content, YAMLFrontmatterDelimiter) {
		return &Document{Body: content}, nil
	}

	// Skip opening delimiter and newline
	afterOpening := content[len(YAMLFrontmatterDelimiter):]
	if len(afterOpening) > 0 && afterOpening[0] == '\n' {
		afterOpening = afterOpening[1:]
	} else if len(afterOpening) > 1 && afterOpening[0] == '\r' && afterOpening[1] == '\n' {
		afterOpening = afterOpening[2:]
	}

	// Find closing delimiter
	closeIdx := strings.Index(afterOpening, "\n"+YAMLFrontmatterDelimiter)
	if closeIdx == -1 {
		return nil, cuserr.NewValidationError(ErrCodeDocument, ErrMsgFrontmatterUnclosed)
	}

	fmYAML := afterOpening[:closeIdx]
	if len(fmYAML) > DefaultMaxFrontmatterSize {
		return nil, cuserr.NewValidationError(ErrCodeDocument, ErrMsgFrontmatterTooLarge)
	}

	// Extract body (after closing delimiter and newline)
	bodyStart := closeIdx + len("\n"+YAMLFrontmatterDelimiter)
	body := ""
	if bodyStart < len(afterOpening) {
		body = afterOpening[bodyStart:]
		if len(body) > 0 && body[0] == '\n' {
			body = body[1:]
		} else if len(body) > 1 && body[0] == '\r' && body[1] == '\n' {
			body = body[2:]
		}
	}

	var doc Document
	if err := yaml.Unmarshal([]byte(fmYAML), &doc); err != nil {
		return nil, cuserr.WrapStdError(err, ErrCodeDocument, ErrMsgFrontmatterInvalid)
	}

	doc.Body = body
	return &doc, nil
}

// CompileDocument parses a document and compiles its body. The returned
// document renders with its frontmatter defaults applied.
func (c *Compiler) CompileDocument(data []byte) (*Document, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}

	gen, err := c.Compile(doc.Body)
	if err != nil {
		return nil, err
	}

	doc.generator = gen
	return doc, nil
}

// CompileDocumentFile reads and compiles a document from a file.
func (c *Compiler) CompileDocumentFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cuserr.WrapStdError(err, ErrCodeDocument, ErrMsgDocumentReadFailed).
			WithMetadata(MetaKeyDocument, path)
	}
	return c.CompileDocument(data)
}

// Generator returns the document's compiled generator, or nil when the
// document was parsed without compilation.
func (d *Document) Generator() *Generator {
	return d.generator
}

// Render renders the compiled document. When data is nil, the frontmatter
// defaults are the data; when data is a map[string]any, frontmatter
// defaults fill in keys the caller did not supply; other data shapes
// (including other map types) render as-is.
func (d *Document) Render(ctx context.Context, data any, opts ...RenderOption) (string, error) {
	if d.generator == nil {
		return "", NewNullTemplateError()
	}
	return d.generator.Render(ctx, d.mergeDefaults(data), opts...)
}

// mergeDefaults overlays caller data on the document's default data
func (d *Document) mergeDefaults(data any) any {
	if len(d.Data) == 0 {
		return data
	}
	if data == nil {
		return d.Data
	}

	m, ok := data.(map[string]any)
	if !ok {
		return data
	}

	merged := make(map[string]any, len(d.Data)+len(m))
	for k, v := range d.Data {
		merged[k] = v
	}
	for k, v := range m {
		merged[k] = v
	}
	return merged
}
