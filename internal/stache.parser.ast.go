package internal

import (
	"fmt"
	"sort"
	"strings"
)

// Node is the interface all generator tree nodes implement
type Node interface {
	// Type returns the node type identifier
	Type() NodeType
	// Pos returns the source position of this node
	Pos() Position
	// String returns a human-readable representation
	String() string
}

// RootNode is the top-level container for a generator tree
type RootNode struct {
	Children []Node
}

// Type returns NodeTypeRoot
func (n *RootNode) Type() NodeType {
	return NodeTypeRoot
}

// Pos returns the start-of-template position (root has no specific position)
func (n *RootNode) Pos() Position {
	return Position{Offset: 0, Line: 1, Column: 1}
}

// String returns a string representation of the root node
func (n *RootNode) String() string {
	var sb strings.Builder
	sb.WriteString("RootNode{\n")
	for i, child := range n.Children {
		sb.WriteString(fmt.Sprintf("  [%d] %s\n", i, child.String()))
	}
	sb.WriteString("}")
	return sb.String()
}

// StaticNode represents literal text content, possibly rewritten by the
// standalone-line elision pass
type StaticNode struct {
	pos  Position
	Text string
}

// Type returns NodeTypeStatic
func (n *StaticNode) Type() NodeType {
	return NodeTypeStatic
}

// Pos returns the source position
func (n *StaticNode) Pos() Position {
	return n.pos
}

// String returns a string representation
func (n *StaticNode) String() string {
	text := n.Text
	if len(text) > MaxStringDisplayLength {
		text = text[:TruncatedStringLength] + TruncationSuffix
	}
	return fmt.Sprintf("StaticNode{%q @ %s}", text, n.pos)
}

// NewStaticNode creates a new static text node
func NewStaticNode(text string, pos Position) *StaticNode {
	return &StaticNode{
		pos:  pos,
		Text: text,
	}
}

// PlaceholderNode represents a key interpolation with optional alignment
// and format specifier
type PlaceholderNode struct {
	pos       Position
	Path      string
	Alignment int
	Format    string
}

// Type returns NodeTypePlaceholder
func (n *PlaceholderNode) Type() NodeType {
	return NodeTypePlaceholder
}

// Pos returns the source position
func (n *PlaceholderNode) Pos() Position {
	return n.pos
}

// String returns a string representation
func (n *PlaceholderNode) String() string {
	return fmt.Sprintf("PlaceholderNode{%s, align=%d, format=%q @ %s}", n.Path, n.Alignment, n.Format, n.pos)
}

// NewPlaceholderNode creates a new placeholder node
func NewPlaceholderNode(path string, alignment int, format string, pos Position) *PlaceholderNode {
	return &PlaceholderNode{
		pos:       pos,
		Path:      path,
		Alignment: alignment,
		Format:    format,
	}
}

// Section is a named subsection body captured inside a compound tag,
// e.g. an elif or else branch of an if
type Section struct {
	Name string
	Args Arguments
	Body []Node
	Pos  Position
}

// CompoundNode represents a registered tag with its bound arguments,
// primary body, and ordered subsections. Inline tags have a nil body.
type CompoundNode struct {
	pos      Position
	Spec     TagSpec
	Args     Arguments
	Body     []Node
	Sections []Section
}

// Type returns NodeTypeCompound
func (n *CompoundNode) Type() NodeType {
	return NodeTypeCompound
}

// Pos returns the source position
func (n *CompoundNode) Pos() Position {
	return n.pos
}

// String returns a string representation
func (n *CompoundNode) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("CompoundNode{%s, args=%s, children=%d", n.Spec.Name(), n.Args, len(n.Body)))
	for _, sec := range n.Sections {
		sb.WriteString(fmt.Sprintf(", %s(args=%s, children=%d)", sec.Name, sec.Args, len(sec.Body)))
	}
	sb.WriteString(fmt.Sprintf(" @ %s}", n.pos))
	return sb.String()
}

// NewCompoundNode creates a new compound tag node
func NewCompoundNode(spec TagSpec, args Arguments, body []Node, sections []Section, pos Position) *CompoundNode {
	return &CompoundNode{
		pos:      pos,
		Spec:     spec,
		Args:     args,
		Body:     body,
		Sections: sections,
	}
}

// Arguments holds a tag's bound argument values keyed by parameter name.
// Scalar parameters bind a string, variadic parameters a []string, and
// defaulted parameters whatever value the definition declared.
type Arguments map[string]any

// Get retrieves an argument value, returning ok=false if not bound
func (a Arguments) Get(name string) (any, bool) {
	if a == nil {
		return nil, false
	}
	v, ok := a[name]
	return v, ok
}

// GetString retrieves an argument coerced to its string form
func (a Arguments) GetString(name string) string {
	v, ok := a.Get(name)
	if !ok {
		return StringValueEmpty
	}
	return Stringify(v)
}

// GetStrings retrieves a variadic argument's values
func (a Arguments) GetStrings(name string) []string {
	v, ok := a.Get(name)
	if !ok {
		return nil
	}
	switch vv := v.(type) {
	case []string:
		return vv
	case string:
		return []string{vv}
	default:
		return []string{Stringify(vv)}
	}
}

// Has checks if an argument is bound
func (a Arguments) Has(name string) bool {
	_, ok := a.Get(name)
	return ok
}

// Keys returns all bound argument names in sorted order
func (a Arguments) Keys() []string {
	if a == nil {
		return nil
	}
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String returns a string representation of the arguments
func (a Arguments) String() string {
	if len(a) == 0 {
		return "{}"
	}
	keys := a.Keys()
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, a[k]))
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}
