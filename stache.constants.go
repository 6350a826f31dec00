package stache

// Built-in tag names
const (
	TagNameIf      = "if"
	TagNameElif    = "elif"
	TagNameElse    = "else"
	TagNameEach    = "each"
	TagNameWith    = "with"
	TagNameComment = "#!"
)

// Reserved path identifier for the current scope
const KeywordThis = "this"

// Default configuration values
const (
	// DefaultMaxDepth is the default maximum body nesting depth during
	// rendering
	DefaultMaxDepth = 100

	// DefaultMaxFrontmatterSize is the maximum accepted YAML frontmatter
	// size in a template document
	DefaultMaxFrontmatterSize = 64 * 1024
)

// YAMLFrontmatterDelimiter separates document frontmatter from the
// template body
const YAMLFrontmatterDelimiter = "---"

// Metadata keys for cuserr.WithMetadata
const (
	MetaKeyLine     = "line"
	MetaKeyColumn   = "column"
	MetaKeyOffset   = "offset"
	MetaKeyTag      = "tag"
	MetaKeyPath     = "path"
	MetaKeyKey      = "key"
	MetaKeyParam    = "parameter"
	MetaKeyFormat   = "format"
	MetaKeyReason   = "reason"
	MetaKeyDetail   = "detail"
	MetaKeyDocument = "document"
)

// Tracing instrumentation constants
const (
	instrumentationName = "github.com/itsatony/go-stache"

	SpanNameCompile = "stache.Compile"
	SpanNameRender  = "stache.Render"

	AttrKeyTemplateLength = "stache.template_length"
	AttrKeyOutputLength   = "stache.output_length"
)
